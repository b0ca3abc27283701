// Package output maps entities to output files and resolves reference
// placeholders into links between those files.
package output

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/dgallion1/doxymark/internal/doctree"
	"github.com/dgallion1/doxymark/internal/render"
)

// Placeholder is substituted with a group or class name in Layout.Output.
const Placeholder = "%s"

// Layout describes how entities are spread over output files.
type Layout struct {
	Output  string // output path, contains Placeholder in group or class mode
	Groups  bool   // one file per group
	Classes bool   // one file per namespace and class
	Pages   bool   // one file per page
}

var classNameReplacer = strings.NewReplacer(":", "-", "<", "(", ">", ")")

// CompoundPath returns the file an entity is written to.
func (l Layout) CompoundPath(e *doctree.Entity) string {
	switch {
	case e.Kind == "page":
		return filepath.Join(filepath.Dir(l.Output), "page-"+e.Name+".md")
	case l.Groups:
		return strings.ReplaceAll(l.Output, Placeholder, e.GroupName)
	case l.Classes:
		return strings.ReplaceAll(l.Output, Placeholder, classNameReplacer.Replace(e.Name))
	default:
		return l.Output
	}
}

// TargetPath returns the file holding the documentation of e, or "" when
// no file does.
func (l Layout) TargetPath(e *doctree.Entity) string {
	if page := e.Nearest("page"); page != nil && (l.Pages || l.Groups) {
		return l.CompoundPath(page)
	}
	switch {
	case l.Groups:
		for cur := e; cur != nil; cur = cur.Parent {
			if cur.GroupName != "" {
				return l.CompoundPath(cur)
			}
		}
		return ""
	case l.Classes:
		owner := e.Nearest("namespace", "class", "struct", "interface")
		if owner == nil {
			return ""
		}
		return l.CompoundPath(owner)
	default:
		return l.Output
	}
}

// Resolver rewrites reference placeholders into links.
type Resolver struct {
	layout Layout
	refs   *doctree.RefTable
	log    *slog.Logger
}

func NewResolver(layout Layout, refs *doctree.RefTable, log *slog.Logger) *Resolver {
	return &Resolver{layout: layout, refs: refs, log: log}
}

// Resolve replaces every placeholder in text with "#id" when the target is
// documented in the current file, or with a path relative to the current
// file followed by "#id".
func (r *Resolver) Resolve(text string, current *doctree.Entity) string {
	from := r.layout.CompoundPath(current)
	return render.RefPattern.ReplaceAllStringFunc(text, func(m string) string {
		id := render.RefPattern.FindStringSubmatch(m)[1]
		return r.link(id, from)
	})
}

func (r *Resolver) link(id, from string) string {
	target, ok := r.refs.Get(id)
	if !ok {
		r.log.Debug("unresolved reference", "id", id, "file", from)
		return "#" + id
	}
	to := r.layout.TargetPath(target)
	if to == "" {
		r.log.Debug("reference target has no output file", "id", id, "kind", target.Kind)
		return "#" + id
	}
	if filepath.Clean(to) == filepath.Clean(from) {
		return "#" + id
	}
	rel, err := filepath.Rel(filepath.Dir(from), to)
	if err != nil {
		rel = to
	}
	return filepath.ToSlash(rel) + "#" + id
}
