// Package templates renders documentation entities through Markdown
// templates, one template per entity kind.
package templates

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"regexp"
	"strings"
	"text/template"

	"github.com/dgallion1/doxymark/internal/doctree"
	"github.com/dgallion1/doxymark/internal/render"
)

//go:embed cpp/*.md
var defaults embed.FS

// DefaultLanguage is the embedded template set used when a language has no
// templates of its own.
const DefaultLanguage = "cpp"

// Names lists the template names an engine looks for.
var Names = []string{"index", "namespace", "class", "page"}

// ErrTemplateNotFound is returned when an entity needs a template the
// engine does not have.
var ErrTemplateNotFound = errors.New("template not found")

var blankRuns = regexp.MustCompile(`(\r\n|\r|\n){3,}`)

// Engine holds parsed templates.
type Engine struct {
	set map[string]*template.Template
	log *slog.Logger
}

// Load parses templates from dir, or from the embedded set for language when
// dir is empty. Missing templates are reported when first needed.
func Load(dir, language string, anchors render.AnchorStyle, log *slog.Logger) (*Engine, error) {
	var fsys fs.FS
	var root string
	switch {
	case dir != "":
		fsys, root = os.DirFS(dir), "."
	case hasLanguage(language):
		fsys, root = defaults, language
	default:
		log.Debug("no embedded templates for language, using default", "language", language, "default", DefaultLanguage)
		fsys, root = defaults, DefaultLanguage
	}

	funcs := Funcs(anchors)
	e := &Engine{set: make(map[string]*template.Template), log: log}
	for _, name := range Names {
		src, err := fs.ReadFile(fsys, path.Join(root, name+".md"))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read template %s: %w", name, err)
		}
		tpl, err := template.New(name).Funcs(funcs).Option("missingkey=error").Parse(string(src))
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		e.set[name] = tpl
	}
	return e, nil
}

func hasLanguage(language string) bool {
	if language == "" {
		return false
	}
	_, err := fs.Stat(defaults, language)
	return err == nil
}

// TemplateFor picks the template name for an entity. ok is false when the
// entity is not rendered on its own.
func TemplateFor(e *doctree.Entity) (name string, ok bool) {
	switch e.Kind {
	case doctree.KindIndex:
		return "index", true
	case "page":
		return "page", true
	case "group", "namespace":
		if all := e.Compounds.All(); len(all) == 1 && all[0].Kind == "namespace" {
			return "", false
		}
		return "namespace", true
	case "class", "struct", "interface":
		return "class", true
	}
	return "", false
}

// Render renders a single entity. rendered is false when the entity kind has
// no output of its own.
func (e *Engine) Render(ent *doctree.Entity) (out string, rendered bool, err error) {
	name, ok := TemplateFor(ent)
	if !ok {
		if !isQuiet(ent.Kind) {
			e.log.Warn("no template for kind", "kind", ent.Kind, "id", ent.ID)
		}
		return "", false, nil
	}

	tpl, ok := e.set[name]
	if !ok {
		return "", false, fmt.Errorf("render %s %s: %w: %s", ent.Kind, ent.ID, ErrTemplateNotFound, name)
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, ent); err != nil {
		return "", false, fmt.Errorf("render %s %s: %w", ent.Kind, ent.ID, err)
	}
	return blankRuns.ReplaceAllString(buf.String(), "${1}\n"), true, nil
}

// RenderAll renders entities in order and concatenates the output.
func (e *Engine) RenderAll(ents []*doctree.Entity) (string, error) {
	var parts []string
	for _, ent := range ents {
		out, ok, err := e.Render(ent)
		if err != nil {
			return "", err
		}
		if ok {
			parts = append(parts, out)
		}
	}
	return strings.Join(parts, ""), nil
}

// isQuiet reports kinds that are skipped without a warning: groups of a
// single namespace are expected to produce nothing.
func isQuiet(kind string) bool {
	return kind == "group" || kind == "namespace"
}
