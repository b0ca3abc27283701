package parser

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgallion1/doxymark/internal/doctree"
	"github.com/dgallion1/doxymark/internal/markup"
	"github.com/dgallion1/doxymark/internal/render"
)

// Builder turns an index document and its compound documents into a tree.
type Builder struct {
	refs *doctree.RefTable
	md   *render.Renderer
	log  *slog.Logger
}

func NewBuilder(md *render.Renderer, log *slog.Logger) *Builder {
	return &Builder{
		refs: doctree.NewRefTable(),
		md:   md,
		log:  log,
	}
}

// Refs returns the reference table populated by Build.
func (b *Builder) Refs() *doctree.RefTable {
	return b.refs
}

// Build registers every compound and member declared by index under root,
// then parses each non-file compound's own document in index order.
func (b *Builder) Build(root *doctree.Entity, index *markup.Node, load Loader) error {
	var order []*doctree.Entity
	for _, el := range index.ChildrenNamed("compound") {
		c := b.register(root, el)
		order = append(order, c)
	}

	for _, c := range order {
		if c.Kind == "file" {
			continue
		}
		doc, err := load.Load(c.RefID)
		if err != nil {
			return fmt.Errorf("load compound %s: %w", c.RefID, err)
		}
		def := doc
		if def.Tag != "compounddef" {
			def = doc.Child("compounddef")
		}
		if def == nil {
			return fmt.Errorf("load compound %s: no compounddef element", c.RefID)
		}
		b.parseCompound(c, def)
	}

	b.log.Debug("doxygen tree built", "compounds", len(order), "references", b.refs.Len())
	return nil
}

// register find-or-creates the compound for an index entry and records its
// members as lightweight entities.
func (b *Builder) register(root *doctree.Entity, el *markup.Node) *doctree.Entity {
	refid := el.Attr("refid")
	c := root.Find(refid, text(el.Child("name")), true)
	c.RefID = refid
	c.Kind = el.Attr("kind")
	b.refs.Add(c)

	for _, mel := range el.ChildrenNamed("member") {
		m := &doctree.Entity{
			ID:     mel.Attr("refid"),
			RefID:  mel.Attr("refid"),
			Kind:   mel.Attr("kind"),
			Name:   text(mel.Child("name")),
			Parent: c,
		}
		c.Members = append(c.Members, m)
		b.refs.Add(m)
	}
	return c
}

func (b *Builder) parseCompound(c *doctree.Entity, def *markup.Node) {
	for k, v := range def.Attrs {
		switch k {
		case "id":
		case "kind":
			c.Kind = v
		default:
			c.SetAttr(k, v)
		}
	}
	c.FullName = text(def.Child("compoundname"))
	if t := def.Child("title"); t != nil {
		c.Title = text(t)
	}
	b.describe(c, def)

	for _, ref := range def.ChildrenNamed("basecompoundref") {
		c.BaseCompoundRef = append(c.BaseCompoundRef, doctree.BaseRef{
			Prot: ref.Attr("prot"),
			Name: text(ref),
		})
	}

	for _, sec := range def.ChildrenNamed("sectiondef") {
		for _, mdef := range sec.ChildrenNamed("memberdef") {
			m := b.memberFor(c, mdef)
			if c.Kind == "group" {
				m.GroupID = c.ID
				m.GroupName = c.Name
			}
			b.parseMember(m, sec.Attr("kind"), mdef)
		}
	}

	c.Proto = oneLine(c.Kind + " " + render.RefLink(c.Name, c.RefID))

	switch c.Kind {
	case "class", "struct", "union", "typedef":
		c.Namespace = namespaceOf(c.Name)

	case "page":
		b.extractPageSections(c, def)

	case "namespace", "group":
		if c.Kind == "group" {
			c.GroupID = c.ID
			c.GroupName = c.Name
		}
		for _, inner := range def.ChildrenNamed("innerclass") {
			child, ok := b.lookup(c, inner)
			if !ok {
				continue
			}
			if c.Kind == "namespace" {
				b.assignToNamespace(c, child)
			} else {
				assignClassToGroup(c, child)
			}
		}
		for _, inner := range def.ChildrenNamed("innernamespace") {
			child, ok := b.lookup(c, inner)
			if !ok {
				continue
			}
			// Nested namespaces stay at the root and are only linked.
			assignNamespaceToGroup(c, child)
		}
	}
}

// memberFor returns the registered entity for a memberdef, creating and
// attaching one when the index did not declare it.
func (b *Builder) memberFor(c *doctree.Entity, mdef *markup.Node) *doctree.Entity {
	id := mdef.Attr("id")
	if m, ok := b.refs.Get(id); ok {
		return m
	}
	b.log.Warn("member missing from index", "compound", c.ID, "member", id)
	m := &doctree.Entity{
		ID:     id,
		RefID:  id,
		Kind:   mdef.Attr("kind"),
		Name:   text(mdef.Child("name")),
		Parent: c,
	}
	c.Members = append(c.Members, m)
	b.refs.Add(m)
	return m
}

func (b *Builder) lookup(c *doctree.Entity, inner *markup.Node) (*doctree.Entity, bool) {
	refid := inner.Attr("refid")
	child, ok := b.refs.Get(refid)
	if !ok {
		b.log.Warn("unknown inner compound", "compound", c.ID, "tag", inner.Tag, "refid", refid)
	}
	return child, ok
}

// describe fills the description fields and summary of e from def.
func (b *Builder) describe(e *doctree.Entity, def *markup.Node) {
	e.BriefDescription = strings.TrimSpace(b.md.Markdown(def.Child("briefdescription")))
	e.DetailedDescription = strings.TrimSpace(b.md.Markdown(def.Child("detaileddescription")))
	e.Summary = summarize(e.BriefDescription, e.DetailedDescription)
}

func summarize(brief, detailed string) string {
	if brief != "" {
		return brief
	}
	first, _, _ := strings.Cut(detailed, "\n")
	return first
}

func (b *Builder) assignToNamespace(ns, child *doctree.Entity) {
	if child.Namespace == "" && isClassLike(child.Kind) {
		child.Namespace = namespaceOf(child.Name)
	}
	if isClassLike(child.Kind) && child.Namespace != ns.Name {
		b.log.Warn("namespace mismatch", "namespace", ns.Name, "child", child.Name, "child_namespace", child.Namespace)
	}
	ns.Adopt(child)
}

func assignClassToGroup(group, class *doctree.Entity) {
	group.Link(class)
	class.GroupID = group.ID
	class.GroupName = group.Name
	for _, m := range class.Members {
		m.GroupID = group.ID
		m.GroupName = group.Name
	}
}

// assignNamespaceToGroup lists ns under group and drops group entries that
// ns already lists, so the namespace's classes appear once.
func assignNamespaceToGroup(group, ns *doctree.Entity) {
	group.Link(ns)
	for _, id := range ns.Compounds.IDs() {
		if id != ns.ID {
			group.Compounds.Remove(id)
		}
	}
}

func (b *Builder) extractPageSections(page *doctree.Entity, def *markup.Node) {
	def.Walk(func(n *markup.Node) {
		if n.Kind != markup.KindSect || n.Level() > 3 {
			return
		}
		id := n.Attr("id")
		m := &doctree.Entity{
			ID:      id,
			RefID:   id,
			Name:    id,
			Section: n.Tag,
			Parent:  page,
		}
		page.Members = append(page.Members, m)
		b.refs.Add(m)
	})
}

func isClassLike(kind string) bool {
	switch kind {
	case "class", "struct", "union", "typedef":
		return true
	}
	return false
}

func namespaceOf(name string) string {
	parts := strings.Split(name, "::")
	return strings.Join(parts[:len(parts)-1], "::")
}

func text(n *markup.Node) string {
	return strings.TrimSpace(n.TextContent())
}
