package parser

import (
	"strings"

	"github.com/dgallion1/doxymark/internal/doctree"
	"github.com/dgallion1/doxymark/internal/markup"
	"github.com/dgallion1/doxymark/internal/render"
)

// parseMember fills a member entity from its memberdef element.
func (b *Builder) parseMember(m *doctree.Entity, section string, mdef *markup.Node) {
	m.Section = section
	for k, v := range mdef.Attrs {
		switch k {
		case "id":
		case "kind":
			m.Kind = v
		default:
			m.SetAttr(k, v)
		}
	}
	if m.Name == "" {
		m.Name = text(mdef.Child("name"))
	}
	b.describe(m, mdef)

	var p strings.Builder
	link := render.RefLink(m.Name, m.RefID)

	switch m.Kind {
	case "signal", "slot":
		p.WriteString("{" + m.Kind + "} " + m.Kind + " " + link)

	case "function":
		b.functionProto(&p, m, mdef, link)

	case "variable":
		p.WriteString(m.Attr("prot") + " ")
		if m.Attr("static") == "yes" {
			p.WriteString("static ")
		}
		if m.Attr("mutable") == "yes" {
			p.WriteString("mutable ")
		}
		p.WriteString(b.md.Markdown(mdef.Child("type")) + " ")
		p.WriteString(link)

	case "property":
		p.WriteString("{property} ")
		p.WriteString(b.md.Markdown(mdef.Child("type")) + " ")
		p.WriteString(link)

	case "enum":
		m.EnumValues = m.EnumValues[:0]
		for _, ev := range mdef.ChildrenNamed("enumvalue") {
			brief := strings.TrimSpace(b.md.Markdown(ev.Child("briefdescription")))
			detailed := strings.TrimSpace(b.md.Markdown(ev.Child("detaileddescription")))
			m.EnumValues = append(m.EnumValues, doctree.EnumValue{
				Name:     strings.TrimSpace(b.md.Markdown(ev.Child("name"))),
				Brief:    brief,
				Detailed: detailed,
				Summary:  summarize(brief, detailed),
			})
		}
		p.WriteString("enum " + link)

	default:
		p.WriteString(m.Kind + " " + link)
	}

	m.Proto = oneLine(p.String())
}

func (b *Builder) functionProto(p *strings.Builder, m *doctree.Entity, mdef *markup.Node, link string) {
	p.WriteString(m.Attr("prot") + " ")

	if tpl := mdef.Child("templateparamlist"); tpl != nil {
		p.WriteString("template<")
		p.WriteString(b.params(tpl.ChildrenNamed("param")))
		p.WriteString(">  \n")
	}

	if m.Attr("inline") == "yes" {
		p.WriteString("inline ")
	}
	if m.Attr("static") == "yes" {
		p.WriteString("static ")
	}
	if m.Attr("virt") == "virtual" {
		p.WriteString("virtual ")
	}
	p.WriteString(b.md.Markdown(mdef.Child("type")) + " ")
	if m.Attr("explicit") == "yes" {
		p.WriteString("explicit ")
	}
	p.WriteString(link + "(")
	p.WriteString(b.params(mdef.ChildrenNamed("param")))
	p.WriteString(")")

	if m.Attr("const") == "yes" {
		p.WriteString(" const")
	}
	args := strings.TrimSpace(text(mdef.Child("argsstring")))
	switch {
	case strings.HasSuffix(args, "noexcept"):
		p.WriteString(" noexcept")
	case strings.HasSuffix(args, "= delete"):
		p.WriteString(" = delete")
	case strings.HasSuffix(args, "= default"):
		p.WriteString(" = default")
	}
}

// params renders "type name" pairs for every parameter after the first.
func (b *Builder) params(params []*markup.Node) string {
	if len(params) < 2 {
		return ""
	}
	parts := make([]string, 0, len(params)-1)
	for _, param := range params[1:] {
		parts = append(parts, b.md.Markdown(param.Child("type"))+" "+b.md.Markdown(param.Child("declname")))
	}
	return strings.Join(parts, ", ")
}

func oneLine(s string) string {
	return strings.ReplaceAll(s, "\n", "")
}
