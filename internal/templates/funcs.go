package templates

import (
	"regexp"
	"strings"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dgallion1/doxymark/internal/render"
)

// Funcs returns the helper functions available to every template.
func Funcs(anchors render.AnchorStyle) template.FuncMap {
	return template.FuncMap{
		"cell":      Cell,
		"title":     Title,
		"inline":    Inline,
		"anchor":    anchors.Format,
		"ref":       render.RefPlaceholder,
		"kindTitle": KindTitle,
	}
}

// KindTitle capitalizes an entity kind for headings.
func KindTitle(kind string) string {
	return cases.Title(language.English).String(kind)
}

// Cell escapes s for use inside a Markdown table cell.
func Cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", "<br/>")
}

// Title flattens a multi-line title onto one line.
func Title(s string) string {
	return strings.ReplaceAll(s, "\n", "<br/>")
}

var inlineSplit = regexp.MustCompile(`\[[^\]]*\]\([^)]*\)|\s{2}\n|\n`)
var inlineLink = regexp.MustCompile(`^\[([^\]]*)\]\(([^)]*)\)$`)

// Inline formats a rendered signature as code: plain runs are wrapped in
// backticks, links become [`text`](target), and line breaks close any open
// code span.
func Inline(s string) string {
	var b strings.Builder
	open := false
	closeCode := func() {
		if open {
			b.WriteString("`")
			open = false
		}
	}
	plain := func(t string) {
		if t == "" {
			return
		}
		if !open {
			b.WriteString("`")
			open = true
		}
		b.WriteString(t)
	}

	last := 0
	for _, loc := range inlineSplit.FindAllStringIndex(s, -1) {
		plain(s[last:loc[0]])
		tok := s[loc[0]:loc[1]]
		if m := inlineLink.FindStringSubmatch(tok); m != nil {
			closeCode()
			b.WriteString("[`" + m[1] + "`](" + m[2] + ")")
		} else {
			closeCode()
			b.WriteString(tok)
		}
		last = loc[1]
	}
	plain(s[last:])
	closeCode()
	return b.String()
}
