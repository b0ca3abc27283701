// Package render converts Doxygen rich-content nodes to Markdown.
//
// Cross references are emitted as placeholders ({#ref id #}) and resolved
// once the output layout is known.
package render

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/dgallion1/doxymark/internal/markup"
)

// AnchorStyle selects how link targets are emitted.
type AnchorStyle int

const (
	AnchorNone     AnchorStyle = iota
	AnchorMarkdown             // {#id}
	AnchorHTML                 // <a id="id"></a>
)

// Format returns the anchor for id in this style.
func (s AnchorStyle) Format(id string) string {
	switch s {
	case AnchorMarkdown:
		return "{#" + id + "}"
	case AnchorHTML:
		return fmt.Sprintf(`<a id="%s"></a>`, id)
	default:
		return ""
	}
}

// RefPattern matches reference placeholders; group 1 is the target id.
var RefPattern = regexp.MustCompile(`\{#ref ([^ ]+) #\}`)

// RefLink wraps text in a link to the placeholder for id.
func RefLink(text, id string) string {
	return "[" + text + "](" + RefPlaceholder(id) + ")"
}

// RefPlaceholder returns the unresolved link target for id.
func RefPlaceholder(id string) string {
	return "{#ref " + id + " #}"
}

// Renderer renders markup trees. It is not safe for concurrent use.
type Renderer struct {
	language string
	anchors  AnchorStyle
	log      *slog.Logger
	reported map[string]bool
}

// New returns a Renderer that fences code with language and emits anchors
// in the given style.
func New(language string, anchors AnchorStyle, log *slog.Logger) *Renderer {
	return &Renderer{
		language: language,
		anchors:  anchors,
		log:      log,
		reported: make(map[string]bool),
	}
}

// Markdown renders the children of container n, such as a briefdescription
// or a type element. A nil container renders as "".
func (r *Renderer) Markdown(n *markup.Node) string {
	if n == nil {
		return ""
	}
	return r.children(n, nil)
}

// Node renders n itself.
func (r *Renderer) Node(n *markup.Node) string {
	if n == nil {
		return ""
	}
	return r.render(n, nil)
}

func (r *Renderer) children(n *markup.Node, stack []*markup.Node) string {
	keepSpace := n.Kind == markup.KindVerbatim || n.Kind == markup.KindPreformatted
	var buf strings.Builder
	for i, c := range n.Children {
		if c.Kind == markup.KindText && !keepSpace && isIndent(c.Text) {
			if i > 0 && i < len(n.Children)-1 && isInline(n.Children[i-1]) && isInline(n.Children[i+1]) {
				buf.WriteString(" ")
			}
			continue
		}
		buf.WriteString(r.render(c, stack))
	}
	return buf.String()
}

func (r *Renderer) render(n *markup.Node, stack []*markup.Node) string {
	switch n.Kind {
	case markup.KindText:
		return n.Text

	case markup.KindRef:
		return RefLink(r.children(n, stack), n.Attr("refid"))

	case markup.KindEmphasis:
		return "*" + r.children(n, stack) + "*"
	case markup.KindBold:
		return "**" + r.children(n, stack) + "**"
	case markup.KindComputerOutput:
		return "`" + r.children(n, stack) + "`"
	case markup.KindParameterName:
		return "`" + r.children(n, stack) + "` "

	case markup.KindParameterList:
		head := "\n#### Parameters\n"
		if n.Attr("kind") == "exception" {
			head = "\n#### Exceptions\n"
		}
		return head + r.children(n, stack) + "\n\n"
	case markup.KindParameterItem:
		return "* " + r.children(n, stack) + "\n"

	case markup.KindProgramListing:
		return "\n```" + r.language + "\n" + r.children(n, stack) + "```\n"
	case markup.KindCodeLine:
		return r.children(n, stack) + "\n"

	case markup.KindOrderedList:
		return "\n\n" + r.children(n, push(stack, n)) + "\n"
	case markup.KindItemizedList:
		return "\n\n" + r.children(n, stack) + "\n"
	case markup.KindListItem:
		// Only ordered lists and sections open a context, so an itemized
		// list nested in an ordered one still numbers its items.
		bullet := "* "
		if l := innermost(stack, markup.KindOrderedList, markup.KindSect); l != nil && l.Kind == markup.KindOrderedList {
			bullet = "1. "
		}
		return bullet + r.children(n, stack) + "\n"

	case markup.KindSp:
		return " "
	case markup.KindHeading:
		return "## " + r.children(n, stack)

	case markup.KindXRefSect:
		return "\n> " + r.children(n, stack)
	case markup.KindXRefTitle:
		return r.children(n, stack) + ": "

	case markup.KindSimpleSect:
		return r.simpleSect(n, stack)

	case markup.KindFormula:
		return formula(n.TextContent())

	case markup.KindPreformatted:
		return "\n<pre>" + r.children(n, stack) + "</pre>\n"

	case markup.KindSect:
		return "\n" + r.anchors.Format(n.Attr("id")) + "\n" + r.children(n, push(stack, n)) + "\n"
	case markup.KindTitle:
		level := 0
		if s := innermost(stack, markup.KindSect); s != nil {
			level = s.Level()
		}
		if level == 0 {
			return "\n# " + r.children(n, stack) + "\n"
		}
		return "\n# " + strings.Repeat("#", level) + " " + r.children(n, stack) + "\n"

	case markup.KindMDash:
		return "&mdash;"
	case markup.KindNDash:
		return "&ndash;"
	case markup.KindLineBreak:
		return "<br/>"

	case markup.KindULink:
		return "[" + r.children(n, stack) + "](" + n.Attr("url") + ")"

	case markup.KindEntry:
		return cellEscape(r.children(n, stack)) + "|"
	case markup.KindRow:
		return r.row(n, stack)

	case markup.KindPara:
		return r.children(n, stack) + "\n\n"

	case markup.KindAnchor:
		return r.anchors.Format(n.Attr("id"))
	case markup.KindSuperscript:
		return "<sup>" + r.children(n, stack) + "</sup>"
	case markup.KindSubscript:
		return "<sub>" + r.children(n, stack) + "</sub>"
	case markup.KindStrike:
		return "~~" + r.children(n, stack) + "~~"
	case markup.KindNonBreakableSpace:
		return "&nbsp;"
	case markup.KindBlockQuote:
		return "\n" + quote(r.children(n, stack)) + "\n"

	case markup.KindHighlight, markup.KindTable, markup.KindParameterDescription,
		markup.KindParameterNameList, markup.KindXRefDescription,
		markup.KindVerbatim, markup.KindHRuler:
		return r.children(n, stack)

	case markup.KindUnknown:
		if !r.reported[n.Tag] {
			r.reported[n.Tag] = true
			r.log.Warn("unsupported markup element", "tag", n.Tag)
		}
		return ""
	}
	return ""
}

func (r *Renderer) simpleSect(n *markup.Node, stack []*markup.Node) string {
	switch kind := n.Attr("kind"); kind {
	case "attention":
		return "> " + r.children(n, stack)
	case "return":
		return "\n#### Returns\n" + r.children(n, stack)
	case "see":
		return "**See also**: " + r.children(n, stack)
	default:
		r.log.Debug("simplesect rendered without heading", "kind", kind)
		return r.children(n, stack)
	}
}

func (r *Renderer) row(n *markup.Node, stack []*markup.Node) string {
	s := "\n" + rowEscape(r.children(n, stack))

	var cells []*markup.Node
	for _, c := range n.Children {
		if c.Kind == markup.KindEntry {
			cells = append(cells, c)
		}
	}
	if len(cells) > 0 && cells[0].Attr("thead") == "yes" {
		for i := range cells {
			if i == 0 {
				s += "\n"
			} else {
				s += " | "
			}
			s += "---------"
		}
	}
	return s
}

func formula(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.HasPrefix(s, "$") && strings.HasSuffix(s, "$") {
		return s
	}
	if len(s) >= 4 && strings.HasPrefix(s, `\[`) && strings.HasSuffix(s, `\]`) {
		s = strings.TrimSpace(s[2 : len(s)-2])
	}
	return "\n$$\n" + s + "\n$$\n"
}

var trailingPipe = regexp.MustCompile(`\s*\|\s*$`)

// cellEscape trims leading and trailing newlines and turns embedded line
// breaks into <br/>. Pipes are left as they are.
func cellEscape(s string) string {
	s = strings.Trim(s, "\n")
	s = strings.ReplaceAll(s, `\|`, "|")
	return strings.ReplaceAll(s, "\n", "<br/>")
}

func rowEscape(s string) string {
	return trailingPipe.ReplaceAllString(s, "")
}

func quote(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		if l == "" {
			lines[i] = ">"
		} else {
			lines[i] = "> " + l
		}
	}
	return strings.Join(lines, "\n")
}

// isIndent reports whether s is pretty-printing whitespace between elements.
func isIndent(s string) bool {
	return strings.Contains(s, "\n") && strings.TrimSpace(s) == ""
}

// isInline reports whether n renders as running text, so that a line break
// between two such siblings reads as a space.
func isInline(n *markup.Node) bool {
	switch n.Kind {
	case markup.KindText, markup.KindRef, markup.KindEmphasis, markup.KindBold,
		markup.KindComputerOutput, markup.KindULink, markup.KindSp,
		markup.KindMDash, markup.KindNDash, markup.KindSuperscript,
		markup.KindSubscript, markup.KindStrike, markup.KindNonBreakableSpace:
		return true
	}
	return false
}

func push(stack []*markup.Node, n *markup.Node) []*markup.Node {
	out := make([]*markup.Node, len(stack), len(stack)+1)
	copy(out, stack)
	return append(out, n)
}

func innermost(stack []*markup.Node, kinds ...markup.Kind) *markup.Node {
	for i := len(stack) - 1; i >= 0; i-- {
		for _, k := range kinds {
			if stack[i].Kind == k {
				return stack[i]
			}
		}
	}
	return nil
}
