// Package markup models Doxygen's mixed-content XML as a tree of typed nodes.
package markup

import (
	"strconv"
	"strings"
)

// Kind identifies a Doxygen element. The set is closed: tags that are not
// listed decode as KindUnknown.
type Kind int

const (
	KindUnknown Kind = iota
	KindText
	KindRef
	KindEmphasis
	KindBold
	KindComputerOutput
	KindParameterName
	KindParameterList
	KindParameterItem
	KindParameterDescription
	KindParameterNameList
	KindProgramListing
	KindCodeLine
	KindHighlight
	KindOrderedList
	KindItemizedList
	KindListItem
	KindSp
	KindHeading
	KindXRefSect
	KindXRefTitle
	KindXRefDescription
	KindSimpleSect
	KindFormula
	KindPreformatted
	KindSect
	KindTitle
	KindMDash
	KindNDash
	KindLineBreak
	KindULink
	KindTable
	KindRow
	KindEntry
	KindPara
	KindVerbatim
	KindHRuler
	KindAnchor
	KindSuperscript
	KindSubscript
	KindStrike
	KindNonBreakableSpace
	KindBlockQuote
)

var kindByTag = map[string]Kind{
	"ref":                  KindRef,
	"emphasis":             KindEmphasis,
	"bold":                 KindBold,
	"computeroutput":       KindComputerOutput,
	"parametername":        KindParameterName,
	"parameterlist":        KindParameterList,
	"parameteritem":        KindParameterItem,
	"parameterdescription": KindParameterDescription,
	"parameternamelist":    KindParameterNameList,
	"programlisting":       KindProgramListing,
	"codeline":             KindCodeLine,
	"highlight":            KindHighlight,
	"orderedlist":          KindOrderedList,
	"itemizedlist":         KindItemizedList,
	"listitem":             KindListItem,
	"sp":                   KindSp,
	"heading":              KindHeading,
	"xrefsect":             KindXRefSect,
	"xreftitle":            KindXRefTitle,
	"xrefdescription":      KindXRefDescription,
	"simplesect":           KindSimpleSect,
	"formula":              KindFormula,
	"preformatted":         KindPreformatted,
	"title":                KindTitle,
	"mdash":                KindMDash,
	"ndash":                KindNDash,
	"linebreak":            KindLineBreak,
	"ulink":                KindULink,
	"table":                KindTable,
	"row":                  KindRow,
	"entry":                KindEntry,
	"para":                 KindPara,
	"verbatim":             KindVerbatim,
	"hruler":               KindHRuler,
	"anchor":               KindAnchor,
	"superscript":          KindSuperscript,
	"subscript":            KindSubscript,
	"strike":               KindStrike,
	"nonbreakablespace":    KindNonBreakableSpace,
	"blockquote":           KindBlockQuote,
}

// KindOf maps an element name to its Kind. sect1..sectN all map to KindSect.
func KindOf(tag string) Kind {
	if k, ok := kindByTag[tag]; ok {
		return k
	}
	if sectLevel(tag) > 0 {
		return KindSect
	}
	return KindUnknown
}

func (k Kind) String() string {
	if k == KindText {
		return "text"
	}
	if k == KindSect {
		return "sect"
	}
	for tag, kind := range kindByTag {
		if kind == k {
			return tag
		}
	}
	return "unknown"
}

// Node is one element or text run of a Doxygen document.
type Node struct {
	Kind     Kind
	Tag      string            // element name, empty for text
	Attrs    map[string]string // element attributes
	Text     string            // character data, text nodes only
	Children []*Node
}

// Attr returns the named attribute or "".
func (n *Node) Attr(name string) string {
	if n == nil {
		return ""
	}
	return n.Attrs[name]
}

// Child returns the first child element with the given tag, or nil.
func (n *Node) Child(tag string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns all child elements with the given tag in document order.
func (n *Node) ChildrenNamed(tag string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// TextContent concatenates all descendant character data.
func (n *Node) TextContent() string {
	if n == nil {
		return ""
	}
	if n.Kind == KindText {
		return n.Text
	}
	var buf strings.Builder
	var walk func(*Node)
	walk = func(n *Node) {
		if n.Kind == KindText {
			buf.WriteString(n.Text)
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(n)
	return buf.String()
}

// Level returns the numeric suffix of a sectN element, or 0.
func (n *Node) Level() int {
	if n == nil {
		return 0
	}
	return sectLevel(n.Tag)
}

// Walk visits n and its descendants depth-first in document order.
func (n *Node) Walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

func sectLevel(tag string) int {
	rest, ok := strings.CutPrefix(tag, "sect")
	if !ok || rest == "" {
		return 0
	}
	level, err := strconv.Atoi(rest)
	if err != nil || level < 1 {
		return 0
	}
	return level
}
