// Package check verifies generated Markdown: every relative link must point
// at an existing file and anchor, and no reference placeholder may survive.
package check

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dgallion1/doxymark/internal/render"
)

// Problem is one broken link or leftover placeholder.
type Problem struct {
	File   string `json:"file"`
	Line   int    `json:"line,omitempty"`
	Target string `json:"target"`
	Reason string `json:"reason"`
}

func (p Problem) String() string {
	if p.Line > 0 {
		return fmt.Sprintf("%s:%d: %s: %s", p.File, p.Line, p.Target, p.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", p.File, p.Target, p.Reason)
}

var textAnchor = regexp.MustCompile(`\{#([^\s{}#]+)\}`)

// document is a parsed Markdown file.
type document struct {
	anchors map[string]bool
	links   []string
	src     []byte
}

// Checker checks Markdown files. Parsed files are cached, so a Checker should
// be used for a single run.
type Checker struct {
	md   goldmark.Markdown
	log  *slog.Logger
	docs map[string]*document
}

func New(log *slog.Logger) *Checker {
	return &Checker{
		md: goldmark.New(
			goldmark.WithExtensions(extension.Table),
			goldmark.WithParserOptions(parser.WithAttribute()),
		),
		log:  log,
		docs: make(map[string]*document),
	}
}

// Check verifies every file in paths. An error is returned only when a file
// in paths cannot be read.
func (c *Checker) Check(paths []string) ([]Problem, error) {
	var problems []Problem
	for _, path := range paths {
		doc, err := c.load(path)
		if err != nil {
			return nil, err
		}
		problems = append(problems, c.placeholders(path, doc)...)
		for _, link := range doc.links {
			if reason := c.verify(path, link); reason != "" {
				problems = append(problems, Problem{File: path, Target: link, Reason: reason})
			}
		}
	}
	c.log.Debug("link check finished", "files", len(paths), "problems", len(problems))
	return problems, nil
}

func (c *Checker) placeholders(path string, doc *document) []Problem {
	var out []Problem
	for _, loc := range render.RefPattern.FindAllSubmatchIndex(doc.src, -1) {
		out = append(out, Problem{
			File:   path,
			Line:   1 + strings.Count(string(doc.src[:loc[0]]), "\n"),
			Target: string(doc.src[loc[2]:loc[3]]),
			Reason: "unresolved reference",
		})
	}
	return out
}

// verify returns why link is broken, or "" when it is fine. Links with a
// scheme are not followed.
func (c *Checker) verify(from, link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return "malformed link"
	}
	if u.Scheme != "" || u.Host != "" {
		return ""
	}

	target := from
	if u.Path != "" {
		target = filepath.Join(filepath.Dir(from), filepath.FromSlash(u.Path))
	}
	if u.Fragment == "" {
		if _, err := os.Stat(target); err != nil {
			return "missing file"
		}
		return ""
	}
	if ext := strings.ToLower(filepath.Ext(target)); ext != ".md" && ext != ".markdown" {
		if _, err := os.Stat(target); err != nil {
			return "missing file"
		}
		return ""
	}

	doc, err := c.load(target)
	if os.IsNotExist(err) {
		return "missing file"
	}
	if err != nil {
		return err.Error()
	}
	if !doc.anchors[u.Fragment] {
		return "missing anchor"
	}
	return ""
}

func (c *Checker) load(path string) (*document, error) {
	key := filepath.Clean(path)
	if doc, ok := c.docs[key]; ok {
		return doc, nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc := c.parse(src)
	c.docs[key] = doc
	return doc, nil
}

func (c *Checker) parse(src []byte) *document {
	doc := &document{anchors: make(map[string]bool), src: src}
	for _, m := range textAnchor.FindAllSubmatch(src, -1) {
		doc.anchors[string(m[1])] = true
	}

	root := c.md.Parser().Parse(text.NewReader(src))
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.Heading:
			if id, ok := node.AttributeString("id"); ok {
				if b, ok := id.([]byte); ok {
					doc.anchors[string(b)] = true
				}
			}
		case *gmast.Link:
			doc.links = append(doc.links, string(node.Destination))
		case *gmast.RawHTML:
			var b strings.Builder
			for i := 0; i < node.Segments.Len(); i++ {
				seg := node.Segments.At(i)
				b.Write(seg.Value(src))
			}
			htmlAnchors(b.String(), doc.anchors)
		case *gmast.HTMLBlock:
			var b strings.Builder
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				b.Write(seg.Value(src))
			}
			htmlAnchors(b.String(), doc.anchors)
		}
		return gmast.WalkContinue, nil
	})
	return doc
}

// htmlAnchors adds the id and name of every <a> element in fragment.
func htmlAnchors(fragment string, anchors map[string]bool) {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return
	}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, a := range n.Attr {
				if (a.Key == "id" || a.Key == "name") && a.Val != "" {
					anchors[a.Val] = true
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
}
