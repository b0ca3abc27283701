package templates

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/doxymark/internal/doctree"
	"github.com/dgallion1/doxymark/internal/render"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTemplateFor(t *testing.T) {
	root := doctree.NewRoot()
	grp := root.Find("g", "g", true)
	grp.Kind = "group"
	ns := root.Find("n", "n", true)
	ns.Kind = "namespace"
	grp.Link(ns)

	tests := []struct {
		kind string
		want string
		ok   bool
	}{
		{doctree.KindIndex, "index", true},
		{"page", "page", true},
		{"namespace", "namespace", true},
		{"class", "class", true},
		{"struct", "class", true},
		{"interface", "class", true},
		{"union", "", false},
		{"file", "", false},
	}
	for _, tt := range tests {
		name, ok := TemplateFor(&doctree.Entity{Kind: tt.kind})
		assert.Equal(t, tt.want, name, tt.kind)
		assert.Equal(t, tt.ok, ok, tt.kind)
	}

	_, ok := TemplateFor(grp)
	assert.False(t, ok, "group holding a single namespace is not rendered")
}

func TestRenderClass(t *testing.T) {
	e, err := Load("", "cpp", render.AnchorMarkdown, discard())
	require.NoError(t, err)

	cls := &doctree.Entity{
		ID: "classA", RefID: "classA", Kind: "class", Name: "A",
		BriefDescription: "An A.",
		BaseCompoundRef:  []doctree.BaseRef{{Prot: "public", Name: "Base"}},
	}
	fn := &doctree.Entity{
		ID: "classA_run", RefID: "classA_run", Kind: "function", Section: "public-func",
		Proto:   "public void [run]({#ref classA_run #})()",
		Summary: "Runs | fast.",
	}
	cls.Members = []*doctree.Entity{fn}
	cls.FilterChildren(doctree.DefaultFilters(), "")

	out, ok, err := e.Render(cls)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Contains(t, out, "# class `A` {#classA}")
	assert.Contains(t, out, "public Base")
	assert.Contains(t, out, "`public void `[`run`]({#ref classA_run #})`()` | Runs \\| fast.")
	assert.Contains(t, out, "#### `public void `[`run`]({#ref classA_run #})`()` {#classA_run}")
	assert.NotContains(t, out, "\n\n\n")
}

func TestRenderIndexListsCompounds(t *testing.T) {
	e, err := Load("", "", render.AnchorNone, discard())
	require.NoError(t, err)

	root := doctree.NewRoot()
	a := root.Find("classA", "A", true)
	a.Kind, a.RefID, a.Summary = "class", "classA", "first"
	b := root.Find("classB", "B", true)
	b.Kind, b.RefID = "class", "classB"
	root.FilterChildren(doctree.DefaultFilters(), "")

	out, err := e.RenderAll(append([]*doctree.Entity{root}, root.ToFilteredArray()...))
	require.NoError(t, err)

	assert.Contains(t, out, "`class` [`A`]({#ref classA #}) | first")
	idxA := strings.Index(out, "# class `A`")
	idxB := strings.Index(out, "# class `B`")
	assert.Less(t, strings.Index(out, "# Summary"), idxA)
	assert.Less(t, idxA, idxB)
}

func TestLoadCustomDirAndMissingTemplate(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "page.md"), []byte("PAGE {{kindTitle .Kind}}: {{.Title}}\n\n\n\n\nend"), 0o644))

	e, err := Load(dir, "cpp", render.AnchorMarkdown, discard())
	require.NoError(t, err)

	out, ok, err := e.Render(&doctree.Entity{Kind: "page", Title: "Intro"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "PAGE Page: Intro\n\nend", out)

	_, _, err = e.Render(&doctree.Entity{Kind: "class", ID: "c"})
	require.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestLoadRejectsBadTemplate(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.md"), []byte("{{range}"), 0o644))

	_, err := Load(dir, "", render.AnchorMarkdown, discard())
	require.Error(t, err)
}

func TestInline(t *testing.T) {
	assert.Equal(t, "`public static int `[`doThing`](#doThing)`()`", Inline("public static int [doThing](#doThing)()"))
	assert.Equal(t, "[`a`](x)", Inline("[a](x)"))
	assert.Equal(t, "`template<>`  \n`void `[`f`](y)", Inline("template<>  \nvoid [f](y)"))
	assert.Equal(t, "", Inline(""))
}

func TestCellAndTitle(t *testing.T) {
	assert.Equal(t, `a \| b<br/>c`, Cell("a | b\nc"))
	assert.Equal(t, "one<br/>two", Title("one\ntwo"))
}
