package output

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dgallion1/doxymark/internal/doctree"
	"github.com/dgallion1/doxymark/internal/render"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixture builds root > ns (namespace) > Vec<T> (class) > push (member),
// a group g listing the class, and a page with one section.
func fixture() (*doctree.Entity, *doctree.RefTable) {
	refs := doctree.NewRefTable()
	root := doctree.NewRoot()

	ns := root.Find("ns", "ns", true)
	ns.Kind = "namespace"
	vec := ns.Find("vec", "ns::Vec<T>", true)
	vec.Kind, vec.GroupID, vec.GroupName = "class", "g", "containers"
	push := &doctree.Entity{ID: "push", Kind: "function", Name: "push", Parent: vec, GroupName: "containers"}
	vec.Members = append(vec.Members, push)

	page := root.Find("pg", "intro", true)
	page.Kind = "page"
	sect := &doctree.Entity{ID: "pg_s1", Name: "pg_s1", Section: "sect1", Parent: page}
	page.Members = append(page.Members, sect)

	for _, e := range []*doctree.Entity{ns, vec, push, page, sect} {
		refs.Add(e)
	}
	return root, refs
}

func TestCompoundPath(t *testing.T) {
	_, refs := fixture()
	vec, _ := refs.Get("vec")
	page, _ := refs.Get("pg")

	single := Layout{Output: "docs/api.md"}
	assert.Equal(t, "docs/api.md", single.CompoundPath(vec))
	assert.Equal(t, "docs/page-intro.md", single.CompoundPath(page))

	groups := Layout{Output: "docs/api_%s.md", Groups: true}
	assert.Equal(t, "docs/api_containers.md", groups.CompoundPath(vec))

	classes := Layout{Output: "docs/api_%s.md", Classes: true}
	assert.Equal(t, "docs/api_ns--Vec(T).md", classes.CompoundPath(vec))
}

func TestResolveSingleFile(t *testing.T) {
	root, refs := fixture()
	r := NewResolver(Layout{Output: "api.md"}, refs, discard())

	text := "[push](" + render.RefPlaceholder("push") + ") and [x](" + render.RefPlaceholder("nope") + ")"
	assert.Equal(t, "[push](#push) and [x](#nope)", r.Resolve(text, root))
}

func TestResolveClasses(t *testing.T) {
	_, refs := fixture()
	ns, _ := refs.Get("ns")
	vec, _ := refs.Get("vec")
	r := NewResolver(Layout{Output: "out/api_%s.md", Classes: true}, refs, discard())

	assert.Equal(t, "api_ns--Vec(T).md#push", r.Resolve(render.RefPlaceholder("push"), ns))
	assert.Equal(t, "#push", r.Resolve(render.RefPlaceholder("push"), vec))
	assert.Equal(t, "#vec", r.Resolve(render.RefPlaceholder("vec"), vec))
	assert.Equal(t, "api_ns--Vec(T).md#vec", r.Resolve(render.RefPlaceholder("vec"), ns))
}

func TestTargetPathClassesInterface(t *testing.T) {
	root := doctree.NewRoot()
	iface := root.Find("ishape", "IShape", true)
	iface.Kind = "interface"
	area := &doctree.Entity{ID: "ishape_area", Kind: "function", Name: "area", Parent: iface}
	iface.Members = append(iface.Members, area)

	classes := Layout{Output: "out/api_%s.md", Classes: true}
	assert.Equal(t, "out/api_IShape.md", classes.TargetPath(area))
	assert.Equal(t, "out/api_IShape.md", classes.TargetPath(iface))
}

func TestResolveGroupsAndPages(t *testing.T) {
	root, refs := fixture()
	grp := root.Find("g", "containers", true)
	grp.Kind, grp.GroupID, grp.GroupName = "group", "g", "containers"

	r := NewResolver(Layout{Output: "out/api_%s.md", Groups: true, Pages: true}, refs, discard())
	assert.Equal(t, "#push", r.Resolve(render.RefPlaceholder("push"), grp))
	assert.Equal(t, "page-intro.md#pg_s1", r.Resolve(render.RefPlaceholder("pg_s1"), grp))

	// ns carries no group: no file documents it.
	assert.Equal(t, "#ns", r.Resolve(render.RefPlaceholder("ns"), grp))
}

func TestResolveRelativeAcrossDirectories(t *testing.T) {
	_, refs := fixture()
	page, _ := refs.Get("pg")
	r := NewResolver(Layout{Output: "out/sub/api.md", Pages: true}, refs, discard())

	assert.Equal(t, "#pg_s1", r.Resolve(render.RefPlaceholder("pg_s1"), page))
	assert.Equal(t, "api.md#push", r.Resolve(render.RefPlaceholder("push"), page))
}
