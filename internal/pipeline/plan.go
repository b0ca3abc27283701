package pipeline

import (
	"errors"
	"log/slog"

	"github.com/dgallion1/doxymark/internal/doctree"
	"github.com/dgallion1/doxymark/internal/output"
	"github.com/dgallion1/doxymark/internal/templates"
)

var (
	ErrNoGroups  = errors.New("groups output is enabled, but no groups were located in the doxygen XML files")
	ErrNoClasses = errors.New("classes output is enabled, but no classes were located in the doxygen XML files")
	ErrNoPages   = errors.New("pages output is enabled, but no pages were located in the doxygen XML files")
)

// PlannedFile is one output file with its final contents.
type PlannedFile struct {
	Path    string
	Content string
}

// Planner decides which entities go to which file and renders them.
type Planner struct {
	engine   *templates.Engine
	resolver *output.Resolver
	layout   output.Layout
	filters  doctree.Filters
	noIndex  bool
	log      *slog.Logger

	files []PlannedFile
	index map[string]int
}

func NewPlanner(engine *templates.Engine, resolver *output.Resolver, layout output.Layout, filters doctree.Filters, noIndex bool, log *slog.Logger) *Planner {
	return &Planner{
		engine:   engine,
		resolver: resolver,
		layout:   layout,
		filters:  filters,
		noIndex:  noIndex,
		log:      log,
	}
}

// Plan renders every output file for the tree under root. Nothing is
// written; a configuration error is returned before any output exists.
func (p *Planner) Plan(root *doctree.Entity) ([]PlannedFile, error) {
	p.files = nil
	p.index = make(map[string]int)

	var err error
	switch {
	case p.layout.Groups:
		err = p.planGroups(root)
	case p.layout.Classes:
		err = p.planClasses(root)
	default:
		err = p.planSingle(root)
	}
	if err != nil {
		return nil, err
	}

	if p.layout.Pages {
		if err := p.planPages(root); err != nil {
			return nil, err
		}
	}
	return p.files, nil
}

func (p *Planner) planGroups(root *doctree.Entity) error {
	groups := root.ToArray("group")
	if len(groups) == 0 {
		return ErrNoGroups
	}
	for _, g := range groups {
		g.FilterChildren(p.filters, g.ID)
		ents := append([]*doctree.Entity{g}, g.ToFilteredArray()...)
		if err := p.add(g, ents); err != nil {
			return err
		}
	}
	return nil
}

func (p *Planner) planClasses(root *doctree.Entity) error {
	tops := root.ToArray("namespace")
	for _, c := range root.Compounds.All() {
		switch c.Kind {
		case "class", "struct", "interface":
			tops = append(tops, c)
		}
	}
	if len(tops) == 0 {
		return ErrNoClasses
	}

	for _, top := range tops {
		top.FilterChildren(p.filters, "")
		nested := top.ToFilteredArray()
		if err := p.add(top, []*doctree.Entity{top}); err != nil {
			return err
		}
		for _, e := range nested {
			e.FilterChildren(p.filters, "")
			if err := p.add(e, []*doctree.Entity{e}); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *Planner) planSingle(root *doctree.Entity) error {
	root.FilterChildren(p.filters, "")
	ents := root.ToFilteredArray()
	if !p.noIndex {
		ents = append([]*doctree.Entity{root}, ents...)
	}
	return p.add(root, ents)
}

func (p *Planner) planPages(root *doctree.Entity) error {
	pages := root.ToArray("page")
	if len(pages) == 0 {
		return ErrNoPages
	}
	for _, page := range pages {
		ents := append([]*doctree.Entity{page}, page.ToFilteredArray()...)
		if err := p.add(page, ents); err != nil {
			return err
		}
	}
	return nil
}

// add renders ents into the file owned by owner. Entities without output
// of their own leave no file behind.
func (p *Planner) add(owner *doctree.Entity, ents []*doctree.Entity) error {
	text, err := p.engine.RenderAll(ents)
	if err != nil {
		return err
	}
	if text == "" {
		p.log.Debug("nothing to write", "kind", owner.Kind, "id", owner.ID)
		return nil
	}

	f := PlannedFile{
		Path:    p.layout.CompoundPath(owner),
		Content: p.resolver.Resolve(text, owner),
	}
	if i, ok := p.index[f.Path]; ok {
		p.log.Debug("output path planned twice, keeping last", "path", f.Path, "id", owner.ID)
		p.files[i] = f
		return nil
	}
	p.index[f.Path] = len(p.files)
	p.files = append(p.files, f)
	return nil
}
