// Package parser rebuilds the documentation tree from a Doxygen XML
// directory: index.xml plus one {refid}.xml file per compound.
package parser

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/dgallion1/doxymark/internal/doctree"
	"github.com/dgallion1/doxymark/internal/markup"
	"github.com/dgallion1/doxymark/internal/render"
)

// IndexFile is the name of the top-level compound index.
const IndexFile = "index.xml"

// Loader returns the XML document describing one compound.
type Loader interface {
	Load(refid string) (*markup.Node, error)
}

// DirLoader loads {refid}.xml files from a directory.
type DirLoader string

func (d DirLoader) Load(refid string) (*markup.Node, error) {
	return markup.DecodeFile(filepath.Join(string(d), refid+".xml"))
}

// Result is a fully built tree and its reference table.
type Result struct {
	Root *doctree.Entity
	Refs *doctree.RefTable
}

// LoadDir reads index.xml from dir and builds the tree from it.
func LoadDir(dir string, md *render.Renderer, log *slog.Logger) (*Result, error) {
	index, err := markup.DecodeFile(filepath.Join(dir, IndexFile))
	if err != nil {
		return nil, fmt.Errorf("load doxygen index: %w", err)
	}

	root := doctree.NewRoot()
	b := NewBuilder(md, log)
	if err := b.Build(root, index, DirLoader(dir)); err != nil {
		return nil, err
	}
	return &Result{Root: root, Refs: b.Refs()}, nil
}
