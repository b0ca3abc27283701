package api

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
)

const pageTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>%s</title></head>
<body>
%s</body>
</html>
`

// baseDir is the directory generated files are served from.
func (s *Server) baseDir() string {
	return filepath.Dir(s.orchestrator.Config().Output)
}

// handleIndex lists the files written by the last conversion.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var names []string
	if report := s.orchestrator.LastReport(); report != nil {
		base := s.baseDir()
		for _, p := range report.Paths() {
			rel, err := filepath.Rel(base, p)
			if err != nil {
				continue
			}
			names = append(names, filepath.ToSlash(rel))
		}
	}
	sort.Strings(names)

	var src strings.Builder
	src.WriteString("# Generated documentation\n\n")
	if len(names) == 0 {
		src.WriteString("Nothing has been generated yet.\n")
	}
	for _, n := range names {
		fmt.Fprintf(&src, "- [%s](/docs/%s)\n", n, n)
	}
	s.writeMarkdown(w, "doxymark", []byte(src.String()))
}

// handleDoc renders one generated Markdown file as HTML.
func (s *Server) handleDoc(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(path.Clean("/"+chi.URLParam(r, "*")), "/")
	if name == "" || !strings.HasSuffix(name, ".md") {
		jsonError(w, "not found", http.StatusNotFound)
		return
	}

	src, err := os.ReadFile(filepath.Join(s.baseDir(), filepath.FromSlash(name)))
	if errors.Is(err, fs.ErrNotExist) {
		jsonError(w, "not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error("read generated file", "file", name, "error", err)
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	s.writeMarkdown(w, name, src)
}

func (s *Server) writeMarkdown(w http.ResponseWriter, title string, src []byte) {
	var body bytes.Buffer
	if err := s.md.Convert(src, &body); err != nil {
		s.log.Error("render markdown", "title", title, "error", err)
		jsonError(w, "failed to render markdown", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, pageTemplate, html.EscapeString(title), body.String())
}
