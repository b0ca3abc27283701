package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// Writer writes planned files with bounded concurrency. Files whose content
// hash matches what is already on disk are left untouched.
type Writer struct {
	workers int
	log     *slog.Logger
}

func NewWriter(workers int, log *slog.Logger) *Writer {
	if workers < 1 {
		workers = 1
	}
	return &Writer{workers: workers, log: log}
}

// Write writes every file and records each outcome in report. The first
// failure cancels writes that have not started; files already written stay.
func (w *Writer) Write(ctx context.Context, files []PlannedFile, report *Report) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(w.workers)

	for _, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := w.writeOne(f)
			report.AddFile(res)
			return err
		})
	}
	return g.Wait()
}

func (w *Writer) writeOne(f PlannedFile) (FileResult, error) {
	data := []byte(f.Content)
	res := FileResult{
		Path:  f.Path,
		Bytes: len(data),
		Hash:  ContentHashHex(data),
	}

	if existing, err := os.ReadFile(f.Path); err == nil && ContentHashHex(existing) == res.Hash {
		w.log.Debug("unchanged, skipping", "path", f.Path)
		res.Status = FileUnchanged
		return res, nil
	}

	if err := writeFile(f.Path, data); err != nil {
		w.log.Error("write failed", "path", f.Path, "error", err)
		res.Status = FileFailed
		res.Error = err.Error()
		return res, err
	}

	w.log.Info("wrote", "path", f.Path, "bytes", res.Bytes)
	res.Status = FileWritten
	return res, nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
