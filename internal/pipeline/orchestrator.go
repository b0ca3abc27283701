// Package pipeline runs a conversion: parse the XML directory, plan every
// output file, then write the plan.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/doxymark/internal/config"
	"github.com/dgallion1/doxymark/internal/output"
	"github.com/dgallion1/doxymark/internal/parser"
	"github.com/dgallion1/doxymark/internal/render"
	"github.com/dgallion1/doxymark/internal/templates"
)

// Orchestrator runs conversions. Runs are serialized; the most recent
// report stays available to callers such as the preview server.
type Orchestrator struct {
	cfg config.Config
	log *slog.Logger

	runMu sync.Mutex
	stats *RunStats

	mu   sync.Mutex
	last *Report
}

func NewOrchestrator(cfg config.Config, log *slog.Logger) *Orchestrator {
	return &Orchestrator{cfg: cfg, log: log, stats: NewRunStats(time.Hour)}
}

// Config returns the options the orchestrator runs with.
func (o *Orchestrator) Config() config.Config {
	return o.cfg
}

// Run performs one full conversion.
func (o *Orchestrator) Run(ctx context.Context) (*Report, error) {
	o.runMu.Lock()
	defer o.runMu.Unlock()

	report := NewReport(uuid.NewString(), o.mode())
	o.mu.Lock()
	o.last = report
	o.mu.Unlock()

	log := o.log.With("run_id", report.RunID)
	log.Info("conversion started", "directory", o.cfg.Directory, "mode", report.Mode)

	err := o.run(ctx, report, log)
	report.Finish(err)
	o.stats.Record(report.FinishedAt.Sub(report.StartedAt), err != nil)

	snap := report.Snapshot()
	if err != nil {
		log.Error("conversion failed", "error", err)
		return report, err
	}
	log.Info("conversion finished", "written", snap.Written, "unchanged", snap.Unchanged)
	return report, nil
}

func (o *Orchestrator) run(ctx context.Context, report *Report, log *slog.Logger) error {
	anchors := o.cfg.AnchorStyle()

	engine, err := templates.Load(o.cfg.Templates, o.cfg.Language, anchors, log)
	if err != nil {
		return fmt.Errorf("load templates: %w", err)
	}

	md := render.New(o.cfg.Language, anchors, log)
	res, err := parser.LoadDir(o.cfg.Directory, md, log)
	if err != nil {
		return err
	}

	layout := o.cfg.Layout()
	resolver := output.NewResolver(layout, res.Refs, log)
	planner := NewPlanner(engine, resolver, layout, o.cfg.Filters, o.cfg.NoIndex, log)

	files, err := planner.Plan(res.Root)
	if err != nil {
		return fmt.Errorf("plan output: %w", err)
	}
	log.Debug("output planned", "files", len(files))

	if err := ctx.Err(); err != nil {
		return err
	}
	return NewWriter(o.cfg.Workers, log).Write(ctx, files, report)
}

// Stats returns timings of the runs in the last hour.
func (o *Orchestrator) Stats() StatsSnapshot {
	return o.stats.Snapshot()
}

// LastReport returns the report of the current or most recent run, or nil.
func (o *Orchestrator) LastReport() *Report {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.last
}

func (o *Orchestrator) mode() string {
	mode := "single"
	switch {
	case o.cfg.Groups:
		mode = "groups"
	case o.cfg.Classes:
		mode = "classes"
	}
	if o.cfg.Pages {
		mode += "+pages"
	}
	return mode
}
