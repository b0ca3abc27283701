package cli

import (
	"context"
	"fmt"

	"github.com/dgallion1/doxymark/internal/check"
	"github.com/dgallion1/doxymark/internal/pipeline"
	"github.com/dgallion1/doxymark/internal/watch"
)

// convert runs one conversion, then keeps converting on XML changes when
// --watch is set.
func (a *app) convert(ctx context.Context) error {
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	orch := pipeline.NewOrchestrator(a.cfg, a.log)

	err := a.runOnce(ctx, orch)
	if !a.watch {
		return err
	}

	w := watch.New(a.cfg.Directory, a.cfg.Watch.Debounce, func(ctx context.Context) error {
		return a.runOnce(ctx, orch)
	}, a.log)
	if err := w.Watch(ctx); err != nil {
		return err
	}
	return ctx.Err()
}

// runOnce converts and, when enabled, checks the files that were produced.
func (a *app) runOnce(ctx context.Context, orch *pipeline.Orchestrator) error {
	report, err := orch.Run(ctx)
	if err != nil {
		return err
	}
	if !a.cfg.Check {
		return nil
	}
	return a.checkFiles(report.Paths())
}

func (a *app) checkFiles(paths []string) error {
	problems, err := check.New(a.log).Check(paths)
	if err != nil {
		return fmt.Errorf("check links: %w", err)
	}
	for _, p := range problems {
		a.log.Warn(p.Reason, "file", p.File, "line", p.Line, "target", p.Target)
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %d problem(s) in %d file(s)", ErrCheckFailed, len(problems), len(paths))
	}
	a.log.Info("links ok", "files", len(paths))
	return nil
}
