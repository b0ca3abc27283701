// Package cli implements the doxymark command-line interface.
//
// The root command converts a Doxygen XML directory into Markdown. The serve
// subcommand additionally previews the result over HTTP, and check verifies
// links in Markdown that has already been generated.
//
// Options come from defaults, an optional --config file, a .env file,
// DOXYMARK_* environment variables, and finally command-line flags.
package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/doxymark/internal/config"
)

// ErrCheckFailed is returned when the link check finds problems.
var ErrCheckFailed = errors.New("link check failed")

// app carries state shared by every command of one invocation.
type app struct {
	configPath string
	logOpts    logOptions
	flags      config.Config // flag-bound values, applied only when set
	watch      bool

	cfg    config.Config
	log    *slog.Logger
	closer io.Closer
	stderr io.Writer
}

// Execute runs the doxymark CLI.
func Execute(ctx context.Context) error {
	return NewRootCommand(os.Stderr).ExecuteContext(ctx)
}

// NewRootCommand builds the command tree. Logs go to stderr.
func NewRootCommand(stderr io.Writer) *cobra.Command {
	a := &app{stderr: stderr, flags: config.Default()}

	root := &cobra.Command{
		Use:   "doxymark",
		Short: "Convert Doxygen XML to Markdown",
		Long: `doxymark reads the XML output of Doxygen (index.xml plus one file per
compound) and renders it to Markdown, in one file or split per group,
class or page.`,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) { a.teardown() },
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.convert(cmd.Context())
		},
	}

	a.bindFlags(root)
	root.AddCommand(a.newConvertCmd())
	root.AddCommand(a.newServeCmd())
	root.AddCommand(a.newCheckCmd())
	return root
}

// setup loads options and builds the logger before any command runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.applyFlags(cmd, &cfg)
	cfg.Normalize()
	a.cfg = cfg

	if a.logOpts.file == "" {
		a.logOpts.file = cfg.LogFile
	}
	log, closer, err := newLogger(a.stderr, a.logOpts)
	if err != nil {
		return err
	}
	a.log, a.closer = log, closer
	return nil
}

func (a *app) teardown() {
	if a.closer != nil {
		a.closer.Close()
	}
}

func (a *app) newConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert",
		Short: "Convert Doxygen XML to Markdown (default command)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.convert(cmd.Context())
		},
	}
}
