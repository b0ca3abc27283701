package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func (a *app) newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [file.md...]",
		Short: "Verify links and anchors in generated Markdown",
		Long: `check verifies that every relative link in the given Markdown files points
at an existing file and anchor, and that no reference was left unresolved.
Without arguments it checks the Markdown files in the output directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args
			if len(paths) == 0 {
				var err error
				paths, err = filepath.Glob(filepath.Join(filepath.Dir(a.cfg.Output), "*.md"))
				if err != nil {
					return fmt.Errorf("find markdown: %w", err)
				}
			}
			if len(paths) == 0 {
				return errors.New("no markdown files to check")
			}
			return a.checkFiles(paths)
		},
	}
}
