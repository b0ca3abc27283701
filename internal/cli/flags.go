package cli

import (
	"github.com/spf13/cobra"

	"github.com/dgallion1/doxymark/internal/config"
)

// bindFlags registers the persistent flags shared by every command.
func (a *app) bindFlags(root *cobra.Command) {
	f := root.PersistentFlags()
	f.StringVar(&a.configPath, "config", "", "config file (.yaml, .yml or .toml)")

	f.StringVarP(&a.flags.Directory, "directory", "d", "", "Doxygen XML directory")
	f.StringVarP(&a.flags.Output, "output", "o", "", "output file, must contain '%s' with --groups or --classes")
	f.BoolVarP(&a.flags.Groups, "groups", "g", false, "output one file per group")
	f.BoolVarP(&a.flags.Classes, "classes", "c", false, "output one file per namespace and class")
	f.BoolVarP(&a.flags.Pages, "pages", "p", false, "additionally output one file per page")
	f.BoolVarP(&a.flags.NoIndex, "noindex", "n", false, "omit the index")
	f.BoolVarP(&a.flags.Anchors, "anchors", "a", true, "add {#id} anchors to headings")
	f.BoolVarP(&a.flags.HTMLAnchors, "html-anchors", "H", false, "add <a id> anchors to headings")
	f.StringVarP(&a.flags.Language, "language", "l", config.DefaultLanguage, "programming language of the sources")
	f.StringVarP(&a.flags.Templates, "templates", "t", "", "custom template directory")
	f.IntVar(&a.flags.Workers, "workers", a.flags.Workers, "parallel file writes")
	f.BoolVar(&a.flags.Check, "check", false, "verify links after writing")
	f.BoolVar(&a.watch, "watch", false, "convert again whenever the XML changes")

	f.StringVarP(&a.logOpts.file, "log-file", "L", "", "also write JSON logs to this file")
	f.StringVar(&a.logOpts.format, "log-format", LogFormatText, "log format: text or json")
	f.BoolVarP(&a.logOpts.verbose, "verbose", "v", false, "enable debug logging")
	f.BoolVarP(&a.logOpts.quiet, "quiet", "q", false, "only log warnings and errors")
	root.MarkFlagsMutuallyExclusive("verbose", "quiet")
}

// applyFlags copies every flag the user set onto cfg.
func (a *app) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	set := map[string]func(){
		"directory":    func() { cfg.Directory = a.flags.Directory },
		"output":       func() { cfg.Output = a.flags.Output },
		"groups":       func() { cfg.Groups = a.flags.Groups },
		"classes":      func() { cfg.Classes = a.flags.Classes },
		"pages":        func() { cfg.Pages = a.flags.Pages },
		"noindex":      func() { cfg.NoIndex = a.flags.NoIndex },
		"anchors":      func() { cfg.Anchors = a.flags.Anchors },
		"html-anchors": func() { cfg.HTMLAnchors = a.flags.HTMLAnchors },
		"language":     func() { cfg.Language = a.flags.Language },
		"templates":    func() { cfg.Templates = a.flags.Templates },
		"workers":      func() { cfg.Workers = a.flags.Workers },
		"check":        func() { cfg.Check = a.flags.Check },
	}
	for name, apply := range set {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}
}
