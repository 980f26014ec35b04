package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/StorkenPb/CategoryPlanner/internal/config"
	"github.com/StorkenPb/CategoryPlanner/internal/csvio"
	"github.com/StorkenPb/CategoryPlanner/internal/models"
)

// options are the flags shared by every subcommand.
type options struct {
	languagesFile   string
	lang            string
	cycleCheckLimit int
	verbose         bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "catctl",
		Short: "catctl inspects category CSV files",
		Long: `catctl reads category CSV files in the planner's import format
(code;label-xx_XX...;parent) and works on them without a server.

Examples:
  catctl validate categories.csv
  catctl outline categories.csv --lang sv
  catctl graph categories.csv > graph.json
  catctl export categories.csv > normalized.csv`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if opts.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.languagesFile, "languages", "", "YAML language set (default: built-in languages)")
	flags.StringVar(&opts.lang, "lang", "", "display language (default: the set's default language)")
	flags.IntVar(&opts.cycleCheckLimit, "cycle-check-limit", 0, "skip cycle detection above this many categories (0 = always check)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		newValidateCmd(opts),
		newOutlineCmd(opts),
		newGraphCmd(opts),
		newExportCmd(opts),
	)
	return root
}

// languages resolves the language set and display language.
func (o *options) languages() (models.LanguageSet, string, error) {
	langs, err := config.LoadLanguages(o.languagesFile)
	if err != nil {
		return nil, "", err
	}
	lang := o.lang
	if lang == "" {
		lang = langs.Default().Code
	}
	if !langs.Supports(lang) {
		return nil, "", fmt.Errorf("unsupported language %q", lang)
	}
	return langs, lang, nil
}

// load imports the CSV file at path.
func (o *options) load(path string) (*csvio.Result, models.LanguageSet, string, error) {
	langs, lang, err := o.languages()
	if err != nil {
		return nil, nil, "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, "", err
	}
	defer f.Close()

	res, err := csvio.Import(f, csvio.ImportOptions{Languages: langs, CycleCheckLimit: o.cycleCheckLimit})
	if err != nil {
		return nil, nil, "", fmt.Errorf("%s: %w", path, err)
	}
	return res, langs, lang, nil
}
