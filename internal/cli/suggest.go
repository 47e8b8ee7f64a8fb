package cli

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/mathrw/internal/config"
	"github.com/roach88/mathrw/internal/engine"
	"github.com/roach88/mathrw/internal/mathml"
	"github.com/roach88/mathrw/internal/rules"
)

// SuggestOptions holds flags for the suggest command.
type SuggestOptions struct {
	*RootOptions
	RulesDir    string
	NodeID      string
	Assumptions map[string]string
}

// NewSuggestCommand creates the suggest command.
func NewSuggestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SuggestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "suggest [markup-file]",
		Short: "Print rewrite options for a Content MathML expression",
		Long: `Generate rewrite suggestions for one expression and exit.

Reads Content MathML from the given file, or from stdin when the argument
is omitted or "-".

Example:
  mathrw suggest expr.xml
  echo '<math><apply><sin/><apply><times/><cn>2</cn><ci>x</ci></apply></apply></math>' | mathrw suggest
  mathrw suggest expr.xml --assume theta=real --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuggest(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.RulesDir, "rules", "", "rules directory (overrides config)")
	cmd.Flags().StringVar(&opts.NodeID, "node", "", "target subtree node id (defaults to the whole expression)")
	cmd.Flags().StringToStringVar(&opts.Assumptions, "assume", nil, "variable domain assumptions, e.g. theta=real")

	return cmd
}

func runSuggest(opts *SuggestOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	markup, err := readMarkup(args, cmd.InOrStdin())
	if err != nil {
		return &ExitError{Code: ExitCommandError, Message: "failed to read input", Err: err}
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return &ExitError{Code: ExitCommandError, Message: "failed to load config", Err: err}
	}
	if opts.RulesDir != "" {
		cfg.RulesDir = opts.RulesDir
	}

	catalog := rules.LoadDir(cfg.RulesDir, zap.NewNop())
	if catalog.Len() == 0 {
		return &ExitError{Code: ExitCommandError, Message: "no rules loaded from " + cfg.RulesDir}
	}
	formatter.VerboseLog("loaded %d rules from %s", catalog.Len(), cfg.RulesDir)

	suggester := engine.NewSuggester(catalog, zap.NewNop())
	options, err := suggester.SuggestMarkup(markup, opts.NodeID, opts.Assumptions)
	if err != nil {
		if perr, ok := mathml.AsParseError(err); ok {
			return &ExitError{Code: ExitFailure, Message: "invalid Content MathML", Err: perr}
		}
		return err
	}

	if opts.Format == "json" {
		if options == nil {
			options = []engine.Option{}
		}
		return formatter.JSON(map[string]any{"options": options})
	}

	if len(options) == 0 {
		formatter.Textf("no rewrite options")
		return nil
	}
	for _, o := range options {
		formatter.Textf("%s\t%s", o.ID, o.Label)
		if opts.Verbose {
			formatter.Textf("\t%s", o.ReplacementContentMathML)
		}
	}
	return nil
}

// readMarkup reads the expression markup from the file argument or stdin.
func readMarkup(args []string, stdin io.Reader) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		raw, err := io.ReadAll(stdin)
		return strings.TrimSpace(string(raw)), err
	}
	raw, err := os.ReadFile(args[0])
	return strings.TrimSpace(string(raw)), err
}
