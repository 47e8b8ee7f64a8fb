package cli

import (
	"bufio"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/mathrw/internal/config"
	"github.com/roach88/mathrw/internal/rules"
)

// NewRulesCommand creates the rules command group.
func NewRulesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect the rewrite rule catalog",
	}
	cmd.AddCommand(newRulesListCommand(rootOpts))
	cmd.AddCommand(newRulesValidateCommand(rootOpts))
	return cmd
}

// RuleSummary is one catalog entry in list output.
type RuleSummary struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Left     string `json:"left"`
	Right    string `json:"right"`
	Priority int    `json:"priority,omitempty"`
}

func newRulesListCommand(rootOpts *RootOptions) *cobra.Command {
	var rulesDir string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the loaded rewrite rules",
		Args:  cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRulesList(rootOpts, rulesDir, cmd)
		},
	}
	cmd.Flags().StringVar(&rulesDir, "rules", "", "rules directory (overrides config)")
	return cmd
}

func runRulesList(opts *RootOptions, rulesDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	dir, err := resolveRulesDir(opts, rulesDir)
	if err != nil {
		return err
	}

	catalog := rules.LoadDir(dir, zap.NewNop())
	summaries := make([]RuleSummary, 0, catalog.Len())
	for _, r := range catalog.Rules() {
		summaries = append(summaries, RuleSummary{
			Name:     r.Name,
			Label:    r.Label,
			Left:     r.LeftTemplate.String(),
			Right:    r.RightTemplate.String(),
			Priority: r.Priority,
		})
	}

	if opts.Format == "json" {
		return formatter.JSON(map[string]any{"rules": summaries})
	}
	for _, s := range summaries {
		formatter.Textf("%s\t%s rewrite %s\t%s", s.Name, s.Left, s.Right, s.Label)
	}
	formatter.Textf("%d rules", len(summaries))
	return nil
}

// LineError is one rejected rule line in validate output.
type LineError struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Message string `json:"message"`
}

func newRulesValidateCommand(rootOpts *RootOptions) *cobra.Command {
	var rulesDir string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check every rule file line for syntax errors",
		Long: `Parse every rule file in the rules directory and report rejected lines.

The server skips bad lines at load time with a warning; validate surfaces
them as errors so a catalog edit can be checked before deployment.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRulesValidate(rootOpts, rulesDir, cmd)
		},
	}
	cmd.Flags().StringVar(&rulesDir, "rules", "", "rules directory (overrides config)")
	return cmd
}

func runRulesValidate(opts *RootOptions, rulesDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	dir, err := resolveRulesDir(opts, rulesDir)
	if err != nil {
		return err
	}

	files, err := filepath.Glob(filepath.Join(dir, "*"+rules.FileSuffix))
	if err != nil {
		return &ExitError{Code: ExitCommandError, Message: "failed to scan rules directory", Err: err}
	}
	if len(files) == 0 {
		return &ExitError{Code: ExitCommandError, Message: "no rule files in " + dir}
	}

	var lineErrors []LineError
	total := 0
	for _, file := range files {
		n, errs, err := validateRuleFile(file)
		if err != nil {
			return &ExitError{Code: ExitCommandError, Message: "failed to read " + file, Err: err}
		}
		total += n
		lineErrors = append(lineErrors, errs...)
	}

	if opts.Format == "json" {
		if err := formatter.JSON(map[string]any{
			"valid":  len(lineErrors) == 0,
			"rules":  total,
			"errors": lineErrors,
		}); err != nil {
			return err
		}
	} else {
		for _, e := range lineErrors {
			formatter.Textf("%s:%d: %s", e.File, e.Line, e.Message)
		}
		formatter.Textf("%d rules, %d errors", total, len(lineErrors))
	}

	if len(lineErrors) > 0 {
		return &ExitError{Code: ExitFailure, Message: "rule validation failed"}
	}
	return nil
}

func validateRuleFile(path string) (int, []LineError, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, nil, err
	}
	defer f.Close()

	var errs []LineError
	valid := 0
	scanner := bufio.NewScanner(f)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := scanner.Text()
		rule, err := rules.ParseLine(line)
		if err != nil {
			errs = append(errs, LineError{File: path, Line: lineNo, Message: err.Error()})
			continue
		}
		if rule != nil {
			valid++
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, nil, err
	}
	return valid, errs, nil
}

func resolveRulesDir(opts *RootOptions, override string) (string, error) {
	if override != "" {
		return override, nil
	}
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return "", &ExitError{Code: ExitCommandError, Message: "failed to load config", Err: err}
	}
	if _, err := os.Stat(cfg.RulesDir); err != nil {
		return "", &ExitError{Code: ExitCommandError, Message: "rules directory not found: " + cfg.RulesDir, Err: err}
	}
	return cfg.RulesDir, nil
}
