package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rho-lang/rho/internal/rules"
)

// ValidationResult holds validation results for one or more rule files.
type ValidationResult struct {
	Valid bool             `json:"valid"`
	Files []FileValidation `json:"files"`
}

// FileValidation is the validation outcome for a single file.
type FileValidation struct {
	Path  string `json:"path"`
	Rules int    `json:"rules"`
	Error string `json:"error,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <rule-file>...",
		Short: "Validate rule files without rewriting anything",
		Long: `Load and validate rule files.

Checks syntax, rule pair structure, and (for YAML documents) the rule
schema, without applying any rule.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}
	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	result := ValidationResult{Valid: true}
	for _, path := range paths {
		fv := FileValidation{Path: path}
		rs, err := rules.LoadFile(path)
		if err != nil {
			fv.Error = err.Error()
			result.Valid = false
		} else {
			fv.Rules = len(rs)
		}
		result.Files = append(result.Files, fv)
	}

	if opts.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		for _, fv := range result.Files {
			if fv.Error != "" {
				fmt.Fprintf(formatter.Writer, "%s: INVALID\n  %s\n", fv.Path, fv.Error)
			} else {
				fmt.Fprintf(formatter.Writer, "%s: ok (%d rules)\n", fv.Path, fv.Rules)
			}
		}
	}

	if !result.Valid {
		return NewExitError(ExitFailure, "one or more rule files are invalid")
	}
	return nil
}
