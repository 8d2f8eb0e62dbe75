package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rho-lang/rho/internal/engine"
	"github.com/rho-lang/rho/internal/rules"
	"github.com/rho-lang/rho/internal/sexpr"
	"github.com/rho-lang/rho/internal/term"
	"github.com/rho-lang/rho/internal/trace"
)

// RewriteOptions holds flags for the rewrite command.
type RewriteOptions struct {
	*RootOptions
	RulesFile     string
	Catalog       string
	Syntax        string
	Fold          bool
	MaxIterations int
	TraceDB       string
	ShowSteps     bool
}

// RewriteResult is the rewrite command's output payload.
type RewriteResult struct {
	Input      string       `json:"input"`
	Output     string       `json:"output"`
	Iterations int          `json:"iterations"`
	Converged  bool         `json:"converged"`
	RuleHash   string       `json:"rule_hash,omitempty"`
	SessionID  string       `json:"session_id,omitempty"`
	Steps      []StepReport `json:"steps,omitempty"`
}

// StepReport is one trace step in command output.
type StepReport struct {
	Kind    string `json:"kind"`
	Before  string `json:"before,omitempty"`
	After   string `json:"after,omitempty"`
	Pattern string `json:"pattern,omitempty"`
	Rule    string `json:"rule,omitempty"`
}

// NewRewriteCommand creates the rewrite command.
func NewRewriteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RewriteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "rewrite <expression>",
		Short: "Rewrite an expression with a rule set",
		Long: `Rewrite an expression until no rule applies.

Rules come from --rules (a .lisp/.json/.yaml file) or --catalog (a builtin
rule set); with neither, only constant folding applies.

The expression may be written as an S-expression or in infix notation;
--syntax auto picks by the leading character (a "(" means S-expression).

Examples:
  rho rewrite --catalog algebra "(+ x 0)"
  rho rewrite --catalog algebra "x + 0"
  rho rewrite --rules deriv.yaml "dd(x^3, x)"
  rho rewrite "(* 2 (+ 1 2))"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRewrite(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.RulesFile, "rules", "r", "", "rule file (.lisp, .json, .yaml)")
	cmd.Flags().StringVar(&opts.Catalog, "catalog", "", "builtin rule catalog (algebra, derivatives)")
	cmd.Flags().StringVar(&opts.Syntax, "syntax", "auto", "input syntax (auto, sexpr, infix)")
	cmd.Flags().BoolVar(&opts.Fold, "fold", true, "fold constant arithmetic")
	cmd.Flags().IntVar(&opts.MaxIterations, "max-iterations", engine.DefaultMaxIterations, "iteration budget")
	cmd.Flags().StringVar(&opts.TraceDB, "trace-db", "", "persist the rewrite trace to this SQLite database")
	cmd.Flags().BoolVar(&opts.ShowSteps, "steps", false, "include rewrite steps in the output")

	return cmd
}

func runRewrite(opts *RewriteOptions, input string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	expr, err := parseInput(input, opts.Syntax)
	if err != nil {
		return WrapExitError(ExitCommandError, "parse expression", err)
	}

	rs, err := resolveRules(opts)
	if err != nil {
		return WrapExitError(ExitCommandError, "load rules", err)
	}
	hash := rules.Hash(rs)
	formatter.VerboseLog("loaded %d rule(s), hash %s", len(rs), hash)

	recorder := trace.NewRecorder(trace.WithRuleHash(hash))
	rw := engine.New(rs,
		engine.WithConstantFolding(opts.Fold),
		engine.WithMaxIterations(opts.MaxIterations),
		engine.WithObserver(recorder),
	)

	out, outcome := rw.Result(expr)

	result := RewriteResult{
		Input:      sexpr.Format(expr),
		Output:     sexpr.Format(out),
		Iterations: outcome.Iterations,
		Converged:  outcome.Converged,
		RuleHash:   hash,
	}

	if opts.TraceDB != "" {
		store, err := trace.Open(opts.TraceDB)
		if err != nil {
			return WrapExitError(ExitCommandError, "open trace database", err)
		}
		defer store.Close()
		if err := store.SaveSession(cmd.Context(), recorder.Session()); err != nil {
			return WrapExitError(ExitCommandError, "save trace session", err)
		}
		result.SessionID = recorder.Session().ID
	}

	if opts.ShowSteps {
		result.Steps = stepReports(recorder.Session())
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}

	// Text output: the result, then optionally the step log.
	fmt.Fprintln(formatter.Writer, result.Output)
	if !result.Converged {
		fmt.Fprintf(formatter.Writer, "warning: iteration budget exhausted after %d iterations\n", result.Iterations)
	}
	for _, st := range result.Steps {
		switch st.Kind {
		case trace.KindRewrite:
			fmt.Fprintf(formatter.Writer, "  %s => %s  [%s]\n", st.Before, st.After, st.Rule)
		case trace.KindFold:
			fmt.Fprintf(formatter.Writer, "  %s => %s  [%s]\n", st.Before, st.After, st.Pattern)
		}
	}
	return nil
}

// parseInput dispatches on the requested syntax. "auto" treats input
// starting with "(" as an S-expression and anything else as infix.
func parseInput(input, syntax string) (term.Expr, error) {
	switch syntax {
	case "sexpr":
		return sexpr.Parse(input)
	case "infix":
		return sexpr.ParseInfix(input)
	case "auto", "":
		if strings.HasPrefix(strings.TrimSpace(input), "(") {
			return sexpr.Parse(input)
		}
		return sexpr.ParseInfix(input)
	default:
		return nil, fmt.Errorf("unknown syntax %q: available auto, sexpr, infix", syntax)
	}
}

func resolveRules(opts *RewriteOptions) (rules.RuleSet, error) {
	if opts.RulesFile != "" && opts.Catalog != "" {
		return nil, fmt.Errorf("--rules and --catalog are mutually exclusive")
	}
	if opts.RulesFile != "" {
		return rules.LoadFile(opts.RulesFile)
	}
	if opts.Catalog != "" {
		catalogs := rules.Catalogs()
		rs, ok := catalogs[opts.Catalog]
		if !ok {
			names := make([]string, 0, len(catalogs))
			for name := range catalogs {
				names = append(names, name)
			}
			sort.Strings(names)
			return nil, fmt.Errorf("unknown catalog %q: available %s", opts.Catalog, strings.Join(names, ", "))
		}
		return rs, nil
	}
	return nil, nil
}

func stepReports(sess *trace.Session) []StepReport {
	out := make([]StepReport, 0, len(sess.Steps))
	for _, st := range sess.Steps {
		if st.Kind != trace.KindRewrite && st.Kind != trace.KindFold {
			continue
		}
		rep := StepReport{
			Kind:   st.Kind,
			Before: sexpr.Format(st.Before),
			After:  sexpr.Format(st.After),
			Rule:   st.RuleName,
		}
		if st.PatternTag != "" {
			rep.Pattern = st.PatternTag
		} else if st.Pattern != nil {
			rep.Pattern = sexpr.Format(st.Pattern)
		}
		out = append(out, rep)
	}
	return out
}
