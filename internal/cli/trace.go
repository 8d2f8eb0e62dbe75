package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rho-lang/rho/internal/trace"
)

// TraceOptions holds flags for the trace commands.
type TraceOptions struct {
	*RootOptions
	Database string
}

// NewTraceCommand creates the trace command and its subcommands.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Inspect persisted rewrite traces",
	}
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "rho_trace.db", "trace database path")

	cmd.AddCommand(newTraceListCommand(opts))
	cmd.AddCommand(newTraceShowCommand(opts))
	return cmd
}

func newTraceListCommand(opts *TraceOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List stored rewrite sessions",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{
				Format:    opts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   opts.Verbose,
			}

			store, err := trace.Open(opts.Database)
			if err != nil {
				return WrapExitError(ExitCommandError, "open trace database", err)
			}
			defer store.Close()

			sessions, err := store.ListSessions(cmd.Context())
			if err != nil {
				return WrapExitError(ExitCommandError, "list sessions", err)
			}

			if opts.Format == "json" {
				return formatter.Success(sessions)
			}
			if len(sessions) == 0 {
				fmt.Fprintln(formatter.Writer, "no sessions")
				return nil
			}
			for _, s := range sessions {
				fmt.Fprintf(formatter.Writer, "%s  %s -> %s  (%d steps, %d iterations)\n",
					s.ID, s.Input, s.Output, s.StepCount, s.Iterations)
			}
			return nil
		},
	}
}

func newTraceShowCommand(opts *TraceOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <session-id>",
		Short:         "Show the steps of one rewrite session",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{
				Format:    opts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   opts.Verbose,
			}

			store, err := trace.Open(opts.Database)
			if err != nil {
				return WrapExitError(ExitCommandError, "open trace database", err)
			}
			defer store.Close()

			sess, err := store.LoadSession(cmd.Context(), args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "load session", err)
			}

			if opts.Format == "json" {
				snapshot, err := sess.Snapshot()
				if err != nil {
					return WrapExitError(ExitCommandError, "serialize session", err)
				}
				fmt.Fprintln(formatter.Writer, string(snapshot))
				return nil
			}

			for _, st := range sess.Steps {
				switch st.Kind {
				case trace.KindInitial:
					fmt.Fprintf(formatter.Writer, "initial  %s\n", st.Expr)
				case trace.KindRewrite:
					name := st.RuleName
					if name == "" {
						name = "rule"
					}
					fmt.Fprintf(formatter.Writer, "rewrite  %s => %s  [%s]\n", st.Before, st.After, name)
				case trace.KindFold:
					fmt.Fprintf(formatter.Writer, "fold     %s => %s  [%s]\n", st.Before, st.After, st.PatternTag)
				case trace.KindFinal:
					fmt.Fprintf(formatter.Writer, "final    %s  (%d iterations)\n", st.Expr, st.Iterations)
				}
			}
			return nil
		},
	}
}
