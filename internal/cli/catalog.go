package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/rho-lang/rho/internal/rules"
	"github.com/rho-lang/rho/internal/sexpr"
)

// CatalogEntry describes one builtin catalog.
type CatalogEntry struct {
	Name     string        `json:"name"`
	RuleHash string        `json:"rule_hash"`
	Rules    []CatalogRule `json:"rules"`
}

// CatalogRule is one rule of a catalog listing.
type CatalogRule struct {
	Name     string `json:"name,omitempty"`
	Pattern  string `json:"pattern"`
	Skeleton string `json:"skeleton"`
}

// NewCatalogCommand creates the catalog command.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "catalog [name]",
		Short:         "List builtin rule catalogs",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{
				Format:    rootOpts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   rootOpts.Verbose,
			}

			catalogs := rules.Catalogs()

			var names []string
			if len(args) == 1 {
				if _, ok := catalogs[args[0]]; !ok {
					return NewExitError(ExitCommandError, fmt.Sprintf("unknown catalog %q", args[0]))
				}
				names = args
			} else {
				for name := range catalogs {
					names = append(names, name)
				}
				sort.Strings(names)
			}

			entries := make([]CatalogEntry, 0, len(names))
			for _, name := range names {
				rs := catalogs[name]
				entry := CatalogEntry{Name: name, RuleHash: rules.Hash(rs)}
				for _, r := range rs {
					entry.Rules = append(entry.Rules, CatalogRule{
						Name:     r.Name,
						Pattern:  sexpr.Format(r.Pattern),
						Skeleton: sexpr.Format(r.Skeleton),
					})
				}
				entries = append(entries, entry)
			}

			if rootOpts.Format == "json" {
				return formatter.Success(entries)
			}
			for _, entry := range entries {
				fmt.Fprintf(formatter.Writer, "%s (%d rules)\n", entry.Name, len(entry.Rules))
				for _, r := range entry.Rules {
					fmt.Fprintf(formatter.Writer, "  %-16s %s => %s\n", r.Name, r.Pattern, r.Skeleton)
				}
			}
			return nil
		},
	}
}
