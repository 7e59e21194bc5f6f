package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vango-go/reactor/internal/lessons"
)

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available lessons",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, l := range lessons.All() {
				fmt.Fprintf(tw, "%s\t%s\n", l.Name, l.Summary)
			}
			return tw.Flush()
		},
	}
}
