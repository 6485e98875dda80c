package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past searches, most recent first",
	RunE:  runHistoryList,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show past searches, most recent first",
	RunE:  runHistoryList,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Erase the search history",
	RunE: func(cmd *cobra.Command, args []string) error {
		core, err := openCore(cmd)
		if err != nil {
			return err
		}
		defer core.Close()

		if err := core.Ledger.Clear(cmd.Context()); err != nil {
			return err
		}
		printSuccess(cmd.ErrOrStderr(), "History cleared")
		return nil
	},
}

var historyRerunCmd = &cobra.Command{
	Use:   "rerun <term>",
	Short: "Repeat a past search with the platforms it was made with",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		core, err := openCore(cmd)
		if err != nil {
			return err
		}
		defer core.Close()

		entry, ok := core.Ledger.Find(cmd.Context(), args[0])
		if !ok {
			return fmt.Errorf("no history entry for %q", args[0])
		}
		results, err := core.Orchestrator.Rerun(cmd.Context(), entry)
		if err != nil {
			return err
		}
		printResults(cmd.OutOrStdout(), results, core.Registry.Len())
		return nil
	},
}

func init() {
	historyCmd.AddCommand(historyListCmd, historyClearCmd, historyRerunCmd)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	core, err := openCore(cmd)
	if err != nil {
		return err
	}
	defer core.Close()

	entries := core.Ledger.Entries(cmd.Context())
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No searches yet")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TERM\tWHEN\tPLATFORMS")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.Term, e.Timestamp, strings.Join(e.Platforms, ", "))
	}
	return w.Flush()
}
