package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/nexus/internal/backend"
	"github.com/MrSnakeDoc/nexus/internal/domain"
)

var (
	searchPlatforms string
	searchJSON      bool
)

var searchCmd = &cobra.Command{
	Use:   "search <username>",
	Short: "Search a username on every platform, or the ones given with --platforms",
	Long: `Search a username and print one line per platform.

Examples:
  nexus search octocat
  nexus search octocat --platforms GitHub,Twitter
  nexus search octocat --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		core, err := openCore(cmd)
		if err != nil {
			return err
		}
		defer core.Close()

		results, err := core.Orchestrator.Search(cmd.Context(), strings.TrimSpace(args[0]), splitNames(searchPlatforms))
		if err != nil {
			if errors.Is(err, backend.ErrBackendUnreachable) {
				printWarning(cmd.ErrOrStderr(), "backend at %s is not reachable", core.Backend.BaseURL())
			}
			return err
		}

		if searchJSON {
			return writeResultsJSON(cmd.OutOrStdout(), results)
		}
		printResults(cmd.OutOrStdout(), results, core.Registry.Len())
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchPlatforms, "platforms", "", "comma-separated platform names (default: all)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "print results as JSON")
}

func printResults(out io.Writer, results []domain.SearchResult, totalPlatforms int) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PLATFORM\tSTATUS\tFOLLOWERS\tSCORE\tPROFILE")
	for _, r := range results {
		if !r.Exists {
			fmt.Fprintf(w, "%s\t%s\t-\t-\t-\n", r.Platform.Name, colorize(colorYellow, "not found"))
			continue
		}
		a := domain.Analyze(r)
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			r.Platform.Name, colorize(colorGreen, "found"), a.Followers, a.EngagementScore, r.ProfileURL())
	}
	_ = w.Flush()

	reach := domain.AggregateReach(results, totalPlatforms)
	fmt.Fprintf(out, "\nFound on %d/%d platforms (%d%% presence), %s followers in total\n",
		reach.PlatformsFound, reach.TotalPlatforms, reach.PresenceScorePercent, domain.FormatInt(reach.TotalFollowers))
}

func writeResultsJSON(out io.Writer, results []domain.SearchResult) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func splitNames(s string) []string {
	var names []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			names = append(names, p)
		}
	}
	return names
}
