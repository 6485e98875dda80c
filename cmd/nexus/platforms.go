package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/nexus/internal/config"
	"github.com/MrSnakeDoc/nexus/internal/sources/platforms"
)

var platformsCmd = &cobra.Command{
	Use:   "platforms",
	Short: "List supported platforms in search order",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := platforms.LoadRegistry(config.Load().PlatformFile)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tKEY\tCOLOR\tPROFILE URL")
		for _, p := range reg.List() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Name, p.Endpoint, p.Color, p.ProfileURLPrefix)
		}
		return w.Flush()
	},
}
