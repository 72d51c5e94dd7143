package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sells-group/txtravel/internal/route"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List route archives and their line features",
	Long:  "Discovers KMZ archives in the route directory and prints the line features each one contributes.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		files, err := route.Discover(cfg.Data.RouteDir, out)
		if err != nil {
			return err
		}

		routes, err := route.Load(ctx, files)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "\n%d routes\n", len(routes))
		for _, r := range routes {
			fmt.Fprintf(out, "  %-30s %4d points  %s\n", r.Name, r.Line.NumCoords(), r.Source)
		}
		return nil
	},
}

func init() { rootCmd.AddCommand(routesCmd) }
