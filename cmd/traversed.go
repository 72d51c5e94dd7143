package main

import (
	"fmt"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sells-group/txtravel/internal/analysis"
)

var traversedCmd = &cobra.Command{
	Use:   "traversed",
	Short: "List counties crossed by recorded routes",
	Long:  "Clips every route to the Texas outline and lists the counties the routes pass through, with the number of routes crossing each.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		in, err := analysis.New(cfg, out).Load(ctx)
		if err != nil {
			return err
		}

		_, names, err := analysis.Traversed(in.Counties, in.Routes)
		if err != nil {
			return err
		}

		counts := make(map[string]int)
		for _, n := range names {
			counts[n]++
		}
		sorted := make([]string, 0, len(counts))
		for n := range counts {
			sorted = append(sorted, n)
		}
		sort.Strings(sorted)

		fmt.Fprintf(out, "\nCounties crossed: %d\n", len(sorted))
		for _, n := range sorted {
			fmt.Fprintf(out, "  %-20s %d\n", n, counts[n])
		}
		return nil
	},
}

func init() { rootCmd.AddCommand(traversedCmd) }
