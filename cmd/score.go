package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/txtravel/internal/analysis"
	"github.com/sells-group/txtravel/internal/config"
	"github.com/sells-group/txtravel/internal/report"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Compute county travel scores",
	Long: `Runs the full analysis: validates claimed counties, finds counties crossed
by recorded routes and reports counties per year, greatest distance,
longest boundary, boldest mile and alphabet bingo.`,
	Example: `  # Text report using config.yaml
  score

  # JSON report with profile overrides
  score --years 4 --vehicle-age 7 --format json

  # GeoJSON of the distance line and boundary, plus a workbook
  score --format geojson --xlsx scores.xlsx > scores.geojson`,
	RunE: runScore,
}

func init() {
	f := scoreCmd.Flags()
	f.StringSlice("county", nil, "claimed county (repeatable, overrides profile.counties)")
	f.Int("years", 0, "years of residency (overrides config)")
	f.Int("vehicle-age", 0, "vehicle age in years (overrides config)")
	f.Bool("claimed-only", false, "score claimed counties only, ignoring counties crossed by routes")
	f.String("format", "", "output format: text, json, yaml or geojson (default: report.format)")
	f.String("xlsx", "", "also write the report as an XLSX workbook to this path")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	applyProfileOverrides(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	if format == "" {
		format = cfg.Report.Format
	}
	xlsxPath, _ := cmd.Flags().GetString("xlsx")

	log := zap.L().With(zap.String("command", "score"))

	out := cmd.OutOrStdout()
	p := analysis.New(cfg, cmd.ErrOrStderr())
	in, err := p.Load(ctx)
	if err != nil {
		return err
	}

	rep, err := p.Run(ctx, in)
	if err != nil {
		return err
	}

	if err := report.Write(out, rep, format); err != nil {
		return err
	}

	if xlsxPath != "" {
		if err := report.SaveXLSX(xlsxPath, rep); err != nil {
			return eris.Wrap(err, "score: save workbook")
		}
		log.Info("workbook written", zap.String("path", xlsxPath))
		fmt.Fprintf(cmd.ErrOrStderr(), "Workbook written to %s\n", xlsxPath)
	}
	return nil
}

// applyProfileOverrides copies explicitly set flags over the loaded profile.
// Values are not checked here; Config.Validate rejects out-of-range ones.
func applyProfileOverrides(cmd *cobra.Command, c *config.Config) {
	f := cmd.Flags()
	if f.Changed("county") {
		c.Profile.Counties, _ = f.GetStringSlice("county")
	}
	if f.Changed("years") {
		c.Profile.YearsOfResidency, _ = f.GetInt("years")
	}
	if f.Changed("vehicle-age") {
		c.Profile.VehicleAge, _ = f.GetInt("vehicle-age")
	}
	if v, _ := f.GetBool("claimed-only"); v {
		c.Profile.IncludeTraversed = false
	}
}
