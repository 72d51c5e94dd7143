package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/txtravel/internal/county"
)

var checkCmd = &cobra.Command{
	Use:   "check [county...]",
	Short: "Check claimed county names against the boundary data",
	Long:  "Compares the claimed county names (from arguments or profile.counties) with the official names in the county shapefile and suggests corrections.",
	Example: `  # Check the configured profile
  check

  # Check names given on the command line
  check Travis "El Paso" Tarrent`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().Bool("strict", false, "exit with an error when any name is invalid")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	names := cfg.Profile.Counties
	if len(args) > 0 {
		names = args
	}

	counties, err := county.LoadShapefile(cfg.Data.CountiesPath, cfg.Data.NameField, cfg.Data.SourceSRS)
	if err != nil {
		return err
	}

	v := county.Validate(names, counties.Names())
	v.Print(cmd.OutOrStdout())

	if strict, _ := cmd.Flags().GetBool("strict"); strict && !v.OK() {
		return eris.Errorf("check: %d invalid county names", len(v.Invalid))
	}
	return nil
}
