// Package report renders analysis results for people and other tools.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/txtravel/internal/analysis"
)

// Output formats accepted by Write.
const (
	FormatText    = "text"
	FormatJSON    = "json"
	FormatYAML    = "yaml"
	FormatGeoJSON = "geojson"
)

// Write renders rep to w in the given format.
func Write(w io.Writer, rep *analysis.Report, format string) error {
	switch strings.ToLower(format) {
	case "", FormatText:
		_, err := io.WriteString(w, FormatReport(rep))
		return eris.Wrap(err, "report: write text")
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(rep), "report: encode json")
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return eris.Wrap(err, "report: encode yaml")
		}
		return eris.Wrap(enc.Close(), "report: close yaml encoder")
	case FormatGeoJSON:
		return writeGeoJSON(w, rep)
	default:
		return eris.Errorf("report: unknown format %q", format)
	}
}

// FormatReport generates a human-readable score report. Every metric shows
// the numbers it was computed from.
func FormatReport(rep *analysis.Report) string {
	var b strings.Builder

	b.WriteString("# Texas County Travel Report\n")
	fmt.Fprintf(&b, "Run: %s (%s)\n", rep.RunID, rep.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "Projection: %s\n\n", rep.Projection)

	b.WriteString("## Inputs\n")
	fmt.Fprintf(&b, "- Route files: %d\n", len(rep.RouteFiles))
	fmt.Fprintf(&b, "- Routes: %d\n", rep.Routes)
	if rep.Validation != nil {
		fmt.Fprintf(&b, "- Claimed counties: %d valid, %d invalid\n", len(rep.Validation.Valid), len(rep.Validation.Invalid))
	}
	fmt.Fprintf(&b, "- Counties crossed by routes: %d\n", len(rep.Traversed))
	fmt.Fprintf(&b, "- Visited counties: %d\n\n", len(rep.Visited))

	b.WriteString("## Scores\n")
	cpy := rep.CountiesPerYear
	fmt.Fprintf(&b, "- Counties per year: %d counties / %d years = %.2f\n", cpy.Counties, cpy.Years, cpy.Rate())

	if d := rep.GreatestDistance; d != nil {
		fmt.Fprintf(&b, "- Greatest distance: %s to %s, %.0f m = %.1f mi\n", d.From, d.To, d.Meters, d.Miles())
	}
	if bd := rep.LongestBoundary; bd != nil {
		fmt.Fprintf(&b, "- Longest boundary: %.0f m = %.1f mi (%d of %d areas, %.0f m buffer)\n",
			bd.Meters(), bd.Miles(), len(bd.Regions), bd.Parts, bd.BufferMeters)
	}

	bm := rep.BoldestMile
	fmt.Fprintf(&b, "- Boldest mile: %.1f mi x %d years = %.1f\n", bm.Miles, bm.VehicleAge, bm.Score())

	bingo := rep.AlphabetBingo
	fmt.Fprintf(&b, "- Alphabet bingo: %d letters [%s]\n", bingo.Count(), strings.Join(bingo.Letters, " "))
	if missing := bingo.Missing(); len(missing) > 0 && len(missing) < 26 {
		fmt.Fprintf(&b, "  Missing: %s\n", strings.Join(missing, " "))
	}

	if len(rep.Skipped) > 0 {
		b.WriteString("\n## Skipped\n")
		keys := make([]string, 0, len(rep.Skipped))
		for k := range rep.Skipped {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "- %s: %s\n", k, rep.Skipped[k])
		}
	}

	fmt.Fprintf(&b, "\n## Counties (%d)\n", rep.Roster.Count())
	if rep.Roster.Count() == 0 {
		b.WriteString("No counties visited.\n")
	}
	for _, n := range rep.Roster.Names {
		fmt.Fprintf(&b, "- %s\n", n)
	}

	return b.String()
}
