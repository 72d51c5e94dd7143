package report

import (
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/txtravel/internal/analysis"
)

// Workbook builds an XLSX workbook with a summary sheet of metric inputs and
// results plus one sheet listing the visited counties.
func Workbook(rep *analysis.Report) (*xlsx.File, error) {
	f := xlsx.NewFile()

	summary, err := f.AddSheet("Scores")
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: add scores sheet")
	}
	header(summary, "Metric", "Input A", "Input B", "Result")

	cpy := rep.CountiesPerYear
	metricRow(summary, "Counties per year", float64(cpy.Counties), float64(cpy.Years), cpy.Rate())

	if d := rep.GreatestDistance; d != nil {
		row := summary.AddRow()
		row.AddCell().SetString("Greatest distance (mi)")
		row.AddCell().SetString(d.From)
		row.AddCell().SetString(d.To)
		row.AddCell().SetFloat(d.Miles())
	}
	if b := rep.LongestBoundary; b != nil {
		metricRow(summary, "Longest boundary (mi)", float64(len(b.Regions)), float64(b.Parts), b.Miles())
	}

	bm := rep.BoldestMile
	metricRow(summary, "Boldest mile", bm.Miles, float64(bm.VehicleAge), bm.Score())

	bingo := summary.AddRow()
	bingo.AddCell().SetString("Alphabet bingo")
	bingo.AddCell().SetString(strings.Join(rep.AlphabetBingo.Letters, ""))
	bingo.AddCell()
	bingo.AddCell().SetInt(rep.AlphabetBingo.Count())

	counties, err := f.AddSheet("Counties")
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: add counties sheet")
	}
	header(counties, "County", "Crossed by route")
	crossed := make(map[string]bool, len(rep.Traversed))
	for _, n := range rep.Traversed {
		crossed[n] = true
	}
	for _, n := range rep.Roster.Names {
		row := counties.AddRow()
		row.AddCell().SetString(n)
		row.AddCell().SetBool(crossed[n])
	}

	return f, nil
}

// WriteXLSX writes the workbook for rep to w.
func WriteXLSX(w io.Writer, rep *analysis.Report) error {
	f, err := Workbook(rep)
	if err != nil {
		return err
	}
	return eris.Wrap(f.Write(w), "xlsx: write workbook")
}

// SaveXLSX writes the workbook for rep to path.
func SaveXLSX(path string, rep *analysis.Report) error {
	out, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "xlsx: create %s", path)
	}
	defer out.Close() //nolint:errcheck

	return WriteXLSX(out, rep)
}

func header(sheet *xlsx.Sheet, titles ...string) {
	row := sheet.AddRow()
	for _, t := range titles {
		row.AddCell().SetString(t)
	}
}

func metricRow(sheet *xlsx.Sheet, name string, a, b, result float64) {
	row := sheet.AddRow()
	row.AddCell().SetString(name)
	row.AddCell().SetFloat(a)
	row.AddCell().SetFloat(b)
	row.AddCell().SetFloat(result)
}
