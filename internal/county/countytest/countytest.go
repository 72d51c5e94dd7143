// Package countytest writes county boundary shapefiles for tests.
package countytest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/require"
)

// Record is one county row: a name and its polygon rings.
type Record struct {
	Name  string
	Parts [][]shp.Point
}

// Square returns a clockwise ring, the shapefile winding for outer rings.
func Square(minX, minY, size float64) []shp.Point {
	return []shp.Point{
		{X: minX, Y: minY},
		{X: minX, Y: minY + size},
		{X: minX + size, Y: minY + size},
		{X: minX + size, Y: minY},
		{X: minX, Y: minY},
	}
}

// Hole returns a counter-clockwise ring.
func Hole(minX, minY, size float64) []shp.Point {
	return []shp.Point{
		{X: minX, Y: minY},
		{X: minX + size, Y: minY},
		{X: minX + size, Y: minY + size},
		{X: minX, Y: minY + size},
		{X: minX, Y: minY},
	}
}

// WriteShapefile writes counties.shp (with .shx and .dbf) into dir, storing
// each record name in a single string field, and returns the .shp path.
func WriteShapefile(t testing.TB, dir, field string, records ...Record) string {
	t.Helper()
	path := filepath.Join(dir, "counties.shp")

	w, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)
	require.NoError(t, w.SetFields([]shp.Field{shp.StringField(field, 40)}))

	for _, r := range records {
		poly := shp.Polygon(*shp.NewPolyLine(r.Parts))
		row := w.Write(&poly)
		require.NoError(t, w.WriteAttribute(int(row), 0, r.Name))
	}
	w.Close()

	// go-shp v0.1.1 names the attribute table "<base>dbf" without the dot.
	base := strings.TrimSuffix(path, ".shp")
	if _, err := os.Stat(base + "dbf"); err == nil {
		require.NoError(t, os.Rename(base+"dbf", base+".dbf"))
	}
	require.FileExists(t, base+".dbf")
	return path
}
