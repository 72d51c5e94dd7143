package score

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/sells-group/txtravel/internal/county"
	"github.com/sells-group/txtravel/internal/route"
)

const utm14n = "+proj=utm +zone=14 +datum=WGS84 +units=m +no_defs"

func squareCounty(name string, minX, minY, size float64) county.County {
	return county.County{
		Name: name,
		Geometry: geom.NewMultiPolygon(geom.XY).MustSetCoords([][][]geom.Coord{
			{{{minX, minY}, {minX + size, minY}, {minX + size, minY + size}, {minX, minY + size}, {minX, minY}}},
		}),
	}
}

// planar builds a collection already in the target projection so
// measurements are exact.
func planar(counties ...county.County) *county.Collection {
	return county.NewCollection(counties, utm14n)
}

func newContext(t *testing.T, c *county.Collection, routes []route.Route, years, age int) *Context {
	t.Helper()
	ctx, err := New(c, routes, years, age, utm14n)
	require.NoError(t, err)
	return ctx
}

func TestNew_Validation(t *testing.T) {
	c := planar(squareCounty("Travis", 0, 0, 10))

	_, err := New(nil, nil, 1, 0, utm14n)
	assert.Error(t, err)

	_, err = New(c, nil, 0, 0, utm14n)
	assert.ErrorContains(t, err, "years of residency")

	_, err = New(c, nil, 1, -1, utm14n)
	assert.ErrorContains(t, err, "vehicle age")

	_, err = New(c, nil, 1, 0, "garbage")
	assert.Error(t, err)
}

func TestCountiesPerYear(t *testing.T) {
	ctx := newContext(t, planar(
		squareCounty("Travis", 0, 0, 10),
		squareCounty("Bell", 20, 0, 10),
		squareCounty("Hays", 40, 0, 10),
	), nil, 4, 0)

	got := ctx.CountiesPerYear()
	assert.Equal(t, CountiesPerYear{Counties: 3, Years: 4}, got)
	assert.InDelta(t, 0.75, got.Rate(), 1e-9)
}

func TestGreatestDistance_TwoCounties(t *testing.T) {
	// Centroids at (5, 5) and (35, 45): a 30-40-50 triangle.
	ctx := newContext(t, planar(
		squareCounty("Travis", 0, 0, 10),
		squareCounty("Bell", 30, 40, 10),
	), nil, 1, 0)

	d, err := ctx.GreatestDistance()
	require.NoError(t, err)

	assert.Equal(t, "Travis", d.From)
	assert.Equal(t, "Bell", d.To)
	assert.InDelta(t, 50.0, d.Meters, 1e-9)
	assert.InDelta(t, 50.0, d.Line.Length(), 1e-9)
	assert.InDelta(t, 50.0/1609, d.Miles(), 1e-12)
}

func TestGreatestDistance_PicksLongestPair(t *testing.T) {
	ctx := newContext(t, planar(
		squareCounty("A", 0, 0, 10),
		squareCounty("B", 100, 0, 10),
		squareCounty("C", 300, 0, 10),
		squareCounty("D", 150, 0, 10),
	), nil, 1, 0)

	d, err := ctx.GreatestDistance()
	require.NoError(t, err)
	assert.Equal(t, "A", d.From)
	assert.Equal(t, "C", d.To)
	assert.InDelta(t, 300.0, d.Meters, 1e-9)
}

func TestGreatestDistance_Tie(t *testing.T) {
	// Both diagonals of the square layout share the maximum length.
	ctx := newContext(t, planar(
		squareCounty("A", 0, 0, 10),
		squareCounty("B", 100, 0, 10),
		squareCounty("C", 100, 100, 10),
		squareCounty("D", 0, 100, 10),
	), nil, 1, 0)

	d, err := ctx.GreatestDistance()
	require.NoError(t, err)
	assert.InDelta(t, 141.421, d.Meters, 0.001)
	assert.Contains(t, []string{"A-C", "B-D"}, d.From+"-"+d.To)

	again, err := ctx.GreatestDistance()
	require.NoError(t, err)
	assert.Equal(t, d.From, again.From)
	assert.Equal(t, d.To, again.To)
}

func TestGreatestDistance_Degenerate(t *testing.T) {
	ctx := newContext(t, planar(squareCounty("Travis", 0, 0, 10)), nil, 1, 0)

	_, err := ctx.GreatestDistance()
	var degenerate *DegenerateInputError
	require.True(t, errors.As(err, &degenerate))
	assert.Equal(t, 2, degenerate.Need)
	assert.Equal(t, 1, degenerate.Got)
}

func TestLongestBoundary_AdjacentCountiesMerge(t *testing.T) {
	ctx := newContext(t, planar(
		squareCounty("Travis", 0, 0, 1000),
		squareCounty("Hays", 1000, 0, 1000),
		squareCounty("Far", 10000, 10000, 100),
	), nil, 1, 0)

	b, err := ctx.LongestBoundary()
	require.NoError(t, err)

	assert.Equal(t, 2, b.Parts)
	assert.InDelta(t, 1.0, b.BufferMeters, 1e-9)
	require.Len(t, b.Regions, 1)
	// 2000x1000 rectangle grown by 1m, rounded corners.
	assert.InDelta(t, 6006.27, b.Meters(), 0.1)
	assert.InDelta(t, b.Meters()/1609, b.Miles(), 1e-9)
	assert.NotNil(t, b.Regions[0].Polygon)
}

func TestLongestBoundary_TiesReturnAll(t *testing.T) {
	ctx := newContext(t, planar(
		squareCounty("A", 0, 0, 100),
		squareCounty("B", 1000, 0, 100),
	), nil, 1, 0)

	b, err := ctx.LongestBoundary()
	require.NoError(t, err)
	assert.Equal(t, 2, b.Parts)
	assert.Len(t, b.Regions, 2)
}

func TestLongestBoundary_CustomBuffer(t *testing.T) {
	c := planar(squareCounty("A", 0, 0, 100), squareCounty("B", 105, 0, 100))

	ctx := newContext(t, c, nil, 1, 0)
	b, err := ctx.LongestBoundary()
	require.NoError(t, err)
	assert.Equal(t, 2, b.Parts, "a 5m gap is not bridged by a 1m buffer")

	ctx, err = New(c, nil, 1, 0, utm14n, WithBufferMeters(3))
	require.NoError(t, err)
	b, err = ctx.LongestBoundary()
	require.NoError(t, err)
	assert.Equal(t, 1, b.Parts)
}

func TestLongestBoundary_Degenerate(t *testing.T) {
	ctx := newContext(t, planar(), nil, 1, 0)

	_, err := ctx.LongestBoundary()
	var degenerate *DegenerateInputError
	assert.True(t, errors.As(err, &degenerate))
}

func TestBoldestMile_EmptyRoutes(t *testing.T) {
	ctx := newContext(t, planar(squareCounty("Travis", 0, 0, 10)), nil, 1, 12)

	got, err := ctx.BoldestMile()
	require.NoError(t, err)
	assert.Equal(t, BoldestMile{Miles: 0, VehicleAge: 0}, got)
	assert.Zero(t, got.Score())
}

func TestBoldestMile_SumsProjectedLength(t *testing.T) {
	routes := []route.Route{
		{Name: "north", Line: geom.NewLineStringFlat(geom.XY, []float64{-99, 30, -99, 31})},
		{Name: "back", Line: geom.NewLineStringFlat(geom.XY, []float64{-99, 31, -99, 30})},
	}
	ctx := newContext(t, planar(squareCounty("Travis", 0, 0, 10)), routes, 1, 5)

	got, err := ctx.BoldestMile()
	require.NoError(t, err)

	// Two legs of roughly 110.8 km each.
	assert.InDelta(t, 2*110_800.0/1609, got.Miles, 1.5)
	assert.Equal(t, 5, got.VehicleAge)
	assert.InDelta(t, got.Miles*5, got.Score(), 1e-9)

	// Inputs are untouched by projection.
	assert.Equal(t, []float64{-99, 30, -99, 31}, routes[0].Line.FlatCoords())
}

func TestAlphabetBingo(t *testing.T) {
	ctx := newContext(t, planar(
		squareCounty("Travis", 0, 0, 10),
		squareCounty("Tarrant", 20, 0, 10),
		squareCounty("Bell", 40, 0, 10),
	), nil, 1, 0)

	got := ctx.AlphabetBingo()
	assert.Equal(t, []string{"B", "T"}, got.Letters)
	assert.Equal(t, 2, got.Count())
	assert.Len(t, got.Missing(), 24)
	assert.NotContains(t, got.Missing(), "B")
}

func TestAlphabetBingo_CaseSensitive(t *testing.T) {
	ctx := newContext(t, planar(
		squareCounty("bell", 0, 0, 10),
		squareCounty("Bell", 20, 0, 10),
		squareCounty("", 40, 0, 10),
	), nil, 1, 0)

	assert.Equal(t, []string{"B", "b"}, ctx.AlphabetBingo().Letters)
}

func TestAlphabetBingo_RawFirstByte(t *testing.T) {
	// Latin-1 "Ñueces" and "Álamo" as read from an unconverted DBF.
	ctx := newContext(t, planar(
		squareCounty("\xd1ueces", 0, 0, 10),
		squareCounty("\xc1lamo", 20, 0, 10),
		squareCounty("Ñandu", 40, 0, 10),
		squareCounty("Bell", 60, 0, 10),
	), nil, 1, 0)

	got := ctx.AlphabetBingo()
	// Sorted by byte value: U+00D1 encodes as 0xc3 0x91.
	assert.Equal(t, []string{"B", "\xc1", "Ñ", "\xd1"}, got.Letters)
	assert.Equal(t, 4, got.Count())
}

func TestRoster(t *testing.T) {
	names := []string{"Williamson", "Bell", "Travis", "Hays", "El Paso"}
	counties := make([]county.County, len(names))
	for i, n := range names {
		counties[i] = squareCounty(n, float64(i*20), 0, 10)
	}
	ctx := newContext(t, planar(counties...), nil, 1, 0)

	got := ctx.Roster()
	assert.Equal(t, len(names), got.Count())
	assert.Equal(t, []string{"Bell", "El Paso", "Hays", "Travis", "Williamson"}, got.Names)
	assert.ElementsMatch(t, names, got.Names)
}

func TestMetrics_AreIdempotent(t *testing.T) {
	c := planar(
		squareCounty("Travis", 0, 0, 10),
		squareCounty("Bell", 30, 40, 10),
	)
	before := c.Names()
	ctx := newContext(t, c, nil, 2, 3)

	d1, err := ctx.GreatestDistance()
	require.NoError(t, err)
	d2, err := ctx.GreatestDistance()
	require.NoError(t, err)
	assert.Equal(t, d1.Meters, d2.Meters)

	b1, err := ctx.LongestBoundary()
	require.NoError(t, err)
	b2, err := ctx.LongestBoundary()
	require.NoError(t, err)
	assert.Equal(t, b1.Meters(), b2.Meters())

	assert.Equal(t, ctx.Roster(), ctx.Roster())
	assert.Equal(t, ctx.AlphabetBingo(), ctx.AlphabetBingo())
	assert.Equal(t, before, c.Names())
	assert.Equal(t, 10.0, c.Counties()[0].Geometry.Polygon(0).LinearRing(0).Coord(1).X())
}
