package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

const (
	wgs84  = "+proj=longlat +datum=WGS84 +no_defs"
	utm14n = "+proj=utm +zone=14 +datum=WGS84 +units=m +no_defs"
)

func square(minX, minY, size float64) *geom.Polygon {
	return geom.NewPolygonFlat(geom.XY, []float64{
		minX, minY,
		minX + size, minY,
		minX + size, minY + size,
		minX, minY + size,
		minX, minY,
	}, []int{10})
}

func line(coords ...float64) *geom.LineString {
	return geom.NewLineStringFlat(geom.XY, coords)
}

func TestProjector_Identity(t *testing.T) {
	p, err := NewProjector(utm14n, utm14n)
	require.NoError(t, err)

	in := line(0, 0, 3, 4)
	out, err := p.ProjectLineString(in)
	require.NoError(t, err)
	assert.Equal(t, in.FlatCoords(), out.FlatCoords())
	assert.InDelta(t, 5.0, out.Length(), 1e-9)
}

func TestProjector_UTMCentralMeridian(t *testing.T) {
	p, err := NewProjector(wgs84, utm14n)
	require.NoError(t, err)

	// -99 is the central meridian of zone 14.
	out, err := p.Project(geom.NewPointFlat(geom.XY, []float64{-99, 30}))
	require.NoError(t, err)

	pt := out.(*geom.Point)
	assert.InDelta(t, 500000.0, pt.X(), 0.01)
	assert.Greater(t, pt.Y(), 3_300_000.0)
	assert.Less(t, pt.Y(), 3_340_000.0)
}

func TestProjector_DoesNotMutateInput(t *testing.T) {
	p, err := NewProjector(wgs84, utm14n)
	require.NoError(t, err)

	in := line(-97.7, 30.2, -97.1, 31.1)
	before := append([]float64(nil), in.FlatCoords()...)

	_, err = p.Project(in)
	require.NoError(t, err)
	assert.Equal(t, before, in.FlatCoords())
}

func TestProjector_DegreeOfLatitude(t *testing.T) {
	p, err := NewProjector(wgs84, utm14n)
	require.NoError(t, err)

	out, err := p.ProjectLineString(line(-99, 30, -99, 31))
	require.NoError(t, err)
	// About 110.9 km scaled by the 0.9996 UTM factor.
	assert.InDelta(t, 110_800.0, out.Length(), 1_000)
}

func TestProjector_Polygon(t *testing.T) {
	p, err := NewProjector(wgs84, utm14n)
	require.NoError(t, err)

	out, err := p.Project(geom.NewMultiPolygon(geom.XY).MustSetCoords([][][]geom.Coord{
		{{{-98, 30}, {-97, 30}, {-97, 31}, {-98, 31}, {-98, 30}}},
	}))
	require.NoError(t, err)

	mp, ok := out.(*geom.MultiPolygon)
	require.True(t, ok)
	assert.Equal(t, 1, mp.NumPolygons())
	assert.Equal(t, 5, mp.Polygon(0).LinearRing(0).NumCoords())
}

func TestProjector_BadSRS(t *testing.T) {
	_, err := NewProjector("not a projection", utm14n)
	assert.Error(t, err)
}

func TestCentroid(t *testing.T) {
	c, err := Centroid(square(0, 0, 10))
	require.NoError(t, err)
	assert.InDelta(t, 5.0, c.X(), 1e-9)
	assert.InDelta(t, 5.0, c.Y(), 1e-9)
}

func TestDissolve_AdjacentMerge(t *testing.T) {
	polys, err := Dissolve([]geom.T{square(0, 0, 10), square(10, 0, 10)}, 1)
	require.NoError(t, err)
	require.Len(t, polys, 1)

	// 20x10 rectangle grown by 1 on every side, with rounded corners.
	assert.InDelta(t, 66.28, ExteriorLength(polys[0]), 0.1)
}

func TestDissolve_DisjointStaySeparate(t *testing.T) {
	polys, err := Dissolve([]geom.T{square(0, 0, 10), square(100, 0, 5)}, 1)
	require.NoError(t, err)
	require.Len(t, polys, 2)
}

func TestDissolve_Empty(t *testing.T) {
	polys, err := Dissolve(nil, 1)
	require.NoError(t, err)
	assert.Empty(t, polys)
}

func TestOutline(t *testing.T) {
	region, err := Outline([]geom.T{square(0, 0, 10), square(10, 0, 10)})
	require.NoError(t, err)

	poly, ok := region.(*geom.Polygon)
	require.True(t, ok)
	assert.InDelta(t, 200.0, poly.Area(), 1e-6)

	_, err = Outline(nil)
	assert.Error(t, err)
}

func TestOverlay(t *testing.T) {
	polys := []geom.T{square(0, 0, 10), square(10, 0, 10), square(50, 50, 10)}
	lines := []*geom.LineString{
		line(-5, 5, 25, 5),
		line(-5, -5, 0, 0), // touches a corner only
		line(55, 40, 55, 70),
	}

	crossings, err := Overlay(lines, polys)
	require.NoError(t, err)
	require.Len(t, crossings, 3)

	assert.Equal(t, Crossing{Line: 0, Polygon: 0, Length: 10}, crossings[0])
	assert.Equal(t, Crossing{Line: 0, Polygon: 1, Length: 10}, crossings[1])
	assert.Equal(t, 2, crossings[2].Line)
	assert.Equal(t, 2, crossings[2].Polygon)
	assert.InDelta(t, 10.0, crossings[2].Length, 1e-9)
}

func TestClip(t *testing.T) {
	region := square(0, 0, 10)
	lines := []*geom.LineString{
		line(-5, 5, 5, 5),
		line(20, 20, 30, 30),
		line(-5, 2, 15, 2),
	}

	clipped, err := Clip(lines, region)
	require.NoError(t, err)
	require.Len(t, clipped, 3)

	require.Len(t, clipped[0], 1)
	assert.InDelta(t, 5.0, clipped[0][0].Length(), 1e-9)
	assert.Empty(t, clipped[1])
	require.Len(t, clipped[2], 1)
	assert.InDelta(t, 10.0, clipped[2][0].Length(), 1e-9)
}

func TestExteriorLength(t *testing.T) {
	assert.InDelta(t, 40.0, ExteriorLength(square(0, 0, 10)), 1e-9)
	assert.Zero(t, ExteriorLength(nil))
}
