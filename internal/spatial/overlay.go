package spatial

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geos"
)

// Crossing records a line passing through a polygon.
type Crossing struct {
	Line    int     // index into the overlaid lines
	Polygon int     // index into the overlaid polygons
	Length  float64 // length of the shared portion, in input units
}

// Overlay intersects every line with every polygon and reports each pair
// whose intersection has positive length. Lines that only touch a polygon
// at a point are not crossings. Results are ordered line-major, then by
// polygon index.
func Overlay(lines []*geom.LineString, polys []geom.T) ([]Crossing, error) {
	gpolys := make([]*geos.Geom, len(polys))
	for i, p := range polys {
		gp, err := toGEOS(p)
		if err != nil {
			return nil, eris.Wrapf(err, "spatial: overlay polygon %d", i)
		}
		gpolys[i] = gp
	}

	var out []Crossing
	for li, l := range lines {
		gl, err := toGEOS(l)
		if err != nil {
			return nil, eris.Wrapf(err, "spatial: overlay line %d", li)
		}
		for pi, gp := range gpolys {
			if !gl.Intersects(gp) {
				continue
			}
			length := gl.Intersection(gp).Length()
			if length <= 0 {
				continue
			}
			out = append(out, Crossing{Line: li, Polygon: pi, Length: length})
		}
	}
	return out, nil
}

// Clip intersects each line with region and returns the line parts that fall
// inside it, index-aligned with the input. Lines entirely outside the region
// yield no parts.
func Clip(lines []*geom.LineString, region geom.T) ([][]*geom.LineString, error) {
	gr, err := toGEOS(region)
	if err != nil {
		return nil, eris.Wrap(err, "spatial: clip region")
	}

	out := make([][]*geom.LineString, len(lines))
	for i, l := range lines {
		gl, err := toGEOS(l)
		if err != nil {
			return nil, eris.Wrapf(err, "spatial: clip line %d", i)
		}
		if !gl.Intersects(gr) {
			continue
		}
		for _, part := range parts(gl.Intersection(gr)) {
			if part.TypeID() != geos.TypeIDLineString {
				continue
			}
			t, err := fromGEOS(part)
			if err != nil {
				return nil, err
			}
			ls, ok := t.(*geom.LineString)
			if !ok {
				continue
			}
			out[i] = append(out[i], ls)
		}
	}
	return out, nil
}
