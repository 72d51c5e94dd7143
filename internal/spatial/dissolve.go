package spatial

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geos"
)

// quadSegs is the number of segments used per quarter circle when buffering.
const quadSegs = 8

// Dissolve buffers every polygonal geometry by margin, merges the results and
// splits the union into its disjoint polygons. A zero margin merges only
// geometries that already overlap or touch.
func Dissolve(gs []geom.T, margin float64) ([]*geom.Polygon, error) {
	union, err := unionAll(gs, margin)
	if err != nil {
		return nil, err
	}

	var out []*geom.Polygon
	for _, part := range parts(union) {
		if part.TypeID() != geos.TypeIDPolygon {
			continue
		}
		t, err := fromGEOS(part)
		if err != nil {
			return nil, err
		}
		poly, ok := t.(*geom.Polygon)
		if !ok {
			return nil, eris.Errorf("spatial: dissolve produced %T", t)
		}
		out = append(out, poly)
	}
	return out, nil
}

// Outline merges polygonal geometries into a single region with no buffering.
func Outline(gs []geom.T) (geom.T, error) {
	union, err := unionAll(gs, 0)
	if err != nil {
		return nil, err
	}
	if union == nil || union.IsEmpty() {
		return nil, eris.New("spatial: outline of empty input")
	}
	return fromGEOS(union)
}

// ExteriorLength returns the length of a polygon's outer ring.
func ExteriorLength(p *geom.Polygon) float64 {
	if p == nil || p.NumLinearRings() == 0 {
		return 0
	}
	return p.LinearRing(0).Length()
}

func unionAll(gs []geom.T, margin float64) (*geos.Geom, error) {
	var acc *geos.Geom
	for i, g := range gs {
		gg, err := toGEOS(g)
		if err != nil {
			return nil, eris.Wrapf(err, "spatial: geometry %d", i)
		}
		if margin != 0 {
			gg = gg.Buffer(margin, quadSegs)
		}
		if acc == nil {
			acc = gg
			continue
		}
		acc = acc.Union(gg)
	}
	if acc == nil {
		return nil, nil
	}
	return acc.UnaryUnion(), nil
}
