package spatial

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkb"
	"github.com/twpayne/go-geos"
)

// toGEOS converts a go-geom geometry to a GEOS geometry via WKB.
func toGEOS(g geom.T) (*geos.Geom, error) {
	data, err := wkb.Marshal(g, wkb.NDR)
	if err != nil {
		return nil, eris.Wrap(err, "spatial: encode WKB")
	}
	gg, err := geos.NewGeomFromWKB(data)
	if err != nil {
		return nil, eris.Wrap(err, "spatial: decode WKB into GEOS")
	}
	return gg, nil
}

// fromGEOS converts a non-empty GEOS geometry back to go-geom.
func fromGEOS(g *geos.Geom) (geom.T, error) {
	t, err := wkb.Unmarshal(g.ToWKB())
	if err != nil {
		return nil, eris.Wrap(err, "spatial: decode GEOS WKB")
	}
	return t, nil
}

// parts explodes a GEOS geometry into its single-part components.
// Nested collections are flattened; empty parts are dropped.
func parts(g *geos.Geom) []*geos.Geom {
	if g == nil || g.IsEmpty() {
		return nil
	}
	switch g.TypeID() {
	case geos.TypeIDMultiPoint, geos.TypeIDMultiLineString, geos.TypeIDMultiPolygon, geos.TypeIDGeometryCollection:
		var out []*geos.Geom
		for i := 0; i < g.NumGeometries(); i++ {
			out = append(out, parts(g.Geometry(i))...)
		}
		return out
	default:
		return []*geos.Geom{g}
	}
}

// Centroid returns the centroid of a geometry in its own coordinates.
func Centroid(g geom.T) (geom.Coord, error) {
	gg, err := toGEOS(g)
	if err != nil {
		return nil, err
	}
	c := gg.Centroid()
	if c == nil || c.IsEmpty() {
		return nil, eris.New("spatial: centroid of empty geometry")
	}
	return geom.Coord{c.X(), c.Y()}, nil
}
