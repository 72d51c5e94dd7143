// Package spatial provides the projection, dissolve and overlay operations
// used to score county travel. Geometries are go-geom values; heavy
// operations are delegated to GEOS.
package spatial

import (
	"strings"

	"github.com/ctessum/geom/proj"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
)

// Projector reprojects go-geom geometries from a source spatial reference
// system into a target one. Both are given as proj4 strings or WKT.
type Projector struct {
	source    string
	target    string
	transform proj.Transformer
}

// NewProjector parses both reference systems and builds the transform.
// Identical definitions produce an identity projector.
func NewProjector(source, target string) (*Projector, error) {
	p := &Projector{source: source, target: target}
	if strings.TrimSpace(source) == strings.TrimSpace(target) {
		return p, nil
	}

	src, err := proj.Parse(source)
	if err != nil {
		return nil, eris.Wrapf(err, "spatial: parse source srs %q", source)
	}
	dst, err := proj.Parse(target)
	if err != nil {
		return nil, eris.Wrapf(err, "spatial: parse target srs %q", target)
	}

	ct, err := src.NewTransform(dst)
	if err != nil {
		return nil, eris.Wrap(err, "spatial: build transform")
	}
	p.transform = ct
	return p, nil
}

// Target returns the target reference system definition.
func (p *Projector) Target() string { return p.target }

// Project returns a reprojected copy of g. The input is never modified.
func (p *Projector) Project(g geom.T) (geom.T, error) {
	if g == nil {
		return nil, eris.New("spatial: project nil geometry")
	}

	layout := g.Layout()
	flat, err := p.projectFlat(g.FlatCoords(), layout.Stride())
	if err != nil {
		return nil, err
	}

	switch t := g.(type) {
	case *geom.Point:
		return geom.NewPointFlat(layout, flat), nil
	case *geom.MultiPoint:
		return geom.NewMultiPointFlat(layout, flat), nil
	case *geom.LineString:
		return geom.NewLineStringFlat(layout, flat), nil
	case *geom.MultiLineString:
		return geom.NewMultiLineStringFlat(layout, flat, append([]int(nil), t.Ends()...)), nil
	case *geom.Polygon:
		return geom.NewPolygonFlat(layout, flat, append([]int(nil), t.Ends()...)), nil
	case *geom.MultiPolygon:
		endss := make([][]int, len(t.Endss()))
		for i, ends := range t.Endss() {
			endss[i] = append([]int(nil), ends...)
		}
		return geom.NewMultiPolygonFlat(layout, flat, endss), nil
	default:
		return nil, eris.Errorf("spatial: cannot project %T", g)
	}
}

// ProjectLineString is Project specialised to line strings.
func (p *Projector) ProjectLineString(ls *geom.LineString) (*geom.LineString, error) {
	g, err := p.Project(ls)
	if err != nil {
		return nil, err
	}
	return g.(*geom.LineString), nil
}

func (p *Projector) projectFlat(in []float64, stride int) ([]float64, error) {
	out := make([]float64, len(in))
	copy(out, in)
	if p.transform == nil {
		return out, nil
	}
	for i := 0; i+1 < len(out); i += stride {
		x, y, err := p.transform(out[i], out[i+1])
		if err != nil {
			return nil, eris.Wrapf(err, "spatial: transform coordinate (%f, %f)", out[i], out[i+1])
		}
		out[i], out[i+1] = x, y
	}
	return out, nil
}
