package route

import (
	"context"
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"golang.org/x/text/encoding/htmlindex"
)

// KML element shapes. Tags carry no namespace so both plain KML and the
// gx: extension elements match by local name.
type placemark struct {
	Name          string         `xml:"name"`
	Point         *coordinates   `xml:"Point"`
	LineString    *coordinates   `xml:"LineString"`
	LinearRing    *coordinates   `xml:"LinearRing"`
	Polygon       *polygon       `xml:"Polygon"`
	MultiGeometry *multiGeometry `xml:"MultiGeometry"`
	Track         *track         `xml:"Track"`
}

type coordinates struct {
	Coordinates string `xml:"coordinates"`
}

type polygon struct {
	Outer coordinates   `xml:"outerBoundaryIs>LinearRing"`
	Inner []coordinates `xml:"innerBoundaryIs>LinearRing"`
}

type multiGeometry struct {
	Points   []coordinates   `xml:"Point"`
	Lines    []coordinates   `xml:"LineString"`
	Polygons []polygon       `xml:"Polygon"`
	Nested   []multiGeometry `xml:"MultiGeometry"`
}

type track struct {
	Coords []string `xml:"coord"`
}

// ReadKML decodes every Placemark in a KML document. Placemarks without a
// geometry are skipped; any coordinate that fails to parse fails the read.
func ReadKML(ctx context.Context, r io.Reader, source string) ([]Feature, error) {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		enc, err := htmlindex.Get(charset)
		if err != nil {
			return nil, eris.Wrapf(err, "kml: unsupported charset %q", charset)
		}
		return enc.NewDecoder().Reader(input), nil
	}

	var features []Feature
	for {
		if ctx.Err() != nil {
			return nil, eris.Wrap(ctx.Err(), "kml: context cancelled")
		}

		tok, err := decoder.Token()
		if err == io.EOF {
			return features, nil
		}
		if err != nil {
			return nil, eris.Wrap(err, "kml: read token")
		}

		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "Placemark" {
			continue
		}

		var pm placemark
		if err := decoder.DecodeElement(&pm, &se); err != nil {
			return nil, eris.Wrap(err, "kml: decode placemark")
		}

		g, err := pm.geometry()
		if err != nil {
			return nil, eris.Wrapf(err, "kml: placemark %q", pm.Name)
		}
		if g == nil {
			continue
		}
		features = append(features, Feature{
			Name:     strings.TrimSpace(pm.Name),
			Source:   source,
			Geometry: g,
		})
	}
}

func (pm placemark) geometry() (geom.T, error) {
	switch {
	case pm.LineString != nil:
		return lineString(pm.LineString.Coordinates)
	case pm.Track != nil:
		return pm.Track.lineString()
	case pm.Point != nil:
		return point(pm.Point.Coordinates)
	case pm.LinearRing != nil:
		flat, err := parseCoordinates(pm.LinearRing.Coordinates)
		if err != nil {
			return nil, err
		}
		return geom.NewLinearRingFlat(geom.XY, flat), nil
	case pm.Polygon != nil:
		return pm.Polygon.polygon()
	case pm.MultiGeometry != nil:
		return pm.MultiGeometry.geometry()
	default:
		return nil, nil
	}
}

func (p polygon) polygon() (*geom.Polygon, error) {
	flat, err := parseCoordinates(p.Outer.Coordinates)
	if err != nil {
		return nil, err
	}
	ends := []int{len(flat)}
	for _, in := range p.Inner {
		hole, err := parseCoordinates(in.Coordinates)
		if err != nil {
			return nil, err
		}
		flat = append(flat, hole...)
		ends = append(ends, len(flat))
	}
	return geom.NewPolygonFlat(geom.XY, flat, ends), nil
}

func (t track) lineString() (*geom.LineString, error) {
	flat := make([]float64, 0, 2*len(t.Coords))
	for _, c := range t.Coords {
		x, y, err := parseTuple(strings.Fields(c))
		if err != nil {
			return nil, err
		}
		flat = append(flat, x, y)
	}
	if len(flat) < 4 {
		return nil, eris.Errorf("track needs at least 2 positions, got %d", len(flat)/2)
	}
	return geom.NewLineStringFlat(geom.XY, flat), nil
}

// geometry collapses a MultiGeometry holding only lines into a
// MultiLineString; anything else becomes a GeometryCollection.
func (m multiGeometry) geometry() (geom.T, error) {
	if len(m.Points) == 0 && len(m.Polygons) == 0 && len(m.Nested) == 0 && len(m.Lines) > 0 {
		mls := geom.NewMultiLineString(geom.XY)
		for _, l := range m.Lines {
			ls, err := lineString(l.Coordinates)
			if err != nil {
				return nil, err
			}
			if err := mls.Push(ls); err != nil {
				return nil, eris.Wrap(err, "multigeometry line")
			}
		}
		return mls, nil
	}

	gc := geom.NewGeometryCollection()
	for _, p := range m.Points {
		pt, err := point(p.Coordinates)
		if err != nil {
			return nil, err
		}
		if err := gc.Push(pt); err != nil {
			return nil, eris.Wrap(err, "multigeometry point")
		}
	}
	for _, l := range m.Lines {
		ls, err := lineString(l.Coordinates)
		if err != nil {
			return nil, err
		}
		if err := gc.Push(ls); err != nil {
			return nil, eris.Wrap(err, "multigeometry line")
		}
	}
	for _, p := range m.Polygons {
		poly, err := p.polygon()
		if err != nil {
			return nil, err
		}
		if err := gc.Push(poly); err != nil {
			return nil, eris.Wrap(err, "multigeometry polygon")
		}
	}
	for _, n := range m.Nested {
		g, err := n.geometry()
		if err != nil {
			return nil, err
		}
		if err := gc.Push(g); err != nil {
			return nil, eris.Wrap(err, "multigeometry nested")
		}
	}
	return gc, nil
}

func point(s string) (*geom.Point, error) {
	flat, err := parseCoordinates(s)
	if err != nil {
		return nil, err
	}
	if len(flat) != 2 {
		return nil, eris.Errorf("point needs 1 position, got %d", len(flat)/2)
	}
	return geom.NewPointFlat(geom.XY, flat), nil
}

func lineString(s string) (*geom.LineString, error) {
	flat, err := parseCoordinates(s)
	if err != nil {
		return nil, err
	}
	if len(flat) < 4 {
		return nil, eris.Errorf("line needs at least 2 positions, got %d", len(flat)/2)
	}
	return geom.NewLineStringFlat(geom.XY, flat), nil
}

// parseCoordinates reads a KML coordinates string of whitespace separated
// "lon,lat[,alt]" tuples into flat XY coordinates. Altitude is dropped.
func parseCoordinates(s string) ([]float64, error) {
	tuples := strings.Fields(s)
	if len(tuples) == 0 {
		return nil, eris.New("empty coordinates")
	}
	flat := make([]float64, 0, 2*len(tuples))
	for _, t := range tuples {
		x, y, err := parseTuple(strings.Split(t, ","))
		if err != nil {
			return nil, err
		}
		flat = append(flat, x, y)
	}
	return flat, nil
}

func parseTuple(parts []string) (float64, float64, error) {
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, eris.Errorf("bad coordinate %q", strings.Join(parts, ","))
	}
	x, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, 0, eris.Wrapf(err, "bad longitude %q", parts[0])
	}
	y, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, 0, eris.Wrapf(err, "bad latitude %q", parts[1])
	}
	return x, y, nil
}
