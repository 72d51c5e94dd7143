package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/txtravel/internal/analysis"
	"github.com/sells-group/txtravel/internal/route"
	"github.com/sells-group/txtravel/internal/spatial"
)

// Features builds a GeoJSON feature collection of the geometric metrics.
// Geometries are converted from the measurement projection back to WGS84
// longitude/latitude.
func Features(rep *analysis.Report) (*geojson.FeatureCollection, error) {
	toWGS84, err := spatial.NewProjector(rep.Projection, route.SRS)
	if err != nil {
		return nil, eris.Wrap(err, "report: geojson projection")
	}

	fc := &geojson.FeatureCollection{}
	add := func(id string, g geom.T, props map[string]interface{}) error {
		projected, err := toWGS84.Project(g)
		if err != nil {
			return eris.Wrapf(err, "report: project %s", id)
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:         id,
			Geometry:   projected,
			Properties: props,
		})
		return nil
	}

	if d := rep.GreatestDistance; d != nil && d.Line != nil {
		err := add("greatest_distance", d.Line, map[string]interface{}{
			"metric": "greatest_distance",
			"from":   d.From,
			"to":     d.To,
			"meters": d.Meters,
			"miles":  d.Miles(),
		})
		if err != nil {
			return nil, err
		}
	}

	if b := rep.LongestBoundary; b != nil {
		for i, r := range b.Regions {
			if r.Polygon == nil {
				continue
			}
			err := add(fmt.Sprintf("longest_boundary_%d", i), r.Polygon, map[string]interface{}{
				"metric":           "longest_boundary",
				"region":           i,
				"perimeter_meters": r.Perimeter,
				"perimeter_miles":  r.Perimeter / 1609,
			})
			if err != nil {
				return nil, err
			}
		}
	}

	return fc, nil
}

func writeGeoJSON(w io.Writer, rep *analysis.Report) error {
	fc, err := Features(rep)
	if err != nil {
		return err
	}
	data, err := json.Marshal(fc)
	if err != nil {
		return eris.Wrap(err, "report: encode geojson")
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return eris.Wrap(err, "report: write geojson")
	}
	return nil
}
