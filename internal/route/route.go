// Package route discovers and loads recorded travel routes from KMZ archives.
package route

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// ArchiveExt is the file suffix of route archives.
const ArchiveExt = ".kmz"

// SRS is the reference system of route geometries. KML coordinates are
// always WGS84 longitude/latitude.
const SRS = "+proj=longlat +datum=WGS84 +no_defs"

// Feature is one placemark read from an archive. Geometry may be any type.
type Feature struct {
	Name     string
	Source   string
	Geometry geom.T
}

// Route is a recorded travel path in WGS84 longitude/latitude.
type Route struct {
	Name   string
	Source string
	Line   *geom.LineString
}

// Discover lists the route archives in dir, sorted by path, and writes a
// human-readable listing to w. A missing directory or one without archives
// is not an error: the result is empty and a notice is written instead.
func Discover(dir string, w io.Writer) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		return nil, eris.Wrapf(err, "route: read directory %s", dir)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ArchiveExt) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)

	if len(files) == 0 {
		fmt.Fprintln(w, "No kmz files provided or they are in the wrong folder.")
		zap.L().Info("route: no archives found", zap.String("dir", dir))
		return files, nil
	}

	fmt.Fprintln(w, "KMZ files found")
	for _, f := range files {
		fmt.Fprintf(w, " - %s\n", filepath.Base(f))
	}
	return files, nil
}

// Load reads every archive, concatenates their features and keeps only the
// line strings. A malformed archive aborts the load with its error.
func Load(ctx context.Context, paths []string) ([]Route, error) {
	log := zap.L().With(zap.String("component", "route.loader"))

	var features []Feature
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "route: load cancelled")
		}
		fs, err := ReadKMZ(ctx, p)
		if err != nil {
			return nil, err
		}
		log.Debug("archive read", zap.String("path", p), zap.Int("features", len(fs)))
		features = append(features, fs...)
	}

	routes := Lines(features)
	log.Info("routes loaded",
		zap.Int("archives", len(paths)),
		zap.Int("features", len(features)),
		zap.Int("routes", len(routes)),
	)
	return routes, nil
}

// Lines keeps the features whose geometry is a single line string.
func Lines(features []Feature) []Route {
	var out []Route
	for _, f := range features {
		ls, ok := f.Geometry.(*geom.LineString)
		if !ok {
			continue
		}
		out = append(out, Route{Name: f.Name, Source: f.Source, Line: ls})
	}
	return out
}

// LineStrings returns the geometries of routes.
func LineStrings(routes []Route) []*geom.LineString {
	out := make([]*geom.LineString, len(routes))
	for i, r := range routes {
		out[i] = r.Line
	}
	return out
}
