// Package county holds the authoritative county boundary collection and the
// checks that run user-entered county names against it.
package county

import (
	"sort"

	"github.com/twpayne/go-geom"
)

// County is one named county boundary.
type County struct {
	Name     string
	Geometry *geom.MultiPolygon
}

// Collection is an immutable set of county boundaries sharing one spatial
// reference system.
type Collection struct {
	counties []County
	srs      string
}

// NewCollection builds a collection. The slice is copied.
func NewCollection(counties []County, srs string) *Collection {
	return &Collection{
		counties: append([]County(nil), counties...),
		srs:      srs,
	}
}

// SRS returns the spatial reference system the geometries are stored in.
func (c *Collection) SRS() string { return c.srs }

// Len returns the number of counties.
func (c *Collection) Len() int { return len(c.counties) }

// Counties returns a copy of the counties in load order.
func (c *Collection) Counties() []County {
	return append([]County(nil), c.counties...)
}

// Names returns county names in load order.
func (c *Collection) Names() []string {
	names := make([]string, len(c.counties))
	for i, ct := range c.counties {
		names[i] = ct.Name
	}
	return names
}

// SortedNames returns county names sorted ascending.
func (c *Collection) SortedNames() []string {
	names := c.Names()
	sort.Strings(names)
	return names
}

// Geometries returns each county's geometry in load order.
func (c *Collection) Geometries() []geom.T {
	gs := make([]geom.T, len(c.counties))
	for i, ct := range c.counties {
		gs[i] = ct.Geometry
	}
	return gs
}

// Subset returns the counties whose names appear in names, in load order.
// Matching is exact. Unknown names are ignored and repeated names select a
// county once.
func (c *Collection) Subset(names []string) *Collection {
	want := make(map[string]struct{}, len(names))
	for _, n := range names {
		want[n] = struct{}{}
	}

	var out []County
	for _, ct := range c.counties {
		if _, ok := want[ct.Name]; ok {
			out = append(out, ct)
		}
	}
	return &Collection{counties: out, srs: c.srs}
}
