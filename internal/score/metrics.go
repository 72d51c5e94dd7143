package score

import (
	"math"
	"sort"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"

	"github.com/sells-group/txtravel/internal/spatial"
)

const metersPerMile = 1609

// CountiesPerYear pairs the visited county count with years of residency.
type CountiesPerYear struct {
	Counties int `json:"counties" yaml:"counties"`
	Years    int `json:"years" yaml:"years"`
}

// Rate returns counties visited per year of residency.
func (c CountiesPerYear) Rate() float64 {
	if c.Years == 0 {
		return 0
	}
	return float64(c.Counties) / float64(c.Years)
}

// CountiesPerYear returns the inputs of the counties-per-year rate.
func (c *Context) CountiesPerYear() CountiesPerYear {
	return CountiesPerYear{Counties: c.counties.Len(), Years: c.years}
}

// Distance is the segment joining the two visited county centroids that are
// farthest apart, in the target projection.
type Distance struct {
	From   string           `json:"from" yaml:"from"`
	To     string           `json:"to" yaml:"to"`
	Meters float64          `json:"meters" yaml:"meters"`
	Line   *geom.LineString `json:"-" yaml:"-"`
}

// Miles returns the distance in miles.
func (d Distance) Miles() float64 { return d.Meters / metersPerMile }

// GreatestDistance measures every pair of visited county centroids and
// returns the longest. Pairs are considered in collection order and the
// first of equally long pairs wins.
func (c *Context) GreatestDistance() (*Distance, error) {
	counties := c.counties.Counties()
	if len(counties) < 2 {
		return nil, &DegenerateInputError{Metric: "greatest distance", Need: 2, Got: len(counties)}
	}

	centroids := make([]geom.Coord, len(counties))
	for i, ct := range counties {
		projected, err := c.countyProj.Project(ct.Geometry)
		if err != nil {
			return nil, eris.Wrapf(err, "score: project %s", ct.Name)
		}
		centroid, err := spatial.Centroid(projected)
		if err != nil {
			return nil, eris.Wrapf(err, "score: centroid of %s", ct.Name)
		}
		centroids[i] = centroid
	}

	candidates := make([]Distance, 0, len(counties)*(len(counties)-1)/2)
	for i := 0; i < len(counties); i++ {
		for j := i + 1; j < len(counties); j++ {
			a, b := centroids[i], centroids[j]
			candidates = append(candidates, Distance{
				From:   counties[i].Name,
				To:     counties[j].Name,
				Meters: math.Hypot(b.X()-a.X(), b.Y()-a.Y()),
				Line:   geom.NewLineStringFlat(geom.XY, []float64{a.X(), a.Y(), b.X(), b.Y()}),
			})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Meters > candidates[j].Meters
	})
	return &candidates[0], nil
}

// Region is one connected area of dissolved visited counties.
type Region struct {
	Perimeter float64       `json:"perimeter_meters" yaml:"perimeter_meters"`
	Polygon   *geom.Polygon `json:"-" yaml:"-"`
}

// Boundary holds the dissolved region(s) with the longest outer boundary.
// More than one region is returned only when perimeters tie exactly.
type Boundary struct {
	Regions      []Region `json:"regions" yaml:"regions"`
	Parts        int      `json:"parts" yaml:"parts"`
	BufferMeters float64  `json:"buffer_meters" yaml:"buffer_meters"`
}

// Meters returns the longest perimeter.
func (b Boundary) Meters() float64 {
	if len(b.Regions) == 0 {
		return 0
	}
	return b.Regions[0].Perimeter
}

// Miles returns the longest perimeter in miles.
func (b Boundary) Miles() float64 { return b.Meters() / metersPerMile }

// LongestBoundary projects the visited counties, buffers each slightly so
// neighbours overlap, dissolves them and returns the separate area(s) whose
// outer ring is longest. Counties that do not touch stay separate areas.
func (c *Context) LongestBoundary() (*Boundary, error) {
	counties := c.counties.Counties()
	if len(counties) == 0 {
		return nil, &DegenerateInputError{Metric: "longest boundary", Need: 1, Got: 0}
	}

	projected := make([]geom.T, len(counties))
	for i, ct := range counties {
		p, err := c.countyProj.Project(ct.Geometry)
		if err != nil {
			return nil, eris.Wrapf(err, "score: project %s", ct.Name)
		}
		projected[i] = p
	}

	areas, err := spatial.Dissolve(projected, c.bufferMeters)
	if err != nil {
		return nil, eris.Wrap(err, "score: dissolve counties")
	}
	if len(areas) == 0 {
		return nil, eris.New("score: dissolve produced no areas")
	}

	perimeters := make([]float64, len(areas))
	longest := 0.0
	for i, a := range areas {
		perimeters[i] = spatial.ExteriorLength(a)
		longest = math.Max(longest, perimeters[i])
	}

	b := &Boundary{Parts: len(areas), BufferMeters: c.bufferMeters}
	for i, a := range areas {
		if perimeters[i] == longest {
			b.Regions = append(b.Regions, Region{Perimeter: perimeters[i], Polygon: a})
		}
	}
	return b, nil
}

// BoldestMile pairs total route length with vehicle age.
type BoldestMile struct {
	Miles      float64 `json:"miles" yaml:"miles"`
	VehicleAge int     `json:"vehicle_age" yaml:"vehicle_age"`
}

// Score returns miles multiplied by vehicle age.
func (b BoldestMile) Score() float64 { return b.Miles * float64(b.VehicleAge) }

// BoldestMile sums the projected length of every route. With no routes the
// result is exactly zero for both components.
func (c *Context) BoldestMile() (BoldestMile, error) {
	if len(c.routes) == 0 {
		return BoldestMile{}, nil
	}

	var meters float64
	for _, r := range c.routes {
		ls, err := c.routeProj.ProjectLineString(r.Line)
		if err != nil {
			return BoldestMile{}, eris.Wrapf(err, "score: project route %q", r.Name)
		}
		meters += ls.Length()
	}
	return BoldestMile{Miles: meters / metersPerMile, VehicleAge: c.vehicleAge}, nil
}

// Bingo is the set of distinct first characters of visited county names.
type Bingo struct {
	Letters []string `json:"letters" yaml:"letters"`
}

// Count returns the number of distinct letters.
func (b Bingo) Count() int { return len(b.Letters) }

// Missing returns the letters A-Z not yet covered.
func (b Bingo) Missing() []string {
	have := make(map[string]struct{}, len(b.Letters))
	for _, l := range b.Letters {
		have[l] = struct{}{}
	}
	var out []string
	for r := 'A'; r <= 'Z'; r++ {
		if _, ok := have[string(r)]; !ok {
			out = append(out, string(r))
		}
	}
	return out
}

// AlphabetBingo collects the first character of each visited county name as
// stored, without case folding. Letters are sorted. A name that does not
// start with valid UTF-8 contributes its first byte.
func (c *Context) AlphabetBingo() Bingo {
	seen := make(map[string]struct{})
	var letters []string
	for _, name := range c.counties.Names() {
		if name == "" {
			continue
		}
		l := name[:1]
		if r, size := utf8.DecodeRuneInString(name); r != utf8.RuneError || size > 1 {
			l = name[:size]
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		letters = append(letters, l)
	}
	sort.Strings(letters)
	return Bingo{Letters: letters}
}

// Roster is the sorted list of visited county names.
type Roster struct {
	Names []string `json:"names" yaml:"names"`
}

// Count returns the number of counties on the roster.
func (r Roster) Count() int { return len(r.Names) }

// Roster returns every visited county name in ascending order.
func (c *Context) Roster() Roster {
	return Roster{Names: c.counties.SortedNames()}
}
