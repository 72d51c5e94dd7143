// Package score computes the county travel metrics. Every metric returns the
// raw components of its calculation alongside the derived value so the
// arithmetic can be audited.
package score

import (
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/sells-group/txtravel/internal/county"
	"github.com/sells-group/txtravel/internal/route"
	"github.com/sells-group/txtravel/internal/spatial"
)

// DefaultBufferMeters merges adjoining county boundaries before dissolving.
const DefaultBufferMeters = 1.0

// DegenerateInputError reports a metric that cannot be computed from the
// visited counties it was given.
type DegenerateInputError struct {
	Metric string
	Need   int
	Got    int
}

func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("score: %s needs at least %d counties, got %d", e.Metric, e.Need, e.Got)
}

// Context is the immutable input to every metric. Build it with New; none of
// the metric methods modify it.
type Context struct {
	counties     *county.Collection
	routes       []route.Route
	years        int
	vehicleAge   int
	target       string
	bufferMeters float64
	countyProj   *spatial.Projector
	routeProj    *spatial.Projector
}

// Option customises a Context.
type Option func(*Context)

// WithBufferMeters overrides the dissolve buffer.
func WithBufferMeters(m float64) Option {
	return func(c *Context) { c.bufferMeters = m }
}

// New builds a scoring context over the visited counties and routes.
// target is the planar reference system used for all measurement.
func New(visited *county.Collection, routes []route.Route, yearsOfResidency, vehicleAge int, target string, opts ...Option) (*Context, error) {
	if visited == nil {
		return nil, eris.New("score: visited counties are required")
	}
	if yearsOfResidency < 1 {
		return nil, eris.Errorf("score: years of residency must be positive, got %d", yearsOfResidency)
	}
	if vehicleAge < 0 {
		return nil, eris.Errorf("score: vehicle age must not be negative, got %d", vehicleAge)
	}

	c := &Context{
		counties:     visited,
		routes:       append([]route.Route(nil), routes...),
		years:        yearsOfResidency,
		vehicleAge:   vehicleAge,
		target:       target,
		bufferMeters: DefaultBufferMeters,
	}
	for _, o := range opts {
		o(c)
	}

	var err error
	if c.countyProj, err = spatial.NewProjector(visited.SRS(), target); err != nil {
		return nil, eris.Wrap(err, "score: county projection")
	}
	if c.routeProj, err = spatial.NewProjector(route.SRS, target); err != nil {
		return nil, eris.Wrap(err, "score: route projection")
	}
	return c, nil
}

// Target returns the planar reference system used for measurement.
func (c *Context) Target() string { return c.target }
