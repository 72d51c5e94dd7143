// Package analysis runs the full county travel pipeline: discover and load
// routes, validate claimed counties, find the counties the routes cross and
// score the result.
package analysis

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/txtravel/internal/config"
	"github.com/sells-group/txtravel/internal/county"
	"github.com/sells-group/txtravel/internal/route"
	"github.com/sells-group/txtravel/internal/score"
	"github.com/sells-group/txtravel/internal/spatial"
)

// Report collects every metric for one run. Metrics that could not be
// computed are nil and their reason is recorded in Skipped.
type Report struct {
	RunID       string    `json:"run_id" yaml:"run_id"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
	Projection  string    `json:"projection" yaml:"projection"`

	RouteFiles []string          `json:"route_files" yaml:"route_files"`
	Routes     int               `json:"routes" yaml:"routes"`
	Validation *county.Validation `json:"validation" yaml:"validation"`
	Traversed  []string          `json:"traversed" yaml:"traversed"`
	Visited    []string          `json:"visited" yaml:"visited"`

	CountiesPerYear  score.CountiesPerYear `json:"counties_per_year" yaml:"counties_per_year"`
	GreatestDistance *score.Distance       `json:"greatest_distance,omitempty" yaml:"greatest_distance,omitempty"`
	LongestBoundary  *score.Boundary       `json:"longest_boundary,omitempty" yaml:"longest_boundary,omitempty"`
	BoldestMile      score.BoldestMile     `json:"boldest_mile" yaml:"boldest_mile"`
	AlphabetBingo    score.Bingo           `json:"alphabet_bingo" yaml:"alphabet_bingo"`
	Roster           score.Roster          `json:"roster" yaml:"roster"`

	Skipped map[string]string `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// Inputs holds the loaded data a run works from.
type Inputs struct {
	Counties   *county.Collection
	RouteFiles []string
	Routes     []route.Route
}

// Pipeline runs analyses for one configuration.
type Pipeline struct {
	cfg *config.Config
	out io.Writer
}

// New creates a Pipeline. Diagnostics (file listings, name mismatches) are
// written to out.
func New(cfg *config.Config, out io.Writer) *Pipeline {
	return &Pipeline{cfg: cfg, out: out}
}

// Load reads the county boundaries and every route archive found in the
// configured directory.
func (p *Pipeline) Load(ctx context.Context) (*Inputs, error) {
	counties, err := county.LoadShapefile(p.cfg.Data.CountiesPath, p.cfg.Data.NameField, p.cfg.Data.SourceSRS)
	if err != nil {
		return nil, eris.Wrap(err, "analysis: load counties")
	}
	if _, err := spatial.NewProjector(counties.SRS(), route.SRS); err != nil {
		zap.L().Warn("analysis: county .prj not understood, using configured source srs",
			zap.String("source_srs", p.cfg.Data.SourceSRS),
			zap.Error(err),
		)
		counties = county.NewCollection(counties.Counties(), p.cfg.Data.SourceSRS)
	}

	files, err := route.Discover(p.cfg.Data.RouteDir, p.out)
	if err != nil {
		return nil, eris.Wrap(err, "analysis: discover routes")
	}

	routes, err := route.Load(ctx, files)
	if err != nil {
		return nil, eris.Wrap(err, "analysis: load routes")
	}

	return &Inputs{Counties: counties, RouteFiles: files, Routes: routes}, nil
}

// Traversed clips routes to the outline of all counties and returns the
// clipped routes together with the county name of every route/county
// crossing, in route order. Names repeat once per crossing route. The
// overlay runs in route coordinates; county boundaries are reprojected when
// they are stored in another system.
func Traversed(all *county.Collection, routes []route.Route) ([]route.Route, []string, error) {
	if len(routes) == 0 || all.Len() == 0 {
		return nil, nil, nil
	}

	toRoute, err := spatial.NewProjector(all.SRS(), route.SRS)
	if err != nil {
		return nil, nil, eris.Wrap(err, "analysis: county to route projection")
	}
	boundaries := all.Geometries()
	for i, g := range boundaries {
		if boundaries[i], err = toRoute.Project(g); err != nil {
			return nil, nil, eris.Wrapf(err, "analysis: project county %d", i)
		}
	}

	outline, err := spatial.Outline(boundaries)
	if err != nil {
		return nil, nil, eris.Wrap(err, "analysis: county outline")
	}

	parts, err := spatial.Clip(route.LineStrings(routes), outline)
	if err != nil {
		return nil, nil, eris.Wrap(err, "analysis: clip routes")
	}

	var clipped []route.Route
	for i, ps := range parts {
		for _, ls := range ps {
			clipped = append(clipped, route.Route{Name: routes[i].Name, Source: routes[i].Source, Line: ls})
		}
	}

	crossings, err := spatial.Overlay(route.LineStrings(clipped), boundaries)
	if err != nil {
		return nil, nil, eris.Wrap(err, "analysis: overlay routes")
	}

	counties := all.Counties()
	names := make([]string, len(crossings))
	for i, c := range crossings {
		names[i] = counties[c.Polygon].Name
	}
	return clipped, names, nil
}

// Run scores already-loaded inputs.
func (p *Pipeline) Run(ctx context.Context, in *Inputs) (*Report, error) {
	runID := uuid.NewString()
	log := zap.L().With(zap.String("component", "analysis"), zap.String("run_id", runID))
	log.Info("analysis: starting run",
		zap.Int("routes", len(in.Routes)),
		zap.Int("claimed", len(p.cfg.Profile.Counties)),
	)

	rep := &Report{
		RunID:       runID,
		GeneratedAt: time.Now().UTC(),
		Projection:  p.cfg.Projection.Target,
		RouteFiles:  in.RouteFiles,
		Routes:      len(in.Routes),
		Skipped:     make(map[string]string),
	}

	rep.Validation = county.Validate(p.cfg.Profile.Counties, in.Counties.Names())
	rep.Validation.Print(p.out)
	if !rep.Validation.OK() {
		log.Warn("analysis: unknown county names ignored", zap.Strings("invalid", rep.Validation.Invalid))
	}

	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "analysis: cancelled")
	}

	clipped, traversed, err := Traversed(in.Counties, in.Routes)
	if err != nil {
		return nil, err
	}
	rep.Traversed = dedupe(traversed)

	claimed := rep.Validation.Valid
	if p.cfg.Profile.IncludeTraversed {
		claimed = append(append([]string(nil), claimed...), rep.Traversed...)
	}
	visited := in.Counties.Subset(claimed)
	rep.Visited = visited.SortedNames()

	sc, err := score.New(visited, clipped,
		p.cfg.Profile.YearsOfResidency, p.cfg.Profile.VehicleAge,
		p.cfg.Projection.Target,
		score.WithBufferMeters(p.cfg.Projection.BufferMeters),
	)
	if err != nil {
		return nil, eris.Wrap(err, "analysis: build scoring context")
	}

	rep.CountiesPerYear = sc.CountiesPerYear()
	rep.AlphabetBingo = sc.AlphabetBingo()
	rep.Roster = sc.Roster()

	if rep.GreatestDistance, err = sc.GreatestDistance(); err != nil {
		if err := skip(rep, "greatest_distance", err); err != nil {
			return nil, err
		}
	}
	if rep.LongestBoundary, err = sc.LongestBoundary(); err != nil {
		if err := skip(rep, "longest_boundary", err); err != nil {
			return nil, err
		}
	}
	if rep.BoldestMile, err = sc.BoldestMile(); err != nil {
		return nil, eris.Wrap(err, "analysis: boldest mile")
	}

	log.Info("analysis: run complete",
		zap.Int("visited", len(rep.Visited)),
		zap.Int("traversed", len(rep.Traversed)),
		zap.Int("skipped", len(rep.Skipped)),
	)
	return rep, nil
}

// skip records a degenerate metric on the report; any other error is
// returned wrapped.
func skip(rep *Report, metric string, err error) error {
	var degenerate *score.DegenerateInputError
	if errors.As(err, &degenerate) {
		rep.Skipped[metric] = degenerate.Error()
		zap.L().Info("analysis: metric skipped", zap.String("metric", metric), zap.Error(err))
		return nil
	}
	return eris.Wrapf(err, "analysis: %s", metric)
}

// dedupe keeps the first occurrence of each name.
func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	var out []string
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
