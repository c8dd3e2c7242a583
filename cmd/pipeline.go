package cmd

import (
	"context"
	"fmt"

	slogctx "github.com/veqryn/slog-context"

	"github.com/papapumpkin/selang/internal/clog"
	"github.com/papapumpkin/selang/internal/compile"
	"github.com/papapumpkin/selang/internal/config"
	"github.com/papapumpkin/selang/internal/extract"
	"github.com/papapumpkin/selang/internal/render"
	"github.com/papapumpkin/selang/internal/system"
)

// build is one compiled and rendered system.
type build struct {
	Model  *system.Model
	Star   []string
	Planet []string
}

// buildFile compiles and renders every system of the input file. Nothing
// is returned unless all of them succeed.
func buildFile(ctx context.Context, path string, cfg config.Config) ([]build, error) {
	ctx = clog.WithAttrs(ctx, "file", path)
	var out []build
	for src, err := range extract.Load(ctx, path, extract.Options{Solver: cfg.ClingoPath}) {
		if err != nil {
			return nil, err
		}
		m, err := compile.Compile(ctx, src.Name, src.Orbits, src.Pool)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		star, planet, err := render.Render(m)
		if err != nil {
			return nil, fmt.Errorf("%s: system %q: %w", path, m.Name, err)
		}
		slogctx.Debug(ctx, "rendered system", "system", m.Name,
			"star_lines", len(star), "planet_lines", len(planet))
		out = append(out, build{Model: m, Star: star, Planet: planet})
	}
	return out, nil
}
