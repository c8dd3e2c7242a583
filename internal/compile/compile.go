// Package compile turns raw orbit data into a canonical, single-rooted
// system model: it normalizes the orbit shapes, unifies body identities,
// and resolves the containment tree.
package compile

import (
	"context"
	"fmt"

	slogctx "github.com/veqryn/slog-context"

	"github.com/papapumpkin/selang/internal/system"
)

// Compile builds the model of the system name from raw orbit data (any
// shape accepted by Normalize) and the object pool. Each call uses its own
// Allocator, so identifiers always start at 1.
func Compile(ctx context.Context, name string, raw any, pool *system.Pool) (*system.Model, error) {
	raws, err := Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("system %q: %w", name, err)
	}
	slogctx.Debug(ctx, "normalized orbits", "system", name, "orbits", len(raws))

	triples, objects, err := Unify(NewAllocator(), raws, pool)
	if err != nil {
		return nil, fmt.Errorf("system %q: %w", name, err)
	}
	slogctx.Debug(ctx, "unified identities", "system", name, "triples", len(triples), "objects", len(objects))

	root, err := FindRoot(triples)
	if err != nil {
		return nil, fmt.Errorf("system %q: %w", name, err)
	}
	slogctx.Debug(ctx, "resolved root", "system", name, "root", root)

	return &system.Model{
		Name:    name,
		Root:    root,
		Orbits:  triples,
		Objects: objects,
	}, nil
}
