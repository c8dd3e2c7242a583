// Package extract reads system descriptions from source files. Each file
// format has an Extractor that splits the file into records, one per
// system, and turns a record into raw orbits and an object pool.
package extract

import (
	"context"
	"fmt"
	"iter"
	"path/filepath"
	"sort"
	"strings"

	slogctx "github.com/veqryn/slog-context"

	"github.com/papapumpkin/selang/internal/system"
)

// Record is one system description read from a source file.
type Record struct {
	Index int
	Value any
}

// Extractor translates the records of one file format.
type Extractor interface {
	// Records reads the file at path and yields its records in order.
	Records(ctx context.Context, path string) iter.Seq2[Record, error]
	// ResolveRoot registers the root body of rec in pool and returns its
	// key and the system name.
	ResolveRoot(rec Record, pool *system.Pool) (rootKey, systemName string, err error)
	// PopulateOrbits returns the raw orbits of rec, registering the bodies
	// they name in pool. rootKey is the key returned by ResolveRoot.
	PopulateOrbits(rec Record, pool *system.Pool, rootKey string) ([]system.RawOrbit, error)
}

// Options configures the extractors.
type Options struct {
	// Solver is the clingo binary used for logic programs with rules.
	Solver string
}

// Source is a system ready for compilation.
type Source struct {
	Name   string
	Orbits []system.RawOrbit
	Pool   *system.Pool
}

var registry = map[string]func(Options) Extractor{
	".lp":   func(o Options) Extractor { return &Program{Solver: o.Solver} },
	".json": func(Options) Extractor { return NewJSON() },
	".yaml": func(Options) Extractor { return NewYAML() },
	".yml":  func(Options) Extractor { return NewYAML() },
	".toml": func(Options) Extractor { return &Layout{} },
}

// Extensions returns the supported file extensions, sorted.
func Extensions() []string {
	exts := make([]string, 0, len(registry))
	for ext := range registry {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// ForPath returns the Extractor for the extension of path.
func ForPath(path string, opts Options) (Extractor, error) {
	ext := strings.ToLower(filepath.Ext(path))
	newExtractor, ok := registry[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedExtension, ext, strings.Join(Extensions(), ", "))
	}
	return newExtractor(opts), nil
}

// RootKey returns the pool key of a system root.
func RootKey(uid, name string) string {
	return uid + "__" + name
}

// SystemName returns the name of the system rooted at rootKey.
func SystemName(rootKey string) string {
	return rootKey + " system"
}

// Build turns one record into a Source.
func Build(ex Extractor, rec Record) (Source, error) {
	pool := system.NewPool()
	rootKey, name, err := ex.ResolveRoot(rec, pool)
	if err != nil {
		return Source{}, err
	}
	orbits, err := ex.PopulateOrbits(rec, pool, rootKey)
	if err != nil {
		return Source{}, fmt.Errorf("system %q: %w", name, err)
	}
	return Source{Name: name, Orbits: orbits, Pool: pool}, nil
}

// Load yields one Source per record of the file at path. It stops at the
// first error, which is a *SourceError.
func Load(ctx context.Context, path string, opts Options) iter.Seq2[Source, error] {
	return func(yield func(Source, error) bool) {
		ex, err := ForPath(path, opts)
		if err != nil {
			yield(Source{}, &SourceError{Path: path, Record: -1, Err: err})
			return
		}
		for rec, err := range ex.Records(ctx, path) {
			if err != nil {
				yield(Source{}, &SourceError{Path: path, Record: -1, Err: err})
				return
			}
			src, err := Build(ex, rec)
			if err != nil {
				yield(Source{}, &SourceError{Path: path, Record: rec.Index, Err: err})
				return
			}
			slogctx.Debug(ctx, "extracted system", "path", path, "record", rec.Index,
				"system", src.Name, "orbits", len(src.Orbits), "objects", src.Pool.Len())
			if !yield(src, nil) {
				return
			}
		}
	}
}
