// Package output writes rendered catalogs to a SpaceEngine installation or
// to a plain test directory.
package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
)

var (
	// ErrFileExists indicates a target file exists and Overwrite was not set.
	ErrFileExists = errors.New("file already exists")
	// ErrNotInstallDir indicates a directory without the SpaceEngine layout.
	ErrNotInstallDir = errors.New("not a SpaceEngine installation")
	// ErrDuplicateStem indicates two systems of one batch map to the same file.
	ErrDuplicateStem = errors.New("systems share an output file")
)

// InstallSubdirs must all exist below an installation directory.
var InstallSubdirs = []string{"addons", "config", "system"}

// Destination decides where the two catalogs of a system are written.
type Destination interface {
	// Paths returns the star and planet catalog paths for a file stem,
	// creating parent directories as needed.
	Paths(stem string) (star, planet string, err error)
}

// InstallDir writes catalogs below addons/catalogs of an installation.
type InstallDir string

// Paths validates the installation and returns
// addons/catalogs/{stars,planets}/<stem>.sc.
func (d InstallDir) Paths(stem string) (string, string, error) {
	for _, sub := range InstallSubdirs {
		info, err := os.Stat(filepath.Join(string(d), sub))
		if err != nil || !info.IsDir() {
			return "", "", fmt.Errorf("%w: %s has no %s directory", ErrNotInstallDir, d, sub)
		}
	}
	catalogs := filepath.Join(string(d), "addons", "catalogs")
	star := filepath.Join(catalogs, "stars", stem+".sc")
	planet := filepath.Join(catalogs, "planets", stem+".sc")
	for _, p := range []string{star, planet} {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return "", "", fmt.Errorf("creating catalog directory: %w", err)
		}
	}
	return star, planet, nil
}

// TestDir writes <stem>.star.sc and <stem>.planet.sc into an existing
// directory.
type TestDir string

func (d TestDir) Paths(stem string) (string, string, error) {
	info, err := os.Stat(string(d))
	if err != nil {
		return "", "", fmt.Errorf("test directory: %w", err)
	}
	if !info.IsDir() {
		return "", "", fmt.Errorf("test directory %s is not a directory", d)
	}
	return filepath.Join(string(d), stem+".star.sc"), filepath.Join(string(d), stem+".planet.sc"), nil
}

// WriteOptions controls how catalogs are written.
type WriteOptions struct {
	Overwrite bool // replace existing catalogs
}

// Result describes the written catalogs.
type Result struct {
	StarPath   string
	PlanetPath string
	Bytes      int
}

// Catalog holds the rendered catalogs of one system.
type Catalog struct {
	Stem   string
	Star   []string
	Planet []string
}

// WriteAll writes the catalogs of several systems as one batch. Every
// target is resolved and checked before the first file is written, and two
// systems resolving to the same file are rejected even with Overwrite. If a
// file cannot be written, the files this batch already wrote are removed.
func WriteAll(dest Destination, cats []Catalog, opts WriteOptions) ([]Result, error) {
	results := make([]Result, len(cats))
	owner := make(map[string]string, 2*len(cats))
	for i, c := range cats {
		starPath, planetPath, err := dest.Paths(c.Stem)
		if err != nil {
			return nil, err
		}
		for _, p := range []string{starPath, planetPath} {
			if prev, ok := owner[p]; ok {
				return nil, fmt.Errorf("%w: %s and %s both write %s", ErrDuplicateStem, prev, c.Stem, p)
			}
			owner[p] = c.Stem
			if opts.Overwrite {
				continue
			}
			if _, err := os.Stat(p); err == nil {
				return nil, fmt.Errorf("%w: %s; use --overwrite to replace it", ErrFileExists, p)
			}
		}
		results[i] = Result{StarPath: starPath, PlanetPath: planetPath}
	}

	var written []string
	for i, c := range cats {
		files := []struct {
			path string
			data []byte
		}{
			{results[i].StarPath, join(c.Star)},
			{results[i].PlanetPath, join(c.Planet)},
		}
		for _, f := range files {
			if err := writeFile(f.path, f.data); err != nil {
				return nil, rollback(err, written)
			}
			written = append(written, f.path)
			results[i].Bytes += len(f.data)
		}
	}
	return results, nil
}

// rollback removes written and reports err with any removal failures.
func rollback(err error, written []string) error {
	var result *multierror.Error
	result = multierror.Append(result, err)
	for _, p := range written {
		if rmErr := os.Remove(p); rmErr != nil {
			result = multierror.Append(result, fmt.Errorf("removing %s: %w", p, rmErr))
		}
	}
	return result.ErrorOrNil()
}

// writeFile writes through a temp file renamed into place.
func writeFile(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming %s: %w", tmp, err)
	}
	return nil
}

func join(lines []string) []byte {
	if len(lines) == 0 {
		return nil
	}
	return []byte(strings.Join(lines, "\n") + "\n")
}
