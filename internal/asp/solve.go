package asp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	slogctx "github.com/veqryn/slog-context"
)

// DefaultSolver is the solver binary looked up on PATH when none is configured.
const DefaultSolver = "clingo"

// Solver exit codes for satisfiable, unsatisfiable and exhausted searches.
var solverExitCodes = map[int]bool{10: true, 20: true, 30: true}

// Load returns the answer sets of the program in path. A program of
// ground facts has exactly one answer set, its facts, and needs no
// solver. Other programs run through solver (DefaultSolver when empty);
// when it cannot be found the error is ErrNeedsSolver.
func Load(ctx context.Context, path, solver string) ([]AnswerSet, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading program: %w", err)
	}
	prog, err := Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if !prog.NeedsSolver {
		slogctx.Debug(ctx, "parsed ground program", "path", path, "facts", len(prog.Facts))
		return []AnswerSet{prog.Facts}, nil
	}

	if solver == "" {
		solver = DefaultSolver
	}
	bin, err := exec.LookPath(solver)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNeedsSolver, path, err)
	}
	return Solve(ctx, bin, path)
}

// Solve runs the clingo binary bin on path and returns every answer set.
func Solve(ctx context.Context, bin, path string) ([]AnswerSet, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "--outf=2", "-n", "0", path)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slogctx.Debug(ctx, "running solver", "bin", bin, "path", path)
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) || !solverExitCodes[exitErr.ExitCode()] {
			return nil, fmt.Errorf("solving %s: %w: %s", path, err, bytes.TrimSpace(stderr.Bytes()))
		}
	}
	sets, err := ReadWitnesses(&stdout)
	if err != nil {
		return nil, fmt.Errorf("solving %s: %w", path, err)
	}
	if len(sets) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnsatisfiable, path)
	}
	return sets, nil
}

// solverOutput is the part of clingo's JSON output holding the models.
type solverOutput struct {
	Result string `json:"Result"`
	Call   []struct {
		Witnesses []struct {
			Value []string `json:"Value"`
		} `json:"Witnesses"`
	} `json:"Call"`
}

// ReadWitnesses decodes clingo JSON output (--outf=2) into answer sets.
func ReadWitnesses(r io.Reader) ([]AnswerSet, error) {
	var out solverOutput
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding solver output: %w", err)
	}
	var sets []AnswerSet
	for _, call := range out.Call {
		for _, w := range call.Witnesses {
			set := make(AnswerSet, 0, len(w.Value))
			for _, atom := range w.Value {
				t, err := ParseTerm(atom)
				if err != nil {
					return nil, fmt.Errorf("solver atom %q: %w", atom, err)
				}
				set = append(set, t)
			}
			sets = append(sets, set)
		}
	}
	return sets, nil
}
