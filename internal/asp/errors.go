package asp

import "errors"

// Sentinel errors for program parsing and solving.
var (
	// ErrSyntax indicates text that is not valid clingo input.
	ErrSyntax = errors.New("syntax error")
	// ErrNeedsSolver indicates a program with rules when no clingo binary is available.
	ErrNeedsSolver = errors.New("program has rules and needs the clingo solver")
	// ErrUnsatisfiable indicates a program without answer sets.
	ErrUnsatisfiable = errors.New("program is unsatisfiable")
)
