package compile

import "errors"

// Sentinel errors for orbit normalization, identity resolution, and root
// detection.
var (
	// ErrInvalidOrbitShape indicates orbit data with the wrong arity or structure.
	ErrInvalidOrbitShape = errors.New("invalid orbit shape")
	// ErrUnresolvedBody indicates a value that is neither a pool key, a body, nor a reference name.
	ErrUnresolvedBody = errors.New("unresolved body")
	// ErrInvalidRootCount indicates a system with zero or several roots.
	ErrInvalidRootCount = errors.New("invalid number of roots")
	// ErrDuplicateOrbit indicates a body declared as the child of more than one orbit.
	ErrDuplicateOrbit = errors.New("body orbits more than once")
	// ErrSelfContainment indicates a body that directly or transitively orbits itself.
	ErrSelfContainment = errors.New("body contains itself")
)
