package system

import "errors"

// Sentinel errors for body construction and object pools.
var (
	// ErrMissingMassRadius indicates a star or planet was built with neither mass nor radius.
	ErrMissingMassRadius = errors.New("mass or radius must be given")
	// ErrInvalidRing indicates a ring with no members or a negative body count.
	ErrInvalidRing = errors.New("invalid ring")
	// ErrUnknownReference indicates a name absent from the reference catalog.
	ErrUnknownReference = errors.New("unknown reference")
	// ErrDuplicateIdentity indicates a key declared twice with conflicting body types.
	ErrDuplicateIdentity = errors.New("duplicate identity")
	// ErrInvalidParams indicates an unknown orbit parameter field.
	ErrInvalidParams = errors.New("invalid orbit parameters")
)
