package vec

import "github.com/pkg/errors"

var (
	// ErrIndexOutOfBounds is returned by Insert, Remove, SwapRemove and
	// DrainRange when an index falls outside the valid range. The vector is
	// left unmodified.
	ErrIndexOutOfBounds = errors.New("index out of bounds")

	// ErrCapacityOverflow signals that a vector would need more elements than
	// can be counted. It is raised with panic: hitting it is a logic error.
	ErrCapacityOverflow = errors.New("capacity overflow")

	// ErrAllocationFailed signals that the allocator could not provide a
	// usable block. It is raised with panic and is not recoverable by the
	// vector itself.
	ErrAllocationFailed = errors.New("allocation failed")
)

// errDrainOpen is the panic value for mutating a vector that lends its
// storage to an open Drain.
var errDrainOpen = errors.New("vec: mutated during drain")
