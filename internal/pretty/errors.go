package pretty

import (
	"errors"
	"fmt"

	"weave/internal/doc"
)

// ErrInvalidDocument is doc.ErrInvalidDocument, for callers that only
// import this package.
var ErrInvalidDocument = doc.ErrInvalidDocument

// ErrInvalidOp reports an op stream that breaks the engine invariants.
// Streams produced by Serialize never do; it signals a corrupted or
// hand-built stream.
var ErrInvalidOp = errors.New("invalid op")

// OpError describes the op that broke an invariant.
type OpError struct {
	Index  int // position in the serialized stream
	Op     Op
	Reason string
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%v #%d (%s): %s", ErrInvalidOp, e.Index, e.Op.Kind, e.Reason)
}

func (e *OpError) Unwrap() error { return ErrInvalidOp }
