package chunk

import (
	"github.com/pkg/errors"
)

// Every decode failure wraps exactly one of these. Use errors.Is to test the kind.
var (
	// fewer bytes left in the buffer than a read needs
	ErrTruncatedData = errors.New("truncated data")
	// skip or seek outside of the buffer or of the open chunk
	ErrOutOfBounds = errors.New("out of bounds")
	// read or child chunk would cross the end of the open chunk
	ErrChunkOverrun = errors.New("chunk overrun")
	// chunk tag at the cursor differs from the requested one
	ErrUnexpectedChunk = errors.New("unexpected chunk")
	// structurally valid data with inconsistent meaning (bad indexes and such)
	ErrMalformedFile = errors.New("malformed file")
)
