package xdrio

import (
	"errors"
	"fmt"

	"github.com/notargets/meshxdr/mesh/xdr"
)

// Failures are reported as wrapped sentinel errors; test with errors.Is.
var (
	// ErrFormatMismatch: the file's tag, mode or version differs from the
	// requested format
	ErrFormatMismatch = errors.New("format mismatch")
	// ErrEndOfStream: the input ended inside a record
	ErrEndOfStream = xdr.ErrEndOfStream
	// ErrParse: malformed token, byte sequence or out of range field
	ErrParse = xdr.ErrParse
	// ErrUnknownElementType: an element record declares a type this reader
	// cannot decode
	ErrUnknownElementType = errors.New("unknown element type")
	// ErrTreeConsistency: the refinement forest violates its invariant
	ErrTreeConsistency = errors.New("refinement tree inconsistent")
	// ErrFieldLengthMismatch: a solution array does not match the mesh
	ErrFieldLengthMismatch = errors.New("field length mismatch")
	// ErrIO: the underlying file could not be opened, read or written
	ErrIO = xdr.ErrIO

	// ErrInvalidMesh: the mesh handed to a writer is structurally invalid
	ErrInvalidMesh = errors.New("invalid mesh")
	// ErrMixedElementTypes: the MGF format holds a single element type
	ErrMixedElementTypes = errors.New("mixed element types")
	// ErrInvalidField: a solution field has an empty or duplicate name
	ErrInvalidField = errors.New("invalid field")
)

func parseErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrParse}, args...)...)
}
