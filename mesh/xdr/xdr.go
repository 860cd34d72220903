// Package xdr encodes and decodes the primitive values of the mesh file
// formats: integers, floating point values, strings and arrays of them.
//
// Two strategies share one interface. The binary strategy writes a canonical
// big-endian layout (4-byte integers, 8-byte IEEE-754 doubles, length-prefixed
// strings padded to 4 bytes) independent of the host. The ascii strategy
// writes the same logical values as whitespace separated decimal tokens, with
// floats in shortest round-trip form so decoding is exact.
//
// Encoders keep the first error they hit and report it from Flush, like
// bufio.Writer. Decoders report errors per call.
package xdr

import (
	"errors"
	"fmt"
	"io"
	"math"
)

var (
	// ErrEndOfStream is returned when input ends inside a value
	ErrEndOfStream = errors.New("unexpected end of stream")
	// ErrParse is returned for malformed tokens or byte sequences
	ErrParse = errors.New("parse error")
	// ErrRange is returned when a value cannot be represented on disk
	ErrRange = errors.New("value out of range")
	// ErrIO wraps failures of the underlying reader or writer
	ErrIO = errors.New("i/o error")
)

// MaxStringLen bounds decoded string lengths
const MaxStringLen = 1 << 16

// MaxTokenLen bounds a single ascii number token
const MaxTokenLen = 64

// allocChunk caps up-front allocation for arrays whose length comes from the
// stream, so a corrupt count fails at end of stream instead of exhausting memory.
const allocChunk = 1 << 16

// Encoder writes primitive values in one encoding.
type Encoder interface {
	Binary() bool
	WriteInt(v int)
	WriteInts(v []int)
	WriteFloat(v float64)
	WriteFloats(v []float64)
	// WriteString writes a length-prefixed string
	WriteString(s string)
	// WriteFixed writes s right-padded with blanks to exactly n bytes
	WriteFixed(s string, n int)
	// Comment annotates the current ascii record and ends it
	Comment(text string)
	// EndRecord ends an ascii line
	EndRecord()
	Flush() error
	Err() error
}

// Decoder reads primitive values in one encoding.
type Decoder interface {
	Binary() bool
	ReadInt() (int, error)
	ReadInts(n int) ([]int, error)
	ReadFloat() (float64, error)
	ReadFloats(n int) ([]float64, error)
	ReadString() (string, error)
	// ReadFixed reads an n byte fixed string and drops the blank padding
	ReadFixed(n int) (string, error)
}

// NewEncoder returns the binary or ascii Encoder writing to w.
func NewEncoder(binary bool, w io.Writer) Encoder {
	if binary {
		return newBinaryEncoder(w)
	}
	return newAsciiEncoder(w)
}

// NewDecoder returns the binary or ascii Decoder reading from r.
func NewDecoder(binary bool, r io.Reader) Decoder {
	if binary {
		return newBinaryDecoder(r)
	}
	return newAsciiDecoder(r)
}

func checkInt(v int) error {
	if v < math.MinInt32 || v > math.MaxInt32 {
		return fmt.Errorf("%w: integer %d does not fit in 32 bits", ErrRange, v)
	}
	return nil
}

func checkFixed(s string, n int) error {
	if len(s) > n {
		return fmt.Errorf("%w: %q longer than fixed width %d", ErrRange, s, n)
	}
	if len(s) > 0 && isSpace(s[0]) {
		return fmt.Errorf("%w: fixed string %q begins with a blank", ErrRange, s)
	}
	return nil
}

func checkCount(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: negative count %d", ErrParse, n)
	}
	return nil
}

func readErr(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrEndOfStream
	}
	return fmt.Errorf("%w: %w", ErrIO, err)
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func initialCap(n int) int {
	if n > allocChunk {
		return allocChunk
	}
	return n
}
