// Package xdrio reads and writes meshes and solution fields in the DEAL, MGF
// and LIBM file formats, each in ascii or binary encoding.
//
// An IO holds only the encoding flag and a logger. Every call borrows the
// mesh for its own duration and opens and closes its own file.
package xdrio

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/notargets/meshxdr/mesh"
)

// EntitySink is notified of every node and element id as it is read, so
// callers can restore per-entity data alongside the mesh.
type EntitySink interface {
	Node(id int)
	Element(id int)
}

type nopSink struct{}

func (nopSink) Node(int)    {}
func (nopSink) Element(int) {}

// IO is a mesh codec. Binary may be changed between calls.
type IO struct {
	Binary bool
	logger *log.Logger
}

// Option configures an IO.
type Option func(*IO)

// WithLogger directs diagnostics to l. The default discards them.
func WithLogger(l *log.Logger) Option {
	return func(x *IO) {
		if l != nil {
			x.logger = l
		}
	}
}

// New returns a codec for the given encoding.
func New(binary bool, opts ...Option) *IO {
	x := &IO{Binary: binary}
	for _, opt := range opts {
		opt(x)
	}
	if x.logger == nil {
		x.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return x
}

// ReadOption configures one read call.
type ReadOption func(*readOptions)

type readOptions struct {
	sink EntitySink
}

// WithSink passes each node and element id read to s.
func WithSink(s EntitySink) ReadOption {
	return func(o *readOptions) {
		if s != nil {
			o.sink = s
		}
	}
}

func newReadOptions(opts []ReadOption) *readOptions {
	o := &readOptions{sink: nopSink{}}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Write stores v at path in format f. A mesh the format cannot hold is
// rejected before the file is created.
func (x *IO) Write(path string, f Format, v mesh.View) (res Result, err error) {
	p, err := selectPipeline(f, x.Binary, x.logger)
	if err != nil {
		return Result{}, err
	}
	if err = p.check(v); err != nil {
		return Result{}, err
	}
	file, err := os.Create(path)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer removeOnError(path, &err)
	defer closeFile(file, &err)
	x.logger.Debug("writing mesh", "path", path, "format", f,
		"nodes", v.NumNodes(), "elements", v.NumElements())
	return p.encode(file, v)
}

// Encode writes v to w in format f.
func (x *IO) Encode(w io.Writer, f Format, v mesh.View) (Result, error) {
	p, err := selectPipeline(f, x.Binary, x.logger)
	if err != nil {
		return Result{}, err
	}
	if err = p.check(v); err != nil {
		return Result{}, err
	}
	return p.encode(w, v)
}

// Read replaces the contents of b with the mesh stored at path in format f.
// On failure b is left empty.
func (x *IO) Read(path string, f Format, b mesh.Builder, opts ...ReadOption) (err error) {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer closeFile(file, &err)
	x.logger.Debug("reading mesh", "path", path, "format", f)
	if err = x.Decode(file, f, b, opts...); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Decode replaces the contents of b with the mesh read from r in format f.
// On failure b is left empty.
func (x *IO) Decode(r io.Reader, f Format, b mesh.Builder, opts ...ReadOption) error {
	p, err := selectPipeline(f, x.Binary, x.logger)
	if err != nil {
		return err
	}
	o := newReadOptions(opts)
	if err = p.decode(r, b, o.sink); err != nil {
		b.Reset()
		return err
	}
	x.logger.Debug("mesh read", "format", f, "nodes", b.NumNodes(),
		"elements", b.NumElements(), "boundary", len(b.Boundary()))
	return nil
}

// SniffFile reports the tag and encoding of the file at path.
func SniffFile(path string) (tag string, binary bool, err error) {
	file, err := os.Open(path)
	if err != nil {
		return "", false, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer closeFile(file, &err)
	return Sniff(file)
}

// closeFile closes f and reports a close failure through err when nothing
// else failed first.
func closeFile(f *os.File, err *error) {
	if cerr := f.Close(); cerr != nil && *err == nil {
		*err = fmt.Errorf("%w: %w", ErrIO, cerr)
	}
}

// removeOnError deletes a partially written file.
func removeOnError(path string, err *error) {
	if *err != nil {
		_ = os.Remove(path)
	}
}
