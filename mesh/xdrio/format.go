package xdrio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/notargets/meshxdr/mesh"
	"github.com/notargets/meshxdr/mesh/xdr"
)

// Format is one of the three file format generations.
type Format int

const (
	// DEAL is the oldest internal format: flat, no refinement data
	DEAL Format = iota
	// MGF is the externally originated flat format
	MGF
	// LIBM is the current format carrying the refinement forest
	LIBM
)

const (
	tagWidth      = 4
	formatVersion = 1

	modeAscii  = 0
	modeBinary = 1
)

var formatTags = [...]string{DEAL: "DEAL", MGF: "MGF ", LIBM: "LIBM"}

// Tag is the 4 byte token that opens files of this format.
func (f Format) Tag() string {
	if f < DEAL || f > LIBM {
		return ""
	}
	return formatTags[f]
}

func (f Format) String() string {
	if t := strings.TrimSpace(f.Tag()); t != "" {
		return t
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat accepts a format name, case-insensitive.
func ParseFormat(name string) (Format, error) {
	n := strings.ToUpper(strings.TrimSpace(name))
	for f := DEAL; f <= LIBM; f++ {
		if n == f.String() {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown format name %q", ErrFormatMismatch, name)
}

// FormatForTag maps a file tag, blank padding optional, to its format.
func FormatForTag(tag string) (Format, bool) {
	t := strings.TrimRight(tag, " ")
	for f := DEAL; f <= LIBM; f++ {
		if t == f.String() {
			return f, true
		}
	}
	return 0, false
}

// Result reports the outcome of a successful write.
type Result struct {
	Format Format
	// Flattened is set when a refinement hierarchy was discarded to fit a
	// legacy format; only the active elements were written.
	Flattened bool
	// DroppedSides counts boundary sides lost with the inactive elements.
	DroppedSides int
}

// layout owns the record layout of one format generation. The common header
// (tag, version, mode) is handled by the pipeline around it.
type layout interface {
	// check rejects meshes the layout cannot express, before any output
	check(v mesh.View) error
	write(enc xdr.Encoder, v mesh.View) (Result, error)
	read(dec xdr.Decoder, b mesh.Builder, sink EntitySink) error
}

// pipeline is a format layout bound to an encoding.
type pipeline struct {
	format Format
	layout layout
	binary bool
	logger *log.Logger
}

// selectPipeline routes a format and encoding to its pipeline. The three
// generations do not share a schema: each layout below is a distinct record
// sequence.
func selectPipeline(f Format, binary bool, logger *log.Logger) (pipeline, error) {
	p := pipeline{format: f, binary: binary, logger: logger}
	switch f {
	case DEAL:
		p.layout = dealLayout{}
	case MGF:
		p.layout = mgfLayout{}
	case LIBM:
		p.layout = libmLayout{}
	default:
		return p, fmt.Errorf("%w: unknown format %d", ErrFormatMismatch, int(f))
	}
	logger.Debug("selected pipeline", "format", f, "binary", binary)
	return p, nil
}

// check validates v for this pipeline. Callers run it before opening the
// output so a rejected mesh leaves nothing behind.
func (p pipeline) check(v mesh.View) error {
	if err := mesh.Validate(v); err != nil {
		var fe *mesh.ForestError
		if errors.As(err, &fe) {
			return fmt.Errorf("%w: %w", ErrTreeConsistency, err)
		}
		return fmt.Errorf("%w: %w", ErrInvalidMesh, err)
	}
	if v.GetDimension() == 0 && v.NumNodes() > mesh.NumActive(v) {
		return fmt.Errorf("%w: 0-D mesh has %d nodes but %d active point elements",
			ErrInvalidMesh, v.NumNodes(), mesh.NumActive(v))
	}
	return p.layout.check(v)
}

// encode writes a mesh already accepted by check.
func (p pipeline) encode(w io.Writer, v mesh.View) (Result, error) {
	enc := xdr.NewEncoder(p.binary, w)
	writeHeader(enc, p.format.Tag(), p.binary)
	res, err := p.layout.write(enc, v)
	if err != nil {
		return res, err
	}
	res.Format = p.format
	if res.Flattened {
		p.logger.Warn("refinement hierarchy flattened", "format", p.format,
			"active", mesh.NumActive(v), "elements", v.NumElements(),
			"droppedSides", res.DroppedSides)
	}
	return res, enc.Flush()
}

func (p pipeline) decode(r io.Reader, b mesh.Builder, sink EntitySink) error {
	dec := xdr.NewDecoder(p.binary, r)
	if err := readHeader(dec, p.format.Tag(), p.binary); err != nil {
		return err
	}
	p.logger.Debug("header accepted", "format", p.format, "binary", p.binary)
	b.Reset()
	return p.layout.read(dec, b, sink)
}

func writeHeader(enc xdr.Encoder, tag string, binary bool) {
	mode := modeAscii
	if binary {
		mode = modeBinary
	}
	enc.WriteFixed(tag, tagWidth)
	enc.WriteInt(formatVersion)
	enc.WriteInt(mode)
	enc.Comment("tag version mode")
}

// readHeader checks tag, version and mode before any body byte is read.
func readHeader(dec xdr.Decoder, tag string, binary bool) error {
	got, err := dec.ReadFixed(tagWidth)
	if err != nil {
		return err
	}
	if want := strings.TrimRight(tag, " "); got != want {
		return fmt.Errorf("%w: file tag %q, expected %q", ErrFormatMismatch, got, want)
	}
	wantMode := modeAscii
	if binary {
		wantMode = modeBinary
	}
	hdr, err := dec.ReadInts(2)
	if err != nil {
		if errors.Is(err, ErrParse) {
			return fmt.Errorf("%w: %s header is not %s encoded: %w",
				ErrFormatMismatch, tag, encodingName(binary), err)
		}
		return err
	}
	version, mode := hdr[0], hdr[1]
	if version != formatVersion {
		if mode != wantMode {
			return fmt.Errorf("%w: %s header is not %s encoded", ErrFormatMismatch, tag, encodingName(binary))
		}
		return fmt.Errorf("%w: unsupported version %d", ErrFormatMismatch, version)
	}
	if mode != wantMode {
		return fmt.Errorf("%w: file mode %d, expected %s (%d)", ErrFormatMismatch, mode, encodingName(binary), wantMode)
	}
	return nil
}

func encodingName(binary bool) string {
	if binary {
		return "binary"
	}
	return "ascii"
}

// Sniff reports the tag and encoding of a stream from its first bytes. It
// accepts mesh and solution files alike.
func Sniff(r io.Reader) (tag string, binary bool, err error) {
	head := make([]byte, tagWidth+4)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		if errors.Is(err, io.EOF) {
			return "", false, ErrEndOfStream
		}
		return "", false, fmt.Errorf("%w: %w", ErrIO, err)
	}
	head = head[:n]
	if n < tagWidth+1 {
		return "", false, ErrEndOfStream
	}
	tag = strings.TrimRight(string(head[:tagWidth]), " ")
	switch {
	case n == tagWidth+4 && bytes.Equal(head[tagWidth:], []byte{0, 0, 0, formatVersion}):
		binary = true
	case head[tagWidth] == ' ' || head[tagWidth] == '\n' || head[tagWidth] == '\t':
	default:
		return "", false, fmt.Errorf("%w: unrecognized header %q", ErrFormatMismatch, head)
	}
	if _, ok := FormatForTag(tag); !ok && tag != solutionTag {
		return "", false, fmt.Errorf("%w: unknown file tag %q", ErrFormatMismatch, tag)
	}
	return tag, binary, nil
}
