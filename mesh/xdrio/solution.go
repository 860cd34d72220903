package xdrio

import (
	"fmt"
	"io"
	"os"

	"github.com/notargets/meshxdr/mesh"
	"github.com/notargets/meshxdr/mesh/xdr"
	"gonum.org/v1/gonum/floats"
)

// Solution files open with the common header under this tag and continue:
//
//	centering count nVars
//	name                    (nVars records)
//	v0 v1 ... v(count-1)    (nVars records, in name order)
const solutionTag = "SOLN"

// Centering selects the entity numbering a solution array is indexed by.
type Centering int

const (
	// Nodal arrays are indexed by node id
	Nodal Centering = iota
	// Elemental arrays are indexed by position among the active elements
	Elemental
)

func (c Centering) String() string {
	switch c {
	case Nodal:
		return "nodal"
	case Elemental:
		return "elemental"
	}
	return fmt.Sprintf("Centering(%d)", int(c))
}

// Field is one named solution variable.
type Field struct {
	Name   string
	Values []float64
}

// FieldStats summarizes the values of a field.
type FieldStats struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Norm float64 `json:"l2norm"`
}

// Stats returns the range and L2 norm of f. An empty field yields zeros.
func (f Field) Stats() FieldStats {
	if len(f.Values) == 0 {
		return FieldStats{}
	}
	return FieldStats{
		Min:  floats.Min(f.Values),
		Max:  floats.Max(f.Values),
		Norm: floats.Norm(f.Values, 2),
	}
}

// entityCount is the array length fields of centering c must have on v.
func entityCount(v mesh.View, c Centering) (int, error) {
	switch c {
	case Nodal:
		return v.NumNodes(), nil
	case Elemental:
		return mesh.NumActive(v), nil
	}
	return 0, fmt.Errorf("%w: unknown centering %d", ErrInvalidField, int(c))
}

func checkFields(v mesh.View, c Centering, fields []Field) (int, error) {
	n, err := entityCount(v, c)
	if err != nil {
		return 0, err
	}
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		switch {
		case f.Name == "":
			return 0, fmt.Errorf("%w: empty field name", ErrInvalidField)
		case seen[f.Name]:
			return 0, fmt.Errorf("%w: duplicate field name %q", ErrInvalidField, f.Name)
		case len(f.Values) != n:
			return 0, fmt.Errorf("%w: field %q has %d values, mesh has %d %s entities",
				ErrFieldLengthMismatch, f.Name, len(f.Values), n, c)
		}
		seen[f.Name] = true
	}
	return n, nil
}

// WriteSolution stores fields, indexed by the entities of v, at path. The
// fields are checked against v before the file is created.
func (x *IO) WriteSolution(path string, v mesh.View, c Centering, fields []Field) (err error) {
	if _, err = checkFields(v, c, fields); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer removeOnError(path, &err)
	defer closeFile(file, &err)
	x.logger.Debug("writing solution", "path", path, "centering", c, "fields", len(fields))
	return x.EncodeSolution(file, v, c, fields)
}

// EncodeSolution writes fields, indexed by the entities of v, to w.
func (x *IO) EncodeSolution(w io.Writer, v mesh.View, c Centering, fields []Field) error {
	n, err := checkFields(v, c, fields)
	if err != nil {
		return err
	}
	enc := xdr.NewEncoder(x.Binary, w)
	writeHeader(enc, solutionTag, x.Binary)
	enc.WriteInts([]int{int(c), n, len(fields)})
	enc.Comment("centering count variables")
	for _, f := range fields {
		enc.WriteString(f.Name)
		enc.EndRecord()
	}
	for _, f := range fields {
		enc.WriteFloats(f.Values)
		enc.EndRecord()
	}
	return enc.Flush()
}

// ReadSolution loads the fields stored at path. The file must have been
// written against a mesh with the same entity counts as v.
func (x *IO) ReadSolution(path string, v mesh.View) (c Centering, fields []Field, err error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer closeFile(file, &err)
	if c, fields, err = x.DecodeSolution(file, v); err != nil {
		return 0, nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, fields, nil
}

// DecodeSolution reads fields from r and checks them against v.
func (x *IO) DecodeSolution(r io.Reader, v mesh.View) (Centering, []Field, error) {
	dec := xdr.NewDecoder(x.Binary, r)
	if err := readHeader(dec, solutionTag, x.Binary); err != nil {
		return 0, nil, err
	}
	hdr, err := dec.ReadInts(3)
	if err != nil {
		return 0, nil, err
	}
	c, count, nVars := Centering(hdr[0]), hdr[1], hdr[2]
	if c != Nodal && c != Elemental {
		return 0, nil, parseErrorf("unknown centering %d", hdr[0])
	}
	if count < 0 || nVars < 0 {
		return 0, nil, parseErrorf("negative count in header (count %d, variables %d)", count, nVars)
	}
	want, _ := entityCount(v, c)
	if count != want {
		return 0, nil, fmt.Errorf("%w: file holds %d %s values per field, mesh has %d",
			ErrFieldLengthMismatch, count, c, want)
	}
	fields := make([]Field, 0, min(nVars, 64))
	seen := make(map[string]bool)
	for i := 0; i < nVars; i++ {
		name, err := dec.ReadString()
		if err != nil {
			return 0, nil, err
		}
		if name == "" || seen[name] {
			return 0, nil, parseErrorf("variable %d: empty or duplicate name %q", i, name)
		}
		seen[name] = true
		fields = append(fields, Field{Name: name})
	}
	for i := range fields {
		if fields[i].Values, err = dec.ReadFloats(count); err != nil {
			return 0, nil, err
		}
	}
	x.logger.Debug("solution read", "centering", c, "count", count, "fields", len(fields))
	return c, fields, nil
}
