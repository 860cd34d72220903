package xdrio

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/notargets/meshxdr/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allFormats = []Format{DEAL, MGF, LIBM}

func tempPath(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(t.TempDir(), name)
}

func roundTrip(t *testing.T, f Format, binary bool, m mesh.View) (*mesh.Mesh, Result) {
	t.Helper()
	path := tempPath(t, "mesh."+f.String())
	x := New(binary)
	res, err := x.Write(path, f, m)
	require.NoError(t, err)
	got := mesh.NewMesh(0)
	require.NoError(t, x.Read(path, f, got))
	return got, res
}

// expected is what a format can give back for m.
func expected(f Format, m *mesh.Mesh) *mesh.Mesh {
	if f == LIBM {
		return m
	}
	flat, _ := mesh.Flatten(m)
	if f == DEAL {
		flat.Title = ""
	}
	for i := range flat.Elements {
		flat.Elements[i].Subdomain = 0
	}
	return flat
}

func assertSameMesh(t *testing.T, want, got *mesh.Mesh, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Equal(t, want.Dimension, got.Dimension, msgAndArgs...)
	assert.Equal(t, want.Title, got.Title, msgAndArgs...)
	assert.Equal(t, want.Vertices, got.Vertices, msgAndArgs...)
	assert.Equal(t, want.Elements, got.Elements, msgAndArgs...)
	assert.Equal(t, want.BoundarySides, got.BoundarySides, msgAndArgs...)
}

func standardMeshes() map[string]*mesh.Mesh {
	tm := mesh.GetStandardTestMeshes()
	return map[string]*mesh.Mesh{
		"Line3":       tm.Line3,
		"TwoTri":      tm.TwoTri,
		"Mixed2D":     tm.Mixed2D,
		"TwoTet":      tm.TwoTet,
		"HexPrism":    tm.HexPrism,
		"Quadratic":   tm.Quadratic,
		"RefinedLine": tm.RefinedLine,
		"QuadTree":    tm.QuadTree,
		"Empty0D":     mesh.NewMesh(0),
		"Empty3D":     mesh.NewMesh(3),
	}
}

func TestRoundTrip(t *testing.T) {
	for name, m := range standardMeshes() {
		for _, f := range allFormats {
			if f == MGF && (name == "Mixed2D" || name == "HexPrism") {
				continue
			}
			for _, binary := range []bool{true, false} {
				got, res := roundTrip(t, f, binary, m)
				assertSameMesh(t, expected(f, m), got, "%s %v binary=%v", name, f, binary)
				assert.Equal(t, f, res.Format)
				assert.Equal(t, f != LIBM && mesh.IsRefined(m), res.Flattened, "%s %v", name, f)
			}
		}
	}
}

func TestCrossModeEquivalence(t *testing.T) {
	for name, m := range standardMeshes() {
		for _, f := range allFormats {
			if f == MGF && (name == "Mixed2D" || name == "HexPrism") {
				continue
			}
			b, _ := roundTrip(t, f, true, m)
			a, _ := roundTrip(t, f, false, m)
			assertSameMesh(t, b, a, "%s %v", name, f)
		}
	}
}

func TestLine3Binary(t *testing.T) {
	m := mesh.GetStandardTestMeshes().Line3
	var buf bytes.Buffer
	x := New(true)
	_, err := x.Encode(&buf, LIBM, m)
	require.NoError(t, err)
	assert.Equal(t, []byte{
		'L', 'I', 'B', 'M',
		0, 0, 0, 1, // version
		0, 0, 0, 1, // binary
		0, 0, 0, 1, // dim
		0, 0, 0, 3,
		0, 0, 0, 2,
		0, 0, 0, 0,
		0, 0, 0, 0, // empty title
	}, buf.Bytes()[:32])

	got := mesh.NewMesh(0)
	require.NoError(t, x.Decode(&buf, LIBM, got))
	assert.Equal(t, 1, got.Dimension)
	assert.Equal(t, [][]float64{{0}, {0.5}, {1}}, got.Vertices)
	require.Len(t, got.Elements, 2)
	for i, e := range got.Elements {
		assert.Equal(t, mesh.Line, e.Type)
		assert.True(t, e.Active())
		assert.Equal(t, 0, e.Level)
		assert.Equal(t, mesh.NoParent, e.Parent)
		assert.Equal(t, []int{i, i + 1}, e.Nodes)
	}
	assert.Empty(t, got.BoundarySides)
}

const line3Ascii = "LIBM 1 0\n1 3 2 0\n0 \n0\n0.5\n1\n2 0 0 1\n2 0 1 2\n0 -1 0\n0 -1 0\n"

func decodeString(t *testing.T, f Format, s string) (*mesh.Mesh, error) {
	t.Helper()
	m := mesh.NewMesh(0)
	err := New(false).Decode(strings.NewReader(s), f, m)
	return m, err
}

func TestAsciiLayout(t *testing.T) {
	var buf bytes.Buffer
	_, err := New(false).Encode(&buf, LIBM, mesh.GetStandardTestMeshes().Line3)
	require.NoError(t, err)
	assert.Equal(t, "LIBM 1 0\t# tag version mode\n1 3 2 0\t# dim nodes elements boundary\n"+
		"0 \n0\n0.5\n1\n2 0 0 1\n2 0 1 2\n0 -1 0\n0 -1 0\n", buf.String())

	m, err := decodeString(t, LIBM, line3Ascii)
	require.NoError(t, err)
	assertSameMesh(t, mesh.GetStandardTestMeshes().Line3, m)
}

func TestLegacyFlatten(t *testing.T) {
	for _, f := range []Format{DEAL, MGF} {
		for _, binary := range []bool{true, false} {
			got, res := roundTrip(t, f, binary, mesh.GetStandardTestMeshes().RefinedLine)
			assert.True(t, res.Flattened)
			assert.Equal(t, 1, res.DroppedSides)
			require.Len(t, got.Elements, 2)
			assert.Equal(t, []int{0, 1}, got.Elements[0].Nodes)
			assert.Equal(t, []int{1, 2}, got.Elements[1].Nodes)
			for _, e := range got.Elements {
				assert.Equal(t, 0, e.Level)
				assert.Equal(t, mesh.NoParent, e.Parent)
				assert.True(t, e.Active())
			}
			assert.Equal(t, []mesh.BoundarySide{
				{Element: 0, Side: 0, Marker: mesh.BCInflow},
				{Element: 1, Side: 1, Marker: mesh.BCOutflow},
			}, got.BoundarySides)
		}
	}

	got, res := roundTrip(t, DEAL, true, mesh.GetStandardTestMeshes().QuadTree)
	assert.True(t, res.Flattened)
	assert.Equal(t, 2, res.DroppedSides)
	assert.Len(t, got.Elements, 7)
	assert.Len(t, got.Vertices, 14)

	_, res = roundTrip(t, LIBM, false, mesh.GetStandardTestMeshes().QuadTree)
	assert.False(t, res.Flattened)
	assert.Zero(t, res.DroppedSides)
}

func TestFormatMismatch(t *testing.T) {
	m := mesh.GetStandardTestMeshes().TwoTri
	for _, binary := range []bool{true, false} {
		path := tempPath(t, "two.deal")
		x := New(binary)
		_, err := x.Write(path, DEAL, m)
		require.NoError(t, err)

		err = x.Read(path, LIBM, mesh.NewMesh(0))
		assert.ErrorIs(t, err, ErrFormatMismatch)
		err = x.Read(path, MGF, mesh.NewMesh(0))
		assert.ErrorIs(t, err, ErrFormatMismatch)

		// right tag, wrong encoding
		err = New(!binary).Read(path, DEAL, mesh.NewMesh(0))
		assert.ErrorIs(t, err, ErrFormatMismatch, "binary=%v", binary)
	}

	_, err := decodeString(t, LIBM, "LIBM 2 0\n1 0 0 0\n0 \n")
	assert.ErrorIs(t, err, ErrFormatMismatch)
	_, err = decodeString(t, LIBM, "LIBM 1 1\n1 0 0 0\n0 \n")
	assert.ErrorIs(t, err, ErrFormatMismatch)

	_, err = New(false).Write(tempPath(t, "x"), Format(9), m)
	assert.ErrorIs(t, err, ErrFormatMismatch)
}

func TestParseFormat(t *testing.T) {
	for _, f := range allFormats {
		got, err := ParseFormat(strings.ToLower(f.String()))
		require.NoError(t, err)
		assert.Equal(t, f, got)
		tf, ok := FormatForTag(f.Tag())
		assert.True(t, ok)
		assert.Equal(t, f, tf)
		assert.Len(t, f.Tag(), tagWidth)
	}
	_, err := ParseFormat("xdr")
	assert.ErrorIs(t, err, ErrFormatMismatch)
	assert.Equal(t, "Format(5)", Format(5).String())
	assert.Equal(t, "MGF", MGF.String())
}

func TestUnknownElementType(t *testing.T) {
	for _, tag := range []string{"0", "99", "-2"} {
		s := strings.Replace(line3Ascii, "2 0 1 2\n", tag+" 0 1 2\n", 1)
		_, err := decodeString(t, LIBM, s)
		assert.ErrorIs(t, err, ErrUnknownElementType, "tag %s", tag)
	}
	_, err := decodeString(t, DEAL, "DEAL 1 0\n1 1 2 0 2\n42 0 1\n0\n1\n")
	assert.ErrorIs(t, err, ErrUnknownElementType)
	_, err = decodeString(t, MGF, "MGF  1 0\n1 2 1 0 77\n0 \n0 1\n1 2\n")
	assert.ErrorIs(t, err, ErrUnknownElementType)
}

func TestParseErrors(t *testing.T) {
	cases := map[string]struct {
		format Format
		stream string
		want   error
	}{
		"dimension":         {LIBM, "LIBM 1 0\n4 0 0 0\n0 \n", ErrParse},
		"negative":          {LIBM, "LIBM 1 0\n1 -1 0 0\n0 \n", ErrParse},
		"zero dim nodes":    {LIBM, "LIBM 1 0\n0 50000000 0 0\n0 \n", ErrParse},
		"node range":        {LIBM, strings.Replace(line3Ascii, "2 0 1 2\n", "2 0 1 3\n", 1), ErrParse},
		"side range":        {LIBM, "LIBM 1 0\n1 3 2 1\n0 \n0\n0.5\n1\n2 0 0 1\n2 0 1 2\n0 2 1\n0 -1 0\n0 -1 0\n", ErrParse},
		"boundary element":  {LIBM, "LIBM 1 0\n1 3 2 1\n0 \n0\n0.5\n1\n2 0 0 1\n2 0 1 2\n5 0 1\n0 -1 0\n0 -1 0\n", ErrParse},
		"connectivity sum":  {DEAL, "DEAL 1 0\n1 2 3 0 5\n2 0 1\n2 1 2\n0\n0.5\n1\n", ErrParse},
		"connectivity over": {DEAL, "DEAL 1 0\n1 2 3 0 3\n2 0 1\n2 1 2\n0\n0.5\n1\n", ErrParse},
		"mgf one based":     {MGF, "MGF  1 0\n1 2 1 0 2\n0 \n0 1\n0 1\n", ErrParse},
		"token":             {LIBM, "LIBM 1 0\n1 3 2 0\n0 \n0\nabc\n", ErrParse},
		"long token":        {LIBM, "LIBM 1 0\n1 3 2 0\n0 \n" + strings.Repeat("1", 100) + "\n", ErrParse},
		"truncated":         {LIBM, line3Ascii[:len(line3Ascii)/2], ErrEndOfStream},
		"no tree":           {LIBM, strings.TrimSuffix(line3Ascii, "0 -1 0\n0 -1 0\n"), ErrEndOfStream},
		"empty":             {LIBM, "", ErrEndOfStream},
	}
	for name, tc := range cases {
		_, err := decodeString(t, tc.format, tc.stream)
		assert.ErrorIs(t, err, tc.want, name)
	}

	m, err := decodeString(t, DEAL, "DEAL 1 0\n1 2 3 0 4\n2 0 1\n2 1 2\n0\n0.5\n1\n")
	require.NoError(t, err)
	assertSameMesh(t, mesh.GetStandardTestMeshes().Line3, m)
	m, err = decodeString(t, MGF, "MGF  1 0\n1 3 2 0 2\n0 \n0 0.5 1\n1 2\n2 3\n")
	require.NoError(t, err)
	assertSameMesh(t, mesh.GetStandardTestMeshes().Line3, m)
}

func TestTreeConsistency(t *testing.T) {
	const head = "LIBM 1 0\n1 3 3 0\n0 \n0\n0.5\n1\n2 0 0 2\n2 0 0 1\n2 0 1 2\n"
	m, err := decodeString(t, LIBM, head+"0 -1 2 1 2\n1 0 0\n1 0 0\n")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, mesh.ActiveElements(m))
	assert.Equal(t, []int{1, 2}, m.Elements[0].Children)

	bad := map[string]string{
		"wrong parent":  "0 -1 2 1 2\n1 0 0\n1 1 0\n",
		"wrong level":   "0 -1 2 1 2\n2 0 0\n1 0 0\n",
		"orphan":        "0 -1 1 1\n1 0 0\n1 0 0\n",
		"twice listed":  "0 -1 3 1 2 2\n1 0 0\n1 0 0\n",
		"self parent":   "0 -1 2 1 2\n1 0 0\n1 2 0\n",
		"child range":   "0 -1 2 1 7\n1 0 0\n1 0 0\n",
		"root level":    "1 -1 2 1 2\n2 0 0\n2 0 0\n",
		"too many kids": "0 -1 9 1 2\n1 0 0\n1 0 0\n",
	}
	for name, tree := range bad {
		got, err := decodeString(t, LIBM, head+tree)
		assert.ErrorIs(t, err, ErrTreeConsistency, name)
		assert.Zero(t, got.NumElements(), name)
	}
	_, err = decodeString(t, LIBM, head+"0 -1 -2\n")
	assert.ErrorIs(t, err, ErrParse)
}

func TestWriteRejects(t *testing.T) {
	tm := mesh.GetStandardTestMeshes()
	broken := tm.QuadTree
	broken.Elements[3].Parent = 2
	path := tempPath(t, "broken.xdr")
	_, err := New(true).Write(path, LIBM, broken)
	assert.ErrorIs(t, err, ErrTreeConsistency)
	assert.NoFileExists(t, path)

	_, err = New(true).Write(path, MGF, tm.Mixed2D)
	assert.ErrorIs(t, err, ErrMixedElementTypes)
	assert.NoFileExists(t, path)

	invalid := mesh.NewMesh(2)
	invalid.AddNode([]float64{0, 0})
	invalid.AddElement(mesh.NewElement(mesh.Triangle, []int{0, 1, 2}))
	for _, f := range allFormats {
		_, err = New(false).Write(path, f, invalid)
		assert.ErrorIs(t, err, ErrInvalidMesh, f.String())
		assert.NoFileExists(t, path)
	}

	tm.TwoTri.BoundarySides[0].Side = 3
	_, err = New(false).Write(path, LIBM, tm.TwoTri)
	assert.ErrorIs(t, err, ErrInvalidMesh)
}

func TestFailedReadLeavesBuilderEmpty(t *testing.T) {
	m := mesh.GetStandardTestMeshes().TwoTri
	err := New(false).Decode(strings.NewReader(line3Ascii[:40]), LIBM, m)
	require.Error(t, err)
	assert.Zero(t, m.NumNodes())
	assert.Zero(t, m.NumElements())
	assert.Empty(t, m.Boundary())
}

type recordingSink struct {
	nodes, elems []int
}

func (s *recordingSink) Node(id int)    { s.nodes = append(s.nodes, id) }
func (s *recordingSink) Element(id int) { s.elems = append(s.elems, id) }

func TestEntitySink(t *testing.T) {
	m := mesh.GetStandardTestMeshes().QuadTree
	for _, f := range allFormats {
		path := tempPath(t, "sink")
		x := New(true)
		_, err := x.Write(path, f, m)
		require.NoError(t, err)
		var s recordingSink
		got := mesh.NewMesh(0)
		require.NoError(t, x.Read(path, f, got, WithSink(&s)))
		require.Len(t, s.nodes, got.NumNodes())
		require.Len(t, s.elems, got.NumElements())
		for i, id := range s.nodes {
			assert.Equal(t, i, id)
		}
		for i, id := range s.elems {
			assert.Equal(t, i, id)
		}
	}
}

func TestIOErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing", "mesh.xda")
	err := New(false).Read(missing, LIBM, mesh.NewMesh(0))
	assert.ErrorIs(t, err, ErrIO)
	var pe *fs.PathError
	assert.True(t, errors.As(err, &pe))

	_, err = New(false).Write(missing, LIBM, mesh.GetStandardTestMeshes().Line3)
	assert.ErrorIs(t, err, ErrIO)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestSniff(t *testing.T) {
	m := mesh.GetStandardTestMeshes().TwoTri
	for _, f := range allFormats {
		for _, binary := range []bool{true, false} {
			path := tempPath(t, "sniff")
			_, err := New(binary).Write(path, f, m)
			require.NoError(t, err)
			tag, gotBinary, err := SniffFile(path)
			require.NoError(t, err)
			assert.Equal(t, f.String(), tag)
			assert.Equal(t, binary, gotBinary, "%v", f)
		}
	}

	path := tempPath(t, "soln")
	fields := []Field{{Name: "p", Values: []float64{1, 2, 3, 4}}}
	require.NoError(t, New(true).WriteSolution(path, m, Nodal, fields))
	tag, binary, err := SniffFile(path)
	require.NoError(t, err)
	assert.Equal(t, solutionTag, tag)
	assert.True(t, binary)

	_, _, err = Sniff(strings.NewReader("GMSH 1 0\n"))
	assert.ErrorIs(t, err, ErrFormatMismatch)
	_, _, err = Sniff(strings.NewReader("LIB"))
	assert.ErrorIs(t, err, ErrEndOfStream)
	_, _, err = Sniff(strings.NewReader("LIBMx1"))
	assert.ErrorIs(t, err, ErrFormatMismatch)
	_, _, err = SniffFile(filepath.Join(t.TempDir(), "none"))
	assert.ErrorIs(t, err, ErrIO)
}

func TestReadReplacesContents(t *testing.T) {
	tm := mesh.GetStandardTestMeshes()
	path := tempPath(t, "line.xda")
	x := New(false)
	_, err := x.Write(path, LIBM, tm.Line3)
	require.NoError(t, err)
	got := tm.HexPrism
	require.NoError(t, x.Read(path, LIBM, got))
	assertSameMesh(t, mesh.GetStandardTestMeshes().Line3, got)
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestZeroDimensionNodes(t *testing.T) {
	for f, s := range map[Format]string{
		LIBM: "LIBM 1 0\n0 50000000 0 0\n0 \n",
		MGF:  "MGF  1 0\n0 50000000 0 0 1\n0 \n",
		DEAL: "DEAL 1 0\n0 0 50000000 0 0\n",
	} {
		_, err := decodeString(t, f, s)
		assert.ErrorIs(t, err, ErrParse, f.String())
	}
	// point elements are read before the nodes they bound
	_, err := decodeString(t, LIBM, "LIBM 1 0\n0 50000000 50000000 0\n0 \n1 0 0\n")
	assert.ErrorIs(t, err, ErrEndOfStream)

	points := mesh.NewMesh(0)
	for i := 0; i < 3; i++ {
		points.AddNode([]float64{})
		points.AddElement(mesh.NewElement(mesh.Point, []int{i}))
	}
	for _, f := range allFormats {
		for _, binary := range []bool{false, true} {
			var s recordingSink
			path := tempPath(t, "points")
			x := New(binary)
			_, err := x.Write(path, f, points)
			require.NoError(t, err)
			got := mesh.NewMesh(3)
			require.NoError(t, x.Read(path, f, got, WithSink(&s)))
			assertSameMesh(t, expected(f, points), got, "%v binary=%v", f, binary)
			assert.Equal(t, []int{0, 1, 2}, s.nodes)
		}
	}

	orphans := mesh.NewMesh(0)
	orphans.AddNode([]float64{})
	path := tempPath(t, "orphans")
	_, err = New(false).Write(path, LIBM, orphans)
	assert.ErrorIs(t, err, ErrInvalidMesh)
	assert.NoFileExists(t, path)
}

func TestTruncatedLastToken(t *testing.T) {
	var buf bytes.Buffer
	_, err := New(false).Encode(&buf, DEAL, mesh.GetStandardTestMeshes().Mixed2D)
	require.NoError(t, err)
	s := buf.String()
	require.True(t, strings.HasSuffix(s, " 103\n"))
	for _, cut := range []int{1, 2} {
		_, err = decodeString(t, DEAL, s[:len(s)-cut])
		assert.ErrorIs(t, err, ErrEndOfStream, "cut %d", cut)
	}
}
