package xdrio

import (
	"strings"
	"testing"

	"github.com/notargets/meshxdr/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolutionRoundTrip(t *testing.T) {
	tm := mesh.GetStandardTestMeshes()
	cases := []struct {
		m      mesh.View
		c      Centering
		fields []Field
	}{
		{tm.TwoTri, Nodal, []Field{
			{Name: "rho", Values: []float64{1, 1.125, 0.875, 1.0 / 3.0}},
			{Name: "rho u", Values: []float64{0, -0.5, 1e-12, 2e300}},
		}},
		{tm.QuadTree, Elemental, []Field{
			{Name: "level", Values: []float64{1, 1, 1, 2, 2, 2, 2}},
		}},
		{tm.Line3, Nodal, nil},
	}
	for _, tc := range cases {
		for _, binary := range []bool{true, false} {
			path := tempPath(t, "soln")
			x := New(binary)
			require.NoError(t, x.WriteSolution(path, tc.m, tc.c, tc.fields))
			c, got, err := x.ReadSolution(path, tc.m)
			require.NoError(t, err)
			assert.Equal(t, tc.c, c)
			if len(tc.fields) == 0 {
				assert.Empty(t, got)
				continue
			}
			assert.Equal(t, tc.fields, got)
		}
	}
}

func TestSolutionLengthMismatch(t *testing.T) {
	tm := mesh.GetStandardTestMeshes()
	path := tempPath(t, "soln")
	x := New(true)

	// one value more than there are nodes
	long := []Field{{Name: "p", Values: make([]float64, tm.TwoTri.NumNodes()+1)}}
	err := x.WriteSolution(path, tm.TwoTri, Nodal, long)
	assert.ErrorIs(t, err, ErrFieldLengthMismatch)
	assert.NoFileExists(t, path)

	// nodal count on an elemental write
	err = x.WriteSolution(path, tm.QuadTree, Elemental,
		[]Field{{Name: "p", Values: make([]float64, tm.QuadTree.NumNodes())}})
	assert.ErrorIs(t, err, ErrFieldLengthMismatch)
	assert.NoFileExists(t, path)

	// written against 4 nodes, read against 3
	require.NoError(t, x.WriteSolution(path, tm.TwoTri, Nodal,
		[]Field{{Name: "p", Values: []float64{1, 2, 3, 4}}}))
	_, _, err = x.ReadSolution(path, tm.Line3)
	assert.ErrorIs(t, err, ErrFieldLengthMismatch)

	// a solution file is not a mesh file
	err = x.Read(path, LIBM, mesh.NewMesh(0))
	assert.ErrorIs(t, err, ErrFormatMismatch)
	_, _, err = New(false).ReadSolution(path, tm.TwoTri)
	assert.ErrorIs(t, err, ErrFormatMismatch)
}

func TestSolutionInvalidFields(t *testing.T) {
	m := mesh.GetStandardTestMeshes().Line3
	path := tempPath(t, "soln")
	vals := []float64{1, 2, 3}
	for name, fields := range map[string][]Field{
		"empty name": {{Name: "", Values: vals}},
		"duplicate":  {{Name: "u", Values: vals}, {Name: "u", Values: vals}},
	} {
		err := New(false).WriteSolution(path, m, Nodal, fields)
		assert.ErrorIs(t, err, ErrInvalidField, name)
		assert.NoFileExists(t, path)
	}
	err := New(false).WriteSolution(path, m, Centering(4), nil)
	assert.ErrorIs(t, err, ErrInvalidField)
}

func TestSolutionParseErrors(t *testing.T) {
	m := mesh.GetStandardTestMeshes().Line3
	cases := map[string]struct {
		stream string
		want   error
	}{
		"duplicate name": {"SOLN 1 0\n0 3 2\n1 a\n1 a\n1 2 3\n4 5 6\n", ErrParse},
		"centering":      {"SOLN 1 0\n7 3 1\n1 a\n1 2 3\n", ErrParse},
		"negative":       {"SOLN 1 0\n0 3 -1\n", ErrParse},
		"count":          {"SOLN 1 0\n1 3 1\n1 a\n1 2 3\n", ErrFieldLengthMismatch},
		"truncated":      {"SOLN 1 0\n0 3 1\n1 a\n1 2\n", ErrEndOfStream},
		"tag":            {"LIBM 1 0\n0 3 1\n", ErrFormatMismatch},
	}
	for name, tc := range cases {
		_, _, err := New(false).DecodeSolution(strings.NewReader(tc.stream), m)
		assert.ErrorIs(t, err, tc.want, name)
	}

	c, fields, err := New(false).DecodeSolution(strings.NewReader("SOLN 1 0\n0 3 1\n1 a\n1 2 3\n"), m)
	require.NoError(t, err)
	assert.Equal(t, Nodal, c)
	assert.Equal(t, []Field{{Name: "a", Values: []float64{1, 2, 3}}}, fields)
}

func TestFieldStats(t *testing.T) {
	s := Field{Name: "u", Values: []float64{3, -4}}.Stats()
	assert.Equal(t, FieldStats{Min: -4, Max: 3, Norm: 5}, s)
	assert.Equal(t, FieldStats{}, Field{Name: "e"}.Stats())
	assert.Equal(t, "elemental", Elemental.String())
	assert.Equal(t, "Centering(3)", Centering(3).String())
}
