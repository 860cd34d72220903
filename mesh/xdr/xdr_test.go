package xdr

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	i      int
	ints   []int
	f      float64
	floats []float64
	s      string
	fixed  string
}

var sample = record{
	i:      -42,
	ints:   []int{0, 1, math.MaxInt32, math.MinInt32, -1},
	f:      0.1,
	floats: []float64{0, 0.5, 1.0 / 3.0, -2.5e-300, 6.02214076e23, math.Inf(1), math.Copysign(0, -1)},
	s:      "two words\nand a # mark",
	fixed:  "MGF",
}

func encode(t *testing.T, binary bool, r record) []byte {
	t.Helper()
	var buf bytes.Buffer
	enc := NewEncoder(binary, &buf)
	enc.WriteInt(r.i)
	enc.Comment("scalar int")
	enc.WriteInts(r.ints)
	enc.EndRecord()
	enc.WriteFloat(r.f)
	enc.WriteFloats(r.floats)
	enc.EndRecord()
	enc.WriteString(r.s)
	enc.WriteString("")
	enc.WriteFixed(r.fixed, 4)
	enc.EndRecord()
	require.NoError(t, enc.Flush())
	return buf.Bytes()
}

func decode(t *testing.T, binary bool, data []byte, n, nf int) record {
	t.Helper()
	var (
		r   record
		err error
	)
	dec := NewDecoder(binary, bytes.NewReader(data))
	r.i, err = dec.ReadInt()
	require.NoError(t, err)
	r.ints, err = dec.ReadInts(n)
	require.NoError(t, err)
	r.f, err = dec.ReadFloat()
	require.NoError(t, err)
	r.floats, err = dec.ReadFloats(nf)
	require.NoError(t, err)
	r.s, err = dec.ReadString()
	require.NoError(t, err)
	empty, err := dec.ReadString()
	require.NoError(t, err)
	assert.Empty(t, empty)
	r.fixed, err = dec.ReadFixed(4)
	require.NoError(t, err)
	return r
}

func TestRoundTrip(t *testing.T) {
	for _, binary := range []bool{true, false} {
		data := encode(t, binary, sample)
		got := decode(t, binary, data, len(sample.ints), len(sample.floats))
		assert.Equal(t, sample.i, got.i)
		assert.Equal(t, sample.ints, got.ints)
		assert.Equal(t, sample.f, got.f)
		require.Len(t, got.floats, len(sample.floats))
		for i, v := range sample.floats {
			assert.Equal(t, math.Float64bits(v), math.Float64bits(got.floats[i]), "binary=%v float %d", binary, i)
		}
		assert.Equal(t, sample.s, got.s)
		assert.Equal(t, sample.fixed, got.fixed)
	}
}

func TestCrossModeEquivalence(t *testing.T) {
	b := decode(t, true, encode(t, true, sample), len(sample.ints), len(sample.floats))
	a := decode(t, false, encode(t, false, sample), len(sample.ints), len(sample.floats))
	assert.Equal(t, b.ints, a.ints)
	assert.Equal(t, b.s, a.s)
	for i := range b.floats {
		assert.Equal(t, math.Float64bits(b.floats[i]), math.Float64bits(a.floats[i]))
	}
}

func TestNaN(t *testing.T) {
	for _, binary := range []bool{true, false} {
		var buf bytes.Buffer
		enc := NewEncoder(binary, &buf)
		enc.WriteFloat(math.NaN())
		require.NoError(t, enc.Flush())
		v, err := NewDecoder(binary, &buf).ReadFloat()
		require.NoError(t, err)
		assert.True(t, math.IsNaN(v))
	}
}

func TestBinaryLayout(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(true, &buf)
	enc.WriteFixed("LIBM", 4)
	enc.WriteInt(1)
	enc.WriteString("ab")
	enc.WriteFloat(1.0)
	require.NoError(t, enc.Flush())
	assert.Equal(t, []byte{
		'L', 'I', 'B', 'M',
		0, 0, 0, 1,
		0, 0, 0, 2, 'a', 'b', 0, 0,
		0x3f, 0xf0, 0, 0, 0, 0, 0, 0,
	}, buf.Bytes())
}

func TestAsciiLayout(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(false, &buf)
	enc.WriteFixed("LIBM", 4)
	enc.WriteInts([]int{1, 0})
	enc.Comment("tag version mode")
	enc.WriteFloats([]float64{0, 0.5, 1})
	enc.EndRecord()
	enc.WriteString("a b")
	require.NoError(t, enc.Flush())
	assert.Equal(t, "LIBM 1 0\t# tag version mode\n0 0.5 1\n3 a b\n", buf.String())
}

func TestAsciiComments(t *testing.T) {
	dec := NewDecoder(false, strings.NewReader("# header\n  7 # seven\n\t8#eight\n"))
	v, err := dec.ReadInts(2)
	require.NoError(t, err)
	assert.Equal(t, []int{7, 8}, v)
	_, err = dec.ReadInt()
	assert.ErrorIs(t, err, ErrEndOfStream)
}

func TestTruncated(t *testing.T) {
	for _, binary := range []bool{true, false} {
		data := encode(t, binary, sample)
		for _, cut := range []int{0, 3, len(data) / 2} {
			dec := NewDecoder(binary, bytes.NewReader(data[:cut]))
			var err error
			for err == nil {
				if _, err = dec.ReadInt(); err != nil {
					break
				}
				_, err = dec.ReadInts(len(sample.ints))
				if err != nil {
					break
				}
				_, err = dec.ReadFloats(1 + len(sample.floats))
				if err != nil {
					break
				}
				_, err = dec.ReadString()
			}
			// an ascii cut can split a token and leave a parse error
			if !errors.Is(err, ErrEndOfStream) && !errors.Is(err, ErrParse) {
				t.Errorf("binary=%v cut=%d: unexpected error %v", binary, cut, err)
			}
		}
		dec := NewDecoder(binary, bytes.NewReader(nil))
		_, err := dec.ReadFloat()
		assert.ErrorIs(t, err, ErrEndOfStream)
	}
}

func TestParseErrors(t *testing.T) {
	dec := NewDecoder(false, strings.NewReader("12x 1.5.5 -3 x"))
	_, err := dec.ReadInt()
	assert.ErrorIs(t, err, ErrParse)
	_, err = dec.ReadFloat()
	assert.ErrorIs(t, err, ErrParse)
	_, err = dec.ReadInts(-3)
	assert.ErrorIs(t, err, ErrParse)

	dec = NewDecoder(false, strings.NewReader("3abc\n"))
	_, err = dec.ReadString()
	assert.ErrorIs(t, err, ErrParse)

	dec = NewDecoder(false, strings.NewReader("99999999999\n"))
	_, err = dec.ReadInt()
	assert.ErrorIs(t, err, ErrParse)

	dec = NewDecoder(true, bytes.NewReader([]byte{0xff, 0xff, 0xff, 0xff}))
	_, err = dec.ReadString()
	assert.ErrorIs(t, err, ErrParse)
}

func TestEncoderRange(t *testing.T) {
	for _, binary := range []bool{true, false} {
		var buf bytes.Buffer
		enc := NewEncoder(binary, &buf)
		enc.WriteInt(math.MaxInt32 + 1)
		assert.ErrorIs(t, enc.Err(), ErrRange)
		enc.WriteInt(1)
		assert.ErrorIs(t, enc.Flush(), ErrRange)

		enc = NewEncoder(binary, &buf)
		enc.WriteFixed("TOOLONG", 4)
		assert.ErrorIs(t, enc.Flush(), ErrRange)

		enc = NewEncoder(binary, &buf)
		enc.WriteFixed(" X", 4)
		assert.ErrorIs(t, enc.Flush(), ErrRange)
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteFailure(t *testing.T) {
	enc := NewEncoder(true, failWriter{})
	enc.WriteInt(1)
	err := enc.Flush()
	assert.ErrorIs(t, err, ErrIO)
	assert.Contains(t, err.Error(), "disk full")
}

func TestAsciiTokenBounds(t *testing.T) {
	dec := NewDecoder(false, strings.NewReader("7 103"))
	v, err := dec.ReadInt()
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	_, err = dec.ReadInt()
	assert.ErrorIs(t, err, ErrEndOfStream)

	dec = NewDecoder(false, strings.NewReader("1.2"))
	_, err = dec.ReadFloat()
	assert.ErrorIs(t, err, ErrEndOfStream)

	dec = NewDecoder(false, strings.NewReader(strings.Repeat("9", MaxTokenLen+1)+"\n"))
	_, err = dec.ReadInt()
	assert.ErrorIs(t, err, ErrParse)

	dec = NewDecoder(false, bytes.NewReader([]byte{0x00, 0x00, 0x00, 0x01}))
	_, err = dec.ReadInt()
	assert.ErrorIs(t, err, ErrParse)
}
