package xdr

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"
)

var order = binary.BigEndian

type binaryEncoder struct {
	w   *bufio.Writer
	buf [8]byte
	err error
}

func newBinaryEncoder(w io.Writer) *binaryEncoder {
	return &binaryEncoder{w: bufio.NewWriter(w)}
}

func (e *binaryEncoder) Binary() bool { return true }
func (e *binaryEncoder) Err() error   { return e.err }

func (e *binaryEncoder) write(p []byte) {
	if e.err != nil {
		return
	}
	if _, err := e.w.Write(p); err != nil {
		e.err = fmt.Errorf("%w: %w", ErrIO, err)
	}
}

func (e *binaryEncoder) WriteInt(v int) {
	if e.err != nil {
		return
	}
	if err := checkInt(v); err != nil {
		e.err = err
		return
	}
	order.PutUint32(e.buf[:4], uint32(int32(v)))
	e.write(e.buf[:4])
}

func (e *binaryEncoder) WriteInts(v []int) {
	for _, x := range v {
		e.WriteInt(x)
	}
}

func (e *binaryEncoder) WriteFloat(v float64) {
	order.PutUint64(e.buf[:8], math.Float64bits(v))
	e.write(e.buf[:8])
}

func (e *binaryEncoder) WriteFloats(v []float64) {
	for _, x := range v {
		e.WriteFloat(x)
	}
}

func (e *binaryEncoder) WriteString(s string) {
	if e.err != nil {
		return
	}
	if len(s) > MaxStringLen {
		e.err = fmt.Errorf("%w: string of %d bytes exceeds %d", ErrRange, len(s), MaxStringLen)
		return
	}
	order.PutUint32(e.buf[:4], uint32(len(s)))
	e.write(e.buf[:4])
	e.write([]byte(s))
	e.write(make([]byte, pad4(len(s))))
}

func (e *binaryEncoder) WriteFixed(s string, n int) {
	if e.err != nil {
		return
	}
	if err := checkFixed(s, n); err != nil {
		e.err = err
		return
	}
	e.write([]byte(s + strings.Repeat(" ", n-len(s))))
}

func (e *binaryEncoder) Comment(string) {}
func (e *binaryEncoder) EndRecord()     {}

func (e *binaryEncoder) Flush() error {
	if e.err != nil {
		return e.err
	}
	if err := e.w.Flush(); err != nil {
		e.err = fmt.Errorf("%w: %w", ErrIO, err)
	}
	return e.err
}

type binaryDecoder struct {
	r   *bufio.Reader
	buf [8]byte
}

func newBinaryDecoder(r io.Reader) *binaryDecoder {
	return &binaryDecoder{r: bufio.NewReader(r)}
}

func (d *binaryDecoder) Binary() bool { return true }

func (d *binaryDecoder) read(p []byte) error {
	if _, err := io.ReadFull(d.r, p); err != nil {
		return readErr(err)
	}
	return nil
}

func (d *binaryDecoder) ReadInt() (int, error) {
	if err := d.read(d.buf[:4]); err != nil {
		return 0, err
	}
	return int(int32(order.Uint32(d.buf[:4]))), nil
}

func (d *binaryDecoder) ReadInts(n int) ([]int, error) {
	if err := checkCount(n); err != nil {
		return nil, err
	}
	out := make([]int, 0, initialCap(n))
	for i := 0; i < n; i++ {
		v, err := d.ReadInt()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (d *binaryDecoder) ReadFloat() (float64, error) {
	if err := d.read(d.buf[:8]); err != nil {
		return 0, err
	}
	return math.Float64frombits(order.Uint64(d.buf[:8])), nil
}

func (d *binaryDecoder) ReadFloats(n int) ([]float64, error) {
	if err := checkCount(n); err != nil {
		return nil, err
	}
	out := make([]float64, 0, initialCap(n))
	for i := 0; i < n; i++ {
		v, err := d.ReadFloat()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (d *binaryDecoder) ReadString() (string, error) {
	if err := d.read(d.buf[:4]); err != nil {
		return "", err
	}
	n := order.Uint32(d.buf[:4])
	if n > MaxStringLen {
		return "", fmt.Errorf("%w: string length %d exceeds %d", ErrParse, n, MaxStringLen)
	}
	p := make([]byte, int(n)+pad4(int(n)))
	if err := d.read(p); err != nil {
		return "", err
	}
	return string(p[:n]), nil
}

func (d *binaryDecoder) ReadFixed(n int) (string, error) {
	if err := checkCount(n); err != nil {
		return "", err
	}
	p := make([]byte, n)
	if err := d.read(p); err != nil {
		return "", err
	}
	return strings.TrimRight(string(p), " "), nil
}

func pad4(n int) int {
	return (4 - n%4) % 4
}
