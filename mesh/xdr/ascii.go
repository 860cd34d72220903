package xdr

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

type asciiEncoder struct {
	w      *bufio.Writer
	inLine bool
	err    error
}

func newAsciiEncoder(w io.Writer) *asciiEncoder {
	return &asciiEncoder{w: bufio.NewWriter(w)}
}

func (e *asciiEncoder) Binary() bool { return false }
func (e *asciiEncoder) Err() error   { return e.err }

func (e *asciiEncoder) raw(s string) {
	if e.err != nil {
		return
	}
	if _, err := e.w.WriteString(s); err != nil {
		e.err = fmt.Errorf("%w: %w", ErrIO, err)
	}
}

func (e *asciiEncoder) token(s string) {
	if e.inLine {
		e.raw(" ")
	}
	e.raw(s)
	e.inLine = true
}

func (e *asciiEncoder) WriteInt(v int) {
	if e.err != nil {
		return
	}
	if err := checkInt(v); err != nil {
		e.err = err
		return
	}
	e.token(strconv.Itoa(v))
}

func (e *asciiEncoder) WriteInts(v []int) {
	for _, x := range v {
		e.WriteInt(x)
	}
}

func (e *asciiEncoder) WriteFloat(v float64) {
	e.token(strconv.FormatFloat(v, 'g', -1, 64))
}

func (e *asciiEncoder) WriteFloats(v []float64) {
	for _, x := range v {
		e.WriteFloat(x)
	}
}

// WriteString writes "<len> <bytes>" so the value may hold any byte.
func (e *asciiEncoder) WriteString(s string) {
	if e.err != nil {
		return
	}
	if len(s) > MaxStringLen {
		e.err = fmt.Errorf("%w: string of %d bytes exceeds %d", ErrRange, len(s), MaxStringLen)
		return
	}
	e.token(strconv.Itoa(len(s)))
	e.raw(" ")
	e.raw(s)
}

func (e *asciiEncoder) WriteFixed(s string, n int) {
	if e.err != nil {
		return
	}
	if err := checkFixed(s, n); err != nil {
		e.err = err
		return
	}
	e.token(s + strings.Repeat(" ", n-len(s)))
}

func (e *asciiEncoder) Comment(text string) {
	if e.inLine {
		e.raw("\t")
	}
	e.raw("# " + strings.ReplaceAll(text, "\n", " ") + "\n")
	e.inLine = false
}

func (e *asciiEncoder) EndRecord() {
	if e.inLine {
		e.raw("\n")
		e.inLine = false
	}
}

func (e *asciiEncoder) Flush() error {
	e.EndRecord()
	if e.err != nil {
		return e.err
	}
	if err := e.w.Flush(); err != nil {
		e.err = fmt.Errorf("%w: %w", ErrIO, err)
	}
	return e.err
}

type asciiDecoder struct {
	r *bufio.Reader
}

func newAsciiDecoder(r io.Reader) *asciiDecoder {
	return &asciiDecoder{r: bufio.NewReader(r)}
}

func (d *asciiDecoder) Binary() bool { return false }

// skipSpace consumes blanks and "#" comments up to the next token byte.
func (d *asciiDecoder) skipSpace() error {
	for {
		b, err := d.r.ReadByte()
		if err != nil {
			return readErr(err)
		}
		switch {
		case isSpace(b):
		case b == '#':
			if _, err := d.r.ReadString('\n'); err != nil {
				return readErr(err)
			}
		default:
			return d.r.UnreadByte()
		}
	}
}

// token reads one blank-delimited token. Encoders end every stream with a
// newline, so input ending inside a token is truncated.
func (d *asciiDecoder) token() (string, error) {
	if err := d.skipSpace(); err != nil {
		return "", err
	}
	var sb strings.Builder
	for {
		b, err := d.r.ReadByte()
		if err != nil {
			return "", readErr(err)
		}
		if isSpace(b) || b == '#' {
			if err := d.r.UnreadByte(); err != nil {
				return "", readErr(err)
			}
			return sb.String(), nil
		}
		if b < 0x21 || b > 0x7e {
			return "", fmt.Errorf("%w: byte %#02x in token", ErrParse, b)
		}
		if sb.Len() == MaxTokenLen {
			return "", fmt.Errorf("%w: token longer than %d bytes", ErrParse, MaxTokenLen)
		}
		sb.WriteByte(b)
	}
}

func (d *asciiDecoder) ReadInt() (int, error) {
	tok, err := d.token()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(tok, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: integer token %q", ErrParse, tok)
	}
	return int(v), nil
}

func (d *asciiDecoder) ReadInts(n int) ([]int, error) {
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

func (d *asciiDecoder) ReadFloat() (float64, error) {
	tok, err := d.token()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: float token %q", ErrParse, tok)
	}
	return v, nil
}

func (d *asciiDecoder) ReadFloats(n int) ([]float64, error) {
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

func (d *asciiDecoder) ReadString() (string, error) {
	n, err := d.ReadInt()
	if err != nil {
		return "", err
	}
	if n < 0 || n > MaxStringLen {
		return "", fmt.Errorf("%w: string length %d", ErrParse, n)
	}
	sep, err := d.r.ReadByte()
	if err != nil {
		return "", readErr(err)
	}
	if sep != ' ' {
		return "", fmt.Errorf("%w: string length not followed by a blank", ErrParse)
	}
	p := make([]byte, n)
	if _, err := io.ReadFull(d.r, p); err != nil {
		return "", readErr(err)
	}
	return string(p), nil
}

func (d *asciiDecoder) ReadFixed(n int) (string, error) {
	if err := checkCount(n); err != nil {
		return "", err
	}
	if err := d.skipSpace(); err != nil {
		return "", err
	}
	p := make([]byte, n)
	if _, err := io.ReadFull(d.r, p); err != nil {
		return "", readErr(err)
	}
	return strings.TrimRight(string(p), " "), nil
}
