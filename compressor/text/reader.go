// Package text splits raw input into the strings to be encoded.
package text

import (
	"bufio"
	"bytes"
	"io"
)

const (
	Separator = '\n'
	Escape    = '\\'
)

// Reader yields separator-terminated strings. An Escape byte directly
// followed by the separator joins the next line onto the current string;
// any other Escape byte is kept as is. Empty strings are skipped.
type Reader struct {
	in        *bufio.Reader
	separator byte
	buf       bytes.Buffer
}

func NewReader(in io.Reader) *Reader {
	return NewReaderSeparator(in, Separator)
}

// NewReaderSeparator uses sep instead of the newline separator.
func NewReaderSeparator(in io.Reader, sep byte) *Reader {
	return &Reader{in: bufio.NewReader(in), separator: sep}
}

// Next returns the next non-empty string, or io.EOF when the input is exhausted.
// The returned slice is owned by the caller.
func (r *Reader) Next() ([]byte, error) {
	for {
		r.buf.Reset()
		eof, err := r.readOne()
		if err != nil {
			return nil, err
		}
		if r.buf.Len() > 0 {
			return bytes.Clone(r.buf.Bytes()), nil
		}
		if eof {
			return nil, io.EOF
		}
	}
}

func (r *Reader) readOne() (eof bool, err error) {
	for {
		c, err := r.in.ReadByte()
		if err == io.EOF {
			return true, nil
		}
		if err != nil {
			return false, err
		}
		if c == r.separator {
			return false, nil
		}
		if c == Escape {
			d, err := r.in.ReadByte()
			if err == nil && d == r.separator {
				continue
			}
			if err == nil {
				if err := r.in.UnreadByte(); err != nil {
					return false, err
				}
			} else if err != io.EOF {
				return false, err
			}
		}
		r.buf.WriteByte(c)
	}
}

// ReadAll reads every string from the input, in order.
func (r *Reader) ReadAll() ([][]byte, error) {
	var out [][]byte
	for {
		s, err := r.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
}

// ReadStrings reads all newline-separated strings from in.
func ReadStrings(in io.Reader) ([][]byte, error) {
	return NewReader(in).ReadAll()
}
