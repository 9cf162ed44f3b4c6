package huffman

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/icza/bitio"
)

// ErrTruncated indicates encoded data ended before all symbols were decoded.
var ErrTruncated = errors.New("encoded data truncated")

// Encode packs the codes of s MSB-first into bytes. A partial last byte is
// padded with zero bits. With a single-symbol tree every code is empty and
// the result is empty.
func Encode(t *Tree, s []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	for i, c := range s {
		leaf, ok := t.Leaf(c)
		if !ok {
			return nil, fmt.Errorf("%w: $%.2X at offset %d", ErrUnknownSymbol, c, i)
		}
		if err := writeCode(w, leaf.Code); err != nil {
			return nil, err
		}
	}
	if _, err := w.Align(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeAll encodes every string, keeping input order.
func EncodeAll(t *Tree, strings [][]byte) ([][]byte, error) {
	out := make([][]byte, 0, len(strings))
	for i, s := range strings {
		data, err := Encode(t, s)
		if err != nil {
			return nil, fmt.Errorf("string %d: %w", i, err)
		}
		out = append(out, data)
	}
	return out, nil
}

// writeCode writes the code root bit first, up to 64 bits per call.
func writeCode(w *bitio.Writer, c Code) error {
	n := c.length
	for n > 0 {
		chunk := n % 64
		if chunk == 0 {
			chunk = 64
		}
		if err := w.WriteBits(c.words[(n-1)/64], uint8(chunk)); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}

// Decode walks the tree bit by bit from the root and returns the first n
// symbols of data. Trailing padding is ignored.
func Decode(t *Tree, data []byte, n int) ([]byte, error) {
	r := bitio.NewReader(bytes.NewReader(data))
	out := make([]byte, 0, n)
	for len(out) < n {
		node := &t.Nodes[t.Root]
		for !node.IsLeaf() {
			bit, err := r.ReadBool()
			if err == io.EOF {
				return out, ErrTruncated
			}
			if err != nil {
				return out, err
			}
			if bit {
				node = &t.Nodes[node.Right]
			} else {
				node = &t.Nodes[node.Left]
			}
		}
		out = append(out, node.Symbol)
	}
	return out, nil
}
