package huffman

import (
	"math/big"
	"strconv"
	"strings"
)

// MaxCodeLen is the longest code a 256-symbol tree can produce.
const MaxCodeLen = 255

const codeWords = 4

// Code is a canonical code: the root-to-node path, 0 for left and 1 for right.
// Bit 0 of words[0] holds the last step of the path.
type Code struct {
	words  [codeWords]uint64
	length int
}

func (c Code) Len() int {
	return c.length
}

// child returns the code of the left (bit=0) or right (bit=1) child.
func (c Code) child(bit uint64) (Code, error) {
	if c.length >= MaxCodeLen {
		return Code{}, ErrCodeTooLong
	}
	var next Code
	var carry uint64 = bit & 1
	for i := 0; i < codeWords; i++ {
		next.words[i] = c.words[i]<<1 | carry
		carry = c.words[i] >> 63
	}
	next.length = c.length + 1
	return next, nil
}

// Bit returns the i-th bit of the path, counted from the root (i=0).
func (c Code) Bit(i int) uint64 {
	shift := c.length - 1 - i
	return (c.words[shift/64] >> (shift % 64)) & 1
}

// Uint64 returns the low 64 bits of the code value.
func (c Code) Uint64() uint64 {
	return c.words[0]
}

// HasPrefix reports whether p is a prefix of c.
func (c Code) HasPrefix(p Code) bool {
	if p.length > c.length {
		return false
	}
	for i := 0; i < p.length; i++ {
		if c.Bit(i) != p.Bit(i) {
			return false
		}
	}
	return true
}

// String renders the code as binary digits, root first.
func (c Code) String() string {
	var sb strings.Builder
	for i := 0; i < c.length; i++ {
		sb.WriteByte(byte('0' + c.Bit(i)))
	}
	return sb.String()
}

// Label is the position identifier of a node in the decoder table: the
// code value in decimal, an underscore, then the code length.
func (c Code) Label() string {
	return c.value().String() + "_" + strconv.Itoa(c.length)
}

func (c Code) value() *big.Int {
	v := new(big.Int)
	for i := codeWords - 1; i >= 0; i-- {
		v.Lsh(v, 64)
		v.Or(v, new(big.Int).SetUint64(c.words[i]))
	}
	return v
}
