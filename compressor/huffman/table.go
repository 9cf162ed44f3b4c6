package huffman

import (
	"fmt"
)

// RecordSize is the size in bytes of one serialized node.
const RecordSize = 2

// Entry is one node record of the decoder table.
//
// Leaf records are [0x00, symbol]. Interior records hold the distance in
// bytes from this record to the left and right child records. The decoder
// moves from a record at P to the record at P + Record[bit].
type Entry struct {
	Node   int
	Left   int
	Right  int
	Record [RecordSize]byte
}

func (e *Entry) IsLeaf() bool {
	return e.Left == none
}

// Table is the breadth-first serialization of a tree. The root is always the
// first entry.
type Table struct {
	Tree    *Tree
	Entries []Entry
}

// Serialize emits the tree in queue order: each popped node produces its
// record and, if interior, enqueues its left then right child. remap
// translates leaf symbols to their output values; nil keeps them unchanged.
// A nil tree yields an empty table.
func Serialize(t *Tree, remap *[256]byte) (*Table, error) {
	tb := &Table{Tree: t}
	if t == nil {
		return tb, nil
	}
	tb.Entries = make([]Entry, 0, len(t.Nodes))
	queue := []int{t.Root}
	for head := 0; head < len(queue); head++ {
		node := &t.Nodes[queue[head]]
		e := Entry{Node: queue[head], Left: none, Right: none}
		if node.IsLeaf() {
			sym := node.Symbol
			if remap != nil {
				sym = remap[sym]
			}
			e.Record = [RecordSize]byte{0x00, sym}
		} else {
			e.Left, e.Right = len(queue), len(queue)+1
			queue = append(queue, node.Left, node.Right)
			left, err := offset(head, e.Left)
			if err != nil {
				return nil, err
			}
			right, err := offset(head, e.Right)
			if err != nil {
				return nil, err
			}
			e.Record = [RecordSize]byte{left, right}
		}
		tb.Entries = append(tb.Entries, e)
	}
	return tb, nil
}

// offset is the byte distance from record from to record to.
func offset(from, to int) (byte, error) {
	d := (to - from) * RecordSize
	if d <= 0 || d > 0xFF {
		return 0, fmt.Errorf("%w: record %d to record %d is %d bytes", ErrOffsetRange, from, to, d)
	}
	return byte(d), nil
}

// Position is the byte position of entry i relative to the table start.
func (tb *Table) Position(i int) int {
	return i * RecordSize
}

// Label returns the position identifier of entry i.
func (tb *Table) Label(i int) string {
	return tb.Tree.Nodes[tb.Entries[i].Node].Code.Label()
}

// Bytes returns the concatenated records.
func (tb *Table) Bytes() []byte {
	out := make([]byte, 0, len(tb.Entries)*RecordSize)
	for _, e := range tb.Entries {
		out = append(out, e.Record[:]...)
	}
	return out
}

// Len is the table size in bytes.
func (tb *Table) Len() int {
	return len(tb.Entries) * RecordSize
}
