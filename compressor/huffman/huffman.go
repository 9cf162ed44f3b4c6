package huffman

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrCodeTooLong indicates a code would not fit in MaxCodeLen bits.
	ErrCodeTooLong = errors.New("huffman code exceeds maximum length")
	// ErrUnknownSymbol indicates a symbol that was not counted when the tree was built.
	ErrUnknownSymbol = errors.New("symbol not present in huffman tree")
	// ErrOffsetRange indicates a child record too far away to address with one byte.
	ErrOffsetRange = errors.New("node offset does not fit in a byte")
)

const none = -1

// Strategy selects how the two lowest-weight nodes are found on each combine step.
type Strategy int

const (
	// SortStrategy stable-sorts all pending nodes by descending weight before
	// every combine and merges the last two. Table bytes depend on this order.
	SortStrategy Strategy = iota
	// HeapStrategy pops the two lightest nodes from a min-heap, ties broken by
	// creation order. Codes are optimal but the tree shape may differ from SortStrategy.
	HeapStrategy
)

// Config holds tree construction options.
type Config struct {
	Strategy Strategy
}

// Option is a functional option for Build.
type Option func(*Config)

// WithStrategy selects the combine strategy.
func WithStrategy(s Strategy) Option {
	return func(c *Config) {
		c.Strategy = s
	}
}

// Node is one record of the tree arena. Leaves have Left == Right == -1.
type Node struct {
	Symbol byte
	Weight uint64
	Left   int
	Right  int
	Code   Code
}

func (n *Node) IsLeaf() bool {
	return n.Left == none
}

// Tree is a Huffman tree stored as an arena; children are arena indices.
type Tree struct {
	Nodes  []Node
	Root   int
	leaves [256]int
}

// Build constructs the tree for every symbol with a positive count and assigns
// codes to all nodes. An empty alphabet yields a nil tree and no error. A
// single symbol yields a lone leaf with a zero-length code.
func Build(freq *Frequencies, opts ...Option) (*Tree, error) {
	var cfg Config
	for _, opt := range opts {
		opt(&cfg)
	}
	t := &Tree{Root: none}
	var pending []int
	for sym, f := range freq {
		t.leaves[sym] = none
		if f == 0 {
			continue
		}
		t.leaves[sym] = len(t.Nodes)
		pending = append(pending, len(t.Nodes))
		t.Nodes = append(t.Nodes, Node{Symbol: byte(sym), Weight: f, Left: none, Right: none})
	}
	if len(pending) == 0 {
		return nil, nil
	}
	switch cfg.Strategy {
	case HeapStrategy:
		t.Root = t.combineHeap(pending)
	default:
		t.Root = t.combineSorted(pending)
	}
	if err := t.assignCodes(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Tree) combineSorted(pending []int) int {
	for i := len(pending) - 1; i > 0; i-- {
		slices.SortStableFunc(pending[:i+1], func(a, b int) int {
			return cmp.Compare(t.Nodes[b].Weight, t.Nodes[a].Weight)
		})
		pending[i-1] = t.merge(pending[i], pending[i-1])
	}
	return pending[0]
}

// merge appends an interior node over left and right and returns its index.
func (t *Tree) merge(left, right int) int {
	t.Nodes = append(t.Nodes, Node{
		Weight: t.Nodes[left].Weight + t.Nodes[right].Weight,
		Left:   left,
		Right:  right,
	})
	return len(t.Nodes) - 1
}

// assignCodes walks the tree from the root: left children append a 0 bit,
// right children a 1 bit.
func (t *Tree) assignCodes() error {
	t.Nodes[t.Root].Code = Code{}
	stack := []int{t.Root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := &t.Nodes[n]
		if node.IsLeaf() {
			continue
		}
		left, err := node.Code.child(0)
		if err != nil {
			return fmt.Errorf("assigning codes below node %d: %w", n, err)
		}
		right, err := node.Code.child(1)
		if err != nil {
			return fmt.Errorf("assigning codes below node %d: %w", n, err)
		}
		t.Nodes[node.Left].Code = left
		t.Nodes[node.Right].Code = right
		stack = append(stack, node.Right, node.Left)
	}
	return nil
}

// Leaf returns the leaf holding sym.
func (t *Tree) Leaf(sym byte) (*Node, bool) {
	i := t.leaves[sym]
	if i == none {
		return nil, false
	}
	return &t.Nodes[i], true
}

// CodeOf returns the code of sym.
func (t *Tree) CodeOf(sym byte) (Code, error) {
	leaf, ok := t.Leaf(sym)
	if !ok {
		return Code{}, fmt.Errorf("%w: $%.2X", ErrUnknownSymbol, sym)
	}
	return leaf.Code, nil
}

// Leaves returns the arena indices of all leaves, in symbol order.
func (t *Tree) Leaves() []int {
	var out []int
	for _, i := range t.leaves {
		if i != none {
			out = append(out, i)
		}
	}
	return out
}

// Symbols is the number of leaves.
func (t *Tree) Symbols() int {
	return len(t.Leaves())
}

// Weight is the root weight, the sum of all leaf counts.
func (t *Tree) Weight() uint64 {
	return t.Nodes[t.Root].Weight
}

// Depth is the longest code length in the tree.
func (t *Tree) Depth() int {
	depth := 0
	for _, i := range t.Leaves() {
		depth = max(depth, t.Nodes[i].Code.Len())
	}
	return depth
}
