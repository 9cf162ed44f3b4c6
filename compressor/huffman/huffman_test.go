package huffman

import (
	"bytes"
	"errors"
	"math/rand"
	"slices"
	"testing"
)

func buildStrings(t *testing.T, strs []string, opts ...Option) *Tree {
	t.Helper()
	var in [][]byte
	for _, s := range strs {
		in = append(in, []byte(s))
	}
	freq := Count(in)
	tree, err := Build(&freq, opts...)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return tree
}

func fibonacciFrequencies(n int) Frequencies {
	var freq Frequencies
	a, b := uint64(1), uint64(1)
	for i := 0; i < n; i++ {
		freq[i] = a
		a, b = b, a+b
	}
	return freq
}

func randomFrequencies(rng *rand.Rand) Frequencies {
	var freq Frequencies
	n := 1 + rng.Intn(256)
	for _, sym := range rng.Perm(256)[:n] {
		freq[sym] = 1 + uint64(rng.Intn(1000))
	}
	return freq
}

func TestCount(t *testing.T) {
	freq := Count([][]byte{[]byte("abca"), []byte("a"), nil})
	if freq['a'] != 3 || freq['b'] != 1 || freq['c'] != 1 {
		t.Fatalf("unexpected counts a=%d b=%d c=%d", freq['a'], freq['b'], freq['c'])
	}
	if got := freq.Symbols(); got != 3 {
		t.Errorf("Symbols() = %d, want 3", got)
	}
	if got := freq.Total(); got != 5 {
		t.Errorf("Total() = %d, want 5", got)
	}

	all := make([]byte, 256)
	for i := range all {
		all[i] = byte(i)
	}
	full := Count([][]byte{all, all[:10]})
	if got := full.Symbols(); got != 256 {
		t.Errorf("Symbols() = %d, want 256", got)
	}
	if got, want := full.Total(), uint64(len(all)+10); got != want {
		t.Errorf("Total() = %d, want %d", got, want)
	}
	if full[0] != 2 || full[9] != 2 || full[10] != 1 || full[255] != 1 {
		t.Errorf("unexpected counts %d %d %d %d", full[0], full[9], full[10], full[255])
	}

	empty := Count(nil)
	if empty.Symbols() != 0 || empty.Total() != 0 {
		t.Errorf("empty input produced counts")
	}
}

func TestBuildEmpty(t *testing.T) {
	var freq Frequencies
	tree, err := Build(&freq)
	if err != nil || tree != nil {
		t.Fatalf("Build(empty) = %v, %v; want nil, nil", tree, err)
	}
}

func TestBuildSingleSymbol(t *testing.T) {
	tree := buildStrings(t, []string{"CCCC"})
	if len(tree.Nodes) != 1 {
		t.Fatalf("got %d nodes, want 1", len(tree.Nodes))
	}
	root := tree.Nodes[tree.Root]
	if !root.IsLeaf() || root.Symbol != 'C' || root.Code.Len() != 0 {
		t.Fatalf("unexpected root %+v", root)
	}
	if root.Weight != 4 {
		t.Errorf("root weight = %d, want 4", root.Weight)
	}
}

func TestBuildCodes(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		codes map[byte]string
	}{
		{
			name:  "two symbols",
			input: []string{"AAAB"},
			codes: map[byte]string{'A': "1", 'B': "0"},
		},
		{
			name:  "three symbols",
			input: []string{"AAAAABBC"},
			codes: map[byte]string{'A': "1", 'B': "01", 'C': "00"},
		},
		{
			name:  "hello world",
			input: []string{"hello world"},
			codes: map[byte]string{
				' ': "001", 'd': "000", 'e': "011", 'h': "010",
				'l': "10", 'o': "111", 'r': "1101", 'w': "1100",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := buildStrings(t, tt.input)
			if got := tree.Symbols(); got != len(tt.codes) {
				t.Fatalf("Symbols() = %d, want %d", got, len(tt.codes))
			}
			for sym, want := range tt.codes {
				code, err := tree.CodeOf(sym)
				if err != nil {
					t.Fatalf("CodeOf(%q): %v", sym, err)
				}
				if code.String() != want {
					t.Errorf("code of %q = %s, want %s", sym, code, want)
				}
			}
		})
	}
}

func TestCodeOfUnknownSymbol(t *testing.T) {
	tree := buildStrings(t, []string{"ab"})
	if _, err := tree.CodeOf('z'); !errors.Is(err, ErrUnknownSymbol) {
		t.Fatalf("CodeOf('z') error = %v, want ErrUnknownSymbol", err)
	}
}

func checkTreeProperties(t *testing.T, freq *Frequencies, tree *Tree) {
	t.Helper()
	symbols := freq.Symbols()
	leaves := tree.Leaves()
	if len(leaves) != symbols {
		t.Fatalf("got %d leaves, want %d", len(leaves), symbols)
	}
	if interior := len(tree.Nodes) - len(leaves); interior != symbols-1 {
		t.Fatalf("got %d interior nodes, want %d", interior, symbols-1)
	}
	if tree.Weight() != freq.Total() {
		t.Fatalf("root weight %d, want %d", tree.Weight(), freq.Total())
	}
	for i := range tree.Nodes {
		n := &tree.Nodes[i]
		if n.IsLeaf() {
			if n.Weight != freq[n.Symbol] {
				t.Fatalf("leaf %d weight %d, want %d", n.Symbol, n.Weight, freq[n.Symbol])
			}
			if symbols > 1 && n.Code.Len() < 1 {
				t.Fatalf("leaf %d has empty code", n.Symbol)
			}
			continue
		}
		if n.Right == none {
			t.Fatalf("interior node %d has one child", i)
		}
		if n.Weight != tree.Nodes[n.Left].Weight+tree.Nodes[n.Right].Weight {
			t.Fatalf("interior node %d weight mismatch", i)
		}
	}

	codes := make([]Code, 0, len(leaves))
	for _, i := range leaves {
		codes = append(codes, tree.Nodes[i].Code)
	}
	slices.SortFunc(codes, func(a, b Code) int {
		if a.String() < b.String() {
			return -1
		}
		if a.String() > b.String() {
			return 1
		}
		return 0
	})
	for i := 1; i < len(codes); i++ {
		if codes[i].HasPrefix(codes[i-1]) {
			t.Fatalf("code %s is a prefix of %s", codes[i-1], codes[i])
		}
	}
}

func TestBuildProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, strategy := range []Strategy{SortStrategy, HeapStrategy} {
		for i := 0; i < 50; i++ {
			freq := randomFrequencies(rng)
			tree, err := Build(&freq, WithStrategy(strategy))
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			checkTreeProperties(t, &freq, tree)
		}
	}
}

func TestBuildDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		freq := randomFrequencies(rng)
		for _, strategy := range []Strategy{SortStrategy, HeapStrategy} {
			a, err := Build(&freq, WithStrategy(strategy))
			if err != nil {
				t.Fatal(err)
			}
			b, err := Build(&freq, WithStrategy(strategy))
			if err != nil {
				t.Fatal(err)
			}
			if !slices.Equal(a.Nodes, b.Nodes) || a.Root != b.Root {
				t.Fatalf("strategy %d: repeated builds differ", strategy)
			}
		}
	}
}

func TestStrategiesAgreeOnCost(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	cost := func(freq *Frequencies, tree *Tree) uint64 {
		var total uint64
		for _, i := range tree.Leaves() {
			n := tree.Nodes[i]
			total += freq[n.Symbol] * uint64(n.Code.Len())
		}
		return total
	}
	for i := 0; i < 30; i++ {
		freq := randomFrequencies(rng)
		sorted, _ := Build(&freq)
		heaped, _ := Build(&freq, WithStrategy(HeapStrategy))
		if a, b := cost(&freq, sorted), cost(&freq, heaped); a != b {
			t.Fatalf("encoded size differs: sort %d, heap %d", a, b)
		}
	}
}

func TestLongCodes(t *testing.T) {
	freq := fibonacciFrequencies(91)
	tree, err := Build(&freq)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := tree.Depth(); got != 90 {
		t.Fatalf("Depth() = %d, want 90", got)
	}
	checkTreeProperties(t, &freq, tree)

	code, _ := tree.CodeOf(0)
	want := bytes.Repeat([]byte("1"), 88)
	want = append(want, "01"...)
	if code.String() != string(want) {
		t.Errorf("code of 0 = %s", code)
	}
	if got := code.Label(); got != "1237940039285380274899124221_90" {
		t.Errorf("Label() = %s", got)
	}
}

func TestCodeChildAtMaxLength(t *testing.T) {
	var c Code
	var err error
	for i := 0; i < MaxCodeLen; i++ {
		if c, err = c.child(uint64(i & 1)); err != nil {
			t.Fatalf("child at length %d: %v", i, err)
		}
	}
	if c.Len() != MaxCodeLen || c.Bit(0) != 0 || c.Bit(MaxCodeLen-1) != 0 || c.Bit(1) != 1 {
		t.Fatalf("unexpected code %s", c)
	}
	for _, bit := range []uint64{0, 1} {
		if _, err := c.child(bit); !errors.Is(err, ErrCodeTooLong) {
			t.Errorf("child(%d) error = %v, want ErrCodeTooLong", bit, err)
		}
	}
}
