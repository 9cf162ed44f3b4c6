package engine

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	pb "github.com/cheggaaa/pb/v3"

	"github.com/FitrahHaque/huffpuff/compressor/charmap"
	"github.com/FitrahHaque/huffpuff/compressor/huffman"
	"github.com/FitrahHaque/huffpuff/compressor/text"
)

var Formats = [...]string{"asm", "bin"}

var Builders = [...]string{"sort", "heap"}

var builders = map[string]huffman.Strategy{
	"sort": huffman.SortStrategy,
	"heap": huffman.HeapStrategy,
}

var (
	// ErrVerify indicates an encoded string did not decode back to its input.
	ErrVerify = errors.New("encoded string does not decode to its input")
	// ErrUnknownOption indicates an unsupported format or builder name.
	ErrUnknownOption = errors.New("unknown option value")
)

// Config holds everything the driver needs besides the input strings.
type Config struct {
	Input               string
	CharacterMap        string
	TableOutput         string
	DataOutput          string
	TableLabel          string
	StringLabelPrefix   string
	GenerateStringTable bool
	Format              string
	Builder             string
	ResolveOffsets      bool
	Verify              bool
	// Progress receives an encoding progress bar when non-nil.
	Progress io.Writer
}

func DefaultConfig() Config {
	return Config{
		TableOutput: "huffpuff.tab",
		DataOutput:  "huffpuff.dat",
		TableLabel:  "huff_node_table",
		Format:      "asm",
		Builder:     "sort",
	}
}

// Result is the output of one compression run.
type Result struct {
	Strings [][]byte
	Tree    *huffman.Tree
	Table   *huffman.Table
	Encoded [][]byte
}

func (r *Result) InputSize() int {
	n := 0
	for _, s := range r.Strings {
		n += len(s)
	}
	return n
}

func (r *Result) EncodedSize() int {
	n := 0
	for _, e := range r.Encoded {
		n += len(e)
	}
	return n
}

// Compress builds the tree for strs, encodes every string and serializes the
// tree. Empty input yields an empty table and no encoded strings.
func Compress(strs [][]byte, remap *charmap.Map, cfg *Config) (*Result, error) {
	strategy, ok := builders[cfg.Builder]
	if !ok {
		return nil, fmt.Errorf("%w: builder %q", ErrUnknownOption, cfg.Builder)
	}
	freq := huffman.Count(strs)
	tree, err := huffman.Build(&freq, huffman.WithStrategy(strategy))
	if err != nil {
		return nil, err
	}
	result := &Result{Strings: strs, Tree: tree}

	if tree != nil {
		if result.Encoded, err = encodeStrings(tree, strs, cfg); err != nil {
			return nil, err
		}
	} else {
		// only empty strings: each still gets its (empty) buffer
		result.Encoded = make([][]byte, len(strs))
		for i := range result.Encoded {
			result.Encoded[i] = []byte{}
		}
	}
	var table *[256]byte
	if remap != nil {
		table = remap.Table()
	}
	if result.Table, err = huffman.Serialize(tree, table); err != nil {
		return nil, err
	}
	return result, nil
}

func encodeStrings(tree *huffman.Tree, strs [][]byte, cfg *Config) ([][]byte, error) {
	var bar *pb.ProgressBar
	if cfg.Progress != nil {
		bar = pb.New(len(strs))
		bar.SetWriter(cfg.Progress)
		bar.Start()
		defer bar.Finish()
	}
	encoded := make([][]byte, 0, len(strs))
	for i, s := range strs {
		data, err := huffman.Encode(tree, s)
		if err != nil {
			return nil, fmt.Errorf("string %d: %w", i, err)
		}
		if cfg.Verify {
			decoded, err := huffman.Decode(tree, data, len(s))
			if err != nil || !bytes.Equal(decoded, s) {
				return nil, fmt.Errorf("string %d: %w", i, ErrVerify)
			}
		}
		encoded = append(encoded, data)
		if bar != nil {
			bar.Increment()
		}
	}
	return encoded, nil
}

// Run reads the input named by cfg (stdin when empty), compresses it and
// writes the table and data outputs. Nothing is written unless every step
// succeeded.
func Run(cfg *Config, stdin io.Reader) (*Result, error) {
	render, ok := renderers[cfg.Format]
	if !ok {
		return nil, fmt.Errorf("%w: format %q", ErrUnknownOption, cfg.Format)
	}
	remap := charmap.Identity()
	if cfg.CharacterMap != "" {
		m, err := charmap.Load(cfg.CharacterMap)
		if err != nil {
			return nil, fmt.Errorf("failed to parse character map: %w", err)
		}
		remap = m
	}

	in := stdin
	if cfg.Input != "" {
		f, err := os.Open(cfg.Input)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		in = f
	}
	strs, err := text.ReadStrings(in)
	if err != nil {
		return nil, fmt.Errorf("reading strings: %w", err)
	}

	result, err := Compress(strs, &remap, cfg)
	if err != nil {
		return nil, err
	}

	r := render(cfg)
	var table, data bytes.Buffer
	if err := r.table(&table, result.Table); err != nil {
		return nil, err
	}
	if err := r.data(&data, result); err != nil {
		return nil, err
	}
	if err := writeFiles(map[string][]byte{
		cfg.TableOutput: table.Bytes(),
		cfg.DataOutput:  data.Bytes(),
	}); err != nil {
		return nil, err
	}
	return result, nil
}

// writeFiles stages every output in a temporary file next to its target and
// renames them into place only once all of them were written.
func writeFiles(outputs map[string][]byte) error {
	staged := make(map[string]string, len(outputs))
	defer func() {
		for _, tmp := range staged {
			os.Remove(tmp)
		}
	}()
	for path, content := range outputs {
		f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
		if err != nil {
			return err
		}
		staged[path] = f.Name()
		if _, err := f.Write(content); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		if err := os.Chmod(f.Name(), 0644); err != nil {
			return err
		}
	}
	for path, tmp := range staged {
		if err := os.Rename(tmp, path); err != nil {
			return err
		}
		delete(staged, path)
	}
	return nil
}
