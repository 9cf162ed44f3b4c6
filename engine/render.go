package engine

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/FitrahHaque/huffpuff/compressor/huffman"
)

// ErrDataTooLarge indicates a string offset that does not fit the 16-bit string table.
var ErrDataTooLarge = errors.New("encoded data too large for string table")

const (
	dataColumns    = 16
	commentMaxLen  = 40
	commentCut     = 37
	stringTableTag = "huff_string_table"
	localPrefix    = "@@"
)

type renderer interface {
	table(w io.Writer, tb *huffman.Table) error
	data(w io.Writer, r *Result) error
}

var renderers = map[string]func(*Config) renderer{
	"asm": func(cfg *Config) renderer { return &asmRenderer{cfg: cfg} },
	"bin": func(cfg *Config) renderer { return &binRenderer{cfg: cfg} },
}

// asmRenderer writes .db/.dw data directives. Interior nodes either refer to
// their children through label arithmetic or carry the resolved offsets.
type asmRenderer struct {
	cfg *Config
}

func nodeLabel(tb *huffman.Table, i int) string {
	return localPrefix + "node_" + tb.Label(i)
}

func (a *asmRenderer) table(w io.Writer, tb *huffman.Table) error {
	if a.cfg.TableLabel != "" {
		if _, err := fmt.Fprintf(w, "%s:\n", a.cfg.TableLabel); err != nil {
			return err
		}
	}
	for i, e := range tb.Entries {
		var line strings.Builder
		if i != 0 {
			fmt.Fprintf(&line, "%s: ", nodeLabel(tb, i))
		}
		switch {
		case e.IsLeaf():
			fmt.Fprintf(&line, ".db $00, $%.2X", e.Record[1])
		case a.cfg.ResolveOffsets:
			fmt.Fprintf(&line, ".db $%.2X, $%.2X", e.Record[0], e.Record[1])
		default:
			fmt.Fprintf(&line, ".db %s-$, %s-$+1", nodeLabel(tb, e.Left), nodeLabel(tb, e.Right))
		}
		line.WriteByte('\n')
		if _, err := io.WriteString(w, line.String()); err != nil {
			return err
		}
	}
	return nil
}

func (a *asmRenderer) data(w io.Writer, r *Result) error {
	prefix := a.cfg.StringLabelPrefix
	if a.cfg.GenerateStringTable {
		if _, err := fmt.Fprintf(w, "%s:\n", stringTableTag); err != nil {
			return err
		}
		for i := range r.Encoded {
			if _, err := fmt.Fprintf(w, ".dw %sString%d\n", localPrefix, i); err != nil {
				return err
			}
		}
		prefix = localPrefix
	}
	for i, data := range r.Encoded {
		label := fmt.Sprintf("%sString%d", prefix, i)
		if err := writeChunk(w, label, comment(r.Strings[i]), data, dataColumns); err != nil {
			return err
		}
	}
	return nil
}

func comment(s []byte) string {
	if len(s) < commentMaxLen {
		return `"` + string(s) + `"`
	}
	return `"` + string(s[:commentCut]) + `..."`
}

// writeChunk writes buf as .db lines of at most cols bytes, preceded by an
// optional label and comment.
func writeChunk(w io.Writer, label, comment string, buf []byte, cols int) error {
	var sb strings.Builder
	if label != "" {
		fmt.Fprintf(&sb, "%s:\n", label)
	}
	if comment != "" {
		fmt.Fprintf(&sb, "; %s\n", comment)
	}
	for len(buf) > 0 {
		n := min(cols, len(buf))
		sb.WriteString(".db ")
		for j, b := range buf[:n] {
			if j > 0 {
				sb.WriteByte(',')
			}
			fmt.Fprintf(&sb, "$%.2X", b)
		}
		sb.WriteByte('\n')
		buf = buf[n:]
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// binRenderer writes raw bytes. With a string table the data output starts
// with one little-endian uint16 per string holding its offset from the start
// of the data output.
type binRenderer struct {
	cfg *Config
}

func (b *binRenderer) table(w io.Writer, tb *huffman.Table) error {
	_, err := w.Write(tb.Bytes())
	return err
}

func (b *binRenderer) data(w io.Writer, r *Result) error {
	if b.cfg.GenerateStringTable {
		pos := 2 * len(r.Encoded)
		pointers := make([]uint16, len(r.Encoded))
		for i, data := range r.Encoded {
			if pos > 0xFFFF {
				return fmt.Errorf("%w: string %d at offset %d", ErrDataTooLarge, i, pos)
			}
			pointers[i] = uint16(pos)
			pos += len(data)
		}
		if err := binary.Write(w, binary.LittleEndian, pointers); err != nil {
			return err
		}
	}
	for _, data := range r.Encoded {
		if _, err := w.Write(data); err != nil {
			return err
		}
	}
	return nil
}
