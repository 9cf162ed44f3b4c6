// Package charmap translates input symbols to the byte values the target
// decoder prints.
//
// A map file holds one KEY=VALUE pair per line. KEY is a single literal
// character or a number, VALUE is a number. Numbers are decimal, 0x-prefixed
// hex or $-prefixed hex. Blank lines and lines starting with '#' are ignored.
// Symbols not listed map to themselves.
//
//	A=$41
//	' '=0
//	$0A=0xFF
package charmap

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrSyntax indicates a malformed line in a map file.
var ErrSyntax = errors.New("charmap: syntax error")

// Map is a 256-entry byte substitution table.
type Map [256]byte

// Identity returns the map f(c) = c.
func Identity() Map {
	var m Map
	for i := range m {
		m[i] = byte(i)
	}
	return m
}

// Table exposes the map as a plain lookup table.
func (m *Map) Table() *[256]byte {
	return (*[256]byte)(m)
}

// Apply returns a copy of s with every byte translated.
func (m *Map) Apply(s []byte) []byte {
	out := make([]byte, len(s))
	for i, c := range s {
		out[i] = m[c]
	}
	return out
}

// Load parses the map file at path.
func Load(path string) (Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return Map{}, err
	}
	defer f.Close()
	m, err := Parse(f)
	if err != nil {
		return Map{}, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse reads map entries from in on top of the identity map.
func Parse(in io.Reader) (Map, error) {
	m := Identity()
	scanner := bufio.NewScanner(in)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" || strings.HasPrefix(strings.TrimSpace(text), "#") {
			continue
		}
		key, value, err := parseLine(text)
		if err != nil {
			return Map{}, fmt.Errorf("line %d: %w", line, err)
		}
		m[key] = value
	}
	if err := scanner.Err(); err != nil {
		return Map{}, err
	}
	return m, nil
}

func parseLine(text string) (byte, byte, error) {
	// the first character always belongs to the key so that '=' can be mapped
	idx := strings.IndexByte(text[1:], '=')
	if idx < 0 {
		return 0, 0, fmt.Errorf("%w: missing '=' in %q", ErrSyntax, text)
	}
	keyText, valueText := text[:idx+1], strings.TrimSpace(text[idx+2:])
	if len(keyText) > 1 {
		keyText = strings.TrimSpace(keyText)
	}
	key, err := parseKey(keyText)
	if err != nil {
		return 0, 0, err
	}
	value, err := parseNumber(valueText)
	if err != nil {
		return 0, 0, err
	}
	return key, value, nil
}

func parseKey(s string) (byte, error) {
	switch {
	case len(s) == 1:
		return s[0], nil
	case len(s) == 3 && s[0] == '\'' && s[2] == '\'':
		return s[1], nil
	}
	return parseNumber(s)
}

func parseNumber(s string) (byte, error) {
	base := 10
	switch {
	case strings.HasPrefix(s, "$"):
		s, base = s[1:], 16
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		s, base = s[2:], 16
	}
	v, err := strconv.ParseUint(s, base, 8)
	if err != nil {
		return 0, fmt.Errorf("%w: bad number %q", ErrSyntax, s)
	}
	return byte(v), nil
}
