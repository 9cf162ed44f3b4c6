package huffman

// Frequencies counts occurrences of every byte value across all strings.
type Frequencies [256]uint64

// Count builds the global frequency table of strings.
func Count(strings [][]byte) Frequencies {
	var freq Frequencies
	for _, s := range strings {
		freq.Add(s)
	}
	return freq
}

func (freq *Frequencies) Add(s []byte) {
	for _, c := range s {
		freq[c]++
	}
}

// Symbols returns the number of distinct byte values with a non-zero count.
func (freq *Frequencies) Symbols() int {
	n := 0
	for _, f := range freq {
		if f > 0 {
			n++
		}
	}
	return n
}

// Total is the sum of all counts.
func (freq *Frequencies) Total() uint64 {
	var total uint64
	for _, f := range freq {
		total += f
	}
	return total
}
