package jpegturbo

import "sync"

// zigzag maps zig-zag scan position to natural (row-major) order.
var zigzag = [64]int{
	0, 1, 8, 16, 9, 2, 3, 10,
	17, 24, 32, 25, 18, 11, 4, 5,
	12, 19, 26, 33, 40, 48, 41, 34,
	27, 20, 13, 6, 7, 14, 21, 28,
	35, 42, 49, 56, 57, 50, 43, 36,
	29, 22, 15, 23, 30, 37, 44, 51,
	58, 59, 52, 45, 38, 31, 39, 46,
	53, 60, 61, 54, 47, 55, 62, 63,
}

// huffEntry is one slot of a 16-bit lookup table: the code length in bits
// (0 if no code has this prefix) and the decoded symbol.
type huffEntry struct {
	bits uint8
	sym  uint8
}

// huffTable decodes any code of up to 16 bits with a single lookup.
type huffTable struct {
	lut [1 << 16]huffEntry
}

// huffPool recycles the 128KB lookup tables between decodes.
var huffPool = sync.Pool{
	New: func() any {
		return new(huffTable)
	},
}

// build fills t from the DHT code counts and symbols. It reports false if
// the counts describe more codes than fit in their lengths.
func (t *huffTable) build(counts *[16]uint8, symbols []byte) bool {
	t.lut = [1 << 16]huffEntry{}

	code, k := 0, 0
	for length := 1; length <= 16; length++ {
		n := int(counts[length-1])
		for i := 0; i < n; i++ {
			if code >= 1<<length {
				return false
			}

			shift := 16 - length
			base := code << shift
			e := huffEntry{bits: uint8(length), sym: symbols[k]}
			for j := 0; j < 1<<shift; j++ {
				t.lut[base+j] = e
			}

			code++
			k++
		}

		code <<= 1
	}

	return true
}

func releaseHuffTables(tabs *[4]*huffTable) {
	for i, t := range tabs {
		if t != nil {
			huffPool.Put(t)
			tabs[i] = nil
		}
	}
}
