package jpegturbo

// Bitstream handling

// fill loads bytes into the bit buffer until it holds more than 56 bits, a
// marker is reached or the data ends. Stuffed 0xFF00 pairs become 0xFF.
func (d *decompressor) fill() {
	for d.bitCount <= 56 && !d.markerHit {
		if d.pos >= len(d.src) {
			return
		}

		b := d.src[d.pos]
		if b == 0xff {
			if d.pos+1 >= len(d.src) {
				return
			}

			if d.src[d.pos+1] != 0x00 {
				// Leave the marker for nextMarker.
				d.markerHit = true

				return
			}

			d.pos += 2
		} else {
			d.pos++
		}

		d.bitBuf = d.bitBuf<<8 | uint64(b)
		d.bitCount += 8
	}
}

// padBits extends the buffer with zero bits up to n once the segment is
// exhausted. The first time this happens a warning is emitted.
func (d *decompressor) padBits(n int) {
	if !d.insufficient {
		if d.markerHit {
			d.warn(wrnHitMarker)
		} else {
			d.warn(wrnJPEGEOF)
		}

		d.insufficient = true
	}

	d.bitBuf <<= uint(n - d.bitCount)
	d.bitCount = n
}

// getBits reads and consumes n bits, n <= 16.
func (d *decompressor) getBits(n int) int {
	if n == 0 {
		return 0
	}

	if d.bitCount < n {
		d.fill()
		if d.bitCount < n {
			d.padBits(n)
		}
	}

	d.bitCount -= n

	return int(d.bitBuf>>uint(d.bitCount)) & (1<<n - 1)
}

// peek16 returns the next 16 bits without consuming them, zero padded if
// fewer are available.
func (d *decompressor) peek16() int {
	if d.bitCount < 16 {
		d.fill()
	}

	if d.bitCount >= 16 {
		return int(d.bitBuf>>uint(d.bitCount-16)) & 0xffff
	}

	return int(d.bitBuf<<uint(16-d.bitCount)) & 0xffff
}

// decodeHuff decodes one symbol with t. A bad code yields symbol 0.
func (d *decompressor) decodeHuff(t *huffTable) int {
	e := t.lut[d.peek16()]

	if e.bits == 0 {
		d.warn(wrnHuffBadCode)
		d.getBits(min(16, max(d.bitCount, 1)))

		return 0
	}

	n := int(e.bits)
	if n > d.bitCount {
		d.padBits(n)
	}
	d.bitCount -= n

	return int(e.sym)
}

// receiveExtend reads an s-bit magnitude and sign-extends it.
func (d *decompressor) receiveExtend(s int) int {
	if s == 0 {
		return 0
	}

	v := d.getBits(s)
	if v < 1<<(s-1) {
		v += -1<<s + 1
	}

	return v
}

// processRestart expects the next RSTn marker and resets the entropy
// decoder state.
func (d *decompressor) processRestart() {
	d.bitBuf, d.bitCount = 0, 0

	m := d.nextMarker()
	switch {
	case m == markerRST0+d.nextRestart:
		d.markerHit = false
	case m >= markerRST0 && m <= markerRST7:
		d.warn(wrnMustResync, m, d.nextRestart)
		d.markerHit = false
	default:
		d.warn(wrnMustResync, max(m, 0), d.nextRestart)
		if m >= 0 {
			// Leave the marker in place; the rest of the scan reads as zeros.
			d.pos -= 2
			d.markerHit = true
		}
	}

	for i := 0; i < d.numComponents; i++ {
		d.comp[i].pred = 0
	}

	d.insufficient = false
	d.eobRun = 0
	d.restartsLeft = d.restartInterval
	d.nextRestart = (d.nextRestart + 1) & 7
}

// countMCU processes a pending restart marker before the next MCU.
func (d *decompressor) countMCU() {
	if d.restartInterval == 0 {
		return
	}

	if d.restartsLeft == 0 {
		d.processRestart()
	}
	d.restartsLeft--
}
