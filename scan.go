package jpegturbo

// Entropy Decoding

// decodeBlock decodes one sequential block of c into d.coef (natural order,
// not dequantized).
func (d *decompressor) decodeBlock(c *component) {
	d.coef = [64]int32{}

	s := d.decodeHuff(d.dcTab[c.td])
	if s > 15 {
		d.fatal(errBadDCTCoef)
	}

	c.pred += d.receiveExtend(s)
	d.coef[0] = int32(c.pred)

	ac := d.acTab[c.ta]
	for k := 1; k < 64; {
		rs := d.decodeHuff(ac)
		r, s := rs>>4, rs&0x0f

		if s == 0 {
			if r != 15 {
				// EOB
				break
			}

			k += 16

			continue
		}

		k += r
		if k > 63 {
			break
		}

		d.coef[zigzag[k]] = int32(d.receiveExtend(s))
		k++
	}
}

// decodeMCURow produces the next row of MCUs and inverse transforms the
// blocks that fall inside the output window. Single-scan images are entropy
// decoded here; buffered images already hold every coefficient.
func (d *decompressor) decodeMCURow() {
	if d.buffered {
		d.outputMCURow()
		return
	}

	s := d.blockSize
	my := d.mcuRows
	rowWanted := my >= d.idctRowFrom

	for mx := 0; mx < d.mcusX; mx++ {
		d.countMCU()

		transform := rowWanted && mx >= d.idctColFrom && mx < d.idctColTo

		for _, ci := range d.scan[:d.scanCount] {
			c := &d.comp[ci]

			for by := 0; by < c.v; by++ {
				row := (my*c.v + by) * s * c.stride

				for bx := 0; bx < c.h; bx++ {
					d.decodeBlock(c)

					if transform {
						d.inverseDCT(c, row+(mx*c.h+bx)*s)
					}
				}
			}
		}
	}

	d.mcuRows++
}

// outputMCURow inverse transforms one MCU row of buffered coefficients.
func (d *decompressor) outputMCURow() {
	s := d.blockSize
	my := d.mcuRows

	if my >= d.idctRowFrom {
		for i := 0; i < d.numComponents; i++ {
			c := &d.comp[i]

			for by := my * c.v; by < (my+1)*c.v; by++ {
				row := by * s * c.stride

				for bx := d.idctColFrom * c.h; bx < d.idctColTo*c.h; bx++ {
					d.coef = *c.block(bx, by)
					d.inverseDCT(c, row+bx*s)
				}
			}
		}
	}

	d.mcuRows++
}

// consumeInput decodes every remaining scan into the coefficient buffers.
// The first SOS has already been read by readHeader.
func (d *decompressor) consumeInput() {
	for i := range d.coefBits[:d.numComponents] {
		for k := range d.coefBits[i] {
			d.coefBits[i][k] = -1
		}
	}

	for {
		d.decodeScan()

		if !d.nextScan() {
			break
		}
	}

	d.inputDone = true
}

// decodeScan decodes the current scan into the coefficient buffers.
func (d *decompressor) decodeScan() {
	d.checkScan()

	d.bitBuf, d.bitCount = 0, 0
	d.markerHit, d.insufficient = false, false
	d.restartsLeft = d.restartInterval
	d.nextRestart = 0
	d.eobRun = 0

	for i := 0; i < d.numComponents; i++ {
		d.comp[i].pred = 0
	}

	decode := d.blockDecoder()

	// A non-interleaved scan covers only the blocks that hold samples.
	if d.scanCount == 1 {
		c := &d.comp[d.scan[0]]
		bw := ceilDiv(ceilDiv(d.imageWidth*c.h, d.maxH), 8)
		bh := ceilDiv(ceilDiv(d.imageHeight*c.v, d.maxV), 8)

		for by := 0; by < bh; by++ {
			for bx := 0; bx < bw; bx++ {
				d.countMCU()
				decode(c, c.block(bx, by))
			}
		}

		return
	}

	for my := 0; my < d.mcusY; my++ {
		for mx := 0; mx < d.mcusX; mx++ {
			d.countMCU()

			for _, ci := range d.scan[:d.scanCount] {
				c := &d.comp[ci]

				for by := 0; by < c.v; by++ {
					for bx := 0; bx < c.h; bx++ {
						decode(c, c.block(mx*c.h+bx, my*c.v+by))
					}
				}
			}
		}
	}
}

// blockDecoder selects the block decoder for the current scan.
func (d *decompressor) blockDecoder() func(*component, *[64]int32) {
	switch {
	case !d.progressive:
		return d.decodeSequential
	case d.ss == 0 && d.ah == 0:
		return d.decodeDCFirst
	case d.ss == 0:
		return d.decodeDCRefine
	case d.ah == 0:
		return d.decodeACFirst
	default:
		return d.decodeACRefine
	}
}

// checkScan validates the current scan header and the Huffman tables it
// needs. For progressive scans it also tracks the bit position reached by
// every coefficient and warns when a scan does not continue it.
func (d *decompressor) checkScan() {
	if !d.progressive {
		for _, ci := range d.scan[:d.scanCount] {
			c := &d.comp[ci]
			d.checkHuff(&d.dcTab, c.td)
			d.checkHuff(&d.acTab, c.ta)
		}

		return
	}

	bad := d.al > 13 || (d.ah != 0 && d.al != d.ah-1)
	if d.ss == 0 {
		bad = bad || d.se != 0
	} else {
		bad = bad || d.ss > d.se || d.se > 63 || d.scanCount != 1
	}
	if bad {
		d.fatal(errBadProgression, d.ss, d.se, d.ah, d.al)
	}

	for _, ci := range d.scan[:d.scanCount] {
		bits := &d.coefBits[ci]
		if d.ss != 0 && bits[0] < 0 {
			d.warn(wrnBogusProgression, ci, 0)
		}

		for k := d.ss; k <= d.se; k++ {
			if d.ah != max(bits[k], 0) {
				d.warn(wrnBogusProgression, ci, k)
			}
			bits[k] = d.al
		}

		c := &d.comp[ci]
		switch {
		case d.ss != 0:
			d.checkHuff(&d.acTab, c.ta)
		case d.ah == 0:
			d.checkHuff(&d.dcTab, c.td)
		}
	}
}

func (d *decompressor) checkHuff(tabs *[4]*huffTable, idx int) {
	if idx > 3 || tabs[idx] == nil {
		d.fatal(errNoHuffTable, idx)
	}
}

func (d *decompressor) decodeSequential(c *component, blk *[64]int32) {
	d.decodeBlock(c)
	*blk = d.coef
}

// decodeDCFirst decodes the DC difference of a first progressive pass.
func (d *decompressor) decodeDCFirst(c *component, blk *[64]int32) {
	s := d.decodeHuff(d.dcTab[c.td])
	if s > 15 {
		d.fatal(errBadDCTCoef)
	}

	c.pred += d.receiveExtend(s)
	blk[0] = int32(c.pred) << d.al
}

// decodeDCRefine adds one bit of DC precision.
func (d *decompressor) decodeDCRefine(_ *component, blk *[64]int32) {
	if d.getBits(1) != 0 {
		blk[0] |= 1 << d.al
	}
}

// decodeACFirst decodes the first pass of a spectral band.
func (d *decompressor) decodeACFirst(c *component, blk *[64]int32) {
	if d.eobRun > 0 {
		d.eobRun--
		return
	}

	ac := d.acTab[c.ta]
	for k := d.ss; k <= d.se; k++ {
		rs := d.decodeHuff(ac)
		r, s := rs>>4, rs&0x0f

		if s == 0 {
			if r < 15 {
				// EOB run, this block included.
				d.eobRun = 1<<r + d.getBits(r) - 1
				return
			}

			k += 15

			continue
		}

		k += r
		v := int32(d.receiveExtend(s))
		if k > d.se {
			break
		}

		blk[zigzag[k]] = v << d.al
	}
}

// decodeACRefine adds one bit of precision to a spectral band. Coefficients
// that are already nonzero get a correction bit each; newly nonzero ones are
// placed after the run of zeros given by the symbol.
func (d *decompressor) decodeACRefine(c *component, blk *[64]int32) {
	p1 := int32(1) << d.al
	m1 := int32(-1) << d.al
	k := d.ss

	if d.eobRun == 0 {
		ac := d.acTab[c.ta]

		for ; k <= d.se; k++ {
			rs := d.decodeHuff(ac)
			r, s := rs>>4, rs&0x0f

			var v int32
			if s != 0 {
				if s != 1 {
					d.warn(wrnHuffBadCode)
				}

				v = m1
				if d.getBits(1) != 0 {
					v = p1
				}
			} else if r != 15 {
				d.eobRun = 1<<r + d.getBits(r)
				break
			}

			for ; k <= d.se; k++ {
				z := &blk[zigzag[k]]
				if *z != 0 {
					d.refineCoef(z, p1, m1)
					continue
				}

				if r == 0 {
					break
				}
				r--
			}

			if v != 0 && k <= d.se {
				blk[zigzag[k]] = v
			}
		}
	}

	if d.eobRun > 0 {
		for ; k <= d.se; k++ {
			if z := &blk[zigzag[k]]; *z != 0 {
				d.refineCoef(z, p1, m1)
			}
		}

		d.eobRun--
	}
}

func (d *decompressor) refineCoef(z *int32, p1, m1 int32) {
	if d.getBits(1) == 0 || *z&p1 != 0 {
		return
	}

	if *z >= 0 {
		*z += p1
	} else {
		*z += m1
	}
}
