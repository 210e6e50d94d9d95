package jpegturbo

// Inverse Discrete Cosine Transform

// Chen-Wang constants, 2048*sqrt(2)*cos(k*pi/16).
const (
	w1 = 2841
	w2 = 2676
	w3 = 2408
	w5 = 1609
	w6 = 1108
	w7 = 565
)

// inverseDCT transforms d.coef with the quantization table of c and writes
// an s x s block (s = d.blockSize) at pix[off].
func (d *decompressor) inverseDCT(c *component, off int) {
	out := c.pix[off:]

	switch d.blockSize {
	case 1:
		out[0] = clip(((d.coef[0]*c.qt[0] + 4) >> 3) + 128)
	case 8:
		d.idct8(c, out, c.stride)
	default:
		var tmp [64]byte
		d.idct8(c, tmp[:], 8)
		downscaleBlock(&tmp, out, c.stride, d.blockSize)
	}
}

func (d *decompressor) idct8(c *component, out []byte, stride int) {
	switch d.dctMethod {
	case DCTMethodIntFast:
		idctFast(&d.coef, &c.aanq, &d.blk, out, stride)
	case DCTMethodFloat:
		idctFloat(&d.coef, &c.qt, out, stride)
	default:
		for k := range d.blk {
			d.blk[k] = d.coef[k] * c.qt[k]
		}
		idctSlow(&d.blk, out, stride)
	}
}

// idctSlow performs the accurate 8x8 integer IDCT of blk, which holds
// dequantized coefficients and is used as the workspace.
func idctSlow(blk *[64]int32, out []byte, stride int) {
	for i := 0; i < 64; i += 8 {
		rowIdct(blk[i : i+8 : i+8])
	}

	for i := 0; i < 8; i++ {
		colIdct(blk, i, out[i:], stride)
	}
}

func rowIdct(b []int32) {
	_ = b[7]

	x1 := b[4] << 11
	x2, x3, x4, x5, x6, x7 := b[6], b[2], b[1], b[7], b[5], b[3]

	if (x1 | x2 | x3 | x4 | x5 | x6 | x7) == 0 {
		v := b[0] << 3
		b[0], b[1], b[2], b[3] = v, v, v, v
		b[4], b[5], b[6], b[7] = v, v, v, v

		return
	}

	x0 := (b[0] << 11) + 128

	x8 := w7 * (x4 + x5)
	x4 = x8 + (w1-w7)*x4
	x5 = x8 - (w1+w7)*x5
	x8 = w3 * (x6 + x7)
	x6 = x8 - (w3-w5)*x6
	x7 = x8 - (w3+w5)*x7

	x8 = x0 + x1
	x0 -= x1
	x1 = w6 * (x3 + x2)
	x2 = x1 - (w2+w6)*x2
	x3 = x1 + (w2-w6)*x3

	x1 = x4 + x6
	x4 -= x6
	x6 = x5 + x7
	x5 -= x7

	x7 = x8 + x3
	x8 -= x3
	x3 = x0 + x2
	x0 -= x2

	x2 = (181*(x4+x5) + 128) >> 8
	x4 = (181*(x4-x5) + 128) >> 8

	b[0] = (x7 + x1) >> 8
	b[1] = (x3 + x2) >> 8
	b[2] = (x0 + x4) >> 8
	b[3] = (x8 + x6) >> 8
	b[4] = (x8 - x6) >> 8
	b[5] = (x0 - x4) >> 8
	b[6] = (x3 - x2) >> 8
	b[7] = (x7 - x1) >> 8
}

// colIdct transforms column i of blk and stores it down out.
func colIdct(blk *[64]int32, i int, out []byte, stride int) {
	_ = out[7*stride]

	x1 := blk[i+8*4] << 8
	x2, x3, x4 := blk[i+8*6], blk[i+8*2], blk[i+8*1]
	x5, x6, x7 := blk[i+8*7], blk[i+8*5], blk[i+8*3]

	if (x1 | x2 | x3 | x4 | x5 | x6 | x7) == 0 {
		v := clip(((blk[i] + 32) >> 6) + 128)
		for r := 0; r < 8; r++ {
			out[r*stride] = v
		}

		return
	}

	x0 := (blk[i] << 8) + 8192

	x8 := w7*(x4+x5) + 4
	x4 = (x8 + (w1-w7)*x4) >> 3
	x5 = (x8 - (w1+w7)*x5) >> 3
	x8 = w3*(x6+x7) + 4
	x6 = (x8 - (w3-w5)*x6) >> 3
	x7 = (x8 - (w3+w5)*x7) >> 3

	x8 = x0 + x1
	x0 -= x1
	x1 = w6*(x3+x2) + 4
	x2 = (x1 - (w2+w6)*x2) >> 3
	x3 = (x1 + (w2-w6)*x3) >> 3

	x1 = x4 + x6
	x4 -= x6
	x6 = x5 + x7
	x5 -= x7

	x7 = x8 + x3
	x8 -= x3
	x3 = x0 + x2
	x0 -= x2

	x2 = (181*(x4+x5) + 128) >> 8
	x4 = (181*(x4-x5) + 128) >> 8

	out[0*stride] = clip(((x7 + x1) >> 14) + 128)
	out[1*stride] = clip(((x3 + x2) >> 14) + 128)
	out[2*stride] = clip(((x0 + x4) >> 14) + 128)
	out[3*stride] = clip(((x8 + x6) >> 14) + 128)
	out[4*stride] = clip(((x8 - x6) >> 14) + 128)
	out[5*stride] = clip(((x0 - x4) >> 14) + 128)
	out[6*stride] = clip(((x3 - x2) >> 14) + 128)
	out[7*stride] = clip(((x7 - x1) >> 14) + 128)
}

// clip clamps x to the 8-bit sample range.
func clip(x int32) byte {
	if x < 0 {
		return 0
	}

	if x > 255 {
		return 255
	}

	return byte(x)
}
