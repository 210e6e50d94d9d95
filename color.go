package jpegturbo

// Color conversion

const (
	scaleBits = 16
	oneHalf   = 1 << (scaleBits - 1)
)

func fix(x float64) int32 {
	return int32(x*(1<<scaleBits) + 0.5)
}

// YCbCr to RGB lookup tables, indexed by the chroma sample.
var crR, cbB, crG, cbG = func() (crR, cbB, crG, cbG [256]int32) {
	for i := 0; i < 256; i++ {
		x := int32(i - 128)
		crR[i] = (fix(1.40200)*x + oneHalf) >> scaleBits
		cbB[i] = (fix(1.77200)*x + oneHalf) >> scaleBits
		crG[i] = -fix(0.71414) * x
		cbG[i] = -fix(0.34414)*x + oneHalf
	}

	return
}()

// yccToRGBRow converts one row of full-resolution planes to packed RGB.
func yccToRGBRow(dst, y, cb, cr []byte) {
	dst = dst[:len(y)*3]

	for i := range y {
		yy := int32(y[i])
		b, r := cb[i], cr[i]

		o := dst[i*3 : i*3+3 : i*3+3]
		o[0] = clip(yy + crR[r])
		o[1] = clip(yy + (cbG[b]+crG[r])>>scaleBits)
		o[2] = clip(yy + cbB[b])
	}
}

// interleaveRow packs three planes into RGB.
func interleaveRow(dst, r, g, b []byte) {
	dst = dst[:len(r)*3]

	for i := range r {
		o := dst[i*3 : i*3+3 : i*3+3]
		o[0], o[1], o[2] = r[i], g[i], b[i]
	}
}
