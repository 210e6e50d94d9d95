package jpegturbo

// Forward DCT: the accurate integer transform in the form of libjpeg's
// jfdctint, fixed point with 13 fractional bits.
const (
	fdctConstBits = 13
	fdctPass1Bits = 2

	fix0298 = 2446
	fix0390 = 3196
	fix0541 = 4433
	fix0765 = 6270
	fix0899 = 7373
	fix1175 = 9633
	fix1501 = 12299
	fix1847 = 15137
	fix1961 = 16069
	fix2053 = 16819
	fix2562 = 20995
	fix3072 = 25172
)

// fdct transforms b, which holds 8x8 samples in natural order, in place.
// The level shift is applied here and the result is scaled up by 8.
func fdct(b *[64]int32) {
	const (
		shift1 = fdctConstBits - fdctPass1Bits
		shift2 = fdctConstBits + fdctPass1Bits
	)

	for y := 0; y < 8; y++ {
		s := b[y*8 : y*8+8 : y*8+8]
		x0, x1, x2, x3 := s[0], s[1], s[2], s[3]
		x4, x5, x6, x7 := s[4], s[5], s[6], s[7]

		tmp0 := x0 + x7
		tmp1 := x1 + x6
		tmp2 := x2 + x5
		tmp3 := x3 + x4

		tmp10 := tmp0 + tmp3
		tmp12 := tmp0 - tmp3
		tmp11 := tmp1 + tmp2
		tmp13 := tmp1 - tmp2

		tmp0 = x0 - x7
		tmp1 = x1 - x6
		tmp2 = x2 - x5
		tmp3 = x3 - x4

		s[0] = (tmp10 + tmp11 - 8*128) << fdctPass1Bits
		s[4] = (tmp10 - tmp11) << fdctPass1Bits

		z1 := (tmp12+tmp13)*fix0541 + 1<<(shift1-1)
		s[2] = (z1 + tmp12*fix0765) >> shift1
		s[6] = (z1 - tmp13*fix1847) >> shift1

		s[1], s[3], s[5], s[7] = fdctOdd(tmp0, tmp1, tmp2, tmp3, shift1)
	}

	for x := 0; x < 8; x++ {
		c0, c1, c2, c3 := b[x], b[8+x], b[16+x], b[24+x]
		c4, c5, c6, c7 := b[32+x], b[40+x], b[48+x], b[56+x]

		tmp0 := c0 + c7
		tmp1 := c1 + c6
		tmp2 := c2 + c5
		tmp3 := c3 + c4

		tmp10 := tmp0 + tmp3 + 1<<(fdctPass1Bits-1)
		tmp12 := tmp0 - tmp3
		tmp11 := tmp1 + tmp2
		tmp13 := tmp1 - tmp2

		tmp0 = c0 - c7
		tmp1 = c1 - c6
		tmp2 = c2 - c5
		tmp3 = c3 - c4

		b[x] = (tmp10 + tmp11) >> fdctPass1Bits
		b[32+x] = (tmp10 - tmp11) >> fdctPass1Bits

		z1 := (tmp12+tmp13)*fix0541 + 1<<(shift2-1)
		b[16+x] = (z1 + tmp12*fix0765) >> shift2
		b[48+x] = (z1 - tmp13*fix1847) >> shift2

		b[8+x], b[24+x], b[40+x], b[56+x] = fdctOdd(tmp0, tmp1, tmp2, tmp3, shift2)
	}
}

// fdctOdd computes the odd-frequency outputs 1, 3, 5 and 7 from the
// differences of mirrored inputs.
func fdctOdd(tmp0, tmp1, tmp2, tmp3 int32, shift uint) (o1, o3, o5, o7 int32) {
	tmp10 := tmp0 + tmp3
	tmp11 := tmp1 + tmp2
	tmp12 := tmp0 + tmp2
	tmp13 := tmp1 + tmp3
	z1 := (tmp12+tmp13)*fix1175 + 1<<(shift-1)

	tmp0 *= fix1501
	tmp1 *= fix3072
	tmp2 *= fix2053
	tmp3 *= fix0298
	tmp10 *= -fix0899
	tmp11 *= -fix2562
	tmp12 = tmp12*-fix0390 + z1
	tmp13 = tmp13*-fix1961 + z1

	o1 = (tmp0 + tmp10 + tmp12) >> shift
	o3 = (tmp1 + tmp11 + tmp13) >> shift
	o5 = (tmp2 + tmp11 + tmp12) >> shift
	o7 = (tmp3 + tmp10 + tmp13) >> shift

	return
}
