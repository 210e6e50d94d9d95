package jpegturbo

import "math"

// aanScales holds 16384*sf(row)*sf(col) with sf(0)=1 and
// sf(k)=sqrt(2)*cos(k*pi/16), in natural order.
var aanScales = func() (t [64]int32) {
	sf := func(k int) float64 {
		if k == 0 {
			return 1
		}

		return math.Sqrt2 * math.Cos(float64(k)*math.Pi/16)
	}

	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			t[r*8+c] = int32(math.Round(16384 * sf(r) * sf(c)))
		}
	}

	return t
}()

// AAN multipliers with 8 fractional bits.
const (
	aanFix1082 = 277 // 1.082392200
	aanFix1414 = 362 // 1.414213562
	aanFix1847 = 473 // 1.847759065
	aanFix2613 = 669 // 2.613125930
)

func fastMul(v, c int32) int32 {
	return (v * c) >> 8
}

// idctFast is the AAN integer IDCT. q holds the AAN-scaled dequantization
// multipliers and ws is scratch space.
func idctFast(coef, q, ws *[64]int32, out []byte, stride int) {
	for col := 0; col < 8; col++ {
		var in [8]int32
		ac := int32(0)
		for r := 0; r < 8; r++ {
			in[r] = coef[r*8+col] * q[r*8+col]
			if r > 0 {
				ac |= in[r]
			}
		}

		if ac == 0 {
			for r := 0; r < 8; r++ {
				ws[r*8+col] = in[0]
			}

			continue
		}

		o := aanPass(&in)
		for r := 0; r < 8; r++ {
			ws[r*8+col] = o[r]
		}
	}

	for row := 0; row < 8; row++ {
		in := [8]int32(ws[row*8 : row*8+8])
		o := aanPass(&in)

		dst := out[row*stride : row*stride+8]
		for x := range dst {
			dst[x] = clip((o[x] >> 5) + 128)
		}
	}
}

// aanPass is one 1-D pass of the AAN butterfly.
func aanPass(in *[8]int32) [8]int32 {
	tmp10 := in[0] + in[4]
	tmp11 := in[0] - in[4]
	tmp13 := in[2] + in[6]
	tmp12 := fastMul(in[2]-in[6], aanFix1414) - tmp13

	tmp0 := tmp10 + tmp13
	tmp3 := tmp10 - tmp13
	tmp1 := tmp11 + tmp12
	tmp2 := tmp11 - tmp12

	z13 := in[5] + in[3]
	z10 := in[5] - in[3]
	z11 := in[1] + in[7]
	z12 := in[1] - in[7]

	tmp7 := z11 + z13
	tmp11 = fastMul(z11-z13, aanFix1414)
	z5 := fastMul(z10+z12, aanFix1847)
	tmp10 = fastMul(z12, aanFix1082) - z5
	tmp12 = fastMul(z10, -aanFix2613) + z5

	tmp6 := tmp12 - tmp7
	tmp5 := tmp11 - tmp6
	tmp4 := tmp10 + tmp5

	return [8]int32{
		tmp0 + tmp7, tmp1 + tmp6, tmp2 + tmp5, tmp3 - tmp4,
		tmp3 + tmp4, tmp2 - tmp5, tmp1 - tmp6, tmp0 - tmp7,
	}
}
