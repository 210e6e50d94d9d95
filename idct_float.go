package jpegturbo

import "math"

// idctCos[x][u] is C(u)/2*cos((2x+1)u*pi/16).
var idctCos = func() (t [8][8]float32) {
	for x := 0; x < 8; x++ {
		for u := 0; u < 8; u++ {
			c := 1.0
			if u == 0 {
				c = math.Sqrt(0.5)
			}

			t[x][u] = float32(c / 2 * math.Cos(float64(2*x+1)*float64(u)*math.Pi/16))
		}
	}

	return t
}()

// idctFloat is a separable floating point IDCT.
func idctFloat(coef, q *[64]int32, out []byte, stride int) {
	var tmp [64]float32

	for v := 0; v < 8; v++ {
		var in [8]float32
		zero := true
		for u := 0; u < 8; u++ {
			in[u] = float32(coef[v*8+u] * q[v*8+u])
			zero = zero && in[u] == 0
		}
		if zero {
			continue
		}

		for x := 0; x < 8; x++ {
			ct := &idctCos[x]
			var sum float32
			for u := 0; u < 8; u++ {
				sum += ct[u] * in[u]
			}
			tmp[v*8+x] = sum
		}
	}

	for y := 0; y < 8; y++ {
		ct := &idctCos[y]
		dst := out[y*stride : y*stride+8]

		for x := range dst {
			var sum float32
			for v := 0; v < 8; v++ {
				sum += ct[v] * tmp[v*8+x]
			}

			dst[x] = clip(int32(math.Floor(float64(sum) + 128.5)))
		}
	}
}
