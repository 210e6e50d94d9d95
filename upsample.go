package jpegturbo

// Upsampling

// upsampleRow produces n full-resolution samples of component c for output
// row y starting at output column left.
func (d *decompressor) upsampleRow(c *component, y, left, n int, dst []byte) {
	rh, rv := d.maxH/c.h, d.maxV/c.v
	dst = dst[:n]

	cy := y / rv
	cur := c.pix[cy*c.stride:]

	switch {
	case rh == 1 && rv == 1:
		copy(dst, cur[left:])
	case !d.doFancyUpsampling || rh > 2 || rv > 2:
		upsampleReplicate(dst, cur, left, rh)
	case rv == 1:
		upsampleH2V1(dst, cur, left, c.width)
	default:
		// Vertical neighbour is above for the upper output row, below otherwise.
		ny, bias := cy-1, 1
		if y%2 == 1 {
			ny, bias = cy+1, 2
		}
		ny = min(max(ny, 0), c.height-1)
		nb := c.pix[ny*c.stride:]

		if rh == 1 {
			upsampleH1V2(dst, cur[left:], nb[left:], bias)
		} else {
			upsampleH2V2(dst, cur, nb, left, c.width)
		}
	}
}

func upsampleReplicate(dst, in []byte, left, rh int) {
	for k := range dst {
		dst[k] = in[(left+k)/rh]
	}
}

// upsampleH2V1 is the triangle filter: 3/4 nearer sample, 1/4 further one.
func upsampleH2V1(dst, in []byte, left, w int) {
	for k := range dst {
		x := left + k
		i := x >> 1
		s := int(in[i])

		if x&1 == 0 {
			if i == 0 {
				dst[k] = in[0]
			} else {
				dst[k] = byte((s*3 + int(in[i-1]) + 1) >> 2)
			}
		} else {
			if i >= w-1 {
				dst[k] = in[i]
			} else {
				dst[k] = byte((s*3 + int(in[i+1]) + 2) >> 2)
			}
		}
	}
}

func upsampleH1V2(dst, cur, nb []byte, bias int) {
	for k := range dst {
		dst[k] = byte((int(cur[k])*3 + int(nb[k]) + bias) >> 2)
	}
}

func upsampleH2V2(dst, cur, nb []byte, left, w int) {
	colsum := func(i int) int {
		return int(cur[i])*3 + int(nb[i])
	}

	for k := range dst {
		x := left + k
		i := x >> 1
		s := colsum(i)

		if x&1 == 0 {
			if i == 0 {
				dst[k] = byte((s*4 + 8) >> 4)
			} else {
				dst[k] = byte((s*3 + colsum(i-1) + 8) >> 4)
			}
		} else {
			if i >= w-1 {
				dst[k] = byte((s*4 + 7) >> 4)
			} else {
				dst[k] = byte((s*3 + colsum(i+1) + 7) >> 4)
			}
		}
	}
}
