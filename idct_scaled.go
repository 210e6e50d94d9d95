package jpegturbo

// downscaleBlock reduces a full 8x8 sample block to s x s by averaging
// (8/s) x (8/s) boxes. s must be 2 or 4.
func downscaleBlock(in *[64]byte, out []byte, stride, s int) {
	f := 8 / s
	area := f * f

	for y := 0; y < s; y++ {
		for x := 0; x < s; x++ {
			sum := 0
			for j := 0; j < f; j++ {
				row := in[(y*f+j)*8+x*f:]
				for i := 0; i < f; i++ {
					sum += int(row[i])
				}
			}

			out[y*stride+x] = byte((sum + area/2) / area)
		}
	}
}
