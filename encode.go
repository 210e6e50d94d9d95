package jpegturbo

import "errors"

// EncodeRaw compresses packed pixels of the given format. A nil
// *EncodeParams selects quality 95, no flags and 4:2:0 subsampling.
// On failure Buf is nil and Err holds the compressor's message.
func EncodeRaw(pix []byte, width, height int, format PixelFormat, p *EncodeParams) (res EncodeResult) {
	c := newCompressor()
	if c == nil {
		res.Err = errors.New("unable to create compressor")
		return res
	}
	defer c.destroy()

	quality, flags, subsamp := defaultQuality, Flag(0), defaultSubsample
	if p != nil {
		if p.Quality > 0 {
			quality = p.Quality
		}
		flags = p.Flags
		if p.Subsample >= 0 {
			subsamp = p.Subsample
		}
	}

	buf, status := c.compress(pix, width, 0, height, format, subsamp, quality, flags)
	if status < 0 {
		res.Err = errors.New(c.errorString())
		return res
	}

	res.Buf = buf
	res.Size = len(buf)

	return res
}
