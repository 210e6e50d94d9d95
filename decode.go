package jpegturbo

import "errors"

// DecodeRaw decodes data into packed RGB or grayscale pixels.
//
// Pix is nil when no image could be produced. Err carries the codec's
// message and may be set even when Pix is not nil, so callers must check
// both. DecodeRaw never panics on malformed input and never writes to a
// stream.
func DecodeRaw(data []byte, p *DecodeParams) (res DecodeResult) {
	var (
		jerr interceptor
		d    *decompressor
		sink frameSink
	)

	jerr.guard(func() {
		d = createDecompress(jerr.install())

		d.memSrc(data)
		if jerr.failed() {
			return
		}

		if d.readHeader(true) != headerOK || jerr.failed() {
			return
		}

		applyParams(d, p)

		if cs := d.jpegColorSpace; cs != ColorSpaceGrayscale && cs != ColorSpaceYCbCr {
			jerr.abort("unsupported color space, which is %d", int(cs))
		}

		if !d.startDecompress() || jerr.failed() {
			return
		}

		sink = newFrameSink(p)
		sink.decode(d, &jerr)
	})

	if d != nil {
		res.OriginWidth, res.OriginHeight = d.imageWidth, d.imageHeight
		res.ColorSpace = d.jpegColorSpace
		res.NumComponents = d.numComponents

		d.destroy()
	}

	if sink != nil {
		res.Pix, res.Width, res.Height = sink.take()
		sink.release()
	}

	res.Size = res.Width * res.Height * res.NumComponents

	if msg := jerr.message(); msg != "" {
		res.Err = errors.New(msg)
	}

	return res
}

// applyParams copies the caller's options onto d. The scale is applied only
// when both parts are positive.
func applyParams(d *decompressor, p *DecodeParams) {
	if p == nil {
		return
	}

	d.dctMethod = p.DCTMethod
	d.twoPassQuantize = p.TwoPassQuantize
	d.ditherMode = p.DitherMode
	d.desiredNumberOfColors = p.DesiredNumberOfColors
	d.doFancyUpsampling = p.DoFancyUpsampling

	if p.ScaleNum > 0 && p.ScaleDenom > 0 {
		d.scaleNum, d.scaleDenom = p.ScaleNum, p.ScaleDenom
	}
}

// headerInfo is what a header-only read reports.
type headerInfo struct {
	width, height int
	colorSpace    ColorSpace
	numComponents int
	progressive   bool
	exif          []byte
}

// readHeaderInfo parses data up to the first scan. exif aliases data.
func readHeaderInfo(data []byte) (info headerInfo, err error) {
	var (
		jerr interceptor
		d    *decompressor
	)

	jerr.guard(func() {
		d = createDecompress(jerr.install())

		d.memSrc(data)
		if jerr.failed() {
			return
		}

		d.readHeader(true)
	})

	if d != nil {
		info = headerInfo{
			width:         d.imageWidth,
			height:        d.imageHeight,
			colorSpace:    d.jpegColorSpace,
			numComponents: d.numComponents,
			progressive:   d.progressive,
			exif:          d.exif,
		}

		d.destroy()
	}

	if msg := jerr.message(); msg != "" {
		return info, errors.New(msg)
	}

	return info, nil
}
