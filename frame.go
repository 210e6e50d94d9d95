package jpegturbo

import "sync"

// rowsPool recycles row-pointer slices for full-frame decodes.
var rowsPool = sync.Pool{
	New: func() any {
		s := make([][]byte, 0, 64)

		return &s
	},
}

// scratchPool recycles the native-width row used by cropped decodes.
var scratchPool = sync.Pool{
	New: func() any {
		b := make([]byte, 0, 4096)

		return &b
	},
}

// frameSink pulls scanlines out of a started decompressor into an output
// buffer. Whatever was allocated is returned by take even after a failure.
type frameSink interface {
	decode(d *decompressor, jerr *interceptor)
	take() (pix []byte, width, height int)
	release()
}

func newFrameSink(p *DecodeParams) frameSink {
	if p != nil && !p.Crop.empty() {
		return &croppedFrame{rect: p.Crop}
	}

	return &fullFrame{}
}

func checkAlloc(jerr *interceptor, n int) {
	if n > MaxOutputBytes {
		jerr.abort(messageTable[errOutOfMemory], 1)
	}
}

// fullFrame decodes straight into the output through row pointers.
type fullFrame struct {
	pix           []byte
	width, height int
	rows          *[][]byte
}

func (f *fullFrame) decode(d *decompressor, jerr *interceptor) {
	w, h, comps := d.outputWidth, d.outputHeight, d.outColorComponents
	stride := w * comps

	checkAlloc(jerr, stride*h)
	f.pix = make([]byte, stride*h)
	f.width, f.height = w, h

	f.rows = rowsPool.Get().(*[][]byte)
	rows := (*f.rows)[:0]
	for y := 0; y < h; y++ {
		rows = append(rows, f.pix[y*stride:(y+1)*stride:(y+1)*stride])
	}
	*f.rows = rows

	for d.outputScanline < d.outputHeight {
		d.readScanlines(rows[d.outputScanline:])
	}

	d.finishDecompress()
}

func (f *fullFrame) take() ([]byte, int, int) {
	return f.pix, f.width, f.height
}

func (f *fullFrame) release() {
	if f.rows == nil {
		return
	}

	clear(*f.rows)
	*f.rows = (*f.rows)[:0]
	rowsPool.Put(f.rows)
	f.rows = nil
}

// croppedFrame decodes one native-width row at a time into a scratch row
// and copies the requested span out of it.
type croppedFrame struct {
	rect          CropRect
	pix           []byte
	width, height int
	scratch       *[]byte
}

func (f *croppedFrame) decode(d *decompressor, jerr *interceptor) {
	imgW, imgH := d.imageWidth, d.imageHeight
	left, top := int(f.rect.Left), int(f.rect.Top)

	if left >= imgW || top >= imgH {
		jerr.abort("crop offset (%d,%d) outside image %dx%d", left, top, imgW, imgH)
	}

	width := min(int(f.rect.Width), imgW-left)
	height := min(int(f.rect.Height), imgH-top)

	xoff, nativeW := left, width
	if left > 0 || width < d.outputWidth {
		d.cropScanline(&xoff, &nativeW)
	}

	comps := d.outColorComponents
	rowSize := width * comps

	checkAlloc(jerr, rowSize*height)
	f.pix = make([]byte, rowSize*height)
	f.width, f.height = width, height

	f.scratch = scratchPool.Get().(*[]byte)
	if cap(*f.scratch) < nativeW*comps {
		*f.scratch = make([]byte, nativeW*comps)
	}
	scratch := (*f.scratch)[:nativeW*comps]

	if top > 0 {
		if n := d.skipScanlines(top); n != top {
			jerr.abort("skip scanlines returned %d rather than %d", n, top)
		}
	}

	shift := (left - xoff) * comps
	row := [][]byte{scratch}

	for y := 0; y < height; y++ {
		if d.readScanlines(row) != 1 {
			break
		}

		copy(f.pix[y*rowSize:(y+1)*rowSize], scratch[shift:shift+rowSize])
	}
}

func (f *croppedFrame) take() ([]byte, int, int) {
	return f.pix, f.width, f.height
}

func (f *croppedFrame) release() {
	if f.scratch == nil {
		return
	}

	scratchPool.Put(f.scratch)
	f.scratch = nil
}
