package jpegturbo

// Decompressor states, numbered as in libjpeg so that state errors read the same.
const (
	dstateStart    = 200
	dstateInHeader = 201
	dstateReady    = 202
	dstateScanning = 205
	dstateStopping = 210
)

type headerStatus int

const (
	headerOK         headerStatus = 1
	headerTablesOnly headerStatus = 2
)

const (
	maxComponents = 10
	maxDimension  = 65500

	// MaxOutputBytes caps the memory a single decode may allocate for
	// component planes and output pixels.
	MaxOutputBytes = 1 << 30
)

// component is a single color channel of the frame.
type component struct {
	id     int
	h, v   int // sampling factors
	tq     int // quantization table selector
	td, ta int // DC/AC Huffman table selectors
	pred   int // DC predictor

	// width and height are the downsampled size in (scaled) samples.
	width, height int
	stride        int
	pix           []byte

	// Dequantization multipliers in natural order: plain and AAN-scaled.
	qt   [64]int32
	aanq [64]int32

	// Coefficient buffer of a multi-scan image, 64 per block in natural
	// order over the padded MCU grid.
	coefs            []int32
	blocksW, blocksH int
}

// block returns the buffered coefficients of block (bx, by).
func (c *component) block(bx, by int) *[64]int32 {
	return (*[64]int32)(c.coefs[(by*c.blocksW+bx)*64:])
}

// decompressor is a libjpeg-style decoding state machine over an in-memory
// source. Every entry point reports problems through the error manager; a
// fatal error never returns to the caller.
type decompressor struct {
	codecCommon

	src []byte
	pos int

	// Entropy-coded segment reader.
	bitBuf       uint64
	bitCount     int
	markerHit    bool
	insufficient bool

	imageWidth, imageHeight int
	numComponents           int
	jpegColorSpace          ColorSpace
	outColorSpace           ColorSpace
	sawSOF, sawJFIF         bool
	sawAdobe                bool
	adobeTransform          int
	progressive             bool
	restartInterval         int

	comp      [maxComponents]component
	scan      [maxComponents]int
	scanCount int
	qtabs     [4][64]uint16
	qtDefined [4]bool
	dcTab     [4]*huffTable
	acTab     [4]*huffTable
	exif      []byte

	// Spectral selection and successive approximation of the current scan.
	ss, se, ah, al int
	eobRun         int

	// Decompression parameters, set to defaults by readHeader.
	scaleNum, scaleDenom  uint
	dctMethod             DCTMethod
	twoPassQuantize       bool
	ditherMode            DitherMode
	desiredNumberOfColors int
	doFancyUpsampling     bool

	outputWidth, outputHeight int
	outColorComponents        int
	outputScanline            int

	blockSize    int
	maxH, maxV   int
	mcusX, mcusY int
	mcuRows      int

	restartsLeft int
	nextRestart  int

	// buffered is set for progressive and multi-scan sequential images.
	// All scans are then decoded into the coefficient buffers by
	// startDecompress and output rows only run the inverse DCT.
	buffered  bool
	inputDone bool
	coefBits  [maxComponents][64]int

	// Output window. Blocks outside [idctColFrom, idctColTo) MCU columns or
	// above idctRowFrom MCU rows are entropy decoded but not transformed.
	outLeft     int
	idctColFrom int
	idctColTo   int
	idctRowFrom int

	coef [64]int32
	blk  [64]int32
	rows [3][]byte
}

func createDecompress(err *errorManager) *decompressor {
	d := &decompressor{}
	d.err = err
	d.globalState = dstateStart

	return d
}

// memSrc attaches data as the compressed input. data is borrowed.
func (d *decompressor) memSrc(data []byte) {
	if len(data) == 0 {
		d.fatal(errInputEmpty)
	}

	d.src = data
	d.pos = 0
}

// startDecompress sizes the output and allocates the component planes.
func (d *decompressor) startDecompress() bool {
	if d.globalState != dstateReady {
		d.fatal(errBadState, d.globalState)
	}

	d.buffered = d.progressive || d.scanCount != d.numComponents

	switch {
	case d.jpegColorSpace == ColorSpaceGrayscale && d.outColorSpace == ColorSpaceGrayscale:
		d.outColorComponents = 1
	case (d.jpegColorSpace == ColorSpaceYCbCr || d.jpegColorSpace == ColorSpaceRGB) && d.outColorSpace == ColorSpaceRGB:
		d.outColorComponents = 3
	default:
		d.fatal(errConversionNotImpl)
	}

	if d.dctMethod < DCTMethodIntSlow || d.dctMethod > DCTMethodFloat {
		d.fatal(errNotCompiled)
	}

	d.calcOutputDimensions()

	total := d.outputWidth * d.outputHeight * d.outColorComponents
	for i := 0; i < d.numComponents; i++ {
		c := &d.comp[i]
		total += c.stride * d.mcusY * c.v * d.blockSize
		if d.buffered {
			total += d.mcusX * c.h * d.mcusY * c.v * 64 * 4
		}
	}
	if total > MaxOutputBytes {
		d.fatal(errOutOfMemory, 4)
	}

	for i := 0; i < d.numComponents; i++ {
		c := &d.comp[i]
		if c.tq > 3 || !d.qtDefined[c.tq] {
			d.fatal(errNoQuantTable, c.tq)
		}

		q := &d.qtabs[c.tq]
		for k := 0; k < 64; k++ {
			c.qt[k] = int32(q[k])
			c.aanq[k] = (int32(q[k])*aanScales[k] + 1<<11) >> 12
		}

		c.pix = make([]byte, c.stride*d.mcusY*c.v*d.blockSize)
		c.pred = 0

		if d.buffered {
			c.blocksW, c.blocksH = d.mcusX*c.h, d.mcusY*c.v
			c.coefs = make([]int32, c.blocksW*c.blocksH*64)
		}
	}

	if d.outColorComponents == 3 {
		for i := range d.rows {
			d.rows[i] = make([]byte, d.outputWidth)
		}
	}

	d.outLeft = 0
	d.idctColFrom, d.idctColTo, d.idctRowFrom = 0, d.mcusX, 0
	d.mcuRows = 0
	d.outputScanline = 0
	d.restartsLeft = d.restartInterval
	d.nextRestart = 0
	d.bitBuf, d.bitCount = 0, 0
	d.markerHit, d.insufficient = false, false
	d.inputDone = false

	if d.buffered {
		d.consumeInput()
	} else {
		d.checkScan()
	}

	d.globalState = dstateScanning

	return true
}

// calcOutputDimensions sizes the output for the IDCT block size selected by
// the scale factor.
func (d *decompressor) calcOutputDimensions() {
	s := scaledBlockSize(d.scaleNum, d.scaleDenom)

	d.blockSize = s
	d.outputWidth = ceilDiv(d.imageWidth*s, 8)
	d.outputHeight = ceilDiv(d.imageHeight*s, 8)

	for i := 0; i < d.numComponents; i++ {
		c := &d.comp[i]
		c.width = ceilDiv(d.imageWidth*c.h*s, d.maxH*8)
		c.height = ceilDiv(d.imageHeight*c.v*s, d.maxV*8)
		c.stride = d.mcusX * c.h * s
	}
}

// cropScanline narrows the output to [*xoffset, *xoffset+*width). The left
// edge is moved down to an iMCU boundary and both values are updated to the
// region that will actually be produced.
func (d *decompressor) cropScanline(xoffset, width *int) {
	if d.globalState != dstateScanning || d.outputScanline != 0 {
		d.fatal(errBadState, d.globalState)
	}

	if *width <= 0 || *xoffset < 0 || *xoffset+*width > d.outputWidth {
		d.fatal(errBadCropSpec)
	}

	if *xoffset == 0 && *width == d.outputWidth {
		return
	}

	align := d.maxH * d.blockSize
	in := *xoffset
	*xoffset = in / align * align
	*width += in - *xoffset

	d.outLeft = *xoffset
	d.outputWidth = *width

	// One MCU of margin on each side keeps upsampling context intact.
	span := d.maxH * d.blockSize
	d.idctColFrom = max(0, *xoffset-d.maxH) / span
	d.idctColTo = min(d.mcusX, (*xoffset+*width-1+d.maxH)/span+1)
}

// skipScanlines advances past n rows without producing them and returns
// the number of rows skipped.
func (d *decompressor) skipScanlines(n int) int {
	if d.globalState != dstateScanning {
		d.fatal(errBadState, d.globalState)
	}

	if d.outputScanline+n >= d.outputHeight {
		lines := d.outputHeight - d.outputScanline
		d.outputScanline = d.outputHeight

		return lines
	}

	if n <= 0 {
		return 0
	}

	d.outputScanline += n

	from := max(0, d.outputScanline-d.maxV) / (d.maxV * d.blockSize)
	d.idctRowFrom = max(d.idctRowFrom, from)

	return n
}

// readScanlines fills rows with the next output scanlines and returns how
// many were written. At most one iMCU row is produced per call.
func (d *decompressor) readScanlines(rows [][]byte) int {
	if d.globalState != dstateScanning {
		d.fatal(errBadState, d.globalState)
	}

	if d.outputScanline >= d.outputHeight {
		d.warn(wrnTooMuchData)
		return 0
	}

	need := d.outputWidth * d.outColorComponents
	limit := min(len(rows), d.maxV*d.blockSize, d.outputHeight-d.outputScanline)

	for i := 0; i < limit; i++ {
		if len(rows[i]) < need {
			d.fatal(errBufferSize)
		}

		d.emitRow(d.outputScanline, rows[i][:need])
		d.outputScanline++
	}

	return limit
}

// finishDecompress consumes the rest of the image and the trailing markers.
func (d *decompressor) finishDecompress() bool {
	switch d.globalState {
	case dstateScanning:
		if d.outputScanline < d.outputHeight {
			d.fatal(errTooLittleData)
		}

		d.idctRowFrom = d.mcusY
		for d.mcuRows < d.mcusY {
			d.decodeMCURow()
		}

		d.globalState = dstateStopping
	case dstateStopping:
	default:
		d.fatal(errBadState, d.globalState)
	}

	if !d.inputDone {
		d.readTrailer()
	}
	d.globalState = dstateStart

	return true
}

// destroy releases everything held by d. It is safe at any state.
func (d *decompressor) destroy() {
	releaseHuffTables(&d.dcTab)
	releaseHuffTables(&d.acTab)

	for i := range d.comp {
		d.comp[i].pix = nil
		d.comp[i].coefs = nil
	}
	for i := range d.rows {
		d.rows[i] = nil
	}

	d.src = nil
	d.exif = nil
	d.globalState = 0
}

// emitRow writes output row y into dst.
func (d *decompressor) emitRow(y int, dst []byte) {
	d.ensureRows(y)

	n := d.outputWidth
	if d.outColorComponents == 1 {
		c := &d.comp[0]
		copy(dst[:n], c.pix[y*c.stride+d.outLeft:])

		return
	}

	for i := range d.rows {
		d.upsampleRow(&d.comp[i], y, d.outLeft, n, d.rows[i])
	}

	if d.jpegColorSpace == ColorSpaceYCbCr {
		yccToRGBRow(dst, d.rows[0][:n], d.rows[1][:n], d.rows[2][:n])
	} else {
		interleaveRow(dst, d.rows[0][:n], d.rows[1][:n], d.rows[2][:n])
	}
}

// ensureRows decodes MCU rows until output row y and its upsampling
// context below are available.
func (d *decompressor) ensureRows(y int) {
	need := min(d.mcusY-1, (y+d.maxV)/(d.maxV*d.blockSize))
	for d.mcuRows <= need {
		d.decodeMCURow()
	}
}

// scaledBlockSize picks the smallest IDCT block size s in {1,2,4,8} with
// s/8 >= num/denom. Upscaling is not supported.
func scaledBlockSize(num, denom uint) int {
	if num == 0 || denom == 0 {
		return 8
	}

	for _, n := range [...]uint{1, 2, 4} {
		if n*denom >= 8*num {
			return int(n)
		}
	}

	return 8
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
