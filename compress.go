package jpegturbo

import (
	"image/color"
	"math/bits"
)

// unscaledQuant are the luminance and chrominance tables of section K.1 in
// zig-zag order, scaled by quality before use.
var unscaledQuant = [2][64]byte{
	{
		16, 11, 12, 14, 12, 10, 16, 14,
		13, 14, 18, 17, 16, 19, 24, 40,
		26, 24, 22, 22, 24, 49, 35, 37,
		29, 40, 58, 51, 61, 60, 57, 51,
		56, 55, 64, 72, 92, 78, 64, 68,
		87, 69, 55, 56, 80, 109, 81, 87,
		95, 98, 103, 104, 103, 62, 77, 113,
		121, 112, 100, 120, 92, 101, 103, 99,
	},
	{
		17, 18, 18, 24, 21, 24, 47, 26,
		26, 47, 99, 66, 56, 66, 99, 99,
		99, 99, 99, 99, 99, 99, 99, 99,
		99, 99, 99, 99, 99, 99, 99, 99,
		99, 99, 99, 99, 99, 99, 99, 99,
		99, 99, 99, 99, 99, 99, 99, 99,
		99, 99, 99, 99, 99, 99, 99, 99,
		99, 99, 99, 99, 99, 99, 99, 99,
	},
}

// huffmanSpec is a DHT table: counts per code length and the symbols.
type huffmanSpec struct {
	count [16]byte
	value []byte
}

// The standard tables of section K.3: luminance DC, luminance AC,
// chrominance DC, chrominance AC.
var huffmanSpecs = [4]huffmanSpec{
	{
		[16]byte{0, 1, 5, 1, 1, 1, 1, 1, 1, 0, 0, 0, 0, 0, 0, 0},
		[]byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
	},
	{
		[16]byte{0, 2, 1, 3, 3, 2, 4, 3, 5, 5, 4, 4, 0, 0, 1, 125},
		[]byte{
			0x01, 0x02, 0x03, 0x00, 0x04, 0x11, 0x05, 0x12,
			0x21, 0x31, 0x41, 0x06, 0x13, 0x51, 0x61, 0x07,
			0x22, 0x71, 0x14, 0x32, 0x81, 0x91, 0xa1, 0x08,
			0x23, 0x42, 0xb1, 0xc1, 0x15, 0x52, 0xd1, 0xf0,
			0x24, 0x33, 0x62, 0x72, 0x82, 0x09, 0x0a, 0x16,
			0x17, 0x18, 0x19, 0x1a, 0x25, 0x26, 0x27, 0x28,
			0x29, 0x2a, 0x34, 0x35, 0x36, 0x37, 0x38, 0x39,
			0x3a, 0x43, 0x44, 0x45, 0x46, 0x47, 0x48, 0x49,
			0x4a, 0x53, 0x54, 0x55, 0x56, 0x57, 0x58, 0x59,
			0x5a, 0x63, 0x64, 0x65, 0x66, 0x67, 0x68, 0x69,
			0x6a, 0x73, 0x74, 0x75, 0x76, 0x77, 0x78, 0x79,
			0x7a, 0x83, 0x84, 0x85, 0x86, 0x87, 0x88, 0x89,
			0x8a, 0x92, 0x93, 0x94, 0x95, 0x96, 0x97, 0x98,
			0x99, 0x9a, 0xa2, 0xa3, 0xa4, 0xa5, 0xa6, 0xa7,
			0xa8, 0xa9, 0xaa, 0xb2, 0xb3, 0xb4, 0xb5, 0xb6,
			0xb7, 0xb8, 0xb9, 0xba, 0xc2, 0xc3, 0xc4, 0xc5,
			0xc6, 0xc7, 0xc8, 0xc9, 0xca, 0xd2, 0xd3, 0xd4,
			0xd5, 0xd6, 0xd7, 0xd8, 0xd9, 0xda, 0xe1, 0xe2,
			0xe3, 0xe4, 0xe5, 0xe6, 0xe7, 0xe8, 0xe9, 0xea,
			0xf1, 0xf2, 0xf3, 0xf4, 0xf5, 0xf6, 0xf7, 0xf8,
			0xf9, 0xfa,
		},
	},
	{
		[16]byte{0, 3, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0, 0, 0, 0, 0},
		[]byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
	},
	{
		[16]byte{0, 2, 1, 2, 4, 4, 3, 4, 7, 5, 4, 4, 0, 1, 2, 119},
		[]byte{
			0x00, 0x01, 0x02, 0x03, 0x11, 0x04, 0x05, 0x21,
			0x31, 0x06, 0x12, 0x41, 0x51, 0x07, 0x61, 0x71,
			0x13, 0x22, 0x32, 0x81, 0x08, 0x14, 0x42, 0x91,
			0xa1, 0xb1, 0xc1, 0x09, 0x23, 0x33, 0x52, 0xf0,
			0x15, 0x62, 0x72, 0xd1, 0x0a, 0x16, 0x24, 0x34,
			0xe1, 0x25, 0xf1, 0x17, 0x18, 0x19, 0x1a, 0x26,
			0x27, 0x28, 0x29, 0x2a, 0x35, 0x36, 0x37, 0x38,
			0x39, 0x3a, 0x43, 0x44, 0x45, 0x46, 0x47, 0x48,
			0x49, 0x4a, 0x53, 0x54, 0x55, 0x56, 0x57, 0x58,
			0x59, 0x5a, 0x63, 0x64, 0x65, 0x66, 0x67, 0x68,
			0x69, 0x6a, 0x73, 0x74, 0x75, 0x76, 0x77, 0x78,
			0x79, 0x7a, 0x82, 0x83, 0x84, 0x85, 0x86, 0x87,
			0x88, 0x89, 0x8a, 0x92, 0x93, 0x94, 0x95, 0x96,
			0x97, 0x98, 0x99, 0x9a, 0xa2, 0xa3, 0xa4, 0xa5,
			0xa6, 0xa7, 0xa8, 0xa9, 0xaa, 0xb2, 0xb3, 0xb4,
			0xb5, 0xb6, 0xb7, 0xb8, 0xb9, 0xba, 0xc2, 0xc3,
			0xc4, 0xc5, 0xc6, 0xc7, 0xc8, 0xc9, 0xca, 0xd2,
			0xd3, 0xd4, 0xd5, 0xd6, 0xd7, 0xd8, 0xd9, 0xda,
			0xe2, 0xe3, 0xe4, 0xe5, 0xe6, 0xe7, 0xe8, 0xe9,
			0xea, 0xf2, 0xf3, 0xf4, 0xf5, 0xf6, 0xf7, 0xf8,
			0xf9, 0xfa,
		},
	},
}

// huffmanLUT maps a symbol to its code: the top 8 bits hold the length and
// the low 24 bits the codeword.
type huffmanLUT [256]uint32

var huffmanLUTs = func() (t [4]huffmanLUT) {
	for i, s := range huffmanSpecs {
		code, k := uint32(0), 0
		for n := 0; n < 16; n++ {
			for j := byte(0); j < s.count[n]; j++ {
				t[i][s.value[k]] = uint32(n+1)<<24 | code
				code++
				k++
			}
			code <<= 1
		}
	}

	return t
}()

// jfifHeader is the APP0 segment written after SOI: version 1.01, aspect
// ratio 1:1, no thumbnail.
var jfifHeader = []byte{
	0xff, markerAPP0, 0x00, 0x10,
	'J', 'F', 'I', 'F', 0x00, 0x01, 0x01, 0x00,
	0x00, 0x01, 0x00, 0x01, 0x00, 0x00,
}

// progressiveScan is one scan of a progression script: spectral band
// ss..se sent with successive approximation ah/al. comp -1 selects an
// interleaved DC scan of all components.
type progressiveScan struct {
	comp   int
	ss, se int
	ah, al uint
}

// The scripts of libjpeg's jpeg_simple_progression.
var (
	grayScanScript = []progressiveScan{
		{0, 0, 0, 0, 1},
		{0, 1, 5, 0, 2},
		{0, 6, 63, 0, 2},
		{0, 1, 63, 2, 1},
		{0, 0, 0, 1, 0},
		{0, 1, 63, 1, 0},
	}

	colorScanScript = []progressiveScan{
		{-1, 0, 0, 0, 1},
		{0, 1, 5, 0, 2},
		{2, 1, 63, 0, 1},
		{1, 1, 63, 0, 1},
		{0, 6, 63, 0, 2},
		{0, 1, 63, 2, 1},
		{-1, 0, 0, 1, 0},
		{2, 1, 63, 1, 0},
		{1, 1, 63, 1, 0},
		{0, 1, 63, 1, 0},
	}
)

// encComponent holds the quantized coefficients of one component.
type encComponent struct {
	h, v   int
	tq     int
	width  int // samples
	height int
	bw, bh int // blocks in the padded MCU grid
	pred   int32
	coef   []int32 // zig-zag order, 64 per block
}

// compressor is a single-shot baseline or progressive JPEG writer.
type compressor struct {
	out         []byte
	bits, nBits uint32
	quant       [2][64]byte
	comps       []encComponent
	maxH, maxV  int
	mcusX       int
	mcusY       int
	errMsg      string
}

func newCompressor() *compressor {
	return &compressor{}
}

func (c *compressor) fail(msg string) ([]byte, int) {
	c.errMsg = msg
	c.out = nil

	return nil, -1
}

// compress encodes src, width x height pixels of format pf with rows pitch
// bytes apart (0 means packed). It returns the JPEG and a status that is
// negative on failure.
func (c *compressor) compress(src []byte, width, pitch, height int, pf PixelFormat, subsamp Subsample, quality int, flags Flag) ([]byte, int) {
	if c == nil {
		return nil, -1
	}

	if src == nil || width <= 0 || pitch < 0 || height <= 0 || pf < 0 || pf >= numPixelFormats ||
		subsamp < 0 || subsamp >= numSubsamples || quality < 1 || quality > 100 {
		return c.fail("compress(): Invalid argument")
	}
	if width > maxDimension || height > maxDimension {
		return c.fail("compress(): Maximum supported image dimension is 65500 pixels")
	}
	if pf == PixelFormatCMYK {
		return c.fail("compress(): Cannot compress CMYK input")
	}

	ps := pixelSize[pf]
	if pitch == 0 {
		pitch = width * ps
	}
	if len(src) < pitch*(height-1)+width*ps {
		return c.fail("compress(): Source buffer is too small")
	}

	c.setQuality(quality)

	gray := pf == PixelFormatGray || subsamp == SubsampleGray
	c.setSampling(width, height, subsamp, gray)
	c.transform(src, width, pitch, height, pf, flags&FlagBottomUp != 0)

	progressive := flags&FlagProgressive != 0

	c.out = make([]byte, 0, width*height/4+1024)
	c.out = append(c.out, 0xff, markerSOI)
	c.out = append(c.out, jfifHeader...)
	c.writeDQT()

	if progressive {
		c.writeSOF(width, height, markerSOF2)
	} else {
		c.writeSOF(width, height, markerSOF0)
	}
	c.writeDHT()

	switch {
	case !progressive:
		c.writeBaselineScan()
	case gray:
		for _, s := range grayScanScript {
			c.writeProgressiveScan(s)
		}
	default:
		for _, s := range colorScanScript {
			c.writeProgressiveScan(s)
		}
	}

	c.out = append(c.out, 0xff, markerEOI)

	return c.out, 0
}

// errorString returns the message of the last failure.
func (c *compressor) errorString() string {
	if c == nil {
		return "Invalid handle"
	}

	return c.errMsg
}

func (c *compressor) destroy() {
	if c == nil {
		return
	}

	c.out = nil
	c.comps = nil
}

// setQuality scales the base tables the libjpeg way.
func (c *compressor) setQuality(quality int) {
	scale := 200 - quality*2
	if quality < 50 {
		scale = 5000 / quality
	}

	for i := range c.quant {
		for j := range c.quant[i] {
			x := (int(unscaledQuant[i][j])*scale + 50) / 100
			c.quant[i][j] = byte(min(max(x, 1), 255))
		}
	}
}

func (c *compressor) setSampling(width, height int, subsamp Subsample, gray bool) {
	if gray {
		c.comps = []encComponent{{h: 1, v: 1}}
	} else {
		f := subsampleFactors[subsamp]
		c.comps = []encComponent{
			{h: f[0], v: f[1]},
			{h: 1, v: 1, tq: 1},
			{h: 1, v: 1, tq: 1},
		}
	}

	c.maxH, c.maxV = c.comps[0].h, c.comps[0].v
	c.mcusX = ceilDiv(width, 8*c.maxH)
	c.mcusY = ceilDiv(height, 8*c.maxV)

	for i := range c.comps {
		e := &c.comps[i]
		e.width = ceilDiv(width*e.h, c.maxH)
		e.height = ceilDiv(height*e.v, c.maxV)
		e.bw = c.mcusX * e.h
		e.bh = c.mcusY * e.v
	}
}

// transform converts src to component planes, then forward transforms and
// quantizes every block of the padded MCU grid.
func (c *compressor) transform(src []byte, width, pitch, height int, pf PixelFormat, bottomUp bool) {
	fullW, fullH := c.mcusX*c.maxH*8, c.mcusY*c.maxV*8
	nc := len(c.comps)

	planes := make([][]byte, nc)
	for i := range planes {
		planes[i] = make([]byte, fullW*fullH)
	}

	ps := pixelSize[pf]
	ro, gro, bo := redOffset[pf], greenOffset[pf], blueOffset[pf]

	for y := 0; y < fullH; y++ {
		sy := min(y, height-1)
		if bottomUp {
			sy = height - 1 - sy
		}
		row := src[sy*pitch:]

		for x := 0; x < fullW; x++ {
			p := row[min(x, width-1)*ps:]
			i := y*fullW + x

			if pf == PixelFormatGray {
				planes[0][i] = p[0]
				continue
			}

			yy, cb, cr := color.RGBToYCbCr(p[ro], p[gro], p[bo])
			planes[0][i] = yy
			if nc == 3 {
				planes[1][i] = cb
				planes[2][i] = cr
			}
		}
	}

	for i := range c.comps {
		e := &c.comps[i]
		plane, stride := planes[i], fullW

		if rh, rv := c.maxH/e.h, c.maxV/e.v; rh > 1 || rv > 1 {
			plane, stride = downsample(plane, fullW, fullH, rh, rv), fullW/rh
		}

		c.quantizeComponent(e, plane, stride)
	}
}

// downsample box-averages rh x rv groups of samples.
func downsample(in []byte, w, h, rh, rv int) []byte {
	ow, oh := w/rh, h/rv
	area := rh * rv
	out := make([]byte, ow*oh)

	for y := 0; y < oh; y++ {
		for x := 0; x < ow; x++ {
			sum := 0
			for j := 0; j < rv; j++ {
				row := in[(y*rv+j)*w+x*rh:]
				for i := 0; i < rh; i++ {
					sum += int(row[i])
				}
			}

			out[y*ow+x] = byte((sum + area/2) / area)
		}
	}

	return out
}

func (c *compressor) quantizeComponent(e *encComponent, plane []byte, stride int) {
	q := &c.quant[e.tq]
	e.coef = make([]int32, e.bw*e.bh*64)

	var b [64]int32
	for by := 0; by < e.bh; by++ {
		for bx := 0; bx < e.bw; bx++ {
			base := by*8*stride + bx*8
			for y := 0; y < 8; y++ {
				row := plane[base+y*stride : base+y*stride+8]
				for x, v := range row {
					b[y*8+x] = int32(v)
				}
			}

			fdct(&b)

			dst := e.coef[(by*e.bw+bx)*64:]
			for zig := 0; zig < 64; zig++ {
				dst[zig] = div(b[zigzag[zig]], 8*int32(q[zig]))
			}
		}
	}
}

// div returns a/b rounded to the nearest integer.
func div(a, b int32) int32 {
	if a >= 0 {
		return (a + (b >> 1)) / b
	}

	return -((-a + (b >> 1)) / b)
}

func (c *compressor) writeMarkerHeader(marker byte, length int) {
	c.out = append(c.out, 0xff, marker, byte(length>>8), byte(length))
}

func (c *compressor) writeDQT() {
	n := min(len(c.comps), 2)

	c.writeMarkerHeader(markerDQT, 2+n*65)
	for i := 0; i < n; i++ {
		c.out = append(c.out, byte(i))
		c.out = append(c.out, c.quant[i][:]...)
	}
}

func (c *compressor) writeSOF(width, height int, marker byte) {
	nc := len(c.comps)

	c.writeMarkerHeader(marker, 8+3*nc)
	c.out = append(c.out, 8, byte(height>>8), byte(height), byte(width>>8), byte(width), byte(nc))
	for i, e := range c.comps {
		c.out = append(c.out, byte(i+1), byte(e.h<<4|e.v), byte(e.tq))
	}
}

func (c *compressor) writeDHT() {
	specs := huffmanSpecs[:]
	if len(c.comps) == 1 {
		specs = specs[:2]
	}

	length := 2
	for _, s := range specs {
		length += 1 + 16 + len(s.value)
	}

	c.writeMarkerHeader(markerDHT, length)
	for i, s := range specs {
		c.out = append(c.out, "\x00\x10\x01\x11"[i])
		c.out = append(c.out, s.count[:]...)
		c.out = append(c.out, s.value...)
	}
}

// writeSOS writes a scan header for comps (indices into c.comps).
func (c *compressor) writeSOS(comps []int, s progressiveScan) {
	c.writeMarkerHeader(markerSOS, 6+2*len(comps))
	c.out = append(c.out, byte(len(comps)))
	for _, i := range comps {
		sel := byte(0x00)
		if c.comps[i].tq != 0 {
			sel = 0x11
		}
		c.out = append(c.out, byte(i+1), sel)
	}
	c.out = append(c.out, byte(s.ss), byte(s.se), byte(s.ah<<4|s.al))

	for i := range c.comps {
		c.comps[i].pred = 0
	}
}

// emit appends the low nBits of bits to the entropy-coded segment.
func (c *compressor) emit(bits, nBits uint32) {
	nBits += c.nBits
	bits <<= 32 - nBits
	bits |= c.bits

	for nBits >= 8 {
		b := byte(bits >> 24)
		c.out = append(c.out, b)
		if b == 0xff {
			c.out = append(c.out, 0x00)
		}

		bits <<= 8
		nBits -= 8
	}

	c.bits, c.nBits = bits, nBits
}

func (c *compressor) emitHuff(h int, value int32) {
	x := huffmanLUTs[h][value]
	c.emit(x&(1<<24-1), x>>24)
}

// emitHuffRLE emits the run/size symbol for value followed by its bits.
func (c *compressor) emitHuffRLE(h int, runLength, value int32) {
	a, b := value, value
	if a < 0 {
		a, b = -value, value-1
	}

	n := uint32(bits.Len32(uint32(a)))
	c.emitHuff(h, runLength<<4|int32(n))
	if n > 0 {
		c.emit(uint32(b)&(1<<n-1), n)
	}
}

// flushScan pads the last byte with ones and resets the bit buffer.
func (c *compressor) flushScan() {
	c.emit(0x7f, 7)
	c.bits, c.nBits = 0, 0
}

// blockWriter codes one block of zig-zag coefficients for scan s.
type blockWriter func(e *encComponent, blk []int32, s progressiveScan)

// writeBlock codes a whole sequential block.
func (c *compressor) writeBlock(e *encComponent, blk []int32, _ progressiveScan) {
	c.writeDCFirst(e, blk, progressiveScan{})
	c.writeACFirst(e, blk, progressiveScan{ss: 1, se: 63})
}

// writeDCFirst codes the DC difference of the point transformed
// coefficient.
func (c *compressor) writeDCFirst(e *encComponent, blk []int32, s progressiveScan) {
	v := blk[0] >> s.al
	c.emitHuffRLE(2*e.tq, 0, v-e.pred)
	e.pred = v
}

func (c *compressor) writeDCRefine(_ *encComponent, blk []int32, s progressiveScan) {
	c.emit(uint32(blk[0]>>s.al)&1, 1)
}

// writeACFirst codes band ss..se with magnitudes shifted right by al. Every
// block ends with its own EOB, so the standard tables are sufficient.
func (c *compressor) writeACFirst(e *encComponent, blk []int32, s progressiveScan) {
	acTab := 2*e.tq + 1

	run := int32(0)
	for k := s.ss; k <= s.se; k++ {
		v := blk[k]
		a := max(v, -v) >> s.al
		if a == 0 {
			run++
			continue
		}

		for run > 15 {
			c.emitHuff(acTab, 0xf0)
			run -= 16
		}

		if v < 0 {
			a = -a
		}
		c.emitHuffRLE(acTab, run, a)
		run = 0
	}

	if run > 0 {
		c.emitHuff(acTab, 0x00)
	}
}

// writeACRefine sends bit al of band ss..se. Coefficients that became
// nonzero at this bit are coded like first-pass values of magnitude 1; the
// others get a raw correction bit, sent after the next symbol.
func (c *compressor) writeACRefine(e *encComponent, blk []int32, s progressiveScan) {
	acTab := 2*e.tq + 1

	var abs [64]int32
	eob := 0
	for k := s.ss; k <= s.se; k++ {
		abs[k] = max(blk[k], -blk[k]) >> s.al
		if abs[k] == 1 {
			eob = k
		}
	}

	var corr [64]uint32
	nc := 0
	emitCorr := func() {
		for _, b := range corr[:nc] {
			c.emit(b, 1)
		}
		nc = 0
	}

	run := int32(0)
	for k := s.ss; k <= s.se; k++ {
		a := abs[k]
		if a == 0 {
			run++
			continue
		}

		// Zero runs past the last new coefficient fold into the EOB.
		for run > 15 && k <= eob {
			c.emitHuff(acTab, 0xf0)
			run -= 16
			emitCorr()
		}

		if a > 1 {
			corr[nc] = uint32(a & 1)
			nc++

			continue
		}

		sign := uint32(1)
		if blk[k] < 0 {
			sign = 0
		}

		c.emitHuff(acTab, run<<4|1)
		c.emit(sign, 1)
		emitCorr()
		run = 0
	}

	if run > 0 || nc > 0 {
		c.emitHuff(acTab, 0x00)
		emitCorr()
	}
}

func (c *compressor) block(e *encComponent, bx, by int) []int32 {
	i := (by*e.bw + bx) * 64

	return e.coef[i : i+64 : i+64]
}

// writeInterleaved codes every MCU for all components.
func (c *compressor) writeInterleaved(w blockWriter, s progressiveScan) {
	for my := 0; my < c.mcusY; my++ {
		for mx := 0; mx < c.mcusX; mx++ {
			for i := range c.comps {
				e := &c.comps[i]
				for v := 0; v < e.v; v++ {
					for h := 0; h < e.h; h++ {
						w(e, c.block(e, mx*e.h+h, my*e.v+v), s)
					}
				}
			}
		}
	}
}

// writeSingle codes a non-interleaved scan, which covers only the blocks
// that hold component samples.
func (c *compressor) writeSingle(e *encComponent, w blockWriter, s progressiveScan) {
	for by := 0; by < ceilDiv(e.height, 8); by++ {
		for bx := 0; bx < ceilDiv(e.width, 8); bx++ {
			w(e, c.block(e, bx, by), s)
		}
	}
}

func (c *compressor) writeBaselineScan() {
	c.writeScan(-1, c.writeBlock, progressiveScan{se: 63})
}

func (c *compressor) writeProgressiveScan(s progressiveScan) {
	var w blockWriter
	switch {
	case s.ss == 0 && s.ah == 0:
		w = c.writeDCFirst
	case s.ss == 0:
		w = c.writeDCRefine
	case s.ah == 0:
		w = c.writeACFirst
	default:
		w = c.writeACRefine
	}

	c.writeScan(s.comp, w, s)
}

// writeScan writes one scan of component comp, or of all components when
// comp is negative.
func (c *compressor) writeScan(comp int, w blockWriter, s progressiveScan) {
	if comp < 0 && len(c.comps) == 1 {
		comp = 0
	}

	if comp >= 0 {
		c.writeSOS([]int{comp}, s)
		c.writeSingle(&c.comps[comp], w, s)
	} else {
		all := make([]int, len(c.comps))
		for i := range all {
			all[i] = i
		}

		c.writeSOS(all, s)
		c.writeInterleaved(w, s)
	}

	c.flushScan()
}
