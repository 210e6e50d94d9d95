package jpegturbo

import "bytes"

// JPEG marker codes (the byte following 0xFF).
const (
	markerSOF0  = 0xc0
	markerSOF1  = 0xc1
	markerSOF2  = 0xc2
	markerSOF3  = 0xc3
	markerDHT   = 0xc4
	markerJPG   = 0xc8
	markerDAC   = 0xcc
	markerSOF15 = 0xcf
	markerRST0  = 0xd0
	markerRST7  = 0xd7
	markerSOI   = 0xd8
	markerEOI   = 0xd9
	markerSOS   = 0xda
	markerDQT   = 0xdb
	markerDNL   = 0xdc
	markerDRI   = 0xdd
	markerAPP0  = 0xe0
	markerAPP1  = 0xe1
	markerAPP14 = 0xee
	markerAPP15 = 0xef
	markerCOM   = 0xfe
	markerTEM   = 0x01
)

var (
	jfifTag  = []byte("JFIF\x00")
	adobeTag = []byte("Adobe")
	exifTag  = []byte("Exif\x00\x00")
)

// readHeader consumes markers up to and including the first SOS. It returns
// headerTablesOnly if EOI comes first, which is fatal when requireImage is set.
func (d *decompressor) readHeader(requireImage bool) headerStatus {
	switch d.globalState {
	case dstateStart:
		d.firstMarker()
		d.globalState = dstateInHeader
	case dstateInHeader:
	default:
		d.fatal(errBadState, d.globalState)
	}

	for {
		m := d.nextMarker()

		switch {
		case m < 0 || m == markerEOI:
			if m < 0 {
				d.warn(wrnJPEGEOF)
			}
			if requireImage {
				d.fatal(errNoImage)
			}
			d.globalState = dstateStart

			return headerTablesOnly
		case m == markerSOI:
			d.fatal(errSOIDuplicate)
		case m == markerSOF0 || m == markerSOF1:
			d.readSOF(false)
		case m == markerSOF2:
			d.readSOF(true)
		case m == markerDHT:
			d.readDHT()
		case m == markerDAC:
			d.skipSegment()
		case m >= markerSOF3 && m <= markerSOF15 && m != markerJPG:
			d.fatal(errSOFUnsupported, m)
		case m == markerDQT:
			d.readDQT()
		case m == markerDRI:
			d.readDRI()
		case m == markerAPP0:
			d.readJFIF()
		case m == markerAPP1:
			d.readExif()
		case m == markerAPP14:
			d.readAdobe()
		case m >= markerAPP0 && m <= markerAPP15, m == markerCOM, m == markerDNL:
			d.skipSegment()
		case m >= markerRST0 && m <= markerRST7, m == markerTEM:
			// parameterless
		case m == markerSOS:
			if !d.sawSOF {
				d.fatal(errSOSNoSOF)
			}

			d.readSOS()
			d.defaultParams()
			d.globalState = dstateReady

			return headerOK
		default:
			d.fatal(errUnknownMarker, m)
		}
	}
}

func (d *decompressor) firstMarker() {
	var c1, c2 int
	if len(d.src) > 0 {
		c1 = int(d.src[0])
	}
	if len(d.src) > 1 {
		c2 = int(d.src[1])
	}

	if c1 != 0xff || c2 != markerSOI {
		d.fatal(errNoSOI, c1, c2)
	}

	d.pos = 2
}

// nextMarker skips to the next marker and returns its code, or -1 at the end
// of the data. Skipped bytes are reported as extraneous.
func (d *decompressor) nextMarker() int {
	discarded := 0

	for {
		for d.pos < len(d.src) && d.src[d.pos] != 0xff {
			d.pos++
			discarded++
		}
		for d.pos < len(d.src) && d.src[d.pos] == 0xff {
			d.pos++
		}

		if d.pos >= len(d.src) {
			return -1
		}

		m := int(d.src[d.pos])
		d.pos++

		if m != 0 {
			if discarded != 0 {
				d.warn(wrnExtraneousData, discarded, m)
			}

			return m
		}

		// Stuffed zero.
		discarded += 2
	}
}

func (d *decompressor) readByte() int {
	if d.pos >= len(d.src) {
		d.fatal(errInputEOF)
	}

	b := d.src[d.pos]
	d.pos++

	return int(b)
}

func (d *decompressor) readUint16() int {
	return d.readByte()<<8 | d.readByte()
}

// readLength reads a segment length and returns the payload size, which is
// guaranteed to be present in the input.
func (d *decompressor) readLength() int {
	n := d.readUint16()
	if n < 2 {
		d.fatal(errBadLength)
	}

	n -= 2
	if d.pos+n > len(d.src) {
		d.fatal(errInputEOF)
	}

	return n
}

func (d *decompressor) skipSegment() {
	d.pos += d.readLength()
}

func (d *decompressor) readSOF(progressive bool) {
	if d.sawSOF {
		d.fatal(errSOFDuplicate)
	}

	n := d.readLength()

	prec := d.readByte()
	d.imageHeight = d.readUint16()
	d.imageWidth = d.readUint16()
	d.numComponents = d.readByte()

	if prec != 8 {
		d.fatal(errBadPrecision, prec)
	}
	if d.imageHeight == 0 || d.imageWidth == 0 || d.numComponents == 0 {
		d.fatal(errEmptyImage)
	}
	if d.imageHeight > maxDimension || d.imageWidth > maxDimension {
		d.fatal(errImageTooBig, maxDimension)
	}
	if d.numComponents > maxComponents {
		d.fatal(errComponentCount, d.numComponents, maxComponents)
	}
	if n != 6+3*d.numComponents {
		d.fatal(errBadLength)
	}

	d.maxH, d.maxV = 1, 1
	for i := 0; i < d.numComponents; i++ {
		c := &d.comp[i]
		c.id = d.readByte()
		hv := d.readByte()
		c.h, c.v = hv>>4, hv&0x0f
		c.tq = d.readByte()

		if c.h < 1 || c.h > 4 || c.v < 1 || c.v > 4 {
			d.fatal(errBadSampling)
		}

		d.maxH = max(d.maxH, c.h)
		d.maxV = max(d.maxV, c.v)
	}

	// A single-component frame is always coded as non-interleaved 8x8 blocks.
	if d.numComponents == 1 {
		d.comp[0].h, d.comp[0].v = 1, 1
		d.maxH, d.maxV = 1, 1
	}

	for i := 0; i < d.numComponents; i++ {
		c := &d.comp[i]
		if d.maxH%c.h != 0 || d.maxV%c.v != 0 {
			d.fatal(errFractSample)
		}
	}

	d.mcusX = ceilDiv(d.imageWidth, 8*d.maxH)
	d.mcusY = ceilDiv(d.imageHeight, 8*d.maxV)
	d.progressive = progressive
	d.sawSOF = true
}

func (d *decompressor) readSOS() {
	n := d.readLength()

	ns := d.readByte()
	if ns < 1 || ns > 4 || n != 4+2*ns {
		d.fatal(errBadLength)
	}

	var seen [maxComponents]bool
	for i := 0; i < ns; i++ {
		id := d.readByte()
		t := d.readByte()

		idx := -1
		for j := 0; j < d.numComponents; j++ {
			if d.comp[j].id == id && !seen[j] {
				idx = j
				break
			}
		}
		if idx < 0 {
			d.fatal(errBadComponentID, id)
		}

		seen[idx] = true
		d.comp[idx].td, d.comp[idx].ta = t>>4, t&0x0f
		d.scan[i] = idx
	}
	d.scanCount = ns

	d.ss, d.se = d.readByte(), d.readByte()
	a := d.readByte()
	d.ah, d.al = a>>4, a&0x0f

	if !d.progressive && (d.ss != 0 || d.se != 63 || a != 0) {
		d.warn(wrnNotSequential)
	}
}

// nextScan reads the markers between two scans of a multi-scan image and
// stops after the next SOS. It returns false at EOI or the end of the data.
func (d *decompressor) nextScan() bool {
	d.bitBuf, d.bitCount = 0, 0
	d.markerHit = false

	for {
		m := d.nextMarker()

		switch {
		case m < 0:
			d.warn(wrnJPEGEOF)
			return false
		case m == markerEOI:
			return false
		case m == markerSOS:
			d.readSOS()
			return true
		case m == markerSOI:
			d.fatal(errSOIDuplicate)
		case m == markerDHT:
			d.readDHT()
		case m == markerDQT:
			d.readDQT()
		case m == markerDRI:
			d.readDRI()
		case m >= markerSOF0 && m <= markerSOF15 && m != markerJPG && m != markerDAC:
			d.fatal(errSOFDuplicate)
		case m >= markerAPP0 && m <= markerAPP15, m == markerCOM, m == markerDNL, m == markerDAC:
			d.skipSegment()
		case m >= markerRST0 && m <= markerRST7, m == markerTEM:
		default:
			d.fatal(errUnknownMarker, m)
		}
	}
}

func (d *decompressor) readDQT() {
	n := d.readLength()

	for n > 0 {
		b := d.readByte()
		n--

		prec, tq := b>>4, b&0x0f
		if tq >= 4 {
			d.fatal(errDQTIndex, tq)
		}

		q := &d.qtabs[tq]
		for i := 0; i < 64; i++ {
			if prec != 0 {
				q[zigzag[i]] = uint16(d.readUint16())
			} else {
				q[zigzag[i]] = uint16(d.readByte())
			}
		}
		d.qtDefined[tq] = true

		if prec != 0 {
			n -= 128
		} else {
			n -= 64
		}
	}

	if n != 0 {
		d.fatal(errBadLength)
	}
}

func (d *decompressor) readDHT() {
	n := d.readLength()

	for n > 16 {
		idx := d.readByte()

		var counts [16]uint8
		total := 0
		for i := range counts {
			counts[i] = uint8(d.readByte())
			total += int(counts[i])
		}
		n -= 17

		if total > 256 || total > n {
			d.fatal(errBadHuffTable)
		}

		symbols := d.src[d.pos : d.pos+total]
		d.pos += total
		n -= total

		tabs := &d.dcTab
		if idx&0x10 != 0 {
			tabs = &d.acTab
			idx -= 0x10
		}
		if idx >= 4 {
			d.fatal(errDHTIndex, idx)
		}

		t := tabs[idx]
		if t == nil {
			t = huffPool.Get().(*huffTable)
			tabs[idx] = t
		}
		if !t.build(&counts, symbols) {
			d.fatal(errBadHuffTable)
		}
	}

	if n != 0 {
		d.fatal(errBadLength)
	}
}

func (d *decompressor) readDRI() {
	if d.readLength() != 2 {
		d.fatal(errBadLength)
	}

	d.restartInterval = d.readUint16()
}

// segment reads a marker segment and returns its payload.
func (d *decompressor) segment() []byte {
	n := d.readLength()
	p := d.src[d.pos : d.pos+n]
	d.pos += n

	return p
}

func (d *decompressor) readJFIF() {
	if p := d.segment(); len(p) >= 14 && bytes.HasPrefix(p, jfifTag) {
		d.sawJFIF = true
	}
}

func (d *decompressor) readAdobe() {
	if p := d.segment(); len(p) >= 12 && bytes.HasPrefix(p, adobeTag) {
		d.sawAdobe = true
		d.adobeTransform = int(p[11])
	}
}

func (d *decompressor) readExif() {
	if p := d.segment(); len(p) > len(exifTag) && bytes.HasPrefix(p, exifTag) && d.exif == nil {
		d.exif = p[len(exifTag):]
	}
}

// readTrailer skips whatever follows the scan up to EOI.
func (d *decompressor) readTrailer() {
	d.bitBuf, d.bitCount = 0, 0
	d.markerHit = false

	for {
		m := d.nextMarker()

		switch {
		case m < 0:
			d.warn(wrnJPEGEOF)
			return
		case m == markerEOI, m == markerSOS, m == markerSOI:
			return
		case m >= markerRST0 && m <= markerRST7, m == markerTEM:
		default:
			d.skipSegment()
		}
	}
}

// defaultParams sets the decompression parameters and deduces the JPEG color
// space from the header.
func (d *decompressor) defaultParams() {
	d.jpegColorSpace = d.deduceColorSpace()

	switch d.jpegColorSpace {
	case ColorSpaceGrayscale:
		d.outColorSpace = ColorSpaceGrayscale
	case ColorSpaceRGB, ColorSpaceYCbCr:
		d.outColorSpace = ColorSpaceRGB
	case ColorSpaceYCCK:
		d.outColorSpace = ColorSpaceCMYK
	default:
		d.outColorSpace = d.jpegColorSpace
	}

	d.scaleNum, d.scaleDenom = 1, 1
	d.dctMethod = DCTMethodIntSlow
	d.doFancyUpsampling = true
	d.twoPassQuantize = true
	d.ditherMode = DitherFS
	d.desiredNumberOfColors = 256
}

func (d *decompressor) deduceColorSpace() ColorSpace {
	switch d.numComponents {
	case 1:
		return ColorSpaceGrayscale
	case 3:
		if d.sawJFIF {
			return ColorSpaceYCbCr
		}

		if d.sawAdobe {
			switch d.adobeTransform {
			case 0:
				return ColorSpaceRGB
			case 1:
				return ColorSpaceYCbCr
			}

			d.warn(wrnAdobeXform, d.adobeTransform)

			return ColorSpaceYCbCr
		}

		id0, id1, id2 := d.comp[0].id, d.comp[1].id, d.comp[2].id
		if id0 == 1 && id1 == 2 && id2 == 3 {
			return ColorSpaceYCbCr
		}
		if id0 == 'R' && id1 == 'G' && id2 == 'B' {
			return ColorSpaceRGB
		}

		return ColorSpaceYCbCr
	case 4:
		if d.sawAdobe {
			switch d.adobeTransform {
			case 0:
				return ColorSpaceCMYK
			case 2:
				return ColorSpaceYCCK
			}

			d.warn(wrnAdobeXform, d.adobeTransform)

			return ColorSpaceYCCK
		}

		return ColorSpaceCMYK
	}

	return ColorSpaceUnknown
}
