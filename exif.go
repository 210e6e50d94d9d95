package jpegturbo

import (
	"errors"
	"fmt"
	"io"
)

// Exif holds the commonly used fields of an EXIF APP1 segment. Zero values
// mean the tag was absent.
type Exif struct {
	Make      string
	Model     string
	Software  string
	DateTime  string
	Artist    string
	Copyright string
	// Orientation is the TIFF orientation tag, 1 through 8.
	Orientation int
	Width       int
	Height      int

	ExposureTime     float64
	FNumber          float64
	ISOSpeed         int
	DateTimeOriginal string
	Flash            int
	FocalLength      float64

	// GPSLatitude and GPSLongitude are decimal degrees, negative to the
	// south and west. GPSAltitude is meters, negative below sea level.
	GPSLatitude  float64
	GPSLongitude float64
	GPSAltitude  float64
}

// DecodeExif reads the EXIF metadata of the JPEG in r. Only the headers
// are parsed; the scan data is not decoded.
func DecodeExif(r io.Reader) (*Exif, error) {
	data, err := readAllData(r)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	info, err := readHeaderInfo(data)
	if len(info.exif) == 0 {
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}

		return nil, ErrNoExif
	}

	exif := &Exif{}
	if err := parseExifData(info.exif, exif); err != nil {
		return nil, err
	}

	return exif, nil
}

// EXIF tag constants
const (
	// Main IFD tags
	tagOrientation    = 0x0112
	tagImageWidth     = 0x0100
	tagImageLength    = 0x0101
	tagMake           = 0x010F
	tagModel          = 0x0110
	tagSoftware       = 0x0131
	tagDateTime       = 0x0132
	tagArtist         = 0x013B
	tagCopyright      = 0x8298
	tagExifIFDPointer = 0x8769
	tagGPSIFDPointer  = 0x8825

	// EXIF SubIFD tags
	tagExposureTime     = 0x829A
	tagFNumber          = 0x829D
	tagISOSpeedRatings  = 0x8827
	tagDateTimeOriginal = 0x9003
	tagFlash            = 0x9209
	tagFocalLength      = 0x920A

	// GPS SubIFD tags
	tagGPSLatitudeRef  = 0x0001
	tagGPSLatitude     = 0x0002
	tagGPSLongitudeRef = 0x0003
	tagGPSLongitude    = 0x0004
	tagGPSAltitudeRef  = 0x0005
	tagGPSAltitude     = 0x0006
)

// EXIF data type constants
const (
	typeUnsignedByte     = 1
	typeASCIIString      = 2
	typeUnsignedShort    = 3
	typeUnsignedLong     = 4
	typeUnsignedRational = 5
	typeSignedByte       = 6
	typeUndefined        = 7
	typeSignedShort      = 8
	typeSignedLong       = 9
	typeSignedRational   = 10
	typeSingleFloat      = 11
	typeDoubleFloat      = 12
)

// exifReader reads TIFF values in the byte order of the payload.
type exifReader struct {
	data         []byte
	littleEndian bool
}

func (r *exifReader) uint16(offset int) uint16 {
	if offset+1 >= len(r.data) {
		return 0
	}
	if r.littleEndian {
		return uint16(r.data[offset]) | (uint16(r.data[offset+1]) << 8)
	}
	return (uint16(r.data[offset]) << 8) | uint16(r.data[offset+1])
}

func (r *exifReader) uint32(offset int) uint32 {
	if offset+3 >= len(r.data) {
		return 0
	}
	if r.littleEndian {
		return uint32(r.data[offset]) | (uint32(r.data[offset+1]) << 8) |
			(uint32(r.data[offset+2]) << 16) | (uint32(r.data[offset+3]) << 24)
	}
	return (uint32(r.data[offset]) << 24) | (uint32(r.data[offset+1]) << 16) |
		(uint32(r.data[offset+2]) << 8) | uint32(r.data[offset+3])
}

func (r *exifReader) readString(offset, maxLen int) string {
	if offset >= len(r.data) {
		return ""
	}
	end := offset
	for end < len(r.data) && end < offset+maxLen && r.data[end] != 0 {
		end++
	}
	return string(r.data[offset:end])
}

func (r *exifReader) readRational(offset int) float64 {
	if offset+7 >= len(r.data) {
		return 0
	}
	numerator := r.uint32(offset)
	denominator := r.uint32(offset + 4)
	if denominator == 0 {
		return 0
	}
	return float64(numerator) / float64(denominator)
}

var (
	errExifShort     = errors.New("EXIF data too short")
	errExifByteOrder = errors.New("invalid EXIF byte order marker")
	errExifMagic     = errors.New("invalid EXIF magic number")
	errExifIFD       = errors.New("invalid IFD offset")
)

// parseExifData parses a TIFF structure and fills exif from IFD0 and the
// EXIF and GPS sub-directories it points to.
func parseExifData(data []byte, exif *Exif) error {
	if len(data) < 8 {
		return errExifShort
	}

	reader := &exifReader{data: data}

	switch {
	case data[0] == 'I' && data[1] == 'I':
		reader.littleEndian = true
	case data[0] == 'M' && data[1] == 'M':
	default:
		return errExifByteOrder
	}

	if reader.uint16(2) != 42 {
		return errExifMagic
	}

	ifdOffset := reader.uint32(4)
	if ifdOffset < 8 || int64(ifdOffset) >= int64(len(data)) {
		return errExifIFD
	}

	var exifIFD, gpsIFD int
	reader.walkIFD(int(ifdOffset), func(e ifdEntry) {
		switch e.tag {
		case tagOrientation:
			exif.Orientation = reader.integer(e)
		case tagImageWidth:
			exif.Width = reader.integer(e)
		case tagImageLength:
			exif.Height = reader.integer(e)
		case tagMake:
			exif.Make = reader.ascii(e)
		case tagModel:
			exif.Model = reader.ascii(e)
		case tagSoftware:
			exif.Software = reader.ascii(e)
		case tagDateTime:
			exif.DateTime = reader.ascii(e)
		case tagArtist:
			exif.Artist = reader.ascii(e)
		case tagCopyright:
			exif.Copyright = reader.ascii(e)
		case tagExifIFDPointer:
			exifIFD = reader.integer(e)
		case tagGPSIFDPointer:
			gpsIFD = reader.integer(e)
		}
	})

	if exifIFD > 0 {
		reader.walkIFD(exifIFD, func(e ifdEntry) {
			switch e.tag {
			case tagExposureTime:
				exif.ExposureTime = reader.rational(e, 0)
			case tagFNumber:
				exif.FNumber = reader.rational(e, 0)
			case tagISOSpeedRatings:
				exif.ISOSpeed = reader.integer(e)
			case tagDateTimeOriginal:
				exif.DateTimeOriginal = reader.ascii(e)
			case tagFlash:
				exif.Flash = reader.integer(e)
			case tagFocalLength:
				exif.FocalLength = reader.rational(e, 0)
			}
		})
	}

	if gpsIFD > 0 {
		parseGPS(reader, gpsIFD, exif)
	}

	return nil
}

// ifdEntry is one 12-byte directory entry. value is the offset of the data,
// either inline or wherever the entry points.
type ifdEntry struct {
	tag   uint16
	typ   uint16
	count uint32
	value int
}

// walkIFD calls fn for each entry of the directory at offset whose data
// lies inside the payload.
func (r *exifReader) walkIFD(offset int, fn func(ifdEntry)) {
	if offset < 0 || offset+1 >= len(r.data) {
		return
	}

	n := int(r.uint16(offset))
	offset += 2

	for i := 0; i < n; i++ {
		at := offset + i*12
		if at+11 >= len(r.data) {
			return
		}

		e := ifdEntry{
			tag:   r.uint16(at),
			typ:   r.uint16(at + 2),
			count: r.uint32(at + 4),
			value: at + 8,
		}

		size := int64(typeSize(e.typ)) * int64(e.count)
		if size > 4 {
			v := int64(r.uint32(e.value))
			if v+size > int64(len(r.data)) {
				continue
			}
			e.value = int(v)
		}

		fn(e)
	}
}

// integer reads a SHORT or LONG value; other types give 0.
func (r *exifReader) integer(e ifdEntry) int {
	switch e.typ {
	case typeUnsignedShort:
		return int(r.uint16(e.value))
	case typeUnsignedLong:
		return int(r.uint32(e.value))
	}

	return 0
}

func (r *exifReader) ascii(e ifdEntry) string {
	if e.typ != typeASCIIString {
		return ""
	}

	return r.readString(e.value, int(min(e.count, uint32(len(r.data)))))
}

// rational reads the i-th unsigned RATIONAL of e.
func (r *exifReader) rational(e ifdEntry, i int) float64 {
	if e.typ != typeUnsignedRational || uint32(i) >= e.count {
		return 0
	}

	return r.readRational(e.value + i*8)
}

// parseGPS converts the GPS directory to signed decimal coordinates.
func parseGPS(reader *exifReader, offset int, exif *Exif) {
	var (
		latRef, lonRef string
		lat, lon       []float64
		altBelow       bool
		alt            float64
	)

	dms := func(e ifdEntry) []float64 {
		if e.typ != typeUnsignedRational || e.count != 3 {
			return nil
		}

		return []float64{reader.rational(e, 0), reader.rational(e, 1), reader.rational(e, 2)}
	}

	reader.walkIFD(offset, func(e ifdEntry) {
		switch e.tag {
		case tagGPSLatitudeRef:
			latRef = reader.ascii(e)
		case tagGPSLatitude:
			lat = dms(e)
		case tagGPSLongitudeRef:
			lonRef = reader.ascii(e)
		case tagGPSLongitude:
			lon = dms(e)
		case tagGPSAltitudeRef:
			altBelow = e.typ == typeUnsignedByte && reader.data[e.value] == 1
		case tagGPSAltitude:
			alt = reader.rational(e, 0)
		}
	})

	if len(lat) == 3 {
		exif.GPSLatitude = lat[0] + lat[1]/60 + lat[2]/3600
		if latRef == "S" {
			exif.GPSLatitude = -exif.GPSLatitude
		}
	}
	if len(lon) == 3 {
		exif.GPSLongitude = lon[0] + lon[1]/60 + lon[2]/3600
		if lonRef == "W" {
			exif.GPSLongitude = -exif.GPSLongitude
		}
	}

	exif.GPSAltitude = alt
	if altBelow {
		exif.GPSAltitude = -alt
	}
}

// typeSize is the size in bytes of one value of a TIFF type.
func typeSize(typ uint16) int {
	switch typ {
	case typeUnsignedShort, typeSignedShort:
		return 2
	case typeUnsignedLong, typeSignedLong, typeSingleFloat:
		return 4
	case typeUnsignedRational, typeSignedRational, typeDoubleFloat:
		return 8
	}

	return 1
}
