package jpegturbo

import "image"

// ColorSpace is the color space of a JPEG stream, numbered as in libjpeg.
type ColorSpace int

const (
	ColorSpaceUnknown ColorSpace = iota
	ColorSpaceGrayscale
	ColorSpaceRGB
	ColorSpaceYCbCr
	ColorSpaceCMYK
	ColorSpaceYCCK
)

func (cs ColorSpace) String() string {
	switch cs {
	case ColorSpaceGrayscale:
		return "Grayscale"
	case ColorSpaceRGB:
		return "RGB"
	case ColorSpaceYCbCr:
		return "YCbCr"
	case ColorSpaceCMYK:
		return "CMYK"
	case ColorSpaceYCCK:
		return "YCCK"
	}

	return "Unknown"
}

// DCTMethod selects the inverse DCT used while decoding.
type DCTMethod int

const (
	// DCTMethodIntSlow is the accurate integer transform.
	DCTMethodIntSlow DCTMethod = iota
	// DCTMethodIntFast is less accurate, most visibly above quality 85.
	DCTMethodIntFast
	// DCTMethodFloat uses floating point arithmetic.
	DCTMethodFloat
)

// DitherMode selects the dithering used by color quantization.
type DitherMode int

const (
	DitherNone DitherMode = iota
	DitherOrdered
	DitherFS
)

// PixelFormat is the layout of a packed pixel buffer.
type PixelFormat int

const (
	PixelFormatRGB PixelFormat = iota
	PixelFormatBGR
	PixelFormatRGBX
	PixelFormatBGRX
	PixelFormatXBGR
	PixelFormatXRGB
	PixelFormatGray
	PixelFormatRGBA
	PixelFormatBGRA
	PixelFormatABGR
	PixelFormatARGB
	PixelFormatCMYK
	numPixelFormats
)

var (
	pixelSize   = [numPixelFormats]int{3, 3, 4, 4, 4, 4, 1, 4, 4, 4, 4, 4}
	redOffset   = [numPixelFormats]int{0, 2, 0, 2, 3, 1, -1, 0, 2, 3, 1, -1}
	greenOffset = [numPixelFormats]int{1, 1, 1, 1, 2, 2, -1, 1, 1, 2, 2, -1}
	blueOffset  = [numPixelFormats]int{2, 0, 2, 0, 1, 3, -1, 2, 0, 1, 3, -1}
)

// Size returns the number of bytes per pixel, or 0 for an unknown format.
func (pf PixelFormat) Size() int {
	if pf < 0 || pf >= numPixelFormats {
		return 0
	}

	return pixelSize[pf]
}

// Subsample is the chroma subsampling used while encoding.
type Subsample int

const (
	Subsample444 Subsample = iota
	Subsample422
	Subsample420
	SubsampleGray
	Subsample440
	Subsample411
	numSubsamples

	// SubsampleDefault selects Subsample420.
	SubsampleDefault Subsample = -1
)

// luma sampling factors per subsampling mode; chroma is always 1x1.
var subsampleFactors = [numSubsamples][2]int{
	{1, 1}, {2, 1}, {2, 2}, {1, 1}, {1, 2}, {4, 1},
}

// Flag is a bitmask of encoder hints.
type Flag int

const (
	FlagBottomUp      Flag = 2
	FlagFastUpsample  Flag = 256
	FlagNoRealloc     Flag = 1024
	FlagFastDCT       Flag = 2048
	FlagAccurateDCT   Flag = 4096
	FlagStopOnWarning Flag = 8192
	FlagProgressive   Flag = 16384
)

const (
	defaultQuality   = 95
	defaultSubsample = Subsample420
)

// CropRect is a region in unscaled image pixels. A rectangle with zero
// width or height means no crop.
type CropRect struct {
	Left, Top, Width, Height uint
}

func (r CropRect) empty() bool {
	return r.Width == 0 || r.Height == 0
}

// DecodeParams are applied to the decompressor as a whole.
// A nil *DecodeParams keeps the codec defaults.
type DecodeParams struct {
	Crop                  CropRect
	DCTMethod             DCTMethod
	TwoPassQuantize       bool
	DitherMode            DitherMode
	DesiredNumberOfColors int
	DoFancyUpsampling     bool
	// ScaleNum/ScaleDenom are applied only when both are positive.
	ScaleNum, ScaleDenom uint
}

// DecodeResult is the outcome of DecodeRaw. Pix is nil when no image could
// be produced; Err may be set either way.
type DecodeResult struct {
	Pix                       []byte
	Size                      int
	Width, Height             int
	OriginWidth, OriginHeight int
	ColorSpace                ColorSpace
	NumComponents             int
	Err                       error
}

// EncodeParams for EncodeRaw. A nil *EncodeParams means quality 95,
// no flags and 4:2:0 subsampling.
type EncodeParams struct {
	// Quality in 1..100; values <= 0 select 95.
	Quality int
	Flags   Flag
	// Subsample; negative values select 4:2:0.
	Subsample Subsample
}

// EncodeResult is the outcome of EncodeRaw.
type EncodeResult struct {
	Buf  []byte
	Size int
	Err  error
}

// DecodeOptions specifies decoding parameters for Decode.
type DecodeOptions struct {
	// Crop restricts output to this region of the source image.
	Crop *image.Rectangle
	// DCTMethod on current hardware IntFast and IntSlow run at similar
	// speed, but IntFast loses 4-6dB PSNR on images above quality 85.
	DCTMethod DCTMethod
	// TwoPassQuantize, DitherMode and DesiredNumberOfColors only matter when
	// color quantization is enabled, which this package never does.
	TwoPassQuantize       bool
	DitherMode            DitherMode
	DesiredNumberOfColors int
	// DoFancyUpsampling selects triangle-filter chroma upsampling.
	DoFancyUpsampling bool
	// ScaleNum/ScaleDenom scale the output during the IDCT. The supported
	// ratios are 1/1, 1/2, 1/4 and 1/8; others round up to the next one.
	ScaleNum   uint
	ScaleDenom uint
}

// NewDecodeOptions returns options with the codec defaults.
func NewDecodeOptions() *DecodeOptions {
	return &DecodeOptions{
		DCTMethod:             DCTMethodIntSlow,
		TwoPassQuantize:       true,
		DitherMode:            DitherFS,
		DesiredNumberOfColors: 256,
		DoFancyUpsampling:     true,
	}
}

func (o *DecodeOptions) params() (*DecodeParams, error) {
	if o == nil {
		return nil, nil
	}

	// Crop coordinates are in unscaled pixels while scanlines are produced
	// at the scaled size.
	if o.Crop != nil && (o.ScaleNum > 0 || o.ScaleDenom > 0) {
		return nil, ErrOptionsUnsupported
	}

	p := &DecodeParams{
		DCTMethod:             o.DCTMethod,
		TwoPassQuantize:       o.TwoPassQuantize,
		DitherMode:            o.DitherMode,
		DesiredNumberOfColors: o.DesiredNumberOfColors,
		DoFancyUpsampling:     o.DoFancyUpsampling,
		ScaleNum:              o.ScaleNum,
		ScaleDenom:            o.ScaleDenom,
	}

	if o.Crop != nil {
		r := o.Crop.Canon()
		if r.Min.X < 0 || r.Min.Y < 0 {
			return nil, ErrOptionsUnsupported
		}
		p.Crop = CropRect{
			Left:   uint(r.Min.X),
			Top:    uint(r.Min.Y),
			Width:  uint(r.Dx()),
			Height: uint(r.Dy()),
		}
	}

	return p, nil
}

// EncodeOptions specifies encoding parameters for Encode and EncodeImage.
type EncodeOptions struct {
	// Quality in 1..100.
	Quality     int
	FastDCT     bool
	AccurateDCT bool
	Progressive bool
	Subsample   Subsample
}

// NewEncodeOptions returns quality 95 with 4:2:0 subsampling.
func NewEncodeOptions() *EncodeOptions {
	return &EncodeOptions{
		Quality:     defaultQuality,
		AccurateDCT: true,
		Subsample:   defaultSubsample,
	}
}

func (o *EncodeOptions) params() (*EncodeParams, error) {
	if o == nil {
		return nil, nil
	}

	if o.Quality < 0 || o.Quality > 100 {
		return nil, ErrQualityOption
	}

	var flags Flag
	if o.FastDCT {
		flags |= FlagFastDCT
	}
	if o.AccurateDCT {
		flags |= FlagAccurateDCT
	}
	if o.Progressive {
		flags |= FlagProgressive
	}

	return &EncodeParams{Quality: o.Quality, Flags: flags, Subsample: o.Subsample}, nil
}
