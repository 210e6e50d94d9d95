package jpegturbo

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testGray returns a w x h grayscale gradient.
func testGray(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8((x*255/max(w-1, 1) + y*3) & 0xff)})
		}
	}

	return img
}

// testRGBA returns a w x h image with smooth color gradients.
func testRGBA(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(x * 255 / max(w-1, 1)),
				G: uint8(y * 255 / max(h-1, 1)),
				B: uint8((x + y) * 127 / max(w+h-2, 1)),
				A: 0xff,
			})
		}
	}

	return img
}

func stdJPEG(t testing.TB, img image.Image, quality int) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}))

	return buf.Bytes()
}

// cmykHeader is a 16x16 four-component frame header followed by its scan
// header. It carries no tables.
func cmykHeader() []byte {
	return []byte{
		0xff, 0xd8,
		0xff, 0xc0, 0x00, 0x14, 0x08, 0x00, 0x10, 0x00, 0x10, 0x04,
		0x01, 0x11, 0x00, 0x02, 0x11, 0x00, 0x03, 0x11, 0x00, 0x04, 0x11, 0x00,
		0xff, 0xda, 0x00, 0x0e, 0x04,
		0x01, 0x00, 0x02, 0x00, 0x03, 0x00, 0x04, 0x00,
		0x00, 0x3f, 0x00,
		0xff, 0xd9,
	}
}

func meanAbsDiff(a, b []byte) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 255
	}

	sum := 0
	for i := range a {
		d := int(a[i]) - int(b[i])
		if d < 0 {
			d = -d
		}
		sum += d
	}

	return float64(sum) / float64(len(a))
}

// subWindow copies the rectangle at (x, y) of size w x h out of a packed
// buffer with the given width.
func subWindow(pix []byte, width, comps, x, y, w, h int) []byte {
	out := make([]byte, 0, w*h*comps)
	for r := y; r < y+h; r++ {
		i := (r*width + x) * comps
		out = append(out, pix[i:i+w*comps]...)
	}

	return out
}

// packPixels copies r out of img as packed RGB.
func packPixels(img image.Image, r image.Rectangle) []byte {
	pix := make([]byte, 0, r.Dx()*r.Dy()*3)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			cr, cg, cb, _ := img.At(x, y).RGBA()
			pix = append(pix, byte(cr>>8), byte(cg>>8), byte(cb>>8))
		}
	}

	return pix
}

func TestDecodeRawGray(t *testing.T) {
	src := testGray(100, 100)
	res := DecodeRaw(stdJPEG(t, src, 90), nil)

	require.NoError(t, res.Err)
	require.NotNil(t, res.Pix)

	assert.Equal(t, 100, res.Width)
	assert.Equal(t, 100, res.Height)
	assert.Equal(t, 100, res.OriginWidth)
	assert.Equal(t, 100, res.OriginHeight)
	assert.Equal(t, ColorSpaceGrayscale, res.ColorSpace)
	assert.Equal(t, 1, res.NumComponents)
	assert.Equal(t, 100*100, res.Size)
	assert.Len(t, res.Pix, res.Size)

	assert.Less(t, meanAbsDiff(res.Pix, src.Pix), 3.0)
}

func TestDecodeRawColorMatchesStdlib(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"aligned", 64, 48},
		{"odd", 37, 29},
		{"single", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := stdJPEG(t, testRGBA(tt.w, tt.h), 90)

			res := DecodeRaw(data, &DecodeParams{DoFancyUpsampling: false})
			require.NoError(t, res.Err)
			require.Equal(t, ColorSpaceYCbCr, res.ColorSpace)
			require.Equal(t, 3, res.NumComponents)
			require.Len(t, res.Pix, tt.w*tt.h*3)

			ref, err := jpeg.Decode(bytes.NewReader(data))
			require.NoError(t, err)

			want := packPixels(ref, ref.Bounds())
			assert.Less(t, meanAbsDiff(res.Pix, want), 3.0)
		})
	}
}

func TestDecodeRawCrop(t *testing.T) {
	data := stdJPEG(t, testGray(100, 100), 90)

	full := DecodeRaw(data, nil)
	require.NoError(t, full.Err)

	tests := []struct {
		name          string
		crop          CropRect
		width, height int
	}{
		{"inside", CropRect{Left: 10, Top: 20, Width: 30, Height: 40}, 30, 40},
		{"clamped height", CropRect{Left: 10, Top: 10, Width: 50, Height: 200}, 50, 90},
		{"clamped both", CropRect{Left: 95, Top: 97, Width: 50, Height: 50}, 5, 3},
		{"origin", CropRect{Width: 8, Height: 8}, 8, 8},
		{"full width", CropRect{Top: 50, Width: 100, Height: 10}, 100, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := DecodeRaw(data, &DecodeParams{Crop: tt.crop})
			require.NoError(t, res.Err)
			require.NotNil(t, res.Pix)

			assert.Equal(t, tt.width, res.Width)
			assert.Equal(t, tt.height, res.Height)
			assert.Equal(t, 100, res.OriginWidth)
			assert.Equal(t, 100, res.OriginHeight)
			assert.Equal(t, ColorSpaceGrayscale, res.ColorSpace)
			assert.Equal(t, 1, res.NumComponents)
			assert.Equal(t, tt.width*tt.height, res.Size)

			want := subWindow(full.Pix, 100, 1, int(tt.crop.Left), int(tt.crop.Top), tt.width, tt.height)
			assert.Equal(t, want, res.Pix)
		})
	}
}

func TestDecodeRawCropColor(t *testing.T) {
	src := testRGBA(120, 90)
	crop := CropRect{Left: 37, Top: 21, Width: 45, Height: 33}

	for _, sub := range []Subsample{Subsample444, Subsample422, Subsample420, Subsample440, Subsample411} {
		enc := EncodeRaw(src.Pix, 120, 90, PixelFormatRGBA, &EncodeParams{Quality: 90, Subsample: sub})
		require.NoError(t, enc.Err)

		for _, fancy := range []bool{false, true} {
			full := DecodeRaw(enc.Buf, &DecodeParams{DoFancyUpsampling: fancy})
			require.NoError(t, full.Err)

			res := DecodeRaw(enc.Buf, &DecodeParams{Crop: crop, DoFancyUpsampling: fancy})
			require.NoError(t, res.Err)
			require.Equal(t, 45, res.Width)
			require.Equal(t, 33, res.Height)

			want := subWindow(full.Pix, 120, 3, 37, 21, 45, 33)
			assert.Equal(t, want, res.Pix, "subsampling %d fancy=%v", sub, fancy)
		}
	}
}

func TestDecodeRawCropOutside(t *testing.T) {
	data := stdJPEG(t, testGray(100, 100), 90)

	tests := []struct {
		name string
		crop CropRect
	}{
		{"left beyond width", CropRect{Left: 150, Width: 10, Height: 10}},
		{"left at width", CropRect{Left: 100, Width: 10, Height: 10}},
		{"top at height", CropRect{Top: 100, Width: 10, Height: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := DecodeRaw(data, &DecodeParams{Crop: tt.crop})
			assert.Nil(t, res.Pix)
			require.Error(t, res.Err)
			assert.Contains(t, res.Err.Error(), "outside image")

			assert.Equal(t, 100, res.OriginWidth)
			assert.Equal(t, ColorSpaceGrayscale, res.ColorSpace)
		})
	}
}

func TestDecodeRawZeroCropIsNoCrop(t *testing.T) {
	data := stdJPEG(t, testGray(40, 30), 90)

	plain := DecodeRaw(data, nil)
	zero := DecodeRaw(data, &DecodeParams{Crop: CropRect{Left: 5, Top: 5}, DoFancyUpsampling: true})

	require.NoError(t, plain.Err)
	require.NoError(t, zero.Err)
	assert.Equal(t, plain.Pix, zero.Pix)
}

func TestDecodeRawScale(t *testing.T) {
	data := stdJPEG(t, testRGBA(100, 60), 90)

	tests := []struct {
		num, denom    uint
		width, height int
	}{
		{0, 0, 100, 60},
		{1, 0, 100, 60},
		{1, 1, 100, 60},
		{1, 2, 50, 30},
		{3, 8, 50, 30},
		{1, 4, 25, 15},
		{1, 8, 13, 8},
		{2, 1, 100, 60},
	}

	for _, tt := range tests {
		res := DecodeRaw(data, &DecodeParams{ScaleNum: tt.num, ScaleDenom: tt.denom})
		require.NoError(t, res.Err, "%d/%d", tt.num, tt.denom)

		assert.Equal(t, tt.width, res.Width, "%d/%d", tt.num, tt.denom)
		assert.Equal(t, tt.height, res.Height, "%d/%d", tt.num, tt.denom)
		assert.Equal(t, 100, res.OriginWidth)
		assert.Equal(t, 60, res.OriginHeight)
		assert.Len(t, res.Pix, tt.width*tt.height*3)
	}
}

func TestDecodeRawScaledMatchesDownsample(t *testing.T) {
	src := testGray(64, 64)
	data := stdJPEG(t, src, 100)

	res := DecodeRaw(data, &DecodeParams{ScaleNum: 1, ScaleDenom: 2})
	require.NoError(t, res.Err)
	require.Equal(t, 32, res.Width)

	want := make([]byte, 32*32)
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			s := int(src.Pix[2*y*64+2*x]) + int(src.Pix[2*y*64+2*x+1]) +
				int(src.Pix[(2*y+1)*64+2*x]) + int(src.Pix[(2*y+1)*64+2*x+1])
			want[y*32+x] = uint8((s + 2) / 4)
		}
	}

	assert.Less(t, meanAbsDiff(res.Pix, want), 3.0)
}

func TestDecodeRawDCTMethods(t *testing.T) {
	data := stdJPEG(t, testRGBA(48, 40), 75)

	ref := DecodeRaw(data, &DecodeParams{DCTMethod: DCTMethodIntSlow})
	require.NoError(t, ref.Err)

	for _, m := range []DCTMethod{DCTMethodIntFast, DCTMethodFloat} {
		res := DecodeRaw(data, &DecodeParams{DCTMethod: m})
		require.NoError(t, res.Err)
		assert.Less(t, meanAbsDiff(res.Pix, ref.Pix), 1.5, "method %d", m)
	}

	res := DecodeRaw(data, &DecodeParams{DCTMethod: DCTMethod(7)})
	assert.Nil(t, res.Pix)
	require.Error(t, res.Err)
	assert.Equal(t, messageTable[errNotCompiled], res.Err.Error())
}

func TestDecodeRawIgnoresQuantizeOptions(t *testing.T) {
	data := stdJPEG(t, testRGBA(32, 32), 90)

	a := DecodeRaw(data, &DecodeParams{DoFancyUpsampling: true})
	b := DecodeRaw(data, &DecodeParams{
		DoFancyUpsampling:     true,
		TwoPassQuantize:       true,
		DitherMode:            DitherOrdered,
		DesiredNumberOfColors: -3,
	})

	require.NoError(t, a.Err)
	require.NoError(t, b.Err)
	assert.Equal(t, a.Pix, b.Pix)
}

func TestDecodeRawIdempotent(t *testing.T) {
	data := stdJPEG(t, testRGBA(50, 50), 80)
	p := &DecodeParams{Crop: CropRect{Left: 3, Top: 4, Width: 20, Height: 20}, DoFancyUpsampling: true}

	a := DecodeRaw(data, p)
	b := DecodeRaw(data, p)

	require.NoError(t, a.Err)
	assert.Equal(t, a.Width, b.Width)
	assert.Equal(t, a.Height, b.Height)
	assert.Equal(t, a.ColorSpace, b.ColorSpace)
	assert.Equal(t, a.NumComponents, b.NumComponents)
	assert.Equal(t, a.Pix, b.Pix)
}

func TestDecodeRawUnsupportedColorSpace(t *testing.T) {
	res := DecodeRaw(cmykHeader(), nil)

	assert.Nil(t, res.Pix)
	require.Error(t, res.Err)
	assert.Equal(t, "unsupported color space, which is 4", res.Err.Error())
	assert.Equal(t, ColorSpaceCMYK, res.ColorSpace)
	assert.Equal(t, 4, res.NumComponents)
	assert.Equal(t, 16, res.OriginWidth)
}

func TestDecodeRawErrors(t *testing.T) {
	gray := stdJPEG(t, testGray(32, 32), 90)

	// two stray bytes between SOI and the first table
	stray := append([]byte{0xff, 0xd8, 0x00, 0x00}, gray[2:]...)

	tests := []struct {
		name string
		data []byte
		msg  string
	}{
		{"empty", nil, "Empty input buffer"},
		{"not jpeg", []byte{0x01, 0x02, 0x03}, "Not a JPEG file: starts with 0x01 0x02"},
		{"soi only", []byte{0xff, 0xd8}, "JPEG datastream contains no image"},
		{"tables only", []byte{0xff, 0xd8, 0xff, 0xd9}, "JPEG datastream contains no image"},
		{"stray bytes", stray, "Corrupt JPEG data: 2 extraneous bytes before marker 0xdb"},
		{"unknown sof", []byte{0xff, 0xd8, 0xff, 0xc3, 0x00, 0x02}, "Unsupported JPEG process: SOF type 0xc3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := DecodeRaw(tt.data, nil)
			assert.Nil(t, res.Pix)
			require.Error(t, res.Err)
			assert.Equal(t, tt.msg, res.Err.Error())
		})
	}
}

func TestDecodeRawTruncated(t *testing.T) {
	data := stdJPEG(t, testRGBA(64, 64), 90)

	res := DecodeRaw(data[:len(data)*3/4], nil)
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "Premature end of JPEG file")
}

func TestDecodeRawGarbage(t *testing.T) {
	data := stdJPEG(t, testRGBA(64, 64), 90)

	for _, at := range []int{len(data) / 3, len(data) / 2, len(data) - 40} {
		bad := bytes.Clone(data)
		for i := at; i < at+16 && i < len(bad)-2; i++ {
			bad[i] ^= 0x5a
		}

		assert.NotPanics(t, func() {
			_ = DecodeRaw(bad, nil)
		})
	}
}

// decodeVariants covers every option that changes the decoded pixels.
var decodeVariants = map[string]*DecodeParams{
	"defaults":  nil,
	"no fancy":  {},
	"fancy":     {DoFancyUpsampling: true},
	"ifast":     {DCTMethod: DCTMethodIntFast, DoFancyUpsampling: true},
	"float":     {DCTMethod: DCTMethodFloat},
	"half":      {ScaleNum: 1, ScaleDenom: 2, DoFancyUpsampling: true},
	"quarter":   {ScaleNum: 1, ScaleDenom: 4, DCTMethod: DCTMethodIntFast},
	"eighth":    {ScaleNum: 1, ScaleDenom: 8},
	"crop":      {Crop: CropRect{Left: 21, Top: 9, Width: 30, Height: 20}, DoFancyUpsampling: true},
	"crop fast": {Crop: CropRect{Left: 40, Top: 30, Width: 30, Height: 15}, DCTMethod: DCTMethodIntFast},
}

var allSubsamples = []Subsample{SubsampleGray, Subsample444, Subsample422, Subsample420, Subsample440, Subsample411}

func TestDecodeRawProgressiveMatchesBaseline(t *testing.T) {
	src := testRGBA(70, 45)

	for _, sub := range allSubsamples {
		baseline := EncodeRaw(src.Pix, 70, 45, PixelFormatRGBA, &EncodeParams{Quality: 90, Subsample: sub})
		require.NoError(t, baseline.Err)

		progressive := EncodeRaw(src.Pix, 70, 45, PixelFormatRGBA, &EncodeParams{Quality: 90, Flags: FlagProgressive, Subsample: sub})
		require.NoError(t, progressive.Err)

		for name, p := range decodeVariants {
			want := DecodeRaw(baseline.Buf, p)
			require.NoError(t, want.Err)

			got := DecodeRaw(progressive.Buf, p)
			require.NoError(t, got.Err, "subsampling %d %s", sub, name)

			assert.Equal(t, want.Width, got.Width, "subsampling %d %s", sub, name)
			assert.Equal(t, want.Height, got.Height, "subsampling %d %s", sub, name)
			assert.Equal(t, want.Pix, got.Pix, "subsampling %d %s", sub, name)
		}
	}
}

func TestDecodeRawProgressiveOptions(t *testing.T) {
	src := testRGBA(80, 60)
	res := EncodeRaw(src.Pix, 80, 60, PixelFormatRGBA, &EncodeParams{Quality: 90, Flags: FlagProgressive, Subsample: Subsample420})
	require.NoError(t, res.Err)

	full := DecodeRaw(res.Buf, nil)
	require.NoError(t, full.Err)
	assert.Equal(t, 80, full.Width)
	assert.Equal(t, 60, full.Height)
	assert.Equal(t, ColorSpaceYCbCr, full.ColorSpace)
	assert.Len(t, full.Pix, 80*60*3)

	fast := DecodeRaw(res.Buf, &DecodeParams{DCTMethod: DCTMethodIntFast})
	require.NoError(t, fast.Err)
	assert.NotEqual(t, full.Pix, fast.Pix)

	scaled := DecodeRaw(res.Buf, &DecodeParams{ScaleNum: 1, ScaleDenom: 4})
	require.NoError(t, scaled.Err)
	assert.Equal(t, 20, scaled.Width)
	assert.Equal(t, 15, scaled.Height)

	cropped := DecodeRaw(res.Buf, &DecodeParams{Crop: CropRect{Left: 70, Top: 10, Width: 30, Height: 5}, DoFancyUpsampling: true})
	require.NoError(t, cropped.Err)
	assert.Equal(t, 10, cropped.Width)
	assert.Equal(t, 5, cropped.Height)
	assert.Equal(t, subWindow(full.Pix, 80, 3, 70, 10, 10, 5), cropped.Pix)

	outside := DecodeRaw(res.Buf, &DecodeParams{Crop: CropRect{Left: 80, Width: 1, Height: 1}})
	assert.Nil(t, outside.Pix)
	assert.Error(t, outside.Err)
}

// multiScanJPEG encodes an RGBA image as a sequential JPEG that sends each
// component in its own scan.
func multiScanJPEG(pix []byte, width, height int, sub Subsample) []byte {
	c := newCompressor()
	c.setQuality(90)
	c.setSampling(width, height, sub, false)
	c.transform(pix, width, width*4, height, PixelFormatRGBA, false)

	c.out = append(c.out, 0xff, markerSOI)
	c.out = append(c.out, jfifHeader...)
	c.writeDQT()
	c.writeSOF(width, height, markerSOF0)
	c.writeDHT()

	for i := len(c.comps) - 1; i >= 0; i-- {
		c.writeScan(i, c.writeBlock, progressiveScan{se: 63})
	}

	return append(c.out, 0xff, markerEOI)
}

func TestDecodeRawMultiScanSequential(t *testing.T) {
	src := testRGBA(70, 45)

	for _, sub := range []Subsample{Subsample444, Subsample420, Subsample411} {
		baseline := EncodeRaw(src.Pix, 70, 45, PixelFormatRGBA, &EncodeParams{Quality: 90, Subsample: sub})
		require.NoError(t, baseline.Err)

		data := multiScanJPEG(src.Pix, 70, 45, sub)

		for name, p := range decodeVariants {
			want := DecodeRaw(baseline.Buf, p)
			require.NoError(t, want.Err)

			got := DecodeRaw(data, p)
			require.NoError(t, got.Err, "subsampling %d %s", sub, name)
			assert.Equal(t, want.Pix, got.Pix, "subsampling %d %s", sub, name)
		}
	}
}

// scanParams returns the offset of the Ss byte of every scan header.
func scanParams(data []byte) []int {
	var offs []int
	for i := 0; i+3 < len(data); i++ {
		if data[i] == 0xff && data[i+1] == markerSOS {
			n := int(data[i+2])<<8 | int(data[i+3])
			offs = append(offs, i+2+n-3)
		}
	}

	return offs
}

func TestDecodeRawBadProgression(t *testing.T) {
	src := testRGBA(32, 32)
	res := EncodeRaw(src.Pix, 32, 32, PixelFormatRGBA, &EncodeParams{Quality: 90, Flags: FlagProgressive, Subsample: Subsample420})
	require.NoError(t, res.Err)

	scans := scanParams(res.Buf)
	require.Len(t, scans, len(colorScanScript))

	tests := []struct {
		name   string
		scan   int
		ss, se byte
		ahal   byte
		msg    string
	}{
		{"dc band with ac", 0, 0, 5, 0x01, "Invalid progressive parameters Ss=0 Se=5 Ah=0 Al=1"},
		{"band reversed", 1, 9, 5, 0x02, "Invalid progressive parameters Ss=9 Se=5 Ah=0 Al=2"},
		{"band past end", 1, 1, 64, 0x02, "Invalid progressive parameters Ss=1 Se=64 Ah=0 Al=2"},
		{"refine skips a bit", 5, 1, 63, 0x20, "Invalid progressive parameters Ss=1 Se=63 Ah=2 Al=0"},
		{"point transform too large", 1, 1, 5, 0x0e, "Invalid progressive parameters Ss=1 Se=5 Ah=0 Al=14"},
		{"refine before first pass", 1, 1, 5, 0x10, "Inconsistent progression sequence for component 0 coefficient 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := bytes.Clone(res.Buf)
			off := scans[tt.scan]
			data[off], data[off+1], data[off+2] = tt.ss, tt.se, tt.ahal

			got := DecodeRaw(data, nil)
			assert.Nil(t, got.Pix)
			require.Error(t, got.Err)
			assert.Equal(t, tt.msg, got.Err.Error())
		})
	}
}

func TestDecodeRawInterleavedACScan(t *testing.T) {
	src := testRGBA(32, 32)
	res := EncodeRaw(src.Pix, 32, 32, PixelFormatRGBA, &EncodeParams{Quality: 90, Flags: FlagProgressive, Subsample: Subsample444})
	require.NoError(t, res.Err)

	// The first scan carries all three components; make it an AC band.
	data := bytes.Clone(res.Buf)
	off := scanParams(data)[0]
	data[off], data[off+1] = 1, 5

	got := DecodeRaw(data, nil)
	assert.Nil(t, got.Pix)
	require.Error(t, got.Err)
	assert.Equal(t, "Invalid progressive parameters Ss=1 Se=5 Ah=0 Al=1", got.Err.Error())
}

func TestDecodeRawProgressiveTruncated(t *testing.T) {
	src := testRGBA(48, 32)
	res := EncodeRaw(src.Pix, 48, 32, PixelFormatRGBA, &EncodeParams{Quality: 90, Flags: FlagProgressive})
	require.NoError(t, res.Err)

	// Cut inside the last scan.
	scans := scanParams(res.Buf)
	data := res.Buf[:scans[len(scans)-1]+10]

	got := DecodeRaw(data, nil)
	assert.Nil(t, got.Pix)
	require.Error(t, got.Err)
	assert.Equal(t, messageTable[wrnJPEGEOF], got.Err.Error())
}

func TestScaledBlockSize(t *testing.T) {
	tests := []struct {
		num, denom uint
		want       int
	}{
		{0, 0, 8}, {0, 5, 8}, {5, 0, 8},
		{1, 1, 8}, {7, 8, 8}, {5, 8, 8},
		{1, 2, 4}, {3, 8, 4},
		{1, 4, 2}, {1, 5, 2},
		{1, 8, 1}, {1, 16, 1},
		{3, 1, 8},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, scaledBlockSize(tt.num, tt.denom), "%d/%d", tt.num, tt.denom)
	}
}

func BenchmarkDecodeRaw420(b *testing.B) {
	data := stdJPEG(b, testRGBA(512, 512), 90)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = DecodeRaw(data, nil)
	}
}

func BenchmarkDecodeRawCrop(b *testing.B) {
	data := stdJPEG(b, testRGBA(512, 512), 90)
	p := &DecodeParams{Crop: CropRect{Left: 200, Top: 200, Width: 100, Height: 100}}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = DecodeRaw(data, p)
	}
}

func BenchmarkDecodeStdLib(b *testing.B) {
	data := stdJPEG(b, testRGBA(512, 512), 90)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = jpeg.Decode(bytes.NewReader(data))
	}
}
