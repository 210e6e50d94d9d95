package jpegturbo

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"sync"

	"golang.org/x/image/draw"
)

// Errors returned by the Go API.
var (
	ErrEmptyInput         = errors.New("empty input")
	ErrEmptyDecode        = errors.New("decoder produced no image")
	ErrOptionsUnsupported = errors.New("unsupported combination of options")
	ErrQualityOption      = errors.New("quality must be between 0 and 100")
	ErrDecode             = errors.New("decode failed")
	ErrEncode             = errors.New("encode failed")
	ErrImgEmpty           = errors.New("image is empty")
	ErrImgSizeInvalid     = errors.New("pixel buffer does not match image size")
	ErrNoExif             = errors.New("no EXIF data found")
)

// A reasonable upper limit for the size of JPEG headers.
const maxHeaderSize = 65536

var headerBufferPool = sync.Pool{
	New: func() any {
		b := make([]byte, maxHeaderSize)

		return &b
	},
}

type readerWithLen interface {
	Len() int
}

// readAllData reads data from r, pre-allocating if the size is known.
func readAllData(r io.Reader) ([]byte, error) {
	if rl, ok := r.(readerWithLen); ok {
		size := rl.Len()
		if size > 0 {
			data := make([]byte, size)
			_, err := io.ReadFull(r, data)
			if err != nil {
				return nil, fmt.Errorf("failed to read image data: %w", err)
			}

			return data, nil
		}
	}

	return io.ReadAll(r)
}

// Decode decodes a JPEG held in buf. A nil opts keeps the codec defaults,
// the same values NewDecodeOptions returns. A zero DecodeOptions is not
// the same thing: it turns fancy upsampling off.
//
// Progressive and multi-scan files honour every option, like baseline
// ones. CMYK and YCCK files are rejected.
func Decode(buf []byte, opts *DecodeOptions) (*Image, error) {
	img, _, err := decode(buf, opts)

	return img, err
}

// DecodeReader reads everything from r and decodes it like Decode.
func DecodeReader(r io.Reader, opts *DecodeOptions) (*Image, error) {
	data, err := readAllData(r)
	if err != nil {
		return nil, err
	}

	return Decode(data, opts)
}

func decode(buf []byte, opts *DecodeOptions) (*Image, DecodeResult, error) {
	if len(buf) == 0 {
		return nil, DecodeResult{}, ErrEmptyInput
	}

	p, err := opts.params()
	if err != nil {
		return nil, DecodeResult{}, err
	}

	res := DecodeRaw(buf, p)
	if res.Err != nil {
		return nil, res, fmt.Errorf("%w: %v", ErrDecode, res.Err)
	}
	if res.Pix == nil {
		return nil, res, ErrEmptyDecode
	}

	comps := 3
	if res.ColorSpace == ColorSpaceGrayscale {
		comps = 1
	}

	return &Image{
		Pix:           res.Pix,
		Width:         res.Width,
		Height:        res.Height,
		OriginWidth:   res.OriginWidth,
		OriginHeight:  res.OriginHeight,
		ColorSpace:    res.ColorSpace,
		NumComponents: comps,
	}, res, nil
}

// Encode compresses img. A nil opts means quality 95 with 4:2:0
// subsampling; grayscale images always produce a grayscale JPEG.
func Encode(img *Image, opts *EncodeOptions) ([]byte, error) {
	if img == nil || len(img.Pix) == 0 || img.Width <= 0 || img.Height <= 0 {
		return nil, ErrImgEmpty
	}

	if img.NumComponents != img.PixelFormat().Size() || len(img.Pix) != img.Width*img.Height*img.NumComponents {
		return nil, ErrImgSizeInvalid
	}

	return encodePixels(img.Pix, img.Width, img.Height, img.PixelFormat(), opts)
}

// EncodeImage writes m to w as a JPEG. *image.Gray is encoded as a
// grayscale JPEG; every other image is converted to RGBA first.
func EncodeImage(w io.Writer, m image.Image, opts *EncodeOptions) error {
	if m == nil || m.Bounds().Empty() {
		return ErrImgEmpty
	}

	var (
		buf []byte
		err error
	)

	switch src := m.(type) {
	case *Image:
		buf, err = Encode(src, opts)
	case *image.Gray:
		r := src.Bounds()
		buf, err = encodePixels(packedPix(src.Pix, src.Stride, src.PixOffset(r.Min.X, r.Min.Y), r.Dx(), r.Dy()),
			r.Dx(), r.Dy(), PixelFormatGray, opts)
	default:
		rgba, ok := m.(*image.RGBA)
		if !ok {
			r := m.Bounds()
			rgba = image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
			draw.Draw(rgba, rgba.Bounds(), m, r.Min, draw.Src)
		}

		r := rgba.Bounds()
		buf, err = encodePixels(packedPix(rgba.Pix, rgba.Stride, rgba.PixOffset(r.Min.X, r.Min.Y), r.Dx()*4, r.Dy()),
			r.Dx(), r.Dy(), PixelFormatRGBA, opts)
	}

	if err != nil {
		return err
	}

	_, err = w.Write(buf)

	return err
}

func encodePixels(pix []byte, width, height int, pf PixelFormat, opts *EncodeOptions) ([]byte, error) {
	p, err := opts.params()
	if err != nil {
		return nil, err
	}

	res := EncodeRaw(pix, width, height, pf, p)
	if res.Err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, res.Err)
	}

	return res.Buf, nil
}

// packedPix returns rows of rowBytes starting at off with no gaps between
// them, copying only when the stride has padding.
func packedPix(pix []byte, stride, off, rowBytes, rows int) []byte {
	if stride == rowBytes {
		return pix[off : off+rowBytes*rows]
	}

	out := make([]byte, rowBytes*rows)
	for y := 0; y < rows; y++ {
		copy(out[y*rowBytes:(y+1)*rowBytes], pix[off+y*stride:])
	}

	return out
}

// DecodeConfig returns the color model and dimensions of a JPEG image
// without decoding the scan data.
func DecodeConfig(r io.Reader) (image.Config, error) {
	bufPtr := headerBufferPool.Get().(*[]byte)
	defer headerBufferPool.Put(bufPtr)
	headerData := *bufPtr

	n, err := io.ReadFull(r, headerData)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		if errors.Is(err, io.EOF) {
			return image.Config{}, ErrEmptyInput
		}

		return image.Config{}, err
	}

	info, err := readHeaderInfo(headerData[:n])
	if err != nil && n == maxHeaderSize {
		// The headers did not fit, so read the rest of the stream.
		rest, rerr := io.ReadAll(r)
		if rerr != nil {
			return image.Config{}, rerr
		}

		full := append(append(make([]byte, 0, n+len(rest)), headerData...), rest...)
		info, err = readHeaderInfo(full)
	}

	if err != nil {
		return image.Config{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	var cm color.Model
	switch info.colorSpace {
	case ColorSpaceGrayscale:
		cm = color.GrayModel
	case ColorSpaceCMYK, ColorSpaceYCCK:
		cm = color.CMYKModel
	default:
		cm = color.RGBAModel
	}

	return image.Config{
		ColorModel: cm,
		Width:      info.width,
		Height:     info.height,
	}, nil
}

// decodeImage backs image.Decode. Files this package rejects because of
// their color space go to image/jpeg instead.
func decodeImage(r io.Reader) (image.Image, error) {
	data, err := readAllData(r)
	if err != nil {
		return nil, err
	}

	img, res, err := decode(data, nil)
	if err != nil {
		if res.ColorSpace == ColorSpaceCMYK || res.ColorSpace == ColorSpaceYCCK {
			return jpeg.Decode(bytes.NewReader(data))
		}

		return nil, err
	}

	return img, nil
}

func init() {
	image.RegisterFormat("jpeg", "\xff\xd8", decodeImage, DecodeConfig)
}
