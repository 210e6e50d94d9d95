package jpegturbo

import (
	"image"
	"image/color"
)

var _ image.Image = (*Image)(nil)

// Image is a decoded picture in packed RGB or grayscale form. It
// implements image.Image, so it can be handed to other image packages
// directly.
type Image struct {
	Pix []byte
	// Width and Height are the output size, after crop and scale.
	Width, Height int
	// OriginWidth and OriginHeight are the size stored in the file.
	OriginWidth, OriginHeight int
	// ColorSpace of the source, Grayscale or YCbCr.
	ColorSpace    ColorSpace
	NumComponents int
}

func (img *Image) ColorModel() color.Model {
	if img.ColorSpace == ColorSpaceGrayscale {
		return color.GrayModel
	}

	return color.RGBAModel
}

func (img *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, img.Width, img.Height)
}

func (img *Image) At(x, y int) color.Color {
	gray := img.ColorSpace == ColorSpaceGrayscale

	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		if gray {
			return color.Gray{}
		}

		return color.RGBA{}
	}

	i := (y*img.Width + x) * img.NumComponents
	if gray {
		return color.Gray{Y: img.Pix[i]}
	}

	return color.RGBA{R: img.Pix[i], G: img.Pix[i+1], B: img.Pix[i+2], A: 0xff}
}

// PixelFormat is the layout of Pix.
func (img *Image) PixelFormat() PixelFormat {
	if img.ColorSpace == ColorSpaceGrayscale {
		return PixelFormatGray
	}

	return PixelFormatRGB
}

// ResizeNN scales with nearest neighbour sampling. It is fast but aliases.
func (img *Image) ResizeNN(width, height int) (*Image, error) {
	return ResizeNN(img, width, height)
}

// ResizeArea shrinks by averaging the source pixels each output pixel
// covers. It cannot enlarge.
func (img *Image) ResizeArea(width, height int) (*Image, error) {
	return ResizeArea(img, width, height)
}

// ResizeBilinear scales with bilinear interpolation. A zero width or height
// keeps the aspect ratio.
func (img *Image) ResizeBilinear(width, height uint) image.Image {
	return ResizeBilinear(img, width, height)
}
