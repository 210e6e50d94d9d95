package jpegturbo

import (
	"errors"
	"image"
	"math"

	"github.com/nfnt/resize"
)

// ErrWrongDstSize is returned for a target size a resizer cannot produce.
var ErrWrongDstSize = errors.New("invalid destination width or height")

func newImageLike(src *Image, width, height int) *Image {
	return &Image{
		Pix:           make([]byte, width*height*src.NumComponents),
		Width:         width,
		Height:        height,
		OriginWidth:   width,
		OriginHeight:  height,
		ColorSpace:    src.ColorSpace,
		NumComponents: src.NumComponents,
	}
}

// ResizeNN scales src to width x height by picking the nearest source pixel.
func ResizeNN(src *Image, width, height int) (*Image, error) {
	if width <= 0 || height <= 0 || src.Width <= 0 || src.Height <= 0 {
		return nil, ErrWrongDstSize
	}

	dst := newImageLike(src, width, height)
	c := src.NumComponents

	// source byte offset of each output column
	cols := make([]int, width)
	for x := range cols {
		cols[x] = min(x*src.Width/width, src.Width-1) * c
	}

	o := 0
	for y := 0; y < height; y++ {
		row := src.Pix[min(y*src.Height/height, src.Height-1)*src.Width*c:]

		switch c {
		case 1:
			for _, sx := range cols {
				dst.Pix[o] = row[sx]
				o++
			}
		case 3:
			for _, sx := range cols {
				dst.Pix[o], dst.Pix[o+1], dst.Pix[o+2] = row[sx], row[sx+1], row[sx+2]
				o += 3
			}
		default:
			for _, sx := range cols {
				o += copy(dst.Pix[o:o+c], row[sx:sx+c])
			}
		}
	}

	return dst, nil
}

// areaWeight is the share src contributes to output index dst.
type areaWeight struct {
	dst, src int
	w        float32
}

// areaTable splits every output cell of width srcSize/dstSize over the
// source pixels it overlaps. Entries are ordered by dst, then src.
func areaTable(srcSize, dstSize int) []areaWeight {
	scale := float64(srcSize) / float64(dstSize)
	tab := make([]areaWeight, 0, srcSize+dstSize)

	for i := 0; i < dstSize; i++ {
		start := float64(i) * scale
		end := math.Min(start+scale, float64(srcSize))

		for j := int(start); j < srcSize && float64(j) < end; j++ {
			cover := math.Min(end, float64(j+1)) - math.Max(start, float64(j))
			if cover < 1e-6 {
				continue
			}
			tab = append(tab, areaWeight{dst: i, src: j, w: float32(cover / scale)})
		}
	}

	return tab
}

// ResizeArea shrinks src to width x height, averaging the source area under
// each output pixel. Enlarging returns ErrWrongDstSize.
func ResizeArea(src *Image, width, height int) (*Image, error) {
	if width <= 0 || height <= 0 || width > src.Width || height > src.Height {
		return nil, ErrWrongDstSize
	}

	dst := newImageLike(src, width, height)
	c := src.NumComponents
	htab := areaTable(src.Width, width)
	vtab := areaTable(src.Height, height)

	line := make([]float32, width*c)
	acc := make([]float32, width*c)

	flush := func(y int) {
		out := dst.Pix[y*width*c : (y+1)*width*c]
		for i, v := range acc {
			out[i] = uint8(min(v+0.5, 255))
			acc[i] = 0
		}
	}

	cur, last := 0, -1
	for _, v := range vtab {
		if v.dst != cur {
			flush(cur)
			cur = v.dst
		}

		if v.src != last {
			clear(line)
			row := src.Pix[v.src*src.Width*c:]
			for _, h := range htab {
				for k := 0; k < c; k++ {
					line[h.dst*c+k] += float32(row[h.src*c+k]) * h.w
				}
			}
			last = v.src
		}

		for i, s := range line {
			acc[i] += s * v.w
		}
	}
	flush(cur)

	return dst, nil
}

// ResizeBilinear scales src with bilinear interpolation. A zero width or
// height keeps the aspect ratio.
func ResizeBilinear(src *Image, width, height uint) image.Image {
	return resize.Resize(width, height, src, resize.Bilinear)
}
