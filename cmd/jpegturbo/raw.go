package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/gen2brain/jpegturbo"
)

// Raw pixel files are plain packed rows. A .zst suffix means the rows are
// zstd compressed.
func isZstd(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".zst")
}

func readRaw(path string) ([]byte, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if !isZstd(path) {
		return io.ReadAll(f)
	}

	dec, err := zstd.NewReader(f, zstd.WithDecoderConcurrency(1), zstd.WithDecoderLowmem(true))
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	return io.ReadAll(dec)
}

func writeRaw(path string, pix []byte) error {
	if !isZstd(path) {
		return os.WriteFile(path, pix, 0o644)
	}

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return err
	}

	enc, err := zstd.NewWriter(f, zstd.WithEncoderConcurrency(1), zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		_ = f.Close()

		return err
	}

	if _, err := enc.Write(pix); err != nil {
		_ = enc.Close()
		_ = f.Close()

		return err
	}

	if err := enc.Close(); err != nil {
		_ = f.Close()

		return err
	}

	return f.Close()
}

func parseCrop(s string) (jpegturbo.CropRect, error) {
	if s == "" {
		return jpegturbo.CropRect{}, nil
	}

	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return jpegturbo.CropRect{}, fmt.Errorf("crop %q: want left,top,width,height", s)
	}

	var v [4]uint
	for i, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 32)
		if err != nil {
			return jpegturbo.CropRect{}, fmt.Errorf("crop %q: %w", s, err)
		}
		v[i] = uint(n)
	}

	return jpegturbo.CropRect{Left: v[0], Top: v[1], Width: v[2], Height: v[3]}, nil
}

func parseScale(s string) (num, denom uint, err error) {
	if s == "" {
		return 0, 0, nil
	}

	n, d, ok := strings.Cut(s, "/")
	if !ok {
		return 0, 0, fmt.Errorf("scale %q: want num/denom", s)
	}

	a, err := strconv.ParseUint(n, 10, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("scale %q: %w", s, err)
	}
	b, err := strconv.ParseUint(d, 10, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("scale %q: %w", s, err)
	}
	if a == 0 || b == 0 {
		return 0, 0, fmt.Errorf("scale %q: zero term", s)
	}

	return uint(a), uint(b), nil
}

func parseDCT(s string) (jpegturbo.DCTMethod, error) {
	switch strings.ToLower(s) {
	case "slow", "islow", "":
		return jpegturbo.DCTMethodIntSlow, nil
	case "fast", "ifast":
		return jpegturbo.DCTMethodIntFast, nil
	case "float":
		return jpegturbo.DCTMethodFloat, nil
	}

	return 0, fmt.Errorf("unknown dct method %q", s)
}

func parseSubsample(s string) (jpegturbo.Subsample, error) {
	switch strings.ToLower(s) {
	case "444":
		return jpegturbo.Subsample444, nil
	case "422":
		return jpegturbo.Subsample422, nil
	case "420", "":
		return jpegturbo.Subsample420, nil
	case "440":
		return jpegturbo.Subsample440, nil
	case "411":
		return jpegturbo.Subsample411, nil
	case "gray", "grey":
		return jpegturbo.SubsampleGray, nil
	}

	return 0, fmt.Errorf("unknown subsampling %q", s)
}

var pixelFormats = map[string]jpegturbo.PixelFormat{
	"rgb":  jpegturbo.PixelFormatRGB,
	"bgr":  jpegturbo.PixelFormatBGR,
	"rgbx": jpegturbo.PixelFormatRGBX,
	"bgrx": jpegturbo.PixelFormatBGRX,
	"xbgr": jpegturbo.PixelFormatXBGR,
	"xrgb": jpegturbo.PixelFormatXRGB,
	"gray": jpegturbo.PixelFormatGray,
	"rgba": jpegturbo.PixelFormatRGBA,
	"bgra": jpegturbo.PixelFormatBGRA,
	"abgr": jpegturbo.PixelFormatABGR,
	"argb": jpegturbo.PixelFormatARGB,
	"cmyk": jpegturbo.PixelFormatCMYK,
}

func parsePixelFormat(s string) (jpegturbo.PixelFormat, error) {
	pf, ok := pixelFormats[strings.ToLower(s)]
	if !ok {
		return 0, fmt.Errorf("unknown pixel format %q", s)
	}

	return pf, nil
}
