package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/gen2brain/jpegturbo"
)

func main() {
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	log.SetOutput(os.Stderr)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "decode":
		err = runDecode(os.Args[2:])
	case "encode":
		err = runEncode(os.Args[2:])
	case "info":
		err = runInfo(os.Args[2:], os.Stdout)
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.WithField("command", os.Args[1]).Error(err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: jpegturbo <command> [args]")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  decode -in input.jpg -out output.{png,raw,raw.zst} [-crop l,t,w,h] [-scale 1/2] [-dct slow|fast|float] [-nofancy]")
	fmt.Fprintln(os.Stderr, "  encode -in input.{png,raw,raw.zst} -out output.jpg [-w 640 -h 480 -format rgb] [-q 95] [-sub 420] [-progressive] [-bottomup]")
	fmt.Fprintln(os.Stderr, "  info   -in input.jpg")
}

func verbose(fs *flag.FlagSet) *bool {
	return fs.Bool("v", false, "debug logging")
}

func setVerbose(v bool) {
	if v {
		log.SetLevel(log.DebugLevel)
	}
}

func runDecode(args []string) error {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	inPath := fs.String("in", "", "input JPEG")
	outPath := fs.String("out", "", "output PNG or raw pixels")
	crop := fs.String("crop", "", "crop region as left,top,width,height")
	scale := fs.String("scale", "", "scaling factor as num/denom")
	dct := fs.String("dct", "slow", "inverse DCT: slow, fast or float")
	noFancy := fs.Bool("nofancy", false, "disable fancy upsampling")
	v := verbose(fs)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	setVerbose(*v)

	if *inPath == "" || *outPath == "" {
		return errors.New("missing required arguments")
	}

	p := &jpegturbo.DecodeParams{
		TwoPassQuantize:       true,
		DitherMode:            jpegturbo.DitherFS,
		DesiredNumberOfColors: 256,
		DoFancyUpsampling:     !*noFancy,
	}

	var err error
	if p.Crop, err = parseCrop(*crop); err != nil {
		return err
	}
	if p.ScaleNum, p.ScaleDenom, err = parseScale(*scale); err != nil {
		return err
	}
	if p.DCTMethod, err = parseDCT(*dct); err != nil {
		return err
	}

	data, err := os.ReadFile(filepath.Clean(*inPath))
	if err != nil {
		return err
	}

	start := time.Now()
	res := jpegturbo.DecodeRaw(data, p)
	if res.Err != nil {
		return res.Err
	}

	log.WithFields(log.Fields{
		"file":       *inPath,
		"elapsed":    time.Since(start),
		"width":      res.Width,
		"height":     res.Height,
		"origin":     fmt.Sprintf("%dx%d", res.OriginWidth, res.OriginHeight),
		"colorspace": res.ColorSpace,
		"components": res.NumComponents,
	}).Info("decoded")

	if strings.EqualFold(filepath.Ext(*outPath), ".png") {
		comps := 3
		if res.ColorSpace == jpegturbo.ColorSpaceGrayscale {
			comps = 1
		}

		img := &jpegturbo.Image{
			Pix:           res.Pix,
			Width:         res.Width,
			Height:        res.Height,
			OriginWidth:   res.OriginWidth,
			OriginHeight:  res.OriginHeight,
			ColorSpace:    res.ColorSpace,
			NumComponents: comps,
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return err
		}

		return os.WriteFile(*outPath, buf.Bytes(), 0o644)
	}

	return writeRaw(*outPath, res.Pix)
}

func runEncode(args []string) error {
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	inPath := fs.String("in", "", "input PNG or raw pixels")
	outPath := fs.String("out", "", "output JPEG")
	width := fs.Int("w", 0, "raw input width")
	height := fs.Int("h", 0, "raw input height")
	format := fs.String("format", "rgb", "raw input pixel format")
	q := fs.Int("q", 95, "quality")
	sub := fs.String("sub", "420", "chroma subsampling: 444, 422, 420, 440, 411 or gray")
	progressive := fs.Bool("progressive", false, "write a progressive JPEG")
	bottomUp := fs.Bool("bottomup", false, "raw rows are stored bottom to top")
	v := verbose(fs)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	setVerbose(*v)

	if *inPath == "" || *outPath == "" {
		return errors.New("missing required arguments")
	}

	ss, err := parseSubsample(*sub)
	if err != nil {
		return err
	}

	p := &jpegturbo.EncodeParams{Quality: *q, Subsample: ss}
	if *progressive {
		p.Flags |= jpegturbo.FlagProgressive
	}
	if *bottomUp {
		p.Flags |= jpegturbo.FlagBottomUp
	}

	var (
		pix []byte
		pf  jpegturbo.PixelFormat
		w   = *width
		h   = *height
	)

	if strings.EqualFold(filepath.Ext(*inPath), ".png") {
		pix, w, h, pf, err = readPNG(*inPath)
	} else {
		if w <= 0 || h <= 0 {
			return errors.New("raw input needs -w and -h")
		}
		if pf, err = parsePixelFormat(*format); err != nil {
			return err
		}
		pix, err = readRaw(*inPath)
	}
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"width":     w,
		"height":    h,
		"format":    pf,
		"quality":   p.Quality,
		"subsample": *sub,
	}).Debug("encoding")

	start := time.Now()
	res := jpegturbo.EncodeRaw(pix, w, h, pf, p)
	if res.Err != nil {
		return res.Err
	}

	log.WithFields(log.Fields{
		"file":    *outPath,
		"elapsed": time.Since(start),
		"bytes":   res.Size,
	}).Info("encoded")

	return os.WriteFile(*outPath, res.Buf, 0o644)
}

func runInfo(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	inPath := fs.String("in", "", "input JPEG")
	v := verbose(fs)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	setVerbose(*v)

	if *inPath == "" {
		return errors.New("missing required arguments")
	}

	data, err := os.ReadFile(filepath.Clean(*inPath))
	if err != nil {
		return err
	}

	cfg, err := jpegturbo.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "size: %dx%d\n", cfg.Width, cfg.Height)

	exif, err := jpegturbo.DecodeExif(bytes.NewReader(data))
	switch {
	case errors.Is(err, jpegturbo.ErrNoExif):
		log.Debug("no exif")
		return nil
	case err != nil:
		log.WithError(err).Warn("exif")
		return nil
	}

	for _, kv := range [][2]string{
		{"make", exif.Make},
		{"model", exif.Model},
		{"software", exif.Software},
		{"datetime", exif.DateTime},
		{"orientation", strconv.Itoa(exif.Orientation)},
	} {
		if kv[1] != "" && kv[1] != "0" {
			fmt.Fprintf(w, "%s: %s\n", kv[0], kv[1])
		}
	}
	if exif.GPSLatitude != 0 || exif.GPSLongitude != 0 {
		fmt.Fprintf(w, "gps: %.6f,%.6f\n", exif.GPSLatitude, exif.GPSLongitude)
	}

	return nil
}

func readPNG(path string) ([]byte, int, int, jpegturbo.PixelFormat, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, 0, 0, 0, err
	}
	defer f.Close()

	m, err := png.Decode(f)
	if err != nil {
		return nil, 0, 0, 0, err
	}

	// The raw encoder wants packed rows with no stride padding.
	r := m.Bounds()
	if g, ok := m.(*image.Gray); ok {
		out := make([]byte, 0, r.Dx()*r.Dy())
		for y := r.Min.Y; y < r.Max.Y; y++ {
			out = append(out, g.Pix[g.PixOffset(r.Min.X, y):g.PixOffset(r.Max.X, y)]...)
		}

		return out, r.Dx(), r.Dy(), jpegturbo.PixelFormatGray, nil
	}

	out := make([]byte, 0, r.Dx()*r.Dy()*4)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			cr, cg, cb, _ := m.At(x, y).RGBA()
			out = append(out, byte(cr>>8), byte(cg>>8), byte(cb>>8), 0xff)
		}
	}

	return out, r.Dx(), r.Dy(), jpegturbo.PixelFormatRGBA, nil
}
