package jpegturbo_test

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"log"

	"github.com/gen2brain/jpegturbo"
)

func sample() []byte {
	img := image.NewGray(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(x + y)})
		}
	}

	var buf bytes.Buffer
	if err := jpegturbo.EncodeImage(&buf, img, nil); err != nil {
		log.Fatal(err)
	}

	return buf.Bytes()
}

func ExampleDecode() {
	opts := jpegturbo.NewDecodeOptions()
	opts.ScaleNum, opts.ScaleDenom = 1, 2

	img, err := jpegturbo.Decode(sample(), opts)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(img.Width, img.Height, img.OriginWidth, img.OriginHeight, img.ColorSpace)
	// Output: 32 24 64 48 Grayscale
}

func ExampleDecode_crop() {
	crop := image.Rect(8, 8, 40, 100)

	img, err := jpegturbo.Decode(sample(), &jpegturbo.DecodeOptions{Crop: &crop, DoFancyUpsampling: true})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(img.Bounds())
	// Output: (0,0)-(32,40)
}

func ExampleDecodeRaw() {
	res := jpegturbo.DecodeRaw([]byte{0x01, 0x02, 0x03}, nil)

	fmt.Println(res.Pix == nil, res.Err)
	// Output: true Not a JPEG file: starts with 0x01 0x02
}

func ExampleEncode() {
	img, err := jpegturbo.Decode(sample(), nil)
	if err != nil {
		log.Fatal(err)
	}

	buf, err := jpegturbo.Encode(img, &jpegturbo.EncodeOptions{Quality: 80, Progressive: true, Subsample: jpegturbo.SubsampleGray})
	if err != nil {
		log.Fatal(err)
	}

	cfg, err := jpegturbo.DecodeConfig(bytes.NewReader(buf))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(cfg.Width, cfg.Height, cfg.ColorModel == color.GrayModel)
	// Output: 64 48 true
}
