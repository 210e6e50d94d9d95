// Package jpegturbo decodes and encodes JPEG images with a libjpeg-style
// codec written in Go.
//
// DecodeRaw and EncodeRaw are the low-level entry points. They never panic:
// every fatal error and every warning raised by the codec is turned into the
// Err field of the result, with the same message text libjpeg-turbo prints.
// Decoding can crop a region of interest and scale by 1/2, 1/4 or 1/8 during
// the inverse DCT.
//
// Decode, Encode, EncodeImage, DecodeConfig and DecodeExif wrap the raw
// calls with option structs and sentinel errors. Importing the package
// registers the "jpeg" format with the image package.
package jpegturbo
