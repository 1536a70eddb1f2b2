package imageutil

import (
	"bytes"
	"image"
	"image/png"

	"golang.org/x/image/draw"
)

// DefaultMaxDimension bounds the longest edge of images sent to the vision
// model. Oversized uploads waste tokens without improving extraction.
const DefaultMaxDimension = 2048

// Downscale shrinks a PNG so that neither dimension exceeds maxDim,
// preserving aspect ratio. Images already within bounds are returned
// unchanged.
func Downscale(pngData []byte, maxDim int) ([]byte, error) {
	if maxDim <= 0 {
		maxDim = DefaultMaxDimension
	}

	img, _, err := image.Decode(bytes.NewReader(pngData))
	if err != nil {
		return nil, &DecodeError{Op: "decode_for_downscale", Err: err}
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= maxDim && height <= maxDim {
		return pngData, nil
	}

	var newWidth, newHeight int
	if width > height {
		newWidth = maxDim
		newHeight = height * maxDim / width
	} else {
		newHeight = maxDim
		newWidth = width * maxDim / height
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, &DecodeError{Op: "encode_downscaled", Err: err}
	}
	return buf.Bytes(), nil
}
