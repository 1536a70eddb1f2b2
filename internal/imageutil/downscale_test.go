package imageutil

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x += 10 {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}

func decodeBounds(t *testing.T, data []byte) (int, int) {
	t.Helper()
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode result: %v", err)
	}
	return img.Bounds().Dx(), img.Bounds().Dy()
}

func TestDownscaleSmallImageUnchanged(t *testing.T) {
	data := encodePNG(t, 100, 80)
	out, err := Downscale(data, 2048)
	if err != nil {
		t.Fatalf("Downscale error: %v", err)
	}
	if !bytes.Equal(data, out) {
		t.Error("image within bounds should be returned unchanged")
	}
}

func TestDownscaleLandscape(t *testing.T) {
	data := encodePNG(t, 400, 200)
	out, err := Downscale(data, 100)
	if err != nil {
		t.Fatalf("Downscale error: %v", err)
	}
	w, h := decodeBounds(t, out)
	if w != 100 || h != 50 {
		t.Errorf("bounds = %dx%d, want 100x50", w, h)
	}
}

func TestDownscalePortrait(t *testing.T) {
	data := encodePNG(t, 200, 400)
	out, err := Downscale(data, 100)
	if err != nil {
		t.Fatalf("Downscale error: %v", err)
	}
	w, h := decodeBounds(t, out)
	if w != 50 || h != 100 {
		t.Errorf("bounds = %dx%d, want 50x100", w, h)
	}
}

func TestToPNG(t *testing.T) {
	data := encodePNG(t, 10, 10)
	out, err := ToPNG(data)
	if err != nil {
		t.Fatalf("ToPNG error: %v", err)
	}
	if w, h := decodeBounds(t, out); w != 10 || h != 10 {
		t.Errorf("bounds = %dx%d, want 10x10", w, h)
	}
}

func TestToPNGGarbage(t *testing.T) {
	if _, err := ToPNG([]byte("not an image")); err == nil {
		t.Fatal("expected error for undecodable input")
	}
}
