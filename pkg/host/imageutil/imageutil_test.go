package imageutil

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func samplePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 16), B: 0, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestLoadReportsDimensionsAndMime(t *testing.T) {
	_, data, err := Load(samplePNG(t))
	if err != nil {
		t.Fatal(err)
	}
	if data.Mime != "image/png" || data.Width != 8 || data.Height != 8 {
		t.Errorf("got %+v", data)
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	if _, _, err := Load([]byte("not an image")); err == nil {
		t.Fatal("expected an error for non-image input")
	}
}

func TestHashesAreDeterministic(t *testing.T) {
	img, _, err := Load(samplePNG(t))
	if err != nil {
		t.Fatal(err)
	}
	a1, err := AHash(img)
	if err != nil {
		t.Fatal(err)
	}
	a2, err := AHash(img)
	if err != nil {
		t.Fatal(err)
	}
	if a1 != a2 {
		t.Error("expected AHash to be deterministic for the same image")
	}

	if _, err := DHash(img); err != nil {
		t.Fatal(err)
	}
	if _, err := PHash(img); err != nil {
		t.Fatal(err)
	}
}

func TestGPSErrorsWithoutExif(t *testing.T) {
	if _, err := GPS(samplePNG(t)); err == nil {
		t.Fatal("expected an error decoding EXIF from a PNG with no EXIF segment")
	}
}
