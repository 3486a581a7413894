// Package imageutil implements the image host functions
// (SPEC_FULL.md §4.4's `img_load`/`img_ahash`/`img_dhash`/`img_phash`/
// `img_exif`) that scripts call on blob ids. Grounded on
// _examples/original_source/src/gfx/mod.rs and
// _examples/original_source/src/runtime/gfx.rs, translated from the
// `image`+`img_hash` Rust crates to the standard library's `image`
// package plus `github.com/corona10/goimagehash`.
package imageutil

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/corona10/goimagehash"
)

// Data is the {mime, width, height} triple `img_load` hands back.
type Data struct {
	Mime   string `json:"mime"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

var mimeByFormat = map[string]string{
	"png":  "image/png",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
}

// Load decodes buf and reports its format/dimensions, the same
// guess-format-then-decode sequence gfx.rs's `load` performs.
func Load(buf []byte) (image.Image, Data, error) {
	img, format, err := image.Decode(bytes.NewReader(buf))
	if err != nil {
		return nil, Data{}, fmt.Errorf("failed to decode image: %w", err)
	}
	mime, ok := mimeByFormat[format]
	if !ok {
		return nil, Data{}, fmt.Errorf("unsupported format: %s", format)
	}
	bounds := img.Bounds()
	return img, Data{Mime: mime, Width: bounds.Dx(), Height: bounds.Dy()}, nil
}

// AHash, DHash and PHash mirror gfx.rs's `perception_hash` calls with
// HashAlg::{Mean,Gradient,Median}, rendered as their hex string form.
func AHash(img image.Image) (string, error) {
	h, err := goimagehash.AverageHash(img)
	if err != nil {
		return "", err
	}
	return h.ToString(), nil
}

func DHash(img image.Image) (string, error) {
	h, err := goimagehash.DifferenceHash(img)
	if err != nil {
		return "", err
	}
	return h.ToString(), nil
}

func PHash(img image.Image) (string, error) {
	h, err := goimagehash.PerceptionHash(img)
	if err != nil {
		return "", err
	}
	return h.ToString(), nil
}
