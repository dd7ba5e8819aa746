package images

import (
	"fmt"
	"image"
	"os"

	"github.com/bbrks/go-blurhash"
	"golang.org/x/image/draw"
)

// blurHashSize is the target size for BlurHash computation.
// A small thumbnail produces nearly identical hashes in a fraction of the time.
const blurHashSize = 64

// Import decodes an image file (JPEG, PNG, GIF or WebP) and shrinks it to fit
// in a maxSize square. maxSize <= 0 keeps the original size.
func Import(path string, maxSize int) (image.Image, error) {
	f, err := os.Open(path) //#nosec G304 -- path is chosen by the user
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return Fit(img, maxSize), nil
}

// Fit scales img down, keeping its aspect ratio, so that neither side exceeds
// maxSize. Smaller images and maxSize <= 0 return img unchanged.
func Fit(img image.Image, maxSize int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return img
	}
	dw, dh := maxSize, maxSize
	if w > h {
		dh = max(h*maxSize/w, 1)
	} else {
		dw = max(w*maxSize/h, 1)
	}
	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// Placeholder computes the BlurHash of img, shown while the cover loads or
// when it is missing at display time.
// Uses 4x3 components, a good balance of size (~20-30 chars) and detail.
func Placeholder(img image.Image) (string, error) {
	thumb := img
	if b := img.Bounds(); b.Dx() > blurHashSize || b.Dy() > blurHashSize {
		dst := image.NewRGBA(image.Rect(0, 0, blurHashSize, blurHashSize))
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		thumb = dst
	}
	hash, err := blurhash.Encode(4, 3, thumb)
	if err != nil {
		return "", fmt.Errorf("encode blurhash: %w", err)
	}
	return hash, nil
}
