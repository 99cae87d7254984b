// Package render loads master images, resizes them and writes the
// resulting icon files. Decoding, resampling and encoding come from
// image libraries; this package only picks and wires them.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io/fs"
	"os"

	"github.com/jackmordaunt/icns/v3"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/Mavwarf/appicon/internal/catalog"
	"github.com/Mavwarf/appicon/internal/paths"
)

var (
	// ErrInputNotFound is returned by Load when the input path is missing
	// or is not a regular file.
	ErrInputNotFound = errors.New("input not found")
	// ErrDecode is returned by Load when the file exists but is not a
	// decodable image, or decodes to an image with no pixels.
	ErrDecode = errors.New("not a decodable image")
	// ErrUnreadable is returned by Load when the input exists but cannot
	// be read (permissions, a file used as a directory, I/O errors).
	ErrUnreadable = errors.New("input not readable")
)

// Load opens and decodes the image at path. The second return value is
// the format name reported by the decoder ("png", "jpeg", "webp", ...).
func Load(path string) (image.Image, string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return nil, "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if info.IsDir() {
		return nil, "", fmt.Errorf("%w: %s is a directory", ErrInputNotFound, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}
	if img.Bounds().Empty() {
		return nil, "", fmt.Errorf("%w: %s: empty image", ErrDecode, path)
	}
	return img, format, nil
}

// Normalize returns img scaled to the master size. The bool reports
// whether a resize was needed; already-normalized images are returned
// unchanged.
func Normalize(img image.Image, r Resampler) (image.Image, bool) {
	b := img.Bounds()
	if b.Dx() == catalog.MasterSize && b.Dy() == catalog.MasterSize {
		return img, false
	}
	return r.Resize(img, catalog.MasterSize, catalog.MasterSize), true
}

// Resize scales img to a size×size square.
func Resize(img image.Image, size int, r Resampler) image.Image {
	return r.Resize(img, size, size)
}

// EncodePNG returns img as a best-compression PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}

// WritePNG encodes img and writes it to path atomically, so a failed
// run never leaves a truncated file behind.
func WritePNG(path string, img image.Image) error {
	data, err := EncodePNG(img)
	if err != nil {
		return err
	}
	return paths.AtomicWrite(path, data)
}

// WriteICNS writes a macOS icon bundle built from img to path.
func WriteICNS(path string, img image.Image) error {
	var buf bytes.Buffer
	if err := icns.Encode(&buf, img); err != nil {
		return fmt.Errorf("encoding icns: %w", err)
	}
	return paths.AtomicWrite(path, buf.Bytes())
}
