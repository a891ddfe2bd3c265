// Package image provides gel photograph loading, copying, and PNG export.
package image

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/tiff"
)

// ErrMalformedImage is returned when image data cannot be decoded.
var ErrMalformedImage = errors.New("malformed image")

// decodable lists the decoder names accepted for gels. imaging also
// registers gif and bmp, which are refused.
var decodable = map[string]bool{"png": true, "jpeg": true, "tiff": true}

// Gel is a decoded gel photograph.
type Gel struct {
	Path   string      // Source file path, empty for uploads
	Format string      // Decoder name: "png", "jpeg" or "tiff"
	Image  image.Image // Decoded pixels, EXIF orientation applied
}

// Decode reads an image from r. JPEG orientation tags are honoured so
// phone photos of a gel come out upright.
func Decode(r io.Reader) (*Gel, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrMalformedImage)
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedImage, err)
	}
	if !decodable[format] {
		return nil, fmt.Errorf("%w: unsupported format %q", ErrMalformedImage, format)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedImage, err)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("%w: zero-sized image", ErrMalformedImage)
	}

	return &Gel{Format: format, Image: img}, nil
}

// Load decodes the image at path.
func Load(path string) (*Gel, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	gel, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	gel.Path = path
	return gel, nil
}

// Width returns the image width in pixels.
func (g *Gel) Width() int {
	if g == nil || g.Image == nil {
		return 0
	}
	return g.Image.Bounds().Dx()
}

// Height returns the image height in pixels.
func (g *Gel) Height() int {
	if g == nil || g.Image == nil {
		return 0
	}
	return g.Image.Bounds().Dy()
}

// Clone returns an independent copy of img whose bounds start at (0,0).
func Clone(img image.Image) *image.NRGBA {
	return imaging.Clone(img)
}

// EncodePNG writes img to w as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := imaging.Encode(w, img, imaging.PNG); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// SavePNG writes img to path as PNG, adding the extension when missing.
func SavePNG(path string, img image.Image) (string, error) {
	if !strings.EqualFold(filepath.Ext(path), ".png") {
		path += ".png"
	}
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := EncodePNG(file, img); err != nil {
		file.Close()
		return "", err
	}
	return path, file.Close()
}

// SupportedFormats returns the list of supported image extensions.
func SupportedFormats() []string {
	return []string{".png", ".jpg", ".jpeg", ".tiff", ".tif"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}
