package texture

import (
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"github.com/pkg/errors"
)

// LoadTexture reads a TGA, PNG or JPEG file and returns an NRGBA image.
// The decoder is picked by extension; TGA has no magic number to sniff.
func LoadTexture(path string) (*image.NRGBA, error) {
	var decode func(io.Reader) (image.Image, error)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".tga":
		decode = tga.Decode
	case ".png":
		decode = png.Decode
	case ".jpg", ".jpeg":
		decode = jpeg.Decode
	default:
		return nil, errors.Errorf("texture: unknown extension %q: %s", ext, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "texture: open %s", path)
	}
	defer f.Close()

	img, err := decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "texture: decode %s", path)
	}

	return toNRGBA(img), nil
}

// toNRGBA converts any image to NRGBA format with its origin at (0, 0).
func toNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	if n, ok := src.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	// Check if source has alpha
	switch src.(type) {
	case *image.YCbCr, *image.Gray:
		// No alpha, draw and set alpha to 255
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
		for i := 3; i < len(dst.Pix); i += 4 {
			dst.Pix[i] = 255
		}
	default:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
				dst.SetNRGBA(x-b.Min.X, y-b.Min.Y, c)
			}
		}
	}
	return dst
}
