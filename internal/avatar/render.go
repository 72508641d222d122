package avatar

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strconv"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

var white = color.RGBA{255, 255, 255, 255}

// ParseHex converts "#rrggbb" to an opaque colour
func ParseHex(hex string) (color.RGBA, error) {
	if len(hex) != 7 || hex[0] != '#' {
		return color.RGBA{}, fmt.Errorf("invalid colour %q", hex)
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: %w", hex, err)
	}
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 255}, nil
}

// Render draws a size x size avatar: a filled circle in Color(name) with the
// initials centred in white. Pixels outside the circle stay transparent.
func Render(name string, size int) (*image.RGBA, error) {
	if size < 8 {
		return nil, fmt.Errorf("avatar size %d too small", size)
	}

	bg, err := ParseHex(Color(name))
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	drawCircle(img, bg)

	parsedFont, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	fontSize := float64(size) * 0.4
	face := truetype.NewFace(parsedFont, &truetype.Options{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	defer face.Close()

	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(white),
		Face: face,
	}

	text := Initials(name)
	advance := drawer.MeasureString(text)
	metrics := face.Metrics()
	x := (fixed.I(size) - advance) / 2
	y := (fixed.I(size) + metrics.Ascent - metrics.Descent) / 2
	drawer.Dot = fixed.Point26_6{X: x, Y: y}
	drawer.DrawString(text)

	return img, nil
}

// WritePNG renders the avatar for name and encodes it to w
func WritePNG(w io.Writer, name string, size int) error {
	img, err := Render(name, size)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode avatar: %w", err)
	}
	return nil
}

func drawCircle(img *image.RGBA, c color.RGBA) {
	bounds := img.Bounds()
	r := float64(bounds.Dx()) / 2
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			dx := float64(x) + 0.5 - r
			dy := float64(y) + 0.5 - r
			if dx*dx+dy*dy <= r*r {
				img.Set(x, y, c)
			}
		}
	}
}
