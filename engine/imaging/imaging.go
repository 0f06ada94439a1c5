// Package imaging turns decoded MIX sprites into standard library images.
package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	xdraw "golang.org/x/image/draw"

	"github.com/1siamBot/mixkit/engine/mix"
)

// ErrNoPalette is returned when a frame's palette index has no matching palette.
var ErrNoPalette = errors.New("imaging: palette index out of range")

// Options controls colour conversion.
type Options struct {
	// TransparentZero gives palette index 0 an alpha of 0.
	TransparentZero bool
}

// ColorPalette converts a decoded palette to a color.Palette.
func ColorPalette(p *mix.Palette, o Options) color.Palette {
	out := make(color.Palette, mix.PaletteSize)
	for i, c := range p {
		out[i] = color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
	}
	if o.TransparentZero {
		out[0] = color.RGBA{}
	}
	return out
}

// PaletteFor resolves the frame's palette index against palettes. The decoder
// never checks the index, so this is where it gets rejected.
func PaletteFor(f *mix.Frame, palettes []mix.Palette) (*mix.Palette, error) {
	if f.PaletteIndex < 0 || int(f.PaletteIndex) >= len(palettes) {
		return nil, fmt.Errorf("%w: %d of %d", ErrNoPalette, f.PaletteIndex, len(palettes))
	}
	return &palettes[f.PaletteIndex], nil
}

// Frame renders f through pal. The pixel slice is copied.
func Frame(f *mix.Frame, pal *mix.Palette, o Options) *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, int(f.Width), int(f.Height)), ColorPalette(pal, o))
	copy(img.Pix, f.Pixels)
	return img
}

// FrameImage renders the frame through its own palette, falling back to the
// first palette when the index is out of range. The returned error reports the
// fallback; the image is still usable.
func FrameImage(f *mix.Frame, palettes []mix.Palette, o Options) (*image.Paletted, error) {
	pal, err := PaletteFor(f, palettes)
	if err == nil {
		return Frame(f, pal, o), nil
	}
	if len(palettes) == 0 {
		gray := grayPalette()
		return Frame(f, &gray, o), err
	}
	return Frame(f, &palettes[0], o), err
}

func grayPalette() mix.Palette {
	var p mix.Palette
	for i := range p {
		p[i] = mix.Color{R: uint8(i), G: uint8(i), B: uint8(i), A: 0xFF}
	}
	return p
}

// ─── Previews ──────────────────────────────────────────────────────────────

// SwatchCell is the edge of one colour square in a palette swatch.
const SwatchCell = 10

// Swatch draws the palette as a 16x16 grid of SwatchCell-sized squares.
func Swatch(p *mix.Palette) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 16*SwatchCell, 16*SwatchCell))
	for i, c := range p {
		cell := image.Rect(0, 0, SwatchCell, SwatchCell).Add(image.Pt(i%16*SwatchCell, i/16*SwatchCell))
		xdraw.Draw(img, cell, image.NewUniform(color.RGBA{c.R, c.G, c.B, c.A}), image.Point{}, xdraw.Src)
	}
	return img
}

// Sheet lays out every frame of the asset on a grid. Cells are as large as the
// largest frame; frames are top-left aligned.
func Sheet(s *mix.SpriteAsset, cols int, o Options) *image.RGBA {
	n := len(s.Frames)
	if n == 0 {
		return nil
	}
	if cols < 1 || cols > n {
		cols = n
	}
	rows := (n + cols - 1) / cols

	cw, ch := 0, 0
	for i := range s.Frames {
		cw = max(cw, int(s.Frames[i].Width))
		ch = max(ch, int(s.Frames[i].Height))
	}
	sheet := image.NewRGBA(image.Rect(0, 0, cw*cols, ch*rows))

	for i := range s.Frames {
		frame, _ := FrameImage(&s.Frames[i], s.Palettes, o)
		at := image.Pt(i%cols*cw, i/cols*ch)
		xdraw.Draw(sheet, frame.Bounds().Add(at), frame, image.Point{}, xdraw.Over)
	}
	return sheet
}

// Scale enlarges img by an integer factor with nearest-neighbour sampling so
// palette pixels stay crisp.
func Scale(img image.Image, factor int) image.Image {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
