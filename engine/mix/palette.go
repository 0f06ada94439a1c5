package mix

// PaletteSize is the number of colours in every palette.
const PaletteSize = 256

// Palette index ranges. The decoder does not treat them specially.
const (
	TextureFirst = 0x00
	TextureLast  = 0xF3
	LightFirst   = 0xF4
	LightLast    = 0xF7
	FactionFirst = 0xF8
	FactionLast  = 0xFD
	ShadowFirst  = 0xFE
	ShadowLast   = 0xFF
)

type Color struct {
	R, G, B, A uint8
}

type Palette [PaletteSize]Color

// readPalettes reads count palettes of 256 packed RGB triples. Alpha is always 255.
func readPalettes(c *Cursor, count int, maskLight bool) ([]Palette, error) {
	if count < 0 || count > c.Remaining()/(PaletteSize*3) {
		return nil, corruptf("%d palettes do not fit in %d remaining bytes", count, c.Remaining())
	}
	palettes := make([]Palette, count)
	for i := range palettes {
		raw, err := c.ReadBytes(PaletteSize * 3)
		if err != nil {
			return nil, err
		}
		p := &palettes[i]
		for j := range p {
			p[j] = Color{R: raw[j*3], G: raw[j*3+1], B: raw[j*3+2], A: 0xFF}
		}
		if maskLight {
			for j := LightFirst; j <= LightLast; j++ {
				p[j] = Color{A: 0xFF}
			}
		}
	}
	return palettes, nil
}
