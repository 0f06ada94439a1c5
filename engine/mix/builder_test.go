package mix

import (
	"testing"

	"github.com/1siamBot/mixkit/engine/mix/mixtest"
)

type testEntry struct {
	name string
	data []byte
}

func buildArchive(tb testing.TB, entries []testEntry) []byte {
	tb.Helper()
	es := make([]mixtest.Entry, len(entries))
	for i, e := range entries {
		es[i] = mixtest.Entry{Name: e.name, Data: e.data}
	}
	return mixtest.Archive(es...)
}

type testFrame struct {
	width, height uint16
	format        uint8
	palette       uint8
	body          []byte
}

func buildSprite(tb testing.TB, paletteStart int32, palettes [][]byte, frames []testFrame) []byte {
	tb.Helper()
	fs := make([]mixtest.Frame, len(frames))
	for i, f := range frames {
		fs[i] = mixtest.Frame{Width: f.width, Height: f.height, Format: f.format, Palette: f.palette, Body: f.body}
	}
	return mixtest.Sprite(paletteStart, palettes, fs...)
}

var (
	scanLineBody = mixtest.ScanLines
	grayPalette  = mixtest.GrayPalette
)

func tinySprite(tb testing.TB, pixels [4]byte) []byte {
	tb.Helper()
	return mixtest.TinySprite(pixels)
}
