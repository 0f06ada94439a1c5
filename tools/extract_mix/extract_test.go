package main

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/1siamBot/mixkit/engine/config"
	"github.com/1siamBot/mixkit/engine/mix/mixtest"
)

func testArchive() []byte {
	sprite := mixtest.TinySprite([4]byte{0x10, 0x20, 0x30, 0x40})
	return mixtest.Archive(
		mixtest.Entry{Name: "SPRB0.MIX", Data: sprite},
		mixtest.Entry{Name: "COPY.MIX", Data: sprite},
		mixtest.Entry{Name: "README.TXT", Data: []byte("hello")},
	)
}

func newTestExtractor(t *testing.T) *extractor {
	t.Helper()
	cfg := config.Default()
	cfg.Output = t.TempDir()
	cfg.Workers = 2
	x, err := newExtractor(cfg, zap.NewNop(), testArchive())
	require.NoError(t, err)
	return x
}

func TestExtractWritesFramesAndPalettes(t *testing.T) {
	x := newTestExtractor(t)

	sum, err := x.extract(context.Background())
	require.NoError(t, err)
	assert.Equal(t, summary{Decoded: 2, Failed: 1, Duplicates: 1, Frames: 1, Files: 2}, sum)

	dir := filepath.Join(x.cfg.Output, "SPRB0.MIX")
	assert.FileExists(t, filepath.Join(dir, "palette0.png"))
	assert.NoFileExists(t, filepath.Join(dir, "sheet.png"))
	assert.NoDirExists(t, filepath.Join(x.cfg.Output, "COPY.MIX"))

	f, err := os.Open(filepath.Join(dir, "frame000.png"))
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 2, img.Bounds().Dx())
	assert.Equal(t, 2, img.Bounds().Dy())
	r, g, b, a := img.At(1, 0).RGBA()
	assert.Equal(t, []uint32{0x20, 0x20, 0x20, 0xFF}, []uint32{r >> 8, g >> 8, b >> 8, a >> 8})
}

func TestExtractScale(t *testing.T) {
	x := newTestExtractor(t)
	x.cfg.Export.Scale = 3
	x.cfg.Export.Palettes = false

	_, err := x.extract(context.Background())
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(x.cfg.Output, "SPRB0.MIX", "frame000.png"))
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Width)
	assert.Equal(t, 6, cfg.Height)
	assert.NoFileExists(t, filepath.Join(x.cfg.Output, "SPRB0.MIX", "palette0.png"))
}

func TestExtractSelection(t *testing.T) {
	x := newTestExtractor(t)
	x.cfg.Select = config.Selection{Names: []string{"COPY.MIX"}}

	sum, err := x.extract(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Decoded)
	assert.Zero(t, sum.Failed)
	assert.DirExists(t, filepath.Join(x.cfg.Output, "COPY.MIX"))
	assert.NoDirExists(t, filepath.Join(x.cfg.Output, "SPRB0.MIX"))
}

func TestExtractCancelled(t *testing.T) {
	x := newTestExtractor(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := x.extract(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDumpRawRoundTrips(t *testing.T) {
	x := newTestExtractor(t)
	x.cfg.Select = config.Selection{Extensions: []string{"txt"}}

	n, err := x.dumpRaw(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	raw, err := os.ReadFile(filepath.Join(x.cfg.Output, "raw", "README.TXT.zst"))
	require.NoError(t, err)
	dec, err := zstd.NewReader(nil)
	require.NoError(t, err)
	defer dec.Close()
	got, err := dec.DecodeAll(raw, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)
}

func TestListPrintsDirectory(t *testing.T) {
	x := newTestExtractor(t)

	var out bytes.Buffer
	require.NoError(t, x.list(&out))

	s := out.String()
	assert.Contains(t, s, "NAME")
	for _, e := range x.archive.Entries() {
		assert.Contains(t, s, e.Name)
		assert.Contains(t, s, fmt.Sprintf("%016x", e.Checksum()))
	}
	assert.Contains(t, s, "0x00001002")
}

func TestSafeName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"SPRB0.MIX", "SPRB0.MIX"},
		{"a/b.mix", "a_b.mix"},
		{`..\x`, `__x`},
		{"", "_"},
		{".", "_"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, safeName(tt.in), tt.in)
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a.mix", "b"}, splitList(" a.mix, ,b,"))
	assert.Nil(t, splitList(""))
}
