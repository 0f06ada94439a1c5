package mix

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frameBytes(width, height uint16, format, palette uint8, body []byte) []byte {
	var out bytes.Buffer
	binary.Write(&out, binary.LittleEndian, width)
	binary.Write(&out, binary.LittleEndian, height)
	out.WriteByte(format)
	out.WriteByte(palette)
	out.Write(body)
	return out.Bytes()
}

func TestDecodeFrameScanLines(t *testing.T) {
	tests := []struct {
		name          string
		width, height uint16
		lines         []uint16
		offsets       []uint16
		segments      []byte
		data          []byte
		want          []uint8
	}{
		{
			name:     "two rows through one scan line",
			width:    2,
			height:   2,
			lines:    []uint16{0, 4},
			offsets:  []uint16{0, 4},
			segments: []byte{0, 2, 0, 2},
			data:     []byte{0xA0, 0xA1, 0xA2, 0xA3},
			want:     []uint8{0xA0, 0xA1, 0xA2, 0xA3},
		},
		{
			// row 0 covers 3 of 4 columns; row 1 skips inside the line; row 2 is full
			name:     "short line resyncs to row boundary",
			width:    4,
			height:   3,
			lines:    []uint16{0, 2, 6, 8},
			offsets:  []uint16{0, 2, 4, 0},
			segments: []byte{1, 2, 0, 1, 2, 1, 0, 4},
			data:     []byte{10, 11, 12, 13, 14, 15, 16, 17},
			want: []uint8{
				0, 10, 11, 0,
				12, 0, 0, 13,
				14, 15, 16, 17,
			},
		},
		{
			name:     "data offsets reposition each row",
			width:    2,
			height:   2,
			lines:    []uint16{0, 2, 4},
			offsets:  []uint16{2, 0, 0},
			segments: []byte{0, 2, 1, 1},
			data:     []byte{7, 8, 5, 6},
			want:     []uint8{5, 6, 0, 7},
		},
		{
			name:     "last scan line produces nothing",
			width:    2,
			height:   2,
			lines:    []uint16{0, 2},
			offsets:  []uint16{0, 2},
			segments: []byte{0, 2, 0, 2},
			data:     []byte{1, 2, 3, 4},
			want:     []uint8{1, 2, 0, 0},
		},
		{
			name:     "single scan line",
			width:    2,
			height:   1,
			lines:    []uint16{0},
			offsets:  []uint16{0},
			segments: []byte{0, 2},
			data:     []byte{1, 2},
			want:     []uint8{0, 0},
		},
		{
			name:     "overlong run is clipped to the grid",
			width:    2,
			height:   1,
			lines:    []uint16{0, 2},
			offsets:  []uint16{0, 0},
			segments: []byte{1, 3},
			data:     []byte{9, 9, 9},
			want:     []uint8{0, 9},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := scanLineBody(int32(tt.width), int32(tt.height), tt.lines, tt.offsets, tt.segments, tt.data)
			c := NewCursor(frameBytes(tt.width, tt.height, FormatScanLineRLE, 3, body))

			f, err := decodeFrame(c, 0)
			require.NoError(t, err)
			assert.NoError(t, f.Err)
			assert.Equal(t, tt.width, f.Width)
			assert.Equal(t, tt.height, f.Height)
			assert.Equal(t, int32(3), f.PaletteIndex)
			assert.Equal(t, tt.want, f.Pixels)
		})
	}
}

func TestDecodeFrameUnsupportedFormat(t *testing.T) {
	for _, format := range []uint8{0, 1, 2, 3, 8, 10, 255} {
		c := NewCursor(frameBytes(3, 2, format, 0, []byte{0xFF, 0xFF, 0xFF}))
		f, err := decodeFrame(c, 0)
		require.NoError(t, err, "format %d", format)
		assert.ErrorIs(t, f.Err, ErrUnsupportedFormat)
		assert.Equal(t, format, f.Format)
		assert.Equal(t, make([]uint8, 6), f.Pixels)
	}
}

func TestDecodeFramePaletteIndexMayGoNegative(t *testing.T) {
	c := NewCursor(frameBytes(1, 1, 1, 2, nil))
	f, err := decodeFrame(c, 5)
	require.NoError(t, err)
	assert.Equal(t, int32(-3), f.PaletteIndex)
}

func TestDecodeFrameTruncated(t *testing.T) {
	t.Run("run past end of data", func(t *testing.T) {
		body := scanLineBody(2, 1, []uint16{0, 2}, []uint16{0, 0}, []byte{0, 2}, []byte{1})
		f, err := decodeFrame(NewCursor(frameBytes(2, 1, FormatScanLineRLE, 0, body)), 0)
		require.ErrorIs(t, err, ErrOutOfBounds)
		assert.Equal(t, []uint8{0, 0}, f.Pixels, "partial output is discarded")
	})

	t.Run("segment outside table", func(t *testing.T) {
		body := scanLineBody(2, 1, []uint16{0, 4}, []uint16{0, 0}, []byte{0, 1}, []byte{1, 2})
		_, err := decodeFrame(NewCursor(frameBytes(2, 1, FormatScanLineRLE, 0, body)), 0)
		assert.ErrorIs(t, err, ErrCorruptArchive)
	})

	t.Run("absurd scan line count", func(t *testing.T) {
		var body bytes.Buffer
		binary.Write(&body, binary.LittleEndian, []int32{2, 1, 0, 1 << 30, 0, 0, 0, 0, 0})
		_, err := decodeFrame(NewCursor(frameBytes(2, 1, FormatScanLineRLE, 0, body.Bytes())), 0)
		assert.ErrorIs(t, err, ErrCorruptArchive)
	})

	t.Run("header cut short", func(t *testing.T) {
		f, err := decodeFrame(NewCursor([]byte{4, 0, 4}), 0)
		assert.ErrorIs(t, err, ErrOutOfBounds)
		assert.Equal(t, uint16(4), f.Width)
	})
}

func TestFrameAt(t *testing.T) {
	f := Frame{Width: 3, Height: 2, Pixels: []uint8{0, 1, 2, 3, 4, 5}}
	assert.Equal(t, uint8(5), f.At(2, 1))
	assert.Equal(t, uint8(3), f.At(0, 1))
}
