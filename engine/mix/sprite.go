package mix

import (
	"go.uber.org/zap"
)

// Tags framing the sections of an inner sprite block.
const (
	TagMixFile = "MIX FILE  "
	TagEntry   = "ENTRY"
	TagPalette = " PAL "
)

// Header holds the integers that follow the "MIX FILE  " tag, as read.
type Header struct {
	DataLength        int32
	DataCount         int32
	DataOffset        int32
	PaletteCount      int32
	PaletteStartIndex int32
	PaletteOffset     int32
}

// SpriteAsset is a fully decoded sprite entry. It shares no memory with the
// archive buffer.
type SpriteAsset struct {
	Name     string
	Header   Header
	Frames   []Frame
	Palettes []Palette
}

// DecodeSprite decodes one inner sprite block. Header, frame table and palette
// errors fail the whole asset; a failing frame is replaced by a zero-filled
// frame with Err set and decoding moves on.
func DecodeSprite(name string, data []byte, opts ...Option) (*SpriteAsset, error) {
	o := buildOptions(opts)
	log := o.logger.With(zap.String("entry", name))
	c := NewCursor(data)

	hdr, err := readHeader(c)
	if err != nil {
		return nil, stageError(StageHeader, name, c.Position(), err)
	}

	offsets, err := readFrameTable(c, hdr)
	if err != nil {
		return nil, stageError(StageHeader, name, c.Position(), err)
	}

	if err := expectTag(c, TagPalette); err != nil {
		return nil, stageError(StagePalette, name, c.Position(), err)
	}
	palettes, err := readPalettes(c, int(hdr.PaletteCount), o.maskLight)
	if err != nil {
		return nil, stageError(StagePalette, name, c.Position(), err)
	}

	frames := make([]Frame, len(offsets))
	for i, off := range offsets {
		f, err := decodeFrameAt(c, off, hdr.PaletteStartIndex)
		if err != nil {
			f.Err = stageError(StageFrame, name, int(off), err)
			log.Warn("frame substituted", zap.Int("frame", i), zap.Int64("offset", off), zap.Error(f.Err))
		} else if f.Err != nil {
			log.Debug("frame format not decoded", zap.Int("frame", i), zap.Uint8("format", f.Format))
		}
		frames[i] = f
	}

	return &SpriteAsset{
		Name:     name,
		Header:   hdr,
		Frames:   frames,
		Palettes: palettes,
	}, nil
}

func readHeader(c *Cursor) (Header, error) {
	var h Header
	if err := expectTag(c, TagMixFile); err != nil {
		return h, err
	}
	fields := []*int32{
		&h.DataLength, &h.DataCount, &h.DataOffset,
		&h.PaletteCount, &h.PaletteStartIndex, &h.PaletteOffset,
	}
	for _, p := range fields {
		v, err := c.ReadInt32LE()
		if err != nil {
			return h, err
		}
		*p = v
	}
	return h, nil
}

// readFrameTable returns absolute frame positions within the entry.
func readFrameTable(c *Cursor, h Header) ([]int64, error) {
	if err := expectTag(c, TagEntry); err != nil {
		return nil, err
	}
	if h.DataCount < 0 || int(h.DataCount) > c.Remaining()/4 {
		return nil, corruptf("frame count %d does not fit in %d bytes", h.DataCount, c.Remaining())
	}
	offsets := make([]int64, h.DataCount)
	for i := range offsets {
		v, err := c.ReadInt32LE()
		if err != nil {
			return nil, err
		}
		offsets[i] = int64(v) + int64(h.DataOffset)
	}
	return offsets, nil
}

func decodeFrameAt(c *Cursor, off int64, paletteStart int32) (Frame, error) {
	if off < 0 || off > int64(c.Len()) {
		return Frame{}, corruptf("frame offset %d outside %d-byte entry", off, c.Len())
	}
	if err := c.Seek(int(off)); err != nil {
		return Frame{}, err
	}
	f, err := decodeFrame(c, paletteStart)
	if f.Pixels == nil {
		f.Pixels = make([]uint8, int(f.Width)*int(f.Height))
	}
	return f, err
}

func expectTag(c *Cursor, want string) error {
	at := c.Position()
	got, err := c.ReadFixedString(len(want))
	if err != nil {
		return err
	}
	if got != want {
		return &DecodeError{Offset: at, Err: corruptf("tag %q, want %q", got, want)}
	}
	return nil
}
