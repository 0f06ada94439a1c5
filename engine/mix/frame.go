package mix

import "fmt"

// FormatScanLineRLE is the only pixel encoding that is decoded.
const FormatScanLineRLE = 9

// Frame is one decoded sprite image. Pixels holds Width*Height palette indices,
// row-major. Unwritten positions are 0.
//
// PaletteIndex is the raw per-frame byte minus the archive's palette start index.
// It is not validated and may be negative or past the end of the palette list;
// consumers must bounds-check it before indexing.
type Frame struct {
	Width        uint16
	Height       uint16
	Format       uint8
	PaletteIndex int32
	Pixels       []uint8

	// Err is set when the frame was substituted: ErrUnsupportedFormat for foreign
	// encodings, or the DecodeError that stopped this frame.
	Err error
}

// At returns the palette index at (x, y).
func (f *Frame) At(x, y int) uint8 {
	return f.Pixels[y*int(f.Width)+x]
}

// decodeFrame reads a frame header and, for format 9, its pixels. On error the
// returned frame carries whatever header fields were read and zeroed pixels.
func decodeFrame(c *Cursor, paletteStart int32) (Frame, error) {
	var f Frame
	var err error

	if f.Width, err = c.ReadUint16LE(); err != nil {
		return f, err
	}
	if f.Height, err = c.ReadUint16LE(); err != nil {
		return f, err
	}
	f.Pixels = make([]uint8, int(f.Width)*int(f.Height))

	if f.Format, err = c.ReadUint8(); err != nil {
		return f, err
	}
	rawPalette, err := c.ReadUint8()
	if err != nil {
		return f, err
	}
	f.PaletteIndex = int32(rawPalette) - paletteStart

	if f.Format != FormatScanLineRLE {
		f.Err = fmt.Errorf("%w: tag %d", ErrUnsupportedFormat, f.Format)
		return f, nil
	}

	if err := decodeScanLines(c, int(f.Width), f.Pixels); err != nil {
		clear(f.Pixels)
		return f, err
	}
	return f, nil
}

// scanLineHeader is the fixed block in front of the scan-line tables. Only
// ScanLines and SegmentBytes drive decoding; the rest are redundant sizes.
type scanLineHeader struct {
	Width, Height   int32
	DataBlockLength int32
	ScanLines       int32
	SegmentBytes    int32
	HeaderInfoSize  int32
	SizeA, SizeB    int32 // height*2+38, height*4+40
	HeaderLength    int32
}

func readScanLineHeader(c *Cursor) (scanLineHeader, error) {
	var h scanLineHeader
	fields := []*int32{
		&h.Width, &h.Height, &h.DataBlockLength, &h.ScanLines, &h.SegmentBytes,
		&h.HeaderInfoSize, &h.SizeA, &h.SizeB, &h.HeaderLength,
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

// decodeScanLines expands the format 9 payload into pixels.
//
// Each scan line i owns segment pairs [lines[i]/2, lines[i+1]/2). A pair is a
// skip count followed by a run of literal indices read from the data block at
// dataBlock+offsets[i]. The last scan line only bounds the one before it. After
// a line the write position advances by width minus the bytes the line covered,
// so short lines still land on row boundaries.
func decodeScanLines(c *Cursor, width int, pixels []uint8) error {
	h, err := readScanLineHeader(c)
	if err != nil {
		return err
	}
	n := int(h.ScanLines)
	if n < 0 || n > c.Remaining()/4 {
		return corruptf("scan line count %d does not fit in %d bytes", h.ScanLines, c.Remaining())
	}
	if h.SegmentBytes < 0 {
		return corruptf("negative segment table length %d", h.SegmentBytes)
	}

	lines := make([]uint16, n)
	for i := range lines {
		if lines[i], err = c.ReadUint16LE(); err != nil {
			return err
		}
	}
	offsets := make([]uint16, n)
	for i := range offsets {
		if offsets[i], err = c.ReadUint16LE(); err != nil {
			return err
		}
	}
	segments, err := c.ReadBytes(int(h.SegmentBytes))
	if err != nil {
		return err
	}
	dataBlock := c.Position()

	write := 0
	for i := 0; i+1 < n; i++ {
		first, next := int(lines[i])/2, int(lines[i+1])/2
		if err := c.Seek(dataBlock + int(offsets[i])); err != nil {
			return err
		}
		lineSize := 0
		for s := first; s < next; s++ {
			if s*2+1 >= len(segments) {
				return corruptf("scan line %d: segment %d outside %d-byte segment table", i, s, len(segments))
			}
			skip, run := int(segments[s*2]), int(segments[s*2+1])
			write += skip
			src, err := c.ReadBytes(run)
			if err != nil {
				return err
			}
			blit(pixels, write, src)
			write += run
			lineSize += skip + run
		}
		write += width - lineSize
	}
	return nil
}

// blit copies src into dst at position at, dropping whatever falls outside dst.
func blit(dst []uint8, at int, src []uint8) {
	if at < 0 {
		if -at >= len(src) {
			return
		}
		src = src[-at:]
		at = 0
	}
	if at >= len(dst) {
		return
	}
	copy(dst[at:], src)
}
