// Package mixtest builds byte-exact MIX archives and sprite blocks for tests.
package mixtest

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const (
	recordSize     = 24
	terminatorSize = 4
	paletteBytes   = 256 * 3

	// FormatScanLineRLE is the frame format tag for scan-line RLE.
	FormatScanLineRLE = 9
)

type Entry struct {
	Name string
	Data []byte
}

// Archive lays out the file count, directory records, a terminator word, the
// UTF-16LE name table and then the payloads back to back. The unknown
// directory word of entry i is 0x1000+i.
func Archive(entries ...Entry) []byte {
	var names bytes.Buffer
	nameOffsets := make([]int32, len(entries))
	for i, e := range entries {
		nameOffsets[i] = int32(names.Len())
		for _, r := range e.Name {
			binary.Write(&names, binary.LittleEndian, uint16(r))
		}
		binary.Write(&names, binary.LittleEndian, uint16(0))
	}

	off := 4 + len(entries)*recordSize + terminatorSize + names.Len()

	var out bytes.Buffer
	binary.Write(&out, binary.LittleEndian, uint32(len(entries)))
	for i, e := range entries {
		binary.Write(&out, binary.LittleEndian, []int32{
			int32(off), int32(len(e.Data)), 0, 0, int32(0x1000 + i), nameOffsets[i],
		})
		off += len(e.Data)
	}
	out.Write([]byte{0xFF, 0xFF, 0xFF, 0xFF})
	out.Write(names.Bytes())
	for _, e := range entries {
		out.Write(e.Data)
	}
	return out.Bytes()
}

// Frame is a frame header plus whatever follows it.
type Frame struct {
	Width, Height uint16
	Format        uint8
	Palette       uint8
	Body          []byte
}

// Sprite produces an inner "MIX FILE  " block. Each palette is 768 bytes of
// packed RGB triples.
func Sprite(paletteStart int32, palettes [][]byte, frames ...Frame) []byte {
	var frameData bytes.Buffer
	frameOffsets := make([]int32, len(frames))
	for i, f := range frames {
		frameOffsets[i] = int32(frameData.Len())
		binary.Write(&frameData, binary.LittleEndian, f.Width)
		binary.Write(&frameData, binary.LittleEndian, f.Height)
		frameData.WriteByte(f.Format)
		frameData.WriteByte(f.Palette)
		frameData.Write(f.Body)
	}

	headerLen := len("MIX FILE  ") + 6*4 + len("ENTRY") + 4*len(frames) + len(" PAL ")
	dataOffset := headerLen + len(palettes)*paletteBytes

	var out bytes.Buffer
	out.WriteString("MIX FILE  ")
	binary.Write(&out, binary.LittleEndian, []int32{
		int32(dataOffset + frameData.Len()),
		int32(len(frames)),
		int32(dataOffset),
		int32(len(palettes)),
		paletteStart,
		int32(headerLen - len(" PAL ")),
	})
	out.WriteString("ENTRY")
	binary.Write(&out, binary.LittleEndian, frameOffsets)
	out.WriteString(" PAL ")
	for i, p := range palettes {
		if len(p) != paletteBytes {
			panic(fmt.Sprintf("mixtest: palette %d is %d bytes, want %d", i, len(p), paletteBytes))
		}
		out.Write(p)
	}
	out.Write(frameData.Bytes())
	return out.Bytes()
}

// ScanLines encodes the format 9 block that follows a frame header.
func ScanLines(width, height int32, lines, offsets []uint16, segments, data []byte) []byte {
	var out bytes.Buffer
	binary.Write(&out, binary.LittleEndian, []int32{
		width, height, int32(len(data)),
		int32(len(lines)), int32(len(segments)),
		36, height*2 + 38, height*4 + 40, 0,
	})
	binary.Write(&out, binary.LittleEndian, lines)
	binary.Write(&out, binary.LittleEndian, offsets)
	out.Write(segments)
	out.Write(data)
	return out.Bytes()
}

// GrayPalette maps every index to the gray of the same value.
func GrayPalette() []byte {
	p := make([]byte, paletteBytes)
	for i := 0; i < 256; i++ {
		p[i*3], p[i*3+1], p[i*3+2] = byte(i), byte(i), byte(i)
	}
	return p
}

// TinySprite is one gray palette and a 2x2 format 9 frame whose single scan
// line covers both rows with pixels in order.
func TinySprite(pixels [4]byte) []byte {
	body := ScanLines(2, 2,
		[]uint16{0, 4},
		[]uint16{0, 4},
		[]byte{0, 2, 0, 2},
		pixels[:],
	)
	return Sprite(0, [][]byte{GrayPalette()}, Frame{
		Width: 2, Height: 2, Format: FormatScanLineRLE, Body: body,
	})
}
