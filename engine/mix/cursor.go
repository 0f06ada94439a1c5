package mix

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/text/encoding/charmap"
)

// Cursor reads little-endian primitives sequentially from a borrowed buffer.
// A read that does not fit fails with ErrOutOfBounds and leaves the position untouched.
type Cursor struct {
	buf []byte
	pos int
}

func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

func (c *Cursor) Position() int { return c.pos }

func (c *Cursor) Len() int { return len(c.buf) }

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int { return len(c.buf) - c.pos }

// Seek moves to an absolute position. Seeking to Len() is allowed, past it is not.
func (c *Cursor) Seek(pos int) error {
	if pos < 0 || pos > len(c.buf) {
		return c.outOfBounds(pos, 0)
	}
	c.pos = pos
	return nil
}

func (c *Cursor) take(n int) ([]byte, error) {
	if n < 0 || n > len(c.buf)-c.pos {
		return nil, c.outOfBounds(c.pos, n)
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

func (c *Cursor) ReadInt32LE() (int32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

func (c *Cursor) ReadUint32LE() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *Cursor) ReadUint16LE() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *Cursor) ReadUint8() (uint8, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadBytes returns a view of the next n bytes. The slice aliases the buffer.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	return c.take(n)
}

// ReadFixedString reads n bytes as Latin-1 text, one byte per character.
// Nothing is trimmed.
func (c *Cursor) ReadFixedString(n int) (string, error) {
	b, err := c.take(n)
	if err != nil {
		return "", err
	}
	s, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("decode tag: %w", err)
	}
	return string(s), nil
}

// ReadUTF16Z reads 16-bit little-endian code units up to a zero unit, which is
// consumed but not returned. Each unit maps to exactly one rune.
func (c *Cursor) ReadUTF16Z() (string, error) {
	var runes []rune
	for {
		u, err := c.ReadUint16LE()
		if err != nil {
			return "", err
		}
		if u == 0 {
			return string(runes), nil
		}
		runes = append(runes, rune(u))
	}
}

func (c *Cursor) outOfBounds(pos, n int) error {
	return &DecodeError{
		Stage:  StageCursor,
		Offset: pos,
		Err:    fmt.Errorf("%w: need %d bytes at %d, buffer is %d", ErrOutOfBounds, n, pos, len(c.buf)),
	}
}
