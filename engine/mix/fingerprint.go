package mix

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint hashes everything decoded into the asset except its name and
// frame errors. Two decodes of the same bytes with the same options match.
func (s *SpriteAsset) Fingerprint() uint64 {
	d := xxhash.New()
	var word [4]byte
	put := func(v uint32) {
		binary.LittleEndian.PutUint32(word[:], v)
		d.Write(word[:])
	}

	h := s.Header
	for _, v := range []int32{h.DataLength, h.DataCount, h.DataOffset, h.PaletteCount, h.PaletteStartIndex, h.PaletteOffset} {
		put(uint32(v))
	}

	put(uint32(len(s.Palettes)))
	for i := range s.Palettes {
		for _, c := range s.Palettes[i] {
			d.Write([]byte{c.R, c.G, c.B, c.A})
		}
	}

	put(uint32(len(s.Frames)))
	for i := range s.Frames {
		f := &s.Frames[i]
		put(uint32(f.Width)<<16 | uint32(f.Height))
		put(uint32(f.Format))
		put(uint32(f.PaletteIndex))
		d.Write(f.Pixels)
	}
	return d.Sum64()
}
