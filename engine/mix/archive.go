package mix

import (
	"fmt"
	"path"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// ─── Directory layout ──────────────────────────────────────────────────────

const (
	// dirRecordSize is offset, length, two reserved words, one unknown word and the name offset.
	dirRecordSize = 24
	// dirTerminatorSize separates the last record from the filename table.
	dirTerminatorSize = 4
)

// Entry is one named block in the archive directory. Data aliases the archive buffer.
type Entry struct {
	Name    string
	Offset  int32
	Length  int32
	Unknown int32 // fifth directory word, kept as read
	Data    []byte
}

// Ext returns the lower-cased extension of the entry name, including the dot.
func (e Entry) Ext() string {
	return strings.ToLower(path.Ext(e.Name))
}

// Checksum hashes the entry's bytes.
func (e Entry) Checksum() uint64 {
	return xxhash.Sum64(e.Data)
}

// Archive is a parsed outer MIX directory.
type Archive struct {
	entries []Entry
	byName  map[string]int
	names   []string
}

// ReadArchive parses the directory and filename table of buf. Every entry is
// resolved; nothing is copied.
func ReadArchive(buf []byte) (*Archive, error) {
	c := NewCursor(buf)

	count, err := c.ReadUint32LE()
	if err != nil {
		return nil, stageError(StageDirectory, "", 0, err)
	}

	tableBase := int64(c.Position()) + int64(count)*dirRecordSize + dirTerminatorSize
	if tableBase > int64(len(buf)) {
		return nil, &DecodeError{
			Stage:  StageDirectory,
			Offset: 0,
			Err:    corruptf("%d entries need a filename table at %d, archive is %d bytes", count, tableBase, len(buf)),
		}
	}

	a := &Archive{
		entries: make([]Entry, 0, count),
		byName:  make(map[string]int, count),
	}

	for i := uint32(0); i < count; i++ {
		recordAt := c.Position()
		var rec [6]int32
		for j := range rec {
			if rec[j], err = c.ReadInt32LE(); err != nil {
				return nil, stageError(StageDirectory, "", recordAt, err)
			}
		}
		offset, length, unknown, nameOffset := rec[0], rec[1], rec[4], rec[5]

		name, err := readName(buf, tableBase, nameOffset)
		if err != nil {
			return nil, stageError(StageFilename, "", recordAt, err)
		}

		if offset < 0 || length < 0 || int64(offset)+int64(length) > int64(len(buf)) {
			return nil, &DecodeError{
				Stage:  StageDirectory,
				Entry:  name,
				Offset: recordAt,
				Err:    corruptf("entry spans [%d,%d+%d), archive is %d bytes", offset, offset, length, len(buf)),
			}
		}

		a.add(Entry{
			Name:    name,
			Offset:  offset,
			Length:  length,
			Unknown: unknown,
			Data:    buf[offset : offset+length : offset+length],
		})
	}

	return a, nil
}

func readName(buf []byte, tableBase int64, nameOffset int32) (string, error) {
	at := tableBase + int64(nameOffset)
	if nameOffset < 0 || at > int64(len(buf)) {
		return "", &DecodeError{
			Stage:  StageFilename,
			Offset: int(tableBase),
			Err:    corruptf("name offset %d outside archive", nameOffset),
		}
	}
	c := NewCursor(buf)
	if err := c.Seek(int(at)); err != nil {
		return "", err
	}
	return c.ReadUTF16Z()
}

func (a *Archive) add(e Entry) {
	if _, seen := a.byName[e.Name]; !seen {
		a.names = append(a.names, e.Name)
	}
	a.byName[e.Name] = len(a.entries)
	a.entries = append(a.entries, e)
}

// Len is the directory's file count, duplicates included.
func (a *Archive) Len() int { return len(a.entries) }

// Entries returns every directory record in directory order.
func (a *Archive) Entries() []Entry {
	out := make([]Entry, len(a.entries))
	copy(out, a.entries)
	return out
}

// Names returns the distinct entry names in order of first appearance.
func (a *Archive) Names() []string {
	out := make([]string, len(a.names))
	copy(out, a.names)
	return out
}

// Lookup returns the entry for name. With duplicate names the last record wins.
func (a *Archive) Lookup(name string) (Entry, bool) {
	i, ok := a.byName[name]
	if !ok {
		return Entry{}, false
	}
	return a.entries[i], true
}

// Select returns the resolved entries (one per distinct name, last record wins)
// for which keep returns true, in order of first appearance. A nil keep selects all.
func (a *Archive) Select(keep func(Entry) bool) []Entry {
	var out []Entry
	for _, name := range a.names {
		e := a.entries[a.byName[name]]
		if keep == nil || keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// Decode decodes the named entry as a sprite asset.
func (a *Archive) Decode(name string, opts ...Option) (*SpriteAsset, error) {
	e, ok := a.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("mix: entry %q not found", name)
	}
	return DecodeSprite(e.Name, e.Data, opts...)
}

// ByName selects entries whose name is one of names.
func ByName(names ...string) func(Entry) bool {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return func(e Entry) bool {
		_, ok := set[e.Name]
		return ok
	}
}

// ByExt selects entries by case-insensitive extension (".mix", "mix").
func ByExt(exts ...string) func(Entry) bool {
	set := make(map[string]struct{}, len(exts))
	for _, x := range exts {
		x = strings.ToLower(x)
		if !strings.HasPrefix(x, ".") {
			x = "." + x
		}
		set[x] = struct{}{}
	}
	return func(e Entry) bool {
		_, ok := set[e.Ext()]
		return ok
	}
}
