// Package mix decodes MIX game-asset archives and the scan-line RLE sprites
// stored in them.
//
// The outer archive is a directory of (offset, length, name) records over one
// buffer:
//
//	a, err := mix.ReadArchive(buf)
//	for _, e := range a.Select(mix.ByExt(".mix")) {
//	    asset, err := mix.DecodeSprite(e.Name, e.Data)
//	    ...
//	}
//
// Entries alias the archive buffer and must not outlive it. A decoded
// SpriteAsset owns its frames and palettes.
package mix
