package render

import (
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/1siamBot/mixkit/engine/imaging"
	"github.com/1siamBot/mixkit/engine/mix"
)

// OwnPalette selects the palette a frame refers to.
const OwnPalette = -1

type bankKey struct {
	frame, palette int
}

// SpriteBank uploads the frames of one decoded asset to the GPU on first use.
type SpriteBank struct {
	Asset *mix.SpriteAsset

	opts   imaging.Options
	images map[bankKey]*ebiten.Image
	log    *zap.Logger
}

func NewSpriteBank(asset *mix.SpriteAsset, opts imaging.Options, log *zap.Logger) *SpriteBank {
	if log == nil {
		log = zap.NewNop()
	}
	return &SpriteBank{
		Asset:  asset,
		opts:   opts,
		images: make(map[bankKey]*ebiten.Image),
		log:    log.With(zap.String("entry", asset.Name)),
	}
}

func (b *SpriteBank) Len() int { return len(b.Asset.Frames) }

func (b *SpriteBank) Palettes() int { return len(b.Asset.Palettes) }

// Frame returns frame i drawn through palette p, or through the frame's own
// palette when p is OwnPalette. Empty frames and bad indices return nil.
func (b *SpriteBank) Frame(i, p int) *ebiten.Image {
	if i < 0 || i >= len(b.Asset.Frames) {
		return nil
	}
	f := &b.Asset.Frames[i]
	if f.Width == 0 || f.Height == 0 {
		return nil
	}
	key := bankKey{i, p}
	if img, ok := b.images[key]; ok {
		return img
	}

	var src *ebiten.Image
	if p == OwnPalette || p < 0 || p >= len(b.Asset.Palettes) {
		pm, err := imaging.FrameImage(f, b.Asset.Palettes, b.opts)
		if err != nil {
			b.log.Warn("frame palette", zap.Int("frame", i), zap.Int32("palette", f.PaletteIndex), zap.Error(err))
		}
		src = ebiten.NewImageFromImage(pm)
	} else {
		src = ebiten.NewImageFromImage(imaging.Frame(f, &b.Asset.Palettes[p], b.opts))
	}
	b.images[key] = src
	return src
}

// Dispose releases every uploaded image.
func (b *SpriteBank) Dispose() {
	for k, img := range b.images {
		img.Deallocate()
		delete(b.images, k)
	}
}
