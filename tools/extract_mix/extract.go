package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/1siamBot/mixkit/engine/config"
	"github.com/1siamBot/mixkit/engine/imaging"
	"github.com/1siamBot/mixkit/engine/mix"
)

type extractor struct {
	cfg     *config.Config
	log     *zap.Logger
	archive *mix.Archive

	mu   sync.Mutex
	seen map[uint64]string // asset fingerprint -> first entry written
}

// summary counts what one extraction run produced.
type summary struct {
	Decoded    int
	Failed     int
	Duplicates int
	Frames     int
	Substituted int
	Files      int
}

func newExtractor(cfg *config.Config, log *zap.Logger, buf []byte) (*extractor, error) {
	a, err := mix.ReadArchive(buf)
	if err != nil {
		return nil, err
	}
	return &extractor{
		cfg:     cfg,
		log:     log,
		archive: a,
		seen:    make(map[uint64]string),
	}, nil
}

// ─── Listing ───────────────────────────────────────────────────────────────

func (x *extractor) list(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tOFFSET\tLENGTH\tUNKNOWN\tXXH64")
	for _, e := range x.archive.Entries() {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%#08x\t%016x\n", e.Name, e.Offset, e.Length, uint32(e.Unknown), e.Checksum())
	}
	return tw.Flush()
}

// ─── Raw dump ──────────────────────────────────────────────────────────────

// dumpRaw writes every selected entry zstd-compressed to <output>/raw/<name>.zst.
func (x *extractor) dumpRaw(ctx context.Context) (int, error) {
	dir := filepath.Join(x.cfg.Output, "raw")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return 0, fmt.Errorf("zstd: %w", err)
	}
	defer enc.Close()

	n := 0
	for _, e := range x.archive.Select(x.cfg.Select.Filter()) {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		path := filepath.Join(dir, safeName(e.Name)+".zst")
		if err := os.WriteFile(path, enc.EncodeAll(e.Data, nil), 0o644); err != nil {
			return n, err
		}
		x.log.Debug("dumped", zap.String("entry", e.Name), zap.Int32("bytes", e.Length))
		n++
	}
	return n, nil
}

// ─── Sprite export ─────────────────────────────────────────────────────────

func (x *extractor) extract(ctx context.Context) (summary, error) {
	var sum summary
	opts := append(x.cfg.DecodeOptions(), mix.WithLogger(x.log))
	results, err := mix.DecodeAll(ctx, x.archive.Select(x.cfg.Select.Filter()), opts...)
	if err != nil {
		return sum, err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(x.cfg.Workers)
	var files sync.Map
	for _, r := range results {
		r := r // per-iteration copy (go 1.21 loop semantics)
		log := x.log.With(zap.String("entry", r.Entry.Name))
		if r.Err != nil {
			sum.Failed++
			log.Warn("decode failed", zap.Error(r.Err))
			continue
		}
		sum.Decoded++
		if first, dup := x.claim(r.Asset); dup {
			sum.Duplicates++
			log.Info("identical to earlier entry, skipped", zap.String("first", first))
			continue
		}
		sum.Frames += len(r.Asset.Frames)
		for i := range r.Asset.Frames {
			if r.Asset.Frames[i].Err != nil {
				sum.Substituted++
			}
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			n, err := x.writeAsset(r.Asset, log)
			files.Store(r.Entry.Name, n)
			return err
		})
	}
	err = g.Wait()
	files.Range(func(_, v any) bool {
		sum.Files += v.(int)
		return true
	})
	return sum, err
}

// claim records the asset's fingerprint and reports an earlier owner.
func (x *extractor) claim(s *mix.SpriteAsset) (string, bool) {
	fp := s.Fingerprint()
	x.mu.Lock()
	defer x.mu.Unlock()
	if first, ok := x.seen[fp]; ok {
		return first, true
	}
	x.seen[fp] = s.Name
	return "", false
}

func (x *extractor) writeAsset(s *mix.SpriteAsset, log *zap.Logger) (int, error) {
	dir := filepath.Join(x.cfg.Output, safeName(s.Name))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}
	opts := imaging.Options{TransparentZero: x.cfg.Palette.TransparentZero}
	scale := x.cfg.Export.Scale
	written := 0

	if x.cfg.Export.Palettes {
		for i := range s.Palettes {
			if err := imaging.SavePNG(filepath.Join(dir, fmt.Sprintf("palette%d.png", i)), imaging.Swatch(&s.Palettes[i])); err != nil {
				return written, err
			}
			written++
		}
	}

	if x.cfg.Export.Frames {
		for i := range s.Frames {
			f := &s.Frames[i]
			if f.Width == 0 || f.Height == 0 {
				continue
			}
			img, err := imaging.FrameImage(f, s.Palettes, opts)
			if err != nil {
				log.Warn("frame palette", zap.Int("frame", i), zap.Int32("palette", f.PaletteIndex), zap.Error(err))
			}
			if err := imaging.SavePNG(filepath.Join(dir, fmt.Sprintf("frame%03d.png", i)), imaging.Scale(img, scale)); err != nil {
				return written, err
			}
			written++
		}
	}

	if x.cfg.Export.Sheets && len(s.Frames) > 1 {
		if sheet := imaging.Sheet(s, x.cfg.Export.SheetColumns, opts); sheet != nil && !sheet.Bounds().Empty() {
			if err := imaging.SavePNG(filepath.Join(dir, "sheet.png"), imaging.Scale(sheet, scale)); err != nil {
				return written, err
			}
			written++
		}
	}

	log.Info("extracted", zap.Int("frames", len(s.Frames)), zap.Int("palettes", len(s.Palettes)), zap.Int("files", written))
	return written, nil
}

// safeName flattens an entry name into a single path element.
func safeName(name string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "..", "_")
	name = r.Replace(name)
	if name == "" || name == "." {
		return "_"
	}
	return name
}
