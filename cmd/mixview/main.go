// mixview browses the sprites of a MIX archive.
//
// Usage:
//
//	go run ./cmd/mixview -input MIX.WD [-config mix.yaml] [-entry SPRB0.MIX]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/color"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"

	"github.com/1siamBot/mixkit/engine/config"
	"github.com/1siamBot/mixkit/engine/imaging"
	"github.com/1siamBot/mixkit/engine/input"
	"github.com/1siamBot/mixkit/engine/logging"
	"github.com/1siamBot/mixkit/engine/mix"
	"github.com/1siamBot/mixkit/engine/render"
	"github.com/1siamBot/mixkit/engine/viewport"
)

const (
	ScreenWidth  = 1280
	ScreenHeight = 720
	TickRate     = 60
	PlayEvery    = 6 // ticks per frame while playing
	WheelZoom    = 0.5
)

var errQuit = errors.New("quit")

// Viewer implements ebiten.Game.
type Viewer struct {
	banks  []*render.SpriteBank
	input  *input.InputState
	camera *viewport.Camera
	log    *zap.Logger

	asset   int
	frame   int
	palette int // render.OwnPalette or an index into the asset's palettes
	playing bool
	ticks   int
}

func NewViewer(assets []*mix.SpriteAsset, opts imaging.Options, log *zap.Logger) *Viewer {
	v := &Viewer{
		input:   input.NewInputState(),
		camera:  viewport.NewCamera(ScreenWidth, ScreenHeight),
		log:     log,
		palette: render.OwnPalette,
	}
	for _, a := range assets {
		v.banks = append(v.banks, render.NewSpriteBank(a, opts, log))
	}
	v.resetView()
	return v
}

func (v *Viewer) bank() *render.SpriteBank { return v.banks[v.asset] }

func (v *Viewer) Update() error {
	v.input.Update()
	for _, a := range v.input.Actions() {
		switch a {
		case input.ActionQuit:
			return errQuit
		case input.ActionNextFrame:
			v.stepFrame(1)
		case input.ActionPrevFrame:
			v.stepFrame(-1)
		case input.ActionNextAsset:
			v.stepAsset(1)
		case input.ActionPrevAsset:
			v.stepAsset(-1)
		case input.ActionCyclePalette:
			v.palette++
			if v.palette >= v.bank().Palettes() {
				v.palette = render.OwnPalette
			}
		case input.ActionZoomIn:
			v.camera.ZoomAt(1, ScreenWidth/2, ScreenHeight/2)
		case input.ActionZoomOut:
			v.camera.ZoomAt(-1, ScreenWidth/2, ScreenHeight/2)
		case input.ActionTogglePlay:
			v.playing = !v.playing
		case input.ActionResetView:
			v.resetView()
		}
	}
	if v.input.ScrollY != 0 {
		v.camera.ZoomAt(v.input.ScrollY*WheelZoom, v.input.CursorX, v.input.CursorY)
	}
	if v.input.DragX != 0 || v.input.DragY != 0 {
		v.camera.Pan(float64(v.input.DragX), float64(v.input.DragY))
	}

	if v.playing {
		v.ticks++
		if v.ticks%PlayEvery == 0 {
			v.stepFrame(1)
		}
	}
	return nil
}

func (v *Viewer) stepFrame(d int) {
	n := v.bank().Len()
	if n == 0 {
		return
	}
	v.frame = ((v.frame+d)%n + n) % n
}

func (v *Viewer) stepAsset(d int) {
	n := len(v.banks)
	v.bank().Dispose()
	v.asset = ((v.asset+d)%n + n) % n
	v.frame = 0
	v.palette = render.OwnPalette
	v.resetView()
	v.log.Debug("asset", zap.String("entry", v.bank().Asset.Name))
}

// resetView centres the largest frame of the current asset.
func (v *Viewer) resetView() {
	w, h := 0, 0
	for _, f := range v.bank().Asset.Frames {
		w, h = max(w, int(f.Width)), max(h, int(f.Height))
	}
	v.camera.CenterOn(w, h)
}

func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{32, 32, 48, 255})

	b := v.bank()
	img := b.Frame(v.frame, v.palette)
	if img != nil {
		x, y := v.camera.Origin()
		z := v.camera.Zoom
		w, h := float64(img.Bounds().Dx())*z, float64(img.Bounds().Dy())*z
		vector.StrokeRect(screen, float32(x-1), float32(y-1), float32(w+2), float32(h+2), 1, color.RGBA{90, 90, 120, 255}, false)

		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(z, z)
		op.GeoM.Translate(x, y)
		op.Filter = ebiten.FilterNearest
		screen.DrawImage(img, op)
	}

	ebitenutil.DebugPrintAt(screen, v.status(), 10, 10)
	ebitenutil.DebugPrintAt(screen,
		"[←/→] frame  [↑/↓] asset  [P] palette  [+/-/wheel] zoom  [drag] pan  [R] reset  [Space] play  [Esc] quit",
		10, ScreenHeight-20)
}

func (v *Viewer) status() string {
	b := v.bank()
	s := fmt.Sprintf("%s (%d/%d)", b.Asset.Name, v.asset+1, len(v.banks))
	if b.Len() == 0 {
		return s + "  no frames"
	}
	f := &b.Asset.Frames[v.frame]
	pal := "own"
	if v.palette != render.OwnPalette {
		pal = fmt.Sprint(v.palette)
	}
	s += fmt.Sprintf("\nframe %d/%d  %dx%d  format %d  palette %d (showing %s)  zoom %.1fx",
		v.frame+1, b.Len(), f.Width, f.Height, f.Format, f.PaletteIndex, pal, v.camera.Zoom)
	if x, y, ok := v.camera.PixelAt(v.input.CursorX, v.input.CursorY, int(f.Width), int(f.Height)); ok {
		s += fmt.Sprintf("\npixel (%d,%d) index %#02x", x, y, f.At(x, y))
	}
	if f.Err != nil {
		s += "\n" + f.Err.Error()
	}
	return s
}

func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenWidth, ScreenHeight
}

func loadAssets(cfg *config.Config, log *zap.Logger) ([]*mix.SpriteAsset, error) {
	buf, err := os.ReadFile(cfg.Archive)
	if err != nil {
		return nil, err
	}
	archive, err := mix.ReadArchive(buf)
	if err != nil {
		return nil, err
	}
	log.Info("archive", zap.String("path", cfg.Archive), zap.Int("entries", archive.Len()))

	opts := append(cfg.DecodeOptions(), mix.WithLogger(log))
	results, err := mix.DecodeAll(context.Background(), archive.Select(cfg.Select.Filter()), opts...)
	if err != nil {
		return nil, err
	}
	var assets []*mix.SpriteAsset
	for _, r := range results {
		if r.Err != nil {
			log.Debug("skip entry", zap.String("entry", r.Entry.Name), zap.Error(r.Err))
			continue
		}
		assets = append(assets, r.Asset)
	}
	if len(assets) == 0 {
		return nil, fmt.Errorf("no decodable sprites in %s", cfg.Archive)
	}
	return assets, nil
}

func main() {
	inputPath := flag.String("input", "", "Path to the MIX archive")
	configPath := flag.String("config", "", "YAML config file")
	entry := flag.String("entry", "", "Only load this entry")
	logLevel := flag.String("log", "", "Log level (overrides config)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadFile(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
			os.Exit(1)
		}
	}
	if *inputPath != "" {
		cfg.Archive = *inputPath
	}
	if *entry != "" {
		cfg.Select = config.Selection{Names: []string{*entry}}
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if cfg.Archive == "" {
		fmt.Fprintln(os.Stderr, "Usage: mixview -input <archive> [-config mix.yaml] [-entry NAME]")
		os.Exit(1)
	}

	log := logging.Must(cfg.Log.Level)
	defer log.Sync()

	assets, err := loadAssets(cfg, log)
	if err != nil {
		log.Fatal("load", zap.Error(err))
	}

	ebiten.SetWindowSize(ScreenWidth, ScreenHeight)
	ebiten.SetWindowTitle("mixview: " + cfg.Archive)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(TickRate)

	viewer := NewViewer(assets, imaging.Options{TransparentZero: cfg.Palette.TransparentZero}, log)
	if err := ebiten.RunGame(viewer); err != nil && !errors.Is(err, errQuit) {
		log.Fatal("run", zap.Error(err))
	}
}
