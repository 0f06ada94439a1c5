package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Action is a viewer command bound to a key.
type Action int

const (
	ActionNone Action = iota
	ActionNextFrame
	ActionPrevFrame
	ActionNextAsset
	ActionPrevAsset
	ActionCyclePalette
	ActionZoomIn
	ActionZoomOut
	ActionTogglePlay
	ActionResetView
	ActionQuit
)

// DefaultBindings maps keys to viewer actions.
var DefaultBindings = map[ebiten.Key]Action{
	ebiten.KeyRight:  ActionNextFrame,
	ebiten.KeyD:      ActionNextFrame,
	ebiten.KeyLeft:   ActionPrevFrame,
	ebiten.KeyA:      ActionPrevFrame,
	ebiten.KeyDown:   ActionNextAsset,
	ebiten.KeyS:      ActionNextAsset,
	ebiten.KeyUp:     ActionPrevAsset,
	ebiten.KeyW:      ActionPrevAsset,
	ebiten.KeyP:      ActionCyclePalette,
	ebiten.KeyEqual:  ActionZoomIn,
	ebiten.KeyMinus:  ActionZoomOut,
	ebiten.KeySpace:  ActionTogglePlay,
	ebiten.KeyR:      ActionResetView,
	ebiten.KeyEscape: ActionQuit,
}

// repeatDelay and repeatInterval are in ticks.
const (
	repeatDelay    = 20
	repeatInterval = 4
)

// InputState collects the actions triggered during one tick.
type InputState struct {
	Bindings map[ebiten.Key]Action

	CursorX, CursorY int
	ScrollY          float64

	// DragX, DragY is how far the cursor moved this tick with the left button held.
	DragX, DragY int

	actions []Action
}

func NewInputState() *InputState {
	return &InputState{Bindings: DefaultBindings}
}

// Update should be called every tick
func (s *InputState) Update() {
	s.actions = s.actions[:0]
	for key, action := range s.Bindings {
		if pressedOrRepeated(inpututil.KeyPressDuration(key)) {
			s.actions = append(s.actions, action)
		}
	}
	_, s.ScrollY = ebiten.Wheel()

	x, y := ebiten.CursorPosition()
	s.DragX, s.DragY = 0, 0
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) && !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		s.DragX, s.DragY = x-s.CursorX, y-s.CursorY
	}
	s.CursorX, s.CursorY = x, y
}

// Actions returns this tick's actions. The slice is reused by the next Update.
func (s *InputState) Actions() []Action { return s.actions }

// Triggered reports whether a fired this tick.
func (s *InputState) Triggered(a Action) bool {
	for _, got := range s.actions {
		if got == a {
			return true
		}
	}
	return false
}

func pressedOrRepeated(d int) bool {
	if d == 1 {
		return true
	}
	return d > repeatDelay && (d-repeatDelay)%repeatInterval == 0
}
