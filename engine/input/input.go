// Package input polls ebiten once per frame and turns it into player orders.
package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/1siamBot/rpg-engine/engine/game"
)

// Bindings maps actions to keys
type Bindings struct {
	Summon      ebiten.Key
	Pause       ebiten.Key
	Help        ebiten.Key
	ZoomIn      ebiten.Key
	ZoomOut     ebiten.Key
	Debug       ebiten.Key
	ZoomPerStep float64
}

func DefaultBindings() Bindings {
	return Bindings{
		Summon:      ebiten.KeyQ,
		Pause:       ebiten.KeyP,
		Help:        ebiten.KeyF1,
		ZoomIn:      ebiten.KeyEqual,
		ZoomOut:     ebiten.KeyMinus,
		Debug:       ebiten.KeyF3,
		ZoomPerStep: 0.1,
	}
}

// InputState tracks mouse and keyboard state per frame
type InputState struct {
	MouseX, MouseY   int
	LeftPressed      bool
	LeftJustPressed  bool
	RightJustPressed bool
	ScrollY          float64

	PauseJustPressed  bool
	SummonJustPressed bool
	HelpJustPressed   bool
	DebugJustPressed  bool
	ZoomDelta         float64

	Keys Bindings
}

func NewInputState() *InputState {
	return &InputState{Keys: DefaultBindings()}
}

// Update should be called every frame
func (s *InputState) Update() {
	s.MouseX, s.MouseY = ebiten.CursorPosition()
	s.LeftPressed = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	s.LeftJustPressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	s.RightJustPressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight)

	_, s.ScrollY = ebiten.Wheel()

	s.PauseJustPressed = inpututil.IsKeyJustPressed(s.Keys.Pause) || inpututil.IsKeyJustPressed(ebiten.KeyEscape)
	s.SummonJustPressed = inpututil.IsKeyJustPressed(s.Keys.Summon)
	s.HelpJustPressed = inpututil.IsKeyJustPressed(s.Keys.Help)
	s.DebugJustPressed = inpututil.IsKeyJustPressed(s.Keys.Debug)

	s.ZoomDelta = s.ScrollY * s.Keys.ZoomPerStep
	if inpututil.IsKeyJustPressed(s.Keys.ZoomIn) {
		s.ZoomDelta += s.Keys.ZoomPerStep
	}
	if inpututil.IsKeyJustPressed(s.Keys.ZoomOut) {
		s.ZoomDelta -= s.Keys.ZoomPerStep
	}
}

// Apply issues this frame's orders to the engine. Holding the left button
// keeps steering the player toward the cursor. Orders are ignored while
// the loop is paused; pause itself is left to the caller.
func (s *InputState) Apply(e *game.Engine, paused bool) {
	if paused {
		return
	}
	if s.ZoomDelta != 0 {
		e.Camera.ZoomBy(s.ZoomDelta)
	}
	if s.LeftPressed || s.RightJustPressed {
		wx, wy := e.Camera.ScreenToWorld(float64(s.MouseX), float64(s.MouseY))
		e.MovePlayerTo(wx, wy)
	}
	if s.SummonJustPressed {
		e.SummonPet()
	}
}
