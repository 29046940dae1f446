package core

// GameState represents the overall run state of the simulation
type GameState uint8

const (
	StatePlaying GameState = iota
	StatePaused
)

// MaxFrameTime caps a single frame to avoid a spiral of death after a stall
const MaxFrameTime = 0.25

// GameLoop manages the fixed-timestep loop driving a World
type GameLoop struct {
	World       *World
	State       GameState
	TickRate    float64 // fixed ticks per second
	accumulator float64

	// AfterTick runs after every simulated tick with the fixed dt
	AfterTick func(dt float64)
}

// NewGameLoop creates a game loop with fixed tick rate
func NewGameLoop(w *World, tickRate float64) *GameLoop {
	return &GameLoop{
		World:    w,
		TickRate: tickRate,
	}
}

// Advance should be called every render frame with the elapsed wall time.
// It runs as many fixed ticks as fit and returns the interpolation alpha.
func (gl *GameLoop) Advance(frameTime float64) float64 {
	if frameTime > MaxFrameTime {
		frameTime = MaxFrameTime
	}
	if frameTime < 0 {
		frameTime = 0
	}

	dt := 1.0 / gl.TickRate
	gl.accumulator += frameTime

	for gl.accumulator >= dt {
		if gl.State == StatePlaying {
			gl.World.Tick(dt)
			if gl.AfterTick != nil {
				gl.World.guard("after-tick", func() { gl.AfterTick(dt) })
			}
		}
		gl.accumulator -= dt
	}

	return gl.accumulator / dt
}

func (gl *GameLoop) Play()  { gl.State = StatePlaying }
func (gl *GameLoop) Pause() { gl.State = StatePaused }

// TogglePause flips between playing and paused
func (gl *GameLoop) TogglePause() {
	if gl.State == StatePlaying {
		gl.Pause()
	} else {
		gl.Play()
	}
}

// CurrentTick returns the current simulation tick
func (gl *GameLoop) CurrentTick() uint64 {
	return gl.World.TickCount
}
