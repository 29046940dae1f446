package systems

import (
	"github.com/1siamBot/rpg-engine/engine/core"
)

// Clip describes one animation strip
type Clip struct {
	Frames int
	FPS    float64
	Loop   bool
}

// ClipTable maps a visual type to its per-state clips. The "" entry is the
// fallback for visuals without their own table.
type ClipTable map[string]map[core.AnimState]Clip

func DefaultClips() ClipTable {
	return ClipTable{
		"": {
			core.AnimIdle:      {Frames: 4, FPS: 4, Loop: true},
			core.AnimWalking:   {Frames: 6, FPS: 10, Loop: true},
			core.AnimAttacking: {Frames: 5, FPS: 12},
			core.AnimDead:      {Frames: 4, FPS: 6},
		},
	}
}

// Lookup returns the clip for a visual and state
func (t ClipTable) Lookup(visual string, st core.AnimState) Clip {
	if clips, ok := t[visual]; ok {
		if c, ok := clips[st]; ok {
			return c
		}
	}
	return t[""][st]
}

// AnimationSystem derives each renderable's state and steps its frames
type AnimationSystem struct {
	Clips ClipTable
}

func NewAnimationSystem() *AnimationSystem {
	return &AnimationSystem{Clips: DefaultClips()}
}

func (s *AnimationSystem) Name() string  { return "animation" }
func (s *AnimationSystem) Priority() int { return 40 }

func (s *AnimationSystem) Update(w *core.World, dt float64) {
	for _, e := range w.Query(core.CompRenderable) {
		r := e.Renderable()
		next := intendedState(e)
		if next == core.AnimAttacking {
			swing := e.Combat().LastAttack
			// a swing that follows the previous one without a gap replays the clip
			if next != r.State || swing != r.SwingStart {
				r.State = next
				r.Frame = 0
				r.FrameTime = 0
				r.SwingStart = swing
				continue
			}
		}
		if next != r.State {
			r.State = next
			r.Frame = 0
			r.FrameTime = 0
			continue
		}

		clip := s.Clips.Lookup(r.Visual, r.State)
		if clip.Frames <= 0 {
			continue
		}
		last := clip.Frames - 1

		if r.State == core.AnimAttacking {
			if r.Frame < last {
				r.Frame++
			}
			continue
		}

		if clip.FPS <= 0 {
			continue
		}
		r.FrameTime += dt
		frameDur := 1.0 / clip.FPS
		for r.FrameTime >= frameDur {
			r.FrameTime -= frameDur
			switch {
			case r.Frame < last:
				r.Frame++
			case clip.Loop:
				r.Frame = 0
			}
		}
	}
}

// intendedState applies the precedence dead > attacking > walking > idle
func intendedState(e *core.Entity) core.AnimState {
	if e.IsDead() {
		return core.AnimDead
	}
	if cb := e.Combat(); cb != nil && cb.Attacking {
		return core.AnimAttacking
	}
	if mv := e.Movement(); mv != nil && mv.Moving {
		return core.AnimWalking
	}
	if ai := e.AI(); ai != nil && ai.State == core.AIChase {
		return core.AnimWalking
	}
	return core.AnimIdle
}
