package systems

import (
	"github.com/1siamBot/rpg-engine/engine/core"
)

// ArriveEpsilon is the distance at which a mover counts as arrived
const ArriveEpsilon = 2.0

// MovementSystem moves entities in a straight line toward their target
type MovementSystem struct{}

func (s *MovementSystem) Name() string  { return "movement" }
func (s *MovementSystem) Priority() int { return 10 }

func (s *MovementSystem) Update(w *core.World, dt float64) {
	for _, e := range w.Query(core.CompTransform, core.CompMovement) {
		tr := e.Transform()
		mv := e.Movement()

		tr.PrevX, tr.PrevY = tr.X, tr.Y
		if !mv.Moving || mv.Target == nil {
			mv.Velocity = core.Vec2{}
			continue
		}
		if e.IsDead() {
			mv.Stop()
			continue
		}

		to := mv.Target.Sub(tr.Pos())
		dist := to.Len()
		if dist < ArriveEpsilon {
			mv.Stop()
			continue
		}

		step := mv.Speed * dt
		if step >= dist {
			tr.PushTrail(tr.Pos())
			tr.X, tr.Y = mv.Target.X, mv.Target.Y
			mv.Stop()
			continue
		}

		mv.Velocity = to.Normalize().Scale(mv.Speed)
		tr.PushTrail(tr.Pos())
		tr.X += mv.Velocity.X * dt
		tr.Y += mv.Velocity.Y * dt
	}
}
