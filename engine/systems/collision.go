package systems

import (
	"github.com/1siamBot/rpg-engine/engine/core"
)

// CollisionSystem reports overlapping colliders. It does not resolve them.
type CollisionSystem struct{}

func (s *CollisionSystem) Name() string  { return "collision" }
func (s *CollisionSystem) Priority() int { return 50 }

func (s *CollisionSystem) Update(w *core.World, _ float64) {
	list := w.Query(core.CompTransform, core.CompCollider)
	for i := 0; i < len(list); i++ {
		a := list[i]
		for j := i + 1; j < len(list); j++ {
			b := list[j]
			if core.Intersects(a.Transform(), a.Collider(), b.Transform(), b.Collider()) {
				w.Events.Emit(core.EvtCollision, core.CollisionEvent{A: a.ID, B: b.ID})
			}
		}
	}
}
