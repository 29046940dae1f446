package game

import (
	"github.com/1siamBot/rpg-engine/engine/core"
	"github.com/1siamBot/rpg-engine/engine/network"
)

// Snapshot captures the visible world state for spectators
func (e *Engine) Snapshot() network.Frame {
	list := e.World.Query(core.CompTransform)
	f := network.Frame{
		Tick:     e.World.TickCount,
		TimeMS:   e.World.Now().Milliseconds(),
		Session:  e.Session,
		Entities: make([]network.EntityState, 0, len(list)),
	}
	for _, ent := range list {
		t := ent.Transform()
		st := network.EntityState{ID: uint64(ent.ID), X: t.X, Y: t.Y}
		if h := ent.Health(); h != nil {
			st.HP, st.MaxHP, st.Dead = h.Current, h.Max, h.Dead
		}
		if r := ent.Renderable(); r != nil {
			st.Visual, st.Anim, st.Frame = r.Visual, r.State.String(), r.Frame
		}
		if ai := ent.AI(); ai != nil {
			st.AI = ai.State.String()
		}
		f.Entities = append(f.Entities, st)
	}
	return f
}
