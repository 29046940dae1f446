package game

import (
	"go.uber.org/zap"

	"github.com/1siamBot/rpg-engine/engine/core"
)

// onDeath plays the death burst, hands over gold and schedules either
// removal (AI entities) or respawn (the player). The player is never removed.
func (e *Engine) onDeath(ev core.Event) {
	d := ev.Payload.(core.DeathEvent)
	victim := e.World.Entity(d.Entity)
	if victim == nil {
		return
	}
	if t, r := victim.Transform(), victim.Renderable(); t != nil && r != nil {
		e.Particles.Burst(t.X, t.Y, 24, r.Color, 130)
	}
	e.transferGold(victim, e.World.Entity(d.Killer))

	switch {
	case victim.ID == e.Player:
		e.log.Info("player died", zap.Duration("respawn_in", e.cfg.World.RespawnDelay))
		id := victim.ID
		e.World.Scheduler.At(id, e.World.Now()+e.cfg.World.RespawnDelay, func() { e.Respawn(id) })
	case victim.Has(core.CompAI):
		id := victim.ID
		e.World.Scheduler.At(id, e.World.Now()+e.cfg.World.RemovalDelay, func() { e.World.RemoveEntity(id) })
	}
}

// transferGold moves the victim's purse to the killer, or to the player when
// a pet made the kill
func (e *Engine) transferGold(victim, killer *core.Entity) {
	purse := victim.Inventory()
	if purse == nil || purse.Gold == 0 || killer == nil {
		return
	}
	if ai := killer.AI(); ai != nil && ai.Behavior == core.BehaviorPet {
		killer = e.World.Entity(e.Player)
	}
	if killer == nil || killer.Inventory() == nil {
		return
	}
	killer.Inventory().Gold += purse.Gold
	purse.Gold = 0
}

// Respawn revives an entity at the session spawn point
func (e *Engine) Respawn(id core.EntityID) bool {
	ent := e.World.Entity(id)
	if ent == nil || ent.Health() == nil {
		return false
	}
	ent.Health().Revive()
	if t := ent.Transform(); t != nil {
		t.X, t.Y = e.spawnPoint.X, e.spawnPoint.Y
		t.PrevX, t.PrevY = t.X, t.Y
	}
	if mv := ent.Movement(); mv != nil {
		mv.Stop()
		mv.KnockbackUntil = 0
	}
	if cb := ent.Combat(); cb != nil {
		cb.Reset()
	}
	if m := ent.Mana(); m != nil {
		m.RestoreMana(m.Max)
	}
	if id == e.Player {
		e.Camera.CenterOn(e.spawnPoint.X, e.spawnPoint.Y)
	}
	e.log.Info("entity respawned", zap.Uint64("entity", uint64(id)))
	return true
}
