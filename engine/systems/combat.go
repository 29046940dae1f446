package systems

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/1siamBot/rpg-engine/engine/core"
)

const (
	DefaultKnockbackForce    = 18.0
	DefaultKnockbackDuration = 150 * time.Millisecond
)

// HitEffects receives a callback for every landed hit, after damage is applied.
// It drives presentation only: particles, shake, flash, sound.
type HitEffects interface {
	OnHit(w *core.World, attacker, target *core.Entity, damage int)
}

// CombatSystem acquires targets, starts swings and resolves pending hits
// against the simulation clock
type CombatSystem struct {
	Effects           HitEffects
	KnockbackForce    float64
	KnockbackDuration time.Duration
}

func NewCombatSystem(fx HitEffects) *CombatSystem {
	return &CombatSystem{
		Effects:           fx,
		KnockbackForce:    DefaultKnockbackForce,
		KnockbackDuration: DefaultKnockbackDuration,
	}
}

func (s *CombatSystem) Name() string  { return "combat" }
func (s *CombatSystem) Priority() int { return 20 }

func (s *CombatSystem) Update(w *core.World, _ float64) {
	now := w.Now()
	for _, e := range w.Query(core.CompTransform, core.CompCombat) {
		cb := e.Combat()

		// hits already committed land even if the attacker has since died
		for _, hit := range cb.DueHits(now) {
			s.resolveHit(w, e, hit)
		}
		cb.FinishAttack(now)

		if e.IsDead() {
			continue
		}

		if !w.Alive(cb.Target) {
			cb.Target = s.acquireTarget(w, e)
		}
		if cb.Target == 0 {
			continue
		}
		target := w.Entity(cb.Target)
		if e.Transform().DistanceTo(target.Transform()) <= cb.Range && cb.CanAttack(now) {
			cb.StartAttack(now, target.ID)
			w.Events.Emit(core.EvtAttackStarted, core.AttackEvent{Attacker: e.ID, Target: target.ID})
		}
	}
}

func (s *CombatSystem) resolveHit(w *core.World, attacker *core.Entity, hit core.PendingHit) {
	target := w.Entity(hit.Target)
	if target == nil || target.IsDead() {
		return
	}
	hp := target.Health()
	if hp == nil {
		return
	}

	dmg := attacker.Combat().Damage
	died := hp.TakeDamage(dmg)

	if s.Effects != nil {
		s.Effects.OnHit(w, attacker, target, dmg)
	}
	w.Events.Emit(core.EvtEntityDamaged, core.DamageEvent{
		Attacker:  attacker.ID,
		Target:    target.ID,
		Amount:    dmg,
		Remaining: hp.Current,
	})
	s.knockback(w, attacker, target)

	if died {
		w.Log.Debug("entity killed",
			zap.Uint64("entity", uint64(target.ID)),
			zap.Uint64("killer", uint64(attacker.ID)),
		)
		w.Events.Emit(core.EvtEntityDeath, core.DeathEvent{Entity: target.ID, Killer: attacker.ID})
	}
}

// knockback shoves the target away from the attacker and cancels the
// shove after a fixed duration whether or not it completed
func (s *CombatSystem) knockback(w *core.World, attacker, target *core.Entity) {
	mv, tt, at := target.Movement(), target.Transform(), attacker.Transform()
	if mv == nil || tt == nil || at == nil || s.KnockbackForce <= 0 {
		return
	}
	dir := tt.Pos().Sub(at.Pos()).Normalize()
	if dir == (core.Vec2{}) {
		dir = core.Vec2{X: 1}
	}
	dest := tt.Pos().Add(dir.Scale(s.KnockbackForce))
	mv.MoveTo(dest.X, dest.Y)
	mv.KnockbackUntil = w.Now() + s.KnockbackDuration

	id := target.ID
	w.Scheduler.At(id, mv.KnockbackUntil, func() {
		if e := w.Entity(id); e != nil {
			if m := e.Movement(); m != nil {
				m.Stop()
			}
		}
	})
}

// acquireTarget returns the nearest eligible live candidate. Equal
// distances resolve to the lowest EntityID.
func (s *CombatSystem) acquireTarget(w *core.World, self *core.Entity) core.EntityID {
	pos := self.Transform()
	var best core.EntityID
	bestDist := math.MaxFloat64
	for _, c := range w.Query(core.CompTransform, core.CompHealth) {
		if c.ID == self.ID || c.IsDead() || !CanTarget(self, c) {
			continue
		}
		d := pos.DistanceTo(c.Transform())
		if d < bestDist {
			bestDist = d
			best = c.ID
		}
	}
	return best
}

// CanTarget applies the role rules: pets hunt non-pet AI, AI hunts
// non-AI, and non-AI entities hunt hostile AI. NPCs are never targets.
func CanTarget(attacker, candidate *core.Entity) bool {
	if candidate.Has(core.CompNPC) {
		return false
	}
	aAI, cAI := attacker.AI(), candidate.AI()
	switch {
	case aAI != nil && aAI.Behavior == core.BehaviorPet:
		return cAI != nil && cAI.Behavior != core.BehaviorPet
	case aAI != nil:
		return cAI == nil
	default:
		return cAI != nil && cAI.Behavior != core.BehaviorPet
	}
}
