package systems

import (
	"math"
	"math/rand"

	"github.com/1siamBot/rpg-engine/engine/core"
)

// AITuning holds the state machine thresholds
type AITuning struct {
	PatrolChance     float64 // per-tick chance idle -> patrol
	IdleChance       float64 // per-tick chance patrol -> idle
	PatrolPoints     int
	PatrolRadius     float64
	ChaseExitFactor  float64 // chase -> idle beyond DetectionRange * factor
	AttackExitFactor float64 // attack -> chase beyond Combat.Range * factor
	PetFollowMin     float64
	PetFollowMax     float64
}

func DefaultAITuning() AITuning {
	return AITuning{
		PatrolChance:     0.01,
		IdleChance:       0.005,
		PatrolPoints:     4,
		PatrolRadius:     80,
		ChaseExitFactor:  1.5,
		AttackExitFactor: 1.2,
		PetFollowMin:     40,
		PetFollowMax:     90,
	}
}

// AISystem drives AI state machines for enemies and pets
type AISystem struct {
	Tuning AITuning
	Rand   *rand.Rand
}

func NewAISystem(t AITuning, rng *rand.Rand) *AISystem {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &AISystem{Tuning: t, Rand: rng}
}

func (s *AISystem) Name() string  { return "ai" }
func (s *AISystem) Priority() int { return 30 }

func (s *AISystem) Update(w *core.World, _ float64) {
	for _, e := range w.Query(core.CompTransform, core.CompAI) {
		if e.IsDead() {
			continue
		}
		if e.AI().Behavior == core.BehaviorPet {
			s.updatePet(w, e)
			continue
		}
		s.updateHostile(w, e)
	}
}

func (s *AISystem) updateHostile(w *core.World, e *core.Entity) {
	ai := e.AI()
	pos := e.Transform()
	now := w.Now()

	switch ai.State {
	case core.AIIdle, core.AIFollow:
		if s.detect(w, e) {
			return
		}
		if ai.State == core.AIFollow {
			ai.SetState(core.AIIdle, now)
		}
		if s.Rand.Float64() < s.Tuning.PatrolChance {
			s.makeWaypoints(ai, pos.Pos())
			ai.SetState(core.AIPatrol, now)
		}

	case core.AIPatrol:
		if s.detect(w, e) {
			return
		}
		if s.Rand.Float64() < s.Tuning.IdleChance {
			ai.SetState(core.AIIdle, now)
			stop(w, e)
			return
		}
		s.stepPatrol(e)

	case core.AIChase:
		target := w.Entity(ai.Target)
		if target == nil || target.IsDead() {
			s.loseTarget(w, e)
			return
		}
		d := pos.DistanceTo(target.Transform())
		if d > ai.DetectionRange*s.Tuning.ChaseExitFactor {
			s.loseTarget(w, e)
			return
		}
		if cb := e.Combat(); cb != nil && d <= cb.Range {
			ai.SetState(core.AIAttack, now)
			stop(w, e)
			return
		}
		moveToward(w, e, target.Transform().Pos())

	case core.AIAttack:
		target := w.Entity(ai.Target)
		if target == nil || target.IsDead() {
			s.loseTarget(w, e)
			return
		}
		cb := e.Combat()
		if cb == nil || pos.DistanceTo(target.Transform()) > cb.Range*s.Tuning.AttackExitFactor {
			ai.SetState(core.AIChase, now)
			moveToward(w, e, target.Transform().Pos())
			return
		}
		stop(w, e)
	}
}

// detect switches to chase when a player is inside detection range
func (s *AISystem) detect(w *core.World, e *core.Entity) bool {
	ai := e.AI()
	if ai.Behavior == core.BehaviorPassive {
		return false
	}
	p, d := nearestPlayer(w, e.Transform().Pos())
	if p == nil || d > ai.DetectionRange {
		return false
	}
	ai.Target = p.ID
	ai.SetState(core.AIChase, w.Now())
	return true
}

func (s *AISystem) loseTarget(w *core.World, e *core.Entity) {
	ai := e.AI()
	ai.Target = 0
	ai.SetState(core.AIIdle, w.Now())
	stop(w, e)
}

func (s *AISystem) makeWaypoints(ai *core.AI, center core.Vec2) {
	n := s.Tuning.PatrolPoints
	if n <= 0 {
		n = 1
	}
	phase := s.Rand.Float64() * 2 * math.Pi
	ai.Waypoints = ai.Waypoints[:0]
	for i := 0; i < n; i++ {
		a := phase + 2*math.Pi*float64(i)/float64(n)
		ai.Waypoints = append(ai.Waypoints, core.Vec2{
			X: center.X + math.Cos(a)*s.Tuning.PatrolRadius,
			Y: center.Y + math.Sin(a)*s.Tuning.PatrolRadius,
		})
	}
	ai.WaypointIndex = 0
}

func (s *AISystem) stepPatrol(e *core.Entity) {
	ai := e.AI()
	if len(ai.Waypoints) == 0 {
		return
	}
	mv := e.Movement()
	if mv == nil {
		return
	}
	if !mv.Moving {
		wp := ai.Waypoints[ai.WaypointIndex]
		if e.Transform().Pos().Dist(wp) < ArriveEpsilon {
			ai.WaypointIndex = (ai.WaypointIndex + 1) % len(ai.Waypoints)
			wp = ai.Waypoints[ai.WaypointIndex]
		}
		mv.MoveTo(wp.X, wp.Y)
	}
}

func (s *AISystem) updatePet(w *core.World, e *core.Entity) {
	ai := e.AI()
	pos := e.Transform().Pos()
	now := w.Now()

	if prey, d := nearestPrey(w, e); prey != nil && d <= ai.DetectionRange {
		ai.Target = prey.ID
		if cb := e.Combat(); cb != nil && d <= cb.Range {
			ai.SetState(core.AIAttack, now)
			stop(w, e)
			return
		}
		ai.SetState(core.AIChase, now)
		moveToward(w, e, prey.Transform().Pos())
		return
	}
	ai.Target = 0

	owner, d := nearestPlayer(w, pos)
	if owner == nil {
		ai.SetState(core.AIIdle, now)
		stop(w, e)
		return
	}
	op := owner.Transform().Pos()
	switch {
	case d > s.Tuning.PetFollowMax:
		// aim for the middle of the comfort band
		mid := (s.Tuning.PetFollowMin + s.Tuning.PetFollowMax) / 2
		dest := op.Add(pos.Sub(op).Normalize().Scale(mid))
		ai.SetState(core.AIFollow, now)
		moveToward(w, e, dest)
	case d < s.Tuning.PetFollowMin:
		away := pos.Sub(op).Normalize()
		if away == (core.Vec2{}) {
			away = core.Vec2{X: 1}
		}
		dest := op.Add(away.Scale(s.Tuning.PetFollowMin))
		ai.SetState(core.AIFollow, now)
		moveToward(w, e, dest)
	default:
		ai.SetState(core.AIIdle, now)
		stop(w, e)
	}
}

// nearestPlayer finds the closest live entity with Health that is neither
// AI-driven nor an NPC. Ties go to the lowest ID.
func nearestPlayer(w *core.World, from core.Vec2) (*core.Entity, float64) {
	var best *core.Entity
	bestDist := math.MaxFloat64
	for _, c := range w.Query(core.CompTransform, core.CompHealth) {
		if c.Has(core.CompAI) || c.Has(core.CompNPC) || c.IsDead() {
			continue
		}
		if d := from.Dist(c.Transform().Pos()); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, bestDist
}

func nearestPrey(w *core.World, pet *core.Entity) (*core.Entity, float64) {
	from := pet.Transform().Pos()
	var best *core.Entity
	bestDist := math.MaxFloat64
	for _, c := range w.Query(core.CompTransform, core.CompAI, core.CompHealth) {
		if c.ID == pet.ID || c.IsDead() || c.AI().Behavior == core.BehaviorPet || c.Has(core.CompNPC) {
			continue
		}
		if d := from.Dist(c.Transform().Pos()); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, bestDist
}

// moveToward and stop leave a mover alone while it is being knocked back
func moveToward(w *core.World, e *core.Entity, p core.Vec2) {
	if mv := e.Movement(); mv != nil && !mv.KnockedBack(w.Now()) {
		mv.MoveTo(p.X, p.Y)
	}
}

func stop(w *core.World, e *core.Entity) {
	if mv := e.Movement(); mv != nil && !mv.KnockedBack(w.Now()) {
		mv.Stop()
	}
}
