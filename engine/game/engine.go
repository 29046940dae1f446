// Package game wires the world, systems and effects into a running session.
package game

import (
	"fmt"
	"image/color"
	"math/rand"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/1siamBot/rpg-engine/engine/camera"
	"github.com/1siamBot/rpg-engine/engine/config"
	"github.com/1siamBot/rpg-engine/engine/core"
	"github.com/1siamBot/rpg-engine/engine/fx"
	"github.com/1siamBot/rpg-engine/engine/maplib"
	"github.com/1siamBot/rpg-engine/engine/systems"
)

// Engine owns the world, its systems and the presentation state that
// follows the simulation (camera, particles, flash, popups)
type Engine struct {
	World     *core.World
	Loop      *core.GameLoop
	Camera    *camera.Camera
	Particles *fx.ParticleSystem
	Flash     *fx.ScreenFlash
	Popups    *fx.Popups
	Ground    *maplib.GroundMap

	// Player is only used to pick the camera target and the respawn rule
	Player  core.EntityID
	Session string

	cfg        config.Config
	log        *zap.Logger
	rng        *rand.Rand
	spawnPoint core.Vec2
	manaAcc    float64
}

const groundTileSize = 64

// New builds an engine with the systems registered in their fixed order:
// movement, combat, AI, animation, collision
func New(cfg config.Config, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	rng := rand.New(rand.NewSource(cfg.Sim.Seed))

	e := &Engine{
		World:     core.NewWorld(log),
		Particles: fx.NewParticleSystem(rand.New(rand.NewSource(rng.Int63()))),
		Flash:     fx.NewScreenFlash(),
		Popups:    &fx.Popups{},
		Ground:    maplib.Generate(cfg.World.Width, cfg.World.Height, groundTileSize, cfg.Sim.Seed),
		Session:   uuid.NewString(),
		cfg:       cfg,
		log:       log.With(zap.String("component", "engine")),
		rng:       rng,
	}

	cam := camera.New(cfg.Window.Width, cfg.Window.Height, rand.New(rand.NewSource(rng.Int63())))
	cam.Smoothing = cfg.Camera.Smoothing
	cam.MinZoom, cam.MaxZoom = cfg.Camera.MinZoom, cfg.Camera.MaxZoom
	cam.BoundsW, cam.BoundsH = cfg.World.Width, cfg.World.Height
	e.Camera = cam

	combat := systems.NewCombatSystem(e)
	combat.KnockbackForce = cfg.Combat.KnockbackForce
	combat.KnockbackDuration = cfg.Combat.KnockbackDuration

	e.World.AddSystem(&systems.MovementSystem{})
	e.World.AddSystem(combat)
	e.World.AddSystem(systems.NewAISystem(aiTuning(cfg.AI), rand.New(rand.NewSource(rng.Int63()))))
	e.World.AddSystem(systems.NewAnimationSystem())
	e.World.AddSystem(&systems.CollisionSystem{})

	e.Loop = core.NewGameLoop(e.World, cfg.Sim.TickRate)
	e.Loop.AfterTick = e.afterTick

	e.World.Events.On(core.EvtEntityDeath, e.onDeath)
	return e
}

func aiTuning(c config.AIConfig) systems.AITuning {
	return systems.AITuning{
		PatrolChance:     c.PatrolChance,
		IdleChance:       c.IdleChance,
		PatrolPoints:     c.PatrolPoints,
		PatrolRadius:     c.PatrolRadius,
		ChaseExitFactor:  c.ChaseExitFactor,
		AttackExitFactor: c.AttackExitFactor,
		PetFollowMin:     c.PetFollowMin,
		PetFollowMax:     c.PetFollowMax,
	}
}

func (e *Engine) Config() config.Config { return e.cfg }

// Update advances the simulation by a frame's worth of wall time
func (e *Engine) Update(frameSeconds float64) float64 {
	return e.Loop.Advance(frameSeconds)
}

// Step runs exactly one fixed tick regardless of the loop state
func (e *Engine) Step() {
	dt := 1 / e.Loop.TickRate
	e.World.Tick(dt)
	e.afterTick(dt)
}

func (e *Engine) afterTick(dt float64) {
	e.Particles.Update(dt)
	e.Popups.Update(dt)
	e.Flash.Update(dt)
	e.regenMana(dt)

	if p := e.World.Entity(e.Player); p != nil && p.Transform() != nil {
		e.Camera.Follow(p.Transform().X, p.Transform().Y)
	}
	e.Camera.Update(dt)
}

// AddEntity registers an externally built entity
func (e *Engine) AddEntity(ent *core.Entity) { e.World.AddEntity(ent) }

// RemoveEntity unregisters an entity and cancels its timers
func (e *Engine) RemoveEntity(id core.EntityID) bool { return e.World.RemoveEntity(id) }

// EntitiesWith lists entities carrying a component type in ID order
func (e *Engine) EntitiesWith(ct core.ComponentType) []*core.Entity {
	return e.World.EntitiesWith(ct)
}

// OnHit turns a landed hit into particles, popups, shake and flash
func (e *Engine) OnHit(_ *core.World, attacker, target *core.Entity, damage int) {
	tt := target.Transform()
	if tt == nil {
		return
	}
	clr := color.RGBA{255, 230, 120, 255}
	if r := target.Renderable(); r != nil {
		clr = r.Color
	}
	e.Particles.Burst(tt.X, tt.Y, 6+damage/5, clr, 90)
	e.Popups.Add(tt.X, tt.Y-12, fmt.Sprintf("-%d", damage), color.RGBA{255, 255, 255, 255})

	switch e.Player {
	case target.ID:
		e.Camera.Shake(e.cfg.Combat.ShakeIntensity*1.5, e.cfg.Combat.ShakeDuration)
		e.Flash.Trigger(e.cfg.Combat.FlashAlpha)
	case attacker.ID:
		e.Camera.Shake(e.cfg.Combat.ShakeIntensity, e.cfg.Combat.ShakeDuration)
	}
}

// MovePlayerTo issues a click-to-move order
func (e *Engine) MovePlayerTo(x, y float64) bool {
	p := e.World.Entity(e.Player)
	if p == nil || p.IsDead() || p.Movement() == nil {
		return false
	}
	p.Movement().MoveTo(x, y)
	return true
}

const manaRegenPerSecond = 4.0

func (e *Engine) regenMana(dt float64) {
	p := e.World.Entity(e.Player)
	if p == nil || p.IsDead() || p.Mana() == nil {
		return
	}
	e.manaAcc += manaRegenPerSecond * dt
	if whole := int(e.manaAcc); whole > 0 {
		p.Mana().RestoreMana(whole)
		e.manaAcc -= float64(whole)
	}
}

// NearbyNPC returns the closest NPC within radius of the player, or nil
func (e *Engine) NearbyNPC(radius float64) *core.Entity {
	p := e.World.Entity(e.Player)
	if p == nil || p.IsDead() {
		return nil
	}
	var best *core.Entity
	bestD := radius
	for _, ent := range e.World.Query(core.CompNPC, core.CompTransform) {
		if d := ent.Transform().DistanceTo(p.Transform()); d <= bestD {
			best, bestD = ent, d
		}
	}
	return best
}
