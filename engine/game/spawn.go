package game

import (
	"image/color"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/1siamBot/rpg-engine/engine/core"
)

// Archetype is the stat block a factory stamps onto a new entity
type Archetype struct {
	Visual    string
	Color     color.RGBA
	Size      float64
	HP        int
	Damage    int
	Range     float64
	Cooldown  time.Duration
	Swing     time.Duration
	Speed     float64
	Detection float64
	Gold      int
}

var (
	PlayerArchetype = Archetype{
		Visual: "hero", Color: color.RGBA{80, 160, 255, 255}, Size: 14,
		HP: 120, Damage: 18, Range: 48, Cooldown: 700 * time.Millisecond, Swing: 500 * time.Millisecond,
		Speed: 140,
	}
	PetArchetype = Archetype{
		Visual: "wisp", Color: color.RGBA{150, 255, 180, 255}, Size: 9,
		HP: 60, Damage: 8, Range: 36, Cooldown: 900 * time.Millisecond, Swing: 400 * time.Millisecond,
		Speed: 150, Detection: 160,
	}
	// EnemyArchetypes is keyed by enemy kind
	EnemyArchetypes = map[string]Archetype{
		"slime": {
			Visual: "slime", Color: color.RGBA{120, 220, 90, 255}, Size: 11,
			HP: 30, Damage: 6, Range: 30, Cooldown: 1200 * time.Millisecond, Swing: 600 * time.Millisecond,
			Speed: 55, Detection: 140, Gold: 3,
		},
		"skeleton": {
			Visual: "skeleton", Color: color.RGBA{230, 230, 210, 255}, Size: 13,
			HP: 55, Damage: 11, Range: 42, Cooldown: 1000 * time.Millisecond, Swing: 600 * time.Millisecond,
			Speed: 75, Detection: 170, Gold: 7,
		},
		"wolf": {
			Visual: "wolf", Color: color.RGBA{150, 130, 120, 255}, Size: 12,
			HP: 40, Damage: 9, Range: 34, Cooldown: 800 * time.Millisecond, Swing: 400 * time.Millisecond,
			Speed: 110, Detection: 220, Gold: 5,
		},
	}
	enemyKinds = []string{"slime", "skeleton", "wolf"}
)

func (a Archetype) components(x, y float64) []core.Component {
	return []core.Component{
		core.NewTransform(x, y),
		core.NewHealth(a.HP),
		core.NewMovement(a.Speed),
		core.NewCombat(a.Damage, a.Range, a.Cooldown, a.Swing),
		core.NewRenderable(a.Visual, a.Color, a.Size),
		core.NewCollider(a.Size),
	}
}

// SpawnPlayer creates the player and makes it the camera target
func (e *Engine) SpawnPlayer(x, y float64) *core.Entity {
	a := PlayerArchetype
	p := e.World.Spawn(append(a.components(x, y),
		core.NewMana(100),
		&core.Inventory{},
	)...)
	p.Renderable().ZOrder = 1
	e.Player = p.ID
	e.spawnPoint = core.Vec2{X: x, Y: y}
	e.Camera.CenterOn(x, y)
	e.log.Info("player spawned", zap.Uint64("entity", uint64(p.ID)))
	return p
}

// EnemyCount returns the number of hostile AI entities in the registry,
// including corpses awaiting removal
func (e *Engine) EnemyCount() int {
	n := 0
	for _, ent := range e.World.Query(core.CompAI) {
		if ent.AI().Behavior != core.BehaviorPet {
			n++
		}
	}
	return n
}

// SpawnEnemy creates an enemy of the given kind. Past the population cap the
// request is dropped with a warning.
func (e *Engine) SpawnEnemy(kind string, x, y float64) (*core.Entity, bool) {
	a, ok := EnemyArchetypes[kind]
	if !ok {
		e.log.Warn("unknown enemy kind", zap.String("kind", kind))
		return nil, false
	}
	if n := e.EnemyCount(); n >= e.cfg.World.MaxEnemies {
		e.log.Warn("enemy cap reached, spawn dropped",
			zap.String("kind", kind),
			zap.Int("cap", e.cfg.World.MaxEnemies),
		)
		return nil, false
	}
	ent := e.World.Spawn(append(a.components(x, y),
		core.NewAI(core.BehaviorAggressive, a.Detection),
		&core.Inventory{Gold: a.Gold},
	)...)
	return ent, true
}

// SummonPet spends player mana to create a pet beside the player
func (e *Engine) SummonPet() (*core.Entity, bool) {
	p := e.World.Entity(e.Player)
	if p == nil || p.IsDead() {
		return nil, false
	}
	if m := p.Mana(); m == nil || !m.UseMana(e.cfg.Combat.PetManaCost) {
		return nil, false
	}
	a := PetArchetype
	pos := p.Transform().Pos().Add(core.Vec2{X: e.cfg.AI.PetFollowMin, Y: 0})
	pet := e.World.Spawn(append(a.components(pos.X, pos.Y),
		core.NewAI(core.BehaviorPet, a.Detection),
	)...)
	e.Particles.Burst(pos.X, pos.Y, 16, a.Color, 70)
	return pet, true
}

// SpawnNPC creates a non-combatant. NPCs carry Health but are never targeted.
func (e *Engine) SpawnNPC(name string, x, y float64, dialogue []string, stock []core.ShopItem) *core.Entity {
	comps := []core.Component{
		core.NewTransform(x, y),
		core.NewHealth(1),
		core.NewRenderable("npc", color.RGBA{240, 200, 90, 255}, 13),
		core.NewCollider(13),
		&core.NPC{Name: name, Dialogue: dialogue},
	}
	if len(stock) > 0 {
		comps = append(comps, &core.Shop{Items: stock})
	}
	return e.World.Spawn(comps...)
}

// Populate spawns up to n random enemies away from the player and returns
// how many were created
func (e *Engine) Populate(n int) int {
	made := 0
	for i := 0; i < n; i++ {
		kind := enemyKinds[e.rng.Intn(len(enemyKinds))]
		pos := e.randomSpawnPoint()
		if _, ok := e.SpawnEnemy(kind, pos.X, pos.Y); !ok {
			break
		}
		made++
	}
	return made
}

// Maintain tops the enemy population back up to the configured target
func (e *Engine) Maintain() int {
	missing := e.cfg.World.TargetEnemies - e.EnemyCount()
	if missing <= 0 {
		return 0
	}
	made := e.Populate(missing)
	e.log.Debug("world maintenance", zap.Int("spawned", made), zap.Int("enemies", e.EnemyCount()))
	return made
}

// StartMaintenance schedules Maintain to run every MaintenanceInterval
func (e *Engine) StartMaintenance() {
	interval := e.cfg.World.MaintenanceInterval
	if interval <= 0 {
		return
	}
	var tick func()
	tick = func() {
		e.Maintain()
		e.World.Scheduler.At(0, e.World.Now()+interval, tick)
	}
	e.World.Scheduler.At(0, e.World.Now()+interval, tick)
}

func (e *Engine) randomSpawnPoint() core.Vec2 {
	w, h := e.cfg.World.Width, e.cfg.World.Height
	var center core.Vec2
	if p := e.World.Entity(e.Player); p != nil {
		center = p.Transform().Pos()
	}
	var pos core.Vec2
	for try := 0; try < 10; try++ {
		pos = core.Vec2{X: e.rng.Float64() * w, Y: e.rng.Float64() * h}
		if pos.Dist(center) >= e.cfg.World.SafeRadius {
			return pos
		}
	}
	// fall back to a point on the safe ring
	a := e.rng.Float64() * 2 * math.Pi
	return core.Vec2{
		X: center.X + math.Cos(a)*e.cfg.World.SafeRadius,
		Y: center.Y + math.Sin(a)*e.cfg.World.SafeRadius,
	}
}
