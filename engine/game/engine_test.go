package game

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/1siamBot/rpg-engine/engine/config"
	"github.com/1siamBot/rpg-engine/engine/core"
)

func testEngine(t *testing.T, mutate ...func(*config.Config)) *Engine {
	t.Helper()
	cfg := config.Default()
	cfg.Sim.Seed = 7
	for _, m := range mutate {
		m(&cfg)
	}
	require.NoError(t, cfg.Validate())
	return New(cfg, zaptest.NewLogger(t))
}

// runUntil steps the engine until the world clock reaches d
func runUntil(e *Engine, d time.Duration) {
	for e.World.Now() < d {
		e.Step()
	}
}

type panicSystem struct{ calls int }

func (p *panicSystem) Name() string  { return "panic" }
func (p *panicSystem) Priority() int { return 15 }
func (p *panicSystem) Update(*core.World, float64) {
	p.calls++
	panic("boom")
}

func TestSystemsRegisteredInOrder(t *testing.T) {
	e := testEngine(t)
	var names []string
	for _, s := range e.World.Systems() {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{"movement", "combat", "ai", "animation", "collision"}, names)
}

func TestEnemyRemovedAfterDelay(t *testing.T) {
	e := testEngine(t)
	e.SpawnPlayer(500, 500)
	enemy, ok := e.SpawnEnemy("slime", 2500, 2500)
	require.True(t, ok)

	require.True(t, enemy.Health().TakeDamage(1000))
	e.World.Events.Emit(core.EvtEntityDeath, core.DeathEvent{Entity: enemy.ID})

	runUntil(e, e.cfg.World.RemovalDelay-100*time.Millisecond)
	assert.True(t, e.World.Alive(enemy.ID), "corpse lingers until the removal delay")

	runUntil(e, e.cfg.World.RemovalDelay+100*time.Millisecond)
	assert.False(t, e.World.Alive(enemy.ID))
}

func TestPlayerRespawnsAndIsNeverRemoved(t *testing.T) {
	e := testEngine(t)
	p := e.SpawnPlayer(500, 500)
	p.Transform().X, p.Transform().Y = 900, 900
	p.Movement().MoveTo(1000, 1000)

	require.True(t, p.Health().TakeDamage(1000))
	e.World.Events.Emit(core.EvtEntityDeath, core.DeathEvent{Entity: p.ID})

	runUntil(e, e.cfg.World.RespawnDelay-100*time.Millisecond)
	assert.True(t, p.IsDead())

	runUntil(e, e.cfg.World.RespawnDelay+100*time.Millisecond)
	require.True(t, e.World.Alive(p.ID))
	assert.False(t, p.IsDead())
	assert.Equal(t, p.Health().Max, p.Health().Current)
	assert.InDelta(t, 500, p.Transform().X, 1e-9)
	assert.InDelta(t, 500, p.Transform().Y, 1e-9)
	assert.False(t, p.Movement().Moving)

	runUntil(e, 10*time.Second)
	assert.True(t, e.World.Alive(p.ID))
}

func TestEnemyCapDropsSpawnWithWarning(t *testing.T) {
	obs, logs := observer.New(zap.WarnLevel)
	cfg := config.Default()
	cfg.World.MaxEnemies = 2
	e := New(cfg, zap.New(obs))

	for i := 0; i < 2; i++ {
		_, ok := e.SpawnEnemy("wolf", float64(i*100), 0)
		require.True(t, ok)
	}
	ent, ok := e.SpawnEnemy("wolf", 300, 0)
	assert.False(t, ok)
	assert.Nil(t, ent)
	assert.Equal(t, 2, e.EnemyCount())
	assert.Equal(t, 1, logs.FilterMessage("enemy cap reached, spawn dropped").Len())

	_, ok = e.SpawnEnemy("dragon", 0, 0)
	assert.False(t, ok)
}

func TestPanickingSystemDoesNotHaltLoop(t *testing.T) {
	e := testEngine(t)
	p := e.SpawnPlayer(0, 0)
	p.Movement().MoveTo(1000, 0)
	bad := &panicSystem{}
	e.World.AddSystem(bad)

	for i := 0; i < 10; i++ {
		e.Step()
	}
	assert.Equal(t, 10, bad.calls)
	assert.Equal(t, uint64(10), e.World.TickCount)
	assert.Greater(t, p.Transform().X, 0.0, "movement keeps running")
}

func TestSummonPetCostsMana(t *testing.T) {
	e := testEngine(t)
	p := e.SpawnPlayer(500, 500)

	for i := 0; i < 3; i++ {
		pet, ok := e.SummonPet()
		require.True(t, ok)
		assert.Equal(t, core.BehaviorPet, pet.AI().Behavior)
	}
	assert.Equal(t, 10, p.Mana().Current)

	_, ok := e.SummonPet()
	assert.False(t, ok, "not enough mana")
	assert.Equal(t, 10, p.Mana().Current)
	assert.Equal(t, 0, e.EnemyCount(), "pets are not counted as enemies")
}

func TestManaRegenerates(t *testing.T) {
	e := testEngine(t)
	p := e.SpawnPlayer(500, 500)
	require.True(t, p.Mana().UseMana(50))

	runUntil(e, 2*time.Second)
	assert.InDelta(t, 58, p.Mana().Current, 1)
}

func TestGoldTransferOnDeath(t *testing.T) {
	t.Run("player kill", func(t *testing.T) {
		e := testEngine(t)
		p := e.SpawnPlayer(500, 500)
		enemy, _ := e.SpawnEnemy("skeleton", 2500, 2500)
		enemy.Health().TakeDamage(1000)
		e.World.Events.Emit(core.EvtEntityDeath, core.DeathEvent{Entity: enemy.ID, Killer: p.ID})

		assert.Equal(t, EnemyArchetypes["skeleton"].Gold, p.Inventory().Gold)
		assert.Zero(t, enemy.Inventory().Gold)
	})
	t.Run("pet kill pays the player", func(t *testing.T) {
		e := testEngine(t)
		p := e.SpawnPlayer(500, 500)
		pet, ok := e.SummonPet()
		require.True(t, ok)
		enemy, _ := e.SpawnEnemy("slime", 2500, 2500)
		enemy.Health().TakeDamage(1000)
		e.World.Events.Emit(core.EvtEntityDeath, core.DeathEvent{Entity: enemy.ID, Killer: pet.ID})

		assert.Equal(t, EnemyArchetypes["slime"].Gold, p.Inventory().Gold)
	})
}

func TestPopulateRespectsSafeRadius(t *testing.T) {
	e := testEngine(t)
	p := e.SpawnPlayer(1500, 1500)

	made := e.Populate(10)
	assert.Equal(t, 10, made)
	for _, ent := range e.World.Query(core.CompAI) {
		assert.GreaterOrEqual(t, ent.Transform().DistanceTo(p.Transform()), e.cfg.World.SafeRadius-1e-9)
	}
}

func TestMaintenanceTopsUpPopulation(t *testing.T) {
	e := testEngine(t, func(c *config.Config) {
		c.World.TargetEnemies = 3
		c.World.MaintenanceInterval = time.Second
	})
	e.SpawnPlayer(1500, 1500)
	e.StartMaintenance()

	runUntil(e, 500*time.Millisecond)
	assert.Zero(t, e.EnemyCount())

	runUntil(e, 1100*time.Millisecond)
	assert.Equal(t, 3, e.EnemyCount())

	runUntil(e, 2100*time.Millisecond)
	assert.Equal(t, 3, e.EnemyCount(), "already at target")
}

func TestHitEffects(t *testing.T) {
	e := testEngine(t)
	p := e.SpawnPlayer(500, 500)
	enemy, _ := e.SpawnEnemy("slime", 520, 500)

	e.OnHit(e.World, enemy, p, 12)
	assert.Greater(t, e.Particles.Len(), 0)
	require.Len(t, e.Popups.Items(), 1)
	assert.Equal(t, "-12", e.Popups.Items()[0].Text)
	assert.True(t, e.Flash.Active(), "player hit flashes the screen")
	assert.Greater(t, e.Camera.ShakeMagnitude(), 0.0)
}

func TestMovePlayerTo(t *testing.T) {
	e := testEngine(t)
	assert.False(t, e.MovePlayerTo(10, 10), "no player yet")

	p := e.SpawnPlayer(0, 0)
	require.True(t, e.MovePlayerTo(100, 0))
	assert.True(t, p.Movement().Moving)

	p.Health().TakeDamage(1000)
	assert.False(t, e.MovePlayerTo(0, 0))
}

func TestSnapshot(t *testing.T) {
	e := testEngine(t)
	p := e.SpawnPlayer(500, 500)
	enemy, _ := e.SpawnEnemy("wolf", 2500, 2500)
	e.Step()

	f := e.Snapshot()
	assert.Equal(t, e.Session, f.Session)
	assert.Equal(t, uint64(1), f.Tick)
	require.Len(t, f.Entities, 2)
	assert.Equal(t, uint64(p.ID), f.Entities[0].ID)
	assert.Equal(t, "hero", f.Entities[0].Visual)
	assert.Empty(t, f.Entities[0].AI)
	assert.Equal(t, uint64(enemy.ID), f.Entities[1].ID)
	assert.Equal(t, "wolf", f.Entities[1].Visual)

	raw, err := json.Marshal(f)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"session":"`+e.Session+`"`)
}

func TestNearbyNPC(t *testing.T) {
	e := testEngine(t)
	e.SpawnPlayer(100, 100)
	far := e.SpawnNPC("Hermit", 400, 100, []string{"Go away."}, nil)
	near := e.SpawnNPC("Trader", 140, 100, []string{"Wares?"}, []core.ShopItem{{Name: "potion", Price: 5}})

	got := e.NearbyNPC(60)
	require.NotNil(t, got)
	assert.Equal(t, near.ID, got.ID)
	assert.Equal(t, "Trader", got.NPC().Name)
	assert.Nil(t, e.NearbyNPC(10))

	e.World.Entity(e.Player).Transform().X = 390
	assert.Equal(t, far.ID, e.NearbyNPC(60).ID)
}
