package systems

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1siamBot/rpg-engine/engine/core"
)

func quietTuning() AITuning {
	t := DefaultAITuning()
	t.PatrolChance = 0
	t.IdleChance = 0
	return t
}

func TestAIChaseHysteresis(t *testing.T) {
	w := core.NewWorld(nil)
	player := w.Spawn(core.NewTransform(0, 0), core.NewHealth(100))
	enemy := w.Spawn(
		core.NewTransform(200, 0),
		core.NewHealth(50),
		core.NewMovement(60),
		core.NewAI(core.BehaviorAggressive, 120),
	)
	sys := NewAISystem(quietTuning(), rand.New(rand.NewSource(7)))
	ai := enemy.AI()

	sys.Update(w, 0.1)
	assert.Equal(t, core.AIIdle, ai.State, "200 is outside detection range")

	enemy.Transform().X = 100
	sys.Update(w, 0.1)
	assert.Equal(t, core.AIChase, ai.State)
	assert.Equal(t, player.ID, ai.Target)
	require.True(t, enemy.Movement().Moving)

	enemy.Transform().X = 170
	sys.Update(w, 0.1)
	assert.Equal(t, core.AIChase, ai.State, "170 is inside the 180 hysteresis band")

	enemy.Transform().X = 190
	sys.Update(w, 0.1)
	assert.Equal(t, core.AIIdle, ai.State)
	assert.Equal(t, core.EntityID(0), ai.Target)
	assert.False(t, enemy.Movement().Moving)
}

func TestAIAttackTransitions(t *testing.T) {
	w := core.NewWorld(nil)
	player := w.Spawn(core.NewTransform(0, 0), core.NewHealth(100))
	enemy := w.Spawn(
		core.NewTransform(50, 0),
		core.NewHealth(50),
		core.NewMovement(60),
		core.NewCombat(5, 40, 0, 0),
		core.NewAI(core.BehaviorAggressive, 120),
	)
	sys := NewAISystem(quietTuning(), nil)
	ai := enemy.AI()

	sys.Update(w, 0.1)
	require.Equal(t, core.AIChase, ai.State)

	enemy.Transform().X = 40
	sys.Update(w, 0.1)
	assert.Equal(t, core.AIAttack, ai.State)
	assert.False(t, enemy.Movement().Moving, "attackers hold position")

	enemy.Transform().X = 47
	sys.Update(w, 0.1)
	assert.Equal(t, core.AIAttack, ai.State, "47 is inside 40*1.2")

	enemy.Transform().X = 49
	sys.Update(w, 0.1)
	assert.Equal(t, core.AIChase, ai.State)

	enemy.Transform().X = 30
	sys.Update(w, 0.1)
	require.Equal(t, core.AIAttack, ai.State)

	player.Health().TakeDamage(1000)
	sys.Update(w, 0.1)
	assert.Equal(t, core.AIIdle, ai.State, "dead target is lost")
}

func TestAIChaseLosesRemovedTarget(t *testing.T) {
	w := core.NewWorld(nil)
	player := w.Spawn(core.NewTransform(0, 0), core.NewHealth(100))
	enemy := w.Spawn(core.NewTransform(50, 0), core.NewHealth(50), core.NewAI(core.BehaviorAggressive, 120))
	sys := NewAISystem(quietTuning(), nil)

	sys.Update(w, 0.1)
	require.Equal(t, core.AIChase, enemy.AI().State)

	w.RemoveEntity(player.ID)
	assert.NotPanics(t, func() { sys.Update(w, 0.1) })
	assert.Equal(t, core.AIIdle, enemy.AI().State)
}

func TestAIPatrol(t *testing.T) {
	w := core.NewWorld(nil)
	enemy := w.Spawn(
		core.NewTransform(0, 0),
		core.NewHealth(50),
		core.NewMovement(60),
		core.NewAI(core.BehaviorAggressive, 120),
	)
	tuning := quietTuning()
	tuning.PatrolChance = 1
	sys := NewAISystem(tuning, rand.New(rand.NewSource(3)))

	sys.Update(w, 0.1)
	ai := enemy.AI()
	require.Equal(t, core.AIPatrol, ai.State)
	require.Len(t, ai.Waypoints, tuning.PatrolPoints)
	for _, wp := range ai.Waypoints {
		assert.InDelta(t, tuning.PatrolRadius, wp.Len(), 1e-9)
	}

	sys.Update(w, 0.1)
	mv := enemy.Movement()
	require.True(t, mv.Moving)
	assert.Equal(t, ai.Waypoints[0], *mv.Target)

	// arriving advances to the next waypoint
	enemy.Transform().X, enemy.Transform().Y = ai.Waypoints[0].X, ai.Waypoints[0].Y
	mv.Stop()
	sys.Update(w, 0.1)
	assert.Equal(t, 1, ai.WaypointIndex)
	assert.Equal(t, ai.Waypoints[1], *mv.Target)
}

func TestAIPassiveNeverChases(t *testing.T) {
	w := core.NewWorld(nil)
	w.Spawn(core.NewTransform(0, 0), core.NewHealth(100))
	critter := w.Spawn(core.NewTransform(10, 0), core.NewHealth(5), core.NewAI(core.BehaviorPassive, 120))
	sys := NewAISystem(quietTuning(), nil)

	sys.Update(w, 0.1)
	assert.Equal(t, core.AIIdle, critter.AI().State)
}

func TestAIPetMode(t *testing.T) {
	newPetWorld := func() (*core.World, *core.Entity, *core.Entity) {
		w := core.NewWorld(nil)
		player := w.Spawn(core.NewTransform(0, 0), core.NewHealth(100))
		pet := w.Spawn(
			core.NewTransform(60, 0),
			core.NewHealth(40),
			core.NewMovement(80),
			core.NewCombat(5, 30, 0, 0),
			core.NewAI(core.BehaviorPet, 100),
		)
		return w, player, pet
	}
	tuning := quietTuning()

	t.Run("holds inside comfort band", func(t *testing.T) {
		w, _, pet := newPetWorld()
		NewAISystem(tuning, nil).Update(w, 0.1)
		assert.Equal(t, core.AIIdle, pet.AI().State)
		assert.False(t, pet.Movement().Moving)
	})

	t.Run("follows when too far", func(t *testing.T) {
		w, _, pet := newPetWorld()
		pet.Transform().X = 300
		NewAISystem(tuning, nil).Update(w, 0.1)
		assert.Equal(t, core.AIFollow, pet.AI().State)
		require.True(t, pet.Movement().Moving)
		assert.InDelta(t, (tuning.PetFollowMin+tuning.PetFollowMax)/2, pet.Movement().Target.X, 1e-9)
	})

	t.Run("backs off when too close", func(t *testing.T) {
		w, _, pet := newPetWorld()
		pet.Transform().X = 10
		NewAISystem(tuning, nil).Update(w, 0.1)
		assert.Equal(t, core.AIFollow, pet.AI().State)
		assert.InDelta(t, tuning.PetFollowMin, pet.Movement().Target.X, 1e-9)
	})

	t.Run("chases and attacks enemies", func(t *testing.T) {
		w, _, pet := newPetWorld()
		enemy := w.Spawn(core.NewTransform(140, 0), core.NewHealth(10), core.NewAI(core.BehaviorAggressive, 50))
		sys := NewAISystem(tuning, nil)

		sys.Update(w, 0.1)
		assert.Equal(t, core.AIChase, pet.AI().State)
		assert.Equal(t, enemy.ID, pet.AI().Target)

		pet.Transform().X = 115
		sys.Update(w, 0.1)
		assert.Equal(t, core.AIAttack, pet.AI().State)
		assert.False(t, pet.Movement().Moving)
	})
}
