package systems

import (
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/1siamBot/rpg-engine/engine/core"
)

var colorWhite = color.RGBA{255, 255, 255, 255}

func animatedEntity(w *core.World) *core.Entity {
	return w.Spawn(
		core.NewTransform(0, 0),
		core.NewHealth(10),
		core.NewMovement(10),
		core.NewCombat(1, 10, time.Second, time.Second),
		core.NewRenderable("knight", colorWhite, 12),
	)
}

func TestAnimationStatePrecedence(t *testing.T) {
	w := core.NewWorld(nil)
	e := animatedEntity(w)
	sys := NewAnimationSystem()
	r := e.Renderable()

	sys.Update(w, 0.01)
	assert.Equal(t, core.AnimIdle, r.State)

	e.Movement().MoveTo(50, 0)
	sys.Update(w, 0.01)
	assert.Equal(t, core.AnimWalking, r.State)

	e.Combat().StartAttack(0, 99)
	sys.Update(w, 0.01)
	assert.Equal(t, core.AnimAttacking, r.State, "attacking overrides walking")

	e.Health().TakeDamage(100)
	sys.Update(w, 0.01)
	assert.Equal(t, core.AnimDead, r.State, "dead overrides everything")
}

func TestAnimationChaseCountsAsWalking(t *testing.T) {
	w := core.NewWorld(nil)
	e := w.Spawn(core.NewAI(core.BehaviorAggressive, 10), core.NewRenderable("slime", colorWhite, 8))
	e.AI().State = core.AIChase

	NewAnimationSystem().Update(w, 0.01)
	assert.Equal(t, core.AnimWalking, e.Renderable().State)
}

func TestAnimationLoopsIdle(t *testing.T) {
	w := core.NewWorld(nil)
	e := animatedEntity(w)
	sys := NewAnimationSystem()
	clip := sys.Clips.Lookup("knight", core.AnimIdle)
	frameDur := 1 / clip.FPS

	for i := 0; i < clip.Frames; i++ {
		sys.Update(w, frameDur)
	}
	assert.Equal(t, 0, e.Renderable().Frame, "idle wraps back to the first frame")
}

func TestAnimationAttackPlaysOnce(t *testing.T) {
	w := core.NewWorld(nil)
	e := animatedEntity(w)
	sys := NewAnimationSystem()
	clip := sys.Clips.Lookup("knight", core.AnimAttacking)

	e.Combat().StartAttack(0, 99)
	sys.Update(w, 0.001)
	assert.Equal(t, core.AnimAttacking, e.Renderable().State)
	assert.Equal(t, 0, e.Renderable().Frame, "state change resets to frame 0")

	for i := 0; i < clip.Frames*3; i++ {
		sys.Update(w, 0.001)
	}
	assert.Equal(t, clip.Frames-1, e.Renderable().Frame, "attack clamps at the last frame")
}

func TestAnimationStateChangeResetsFrame(t *testing.T) {
	w := core.NewWorld(nil)
	e := animatedEntity(w)
	sys := NewAnimationSystem()
	r := e.Renderable()

	sys.Update(w, 0.3)
	assert.NotZero(t, r.Frame)

	e.Movement().MoveTo(10, 10)
	sys.Update(w, 0)
	assert.Equal(t, core.AnimWalking, r.State)
	assert.Zero(t, r.Frame)
	assert.Zero(t, r.FrameTime)
}

func TestClipTableFallback(t *testing.T) {
	table := DefaultClips()
	table["boss"] = map[core.AnimState]Clip{core.AnimIdle: {Frames: 8, FPS: 2, Loop: true}}

	assert.Equal(t, 8, table.Lookup("boss", core.AnimIdle).Frames)
	assert.Equal(t, table[""][core.AnimDead], table.Lookup("boss", core.AnimDead))
	assert.Equal(t, table[""][core.AnimWalking], table.Lookup("unknown", core.AnimWalking))
}

func TestAnimationBackToBackSwingReplaysClip(t *testing.T) {
	w := core.NewWorld(nil)
	e := animatedEntity(w)
	sys := NewAnimationSystem()
	cb, r := e.Combat(), e.Renderable()
	clip := sys.Clips.Lookup("knight", core.AnimAttacking)

	cb.StartAttack(0, 99)
	for i := 0; i < clip.Frames*2; i++ {
		sys.Update(w, 0.01)
	}
	assert.Equal(t, clip.Frames-1, r.Frame)

	// the next swing starts on the same tick the previous one finishes
	cb.FinishAttack(time.Second)
	cb.StartAttack(time.Second, 99)
	sys.Update(w, 0.01)
	assert.Equal(t, core.AnimAttacking, r.State)
	assert.Zero(t, r.Frame, "new swing restarts the clip")
	assert.Equal(t, time.Second, r.SwingStart)

	sys.Update(w, 0.01)
	assert.Equal(t, 1, r.Frame)
}
