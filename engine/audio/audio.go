package audio

import (
	"github.com/gopxl/beep"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"go.uber.org/zap"

	"github.com/1siamBot/rpg-engine/engine/audio/sfx"
	"github.com/1siamBot/rpg-engine/engine/core"
)

// maxVoices bounds concurrently playing effects
const maxVoices = 16

// AudioManager plays synthesised effects through Ebitengine's audio
// package, attenuated by distance from the listener
type AudioManager struct {
	MasterVolume float64
	Range        float64 // distance at which effects become inaudible
	ListenerX    float64
	ListenerY    float64

	ctx    *audio.Context
	pcm    map[sfx.Sound][]byte
	voices []*audio.Player
	log    *zap.Logger
	subs   []core.Subscription
}

// NewAudioManager renders every effect once up front. A nil context
// disables playback but keeps the manager usable.
func NewAudioManager(ctx *audio.Context, volume, rng float64, log *zap.Logger) *AudioManager {
	if log == nil {
		log = zap.NewNop()
	}
	am := &AudioManager{
		MasterVolume: volume,
		Range:        rng,
		ctx:          ctx,
		pcm:          make(map[sfx.Sound][]byte),
		log:          log,
	}
	if ctx != nil {
		rate := beep.SampleRate(ctx.SampleRate())
		for _, s := range sfx.All {
			am.pcm[s] = sfx.Render(sfx.Build(s, rate))
		}
	}
	return am
}

// Attach subscribes the manager to combat events on the world's bus
func (am *AudioManager) Attach(w *core.World) {
	am.subs = append(am.subs,
		w.Events.On(core.EvtEntityDamaged, func(e core.Event) {
			ev := e.Payload.(core.DamageEvent)
			am.playAt(w, sfx.SoundHit, ev.Target)
		}),
		w.Events.On(core.EvtEntityDeath, func(e core.Event) {
			ev := e.Payload.(core.DeathEvent)
			am.playAt(w, sfx.SoundDeath, ev.Entity)
		}),
		w.Events.On(core.EvtAttackStarted, func(e core.Event) {
			am.playAt(w, sfx.SoundSwing, e.Payload.(core.AttackEvent).Attacker)
		}),
		w.Events.On(core.EvtEntityAdded, func(e core.Event) {
			ev := e.Payload.(core.EntityEvent)
			if ent := w.Entity(ev.Entity); ent != nil && ent.AI() != nil && ent.AI().Behavior == core.BehaviorPet {
				am.playAt(w, sfx.SoundSummon, ev.Entity)
			}
		}),
	)
}

// Detach removes the bus subscriptions made by Attach
func (am *AudioManager) Detach(w *core.World) {
	for _, s := range am.subs {
		w.Events.Off(s)
	}
	am.subs = nil
}

// SetListener updates the listener position for positional audio
func (am *AudioManager) SetListener(x, y float64) {
	am.ListenerX = x
	am.ListenerY = y
}

func (am *AudioManager) playAt(w *core.World, snd sfx.Sound, id core.EntityID) {
	e := w.Entity(id)
	if e == nil || e.Transform() == nil {
		return
	}
	am.PlaySFX(snd, e.Transform().X, e.Transform().Y)
}

// PlaySFX plays a sound effect at a world position
func (am *AudioManager) PlaySFX(snd sfx.Sound, worldX, worldY float64) {
	dist := core.Vec2{X: am.ListenerX, Y: am.ListenerY}.Dist(core.Vec2{X: worldX, Y: worldY})
	vol := sfx.Attenuate(dist, am.Range, am.MasterVolume)
	am.Play(snd, vol)
}

// Play plays a sound at a fixed volume, ignoring position
func (am *AudioManager) Play(snd sfx.Sound, vol float64) {
	if am.ctx == nil || vol <= 0 {
		return
	}
	data, ok := am.pcm[snd]
	if !ok {
		return
	}
	am.reap()
	if len(am.voices) >= maxVoices {
		return
	}
	p := am.ctx.NewPlayerFromBytes(data)
	p.SetVolume(vol)
	p.Play()
	am.voices = append(am.voices, p)
}

// reap drops finished players
func (am *AudioManager) reap() {
	live := am.voices[:0]
	for _, p := range am.voices {
		if p.IsPlaying() {
			live = append(live, p)
			continue
		}
		if err := p.Close(); err != nil {
			am.log.Debug("close audio player", zap.Error(err))
		}
	}
	am.voices = live
}

// SetVolume sets master volume (0-1)
func (am *AudioManager) SetVolume(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	am.MasterVolume = v
}
