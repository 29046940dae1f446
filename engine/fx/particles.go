// Package fx holds short-lived visual effects: particles and screen flash.
package fx

import (
	"image/color"
	"math"
	"math/rand"
)

// DefaultGravity pulls particles downward in world units per second squared
const DefaultGravity = 220.0

type Particle struct {
	X, Y    float64
	VX, VY  float64
	Gravity float64
	Size    float64
	Color   color.RGBA
	Life    float64
	MaxLife float64
	Alpha   float64
}

// ParticleSystem owns a flat list of particles
type ParticleSystem struct {
	particles []Particle
	rng       *rand.Rand
	Limit     int
}

func NewParticleSystem(rng *rand.Rand) *ParticleSystem {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &ParticleSystem{rng: rng}
}

// Emit adds one particle. A positive Limit drops particles past it;
// zero leaves growth bounded only by particle lifetimes.
func (ps *ParticleSystem) Emit(p Particle) {
	if ps.Limit > 0 && len(ps.particles) >= ps.Limit {
		return
	}
	if p.MaxLife <= 0 {
		p.MaxLife = p.Life
	}
	if p.MaxLife > 0 {
		p.Alpha = p.Life / p.MaxLife
	}
	ps.particles = append(ps.particles, p)
}

// Burst sprays n particles outward from (x, y) at up to speed
func (ps *ParticleSystem) Burst(x, y float64, n int, clr color.RGBA, speed float64) {
	for i := 0; i < n; i++ {
		a := ps.rng.Float64() * 2 * math.Pi
		v := speed * (0.4 + 0.6*ps.rng.Float64())
		life := 0.35 + 0.4*ps.rng.Float64()
		ps.Emit(Particle{
			X: x, Y: y,
			VX:      math.Cos(a) * v,
			VY:      math.Sin(a)*v - speed*0.5,
			Gravity: DefaultGravity,
			Size:    2 + 2*ps.rng.Float64(),
			Color:   clr,
			Life:    life,
			MaxLife: life,
		})
	}
}

// Update ages every particle by dt. A particle whose life reaches zero is
// removed on that same tick.
func (ps *ParticleSystem) Update(dt float64) {
	kept := ps.particles[:0]
	for _, p := range ps.particles {
		p.Life -= dt
		if p.Life <= 0 {
			continue
		}
		p.X += p.VX * dt
		p.Y += p.VY * dt
		p.VY += p.Gravity * dt
		p.Alpha = p.Life / p.MaxLife
		kept = append(kept, p)
	}
	ps.particles = kept
}

// Particles exposes the live particles for rendering
func (ps *ParticleSystem) Particles() []Particle { return ps.particles }

func (ps *ParticleSystem) Len() int { return len(ps.particles) }

func (ps *ParticleSystem) Clear() { ps.particles = ps.particles[:0] }
