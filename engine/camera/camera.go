// Package camera maps between world and screen space and produces the
// smoothed follow, zoom easing and shake used by the renderer.
package camera

import (
	"math"
	"math/rand"
)

// Camera represents the viewport into the world. X, Y is the world
// position shown at the top-left corner of the screen.
type Camera struct {
	X, Y       float64
	Zoom       float64 // current zoom (1.0 = default)
	TargetZoom float64 // zoom the camera is easing toward
	MinZoom    float64
	MaxZoom    float64
	ViewW      int     // viewport width in pixels
	ViewH      int     // viewport height in pixels
	Smoothing  float64 // fraction of remaining distance covered per frame

	// World bounds for clamping; zero size disables clamping
	BoundsW, BoundsH float64

	shakeIntensity float64
	shakeDuration  float64
	shakeElapsed   float64
	ShakeX, ShakeY float64

	rng *rand.Rand
}

// New creates a camera with default settings
func New(viewW, viewH int, rng *rand.Rand) *Camera {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Camera{
		Zoom:       1,
		TargetZoom: 1,
		MinZoom:    0.5,
		MaxZoom:    3,
		ViewW:      viewW,
		ViewH:      viewH,
		Smoothing:  0.1,
		rng:        rng,
	}
}

// Follow eases the camera so that (x, y) drifts toward the screen center.
// Zoom eases toward TargetZoom with the same smoothing.
func (c *Camera) Follow(x, y float64) {
	c.Zoom += (c.TargetZoom - c.Zoom) * c.Smoothing
	tx := x - float64(c.ViewW)/2/c.Zoom
	ty := y - float64(c.ViewH)/2/c.Zoom
	c.X += (tx - c.X) * c.Smoothing
	c.Y += (ty - c.Y) * c.Smoothing
	c.clamp()
}

// CenterOn snaps the camera onto a world position without easing
func (c *Camera) CenterOn(x, y float64) {
	c.Zoom = c.TargetZoom
	c.X = x - float64(c.ViewW)/2/c.Zoom
	c.Y = y - float64(c.ViewH)/2/c.Zoom
	c.clamp()
}

// SetZoom sets the zoom target with clamping
func (c *Camera) SetZoom(z float64) {
	c.TargetZoom = math.Max(c.MinZoom, math.Min(c.MaxZoom, z))
}

// ZoomBy nudges the zoom target by delta
func (c *Camera) ZoomBy(delta float64) {
	c.SetZoom(c.TargetZoom + delta)
}

// Shake starts a new shake, replacing any shake in progress
func (c *Camera) Shake(intensity, duration float64) {
	c.shakeIntensity = intensity
	c.shakeDuration = duration
	c.shakeElapsed = 0
}

// ShakeMagnitude returns the current maximum shake offset
func (c *Camera) ShakeMagnitude() float64 {
	if c.shakeDuration <= 0 || c.shakeElapsed >= c.shakeDuration {
		return 0
	}
	return c.shakeIntensity * (1 - c.shakeElapsed/c.shakeDuration)
}

// Update advances the shake timer and re-rolls the shake offset
func (c *Camera) Update(dt float64) {
	c.shakeElapsed += dt
	m := c.ShakeMagnitude()
	if m <= 0 {
		c.ShakeX, c.ShakeY = 0, 0
		c.shakeDuration = 0
		return
	}
	c.ShakeX = (c.rng.Float64()*2 - 1) * m
	c.ShakeY = (c.rng.Float64()*2 - 1) * m
}

// WorldToScreen converts a world position to screen pixels
func (c *Camera) WorldToScreen(wx, wy float64) (float64, float64) {
	sx := (wx - c.X - c.ShakeX) * c.Zoom
	sy := (wy - c.Y - c.ShakeY) * c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen pixels to a world position
func (c *Camera) ScreenToWorld(sx, sy float64) (float64, float64) {
	wx := sx/c.Zoom + c.X + c.ShakeX
	wy := sy/c.Zoom + c.Y + c.ShakeY
	return wx, wy
}

// Visible reports whether a circle of radius r at (wx, wy) touches the viewport
func (c *Camera) Visible(wx, wy, r float64) bool {
	sx, sy := c.WorldToScreen(wx, wy)
	pr := r * c.Zoom
	return sx+pr >= 0 && sy+pr >= 0 &&
		sx-pr <= float64(c.ViewW) && sy-pr <= float64(c.ViewH)
}

func (c *Camera) clamp() {
	if c.BoundsW <= 0 || c.BoundsH <= 0 {
		return
	}
	maxX := c.BoundsW - float64(c.ViewW)/c.Zoom
	maxY := c.BoundsH - float64(c.ViewH)/c.Zoom
	c.X = math.Max(0, math.Min(c.X, math.Max(0, maxX)))
	c.Y = math.Max(0, math.Min(c.Y, math.Max(0, maxY)))
}
