package camera

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFollowEasesTowardTarget(t *testing.T) {
	c := New(800, 600, nil)
	c.Smoothing = 0.5

	c.Follow(400, 300)
	assert.InDelta(t, 0, c.X, 1e-9, "target already centered")

	c.Follow(500, 300)
	assert.InDelta(t, 50, c.X, 1e-9)
	c.Follow(500, 300)
	assert.InDelta(t, 75, c.X, 1e-9)
}

func TestZoomTargetThenEase(t *testing.T) {
	c := New(800, 600, nil)
	c.Smoothing = 0.5

	c.SetZoom(10)
	assert.Equal(t, c.MaxZoom, c.TargetZoom)
	assert.Equal(t, 1.0, c.Zoom, "zoom is not applied until the next follow")

	c.Follow(0, 0)
	assert.InDelta(t, 2.0, c.Zoom, 1e-9)

	c.SetZoom(0.01)
	assert.Equal(t, c.MinZoom, c.TargetZoom)
}

func TestShakeDecaysLinearly(t *testing.T) {
	c := New(800, 600, rand.New(rand.NewSource(9)))
	c.Shake(10, 1)
	assert.Equal(t, 10.0, c.ShakeMagnitude())

	c.Update(0.25)
	assert.InDelta(t, 7.5, c.ShakeMagnitude(), 1e-9)
	assert.LessOrEqual(t, abs(c.ShakeX), 7.5)
	assert.LessOrEqual(t, abs(c.ShakeY), 7.5)

	c.Shake(4, 2)
	assert.Equal(t, 4.0, c.ShakeMagnitude(), "a new shake replaces the old one")

	c.Update(2)
	assert.Equal(t, 0.0, c.ShakeMagnitude())
	assert.Equal(t, 0.0, c.ShakeX)
	assert.Equal(t, 0.0, c.ShakeY)
}

func TestWorldScreenRoundTrip(t *testing.T) {
	c := New(800, 600, rand.New(rand.NewSource(3)))
	c.X, c.Y = 120, -40
	c.Zoom = 1.75
	c.Shake(6, 1)
	c.Update(0.1)

	for _, p := range [][2]float64{{0, 0}, {123.5, 87.25}, {-500, 900}} {
		sx, sy := c.WorldToScreen(p[0], p[1])
		wx, wy := c.ScreenToWorld(sx, sy)
		assert.InDelta(t, p[0], wx, 1e-9)
		assert.InDelta(t, p[1], wy, 1e-9)
	}
}

func TestCenterOnAndVisible(t *testing.T) {
	c := New(800, 600, nil)
	c.CenterOn(1000, 1000)
	sx, sy := c.WorldToScreen(1000, 1000)
	assert.InDelta(t, 400, sx, 1e-9)
	assert.InDelta(t, 300, sy, 1e-9)

	assert.True(t, c.Visible(1000, 1000, 5))
	assert.False(t, c.Visible(0, 0, 5))
}

func TestClampToBounds(t *testing.T) {
	c := New(800, 600, nil)
	c.BoundsW, c.BoundsH = 2000, 1500
	c.CenterOn(0, 0)
	assert.Equal(t, 0.0, c.X)
	assert.Equal(t, 0.0, c.Y)

	c.CenterOn(5000, 5000)
	assert.Equal(t, 1200.0, c.X)
	assert.Equal(t, 900.0, c.Y)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
