package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/1siamBot/rpg-engine/engine/render"
)

var (
	menuPanel   = color.RGBA{15, 15, 30, 230}
	menuBorder  = color.RGBA{0, 140, 200, 255}
	menuAccent  = color.RGBA{0, 200, 255, 255}
	menuBtnNorm = color.RGBA{25, 35, 55, 240}
	menuBtnHov  = color.RGBA{35, 55, 90, 255}
)

// MenuButton represents a clickable menu button
type MenuButton struct {
	X, Y, W, H int
	Text       string
}

func (b MenuButton) contains(mx, my int) bool {
	return mx >= b.X && mx < b.X+b.W && my >= b.Y && my < b.Y+b.H
}

// PauseMenu is shown over the frozen world while the loop is paused
type PauseMenu struct {
	ScreenW, ScreenH int

	OnResume         func()
	OnToggleVolume   func()
	OnToggleCollider func()
	OnQuit           func()

	hoverIdx int
}

func NewPauseMenu(sw, sh int) *PauseMenu {
	return &PauseMenu{ScreenW: sw, ScreenH: sh, hoverIdx: -1}
}

func (m *PauseMenu) buttons() []MenuButton {
	cx := m.ScreenW / 2
	startY := m.ScreenH/2 - 60
	bw, bh, gap := 220, 32, 8
	names := []string{"RESUME", "MUTE / UNMUTE", "SHOW COLLIDERS", "QUIT"}
	out := make([]MenuButton, len(names))
	for i, name := range names {
		out[i] = MenuButton{X: cx - bw/2, Y: startY + i*(bh+gap), W: bw, H: bh, Text: name}
	}
	return out
}

// Update tracks hover and fires the callback of a clicked button
func (m *PauseMenu) Update(mx, my int, clicked bool) {
	m.hoverIdx = -1
	for i, b := range m.buttons() {
		if b.contains(mx, my) {
			m.hoverIdx = i
		}
	}
	if !clicked || m.hoverIdx < 0 {
		return
	}
	var cb func()
	switch m.hoverIdx {
	case 0:
		cb = m.OnResume
	case 1:
		cb = m.OnToggleVolume
	case 2:
		cb = m.OnToggleCollider
	case 3:
		cb = m.OnQuit
	}
	if cb != nil {
		cb()
	}
}

func (m *PauseMenu) Draw(screen *ebiten.Image) {
	vector.DrawFilledRect(screen, 0, 0, float32(m.ScreenW), float32(m.ScreenH), color.RGBA{0, 0, 0, 140}, false)

	btns := m.buttons()
	top := btns[0].Y - 50
	bottom := btns[len(btns)-1].Y + btns[len(btns)-1].H + 20
	pw := 280
	px := float32(m.ScreenW/2 - pw/2)
	vector.DrawFilledRect(screen, px, float32(top), float32(pw), float32(bottom-top), menuPanel, false)
	vector.StrokeRect(screen, px, float32(top), float32(pw), float32(bottom-top), 2, menuBorder, false)
	render.DrawText(screen, "PAUSED", float64(m.ScreenW)/2, float64(top+14), menuAccent, true)

	for i, b := range btns {
		clr := menuBtnNorm
		border := color.RGBA{40, 70, 120, 200}
		if i == m.hoverIdx {
			clr, border = menuBtnHov, menuAccent
		}
		vector.DrawFilledRect(screen, float32(b.X), float32(b.Y), float32(b.W), float32(b.H), clr, false)
		vector.StrokeRect(screen, float32(b.X), float32(b.Y), float32(b.W), float32(b.H), 1, border, false)
		render.DrawText(screen, b.Text, float64(b.X+b.W/2), float64(b.Y+b.H/2-7), textColor, true)
	}
}
