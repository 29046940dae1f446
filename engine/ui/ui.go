// Package ui draws the heads-up display and the pause menu.
package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/1siamBot/rpg-engine/engine/core"
	"github.com/1siamBot/rpg-engine/engine/game"
	"github.com/1siamBot/rpg-engine/engine/render"
)

var (
	panelColor = color.RGBA{0, 0, 0, 170}
	hpColor    = color.RGBA{200, 40, 50, 255}
	mpColor    = color.RGBA{50, 110, 230, 255}
	goldColor  = color.RGBA{255, 200, 50, 255}
	textColor  = color.RGBA{220, 225, 240, 255}
	dimColor   = color.RGBA{140, 150, 170, 255}
)

// TalkRadius is how close the player must stand to read an NPC's dialogue
const TalkRadius = 60

// HUD is the main heads-up display
type HUD struct {
	ScreenW, ScreenH int
	TopBarHeight     int
	ShowHelp         bool
}

func NewHUD(sw, sh int) *HUD {
	return &HUD{ScreenW: sw, ScreenH: sh, TopBarHeight: 34, ShowHelp: true}
}

// Draw renders the entire HUD
func (h *HUD) Draw(screen *ebiten.Image, e *game.Engine) {
	player := e.World.Entity(e.Player)
	h.drawTopBar(screen, e, player)
	if npc := e.NearbyNPC(TalkRadius); npc != nil {
		h.drawDialogue(screen, npc)
	}
	if player != nil && player.IsDead() {
		h.drawDeathBanner(screen)
	}
	if h.ShowHelp {
		render.DrawText(screen, "LMB move  Q summon pet  Wheel zoom  P pause  F1 help",
			8, float64(h.ScreenH-18), dimColor, false)
	}
}

func (h *HUD) drawTopBar(screen *ebiten.Image, e *game.Engine, player *core.Entity) {
	vector.DrawFilledRect(screen, 0, 0, float32(h.ScreenW), float32(h.TopBarHeight), panelColor, false)
	if player == nil {
		return
	}
	x := 10.0
	if hp := player.Health(); hp != nil {
		h.drawMeter(screen, x, 8, "HP", hp.Current, hp.Max, hpColor)
		x += 180
	}
	if mp := player.Mana(); mp != nil {
		h.drawMeter(screen, x, 8, "MP", mp.Current, mp.Max, mpColor)
		x += 180
	}
	if inv := player.Inventory(); inv != nil {
		render.DrawText(screen, fmt.Sprintf("Gold %d", inv.Gold), x, 10, goldColor, false)
		x += 100
	}
	info := fmt.Sprintf("Enemies %d  Tick %d", e.EnemyCount(), e.World.TickCount)
	if e.Loop.State == core.StatePaused {
		info += "  PAUSED"
	}
	render.DrawText(screen, info, x, 10, textColor, false)
}

func (h *HUD) drawMeter(screen *ebiten.Image, x, y float64, label string, cur, max int, clr color.RGBA) {
	render.DrawText(screen, label, x, y+2, textColor, false)
	bx, bw := x+24, 140.0
	ratio := 0.0
	if max > 0 {
		ratio = float64(cur) / float64(max)
	}
	vector.DrawFilledRect(screen, float32(bx), float32(y), float32(bw), 16, color.RGBA{30, 30, 30, 220}, false)
	vector.DrawFilledRect(screen, float32(bx), float32(y), float32(bw*ratio), 16, clr, false)
	vector.StrokeRect(screen, float32(bx), float32(y), float32(bw), 16, 1, color.RGBA{255, 255, 255, 60}, false)
	render.DrawText(screen, fmt.Sprintf("%d/%d", cur, max), bx+bw/2, y+2, textColor, true)
}

func (h *HUD) drawDialogue(screen *ebiten.Image, npc *core.Entity) {
	n := npc.NPC()
	lines := append([]string{n.Name}, n.Dialogue...)
	if shop, ok := npc.Get(core.CompShop).(*core.Shop); ok {
		for _, it := range shop.Items {
			lines = append(lines, fmt.Sprintf("  %s  %dg", it.Name, it.Price))
		}
	}
	panelH := float64(len(lines))*16 + 16
	py := float64(h.ScreenH) - panelH - 30
	vector.DrawFilledRect(screen, 20, float32(py), float32(h.ScreenW-40), float32(panelH), panelColor, false)
	for i, l := range lines {
		clr := textColor
		if i == 0 {
			clr = goldColor
		}
		render.DrawText(screen, l, 32, py+8+float64(i)*16, clr, false)
	}
}

func (h *HUD) drawDeathBanner(screen *ebiten.Image) {
	cy := float64(h.ScreenH) / 2
	vector.DrawFilledRect(screen, 0, float32(cy-24), float32(h.ScreenW), 48, color.RGBA{60, 0, 0, 180}, false)
	render.DrawText(screen, "You died. Respawning...", float64(h.ScreenW)/2, cy-6, textColor, true)
}
