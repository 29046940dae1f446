// Package render draws the world through the camera with ebiten.
package render

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/1siamBot/rpg-engine/engine/camera"
	"github.com/1siamBot/rpg-engine/engine/core"
	"github.com/1siamBot/rpg-engine/engine/game"
	"github.com/1siamBot/rpg-engine/engine/maplib"
)

var (
	groundColor = color.RGBA{28, 36, 30, 255}
	gridColor   = color.RGBA{255, 255, 255, 14}
	edgeColor   = color.RGBA{180, 60, 60, 160}
	shadowColor = color.RGBA{0, 0, 0, 70}
	barBack     = color.RGBA{20, 20, 20, 200}
	targetColor = color.RGBA{255, 80, 80, 180}
	moveColor   = color.RGBA{255, 255, 255, 90}
)

// Renderer draws the ground, entities and effects of an engine
type Renderer struct {
	Sprites       *SpriteManager
	GridSize      float64
	ShowColliders bool

	flash *ebiten.Image
}

func NewRenderer(sprites *SpriteManager) *Renderer {
	return &Renderer{Sprites: sprites, GridSize: 64}
}

// Draw renders one frame
func (r *Renderer) Draw(screen *ebiten.Image, e *game.Engine) {
	cam := e.Camera
	screen.Fill(groundColor)
	cfg := e.Config()
	if e.Ground != nil {
		r.drawGround(screen, cam, e.Ground)
	}
	r.drawGrid(screen, cam, cfg.World.Width, cfg.World.Height)

	for _, ent := range e.World.RenderOrder() {
		r.drawEntity(screen, cam, ent, ent.ID == e.Player)
	}
	r.drawParticles(screen, e)
	r.drawPopups(screen, e)

	if e.Flash.Active() {
		r.drawFlash(screen, e)
	}
}

// TerrainColors maps terrain types to flat placeholder colors
var TerrainColors = map[maplib.TerrainType]color.RGBA{
	maplib.TerrainGrass:  {44, 70, 42, 255},
	maplib.TerrainDirt:   {78, 64, 48, 255},
	maplib.TerrainSand:   {120, 108, 78, 255},
	maplib.TerrainWater:  {36, 62, 96, 255},
	maplib.TerrainRock:   {70, 70, 74, 255},
	maplib.TerrainForest: {28, 52, 30, 255},
}

func (r *Renderer) drawGround(screen *ebiten.Image, cam *camera.Camera, gm *maplib.GroundMap) {
	x0, y0 := cam.ScreenToWorld(0, 0)
	x1, y1 := cam.ScreenToWorld(float64(cam.ViewW), float64(cam.ViewH))
	minX, minY, maxX, maxY := gm.Range(x0, y0, x1, y1)
	size := float32(gm.TileSize * cam.Zoom)
	for ty := minY; ty <= maxY; ty++ {
		for tx := minX; tx <= maxX; tx++ {
			t := gm.At(tx, ty)
			clr := TerrainColors[t.Terrain]
			shade := t.Variant * 4
			clr.R, clr.G, clr.B = clr.R+shade, clr.G+shade, clr.B+shade
			sx, sy := cam.WorldToScreen(float64(tx)*gm.TileSize, float64(ty)*gm.TileSize)
			vector.DrawFilledRect(screen, float32(sx), float32(sy), size+1, size+1, clr, false)
		}
	}
}

func (r *Renderer) drawGrid(screen *ebiten.Image, cam *camera.Camera, w, h float64) {
	step := r.GridSize
	if step <= 0 {
		return
	}
	x0, y0 := cam.ScreenToWorld(0, 0)
	x1, y1 := cam.ScreenToWorld(float64(cam.ViewW), float64(cam.ViewH))
	x0, y0 = math.Max(0, x0), math.Max(0, y0)
	x1, y1 = math.Min(w, x1), math.Min(h, y1)

	for x := math.Ceil(x0/step) * step; x <= x1; x += step {
		sx, sy0 := cam.WorldToScreen(x, y0)
		_, sy1 := cam.WorldToScreen(x, y1)
		vector.StrokeLine(screen, float32(sx), float32(sy0), float32(sx), float32(sy1), 1, gridColor, false)
	}
	for y := math.Ceil(y0/step) * step; y <= y1; y += step {
		sx0, sy := cam.WorldToScreen(x0, y)
		sx1, _ := cam.WorldToScreen(x1, y)
		vector.StrokeLine(screen, float32(sx0), float32(sy), float32(sx1), float32(sy), 1, gridColor, false)
	}

	// world border
	bx, by := cam.WorldToScreen(0, 0)
	vector.StrokeRect(screen, float32(bx), float32(by), float32(w*cam.Zoom), float32(h*cam.Zoom), 2, edgeColor, false)
}

func (r *Renderer) drawEntity(screen *ebiten.Image, cam *camera.Camera, ent *core.Entity, isPlayer bool) {
	t, rd := ent.Transform(), ent.Renderable()
	if !cam.Visible(t.X, t.Y, rd.Size*2) {
		return
	}
	z := cam.Zoom
	sx, sy := cam.WorldToScreen(t.X, t.Y)
	size := rd.Size * z

	r.drawTrail(screen, cam, t, rd)

	// drop shadow
	vector.DrawFilledCircle(screen, float32(sx), float32(sy+size*0.8), float32(size*0.8), shadowColor, true)

	if isPlayer {
		if mv := ent.Movement(); mv != nil && mv.Moving && mv.Target != nil {
			tx, ty := cam.WorldToScreen(mv.Target.X, mv.Target.Y)
			vector.StrokeCircle(screen, float32(tx), float32(ty), float32(6*z), 1, moveColor, true)
		}
	}

	img := r.Sprites.Frame(rd.Visual, rd.State, rd.Frame)
	if img == nil {
		img = r.Sprites.Disc(rd.Color, rd.Size)
	}
	op := &ebiten.DrawImageOptions{}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	op.GeoM.Translate(-float64(w)/2, -float64(h)/2)
	sxScale, syScale := 1.0, 1.0
	if rd.FlipX {
		sxScale = -1
	}
	if rd.FlipY {
		syScale = -1
	}
	op.GeoM.Scale(sxScale*z, syScale*z)
	if rd.State == core.AnimAttacking {
		// lunge a little on the swing
		op.GeoM.Scale(1.1, 1.1)
	}
	op.GeoM.Translate(sx, sy)
	if ent.IsDead() {
		op.ColorScale.ScaleAlpha(0.35)
	}
	screen.DrawImage(img, op)

	if cb := ent.Combat(); cb != nil && cb.Attacking && !ent.IsDead() {
		vector.StrokeCircle(screen, float32(sx), float32(sy), float32(size+3*z), 1.5, targetColor, true)
	}
	if r.ShowColliders {
		if c := ent.Collider(); c != nil {
			vector.StrokeCircle(screen, float32(sx), float32(sy), float32(c.Radius*z), 1, color.RGBA{0, 255, 255, 120}, false)
		}
	}
	if h := ent.Health(); h != nil && !ent.IsDead() && (h.Current < h.Max || isPlayer) {
		drawBar(screen, sx-size, sy-size-8*z, size*2, 4*z, h.Ratio(), healthColor(h.Ratio()))
	}
}

func (r *Renderer) drawTrail(screen *ebiten.Image, cam *camera.Camera, t *core.Transform, rd *core.Renderable) {
	pts := t.TrailPoints()
	if len(pts) < 2 {
		return
	}
	for i, p := range pts {
		k := float64(i+1) / float64(len(pts))
		px, py := cam.WorldToScreen(p.X, p.Y)
		clr := rd.Color
		clr.A = uint8(60 * k)
		vector.DrawFilledCircle(screen, float32(px), float32(py), float32(rd.Size*cam.Zoom*0.5*k), clr, true)
	}
}

func (r *Renderer) drawParticles(screen *ebiten.Image, e *game.Engine) {
	cam := e.Camera
	for _, p := range e.Particles.Particles() {
		if !cam.Visible(p.X, p.Y, p.Size) {
			continue
		}
		sx, sy := cam.WorldToScreen(p.X, p.Y)
		s := p.Size * cam.Zoom
		clr := p.Color
		clr.A = uint8(float64(clr.A) * p.Alpha)
		vector.DrawFilledRect(screen, float32(sx-s/2), float32(sy-s/2), float32(s), float32(s), clr, false)
	}
}

func (r *Renderer) drawPopups(screen *ebiten.Image, e *game.Engine) {
	cam := e.Camera
	for _, p := range e.Popups.Items() {
		sx, sy := cam.WorldToScreen(p.X, p.Y)
		clr := p.Color
		clr.A = uint8(255 * p.Alpha())
		DrawText(screen, p.Text, sx, sy, clr, true)
	}
}

func (r *Renderer) drawFlash(screen *ebiten.Image, e *game.Engine) {
	if r.flash == nil {
		r.flash = ebiten.NewImage(1, 1)
		r.flash.Fill(color.White)
	}
	b := screen.Bounds()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(b.Dx()), float64(b.Dy()))
	op.ColorScale.ScaleWithColor(e.Flash.Color)
	op.ColorScale.ScaleAlpha(float32(e.Flash.Alpha))
	screen.DrawImage(r.flash, op)
}

func drawBar(screen *ebiten.Image, x, y, w, h, ratio float64, fill color.RGBA) {
	ratio = math.Max(0, math.Min(1, ratio))
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), barBack, false)
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w*ratio), float32(h), fill, false)
}

func healthColor(ratio float64) color.RGBA {
	switch {
	case ratio < 0.25:
		return color.RGBA{230, 40, 40, 255}
	case ratio < 0.5:
		return color.RGBA{255, 200, 0, 255}
	default:
		return color.RGBA{40, 200, 60, 255}
	}
}
