package render

import (
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"os"
	"path/filepath"
	"runtime"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"

	"github.com/1siamBot/rpg-engine/engine/core"
)

// maxClipFrames bounds the frame probe for one visual/state pair
const maxClipFrames = 16

// SpriteManager loads animation frames lazily from
// <assets>/sprites/<visual>_<state>_<frame>.png. Visuals without art fall
// back to generated discs.
type SpriteManager struct {
	dir    string
	clips  map[string][]*ebiten.Image // key: visual/state
	discs  map[discKey]*ebiten.Image
	log    *zap.Logger
	loaded int
}

type discKey struct {
	clr    color.RGBA
	radius int
}

func NewSpriteManager(dir string, log *zap.Logger) *SpriteManager {
	if dir == "" {
		dir = assetsDir()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &SpriteManager{
		dir:   dir,
		clips: make(map[string][]*ebiten.Image),
		discs: make(map[discKey]*ebiten.Image),
		log:   log.With(zap.String("component", "sprites")),
	}
}

// Frame returns the image for a visual in a given animation state, or nil
// when no art exists. The frame index wraps around the clip length.
func (sm *SpriteManager) Frame(visual string, st core.AnimState, frame int) *ebiten.Image {
	frames := sm.clip(visual, st)
	if len(frames) == 0 {
		return nil
	}
	if frame < 0 {
		frame = 0
	}
	return frames[frame%len(frames)]
}

func (sm *SpriteManager) clip(visual string, st core.AnimState) []*ebiten.Image {
	key := visual + "/" + st.String()
	if frames, ok := sm.clips[key]; ok {
		return frames
	}
	var frames []*ebiten.Image
	for f := 0; f < maxClipFrames; f++ {
		img := sm.loadFromFile(filepath.Join(sm.dir, "sprites", fmt.Sprintf("%s_%s_%d.png", visual, st, f)))
		if img == nil {
			break
		}
		frames = append(frames, img)
	}
	sm.clips[key] = frames
	if len(frames) > 0 {
		sm.loaded += len(frames)
		sm.log.Debug("clip loaded", zap.String("clip", key), zap.Int("frames", len(frames)))
	}
	return frames
}

// Disc returns a cached filled circle with a dark rim, used for entities
// without sprite art
func (sm *SpriteManager) Disc(clr color.RGBA, radius float64) *ebiten.Image {
	r := int(radius + 0.5)
	if r < 1 {
		r = 1
	}
	k := discKey{clr, r}
	if img, ok := sm.discs[k]; ok {
		return img
	}
	size := r*2 + 2
	img := ebiten.NewImage(size, size)
	c := float32(size) / 2
	vector.DrawFilledCircle(img, c, c, float32(r), clr, true)
	vector.StrokeCircle(img, c, c, float32(r), 1.5, color.RGBA{0, 0, 0, 120}, true)
	sm.discs[k] = img
	return img
}

// Loaded returns how many sprite frames have been read from disk
func (sm *SpriteManager) Loaded() int { return sm.loaded }

func assetsDir() string {
	exe, err := os.Executable()
	if err == nil {
		dir := filepath.Join(filepath.Dir(exe), "assets")
		if _, err := os.Stat(dir); err == nil {
			return dir
		}
	}
	_, filename, _, _ := runtime.Caller(0)
	dir := filepath.Join(filepath.Dir(filename), "..", "..", "assets")
	if _, err := os.Stat(dir); err == nil {
		return dir
	}
	return "assets"
}

func (sm *SpriteManager) loadFromFile(path string) *ebiten.Image {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		sm.log.Warn("could not decode sprite", zap.String("path", path), zap.Error(err))
		return nil
	}
	return ebiten.NewImageFromImage(img)
}
