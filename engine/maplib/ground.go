// Package maplib generates the decorative ground layer under the world.
// Terrain is cosmetic only; every tile is walkable.
package maplib

import (
	"encoding/binary"
	"math"
	"math/rand"

	"github.com/cespare/xxhash/v2"
)

// TerrainType defines the terrain of a tile
type TerrainType uint8

const (
	TerrainGrass TerrainType = iota
	TerrainDirt
	TerrainSand
	TerrainWater
	TerrainRock
	TerrainForest
)

// Variants is the number of visual variants per terrain
const Variants = 3

// Tile represents a single ground tile
type Tile struct {
	Terrain TerrainType
	Variant uint8
}

// GroundMap is a fixed grid of tiles covering the world rectangle
type GroundMap struct {
	Width, Height int     // in tiles
	TileSize      float64 // world units per tile edge
	Tiles         []Tile
}

// blob is one terrain patch painted over the grass base
type blob struct {
	terrain TerrainType
	x, y, r float64
}

// Generate builds a ground map for a worldW x worldH world. The same seed
// always yields the same map.
func Generate(worldW, worldH, tileSize float64, seed int64) *GroundMap {
	w := int(math.Ceil(worldW / tileSize))
	h := int(math.Ceil(worldH / tileSize))
	gm := &GroundMap{Width: w, Height: h, TileSize: tileSize, Tiles: make([]Tile, w*h)}

	rng := rand.New(rand.NewSource(seed))
	patches := []TerrainType{TerrainDirt, TerrainSand, TerrainWater, TerrainRock, TerrainForest}
	var blobs []blob
	for i := 0; i < (w*h)/40+1; i++ {
		blobs = append(blobs, blob{
			terrain: patches[rng.Intn(len(patches))],
			x:       rng.Float64() * float64(w),
			y:       rng.Float64() * float64(h),
			r:       1.5 + rng.Float64()*3,
		})
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			t := TerrainGrass
			for _, b := range blobs {
				if math.Hypot(float64(x)+0.5-b.x, float64(y)+0.5-b.y) <= b.r {
					t = b.terrain
				}
			}
			gm.Tiles[y*w+x] = Tile{Terrain: t, Variant: variant(seed, x, y)}
		}
	}
	return gm
}

// variant hashes the tile position so neighbouring tiles differ
func variant(seed int64, x, y int) uint8 {
	var buf [24]byte
	binary.LittleEndian.PutUint64(buf[0:], uint64(seed))
	binary.LittleEndian.PutUint64(buf[8:], uint64(x))
	binary.LittleEndian.PutUint64(buf[16:], uint64(y))
	return uint8(xxhash.Sum64(buf[:]) % Variants)
}

// At returns a pointer to the tile at (x, y), or nil out of bounds
func (gm *GroundMap) At(x, y int) *Tile {
	if !gm.InBounds(x, y) {
		return nil
	}
	return &gm.Tiles[y*gm.Width+x]
}

// InBounds checks if tile coordinates are valid
func (gm *GroundMap) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < gm.Width && y < gm.Height
}

// TileAt returns the tile coordinates containing a world position
func (gm *GroundMap) TileAt(wx, wy float64) (int, int) {
	return int(math.Floor(wx / gm.TileSize)), int(math.Floor(wy / gm.TileSize))
}

// Range returns the inclusive tile range covering a world rectangle,
// clamped to the map
func (gm *GroundMap) Range(x0, y0, x1, y1 float64) (minX, minY, maxX, maxY int) {
	minX, minY = gm.TileAt(x0, y0)
	maxX, maxY = gm.TileAt(x1, y1)
	minX, minY = max(minX, 0), max(minY, 0)
	maxX, maxY = min(maxX, gm.Width-1), min(maxY, gm.Height-1)
	return
}

// SetTerrain paints a rectangle of tiles, inclusive
func (gm *GroundMap) SetTerrain(x1, y1, x2, y2 int, terrain TerrainType) {
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			if t := gm.At(x, y); t != nil {
				t.Terrain = terrain
			}
		}
	}
}
