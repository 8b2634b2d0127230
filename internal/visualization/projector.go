package visualization

import (
	"math"

	"collision-sim/internal/common"
)

// Projector maps arena coordinates onto the screen.
type Projector interface {
	// Fit recomputes the transform so that bounds ([minX, maxX, minY, maxY])
	// fill a screen of the given size.
	Fit(bounds []float64, screenWidth, screenHeight int)
	// ToScreen converts a world position to screen coordinates.
	ToScreen(p common.Vector) (float32, float32)
	// Scale converts a world length to screen pixels.
	Scale(length float64) float32
}

// ArenaProjector keeps the arena centered with a fixed padding and a uniform
// scale.
type ArenaProjector struct {
	padding float64

	scale   float64
	offsetX float64
	offsetY float64
}

// NewArenaProjector creates a projector leaving padding pixels around the arena.
func NewArenaProjector(padding float64) *ArenaProjector {
	return &ArenaProjector{padding: padding, scale: 1}
}

// Fit implements Projector.
func (p *ArenaProjector) Fit(bounds []float64, screenWidth, screenHeight int) {
	if len(bounds) != 4 || screenWidth <= 0 || screenHeight <= 0 {
		p.scale = 1.0
		p.offsetX = float64(screenWidth) / 2.0
		p.offsetY = float64(screenHeight) / 2.0
		return
	}

	worldWidth := bounds[1] - bounds[0]
	worldHeight := bounds[3] - bounds[2]
	if worldWidth <= 0 {
		worldWidth = 1
	}
	if worldHeight <= 0 {
		worldHeight = 1
	}

	scaleX := (float64(screenWidth) - 2*p.padding) / worldWidth
	scaleY := (float64(screenHeight) - 2*p.padding) / worldHeight
	p.scale = math.Min(scaleX, scaleY) // Preserve aspect ratio
	if p.scale <= 0 || math.IsNaN(p.scale) || math.IsInf(p.scale, 0) {
		p.scale = 1.0
	}

	centerX := (bounds[0] + bounds[1]) / 2.0
	centerY := (bounds[2] + bounds[3]) / 2.0
	p.offsetX = float64(screenWidth)/2.0 - centerX*p.scale
	p.offsetY = float64(screenHeight)/2.0 - centerY*p.scale
}

// ToScreen implements Projector. Screen Y grows downwards like the arena's.
func (p *ArenaProjector) ToScreen(pos common.Vector) (float32, float32) {
	return float32(pos.X*p.scale + p.offsetX), float32(pos.Y*p.scale + p.offsetY)
}

// Scale implements Projector.
func (p *ArenaProjector) Scale(length float64) float32 {
	return float32(length * p.scale)
}
