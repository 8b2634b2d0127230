package visualization

import (
	"fmt"
	"image/color"
	"math"

	"collision-sim/internal/common"
	"collision-sim/internal/simulation"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	DefaultPadding = 20.0 // Отступ от краев экрана
	arenaThickness = 3.0
	minBodyPixels  = 1.0
)

var (
	backgroundColor = color.RGBA{0, 0, 0, 255}
	arenaColor      = color.RGBA{255, 255, 255, 255}
	inactiveColor   = color.RGBA{90, 90, 90, 255}

	slowColor = colorful.Color{R: 0.2, G: 0.3, B: 1}
	fastColor = colorful.Color{R: 1, G: 0.2, B: 0.15}
)

// Options configures the renderer.
type Options struct {
	// TracerLength is the number of past positions drawn behind each body.
	TracerLength int
	// StepsPerFrame is how many timesteps run per ebiten tick.
	StepsPerFrame int
}

// Renderer implements ebiten.Game: every tick advances the simulation, every
// frame draws the arena, the bodies and their tracers.
type Renderer struct {
	sim       *simulation.Simulator
	projector Projector
	opts      Options

	screenWidth  int
	screenHeight int

	tracers  map[int][]common.Vector // recent positions, oldest first
	maxSpeed float64
}

// NewRenderer creates a new Ebiten renderer.
func NewRenderer(sim *simulation.Simulator, projector Projector, opts Options) *Renderer {
	if opts.StepsPerFrame <= 0 {
		opts.StepsPerFrame = 1
	}
	if opts.TracerLength < 0 {
		opts.TracerLength = 0
	}
	return &Renderer{
		sim:       sim,
		projector: projector,
		opts:      opts,
		tracers:   make(map[int][]common.Vector),
	}
}

// Update is called every tick. Bodies are only read between completed steps.
func (r *Renderer) Update() error {
	for i := 0; i < r.opts.StepsPerFrame; i++ {
		r.recordTracers()
		if err := r.sim.AdvanceTimestep(); err != nil {
			return fmt.Errorf("renderer update: %w", err)
		}
	}
	r.maxSpeed = r.sim.Metrics().MaxSpeed
	return nil
}

func (r *Renderer) recordTracers() {
	if r.opts.TracerLength == 0 {
		return
	}
	for _, body := range r.sim.GetBodies() {
		if !body.IsActive() {
			delete(r.tracers, body.GetID())
			continue
		}
		trail := append(r.tracers[body.GetID()], body.GetPosition())
		if len(trail) > r.opts.TracerLength {
			trail = trail[len(trail)-r.opts.TracerLength:]
		}
		r.tracers[body.GetID()] = trail
	}
}

// Draw is called every frame to render the simulation.
func (r *Renderer) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	field := r.sim.Field()
	if field == nil {
		ebitenutil.DebugPrint(screen, "Waiting for field...")
		return
	}
	r.projector.Fit(field.Boundary().Bounds(), r.screenWidth, r.screenHeight)

	for _, body := range r.sim.GetBodies() {
		bodyColor := speedColor(body, r.maxSpeed)
		radius := float32(math.Max(float64(r.projector.Scale(body.GetRadius())), minBodyPixels))

		trail := r.tracers[body.GetID()]
		for i, pos := range trail {
			// older samples are smaller and fainter
			age := float32(i+1) / float32(len(trail)+1)
			tx, ty := r.projector.ToScreen(pos)
			vector.DrawFilledCircle(screen, tx, ty, radius*age, fade(bodyColor, age*0.5), true)
		}

		x, y := r.projector.ToScreen(body.GetPosition())
		vector.DrawFilledCircle(screen, x, y, radius, bodyColor, true)
	}

	r.drawArena(screen, field)
	r.drawDebugInfo(screen)
}

func (r *Renderer) drawArena(screen *ebiten.Image, field simulation.Field) {
	b := field.Boundary().Bounds()
	center := common.Vector{X: (b[0] + b[1]) / 2, Y: (b[2] + b[3]) / 2}
	cx, cy := r.projector.ToScreen(center)
	radius := r.projector.Scale((b[1] - b[0]) / 2)
	vector.StrokeCircle(screen, cx, cy, radius+arenaThickness/2, arenaThickness, arenaColor, true)
}

// speedColor blends from blue (slow) to red (fastest body on screen).
func speedColor(body simulation.SimulationObject, maxSpeed float64) color.RGBA {
	if !body.IsActive() {
		return inactiveColor
	}
	frac := 0.0
	if maxSpeed > 0 {
		v := body.GetVelocity()
		frac = math.Min(math.Hypot(v.X, v.Y)/maxSpeed, 1)
	}
	r, g, b := slowColor.BlendHcl(fastColor, frac).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func fade(c color.RGBA, alpha float32) color.RGBA {
	// premultiplied alpha
	return color.RGBA{
		R: uint8(float32(c.R) * alpha),
		G: uint8(float32(c.G) * alpha),
		B: uint8(float32(c.B) * alpha),
		A: uint8(float32(c.A) * alpha),
	}
}

func (r *Renderer) drawDebugInfo(screen *ebiten.Image) {
	stats := r.sim.LastStepStats()
	metrics := r.sim.Metrics()
	msg := fmt.Sprintf("Run: %s  Step: %d  Time: %s\n", r.sim.RunID(), r.sim.GetStep(), r.sim.GetSimulationTime())
	msg += fmt.Sprintf("FPS: %.1f, TPS: %.1f\n", ebiten.ActualFPS(), ebiten.ActualTPS())
	msg += fmt.Sprintf("Bodies: %d (active %d)  KE: %.2f\n", metrics.Bodies, metrics.Active, metrics.KineticEnergy)
	msg += fmt.Sprintf("Contacts: pair %d, boundary %d, stale %d", stats.PairContacts, stats.BoundaryContacts, stats.Stale)
	ebitenutil.DebugPrint(screen, msg)
}

// Layout is called when the window size changes.
func (r *Renderer) Layout(outsideWidth, outsideHeight int) (int, int) {
	r.screenWidth = outsideWidth
	r.screenHeight = outsideHeight
	return r.screenWidth, r.screenHeight
}
