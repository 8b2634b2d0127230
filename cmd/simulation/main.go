package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"collision-sim/internal/simulation"
	"collision-sim/internal/visualization"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := simulation.DefaultConfig()

	// --- Simulation Parameters ---
	headless := flag.Bool("headless", false, "run without a window and print progress")
	numSteps := flag.Int("steps", 300, "number of timesteps to run in headless mode")
	reportEvery := flag.Int("report-every", 30, "print metrics every N steps in headless mode (0 disables)")
	tps := flag.Int("tps", 30, "timesteps per second")
	width := flag.Int("width", 1000, "window width")
	height := flag.Int("height", 1000, "window height")
	tracer := flag.Int("tracer", 7, "tracer length in steps (0 disables)")

	count := flag.Int("count", 0, fmt.Sprintf("number of bodies (0: %d headless, %d windowed); detection is pairwise, so step cost grows with count^2",
		cfg.BodyCount, simulation.DefaultInteractiveBodyCount))
	flag.Int64Var(&cfg.Seed, "seed", time.Now().UnixNano(), "placement seed")
	flag.Float64Var(&cfg.Restitution, "restitution", cfg.Restitution, "pair restitution coefficient in [0, 1]")
	flag.Float64Var(&cfg.ElasticThreshold, "elastic-below", cfg.ElasticThreshold, "closing speed below which pair contacts are elastic")
	flag.Float64Var(&cfg.ArenaRadius, "arena-radius", cfg.ArenaRadius, "arena radius")
	flag.Float64Var(&cfg.MaxRadius, "radius", cfg.MaxRadius, "body radius")
	flag.Float64Var(&cfg.MaxInitialSpeed, "speed", cfg.MaxInitialSpeed, "max initial speed per axis, units per step")
	flag.Parse()

	cfg.MinRadius = cfg.MaxRadius
	switch {
	case *count > 0:
		cfg.BodyCount = *count
	case !*headless:
		cfg.BodyCount = simulation.InteractiveConfig().BodyCount
	}
	if *tps > 0 {
		cfg.TickDuration = time.Second / time.Duration(*tps)
	}

	logger := log.New(os.Stderr, "sim ", log.LstdFlags)

	// --- Create Simulation ---
	sim, err := simulation.Start(cfg, logger)
	if err != nil {
		log.Fatalf("Error creating simulation: %v", err)
	}

	// --- Run Simulation ---
	if *headless {
		if err := sim.Run(*numSteps, *reportEvery, os.Stdout); err != nil {
			log.Fatalf("Simulation failed: %v", err)
		}
		sim.Finish()
		fmt.Println("\nApplication finished.")
		return
	}

	projector := visualization.NewArenaProjector(visualization.DefaultPadding)
	renderer := visualization.NewRenderer(sim, projector, visualization.Options{
		TracerLength:  *tracer,
		StepsPerFrame: 1,
	})
	ebiten.SetWindowSize(*width, *height)
	ebiten.SetWindowTitle(fmt.Sprintf("Particle Collisions (%s)", sim.RunID()))
	if *tps > 0 {
		ebiten.SetTPS(*tps)
	}
	if err := ebiten.RunGame(renderer); err != nil {
		log.Fatalf("Renderer stopped: %v", err)
	}
	sim.Finish()
}
