package simulation

import (
	"fmt"

	"collision-sim/internal/common"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"
)

// Metrics aggregates the physical state of a set of bodies.
type Metrics struct {
	Bodies        int
	Active        int
	KineticEnergy float64
	Momentum      common.Vector
	MeanSpeed     float64
	SpeedStdDev   float64
	MaxSpeed      float64
}

// Measure computes Metrics over the active objects.
func Measure(objects []SimulationObject) Metrics {
	m := Metrics{Bodies: len(objects)}
	speeds := make([]float64, 0, len(objects))
	energies := make([]float64, 0, len(objects))
	for _, obj := range objects {
		if !obj.IsActive() {
			continue
		}
		v := obj.GetVelocity()
		speeds = append(speeds, r2.Norm(v))
		energies = append(energies, 0.5*obj.GetMass()*r2.Norm2(v))
		m.Momentum = r2.Add(m.Momentum, r2.Scale(obj.GetMass(), v))
	}
	m.Active = len(speeds)
	if m.Active == 0 {
		return m
	}
	m.KineticEnergy = floats.Sum(energies)
	m.MaxSpeed = floats.Max(speeds)
	if m.Active > 1 {
		m.MeanSpeed, m.SpeedStdDev = stat.MeanStdDev(speeds, nil)
	} else {
		m.MeanSpeed = speeds[0]
	}
	return m
}

func (m Metrics) String() string {
	return fmt.Sprintf("Bodies: %d (active %d) KE: %.4f Momentum: %s Speed: mean %.3f sd %.3f max %.3f",
		m.Bodies, m.Active, m.KineticEnergy, common.Format(m.Momentum), m.MeanSpeed, m.SpeedStdDev, m.MaxSpeed)
}
