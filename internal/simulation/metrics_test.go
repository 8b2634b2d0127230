package simulation

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestMeasure(t *testing.T) {
	bodies := []*Body{
		NewBody(0, vec(0, 0), vec(3, 4), 1), // speed 5, mass 1
		NewBody(1, vec(5, 0), vec(-1, 0), 2), // speed 1, mass 4
		NewBody(2, vec(9, 0), vec(100, 0), 1),
	}
	bodies[2].deactivate()

	objects := make([]SimulationObject, len(bodies))
	for i, b := range bodies {
		objects[i] = b
	}
	m := Measure(objects)

	if m.Bodies != 3 || m.Active != 2 {
		t.Errorf("Bodies/Active = %d/%d, want 3/2", m.Bodies, m.Active)
	}
	if !scalar.EqualWithinAbs(m.KineticEnergy, 0.5*25+0.5*4*1, 1e-12) {
		t.Errorf("KineticEnergy = %v, want 14.5", m.KineticEnergy)
	}
	assertVector(t, "Momentum", m.Momentum, vec(-1, 4), 1e-12)
	if m.MaxSpeed != 5 {
		t.Errorf("MaxSpeed = %v, want 5", m.MaxSpeed)
	}
	if !scalar.EqualWithinAbs(m.MeanSpeed, 3, 1e-12) {
		t.Errorf("MeanSpeed = %v, want 3", m.MeanSpeed)
	}
}

func TestMeasure_Empty(t *testing.T) {
	m := Measure(nil)
	if m.Active != 0 || m.KineticEnergy != 0 {
		t.Errorf("Measure(nil) = %+v", m)
	}
}
