package common

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vector is a point or displacement in the 2D arena.
type Vector = r2.Vec

// NewRandomVector creates a vector with random coordinates within given bounds.
// bounds should have 4 elements: [minX, maxX, minY, maxY]
func NewRandomVector(rng *rand.Rand, bounds []float64) (Vector, error) {
	if len(bounds) != 4 {
		return Vector{}, fmt.Errorf("bounds length must be 4, got %d", len(bounds))
	}
	return Vector{
		X: bounds[0] + rng.Float64()*(bounds[1]-bounds[0]),
		Y: bounds[2] + rng.Float64()*(bounds[3]-bounds[2]),
	}, nil
}

// NewRandomInDisk returns a point uniformly distributed inside the disk of the
// given center and radius.
func NewRandomInDisk(rng *rand.Rand, center Vector, radius float64) Vector {
	// sqrt keeps the area density uniform
	rho := radius * math.Sqrt(rng.Float64())
	theta := 2 * math.Pi * rng.Float64()
	return r2.Add(center, Vector{X: rho * math.Cos(theta), Y: rho * math.Sin(theta)})
}

// Distance calculates the Euclidean distance between two points.
func Distance(a, b Vector) float64 {
	return r2.Norm(r2.Sub(a, b))
}

// Unit returns v scaled to unit length. ok is false when v is too short to
// have a direction.
func Unit(v Vector, eps float64) (Vector, bool) {
	n := r2.Norm(v)
	if n <= eps || math.IsNaN(n) {
		return Vector{}, false
	}
	return r2.Scale(1/n, v), true
}

// IsFinite reports whether both coordinates are neither NaN nor infinite.
func IsFinite(v Vector) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// Format returns a string representation with limited precision for cleaner output.
func Format(v Vector) string {
	return fmt.Sprintf("[%.3f, %.3f]", v.X, v.Y)
}
