package scene

import (
	"fmt"
	"math"
)

type Vec3 [3]float32

type Color [4]float32

// Scene is the column store of one loaded variant. The slices are owned by
// the renderer once handed over; Animator rules mutate them in place and
// never resize them.
type Scene struct {
	Name     Name
	Position []Vec3
	Velocity []Vec3
	Color    []Color
	Radius   []float32
}

// New allocates a scene of n zeroed circles.
func New(name Name, n int) *Scene {
	return &Scene{
		Name:     name,
		Position: make([]Vec3, n),
		Velocity: make([]Vec3, n),
		Color:    make([]Color, n),
		Radius:   make([]float32, n),
	}
}

// FromArrays wraps caller-provided arrays. The arrays are not copied.
func FromArrays(name Name, pos, vel []Vec3, col []Color, rad []float32) (*Scene, error) {
	if _, ok := registry[name]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidScene, name)
	}
	sc := &Scene{Name: name, Position: pos, Velocity: vel, Color: col, Radius: rad}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

func (s *Scene) Len() int { return len(s.Radius) }

// Validate checks the column invariant and the radii.
func (s *Scene) Validate() error {
	n := len(s.Radius)
	if len(s.Position) != n || len(s.Velocity) != n || len(s.Color) != n {
		return fmt.Errorf("%w: position=%d velocity=%d color=%d radius=%d",
			ErrArrayLength, len(s.Position), len(s.Velocity), len(s.Color), n)
	}
	for i, r := range s.Radius {
		if r < 0 || math.IsNaN(float64(r)) || math.IsInf(float64(r), 0) {
			return fmt.Errorf("%w: circle %d has radius %v", ErrInvalidRadius, i, r)
		}
	}
	return nil
}

func (s *Scene) Clone() *Scene {
	c := &Scene{
		Name:     s.Name,
		Position: make([]Vec3, len(s.Position)),
		Velocity: make([]Vec3, len(s.Velocity)),
		Color:    make([]Color, len(s.Color)),
		Radius:   make([]float32, len(s.Radius)),
	}
	copy(c.Position, s.Position)
	copy(c.Velocity, s.Velocity)
	copy(c.Color, s.Color)
	copy(c.Radius, s.Radius)
	return c
}

// Swap exchanges circles i and j across all four arrays.
func (s *Scene) Swap(i, j int) {
	s.Position[i], s.Position[j] = s.Position[j], s.Position[i]
	s.Velocity[i], s.Velocity[j] = s.Velocity[j], s.Velocity[i]
	s.Color[i], s.Color[j] = s.Color[j], s.Color[i]
	s.Radius[i], s.Radius[j] = s.Radius[j], s.Radius[i]
}
