package anim

import (
	"math"

	"github.com/san-kum/circlerender/internal/scene"
)

// Dt is the length of one animation step in seconds.
const Dt = float32(1.0 / 60.0)

// Rule advances circle i of a scene by one step. Implementations read and
// write only circle i's entries, plus entries no rule ever writes.
type Rule interface {
	Name() string
	Step(sc *scene.Scene, i int)
}

// RuleFor returns the motion rule of a variant.
func RuleFor(name scene.Name) Rule {
	switch name {
	case scene.BouncingBalls:
		return DefaultBounce
	case scene.Hypnosis:
		return DefaultPulse
	case scene.Fireworks:
		return DefaultSparks
	case scene.Snow:
		return DefaultSnowfall
	default:
		return Static{}
	}
}

// Static leaves circles where they are.
type Static struct{}

func (Static) Name() string                { return "static" }
func (Static) Step(_ *scene.Scene, _ int) {}

// Bounce drops circles under gravity onto the floor y = 0, reflecting and
// damping the vertical velocity. A circle whose velocity barely changes
// while below the floor is put to rest at y = 0.
type Bounce struct {
	Gravity float32
	Damping float32
	Rest    float32
}

var DefaultBounce = Bounce{Gravity: -2.8, Damping: -0.8, Rest: 0.001}

func (Bounce) Name() string { return "bounce" }

func (b Bounce) Step(sc *scene.Scene, i int) {
	p := &sc.Position[i]
	v := &sc.Velocity[i]

	oldV := v[1]
	oldP := p[1]
	if oldV == 0 && oldP == 0 {
		return
	}

	if oldP < 0 && oldV < 0 {
		v[1] *= b.Damping
	}
	v[1] += b.Gravity * Dt
	p[1] += v[1] * Dt

	if abs32(v[1]-oldV) < b.Rest && oldP < 0 && p[1] < 0 {
		v[1] = 0
		p[1] = 0
	}
}

// Pulse grows each radius by Rate per step and wraps it back to Min once it
// exceeds Max.
type Pulse struct {
	Rate, Min, Max float32
}

var DefaultPulse = Pulse{Rate: 0.01, Min: 0.02, Max: 0.5}

func (Pulse) Name() string { return "pulse" }

func (p Pulse) Step(sc *scene.Scene, i int) {
	if sc.Radius[i] > p.Max {
		sc.Radius[i] = p.Min
		return
	}
	sc.Radius[i] += p.Rate
}

// Sparks moves firework sparks at constant velocity. A spark farther than
// MaxDist from its firework centre respawns on the centre's rim with its
// launch velocity. Centres never move.
type Sparks struct {
	MaxDist float32
}

var DefaultSparks = Sparks{MaxDist: 0.25}

func (Sparks) Name() string { return "sparks" }

func (s Sparks) Step(sc *scene.Scene, i int) {
	if i < scene.NumFireworks {
		return
	}
	f := (i - scene.NumFireworks) / scene.NumSparks
	k := (i - scene.NumFireworks) % scene.NumSparks
	center := sc.Position[f]

	p := &sc.Position[i]
	v := &sc.Velocity[i]
	p[0] += v[0] * Dt
	p[1] += v[1] * Dt

	dx := p[0] - center[0]
	dy := p[1] - center[1]
	if dx*dx+dy*dy <= s.MaxDist*s.MaxDist {
		return
	}

	cos, sin := scene.SparkDirection(k)
	r := sc.Radius[f]
	*p = scene.Vec3{center[0] + cos*r, center[1] + sin*r, 0}
	*v = scene.Vec3{cos * scene.SparkSpeed, sin * scene.SparkSpeed, 0}
}

// Snowfall applies gravity, drag and a cell-noise flutter. Far flakes
// (large z) move slower to fake parallax. Flakes leaving the sides or the
// bottom respawn above the top edge.
type Snowfall struct {
	Gravity float32
	Drag    float32
	NoiseX  float32
	NoiseY  float32
	Spawn   float32
}

var DefaultSnowfall = Snowfall{Gravity: -1.8, Drag: 2.0, NoiseX: 7.5, NoiseY: 5.0, Spawn: 1.35}

func (Snowfall) Name() string { return "snowfall" }

func (s Snowfall) Step(sc *scene.Scene, i int) {
	p := &sc.Position[i]
	v := &sc.Velocity[i]
	r := sc.Radius[i]

	scale := clamp32(1-p[2], 0.1, 1)
	nx, ny := cellNoise(10*p[0], 10*p[1], 255*p[2], uint32(i))
	nx *= s.NoiseX
	ny *= s.NoiseY

	p[0] += v[0] * Dt
	p[1] += v[1] * Dt

	v[0] += scale * (nx - s.Drag*v[0]) * Dt
	v[1] += scale * (s.Gravity + ny - s.Drag*v[1]) * Dt

	if p[1]+r < 0 || p[0]+r < 0 || p[0]-r > 1 {
		nx, ny = cellNoise(255*p[0], 255*p[1], 255*p[2], uint32(i))
		p[0] = 0.5 + 0.5*nx
		p[1] = s.Spawn + r
		v[0] = 2 * ny
		v[1] = 0
	}
}

func abs32(x float32) float32 {
	return float32(math.Abs(float64(x)))
}

func clamp32(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
