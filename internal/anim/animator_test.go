package anim

import (
	"math"
	"testing"

	"github.com/san-kum/circlerender/internal/compute"
	"github.com/san-kum/circlerender/internal/scene"
)

func near(a, b, tol float32) bool {
	return math.Abs(float64(a-b)) <= float64(tol)
}

func TestBounceFreeFallClosedForm(t *testing.T) {
	sc, err := scene.FromArrays(scene.BouncingBalls,
		[]scene.Vec3{{0.5, 0.8, 0}}, []scene.Vec3{{}}, []scene.Color{{1, 0, 0, 1}}, []float32{0.05})
	if err != nil {
		t.Fatalf("from arrays: %v", err)
	}
	a := New(compute.NewSerialBackend())

	const k = 20
	for i := 0; i < k; i++ {
		a.Advance(sc)
	}

	g := DefaultBounce.Gravity
	wantV := g * Dt * k
	wantY := 0.8 + g*Dt*Dt*k*(k+1)/2
	if !near(sc.Velocity[0][1], wantV, 1e-5) {
		t.Errorf("vy = %v, want %v", sc.Velocity[0][1], wantV)
	}
	if !near(sc.Position[0][1], wantY, 1e-4) {
		t.Errorf("y = %v, want %v", sc.Position[0][1], wantY)
	}
	if sc.Position[0][0] != 0.5 {
		t.Errorf("x should not move, got %v", sc.Position[0][0])
	}
}

func TestBounceReflectsAtFloor(t *testing.T) {
	sc := scene.New(scene.BouncingBalls, 1)
	sc.Position[0] = scene.Vec3{0.5, -0.01, 0}
	sc.Velocity[0] = scene.Vec3{0, -1, 0}
	sc.Radius[0] = 0.02

	DefaultBounce.Step(sc, 0)
	if sc.Velocity[0][1] <= 0 {
		t.Errorf("expected upward velocity after bounce, got %v", sc.Velocity[0][1])
	}
}

func TestBounceAtRest(t *testing.T) {
	sc := scene.New(scene.BouncingBalls, 1)
	DefaultBounce.Step(sc, 0)
	if sc.Position[0] != (scene.Vec3{}) || sc.Velocity[0] != (scene.Vec3{}) {
		t.Error("resting ball should not move")
	}
}

func TestBounceEventuallyRests(t *testing.T) {
	sc := scene.New(scene.BouncingBalls, 1)
	sc.Position[0] = scene.Vec3{0.5, 0.3, 0}
	sc.Radius[0] = 0.02
	for i := 0; i < 60*60; i++ {
		DefaultBounce.Step(sc, 0)
	}
	if sc.Position[0][1] > 0.05 || sc.Position[0][1] < -0.05 {
		t.Errorf("ball should settle near the floor, y=%v", sc.Position[0][1])
	}
}

func TestSparksConstantVelocity(t *testing.T) {
	sc, _ := scene.Load(scene.Fireworks)
	idx := scene.SparkIndex(2, 3)
	p0 := sc.Position[idx]
	v := sc.Velocity[idx]

	a := New(compute.NewSerialBackend())
	const k = 30
	for i := 0; i < k; i++ {
		a.Advance(sc)
	}

	for c := 0; c < 2; c++ {
		want := p0[c] + float32(k)*v[c]*Dt
		if !near(sc.Position[idx][c], want, 1e-5) {
			t.Errorf("axis %d: got %v, want %v", c, sc.Position[idx][c], want)
		}
	}
}

func TestSparksRespawnOnRim(t *testing.T) {
	sc, _ := scene.Load(scene.Fireworks)
	f, k := 4, 7
	idx := scene.SparkIndex(f, k)
	center := sc.Position[f]
	sc.Position[idx] = scene.Vec3{center[0] + 0.3, center[1], 0}

	DefaultSparks.Step(sc, idx)

	dx := sc.Position[idx][0] - center[0]
	dy := sc.Position[idx][1] - center[1]
	dist := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	if !near(dist, sc.Radius[f], 1e-5) {
		t.Errorf("respawned spark at distance %v, want rim %v", dist, sc.Radius[f])
	}
	cos, sin := scene.SparkDirection(k)
	if !near(sc.Velocity[idx][0], cos*scene.SparkSpeed, 1e-6) || !near(sc.Velocity[idx][1], sin*scene.SparkSpeed, 1e-6) {
		t.Errorf("unexpected respawn velocity %v", sc.Velocity[idx])
	}
}

func TestSparksCentresStatic(t *testing.T) {
	sc, _ := scene.Load(scene.Fireworks)
	before := append([]scene.Vec3(nil), sc.Position[:scene.NumFireworks]...)
	a := New(compute.NewCPUBackend(4))
	for i := 0; i < 100; i++ {
		a.Advance(sc)
	}
	for f := range before {
		if sc.Position[f] != before[f] {
			t.Errorf("firework centre %d moved", f)
		}
	}
}

func TestPulseWraps(t *testing.T) {
	sc := scene.New(scene.Hypnosis, 2)
	sc.Radius[0] = 0.1
	sc.Radius[1] = 0.6

	DefaultPulse.Step(sc, 0)
	DefaultPulse.Step(sc, 1)

	if !near(sc.Radius[0], 0.11, 1e-6) {
		t.Errorf("radius 0 = %v, want 0.11", sc.Radius[0])
	}
	if sc.Radius[1] != DefaultPulse.Min {
		t.Errorf("radius 1 = %v, want %v", sc.Radius[1], DefaultPulse.Min)
	}
}

func TestSnowRespawnsAboveTop(t *testing.T) {
	sc := scene.New(scene.Snow, 1)
	sc.Position[0] = scene.Vec3{0.5, -0.2, 0.5}
	sc.Velocity[0] = scene.Vec3{0, -1, 0}
	sc.Radius[0] = 0.01

	DefaultSnowfall.Step(sc, 0)

	if !near(sc.Position[0][1], DefaultSnowfall.Spawn+0.01, 1e-6) {
		t.Errorf("y = %v, want %v", sc.Position[0][1], DefaultSnowfall.Spawn+0.01)
	}
	if sc.Velocity[0][1] != 0 {
		t.Errorf("vy = %v, want 0", sc.Velocity[0][1])
	}
	if x := sc.Position[0][0]; x < 0 || x > 1 {
		t.Errorf("respawn x = %v outside [0,1]", x)
	}
}

func TestStaticScenesUnchanged(t *testing.T) {
	sc, _ := scene.Load(scene.RGB)
	before := sc.Clone()
	New(compute.NewSerialBackend()).Advance(sc)
	for i := range sc.Position {
		if sc.Position[i] != before.Position[i] || sc.Radius[i] != before.Radius[i] {
			t.Errorf("circle %d changed", i)
		}
	}
}

func TestAdvanceIndependentOfBackend(t *testing.T) {
	for _, name := range []scene.Name{scene.BouncingBalls, scene.Snow, scene.Fireworks, scene.Hypnosis} {
		ref, _ := scene.Load(name)
		par := ref.Clone()
		shuf := ref.Clone()
		n := ref.Len()

		serial := New(compute.NewSerialBackend())
		cpu := New(compute.NewCPUBackend(8))
		shuffled := New(compute.NewShuffledBackend(3))
		for step := 0; step < 25; step++ {
			serial.Advance(ref)
			cpu.Advance(par)
			shuffled.Advance(shuf)
		}

		if par.Len() != n || shuf.Len() != n {
			t.Fatalf("%s: circle count changed", name)
		}
		for i := 0; i < n; i++ {
			if ref.Position[i] != par.Position[i] || ref.Position[i] != shuf.Position[i] {
				t.Fatalf("%s: circle %d differs between backends", name, i)
			}
			if ref.Radius[i] != par.Radius[i] || ref.Radius[i] != shuf.Radius[i] {
				t.Fatalf("%s: radius %d differs between backends", name, i)
			}
		}
	}
}

func TestCellNoiseRange(t *testing.T) {
	for i := 0; i < 1000; i++ {
		a, b := cellNoise(float32(i)*0.37, float32(i)*1.3, float32(i), uint32(i))
		if a < -1 || a > 1 || b < -1 || b > 1 {
			t.Fatalf("noise out of range: %v %v", a, b)
		}
	}
	a1, b1 := cellNoise(3.2, 4.7, 1.1, 9)
	a2, b2 := cellNoise(3.9, 4.1, 1.9, 9)
	if a1 != a2 || b1 != b2 {
		t.Error("noise should be constant within a cell")
	}
}
