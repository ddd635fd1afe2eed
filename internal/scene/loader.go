package scene

import (
	"math"
	"math/rand"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
)

const (
	// FlatAlpha is the opacity of every circle in the flat-shaded presets.
	FlatAlpha = 0.5

	NumFireworks = 15
	NumSparks    = 20
	SparkSpeed   = 0.2
	SparkRadius  = 0.01

	HypnosisRings = 16

	PatternGrid = 40

	NumBouncingBalls = 1000
	NumSnowflakes    = 100000

	// Seed drives every random preset so reloading a variant is reproducible.
	Seed = 15418
)

type entry struct {
	build func() *Scene
	desc  string
}

var registry = map[Name]entry{
	RGB:           {buildRGB, "three overlapping primaries"},
	RGBY:          {buildRGBY, "four overlapping circles incl. yellow"},
	Rand10K:       {func() *Scene { return buildRandom(Rand10K, 10000, 0.02, 0.06) }, "10k random circles, depth sorted"},
	Rand100K:      {func() *Scene { return buildRandom(Rand100K, 100000, 0.0025, 0.0125) }, "100k random circles, depth sorted"},
	BigLittle:     {func() *Scene { return buildSized(BigLittle, true) }, "big circles under many small ones"},
	LittleBig:     {func() *Scene { return buildSized(LittleBig, false) }, "small circles under a few big ones"},
	Pattern:       {buildPattern, "grid of rings with radial hue"},
	BouncingBalls: {buildBouncingBalls, "balls falling and bouncing on the floor"},
	Hypnosis:      {buildHypnosis, "concentric pulsing rings"},
	Fireworks:     {buildFireworks, "static bursts with drifting sparks"},
	Snow:          {func() *Scene { return buildSnow(Snow) }, "falling snowflakes with parallax"},
	SnowSingle:    {func() *Scene { return buildSnow(SnowSingle) }, "one frame of the snow scene"},
}

// Load builds the named variant. The name goes through ParseName, so
// aliases and any letter case are accepted. Every call returns fresh arrays.
func Load(name Name) (*Scene, error) {
	canon, err := ParseName(string(name))
	if err != nil {
		return nil, err
	}
	return registry[canon].build(), nil
}

func rgba(c colorful.Color, a float32) Color {
	cc := c.Clamped()
	return Color{float32(cc.R), float32(cc.G), float32(cc.B), a}
}

func buildRGB() *Scene {
	s := New(RGB, 3)
	s.Position[0] = Vec3{0.4, 0.5, 0.75}
	s.Position[1] = Vec3{0.5, 0.5, 0.5}
	s.Position[2] = Vec3{0.6, 0.5, 0.25}
	s.Color[0] = Color{1, 0, 0, FlatAlpha}
	s.Color[1] = Color{0, 1, 0, FlatAlpha}
	s.Color[2] = Color{0, 0, 1, FlatAlpha}
	for i := range s.Radius {
		s.Radius[i] = 0.3
	}
	return s
}

func buildRGBY() *Scene {
	s := New(RGBY, 4)
	s.Position[0] = Vec3{0.35, 0.65, 0.75}
	s.Position[1] = Vec3{0.65, 0.65, 0.5}
	s.Position[2] = Vec3{0.35, 0.35, 0.25}
	s.Position[3] = Vec3{0.65, 0.35, 0}
	s.Color[0] = Color{1, 0, 0, FlatAlpha}
	s.Color[1] = Color{0, 1, 0, FlatAlpha}
	s.Color[2] = Color{0, 0, 1, FlatAlpha}
	s.Color[3] = Color{1, 1, 0, FlatAlpha}
	for i := range s.Radius {
		s.Radius[i] = 0.25
	}
	return s
}

func randomColor(rng *rand.Rand) colorful.Color {
	return colorful.Hsv(rng.Float64()*360, 0.5+0.5*rng.Float64(), 0.6+0.4*rng.Float64())
}

func buildRandom(name Name, n int, minRadius, spread float32) *Scene {
	rng := rand.New(rand.NewSource(Seed))
	s := New(name, n)
	for i := 0; i < n; i++ {
		s.Position[i] = Vec3{rng.Float32(), rng.Float32(), rng.Float32()}
		s.Color[i] = rgba(randomColor(rng), FlatAlpha)
		s.Radius[i] = minRadius + spread*rng.Float32()
	}
	sortByDepth(s)
	return s
}

// buildSized mixes a few large circles into many small ones and orders them
// by radius: descending when bigFirst, ascending otherwise.
func buildSized(name Name, bigFirst bool) *Scene {
	const n = 10000
	rng := rand.New(rand.NewSource(Seed + 1))
	s := New(name, n)
	for i := 0; i < n; i++ {
		s.Position[i] = Vec3{rng.Float32(), rng.Float32(), 0}
		s.Color[i] = rgba(randomColor(rng), FlatAlpha)
		if i%100 == 0 {
			s.Radius[i] = 0.15 + 0.15*rng.Float32()
		} else {
			s.Radius[i] = 0.01 + 0.02*rng.Float32()
		}
	}
	sort.Stable(byRadius{s, bigFirst})
	return s
}

func buildPattern() *Scene {
	const g = PatternGrid
	s := New(Pattern, g*g)
	cell := float32(1.0 / g)
	for j := 0; j < g; j++ {
		for i := 0; i < g; i++ {
			idx := j*g + i
			x := (float32(i) + 0.5) * cell
			y := (float32(j) + 0.5) * cell
			d := math.Hypot(float64(x-0.5), float64(y-0.5))
			s.Position[idx] = Vec3{x, y, 0}
			s.Radius[idx] = 0.5 * cell * float32(0.75+0.5*math.Cos(d*4*math.Pi))
			hue := math.Mod(d*540, 360)
			s.Color[idx] = rgba(colorful.Hsv(hue, 0.8, 0.9), FlatAlpha)
		}
	}
	return s
}

func buildBouncingBalls() *Scene {
	rng := rand.New(rand.NewSource(Seed + 2))
	s := New(BouncingBalls, NumBouncingBalls)
	for i := range s.Radius {
		s.Position[i] = Vec3{0.05 + 0.9*rng.Float32(), 0.4 + 0.6*rng.Float32(), 0}
		s.Color[i] = rgba(randomColor(rng), FlatAlpha)
		s.Radius[i] = 0.01 + 0.03*rng.Float32()
	}
	return s
}

// buildHypnosis stacks concentric rings, largest first.
func buildHypnosis() *Scene {
	s := New(Hypnosis, HypnosisRings)
	step := float32(0.48 / HypnosisRings)
	for i := range s.Radius {
		s.Position[i] = Vec3{0.5, 0.5, 0}
		s.Radius[i] = 0.02 + float32(HypnosisRings-1-i)*step
		hue := float64(i) * 360 / HypnosisRings
		s.Color[i] = rgba(colorful.Hsv(hue, 0.9, 0.95), FlatAlpha)
	}
	return s
}

// SparkIndex returns the circle index of spark s of firework f.
func SparkIndex(f, s int) int {
	return NumFireworks + f*NumSparks + s
}

// SparkDirection is the unit launch direction of spark s.
func SparkDirection(s int) (float32, float32) {
	angle := float64(s) * 2 * math.Pi / NumSparks
	sin, cos := math.Sincos(angle)
	return float32(cos), float32(sin)
}

// buildFireworks lays out the firework centres first, then every spark
// grouped by firework, so sparks draw above all centres.
func buildFireworks() *Scene {
	rng := rand.New(rand.NewSource(Seed + 3))
	s := New(Fireworks, NumFireworks+NumFireworks*NumSparks)
	for f := 0; f < NumFireworks; f++ {
		s.Position[f] = Vec3{0.2 + 0.6*rng.Float32(), 0.2 + 0.6*rng.Float32(), 0}
		s.Radius[f] = 0.05 + 0.05*rng.Float32()
		base := colorful.Hsv(rng.Float64()*360, 0.85, 0.95)
		s.Color[f] = rgba(base, FlatAlpha)
		spark := base.BlendHcl(colorful.Color{R: 1, G: 1, B: 1}, 0.4)
		for k := 0; k < NumSparks; k++ {
			idx := SparkIndex(f, k)
			dx, dy := SparkDirection(k)
			s.Position[idx] = Vec3{s.Position[f][0] + dx*s.Radius[f], s.Position[f][1] + dy*s.Radius[f], 0}
			s.Velocity[idx] = Vec3{dx * SparkSpeed, dy * SparkSpeed, 0}
			s.Radius[idx] = SparkRadius
			s.Color[idx] = rgba(spark, FlatAlpha)
		}
	}
	return s
}

// buildSnow scatters flakes through a volume taller than the screen; nearer
// flakes (small z) are larger. Shading ignores the stored alpha.
func buildSnow(name Name) *Scene {
	rng := rand.New(rand.NewSource(Seed + 4))
	s := New(name, NumSnowflakes)
	for i := range s.Radius {
		z := rng.Float32()
		s.Position[i] = Vec3{rng.Float32(), 1.3 * rng.Float32(), z}
		s.Radius[i] = 0.0035 + 0.0165*(1-z)
		s.Color[i] = Color{1, 1, 1, 1}
	}
	sortByDepth(s)
	return s
}

// sortByDepth orders circles far to near (descending z).
func sortByDepth(s *Scene) {
	sort.Stable(byDepth{s})
}

type byDepth struct{ *Scene }

func (b byDepth) Len() int           { return b.Scene.Len() }
func (b byDepth) Less(i, j int) bool { return b.Position[i][2] > b.Position[j][2] }

type byRadius struct {
	*Scene
	descending bool
}

func (b byRadius) Len() int { return b.Scene.Len() }
func (b byRadius) Less(i, j int) bool {
	if b.descending {
		return b.Radius[i] > b.Radius[j]
	}
	return b.Radius[i] < b.Radius[j]
}
