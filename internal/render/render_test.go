package render

import (
	"fmt"
	"testing"

	"github.com/san-kum/circlerender/internal/compute"
	"github.com/san-kum/circlerender/internal/frame"
	"github.com/san-kum/circlerender/internal/scene"
)

func flatScene(t testing.TB, pos []scene.Vec3, col []scene.Color, rad []float32) *scene.Scene {
	t.Helper()
	sc, err := scene.FromArrays(scene.RGB, pos, make([]scene.Vec3, len(pos)), col, rad)
	if err != nil {
		t.Fatalf("from arrays: %v", err)
	}
	return sc
}

func whiteImage(t testing.TB, w, h int) *frame.Image {
	t.Helper()
	img, err := frame.New(w, h)
	if err != nil {
		t.Fatalf("new image: %v", err)
	}
	img.Clear(scene.BackgroundWhite)
	return img
}

func compositors(t testing.TB) []Compositor {
	t.Helper()
	out := []Compositor{NewReference()}
	for _, kind := range compute.Kinds() {
		b, err := compute.New(kind, 4)
		if err != nil {
			t.Fatalf("backend %s: %v", kind, err)
		}
		for _, size := range []int{8, 32} {
			out = append(out, NewTiled(b, size))
		}
	}
	return out
}

func TestSingleOpaqueCircle(t *testing.T) {
	for _, c := range compositors(t) {
		sc := flatScene(t,
			[]scene.Vec3{{0.5, 0.5, 0}},
			[]scene.Color{{1, 0, 0, 1}},
			[]float32{0.25})
		img := whiteImage(t, 64, 64)
		st := c.Composite(sc, img)

		if got := *img.At(32, 32); got != (frame.Pixel{1, 0, 0, 1}) {
			t.Errorf("%s: centre pixel = %v", c.Name(), got)
		}
		if got := *img.At(1, 1); got != frame.White {
			t.Errorf("%s: corner pixel = %v", c.Name(), got)
		}
		if st.Visible != 1 || st.Blends == 0 {
			t.Errorf("%s: stats = %+v", c.Name(), st)
		}
	}
}

func TestLaterCircleWins(t *testing.T) {
	for _, c := range compositors(t) {
		sc := flatScene(t,
			[]scene.Vec3{{0.5, 0.5, 0}, {0.5, 0.5, 0}},
			[]scene.Color{{1, 0, 0, 1}, {0, 0, 1, 1}},
			[]float32{0.3, 0.2})
		img := whiteImage(t, 32, 32)
		c.Composite(sc, img)

		if got := *img.At(16, 16); got != (frame.Pixel{0, 0, 1, 1}) {
			t.Errorf("%s: overlap pixel = %v", c.Name(), got)
		}
		// inside the red circle only
		if got := *img.At(16, 7); got != (frame.Pixel{1, 0, 0, 1}) {
			t.Errorf("%s: ring pixel = %v", c.Name(), got)
		}
	}
}

func TestHalfAlphaBlendOrder(t *testing.T) {
	for _, c := range compositors(t) {
		sc := flatScene(t,
			[]scene.Vec3{{0.5, 0.5, 0}, {0.5, 0.5, 0}},
			[]scene.Color{{1, 0, 0, 0.5}, {0, 0, 1, 0.5}},
			[]float32{0.3, 0.3})
		img := whiteImage(t, 16, 16)
		c.Composite(sc, img)

		// blue*0.5 + (red*0.5 + white*0.5)*0.5
		want := frame.Pixel{0.5, 0.25, 0.75, 1}
		if got := *img.At(8, 8); got != want {
			t.Errorf("%s: got %v, want %v", c.Name(), got, want)
		}
	}
}

func TestPixelCentreInclusion(t *testing.T) {
	for _, c := range compositors(t) {
		// centre of pixel (1, 2) in a 4×4 image
		sc := flatScene(t,
			[]scene.Vec3{{0.375, 0.625, 0}},
			[]scene.Color{{0, 0, 0, 1}},
			[]float32{0.01})
		img := whiteImage(t, 4, 4)
		st := c.Composite(sc, img)

		if st.Blends != 1 {
			t.Fatalf("%s: blends = %d, want 1", c.Name(), st.Blends)
		}
		if got := *img.At(1, 2); got != (frame.Pixel{0, 0, 0, 1}) {
			t.Errorf("%s: pixel = %v", c.Name(), got)
		}
	}
}

func TestSkippedCircles(t *testing.T) {
	for _, c := range compositors(t) {
		sc := flatScene(t,
			[]scene.Vec3{{2, 2, 0}, {0.5, 0.5, 0}, {-0.5, 0.5, 0}},
			[]scene.Color{{0, 0, 0, 1}, {0, 0, 0, 1}, {0, 0, 0, 1}},
			[]float32{0.1, 0, 0.2})
		img := whiteImage(t, 16, 16)
		before := img.Clone().View()
		st := c.Composite(sc, img)

		if st.Visible != 0 || st.Blends != 0 {
			t.Errorf("%s: stats = %+v", c.Name(), st)
		}
		if !img.View().Equal(before) {
			t.Errorf("%s: image changed", c.Name())
		}
	}
}

func TestEmptyScene(t *testing.T) {
	for _, c := range compositors(t) {
		sc := scene.New(scene.RGB, 0)
		img := whiteImage(t, 8, 8)
		before := img.Clone().View()
		st := c.Composite(sc, img)
		if st.Circles != 0 || st.Blends != 0 {
			t.Errorf("%s: stats = %+v", c.Name(), st)
		}
		if !img.View().Equal(before) {
			t.Errorf("%s: image changed", c.Name())
		}
	}
}

func TestTiledMatchesReference(t *testing.T) {
	cases := []struct {
		name scene.Name
		w, h int
	}{
		{scene.RGB, 97, 61},
		{scene.Rand10K, 256, 256},
		{scene.BigLittle, 128, 200},
		{scene.Pattern, 150, 150},
		{scene.Fireworks, 120, 90},
		{scene.SnowSingle, 128, 96},
	}
	backends := []compute.Backend{
		compute.NewCPUBackend(4),
		compute.NewSerialBackend(),
		compute.NewShuffledBackend(3),
	}

	for _, tc := range cases {
		sc, err := scene.Load(tc.name)
		if err != nil {
			t.Fatalf("load %s: %v", tc.name, err)
		}
		want, err := frame.New(tc.w, tc.h)
		if err != nil {
			t.Fatal(err)
		}
		want.Clear(tc.name.Background())
		ref := NewReference().Composite(sc, want)

		for _, b := range backends {
			for _, size := range []int{7, 16, 32, 64} {
				t.Run(fmt.Sprintf("%s/%s/%d", tc.name, b.Name(), size), func(t *testing.T) {
					got, _ := frame.New(tc.w, tc.h)
					got.Clear(tc.name.Background())
					st := NewTiled(b, size).Composite(sc, got)

					if !got.View().Equal(want.View()) {
						n, d := got.View().Diff(want.View())
						t.Fatalf("%d pixels differ, max delta %g", n, d)
					}
					if st.Blends != ref.Blends || st.Visible != ref.Visible {
						t.Errorf("stats %+v, reference %+v", st, ref)
					}
				})
			}
		}
	}
}

func TestTileListsAscending(t *testing.T) {
	sc, err := scene.Load(scene.Rand10K)
	if err != nil {
		t.Fatal(err)
	}
	img := whiteImage(t, 200, 200)
	tl := NewTiled(compute.NewShuffledBackend(11), 16)
	st := tl.Composite(sc, img)

	tiles := st.Tiles
	if int(tl.offsets[tiles]) != st.Pairs {
		t.Fatalf("offset total %d, pairs %d", tl.offsets[tiles], st.Pairs)
	}
	for tile := 0; tile < tiles; tile++ {
		list := tl.list[tl.offsets[tile]:tl.offsets[tile+1]]
		for k := 1; k < len(list); k++ {
			if list[k] <= list[k-1] {
				t.Fatalf("tile %d: list not ascending at %d: %d after %d", tile, k, list[k], list[k-1])
			}
		}
	}
}

func TestTiledReusesScratch(t *testing.T) {
	sc, err := scene.Load(scene.RGBY)
	if err != nil {
		t.Fatal(err)
	}
	tl := NewTiled(compute.NewCPUBackend(2), 0)
	if tl.TileSize() != DefaultTileSize {
		t.Fatalf("tile size = %d", tl.TileSize())
	}

	a := whiteImage(t, 64, 64)
	tl.Composite(sc, a)
	b := whiteImage(t, 64, 64)
	tl.Composite(sc, b)
	if !a.View().Equal(b.View()) {
		t.Error("second frame differs from first")
	}
}

func TestBoundingBox(t *testing.T) {
	tests := []struct {
		name    string
		x, y, r float32
		ok      bool
		box     Box
	}{
		{"centre", 0.5, 0.5, 0.25, true, Box{2, 2, 8, 8}},
		{"clamped", 0, 0, 0.5, true, Box{0, 0, 6, 6}},
		{"offscreen", 1.5, 0.5, 0.2, false, Box{}},
		{"zero radius", 0.5, 0.5, 0, false, Box{}},
		{"negative radius", 0.5, 0.5, -1, false, Box{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			box, ok := BoundingBox(tt.x, tt.y, tt.r, 10, 10)
			if ok != tt.ok {
				t.Fatalf("ok = %v", ok)
			}
			if ok && box != tt.box {
				t.Errorf("box = %+v, want %+v", box, tt.box)
			}
		})
	}
}

func TestShadePixelSnowFalloff(t *testing.T) {
	sc := scene.New(scene.SnowSingle, 1)
	sc.Radius[0] = 0.1

	centre := frame.Pixel{0, 0, 0, 0}
	if !ShadePixel(sc, 0.5, 0.5, 0.5, 0.5, 0, &centre, 0) {
		t.Fatal("centre not shaded")
	}
	edge := frame.Pixel{0, 0, 0, 0}
	if !ShadePixel(sc, 0.59, 0.5, 0.5, 0.5, 0, &edge, 0) {
		t.Fatal("edge not shaded")
	}
	if !(centre[3] > edge[3]) {
		t.Errorf("alpha should fall off: centre %g edge %g", centre[3], edge[3])
	}
	if centre[3] > 0.5 {
		t.Errorf("alpha %g above cap", centre[3])
	}

	far := frame.Pixel{}
	if ShadePixel(sc, 0.7, 0.5, 0.5, 0.5, 0, &far, 0) {
		t.Error("outside pixel shaded")
	}
}

func TestNewCompositor(t *testing.T) {
	b := compute.NewSerialBackend()
	for _, kind := range []string{KindTiled, KindReference, ""} {
		c, err := NewCompositor(kind, b, 16)
		if err != nil {
			t.Fatalf("%q: %v", kind, err)
		}
		if kind != "" && c.Name() != kind {
			t.Errorf("name = %s, want %s", c.Name(), kind)
		}
	}
	if _, err := NewCompositor("gpu", b, 0); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func benchmarkCompositor(b *testing.B, c Compositor, name scene.Name, size int) {
	sc, err := scene.Load(name)
	if err != nil {
		b.Fatal(err)
	}
	img := whiteImage(b, size, size)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		img.Clear(name.Background())
		c.Composite(sc, img)
	}
}

func BenchmarkTiledRand10K(b *testing.B) {
	benchmarkCompositor(b, NewTiled(compute.NewCPUBackend(0), DefaultTileSize), scene.Rand10K, 768)
}

func BenchmarkReferenceRand10K(b *testing.B) {
	benchmarkCompositor(b, NewReference(), scene.Rand10K, 768)
}

func BenchmarkTiledSnow(b *testing.B) {
	benchmarkCompositor(b, NewTiled(compute.NewCPUBackend(0), DefaultTileSize), scene.Snow, 768)
}
