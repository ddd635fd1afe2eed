package renderer_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/circlerender/internal/compute"
	"github.com/san-kum/circlerender/internal/frame"
	"github.com/san-kum/circlerender/internal/render"
	"github.com/san-kum/circlerender/internal/renderer"
	"github.com/san-kum/circlerender/internal/scene"
)

func expectOp(err error, op string, target error) {
	GinkgoHelper()
	Expect(err).To(MatchError(target))
	var opErr *renderer.OpError
	Expect(errors.As(err, &opErr)).To(BeTrue())
	Expect(opErr.Op).To(Equal(op))
}

func drive(r *renderer.CircleRenderer, frames int) *frame.View {
	GinkgoHelper()
	for i := 0; i < frames; i++ {
		Expect(r.ClearImage()).To(Succeed())
		Expect(r.AdvanceAnimation()).To(Succeed())
		Expect(r.Render()).To(Succeed())
	}
	v, err := r.GetImage()
	Expect(err).NotTo(HaveOccurred())
	return v.Clone()
}

var _ = Describe("CircleRenderer", func() {
	var r *renderer.CircleRenderer

	BeforeEach(func() {
		r = renderer.New(renderer.WithBackend(compute.KindCPU, 4))
		DeferCleanup(r.Close)
	})

	Context("before its prerequisites", func() {
		It("refuses to render without setup", func() {
			Expect(r.LoadScene(scene.RGB)).To(Succeed())
			Expect(r.AllocOutputImage(16, 16)).To(Succeed())
			expectOp(r.Render(), "render", renderer.ErrUninitialized)
			expectOp(r.AdvanceAnimation(), "advance animation", renderer.ErrUninitialized)
		})

		It("refuses to render without a scene", func() {
			Expect(r.Setup()).To(Succeed())
			Expect(r.AllocOutputImage(16, 16)).To(Succeed())
			expectOp(r.Render(), "render", renderer.ErrUninitialized)
		})

		It("refuses to render or read without an image", func() {
			Expect(r.Setup()).To(Succeed())
			Expect(r.LoadScene(scene.RGB)).To(Succeed())
			expectOp(r.Render(), "render", renderer.ErrUninitialized)
			expectOp(r.ClearImage(), "clear image", renderer.ErrUninitialized)
			_, err := r.GetImage()
			expectOp(err, "get image", renderer.ErrUninitialized)
		})
	})

	Context("loading scenes", func() {
		BeforeEach(func() {
			Expect(r.Setup()).To(Succeed())
		})

		It("rejects unknown names", func() {
			expectOp(r.LoadScene("nosuchscene"), "load scene", renderer.ErrInvalidScene)
		})

		DescribeTable("accepts aliases and any letter case",
			func(name scene.Name, want scene.Name) {
				Expect(r.LoadScene(name)).To(Succeed())
				Expect(r.Scene().Name).To(Equal(want))
			},
			Entry("simple", scene.Name("simple"), scene.RGB),
			Entry("bouncingBalls", scene.Name("bouncingBalls"), scene.BouncingBalls),
			Entry("upper case", scene.Name("SNOW"), scene.Snow),
		)

		It("re-clears an allocated image with the new scene's background", func() {
			Expect(r.LoadScene(scene.RGB)).To(Succeed())
			Expect(r.AllocOutputImage(8, 20)).To(Succeed())
			Expect(r.LoadScene(scene.Snow)).To(Succeed())

			v, err := r.GetImage()
			Expect(err).NotTo(HaveOccurred())
			Expect(v.Pixel(0, 5)).To(Equal(frame.BackgroundPixel(scene.BackgroundGradient, 5, 20)))

			Expect(r.LoadScene(scene.Fireworks)).To(Succeed())
			v, err = r.GetImage()
			Expect(err).NotTo(HaveOccurred())
			Expect(v.Pixel(0, 5)).To(Equal(frame.White))
		})

		It("rejects mismatched arrays", func() {
			sc := scene.New(scene.RGB, 3)
			sc.Color = sc.Color[:2]
			expectOp(r.LoadSceneData(sc), "load scene", renderer.ErrInvalidScene)
		})

		It("resets the frame counter", func() {
			Expect(r.LoadScene(scene.BouncingBalls)).To(Succeed())
			Expect(r.AdvanceAnimation()).To(Succeed())
			Expect(r.AdvanceAnimation()).To(Succeed())
			Expect(r.Frame()).To(Equal(2))

			Expect(r.LoadScene(scene.RGB)).To(Succeed())
			Expect(r.Frame()).To(BeZero())
			Expect(r.Scene().Len()).To(Equal(3))
		})
	})

	Context("allocating the image", func() {
		DescribeTable("rejects non-positive dimensions",
			func(w, h int) {
				expectOp(r.AllocOutputImage(w, h), "alloc image", renderer.ErrInvalidImageDimensions)
			},
			Entry("zero width", 0, 10),
			Entry("zero height", 10, 0),
			Entry("negative", -4, -4),
		)

		It("returns the cleared background before any render", func() {
			Expect(r.Setup()).To(Succeed())
			Expect(r.LoadScene(scene.Snow)).To(Succeed())
			Expect(r.AllocOutputImage(8, 20)).To(Succeed())

			v, err := r.GetImage()
			Expect(err).NotTo(HaveOccurred())
			Expect(v.Width()).To(Equal(8))
			Expect(v.Height()).To(Equal(20))
			Expect(v.Pixel(3, 5)).To(Equal(frame.BackgroundPixel(scene.BackgroundGradient, 5, 20)))
		})

		It("resizes on a second call", func() {
			Expect(r.AllocOutputImage(32, 32)).To(Succeed())
			Expect(r.AllocOutputImage(10, 4)).To(Succeed())
			v, err := r.GetImage()
			Expect(err).NotTo(HaveOccurred())
			Expect(v.Bounds().Dx()).To(Equal(10))
			Expect(v.Bounds().Dy()).To(Equal(4))
		})
	})

	Context("rendering", func() {
		BeforeEach(func() {
			Expect(r.Setup()).To(Succeed())
		})

		It("clears idempotently", func() {
			Expect(r.LoadScene(scene.RGB)).To(Succeed())
			Expect(r.AllocOutputImage(40, 30)).To(Succeed())
			Expect(r.Render()).To(Succeed())
			Expect(r.ClearImage()).To(Succeed())
			v, _ := r.GetImage()
			first := v.Clone()
			Expect(r.ClearImage()).To(Succeed())
			v, _ = r.GetImage()
			Expect(v.Equal(first)).To(BeTrue())
			Expect(v.Pixel(20, 15)).To(Equal(frame.White))
		})

		It("leaves the background untouched for an empty scene", func() {
			Expect(r.LoadSceneData(scene.New(scene.RGB, 0))).To(Succeed())
			Expect(r.AllocOutputImage(16, 16)).To(Succeed())
			v := drive(r, 1)
			for y := 0; y < 16; y++ {
				for x := 0; x < 16; x++ {
					Expect(v.Pixel(x, y)).To(Equal(frame.White))
				}
			}
			Expect(r.Stats().Blends).To(BeZero())
		})

		It("paints a caller-supplied opaque circle", func() {
			sc, err := scene.FromArrays(scene.RGB,
				[]scene.Vec3{{0.5, 0.5, 0}},
				[]scene.Vec3{{}},
				[]scene.Color{{0, 1, 0, 1}},
				[]float32{0.2})
			Expect(err).NotTo(HaveOccurred())
			Expect(r.LoadSceneData(sc)).To(Succeed())
			Expect(r.AllocOutputImage(20, 20)).To(Succeed())

			v := drive(r, 1)
			Expect(v.Pixel(10, 10)).To(Equal(frame.Pixel{0, 1, 0, 1}))
			Expect(v.Pixel(0, 0)).To(Equal(frame.White))
			Expect(r.Stats().Visible).To(Equal(1))
		})

		DescribeTable("matches the reference compositor frame after frame",
			func(name scene.Name, backend string) {
				tiled := renderer.New(renderer.WithBackend(backend, 3), renderer.WithTileSize(16))
				ref := renderer.New(renderer.WithBackend(compute.KindSerial, 1),
					renderer.WithCompositor(render.KindReference))
				DeferCleanup(tiled.Close)
				DeferCleanup(ref.Close)

				for _, x := range []*renderer.CircleRenderer{tiled, ref} {
					Expect(x.Setup()).To(Succeed())
					Expect(x.LoadScene(name)).To(Succeed())
					Expect(x.AllocOutputImage(96, 80)).To(Succeed())
				}
				for f := 0; f < 3; f++ {
					a, b := drive(tiled, 1), drive(ref, 1)
					Expect(a.Equal(b)).To(BeTrue(), "frame %d differs", f)
					Expect(a.Checksum()).To(Equal(b.Checksum()))
				}
			},
			Entry("rgby on cpu", scene.RGBY, compute.KindCPU),
			Entry("bouncing balls on cpu", scene.BouncingBalls, compute.KindCPU),
			Entry("hypnosis shuffled", scene.Hypnosis, compute.KindShuffled),
			Entry("fireworks on cpu", scene.Fireworks, compute.KindCPU),
			Entry("snowsingle shuffled", scene.SnowSingle, compute.KindShuffled),
		)

		It("serialises concurrent callers", func() {
			Expect(r.LoadScene(scene.BouncingBalls)).To(Succeed())
			Expect(r.AllocOutputImage(64, 64)).To(Succeed())

			var wg sync.WaitGroup
			for g := 0; g < 4; g++ {
				wg.Add(1)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()
					for i := 0; i < 5; i++ {
						Expect(r.AdvanceAnimation()).To(Succeed())
						Expect(r.Render()).To(Succeed())
					}
				}()
			}
			wg.Wait()
			Expect(r.Frame()).To(Equal(20))
		})
	})

	Context("logging", func() {
		It("logs setup and scene loads through WithLogger", func() {
			var buf bytes.Buffer
			l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
			lr := renderer.New(renderer.WithLogger(l))
			DeferCleanup(lr.Close)

			Expect(lr.Setup()).To(Succeed())
			Expect(lr.LoadScene(scene.RGB)).To(Succeed())
			Expect(lr.AllocOutputImage(8, 8)).To(Succeed())
			Expect(lr.Render()).To(Succeed())

			out := buf.String()
			Expect(out).To(ContainSubstring("renderer setup"))
			Expect(out).To(ContainSubstring("scene loaded"))
			Expect(out).To(ContainSubstring("composite"))
		})

		It("is silent by default", func() {
			Expect(renderer.Logger().Enabled(context.Background(), slog.LevelError)).To(BeFalse())
			renderer.SetLogger(nil)
			Expect(renderer.Logger()).NotTo(BeNil())
		})
	})
})
