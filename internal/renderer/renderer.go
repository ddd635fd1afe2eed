// Package renderer is the façade over scene loading, animation and
// compositing.
//
// Calls follow the order
//
//	Setup → LoadScene → AllocOutputImage → [ClearImage → AdvanceAnimation → Render → GetImage]*
//
// Every method takes the same mutex, so Render never observes a scene that
// AdvanceAnimation is halfway through.
package renderer

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/san-kum/circlerender/internal/anim"
	"github.com/san-kum/circlerender/internal/compute"
	"github.com/san-kum/circlerender/internal/frame"
	"github.com/san-kum/circlerender/internal/render"
	"github.com/san-kum/circlerender/internal/scene"
)

type Renderer interface {
	Setup() error
	LoadScene(name scene.Name) error
	LoadSceneData(sc *scene.Scene) error
	AllocOutputImage(width, height int) error
	ClearImage() error
	AdvanceAnimation() error
	Render() error
	GetImage() (*frame.View, error)
}

// clearRowsPerTask is the fewest rows one ClearImage task resets.
const clearRowsPerTask = 16

// CircleRenderer implements Renderer on a compute backend.
type CircleRenderer struct {
	mu   sync.Mutex
	opts options
	log  *slog.Logger

	backend    compute.Backend
	compositor render.Compositor
	animator   *anim.Animator

	sc    *scene.Scene
	img   *frame.Image
	stats render.Stats
	frame int
}

var _ Renderer = (*CircleRenderer)(nil)

func New(opts ...Option) *CircleRenderer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	l := o.logger
	if l == nil {
		l = Logger()
	}
	return &CircleRenderer{opts: o, log: l}
}

// Setup creates the backend, compositor and animator. Calling it again
// releases the previous backend first.
func (r *CircleRenderer) Setup() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	backend, err := compute.New(r.opts.backend, r.opts.workers)
	if err != nil {
		return opErr("setup", err)
	}
	comp, err := render.NewCompositor(r.opts.compositor, backend, r.opts.tileSize)
	if err != nil {
		backend.Cleanup()
		return opErr("setup", err)
	}
	propagateLogger(backend, r.log)
	propagateLogger(comp, r.log)

	if r.backend != nil {
		r.backend.Cleanup()
	}
	r.backend = backend
	r.compositor = comp
	r.animator = anim.New(backend)

	r.log.Info("renderer setup",
		"backend", backend.Name(), "workers", backend.Workers(),
		"compositor", comp.Name())
	return nil
}

// LoadScene replaces the current scene with a freshly built variant and
// re-clears an allocated image with that variant's background.
func (r *CircleRenderer) LoadScene(name scene.Name) error {
	sc, err := scene.Load(name)
	if err != nil {
		return opErr("load scene", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.install(sc)
	return nil
}

// LoadSceneData adopts caller-built arrays. The renderer owns sc afterwards.
func (r *CircleRenderer) LoadSceneData(sc *scene.Scene) error {
	if sc == nil {
		return opErr("load scene", fmt.Errorf("%w: nil scene", ErrInvalidScene))
	}
	if !sc.Name.Valid() {
		return opErr("load scene", fmt.Errorf("%w: %q", ErrInvalidScene, sc.Name))
	}
	if err := sc.Validate(); err != nil {
		return opErr("load scene", fmt.Errorf("%w: %w", ErrInvalidScene, err))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.install(sc)
	return nil
}

func (r *CircleRenderer) install(sc *scene.Scene) {
	r.sc = sc
	r.frame = 0
	r.stats = render.Stats{}
	if r.img != nil {
		r.img.Clear(sc.Name.Background())
	}
	r.log.Info("scene loaded", "scene", sc.Name, "circles", sc.Len())
}

func (r *CircleRenderer) AllocOutputImage(width, height int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.img == nil {
		img, err := frame.New(width, height)
		if err != nil {
			return opErr("alloc image", err)
		}
		r.img = img
	} else if err := r.img.Realloc(width, height); err != nil {
		return opErr("alloc image", err)
	}
	r.img.Clear(r.background())
	r.log.Debug("image allocated", "width", width, "height", height,
		"bytes", width*height*16)
	return nil
}

func (r *CircleRenderer) background() scene.Background {
	if r.sc == nil {
		return scene.BackgroundWhite
	}
	return r.sc.Name.Background()
}

// ClearImage resets every pixel to the scene's background.
func (r *CircleRenderer) ClearImage() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.img == nil {
		return opErr("clear image", fmt.Errorf("%w: no output image", ErrUninitialized))
	}
	bg := r.background()
	if r.backend == nil {
		r.img.Clear(bg)
		return nil
	}
	r.backend.ParallelFor(r.img.Height(), clearRowsPerTask, func(start, end int) {
		r.img.ClearRows(bg, start, end)
	})
	return nil
}

// AdvanceAnimation moves every circle one time step.
func (r *CircleRenderer) AdvanceAnimation() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.requireScene(); err != nil {
		return opErr("advance animation", err)
	}
	r.animator.Advance(r.sc)
	r.frame++
	return nil
}

// Render composites the current circles into the output image.
func (r *CircleRenderer) Render() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.requireScene(); err != nil {
		return opErr("render", err)
	}
	if r.img == nil {
		return opErr("render", fmt.Errorf("%w: no output image", ErrUninitialized))
	}
	r.stats = r.compositor.Composite(r.sc, r.img)
	return nil
}

func (r *CircleRenderer) requireScene() error {
	if r.backend == nil {
		return fmt.Errorf("%w: setup not called", ErrUninitialized)
	}
	if r.sc == nil {
		return fmt.Errorf("%w: no scene loaded", ErrUninitialized)
	}
	return nil
}

// GetImage returns a read-only view of the output image. The view aliases
// the buffer and is valid until the next mutating call.
func (r *CircleRenderer) GetImage() (*frame.View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.img == nil {
		return nil, opErr("get image", fmt.Errorf("%w: no output image", ErrUninitialized))
	}
	return r.img.View(), nil
}

// Stats returns the stats of the last Render.
func (r *CircleRenderer) Stats() render.Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

// Frame returns the number of animation steps since the scene was loaded.
func (r *CircleRenderer) Frame() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frame
}

// Workers reports the backend's worker count, or 0 before Setup.
func (r *CircleRenderer) Workers() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.backend == nil {
		return 0
	}
	return r.backend.Workers()
}

// Scene returns the loaded scene, or nil. Callers must not mutate it.
func (r *CircleRenderer) Scene() *scene.Scene {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sc
}

// Close releases the backend.
func (r *CircleRenderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.backend != nil {
		r.backend.Cleanup()
		r.backend = nil
	}
}
