// Package anim advances scene circles by one time step.
//
// Every [Rule] updates a single circle from its own state and global
// constants, so the [Animator] runs one task per circle with no ordering
// between them.
package anim

import (
	"github.com/san-kum/circlerender/internal/compute"
	"github.com/san-kum/circlerender/internal/scene"
)

// minChunk keeps tiny scenes on one goroutine.
const minChunk = 1024

type Animator struct {
	backend compute.Backend
}

func New(backend compute.Backend) *Animator {
	return &Animator{backend: backend}
}

// Advance steps every circle of sc once and returns when all are done.
func (a *Animator) Advance(sc *scene.Scene) {
	rule := RuleFor(sc.Name)
	if _, ok := rule.(Static); ok {
		return
	}
	a.backend.ParallelFor(sc.Len(), minChunk, func(start, end int) {
		for i := start; i < end; i++ {
			rule.Step(sc, i)
		}
	})
}
