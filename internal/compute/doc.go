// Package compute provides the data-parallel schedulers used by the renderer.
//
// Three backends are available:
//
//   - cpu: a fixed pool of goroutines, one per CPU by default
//   - serial: runs every task inline, in order
//   - shuffled: serial, but visits tasks in a seeded random order
//
// # Barriers
//
// ParallelFor and Dispatch return only after every task has completed, so
// consecutive calls act as phase barriers:
//
//	backend, _ := compute.New(compute.KindCPU, 0)
//	backend.ParallelFor(n, 256, animate) // all circles moved
//	backend.Dispatch(tiles, shade)       // before any tile is shaded
//
// Backends never coordinate what a task writes. Callers must give each task
// a disjoint slice of the output.
package compute
