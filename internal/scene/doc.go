// Package scene holds the circle arrays a frame is rendered from.
//
// A [Scene] stores circles column-wise in four parallel arrays that share a
// circle index:
//
//   - Position: (x, y, z) in normalized scene coordinates, z is depth
//   - Velocity: per-variant motion state
//   - Color: (r, g, b, a)
//   - Radius: scene units
//
// The circle index is the draw order. Circle i is composited before circle
// i+1 on every pixel they share, so loaders decide the final stacking and
// nothing downstream is allowed to reorder the arrays.
//
// # Variants
//
// Scenes are built by name:
//
//	sc, err := scene.Load(scene.Fireworks)
//	if errors.Is(err, scene.ErrInvalidScene) {
//	    ...
//	}
//
// External loaders that already own the arrays use [FromArrays].
package scene
