// Package viz previews rendered frames in the terminal.
//
// The live view is a Bubble Tea program:
//
//   - [Model]: drives a renderer one frame per tick and shows frame stats
//   - [HalfBlocks]: colour preview, two image rows per terminal row
//   - [Canvas]: braille mono preview, thresholded on CIE lightness
//
// # Key Bindings
//
//	Space - Pause/Resume
//	S     - Single step
//	N / P - Next/previous scene
//	R     - Reload the current scene
//	M     - Toggle colour/mono preview
//	T     - Cycle themes
//	?     - Show help
package viz
