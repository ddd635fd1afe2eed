package experiment

import (
	"context"
	"fmt"
)

// FrameDiff reports how frame Frame of two runs differs.
type FrameDiff struct {
	Frame    int
	Pixels   int
	MaxDelta float32
	Equal    bool
}

// Compare steps two configurations in lockstep and diffs every frame. The
// configurations should differ only in how they render, not in what.
func Compare(ctx context.Context, a, b Config) ([]FrameDiff, error) {
	if a.Scene != b.Scene || a.Width != b.Width || a.Height != b.Height || a.Frames != b.Frames {
		return nil, fmt.Errorf("compare: runs disagree on scene, size or frame count")
	}
	ea, eb := New(a), New(b)
	if err := ea.Setup(nil); err != nil {
		return nil, err
	}
	defer ea.Close()
	if err := eb.Setup(nil); err != nil {
		return nil, err
	}
	defer eb.Close()

	diffs := make([]FrameDiff, 0, a.Frames)
	for i := 0; i < a.Frames; i++ {
		if err := ctx.Err(); err != nil {
			return diffs, err
		}
		sa, err := ea.Step()
		if err != nil {
			return diffs, err
		}
		sb, err := eb.Step()
		if err != nil {
			return diffs, err
		}
		d := FrameDiff{Frame: sa.Frame, Equal: sa.Image.Equal(sb.Image)}
		if !d.Equal {
			d.Pixels, d.MaxDelta = sa.Image.Diff(sb.Image)
		}
		diffs = append(diffs, d)
	}
	return diffs, nil
}
