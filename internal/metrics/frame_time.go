package metrics

// FrameTime is the mean wall time of clear, advance and render, in ms.
type FrameTime struct {
	name    string
	total   float64
	samples int
}

func NewFrameTime() *FrameTime {
	return &FrameTime{name: "frame_ms"}
}

func (f *FrameTime) Name() string { return f.name }

func (f *FrameTime) Observe(s Sample) {
	f.total += millis(s.Total())
	f.samples++
}

func (f *FrameTime) Value() float64 {
	if f.samples == 0 {
		return 0
	}
	return f.total / float64(f.samples)
}

func (f *FrameTime) Reset() {
	f.total = 0
	f.samples = 0
}

type PeakFrameTime struct {
	name string
	peak float64
}

func NewPeakFrameTime() *PeakFrameTime {
	return &PeakFrameTime{name: "peak_frame_ms"}
}

func (p *PeakFrameTime) Name() string { return p.name }

func (p *PeakFrameTime) Observe(s Sample) {
	p.peak = max(p.peak, millis(s.Total()))
}

func (p *PeakFrameTime) Value() float64 { return p.peak }

func (p *PeakFrameTime) Reset() { p.peak = 0 }
