package metrics

// Blends is the mean number of pixel blends per frame.
type Blends struct {
	name    string
	sum     float64
	samples int
}

func NewBlends() *Blends {
	return &Blends{name: "blends"}
}

func (b *Blends) Name() string { return b.name }

func (b *Blends) Observe(s Sample) {
	b.sum += float64(s.Stats.Blends)
	b.samples++
}

func (b *Blends) Value() float64 {
	if b.samples == 0 {
		return 0
	}
	return b.sum / float64(b.samples)
}

func (b *Blends) Reset() {
	b.sum = 0
	b.samples = 0
}

// Overdraw is the mean number of (tile, circle) pairs per visible circle.
// 1 means no circle straddles a tile edge.
type Overdraw struct {
	name           string
	pairs, circles float64
}

func NewOverdraw() *Overdraw {
	return &Overdraw{name: "pairs_per_circle"}
}

func (o *Overdraw) Name() string { return o.name }

func (o *Overdraw) Observe(s Sample) {
	o.pairs += float64(s.Stats.Pairs)
	o.circles += float64(s.Stats.Visible)
}

func (o *Overdraw) Value() float64 {
	if o.circles == 0 {
		return 0
	}
	return o.pairs / o.circles
}

func (o *Overdraw) Reset() {
	o.pairs = 0
	o.circles = 0
}
