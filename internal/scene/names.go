package scene

import (
	"fmt"
	"sort"
	"strings"
)

// Name identifies a scene variant.
type Name string

const (
	RGB           Name = "rgb"
	RGBY          Name = "rgby"
	Rand10K       Name = "rand10k"
	Rand100K      Name = "rand100k"
	BigLittle     Name = "biglittle"
	LittleBig     Name = "littlebig"
	Pattern       Name = "pattern"
	BouncingBalls Name = "bouncingballs"
	Hypnosis      Name = "hypnosis"
	Fireworks     Name = "fireworks"
	Snow          Name = "snow"
	SnowSingle    Name = "snowsingle"
)

var aliases = map[string]Name{
	"simple": RGB,
}

// ParseName resolves a user-supplied variant name. Matching ignores case.
func ParseName(s string) (Name, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if n, ok := aliases[key]; ok {
		return n, nil
	}
	n := Name(key)
	if _, ok := registry[n]; !ok {
		return "", fmt.Errorf("%w: %q (available: %s)", ErrInvalidScene, s, strings.Join(nameStrings(), ", "))
	}
	return n, nil
}

// Names returns every registered variant in lexical order.
func Names() []Name {
	names := make([]Name, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

func nameStrings() []string {
	names := Names()
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = string(n)
	}
	return out
}

func (n Name) Valid() bool {
	_, ok := registry[n]
	return ok
}

func (n Name) Describe() string {
	if e, ok := registry[n]; ok {
		return e.desc
	}
	return ""
}

// Shading selects how a circle's coverage is computed.
type Shading int

const (
	// ShadeFlat blends with the circle's own alpha inside the radius.
	ShadeFlat Shading = iota
	// ShadeSnow fades alpha with distance from the centre and depth.
	ShadeSnow
)

func (n Name) Shading() Shading {
	if n == Snow || n == SnowSingle {
		return ShadeSnow
	}
	return ShadeFlat
}

// Background selects the clear colour of the image.
type Background int

const (
	BackgroundWhite Background = iota
	// BackgroundGradient is a vertical grey ramp, brighter towards row 0.
	BackgroundGradient
)

func (n Name) Background() Background {
	if n == Snow || n == SnowSingle {
		return BackgroundGradient
	}
	return BackgroundWhite
}
