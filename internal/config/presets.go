package config

import "sort"

// Presets are named render setups per scene. Fields left zero fall back to
// DefaultConfig when applied.
var Presets = map[string]map[string]*Config{
	"rgb": {
		"tiny":    {Scene: "rgb", Width: 64, Height: 64, Frames: 1},
		"default": {Scene: "rgb", Width: 768, Height: 768, Frames: 1},
	},
	"rand10k": {
		"bench":  {Scene: "rand10k", Width: 1024, Height: 1024, Frames: 10},
		"fine":   {Scene: "rand10k", Width: 768, Height: 768, Frames: 5, TileSize: 16},
		"coarse": {Scene: "rand10k", Width: 768, Height: 768, Frames: 5, TileSize: 64},
	},
	"rand100k": {
		"bench": {Scene: "rand100k", Width: 1024, Height: 1024, Frames: 10},
	},
	"biglittle": {
		"bench": {Scene: "biglittle", Width: 1024, Height: 1024, Frames: 10},
	},
	"littlebig": {
		"bench": {Scene: "littlebig", Width: 1024, Height: 1024, Frames: 10},
	},
	"pattern": {
		"bench": {Scene: "pattern", Width: 1024, Height: 1024, Frames: 10},
	},
	"bouncingballs": {
		"short": {Scene: "bouncingballs", Width: 512, Height: 512, Frames: 120},
		"long":  {Scene: "bouncingballs", Width: 768, Height: 768, Frames: 600},
	},
	"hypnosis": {
		"loop": {Scene: "hypnosis", Width: 512, Height: 512, Frames: 200},
	},
	"fireworks": {
		"burst": {Scene: "fireworks", Width: 768, Height: 768, Frames: 90},
	},
	"snow": {
		"bench":  {Scene: "snow", Width: 1024, Height: 1024, Frames: 10},
		"flurry": {Scene: "snow", Width: 768, Height: 768, Frames: 300},
	},
	"snowsingle": {
		"check": {Scene: "snowsingle", Width: 256, Height: 256, Frames: 3, Compositor: "reference"},
	},
}

func GetPreset(sceneName, preset string) *Config {
	scenePresets, ok := Presets[sceneName]
	if !ok {
		return nil
	}
	cfg, ok := scenePresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

// ListPresets returns the preset names for a scene, sorted.
func ListPresets(sceneName string) []string {
	scenePresets, ok := Presets[sceneName]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenePresets))
	for name := range scenePresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply returns a copy of base with the preset's non-zero fields laid over it.
func Apply(base *Config, preset *Config) *Config {
	out := *base
	if preset == nil {
		return &out
	}
	if preset.Scene != "" {
		out.Scene = preset.Scene
	}
	if preset.Width > 0 {
		out.Width = preset.Width
	}
	if preset.Height > 0 {
		out.Height = preset.Height
	}
	if preset.Frames > 0 {
		out.Frames = preset.Frames
	}
	if preset.Workers > 0 {
		out.Workers = preset.Workers
	}
	if preset.Backend != "" {
		out.Backend = preset.Backend
	}
	if preset.Compositor != "" {
		out.Compositor = preset.Compositor
	}
	if preset.TileSize > 0 {
		out.TileSize = preset.TileSize
	}
	return &out
}
