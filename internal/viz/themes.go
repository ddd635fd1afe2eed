package viz

import "github.com/charmbracelet/lipgloss"

// Theme colours the chrome around the preview. The preview itself always
// shows the frame's own colours.
type Theme struct {
	Name    string
	Title   lipgloss.Color
	TitleTo lipgloss.Color
	Graph   lipgloss.Color
	Mono    lipgloss.Color
}

var (
	ThemeCyberpunk = Theme{
		Name:    "cyberpunk",
		Title:   lipgloss.Color("#ff00ff"),
		TitleTo: lipgloss.Color("#00ffff"),
		Graph:   lipgloss.Color("#00ffff"),
		Mono:    lipgloss.Color("#ff00ff"),
	}

	ThemeRetroGreen = Theme{
		Name:    "retro",
		Title:   lipgloss.Color("#00ff00"),
		TitleTo: lipgloss.Color("#88ff88"),
		Graph:   lipgloss.Color("#00cc00"),
		Mono:    lipgloss.Color("#00ff00"),
	}

	ThemeOcean = Theme{
		Name:    "ocean",
		Title:   lipgloss.Color("#0077be"),
		TitleTo: lipgloss.Color("#ffd700"),
		Graph:   lipgloss.Color("#00a8cc"),
		Mono:    lipgloss.Color("#e0f0ff"),
	}

	ThemeSunset = Theme{
		Name:    "sunset",
		Title:   lipgloss.Color("#ff6b6b"),
		TitleTo: lipgloss.Color("#feca57"),
		Graph:   lipgloss.Color("#ff9ff3"),
		Mono:    lipgloss.Color("#fff5f5"),
	}

	Themes = []Theme{ThemeCyberpunk, ThemeRetroGreen, ThemeOcean, ThemeSunset}
)

// GetTheme returns the named theme, or the first one.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

func nextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}
