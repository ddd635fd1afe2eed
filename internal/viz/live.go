package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/circlerender/internal/metrics"
	"github.com/san-kum/circlerender/internal/renderer"
	"github.com/san-kum/circlerender/internal/scene"
)

const (
	previewCols     = 64
	previewRows     = 32
	historyCapacity = 240
	monoThreshold   = 0.8
)

type TickMsg time.Time

func tick(fps int) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model drives a renderer frame by frame and previews the output in the
// terminal.
type Model struct {
	r      *renderer.CircleRenderer
	scenes []scene.Name
	sceneI int
	fps    int

	running  bool
	mono     bool
	showHelp bool
	theme    Theme
	err      error

	preview  string
	canvas   *Canvas
	frameMS  []float64
	last     metrics.Sample
	coverage *metrics.Coverage
}

// NewModel expects r to be set up with an image allocated and name loaded.
func NewModel(r *renderer.CircleRenderer, name scene.Name, fps int) Model {
	if fps <= 0 {
		fps = 30
	}
	scenes := scene.Names()
	idx := 0
	for i, n := range scenes {
		if n == name {
			idx = i
		}
	}
	return Model{
		r:        r,
		scenes:   scenes,
		sceneI:   idx,
		fps:      fps,
		running:  true,
		theme:    Themes[0],
		canvas:   NewCanvas(previewCols, previewRows/2),
		frameMS:  make([]float64, 0, historyCapacity),
		coverage: metrics.NewCoverage(),
	}
}

func (m Model) Init() tea.Cmd {
	return tick(m.fps)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "s":
			m.step()
		case "n":
			m.switchScene(1)
		case "p":
			m.switchScene(-1)
		case "r":
			m.switchScene(0)
		case "m":
			m.mono = !m.mono
			m.redraw()
		case "t":
			m.theme = nextTheme(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tick(m.fps)
	}
	return m, nil
}

func (m *Model) switchScene(dir int) {
	m.sceneI = (m.sceneI + dir + len(m.scenes)) % len(m.scenes)
	if err := m.r.LoadScene(m.scenes[m.sceneI]); err != nil {
		m.err = err
		return
	}
	m.frameMS = m.frameMS[:0]
	m.coverage.Reset()
	m.step()
}

// step runs one clear/advance/render cycle and refreshes the preview.
func (m *Model) step() {
	s := metrics.Sample{Frame: m.r.Frame() + 1}

	t0 := time.Now()
	if m.err = m.r.ClearImage(); m.err != nil {
		return
	}
	t1 := time.Now()
	if m.err = m.r.AdvanceAnimation(); m.err != nil {
		return
	}
	t2 := time.Now()
	if m.err = m.r.Render(); m.err != nil {
		return
	}
	t3 := time.Now()

	s.Clear, s.Advance, s.Render = t1.Sub(t0), t2.Sub(t1), t3.Sub(t2)
	s.Stats = m.r.Stats()
	m.last = s

	m.frameMS = append(m.frameMS, float64(s.Total())/float64(time.Millisecond))
	if len(m.frameMS) > historyCapacity {
		m.frameMS = m.frameMS[1:]
	}
	m.redraw()
}

func (m *Model) redraw() {
	v, err := m.r.GetImage()
	if err != nil {
		m.err = err
		return
	}
	m.last.Image = v
	m.last.Background = m.scenes[m.sceneI].Background()
	m.coverage.Observe(m.last)

	if m.mono {
		m.canvas.Dither(v, monoThreshold)
		m.preview = lipgloss.NewStyle().Foreground(m.theme.Mono).Render(m.canvas.String())
		return
	}
	m.preview = HalfBlocks(v, previewCols, previewRows/2)
}

func (m Model) View() string {
	name := m.scenes[m.sceneI]

	var s strings.Builder
	s.WriteString(GradientText(strings.ToUpper(string(name)), m.theme.Title, m.theme.TitleTo) + "\n")
	if m.running {
		s.WriteString(StatusRunning.Render("RUNNING") + "\n\n")
	} else {
		s.WriteString(StatusPaused.Render("PAUSED") + "\n\n")
	}

	if len(m.frameMS) > 1 {
		chart := asciigraph.Plot(m.frameMS, asciigraph.Height(5), asciigraph.Width(32),
			asciigraph.Precision(1), asciigraph.Caption("frame ms"))
		s.WriteString(graphStyle.Foreground(m.theme.Graph).Render(chart) + "\n")
		s.WriteString(Sparkline(m.frameMS, 32) + "\n\n")
	}

	st := m.last.Stats
	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Frame", fmt.Sprintf("%d", m.r.Frame()))
	row("Circles", fmt.Sprintf("%d (%d visible)", st.Circles, st.Visible))
	row("Tiles", fmt.Sprintf("%d/%d touched", st.TilesTouched, st.Tiles))
	row("Blends", fmt.Sprintf("%d", st.Blends))
	row("Render", fmt.Sprintf("%.2f ms", float64(m.last.Render)/float64(time.Millisecond)))
	row("Advance", fmt.Sprintf("%.2f ms", float64(m.last.Advance)/float64(time.Millisecond)))
	cov := m.coverage.Value()
	s.WriteString(labelStyle.Render("Coverage") + ProgressBar(cov, 16) + valueStyle.Render(fmt.Sprintf(" %.0f%%", cov*100)) + "\n")
	if m.err != nil {
		s.WriteString("\n" + SparkHigh.Render(m.err.Error()) + "\n")
	}

	s.WriteString(helpStyle.Render(Separator(32) + "\nSP:Pause S:Step N/P:Scene R:Reload\nM:Mono T:Theme ?:Help Q:Quit"))

	main := lipgloss.JoinHorizontal(lipgloss.Top, previewStyle.Render(m.preview), panelStyle.Render(s.String()))
	if m.showHelp {
		return helpText + "\n" + main
	}
	return main
}

const helpText = `
  Space  pause/resume      S  single step
  N / P  next/prev scene   R  reload scene
  M      colour/mono       T  cycle theme
  ?      toggle help       Q  quit
`

// Run starts the live preview on the terminal's alternate screen.
func Run(r *renderer.CircleRenderer, name scene.Name, fps int) error {
	m := NewModel(r, name, fps)
	m.redraw()
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
