package generatecmder

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/papercomputeco/llmstxt/pkg/cliui"
)

func init() {
	// Force TrueColor profile to fix lipgloss color detection issue
	// See: https://github.com/charmbracelet/lipgloss/issues/439
	renderer := lipgloss.NewRenderer(os.Stderr, termenv.WithProfile(termenv.TrueColor))
	renderer.SetColorProfile(termenv.TrueColor)
	lipgloss.SetDefaultRenderer(renderer)
}

const (
	maxProgressWidth = 60
	urlDisplayWidth  = 72
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type discoveredMsg struct {
	total int
}

type progressMsg struct {
	url   string
	done  int
	total int
}

type resultMsg struct {
	text string
}

type failedMsg struct {
	message string
}

// streamEndedMsg is sent once the stream's read loop has exited.
type streamEndedMsg struct{}

type streamModel struct {
	siteURL  string
	spinner  spinner.Model
	progress progress.Model
	cancel   func()

	discovered bool
	done       int
	total      int
	current    string

	result    string
	hasResult bool
	errMsg    string
	cancelled bool
	finished  bool
}

func newStreamModel(siteURL string, cancel func()) streamModel {
	s := spinner.New()
	s.Spinner = spinner.Spinner{Frames: cliui.SpinnerFrames, FPS: spinner.Dot.FPS}
	s.Style = titleStyle

	return streamModel{
		siteURL:  siteURL,
		spinner:  s,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(maxProgressWidth)),
		cancel:   cancel,
	}
}

func (m streamModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m streamModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.cancelled = true
			m.finished = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.progress.Width = min(msg.Width-4, maxProgressWidth)
		return m, nil

	case discoveredMsg:
		m.discovered = true
		m.total = msg.total
		return m, nil

	case progressMsg:
		m.done = msg.done
		m.total = msg.total
		m.current = msg.url
		return m, m.progress.SetPercent(m.percent())

	case resultMsg:
		m.result = msg.text
		m.hasResult = true
		m.finished = true
		return m, tea.Quit

	case failedMsg:
		m.errMsg = msg.message
		m.finished = true
		return m, tea.Quit

	case streamEndedMsg:
		m.finished = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		pm, cmd := m.progress.Update(msg)
		if p, ok := pm.(progress.Model); ok {
			m.progress = p
		}
		return m, cmd
	}

	return m, nil
}

func (m streamModel) View() string {
	if m.finished {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s Generating llms.txt for %s\n\n",
		m.spinner.View(),
		cliui.URLStyle.Render(m.siteURL),
	)

	if !m.discovered {
		b.WriteString("  " + mutedStyle.Render("Discovering pages...") + "\n")
	} else {
		b.WriteString("  " + m.progress.View() + "\n")
		fmt.Fprintf(&b, "  %s %s\n",
			mutedStyle.Render(fmt.Sprintf("%d/%d", m.done, m.total)),
			ansi.Truncate(m.current, urlDisplayWidth, "…"),
		)
	}

	b.WriteString("\n  " + helpStyle.Render("ctrl+c cancel") + "\n")
	return b.String()
}

func (m streamModel) percent() float64 {
	if m.total <= 0 {
		return 0
	}
	return float64(m.done) / float64(m.total)
}

func (m streamModel) outcome() streamOutcome {
	return streamOutcome{
		result:    m.result,
		hasResult: m.hasResult,
		errMsg:    m.errMsg,
		total:     m.total,
		cancelled: m.cancelled,
	}
}
