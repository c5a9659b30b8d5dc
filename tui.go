package main

import (
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TUI message types
type PartialMsg struct{ Text string }
type CommitMsg struct{ Text string }
type LevelMsg struct{ Level float64 }
type StatusMsg struct{ Text string }
type WarnMsg struct{ Text string }
type tickMsg time.Time

const tuiHistory = 8 // committed utterances kept on screen

type tuiModel struct {
	width, height int
	level         float64
	partial       string
	commits       []string
	statusLine    string // "[zipformer-en | 16kHz | surrounding]"
	warning       string
	warningUntil  time.Time
}

var (
	tuiProgram *tea.Program
	tuiMu      sync.Mutex
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("246")).Bold(true)
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	meterOnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	meterHiStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	partialStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Underline(true)
	commitStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	oldStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
)

func NewTUIProgram(statusLine string) *tea.Program {
	m := tuiModel{statusLine: statusLine}
	return tea.NewProgram(m, tea.WithAltScreen())
}

// tuiSend delivers a message to the TUI if one is running.
func tuiSend(msg tea.Msg) {
	tuiMu.Lock()
	p := tuiProgram
	tuiMu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

func tuiTick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m tuiModel) Init() tea.Cmd {
	return tuiTick()
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case tickMsg:
		// Decay so the meter falls back between words.
		m.level *= 0.7
		return m, tuiTick()

	case LevelMsg:
		if msg.Level > m.level {
			m.level = msg.Level
		}

	case PartialMsg:
		m.partial = msg.Text

	case CommitMsg:
		m.partial = ""
		if msg.Text != "" {
			m.commits = append(m.commits, msg.Text)
			if len(m.commits) > tuiHistory {
				m.commits = m.commits[len(m.commits)-tuiHistory:]
			}
		}

	case StatusMsg:
		m.statusLine = msg.Text

	case WarnMsg:
		m.warning = msg.Text
		m.warningUntil = time.Now().Add(5 * time.Second)
	}
	return m, nil
}

func (m tuiModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	wrapWidth := m.width - 2
	if wrapWidth < 10 {
		wrapWidth = 10
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("voz") + "  " + statusStyle.Render(m.statusLine) + "\n")
	b.WriteString(renderMeter(m.level, min(wrapWidth, 40)) + "\n\n")

	for _, c := range m.commits {
		style := oldStyle
		if c == m.commits[len(m.commits)-1] {
			style = commitStyle
		}
		for _, line := range wrapText(c, wrapWidth) {
			b.WriteString(style.Render(line) + "\n")
		}
	}

	if m.partial != "" {
		for _, line := range wrapText(m.partial, wrapWidth) {
			b.WriteString(partialStyle.Render(line) + "\n")
		}
	} else if len(m.commits) == 0 {
		b.WriteString(statusStyle.Render("Listening...") + "\n")
	}

	if m.warning != "" && time.Now().Before(m.warningUntil) {
		b.WriteString("\n" + warnStyle.Render("⚠ "+m.warning) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("Ctrl+C to stop") + "\n")
	return b.String()
}

// renderMeter draws a horizontal level bar, red above the clipping zone.
func renderMeter(level float64, width int) string {
	if level > 1 {
		level = 1
	}
	filled := int(level * float64(width))
	var b strings.Builder
	for i := 0; i < width; i++ {
		switch {
		case i >= filled:
			b.WriteString(helpStyle.Render("░"))
		case float64(i)/float64(width) > 0.85:
			b.WriteString(meterHiStyle.Render("█"))
		default:
			b.WriteString(meterOnStyle.Render("█"))
		}
	}
	return fmt.Sprintf("mic %s", b.String())
}

func wrapText(text string, width int) []string {
	if len(text) == 0 {
		return []string{""}
	}
	if width <= 0 {
		width = 1
	}

	var lines []string
	for len(text) > width {
		splitAt := width
		for i := width; i > 0; i-- {
			if text[i] == ' ' {
				splitAt = i
				break
			}
		}
		lines = append(lines, text[:splitAt])
		text = strings.TrimLeft(text[splitAt:], " ")
	}
	if len(text) > 0 {
		lines = append(lines, text)
	}
	return lines
}
