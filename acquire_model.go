package main

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/olivier-w/glowgrid/internal/source"
)

type acquirePhase uint8

const (
	phasePending acquirePhase = iota
	phaseAlert
)

// acquiredMsg carries the one result of Source.Acquire.
type acquiredMsg struct {
	sig source.Signal
	err error
}

// acquireModel waits for the sound source, shows a blocking alert when it
// fails, then hands over to the grid view.
type acquireModel struct {
	app     *app
	phase   acquirePhase
	results <-chan acquiredMsg
	spinner spinner.Model

	alertName string
	alertText string

	width  int
	height int
}

func newAcquireModel(a *app) acquireModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})

	return acquireModel{
		app:     a,
		phase:   phasePending,
		spinner: s,
	}
}

func (m acquireModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForAcquire(m.app.acquire()))
}

func waitForAcquire(results <-chan acquiredMsg) tea.Cmd {
	return func() tea.Msg {
		return <-results
	}
}

func (m acquireModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if m.phase != phasePending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case acquiredMsg:
		err := msg.err
		if err == nil {
			err = m.app.attach(msg.sig)
		}
		if err != nil {
			m.app.reportAcquireError(err)
			m.phase = phaseAlert
			m.alertName, m.alertText = describeAcquireError(err)
			return m, nil
		}
		return m.handOver()

	case tea.KeyMsg:
		switch m.phase {
		case phasePending:
			if acquireIsQuit(msg) {
				return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
			}
		case phaseAlert:
			if acquireIsQuit(msg) && msg.String() != "esc" {
				return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
			}
			if isDismiss(msg) {
				// No retry: the grid runs without a connected source.
				m.app.label = "no source (" + m.alertName + ")"
				return m.handOver()
			}
		}
	}

	return m, nil
}

func (m acquireModel) handOver() (tea.Model, tea.Cmd) {
	model := m.app.gridModel()
	cmds := []tea.Cmd{model.Init()}
	if m.width > 0 || m.height > 0 {
		w, h := m.width, m.height
		cmds = append(cmds, func() tea.Msg {
			return tea.WindowSizeMsg{Width: w, Height: h}
		})
	}
	return model, tea.Batch(cmds...)
}

func (m acquireModel) View() string {
	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(acquireHeaderStyle.Render("glowgrid"))
	b.WriteString("\n\n")

	switch m.phase {
	case phasePending:
		b.WriteString("  ")
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(acquireStatusStyle.Render("Waiting for " + m.app.src.Kind().String() + "..."))
		b.WriteString("\n\n  ")
		b.WriteString(acquireHelpStyle.Render("q quit"))
	case phaseAlert:
		alert := acquireErrorStyle.Render(m.alertName) + "\n" + m.alertText
		b.WriteString(indentBlock(acquireAlertStyle.Render(alert), "  "))
		b.WriteString("\n\n  ")
		b.WriteString(acquireHelpStyle.Render("enter continue without sound  q quit"))
	}
	b.WriteString("\n")
	return b.String()
}

// describeAcquireError splits err into the category name and the message
// shown in the alert.
func describeAcquireError(err error) (name, text string) {
	var ae *source.AcquireError
	if errors.As(err, &ae) {
		if ae.Err != nil {
			return ae.Name, ae.Err.Error()
		}
		return ae.Name, "The sound source could not be opened."
	}
	return source.NameAbort, err.Error()
}

func indentBlock(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		if lines[i] != "" {
			lines[i] = prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

func acquireIsQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return true
	}
	return false
}

func isDismiss(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "enter", "esc", " ":
		return true
	}
	return false
}

var (
	acquireHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"})
	acquireStatusStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"})
	acquireHelpStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#999999", Dark: "#666666"})
	acquireErrorStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.AdaptiveColor{Light: "#A00000", Dark: "#FF8080"})
	acquireAlertStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.AdaptiveColor{Light: "#A00000", Dark: "#FF8080"}).
				Padding(0, 2)
)
