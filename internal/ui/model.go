package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/glowgrid/internal/loop"
)

// Monitor is the audible output the keys control.
type Monitor interface {
	ToggleMute() bool
	Muted() bool
	Volume() float64
	SetVolume(v float64)
}

const volumeStep = 0.05

// latest holds the most recent grid delivered by the loop.
type latest struct {
	mu    sync.Mutex
	cells []float64
}

func (l *latest) store(cells []float64) {
	l.mu.Lock()
	l.cells = cells
	l.mu.Unlock()
}

func (l *latest) load() []float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cells
}

// Model is the Bubbletea model that paints the brightness grid.
type Model struct {
	loop    *loop.Loop
	sched   *FrameScheduler
	n       int
	label   string
	monitor Monitor
	profile colorProfile

	grid    *latest
	springs *springField

	width    int
	muted    bool
	volume   float64
	quitting bool
}

// New creates a Model painting an n x n grid produced by lp. sched must be
// the scheduler lp was built with. mon may be nil.
func New(lp *loop.Loop, sched *FrameScheduler, n int, label string, mon Monitor) Model {
	springs := newSpringField(int(sched.FPS()), 9, 0.8)
	springs.resize(n * n)
	m := Model{
		loop:    lp,
		sched:   sched,
		n:       n,
		label:   label,
		monitor: mon,
		profile: currentColorProfile(),
		grid:    &latest{},
		springs: &springs,
	}
	if mon != nil {
		m.muted = mon.Muted()
		m.volume = mon.Volume()
	}
	return m
}

func (m Model) Init() tea.Cmd {
	m.loop.Subscribe(m.grid.store)
	return tea.Batch(m.sched.tick(), tea.SetWindowTitle("glowgrid: "+m.label))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if isQuit(msg) {
			m.quitting = true
			m.loop.Stop()
			return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
		}
		if m.monitor == nil {
			return m, nil
		}
		switch {
		case isMute(msg):
			m.muted = m.monitor.ToggleMute()
		case isVolumeUp(msg):
			m.monitor.SetVolume(m.volume + volumeStep)
			m.volume = m.monitor.Volume()
		case isVolumeDown(msg):
			m.monitor.SetVolume(m.volume - volumeStep)
			m.volume = m.monitor.Volume()
		}
		return m, nil

	case frameMsg:
		m.sched.fire()
		if cells := m.grid.load(); cells != nil {
			m.springs.follow(cells)
		}
		if m.quitting {
			return m, nil
		}
		return m, m.sched.tick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	lines := "\n"
	lines += "  " + headerStyle.Render("glowgrid") + "\n"
	if m.label != "" {
		lines += "  " + labelStyle.Render(m.label) + "\n"
	}
	lines += "\n"
	lines += indent(renderGrid(m.springs.pos, m.n, m.profile), 2) + "\n"
	lines += "\n"
	lines += "  " + statusStyle.Render(renderStatus(status{
		cycles:    m.loop.Cycles(),
		fps:       m.sched.FPS(),
		listeners: m.loop.Listeners(),
		running:   m.loop.Running(),
		monitor:   m.monitor != nil,
		volume:    m.volume,
		muted:     m.muted,
	})) + "\n"
	lines += "\n"
	lines += "  " + helpStyle.Render(helpText(m.monitor != nil)) + "\n"
	return lines
}
