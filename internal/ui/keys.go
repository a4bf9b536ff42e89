package ui

import tea "github.com/charmbracelet/bubbletea"

func isQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return true
	}
	return false
}

func isMute(msg tea.KeyMsg) bool {
	return msg.String() == "m"
}

func isVolumeUp(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "up", "+", "=":
		return true
	}
	return false
}

func isVolumeDown(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "down", "-":
		return true
	}
	return false
}

func helpText(hasMonitor bool) string {
	s := ""
	if hasMonitor {
		s += "+/- volume  m mute  "
	}
	s += "q quit"
	return s
}
