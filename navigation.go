package main

func (m *model) handleLevelNavigation(key string) {
	if len(m.levels) == 0 {
		return
	}
	switch key {
	case "k", "up":
		m.selectedLevel--
	case "j", "down":
		m.selectedLevel++
	case "K", "shift+up", "pgup":
		m.selectedLevel -= m.getMoveSpeed(key)
	case "J", "shift+down", "pgdown":
		m.selectedLevel += m.getMoveSpeed(key)
	case "g", "home":
		m.selectedLevel = 0
	case "G", "end":
		m.selectedLevel = len(m.levels) - 1
	}
	m.ensureSelectionInBounds()
}

func (m *model) ensureSelectionInBounds() {
	if m.selectedLevel < 0 {
		m.selectedLevel = 0
	}
	if m.selectedLevel >= len(m.levels) {
		m.selectedLevel = len(m.levels) - 1
	}
}

func (m *model) getMoveSpeed(key string) int {
	switch key {
	case "pgup", "pgdown":
		return 10
	default:
		return 2
	}
}
