package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, closer, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx := context.Background()
	store, err := OpenProgressStore(ctx, cfg.GetSavePath("progress.db"), cfg.PlayerID)
	if err != nil {
		return err
	}
	defer store.Close()
	logger.Info("starting", "save_dir", cfg.SaveDirectory, "player", store.PlayerID(), "max_lives", cfg.MaxLives)

	p := tea.NewProgram(
		initialModel(ctx, cfg, logger, NewLevelStore(cfg.SaveDirectory), store),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err = p.Run()
	return err
}

func initialModel(ctx context.Context, cfg *Config, logger *slog.Logger, levels *LevelStore, store *ProgressStore) model {
	m := model{
		mode:       ModeLevelSelect,
		config:     cfg,
		levelStore: levels,
		logger:     logger,
		canvas:     NewCanvas(80, 23, cfg.DecimateTolerance, cfg.SmoothTension),
		game:       NewGame(WithMaxLives(cfg.MaxLives), WithDotThreshold(cfg.DotThreshold)),
	}

	sess, err := newSession(ctx, store, logger)
	if err != nil {
		m.errorMessage = err.Error()
	}
	m.session = sess
	m.game.OnChange(sess.handleEvent)

	m.levels, err = AllLevels(ctx, levels)
	if err != nil {
		logger.Warn("list custom levels", "err", err)
		m.errorMessage = err.Error()
	}
	return m
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.canvas.Resize(msg.Width, msg.Height-1)
		return m, nil

	case tea.MouseMsg:
		if m.mode == ModePlaying && !m.help {
			m.handleMouse(msg)
		}
		return m, nil

	case tea.KeyMsg:
		if m.help {
			m.help = false
			return m, nil
		}
		switch m.mode {
		case ModeLevelSelect:
			return m.updateLevelSelect(msg)
		case ModePlaying:
			return m.updatePlaying(msg)
		case ModeConfirm:
			return m.updateConfirm(msg)
		}
	}
	return m, nil
}

// handleMouse feeds pointer events to the game in the order they arrive.
// Cells below the board map past the grid edge, so releasing there is
// rejected by the game.
func (m *model) handleMouse(msg tea.MouseMsg) {
	p := m.canvas.ToGrid(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !m.canvas.InBounds(msg.X, msg.Y) {
			return
		}
		if dot, ok := m.game.DotAt(p); ok {
			m.game.StartDrawing(dot.ID, dot.Color, dot.Center())
		}
	case tea.MouseActionMotion:
		m.game.AddPointToCurrentLine(p)
	case tea.MouseActionRelease:
		m.game.FinishDrawing(&p)
	}
}

func (m model) updateLevelSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.errorMessage = ""
	m.successMessage = ""

	switch key := msg.String(); key {
	case "q", "ctrl+c":
		return m.confirm(ConfirmQuit)
	case "?":
		m.help = true
	case "enter", " ":
		m.startLevel(m.selectedLevel)
	case "v":
		m.pasteLevel()
	case "d":
		if len(m.levels) == 0 {
			break
		}
		if m.levels[m.selectedLevel].IsOfficial {
			m.errorMessage = "Built-in levels cannot be deleted"
			break
		}
		return m.confirm(ConfirmDeleteLevel)
	case "i":
		n, err := m.session.importProgress(m.config.GetSavePath("progress-import.json"))
		if err != nil {
			m.errorMessage = err.Error()
		} else {
			m.successMessage = fmt.Sprintf("Merged progress for %d levels", n)
		}
	case "e":
		path := m.config.GetSavePath("progress-export.json")
		if err := m.session.exportProgress(path); err != nil {
			m.errorMessage = err.Error()
		} else {
			m.successMessage = "Progress exported to " + path
		}
	default:
		m.handleLevelNavigation(key)
	}
	return m, nil
}

func (m model) updatePlaying(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.errorMessage = ""
	m.successMessage = ""

	switch msg.String() {
	case "ctrl+c", "q":
		return m.confirm(ConfirmQuit)
	case "esc":
		if m.game.State().IsDrawing {
			m.game.CancelDrawing()
			return m, nil
		}
		if m.game.CanUndo() && !m.game.State().IsComplete {
			return m.confirm(ConfirmLeaveLevel)
		}
		m.leaveLevel()
	case "u":
		m.game.UndoLastLine()
	case "U", "ctrl+r":
		m.game.RedoLine()
	case "r":
		return m.confirm(ConfirmRestart)
	case "n":
		if m.game.State().IsComplete && m.selectedLevel+1 < len(m.levels) {
			m.startLevel(m.selectedLevel + 1)
		}
	case "p":
		m.exportPNG(false)
	case "P":
		m.exportPNG(true)
	case "c":
		if st := m.game.State(); st.Level != nil {
			if err := copyLevel(*st.Level); err != nil {
				m.errorMessage = err.Error()
			} else {
				m.successMessage = "Level copied to clipboard"
			}
		}
	case "?":
		m.help = true
	}
	return m, nil
}

// confirm asks before a destructive action unless confirmations are off.
func (m model) confirm(action ConfirmAction) (tea.Model, tea.Cmd) {
	// pointer events are not delivered while the prompt is up
	m.game.CancelDrawing()
	if !m.config.Confirmations {
		return m.apply(action)
	}
	m.prevMode = m.mode
	m.mode = ModeConfirm
	m.confirmAction = action
	return m, nil
}

func (m model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		m.mode = m.prevMode
		return m.apply(m.confirmAction)
	default:
		m.mode = m.prevMode
		return m, nil
	}
}

func (m model) apply(action ConfirmAction) (tea.Model, tea.Cmd) {
	switch action {
	case ConfirmQuit:
		m.game.CancelDrawing()
		return m, tea.Quit
	case ConfirmRestart:
		m.game.RestartLevel()
		m.session.notice = "Restarted"
	case ConfirmLeaveLevel:
		m.leaveLevel()
	case ConfirmDeleteLevel:
		m.deleteLevel()
	}
	return m, nil
}

func (m *model) startLevel(idx int) {
	if idx < 0 || idx >= len(m.levels) {
		return
	}
	m.selectedLevel = idx
	level := m.levels[idx]
	if !level.IsOfficial {
		// custom levels are re-read so edits to the file on disk take effect
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		fresh, err := m.levelStore.Load(ctx, level.ID)
		if err != nil {
			m.errorMessage = err.Error()
			return
		}
		level = fresh
		level.IsOfficial = false
		m.levels[idx] = level
	}
	m.game.Abandon()
	m.canvas.SetLevel(&level)
	m.game.LoadLevel(level)
	m.session.notice = ""
	m.mode = ModePlaying
	m.logger.Info("level loaded", "level", level.ID, "name", level.Name)
}

func (m *model) leaveLevel() {
	m.game.Abandon()
	m.mode = ModeLevelSelect
	m.session.notice = ""
}

func (m *model) pasteLevel() {
	level, err := pasteLevel()
	if err != nil {
		m.errorMessage = err.Error()
		return
	}
	for _, l := range m.levels {
		if l.ID == level.ID && l.IsOfficial {
			level.ID = NextLevelID(m.levels)
			break
		}
	}
	level.IsOfficial = false

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := m.levelStore.Save(ctx, level); err != nil {
		m.errorMessage = err.Error()
		return
	}
	levels, err := AllLevels(ctx, m.levelStore)
	if err != nil {
		m.errorMessage = err.Error()
		return
	}
	m.levels = levels
	for i, l := range levels {
		if l.ID == level.ID {
			m.selectedLevel = i
		}
	}
	m.successMessage = fmt.Sprintf("Imported level %q", level.Name)
	m.logger.Info("level imported", "level", level.ID, "name", level.Name)
}

func (m *model) deleteLevel() {
	level := m.levels[m.selectedLevel]
	if level.IsOfficial {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := m.levelStore.Delete(ctx, level.ID); err != nil {
		m.errorMessage = err.Error()
		return
	}
	levels, err := AllLevels(ctx, m.levelStore)
	if err != nil {
		m.errorMessage = err.Error()
		return
	}
	m.levels = levels
	m.ensureSelectionInBounds()
	m.successMessage = fmt.Sprintf("Deleted level %q", level.Name)
	m.logger.Info("level deleted", "level", level.ID, "name", level.Name)
}

// exportPNG saves the board, or with crop only the area around the dots
// and lines.
func (m *model) exportPNG(crop bool) {
	st := m.game.State()
	if st.Level == nil {
		return
	}
	name := fmt.Sprintf("level-%d.png", st.Level.ID)
	save := SavePNG
	if crop {
		name = fmt.Sprintf("level-%d-crop.png", st.Level.ID)
		save = SaveCroppedPNG
	}
	filename := m.config.GetSavePath(name)
	err := save(filename, st, m.config.DecimateTolerance, m.game.ConnectedDots())
	switch {
	case errors.Is(err, ErrNothingToExport):
		m.errorMessage = "Nothing to export"
	case err != nil:
		m.logger.Error("export png", "file", filename, "err", err)
		m.errorMessage = err.Error()
	default:
		m.successMessage = "Saved " + filename
	}
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4ECDC4"))
	livesStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6BCB77"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF4D4D"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#777777"))
)

func (m model) View() string {
	if m.help {
		return m.helpView()
	}

	var result strings.Builder
	switch m.mode {
	case ModeLevelSelect:
		result.WriteString(m.levelSelectView())
	case ModePlaying:
		result.WriteString(strings.Join(m.canvas.Render(m.game.State(), m.game.ConnectedDots()), "\n"))
	case ModeConfirm:
		if m.prevMode == ModePlaying {
			result.WriteString(strings.Join(m.canvas.Render(m.game.State(), m.game.ConnectedDots()), "\n"))
		} else {
			result.WriteString(m.levelSelectView())
		}
	}
	result.WriteString("\n")
	result.WriteString(m.statusLine())
	return result.String()
}

func (m model) levelSelectView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("dotline: pick a level"))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", max(m.width, 20)))
	b.WriteString("\n")

	for i, l := range m.levels {
		cursor := "  "
		if i == m.selectedLevel {
			cursor = "> "
		}
		mark := " "
		stats := ""
		if p, ok := m.session.progress[l.ID]; ok {
			if p.Completed {
				mark = successStyle.Render("✓")
				stats = dimStyle.Render(fmt.Sprintf("  best %d lives, %d attempts", p.BestLives, p.Attempts))
			} else {
				stats = dimStyle.Render(fmt.Sprintf("  %d attempts", p.Attempts))
			}
		}
		name := l.Name
		if !l.IsOfficial {
			name += dimStyle.Render(" (custom)")
		}
		fmt.Fprintf(&b, "%s%s %s%s\n", cursor, mark, name, stats)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m model) statusLine() string {
	if m.mode == ModeConfirm {
		var message string
		switch m.confirmAction {
		case ConfirmQuit:
			message = "Quit? (y/n)"
		case ConfirmRestart:
			message = "Restart this level? (y/n)"
		case ConfirmLeaveLevel:
			message = "Leave this level? Lines will be lost. (y/n)"
		case ConfirmDeleteLevel:
			message = fmt.Sprintf("Delete level %q? (y/n)", m.levels[m.selectedLevel].Name)
		}
		return "CONFIRM | " + message
	}

	var parts []string
	if m.mode == ModePlaying {
		st := m.game.State()
		if st.Level != nil {
			parts = append(parts, titleStyle.Render(st.Level.Name))
		}
		hearts := strings.Repeat("♥", st.Lives) + strings.Repeat("♡", st.MaxLives-st.Lives)
		parts = append(parts, livesStyle.Render(hearts))
		if st.IsComplete {
			parts = append(parts, successStyle.Render("complete"))
		}
		if m.game.CanRedo() {
			parts = append(parts, dimStyle.Render("U to redo"))
		}
		if m.session.notice != "" {
			parts = append(parts, m.session.notice)
		}
	} else {
		parts = append(parts, "j/k select | enter play | v paste level | d delete level | i/e import/export progress")
	}
	if m.successMessage != "" {
		parts = append(parts, successStyle.Render(m.successMessage))
	}
	if m.errorMessage != "" {
		parts = append(parts, errorStyle.Render("ERROR: "+m.errorMessage))
	} else if m.successMessage == "" {
		parts = append(parts, dimStyle.Render("? for help | q to quit"))
	}
	return strings.Join(parts, " | ")
}

func (m model) helpView() string {
	helpLines := []string{
		"dotline help",
		"============",
		"",
		"Connect every pair of same-colored dots without crossing lines.",
		"Crossing a line, missing the target or picking the wrong color costs a life.",
		"Run out of lives and the level starts over.",
		"",
		"Level select:",
		"-------------",
		"  j/k, ↑/↓         Move selection",
		"  g/G              First/last level",
		"  Enter            Play selected level",
		"  v                Paste a level (JSON) from the clipboard",
		"  d                Delete the selected custom level",
		"  i                Merge progress from progress-import.json",
		"  e                Export progress to progress-export.json",
		"",
		"Playing:",
		"--------",
		"  mouse drag       Draw from a dot to its partner",
		"  u                Undo last line",
		"  U/Ctrl+R         Redo undone line",
		"  r                Restart level",
		"  n                Next level (after completing)",
		"  p                Export board as PNG",
		"  P                Export PNG cropped to the dots and lines",
		"  c                Copy level JSON to the clipboard",
		"  Esc              Cancel line / back to level select",
		"",
		"General:",
		"  ?                Toggle this help screen",
		"  q/Ctrl+C         Quit",
	}
	if m.height > 0 && len(helpLines) > m.height {
		helpLines = helpLines[:m.height]
	}
	return strings.Join(helpLines, "\n")
}
