package main

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestModel(t *testing.T, confirmations bool) model {
	t.Helper()
	dir := t.TempDir()
	cfg := defaultConfig()
	cfg.SaveDirectory = dir
	cfg.Confirmations = confirmations

	store := openTestStore(t, filepath.Join(dir, "progress.db"), "tester")
	m := initialModel(context.Background(), cfg, newNopLogger(), NewLevelStore(dir), store)
	return send(t, m, tea.WindowSizeMsg{Width: 80, Height: 31})
}

func send(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(model)
}

func keys(t *testing.T, m model, ks ...string) model {
	t.Helper()
	for _, k := range ks {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m = send(t, m, msg)
	}
	return m
}

func mouse(action tea.MouseAction, x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft}
}

// drag draws with the mouse from one dot to another through the canvas.
func drag(t *testing.T, m model, from, to Dot) model {
	t.Helper()
	fx, fy := m.canvas.ToCell(from.Center())
	tx, ty := m.canvas.ToCell(to.Center())
	m = send(t, m, mouse(tea.MouseActionPress, fx, fy))
	m = send(t, m, mouse(tea.MouseActionMotion, tx, ty))
	return send(t, m, mouse(tea.MouseActionRelease, tx, ty))
}

func TestLevelSelectNavigation(t *testing.T) {
	m := newTestModel(t, false)
	if m.mode != ModeLevelSelect || len(m.levels) != 3 {
		t.Fatalf("mode %v levels %d", m.mode, len(m.levels))
	}

	tests := []struct {
		keys []string
		want int
	}{
		{[]string{"j"}, 1},
		{[]string{"j", "j", "j", "j"}, 2},
		{[]string{"G", "k"}, 1},
		{[]string{"G", "g"}, 0},
		{[]string{"k"}, 0},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.keys, ","), func(t *testing.T) {
			got := keys(t, m, tt.keys...)
			if got.selectedLevel != tt.want {
				t.Fatalf("selected = %d, want %d", got.selectedLevel, tt.want)
			}
		})
	}
}

func TestPlayThroughWithMouse(t *testing.T) {
	m := newTestModel(t, false)
	m = keys(t, m, "enter")
	if m.mode != ModePlaying {
		t.Fatalf("mode = %v, want playing", m.mode)
	}
	level := m.levels[0]

	m = drag(t, m, dotOf(t, level, 1), dotOf(t, level, 2))
	if n := len(m.game.State().DrawnLines); n != 1 {
		t.Fatalf("lines = %d, want 1", n)
	}
	if m.session.notice != "Connected!" {
		t.Fatalf("notice = %q", m.session.notice)
	}

	m = drag(t, m, dotOf(t, level, 3), dotOf(t, level, 4))
	if !m.game.State().IsComplete {
		t.Fatal("level should be complete")
	}
	p, ok := m.session.progress[level.ID]
	if !ok || !p.Completed || p.BestLives != 3 || p.Attempts != 1 {
		t.Fatalf("progress = %+v, ok %v", p, ok)
	}
	if !strings.Contains(m.View(), "complete") {
		t.Fatal("status line should report completion")
	}

	m = keys(t, m, "n")
	if m.selectedLevel != 1 || m.game.State().Level.Name != "Cross Path" {
		t.Fatalf("next level = %d", m.selectedLevel)
	}
}

func TestMouseMistakes(t *testing.T) {
	m := keys(t, newTestModel(t, false), "enter")
	level := m.levels[0]

	m = drag(t, m, dotOf(t, level, 1), dotOf(t, level, 3))
	if st := m.game.State(); st.Lives != 2 || len(st.DrawnLines) != 0 {
		t.Fatalf("lives %d lines %d", st.Lives, len(st.DrawnLines))
	}

	// the status row sits below the grid, so releasing there misses
	x, y := m.canvas.ToCell(dotOf(t, level, 1).Center())
	m = send(t, m, mouse(tea.MouseActionPress, x, y))
	m = send(t, m, mouse(tea.MouseActionMotion, 40, 30))
	m = send(t, m, mouse(tea.MouseActionRelease, 40, 30))
	if st := m.game.State(); st.IsDrawing || st.Lives != 1 {
		t.Fatalf("drawing %v lives %d, want a life lost", st.IsDrawing, st.Lives)
	}

	// pressing on empty space does nothing
	m = send(t, m, mouse(tea.MouseActionPress, 40, 15))
	if m.game.State().IsDrawing {
		t.Fatal("started drawing away from any dot")
	}
}

func TestPlayingKeys(t *testing.T) {
	m := keys(t, newTestModel(t, false), "enter")
	level := m.levels[0]
	m = drag(t, m, dotOf(t, level, 1), dotOf(t, level, 2))

	m = keys(t, m, "u")
	if len(m.game.State().DrawnLines) != 0 || m.session.notice != "Undone" {
		t.Fatal("undo key did not remove the line")
	}
	m = keys(t, m, "U")
	if len(m.game.State().DrawnLines) != 1 {
		t.Fatal("redo key did not restore the line")
	}

	m = keys(t, m, "r")
	if len(m.game.State().DrawnLines) != 0 || m.session.notice != "Restarted" {
		t.Fatalf("restart: notice %q", m.session.notice)
	}
	if p := m.session.progress[level.ID]; p.Attempts != 1 || p.Completed {
		t.Fatalf("restart should record an unfinished attempt: %+v", p)
	}

	m = keys(t, m, "p")
	if m.errorMessage != "" || !strings.Contains(m.successMessage, "level-1.png") {
		t.Fatalf("export: err %q ok %q", m.errorMessage, m.successMessage)
	}

	m = keys(t, m, "?")
	if !strings.Contains(m.View(), "dotline help") {
		t.Fatal("help screen not shown")
	}
	m = keys(t, m, "x", "esc")
	if m.mode != ModeLevelSelect {
		t.Fatalf("esc on an empty board should leave, mode %v", m.mode)
	}
}

func TestConfirmations(t *testing.T) {
	m := newTestModel(t, true)

	m = keys(t, m, "q")
	if m.mode != ModeConfirm || m.confirmAction != ConfirmQuit {
		t.Fatalf("mode %v action %v", m.mode, m.confirmAction)
	}
	if !strings.Contains(m.View(), "Quit?") {
		t.Fatal("confirm prompt missing")
	}
	m = keys(t, m, "n")
	if m.mode != ModeLevelSelect {
		t.Fatalf("declining should return to level select, got %v", m.mode)
	}

	m = keys(t, m, "enter")
	level := m.levels[0]
	m = drag(t, m, dotOf(t, level, 1), dotOf(t, level, 2))
	m = keys(t, m, "esc")
	if m.mode != ModeConfirm || m.confirmAction != ConfirmLeaveLevel {
		t.Fatalf("leaving with lines should ask first, mode %v", m.mode)
	}
	m = keys(t, m, "y")
	if m.mode != ModeLevelSelect {
		t.Fatalf("mode = %v, want level select", m.mode)
	}

	m = keys(t, m, "q")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	if cmd == nil {
		t.Fatal("confirming quit should return a command")
	}
}

func TestProgressExportImportKeys(t *testing.T) {
	m := keys(t, newTestModel(t, false), "e")
	if m.errorMessage != "" {
		t.Fatalf("export: %s", m.errorMessage)
	}

	if err := WriteProgressFile(m.config.GetSavePath("progress-import.json"), []LevelProgress{
		{LevelID: 3, Completed: true, BestLives: 2, Attempts: 6},
	}); err != nil {
		t.Fatal(err)
	}
	m = keys(t, m, "i")
	if m.errorMessage != "" || m.session.progress[3].Attempts != 6 {
		t.Fatalf("import: err %q progress %+v", m.errorMessage, m.session.progress[3])
	}
	if !strings.Contains(m.View(), "best 2 lives") {
		t.Fatal("level list should show imported progress")
	}
}

func TestLeavingRecordsAttempt(t *testing.T) {
	m := keys(t, newTestModel(t, false), "enter")
	level := m.levels[0]

	m = drag(t, m, dotOf(t, level, 1), dotOf(t, level, 3))
	m = keys(t, m, "esc")
	if m.mode != ModeLevelSelect {
		t.Fatalf("mode = %v, want level select", m.mode)
	}
	want := LevelProgress{LevelID: level.ID, Attempts: 1}
	if got := m.session.progress[level.ID]; got != want {
		t.Fatalf("progress = %+v, want %+v", got, want)
	}

	// starting another level right away does not count the same attempt again
	m = keys(t, m, "j", "enter", "esc")
	if got := m.session.progress[level.ID]; got != want {
		t.Fatalf("progress after switching = %+v, want %+v", got, want)
	}
	if _, ok := m.session.progress[m.levels[1].ID]; ok {
		t.Fatal("untouched level recorded an attempt")
	}
}

func TestConfirmCancelsDrawing(t *testing.T) {
	m := keys(t, newTestModel(t, true), "enter")
	level := m.levels[0]

	x, y := m.canvas.ToCell(dotOf(t, level, 1).Center())
	m = send(t, m, mouse(tea.MouseActionPress, x, y))
	m = send(t, m, mouse(tea.MouseActionMotion, x+5, y))
	m = keys(t, m, "r")
	if m.mode != ModeConfirm {
		t.Fatalf("mode = %v, want confirm", m.mode)
	}
	if m.game.State().IsDrawing {
		t.Fatal("line still in progress behind the prompt")
	}

	m = keys(t, m, "n")
	tx, ty := m.canvas.ToCell(dotOf(t, level, 2).Center())
	m = send(t, m, mouse(tea.MouseActionMotion, tx, ty))
	m = send(t, m, mouse(tea.MouseActionRelease, tx, ty))
	if st := m.game.State(); len(st.DrawnLines) != 0 || st.Lives != st.MaxLives {
		t.Fatalf("declined prompt resumed the line: lines %d lives %d", len(st.DrawnLines), st.Lives)
	}
}

func TestRedoHint(t *testing.T) {
	m := keys(t, newTestModel(t, false), "enter")
	level := m.levels[0]
	m = drag(t, m, dotOf(t, level, 1), dotOf(t, level, 2))
	if strings.Contains(m.View(), "U to redo") {
		t.Fatal("redo hint shown with nothing to redo")
	}
	m = keys(t, m, "u")
	if !strings.Contains(m.View(), "U to redo") {
		t.Fatal("redo hint missing after undo")
	}
}

func TestDeleteCustomLevel(t *testing.T) {
	m := newTestModel(t, true)
	ctx := context.Background()
	custom := validLevel()
	if err := m.levelStore.Save(ctx, custom); err != nil {
		t.Fatal(err)
	}
	levels, err := AllLevels(ctx, m.levelStore)
	if err != nil {
		t.Fatal(err)
	}
	m.levels = levels

	m = keys(t, m, "d")
	if m.mode != ModeLevelSelect || m.errorMessage == "" {
		t.Fatalf("deleting a built-in level: mode %v err %q", m.mode, m.errorMessage)
	}

	m = keys(t, m, "G", "d")
	if m.mode != ModeConfirm || m.confirmAction != ConfirmDeleteLevel {
		t.Fatalf("mode %v action %v", m.mode, m.confirmAction)
	}
	if !strings.Contains(m.View(), `Delete level "custom"?`) {
		t.Fatal("delete prompt missing")
	}
	m = keys(t, m, "y")

	if len(m.levels) != 3 || m.selectedLevel != 2 {
		t.Fatalf("levels %d selected %d", len(m.levels), m.selectedLevel)
	}
	if _, err := m.levelStore.Load(ctx, custom.ID); !errors.Is(err, ErrLevelNotFound) {
		t.Fatalf("level file still present: %v", err)
	}
}

func TestStartCustomLevelReadsStore(t *testing.T) {
	m := newTestModel(t, false)
	ctx := context.Background()
	custom := validLevel()
	if err := m.levelStore.Save(ctx, custom); err != nil {
		t.Fatal(err)
	}
	levels, _ := AllLevels(ctx, m.levelStore)
	m.levels = levels

	edited := custom
	edited.Name = "edited on disk"
	if err := m.levelStore.Save(ctx, edited); err != nil {
		t.Fatal(err)
	}
	m = keys(t, m, "G", "enter")
	if m.mode != ModePlaying || m.game.State().Level.Name != "edited on disk" {
		t.Fatalf("mode %v level %q", m.mode, m.game.State().Level.Name)
	}

	if err := m.levelStore.Delete(ctx, custom.ID); err != nil {
		t.Fatal(err)
	}
	m = keys(t, m, "esc", "enter")
	if m.mode != ModeLevelSelect || !strings.Contains(m.errorMessage, "not found") {
		t.Fatalf("missing file: mode %v err %q", m.mode, m.errorMessage)
	}
}

func TestCroppedExportKey(t *testing.T) {
	m := keys(t, newTestModel(t, false), "enter", "P")
	if m.errorMessage != "" || !strings.Contains(m.successMessage, "level-1-crop.png") {
		t.Fatalf("export: err %q ok %q", m.errorMessage, m.successMessage)
	}
}
