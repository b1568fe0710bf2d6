package main

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
)

func TestSessionNotices(t *testing.T) {
	s, err := newSession(context.Background(), nil, newNopLogger())
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		event Event
		want  string
	}{
		{Event{Kind: EventLineCommitted}, "Connected!"},
		{Event{Kind: EventLineRejected, Reason: RejectColorMismatch}, "Ouch, colors don't match"},
		{Event{Kind: EventDrawingStarted}, ""},
		{Event{Kind: EventAttemptRestarted}, "Out of lives, starting over"},
		{Event{Kind: EventLineUndone}, "Undone"},
		{Event{Kind: EventLevelComplete}, "Level complete!"},
	}
	for _, tt := range tests {
		s.handleEvent(tt.event)
		if s.notice != tt.want {
			t.Fatalf("%v: notice = %q, want %q", tt.event.Kind, s.notice, tt.want)
		}
	}
}

func TestSessionRecordsInMemory(t *testing.T) {
	s, _ := newSession(context.Background(), nil, newNopLogger())

	s.handleEvent(Event{Kind: EventAttemptConcluded, Progress: LevelProgress{LevelID: 1, Attempts: 1}})
	s.handleEvent(Event{Kind: EventAttemptConcluded, Progress: LevelProgress{LevelID: 1, Completed: true, BestLives: 2, Attempts: 1}})
	if !strings.Contains(s.notice, "New best") {
		t.Fatalf("notice = %q", s.notice)
	}
	s.handleEvent(Event{Kind: EventAttemptConcluded, Progress: LevelProgress{LevelID: 1, Completed: true, BestLives: 1, Attempts: 1}})

	want := LevelProgress{LevelID: 1, Completed: true, BestLives: 2, Attempts: 3}
	if got := s.progress[1]; got != want {
		t.Fatalf("progress = %+v, want %+v", got, want)
	}

	if _, err := s.importProgress("anything.json"); err == nil {
		t.Fatal("import without a store should fail")
	}
}

func TestSessionWithStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := openTestStore(t, filepath.Join(dir, "progress.db"), "p1")
	if err := store.Record(ctx, LevelProgress{LevelID: 2, Attempts: 4}); err != nil {
		t.Fatal(err)
	}

	s, err := newSession(ctx, store, newNopLogger())
	if err != nil {
		t.Fatal(err)
	}
	if s.progress[2].Attempts != 4 {
		t.Fatalf("preloaded = %+v", s.progress[2])
	}

	s.handleEvent(Event{Kind: EventAttemptConcluded, Progress: LevelProgress{LevelID: 2, Completed: true, BestLives: 3, Attempts: 1}})
	want := LevelProgress{LevelID: 2, Completed: true, BestLives: 3, Attempts: 5}
	if got := s.progress[2]; got != want {
		t.Fatalf("progress = %+v, want %+v", got, want)
	}

	exported := filepath.Join(dir, "out.json")
	if err := s.exportProgress(exported); err != nil {
		t.Fatal(err)
	}

	other := openTestStore(t, filepath.Join(dir, "other.db"), "p2")
	s2, _ := newSession(ctx, other, newNopLogger())
	n, err := s2.importProgress(exported)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 || s2.progress[2] != want {
		t.Fatalf("imported %d levels, progress %+v", n, s2.progress[2])
	}
}
