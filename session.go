package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const storeTimeout = 2 * time.Second

func newSession(ctx context.Context, store *ProgressStore, logger *slog.Logger) (*session, error) {
	s := &session{
		store:    store,
		progress: make(map[int]LevelProgress),
		logger:   logger,
	}
	if store == nil {
		return s, nil
	}
	facts, err := store.List(ctx)
	if err != nil {
		return s, err
	}
	for _, p := range facts {
		s.progress[p.LevelID] = p
	}
	return s, nil
}

// handleEvent turns game events into player notices and persists concluded
// attempts.
func (s *session) handleEvent(e Event) {
	s.logger.Debug("game event", "kind", e.Kind.String(), "line", e.LineID, "reason", e.Reason.String())

	switch e.Kind {
	case EventDrawingStarted:
		s.notice = ""
	case EventLineCommitted:
		s.notice = "Connected!"
	case EventLineRejected:
		s.notice = "Ouch, " + e.Reason.String()
	case EventAttemptRestarted:
		s.notice = "Out of lives, starting over"
	case EventLevelComplete:
		s.notice = "Level complete!"
	case EventLineUndone:
		s.notice = "Undone"
	case EventAttemptConcluded:
		s.recordAttempt(e.Progress)
	}
}

func (s *session) recordAttempt(fact LevelProgress) {
	prev := s.progress[fact.LevelID]
	best := LevelProgress{Completed: prev.Completed, BestLives: prev.BestLives}
	now := LevelProgress{Completed: fact.Completed, BestLives: fact.BestLives}
	if fact.Completed && CompareProgress(now, best) > 0 {
		s.notice = fmt.Sprintf("Level complete! New best: %d lives left", fact.BestLives)
	}

	if s.store == nil {
		merged := MergeProgress(fact, prev)
		merged.Attempts = prev.Attempts + fact.Attempts
		s.progress[fact.LevelID] = merged
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := s.store.Record(ctx, fact); err != nil {
		s.logger.Error("record progress", "level", fact.LevelID, "err", err)
		return
	}
	stored, ok, err := s.store.Get(ctx, fact.LevelID)
	if err != nil || !ok {
		s.logger.Warn("reload progress", "level", fact.LevelID, "err", err)
		return
	}
	s.progress[fact.LevelID] = stored
	s.logger.Info("attempt recorded", "level", fact.LevelID, "completed", fact.Completed, "lives", fact.BestLives, "attempts", stored.Attempts)
}

// importProgress merges progress exported from another machine.
func (s *session) importProgress(path string) (int, error) {
	if s.store == nil {
		return 0, fmt.Errorf("progress store is not configured")
	}
	facts, err := ReadProgressFile(path)
	if err != nil {
		return 0, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	n, err := s.store.Merge(ctx, facts)
	if err != nil {
		return 0, err
	}
	all, err := s.store.List(ctx)
	if err != nil {
		return n, err
	}
	for _, p := range all {
		s.progress[p.LevelID] = p
	}
	return n, nil
}

func (s *session) exportProgress(path string) error {
	if s.store == nil {
		return fmt.Errorf("progress store is not configured")
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	facts, err := s.store.List(ctx)
	if err != nil {
		return err
	}
	return WriteProgressFile(path, facts)
}
