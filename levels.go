package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

var (
	ErrLevelNotFound = errors.New("level not found")
	ErrInvalidLevel  = errors.New("invalid level")
)

const minGridSize = 100

var builtInLevels = []Level{
	{
		ID:         1,
		Name:       "Tutorial",
		GridWidth:  800,
		GridHeight: 600,
		IsOfficial: true,
		Dots: []Dot{
			{ID: 1, X: 200, Y: 200, Color: "#FF6B6B"},
			{ID: 2, X: 600, Y: 200, Color: "#FF6B6B"},
			{ID: 3, X: 200, Y: 400, Color: "#4ECDC4"},
			{ID: 4, X: 600, Y: 400, Color: "#4ECDC4"},
		},
		RequiredConnections: []Connection{{1, 2}, {3, 4}},
	},
	{
		ID:         2,
		Name:       "Cross Path",
		GridWidth:  800,
		GridHeight: 600,
		IsOfficial: true,
		Dots: []Dot{
			{ID: 1, X: 150, Y: 150, Color: "#FF6B6B"},
			{ID: 2, X: 650, Y: 450, Color: "#FF6B6B"},
			{ID: 3, X: 650, Y: 150, Color: "#4ECDC4"},
			{ID: 4, X: 150, Y: 450, Color: "#4ECDC4"},
		},
		RequiredConnections: []Connection{{1, 2}, {3, 4}},
	},
	{
		ID:         3,
		Name:       "Triple Trouble",
		GridWidth:  800,
		GridHeight: 600,
		IsOfficial: true,
		Dots: []Dot{
			{ID: 1, X: 100, Y: 150, Color: "#FF6B6B"},
			{ID: 2, X: 700, Y: 150, Color: "#FF6B6B"},
			{ID: 3, X: 100, Y: 300, Color: "#4ECDC4"},
			{ID: 4, X: 700, Y: 300, Color: "#4ECDC4"},
			{ID: 5, X: 100, Y: 450, Color: "#FFD93D"},
			{ID: 6, X: 700, Y: 450, Color: "#FFD93D"},
		},
		RequiredConnections: []Connection{{1, 2}, {3, 4}, {5, 6}},
	},
}

func BuiltInLevels() []Level {
	return append([]Level(nil), builtInLevels...)
}

// ValidateLevel checks the structural rules a level must satisfy before it
// can be played.
func ValidateLevel(level Level) error {
	switch {
	case strings.TrimSpace(level.Name) == "":
		return fmt.Errorf("%w: name must be non-empty", ErrInvalidLevel)
	case level.GridWidth < minGridSize || level.GridHeight < minGridSize:
		return fmt.Errorf("%w: grid must be at least %dx%d", ErrInvalidLevel, minGridSize, minGridSize)
	case len(level.Dots) < 2:
		return fmt.Errorf("%w: at least 2 dots required", ErrInvalidLevel)
	case len(level.RequiredConnections) < 1:
		return fmt.Errorf("%w: at least 1 connection required", ErrInvalidLevel)
	}

	ids := make(map[int]bool, len(level.Dots))
	for _, d := range level.Dots {
		if ids[d.ID] {
			return fmt.Errorf("%w: duplicate dot id %d", ErrInvalidLevel, d.ID)
		}
		ids[d.ID] = true
	}
	for _, c := range level.RequiredConnections {
		if !ids[c.DotID1] || !ids[c.DotID2] {
			return fmt.Errorf("%w: connection %d-%d references a missing dot", ErrInvalidLevel, c.DotID1, c.DotID2)
		}
		if c.DotID1 == c.DotID2 {
			return fmt.Errorf("%w: connection %d-%d links a dot to itself", ErrInvalidLevel, c.DotID1, c.DotID2)
		}
	}
	return nil
}

func ExportLevelJSON(level Level) ([]byte, error) {
	return json.MarshalIndent(level, "", "  ")
}

func ImportLevelJSON(data []byte) (Level, error) {
	var level Level
	if err := json.Unmarshal(data, &level); err != nil {
		return Level{}, fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}
	if err := ValidateLevel(level); err != nil {
		return Level{}, err
	}
	return level, nil
}

// LevelStore keeps custom levels as one JSON file per level.
type LevelStore struct{ dir string }

func NewLevelStore(dir string) *LevelStore { return &LevelStore{dir: dir} }

func (s *LevelStore) pathFor(id int) string {
	return filepath.Join(s.dir, "levels", strconv.Itoa(id)+".json")
}

func (s *LevelStore) Save(ctx context.Context, level Level) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ValidateLevel(level); err != nil {
		return err
	}
	target := s.pathFor(level.ID)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create level dir: %w", err)
	}
	data, err := ExportLevelJSON(level)
	if err != nil {
		return fmt.Errorf("encode level %d: %w", level.ID, err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return fmt.Errorf("write level %d: %w", level.ID, err)
	}
	return nil
}

func (s *LevelStore) Load(ctx context.Context, id int) (Level, error) {
	if err := ctx.Err(); err != nil {
		return Level{}, err
	}
	data, err := os.ReadFile(s.pathFor(id))
	if errors.Is(err, os.ErrNotExist) {
		return Level{}, fmt.Errorf("%w: %d", ErrLevelNotFound, id)
	}
	if err != nil {
		return Level{}, fmt.Errorf("read level %d: %w", id, err)
	}
	return ImportLevelJSON(data)
}

// List returns every readable custom level ordered by id. Files that fail
// to parse are skipped.
func (s *LevelStore) List(ctx context.Context) ([]Level, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ents, err := os.ReadDir(filepath.Join(s.dir, "levels"))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list levels: %w", err)
	}

	var out []Level
	for _, e := range ents {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, "levels", e.Name()))
		if err != nil {
			continue
		}
		level, err := ImportLevelJSON(data)
		if err != nil {
			continue
		}
		out = append(out, level)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *LevelStore) Delete(ctx context.Context, id int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := os.Remove(s.pathFor(id))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %d", ErrLevelNotFound, id)
	}
	return err
}

// NextLevelID returns an id not used by any of levels.
func NextLevelID(levels []Level) int {
	next := 1
	for _, l := range levels {
		if l.ID >= next {
			next = l.ID + 1
		}
	}
	return next
}

// AllLevels lists built-in levels followed by stored custom levels. Custom
// levels whose id collides with a built-in one are left out.
func AllLevels(ctx context.Context, store *LevelStore) ([]Level, error) {
	levels := BuiltInLevels()
	if store == nil {
		return levels, nil
	}
	custom, err := store.List(ctx)
	if err != nil {
		return levels, err
	}
	official := make(map[int]bool, len(levels))
	for _, l := range levels {
		official[l.ID] = true
	}
	for _, l := range custom {
		if !official[l.ID] {
			levels = append(levels, l)
		}
	}
	return levels, nil
}
