package main

import "log/slog"

type Dot struct {
	ID     int     `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Color  string  `json:"color"`
	Radius float64 `json:"radius,omitempty"`
}

func (d Dot) Center() Point {
	return Point{X: d.X, Y: d.Y}
}

// DrawRadius is the radius used for painting; zero means the default.
func (d Dot) DrawRadius() float64 {
	if d.Radius > 0 {
		return d.Radius
	}
	return defaultDotRadius
}

type Connection struct {
	DotID1 int `json:"dotId1"`
	DotID2 int `json:"dotId2"`
}

// Canonical orders the pair ascending so direction is ignored in comparisons.
func (c Connection) Canonical() Connection {
	if c.DotID1 > c.DotID2 {
		return Connection{DotID1: c.DotID2, DotID2: c.DotID1}
	}
	return c
}

type DrawnLine struct {
	ID         int     `json:"id"`
	Points     []Point `json:"points"`
	Color      string  `json:"color"`
	FromDotID  int     `json:"fromDotId"`
	ToDotID    int     `json:"toDotId"` // noDot until committed
	IsComplete bool    `json:"isComplete"`
}

func (l DrawnLine) clone() DrawnLine {
	l.Points = append([]Point(nil), l.Points...)
	return l
}

type Level struct {
	ID                  int          `json:"id"`
	Name                string       `json:"name"`
	Dots                []Dot        `json:"dots"`
	RequiredConnections []Connection `json:"requiredConnections"`
	GridWidth           int          `json:"gridWidth"`
	GridHeight          int          `json:"gridHeight"`
	IsOfficial          bool         `json:"isOfficial,omitempty"`
}

func (l *Level) dotByID(id int) (Dot, bool) {
	for _, d := range l.Dots {
		if d.ID == id {
			return d, true
		}
	}
	return Dot{}, false
}

type GameState struct {
	Level         *Level
	DrawnLines    []DrawnLine
	CurrentLine   *DrawnLine
	Lives         int
	MaxLives      int
	IsDrawing     bool
	IsComplete    bool
	SelectedDotID int
}

// LevelProgress is the fact emitted when a level attempt concludes.
type LevelProgress struct {
	LevelID   int  `json:"levelId"`
	Completed bool `json:"completed"`
	BestLives int  `json:"bestLives"`
	Attempts  int  `json:"attempts"`
}

type model struct {
	width          int
	height         int
	mode           Mode
	prevMode       Mode
	help           bool
	levels         []Level
	selectedLevel  int
	game           *Game
	canvas         *Canvas
	config         *Config
	levelStore     *LevelStore
	session        *session
	confirmAction  ConfirmAction
	errorMessage   string
	successMessage string
	logger         *slog.Logger
}

// session carries what game event listeners write to. It is shared by every
// copy of the bubbletea model.
type session struct {
	store    *ProgressStore
	progress map[int]LevelProgress
	notice   string
	logger   *slog.Logger
}
