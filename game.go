package main

import "sort"

// Event is delivered to OnChange listeners after every state change.
// Reason is set for EventLineRejected, Progress for EventAttemptConcluded.
type Event struct {
	Kind     EventKind
	LineID   int
	Reason   RejectReason
	Progress LevelProgress
}

type GameOption func(*Game)

func WithMaxLives(n int) GameOption {
	return func(g *Game) {
		if n > 0 {
			g.state.MaxLives = n
			g.state.Lives = n
		}
	}
}

func WithDotThreshold(t float64) GameOption {
	return func(g *Game) {
		if t > 0 {
			g.threshold = t
		}
	}
}

// Game is the puzzle state machine. It is not safe for concurrent use; the
// host must deliver pointer events in the order they were produced.
type Game struct {
	state      GameState
	threshold  float64
	nextLineID int
	redoStack  []DrawnLine
	concluded  bool
	listeners  []func(Event)
}

func NewGame(opts ...GameOption) *Game {
	g := &Game{
		state: GameState{
			Lives:         defaultMaxLives,
			MaxLives:      defaultMaxLives,
			SelectedDotID: noDot,
		},
		threshold: DefaultDotThreshold,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// OnChange registers a listener. Listeners run synchronously, in
// registration order, and must not call back into the Game.
func (g *Game) OnChange(fn func(Event)) {
	g.listeners = append(g.listeners, fn)
}

func (g *Game) emit(e Event) {
	for _, fn := range g.listeners {
		fn(e)
	}
}

// State returns a deep copy of the current state.
func (g *Game) State() GameState {
	s := g.state
	s.DrawnLines = make([]DrawnLine, len(g.state.DrawnLines))
	for i, l := range g.state.DrawnLines {
		s.DrawnLines[i] = l.clone()
	}
	if g.state.CurrentLine != nil {
		cur := g.state.CurrentLine.clone()
		s.CurrentLine = &cur
	}
	return s
}

// DotAt resolves a grid point to a dot of the loaded level using the game's
// hit threshold.
func (g *Game) DotAt(p Point) (Dot, bool) {
	if g.state.Level == nil {
		return Dot{}, false
	}
	return FindDotAtPoint(p, g.state.Level.Dots, g.threshold)
}

func (g *Game) LoadLevel(level Level) {
	g.state.Level = &level
	g.reset()
	g.emit(Event{Kind: EventLevelLoaded})
}

func (g *Game) reset() {
	g.state.DrawnLines = nil
	g.state.CurrentLine = nil
	g.state.Lives = g.state.MaxLives
	g.state.IsDrawing = false
	g.state.IsComplete = false
	g.state.SelectedDotID = noDot
	g.redoStack = nil
	g.concluded = false
}

// RestartLevel starts a fresh attempt on the loaded level. An attempt that
// made progress and has not concluded yet is reported as not completed.
func (g *Game) RestartLevel() {
	if g.state.Level == nil {
		return
	}
	if g.madeProgress() {
		g.conclude(false)
	}
	g.restart()
}

func (g *Game) madeProgress() bool {
	return len(g.state.DrawnLines) > 0 || g.state.Lives < g.state.MaxLives
}

// Abandon ends the running attempt when the player walks away from the level.
// It reports the attempt the same way RestartLevel does but leaves the board
// as it is.
func (g *Game) Abandon() {
	if g.state.Level == nil {
		return
	}
	g.CancelDrawing()
	if g.madeProgress() {
		g.conclude(false)
	}
}

func (g *Game) restart() {
	g.reset()
	g.emit(Event{Kind: EventAttemptRestarted})
}

func (g *Game) StartDrawing(dotID int, color string, start Point) {
	if g.state.Level == nil || g.state.IsDrawing {
		return
	}
	if _, ok := g.state.Level.dotByID(dotID); !ok {
		return
	}

	g.nextLineID++
	g.state.CurrentLine = &DrawnLine{
		ID:        g.nextLineID,
		Points:    []Point{start},
		Color:     color,
		FromDotID: dotID,
		ToDotID:   noDot,
	}
	g.state.IsDrawing = true
	g.state.SelectedDotID = dotID
	g.emit(Event{Kind: EventDrawingStarted, LineID: g.nextLineID})
}

// AddPointToCurrentLine appends p and checks only the newest segment against
// committed lines. A crossing costs a life and discards the current line.
func (g *Game) AddPointToCurrentLine(p Point) {
	if !g.state.IsDrawing || g.state.CurrentLine == nil {
		return
	}

	line := g.state.CurrentLine
	line.Points = append(line.Points, p)

	if n := len(line.Points); n >= 2 {
		existing := make([][]Point, len(g.state.DrawnLines))
		for i, l := range g.state.DrawnLines {
			existing[i] = l.Points
		}
		if CheckMultiLineOverlap(line.Points[n-2:], existing) {
			g.handleOverlap()
			return
		}
	}
	g.emit(Event{Kind: EventPointAdded, LineID: line.ID})
}

func (g *Game) handleOverlap() {
	id := g.state.CurrentLine.ID
	g.clearCurrent()
	g.emit(Event{Kind: EventLineRejected, LineID: id, Reason: RejectOverlap})
	g.LoseLife()
}

// FinishDrawing ends the current line at end, which may be nil when the
// pointer was released without a position. A missing end or one off the grid
// is rejected like a release on empty space.
func (g *Game) FinishDrawing(end *Point) {
	if !g.state.IsDrawing || g.state.CurrentLine == nil {
		return
	}

	line := g.state.CurrentLine
	g.clearCurrent()

	target, reason := g.resolveTarget(line, end)
	if reason != RejectNone {
		g.emit(Event{Kind: EventLineRejected, LineID: line.ID, Reason: reason})
		g.LoseLife()
		return
	}

	line.ToDotID = target.ID
	line.IsComplete = true
	g.state.DrawnLines = append(g.state.DrawnLines, *line)
	g.redoStack = nil
	g.emit(Event{Kind: EventLineCommitted, LineID: line.ID})
	g.checkWinCondition()
}

func (g *Game) resolveTarget(line *DrawnLine, end *Point) (Dot, RejectReason) {
	if end == nil || !g.onBoard(*end) {
		return Dot{}, RejectNoDot
	}
	target, ok := g.DotAt(*end)
	if !ok {
		return Dot{}, RejectNoDot
	}
	if target.ID == line.FromDotID {
		return Dot{}, RejectSameDot
	}
	start, ok := g.state.Level.dotByID(line.FromDotID)
	if !ok || start.Color != target.Color {
		return Dot{}, RejectColorMismatch
	}
	return target, RejectNone
}

// onBoard reports whether p lies on the level grid. Levels without a grid
// size accept any point.
func (g *Game) onBoard(p Point) bool {
	w, h := float64(g.state.Level.GridWidth), float64(g.state.Level.GridHeight)
	if w <= 0 || h <= 0 {
		return true
	}
	return p.X >= 0 && p.Y >= 0 && p.X <= w && p.Y <= h
}

// CancelDrawing drops the current line without a penalty.
func (g *Game) CancelDrawing() {
	if !g.state.IsDrawing {
		return
	}
	id := g.state.CurrentLine.ID
	g.clearCurrent()
	g.emit(Event{Kind: EventDrawingCancelled, LineID: id})
}

func (g *Game) clearCurrent() {
	g.state.CurrentLine = nil
	g.state.IsDrawing = false
	g.state.SelectedDotID = noDot
}

// LoseLife decrements lives. Running out restarts the attempt on the same
// level.
func (g *Game) LoseLife() {
	if g.state.Lives > 0 {
		g.state.Lives--
	}
	g.emit(Event{Kind: EventLifeLost})

	if g.state.Lives == 0 {
		g.conclude(false)
		g.restart()
	}
}

func (g *Game) checkWinCondition() {
	if g.state.Level == nil || g.state.IsComplete {
		return
	}
	if !g.allConnectionsMade() {
		return
	}
	g.state.IsComplete = true
	g.emit(Event{Kind: EventLevelComplete})
	g.conclude(true)
}

func (g *Game) allConnectionsMade() bool {
	made := make(map[Connection]bool, len(g.state.DrawnLines))
	for _, l := range g.state.DrawnLines {
		if l.IsComplete {
			made[Connection{DotID1: l.FromDotID, DotID2: l.ToDotID}.Canonical()] = true
		}
	}
	for _, req := range g.state.Level.RequiredConnections {
		if !made[req.Canonical()] {
			return false
		}
	}
	return true
}

// conclude emits the progress fact for the running attempt at most once.
func (g *Game) conclude(completed bool) {
	if g.concluded || g.state.Level == nil {
		return
	}
	g.concluded = true
	fact := LevelProgress{
		LevelID:   g.state.Level.ID,
		Completed: completed,
		Attempts:  1,
	}
	if completed {
		fact.BestLives = g.state.Lives
	}
	g.emit(Event{Kind: EventAttemptConcluded, Progress: fact})
}

// ConnectedDots returns the ids of dots touched by completed lines, ascending.
func (g *Game) ConnectedDots() []int {
	seen := make(map[int]bool)
	for _, l := range g.state.DrawnLines {
		if l.IsComplete {
			seen[l.FromDotID] = true
			seen[l.ToDotID] = true
		}
	}
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
