package main

// UndoLastLine removes the most recent committed line. Completion is cleared
// even when the removed line was not a required connection; it is only
// re-evaluated on the next commit or redo.
func (g *Game) UndoLastLine() {
	n := len(g.state.DrawnLines)
	if n == 0 {
		return
	}

	line := g.state.DrawnLines[n-1]
	g.state.DrawnLines = g.state.DrawnLines[:n-1]
	g.redoStack = append(g.redoStack, line)
	g.state.IsComplete = false
	g.emit(Event{Kind: EventLineUndone, LineID: line.ID})
}

// RedoLine re-commits the most recently undone line. Redo history is dropped
// by any new commit, so the restored line cannot cross the current ones.
func (g *Game) RedoLine() {
	n := len(g.redoStack)
	if n == 0 || g.state.IsDrawing {
		return
	}

	line := g.redoStack[n-1]
	g.redoStack = g.redoStack[:n-1]
	g.state.DrawnLines = append(g.state.DrawnLines, line)
	g.emit(Event{Kind: EventLineRedone, LineID: line.ID})
	g.checkWinCondition()
}

func (g *Game) CanUndo() bool { return len(g.state.DrawnLines) > 0 }

func (g *Game) CanRedo() bool { return len(g.redoStack) > 0 }
