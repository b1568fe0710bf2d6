package main

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	runeEmpty     = ' '
	runeGrid      = '·'
	runeLine      = '•'
	runeDrawing   = '∘'
	runeDot       = '●'
	runeConnected = '◉'
	runeSelected  = '◎'
	connectedGrey = "#555555"
	gridGrey      = "#2A2F45"
)

// Canvas maps terminal cells onto the level grid and rasterizes game state
// into styled rows. Each cell stands for the grid point at its center.
type Canvas struct {
	cols      int
	rows      int
	gridW     float64
	gridH     float64
	tolerance float64
	tension   float64
}

type cell struct {
	r     rune
	color string
	bold  bool
}

func NewCanvas(cols, rows int, tolerance, tension float64) *Canvas {
	c := &Canvas{gridW: 800, gridH: 600, tolerance: tolerance, tension: tension}
	c.Resize(cols, rows)
	return c
}

func (c *Canvas) Resize(cols, rows int) {
	c.cols = max(cols, 1)
	c.rows = max(rows, 1)
}

func (c *Canvas) SetLevel(level *Level) {
	if level == nil || level.GridWidth <= 0 || level.GridHeight <= 0 {
		return
	}
	c.gridW = float64(level.GridWidth)
	c.gridH = float64(level.GridHeight)
}

func (c *Canvas) cellSize() (float64, float64) {
	return c.gridW / float64(c.cols), c.gridH / float64(c.rows)
}

func (c *Canvas) InBounds(cellX, cellY int) bool {
	return cellX >= 0 && cellY >= 0 && cellX < c.cols && cellY < c.rows
}

// ToGrid converts a terminal cell to the grid point at its center.
func (c *Canvas) ToGrid(cellX, cellY int) Point {
	cw, ch := c.cellSize()
	return Point{X: (float64(cellX) + 0.5) * cw, Y: (float64(cellY) + 0.5) * ch}
}

// ToCell converts a grid point to the cell containing it, clamped to the
// canvas.
func (c *Canvas) ToCell(p Point) (int, int) {
	cw, ch := c.cellSize()
	x := int(math.Floor(p.X / cw))
	y := int(math.Floor(p.Y / ch))
	return min(max(x, 0), c.cols-1), min(max(y, 0), c.rows-1)
}

// Render draws the board. Dots in connected are greyed out.
func (c *Canvas) Render(state GameState, connected []int) []string {
	grid := make([][]cell, c.rows)
	for y := range grid {
		grid[y] = make([]cell, c.cols)
		for x := range grid[y] {
			grid[y][x] = cell{r: runeEmpty}
		}
	}
	if state.Level == nil {
		return c.flatten(grid)
	}

	c.drawGrid(grid)

	cw, ch := c.cellSize()
	spacing := math.Min(cw, ch) / 2
	for _, line := range state.DrawnLines {
		path := DisplayPath(line, c.tolerance, c.tension)
		c.plot(grid, EvenlySpacedPoints(path, spacing), cell{r: runeLine, color: line.Color})
	}
	if state.CurrentLine != nil {
		cur := state.CurrentLine
		c.plot(grid, EvenlySpacedPoints(cur.Points, spacing), cell{r: runeDrawing, color: cur.Color, bold: true})
	}

	done := make(map[int]bool, len(connected))
	for _, id := range connected {
		done[id] = true
	}
	for _, dot := range state.Level.Dots {
		x, y := c.ToCell(dot.Center())
		switch {
		case dot.ID == state.SelectedDotID:
			grid[y][x] = cell{r: runeSelected, color: dot.Color, bold: true}
		case done[dot.ID]:
			grid[y][x] = cell{r: runeConnected, color: connectedGrey}
		default:
			grid[y][x] = cell{r: runeDot, color: dot.Color, bold: true}
		}
	}
	return c.flatten(grid)
}

func (c *Canvas) drawGrid(grid [][]cell) {
	for gx := gridSpacing; gx < c.gridW; gx += gridSpacing {
		for gy := gridSpacing; gy < c.gridH; gy += gridSpacing {
			x, y := c.ToCell(Point{X: gx, Y: gy})
			grid[y][x] = cell{r: runeGrid, color: gridGrey}
		}
	}
}

func (c *Canvas) plot(grid [][]cell, points []Point, v cell) {
	for _, p := range points {
		x, y := c.ToCell(p)
		grid[y][x] = v
	}
}

func (c *Canvas) flatten(grid [][]cell) []string {
	styles := make(map[string]lipgloss.Style)
	rows := make([]string, len(grid))
	for y, row := range grid {
		var b strings.Builder
		for _, v := range row {
			if v.color == "" {
				b.WriteRune(v.r)
				continue
			}
			key := v.color
			if v.bold {
				key += "!"
			}
			st, ok := styles[key]
			if !ok {
				st = lipgloss.NewStyle().Foreground(lipgloss.Color(colorHex(v.color))).Bold(v.bold)
				styles[key] = st
			}
			b.WriteString(st.Render(string(v.r)))
		}
		rows[y] = b.String()
	}
	return rows
}
