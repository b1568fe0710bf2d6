package main

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

var ErrNothingToExport = errors.New("nothing to export")

var (
	backgroundTop    = color.RGBA{0x1a, 0x1a, 0x2e, 0xff}
	backgroundBottom = color.RGBA{0x16, 0x21, 0x3e, 0xff}
)

const cropPadding = 2 * defaultDotRadius

// renderBoard paints the board at grid resolution: background, committed
// lines as quadratic curves, the line in progress, then dots on top. With
// crop the image covers only the dots and lines plus padding.
func renderBoard(state GameState, tolerance float64, connected []int, crop bool) (*gg.Context, error) {
	if state.Level == nil {
		return nil, ErrNothingToExport
	}
	level := state.Level
	w, h := level.GridWidth, level.GridHeight
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: grid is %dx%d", ErrInvalidLevel, w, h)
	}

	var minP Point
	if crop {
		lo, hi, ok := PathBounds(contentPoints(state))
		if !ok {
			return nil, ErrNothingToExport
		}
		minP = Point{X: max(lo.X-cropPadding, 0), Y: max(lo.Y-cropPadding, 0)}
		maxP := Point{X: min(hi.X+cropPadding, float64(w)), Y: min(hi.Y+cropPadding, float64(h))}
		w = int(math.Ceil(maxP.X - minP.X))
		h = int(math.Ceil(maxP.Y - minP.Y))
	}

	dc := gg.NewContext(w, h)
	drawBackground(dc, float64(w), float64(h))
	dc.Translate(-minP.X, -minP.Y)

	for _, line := range state.DrawnLines {
		drawSmoothCurve(dc, DecimatePoints(line.Points, tolerance), line.Color, lineWidth)
	}
	if state.CurrentLine != nil {
		drawSmoothCurve(dc, state.CurrentLine.Points, state.CurrentLine.Color, lineWidth)
	}

	done := make(map[int]bool, len(connected))
	for _, id := range connected {
		done[id] = true
	}
	for _, dot := range level.Dots {
		drawDot(dc, dot, dot.ID == state.SelectedDotID, done[dot.ID])
	}

	dc.Identity()
	if err := drawCaption(dc, state); err != nil {
		return nil, err
	}
	return dc, nil
}

// contentPoints collects every dot center and line point of state.
func contentPoints(state GameState) []Point {
	var pts []Point
	for _, dot := range state.Level.Dots {
		pts = append(pts, dot.Center())
	}
	for _, line := range state.DrawnLines {
		pts = append(pts, line.Points...)
	}
	if state.CurrentLine != nil {
		pts = append(pts, state.CurrentLine.Points...)
	}
	return pts
}

func drawBackground(dc *gg.Context, w, h float64) {
	grad := gg.NewLinearGradient(0, 0, 0, h)
	grad.AddColorStop(0, backgroundTop)
	grad.AddColorStop(1, backgroundBottom)
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, w, h)
	dc.Fill()

	dc.SetRGBA(1, 1, 1, 0.05)
	dc.SetLineWidth(1)
	for x := 0.0; x < w; x += gridSpacing {
		dc.DrawLine(x, 0, x, h)
		dc.Stroke()
	}
	for y := 0.0; y < h; y += gridSpacing {
		dc.DrawLine(0, y, w, y)
		dc.Stroke()
	}
}

func drawSmoothCurve(dc *gg.Context, points []Point, colorName string, width float64) {
	segs := QuadCurve(points)
	if len(segs) == 0 {
		return
	}
	dc.SetColor(parseColor(colorName))
	dc.SetLineWidth(width)
	dc.SetLineCapRound()
	dc.SetLineJoinRound()

	dc.MoveTo(points[0].X, points[0].Y)
	for _, s := range segs {
		dc.QuadraticTo(s.Ctrl.X, s.Ctrl.Y, s.End.X, s.End.Y)
	}
	dc.Stroke()
}

func drawDot(dc *gg.Context, dot Dot, highlighted, connected bool) {
	r := dot.DrawRadius()
	fill := parseColor(dot.Color)
	if connected {
		fill = parseColor(connectedGrey)
	}

	dc.SetColor(fill)
	dc.DrawCircle(dot.X, dot.Y, r)
	dc.Fill()

	dc.SetColor(color.White)
	dc.DrawCircle(dot.X, dot.Y, r*0.4)
	dc.Fill()

	if highlighted {
		dc.SetColor(color.White)
		dc.SetLineWidth(3)
	} else {
		dc.SetHexColor("#333333")
		dc.SetLineWidth(2)
	}
	dc.DrawCircle(dot.X, dot.Y, r)
	dc.Stroke()
}

func drawCaption(dc *gg.Context, state GameState) error {
	ttfFont, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return fmt.Errorf("failed to parse font: %w", err)
	}
	face := truetype.NewFace(ttfFont, &truetype.Options{
		Size:    16,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	dc.SetFontFace(face)

	caption := fmt.Sprintf("%s   lives %d/%d", state.Level.Name, state.Lives, state.MaxLives)
	if state.IsComplete {
		caption += "   complete"
	}
	dc.SetColor(color.White)
	dc.DrawString(caption, 12, 24)
	return nil
}

// ExportPNG writes a PNG snapshot of state to w.
func ExportPNG(w io.Writer, state GameState, tolerance float64, connected []int) error {
	dc, err := renderBoard(state, tolerance, connected, false)
	if err != nil {
		return err
	}
	return dc.EncodePNG(w)
}

// SavePNG writes a PNG snapshot of state to filename.
func SavePNG(filename string, state GameState, tolerance float64, connected []int) error {
	return savePNG(filename, state, tolerance, connected, false)
}

// SaveCroppedPNG is SavePNG trimmed to the area holding dots and lines.
func SaveCroppedPNG(filename string, state GameState, tolerance float64, connected []int) error {
	return savePNG(filename, state, tolerance, connected, true)
}

func savePNG(filename string, state GameState, tolerance float64, connected []int, crop bool) error {
	dc, err := renderBoard(state, tolerance, connected, crop)
	if err != nil {
		return err
	}
	if err := dc.SavePNG(filename); err != nil {
		return fmt.Errorf("save png: %w", err)
	}
	return nil
}
