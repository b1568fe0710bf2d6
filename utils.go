package main

import (
	"fmt"
	"image/color"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"golang.org/x/image/colornames"
)

func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

func writeClipboardText(text string) error {
	return clipboard.WriteAll(text)
}

// cleanClipboardText strips a byte order mark, control characters and
// surrounding whitespace so pasted JSON decodes cleanly.
func cleanClipboardText(text string) string {
	text = strings.TrimPrefix(text, "\ufeff")
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\t' || r >= 32 {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// pasteLevel reads a level from the clipboard and validates it.
func pasteLevel() (Level, error) {
	text, err := readClipboardText()
	if err != nil {
		return Level{}, fmt.Errorf("read clipboard: %w", err)
	}
	return ImportLevelJSON([]byte(cleanClipboardText(text)))
}

func copyLevel(level Level) error {
	data, err := ExportLevelJSON(level)
	if err != nil {
		return err
	}
	if err := writeClipboardText(string(data)); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}

// parseColor accepts #rgb, #rrggbb, #rrggbbaa or an SVG color name. Unknown
// values render grey.
func parseColor(s string) color.Color {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		if c, ok := parseHex(s[1:]); ok {
			return c
		}
		return colornames.Gray
	}
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return c
	}
	return colornames.Gray
}

func parseHex(h string) (color.RGBA, bool) {
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return color.RGBA{}, false
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, false
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, true
}

// colorHex normalizes any accepted color to #rrggbb for terminal styling.
func colorHex(s string) string {
	r, g, b, _ := parseColor(s).RGBA()
	return fmt.Sprintf("#%02X%02X%02X", r>>8, g>>8, b>>8)
}
