package ui

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/cellbuf"
)

// Canvas composes the rendered base view and its overlays (help, form,
// toasts) in a cell buffer so an overlay can cover part of a line
// without breaking the ANSI sequences around it.
type Canvas struct {
	screen *cellbuf.Screen
	writer *cellbuf.ScreenWriter
	width  int
	height int
}

func NewCanvas(width, height int) *Canvas {
	width = max(width, 1)
	height = max(height, 1)
	screen := cellbuf.NewScreen(io.Discard, width, height, &cellbuf.ScreenOptions{})
	return &Canvas{
		screen: screen,
		writer: cellbuf.NewScreenWriter(screen),
		width:  width,
		height: height,
	}
}

// DrawStringAt writes block with its top-left corner at x,y. Every line
// starts at column x.
func (c *Canvas) DrawStringAt(x, y int, block string) {
	lines := splitLines(block)
	for i, line := range lines {
		if y+i >= c.height {
			return
		}
		if line != "" {
			c.writer.PrintCropAt(x, y+i, line, "")
		}
	}
}

// centerOverlay centers block in the area between the top and bottom
// margins.
func (c *Canvas) centerOverlay(block string, top, bottom int) {
	lines := splitLines(block)
	if len(lines) == 0 {
		return
	}
	top, bottom = max(top, 0), max(bottom, 0)
	w := min(maxLineWidth(lines), c.width)
	h := len(lines)

	y := top
	if usable := c.height - top - bottom; usable > h {
		y = top + (usable-h)/2
	}
	y = max(min(y, c.height-bottom-h), top, 0)
	x := max((c.width-w)/2, 0)
	c.DrawStringAt(x, y, block)
}

// bottomRightOverlay anchors block to the bottom-right corner, inset by
// padding cells.
func (c *Canvas) bottomRightOverlay(block string, padding int) {
	lines := splitLines(block)
	if len(lines) == 0 {
		return
	}
	padding = max(padding, 0)
	x := max(c.width-maxLineWidth(lines)-padding, 0)
	y := max(c.height-len(lines)-padding, 0)
	c.DrawStringAt(x, y, block)
}

// Render returns the composed frame as newline separated lines.
func (c *Canvas) Render() string {
	raw := cellbuf.Render(c.screen)
	_ = c.screen.Close()
	return strings.ReplaceAll(raw, "\r\n", "\n")
}

func splitLines(block string) []string {
	if block == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(block, "\r\n", "\n"), "\n")
}

func maxLineWidth(lines []string) int {
	widest := 0
	for _, line := range lines {
		widest = max(widest, lipgloss.Width(line))
	}
	return widest
}
