package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// overlay draws box lines centered over background, keeping the background
// visible on both sides of the box.
func (m Model) overlay(background string, box []string, boxW int) string {
	lines := strings.Split(background, "\n")
	startRow := maxInt(0, (m.height-len(box))/2)
	startCol := maxInt(0, (m.width-boxW)/2)
	endCol := startCol + boxW

	for i, bl := range box {
		row := startRow + i
		if row >= len(lines) {
			break
		}
		left := padToCol(lines[row], startCol)
		right := skipToCol(lines[row], endCol)
		lines[row] = left + bl + right
	}
	return strings.Join(lines, "\n")
}

// padToCol truncates or pads a line to reach a specific column.
func padToCol(line string, col int) string {
	vis := lipgloss.Width(line)
	if vis >= col {
		return truncateToVisual(line, col)
	}
	return line + strings.Repeat(" ", col-vis)
}

// truncateToVisual truncates s to n visible runes, keeping escape sequences.
func truncateToVisual(s string, n int) string {
	var b strings.Builder
	inEsc := false
	count := 0
	for _, r := range s {
		if count >= n && !inEsc {
			break
		}
		b.WriteRune(r)
		if r == '\x1b' {
			inEsc = true
			continue
		}
		if inEsc {
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEsc = false
			}
			continue
		}
		count++
	}
	return b.String() + "\x1b[0m"
}

// skipToCol returns everything from visible column n onward, prefixed with
// the last escape sequence seen so the remainder keeps its style.
func skipToCol(s string, n int) string {
	var lastESC, curESC strings.Builder
	inEsc := false
	count := 0
	for i, r := range s {
		if r == '\x1b' {
			inEsc = true
			curESC.Reset()
			curESC.WriteRune(r)
			continue
		}
		if inEsc {
			curESC.WriteRune(r)
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEsc = false
				lastESC.Reset()
				lastESC.WriteString(curESC.String())
			}
			continue
		}
		if count == n {
			return lastESC.String() + s[i:]
		}
		count++
	}
	return ""
}

// dialogBox renders a titled box of fixed inner width with text lines
// centered in it.
func dialogBox(border, title, text lipgloss.Style, inner int, heading string, body []string) []string {
	side := border.Render("│")
	out := []string{
		border.Render("┌" + strings.Repeat("─", inner) + "┐"),
		side + title.Render(centerText(heading, inner)) + side,
		side + text.Render(strings.Repeat(" ", inner)) + side,
	}
	for _, l := range body {
		out = append(out, side+text.Render(padRight(centerText(l, inner), inner))+side)
	}
	return out
}
