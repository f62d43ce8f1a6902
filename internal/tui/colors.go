package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// DOS CGA palette mapped to ANSI color indices (0-15).
var dosColors = [16]string{
	"0",  // Black
	"4",  // Blue
	"2",  // Green
	"6",  // Cyan
	"1",  // Red
	"5",  // Magenta
	"3",  // Brown
	"7",  // Light Gray
	"8",  // Dark Gray
	"12", // Light Blue
	"10", // Light Green
	"14", // Light Cyan
	"9",  // Light Red
	"13", // Light Magenta
	"11", // Yellow
	"15", // White
}

// DOS background colors; only the low eight are valid backgrounds.
var dosBgColors = [8]string{"0", "4", "2", "6", "1", "5", "3", "7"}

// dosColor builds a style from a DOS background and foreground pair.
func dosColor(bg, fg int) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(dosColors[fg&0x0F])).
		Background(lipgloss.Color(dosBgColors[bg&0x07]))
}

var globalHeaderBarStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color(dosColors[15])).
	Background(lipgloss.Color("8")).
	Bold(true)

var titleBarStyle = dosColor(0, 15).Bold(true).Background(lipgloss.Color("8"))

// Screen background: gray shade on blue.
var bgFillStyle = dosColor(1, 7)

var (
	menuBorderStyle    = dosColor(1, 9)
	menuHeaderStyle    = dosColor(1, 14)
	menuItemStyle      = dosColor(1, 15)
	menuHighlightStyle = dosColor(0, 14)
)

var (
	fieldLabelStyle   = dosColor(1, 15)
	fieldDisplayStyle = dosColor(1, 14)
	fieldEditStyle    = dosColor(1, 14)
	fieldDimStyle     = dosColor(1, 7)
	editBorderStyle   = dosColor(1, 9)
	editInfoStyle     = dosColor(1, 9)
)

var (
	dialogBorderStyle = dosColor(5, 15)
	dialogTitleStyle  = lipgloss.NewStyle().
				Foreground(lipgloss.Color(dosColors[15])).
				Background(lipgloss.Color(dosColors[13])).
				Bold(true)
	dialogTextStyle = dosColor(5, 14)
)

var (
	helpBoxStyle   = dosColor(4, 15)
	helpTitleStyle = dosColor(4, 14)
	helpBarStyle   = dosColor(0, 15).Bold(true).Background(lipgloss.Color("8"))
)

var (
	flashMessageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(dosColors[14]))
	flashErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(dosColors[12])).Bold(true)
)

var buttonActiveStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color(dosColors[15])).
	Background(lipgloss.Color(dosColors[0])).
	Bold(true)

var buttonInactiveStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color(dosColors[15])).
	Background(lipgloss.Color(dosColors[5]))

// Progress overlay: cyan box, green bar.
var (
	progressBoxStyle   = dosColor(3, 0)
	progressTitleStyle = dosColor(3, 15).Bold(true)
	progressFillStyle  = dosColor(2, 10)
	progressEmptyStyle = dosColor(3, 8)
)

const fieldFillChar = '░'
