package tui

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// fieldType defines the edit behavior for a field.
type fieldType int

const (
	ftString  fieldType = iota // Free-text input
	ftInteger                  // Whole number with Min/Max
	ftDecimal                  // Number with optional fraction, Min/Max
	ftYesNo                    // Y/N toggle
	ftDisplay                  // Read-only
	ftLookup                   // Picked from LookupItems
)

// LookupItem is one choice in the lookup picker.
type LookupItem struct {
	Value   string
	Display string
}

// fieldDef describes one row of a settings screen.
type fieldDef struct {
	Label       string
	Help        string // shown on the message line while the field is active
	Type        fieldType
	Row         int
	Width       int
	Min         float64
	Max         float64
	Get         func() string
	Set         func(val string) error
	LookupItems func() []LookupItem
	AfterSet    func(m *Model) // runs after a successful Set
}

// validate checks val against the field's type and range and returns the
// normalized value.
func (f fieldDef) validate(val string) (string, error) {
	val = strings.TrimSpace(val)
	switch f.Type {
	case ftInteger:
		n, err := strconv.Atoi(val)
		if err != nil {
			return "", fmt.Errorf("not a whole number")
		}
		if float64(n) < f.Min || float64(n) > f.Max {
			return "", fmt.Errorf("must be %g-%g", f.Min, f.Max)
		}
		return strconv.Itoa(n), nil
	case ftDecimal:
		v, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return "", fmt.Errorf("not a number")
		}
		if v < f.Min || v > f.Max {
			return "", fmt.Errorf("must be %g-%g", f.Min, f.Max)
		}
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case ftYesNo:
		upper := strings.ToUpper(val)
		if upper != "Y" && upper != "N" {
			return "", fmt.Errorf("must be Y or N")
		}
		return upper, nil
	}
	return val, nil
}

// lookupDisplay returns the display text for the item whose value is v.
func lookupDisplay(items []LookupItem, v, fallback string) string {
	for _, it := range items {
		if it.Value == v {
			return it.Display
		}
	}
	return fallback
}

func boolToYN(b bool) string {
	if b {
		return "Y"
	}
	return "N"
}

// padRight pads s with spaces to width runes, truncating if longer.
func padRight(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return string([]rune(s)[:width])
	}
	return s + strings.Repeat(" ", width-n)
}

// centerText centers s within width using rune width.
func centerText(s string, width int) string {
	vis := utf8.RuneCountInString(s)
	if vis >= width {
		return s
	}
	pad := (width - vis) / 2
	return strings.Repeat(" ", pad) + s + strings.Repeat(" ", width-pad-vis)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
