package tui

import (
	"fmt"
	"strings"

	"github.com/conquest-enhanced/ceconfig/internal/settings"
)

// View implements tea.Model.
func (m Model) View() string {
	switch m.mode {
	case modeScreen, modeField:
		return m.viewScreen()
	case modePicker:
		return m.overlayPicker(m.viewScreen())
	case modeConfirm:
		return m.overlayConfirmDialog(m.viewScreen())
	case modeProgress:
		return m.overlayProgress(m.viewScreen())
	case modeHelp:
		if m.helpReturn == modeTopMenu {
			return m.overlayHelpScreen(m.viewTopMenu())
		}
		return m.overlayHelpScreen(m.viewScreen())
	}
	return m.viewTopMenu()
}

func (m Model) globalHeaderLine() string {
	return globalHeaderBarStyle.Render(centerText("-- CE Configurator --", m.width))
}

// framed wraps box content in background fill so the box is centered.
func (m Model) framed(boxW int, content string) string {
	padL := maxInt(0, (m.width-boxW-2)/2)
	padR := maxInt(0, m.width-padL-boxW-2)
	return bgFillStyle.Render(strings.Repeat("░", padL)) + content +
		bgFillStyle.Render(strings.Repeat("░", padR))
}

func (m Model) bgLine() string {
	return bgFillStyle.Render(strings.Repeat("░", m.width))
}

// messageLine shows the flash message, or the active field's help.
func (m Model) messageLine(boxW int) string {
	switch {
	case m.message != "" && m.messageErr:
		return m.framed(boxW, flashErrorStyle.Render(padRight(" "+m.message, boxW+2)))
	case m.message != "":
		return m.framed(boxW, flashMessageStyle.Render(padRight(" "+m.message, boxW+2)))
	case m.mode != modeTopMenu && m.editField < len(m.fields) && m.fields[m.editField].Help != "":
		return m.framed(boxW, editInfoStyle.Render(centerText(m.fields[m.editField].Help, boxW+2)))
	}
	return m.bgLine()
}

// viewTopMenu renders the top-level menu.
func (m Model) viewTopMenu() string {
	var b strings.Builder
	b.WriteString(m.globalHeaderLine())
	b.WriteByte('\n')

	boxW := 42
	// header + empty + items + empty, plus borders
	boxH := len(m.topItems) + 5
	extraV := maxInt(0, m.height-boxH-3)
	topPad := extraV / 2
	bottomPad := extraV - topPad

	for i := 0; i < topPad; i++ {
		b.WriteString(m.bgLine())
		b.WriteByte('\n')
	}

	side := menuBorderStyle.Render("│")
	empty := m.framed(boxW, side+menuItemStyle.Render(strings.Repeat(" ", boxW))+side)

	b.WriteString(m.framed(boxW, menuBorderStyle.Render("┌"+strings.Repeat("─", boxW)+"┐")))
	b.WriteByte('\n')
	b.WriteString(m.framed(boxW, side+menuHeaderStyle.Render(centerText("Conquest Enhanced Settings", boxW))+side))
	b.WriteByte('\n')
	b.WriteString(empty)
	b.WriteByte('\n')

	for i, item := range m.topItems {
		content := padRight(fmt.Sprintf("  %s. %s", item.Key, item.Label), boxW)
		style := menuItemStyle
		if i == m.topCursor {
			style = menuHighlightStyle
		}
		b.WriteString(m.framed(boxW, side+style.Render(content)+side))
		b.WriteByte('\n')
	}

	b.WriteString(empty)
	b.WriteByte('\n')
	b.WriteString(m.framed(boxW, menuBorderStyle.Render("└"+strings.Repeat("─", boxW)+"┘")))
	b.WriteByte('\n')

	for i := 0; i < bottomPad; i++ {
		b.WriteString(m.bgLine())
		b.WriteByte('\n')
	}

	b.WriteString(m.messageLine(boxW))
	b.WriteByte('\n')
	b.WriteString(helpBarStyle.Render(centerText("Enter - Select  |  F1 - Help  |  ESC - Quit", m.width)))
	return b.String()
}

// viewScreen renders the current settings screen.
func (m Model) viewScreen() string {
	var b strings.Builder

	name := screenTitles[m.screen]
	b.WriteString(titleBarStyle.Render(centerText(fmt.Sprintf("-- %s --", name), m.width)))
	b.WriteByte('\n')

	boxW := 70
	maxRow := 0
	for _, f := range m.fields {
		maxRow = maxInt(maxRow, f.Row)
	}
	visibleRows := maxRow
	if visibleRows > maxFieldRows {
		visibleRows = maxFieldRows
	}
	boxContentH := maxInt(5, visibleRows+2)

	// title + borders + message + help bar
	extraV := maxInt(0, m.height-boxContentH-6)
	topPad := maxInt(1, extraV/2)
	bottomPad := maxInt(0, extraV-topPad)

	for i := 0; i < topPad; i++ {
		b.WriteString(m.bgLine())
		b.WriteByte('\n')
	}

	side := editBorderStyle.Render("│")
	empty := m.framed(boxW, side+fieldDisplayStyle.Render(strings.Repeat(" ", boxW))+side)

	b.WriteString(m.framed(boxW, editBorderStyle.Render("╒"+strings.Repeat("═", boxW)+"╕")))
	b.WriteByte('\n')
	b.WriteString(m.framed(boxW, side+menuHeaderStyle.Render(centerText(m.screenHeader(), boxW))+side))
	b.WriteByte('\n')
	b.WriteString(empty)
	b.WriteByte('\n')

	firstRow := m.fieldScroll + 1
	lastRow := minInt(m.fieldScroll+visibleRows, maxRow)
	for row := firstRow; row <= lastRow; row++ {
		b.WriteString(m.framed(boxW, side+m.renderRow(row, boxW)+side))
		b.WriteByte('\n')
	}
	for row := lastRow + 1; row <= m.fieldScroll+visibleRows; row++ {
		b.WriteString(empty)
		b.WriteByte('\n')
	}
	b.WriteString(empty)
	b.WriteByte('\n')

	info := fmt.Sprintf("Screen %d of %d", int(m.screen)+1, int(numScreens))
	if m.dirty {
		info += "  [modified]"
	}
	b.WriteString(m.framed(boxW, side+editInfoStyle.Render(centerText(info, boxW))+side))
	b.WriteByte('\n')
	b.WriteString(m.framed(boxW, editBorderStyle.Render("╘"+strings.Repeat("═", boxW)+"╛")))
	b.WriteByte('\n')

	for i := 0; i < bottomPad; i++ {
		b.WriteString(m.bgLine())
		b.WriteByte('\n')
	}

	b.WriteString(m.messageLine(boxW))
	b.WriteByte('\n')

	help := "Enter - Edit  |  F2 - Save  |  PgUp/PgDn - Screens  |  ESC - Return"
	if m.screen == scrPeriod {
		help = "Enter - Choose  |  F2 - Apply  |  R - Restore Backup  |  ESC - Return"
	}
	b.WriteString(helpBarStyle.Render(centerText(help, m.width)))
	return b.String()
}

// screenHeader names the file the screen edits.
func (m Model) screenHeader() string {
	switch m.screen {
	case scrGame, scrPeriod, scrPrep:
		return screenTitles[m.screen]
	}
	d := string(m.form.difficulty)
	return fmt.Sprintf("%s  (%s)", screenTitles[m.screen],
		lookupDisplay(choiceItems(settings.Difficulties), d, d))
}

// renderRow renders the field on one row of the edit box.
func (m Model) renderRow(row, boxW int) string {
	for i, f := range m.fields {
		if f.Row != row {
			continue
		}
		rendered, rawW := m.renderField(i, f)
		padAfter := maxInt(0, boxW-2-rawW)
		return fieldDisplayStyle.Render("  ") + rendered +
			fieldDisplayStyle.Render(strings.Repeat(" ", padAfter))
	}
	return fieldDisplayStyle.Render(strings.Repeat(" ", boxW))
}

func (m Model) renderField(idx int, f fieldDef) (string, int) {
	active := m.editField == idx
	label := padRight(f.Label, 20) + " : "
	rawW := len(label) + f.Width

	labelStyle := fieldLabelStyle
	if f.Type == ftDisplay {
		labelStyle = fieldDimStyle
	}

	var value string
	if f.Get != nil {
		value = f.Get()
	}

	if active && m.mode == modeField {
		return labelStyle.Render(label) + m.textInput.View(), rawW
	}
	if active && f.Type != ftDisplay {
		v := padRight(value, f.Width)
		v = strings.TrimRight(v, " ")
		fill := strings.Repeat(string(fieldFillChar), maxInt(0, f.Width-len([]rune(v))))
		return labelStyle.Render(label) + fieldEditStyle.Render(v+fill), rawW
	}
	return labelStyle.Render(label) + fieldDisplayStyle.Render(padRight(value, f.Width)), rawW
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
