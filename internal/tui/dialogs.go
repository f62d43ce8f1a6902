package tui

import (
	"fmt"
	"strings"

	"github.com/conquest-enhanced/ceconfig/internal/settings"
)

const dialogW = 64

// overlayConfirmDialog renders the Yes/No dialog for the pending confirm.
func (m Model) overlayConfirmDialog(background string) string {
	var title string
	var body []string
	switch m.confirm {
	case confirmLeave:
		title = "-- Unsaved Changes --"
		body = []string{"Save changes before leaving?"}
	case confirmPeriod:
		title = "-- " + settings.PeriodLabel(m.form.period) + " --"
		body = append(strings.Split("Warning: "+periodWarning, "\n"), "", "Continue?")
	case confirmRestore:
		title = "-- Restore Backup --"
		body = []string{"Restore the files saved before the last", "war period switch?"}
	}

	inner := dialogW - 2
	lines := dialogBox(dialogBorderStyle, dialogTitleStyle, dialogTextStyle, inner, title, body)

	yes, no := buttonInactiveStyle.Render(" Yes "), buttonActiveStyle.Render(" No ")
	if m.confirmYes {
		yes, no = buttonActiveStyle.Render(" Yes "), buttonInactiveStyle.Render(" No ")
	}
	const btnW = 11
	btnPad := (inner - btnW) / 2
	side := dialogBorderStyle.Render("│")
	lines = append(lines,
		side+dialogTextStyle.Render(strings.Repeat(" ", inner))+side,
		side+dialogTextStyle.Render(strings.Repeat(" ", btnPad))+yes+dialogTextStyle.Render("  ")+no+
			dialogTextStyle.Render(strings.Repeat(" ", inner-btnPad-btnW))+side,
		dialogBorderStyle.Render("└"+strings.Repeat("─", inner)+"┘"),
	)
	return m.overlay(background, lines, dialogW)
}

// overlayProgress renders the modal progress box for a running switch.
func (m Model) overlayProgress(background string) string {
	inner := dialogW - 2
	p := m.progress

	status, pct := "Starting...", 0
	if p.Total > 0 {
		status = fmt.Sprintf("%s  %d/%d  %s", p.Phase, p.Index, p.Total, p.Name)
		pct = p.Percent()
	}
	lines := dialogBox(progressBoxStyle, progressTitleStyle, progressBoxStyle, inner, m.progressTitle, []string{status, ""})

	barW := inner - 12
	filled := barW * pct / 100
	side := progressBoxStyle.Render("│")
	bar := progressFillStyle.Render(strings.Repeat("█", filled)) +
		progressEmptyStyle.Render(strings.Repeat("░", barW-filled))
	lines = append(lines,
		side+progressBoxStyle.Render("    ")+bar+progressBoxStyle.Render(fmt.Sprintf(" %3d%%   ", pct))+side,
		side+progressBoxStyle.Render(strings.Repeat(" ", inner))+side,
		progressBoxStyle.Render("└"+strings.Repeat("─", inner)+"┘"),
	)
	return m.overlay(background, lines, dialogW)
}

// overlayPicker renders the lookup picker over the current screen.
func (m Model) overlayPicker(background string) string {
	title := "Select Item"
	if m.editField < len(m.fields) {
		title = "Select " + m.fields[m.editField].Label
	}

	boxW := 40
	visible := minInt(pickerVisibleRows, len(m.pickerItems))
	side := menuBorderStyle.Render("│")

	lines := []string{
		menuBorderStyle.Render("╒" + strings.Repeat("═", boxW) + "╕"),
		side + menuHeaderStyle.Render(centerText(title, boxW)) + side,
		menuBorderStyle.Render("│" + strings.Repeat("─", boxW) + "│"),
	}
	for i := 0; i < visible; i++ {
		idx := m.pickerScroll + i
		prefix, style := "   ", menuItemStyle
		if idx == m.pickerCursor {
			prefix, style = " ► ", menuHighlightStyle
		}
		lines = append(lines, side+style.Render(padRight(prefix+m.pickerItems[idx].Display, boxW))+side)
	}
	lines = append(lines,
		menuBorderStyle.Render("╘"+strings.Repeat("═", boxW)+"╛"),
		menuItemStyle.Render(centerText("Enter - Select  |  ESC - Cancel", boxW+2)),
	)
	return m.overlay(background, lines, boxW+2)
}
