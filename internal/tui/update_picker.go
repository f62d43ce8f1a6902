package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// pickerVisibleRows is the max number of items visible in the picker popup.
const pickerVisibleRows = 8

func (m Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	total := len(m.pickerItems)
	if total == 0 {
		if msg.Type == tea.KeyEscape {
			m.mode = modeScreen
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeyUp:
		if m.pickerCursor > 0 {
			m.pickerCursor--
		}
	case tea.KeyDown:
		if m.pickerCursor < total-1 {
			m.pickerCursor++
		}
	case tea.KeyHome:
		m.pickerCursor = 0
	case tea.KeyEnd:
		m.pickerCursor = total - 1

	case tea.KeyEnter:
		selected := m.pickerItems[m.pickerCursor]
		m.mode = modeScreen
		if m.editField < 0 || m.editField >= len(m.fields) {
			return m, nil
		}
		f := m.fields[m.editField]
		if f.Set == nil {
			return m, nil
		}
		if f.AfterSet != nil && m.dirty {
			m.flashError("Save (F2) or discard (ESC) changes first")
			return m, nil
		}
		if err := f.Set(selected.Value); err != nil {
			m.flashError("Invalid selection: " + err.Error())
			return m, nil
		}
		m.message = ""
		if f.AfterSet != nil {
			f.AfterSet(&m)
		} else {
			m.dirty = true
		}
		return m, nil

	case tea.KeyEscape:
		m.mode = modeScreen
		return m, nil
	}

	m.clampPickerScroll()
	return m, nil
}

// clampPickerScroll adjusts pickerScroll so the cursor is visible.
func (m *Model) clampPickerScroll() {
	total := len(m.pickerItems)
	visible := pickerVisibleRows
	if visible > total {
		visible = total
	}
	if m.pickerCursor < m.pickerScroll {
		m.pickerScroll = m.pickerCursor
	}
	if m.pickerCursor >= m.pickerScroll+visible {
		m.pickerScroll = m.pickerCursor - visible + 1
	}
	if maxOffset := total - visible; m.pickerScroll > maxOffset {
		m.pickerScroll = maxInt(0, maxOffset)
	}
	if m.pickerScroll < 0 {
		m.pickerScroll = 0
	}
}
