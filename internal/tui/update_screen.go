package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// maxFieldRows is the maximum number of field rows visible in the edit box.
const maxFieldRows = 12

// --- Screen Mode (field navigation) ---

func (m Model) updateScreen(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Save):
		return m.save()
	case key.Matches(msg, m.keys.Help):
		return m.openHelp()
	case key.Matches(msg, m.keys.Back):
		if m.dirty {
			return m.askConfirm(confirmLeave)
		}
		m.mode = modeTopMenu
		m.message = ""
		return m, nil
	case m.screen == scrPeriod && key.Matches(msg, m.keys.Restore):
		return m.askConfirm(confirmRestore)
	}

	if len(m.fields) == 0 {
		return m, nil
	}

	switch msg.Type {
	case tea.KeyTab, tea.KeyDown:
		m.editField = m.nextEditableField(m.editField+1, 1)
		m.clampFieldScroll()

	case tea.KeyShiftTab, tea.KeyUp:
		m.editField = m.nextEditableField(m.editField-1, -1)
		m.clampFieldScroll()

	case tea.KeyEnter:
		f := m.fields[m.editField]
		if f.Type == ftYesNo {
			m.toggleYesNo(f)
			return m, nil
		}
		return m.startFieldEdit()

	case tea.KeySpace:
		if f := m.fields[m.editField]; f.Type == ftYesNo {
			m.toggleYesNo(f)
		}

	case tea.KeyPgDown, tea.KeyPgUp:
		if m.dirty {
			m.flashError("Save (F2) or discard (ESC) changes first")
			return m, nil
		}
		next := m.screen + 1
		if msg.Type == tea.KeyPgUp {
			next = m.screen - 1
		}
		if next >= 0 && next < numScreens {
			return m.openScreen(next)
		}
	}
	return m, nil
}

// nextEditableField walks from index from in direction dir, wrapping, and
// returns the first field that is not display-only.
func (m Model) nextEditableField(from, dir int) int {
	n := len(m.fields)
	if n == 0 {
		return 0
	}
	idx := ((from % n) + n) % n
	for i := 0; i < n; i++ {
		if m.fields[idx].Type != ftDisplay {
			return idx
		}
		idx = ((idx+dir)%n + n) % n
	}
	return 0
}

func (m *Model) toggleYesNo(f fieldDef) {
	if f.Get == nil || f.Set == nil {
		return
	}
	next := "Y"
	if f.Get() == "Y" {
		next = "N"
	}
	if err := f.Set(next); err == nil {
		m.dirty = true
		m.message = ""
	}
}

func (m Model) startFieldEdit() (Model, tea.Cmd) {
	f := m.fields[m.editField]
	switch f.Type {
	case ftDisplay:
		return m, nil
	case ftLookup:
		if f.LookupItems == nil {
			return m, nil
		}
		m.pickerItems = f.LookupItems()
		m.pickerCursor = 0
		m.pickerScroll = 0
		cur := f.Get()
		for i, item := range m.pickerItems {
			if item.Value == cur || item.Display == cur {
				m.pickerCursor = i
				break
			}
		}
		m.clampPickerScroll()
		m.mode = modePicker
		return m, nil
	}

	m.mode = modeField
	m.textInput.SetValue(f.Get())
	m.textInput.CharLimit = f.Width
	m.textInput.Width = f.Width
	m.textInput.CursorEnd()
	m.textInput.Focus()
	return m, textinput.Blink
}

// --- Field Editing Mode ---

func (m Model) updateField(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.fields[m.editField]

	switch msg.Type {
	case tea.KeyEnter, tea.KeyTab, tea.KeyDown, tea.KeyUp:
		if err := m.applyFieldValue(f); err != nil {
			m.flashError(fmt.Sprintf("Invalid %s: %v", f.Label, err))
			return m, nil
		}
		m.textInput.Blur()
		m.mode = modeScreen
		switch msg.Type {
		case tea.KeyUp:
			m.editField = m.nextEditableField(m.editField-1, -1)
		case tea.KeyEnter:
		default:
			m.editField = m.nextEditableField(m.editField+1, 1)
		}
		m.clampFieldScroll()
		return m, nil

	case tea.KeyEscape:
		m.textInput.Blur()
		m.mode = modeScreen
		m.message = ""
		return m, nil
	}

	if len(msg.Runes) == 1 {
		ch := msg.Runes[0]
		switch f.Type {
		case ftInteger:
			if ch < '0' || ch > '9' {
				return m, nil
			}
		case ftDecimal:
			if (ch < '0' || ch > '9') && ch != '.' {
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m *Model) applyFieldValue(f fieldDef) error {
	val, err := f.validate(m.textInput.Value())
	if err != nil {
		return err
	}
	if f.Set == nil || val == f.Get() {
		return nil
	}
	if err := f.Set(val); err != nil {
		return err
	}
	m.dirty = true
	m.message = ""
	return nil
}

// clampFieldScroll keeps the active field row inside the visible window.
func (m *Model) clampFieldScroll() {
	if len(m.fields) == 0 {
		m.fieldScroll = 0
		return
	}
	activeRow := m.fields[m.editField].Row
	if activeRow < m.fieldScroll+1 {
		m.fieldScroll = activeRow - 1
	}
	if activeRow > m.fieldScroll+maxFieldRows {
		m.fieldScroll = activeRow - maxFieldRows
	}
	if m.fieldScroll < 0 {
		m.fieldScroll = 0
	}
}

// save writes the current screen, or asks for confirmation first on the
// war period screen.
func (m Model) save() (tea.Model, tea.Cmd) {
	if m.screen == scrPeriod {
		return m.askConfirm(confirmPeriod)
	}
	if !m.dirty {
		m.flash("No changes to save")
		return m, nil
	}
	if err := m.saveScreen(); err != nil {
		m.flashError("Error: " + err.Error())
		return m, nil
	}
	m.flash(screenSaved[m.screen])
	m.fields = m.buildFields(m.screen)
	return m, nil
}
