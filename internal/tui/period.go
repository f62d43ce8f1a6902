package tui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/conquest-enhanced/ceconfig/internal/period"
	"github.com/conquest-enhanced/ceconfig/internal/settings"
	"github.com/conquest-enhanced/ceconfig/internal/util"
	"github.com/conquest-enhanced/ceconfig/internal/watch"
)

const periodWarning = "Setting the war period will reset difficulty files.\nAny previous changes will be lost."

// progressMsg reports one file of a running period switch or restore.
type progressMsg period.Progress

// periodDoneMsg ends a period switch or restore.
type periodDoneMsg struct {
	restore bool
	period  string
	report  *period.Report
	err     error
}

// fileChangedMsg carries a debounced change from the watcher.
type fileChangedMsg watch.Change

func waitForMsg(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

func waitForChange(w *watch.Watcher) tea.Cmd {
	return func() tea.Msg {
		return fileChangedMsg(<-w.C)
	}
}

// --- Confirm Dialog ---

func (m Model) askConfirm(kind confirmKind) (tea.Model, tea.Cmd) {
	m.confirm = kind
	m.confirmYes = kind == confirmLeave
	m.mode = modeConfirm
	return m, nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyLeft, tea.KeyRight, tea.KeyTab:
		m.confirmYes = !m.confirmYes
	case tea.KeyEnter:
		if m.confirmYes {
			return m.executeConfirm()
		}
		return m.rejectConfirm()
	case tea.KeyEscape:
		m.mode = modeScreen
		return m, nil
	default:
		switch msg.String() {
		case "y", "Y":
			m.confirmYes = true
			return m.executeConfirm()
		case "n", "N":
			return m.rejectConfirm()
		}
	}
	return m, nil
}

func (m Model) rejectConfirm() (tea.Model, tea.Cmd) {
	if m.confirm == confirmLeave {
		// Discard edits.
		m.dirty = false
		m.mode = modeTopMenu
		m.message = ""
		return m, nil
	}
	m.mode = modeScreen
	return m, nil
}

func (m Model) executeConfirm() (tea.Model, tea.Cmd) {
	switch m.confirm {
	case confirmLeave:
		if err := m.saveScreen(); err != nil {
			m.flashError("Error: " + err.Error())
			m.mode = modeScreen
			return m, nil
		}
		m.flash(screenSaved[m.screen])
		m.mode = modeTopMenu
		return m, nil
	case confirmPeriod:
		p := m.form.period
		return m.startOperation("Setting "+settings.PeriodLabel(p), func(progress func(period.Progress)) periodDoneMsg {
			report, err := m.svc.SetPeriod(p, progress)
			return periodDoneMsg{period: p, report: report, err: err}
		})
	case confirmRestore:
		return m.startOperation("Restoring last backup", func(progress func(period.Progress)) periodDoneMsg {
			report, err := m.svc.Restore(progress)
			return periodDoneMsg{restore: true, report: report, err: err}
		})
	}
	m.mode = modeScreen
	return m, nil
}

// startOperation runs op in a goroutine and streams its progress back to
// the model through a channel read by tea commands.
func (m Model) startOperation(title string, op func(func(period.Progress)) periodDoneMsg) (tea.Model, tea.Cmd) {
	ch := make(chan tea.Msg, 4)
	if m.watcher != nil {
		m.watcher.Mute(time.Hour)
	}
	go func() {
		defer close(ch)
		done := op(func(p period.Progress) { ch <- progressMsg(p) })
		ch <- done
	}()

	m.progressCh = ch
	m.progressTitle = title
	m.progress = period.Progress{}
	m.message = ""
	m.mode = modeProgress
	return m, waitForMsg(ch)
}

func (m Model) finishPeriod(msg periodDoneMsg) (tea.Model, tea.Cmd) {
	if m.watcher != nil {
		m.watcher.Mute(mutePeriod)
	}
	m.progressCh = nil
	m.mode = modeScreen
	m.fields = m.buildFields(m.screen)

	if msg.err != nil {
		text := periodFailure(msg)
		if hint := util.GetErrorHint(msg.err); hint != "" {
			text += " " + hint + "."
		}
		m.flashError(text)
		return m, nil
	}

	if msg.restore {
		m.flash(fmt.Sprintf("Backup restored: %d file(s), %s",
			period.Count(msg.report.Restore, period.StatusOK),
			util.FormatFileSize(period.Bytes(msg.report.Restore))))
		return m, nil
	}
	text := fmt.Sprintf("%s war period set successfully! %d file(s), %s",
		settings.PeriodLabel(msg.period),
		period.Count(msg.report.Apply, period.StatusOK),
		util.FormatFileSize(period.Bytes(msg.report.Apply)))
	if missing := period.Count(msg.report.Apply, period.StatusMissing); missing > 0 {
		text += fmt.Sprintf(", %d missing", missing)
	}
	m.flash(text)
	return m, nil
}

func periodFailure(msg periodDoneMsg) string {
	switch {
	case msg.restore && errors.Is(msg.err, period.ErrNoBackup):
		return "No backup to restore."
	case msg.restore && errors.Is(msg.err, period.ErrChecksum):
		return "Backup is damaged; nothing was restored."
	case msg.restore:
		return "Restore incomplete. Check the log for details."
	case errors.Is(msg.err, period.ErrRolledBack):
		return fmt.Sprintf("Failed to set %s period; changes have been rolled back. Check the log for details.", msg.period)
	case errors.Is(msg.err, period.ErrSourceMissing):
		return fmt.Sprintf("Files for the %s period are not installed.", msg.period)
	}
	return fmt.Sprintf("Failed to set %s period: %v", msg.period, msg.err)
}

// --- File watcher ---

func (m Model) handleFileChange(msg fileChangedMsg) (tea.Model, tea.Cmd) {
	var next tea.Cmd
	if m.watcher != nil {
		next = waitForChange(m.watcher)
	}
	if len(msg.Paths) == 0 || m.mode == modeProgress {
		return m, next
	}
	names := make([]string, len(msg.Paths))
	for i, p := range msg.Paths {
		names[i] = filepath.Base(p)
	}
	text := strings.Join(names, ", ") + " changed on disk"
	if m.mode == modeScreen && !m.dirty {
		m.flash("")
		m.loadScreen()
		m.editField = m.nextEditableField(m.editField, 1)
		if !m.messageErr {
			m.flash(text + "; values reloaded")
		}
		return m, next
	}
	m.flash(text)
	return m, next
}
