// Package tui is the full-screen terminal front-end of the configurator.
package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/conquest-enhanced/ceconfig/internal/period"
	"github.com/conquest-enhanced/ceconfig/internal/settings"
	"github.com/conquest-enhanced/ceconfig/internal/watch"
)

const (
	minWidth  = 80
	minHeight = 25
)

// mutePeriod is how long file events are ignored after the program's own writes.
const mutePeriod = time.Second

// editorMode represents the current interaction state.
type editorMode int

const (
	modeTopMenu  editorMode = iota // Top-level menu
	modeScreen                     // Field navigation on a settings screen
	modeField                      // Field editing (textinput active)
	modePicker                     // Lookup picker popup
	modeConfirm                    // Yes/No dialog
	modeProgress                   // Period switch or restore running
	modeHelp                       // Help overlay
)

// confirmKind says what a Yes in the confirm dialog does.
type confirmKind int

const (
	confirmLeave confirmKind = iota
	confirmPeriod
	confirmRestore
)

// topMenuItem is an entry in the top-level menu.
type topMenuItem struct {
	Key   string
	Label string
}

// Model is the bubbletea model for the configurator.
type Model struct {
	svc     *settings.Service
	watcher *watch.Watcher
	form    *formState

	topCursor int
	topItems  []topMenuItem

	// Current settings screen
	screen      screenID
	fields      []fieldDef
	editField   int
	fieldScroll int
	dirty       bool

	textInput textinput.Model

	pickerItems  []LookupItem
	pickerCursor int
	pickerScroll int

	confirm    confirmKind
	confirmYes bool

	progress      period.Progress
	progressTitle string
	progressCh    <-chan tea.Msg

	help       viewport.Model
	helpReturn editorMode

	keys keyMap

	width      int
	height     int
	mode       editorMode
	message    string
	messageErr bool
}

// New creates the model. w may be nil to run without change detection.
func New(svc *settings.Service, w *watch.Watcher) Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 40
	ti.Width = 40

	topItems := make([]topMenuItem, 0, int(numScreens)+2)
	for i, title := range screenTitles {
		topItems = append(topItems, topMenuItem{Key: string(rune('1' + i)), Label: title})
	}
	topItems = append(topItems,
		topMenuItem{"H", "Help"},
		topMenuItem{"Q", "Quit Program"},
	)

	return Model{
		svc:       svc,
		watcher:   w,
		form:      newFormState(),
		topItems:  topItems,
		textInput: ti,
		keys:      defaultKeyMap(),
		width:     minWidth,
		height:    minHeight,
		mode:      modeTopMenu,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.SetWindowTitle("CE Configurator")}
	if m.watcher != nil {
		cmds = append(cmds, waitForChange(m.watcher))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = maxInt(msg.Width, minWidth)
		m.height = maxInt(msg.Height, minHeight)
		return m, nil

	case progressMsg:
		m.progress = period.Progress(msg)
		return m, waitForMsg(m.progressCh)

	case periodDoneMsg:
		return m.finishPeriod(msg)

	case fileChangedMsg:
		return m.handleFileChange(msg)

	case tea.KeyMsg:
		switch m.mode {
		case modeTopMenu:
			return m.updateTopMenu(msg)
		case modeScreen:
			return m.updateScreen(msg)
		case modeField:
			return m.updateField(msg)
		case modePicker:
			return m.updatePicker(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		case modeHelp:
			return m.updateHelp(msg)
		case modeProgress:
			// Keys are ignored until the file operations finish.
			return m, nil
		}
	}
	return m, nil
}

func (m *Model) flash(s string) {
	m.message = s
	m.messageErr = false
}

func (m *Model) flashError(s string) {
	m.message = s
	m.messageErr = true
}

// --- Top Menu Mode ---

func (m Model) updateTopMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.topCursor > 0 {
			m.topCursor--
		}
	case tea.KeyDown:
		if m.topCursor < len(m.topItems)-1 {
			m.topCursor++
		}
	case tea.KeyHome:
		m.topCursor = 0
	case tea.KeyEnd:
		m.topCursor = len(m.topItems) - 1
	case tea.KeyEnter:
		return m.selectTopMenuItem()
	case tea.KeyEscape:
		return m, tea.Quit
	case tea.KeyF1:
		return m.openHelp()
	default:
		k := strings.ToUpper(msg.String())
		for i, item := range m.topItems {
			if item.Key == k {
				m.topCursor = i
				return m.selectTopMenuItem()
			}
		}
	}
	return m, nil
}

func (m Model) selectTopMenuItem() (tea.Model, tea.Cmd) {
	switch item := m.topItems[m.topCursor]; item.Key {
	case "H":
		return m.openHelp()
	case "Q":
		return m, tea.Quit
	}
	return m.openScreen(screenID(m.topCursor))
}

// openScreen loads s from disk and switches to field navigation.
func (m Model) openScreen(s screenID) (Model, tea.Cmd) {
	m.screen = s
	m.editField = 0
	m.fieldScroll = 0
	m.message = ""
	m.loadScreen()
	m.editField = m.nextEditableField(0, 1)
	m.mode = modeScreen
	return m, nil
}
