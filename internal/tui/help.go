package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	helpDialogW = 78
	helpDialogH = 21
)

var helpText = `1. Difficulty
   Screens that edit a dynamic campaign file start with a Difficulty
   field. Changing it reloads the values from that difficulty's file.

2. Game Settings
   AI Army Size: multiplier for AI army size (normally between 6 and 7).
   Points to Win: points required to win (24000 is about 30-35 minutes).
   Ammo Regeneration: whether supply trucks regenerate ammo.
   Damage Settings: modded or vanilla damage model.

3. Other Screens
   War Period: time period for the game (affects unit availability).
     Press R on this screen to restore the last backup.
   Player Army Size: army size and budget for each stage.
   Preparation Time: time before the AI arrives in each scenario.
   Resources at Start: starting resources for the player.
   Resource Income: income multipliers by mission risk level.
   AI Defense Research: missions before the AI unlocks defenses.
   AI Research Speed: speed of AI research progression.

4. File Operations
   The correct files are picked from the chosen difficulty.
   Backups are created before the war period is changed. If any file
   cannot be written, every file backed up so far is restored.

5. After Making Changes
   Always check the game to make sure the change had the desired
   effect. If something goes wrong, check the log file for details.

Keys
   Enter - Edit field        Up/Down/Tab - Navigate
   F2 / Ctrl-S - Save        PgUp/PgDn - Previous/Next screen
   F1 - Help                 ESC - Return / Cancel edit
   1-8 - Quick menu select   Q - Quit`

func (m Model) openHelp() (tea.Model, tea.Cmd) {
	vp := viewport.New(helpDialogW-4, helpDialogH-4)
	vp.SetContent(helpText)
	m.help = vp
	m.helpReturn = m.mode
	m.mode = modeHelp
	return m, nil
}

func (m Model) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape, tea.KeyEnter, tea.KeyF1:
		m.mode = m.helpReturn
		return m, nil
	}
	if strings.EqualFold(msg.String(), "q") {
		m.mode = m.helpReturn
		return m, nil
	}
	var cmd tea.Cmd
	m.help, cmd = m.help.Update(msg)
	return m, cmd
}

// overlayHelpScreen renders the scrollable help box over background.
func (m Model) overlayHelpScreen(background string) string {
	inner := helpDialogW - 2
	side := helpBoxStyle.Render("│")

	lines := []string{
		helpBoxStyle.Render("┌" + strings.Repeat("─", inner) + "┐"),
		side + helpTitleStyle.Render(centerText("CE Configurator Help", inner)) + side,
	}
	for _, l := range strings.Split(m.help.View(), "\n") {
		lines = append(lines, side+helpBoxStyle.Render(" "+padRight(l, inner-1))+side)
	}
	footer := "Up/Down/PgUp/PgDn - Scroll  |  ESC - Close"
	lines = append(lines,
		side+helpTitleStyle.Render(centerText(footer, inner))+side,
		helpBoxStyle.Render("└"+strings.Repeat("─", inner)+"┘"),
	)
	return m.overlay(background, lines, helpDialogW)
}
