package tui

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/conquest-enhanced/ceconfig/internal/settings"
)

// screenID identifies a settings screen reachable from the top menu.
type screenID int

const (
	scrGame screenID = iota
	scrPeriod
	scrArmy
	scrPrep
	scrStart
	scrIncome
	scrDefense
	scrResearch
	numScreens
)

var screenTitles = [numScreens]string{
	"Game Settings",
	"War Period",
	"Player Army Size",
	"Preparation Time",
	"Resources at Start",
	"Resource Income",
	"AI Defense Research",
	"AI Research Speed",
}

var screenSaved = [numScreens]string{
	"Game settings updated successfully!",
	"",
	"Player army size updated successfully!",
	"Preparation times updated successfully!",
	"Starting resources updated successfully!",
	"Resource income multipliers updated successfully!",
	"AI defense research speed updated successfully!",
	"AI research speed updated successfully!",
}

// formState holds the values shown on the screens. Values are kept as
// strings in display form; changed records which ones the user edited
// since the last load.
type formState struct {
	difficulty settings.Difficulty

	aiArmy    string
	winPoints string
	ammoRegen bool
	damage    settings.DamageMode

	period string

	stageCP string
	budget  string

	prep     map[string]string
	start    map[string]string
	income   []string
	forts    map[string]string
	research settings.ResearchSpeed

	changed map[string]bool
}

func newFormState() *formState {
	return &formState{
		difficulty: settings.Normal,
		period:     "normal",
		prep:       make(map[string]string),
		start:      make(map[string]string),
		income:     make([]string, len(settings.RiskLevels)),
		forts:      make(map[string]string),
		changed:    make(map[string]bool),
	}
}

func (f *formState) touch(key string) {
	f.changed[key] = true
}

func choiceItems(choices []settings.Choice) []LookupItem {
	items := make([]LookupItem, len(choices))
	for i, c := range choices {
		items[i] = LookupItem{Value: c.Value, Display: c.Label}
	}
	return items
}

// difficultyField is the leading row of every screen that edits a
// dynamic campaign file. Changing it reloads the screen.
func (m Model) difficultyField() fieldDef {
	form := m.form
	return fieldDef{
		Label: "Difficulty",
		Help:  "Which dynamic campaign file the values below come from",
		Type:  ftLookup,
		Row:   1,
		Width: 24,
		Get: func() string {
			return lookupDisplay(choiceItems(settings.Difficulties), string(form.difficulty), string(form.difficulty))
		},
		Set: func(val string) error {
			form.difficulty = settings.Difficulty(val)
			return nil
		},
		LookupItems: func() []LookupItem { return choiceItems(settings.Difficulties) },
		AfterSet:    func(m *Model) { m.loadScreen() },
	}
}

// textField binds a string in the form to a field definition.
func textField(form *formState, key, label, help string, typ fieldType, row, width int, min, max float64, ptr *string) fieldDef {
	return fieldDef{
		Label: label,
		Help:  help,
		Type:  typ,
		Row:   row,
		Width: width,
		Min:   min,
		Max:   max,
		Get:   func() string { return *ptr },
		Set: func(val string) error {
			*ptr = val
			form.touch(key)
			return nil
		},
	}
}

// mapField binds one key of a string map in the form.
func mapField(form *formState, values map[string]string, key, label, help string, row int, min, max float64) fieldDef {
	return fieldDef{
		Label: label,
		Help:  help,
		Type:  ftInteger,
		Row:   row,
		Width: 8,
		Min:   min,
		Max:   max,
		Get:   func() string { return values[key] },
		Set: func(val string) error {
			values[key] = val
			form.touch(key)
			return nil
		},
	}
}

// buildFields returns the field list for screen s.
func (m Model) buildFields(s screenID) []fieldDef {
	form := m.form
	switch s {
	case scrGame:
		return []fieldDef{
			m.difficultyField(),
			textField(form, "aiArmy", "AI Army Size", "Multiplier for AI army size, 1-10 (normally 6 to 7)",
				ftDecimal, 3, 8, 1, 10, &form.aiArmy),
			textField(form, "winPoints", "Points to Win", "Points required to win; 24000 is about 30-35 minutes",
				ftInteger, 4, 8, 1, 10000000, &form.winPoints),
			{
				Label: "Ammo Regeneration",
				Help:  "Whether supply trucks regenerate ammunition",
				Type:  ftYesNo,
				Row:   6,
				Width: 1,
				Get:   func() string { return boolToYN(form.ammoRegen) },
				Set: func(val string) error {
					form.ammoRegen = val == "Y"
					form.touch("ammoRegen")
					return nil
				},
			},
			{
				Label: "Damage Settings",
				Help:  "Modded or vanilla ballistics table",
				Type:  ftLookup,
				Row:   7,
				Width: 24,
				Get: func() string {
					return lookupDisplay(choiceItems(settings.DamageModes), string(form.damage), "Unknown (custom file)")
				},
				Set: func(val string) error {
					form.damage = settings.DamageMode(val)
					form.touch("damage")
					return nil
				},
				LookupItems: func() []LookupItem { return choiceItems(settings.DamageModes) },
			},
		}

	case scrPeriod:
		return []fieldDef{
			{
				Label: "Active Period",
				Help:  "Last period applied by this configurator",
				Type:  ftDisplay,
				Row:   1,
				Width: 24,
				Get: func() string {
					if cur := m.svc.CurrentPeriod(); cur != "" {
						return settings.PeriodLabel(cur)
					}
					return "Unknown"
				},
			},
			{
				Label: "War Period",
				Help:  "Setting the war period resets the difficulty files",
				Type:  ftLookup,
				Row:   3,
				Width: 24,
				Get:   func() string { return settings.PeriodLabel(form.period) },
				Set: func(val string) error {
					form.period = val
					form.touch("period")
					return nil
				},
				LookupItems: func() []LookupItem {
					var items []LookupItem
					for _, p := range m.svc.Config().Periods {
						items = append(items, LookupItem{Value: p, Display: settings.PeriodLabel(p)})
					}
					return items
				},
			},
		}

	case scrArmy:
		return []fieldDef{
			m.difficultyField(),
			textField(form, "stageCP", "Stage Sizes", "Command points per stage, seven numbers separated by spaces",
				ftString, 3, 40, 0, 0, &form.stageCP),
			textField(form, "budget", "Budget", "Starting budget",
				ftInteger, 4, 8, 0, 10000000, &form.budget),
		}

	case scrPrep:
		fields := make([]fieldDef, 0, len(settings.PrepTimeKeys))
		for i, key := range settings.PrepTimeKeys {
			label := fmt.Sprintf("%d Flag Offset", i+1)
			fields = append(fields, mapField(form, form.prep, key, label,
				"Seconds before the AI arrives, 1-10000", i+1, 1, 10000))
		}
		return fields

	case scrStart:
		fields := []fieldDef{m.difficultyField()}
		for i, name := range settings.ResourceNames {
			fields = append(fields, mapField(form, form.start, name, name,
				"Starting amount, 1-100000", i+3, 1, 100000))
		}
		return fields

	case scrIncome:
		fields := []fieldDef{m.difficultyField()}
		for i, level := range settings.RiskLevels {
			fields = append(fields, textField(form, "income"+strconv.Itoa(i), level,
				"Reward multiplier, 1-100", ftDecimal, i+3, 8, 1, 100, &form.income[i]))
		}
		return fields

	case scrDefense:
		fields := []fieldDef{m.difficultyField()}
		for i, level := range settings.FortificationLevels {
			fields = append(fields, mapField(form, form.forts, level, level,
				"Missions before the AI unlocks this level, 1-100", i+3, 1, 100))
		}
		return fields

	case scrResearch:
		return []fieldDef{
			m.difficultyField(),
			{
				Label: "Progression",
				Help:  "How fast the AI moves through research stages",
				Type:  ftLookup,
				Row:   3,
				Width: 28,
				Get: func() string {
					return lookupDisplay(choiceItems(settings.ResearchSpeeds), string(form.research), "Custom table")
				},
				Set: func(val string) error {
					form.research = settings.ResearchSpeed(val)
					form.touch("research")
					return nil
				},
				LookupItems: func() []LookupItem { return choiceItems(settings.ResearchSpeeds) },
			},
		}
	}
	return nil
}

// loadScreen reads the current screen's values from the game files. Read
// failures leave the affected values blank and show the first error.
func (m *Model) loadScreen() {
	form := m.form
	svc := m.svc
	d := form.difficulty
	var errs []error
	note := func(err error) {
		if err != nil {
			log.Printf("WARN: Could not read %s values: %v", screenTitles[m.screen], err)
			errs = append(errs, err)
		}
	}

	switch m.screen {
	case scrGame:
		form.aiArmy = ""
		if v, err := svc.AIArmySize(d); err == nil {
			form.aiArmy = strconv.FormatFloat(v, 'f', -1, 64)
		} else {
			note(err)
		}
		form.winPoints = ""
		if v, err := svc.WinPoints(); err == nil {
			form.winPoints = strconv.Itoa(v)
		} else {
			note(err)
		}
		on, err := svc.AmmoRegen()
		note(err)
		form.ammoRegen = on
		mode, err := svc.DamageMode()
		note(err)
		form.damage = mode

	case scrPeriod:
		if cur := svc.CurrentPeriod(); cur != "" {
			form.period = cur
		}

	case scrArmy:
		pa, err := svc.PlayerArmy(d)
		note(err)
		form.stageCP, form.budget = pa.StageCP, pa.Budget

	case scrPrep:
		times, err := svc.PrepTimes()
		note(err)
		fillInts(form.prep, settings.PrepTimeKeys, times)

	case scrStart:
		vals, err := svc.StartingResources(d)
		note(err)
		fillInts(form.start, settings.ResourceNames, vals)

	case scrIncome:
		vals, err := svc.ResourceIncome(d)
		note(err)
		for i := range form.income {
			form.income[i] = ""
			if i < len(vals) {
				form.income[i] = strconv.FormatFloat(vals[i], 'f', -1, 64)
			}
		}

	case scrDefense:
		vals, err := svc.Fortifications(d)
		note(err)
		fillInts(form.forts, settings.FortificationLevels, vals)

	case scrResearch:
		speed, err := svc.ResearchSpeed(d)
		note(err)
		form.research = speed
	}

	form.changed = make(map[string]bool)
	m.dirty = false
	m.fields = m.buildFields(m.screen)
	if len(errs) > 0 {
		m.flashError(fmt.Sprintf("Could not read: %v", errs[0]))
	}
}

func fillInts(dst map[string]string, keys []string, src map[string]int) {
	for _, k := range keys {
		if v, ok := src[k]; ok {
			dst[k] = strconv.Itoa(v)
		} else {
			dst[k] = ""
		}
	}
}

func anyChanged(form *formState, keys ...string) bool {
	for _, k := range keys {
		if form.changed[k] {
			return true
		}
	}
	return false
}

func changedInts(form *formState, keys []string, values map[string]string) (map[string]int, error) {
	out := make(map[string]int)
	for _, k := range keys {
		if !form.changed[k] {
			continue
		}
		n, err := strconv.Atoi(values[k])
		if err != nil {
			return nil, fmt.Errorf("%s: not a whole number", k)
		}
		out[k] = n
	}
	return out, nil
}

// saveScreen writes the edited values of the current screen. The war
// period screen is handled by the confirm dialog instead.
func (m *Model) saveScreen() error {
	form := m.form
	svc := m.svc
	d := form.difficulty
	if m.watcher != nil {
		m.watcher.Mute(mutePeriod)
	}

	switch m.screen {
	case scrGame:
		if form.changed["aiArmy"] {
			v, err := strconv.ParseFloat(form.aiArmy, 64)
			if err != nil {
				return fmt.Errorf("AI army size: not a number")
			}
			if err := svc.SetAIArmySize(d, v); err != nil {
				return err
			}
		}
		if form.changed["winPoints"] {
			n, err := strconv.Atoi(form.winPoints)
			if err != nil {
				return fmt.Errorf("points to win: not a whole number")
			}
			if err := svc.SetWinPoints(n); err != nil {
				return err
			}
		}
		if form.changed["ammoRegen"] {
			if err := svc.SetAmmoRegen(form.ammoRegen); err != nil {
				return err
			}
		}
		if form.changed["damage"] {
			if err := svc.SetDamageMode(form.damage); err != nil {
				return err
			}
		}

	case scrArmy:
		if form.changed["stageCP"] || form.changed["budget"] {
			pa := settings.PlayerArmy{StageCP: form.stageCP, Budget: form.budget}
			if err := svc.SetPlayerArmy(d, pa); err != nil {
				return err
			}
		}

	case scrPrep:
		vals, err := changedInts(form, settings.PrepTimeKeys, form.prep)
		if err != nil {
			return err
		}
		if err := svc.SetPrepTimes(vals); err != nil {
			return err
		}

	case scrStart:
		vals, err := changedInts(form, settings.ResourceNames, form.start)
		if err != nil {
			return err
		}
		if err := svc.SetStartingResources(d, vals); err != nil {
			return err
		}

	case scrIncome:
		if !anyChanged(form, "income0", "income1", "income2") {
			break
		}
		vals := make([]float64, 0, len(form.income))
		for i, s := range form.income {
			if strings.TrimSpace(s) == "" {
				break
			}
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return fmt.Errorf("%s: not a number", settings.RiskLevels[i])
			}
			vals = append(vals, v)
		}
		if err := svc.SetResourceIncome(d, vals); err != nil {
			return err
		}

	case scrDefense:
		vals, err := changedInts(form, settings.FortificationLevels, form.forts)
		if err != nil {
			return err
		}
		if err := svc.SetFortifications(d, vals); err != nil {
			return err
		}

	case scrResearch:
		if form.changed["research"] {
			if err := svc.SetResearchSpeed(d, form.research); err != nil {
				return err
			}
		}
	}

	form.changed = make(map[string]bool)
	m.dirty = false
	return nil
}
