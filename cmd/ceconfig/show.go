package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conquest-enhanced/ceconfig/internal/settings"
)

func newShowCmd(a *app) *cobra.Command {
	var difficulty string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the current value of every setting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.show(cmd.OutOrStdout(), difficultyFlag(difficulty))
			return nil
		},
	}
	cmd.Flags().StringVarP(&difficulty, "difficulty", "d", string(settings.Normal),
		"difficulty file to read (performance, normal, hard, unfair)")
	return cmd
}

// show prints every setting. Values that cannot be read are printed as
// the error instead so one bad file does not hide the rest.
func (a *app) show(out io.Writer, d settings.Difficulty) {
	svc := a.svc
	line := func(label string, value any, err error) {
		if err != nil {
			fmt.Fprintf(out, "%-22s error: %v\n", label, err)
			return
		}
		fmt.Fprintf(out, "%-22s %v\n", label, value)
	}

	fmt.Fprintf(out, "Difficulty file        %s\n", svc.DifficultyFile(d))
	cur := svc.CurrentPeriod()
	if cur == "" {
		line("War period", "unknown", nil)
	} else {
		line("War period", settings.PeriodLabel(cur), nil)
	}

	army, err := svc.AIArmySize(d)
	line("AI army size", army, err)
	points, err := svc.WinPoints()
	line("Points to win", points, err)
	regen, err := svc.AmmoRegen()
	line("Ammo regeneration", onOff(regen), err)
	dmg, err := svc.DamageMode()
	if dmg == settings.DamageUnknown {
		line("Damage", "custom", err)
	} else {
		line("Damage", dmg, err)
	}

	pa, err := svc.PlayerArmy(d)
	line("Stage sizes", pa.StageCP, err)
	line("Budget", pa.Budget, err)

	prep, err := svc.PrepTimes()
	line("Preparation times", formatInts(settings.PrepTimeKeys, prep), err)
	start, err := svc.StartingResources(d)
	line("Starting resources", formatInts(settings.ResourceNames, start), err)

	income, err := svc.ResourceIncome(d)
	parts := make([]string, len(income))
	for i, v := range income {
		parts[i] = settings.RiskLevels[i] + "=" + strconv.FormatFloat(v, 'f', -1, 64)
	}
	line("Resource income", strings.Join(parts, ", "), err)

	forts, err := svc.Fortifications(d)
	line("AI defense research", formatInts(settings.FortificationLevels, forts), err)

	speed, err := svc.ResearchSpeed(d)
	if speed == settings.ResearchUnknown {
		line("AI research speed", "custom", err)
	} else {
		line("AI research speed", speed, err)
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// formatInts prints values in the order of keys, skipping missing ones.
func formatInts(keys []string, values map[string]int) string {
	parts := make([]string, 0, len(values))
	for _, k := range keys {
		if v, ok := values[k]; ok {
			parts = append(parts, k+"="+strconv.Itoa(v))
		}
	}
	return strings.Join(parts, ", ")
}
