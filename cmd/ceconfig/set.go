package main

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conquest-enhanced/ceconfig/internal/settings"
	"github.com/conquest-enhanced/ceconfig/internal/util"
)

// difficultyFlag resolves the --difficulty value. Unknown names fall back
// to normal with a warning, the same as the difficulty file lookup.
func difficultyFlag(name string) settings.Difficulty {
	for _, c := range settings.Difficulties {
		if strings.EqualFold(c.Value, name) {
			return settings.Difficulty(c.Value)
		}
	}
	log.Printf("WARN: Unknown difficulty %q, using normal", name)
	return settings.Normal
}

func newSetCmd(a *app) *cobra.Command {
	var difficulty string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change a single game setting",
	}
	cmd.PersistentFlags().StringVarP(&difficulty, "difficulty", "d", string(settings.Normal),
		"difficulty file to edit (performance, normal, hard, unfair)")

	done := func(cmd *cobra.Command, what string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s updated successfully!\n", what)
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "ai-army <size>",
			Short: "Set the AI army size multiplier (1-10)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := strconv.ParseFloat(args[0], 64)
				if err != nil {
					return util.NewValidationError("AI army size", args[0], "must be a number")
				}
				if err := a.svc.SetAIArmySize(difficultyFlag(difficulty), v); err != nil {
					return err
				}
				done(cmd, "AI Army Size")
				return nil
			},
		},
		&cobra.Command{
			Use:   "win-points <points>",
			Short: "Set the points required to win",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return util.NewValidationError("points to win", args[0], "must be a positive integer")
				}
				if err := a.svc.SetWinPoints(n); err != nil {
					return err
				}
				done(cmd, "Points to Win")
				return nil
			},
		},
		&cobra.Command{
			Use:       "ammo-regen <on|off>",
			Short:     "Turn supply truck ammo regeneration on or off",
			Args:      cobra.ExactArgs(1),
			ValidArgs: []string{"on", "off"},
			RunE: func(cmd *cobra.Command, args []string) error {
				var on bool
				switch strings.ToLower(args[0]) {
				case "on", "yes", "regen":
					on = true
				case "off", "no":
				default:
					return util.NewValidationError("ammo regeneration", args[0], "must be on or off")
				}
				if err := a.svc.SetAmmoRegen(on); err != nil {
					return err
				}
				done(cmd, "Ammo regeneration settings")
				return nil
			},
		},
		&cobra.Command{
			Use:       "damage <mod|vanilla>",
			Short:     "Install the modded or vanilla ballistics table",
			Args:      cobra.ExactArgs(1),
			ValidArgs: []string{"mod", "vanilla"},
			RunE: func(cmd *cobra.Command, args []string) error {
				mode := settings.DamageMode(strings.ToLower(args[0]))
				if err := a.svc.SetDamageMode(mode); err != nil {
					return err
				}
				done(cmd, "Damage settings")
				return nil
			},
		},
		&cobra.Command{
			Use:       "research-speed <normal|slow30|slow60|fast>",
			Short:     "Set the AI research progression",
			Args:      cobra.ExactArgs(1),
			ValidArgs: []string{"normal", "slow30", "slow60", "fast"},
			RunE: func(cmd *cobra.Command, args []string) error {
				speed := settings.ResearchSpeed(strings.ToLower(args[0]))
				if err := a.svc.SetResearchSpeed(difficultyFlag(difficulty), speed); err != nil {
					return err
				}
				done(cmd, "AI research speed")
				return nil
			},
		},
	)
	return cmd
}
