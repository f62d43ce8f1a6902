package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/conquest-enhanced/ceconfig/internal/period"
	"github.com/conquest-enhanced/ceconfig/internal/settings"
	"github.com/conquest-enhanced/ceconfig/internal/util"
)

func newPeriodCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "period",
		Short: "List or switch the war period",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the configured war periods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			current := a.svc.CurrentPeriod()
			for _, p := range a.cfg.Periods {
				mark := " "
				if p == current {
					mark = "*"
				}
				note := ""
				if info, err := os.Stat(a.cfg.PeriodDir(p)); err != nil || !info.IsDir() {
					note = "  (files not installed)"
				}
				fmt.Fprintf(out, "%s %-8s %s%s\n", mark, p, settings.PeriodLabel(p), note)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <period>",
		Short: "Back up the managed files and install the period's variants",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			report, err := a.svc.SetPeriod(args[0], printProgress(out))
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s war period set: %d file(s) updated (%s), %d missing\n",
				settings.PeriodLabel(report.Period),
				period.Count(report.Apply, period.StatusOK),
				util.FormatFileSize(period.Bytes(report.Apply)),
				period.Count(report.Apply, period.StatusMissing))
			return nil
		},
	})
	return cmd
}

func newRestoreCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "restore",
		Short: "Restore the files backed up by the last period switch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			report, err := a.svc.Restore(printProgress(out))
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Restored %d file(s) (%s) from backup %s\n",
				period.Count(report.Restore, period.StatusOK),
				util.FormatFileSize(period.Bytes(report.Restore)),
				report.RunID)
			return nil
		},
	}
}

func printProgress(out io.Writer) func(period.Progress) {
	return func(p period.Progress) {
		fmt.Fprintf(out, "%-7s %3d/%d  %s\n", p.Phase, p.Index, p.Total, p.Name)
	}
}
