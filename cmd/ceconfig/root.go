package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/conquest-enhanced/ceconfig/internal/config"
	"github.com/conquest-enhanced/ceconfig/internal/history"
	"github.com/conquest-enhanced/ceconfig/internal/logging"
	"github.com/conquest-enhanced/ceconfig/internal/settings"
	"github.com/conquest-enhanced/ceconfig/internal/tui"
	"github.com/conquest-enhanced/ceconfig/internal/watch"
)

// HistoryFile is the name of the period history database in the backup
// directory.
const HistoryFile = "history.db"

// app holds what every command needs once the configuration is loaded.
type app struct {
	configPath string
	debug      bool

	cfg     config.Config
	svc     *settings.Service
	hist    *history.Store
	logFile io.Closer
}

// execute runs the command tree with args and releases whatever the
// pre-run opened, whether or not the command succeeded.
func execute(args []string, stdout, stderr io.Writer) error {
	root, a := newRootCmd()
	defer a.close()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.Execute()
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{}

	root := &cobra.Command{
		Use:          "ceconfig",
		Short:        "Conquest Enhanced configurator",
		Long:         "Edits the Conquest Enhanced game settings and switches the war period.\nRun without a command in a terminal to open the editor.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd.ErrOrStderr(), cmd.Root() == cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isInteractive() {
				return cmd.Help()
			}
			return a.runTUI()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", config.DefaultFileName, "path to the configurator's JSON config")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newPeriodCmd(a),
		newRestoreCmd(a),
		newHistoryCmd(a),
		newSetCmd(a),
		newShowCmd(a),
	)
	return root, a
}

func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// exeDir is the default base directory: the one holding the executable.
func exeDir() string {
	exe, err := os.Executable()
	if err != nil {
		wd, _ := os.Getwd()
		return wd
	}
	return filepath.Dir(exe)
}

// open loads the configuration, starts logging and opens the settings
// service. The editor keeps the log out of the terminal; commands echo it
// to stderr.
func (a *app) open(stderr io.Writer, forTUI bool) error {
	cfg, err := config.Load(a.configPath, exeDir())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", a.configPath, err)
	}
	a.cfg = cfg

	var echo io.Writer
	if !forTUI {
		echo = stderr
	}
	closer, err := logging.Setup(cfg.LogFile, echo)
	if err != nil {
		return err
	}
	a.logFile = closer
	if a.debug {
		logging.DebugEnabled = true
	}
	logging.Debug("Base directory %s, backups in %s", cfg.BaseDir, cfg.BackupDir)

	hist, err := history.Open(filepath.Join(cfg.BackupDir, HistoryFile))
	if err != nil {
		log.Printf("WARN: Period history unavailable: %v", err)
		hist = nil
	}
	a.hist = hist

	svc, err := settings.New(cfg, hist)
	if err != nil {
		return err
	}
	a.svc = svc
	return nil
}

func (a *app) close() {
	if a.hist != nil {
		a.hist.Close()
		a.hist = nil
	}
	if a.logFile != nil {
		a.logFile.Close()
		a.logFile = nil
		log.SetOutput(os.Stderr)
	}
}

func (a *app) runTUI() error {
	w, err := watch.New(a.svc.WatchedFiles(), watch.DefaultDebounce)
	if err != nil {
		log.Printf("WARN: Change detection disabled: %v", err)
	} else {
		defer w.Stop()
	}

	log.Printf("INFO: Starting editor")
	p := tea.NewProgram(tui.New(a.svc, w), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
