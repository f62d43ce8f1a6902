// Package settings implements the individual configurator operations: each
// reads or patches one game file, except SetPeriod which swaps the whole
// managed file set.
package settings

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/conquest-enhanced/ceconfig/internal/config"
	"github.com/conquest-enhanced/ceconfig/internal/history"
	"github.com/conquest-enhanced/ceconfig/internal/patch"
	"github.com/conquest-enhanced/ceconfig/internal/period"
	"github.com/conquest-enhanced/ceconfig/internal/util"
)

// Paths of the single-file settings, relative to the base directory.
var (
	DifficultyDir  = filepath.Join("resource", "set", "dynamic_campaign")
	WinPointsFile  = filepath.Join("resource", "set", "multiplayer", "games", "campaign_capture_the_flag.set")
	ResupplyFile   = filepath.Join("resource", "properties", "resupply.inc")
	BallisticsFile = filepath.Join("resource", "set", "ballistics.set")
	ModdedDamage   = filepath.Join("configurator files", "moddedballistics.set")
	VanillaDamage  = filepath.Join("configurator files", "vanillaballistics.set")
	PrepTimeFile   = filepath.Join("resource", "conquest_configuration", "bot.conquest_configuration.lua")
)

const (
	regenOn  = "{regenerationPeriod 5};"
	regenOff = "{regenerationPeriod 0};"
)

var (
	reBotResources = regexp.MustCompile(`(BotResources +)(\d+(?:\.\d+)?)`)
	reWinPoints    = regexp.MustCompile(`(winpoints *)(\d+)`)
	reStageCP      = regexp.MustCompile(`(\{StageCP )([^}]+)`)
	reStart        = regexp.MustCompile(`(\{Start ")([^"]+)`)
	reRewards      = regexp.MustCompile(`\{Rewards ([^}]+)\}`)
	reStages       = regexp.MustCompile(`\{ResearchStages "[^"]*"\}`)
)

// Service binds the configuration to the settings operations.
type Service struct {
	cfg      config.Config
	codec    patch.Codec
	switcher *period.Switcher
	history  *history.Store
}

// New returns a settings service. hist may be nil, in which case period
// switches are not recorded.
func New(cfg config.Config, hist *history.Store) (*Service, error) {
	codec, err := patch.CodecFor(cfg.Encoding)
	if err != nil {
		return nil, err
	}
	return &Service{
		cfg:      cfg,
		codec:    codec,
		switcher: period.NewSwitcher(cfg),
		history:  hist,
	}, nil
}

// Config returns the configuration the service was built with.
func (s *Service) Config() config.Config {
	return s.cfg
}

// Switcher exposes the period switcher.
func (s *Service) Switcher() *period.Switcher {
	return s.switcher
}

func (s *Service) path(rel string) string {
	return filepath.Join(s.cfg.BaseDir, rel)
}

// DifficultyFile returns the dynamic campaign file for d. Unknown
// difficulties fall back to normal.
func (s *Service) DifficultyFile(d Difficulty) string {
	name, ok := difficultyFiles[d]
	if !ok {
		name = difficultyFiles[Normal]
	}
	return s.path(filepath.Join(DifficultyDir, name))
}

// WatchedFiles lists every file the single-file settings read, across all
// difficulties.
func (s *Service) WatchedFiles() []string {
	files := make([]string, 0, len(Difficulties)+4)
	for _, c := range Difficulties {
		files = append(files, s.DifficultyFile(Difficulty(c.Value)))
	}
	return append(files,
		s.path(WinPointsFile),
		s.path(ResupplyFile),
		s.path(BallisticsFile),
		s.path(PrepTimeFile),
	)
}

func (s *Service) read(path string) (string, error) {
	return patch.Read(path, s.codec)
}

func (s *Service) patch(what, path string, edits ...patch.Edit) error {
	res, err := patch.File(path, s.codec, edits...)
	if err != nil {
		log.Printf("ERROR: Error updating %s: %v", what, err)
		return fmt.Errorf("updating %s: %w", what, err)
	}
	if res.Changed {
		log.Printf("INFO: Updated %s in %s", what, path)
	} else {
		log.Printf("INFO: %s already set in %s", what, path)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// --- AI army size ---

// AIArmySize reads the BotResources multiplier from the difficulty file.
func (s *Service) AIArmySize(d Difficulty) (float64, error) {
	content, err := s.read(s.DifficultyFile(d))
	if err != nil {
		return 0, err
	}
	m := reBotResources.FindStringSubmatch(content)
	if m == nil {
		return 0, util.NewPathError("read", s.DifficultyFile(d), patch.ErrNoMatch)
	}
	return strconv.ParseFloat(m[2], 64)
}

// SetAIArmySize sets the BotResources multiplier; size must be in [1, 10].
func (s *Service) SetAIArmySize(d Difficulty, size float64) error {
	if size < 1 || size > 10 {
		return util.NewValidationError("AI army size", formatFloat(size), "must be between 1 and 10")
	}
	return s.patch("BotResources", s.DifficultyFile(d),
		patch.ReplaceNumber(reBotResources, formatFloat(size)))
}

// --- Points to win ---

// WinPoints reads the capture-the-flag win threshold.
func (s *Service) WinPoints() (int, error) {
	content, err := s.read(s.path(WinPointsFile))
	if err != nil {
		return 0, err
	}
	m := reWinPoints.FindStringSubmatch(content)
	if m == nil {
		return 0, util.NewPathError("read", s.path(WinPointsFile), patch.ErrNoMatch)
	}
	return strconv.Atoi(m[2])
}

// SetWinPoints sets the capture-the-flag win threshold; points must be positive.
func (s *Service) SetWinPoints(points int) error {
	if points <= 0 {
		return util.NewValidationError("points to win", strconv.Itoa(points), "must be a positive integer")
	}
	return s.patch("winpoints", s.path(WinPointsFile),
		patch.ReplaceNumber(reWinPoints, strconv.Itoa(points)))
}

// --- Ammo regeneration ---

// AmmoRegen reports whether supply trucks regenerate ammunition.
func (s *Service) AmmoRegen() (bool, error) {
	content, err := s.read(s.path(ResupplyFile))
	if err != nil {
		return false, err
	}
	switch {
	case strings.Contains(content, regenOn):
		return true, nil
	case strings.Contains(content, regenOff):
		return false, nil
	}
	return false, util.NewPathError("read", s.path(ResupplyFile), patch.ErrNoMatch)
}

// SetAmmoRegen switches ammunition regeneration on or off.
func (s *Service) SetAmmoRegen(on bool) error {
	return s.patch("ammo regeneration", s.path(ResupplyFile),
		patch.Toggle{On: regenOn, Off: regenOff, Enable: on})
}

// --- Damage model ---

// DamageMode reports which ballistics table is installed.
func (s *Service) DamageMode() (DamageMode, error) {
	live, err := os.ReadFile(s.path(BallisticsFile))
	if err != nil {
		return DamageUnknown, util.NewPathError("read", s.path(BallisticsFile), err)
	}
	for mode, src := range map[DamageMode]string{DamageMod: ModdedDamage, DamageVanilla: VanillaDamage} {
		if data, err := os.ReadFile(s.path(src)); err == nil && bytes.Equal(data, live) {
			return mode, nil
		}
	}
	return DamageUnknown, nil
}

// SetDamageMode installs the modded or vanilla ballistics table.
func (s *Service) SetDamageMode(mode DamageMode) error {
	var src string
	switch mode {
	case DamageMod:
		src = s.path(ModdedDamage)
	case DamageVanilla:
		src = s.path(VanillaDamage)
	default:
		return util.NewValidationError("damage mode", string(mode), "must be mod or vanilla")
	}
	dst := s.path(BallisticsFile)
	if err := util.CopyFile(src, dst); err != nil {
		log.Printf("ERROR: Error updating damage settings: %v", err)
		return fmt.Errorf("updating damage settings: %w", util.NewPathError("copy", src, err))
	}
	log.Printf("INFO: Installed %s ballistics from %s", mode, src)
	return nil
}

// --- Player army size ---

// PlayerArmy is the per-stage command point list and the total budget.
type PlayerArmy struct {
	StageCP string // space separated, one number per stage
	Budget  string
}

// PlayerArmy reads the stage sizes and budget from the difficulty file.
// Missing values are returned empty.
func (s *Service) PlayerArmy(d Difficulty) (PlayerArmy, error) {
	content, err := s.read(s.DifficultyFile(d))
	if err != nil {
		return PlayerArmy{}, err
	}
	var pa PlayerArmy
	if m := reStageCP.FindStringSubmatch(content); m != nil {
		pa.StageCP = m[2]
	}
	if m := reStart.FindStringSubmatch(content); m != nil {
		pa.Budget = m[2]
	}
	return pa, nil
}

// SetPlayerArmy writes the stage sizes and budget.
func (s *Service) SetPlayerArmy(d Difficulty, pa PlayerArmy) error {
	fields := strings.Fields(pa.StageCP)
	if len(fields) == 0 {
		return util.NewValidationError("stage sizes", pa.StageCP, "must list one number per stage")
	}
	for _, f := range fields {
		if _, err := strconv.Atoi(f); err != nil {
			return util.NewValidationError("stage sizes", pa.StageCP, "must be whole numbers separated by spaces")
		}
	}
	if len(fields) != 7 {
		log.Printf("WARN: Stage sizes list has %d entries; the mod expects 7", len(fields))
	}
	budget := strings.TrimSpace(pa.Budget)
	if _, err := strconv.Atoi(budget); err != nil {
		return util.NewValidationError("budget", pa.Budget, "must be a whole number")
	}
	return s.patch("player army size", s.DifficultyFile(d),
		patch.ReplaceNumber(reStageCP, strings.Join(fields, " ")),
		patch.ReplaceNumber(reStart, budget))
}

// --- Preparation time ---

func prepPattern(key string) *regexp.Regexp {
	return regexp.MustCompile(`(` + regexp.QuoteMeta(key) + ` = )(\d+)`)
}

// PrepTimes reads the AI arrival offsets keyed by PrepTimeKeys. Keys not
// present in the file are omitted.
func (s *Service) PrepTimes() (map[string]int, error) {
	content, err := s.read(s.path(PrepTimeFile))
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(PrepTimeKeys))
	for _, key := range PrepTimeKeys {
		if m := prepPattern(key).FindStringSubmatch(content); m != nil {
			n, _ := strconv.Atoi(m[2])
			out[key] = n
		}
	}
	return out, nil
}

// SetPrepTimes writes the given offsets; each must be in [1, 10000].
func (s *Service) SetPrepTimes(times map[string]int) error {
	var edits []patch.Edit
	for _, key := range PrepTimeKeys {
		v, ok := times[key]
		if !ok {
			continue
		}
		if v < 1 || v > 10000 {
			return util.NewValidationError(key, strconv.Itoa(v), "must be between 1 and 10000")
		}
		edits = append(edits, patch.ReplaceNumber(prepPattern(key), strconv.Itoa(v)))
	}
	if len(edits) == 0 {
		return nil
	}
	return s.patch("preparation times", s.path(PrepTimeFile), edits...)
}

// --- Starting resources ---

func resourcePattern(name string) *regexp.Regexp {
	key := strings.ReplaceAll(name, " ", "")
	return regexp.MustCompile(`(` + regexp.QuoteMeta(key) + `(?s:.*?)StartVal )(\d+)`)
}

// StartingResources reads the start values keyed by ResourceNames.
func (s *Service) StartingResources(d Difficulty) (map[string]int, error) {
	content, err := s.read(s.DifficultyFile(d))
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(ResourceNames))
	for _, name := range ResourceNames {
		if m := resourcePattern(name).FindStringSubmatch(content); m != nil {
			n, _ := strconv.Atoi(m[2])
			out[name] = n
		}
	}
	return out, nil
}

// SetStartingResources writes start values; each must be in [1, 100000].
func (s *Service) SetStartingResources(d Difficulty, values map[string]int) error {
	var edits []patch.Edit
	for _, name := range ResourceNames {
		v, ok := values[name]
		if !ok {
			continue
		}
		if v < 1 || v > 100000 {
			return util.NewValidationError("starting "+name, strconv.Itoa(v), "must be between 1 and 100000")
		}
		edits = append(edits, patch.ReplaceNumber(resourcePattern(name), strconv.Itoa(v)))
	}
	if len(edits) == 0 {
		return nil
	}
	return s.patch("starting resources", s.DifficultyFile(d), edits...)
}

// --- Resource income ---

// ResourceIncome reads the {Rewards} multipliers in file order, one per
// RiskLevels entry at most.
func (s *Service) ResourceIncome(d Difficulty) ([]float64, error) {
	content, err := s.read(s.DifficultyFile(d))
	if err != nil {
		return nil, err
	}
	var out []float64
	for _, raw := range patch.FindAll(content, reRewards) {
		if len(out) == len(RiskLevels) {
			break
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, util.NewPathError("read", s.DifficultyFile(d), fmt.Errorf("rewards %q: %w", raw, err))
		}
		out = append(out, v)
	}
	return out, nil
}

// SetResourceIncome writes the multipliers in file order; each must be in [1, 100].
func (s *Service) SetResourceIncome(d Difficulty, values []float64) error {
	if len(values) > len(RiskLevels) {
		return util.NewValidationError("resource income", fmt.Sprint(values), fmt.Sprintf("at most %d values", len(RiskLevels)))
	}
	strs := make([]string, len(values))
	for i, v := range values {
		if v < 1 || v > 100 {
			return util.NewValidationError(RiskLevels[i]+" income", formatFloat(v), "must be between 1 and 100")
		}
		strs[i] = formatFloat(v)
	}
	return s.patch("resource income multipliers", s.DifficultyFile(d),
		patch.Sequence{Pattern: reRewards, Group: 1, Values: strs})
}

// --- AI defense research ---

func fortPattern(level string) *regexp.Regexp {
	return regexp.MustCompile(`(` + regexp.QuoteMeta(level) + `(?s:.*?)unlock games )(\d+)`)
}

// Fortifications reads the mission counts keyed by FortificationLevels.
func (s *Service) Fortifications(d Difficulty) (map[string]int, error) {
	content, err := s.read(s.DifficultyFile(d))
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(FortificationLevels))
	for _, level := range FortificationLevels {
		if m := fortPattern(level).FindStringSubmatch(content); m != nil {
			n, _ := strconv.Atoi(m[2])
			out[level] = n
		}
	}
	return out, nil
}

// SetFortifications writes mission counts; each must be in [1, 100].
func (s *Service) SetFortifications(d Difficulty, values map[string]int) error {
	var edits []patch.Edit
	for _, level := range FortificationLevels {
		v, ok := values[level]
		if !ok {
			continue
		}
		if v < 1 || v > 100 {
			return util.NewValidationError(level+" missions", strconv.Itoa(v), "must be between 1 and 100")
		}
		edits = append(edits, patch.ReplaceNumber(fortPattern(level), strconv.Itoa(v)))
	}
	if len(edits) == 0 {
		return nil
	}
	return s.patch("AI defense research speed", s.DifficultyFile(d), edits...)
}

// --- AI research speed ---

// ResearchSpeed reports which progression table the difficulty file uses.
func (s *Service) ResearchSpeed(d Difficulty) (ResearchSpeed, error) {
	content, err := s.read(s.DifficultyFile(d))
	if err != nil {
		return ResearchUnknown, err
	}
	for _, c := range ResearchSpeeds {
		if strings.Contains(content, researchStages[ResearchSpeed(c.Value)]) {
			return ResearchSpeed(c.Value), nil
		}
	}
	if reStages.MatchString(content) {
		return ResearchUnknown, nil
	}
	return ResearchUnknown, util.NewPathError("read", s.DifficultyFile(d), patch.ErrNoMatch)
}

// SetResearchSpeed replaces whichever known progression table is present
// with the one for speed. A custom table is left alone and reported as
// ErrNoMatch.
func (s *Service) SetResearchSpeed(d Difficulty, speed ResearchSpeed) error {
	target, ok := researchStages[speed]
	if !ok {
		return util.NewValidationError("research speed", string(speed), "must be normal, slow30, slow60 or fast")
	}
	edits := make([]patch.Edit, 0, len(researchStages))
	for _, c := range ResearchSpeeds {
		edits = append(edits, patch.Literal{Old: researchStages[ResearchSpeed(c.Value)], New: target})
	}
	return s.patch("AI research speed", s.DifficultyFile(d), edits...)
}

// --- War period ---

// SetPeriod switches the war period and records the outcome in the history
// store when one is configured.
func (s *Service) SetPeriod(p string, progress func(period.Progress)) (*period.Report, error) {
	report, err := s.switcher.Switch(p, progress)
	s.record(p, report, err, history.OutcomeApplied)
	return report, err
}

// Restore restores the most recent period backup.
func (s *Service) Restore(progress func(period.Progress)) (*period.Report, error) {
	report, err := s.switcher.Restore(progress)
	if report != nil {
		s.record(report.Period, report, err, history.OutcomeRestored)
	}
	return report, err
}

func (s *Service) record(p string, report *period.Report, err error, success history.Outcome) {
	if s.history == nil {
		return
	}
	now := time.Now()
	e := history.Entry{Period: p, Outcome: success, Started: now, Finished: now}
	if err != nil {
		e.Error = err.Error()
		switch {
		case errors.Is(err, period.ErrRolledBack):
			e.Outcome = history.OutcomeRolledBack
		case report == nil:
			e.Outcome = history.OutcomeRejected
		default:
			e.Outcome = history.OutcomeFailed
		}
	}
	if report != nil {
		e.RunID = report.RunID
		e.Started = report.Started
		e.Finished = report.Finished
		results := report.Apply
		if success == history.OutcomeRestored {
			results = report.Restore
		}
		e.Applied = period.Count(results, period.StatusOK)
		e.Missing = period.Count(results, period.StatusMissing)
		e.Failed = period.Count(results, period.StatusFailed)
		e.Bytes = period.Bytes(results)
	}
	if _, herr := s.history.Record(e); herr != nil {
		log.Printf("WARN: Could not record period history: %v", herr)
	}
}

// CurrentPeriod returns the last successfully applied period, or "" when
// unknown.
func (s *Service) CurrentPeriod() string {
	if s.history == nil {
		return ""
	}
	p, err := s.history.Current()
	if err != nil {
		log.Printf("WARN: Could not read current period: %v", err)
		return ""
	}
	return p
}

// History returns up to limit recorded switches, newest first.
func (s *Service) History(limit int) ([]history.Entry, error) {
	if s.history == nil {
		return nil, nil
	}
	return s.history.List(limit)
}
