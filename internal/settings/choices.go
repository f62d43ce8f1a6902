package settings

// Choice is a selectable option with its display label.
type Choice struct {
	Value string
	Label string
}

// Difficulty selects which dynamic campaign file the numeric edits target.
type Difficulty string

const (
	Performance Difficulty = "performance"
	Normal      Difficulty = "normal"
	Hard        Difficulty = "hard"
	Unfair      Difficulty = "unfair"
)

// Difficulties in display order.
var Difficulties = []Choice{
	{string(Performance), "Performance (Easy)"},
	{string(Normal), "Normal"},
	{string(Hard), "Hard"},
	{string(Unfair), "Unfair"},
}

var difficultyFiles = map[Difficulty]string{
	Performance: "dcg_easy.inc",
	Normal:      "dcg_normal.inc",
	Hard:        "dcg_hard.inc",
	Unfair:      "dcg_heroic.inc",
}

// DamageMode selects the ballistics table.
type DamageMode string

const (
	DamageMod     DamageMode = "mod"
	DamageVanilla DamageMode = "vanilla"
	DamageUnknown DamageMode = ""
)

// DamageModes in display order.
var DamageModes = []Choice{
	{string(DamageMod), "Modded Damage"},
	{string(DamageVanilla), "Vanilla Damage"},
}

// ResearchSpeed selects the AI research progression table.
type ResearchSpeed string

const (
	ResearchNormal  ResearchSpeed = "normal"
	ResearchSlow30  ResearchSpeed = "slow30"
	ResearchSlow60  ResearchSpeed = "slow60"
	ResearchFast    ResearchSpeed = "fast"
	ResearchUnknown ResearchSpeed = ""
)

// ResearchSpeeds in display order.
var ResearchSpeeds = []Choice{
	{string(ResearchNormal), "Normal AI progression"},
	{string(ResearchSlow30), "30% slower AI progression"},
	{string(ResearchSlow60), "60% slower AI progression"},
	{string(ResearchFast), "Faster AI progression"},
}

var researchStages = map[ResearchSpeed]string{
	ResearchNormal: `{ResearchStages "0:1 1:2 2:3 3:4 4:5 5:6 6:7 7:8 8:9 9:10 10:11 11:12 12:13 13:14 14:15 15:16 16:17 17:18 18:19 19:20"}`,
	ResearchSlow30: `{ResearchStages "0:1 1:1 2:2 3:2 4:3 5:4 6:5 7:6 8:7 9:8 10:9 11:10 12:11 13:12 14:13 15:14 16:15 17:16 18:17 19:18 20:19 21:20"}`,
	ResearchSlow60: `{ResearchStages "0:1 1:1 2:2 3:2 4:2 5:3 6:3 7:4 8:4 9:5 10:5 11:6 12:7 13:8 14:9 15:9 16:10 17:11 18:12 19:13 20:14 21:15 22:16 23:17 24:18 25:19 25:20"}`,
	ResearchFast:   `{ResearchStages "0:2 1:2 2:4 3:4 4:6 5:6 6:8 7:8 8:10 9:10 10:12 11:13 12:14 13:15 14:16 15:18 16:19 17:20"}`,
}

// PeriodLabels are the display names of the shipped war periods. Periods
// added to the configuration without a label are shown by name.
var PeriodLabels = map[string]string{
	"normal": "All War (1939-1945)",
	"early":  "Early War (1939-1941)",
	"mid":    "Mid War (1941-1943)",
	"late":   "Late War (1943-1945)",
}

// PeriodLabel returns the display label for period.
func PeriodLabel(period string) string {
	if l, ok := PeriodLabels[period]; ok {
		return l
	}
	return period
}

// PrepTimeKeys are the preparation time settings, in display order.
var PrepTimeKeys = []string{
	"oneFlagOffsetTime",
	"twoFlagOffsetTime",
	"threeFlagOffsetTime",
	"fourFlagOffsetTime",
	"fiveFlagOffsetTime",
}

// ResourceNames are the starting resources, in display order. The key in the
// difficulty file is the name without spaces.
var ResourceNames = []string{
	"Research Points",
	"Manpower Points",
	"Star Call Points",
	"Ammo Points",
}

// RiskLevels label the {Rewards} entries of a difficulty file, in file order.
var RiskLevels = []string{"Low Risk", "Standard Risk", "High Risk"}

// FortificationLevels are the AI defense levels that have an unlock count.
var FortificationLevels = []string{"Second Level", "Third Level"}
