package puzzle

import (
	"sort"
	"time"
)

type (
	PuzzleID string
	GameID   string
	UserID   string
)

// Side is the color a player had in the source game.
type Side string

const (
	White Side = "white"
	Black Side = "black"
)

// ThemeSet holds the tags of a puzzle. The zero value is an empty set.
type ThemeSet struct {
	tags map[string]struct{}
}

func NewThemeSet(tags ...string) ThemeSet {
	m := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		m[t] = struct{}{}
	}
	return ThemeSet{tags: m}
}

func (s ThemeSet) Has(tag string) bool {
	_, ok := s.tags[tag]
	return ok
}

func (s ThemeSet) Len() int { return len(s.tags) }

// Slice returns the tags in lexical order.
func (s ThemeSet) Slice() []string {
	out := make([]string, 0, len(s.tags))
	for t := range s.tags {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

type Puzzle struct {
	Puzzle        PuzzleData
	Game          PuzzleGame
	IsDailyPuzzle bool
}

type PuzzleData struct {
	ID         PuzzleID
	Rating     int
	Plays      int
	InitialPly int
	Solution   []string
	Themes     ThemeSet
}

type PuzzleGame struct {
	ID    GameID
	Perf  string
	Rated bool
	White PuzzleGamePlayer
	Black PuzzleGamePlayer
	PGN   string
}

type PuzzleGamePlayer struct {
	Side  Side
	Name  string
	Title *string
}

type PuzzleGlicko struct {
	Rating      float64
	Deviation   float64
	Provisional *bool
}

type PuzzleRound struct {
	ID         PuzzleID
	RatingDiff int
	Win        bool
}

type PuzzleBatchResponse struct {
	Puzzles []Puzzle
	Glicko  *PuzzleGlicko
	// Rounds is nil when the service did not send any.
	Rounds []PuzzleRound
}

// PuzzleSolution is one entry of the solved list sent back with SolveBatch.
type PuzzleSolution struct {
	ID    PuzzleID `json:"id"`
	Win   bool     `json:"win"`
	Rated bool     `json:"rated"`
}

type PuzzleStreakResponse struct {
	Puzzle Puzzle
	Streak []PuzzleID
}

// LitePuzzle is the reduced puzzle shape served to storm runs.
type LitePuzzle struct {
	ID       PuzzleID
	FEN      string
	Solution []string
	Rating   int
}

type StormHighScore struct {
	Day     int
	Week    int
	Month   int
	AllTime int
}

type PuzzleStormResponse struct {
	Puzzles   []LitePuzzle
	Highscore *StormHighScore
	Key       *string
}

// StormRunRecord is one puzzle played during a storm run.
type StormRunRecord struct {
	ID  PuzzleID
	Win bool
}

type StormRunStats struct {
	History   []StormRunRecord
	Score     int
	Moves     int
	Errors    int
	ComboBest int
	Time      time.Duration
	Highest   int
}

type StormNewHighType string

const (
	StormNewHighDay     StormNewHighType = "day"
	StormNewHighWeek    StormNewHighType = "week"
	StormNewHighMonth   StormNewHighType = "month"
	StormNewHighAllTime StormNewHighType = "allTime"
)

type StormNewHigh struct {
	Key  StormNewHighType
	Prev int
}

type StormDayScore struct {
	Day     time.Time
	Runs    int
	Score   int
	Time    int
	Highest int
}

type StormDashboard struct {
	HighScore     StormHighScore
	DayHighscores []StormDayScore
}

type PuzzleDashboardData struct {
	Theme       ThemeKey
	Nb          int
	FirstWins   int
	ReplayWins  int
	Performance int
}

type PuzzleDashboard struct {
	Global PuzzleDashboardData
	Themes []PuzzleDashboardData
}

type PuzzleHistoryEntry struct {
	Win      bool
	Date     time.Time
	Rating   int
	ID       PuzzleID
	FEN      string
	LastMove string
}

type PuzzleThemeData struct {
	Key         ThemeKey
	Name        string
	Description string
	Count       int
}

type PuzzleOpeningData struct {
	Key   string
	Name  string
	Count int
}

type PuzzleOpeningFamily struct {
	Key      string
	Name     string
	Count    int
	Openings []PuzzleOpeningData
}

// Angle selects which puzzles a batch is drawn from: a theme or an opening.
type Angle struct {
	key     string
	opening bool
}

func ThemeAngle(k ThemeKey) Angle { return Angle{key: string(k)} }

func OpeningAngle(key string) Angle { return Angle{key: key, opening: true} }

// DefaultAngle is the healthy mix of all themes.
var DefaultAngle = ThemeAngle(ThemeMix)

func (a Angle) Key() string {
	if a.key == "" {
		return string(ThemeMix)
	}
	return a.key
}

func (a Angle) IsOpening() bool { return a.opening }

type Difficulty string

const (
	DifficultyEasiest Difficulty = "easiest"
	DifficultyEasier  Difficulty = "easier"
	DifficultyNormal  Difficulty = "normal"
	DifficultyHarder  Difficulty = "harder"
	DifficultyHardest Difficulty = "hardest"
)

func ParseDifficulty(s string) (Difficulty, bool) {
	switch d := Difficulty(s); d {
	case DifficultyEasiest, DifficultyEasier, DifficultyNormal, DifficultyHarder, DifficultyHardest:
		return d, true
	}
	return "", false
}
