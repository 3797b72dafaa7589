// Package storage keeps the current puzzle batch of each account on disk so
// puzzles can be played offline and their results sent back later in one
// SolveBatch call.
package storage

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"0mlml/lipuzzle/internal/puzzle"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ErrNoPuzzle = errors.New("no unsolved puzzle stored")

// StoredPuzzle is one puzzle of a saved batch. Only what is needed to
// replay the position and check answers is kept.
type StoredPuzzle struct {
	ID         uint   `gorm:"primaryKey"`
	Account    string `gorm:"index:idx_batch"`
	Angle      string `gorm:"index:idx_batch"`
	Difficulty string `gorm:"index:idx_batch"`
	Position   int
	PuzzleID   string `gorm:"index"`
	Rating     int
	InitialPly int
	Solution   string
	Themes     string
	GameID     string
	PGN        string
	Solved     bool
	CreatedAt  time.Time
}

// PendingSolution is a result not yet reported to the server.
type PendingSolution struct {
	ID         uint   `gorm:"primaryKey"`
	Account    string `gorm:"index:idx_pending"`
	Angle      string `gorm:"index:idx_pending"`
	Difficulty string `gorm:"index:idx_pending"`
	PuzzleID   string
	Win        bool
	Rated      bool
	CreatedAt  time.Time
}

type Store struct {
	db *gorm.DB
}

func Open(dataSourceName string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", dataSourceName, err)
	}
	if err := db.AutoMigrate(&StoredPuzzle{}, &PendingSolution{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type batchKey struct {
	account    string
	angle      string
	difficulty string
}

func keyOf(account string, angle puzzle.Angle, difficulty puzzle.Difficulty) batchKey {
	return batchKey{account: account, angle: angle.Key(), difficulty: string(difficulty)}
}

func (k batchKey) scope(db *gorm.DB) *gorm.DB {
	return db.Where("account = ? AND angle = ? AND difficulty = ?", k.account, k.angle, k.difficulty)
}

// SaveBatch replaces the unsolved puzzles stored for the batch key.
func (s *Store) SaveBatch(account string, angle puzzle.Angle, difficulty puzzle.Difficulty, puzzles []puzzle.Puzzle) error {
	k := keyOf(account, angle, difficulty)
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := k.scope(tx).Where("solved = ?", false).Delete(&StoredPuzzle{}).Error; err != nil {
			return err
		}
		if len(puzzles) == 0 {
			return nil
		}
		rows := make([]StoredPuzzle, 0, len(puzzles))
		for i, p := range puzzles {
			rows = append(rows, StoredPuzzle{
				Account:    k.account,
				Angle:      k.angle,
				Difficulty: k.difficulty,
				Position:   i,
				PuzzleID:   string(p.Puzzle.ID),
				Rating:     p.Puzzle.Rating,
				InitialPly: p.Puzzle.InitialPly,
				Solution:   joinFields(p.Puzzle.Solution),
				Themes:     joinFields(p.Puzzle.Themes.Slice()),
				GameID:     string(p.Game.ID),
				PGN:        p.Game.PGN,
			})
		}
		return tx.Create(&rows).Error
	})
}

// NextUnsolved returns the first puzzle of the batch not yet played.
func (s *Store) NextUnsolved(account string, angle puzzle.Angle, difficulty puzzle.Difficulty) (*StoredPuzzle, error) {
	var sp StoredPuzzle
	err := keyOf(account, angle, difficulty).scope(s.db).
		Where("solved = ?", false).
		Order("position").
		First(&sp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoPuzzle
	}
	if err != nil {
		return nil, err
	}
	return &sp, nil
}

// CountUnsolved reports how many puzzles of the batch are left.
func (s *Store) CountUnsolved(account string, angle puzzle.Angle, difficulty puzzle.Difficulty) (int, error) {
	var n int64
	err := keyOf(account, angle, difficulty).scope(s.db.Model(&StoredPuzzle{})).
		Where("solved = ?", false).
		Count(&n).Error
	return int(n), err
}

// RecordSolution marks the puzzle solved and queues the result.
func (s *Store) RecordSolution(account string, angle puzzle.Angle, difficulty puzzle.Difficulty, id puzzle.PuzzleID, win, rated bool) error {
	k := keyOf(account, angle, difficulty)
	return s.db.Transaction(func(tx *gorm.DB) error {
		res := k.scope(tx.Model(&StoredPuzzle{})).
			Where("puzzle_id = ? AND solved = ?", string(id), false).
			Update("solved", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("puzzle %s: %w", id, ErrNoPuzzle)
		}
		return tx.Create(&PendingSolution{
			Account:    k.account,
			Angle:      k.angle,
			Difficulty: k.difficulty,
			PuzzleID:   string(id),
			Win:        win,
			Rated:      rated,
		}).Error
	})
}

// PendingSolutions lists queued results in the order they were recorded.
func (s *Store) PendingSolutions(account string, angle puzzle.Angle, difficulty puzzle.Difficulty) ([]puzzle.PuzzleSolution, error) {
	var rows []PendingSolution
	if err := keyOf(account, angle, difficulty).scope(s.db).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]puzzle.PuzzleSolution, 0, len(rows))
	for _, r := range rows {
		out = append(out, puzzle.PuzzleSolution{ID: puzzle.PuzzleID(r.PuzzleID), Win: r.Win, Rated: r.Rated})
	}
	return out, nil
}

// ClearSolutions drops queued results and solved puzzles once the server
// has accepted them.
func (s *Store) ClearSolutions(account string, angle puzzle.Angle, difficulty puzzle.Difficulty) error {
	k := keyOf(account, angle, difficulty)
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := k.scope(tx).Delete(&PendingSolution{}).Error; err != nil {
			return err
		}
		return k.scope(tx).Where("solved = ?", true).Delete(&StoredPuzzle{}).Error
	})
}

// Puzzle rebuilds the parts of the decoded puzzle that were stored.
func (sp StoredPuzzle) Puzzle() puzzle.Puzzle {
	return puzzle.Puzzle{
		Puzzle: puzzle.PuzzleData{
			ID:         puzzle.PuzzleID(sp.PuzzleID),
			Rating:     sp.Rating,
			InitialPly: sp.InitialPly,
			Solution:   strings.Fields(sp.Solution),
			Themes:     puzzle.NewThemeSet(strings.Fields(sp.Themes)...),
		},
		Game: puzzle.PuzzleGame{
			ID:  puzzle.GameID(sp.GameID),
			PGN: sp.PGN,
		},
	}
}

func joinFields(fields []string) string {
	return strings.Join(fields, " ")
}
