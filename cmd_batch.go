package main

import (
	"errors"
	"fmt"
	"log"

	"0mlml/lipuzzle/internal/puzzle"
	"0mlml/lipuzzle/internal/storage"

	"github.com/spf13/cobra"
)

var (
	batchSize       int
	batchTheme      string
	batchOpening    string
	batchDifficulty string
	markWin         bool
	markRated       bool
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Play puzzle batches offline and sync the results",
	Long:  "Selects a batch of puzzles into the local database, plays them one by one and sends all results back in a single request.",
}

var batchSelectCmd = &cobra.Command{
	Use:   "select",
	Short: "Fetch a new batch and store it locally",
	Run:   runBatchSelect,
}

var batchNextCmd = &cobra.Command{
	Use:   "next",
	Short: "Print the next unsolved puzzle of the stored batch",
	Run:   runBatchNext,
}

var batchMarkCmd = &cobra.Command{
	Use:   "mark [id]",
	Short: "Record the result of a stored puzzle",
	Args:  cobra.ExactArgs(1),
	Run:   runBatchMark,
}

var batchSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Send recorded results and store the next batch",
	Run:   runBatchSync,
}

func init() {
	batchCmd.PersistentFlags().StringVar(&batchTheme, "theme", "", "Theme key, e.g. fork or mateIn2 (default mix)")
	batchCmd.PersistentFlags().StringVar(&batchOpening, "opening", "", "Opening key, overrides --theme")
	batchCmd.PersistentFlags().StringVar(&batchDifficulty, "difficulty", "", "easiest, easier, normal, harder or hardest")
	batchSelectCmd.Flags().IntVar(&batchSize, "nb", 15, "Number of puzzles to fetch")
	batchSyncCmd.Flags().IntVar(&batchSize, "nb", 15, "Number of puzzles in the next batch")
	batchMarkCmd.Flags().BoolVar(&markWin, "win", false, "The puzzle was solved")
	batchMarkCmd.Flags().BoolVar(&markRated, "rated", true, "The attempt counts for rating")

	batchCmd.AddCommand(batchSelectCmd)
	batchCmd.AddCommand(batchNextCmd)
	batchCmd.AddCommand(batchMarkCmd)
	batchCmd.AddCommand(batchSyncCmd)
}

// batchScope turns the shared batch flags into an angle and a difficulty.
func batchScope(theme, opening, difficulty string) (puzzle.Angle, puzzle.Difficulty, error) {
	angle := puzzle.DefaultAngle
	switch {
	case opening != "":
		angle = puzzle.OpeningAngle(opening)
	case theme != "":
		key := puzzle.LookupTheme(theme)
		if key == puzzle.ThemeUnsupported {
			return puzzle.Angle{}, "", fmt.Errorf("unknown theme %q, see `themes`", theme)
		}
		angle = puzzle.ThemeAngle(key)
	}

	var diff puzzle.Difficulty
	if difficulty != "" {
		d, ok := puzzle.ParseDifficulty(difficulty)
		if !ok {
			return puzzle.Angle{}, "", fmt.Errorf("unknown difficulty %q", difficulty)
		}
		diff = d
	}
	return angle, diff, nil
}

// openBatch is the common setup of every batch subcommand.
func openBatch(cmd *cobra.Command) (*session, *storage.Store, puzzle.Angle, puzzle.Difficulty) {
	angle, diff, err := batchScope(batchTheme, batchOpening, batchDifficulty)
	if err != nil {
		log.Fatalf("%v", err)
	}
	s, err := openSession(cmd.Context(), true)
	if err != nil {
		log.Fatalf("%v", err)
	}
	store, err := s.openStore()
	if err != nil {
		log.Fatalf("Failed to open puzzle database: %v", err)
	}
	return s, store, angle, diff
}

func runBatchSelect(cmd *cobra.Command, args []string) {
	s, store, angle, diff := openBatch(cmd)
	defer store.Close()

	batch, err := s.client.SelectBatch(cmd.Context(), batchSize, angle, diff)
	if err != nil {
		log.Fatalf("Failed to select batch: %v", err)
	}
	if err := store.SaveBatch(s.username(), angle, diff, batch.Puzzles); err != nil {
		log.Fatalf("Failed to save batch: %v", err)
	}

	logger.Printf("Stored %d puzzles for %s (%s).\n", len(batch.Puzzles), s.username(), angle.Key())
	printGlicko(batch.Glicko)
}

func runBatchNext(cmd *cobra.Command, args []string) {
	s, store, angle, diff := openBatch(cmd)
	defer store.Close()

	sp, err := store.NextUnsolved(s.username(), angle, diff)
	if errors.Is(err, storage.ErrNoPuzzle) {
		logger.Println("No unsolved puzzle stored. Run `batch sync` or `batch select`.")
		return
	}
	if err != nil {
		log.Fatalf("Failed to read stored batch: %v", err)
	}

	left, err := store.CountUnsolved(s.username(), angle, diff)
	if err != nil {
		log.Fatalf("Failed to count stored puzzles: %v", err)
	}
	logger.Printf("%d puzzles left in this batch.\n", left)
	printPuzzle(sp.Puzzle(), false)
	logger.Printf("When done: batch mark %s --win\n", sp.PuzzleID)
}

func runBatchMark(cmd *cobra.Command, args []string) {
	s, store, angle, diff := openBatch(cmd)
	defer store.Close()

	id := puzzle.PuzzleID(args[0])
	if err := store.RecordSolution(s.username(), angle, diff, id, markWin, markRated); err != nil {
		log.Fatalf("Failed to record result: %v", err)
	}
	result := "loss"
	if markWin {
		result = "win"
	}
	logger.Printf("Recorded %s on puzzle %s.\n", result, id)
}

func runBatchSync(cmd *cobra.Command, args []string) {
	s, store, angle, diff := openBatch(cmd)
	defer store.Close()

	solved, err := store.PendingSolutions(s.username(), angle, diff)
	if err != nil {
		log.Fatalf("Failed to read recorded results: %v", err)
	}

	batch, err := s.client.SolveBatch(cmd.Context(), batchSize, solved, angle, diff)
	if err != nil {
		log.Fatalf("Failed to send results: %v", err)
	}
	if err := store.ClearSolutions(s.username(), angle, diff); err != nil {
		log.Fatalf("Failed to clear recorded results: %v", err)
	}
	if err := store.SaveBatch(s.username(), angle, diff, batch.Puzzles); err != nil {
		log.Fatalf("Failed to save batch: %v", err)
	}

	logger.Printf("Sent %d results, stored %d new puzzles.\n", len(solved), len(batch.Puzzles))
	for _, r := range batch.Rounds {
		mark := "✗"
		if r.Win {
			mark = "✓"
		}
		logger.Printf("  %s %s %+d\n", mark, r.ID, r.RatingDiff)
	}
	printGlicko(batch.Glicko)
}

func printGlicko(g *puzzle.PuzzleGlicko) {
	if g == nil {
		return
	}
	provisional := ""
	if g.Provisional != nil && *g.Provisional {
		provisional = "?"
	}
	logger.Printf("Puzzle rating: %.0f%s (deviation %.0f)\n", g.Rating, provisional, g.Deviation)
}
