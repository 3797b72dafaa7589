package main

import (
	"log"
	"strconv"

	"github.com/spf13/cobra"
)

var streakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Start a puzzle streak",
	Long:  "Fetches the first puzzle of a new streak together with the ids of the puzzles that follow it.",
	Run: func(cmd *cobra.Command, args []string) {
		s, err := openSession(cmd.Context(), false)
		if err != nil {
			log.Fatalf("%v", err)
		}
		streak, err := s.client.Streak(cmd.Context())
		if err != nil {
			log.Fatalf("Failed to start streak: %v", err)
		}
		printPuzzle(streak.Puzzle, showSolution)
		logger.Printf("%d more puzzles queued in this streak.\n", len(streak.Streak))
		if verbose {
			for i, id := range streak.Streak {
				logger.Printf("  %d. %s\n", i+2, id)
			}
		}
	},
}

var streakSubmitCmd = &cobra.Command{
	Use:   "submit [run]",
	Short: "Submit the length of a finished streak",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run, err := strconv.Atoi(args[0])
		if err != nil || run < 0 {
			log.Fatalf("Invalid streak length %q", args[0])
		}
		s, err := openSession(cmd.Context(), true)
		if err != nil {
			log.Fatalf("%v", err)
		}
		if err := s.client.PostStreakRun(cmd.Context(), run); err != nil {
			log.Fatalf("Failed to submit streak: %v", err)
		}
		logger.Printf("Streak of %d submitted for %s.\n", run, s.username())
	},
}

func init() {
	streakCmd.Flags().BoolVar(&showSolution, "solution", false, "Also print the solution of the first puzzle")
	streakCmd.AddCommand(streakSubmitCmd)
}
