package main

import (
	"log"
	"strings"

	"0mlml/lipuzzle/internal/puzzle"

	"github.com/notnil/chess"
	"github.com/spf13/cobra"
)

var (
	notifyDaily  bool
	showSolution bool
)

var puzzleCmd = &cobra.Command{
	Use:   "puzzle",
	Short: "Look at single puzzles",
}

var puzzleShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Fetch a puzzle by id and print its start position",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s, err := openSession(cmd.Context(), false)
		if err != nil {
			log.Fatalf("%v", err)
		}
		p, err := s.client.Fetch(cmd.Context(), puzzle.PuzzleID(args[0]))
		if err != nil {
			log.Fatalf("Failed to fetch puzzle: %v", err)
		}
		printPuzzle(p, showSolution)
	},
}

var puzzleDailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Fetch the puzzle of the day",
	Run: func(cmd *cobra.Command, args []string) {
		s, err := openSession(cmd.Context(), false)
		if err != nil {
			log.Fatalf("%v", err)
		}
		p, err := s.client.Daily(cmd.Context())
		if err != nil {
			log.Fatalf("Failed to fetch daily puzzle: %v", err)
		}
		printPuzzle(p, showSolution)

		if notifyDaily {
			embed := dailyPuzzleEmbed(s.config.BaseURL, p)
			if err := SendWebhook(cmd.Context(), s.config.DiscordWebhookURL, WebhookPayload{Embeds: []Embed{embed}}); err != nil {
				log.Fatalf("Failed to send webhook: %v", err)
			}
		}
	},
}

func init() {
	puzzleCmd.PersistentFlags().BoolVar(&showSolution, "solution", false, "Also print the solution moves")
	puzzleDailyCmd.Flags().BoolVar(&notifyDaily, "notify", false, "Post the puzzle to the Discord webhook")
	puzzleCmd.AddCommand(puzzleShowCmd)
	puzzleCmd.AddCommand(puzzleDailyCmd)
}

func printPuzzle(p puzzle.Puzzle, withSolution bool) {
	header := "Puzzle " + string(p.Puzzle.ID)
	if p.IsDailyPuzzle {
		header += " (daily)"
	}
	logger.Printf("%s  rating %d  plays %d\n", header, p.Puzzle.Rating, p.Puzzle.Plays)
	if p.Game.ID != "" {
		logger.Printf("From game %s: %s vs %s\n", p.Game.ID, playerLabel(p.Game.White), playerLabel(p.Game.Black))
	}
	if p.Puzzle.Themes.Len() > 0 {
		logger.Printf("Themes: %s\n", strings.Join(p.Puzzle.Themes.Slice(), ", "))
	}

	pos, err := p.InitialPosition()
	if err != nil {
		logger.Printf("Cannot show the position: %v\n", err)
		return
	}
	printPosition(pos)
	if err := p.ValidateSolution(); err != nil {
		logger.Printf("Warning: %v\n", err)
	}
	if withSolution {
		logger.Printf("Solution: %s\n", strings.Join(p.Puzzle.Solution, " "))
	}
}

func printPosition(pos *chess.Position) {
	logger.Printf("%s", pos.Board().Draw())
	turn := "White"
	if pos.Turn() == chess.Black {
		turn = "Black"
	}
	logger.Printf("%s to play. FEN: %s\n", turn, pos.String())
}

func playerLabel(p puzzle.PuzzleGamePlayer) string {
	if p.Title != nil {
		return *p.Title + " " + p.Name
	}
	return p.Name
}
