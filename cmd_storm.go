package main

import (
	"fmt"
	"log"
	"strings"
	"time"

	"0mlml/lipuzzle/internal/puzzle"

	"github.com/spf13/cobra"
)

var (
	stormResults   []string
	stormScore     int
	stormMoves     int
	stormErrors    int
	stormCombo     int
	stormTime      time.Duration
	stormHighest   int
	stormDaysShown int
)

var stormCmd = &cobra.Command{
	Use:   "storm",
	Short: "Fetch the puzzles of a new storm run",
	Run: func(cmd *cobra.Command, args []string) {
		s, err := openSession(cmd.Context(), false)
		if err != nil {
			log.Fatalf("%v", err)
		}
		storm, err := s.client.Storm(cmd.Context())
		if err != nil {
			log.Fatalf("Failed to fetch storm: %v", err)
		}

		logger.Printf("Storm with %d puzzles.\n", len(storm.Puzzles))
		if storm.Highscore != nil {
			printStormHighs(*storm.Highscore)
		}
		if len(storm.Puzzles) == 0 {
			return
		}
		first := storm.Puzzles[0]
		pos, err := first.Position()
		if err != nil {
			log.Fatalf("Failed to read first storm puzzle: %v", err)
		}
		logger.Printf("First puzzle %s, rating %d:\n", first.ID, first.Rating)
		printPosition(pos)
		if verbose {
			for _, p := range storm.Puzzles {
				logger.Printf("  %s %d %s\n", p.ID, p.Rating, strings.Join(p.Solution, " "))
			}
		}
	},
}

var stormSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit the result of a storm run",
	Long:  "Submits a finished run. Pass one --result id:win or id:loss per puzzle played.",
	Run: func(cmd *cobra.Command, args []string) {
		history, err := parseStormResults(stormResults)
		if err != nil {
			log.Fatalf("%v", err)
		}
		s, err := openSession(cmd.Context(), true)
		if err != nil {
			log.Fatalf("%v", err)
		}

		stats := puzzle.StormRunStats{
			History:   history,
			Score:     stormScore,
			Moves:     stormMoves,
			Errors:    stormErrors,
			ComboBest: stormCombo,
			Time:      stormTime,
			Highest:   stormHighest,
		}
		newHigh, err := s.client.PostStormRun(cmd.Context(), stats)
		if err != nil {
			log.Fatalf("Failed to submit storm run: %v", err)
		}
		if newHigh == nil {
			logger.Printf("Storm run of %d submitted.\n", stormScore)
			return
		}

		logger.Printf("New %s high score: %d (previous %d).\n", newHigh.Key, stormScore, newHigh.Prev)
		if s.account != nil && newHigh.Key == puzzle.StormNewHighAllTime {
			s.account.StormHigh = stormScore
			if err := s.save(); err != nil {
				log.Fatalf("Failed to save database: %v", err)
			}
		}
		embed := stormNewHighEmbed(s.username(), stormScore, newHigh)
		if err := SendWebhook(cmd.Context(), s.config.DiscordWebhookURL, WebhookPayload{Embeds: []Embed{embed}}); err != nil {
			logger.Printf("Failed to send webhook: %v\n", err)
		}
	},
}

var stormDashboardCmd = &cobra.Command{
	Use:   "dashboard [user]",
	Short: "Show storm high scores of a user",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s, err := openSession(cmd.Context(), false)
		if err != nil {
			log.Fatalf("%v", err)
		}
		user := s.username()
		if len(args) == 1 {
			user = args[0]
		}
		if s.account == nil && len(args) == 0 {
			log.Fatal("Pass a username or select an account with --account")
		}

		dash, err := s.client.StormDashboard(cmd.Context(), puzzle.UserID(user))
		if err != nil {
			log.Fatalf("Failed to fetch storm dashboard: %v", err)
		}
		logger.Printf("Storm dashboard of %s\n", user)
		printStormHighs(dash.HighScore)
		for i, day := range dash.DayHighscores {
			if i >= stormDaysShown {
				break
			}
			logger.Printf("  %s  score %d  runs %d  time %ds  highest %d\n",
				day.Day.Format("2006-01-02"), day.Score, day.Runs, day.Time, day.Highest)
		}
	},
}

func init() {
	stormSubmitCmd.Flags().StringArrayVar(&stormResults, "result", nil, "Puzzle result as id:win or id:loss, once per puzzle")
	stormSubmitCmd.Flags().IntVar(&stormScore, "score", 0, "Final score")
	stormSubmitCmd.Flags().IntVar(&stormMoves, "moves", 0, "Moves played")
	stormSubmitCmd.Flags().IntVar(&stormErrors, "errors", 0, "Mistakes made")
	stormSubmitCmd.Flags().IntVar(&stormCombo, "combo", 0, "Best combo")
	stormSubmitCmd.Flags().DurationVar(&stormTime, "time", 3*time.Minute, "Run duration")
	stormSubmitCmd.Flags().IntVar(&stormHighest, "highest", 0, "Highest rated puzzle solved")
	stormDashboardCmd.Flags().IntVar(&stormDaysShown, "days", 10, "Number of days to list")

	stormCmd.AddCommand(stormSubmitCmd)
	stormCmd.AddCommand(stormDashboardCmd)
}

func parseStormResults(results []string) ([]puzzle.StormRunRecord, error) {
	history := make([]puzzle.StormRunRecord, 0, len(results))
	for _, r := range results {
		id, outcome, ok := strings.Cut(r, ":")
		if !ok || id == "" {
			return nil, fmt.Errorf("invalid result %q, expected id:win or id:loss", r)
		}
		switch outcome {
		case "win":
			history = append(history, puzzle.StormRunRecord{ID: puzzle.PuzzleID(id), Win: true})
		case "loss":
			history = append(history, puzzle.StormRunRecord{ID: puzzle.PuzzleID(id)})
		default:
			return nil, fmt.Errorf("invalid result %q, expected id:win or id:loss", r)
		}
	}
	return history, nil
}

func printStormHighs(h puzzle.StormHighScore) {
	logger.Printf("High scores: day %d, week %d, month %d, all time %d\n", h.Day, h.Week, h.Month, h.AllTime)
}
