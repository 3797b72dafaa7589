package main

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"0mlml/lipuzzle/internal/puzzle"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	activityMax    int
	activityBefore string
	themesByCount  bool
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show puzzle performance over the last 30 days",
	Run: func(cmd *cobra.Command, args []string) {
		s, err := openSession(cmd.Context(), true)
		if err != nil {
			log.Fatalf("%v", err)
		}
		dash, err := s.client.PuzzleDashboard(cmd.Context())
		if errors.Is(err, puzzle.ErrNotFound) {
			logger.Println("No puzzles to show.")
			return
		}
		if err != nil {
			log.Fatalf("Failed to fetch dashboard: %v", err)
		}
		printDashboard(dash)
	},
}

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "List recent puzzle attempts",
	Run: func(cmd *cobra.Command, args []string) {
		before, err := parseBefore(activityBefore)
		if err != nil {
			log.Fatalf("%v", err)
		}
		s, err := openSession(cmd.Context(), true)
		if err != nil {
			log.Fatalf("%v", err)
		}
		history, err := s.client.PuzzleActivity(cmd.Context(), activityMax, before)
		if err != nil {
			log.Fatalf("Failed to fetch activity: %v", err)
		}
		if len(history) == 0 {
			logger.Println("No puzzle activity.")
			return
		}
		for _, h := range history {
			printHistoryEntry(h)
		}
	},
}

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List puzzle themes and how many puzzles each has",
	Run: func(cmd *cobra.Command, args []string) {
		s, err := openSession(cmd.Context(), false)
		if err != nil {
			log.Fatalf("%v", err)
		}
		themes, err := s.client.PuzzleThemes(cmd.Context())
		if err != nil {
			log.Fatalf("Failed to fetch themes: %v", err)
		}

		list := make([]puzzle.PuzzleThemeData, 0, len(themes))
		for _, t := range themes {
			list = append(list, t)
		}
		sort.Slice(list, func(i, j int) bool {
			if themesByCount && list[i].Count != list[j].Count {
				return list[i].Count > list[j].Count
			}
			return list[i].Key < list[j].Key
		})
		for _, t := range list {
			logger.Printf("%-20s %8d  %s\n", t.Key, t.Count, t.Name)
		}
	},
}

var openingsCmd = &cobra.Command{
	Use:   "openings",
	Short: "List openings that can be used as a batch angle",
	Run: func(cmd *cobra.Command, args []string) {
		s, err := openSession(cmd.Context(), false)
		if err != nil {
			log.Fatalf("%v", err)
		}
		families, err := s.client.PuzzleOpenings(cmd.Context())
		if err != nil {
			log.Fatalf("Failed to fetch openings: %v", err)
		}
		for _, f := range families {
			logger.Printf("%-40s %8d  %s\n", f.Key, f.Count, f.Name)
			for _, o := range f.Openings {
				logger.Printf("  %-38s %8d  %s\n", o.Key, o.Count, o.Name)
			}
		}
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile [username]",
	Short: "Show dashboard, storm highs and recent activity of a stored account",
	Args:  cobra.ExactArgs(1),
	Run:   runProfile,
}

func init() {
	activityCmd.Flags().IntVar(&activityMax, "max", 20, "Number of attempts to list")
	activityCmd.Flags().StringVar(&activityBefore, "before", "", "Only list attempts before this time (RFC3339 or YYYY-MM-DD)")
	themesCmd.Flags().BoolVar(&themesByCount, "by-count", false, "Sort by number of puzzles")
}

func runProfile(cmd *cobra.Command, args []string) {
	user := args[0]
	if accountName == "" {
		accountName = user
	}
	s, err := openSession(cmd.Context(), true)
	if err != nil {
		log.Fatalf("%v", err)
	}

	var (
		dash      puzzle.PuzzleDashboard
		noPuzzles bool
		storm     puzzle.StormDashboard
		history   []puzzle.PuzzleHistoryEntry
	)
	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		var err error
		dash, err = s.client.PuzzleDashboard(ctx)
		if errors.Is(err, puzzle.ErrNotFound) {
			noPuzzles = true
			return nil
		}
		return err
	})
	g.Go(func() error {
		var err error
		storm, err = s.client.StormDashboard(ctx, puzzle.UserID(user))
		return err
	})
	g.Go(func() error {
		var err error
		history, err = s.client.PuzzleActivity(ctx, 10, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Fatalf("Failed to fetch profile of %s: %v", user, err)
	}

	logger.Printf("Profile of %s\n", user)
	if noPuzzles {
		logger.Println("No puzzles to show.")
	} else {
		printDashboard(dash)
	}
	printStormHighs(storm.HighScore)
	for _, h := range history {
		printHistoryEntry(h)
	}

	if s.account != nil && s.account.Username == user {
		if !noPuzzles {
			s.account.LastPerformance = dash.Global.Performance
			s.account.LastPuzzleCount = dash.Global.Nb
		}
		s.account.StormHigh = storm.HighScore.AllTime
		if err := s.save(); err != nil {
			log.Fatalf("Failed to save database: %v", err)
		}
	}
}

func parseBefore(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid --before %q, expected RFC3339 or YYYY-MM-DD", value)
}

func printDashboard(dash puzzle.PuzzleDashboard) {
	g := dash.Global
	logger.Printf("Last 30 days: %d puzzles, %d first-try wins, %d replay wins, performance %d\n",
		g.Nb, g.FirstWins, g.ReplayWins, g.Performance)
	for _, t := range dash.Themes {
		logger.Printf("  %-20s %4d puzzles  performance %d\n", t.Theme, t.Nb, t.Performance)
	}
}

func printHistoryEntry(h puzzle.PuzzleHistoryEntry) {
	mark := "✗"
	if h.Win {
		mark = "✓"
	}
	logger.Printf("%s %s  %s  rating %d\n", mark, h.Date.Format("2006-01-02 15:04"), h.ID, h.Rating)
}
