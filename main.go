package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"0mlml/lipuzzle/internal/puzzle"

	"github.com/spf13/cobra"
)

var logger = NewLogger()

var (
	configPath  string
	dbPath      string
	accountName string
	verbose     bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Println(err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "lipuzzle",
	Short: "A command line client for lichess puzzles.",
	Long:  `lipuzzle fetches and submits lichess puzzles, streaks and storm runs, and reports puzzle statistics for one or more accounts.`,
}

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Manage accounts in db.json",
}

var addAccountCmd = &cobra.Command{
	Use:   "add [username]",
	Short: "Add an account by pasting a token or an authenticated cURL command",
	Long:  "Adds a new account. Paste a personal access token (lip_...) or a cURL command carrying an Authorization: Bearer header.",
	Args:  cobra.ExactArgs(1),
	Run:   addAccount,
}

var listAccountsCmd = &cobra.Command{
	Use:   "list",
	Short: "List all accounts in db.json",
	Run: func(cmd *cobra.Command, args []string) {
		db, err := loadDatabase(dbPath)
		if err != nil {
			log.Fatalf("Failed to load database: %v", err)
		}

		if len(db.Accounts) == 0 {
			logger.Println("No accounts found.")
			return
		}

		logger.Printf("Accounts in %s:\n", dbPath)
		for _, name := range db.Names() {
			account := db.Accounts[name]
			status := "token"
			if account.Token == "" {
				status = "no token"
			} else if !account.TokenExpiry.IsZero() && time.Now().After(account.TokenExpiry) {
				status = "expired"
			}
			logger.Printf("- %s (%s, performance %d)\n", account.Username, status, account.LastPerformance)
		}
	},
}

var pruneAccountsCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove accounts without a usable token",
	Run: func(cmd *cobra.Command, args []string) {
		db, err := loadDatabase(dbPath)
		if err != nil {
			log.Fatalf("Failed to load database: %v", err)
		}

		if len(db.Accounts) == 0 {
			logger.Println("No accounts found in db.json.")
			return
		}

		for _, username := range db.Names() {
			account := db.Accounts[username]
			expired := !account.TokenExpiry.IsZero() && time.Now().After(account.TokenExpiry)
			if account.Token == "" || expired {
				logger.Printf("Removing account '%s' without a usable token.\n", username)
				delete(db.Accounts, username)
			} else {
				logger.Printf("Keeping account '%s'.\n", username)
			}
		}

		if err := saveDatabase(dbPath, db); err != nil {
			log.Fatalf("Failed to save database: %v", err)
		}
	},
}

var refreshAccountsCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh puzzle performance and storm highs of every account",
	Run:   refreshAccounts,
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Collect puzzle statistics for all accounts and post a summary",
	Run:   runReport,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.json", "Path to the app config")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "db.json", "Path to the accounts file")
	rootCmd.PersistentFlags().StringVarP(&accountName, "account", "a", "", "Account to act as")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every HTTP request")

	rootCmd.AddCommand(accountsCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(puzzleCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(streakCmd)
	rootCmd.AddCommand(stormCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(activityCmd)
	rootCmd.AddCommand(themesCmd)
	rootCmd.AddCommand(openingsCmd)
	rootCmd.AddCommand(profileCmd)
	accountsCmd.AddCommand(addAccountCmd)
	accountsCmd.AddCommand(listAccountsCmd)
	accountsCmd.AddCommand(refreshAccountsCmd)
	accountsCmd.AddCommand(pruneAccountsCmd)
}

func addAccount(cmd *cobra.Command, args []string) {
	username := args[0]
	logger.Println("Paste a personal access token or the authenticated cURL command from your browser's devtools.")
	logger.Println("Press Ctrl+D (or Ctrl+Z on Windows) when you are finished:")

	input, err := io.ReadAll(os.Stdin)
	if err != nil {
		log.Fatalf("Failed to read input: %v", err)
	}

	token, err := parseTokenFromCurl(string(input))
	if err != nil {
		log.Fatalf("Error parsing input: %v", err)
	}

	db, err := loadDatabase(dbPath)
	if err != nil {
		log.Fatalf("Failed to load database: %v", err)
	}
	if _, ok := db.Accounts[username]; ok {
		log.Fatalf("Account with username '%s' already exists.", username)
	}

	config, err := loadAppConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load app config: %v", err)
	}

	newAccount := Account{Username: username, Token: token}
	if err := refreshAccount(cmd.Context(), config, &newAccount); err != nil {
		logger.Printf("%v\n", err)
	}

	db.Accounts[newAccount.Username] = newAccount
	if err := saveDatabase(dbPath, db); err != nil {
		log.Fatalf("Failed to save database: %v", err)
	}

	logger.Printf("\nSuccessfully added account: %s\n", newAccount.Username)
}

func refreshAccounts(cmd *cobra.Command, args []string) {
	config, err := loadAppConfig(configPath)
	if err != nil {
		log.Fatalf("failed to load app config: %v", err)
	}
	db, err := loadDatabase(dbPath)
	if err != nil {
		log.Fatalf("failed to load database: %v", err)
	}

	if len(db.Accounts) == 0 {
		logger.Println("No accounts found in db.json. Please add accounts first using the 'add' command.")
		return
	}

	logger.Printf("Found %d accounts. Refreshing puzzle statistics...\n", len(db.Accounts))
	for _, username := range db.Names() {
		account := db.Accounts[username]
		if err := refreshAccount(cmd.Context(), config, &account); err != nil {
			logger.Printf("%s\n", err.Error())
		}
		db.Accounts[username] = account
	}

	if err := saveDatabase(dbPath, db); err != nil {
		log.Fatalf("failed to save database: %v", err)
	}

	logger.Println("All accounts refreshed.")
}

// refreshAccount stores the 30 day performance and the storm all-time high.
// A 401 means the token was revoked; it is cleared so `accounts prune` can
// drop the account.
func refreshAccount(ctx context.Context, config *AppConfig, account *Account) error {
	client, err := newPuzzleClient(ctx, config, account.Token)
	if err != nil {
		return err
	}

	dashboard, err := client.PuzzleDashboard(ctx)
	var httpErr *puzzle.HTTPError
	switch {
	case errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusUnauthorized:
		account.Token = ""
		logger.Printf("Got 401, token for %s is no longer valid. Invalidating it. Consider running `accounts prune`.\n", account.Username)
		return fmt.Errorf("failed to get puzzle dashboard for account %s: %w", account.Username, err)
	case errors.Is(err, puzzle.ErrNotFound):
		account.LastPerformance, account.LastPuzzleCount = 0, 0
	case err != nil:
		return fmt.Errorf("failed to get puzzle dashboard for account %s: %w", account.Username, err)
	default:
		account.LastPerformance = dashboard.Global.Performance
		account.LastPuzzleCount = dashboard.Global.Nb
	}
	logger.Printf("Account %s puzzle dashboard refreshed. Performance: %d over %d puzzles\n", account.Username, account.LastPerformance, account.LastPuzzleCount)

	storm, err := client.StormDashboard(ctx, puzzle.UserID(account.Username))
	if err != nil {
		return fmt.Errorf("failed to get storm dashboard for account %s: %w", account.Username, err)
	}
	account.StormHigh = storm.HighScore.AllTime
	logger.Printf("Account %s storm dashboard refreshed. All-time high: %d\n", account.Username, account.StormHigh)

	return nil
}

type ProcessResult struct {
	AccountUsername string
	Account         Account
	Dashboard       *puzzle.PuzzleDashboard
	RecentWins      int
	RecentTotal     int
	Error           error
}

const reportSteps = 3

func runReport(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	appConfig, err := loadAppConfig(configPath)
	if err != nil {
		log.Fatalf("failed to load app config: %v", err)
	}

	db, err := loadDatabase(dbPath)
	if err != nil {
		log.Fatalf("failed to load database: %v", err)
	}
	if len(db.Accounts) == 0 {
		logger.Println("No accounts found in db.json.")
		return
	}

	names := db.Names()
	startEmbed := Embed{
		Title:       "lipuzzle report starting...",
		Description: "Collecting puzzle statistics for the following accounts:",
		Color:       colorBlue,
		Fields: []EmbedField{
			{Name: "Accounts", Value: strings.Join(names, "\n"), Inline: false},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if err := SendWebhook(ctx, appConfig.DiscordWebhookURL, WebhookPayload{Embeds: []Embed{startEmbed}}); err != nil {
		logger.Printf("Failed to send webhook: %v\n", err)
	}

	accounts := make([]Account, 0, len(names))
	for _, name := range names {
		accounts = append(accounts, db.Accounts[name])
	}
	results := reportAccounts(ctx, appConfig, accounts)
	for _, result := range results {
		db.Accounts[result.Account.Username] = result.Account
	}

	if err := saveDatabase(dbPath, db); err != nil {
		log.Fatalf("failed to save database: %v", err)
	}

	logger.Printf("All accounts processed.\n")
	if err := SendWebhook(ctx, appConfig.DiscordWebhookURL, WebhookPayload{Embeds: []Embed{buildSummaryEmbed(results)}}); err != nil {
		logger.Printf("Failed to send webhook: %v\n", err)
	}
}

// reportAccounts processes every account with at most
// config.MaxConcurrentAccounts in flight. Each result carries the updated
// account; the caller owns writing it back.
func reportAccounts(ctx context.Context, config *AppConfig, accounts []Account) []ProcessResult {
	var wg sync.WaitGroup
	resultsChan := make(chan ProcessResult, len(accounts))
	semaphore := make(chan struct{}, config.MaxConcurrentAccounts)

	for _, account := range accounts {
		wg.Add(1)
		semaphore <- struct{}{}
		go func(account Account) {
			defer func() {
				<-semaphore
				wg.Done()
			}()
			result := processAccount(ctx, config, &account)
			result.Account = account
			resultsChan <- result
		}(account)
	}

	wg.Wait()
	close(resultsChan)

	results := make([]ProcessResult, 0, len(accounts))
	for result := range resultsChan {
		results = append(results, result)
	}
	return results
}

func processAccount(ctx context.Context, config *AppConfig, account *Account) ProcessResult {
	result := ProcessResult{AccountUsername: account.Username}
	status := func(step int, msg string) {
		logger.AddLine(account.Username, fmt.Sprintf("[%s] %s %s", account.Username, ProgressBar(step, reportSteps), msg))
	}
	defer logger.RemoveLine(account.Username)

	client, err := newPuzzleClient(ctx, config, account.Token)
	if err != nil {
		result.Error = err
		return result
	}

	status(0, "Fetching puzzle dashboard...")
	dashboard, err := client.PuzzleDashboard(ctx)
	switch {
	case errors.Is(err, puzzle.ErrNotFound):
		logger.Printf("[%s] No puzzles to show for the last 30 days.\n", account.Username)
	case err != nil:
		result.Error = err
		logger.Printf("[%s] Error getting dashboard: %v\n", account.Username, err)
		return result
	default:
		result.Dashboard = &dashboard
		account.LastPerformance = dashboard.Global.Performance
		account.LastPuzzleCount = dashboard.Global.Nb
	}

	status(1, "Fetching storm dashboard...")
	storm, err := client.StormDashboard(ctx, puzzle.UserID(account.Username))
	if err != nil {
		logger.Printf("[%s] Error getting storm dashboard: %v\n", account.Username, err)
	} else {
		account.StormHigh = storm.HighScore.AllTime
	}

	status(2, "Fetching recent activity...")
	history, err := client.PuzzleActivity(ctx, 20, nil)
	if err != nil {
		logger.Printf("[%s] Error getting activity: %v\n", account.Username, err)
	} else {
		result.RecentTotal = len(history)
		for _, h := range history {
			if h.Win {
				result.RecentWins++
			}
		}
	}

	status(3, "Done.")
	account.LastRun = time.Now()
	logger.Printf("[%s] Finished: performance %d, %d/%d recent wins.\n", account.Username, account.LastPerformance, result.RecentWins, result.RecentTotal)
	return result
}

func buildSummaryEmbed(results []ProcessResult) Embed {
	var ok, empty, failed []string
	for _, r := range results {
		switch {
		case r.Error != nil:
			failed = append(failed, fmt.Sprintf("%s: %v", r.AccountUsername, r.Error))
		case r.Dashboard == nil:
			empty = append(empty, r.AccountUsername)
		default:
			ok = append(ok, fmt.Sprintf("%s (performance %d, %d puzzles, %d/%d recent wins)",
				r.AccountUsername, r.Dashboard.Global.Performance, r.Dashboard.Global.Nb, r.RecentWins, r.RecentTotal))
		}
	}

	color := colorGreen
	if len(failed) > 0 {
		color = colorRed
	} else if len(empty) > 0 {
		color = colorYellow
	}

	embed := Embed{
		Title:       "lipuzzle report",
		Description: "Puzzle statistics for the last 30 days.",
		Color:       color,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
	if len(ok) > 0 {
		embed.Fields = append(embed.Fields, EmbedField{Name: "✅ Active", Value: strings.Join(ok, "\n")})
	}
	if len(empty) > 0 {
		embed.Fields = append(embed.Fields, EmbedField{Name: "⚠️ No puzzles to show", Value: strings.Join(empty, "\n")})
	}
	if len(failed) > 0 {
		embed.Fields = append(embed.Fields, EmbedField{Name: "❌ Errors", Value: strings.Join(failed, "\n")})
	}
	return embed
}
