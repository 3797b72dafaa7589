package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"0mlml/lipuzzle/internal/puzzle"
	"0mlml/lipuzzle/internal/storage"
)

var (
	reBearerHeader = regexp.MustCompile(`(?i)-H\s+['"]authorization:\s*bearer\s+([^'"\s]+)['"]`)
	reOAuth2Bearer = regexp.MustCompile(`(?i)--oauth2-bearer\s+['"]?([^'"\s]+)['"]?`)
	reRawToken     = regexp.MustCompile(`^lip_[A-Za-z0-9]+$`)
)

// parseTokenFromCurl accepts a pasted cURL command or a bare personal
// access token.
func parseTokenFromCurl(input string) (string, error) {
	input = strings.TrimSpace(input)
	if reRawToken.MatchString(input) {
		return input, nil
	}
	if m := reBearerHeader.FindStringSubmatch(input); len(m) > 1 {
		return m[1], nil
	}
	if m := reOAuth2Bearer.FindStringSubmatch(input); len(m) > 1 {
		return m[1], nil
	}
	return "", errors.New("could not find a bearer token in input")
}

func newPuzzleClient(ctx context.Context, config *AppConfig, token string) (*puzzle.Client, error) {
	opts := []puzzle.TransportOption{
		puzzle.WithUserAgent(config.UserAgent),
		puzzle.WithMaxRetries(config.MaxRetries),
	}
	if verbose {
		opts = append(opts, puzzle.WithTransportLogger(logger))
	}
	transport := puzzle.NewHTTPTransport(puzzle.NewAuthClient(ctx, token), opts...)
	return puzzle.NewClient(transport, config.BaseURL)
}

// session is what most commands need: config, accounts and a client signed
// with the selected account's token.
type session struct {
	config  *AppConfig
	db      *Database
	account *Account
	client  *puzzle.Client
}

func (s *session) username() string {
	if s.account == nil {
		return "anonymous"
	}
	return s.account.Username
}

func (s *session) save() error {
	if s.account != nil {
		s.db.Accounts[s.account.Username] = *s.account
	}
	return saveDatabase(dbPath, s.db)
}

func (s *session) openStore() (*storage.Store, error) {
	return storage.Open(s.config.DatabasePath)
}

// openSession selects the account named by --account, or the only account
// stored. LICHESS_TOKEN overrides the stored token. Without any account the
// client is anonymous unless requireAuth is set.
func openSession(ctx context.Context, requireAuth bool) (*session, error) {
	config, err := loadAppConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load app config: %w", err)
	}
	db, err := loadDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load database: %w", err)
	}

	s := &session{config: config, db: db}
	switch {
	case accountName != "":
		account, ok := db.Accounts[accountName]
		if !ok {
			return nil, fmt.Errorf("account '%s' not found in %s", accountName, dbPath)
		}
		s.account = &account
	case len(db.Accounts) == 1:
		account := db.Accounts[db.Names()[0]]
		s.account = &account
	}

	token := os.Getenv("LICHESS_TOKEN")
	if token == "" && s.account != nil {
		token = s.account.Token
	}
	if requireAuth && token == "" {
		return nil, errors.New("this command needs an account: run `accounts add`, `login`, or set LICHESS_TOKEN")
	}

	s.client, err = newPuzzleClient(ctx, config, token)
	if err != nil {
		return nil, err
	}
	return s, nil
}
