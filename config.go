package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"
)

type AppConfig struct {
	BaseURL               string `json:"base_url"`
	UserAgent             string `json:"user_agent"`
	DiscordWebhookURL     string `json:"discord_webhook_url"`
	MaxConcurrentAccounts int    `json:"max_concurrent_accounts"`
	MaxRetries            int    `json:"max_retries"`
	OAuthClientID         string `json:"oauth_client_id"`
	OAuthRedirectPort     int    `json:"oauth_redirect_port"`
	DatabasePath          string `json:"database_path"`
}

func defaultAppConfig() AppConfig {
	return AppConfig{
		BaseURL:               "https://lichess.org",
		UserAgent:             "lipuzzle/1.0",
		DiscordWebhookURL:     "",
		MaxConcurrentAccounts: 5,
		MaxRetries:            2,
		OAuthClientID:         "lipuzzle",
		OAuthRedirectPort:     8089,
		DatabasePath:          "lipuzzle.db",
	}
}

type Account struct {
	Username        string    `json:"username"`
	Token           string    `json:"token"`
	TokenExpiry     time.Time `json:"token_expiry"`
	LastRun         time.Time `json:"last_run"`
	LastPerformance int       `json:"last_performance"`
	LastPuzzleCount int       `json:"last_puzzle_count"`
	StormHigh       int       `json:"storm_high"`
}

type Database struct {
	Accounts map[string]Account `json:"accounts"`
}

// Names returns the account keys in a stable order.
func (db *Database) Names() []string {
	names := make([]string, 0, len(db.Accounts))
	for name := range db.Accounts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// loadOrCreate reads a JSON file, writing def to path first if the file does
// not exist yet.
func loadOrCreate[T any](path string, def T) (*T, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			jsonString, err := json.MarshalIndent(&def, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("failed to create default %s: %w", path, err)
			}
			if err := os.WriteFile(path, jsonString, 0600); err != nil {
				return nil, fmt.Errorf("failed to write default %s: %w", path, err)
			}
			return &def, nil
		}
		return nil, err
	}

	var v T
	if err := json.Unmarshal(file, &v); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &v, nil
}

func loadAppConfig(path string) (*AppConfig, error) {
	config, err := loadOrCreate(path, defaultAppConfig())
	if err != nil {
		return nil, err
	}
	def := defaultAppConfig()
	if config.BaseURL == "" {
		config.BaseURL = def.BaseURL
	}
	if config.UserAgent == "" {
		config.UserAgent = def.UserAgent
	}
	if config.MaxConcurrentAccounts <= 0 {
		config.MaxConcurrentAccounts = 1
	}
	if config.OAuthClientID == "" {
		config.OAuthClientID = def.OAuthClientID
	}
	if config.OAuthRedirectPort == 0 {
		config.OAuthRedirectPort = def.OAuthRedirectPort
	}
	if config.DatabasePath == "" {
		config.DatabasePath = def.DatabasePath
	}
	return config, nil
}

func loadDatabase(path string) (*Database, error) {
	db, err := loadOrCreate(path, Database{Accounts: map[string]Account{}})
	if err != nil {
		return nil, err
	}
	if db.Accounts == nil {
		db.Accounts = map[string]Account{}
	}
	return db, nil
}

func saveDatabase(path string, db *Database) error {
	file, err := json.MarshalIndent(db, "", "    ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, file, 0600)
}
