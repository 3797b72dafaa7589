package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAppConfigCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	config, err := loadAppConfig(path)
	if err != nil {
		t.Fatalf("loadAppConfig() error = %v", err)
	}
	if *config != defaultAppConfig() {
		t.Errorf("config = %+v, want defaults", *config)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("config file mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestLoadAppConfigFillsMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"discord_webhook_url":"https://discord.com/api/webhooks/1/x","max_concurrent_accounts":0}`), 0600); err != nil {
		t.Fatal(err)
	}

	config, err := loadAppConfig(path)
	if err != nil {
		t.Fatalf("loadAppConfig() error = %v", err)
	}
	def := defaultAppConfig()
	if config.BaseURL != def.BaseURL || config.UserAgent != def.UserAgent || config.DatabasePath != def.DatabasePath {
		t.Errorf("defaults not applied: %+v", *config)
	}
	if config.MaxConcurrentAccounts != 1 {
		t.Errorf("MaxConcurrentAccounts = %d, want 1", config.MaxConcurrentAccounts)
	}
	if config.DiscordWebhookURL != "https://discord.com/api/webhooks/1/x" {
		t.Errorf("DiscordWebhookURL = %q", config.DiscordWebhookURL)
	}
}

func TestLoadAppConfigRejectsBrokenJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"base_url":`), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := loadAppConfig(path); err == nil {
		t.Fatal("loadAppConfig() error = nil, want parse error")
	}
}

func TestDatabaseRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")

	db, err := loadDatabase(path)
	if err != nil {
		t.Fatalf("loadDatabase() error = %v", err)
	}
	if len(db.Accounts) != 0 {
		t.Fatalf("new database has %d accounts", len(db.Accounts))
	}

	db.Accounts["zoe"] = Account{Username: "zoe", Token: "lip_z"}
	db.Accounts["adam"] = Account{Username: "adam", Token: "lip_a", StormHigh: 40}
	if err := saveDatabase(path, db); err != nil {
		t.Fatalf("saveDatabase() error = %v", err)
	}

	loaded, err := loadDatabase(path)
	if err != nil {
		t.Fatalf("loadDatabase() error = %v", err)
	}
	names := loaded.Names()
	if len(names) != 2 || names[0] != "adam" || names[1] != "zoe" {
		t.Errorf("Names() = %v, want [adam zoe]", names)
	}
	if loaded.Accounts["adam"].StormHigh != 40 {
		t.Errorf("adam = %+v", loaded.Accounts["adam"])
	}
}
