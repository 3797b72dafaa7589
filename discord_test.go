package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"0mlml/lipuzzle/internal/puzzle"
)

func webhookServer(t *testing.T, status int) (*httptest.Server, *[]WebhookPayload) {
	t.Helper()
	var got []WebhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		var p WebhookPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			t.Errorf("bad webhook body: %v", err)
		}
		got = append(got, p)
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)

	prev := discordWebhookPrefix
	discordWebhookPrefix = srv.URL + "/api/webhooks/"
	t.Cleanup(func() { discordWebhookPrefix = prev })
	return srv, &got
}

func TestSendWebhook(t *testing.T) {
	quietLogger(t)
	srv, got := webhookServer(t, http.StatusNoContent)

	payload := WebhookPayload{Embeds: []Embed{{Title: "lipuzzle report", Color: colorGreen}}}
	if err := SendWebhook(context.Background(), srv.URL+"/api/webhooks/1/token", payload); err != nil {
		t.Fatalf("SendWebhook() error = %v", err)
	}
	if len(*got) != 1 || (*got)[0].Embeds[0].Title != "lipuzzle report" {
		t.Errorf("server received %+v", *got)
	}
}

func TestSendWebhookErrorStatus(t *testing.T) {
	quietLogger(t)
	srv, _ := webhookServer(t, http.StatusBadRequest)

	err := SendWebhook(context.Background(), srv.URL+"/api/webhooks/1/token", WebhookPayload{Content: "hi"})
	if err == nil {
		t.Fatal("SendWebhook() error = nil, want error for 400")
	}
}

func TestSendWebhookSkipsForeignURL(t *testing.T) {
	quietLogger(t)
	_, got := webhookServer(t, http.StatusNoContent)

	for _, url := range []string{"", "https://example.com/hook"} {
		if err := SendWebhook(context.Background(), url, WebhookPayload{Content: "hi"}); err != nil {
			t.Errorf("SendWebhook(%q) error = %v", url, err)
		}
	}
	if len(*got) != 0 {
		t.Errorf("server received %d payloads, want 0", len(*got))
	}
}

func TestDailyPuzzleEmbed(t *testing.T) {
	p := puzzle.Puzzle{
		Puzzle: puzzle.PuzzleData{
			ID:         "K69di",
			Rating:     1923,
			Plays:      4123,
			InitialPly: 4,
			Themes:     puzzle.NewThemeSet("short", "fork"),
		},
		Game: puzzle.PuzzleGame{
			White: puzzle.PuzzleGamePlayer{Side: puzzle.White, Name: "alice"},
			Black: puzzle.PuzzleGamePlayer{Side: puzzle.Black, Name: "bob"},
		},
		IsDailyPuzzle: true,
	}

	e := dailyPuzzleEmbed("https://lichess.org/", p)
	if e.URL != "https://lichess.org/training/K69di" {
		t.Errorf("URL = %q", e.URL)
	}
	if !strings.HasPrefix(e.Description, "Black to play") {
		t.Errorf("Description = %q, want Black to play", e.Description)
	}
	if e.Fields[0].Value != "fork, short" {
		t.Errorf("themes field = %q", e.Fields[0].Value)
	}
	if e.Fields[1].Value != "alice vs bob" {
		t.Errorf("game field = %q", e.Fields[1].Value)
	}
}

func TestSideToPlay(t *testing.T) {
	tests := []struct {
		initialPly int
		want       string
	}{
		{0, "Black"},
		{1, "White"},
		{5, "White"},
		{12, "Black"},
	}
	for _, tt := range tests {
		p := puzzle.Puzzle{Puzzle: puzzle.PuzzleData{InitialPly: tt.initialPly}}
		if got := sideToPlay(p); got != tt.want {
			t.Errorf("sideToPlay(initialPly=%d) = %s, want %s", tt.initialPly, got, tt.want)
		}
	}
}

func TestStormNewHighEmbed(t *testing.T) {
	e := stormNewHighEmbed("alice", 42, &puzzle.StormNewHigh{Key: puzzle.StormNewHighWeek, Prev: 37})
	if e.Title != "New storm week high for alice" {
		t.Errorf("Title = %q", e.Title)
	}
	if e.Description != "Scored 42, previous best was 37." {
		t.Errorf("Description = %q", e.Description)
	}
}
