package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"0mlml/lipuzzle/internal/puzzle"
)

const (
	colorBlue   = 3447003
	colorGreen  = 3066993
	colorYellow = 16776960
	colorRed    = 15158332
)

var discordWebhookPrefix = "https://discord.com/api/webhooks/"

type WebhookPayload struct {
	Content string  `json:"content,omitempty"`
	Embeds  []Embed `json:"embeds,omitempty"`
}

type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	URL         string       `json:"url,omitempty"`
	Color       int          `json:"color,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
}

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type EmbedFooter struct {
	Text string `json:"text"`
}

var webhookWarning sync.Once

// SendWebhook posts payload to a Discord webhook. A missing or foreign URL
// is skipped with a single warning.
func SendWebhook(ctx context.Context, url string, payload WebhookPayload) error {
	if !strings.HasPrefix(url, discordWebhookPrefix) {
		webhookWarning.Do(func() {
			logger.Printf("Discord webhook URL is not set correctly, skipping webhook send.\n")
		})
		return nil
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payloadJSON))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	if len(payload.Embeds) > 0 {
		logger.Printf("Sending discord webhook for: %s\n", payload.Embeds[0].Title)
	}

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		logger.Printf("Error sending webhook: %v\n", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("discord webhook answered %s", resp.Status)
	}
	return nil
}

func dailyPuzzleEmbed(baseURL string, p puzzle.Puzzle) Embed {
	return Embed{
		Title:       fmt.Sprintf("Puzzle of the day #%s", p.Puzzle.ID),
		Description: fmt.Sprintf("%s to play. Rating %d, played %d times.", sideToPlay(p), p.Puzzle.Rating, p.Puzzle.Plays),
		URL:         strings.TrimSuffix(baseURL, "/") + "/training/" + string(p.Puzzle.ID),
		Color:       colorBlue,
		Fields: []EmbedField{
			{Name: "Themes", Value: strings.Join(p.Puzzle.Themes.Slice(), ", "), Inline: false},
			{Name: "From game", Value: fmt.Sprintf("%s vs %s", p.Game.White.Name, p.Game.Black.Name), Inline: false},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

func stormNewHighEmbed(username string, score int, nh *puzzle.StormNewHigh) Embed {
	return Embed{
		Title:       fmt.Sprintf("New storm %s high for %s", nh.Key, username),
		Description: fmt.Sprintf("Scored %d, previous best was %d.", score, nh.Prev),
		Color:       colorGreen,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
}

// sideToPlay is the side whose turn it is at the puzzle start.
func sideToPlay(p puzzle.Puzzle) string {
	if (p.Puzzle.InitialPly+1)%2 == 0 {
		return "White"
	}
	return "Black"
}
