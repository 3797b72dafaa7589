// Package puzzle talks to the lichess puzzle API. Each Client method issues
// exactly one HTTP call and decodes the answer into immutable records.
package puzzle

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const DefaultBaseURL = "https://lichess.org"

// stormDisclaimer is sent with every storm run, the server expects it.
const stormDisclaimer = "Yes, we know that you can send whatever score you like. That's why there's no leaderboards and no competition."

// Client holds no mutable state and may be shared between goroutines.
type Client struct {
	transport Transport
	baseURL   *url.URL
}

func NewClient(transport Transport, baseURL string) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	return &Client{transport: transport, baseURL: u}, nil
}

func (c *Client) url(path string, query url.Values) *url.URL {
	u := *c.baseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	u.RawPath = ""
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	} else {
		u.RawQuery = ""
	}
	return &u
}

func batchQuery(nb int, difficulty Difficulty) url.Values {
	if difficulty == "" {
		difficulty = DifficultyNormal
	}
	return url.Values{
		"nb":         {strconv.Itoa(nb)},
		"difficulty": {string(difficulty)},
	}
}

// SelectBatch fetches nb puzzles for angle. It is never retried.
func (c *Client) SelectBatch(ctx context.Context, nb int, angle Angle, difficulty Difficulty) (PuzzleBatchResponse, error) {
	if nb <= 0 {
		return PuzzleBatchResponse{}, &ArgumentError{Name: "nb", Reason: "must be positive"}
	}
	u := c.url("/api/puzzle/batch/"+angle.Key(), batchQuery(nb, difficulty))
	resp, err := c.transport.Get(ctx, u, nil, false)
	if err != nil {
		return PuzzleBatchResponse{}, fmt.Errorf("failed to select puzzle batch: %w", err)
	}
	return readJSON(resp, decodeBatch)
}

// SolveBatch reports solved puzzles and receives the next nb puzzles. It is
// never retried.
func (c *Client) SolveBatch(ctx context.Context, nb int, solved []PuzzleSolution, angle Angle, difficulty Difficulty) (PuzzleBatchResponse, error) {
	if nb <= 0 {
		return PuzzleBatchResponse{}, &ArgumentError{Name: "nb", Reason: "must be positive"}
	}
	payload := struct {
		Solutions []PuzzleSolution `json:"solutions"`
	}{Solutions: append([]PuzzleSolution{}, solved...)}
	body, err := json.Marshal(payload)
	if err != nil {
		return PuzzleBatchResponse{}, err
	}

	u := c.url("/api/puzzle/batch/"+angle.Key(), batchQuery(nb, difficulty))
	header := http.Header{}
	header.Set("Content-Type", "application/json")
	resp, err := c.transport.Post(ctx, u, header, body, false)
	if err != nil {
		return PuzzleBatchResponse{}, fmt.Errorf("failed to solve puzzle batch: %w", err)
	}
	return readJSON(resp, decodeBatch)
}

func (c *Client) Fetch(ctx context.Context, id PuzzleID) (Puzzle, error) {
	if id == "" {
		return Puzzle{}, &ArgumentError{Name: "id", Reason: "must not be empty"}
	}
	resp, err := c.transport.Get(ctx, c.url("/api/puzzle/"+string(id), nil), nil, true)
	if err != nil {
		return Puzzle{}, fmt.Errorf("failed to fetch puzzle %s: %w", id, err)
	}
	return readJSON(resp, decodePuzzle)
}

// Daily returns the puzzle of the day with IsDailyPuzzle set.
func (c *Client) Daily(ctx context.Context) (Puzzle, error) {
	resp, err := c.transport.Get(ctx, c.url("/api/puzzle/daily", nil), nil, true)
	if err != nil {
		return Puzzle{}, fmt.Errorf("failed to fetch daily puzzle: %w", err)
	}
	p, err := readJSON(resp, decodePuzzle)
	if err != nil {
		return Puzzle{}, err
	}
	p.IsDailyPuzzle = true
	return p, nil
}

func (c *Client) Streak(ctx context.Context) (PuzzleStreakResponse, error) {
	resp, err := c.transport.Get(ctx, c.url("/api/streak", nil), nil, true)
	if err != nil {
		return PuzzleStreakResponse{}, fmt.Errorf("failed to fetch streak: %w", err)
	}
	return readJSON(resp, decodeStreak)
}

// PostStreakRun records the length of a finished streak. It is never
// retried so a run cannot be counted twice.
func (c *Client) PostStreakRun(ctx context.Context, run int) error {
	resp, err := c.transport.Post(ctx, c.url("/api/streak/"+strconv.Itoa(run), nil), nil, nil, false)
	if err != nil {
		return fmt.Errorf("failed to post streak run: %w", err)
	}
	return checkStatus(resp)
}

func (c *Client) Storm(ctx context.Context) (PuzzleStormResponse, error) {
	resp, err := c.transport.Get(ctx, c.url("/api/storm", nil), nil, true)
	if err != nil {
		return PuzzleStormResponse{}, fmt.Errorf("failed to fetch storm: %w", err)
	}
	return readJSON(resp, decodeStorm)
}

// StormRunForm is the form body posted for a finished storm run.
func StormRunForm(stats StormRunStats) url.Values {
	return url.Values{
		"puzzles":      {strconv.Itoa(len(stats.History))},
		"score":        {strconv.Itoa(stats.Score)},
		"moves":        {strconv.Itoa(stats.Moves)},
		"errors":       {strconv.Itoa(stats.Errors)},
		"combo":        {strconv.Itoa(stats.ComboBest)},
		"time":         {strconv.Itoa(int(stats.Time / time.Second))},
		"highest":      {strconv.Itoa(stats.Highest)},
		"notAnExploit": {stormDisclaimer},
	}
}

// PostStormRun submits a run and returns the high score it beat, if any.
// Like PostStreakRun it is never retried.
func (c *Client) PostStormRun(ctx context.Context, stats StormRunStats) (*StormNewHigh, error) {
	header := http.Header{}
	header.Set("Content-Type", "application/x-www-form-urlencoded")
	body := []byte(StormRunForm(stats).Encode())
	resp, err := c.transport.Post(ctx, c.url("/storm", nil), header, body, false)
	if err != nil {
		return nil, fmt.Errorf("failed to post storm run: %w", err)
	}
	return readJSON(resp, decodeStormNewHigh)
}

// PuzzleDashboard covers the last 30 days.
func (c *Client) PuzzleDashboard(ctx context.Context) (PuzzleDashboard, error) {
	resp, err := c.transport.Get(ctx, c.url("/api/puzzle/dashboard/30", nil), nil, true)
	if err != nil {
		return PuzzleDashboard{}, fmt.Errorf("failed to fetch puzzle dashboard: %w", err)
	}
	return readJSON(resp, decodeDashboard)
}

// PuzzleActivity lists at most max past attempts, newest first. When before
// is set only attempts older than it are returned.
func (c *Client) PuzzleActivity(ctx context.Context, max int, before *time.Time) ([]PuzzleHistoryEntry, error) {
	if max <= 0 {
		return nil, &ArgumentError{Name: "max", Reason: "must be positive"}
	}
	query := url.Values{"max": {strconv.Itoa(max)}}
	if before != nil {
		query.Set("before", strconv.FormatInt(before.UnixMilli(), 10))
	}
	header := http.Header{}
	header.Set("Accept", "application/x-ndjson")
	resp, err := c.transport.Get(ctx, c.url("/api/puzzle/activity", query), header, true)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch puzzle activity: %w", err)
	}
	return readNDJSONList(resp, decodeHistoryEntry)
}

func (c *Client) StormDashboard(ctx context.Context, userID UserID) (StormDashboard, error) {
	if userID == "" {
		return StormDashboard{}, &ArgumentError{Name: "userID", Reason: "must not be empty"}
	}
	u := c.url("/api/storm/dashboard/"+strings.ToLower(string(userID)), nil)
	resp, err := c.transport.Get(ctx, u, nil, true)
	if err != nil {
		return StormDashboard{}, fmt.Errorf("failed to fetch storm dashboard for %s: %w", userID, err)
	}
	return readJSON(resp, decodeStormDashboard)
}

func (c *Client) PuzzleThemes(ctx context.Context) (map[ThemeKey]PuzzleThemeData, error) {
	resp, err := c.transport.Get(ctx, c.url("/training/themes", nil), nil, true)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch puzzle themes: %w", err)
	}
	return readJSON(resp, decodeThemes)
}

func (c *Client) PuzzleOpenings(ctx context.Context) ([]PuzzleOpeningFamily, error) {
	resp, err := c.transport.Get(ctx, c.url("/training/openings", nil), nil, true)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch puzzle openings: %w", err)
	}
	return readJSON(resp, decodeOpenings)
}
