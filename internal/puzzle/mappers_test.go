package puzzle

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func okResponse(body string) *Response {
	return &Response{StatusCode: 200, Body: []byte(body)}
}

func TestDecodeBatchPreservesOrder(t *testing.T) {
	ids := []string{"aaaaa", "bbbbb", "ccccc", "ddddd"}
	got, err := readJSON(okResponse(batchJSON(ids...)), decodeBatch)
	if err != nil {
		t.Fatalf("readJSON error = %v", err)
	}
	if len(got.Puzzles) != len(ids) {
		t.Fatalf("got %d puzzles, want %d", len(got.Puzzles), len(ids))
	}
	for i, id := range ids {
		if got.Puzzles[i].Puzzle.ID != PuzzleID(id) {
			t.Errorf("puzzle %d id = %s, want %s", i, got.Puzzles[i].Puzzle.ID, id)
		}
		if got.Puzzles[i].Puzzle.Rating != 1000+i {
			t.Errorf("puzzle %d rating = %d, want %d", i, got.Puzzles[i].Puzzle.Rating, 1000+i)
		}
	}
	if got.Glicko != nil {
		t.Errorf("Glicko = %+v, want nil", got.Glicko)
	}
	if got.Rounds != nil {
		t.Errorf("Rounds = %+v, want nil", got.Rounds)
	}
}

func TestDecodeBatchOptionalParts(t *testing.T) {
	body := `{"puzzles":[],"glicko":{"rating":1512.5,"deviation":62.1},` +
		`"rounds":[{"id":"aaaaa","ratingDiff":-9,"win":false},{"id":"bbbbb","ratingDiff":7,"win":true}]}`
	got, err := readJSON(okResponse(body), decodeBatch)
	if err != nil {
		t.Fatalf("readJSON error = %v", err)
	}
	if got.Glicko == nil || got.Glicko.Rating != 1512.5 || got.Glicko.Deviation != 62.1 {
		t.Fatalf("Glicko = %+v", got.Glicko)
	}
	if got.Glicko.Provisional != nil {
		t.Errorf("Provisional = %v, want nil", *got.Glicko.Provisional)
	}
	if len(got.Rounds) != 2 || got.Rounds[0].RatingDiff != -9 || !got.Rounds[1].Win {
		t.Errorf("Rounds = %+v", got.Rounds)
	}
}

func TestDecodePuzzle(t *testing.T) {
	p, err := readJSON(okResponse(puzzleJSON("K69di", 1200)), decodePuzzle)
	if err != nil {
		t.Fatalf("readJSON error = %v", err)
	}
	if p.Puzzle.ID != "K69di" || p.Puzzle.Plays != 321 || p.Puzzle.InitialPly != 5 {
		t.Errorf("puzzle data = %+v", p.Puzzle)
	}
	if p.Game.ID != "abcd1234" || p.Game.Perf != "blitz" || !p.Game.Rated {
		t.Errorf("game = %+v", p.Game)
	}
	if p.Game.White.Name != "Alice (1500)" || p.Game.White.Title != nil {
		t.Errorf("white = %+v", p.Game.White)
	}
	if p.Game.Black.Title == nil || *p.Game.Black.Title != "GM" {
		t.Errorf("black = %+v", p.Game.Black)
	}
	if p.IsDailyPuzzle {
		t.Errorf("IsDailyPuzzle = true for a plain fetch")
	}
}

func TestDecodeThemesDeduplicated(t *testing.T) {
	p, err := readJSON(okResponse(puzzleJSON("K69di", 1200)), decodePuzzle)
	if err != nil {
		t.Fatalf("readJSON error = %v", err)
	}
	if p.Puzzle.Themes.Len() != 2 {
		t.Fatalf("themes = %v, want 2 entries", p.Puzzle.Themes.Slice())
	}
	if !p.Puzzle.Themes.Has("mateIn1") || !p.Puzzle.Themes.Has("short") {
		t.Errorf("themes = %v", p.Puzzle.Themes.Slice())
	}
}

func TestDecodePuzzleRequiredFields(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantPath string
	}{
		{
			name:     "missing rating",
			body:     strings.Replace(puzzleJSON("K69di", 1200), `"rating":1200,`, "", 1),
			wantPath: "puzzle.rating",
		},
		{
			name:     "rating as string",
			body:     strings.Replace(puzzleJSON("K69di", 1200), `"rating":1200`, `"rating":"1200"`, 1),
			wantPath: "puzzle.rating",
		},
		{
			name:     "empty id",
			body:     puzzleJSON("", 1200),
			wantPath: "puzzle.id",
		},
		{
			name:     "solution not a list",
			body:     strings.Replace(puzzleJSON("K69di", 1200), `["h5f7"]`, `"h5f7"`, 1),
			wantPath: "puzzle.solution",
		},
		{
			name:     "unknown player color",
			body:     strings.Replace(puzzleJSON("K69di", 1200), `"color":"black"`, `"color":"red"`, 1),
			wantPath: "game.players[1].color",
		},
		{
			name:     "rating out of range",
			body:     strings.Replace(puzzleJSON("K69di", 1200), `"rating":1200`, `"rating":1e20`, 1),
			wantPath: "puzzle.rating",
		},
		{
			name:     "plays below int range",
			body:     strings.Replace(puzzleJSON("K69di", 1200), `"plays":321`, `"plays":-1e20`, 1),
			wantPath: "puzzle.plays",
		},
		{
			name:     "missing game",
			body:     `{"puzzle":{"id":"K69di","rating":1,"plays":1,"initialPly":1,"solution":[],"themes":[]}}`,
			wantPath: "game",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := readJSON(okResponse(tt.body), decodePuzzle)
			var de *DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("error = %v, want *DecodeError", err)
			}
			if de.Path != tt.wantPath {
				t.Errorf("Path = %q, want %q (%v)", de.Path, tt.wantPath, de)
			}
			if p.Puzzle.ID != "" || p.Puzzle.Solution != nil {
				t.Errorf("got partial puzzle %+v", p)
			}
		})
	}
}

func TestDecodeBatchWrongShape(t *testing.T) {
	_, err := readJSON(okResponse(`{"puzzles":{"id":"x"}}`), decodeBatch)
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("error = %v, want *DecodeError", err)
	}
	if de.Path != "puzzles" || de.Expected != "array" || de.Actual != "object" {
		t.Errorf("DecodeError = %+v", de)
	}

	_, err = readJSON(okResponse(`not json`), decodeBatch)
	if !errors.As(err, &de) || de.Path != "$" {
		t.Errorf("invalid JSON error = %v", err)
	}
}

func TestDecodeNestedPath(t *testing.T) {
	body := strings.Replace(batchJSON("aaaaa", "bbbbb", "ccccc"), `"rating":1002`, `"rating":null`, 1)
	_, err := readJSON(okResponse(body), decodeBatch)
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("error = %v, want *DecodeError", err)
	}
	if de.Path != "puzzles[2].puzzle.rating" || de.Actual != "null" {
		t.Errorf("DecodeError = %+v", de)
	}
}

func TestDecodeStreak(t *testing.T) {
	body := strings.TrimSuffix(puzzleJSON("aaaaa", 1500), "}") + `,"streak":"aaaaa bbbbb ccccc"}`
	got, err := readJSON(okResponse(body), decodeStreak)
	if err != nil {
		t.Fatalf("readJSON error = %v", err)
	}
	want := []PuzzleID{"aaaaa", "bbbbb", "ccccc"}
	if len(got.Streak) != len(want) {
		t.Fatalf("Streak = %v, want %v", got.Streak, want)
	}
	for i := range want {
		if got.Streak[i] != want[i] {
			t.Errorf("Streak[%d] = %s, want %s", i, got.Streak[i], want[i])
		}
	}
}

func TestDecodeStorm(t *testing.T) {
	body := `{"puzzles":[{"id":"aaaaa","fen":"8/8/8/8/8/8/8/K6k w - - 0 1","line":"a1a2 h1h2","rating":900}],` +
		`"high":{"allTime":40,"day":12,"month":30,"week":25},"key":"xyz"}`
	got, err := readJSON(okResponse(body), decodeStorm)
	if err != nil {
		t.Fatalf("readJSON error = %v", err)
	}
	if len(got.Puzzles) != 1 || len(got.Puzzles[0].Solution) != 2 || got.Puzzles[0].Solution[1] != "h1h2" {
		t.Errorf("Puzzles = %+v", got.Puzzles)
	}
	if got.Highscore == nil || got.Highscore.AllTime != 40 || got.Highscore.Week != 25 {
		t.Errorf("Highscore = %+v", got.Highscore)
	}
	if got.Key == nil || *got.Key != "xyz" {
		t.Errorf("Key = %v", got.Key)
	}

	got, err = readJSON(okResponse(`{"puzzles":[]}`), decodeStorm)
	if err != nil {
		t.Fatalf("readJSON error = %v", err)
	}
	if got.Highscore != nil || got.Key != nil {
		t.Errorf("optional fields = %+v %v, want nil", got.Highscore, got.Key)
	}
}

func TestDecodeStormNewHigh(t *testing.T) {
	got, err := readJSON(okResponse(`{"newHigh":{"key":"week","prev":17}}`), decodeStormNewHigh)
	if err != nil {
		t.Fatalf("readJSON error = %v", err)
	}
	if got == nil || got.Key != StormNewHighWeek || got.Prev != 17 {
		t.Errorf("newHigh = %+v", got)
	}

	got, err = readJSON(okResponse(`{}`), decodeStormNewHigh)
	if err != nil || got != nil {
		t.Errorf("absent newHigh = (%+v, %v), want (nil, nil)", got, err)
	}

	_, err = readJSON(okResponse(`{"newHigh":{"key":"year","prev":1}}`), decodeStormNewHigh)
	var de *DecodeError
	if !errors.As(err, &de) || de.Path != "newHigh.key" {
		t.Errorf("unknown key error = %v", err)
	}
}

func TestDecodeDashboardCountOutOfRange(t *testing.T) {
	body := `{"global":{"nb":1e20,"firstWins":1,"replayWins":0,"performance":1500},"themes":{}}`
	got, err := readJSON(okResponse(body), decodeDashboard)
	var de *DecodeError
	if !errors.As(err, &de) || de.Path != "global.nb" || de.Actual != "number out of range" {
		t.Fatalf("error = %v, want out of range at global.nb", err)
	}
	if got.Global.Nb != 0 {
		t.Errorf("Nb = %d, want 0", got.Global.Nb)
	}
}

func TestDecodeDashboard(t *testing.T) {
	body := `{"days":30,"global":{"nb":120,"firstWins":80,"replayWins":5,"performance":1650,"puzzleRatingAvg":1600},` +
		`"themes":{"fork":{"theme":"Fork","results":{"nb":20,"firstWins":12,"replayWins":1,"performance":1700}},` +
		`"notARealTheme":{"results":{"nb":"broken"}},` +
		`"endgame":{"theme":"Endgame","results":{"nb":10,"firstWins":4,"replayWins":2,"performance":1500}}}}`
	got, err := readJSON(okResponse(body), decodeDashboard)
	if err != nil {
		t.Fatalf("readJSON error = %v", err)
	}
	if got.Global.Nb != 120 || got.Global.Performance != 1650 || got.Global.Theme != ThemeMix {
		t.Errorf("Global = %+v", got.Global)
	}
	if len(got.Themes) != 2 {
		t.Fatalf("Themes = %+v, want 2", got.Themes)
	}
	if got.Themes[0].Theme != ThemeFork || got.Themes[1].Theme != ThemeEndgame {
		t.Errorf("theme order = %s, %s", got.Themes[0].Theme, got.Themes[1].Theme)
	}
}

func TestDecodeStormDashboard(t *testing.T) {
	body := `{"high":{"allTime":50,"day":10,"month":40,"week":30},` +
		`"days":[{"_id":"2022/1/25","runs":3,"score":22,"time":180,"highest":1800},` +
		`{"_id":"2021/12/3","runs":1,"score":9,"time":175,"highest":1500}]}`
	got, err := readJSON(okResponse(body), decodeStormDashboard)
	if err != nil {
		t.Fatalf("readJSON error = %v", err)
	}
	if got.HighScore.AllTime != 50 {
		t.Errorf("HighScore = %+v", got.HighScore)
	}
	if len(got.DayHighscores) != 2 {
		t.Fatalf("DayHighscores = %+v", got.DayHighscores)
	}
	wantDay := time.Date(2022, time.January, 25, 0, 0, 0, 0, time.UTC)
	if !got.DayHighscores[0].Day.Equal(wantDay) || got.DayHighscores[0].Runs != 3 {
		t.Errorf("day 0 = %+v", got.DayHighscores[0])
	}

	_, err = readJSON(okResponse(`{"high":{"allTime":1,"day":1,"month":1,"week":1},"days":[{"_id":"25-01-2022","runs":1,"score":1,"time":1,"highest":1}]}`), decodeStormDashboard)
	var de *DecodeError
	if !errors.As(err, &de) || de.Path != "days[0]._id" {
		t.Errorf("bad date error = %v", err)
	}
}

func TestDecodeThemesDropsUnknown(t *testing.T) {
	body := `{"themes":[{"name":"Recommended","themes":[` +
		`{"key":"mix","name":"Healthy mix","desc":"A bit of everything.","count":3000000},` +
		`{"key":"someFutureTheme","name":"Future","desc":"?","count":1}]},` +
		`{"name":"Motifs","themes":[{"key":"fork","name":"Fork","desc":"Attack two pieces.","count":900000}]}]}`
	got, err := readJSON(okResponse(body), decodeThemes)
	if err != nil {
		t.Fatalf("readJSON error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d themes, want 2: %+v", len(got), got)
	}
	if _, ok := got[ThemeUnsupported]; ok {
		t.Errorf("unsupported sentinel present in result")
	}
	if got[ThemeFork].Name != "Fork" || got[ThemeMix].Count != 3000000 {
		t.Errorf("themes = %+v", got)
	}
}

func TestDecodeOpenings(t *testing.T) {
	body := `{"openings":[{"key":"Sicilian_Defense","name":"Sicilian Defense","count":5000,` +
		`"openings":[{"key":"Sicilian_Defense_Najdorf_Variation","name":"Sicilian Defense: Najdorf Variation","count":800}]},` +
		`{"key":"Bird_Opening","name":"Bird Opening","count":300}]}`
	got, err := readJSON(okResponse(body), decodeOpenings)
	if err != nil {
		t.Fatalf("readJSON error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d families", len(got))
	}
	if len(got[0].Openings) != 1 || got[0].Openings[0].Count != 800 {
		t.Errorf("Sicilian openings = %+v", got[0].Openings)
	}
	if got[1].Openings == nil || len(got[1].Openings) != 0 {
		t.Errorf("Bird openings = %#v, want empty slice", got[1].Openings)
	}
}

func TestReadNDJSONList(t *testing.T) {
	line := `{"win":true,"date":1700000000000,"puzzle":{"rating":1400,"id":"%s","fen":"8/8/8/8/8/8/8/K6k w - - 0 1","lastMove":"a2a1"}}`
	good := strings.Join([]string{
		strings.Replace(line, "%s", "aaaaa", 1),
		strings.Replace(line, "%s", "bbbbb", 1),
		strings.Replace(line, "%s", "ccccc", 1),
	}, "\n") + "\n"

	got, err := readNDJSONList(okResponse(good), decodeHistoryEntry)
	if err != nil {
		t.Fatalf("readNDJSONList error = %v", err)
	}
	if len(got) != 3 || got[2].ID != "ccccc" || !got[0].Win {
		t.Errorf("entries = %+v", got)
	}
	if !got[0].Date.Equal(time.UnixMilli(1700000000000)) {
		t.Errorf("Date = %v", got[0].Date)
	}

	t.Run("malformed line fails the whole list", func(t *testing.T) {
		bad := strings.Join([]string{
			strings.Replace(line, "%s", "aaaaa", 1),
			`{"win":true,"date":`,
			strings.Replace(line, "%s", "ccccc", 1),
		}, "\n")
		got, err := readNDJSONList(okResponse(bad), decodeHistoryEntry)
		if err == nil {
			t.Fatalf("expected error, got %d entries", len(got))
		}
		if got != nil {
			t.Errorf("got partial list %+v", got)
		}
	})

	t.Run("wrong shape line fails the whole list", func(t *testing.T) {
		bad := strings.Replace(line, "%s", "aaaaa", 1) + "\n" + `{"win":"yes"}`
		_, err := readNDJSONList(okResponse(bad), decodeHistoryEntry)
		var de *DecodeError
		if !errors.As(err, &de) || de.Path != "[1].win" {
			t.Errorf("error = %v", err)
		}
	})
}

func TestReadJSONStatus(t *testing.T) {
	_, err := readJSON(&Response{StatusCode: 404, Body: []byte(`{"error":"Not found"}`)}, decodeDashboard)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("404 error = %v, want ErrNotFound", err)
	}
	var he *HTTPError
	if !errors.As(err, &he) || he.StatusCode != 404 || !strings.Contains(he.Body, "Not found") {
		t.Errorf("HTTPError = %+v", he)
	}

	_, err = readJSON(&Response{StatusCode: 500}, decodeDashboard)
	if errors.Is(err, ErrNotFound) {
		t.Errorf("500 reported as not found")
	}
	if !errors.As(err, &he) || he.StatusCode != 500 {
		t.Errorf("500 error = %v", err)
	}
}
