package puzzle

import (
	"fmt"
	"strings"
	"time"
)

const stormDayLayout = "2006/1/2"

func decodeBatch(d *decoder, root field) PuzzleBatchResponse {
	d.object(root)
	items := d.list(root.key("puzzles"))
	puzzles := make([]Puzzle, 0, len(items))
	for _, item := range items {
		puzzles = append(puzzles, decodePuzzle(d, item))
	}
	resp := PuzzleBatchResponse{Puzzles: puzzles}

	if g, ok := d.optObject(root.key("glicko")); ok {
		resp.Glicko = &PuzzleGlicko{
			Rating:      d.number(g.key("rating")),
			Deviation:   d.number(g.key("deviation")),
			Provisional: d.optBool(g.key("provisional")),
		}
	}
	if rounds, ok := d.optList(root.key("rounds")); ok {
		resp.Rounds = make([]PuzzleRound, 0, len(rounds))
		for _, r := range rounds {
			d.object(r)
			resp.Rounds = append(resp.Rounds, PuzzleRound{
				ID:         PuzzleID(d.id(r.key("id"))),
				RatingDiff: d.integer(r.key("ratingDiff")),
				Win:        d.boolean(r.key("win")),
			})
		}
	}
	return resp
}

func decodePuzzle(d *decoder, f field) Puzzle {
	d.object(f)
	p := d.object(f.key("puzzle"))
	data := PuzzleData{
		ID:         PuzzleID(d.id(p.key("id"))),
		Rating:     d.integer(p.key("rating")),
		Plays:      d.integer(p.key("plays")),
		InitialPly: d.integer(p.key("initialPly")),
		Solution:   d.strings(p.key("solution")),
		Themes:     NewThemeSet(d.strings(p.key("themes"))...),
	}
	return Puzzle{
		Puzzle: data,
		Game:   decodePuzzleGame(d, f.key("game")),
	}
}

func decodePuzzleGame(d *decoder, f field) PuzzleGame {
	d.object(f)
	perf := d.object(f.key("perf"))
	game := PuzzleGame{
		ID:    GameID(d.id(f.key("id"))),
		Perf:  d.str(perf.key("key")),
		Rated: d.boolean(f.key("rated")),
		PGN:   d.str(f.key("pgn")),
	}

	playersField := f.key("players")
	var haveWhite, haveBlack bool
	for _, pf := range d.list(playersField) {
		player := decodePlayer(d, pf)
		switch player.Side {
		case White:
			game.White, haveWhite = player, true
		case Black:
			game.Black, haveBlack = player, true
		}
	}
	if d.err == nil && (!haveWhite || !haveBlack) {
		d.err = &DecodeError{
			Path:     playersField.describe(),
			Expected: "a white and a black player",
			Actual:   fmt.Sprintf("%d players", len(playersField.value.Array())),
		}
	}
	return game
}

func decodePlayer(d *decoder, f field) PuzzleGamePlayer {
	d.object(f)
	colorField := f.key("color")
	side := Side(d.str(colorField))
	if d.err == nil && side != White && side != Black {
		d.err = &DecodeError{Path: colorField.describe(), Expected: `"white" or "black"`, Actual: fmt.Sprintf("%q", side)}
	}
	return PuzzleGamePlayer{
		Side:  side,
		Name:  d.str(f.key("name")),
		Title: d.optStr(f.key("title")),
	}
}

func decodeStreak(d *decoder, root field) PuzzleStreakResponse {
	puzzle := decodePuzzle(d, root)
	ids := strings.Fields(d.str(root.key("streak")))
	streak := make([]PuzzleID, 0, len(ids))
	for _, id := range ids {
		streak = append(streak, PuzzleID(id))
	}
	return PuzzleStreakResponse{Puzzle: puzzle, Streak: streak}
}

func decodeLitePuzzle(d *decoder, f field) LitePuzzle {
	d.object(f)
	return LitePuzzle{
		ID:       PuzzleID(d.id(f.key("id"))),
		FEN:      d.str(f.key("fen")),
		Solution: strings.Fields(d.str(f.key("line"))),
		Rating:   d.integer(f.key("rating")),
	}
}

func decodeStormHighScore(d *decoder, f field) StormHighScore {
	d.object(f)
	return StormHighScore{
		AllTime: d.integer(f.key("allTime")),
		Day:     d.integer(f.key("day")),
		Month:   d.integer(f.key("month")),
		Week:    d.integer(f.key("week")),
	}
}

func decodeStorm(d *decoder, root field) PuzzleStormResponse {
	d.object(root)
	items := d.list(root.key("puzzles"))
	puzzles := make([]LitePuzzle, 0, len(items))
	for _, item := range items {
		puzzles = append(puzzles, decodeLitePuzzle(d, item))
	}
	resp := PuzzleStormResponse{
		Puzzles: puzzles,
		Key:     d.optStr(root.key("key")),
	}
	if high, ok := d.optObject(root.key("high")); ok {
		h := decodeStormHighScore(d, high)
		resp.Highscore = &h
	}
	return resp
}

func decodeStormNewHigh(d *decoder, root field) *StormNewHigh {
	d.object(root)
	nh, ok := d.optObject(root.key("newHigh"))
	if !ok {
		return nil
	}
	keyField := nh.key("key")
	key := StormNewHighType(d.str(keyField))
	switch key {
	case StormNewHighDay, StormNewHighWeek, StormNewHighMonth, StormNewHighAllTime:
	default:
		if d.err == nil {
			d.err = &DecodeError{Path: keyField.describe(), Expected: "day, week, month or allTime", Actual: fmt.Sprintf("%q", key)}
		}
	}
	return &StormNewHigh{Key: key, Prev: d.integer(nh.key("prev"))}
}

func decodeDashboardData(d *decoder, f field, theme ThemeKey) PuzzleDashboardData {
	d.object(f)
	return PuzzleDashboardData{
		Theme:       theme,
		Nb:          d.integer(f.key("nb")),
		FirstWins:   d.integer(f.key("firstWins")),
		ReplayWins:  d.integer(f.key("replayWins")),
		Performance: d.integer(f.key("performance")),
	}
}

func decodeDashboard(d *decoder, root field) PuzzleDashboard {
	d.object(root)
	dash := PuzzleDashboard{
		Global: decodeDashboardData(d, root.key("global"), ThemeMix),
	}
	for _, e := range d.entries(root.key("themes")) {
		key := LookupTheme(e.name)
		if key == ThemeUnsupported {
			continue
		}
		d.object(e.value)
		dash.Themes = append(dash.Themes, decodeDashboardData(d, e.value.key("results"), key))
	}
	return dash
}

func decodeHistoryEntry(d *decoder, f field) PuzzleHistoryEntry {
	d.object(f)
	p := d.object(f.key("puzzle"))
	return PuzzleHistoryEntry{
		Win:      d.boolean(f.key("win")),
		Date:     time.UnixMilli(int64(d.integer(f.key("date")))),
		Rating:   d.integer(p.key("rating")),
		ID:       PuzzleID(d.id(p.key("id"))),
		FEN:      d.str(p.key("fen")),
		LastMove: d.str(p.key("lastMove")),
	}
}

func decodeStormDashboard(d *decoder, root field) StormDashboard {
	d.object(root)
	dash := StormDashboard{HighScore: decodeStormHighScore(d, root.key("high"))}
	days := d.list(root.key("days"))
	dash.DayHighscores = make([]StormDayScore, 0, len(days))
	for _, day := range days {
		dash.DayHighscores = append(dash.DayHighscores, decodeStormDay(d, day))
	}
	return dash
}

func decodeStormDay(d *decoder, f field) StormDayScore {
	d.object(f)
	idField := f.key("_id")
	raw := d.str(idField)
	var day time.Time
	if d.err == nil {
		var err error
		day, err = time.Parse(stormDayLayout, raw)
		if err != nil {
			d.err = &DecodeError{Path: idField.describe(), Expected: "date as yyyy/M/d", Actual: fmt.Sprintf("%q", raw)}
		}
	}
	return StormDayScore{
		Day:     day,
		Runs:    d.integer(f.key("runs")),
		Score:   d.integer(f.key("score")),
		Time:    d.integer(f.key("time")),
		Highest: d.integer(f.key("highest")),
	}
}

// decodeThemes reads the themes page, which groups themes by category.
// Themes this client has no key for are left out.
func decodeThemes(d *decoder, root field) map[ThemeKey]PuzzleThemeData {
	d.object(root)
	out := make(map[ThemeKey]PuzzleThemeData)
	for _, category := range d.list(root.key("themes")) {
		d.object(category)
		for _, t := range d.list(category.key("themes")) {
			d.object(t)
			key := LookupTheme(d.str(t.key("key")))
			if key == ThemeUnsupported {
				continue
			}
			out[key] = PuzzleThemeData{
				Key:         key,
				Name:        d.str(t.key("name")),
				Description: d.str(t.key("desc")),
				Count:       d.integer(t.key("count")),
			}
		}
	}
	return out
}

func decodeOpenings(d *decoder, root field) []PuzzleOpeningFamily {
	d.object(root)
	items := d.list(root.key("openings"))
	families := make([]PuzzleOpeningFamily, 0, len(items))
	for _, item := range items {
		d.object(item)
		family := PuzzleOpeningFamily{
			Key:      d.str(item.key("key")),
			Name:     d.str(item.key("name")),
			Count:    d.integer(item.key("count")),
			Openings: []PuzzleOpeningData{},
		}
		if openings, ok := d.optList(item.key("openings")); ok {
			for _, o := range openings {
				d.object(o)
				family.Openings = append(family.Openings, PuzzleOpeningData{
					Key:   d.str(o.key("key")),
					Name:  d.str(o.key("name")),
					Count: d.integer(o.key("count")),
				})
			}
		}
		families = append(families, family)
	}
	return families
}
