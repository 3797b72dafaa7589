package puzzle

import (
	"strings"
	"testing"
)

func scholarsPuzzle(solution ...string) Puzzle {
	return Puzzle{
		Puzzle: PuzzleData{ID: "K69di", InitialPly: 5, Solution: solution},
		Game:   PuzzleGame{ID: "abcd1234", PGN: "e4 e5 Bc4 Nc6 Qh5 Nf6"},
	}
}

func TestInitialPosition(t *testing.T) {
	pos, err := scholarsPuzzle("h5f7").InitialPosition()
	if err != nil {
		t.Fatalf("InitialPosition error = %v", err)
	}
	want := "r1bqkb1r/pppp1ppp/2n2n2/4p2Q/2B1P3/8/PPPP1PPP/RNB1K1NR w KQkq - 4 4"
	if pos.String() != want {
		t.Errorf("InitialPosition = %s, want %s", pos.String(), want)
	}
}

func TestInitialPositionNumberedMovetext(t *testing.T) {
	p := scholarsPuzzle("h5f7")
	p.Game.PGN = "1. e4 e5 2. Bc4 Nc6 3. Qh5 Nf6 *"
	if _, err := p.InitialPosition(); err != nil {
		t.Fatalf("InitialPosition error = %v", err)
	}
}

func TestInitialPositionTooShort(t *testing.T) {
	p := scholarsPuzzle("h5f7")
	p.Puzzle.InitialPly = 9
	if _, err := p.InitialPosition(); err == nil {
		t.Errorf("expected error for ply beyond the game")
	}
}

func TestValidateSolution(t *testing.T) {
	if err := scholarsPuzzle("h5f7").ValidateSolution(); err != nil {
		t.Errorf("ValidateSolution(h5f7) error = %v", err)
	}
	err := scholarsPuzzle("h5h8").ValidateSolution()
	if err == nil || !strings.Contains(err.Error(), "h5h8") {
		t.Errorf("ValidateSolution(h5h8) error = %v", err)
	}
}

func TestPositionFromFEN(t *testing.T) {
	lp := LitePuzzle{ID: "aaaaa", FEN: "8/8/8/8/8/8/8/K6k w - - 0 1"}
	pos, err := lp.Position()
	if err != nil {
		t.Fatalf("Position error = %v", err)
	}
	if !strings.HasPrefix(pos.String(), "8/8/8/8/8/8/8/K6k w") {
		t.Errorf("Position = %s", pos.String())
	}
	if _, err := PositionFromFEN("not a fen"); err == nil {
		t.Errorf("invalid fen accepted")
	}
}
