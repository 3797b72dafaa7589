package puzzle

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/notnil/chess"
)

var (
	reMoveNumber = regexp.MustCompile(`^\d+\.+`)
	reResult     = regexp.MustCompile(`^(1-0|0-1|1/2-1/2|\*)$`)
)

// replay plays SAN movetext (with or without move numbers) from the
// standard starting position.
func replay(pgn string) (*chess.Game, error) {
	g := chess.NewGame()
	for _, tok := range strings.Fields(pgn) {
		tok = reMoveNumber.ReplaceAllString(tok, "")
		if tok == "" || reResult.MatchString(tok) {
			continue
		}
		if err := g.MoveStr(tok); err != nil {
			return nil, fmt.Errorf("invalid move %q: %w", tok, err)
		}
	}
	return g, nil
}

// InitialPosition is the position the player has to solve, i.e. the source
// game after InitialPly+1 half-moves.
func (p Puzzle) InitialPosition() (*chess.Position, error) {
	g, err := replay(p.Game.PGN)
	if err != nil {
		return nil, fmt.Errorf("failed to replay game %s: %w", p.Game.ID, err)
	}
	positions := g.Positions()
	ply := p.Puzzle.InitialPly + 1
	if ply < 0 || ply >= len(positions) {
		return nil, fmt.Errorf("game %s has %d plies, puzzle starts after ply %d", p.Game.ID, len(positions)-1, ply)
	}
	return positions[ply], nil
}

// ValidateSolution checks that every solution move is legal in turn.
func (p Puzzle) ValidateSolution() error {
	pos, err := p.InitialPosition()
	if err != nil {
		return err
	}
	_, err = playUCI(pos, p.Puzzle.Solution)
	return err
}

// Position parses the storm puzzle's FEN.
func (p LitePuzzle) Position() (*chess.Position, error) {
	return PositionFromFEN(p.FEN)
}

func PositionFromFEN(fen string) (*chess.Position, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("invalid fen %q: %w", fen, err)
	}
	return chess.NewGame(opt).Position(), nil
}

func playUCI(pos *chess.Position, moves []string) (*chess.Position, error) {
	for i, uci := range moves {
		var next *chess.Move
		for _, m := range pos.ValidMoves() {
			if m.String() == uci {
				next = m
				break
			}
		}
		if next == nil {
			return nil, fmt.Errorf("solution move %d %q is not legal in %s", i+1, uci, pos.String())
		}
		pos = pos.Update(next)
	}
	return pos, nil
}
