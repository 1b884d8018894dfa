package game

import (
	"fmt"
	"strings"

	"laptudirm.com/x/mess/pkg/board"
	"laptudirm.com/x/mess/pkg/formats/fen"
)

// ChessOracle implements Oracle for standard chess on top of the mess
// move generator. It keeps no state of its own: every query rebuilds
// the board from the Position's root FEN and move list, which is what
// makes replayed queries on old Positions safe.
type ChessOracle struct{}

var _ Oracle = ChessOracle{}

func (oracle ChessOracle) LegalMoves(pos Position) []Move {
	chessboard := materialize(pos)

	var moves []Move
	for _, mov := range chessboard.GenerateMoves(false) {
		moves = append(moves, Move(strings.ToLower(mov.String())))
	}

	return moves
}

func (oracle ChessOracle) SideToMove(pos Position) Side {
	return Side(materialize(pos).SideToMove)
}

func (oracle ChessOracle) Apply(pos Position, mov Move) (Position, error) {
	chessboard := materialize(pos)
	for _, legal := range chessboard.GenerateMoves(false) {
		if strings.EqualFold(legal.String(), string(mov)) {
			return pos.next(mov), nil
		}
	}

	return Position{}, fmt.Errorf("%w: %s in %s", ErrIllegalMove, mov, oracle.FEN(pos))
}

func (oracle ChessOracle) TerminalOutcome(pos Position) Outcome {
	chessboard := materialize(pos)

	switch {
	case len(chessboard.GenerateMoves(false)) == 0:
		if chessboard.IsInCheck(chessboard.SideToMove) {
			return Checkmate
		}

		return Stalemate

	case chessboard.IsInsufficientMaterial():
		return InsufficientMaterial
	case chessboard.DrawClock >= 100:
		return FiftyMoveRule
	case chessboard.IsThreefoldRepetition():
		return ThreefoldRepetition
	}

	return Ongoing
}

func (oracle ChessOracle) FEN(pos Position) string {
	record := [6]string(materialize(pos).FEN())
	return strings.Join(record[:], " ")
}

// materialize rebuilds the board state of a Position by replaying its
// moves from the root FEN. The moves were legal when they were applied,
// so replaying them cannot fail.
func materialize(pos Position) *board.Board {
	chessboard := board.New(board.FEN(fen.FromString(pos.root)))
	for _, mov := range pos.moves {
		chessboard.MakeMove(chessboard.NewMoveFromString(mov))
	}

	return chessboard
}
