// Copyright © 2024 Rak Laptudirm <rak@laptudirm.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package game models the pieces of a two-party turn-based game which the
// overseer needs to coordinate one: immutable Positions, canonical Moves,
// the two Sides, and the Oracle which is the authority on legality and
// termination. The overseer itself never interprets a Position; it only
// threads them between the Oracle and the move providers.
package game

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the standard starting position of a game of chess.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Side identifies one of the two alternating players.
type Side uint8

const (
	White Side = iota
	Black
)

// Other returns the opponent of the given Side.
func (side Side) Other() Side {
	return side ^ 1
}

func (side Side) String() string {
	if side == White {
		return "white"
	}

	return "black"
}

// Outcome classifies why a Position ends the game, or that it doesn't.
// The order of the terminal tags is the order in which overlapping
// terminal conditions are resolved: the smallest matching tag wins.
type Outcome uint8

const (
	Ongoing Outcome = iota
	Checkmate
	Stalemate
	InsufficientMaterial
	FiftyMoveRule
	ThreefoldRepetition
	Aborted
	Unknown
)

// Terminal reports whether the Outcome ends the game.
func (outcome Outcome) Terminal() bool {
	return outcome != Ongoing
}

func (outcome Outcome) String() string {
	switch outcome {
	case Ongoing:
		return "Ongoing"
	case Checkmate:
		return "Checkmate"
	case Stalemate:
		return "Stalemate"
	case InsufficientMaterial:
		return "Insufficient Material"
	case FiftyMoveRule:
		return "50-move Rule"
	case ThreefoldRepetition:
		return "Threefold Repetition"
	case Aborted:
		return "Aborted"
	default:
		return "Unknown"
	}
}

// Result is the single terminal record of a finished game. Decisive is
// set when Winner is meaningful: always for Checkmate, and for Aborted
// when one side's provider forfeited the game.
type Result struct {
	Outcome  Outcome
	Decisive bool
	Winner   Side
	Reason   string
}

// Score returns the result in standard "1-0" notation. An abort caused
// by a forfeiting provider scores as a loss for that side.
func (result Result) Score() string {
	switch {
	case result.Decisive && result.Winner == White:
		return "1-0"
	case result.Decisive && result.Winner == Black:
		return "0-1"
	case result.Outcome == Stalemate,
		result.Outcome == InsufficientMaterial,
		result.Outcome == FiftyMoveRule,
		result.Outcome == ThreefoldRepetition:
		return "1/2-1/2"
	default:
		return "?-?"
	}
}

func (result Result) String() string {
	if result.Reason == "" {
		return fmt.Sprintf("%s {%s}", result.Score(), result.Outcome)
	}

	return fmt.Sprintf("%s {%s: %s}", result.Score(), result.Outcome, result.Reason)
}

// Position is an immutable snapshot of the full game state, represented
// as a root FEN plus the moves accepted since it. Keeping the move list
// instead of just the latest FEN preserves the history that repetition
// detection needs. Positions are only ever created by NewPosition and
// Oracle.Apply; a superseded Position stays valid but is never reused.
type Position struct {
	root  string
	moves []string
}

// NewPosition creates the root Position of a game from its FEN record.
func NewPosition(fenstr string) (Position, error) {
	fenstr = strings.TrimSpace(fenstr)
	if err := validateFEN(fenstr); err != nil {
		return Position{}, err
	}

	return Position{root: fenstr}, nil
}

// Root returns the FEN record the Position's game started from.
func (pos Position) Root() string {
	return pos.root
}

// Moves returns the moves accepted since the root FEN, oldest first.
func (pos Position) Moves() []string {
	moves := make([]string, len(pos.moves))
	copy(moves, pos.moves)
	return moves
}

// next derives the Position reached by playing the given move. The
// receiver's move slice is never aliased so the parent stays immutable.
func (pos Position) next(mov Move) Position {
	moves := make([]string, len(pos.moves), len(pos.moves)+1)
	copy(moves, pos.moves)

	return Position{
		root:  pos.root,
		moves: append(moves, string(mov)),
	}
}

// ErrBadFEN is returned for Position strings which are not structurally
// valid FEN records.
var ErrBadFEN = fmt.Errorf("game: invalid position encoding")

// validateFEN checks the structure of a FEN record before it is handed
// to the move generator, which assumes well-formed input.
func validateFEN(fenstr string) error {
	fields := strings.Fields(fenstr)
	if len(fields) != 6 {
		return fmt.Errorf("%w: expected 6 fields, found %d", ErrBadFEN, len(fields))
	}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return fmt.Errorf("%w: expected 8 ranks, found %d", ErrBadFEN, len(ranks))
	}

	for _, rank := range ranks {
		files := 0
		for _, symbol := range rank {
			switch {
			case symbol >= '1' && symbol <= '8':
				files += int(symbol - '0')
			case strings.ContainsRune("pnbrqkPNBRQK", symbol):
				files++
			default:
				return fmt.Errorf("%w: bad piece placement symbol %q", ErrBadFEN, symbol)
			}
		}

		if files != 8 {
			return fmt.Errorf("%w: rank %q covers %d files", ErrBadFEN, rank, files)
		}
	}

	if fields[1] != "w" && fields[1] != "b" {
		return fmt.Errorf("%w: bad side to move %q", ErrBadFEN, fields[1])
	}

	if fields[2] != "-" {
		for _, right := range fields[2] {
			if !strings.ContainsRune("KQkq", right) {
				return fmt.Errorf("%w: bad castling rights %q", ErrBadFEN, fields[2])
			}
		}
	}

	if fields[3] != "-" {
		if len(fields[3]) != 2 ||
			fields[3][0] < 'a' || fields[3][0] > 'h' ||
			(fields[3][1] != '3' && fields[3][1] != '6') {
			return fmt.Errorf("%w: bad en passant square %q", ErrBadFEN, fields[3])
		}
	}

	for _, clock := range fields[4:] {
		if _, err := strconv.Atoi(clock); err != nil {
			return fmt.Errorf("%w: bad move clock %q", ErrBadFEN, clock)
		}
	}

	return nil
}
