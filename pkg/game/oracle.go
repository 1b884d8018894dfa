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

package game

import "fmt"

// Oracle is the trusted authority on the rules of the game being
// overseen. Implementations must be pure with respect to the Position:
// calling any method twice with the same Position returns the same
// answer. Substituting a different Oracle (together with matching move
// providers) is all it takes to oversee a different game.
type Oracle interface {
	// LegalMoves returns every Move playable in the given Position.
	LegalMoves(pos Position) []Move

	// SideToMove returns the Side which plays next in the Position.
	SideToMove(pos Position) Side

	// Apply plays a Move on the Position and returns the resulting
	// Position. It fails with ErrIllegalMove if the Move is not a
	// member of LegalMoves(pos); the original Position is untouched.
	Apply(pos Position, mov Move) (Position, error)

	// TerminalOutcome classifies the Position: Ongoing if the game
	// continues, otherwise the terminal Outcome. When several terminal
	// conditions hold at once the numerically smallest Outcome wins.
	TerminalOutcome(pos Position) Outcome

	// FEN returns the canonical single-line encoding of the Position.
	FEN(pos Position) string
}

// ErrIllegalMove is returned by Oracle.Apply for moves outside the
// Position's legal-move set.
var ErrIllegalMove = fmt.Errorf("game: illegal move")
