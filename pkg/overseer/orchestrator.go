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

// Package overseer coordinates one two-party turn-based game between
// external, possibly unreliable move providers. It owns the single
// authoritative Position, alternates the sides, validates every reply
// against the rules oracle, feeds rejections back to the provider
// within a bounded retry budget, and always terminates with exactly one
// Result.
package overseer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"laptudirm.com/x/overseer/pkg/game"
	"laptudirm.com/x/overseer/pkg/provider"
)

// Overseer plays out one game. It is single-writer by construction:
// there is never more than one request in flight, and the Position is
// only replaced after a move has been confirmed legal and applied.
// An Overseer is not reusable; make a new one for every game.
type Overseer struct {
	config Config

	id       uuid.UUID
	position game.Position
}

// New creates an Overseer for one game starting from the given
// Position.
func New(config Config, pos game.Position) (*Overseer, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}

	return &Overseer{
		config:   config,
		id:       uuid.New(),
		position: pos,
	}, nil
}

// ID returns the game's identifier.
func (overseer *Overseer) ID() uuid.UUID {
	return overseer.id
}

// Position returns the current authoritative Position. After Run has
// returned this is the game's final Position.
func (overseer *Overseer) Position() game.Position {
	return overseer.position
}

// Run plays the game to completion and returns its Result. The game
// ends either naturally, by the oracle declaring the Position terminal,
// or by an abort: a provider failing its request, exhausting its retry
// budget, or the context being cancelled between turns. Run never
// returns without a Result, and never hangs past the providers' move
// budgets.
func (overseer *Overseer) Run(ctx context.Context) game.Result {
	overseer.emitPosition()

	for {
		// Terminal check at the top of every turn, not just after an
		// accepted move: the starting position itself may be terminal.
		if outcome := overseer.config.Oracle.TerminalOutcome(overseer.position); outcome.Terminal() {
			return overseer.finish(overseer.conclude(outcome))
		}

		if err := ctx.Err(); err != nil {
			return overseer.finish(game.Result{
				Outcome: game.Aborted,
				Reason:  fmt.Sprintf("game cancelled: %v", err),
			})
		}

		if result, over := overseer.playTurn(ctx); over {
			return overseer.finish(result)
		}
	}
}

// playTurn runs one full request/validate/apply cycle for the side to
// move, including its retry cycles. It reports over = true when the
// turn ended the game instead of advancing it.
func (overseer *Overseer) playTurn(ctx context.Context) (result game.Result, over bool) {
	oracle := overseer.config.Oracle

	side := oracle.SideToMove(overseer.position)
	legal := oracle.LegalMoves(overseer.position)

	request := provider.Request{
		GameID:     overseer.id.String(),
		FEN:        oracle.FEN(overseer.position),
		LegalMoves: encode(legal),
	}

	for cycle := 0; ; cycle++ {
		raw, err := overseer.config.Providers[side].RequestMove(ctx, request)
		if err != nil {
			// Transport failures are never retried: a peer that has
			// gone away is an infrastructure problem, not gameplay.
			reason := ProviderUnreachable
			if errors.Is(err, provider.ErrTimeout) {
				reason = ProviderTimeout
			}

			overseer.emitTurn(TurnOutcome{
				Side: side, Kind: ProviderError,
				Reason: reason, Cycle: cycle,
			})

			return game.Result{
				Outcome:  game.Aborted,
				Decisive: true,
				Winner:   side.Other(),
				Reason:   err.Error(),
			}, true
		}

		mov, reason := judge(raw, legal)
		if reason == NotRejected {
			next, err := oracle.Apply(overseer.position, mov)
			if err != nil {
				// The oracle rejected a move it listed as legal. That
				// is a bug, not something a retry can fix, so abort
				// with its own diagnostic.
				return game.Result{
					Outcome: game.Aborted,
					Reason:  fmt.Sprintf("oracle inconsistency: %v", err),
				}, true
			}

			overseer.position = next
			overseer.emitTurn(TurnOutcome{
				Side: side, Kind: Accepted,
				Move: mov, Cycle: cycle,
			})
			overseer.emitPosition()
			return game.Result{}, false
		}

		overseer.emitTurn(TurnOutcome{
			Side: side, Kind: IllegalReply,
			Raw: raw, Reason: reason, Cycle: cycle,
		})

		if cycle == overseer.config.Retries {
			overseer.emitTurn(TurnOutcome{
				Side: side, Kind: RetriesExhausted, Cycle: cycle,
			})

			return game.Result{
				Outcome:  game.Aborted,
				Decisive: true,
				Winner:   side.Other(),
				Reason: fmt.Sprintf(
					"%s produced no legal move in %d retries",
					side, overseer.config.Retries,
				),
			}, true
		}

		request.Feedback = fmt.Sprintf(
			"Your reply %q was rejected: %s. Pick one of the legal moves: %s.",
			raw, reason, strings.Join(request.LegalMoves, " "),
		)
	}
}

// judge classifies a raw provider reply against the precomputed
// legal-move set. It returns the candidate Move and NotRejected, or the
// reason the reply was rejected.
func judge(raw string, legal []game.Move) (game.Move, RejectReason) {
	mov, err := game.ParseMove(raw)
	if err != nil {
		return "", NotParsable
	}

	for _, candidate := range legal {
		if candidate == mov {
			return mov, NotRejected
		}
	}

	return "", NotInLegalSet
}

// conclude maps a terminal oracle Outcome onto the game's Result. Only
// checkmate is decisive, and its winner is the side which is not to
// move.
func (overseer *Overseer) conclude(outcome game.Outcome) game.Result {
	result := game.Result{
		Outcome: outcome,
		Reason:  outcome.String(),
	}

	if outcome == game.Checkmate {
		result.Decisive = true
		result.Winner = overseer.config.Oracle.SideToMove(overseer.position).Other()
	}

	return result
}

// finish emits the final event and hands the Result back.
func (overseer *Overseer) finish(result game.Result) game.Result {
	overseer.emitResult(result)
	return result
}

func encode(moves []game.Move) []string {
	encoded := make([]string, len(moves))
	for i, mov := range moves {
		encoded[i] = string(mov)
	}

	return encoded
}

// The emit helpers shield the game loop from the sink: a panicking sink
// is logged and ignored, never propagated.

func (overseer *Overseer) emitPosition() {
	defer swallow()
	overseer.config.Sink.PositionChanged(overseer.id.String(), overseer.config.Oracle.FEN(overseer.position))
}

func (overseer *Overseer) emitTurn(outcome TurnOutcome) {
	defer swallow()
	overseer.config.Sink.TurnCompleted(overseer.id.String(), outcome)
}

func (overseer *Overseer) emitResult(result game.Result) {
	defer swallow()
	overseer.config.Sink.GameEnded(overseer.id.String(), result)
}

func swallow() {
	if recovered := recover(); recovered != nil {
		logrus.Debugf("sink panicked: %v", recovered)
	}
}
