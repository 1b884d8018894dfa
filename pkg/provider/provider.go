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

// Package provider is the boundary to the external move-producing peers
// of a game. A peer is addressable, slow, and untrusted: it may return
// garbage, an illegal move, or nothing at all. The package only moves
// bytes; deciding what a reply means is the overseer's job.
package provider

import (
	"context"
	"errors"
	"time"
)

// Request is everything a peer gets to decide on a move. The legal-move
// list is a hint the peer is free to ignore; Feedback is only set on a
// retry and quotes the reply that was just rejected.
type Request struct {
	GameID     string   `json:"game_id,omitempty"`
	FEN        string   `json:"fen"`
	LegalMoves []string `json:"legal_moves"`
	Feedback   string   `json:"feedback,omitempty"`
}

// Response is the wire reply of a peer. Exactly one of Move and Error
// is set by a well-behaved peer.
type Response struct {
	Move  string `json:"move,omitempty"`
	Error string `json:"error,omitempty"`
}

var (
	// ErrTimeout reports that a peer failed to reply within the move
	// budget.
	ErrTimeout = errors.New("provider: move request timed out")

	// ErrUnreachable reports that a peer could not be reached or
	// refused to produce a move at all.
	ErrUnreachable = errors.New("provider: peer failed")
)

// DefaultBudget is the ceiling on a single move request. It bounds the
// whole exchange, not individual network operations.
const DefaultBudget = time.Minute

// Provider requests moves from one peer. RequestMove returns the peer's
// raw reply text; it fails with ErrTimeout when the move budget runs
// out and ErrUnreachable for every other transport or peer failure.
type Provider interface {
	RequestMove(ctx context.Context, request Request) (string, error)

	// Ping checks that the peer is up. Used once before a game starts
	// to tell apart infrastructure failures from mid-game forfeits.
	Ping(ctx context.Context) error
}
