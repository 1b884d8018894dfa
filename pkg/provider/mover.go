package provider

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

// Mover is a local move producer: the brain behind a served peer. It
// gets the same Request a remote peer would and returns raw reply text,
// which the requesting overseer still validates like any other reply.
type Mover interface {
	Move(ctx context.Context, request Request) (string, error)
}

// RandomMover plays a uniformly random legal move. It exists to test
// orchestration without burning model tokens, and as the weakest
// possible baseline opponent.
type RandomMover struct {
	rng *rand.Rand
}

var _ Mover = (*RandomMover)(nil)

func NewRandomMover() *RandomMover {
	return &RandomMover{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (mover *RandomMover) Move(ctx context.Context, request Request) (string, error) {
	if len(request.LegalMoves) == 0 {
		return "", errors.New("provider: no legal moves to pick from")
	}

	return request.LegalMoves[mover.rng.Intn(len(request.LegalMoves))], nil
}
