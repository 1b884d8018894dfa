package server

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laptudirm.com/x/overseer/pkg/game"
	"laptudirm.com/x/overseer/pkg/overseer"
	"laptudirm.com/x/overseer/pkg/provider"
)

// scriptMover replays a fixed list of moves over real HTTP.
type scriptMover struct {
	moves []string
	next  int
}

func (mover *scriptMover) Move(ctx context.Context, request provider.Request) (string, error) {
	mov := mover.moves[mover.next]
	mover.next++
	return mov, nil
}

// The whole loop over real HTTP: overseer -> provider client -> peer
// service -> mover, playing a scripted fool's mate.
func TestOverseerAgainstServedPeers(t *testing.T) {
	whitePeer, err := New(Config{Side: game.White, Mover: &scriptMover{moves: []string{"f2f3", "g2g4"}}})
	require.NoError(t, err)
	blackPeer, err := New(Config{Side: game.Black, Mover: &scriptMover{moves: []string{"e7e5", "d8h4"}}})
	require.NoError(t, err)

	whiteTS := httptest.NewServer(whitePeer.Handler())
	defer whiteTS.Close()
	blackTS := httptest.NewServer(blackPeer.Handler())
	defer blackTS.Close()

	white := provider.NewClient(provider.Config{URL: whiteTS.URL})
	black := provider.NewClient(provider.Config{URL: blackTS.URL})

	require.NoError(t, white.Ping(context.Background()))
	require.NoError(t, black.Ping(context.Background()))

	pos, err := game.NewPosition(game.StartFEN)
	require.NoError(t, err)

	match, err := overseer.New(overseer.Config{
		Oracle:    game.ChessOracle{},
		Providers: [2]provider.Provider{game.White: white, game.Black: black},
	}, pos)
	require.NoError(t, err)

	result := match.Run(context.Background())

	assert.Equal(t, game.Checkmate, result.Outcome)
	assert.Equal(t, game.Black, result.Winner)
	assert.Equal(t, "0-1", result.Score())
	assert.Equal(t, []string{"f2f3", "e7e5", "g2g4", "d8h4"}, match.Position().Moves())
}
