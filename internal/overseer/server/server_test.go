package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laptudirm.com/x/overseer/pkg/game"
	"laptudirm.com/x/overseer/pkg/provider"
)

func newPeer(t *testing.T, side game.Side, mover provider.Mover) *httptest.Server {
	t.Helper()

	peer, err := New(Config{Side: side, Mover: mover})
	require.NoError(t, err)

	ts := httptest.NewServer(peer.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postMove(t *testing.T, ts *httptest.Server, request provider.Request) (int, provider.Response) {
	t.Helper()

	body, err := json.Marshal(request)
	require.NoError(t, err)

	resp, err := http.Post(ts.URL+"/move", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var response provider.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&response))
	return resp.StatusCode, response
}

func TestServePing(t *testing.T) {
	ts := newPeer(t, game.White, provider.NewRandomMover())

	resp, err := http.Get(ts.URL + "/ping")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServeMove(t *testing.T) {
	ts := newPeer(t, game.White, provider.NewRandomMover())

	status, response := postMove(t, ts, provider.Request{FEN: game.StartFEN})
	require.Equal(t, http.StatusOK, status)
	require.Empty(t, response.Error)

	// The reply must be one of the position's legal moves.
	oracle := game.ChessOracle{}
	pos, err := game.NewPosition(game.StartFEN)
	require.NoError(t, err)

	mov, err := game.ParseMove(response.Move)
	require.NoError(t, err)
	assert.Contains(t, oracle.LegalMoves(pos), mov)
}

func TestServeRefusesWrongTurn(t *testing.T) {
	ts := newPeer(t, game.Black, provider.NewRandomMover())

	status, response := postMove(t, ts, provider.Request{FEN: game.StartFEN})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, response.Error, "turn")
}

func TestServeRefusesBadFEN(t *testing.T) {
	ts := newPeer(t, game.White, provider.NewRandomMover())

	status, response := postMove(t, ts, provider.Request{FEN: "gibberish"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.NotEmpty(t, response.Error)
}

func TestServeRefusesTerminalPosition(t *testing.T) {
	// Fool's mate: white to move with no legal moves.
	const checkmateFEN = "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3"

	ts := newPeer(t, game.White, provider.NewRandomMover())

	status, response := postMove(t, ts, provider.Request{FEN: checkmateFEN})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, response.Error, "no legal moves")
}

// The peer enumerates its own legal moves instead of trusting the
// requester's hint.
func TestServeIgnoresLegalMoveHint(t *testing.T) {
	var seen provider.Request
	mover := moverFunc(func(ctx context.Context, request provider.Request) (string, error) {
		seen = request
		return request.LegalMoves[0], nil
	})

	ts := newPeer(t, game.White, mover)

	status, _ := postMove(t, ts, provider.Request{
		FEN:        game.StartFEN,
		LegalMoves: []string{"h7h5"}, // a lie
	})
	require.Equal(t, http.StatusOK, status)

	assert.Len(t, seen.LegalMoves, 20)
	assert.NotContains(t, seen.LegalMoves, "h7h5")
}

func TestServeNeedsMover(t *testing.T) {
	_, err := New(Config{Side: game.White})
	assert.Error(t, err)
}

type moverFunc func(ctx context.Context, request provider.Request) (string, error)

func (f moverFunc) Move(ctx context.Context, request provider.Request) (string, error) {
	return f(ctx, request)
}
