package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientRequestMove(t *testing.T) {
	var seen Request

	peer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/move", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&seen))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Response{Move: "e2e4"})
	}))
	defer peer.Close()

	client := NewClient(Config{URL: peer.URL})
	reply, err := client.RequestMove(context.Background(), Request{
		GameID:     "g1",
		FEN:        "fen goes here",
		LegalMoves: []string{"e2e4", "d2d4"},
		Feedback:   "try again",
	})

	require.NoError(t, err)
	assert.Equal(t, "e2e4", reply)
	assert.Equal(t, "g1", seen.GameID)
	assert.Equal(t, "fen goes here", seen.FEN)
	assert.Equal(t, []string{"e2e4", "d2d4"}, seen.LegalMoves)
	assert.Equal(t, "try again", seen.Feedback)
}

func TestClientPeerError(t *testing.T) {
	peer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(Response{Error: "it's not this peer's turn"})
	}))
	defer peer.Close()

	client := NewClient(Config{URL: peer.URL})
	_, err := client.RequestMove(context.Background(), Request{FEN: "x"})

	require.ErrorIs(t, err, ErrUnreachable)
	assert.Contains(t, err.Error(), "not this peer's turn")
}

func TestClientErrorBodyOn200(t *testing.T) {
	peer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(Response{Error: "no move for you"})
	}))
	defer peer.Close()

	client := NewClient(Config{URL: peer.URL})
	_, err := client.RequestMove(context.Background(), Request{FEN: "x"})
	assert.ErrorIs(t, err, ErrUnreachable)
}

// A 200 with a garbage body is surfaced as reply text, not a transport
// failure: it must consume a retry, not abort the game.
func TestClientGarbageBodyIsReplyText(t *testing.T) {
	peer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("certainly! the best move is e2e4"))
	}))
	defer peer.Close()

	client := NewClient(Config{URL: peer.URL})
	reply, err := client.RequestMove(context.Background(), Request{FEN: "x"})

	require.NoError(t, err)
	assert.Equal(t, "certainly! the best move is e2e4", reply)
}

// Same for a well-formed body with the move field missing.
func TestClientMissingMoveFieldIsReplyText(t *testing.T) {
	peer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"confidence": 0.9}`))
	}))
	defer peer.Close()

	client := NewClient(Config{URL: peer.URL})
	reply, err := client.RequestMove(context.Background(), Request{FEN: "x"})

	require.NoError(t, err)
	assert.Equal(t, "", reply)
}

func TestClientTimeout(t *testing.T) {
	peer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer peer.Close()

	client := NewClient(Config{URL: peer.URL, Budget: 50 * time.Millisecond})
	_, err := client.RequestMove(context.Background(), Request{FEN: "x"})

	assert.ErrorIs(t, err, ErrTimeout)
	assert.NotErrorIs(t, err, ErrUnreachable)
}

func TestClientUnreachable(t *testing.T) {
	peer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	peer.Close() // nothing is listening anymore

	client := NewClient(Config{URL: peer.URL})
	_, err := client.RequestMove(context.Background(), Request{FEN: "x"})
	assert.ErrorIs(t, err, ErrUnreachable)

	assert.Error(t, client.Ping(context.Background()))
}

func TestClientPing(t *testing.T) {
	peer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/ping", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
	}))
	defer peer.Close()

	client := NewClient(Config{URL: peer.URL + "/"})
	assert.NoError(t, client.Ping(context.Background()))
}

func TestRandomMoverPicksFromLegalSet(t *testing.T) {
	mover := NewRandomMover()

	legal := []string{"e2e4", "d2d4", "g1f3"}
	for i := 0; i < 50; i++ {
		reply, err := mover.Move(context.Background(), Request{LegalMoves: legal})
		require.NoError(t, err)
		assert.Contains(t, legal, reply)
	}

	_, err := mover.Move(context.Background(), Request{})
	assert.Error(t, err, "no legal moves to pick from")
}
