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

// Package server runs a move-provider peer for one side of a game. It
// is the counterpart of the overseer's provider client: POST /move
// takes a position and returns the backing Mover's reply, GET /ping
// answers liveness probes. The service enumerates its own legal moves
// and refuses positions where it is not its side's turn, so a confused
// or hostile requester cannot trick it into moving out of turn.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"laptudirm.com/x/overseer/pkg/game"
	"laptudirm.com/x/overseer/pkg/provider"
)

type Config struct {
	// Side this peer plays.
	Side game.Side

	// Mover produces the actual moves.
	Mover provider.Mover

	// Oracle enumerates this peer's legal moves. Nil means chess.
	Oracle game.Oracle
}

type Server struct {
	config Config
}

func New(config Config) (*Server, error) {
	if config.Mover == nil {
		return nil, errors.New("server: config has no mover")
	}

	if config.Oracle == nil {
		config.Oracle = game.ChessOracle{}
	}

	return &Server{config: config}, nil
}

// Handler returns the peer's HTTP interface.
func (server *Server) Handler() http.Handler {
	router := chi.NewRouter()

	router.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "side": server.config.Side.String()})
	})

	router.Post("/move", server.handleMove)

	return router
}

func (server *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var request provider.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("bad request body: %v", err))
		return
	}

	pos, err := game.NewPosition(request.FEN)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if turn := server.config.Oracle.SideToMove(pos); turn != server.config.Side {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("it's %s's turn in this position, this peer plays %s", turn, server.config.Side))
		return
	}

	// The request's legal-move list is just a hint; enumerate our own.
	legal := server.config.Oracle.LegalMoves(pos)
	if len(legal) == 0 {
		writeError(w, http.StatusBadRequest, "no legal moves in this position")
		return
	}

	request.LegalMoves = make([]string, len(legal))
	for i, mov := range legal {
		request.LegalMoves[i] = string(mov)
	}

	logrus.Debugf("peer %s: move request for %s", server.config.Side, request.FEN)

	reply, err := server.config.Mover.Move(r.Context(), request)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, provider.Response{Move: reply})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, provider.Response{Error: message})
}
