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

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/briandowns/spinner"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"laptudirm.com/x/overseer/pkg/game"
	"laptudirm.com/x/overseer/pkg/overseer"
	"laptudirm.com/x/overseer/pkg/provider"
	"laptudirm.com/x/overseer/pkg/records"
)

const SPIN = 31

// overseer play
func Play() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play one game between two move-provider peers",
		Args:  cobra.NoArgs,
		Long: heredoc.Doc(`play runs a single game of chess between two move-provider
			peers, reached over HTTP at the --white and --black addresses.

			The overseer owns the game state: every turn it asks the peer
			whose move it is for a move, validates the reply against the
			position's legal moves, and applies it. A peer which answers
			with garbage or an illegal move gets the rejected reply and the
			legal moves fed back, up to --retries times per turn; a peer
			which exhausts that budget, times out or becomes unreachable
			forfeits the game.

			play exits 0 for every completed game, forfeits included. A
			non-zero exit means infrastructure failure, like a peer that
			cannot be reached before the game starts.`),
		RunE: runPlay,
	}

	cmd.Flags().String("white", "http://localhost:8001", "address of the white peer")
	cmd.Flags().String("black", "http://localhost:8002", "address of the black peer")
	cmd.Flags().String("fen", game.StartFEN, "starting position")
	cmd.Flags().Int("retries", overseer.DefaultRetries, "per-turn retry budget for rejected replies")
	cmd.Flags().Duration("move-budget", provider.DefaultBudget, "ceiling on a single move request")
	cmd.Flags().String("game", "", "yaml game file; flags override its values")
	cmd.Flags().String("book", "", "opening book file, one FEN per line")
	cmd.Flags().String("book-order", overseer.OrderSequential, "book order: sequential or random")
	cmd.Flags().Bool("store", false, "record the finished game in the games database")
	cmd.Flags().String("db", records.DefaultPath(), "path of the games database")

	return cmd
}

func runPlay(cmd *cobra.Command, args []string) error {
	whiteURL, _ := cmd.Flags().GetString("white")
	blackURL, _ := cmd.Flags().GetString("black")
	fenstr, _ := cmd.Flags().GetString("fen")
	retries, _ := cmd.Flags().GetInt("retries")
	budget, _ := cmd.Flags().GetDuration("move-budget")

	if path, _ := cmd.Flags().GetString("game"); path != "" {
		file, err := overseer.LoadGameFile(path)
		if err != nil {
			return err
		}

		// The file provides defaults; flags given explicitly win.
		if !cmd.Flags().Changed("white") && file.White.URL != "" {
			whiteURL = file.White.URL
		}
		if !cmd.Flags().Changed("black") && file.Black.URL != "" {
			blackURL = file.Black.URL
		}
		if !cmd.Flags().Changed("fen") && file.FEN != "" {
			fenstr = file.FEN
		}
		if !cmd.Flags().Changed("retries") && file.Retries != 0 {
			retries = file.Retries
		}
		if !cmd.Flags().Changed("move-budget") && file.MoveBudget != "" {
			fileBudget, err := file.Budget()
			if err != nil {
				return err
			}
			budget = fileBudget
		}
	}

	if path, _ := cmd.Flags().GetString("book"); path != "" {
		order, _ := cmd.Flags().GetString("book-order")
		book, err := overseer.NewBook(path, order)
		if err != nil {
			return err
		}

		fenstr = book.Pick()
	}

	pos, err := game.NewPosition(fenstr)
	if err != nil {
		return err
	}

	white := provider.NewClient(provider.Config{URL: whiteURL, Budget: budget})
	black := provider.NewClient(provider.Config{URL: blackURL, Budget: budget})

	// Probe both peers before the game: a peer that is down now is an
	// infrastructure failure, not a forfeit.
	for _, peer := range []*provider.Client{white, black} {
		if err := peer.Ping(cmd.Context()); err != nil {
			return fmt.Errorf("startup probe of %s failed: %w", peer.URL(), err)
		}
	}

	s := spinner.New(spinner.CharSets[SPIN], 100*time.Millisecond)
	s.Suffix = " waiting on white"

	match, err := overseer.New(overseer.Config{
		Oracle:    game.ChessOracle{},
		Providers: [2]provider.Provider{game.White: white, game.Black: black},
		Retries:   retries,
		Sink:      playSink{spin: s},
	}, pos)
	if err != nil {
		return err
	}

	logrus.Infof("game %s: %s (white) vs %s (black)", match.ID(), whiteURL, blackURL)

	started := time.Now()
	s.Start()
	result := match.Run(cmd.Context())
	s.Stop()

	fmt.Printf("\n%s\n", result)

	if store, _ := cmd.Flags().GetBool("store"); store {
		path, _ := cmd.Flags().GetString("db")
		if err := save(cmd.Context(), path, match, result, whiteURL, blackURL, started); err != nil {
			return err
		}
	}

	return nil
}

func save(
	ctx context.Context, path string, match *overseer.Overseer,
	result game.Result, whiteURL, blackURL string, started time.Time,
) error {
	store, err := records.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	return store.Save(ctx, records.Record{
		ID:        match.ID(),
		White:     whiteURL,
		Black:     blackURL,
		StartFEN:  match.Position().Root(),
		Moves:     match.Position().Moves(),
		Outcome:   result.Outcome.String(),
		Reason:    result.Reason,
		Score:     result.Score(),
		StartedAt: started,
		EndedAt:   time.Now(),
	})
}

// playSink renders game events like the default sink, and additionally
// keeps the spinner's caption on the side being waited on.
type playSink struct {
	overseer.LogSink
	spin *spinner.Spinner
}

func (sink playSink) TurnCompleted(id string, outcome overseer.TurnOutcome) {
	sink.LogSink.TurnCompleted(id, outcome)

	if outcome.Kind == overseer.Accepted {
		sink.spin.Suffix = fmt.Sprintf(" %s played %s, waiting on %s",
			outcome.Side, outcome.Move, outcome.Side.Other())
	}
}
