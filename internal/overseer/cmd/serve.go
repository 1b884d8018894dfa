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
	"fmt"
	"net/http"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"laptudirm.com/x/overseer/internal/overseer/server"
	"laptudirm.com/x/overseer/pkg/game"
	"laptudirm.com/x/overseer/pkg/provider"
)

// overseer serve
func Serve() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a move-provider peer for one side",
		Args:  cobra.NoArgs,
		Long: heredoc.Doc(`serve runs a move-provider peer which an overseer can play
			against. The peer serves POST /move and GET /ping for exactly
			one side, and refuses positions where it is not that side's
			turn.

			The random backend plays a uniformly random legal move and
			needs no credentials. The llm backend asks an OpenAI-compatible
			chat completions API for a move; it needs OPENAI_API_KEY, and
			optionally OPENAI_MODEL and OPENAI_BASE_URL, from the
			environment or a .env file.`),
		RunE: runServe,
	}

	cmd.Flags().String("side", "", "side this peer plays: white or black")
	cmd.Flags().String("addr", "", "listen address (default :8001 for white, :8002 for black)")
	cmd.Flags().String("backend", "random", "move backend: random or llm")
	cmd.Flags().String("model", "", "llm backend: model name (default $OPENAI_MODEL)")
	cmd.Flags().String("base-url", "", "llm backend: api base url (default $OPENAI_BASE_URL)")
	cmd.Flags().String("env", "", "load environment from this .env file")
	_ = cmd.MarkFlagRequired("side")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	var side game.Side
	switch name, _ := cmd.Flags().GetString("side"); name {
	case "white":
		side = game.White
	case "black":
		side = game.Black
	default:
		return fmt.Errorf("unknown side %q", name)
	}

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = ":8001"
		if side == game.Black {
			addr = ":8002"
		}
	}

	if path, _ := cmd.Flags().GetString("env"); path != "" {
		if err := godotenv.Load(path); err != nil {
			return err
		}
	} else {
		// A missing default .env is fine.
		_ = godotenv.Load()
	}

	mover, err := newMover(cmd, side)
	if err != nil {
		return err
	}

	peer, err := server.New(server.Config{
		Side:  side,
		Mover: mover,
	})
	if err != nil {
		return err
	}

	backend, _ := cmd.Flags().GetString("backend")
	logrus.Infof("serving %s peer (%s backend) on %s", side, backend, addr)
	return http.ListenAndServe(addr, peer.Handler())
}

func newMover(cmd *cobra.Command, side game.Side) (provider.Mover, error) {
	switch backend, _ := cmd.Flags().GetString("backend"); backend {
	case "random":
		return provider.NewRandomMover(), nil

	case "llm":
		model, _ := cmd.Flags().GetString("model")
		if model == "" {
			model = os.Getenv("OPENAI_MODEL")
		}

		baseURL, _ := cmd.Flags().GetString("base-url")
		if baseURL == "" {
			baseURL = os.Getenv("OPENAI_BASE_URL")
		}

		return provider.NewLLMMover(provider.LLMConfig{
			BaseURL: baseURL,
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			Model:   model,
			Side:    side,
		})

	default:
		return nil, fmt.Errorf("unknown backend %q", backend)
	}
}
