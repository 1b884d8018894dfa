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

package overseer

import (
	"errors"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"laptudirm.com/x/overseer/pkg/game"
	"laptudirm.com/x/overseer/pkg/provider"
)

// DefaultRetries is the per-turn budget of retry cycles granted to a
// provider whose reply was rejected.
const DefaultRetries = 5

// Config carries everything an Overseer is constructed with. It is
// fixed at construction; nothing reads configuration mid-game.
type Config struct {
	// Oracle is the rules authority for the game being played.
	Oracle game.Oracle

	// Providers are the two move-producing peers, indexed by the Side
	// they play.
	Providers [2]provider.Provider

	// Retries is the per-turn retry budget for rejected replies.
	// Zero means DefaultRetries.
	Retries int

	// Sink receives the game's event stream. Nil means LogSink.
	Sink Sink
}

func (config *Config) validate() error {
	if config.Oracle == nil {
		return errors.New("overseer: config has no oracle")
	}

	if config.Providers[game.White] == nil || config.Providers[game.Black] == nil {
		return errors.New("overseer: config needs a provider for each side")
	}

	if config.Retries < 0 {
		return errors.New("overseer: negative retry budget")
	}

	if config.Retries == 0 {
		config.Retries = DefaultRetries
	}

	if config.Sink == nil {
		config.Sink = LogSink{}
	}

	return nil
}

// GameFile is the yaml description of a game, an alternative to
// spelling everything out in flags.
type GameFile struct {
	White PeerConfig `yaml:"white"`
	Black PeerConfig `yaml:"black"`

	FEN     string `yaml:"fen,omitempty"`
	Retries int    `yaml:"retries,omitempty"`

	// MoveBudget is the per-call ceiling on a move request, in Go
	// duration syntax like "45s".
	MoveBudget string `yaml:"move-budget,omitempty"`

	Book BookConfig `yaml:"book,omitempty"`
}

type PeerConfig struct {
	URL string `yaml:"url"`
}

type BookConfig struct {
	File  string `yaml:"file"`
	Order string `yaml:"order,omitempty"`
}

// Budget parses the game file's move budget, falling back to the
// provider default when it is unset.
func (file *GameFile) Budget() (time.Duration, error) {
	if file.MoveBudget == "" {
		return provider.DefaultBudget, nil
	}

	return time.ParseDuration(file.MoveBudget)
}

// LoadGameFile reads and parses a yaml game description.
func LoadGameFile(path string) (*GameFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file GameFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, err
	}

	return &file, nil
}
