package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"laptudirm.com/x/overseer/pkg/game"
)

// LLMConfig configures a language-model-backed Mover speaking the
// OpenAI-compatible chat completions protocol.
type LLMConfig struct {
	// BaseURL of the API, like https://api.openai.com/v1. Anything
	// speaking the same protocol works.
	BaseURL string
	APIKey  string
	Model   string

	// Side the mover plays, used in its instructions.
	Side game.Side

	// Budget is the ceiling on one completion call. Zero means
	// DefaultBudget.
	Budget time.Duration
}

// LLMMover asks a language model for a move. The model is prompted to
// answer with a single coordinate move; whatever it actually answers is
// returned verbatim and left to the caller to judge.
type LLMMover struct {
	config LLMConfig
	client *http.Client
}

var _ Mover = (*LLMMover)(nil)

func NewLLMMover(config LLMConfig) (*LLMMover, error) {
	if config.APIKey == "" {
		return nil, errors.New("provider: llm api key missing")
	}

	if config.Model == "" {
		return nil, errors.New("provider: llm model missing")
	}

	if config.BaseURL == "" {
		config.BaseURL = "https://api.openai.com/v1"
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	if config.Budget <= 0 {
		config.Budget = DefaultBudget
	}

	return &LLMMover{
		config: config,
		client: &http.Client{Timeout: config.Budget},
	}, nil
}

const llmInstructions = `You are a world renowned chess grandmaster playing the %s pieces.
Respond with exactly one legal move in coordinate notation for the given position:
four characters like e2e4, or five with a promotion piece like e7e8q.
No capture symbols, no checks, no words. Output only the move.`

func (mover *LLMMover) Move(ctx context.Context, request Request) (string, error) {
	user := fmt.Sprintf("Position (FEN): %s\nLegal moves: %s",
		request.FEN, strings.Join(request.LegalMoves, " "))
	if request.Feedback != "" {
		user += "\n" + request.Feedback
	}

	payload, err := json.Marshal(map[string]any{
		"model": mover.config.Model,
		"messages": []map[string]string{
			{"role": "system", "content": fmt.Sprintf(llmInstructions, mover.config.Side)},
			{"role": "user", "content": user},
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost,
		mover.config.BaseURL+"/chat/completions",
		bytes.NewReader(payload),
	)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+mover.config.APIKey)

	resp, err := mover.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var completion struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("provider: llm replied %s", resp.Status)
	}

	switch {
	case completion.Error != nil:
		return "", fmt.Errorf("provider: llm error: %s", completion.Error.Message)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("provider: llm replied %s", resp.Status)
	case len(completion.Choices) == 0:
		return "", errors.New("provider: llm returned no choices")
	}

	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}
