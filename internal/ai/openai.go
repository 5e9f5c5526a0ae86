package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/trusttrip/backend/config"
	"github.com/trusttrip/backend/internal/domain"
)

const defaultBaseURL = "https://api.openai.com/v1"

// OpenAIRanker asks a chat model to pick one offer from a candidate set. The
// answer is advisory: the selector validates it against the candidates and
// falls back to deterministic scoring on any failure, so errors returned here
// never reach a client.
type OpenAIRanker struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewOpenAIRanker(cfg config.OpenAIConfig) *OpenAIRanker {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-3.5-turbo"
	}
	return &OpenAIRanker{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		model:      model,
		httpClient: &http.Client{Timeout: cfg.Timeout()},
	}
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type rankedChoice struct {
	Provider    string  `json:"provider"`
	Price       float64 `json:"price"`
	Destination string  `json:"destination"`
}

// Rank sends the candidate offers to the model and parses its strict-JSON
// choice. The returned offer is the matching catalog candidate, never a value
// invented by the model.
func (r *OpenAIRanker) Rank(ctx context.Context, t domain.BookingType, destination string, budget float64, candidates []domain.Offer) (*domain.Offer, error) {
	if r.apiKey == "" {
		return nil, fmt.Errorf("openai api key not configured")
	}

	options, err := json.Marshal(candidates)
	if err != nil {
		return nil, err
	}
	prompt := fmt.Sprintf(
		"You are a travel booking assistant. The user wants a %s to %s with a budget of %g CHEQ.\n"+
			"Available options:\n%s\n"+
			"Select the best provider within budget, preferring lower prices. "+
			"Respond with JSON only: {\"provider\": \"provider_name\", \"price\": number, \"destination\": \"destination\"}",
		t, destination, budget, options)

	body, err := json.Marshal(chatRequest{
		Model:     r.model,
		Messages:  []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens: 150,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openai returned status %d", resp.StatusCode)
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return nil, err
	}
	if len(chat.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	content := strings.TrimSpace(chat.Choices[0].Message.Content)
	var choice rankedChoice
	if err := json.Unmarshal([]byte(content), &choice); err != nil {
		return nil, fmt.Errorf("unparsable model reply: %w", err)
	}
	if choice.Provider == "" {
		return nil, fmt.Errorf("model reply has no provider")
	}

	for _, c := range candidates {
		if c.Provider == choice.Provider && c.Destination == choice.Destination {
			logrus.WithFields(logrus.Fields{"provider": c.Provider, "price": c.Price}).Debug("ai ranked offer")
			return &c, nil
		}
	}
	return nil, fmt.Errorf("model chose %q which is not among the candidates", choice.Provider)
}
