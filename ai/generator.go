package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var ErrEmptyAnswer = errors.New("generator returned an empty answer")

// Generator produces the AI participant's answer for a round. Implementations
// must be treated as latent and fallible; callers fall back to a canned answer.
type Generator interface {
	Generate(ctx context.Context, question string) (string, error)
}

type generateRequest struct {
	Question string `json:"question"`
}

type generateResponse struct {
	Text string `json:"text"`
}

// HTTPGenerator calls an external completion service over HTTP.
type HTTPGenerator struct {
	endpoint string
	timeout  time.Duration
	client   *http.Client
}

func NewHTTPGenerator(endpoint string, timeout time.Duration) *HTTPGenerator {
	return &HTTPGenerator{
		endpoint: endpoint,
		timeout:  timeout,
		client:   &http.Client{Timeout: timeout},
	}
}

func (g *HTTPGenerator) Generate(ctx context.Context, question string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	body, err := json.Marshal(generateRequest{Question: question})
	if err != nil {
		return "", fmt.Errorf("encoding generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling answer generator: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("answer generator returned status %d", resp.StatusCode)
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decoding generate response: %w", err)
	}

	if decoded.Text == "" {
		return "", ErrEmptyAnswer
	}

	return decoded.Text, nil
}
