// Package story fetches the hotel flavor text. The provider is best effort
// by contract: it always returns usable text and never an error, degrading
// to canned lines when unconfigured or when the upstream call fails.
package story

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// fallbackUnconfigured greets the player when no provider is configured.
	fallbackUnconfigured = "The hotel owner welcomes you warmly. 'Pay your rent on time!' he grumbles."
	// fallbackError covers any upstream failure.
	fallbackError = "A strange chill runs down your spine as you approach the door."

	defaultTimeout = 6 * time.Second
)

// Provider produces a short hotel rumor for the given region. Implementations
// must not return an empty string.
type Provider interface {
	HotelStory(ctx context.Context, hotelName, region string) string
}

// Config wires an HTTP provider to a text-generation endpoint.
type Config struct {
	URL     string        `yaml:"url"`
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// HTTPProvider posts a narration prompt to a JSON endpoint. Any failure mode
// collapses to the canned fallback; callers never see an error.
type HTTPProvider struct {
	cfg        Config
	client     *http.Client
	onFallback func(reason string)
}

// NewHTTPProvider builds a provider. onFallback, if non-nil, observes every
// degradation so the serving layer can log it.
func NewHTTPProvider(cfg Config, onFallback func(reason string)) *HTTPProvider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPProvider{
		cfg:        cfg,
		client:     &http.Client{Timeout: timeout},
		onFallback: onFallback,
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	Text string `json:"text"`
}

// HotelStory implements Provider.
func (p *HTTPProvider) HotelStory(ctx context.Context, hotelName, region string) string {
	if p.cfg.URL == "" || p.cfg.APIKey == "" {
		p.fallback("unconfigured")
		return fallbackUnconfigured
	}

	prompt := fmt.Sprintf(
		"You are the narrator of a game. The player just pressed a button outside a hotel named %q in the %s region. "+
			"Write a 2-sentence intriguing short story or rumor about this hotel. "+
			"Maybe it's haunted, maybe a celebrity stays there, or maybe the owner is a secret agent.",
		hotelName, region)

	body, err := json.Marshal(generateRequest{Model: p.cfg.Model, Prompt: prompt})
	if err != nil {
		p.fallback("marshal: " + err.Error())
		return fallbackError
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.URL, bytes.NewReader(body))
	if err != nil {
		p.fallback("request: " + err.Error())
		return fallbackError
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		p.fallback("do: " + err.Error())
		return fallbackError
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		p.fallback(fmt.Sprintf("status %d", resp.StatusCode))
		return fallbackError
	}

	var decoded generateResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&decoded); err != nil {
		p.fallback("decode: " + err.Error())
		return fallbackError
	}

	text := strings.TrimSpace(decoded.Text)
	if text == "" {
		p.fallback("empty response")
		return fallbackError
	}
	return text
}

func (p *HTTPProvider) fallback(reason string) {
	if p.onFallback != nil {
		p.onFallback(reason)
	}
}
