package outcome

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/osse101/BrandishReveal_Go/internal/domain"
	"github.com/osse101/BrandishReveal_Go/internal/logger"
)

// PlayToken is the play confirmation sent to the game server
type PlayToken struct {
	CellIndex *int  `json:"cell_index,omitempty" validate:"omitempty,min=0"`
	Digits    []int `json:"digits,omitempty" validate:"omitempty,len=3,dive,min=0,max=9"`
}

// PlayRequest identifies one play action
type PlayRequest struct {
	Game  string
	Mode  domain.Mode
	Token PlayToken
}

// Provider is the remote authority that decides outcomes
type Provider interface {
	Play(ctx context.Context, req PlayRequest) (*domain.Outcome, error)
}

// ProviderError carries the user-facing message of a rejected play
type ProviderError struct {
	Status  int
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s (status %d): %s", domain.ErrMsgProviderFailure, e.Status, e.Message)
}

// Unwrap lets errors.Is match domain.ErrProviderFailure
func (e *ProviderError) Unwrap() error {
	return domain.ErrProviderFailure
}

// HTTPProvider calls the game server over HTTP
type HTTPProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPProvider creates a provider client. timeout bounds a single play call.
func NewHTTPProvider(baseURL, apiKey string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// Play posts the play token and decodes the authoritative outcome
func (p *HTTPProvider) Play(ctx context.Context, req PlayRequest) (*domain.Outcome, error) {
	log := logger.FromContext(ctx)

	body, err := json.Marshal(req.Token)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode play token: %v", domain.ErrProviderFailure, err)
	}

	url := fmt.Sprintf("%s/games/%s/play", p.baseURL, req.Game)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		httpReq.Header.Set(HeaderAPIKey, p.apiKey)
	}
	if id := logger.GetRequestID(ctx); id != "" {
		httpReq.Header.Set(HeaderRequestID, id)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		log.Warn(LogMsgProviderRequestFailed, "game", req.Game, "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", domain.ErrProviderFailure, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		perr := &ProviderError{Status: resp.StatusCode, Message: providerMessage(data)}
		log.Warn(LogMsgProviderRejected, "game", req.Game, "status", resp.StatusCode, "message", perr.Message)
		return nil, perr
	}

	out, err := DecodePayload(req.Mode, data)
	if err != nil {
		log.Error(LogMsgProviderBadPayload, "game", req.Game, "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrProviderFailure, err)
	}

	log.Debug(LogMsgProviderOutcome, "game", req.Game, "mode", req.Mode)
	return out, nil
}

// providerMessage extracts the human-readable error the game server sent
func providerMessage(data []byte) string {
	var w wireResponse
	if err := json.Unmarshal(data, &w); err == nil {
		if w.Error != "" {
			return w.Error
		}
		if w.Message != "" {
			return w.Message
		}
	}
	return DefaultProviderErrorMessage
}
