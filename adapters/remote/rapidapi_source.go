package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/foliolab/folio-api/internal/application/service"
	"github.com/foliolab/folio-api/internal/config"
	"github.com/foliolab/folio-api/pkg/apperror"
	"github.com/foliolab/folio-api/pkg/logger"
)

const profileURLBase = "https://www.linkedin.com/in/"

// rapidAPISource talks to the scraping provider behind RapidAPI. The provider
// answers 200 with a "busy" message under load, so busy responses retry with
// the same policy as transport failures. An upstream 404 is final.
type rapidAPISource struct {
	httpClient *http.Client
	url        string
	host       string
	key        string
	maxRetries int
	retryDelay time.Duration
	logger     logger.Logger
}

func NewRapidAPISource(cfg config.Config, log logger.Logger) service.RemoteSource {
	retryDelay := cfg.RapidAPI.RetryDelay
	if retryDelay <= 0 {
		retryDelay = time.Second
	}
	return &rapidAPISource{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		url:        cfg.RapidAPI.URL,
		host:       cfg.RapidAPI.Host,
		key:        cfg.RapidAPI.Key,
		maxRetries: cfg.RapidAPI.MaxRetries,
		retryDelay: retryDelay,
		logger:     log,
	}
}

func (s *rapidAPISource) FetchByUsername(ctx context.Context, username string) (map[string]any, error) {
	var result map[string]any

	attempt := 0
	operation := func() error {
		attempt++
		body, err := s.fetchOnce(ctx, username)
		if err != nil {
			if !errors.Is(err, apperror.ErrUnavailable) {
				return backoff.Permanent(err)
			}
			s.logger.Warn("profile fetch attempt failed",
				zap.String("username", username),
				zap.Int("attempt", attempt),
				zap.Error(err))
			return err
		}
		result = body
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(s.retryDelay), uint64(s.maxRetries)),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperror.NewUnavailable("profile data provider is unavailable", err)
	}
	return result, nil
}

func (s *rapidAPISource) fetchOnce(ctx context.Context, username string) (map[string]any, error) {
	payload, err := json.Marshal(map[string]string{"link": profileURLBase + username})
	if err != nil {
		return nil, apperror.NewInternal("failed to marshal provider request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return nil, apperror.NewInternal("failed to build provider request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-rapidapi-host", s.host)
	req.Header.Set("x-rapidapi-key", s.key)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, apperror.NewUnavailable("provider request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, apperror.NewNotFound("profile", username)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, apperror.NewUnavailable(fmt.Sprintf("provider returned status %d", resp.StatusCode), nil)
	case resp.StatusCode != http.StatusOK:
		return nil, apperror.NewInternal(fmt.Sprintf("provider returned status %d", resp.StatusCode), nil)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, apperror.NewUnavailable("provider returned malformed payload", err)
	}
	if msg, ok := body["message"].(string); ok && strings.Contains(strings.ToLower(msg), "busy") {
		return nil, apperror.NewUnavailable("provider is busy", nil)
	}
	return body, nil
}
