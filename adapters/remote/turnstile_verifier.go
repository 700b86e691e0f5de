package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/foliolab/folio-api/internal/application/service"
	"github.com/foliolab/folio-api/internal/config"
	"github.com/foliolab/folio-api/pkg/apperror"
	"github.com/foliolab/folio-api/pkg/logger"
)

// turnstileVerifier validates Cloudflare Turnstile challenge tokens. A
// misconfigured secret is our fault and reads as internal; everything else
// the caller can fix.
type turnstileVerifier struct {
	httpClient   *http.Client
	challengeURL string
	secretKey    string
	logger       logger.Logger
}

func NewTurnstileVerifier(cfg config.Config, log logger.Logger) service.TokenVerifier {
	return &turnstileVerifier{
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		challengeURL: cfg.Turnstile.ChallengeURL,
		secretKey:    cfg.Turnstile.SecretKey,
		logger:       log,
	}
}

type turnstileResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

func (v *turnstileVerifier) Verify(ctx context.Context, token string, remoteIP string) error {
	if token == "" {
		return apperror.NewInvalidInput("turnstile token is missing", nil)
	}

	form := url.Values{}
	form.Set("secret", v.secretKey)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.challengeURL, strings.NewReader(form.Encode()))
	if err != nil {
		return apperror.NewInternal("failed to build turnstile request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return apperror.NewUnavailable("turnstile verification request failed", err)
	}
	defer resp.Body.Close()

	var body turnstileResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return apperror.NewUnavailable("turnstile returned malformed payload", err)
	}
	if body.Success {
		return nil
	}

	for _, code := range body.ErrorCodes {
		if code == "missing-input-secret" || code == "invalid-input-secret" {
			v.logger.Error("turnstile secret is misconfigured", nil, zap.Strings("error_codes", body.ErrorCodes))
			return apperror.NewInternal("turnstile secret is misconfigured", nil)
		}
	}
	v.logger.Warn("turnstile challenge rejected", zap.Strings("error_codes", body.ErrorCodes))
	return apperror.NewUnauthorized("turnstile challenge failed", nil)
}
