package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"mentorly/config"
)

var (
	ErrVerificationFailed  = errors.New("siwe verification failed")
	ErrVerifierUnavailable = errors.New("siwe verifier unavailable")
)

// Verifier checks that signature over message was produced by address.
// The actual SIWE parsing and signature recovery live in an external
// service; this side only cares about ok/fail.
type Verifier interface {
	Verify(ctx context.Context, address, message, signature string) error
}

// HTTPVerifier calls the external SIWE verification service.
type HTTPVerifier struct {
	url    string
	client *http.Client
}

func NewHTTPVerifier(cfg *config.SiweConfig) *HTTPVerifier {
	return &HTTPVerifier{
		url:    cfg.VerifyURL,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (v *HTTPVerifier) Verify(ctx context.Context, address, message, signature string) error {
	body, err := json.Marshal(map[string]string{
		"address":   address,
		"message":   message,
		"signature": signature,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrVerifierUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var out struct {
			OK bool `json:"ok"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil || !out.OK {
			return ErrVerificationFailed
		}
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest:
		return ErrVerificationFailed
	default:
		return fmt.Errorf("%w: status %d", ErrVerifierUnavailable, resp.StatusCode)
	}
}
