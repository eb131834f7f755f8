package hcaptcha

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ManuelReschke/BlockHolder/internal/pkg/env"
)

const DefaultVerifyURL = "https://hcaptcha.com/siteverify"

var ErrEmptyToken = errors.New("hCaptcha token is empty")

type Response struct {
	Success     bool     `json:"success"`
	ChallengeTS string   `json:"challenge_ts"`
	Hostname    string   `json:"hostname"`
	ErrorCodes  []string `json:"error-codes"`
}

// Verifier checks hCaptcha tokens against the siteverify endpoint.
type Verifier struct {
	Secret    string
	VerifyURL string
	Client    *http.Client
}

// NewFromEnv returns nil when HCAPTCHA_SECRET is unset, which disables the check.
func NewFromEnv() *Verifier {
	secret := env.GetEnv("HCAPTCHA_SECRET", "")
	if secret == "" {
		return nil
	}
	return &Verifier{
		Secret:    secret,
		VerifyURL: DefaultVerifyURL,
		Client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// SiteKey is rendered into the form widget.
func SiteKey() string {
	return env.GetEnv("HCAPTCHA_SITEKEY", "")
}

func (v *Verifier) Verify(ctx context.Context, token string) error {
	if token == "" {
		return ErrEmptyToken
	}

	formData := url.Values{
		"secret":   {v.Secret},
		"response": {token},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.VerifyURL, strings.NewReader(formData.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to hCaptcha API: %w", err)
	}
	defer resp.Body.Close()

	var response Response
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return fmt.Errorf("failed to decode hCaptcha API response: %w", err)
	}

	if !response.Success {
		errorMsg := "hCaptcha validation failed"
		if len(response.ErrorCodes) > 0 {
			errorMsg = errorMsg + ": " + strings.Join(response.ErrorCodes, ", ")
		}
		return errors.New(errorMsg)
	}

	return nil
}
