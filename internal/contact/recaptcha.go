package contact

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	RecaptchaVerifyURL = "https://www.google.com/recaptcha/api/siteverify"
	// RecaptchaThreshold is the lowest v3 score treated as human.
	RecaptchaThreshold = 0.5
)

// Verifier checks an anti-bot token issued to the browser.
type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) (Verdict, error)
}

type Verdict struct {
	Success bool
	Score   float64
	Codes   []string
}

type Recaptcha struct {
	Secret    string
	VerifyURL string
	Client    *http.Client
}

// NewRecaptcha returns nil when no secret is configured.
func NewRecaptcha(secret string) *Recaptcha {
	if secret == "" {
		return nil
	}
	return &Recaptcha{
		Secret:    secret,
		VerifyURL: RecaptchaVerifyURL,
		Client:    &http.Client{Timeout: 10 * time.Second},
	}
}

type siteverifyResponse struct {
	Success    bool     `json:"success"`
	Score      float64  `json:"score"`
	ErrorCodes []string `json:"error-codes"`
}

func (r *Recaptcha) Verify(ctx context.Context, token, remoteIP string) (Verdict, error) {
	form := url.Values{"secret": {r.Secret}, "response": {token}}
	if net.ParseIP(remoteIP) != nil {
		form.Set("remoteip", remoteIP)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.VerifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return Verdict{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := r.Client.Do(req)
	if err != nil {
		return Verdict{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return Verdict{}, fmt.Errorf("siteverify: status %d", resp.StatusCode)
	}

	var out siteverifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Verdict{}, fmt.Errorf("siteverify: decode: %w", err)
	}
	return Verdict{
		Success: out.Success && out.Score >= RecaptchaThreshold,
		Score:   out.Score,
		Codes:   out.ErrorCodes,
	}, nil
}
