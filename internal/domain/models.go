package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type StatusCheck struct {
	ID         string    `json:"id"`
	ClientName string    `json:"client_name"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewStatusCheck(clientName string) *StatusCheck {
	return &StatusCheck{
		ID:         uuid.NewString(),
		ClientName: clientName,
		Timestamp:  time.Now().UTC(),
	}
}

// ContactSubmission is a persisted contact-form message. Optional fields are
// nil when the visitor left them blank.
type ContactSubmission struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Company   *string   `json:"company"`
	Phone     *string   `json:"phone"`
	Service   *string   `json:"service"`
	Budget    *string   `json:"budget"`
	Timeline  *string   `json:"timeline"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	IPAddress string    `json:"ip_address"`
}

// ContactForm is the inbound payload of POST /api/contact.
// Honeypot and WebsiteURL are hidden inputs; browsers leave them empty.
type ContactForm struct {
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Company        *string `json:"company,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	Service        *string `json:"service,omitempty"`
	Budget         *string `json:"budget,omitempty"`
	Timeline       *string `json:"timeline,omitempty"`
	Message        string  `json:"message"`
	Honeypot       string  `json:"honeypot,omitempty"`
	WebsiteURL     string  `json:"website_url,omitempty"`
	RecaptchaToken string  `json:"recaptchaToken,omitempty"`
}

// UnmarshalJSON also accepts the token as "recaptcha_token".
func (f *ContactForm) UnmarshalJSON(b []byte) error {
	type plain ContactForm
	var in struct {
		plain
		RecaptchaTokenSnake string `json:"recaptcha_token"`
	}
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	*f = ContactForm(in.plain)
	if f.RecaptchaToken == "" {
		f.RecaptchaToken = in.RecaptchaTokenSnake
	}
	return nil
}
