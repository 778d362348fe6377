package repo

import (
	"fmt"
	"time"

	"github.com/wdp365/siteapi/internal/domain"
)

// Documents keep timestamps as RFC 3339 text with nanoseconds so that every
// back end round-trips the exact instant.

type StatusDoc struct {
	ID         string `json:"id" bson:"id"`
	ClientName string `json:"client_name" bson:"client_name"`
	Timestamp  string `json:"timestamp" bson:"timestamp"`
}

type ContactDoc struct {
	ID        string  `json:"id" bson:"id"`
	Name      string  `json:"name" bson:"name"`
	Email     string  `json:"email" bson:"email"`
	Company   *string `json:"company" bson:"company"`
	Phone     *string `json:"phone" bson:"phone"`
	Service   *string `json:"service" bson:"service"`
	Budget    *string `json:"budget" bson:"budget"`
	Timeline  *string `json:"timeline" bson:"timeline"`
	Message   string  `json:"message" bson:"message"`
	Timestamp string  `json:"timestamp" bson:"timestamp"`
	IPAddress string  `json:"ip_address" bson:"ip_address"`
}

func FormatTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

func StatusToDoc(s *domain.StatusCheck) StatusDoc {
	return StatusDoc{ID: s.ID, ClientName: s.ClientName, Timestamp: FormatTime(s.Timestamp)}
}

func (d StatusDoc) Record() (domain.StatusCheck, error) {
	ts, err := ParseTime(d.Timestamp)
	if err != nil {
		return domain.StatusCheck{}, err
	}
	return domain.StatusCheck{ID: d.ID, ClientName: d.ClientName, Timestamp: ts}, nil
}

func ContactToDoc(c *domain.ContactSubmission) ContactDoc {
	return ContactDoc{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Company:   c.Company,
		Phone:     c.Phone,
		Service:   c.Service,
		Budget:    c.Budget,
		Timeline:  c.Timeline,
		Message:   c.Message,
		Timestamp: FormatTime(c.Timestamp),
		IPAddress: c.IPAddress,
	}
}

func (d ContactDoc) Record() (domain.ContactSubmission, error) {
	ts, err := ParseTime(d.Timestamp)
	if err != nil {
		return domain.ContactSubmission{}, err
	}
	return domain.ContactSubmission{
		ID:        d.ID,
		Name:      d.Name,
		Email:     d.Email,
		Company:   d.Company,
		Phone:     d.Phone,
		Service:   d.Service,
		Budget:    d.Budget,
		Timeline:  d.Timeline,
		Message:   d.Message,
		Timestamp: ts,
		IPAddress: d.IPAddress,
	}, nil
}
