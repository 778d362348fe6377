package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/wdp365/siteapi/internal/domain"
)

func sample() *domain.ContactSubmission {
	budget := "$5k-$10k"
	return &domain.ContactSubmission{
		ID:        "C1",
		Name:      "Ana",
		Email:     "ana@example.com",
		Budget:    &budget,
		Message:   "New site please",
		Timestamp: time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC),
		IPAddress: "203.0.113.7",
	}
}

func TestSlack_OK(t *testing.T) {
	var got string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		_ = json.NewDecoder(r.Body).Decode(&payload)
		got = payload["text"]
		w.WriteHeader(200)
	}))
	defer ts.Close()

	s := NewSlack(ts.URL)
	if s == nil {
		t.Fatal("expected slack client")
	}
	if err := s.Notify(context.Background(), sample()); err != nil {
		t.Fatalf("notify err: %v", err)
	}
	if !strings.HasPrefix(got, "*New contact form submission from Ana*") {
		t.Fatalf("payload not as expected: %q", got)
	}
	if !strings.Contains(got, "Budget: $5k-$10k") || !strings.Contains(got, "Company: -") {
		t.Fatalf("optional fields not rendered: %q", got)
	}
}

func TestSlack_Non2xx(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
	}))
	defer ts.Close()

	if err := NewSlack(ts.URL).Notify(context.Background(), sample()); err == nil {
		t.Fatalf("expected error on non-2xx")
	}
}

func TestNewSlack_EmptyWebhookDisabled(t *testing.T) {
	if NewSlack("") != nil {
		t.Fatalf("empty webhook should disable slack")
	}
}

type failing struct{ err error }

func (f failing) Notify(context.Context, *domain.ContactSubmission) error { return f.err }

func TestMulti_CombinesErrorsAndSkipsNil(t *testing.T) {
	e1, e2 := errors.New("one"), errors.New("two")
	m := Multi{nil, failing{e1}, failing{nil}, failing{e2}}
	err := m.Notify(context.Background(), sample())
	if !errors.Is(err, e1) || !errors.Is(err, e2) {
		t.Fatalf("want both errors, got %v", err)
	}
	if err := (Multi{nil}).Notify(context.Background(), sample()); err != nil {
		t.Fatalf("empty fan-out should succeed, got %v", err)
	}
}
