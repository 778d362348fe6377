package memory

import (
	"context"
	"testing"
	"time"

	"github.com/wdp365/siteapi/internal/domain"
)

func strp(s string) *string { return &s }

func TestMemoryStore_StatusRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New()

	want := &domain.StatusCheck{
		ID:         "S1",
		ClientName: "frontend",
		Timestamp:  time.Date(2025, 8, 18, 12, 0, 0, 123456789, time.UTC),
	}
	if err := s.InsertStatus(ctx, want); err != nil {
		t.Fatalf("InsertStatus: %v", err)
	}

	all, err := s.ListStatus(ctx)
	if err != nil {
		t.Fatalf("ListStatus: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 status, got %d", len(all))
	}
	got := all[0]
	if got.ID != want.ID || got.ClientName != want.ClientName || !got.Timestamp.Equal(want.Timestamp) {
		t.Fatalf("mismatch after round-trip:\nwant=%+v\ngot =%+v", *want, got)
	}
}

func TestMemoryStore_ContactRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New()

	want := &domain.ContactSubmission{
		ID:        "C1",
		Name:      "Ana",
		Email:     "ana@example.com",
		Company:   strp("Acme"),
		Message:   "Need a website",
		Timestamp: time.Now().UTC(),
		IPAddress: "10.0.0.1",
	}
	if err := s.InsertContact(ctx, want); err != nil {
		t.Fatalf("InsertContact: %v", err)
	}
	all, err := s.ListContacts(ctx)
	if err != nil {
		t.Fatalf("ListContacts: %v", err)
	}
	if len(all) != 1 || len(s.contacts) != 1 {
		t.Fatalf("expected 1 contact, got %d", len(all))
	}
	got := all[0]
	if got.ID != want.ID || got.Email != want.Email || got.IPAddress != want.IPAddress ||
		!got.Timestamp.Equal(want.Timestamp) {
		t.Fatalf("mismatch after round-trip:\nwant=%+v\ngot =%+v", *want, got)
	}
	if got.Company == nil || *got.Company != "Acme" || got.Phone != nil {
		t.Fatalf("optional fields not preserved: company=%v phone=%v", got.Company, got.Phone)
	}
}

func TestMemoryStore_ListKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := New()
	for _, name := range []string{"a", "b", "c"} {
		if err := s.InsertStatus(ctx, domain.NewStatusCheck(name)); err != nil {
			t.Fatalf("InsertStatus: %v", err)
		}
	}
	all, _ := s.ListStatus(ctx)
	if len(all) != 3 || all[0].ClientName != "a" || all[2].ClientName != "c" {
		t.Fatalf("unexpected order: %+v", all)
	}
}
