package repo

import (
	"context"

	"github.com/wdp365/siteapi/internal/domain"
)

// Collection names, shared by every document back end.
const (
	StatusCollection  = "status_checks"
	ContactCollection = "contact_submissions"
)

// Ports. The memory, Mongo and Postgres adapters implement both.
// List returns records in store order, which is not guaranteed stable.
type StatusStore interface {
	InsertStatus(ctx context.Context, s *domain.StatusCheck) error
	ListStatus(ctx context.Context) ([]domain.StatusCheck, error)
}

type ContactStore interface {
	InsertContact(ctx context.Context, c *domain.ContactSubmission) error
	ListContacts(ctx context.Context) ([]domain.ContactSubmission, error)
}

// Store is a back end holding both record kinds.
type Store interface {
	StatusStore
	ContactStore
	Close(ctx context.Context) error
}
