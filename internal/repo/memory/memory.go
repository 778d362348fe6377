package memory

import (
	"context"
	"sync"

	"github.com/wdp365/siteapi/internal/domain"
	"github.com/wdp365/siteapi/internal/repo"
)

// Store keeps documents in insertion order. It serializes records the same
// way the database adapters do.
type Store struct {
	mu       sync.RWMutex
	statuses []repo.StatusDoc
	contacts []repo.ContactDoc
}

func New() *Store {
	return &Store{
		statuses: make([]repo.StatusDoc, 0, 64),
		contacts: make([]repo.ContactDoc, 0, 64),
	}
}

func (m *Store) InsertStatus(ctx context.Context, s *domain.StatusCheck) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses = append(m.statuses, repo.StatusToDoc(s))
	return nil
}

func (m *Store) ListStatus(ctx context.Context) ([]domain.StatusCheck, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.StatusCheck, 0, len(m.statuses))
	for _, d := range m.statuses {
		rec, err := d.Record()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (m *Store) InsertContact(ctx context.Context, c *domain.ContactSubmission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contacts = append(m.contacts, repo.ContactToDoc(c))
	return nil
}

func (m *Store) ListContacts(ctx context.Context) ([]domain.ContactSubmission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.ContactSubmission, 0, len(m.contacts))
	for _, d := range m.contacts {
		rec, err := d.Record()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (m *Store) Close(ctx context.Context) error { return nil }
