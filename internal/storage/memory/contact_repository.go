package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/mulearn-geci/community-api/internal/domain/contact"
	"github.com/mulearn-geci/community-api/internal/query"
)

// ContactRepository is a mutex-guarded in-memory contact store
type ContactRepository struct {
	mu       sync.RWMutex
	contacts map[uuid.UUID]*contact.Contact
}

// NewContactRepository creates an empty in-memory contact repository
func NewContactRepository() *ContactRepository {
	return &ContactRepository{contacts: make(map[uuid.UUID]*contact.Contact)}
}

func (r *ContactRepository) Create(_ context.Context, c *contact.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	clone := *c
	r.contacts[c.ID] = &clone
	return nil
}

func (r *ContactRepository) GetByID(_ context.Context, id uuid.UUID) (*contact.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.contacts[id]
	if !ok {
		return nil, contact.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *ContactRepository) List(_ context.Context, opts query.Options) ([]*contact.Contact, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*contact.Contact
	for _, c := range r.contacts {
		if !r.matches(c, opts) {
			continue
		}
		clone := *c
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	return page(matched, opts), total, nil
}

func (r *ContactRepository) matches(c *contact.Contact, opts query.Options) bool {
	if opts.Status != "" && string(c.Status) != opts.Status {
		return false
	}
	if opts.Priority != "" && string(c.Priority) != opts.Priority {
		return false
	}
	if opts.Search != "" && !matchesSearch(opts.Search, c.Name, c.Email, c.Subject, c.Message) {
		return false
	}
	return inDateRange(c.CreatedAt, opts)
}

func (r *ContactRepository) Update(_ context.Context, c *contact.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.contacts[c.ID]
	if !ok {
		return contact.ErrNotFound
	}
	clone := *c
	clone.CreatedAt = existing.CreatedAt
	r.contacts[c.ID] = &clone
	return nil
}

func (r *ContactRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.contacts[id]; !ok {
		return contact.ErrNotFound
	}
	delete(r.contacts, id)
	return nil
}

func (r *ContactRepository) StatusCounts(_ context.Context) (map[string]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[string]int64)
	for _, c := range r.contacts {
		counts[string(c.Status)]++
	}
	return counts, nil
}
