package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/mulearn-geci/community-api/internal/domain/post"
	"github.com/mulearn-geci/community-api/internal/query"
)

// PostRepository is a mutex-guarded in-memory post store
type PostRepository struct {
	mu    sync.RWMutex
	posts map[uuid.UUID]*post.Post
}

// NewPostRepository creates an empty in-memory post repository
func NewPostRepository() *PostRepository {
	return &PostRepository{posts: make(map[uuid.UUID]*post.Post)}
}

func (r *PostRepository) Create(_ context.Context, p *post.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	clone := *p
	r.posts[p.ID] = &clone
	return nil
}

func (r *PostRepository) GetByID(_ context.Context, id uuid.UUID) (*post.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, post.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *PostRepository) List(_ context.Context, opts query.Options) ([]*post.Post, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*post.Post
	for _, p := range r.posts {
		if !r.matches(p, opts) {
			continue
		}
		clone := *p
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	return page(matched, opts), total, nil
}

func (r *PostRepository) matches(p *post.Post, opts query.Options) bool {
	if opts.Status != "" && string(p.Status) != opts.Status {
		return false
	}
	if opts.Category != "" && p.Category != opts.Category {
		return false
	}
	if opts.Author != "" && p.AuthorID.String() != opts.Author {
		return false
	}
	if opts.Featured != nil && p.Featured != *opts.Featured {
		return false
	}
	if opts.Search != "" && !matchesSearch(opts.Search, append([]string{p.Title, p.Description}, p.Tags...)...) {
		return false
	}
	return inDateRange(p.CreatedAt, opts)
}

func (r *PostRepository) Update(_ context.Context, p *post.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.posts[p.ID]
	if !ok {
		return post.ErrNotFound
	}
	clone := *p
	clone.CreatedAt = existing.CreatedAt
	r.posts[p.ID] = &clone
	return nil
}

func (r *PostRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return post.ErrNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *PostRepository) IncrementViews(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return post.ErrNotFound
	}
	p.Views++
	return nil
}

func (r *PostRepository) IncrementLikes(_ context.Context, id uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return 0, post.ErrNotFound
	}
	p.Likes++
	return p.Likes, nil
}
