package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mulearn-geci/community-api/internal/domain/post"
	"github.com/mulearn-geci/community-api/internal/query"
)

var postSearchFields = []string{"title", "description", "array_to_string(tags, ' ')"}

// PostRepository is the GORM-backed post store
type PostRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new PostgreSQL post repository
func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(ctx context.Context, p *post.Post) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id uuid.UUID) (*post.Post, error) {
	var p post.Post
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, post.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return &p, nil
}

func (r *PostRepository) List(ctx context.Context, opts query.Options) ([]*post.Post, int64, error) {
	base := applyFilters(r.db.WithContext(ctx).Model(&post.Post{}), opts, postSearchFields, "created_at")

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	var posts []*post.Post
	err := paginate(base.Session(&gorm.Session{}), opts).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, total, nil
}

func (r *PostRepository) Update(ctx context.Context, p *post.Post) error {
	result := r.db.WithContext(ctx).Model(&post.Post{}).Where("id = ?", p.ID).
		Select("*").Omit("id", "created_at").Updates(p)
	if result.Error != nil {
		return fmt.Errorf("failed to update post: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return post.ErrNotFound
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&post.Post{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete post: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return post.ErrNotFound
	}
	return nil
}

func (r *PostRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&post.Post{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to increment views: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return post.ErrNotFound
	}
	return nil
}

func (r *PostRepository) IncrementLikes(ctx context.Context, id uuid.UUID) (int, error) {
	var likes int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&post.Post{}).Where("id = ?", id).
			UpdateColumn("likes", gorm.Expr("likes + 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return post.ErrNotFound
		}
		return tx.Model(&post.Post{}).Where("id = ?", id).
			Select("likes").Scan(&likes).Error
	})
	if err != nil {
		if errors.Is(err, post.ErrNotFound) {
			return 0, post.ErrNotFound
		}
		return 0, fmt.Errorf("failed to increment likes: %w", err)
	}
	return likes, nil
}
