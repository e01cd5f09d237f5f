package store

import (
	"context"
	"errors"

	"github.com/ideahouse/server/internal/catalog"
	"github.com/ideahouse/server/internal/models"
	"gorm.io/gorm"
)

// IdeaStore handles all database operations for ideas.
type IdeaStore interface {
	Create(ctx context.Context, idea *models.Idea, categories []string) error
	GetByID(ctx context.Context, ideaID string) (*models.Idea, error)
	ListByAuthor(ctx context.Context, authorID string) ([]*models.Idea, error)

	// ListByCategory returns one catalog page plus the total page count.
	// The category must already be expanded to its display name;
	// catalog.AllCategories bypasses the filter.
	ListByCategory(ctx context.Context, category string, page int) ([]*models.Idea, int, error)

	// ListRecent and ListPopular feed the landing page strips.
	ListRecent(ctx context.Context, limit int) ([]*models.Idea, error)
	ListPopular(ctx context.Context, limit int) ([]*models.Idea, error)

	IncrementViews(ctx context.Context, ideaID string) error
}

type ideaStore struct {
	db *gorm.DB
}

// NewIdeaStore creates a new idea store
func NewIdeaStore(db *gorm.DB) IdeaStore {
	return &ideaStore{db: db}
}

// Create inserts an idea together with its category rows. Counters start
// at zero and the label defaults in the model hook.
func (s *ideaStore) Create(ctx context.Context, idea *models.Idea, categories []string) error {
	if idea == nil || idea.Title == "" || idea.AuthorID == "" {
		return ErrInvalidInput
	}

	idea.LikeCount = 0
	idea.ViewCount = 0

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(idea).Error; err != nil {
			return err
		}

		for _, category := range categories {
			if category == "" {
				continue
			}
			row := models.IdeaCategory{IdeaID: idea.ID, Category: category}
			if err := tx.Create(&row).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					continue
				}
				return err
			}
			idea.Categories = append(idea.Categories, row)
		}

		return nil
	})
}

// GetByID gets an idea with its author and categories
func (s *ideaStore) GetByID(ctx context.Context, ideaID string) (*models.Idea, error) {
	var idea models.Idea
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Categories").
		Where("id = ?", ideaID).
		First(&idea).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrIdeaNotFound
	}

	return &idea, err
}

// ListByAuthor returns all ideas published by a user, oldest first.
func (s *ideaStore) ListByAuthor(ctx context.Context, authorID string) ([]*models.Idea, error) {
	var ideas []*models.Idea

	err := s.db.WithContext(ctx).
		Preload("Categories").
		Where("author_id = ?", authorID).
		Order("created_at ASC").
		Find(&ideas).Error

	return ideas, err
}

// ListByCategory pages through the catalog. Ideas are ordered by creation
// so page offsets stay stable as new ideas arrive at the end.
func (s *ideaStore) ListByCategory(ctx context.Context, category string, page int) ([]*models.Idea, int, error) {
	query := s.db.WithContext(ctx).Model(&models.Idea{})

	if category != catalog.AllCategories {
		query = query.
			Joins("JOIN idea_categories ON idea_categories.idea_id = ideas.id").
			Where("idea_categories.category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ideas []*models.Idea
	err := query.
		Preload("Author").
		Preload("Categories").
		Order("ideas.created_at ASC").
		Offset(catalog.Offset(page)).
		Limit(catalog.PageSize).
		Find(&ideas).Error

	return ideas, catalog.PageCount(total), err
}

// ListRecent returns the newest ideas first
func (s *ideaStore) ListRecent(ctx context.Context, limit int) ([]*models.Idea, error) {
	var ideas []*models.Idea

	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Categories").
		Order("created_at DESC").
		Limit(limit).
		Find(&ideas).Error

	return ideas, err
}

// ListPopular returns the most liked ideas
func (s *ideaStore) ListPopular(ctx context.Context, limit int) ([]*models.Idea, error) {
	var ideas []*models.Idea

	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Categories").
		Order("like_count DESC, created_at DESC").
		Limit(limit).
		Find(&ideas).Error

	return ideas, err
}

// IncrementViews bumps the view counter atomically at the storage layer,
// so concurrent views never lose updates.
func (s *ideaStore) IncrementViews(ctx context.Context, ideaID string) error {
	return s.db.WithContext(ctx).
		Model(&models.Idea{}).
		Where("id = ?", ideaID).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error
}
