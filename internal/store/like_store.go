package store

import (
	"context"
	"errors"

	"github.com/ideahouse/server/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeStore records which user liked which idea.
type LikeStore interface {
	// Add records a like and bumps the idea's like counter. Repeat likes
	// by the same user are idempotent.
	Add(ctx context.Context, userID, ideaID string) error
	Exists(ctx context.Context, userID, ideaID string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Like, error)
}

type likeStore struct {
	db *gorm.DB
}

// NewLikeStore creates a new like store
func NewLikeStore(db *gorm.DB) LikeStore {
	return &likeStore{db: db}
}

// Add inserts the (user, idea) join row. ON CONFLICT DO NOTHING keeps the
// operation idempotent; the counter only moves when a row was inserted.
func (s *likeStore) Add(ctx context.Context, userID, ideaID string) error {
	if userID == "" || ideaID == "" {
		return ErrInvalidInput
	}

	var idea models.Idea
	err := s.db.WithContext(ctx).Select("id").Where("id = ?", ideaID).First(&idea).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrIdeaNotFound
	}
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		like := models.Like{UserID: userID, IdeaID: ideaID}

		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "idea_id"}},
			DoNothing: true,
		}).Create(&like)
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			// Already liked
			return nil
		}

		return tx.Model(&models.Idea{}).
			Where("id = ?", ideaID).
			UpdateColumn("like_count", gorm.Expr("like_count + ?", 1)).Error
	})
}

// Exists checks whether the user already liked the idea
func (s *likeStore) Exists(ctx context.Context, userID, ideaID string) (bool, error) {
	var count int64

	err := s.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND idea_id = ?", userID, ideaID).
		Count(&count).Error

	return count > 0, err
}

// ListByUser returns a user's likes with each liked idea and its author,
// newest like first.
func (s *likeStore) ListByUser(ctx context.Context, userID string) ([]*models.Like, error) {
	var likes []*models.Like

	err := s.db.WithContext(ctx).
		Preload("Idea").
		Preload("Idea.Author").
		Preload("Idea.Categories").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&likes).Error

	return likes, err
}
