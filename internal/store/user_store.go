package store

import (
	"context"
	"errors"
	"strings"

	"github.com/ideahouse/server/internal/models"
	"gorm.io/gorm"
)

// UserStore handles all database operations for users and the follow graph.
type UserStore interface {
	// User CRUD
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, userID string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// Follow relationship
	Follow(ctx context.Context, followerID, followingID string) error
	Unfollow(ctx context.Context, followerID, followingID string) error
	IsFollowing(ctx context.Context, followerID, followingID string) (bool, error)
	FollowerCount(ctx context.Context, userID string) (int64, error)
	ListFollowing(ctx context.Context, followerID string) ([]*models.User, error)
}

type userStore struct {
	db *gorm.DB
}

// NewUserStore creates a new user store
func NewUserStore(db *gorm.DB) UserStore {
	return &userStore{db: db}
}

// Create inserts a new user. Emails are stored lowercased so the unique
// index agrees with the case-insensitive lookup, and case-variant
// duplicates surface as ErrDuplicateEmail.
func (s *userStore) Create(ctx context.Context, user *models.User) error {
	if user == nil {
		return ErrInvalidInput
	}

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	err := s.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEmail
	}
	return err
}

// GetByID gets a user by ID
func (s *userStore) GetByID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	return &user, err
}

// GetByEmail gets a user by email (case-insensitive)
func (s *userStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?)", email).
		First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	return &user, err
}

// Follow creates a follow edge. The target must exist and self-follows are
// rejected. Following someone already followed is a no-op.
func (s *userStore) Follow(ctx context.Context, followerID, followingID string) error {
	if followerID == followingID {
		return ErrSelfFollow
	}

	if _, err := s.GetByID(ctx, followingID); err != nil {
		return err
	}

	existing, err := s.IsFollowing(ctx, followerID, followingID)
	if err != nil {
		return err
	}
	if existing {
		return nil
	}

	follow := models.Follow{
		FollowerID:  followerID,
		FollowingID: followingID,
	}

	err = s.db.WithContext(ctx).Create(&follow).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Raced with another request creating the same edge
		return nil
	}
	return err
}

// Unfollow removes a follow edge. Removing an absent edge is a no-op, so
// follow then unfollow always returns the graph to its prior state.
func (s *userStore) Unfollow(ctx context.Context, followerID, followingID string) error {
	return s.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follow{}).Error
}

// IsFollowing checks if follower follows following
func (s *userStore) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	var count int64

	err := s.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error

	return count > 0, err
}

// FollowerCount counts users following the given user
func (s *userStore) FollowerCount(ctx context.Context, userID string) (int64, error) {
	var count int64

	err := s.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("following_id = ?", userID).
		Count(&count).Error

	return count, err
}

// ListFollowing returns the users the given user follows
func (s *userStore) ListFollowing(ctx context.Context, followerID string) ([]*models.User, error) {
	var users []*models.User

	err := s.db.WithContext(ctx).
		Joins("JOIN follows ON follows.following_id = users.id").
		Where("follows.follower_id = ?", followerID).
		Order("follows.created_at DESC").
		Find(&users).Error

	return users, err
}
