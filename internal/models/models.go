package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents an Idea House account.
type User struct {
	ID           string `gorm:"primaryKey;type:uuid" json:"id"`
	Name         string `gorm:"not null" json:"name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"type:text;not null" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Idea is a published post: title, free-text content, category tags and an
// optional thumbnail stored in object storage.
type Idea struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	Title    string `gorm:"not null" json:"title"`
	AuthorID string `gorm:"not null;index" json:"author_id"`
	Author   User   `gorm:"foreignKey:AuthorID" json:"author,omitempty"`

	Label   string `gorm:"not null;default:Idea" json:"label"`
	Content string `gorm:"type:text;not null" json:"content"`

	Categories []IdeaCategory `gorm:"foreignKey:IdeaID" json:"categories,omitempty"`

	ThumbnailURL  string `json:"thumbnail_url,omitempty"`
	ThumbnailDesc string `json:"thumbnail_desc,omitempty"`

	LikeCount int `gorm:"not null;default:0" json:"like_count"`
	ViewCount int `gorm:"not null;default:0" json:"view_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CategoryNames flattens the category rows for rendering.
func (i *Idea) CategoryNames() []string {
	names := make([]string, 0, len(i.Categories))
	for _, c := range i.Categories {
		names = append(names, c.Category)
	}
	return names
}

// IdeaCategory is one category tag on an idea.
type IdeaCategory struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	IdeaID   string `gorm:"not null;index;uniqueIndex:idx_idea_category" json:"idea_id"`
	Category string `gorm:"not null;index;uniqueIndex:idx_idea_category" json:"category"`
}

// Like records that a user liked an idea. The unique index makes repeat
// likes idempotent.
type Like struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"not null;index;uniqueIndex:idx_like_user_idea" json:"user_id"`
	IdeaID string `gorm:"not null;index;uniqueIndex:idx_like_user_idea" json:"idea_id"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`
	Idea   Idea   `gorm:"foreignKey:IdeaID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// Follow is a directed follower -> following edge.
type Follow struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	FollowerID  string `gorm:"not null;index;uniqueIndex:idx_follower_following" json:"follower_id"`
	FollowingID string `gorm:"not null;index;uniqueIndex:idx_follower_following" json:"following_id"`
	Follower    User   `gorm:"foreignKey:FollowerID" json:"-"`
	Following   User   `gorm:"foreignKey:FollowingID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate hooks for GORM
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = generateUUID()
	}
	return nil
}

func (i *Idea) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = generateUUID()
	}
	if i.Label == "" {
		i.Label = "Idea"
	}
	return nil
}

func (c *IdeaCategory) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = generateUUID()
	}
	return nil
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = generateUUID()
	}
	return nil
}

func (f *Follow) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = generateUUID()
	}
	return nil
}

// Helper function for UUID generation
func generateUUID() string {
	return uuid.New().String()
}
