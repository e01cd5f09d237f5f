package feed

import (
	"context"

	"github.com/ideahouse/server/internal/logger"
	"github.com/ideahouse/server/internal/models"
	"github.com/ideahouse/server/internal/store"
)

// DeletedAuthorName stands in when an idea's author no longer resolves.
// Catalog pages keep rendering instead of failing the whole request.
const DeletedAuthorName = "[deleted]"

// IdeaView is one idea denormalized for rendering.
type IdeaView struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	AuthorID      string   `json:"author_id"`
	AuthorName    string   `json:"author_name"`
	Label         string   `json:"label"`
	Categories    []string `json:"categories"`
	Content       string   `json:"content"`
	ThumbnailURL  string   `json:"thumbnail_url,omitempty"`
	ThumbnailDesc string   `json:"thumbnail_desc,omitempty"`
	LikeCount     int      `json:"like_count"`
	ViewCount     int      `json:"view_count"`
	Created       string   `json:"created"`
	Modified      string   `json:"modified"`
}

// ProfileView is a public profile page: the author, their follower count,
// whether the viewer follows them, their posts and their liked posts.
type ProfileView struct {
	Author        *models.User `json:"author"`
	FollowerCount int64        `json:"follower_count"`
	HasFollow     bool         `json:"has_follow"`
	Posts         []IdeaView   `json:"posts"`
	LikedPosts    []IdeaView   `json:"liked_posts"`
}

// Composer joins ideas, users, likes and follows into view data.
type Composer struct {
	users store.UserStore
	ideas store.IdeaStore
	likes store.LikeStore
}

// NewComposer creates a feed composer over the three stores
func NewComposer(users store.UserStore, ideas store.IdeaStore, likes store.LikeStore) *Composer {
	return &Composer{users: users, ideas: ideas, likes: likes}
}

// ComposeIdea flattens a single idea with its author's display name.
func ComposeIdea(idea *models.Idea) IdeaView {
	authorName := idea.Author.Name
	if authorName == "" {
		authorName = DeletedAuthorName
	}

	return IdeaView{
		ID:            idea.ID,
		Title:         idea.Title,
		AuthorID:      idea.AuthorID,
		AuthorName:    authorName,
		Label:         idea.Label,
		Categories:    idea.CategoryNames(),
		Content:       idea.Content,
		ThumbnailURL:  idea.ThumbnailURL,
		ThumbnailDesc: idea.ThumbnailDesc,
		LikeCount:     idea.LikeCount,
		ViewCount:     idea.ViewCount,
		Created:       idea.CreatedAt.Format("02/01/2006, 15:04:05"),
		Modified:      idea.UpdatedAt.Format("02/01/2006, 15:04:05"),
	}
}

// ComposeIdeas flattens a list of ideas for rendering.
func ComposeIdeas(ideas []*models.Idea) []IdeaView {
	views := make([]IdeaView, 0, len(ideas))
	for _, idea := range ideas {
		views = append(views, ComposeIdea(idea))
	}
	return views
}

// ComposeProfile assembles a public profile. viewerID may be empty for
// anonymous viewers; HasFollow is false in that case.
func (f *Composer) ComposeProfile(ctx context.Context, authorID, viewerID string) (*ProfileView, error) {
	author, err := f.users.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	followerCount, err := f.users.FollowerCount(ctx, authorID)
	if err != nil {
		return nil, err
	}

	hasFollow := false
	if viewerID != "" {
		hasFollow, err = f.users.IsFollowing(ctx, viewerID, authorID)
		if err != nil {
			return nil, err
		}
	}

	posts, err := f.ideas.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}
	for _, p := range posts {
		// ListByAuthor doesn't preload authors; they are all this author
		p.Author = *author
	}

	likes, err := f.likes.ListByUser(ctx, authorID)
	if err != nil {
		return nil, err
	}

	likedPosts := make([]IdeaView, 0, len(likes))
	for _, like := range likes {
		if like.Idea.ID == "" {
			// Liked idea has been deleted; skip rather than fail the page
			logger.Log.Debug("skipping like on missing idea")
			continue
		}
		likedPosts = append(likedPosts, ComposeIdea(&like.Idea))
	}

	return &ProfileView{
		Author:        author,
		FollowerCount: followerCount,
		HasFollow:     hasFollow,
		Posts:         ComposeIdeas(posts),
		LikedPosts:    likedPosts,
	}, nil
}

// ComposeLanding builds the popular and recent strips for the landing
// pages.
func (f *Composer) ComposeLanding(ctx context.Context, limit int) (popular, recent []IdeaView, err error) {
	popularIdeas, err := f.ideas.ListPopular(ctx, limit)
	if err != nil {
		return nil, nil, err
	}

	recentIdeas, err := f.ideas.ListRecent(ctx, limit)
	if err != nil {
		return nil, nil, err
	}

	return ComposeIdeas(popularIdeas), ComposeIdeas(recentIdeas), nil
}
