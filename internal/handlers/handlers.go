package handlers

import (
	"github.com/ideahouse/server/internal/feed"
	"github.com/ideahouse/server/internal/session"
	"github.com/ideahouse/server/internal/storage"
	"github.com/ideahouse/server/internal/store"
	"github.com/ideahouse/server/internal/view"
)

// Handlers contains all HTTP handlers for the site
type Handlers struct {
	users    store.UserStore
	ideas    store.IdeaStore
	likes    store.LikeStore
	sessions *session.Manager
	composer *feed.Composer
	render   view.Renderer

	thumbs storage.ThumbnailUploader
}

// NewHandlers creates a new handlers instance
func NewHandlers(users store.UserStore, ideas store.IdeaStore, likes store.LikeStore, sessions *session.Manager, render view.Renderer) *Handlers {
	return &Handlers{
		users:    users,
		ideas:    ideas,
		likes:    likes,
		sessions: sessions,
		composer: feed.NewComposer(users, ideas, likes),
		render:   render,
	}
}

// SetThumbnailUploader sets the object storage used for idea thumbnails.
// Without one, uploads simply skip the thumbnail.
func (h *Handlers) SetThumbnailUploader(thumbs storage.ThumbnailUploader) {
	h.thumbs = thumbs
}
