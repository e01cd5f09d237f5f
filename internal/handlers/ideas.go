package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	apperrors "github.com/ideahouse/server/internal/errors"
	"github.com/ideahouse/server/internal/feed"
	"github.com/ideahouse/server/internal/logger"
	"github.com/ideahouse/server/internal/models"
	"github.com/ideahouse/server/internal/session"
	"github.com/ideahouse/server/internal/store"
	"github.com/ideahouse/server/internal/view"
	"go.uber.org/zap"
)

// UserLanding renders the signed-in home page. Same strips as the
// anonymous landing plus the current user.
func (h *Handlers) UserLanding(c *gin.Context) {
	user, _ := session.CurrentUser(c)

	popular, recent, err := h.composer.ComposeLanding(c.Request.Context(), landingStripSize)
	if err != nil {
		h.renderServerError(c, err, "failed to load landing page")
		return
	}

	h.render.HTML(c, http.StatusOK, "users", view.Data{
		"title":        "Idea House",
		"user":         user,
		"popularIdeas": popular,
		"recentIdeas":  recent,
	})
}

// ShowUpload renders the idea upload form
func (h *Handlers) ShowUpload(c *gin.Context) {
	user, _ := session.CurrentUser(c)
	h.render.HTML(c, http.StatusOK, "upload_idea", view.Data{
		"title": "Upload Idea",
		"user":  user,
	})
}

// Upload publishes a new idea from the multipart form. The thumbnail is
// optional and goes to object storage when one is attached.
func (h *Handlers) Upload(c *gin.Context) {
	userID, _ := session.CurrentUserID(c)
	user, _ := session.CurrentUser(c)

	title := strings.TrimSpace(c.PostForm("title"))
	content := c.PostForm("content")
	categories := c.PostFormArray("category")

	if title == "" || content == "" {
		apiErr := apperrors.BadRequest("Title and content are required")
		h.renderFormError(c, "upload_idea", apiErr, view.Data{
			"title": "Upload Idea",
			"user":  user,
		})
		return
	}

	idea := &models.Idea{
		Title:         title,
		AuthorID:      userID,
		Content:       content,
		ThumbnailDesc: c.PostForm("thumbnail_desc"),
	}

	if h.thumbs != nil {
		file, header, err := c.Request.FormFile("thumbnail")
		if err == nil {
			defer file.Close()

			result, upErr := h.thumbs.UploadThumbnail(c.Request.Context(), file, header, userID)
			if upErr != nil {
				// Publish the idea anyway; the thumbnail can be re-added
				logger.Log.Warn("thumbnail upload failed", zap.Error(upErr))
			} else {
				idea.ThumbnailURL = result.URL
			}
		}
	}

	if err := h.ideas.Create(c.Request.Context(), idea, categories); err != nil {
		h.renderServerError(c, err, "failed to create idea")
		return
	}

	logger.Log.Info("idea published",
		logger.WithIdeaID(idea.ID),
		logger.WithUserID(userID),
	)
	c.Redirect(http.StatusFound, fmt.Sprintf("/users/post/%s", idea.ID))
}

// PostDetail renders one idea and counts the view
func (h *Handlers) PostDetail(c *gin.Context) {
	userID, _ := session.CurrentUserID(c)
	ideaID := c.Param("id")

	idea, err := h.ideas.GetByID(c.Request.Context(), ideaID)
	if err == store.ErrIdeaNotFound {
		h.renderNotFound(c)
		return
	}
	if err != nil {
		h.renderServerError(c, err, "failed to load idea")
		return
	}

	if err := h.ideas.IncrementViews(c.Request.Context(), ideaID); err != nil {
		logger.Log.Warn("failed to count view", zap.Error(err))
	} else {
		idea.ViewCount++
	}

	hasLike, err := h.likes.Exists(c.Request.Context(), userID, ideaID)
	if err != nil {
		h.renderServerError(c, err, "failed to check like")
		return
	}

	hasFollow, err := h.users.IsFollowing(c.Request.Context(), userID, idea.AuthorID)
	if err != nil {
		h.renderServerError(c, err, "failed to check follow")
		return
	}

	user, _ := session.CurrentUser(c)
	ideaView := feed.ComposeIdea(idea)

	h.render.HTML(c, http.StatusOK, "post", view.Data{
		"title":     fmt.Sprintf("%s - Idea House", idea.Title),
		"user":      user,
		"idea":      ideaView,
		"hasLike":   hasLike,
		"hasFollow": hasFollow,
	})
}

// LikePost records a like and returns to the post page. Liking twice
// leaves a single like.
func (h *Handlers) LikePost(c *gin.Context) {
	userID, _ := session.CurrentUserID(c)
	ideaID := c.Param("id")

	err := h.likes.Add(c.Request.Context(), userID, ideaID)
	if err == store.ErrIdeaNotFound {
		h.renderNotFound(c)
		return
	}
	if err != nil {
		h.renderServerError(c, err, "failed to like idea")
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/users/post/%s", ideaID))
}

// Profile renders the signed-in user's own profile
func (h *Handlers) Profile(c *gin.Context) {
	userID, _ := session.CurrentUserID(c)
	user, _ := session.CurrentUser(c)

	posts, err := h.ideas.ListByAuthor(c.Request.Context(), userID)
	if err != nil {
		h.renderServerError(c, err, "failed to load profile posts")
		return
	}
	if user != nil {
		for _, p := range posts {
			p.Author = *user
		}
	}

	followerCount, err := h.users.FollowerCount(c.Request.Context(), userID)
	if err != nil {
		h.renderServerError(c, err, "failed to count followers")
		return
	}

	h.render.HTML(c, http.StatusOK, "profile", view.Data{
		"title":         "Profile",
		"user":          user,
		"posts":         feed.ComposeIdeas(posts),
		"followerCount": followerCount,
	})
}

// Timeline renders the timeline page with the users being followed
func (h *Handlers) Timeline(c *gin.Context) {
	userID, _ := session.CurrentUserID(c)
	user, _ := session.CurrentUser(c)

	following, err := h.users.ListFollowing(c.Request.Context(), userID)
	if err != nil {
		h.renderServerError(c, err, "failed to load followed users")
		return
	}

	h.render.HTML(c, http.StatusOK, "timeline", view.Data{
		"title":     "Timeline",
		"user":      user,
		"following": following,
	})
}

// Notification renders the notification placeholder page
func (h *Handlers) Notification(c *gin.Context) {
	user, _ := session.CurrentUser(c)
	h.render.HTML(c, http.StatusOK, "notification", view.Data{
		"title": "Notification",
		"user":  user,
	})
}
