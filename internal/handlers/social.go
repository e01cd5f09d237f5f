package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ideahouse/server/internal/logger"
	"github.com/ideahouse/server/internal/session"
	"github.com/ideahouse/server/internal/store"
	"go.uber.org/zap"
)

// Follow follows an idea's author and returns to the post page
func (h *Handlers) Follow(c *gin.Context) {
	userID, _ := session.CurrentUserID(c)
	authorID := c.Param("authorid")
	postID := c.Param("postid")

	err := h.users.Follow(c.Request.Context(), userID, authorID)
	if err == store.ErrUserNotFound {
		h.renderNotFound(c)
		return
	}
	if err == store.ErrSelfFollow {
		// Nothing to do; back to the post
		c.Redirect(http.StatusFound, fmt.Sprintf("/users/post/%s", postID))
		return
	}
	if err != nil {
		h.renderServerError(c, err, "failed to follow author")
		return
	}

	logger.Log.Info("user followed author",
		logger.WithUserID(userID),
		zap.String("author_id", authorID),
	)
	c.Redirect(http.StatusFound, fmt.Sprintf("/users/post/%s", postID))
}

// Unfollow removes the follow edge and returns to the post page.
// Unfollowing someone not followed is a no-op.
func (h *Handlers) Unfollow(c *gin.Context) {
	userID, _ := session.CurrentUserID(c)
	authorID := c.Param("authorid")
	postID := c.Param("postid")

	if err := h.users.Unfollow(c.Request.Context(), userID, authorID); err != nil {
		h.renderServerError(c, err, "failed to unfollow author")
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/users/post/%s", postID))
}
