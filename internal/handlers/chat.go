package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ideahouse/server/internal/session"
	"github.com/ideahouse/server/internal/store"
	"github.com/ideahouse/server/internal/view"
)

// Chat pages render only; the real-time transport is an external
// collaborator wired in separately.

// ChatIndex renders the chat contact list
func (h *Handlers) ChatIndex(c *gin.Context) {
	user, _ := session.CurrentUser(c)
	h.render.HTML(c, http.StatusOK, "chat", view.Data{
		"title": "Chat",
		"user":  user,
	})
}

// ChatRoom renders a one-on-one chat room with another user
func (h *Handlers) ChatRoom(c *gin.Context) {
	user, _ := session.CurrentUser(c)
	roomID := c.Param("room")

	target, err := h.users.GetByID(c.Request.Context(), roomID)
	if err == store.ErrUserNotFound {
		h.renderNotFound(c)
		return
	}
	if err != nil {
		h.renderServerError(c, err, "failed to load chat room")
		return
	}

	h.render.HTML(c, http.StatusOK, "room_chat", view.Data{
		"title":  "Room Chat",
		"user":   user,
		"roomId": roomID,
		"target": target,
	})
}

// ChatPost accepts a chat message post and bounces back to the room
func (h *Handlers) ChatPost(c *gin.Context) {
	c.Redirect(http.StatusFound, fmt.Sprintf("/users/chat/%s", c.Param("room")))
}
