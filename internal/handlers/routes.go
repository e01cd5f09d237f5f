package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/ideahouse/server/internal/session"
)

// RegisterRoutes wires every route onto the router. The gate's Identify
// middleware must already be installed so route classes can check identity.
func (h *Handlers) RegisterRoutes(r *gin.Engine, gate *session.Gate) {
	// Public pages; register and login bounce signed-in visitors away
	r.GET("/", gate.RequireAnonymous(), h.Landing)
	r.GET("/what_we_do", h.WhatWeDo)
	r.GET("/register", gate.RequireAnonymous(), h.ShowRegister)
	r.POST("/register", h.Register)
	r.GET("/register/terms_and_conditions", h.ShowTerms)
	r.GET("/login", gate.RequireAnonymous(), h.ShowLogin)
	r.POST("/login", h.Login)
	r.DELETE("/logout", h.Logout)
	r.GET("/idea_catalog", h.IdeaCatalog)
	r.GET("/public/:authorId", h.PublicProfile)

	// Signed-in pages
	users := r.Group("/users")
	users.Use(gate.RequireAuthenticated())
	{
		users.GET("/", h.UserLanding)
		users.GET("/upload", h.ShowUpload)
		users.POST("/upload", h.Upload)
		users.GET("/profile", h.Profile)
		users.GET("/timeline", h.Timeline)
		users.GET("/notification", h.Notification)

		users.GET("/post/:id", h.PostDetail)
		users.POST("/post/:id/like", h.LikePost)
		users.POST("/follow/:authorid/:postid", h.Follow)
		users.POST("/unfollow/:authorid/:postid", h.Unfollow)

		users.GET("/chat", h.ChatIndex)
		users.GET("/chat/:room", h.ChatRoom)
		users.POST("/chat/:room", h.ChatPost)
	}

	r.NoRoute(h.NotFound)
}
