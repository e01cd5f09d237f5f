package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ideahouse/server/internal/catalog"
	"github.com/ideahouse/server/internal/feed"
	"github.com/ideahouse/server/internal/session"
	"github.com/ideahouse/server/internal/store"
	"github.com/ideahouse/server/internal/view"
)

// Landing renders the anonymous home page with the popular and recent
// idea strips.
func (h *Handlers) Landing(c *gin.Context) {
	popular, recent, err := h.composer.ComposeLanding(c.Request.Context(), landingStripSize)
	if err != nil {
		h.renderServerError(c, err, "failed to load landing page")
		return
	}

	h.render.HTML(c, http.StatusOK, "index", view.Data{
		"title":        "Idea House",
		"popularIdeas": popular,
		"recentIdeas":  recent,
	})
}

// WhatWeDo renders the static about page
func (h *Handlers) WhatWeDo(c *gin.Context) {
	h.render.HTML(c, http.StatusOK, "what_we_do", view.Data{
		"title": "What We Do - Idea House",
	})
}

// IdeaCatalog renders one page of the idea catalog. The category query
// parameter carries a short code that expands to the stored display name;
// "all" lists the whole catalog.
func (h *Handlers) IdeaCatalog(c *gin.Context) {
	code := c.DefaultQuery("category", catalog.AllCategories)
	category := catalog.ExpandCategory(code)
	page := pageParam(c)

	ideas, numPage, err := h.ideas.ListByCategory(c.Request.Context(), category, page)
	if err != nil {
		h.renderServerError(c, err, "failed to load idea catalog")
		return
	}

	title := "Popular Idea - Idea Catalog"
	if category != catalog.AllCategories {
		title = fmt.Sprintf("%s - Idea Catalog", category)
	}

	h.render.HTML(c, http.StatusOK, "idea_catalog", view.Data{
		"title":        title,
		"currCategory": code,
		"page":         page,
		"numPage":      numPage,
		"ideasData":    feed.ComposeIdeas(ideas),
	})
}

// PublicProfile renders another user's public profile page. The viewer may
// be anonymous; follow state only shows for signed-in viewers.
func (h *Handlers) PublicProfile(c *gin.Context) {
	viewerID, _ := session.CurrentUserID(c)

	profile, err := h.composer.ComposeProfile(c.Request.Context(), c.Param("authorId"), viewerID)
	if err == store.ErrUserNotFound {
		h.renderNotFound(c)
		return
	}
	if err != nil {
		h.renderServerError(c, err, "failed to load public profile")
		return
	}

	h.render.HTML(c, http.StatusOK, "public_profile", view.Data{
		"title":         fmt.Sprintf("%s - Profile", profile.Author.Name),
		"author":        profile.Author,
		"followerCount": profile.FollowerCount,
		"hasFollow":     profile.HasFollow,
		"posts":         profile.Posts,
		"likedPosts":    profile.LikedPosts,
	})
}

// NotFound is the catch-all route
func (h *Handlers) NotFound(c *gin.Context) {
	h.renderNotFound(c)
}
