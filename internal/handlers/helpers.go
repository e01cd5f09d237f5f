package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ideahouse/server/internal/catalog"
	apperrors "github.com/ideahouse/server/internal/errors"
	"github.com/ideahouse/server/internal/logger"
	"github.com/ideahouse/server/internal/view"
	"go.uber.org/zap"
)

// landingStripSize is how many ideas each landing page strip shows
const landingStripSize = 4

// pageParam reads ?page= and clamps it to a valid page number. Missing or
// garbage values land on the first page.
func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil {
		page = 1
	}
	return catalog.ClampPage(page)
}

// renderNotFound renders the shared 404 page
func (h *Handlers) renderNotFound(c *gin.Context) {
	apiErr := apperrors.NotFound("page")
	h.render.HTML(c, apiErr.Status, "not_found", view.Data{
		"title": "404 - Page not found",
	})
}

// renderFormError re-renders a form view with a recoverable error message
func (h *Handlers) renderFormError(c *gin.Context, name string, apiErr *apperrors.APIError, data view.Data) {
	data["errorMessage"] = apiErr.Message
	h.render.HTML(c, apiErr.Code.StatusCode(), name, data)
}

// renderServerError logs the failure and renders the generic error page.
// Storage errors never leak details to the visitor.
func (h *Handlers) renderServerError(c *gin.Context, err error, msg string) {
	logger.Log.Error(msg,
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
	)
	apiErr := apperrors.InternalError("Something went wrong. Please try again.")
	h.render.HTML(c, apiErr.Status, "error", view.Data{
		"title":        "Something went wrong",
		"errorMessage": apiErr.Message,
	})
}
