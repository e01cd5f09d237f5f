package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	apperrors "github.com/ideahouse/server/internal/errors"
	"github.com/ideahouse/server/internal/logger"
	"github.com/ideahouse/server/internal/models"
	"github.com/ideahouse/server/internal/session"
	"github.com/ideahouse/server/internal/store"
	"github.com/ideahouse/server/internal/view"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ShowRegister renders the registration form
func (h *Handlers) ShowRegister(c *gin.Context) {
	h.render.HTML(c, http.StatusOK, "register", view.Data{"title": "Register"})
}

// Register creates a new account from the registration form. Recoverable
// failures re-render the form with an error message; success starts a
// session and redirects to the terms page.
func (h *Handlers) Register(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")
	confirm := c.PostForm("password_confirm")

	if password != confirm {
		apiErr := apperrors.ValidationMismatch("password_confirm", "Password confirmation doesn't match")
		h.renderFormError(c, "register", apiErr, view.Data{"title": "Register"})
		return
	}

	if name == "" || email == "" || password == "" {
		apiErr := apperrors.BadRequest("All fields are required")
		h.renderFormError(c, "register", apiErr, view.Data{"title": "Register"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		h.renderServerError(c, err, "failed to hash password")
		return
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}

	err = h.users.Create(c.Request.Context(), user)
	if err == store.ErrDuplicateEmail {
		h.renderFormError(c, "register", apperrors.DuplicateEmail(), view.Data{"title": "Register"})
		return
	}
	if err != nil {
		h.renderServerError(c, err, "failed to create user")
		return
	}

	if err := h.startSession(c, user.ID); err != nil {
		h.renderServerError(c, err, "failed to create session")
		return
	}

	logger.Log.Info("user registered", logger.WithUserID(user.ID))
	c.Redirect(http.StatusFound, "/register/terms_and_conditions")
}

// ShowLogin renders the login form
func (h *Handlers) ShowLogin(c *gin.Context) {
	h.render.HTML(c, http.StatusOK, "login", view.Data{"title": "Login"})
}

// Login authenticates the form credentials. Any failure sends the visitor
// back to the login page without saying which part was wrong.
func (h *Handlers) Login(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")

	user, err := h.users.GetByEmail(c.Request.Context(), email)
	if err == store.ErrUserNotFound {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	if err != nil {
		h.renderServerError(c, err, "failed to look up user")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		apiErr := apperrors.Unauthorized("invalid email or password")
		logger.Log.Info("login rejected",
			zap.String("reason", apiErr.Message),
			logger.WithIP(c.ClientIP()),
		)
		c.Redirect(http.StatusFound, "/login")
		return
	}

	if err := h.startSession(c, user.ID); err != nil {
		h.renderServerError(c, err, "failed to create session")
		return
	}

	logger.Log.Info("user logged in", logger.WithUserID(user.ID))
	c.Redirect(http.StatusFound, "/users/")
}

// Logout destroys the session and sends the visitor home
func (h *Handlers) Logout(c *gin.Context) {
	if token, err := c.Cookie(session.CookieName); err == nil {
		if err := h.sessions.Destroy(c.Request.Context(), token); err != nil {
			logger.Log.Warn("failed to destroy session", zap.Error(err))
		}
	}

	c.SetCookie(session.CookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}

// ShowTerms renders the terms and conditions page shown after registering
func (h *Handlers) ShowTerms(c *gin.Context) {
	h.render.HTML(c, http.StatusOK, "terms_and_conditions", view.Data{
		"title": "Terms and Conditions",
	})
}

// startSession opens a session for the user and sets the cookie
func (h *Handlers) startSession(c *gin.Context, userID string) error {
	token, err := h.sessions.Create(c.Request.Context(), userID)
	if err != nil {
		return err
	}

	c.SetCookie(session.CookieName, token, int(session.TTL.Seconds()), "/", "", false, true)
	return nil
}
