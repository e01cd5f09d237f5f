package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ideahouse/server/internal/feed"
	"github.com/ideahouse/server/internal/models"
	"github.com/ideahouse/server/internal/session"
	"github.com/ideahouse/server/internal/store"
	"github.com/ideahouse/server/internal/view"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// renderCall records one call into the template layer
type renderCall struct {
	status int
	name   string
	data   view.Data
}

// fakeRenderer stands in for the template engine and records what the
// handlers asked it to render.
type fakeRenderer struct {
	calls []renderCall
}

func (f *fakeRenderer) HTML(c *gin.Context, status int, name string, data view.Data) {
	f.calls = append(f.calls, renderCall{status: status, name: name, data: data})
	c.String(status, name)
}

func (f *fakeRenderer) last() renderCall {
	if len(f.calls) == 0 {
		return renderCall{}
	}
	return f.calls[len(f.calls)-1]
}

// mapTokenStore is an in-memory session token store
type mapTokenStore struct {
	values map[string]string
}

func (m *mapTokenStore) Get(ctx context.Context, key string) (string, error) {
	v, ok := m.values[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (m *mapTokenStore) SetEx(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.values[key] = value.(string)
	return nil
}

func (m *mapTokenStore) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

func (m *mapTokenStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return nil
}

// HandlersTestSuite drives the full router against sqlite-backed stores
type HandlersTestSuite struct {
	suite.Suite
	db       *gorm.DB
	router   *gin.Engine
	handlers *Handlers
	renderer *fakeRenderer
	tokens   *mapTokenStore
	users    store.UserStore
	ideas    store.IdeaStore
	likes    store.LikeStore
}

func (suite *HandlersTestSuite) SetupSuite() {
	db, err := gorm.Open(sqlite.Open("file:handlerstest?mode=memory&cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(suite.T(), err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Idea{},
		&models.IdeaCategory{},
		&models.Like{},
		&models.Follow{},
	)
	require.NoError(suite.T(), err)

	suite.db = db
	suite.users = store.NewUserStore(db)
	suite.ideas = store.NewIdeaStore(db)
	suite.likes = store.NewLikeStore(db)

	gin.SetMode(gin.TestMode)
}

// SetupTest rebuilds the router so every test starts with fresh sessions
// and an empty render log.
func (suite *HandlersTestSuite) SetupTest() {
	suite.db.Exec("DELETE FROM likes")
	suite.db.Exec("DELETE FROM follows")
	suite.db.Exec("DELETE FROM idea_categories")
	suite.db.Exec("DELETE FROM ideas")
	suite.db.Exec("DELETE FROM users")

	suite.renderer = &fakeRenderer{}
	suite.tokens = &mapTokenStore{values: make(map[string]string)}

	sessions := session.NewManager(suite.tokens)
	gate := session.NewGate(sessions, suite.users, "/login", "/users/")
	suite.handlers = NewHandlers(suite.users, suite.ideas, suite.likes, sessions, suite.renderer)

	suite.router = gin.New()
	suite.router.Use(gate.Identify())
	suite.handlers.RegisterRoutes(suite.router, gate)
}

// postForm submits an urlencoded form, optionally with a session cookie
func (suite *HandlersTestSuite) postForm(path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlersTestSuite) get(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	suite.router.ServeHTTP(w, req)
	return w
}

// register creates an account through the HTTP surface and returns the
// session cookie.
func (suite *HandlersTestSuite) register(name, email, password string) *http.Cookie {
	w := suite.postForm("/register", url.Values{
		"name":             {name},
		"email":            {email},
		"password":         {password},
		"password_confirm": {password},
	}, nil)

	require.Equal(suite.T(), http.StatusFound, w.Code)
	require.Equal(suite.T(), "/register/terms_and_conditions", w.Header().Get("Location"))

	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	suite.T().Fatal("no session cookie set")
	return nil
}

func (suite *HandlersTestSuite) TestRegisterPasswordMismatch() {
	w := suite.postForm("/register", url.Values{
		"name":             {"alice"},
		"email":            {"alice@example.com"},
		"password":         {"secret123"},
		"password_confirm": {"secret124"},
	}, nil)

	assert.Equal(suite.T(), http.StatusUnprocessableEntity, w.Code)
	last := suite.renderer.last()
	assert.Equal(suite.T(), "register", last.name)
	assert.Equal(suite.T(), "Password confirmation doesn't match", last.data["errorMessage"])
}

func (suite *HandlersTestSuite) TestRegisterDuplicateEmail() {
	suite.register("alice", "alice@example.com", "secret123")

	w := suite.postForm("/register", url.Values{
		"name":             {"alice again"},
		"email":            {"alice@example.com"},
		"password":         {"secret123"},
		"password_confirm": {"secret123"},
	}, nil)

	assert.Equal(suite.T(), http.StatusConflict, w.Code)
	last := suite.renderer.last()
	assert.Equal(suite.T(), "register", last.name)
	assert.Equal(suite.T(), "Email is already used", last.data["errorMessage"])
}

func (suite *HandlersTestSuite) TestLoginSuccessAndFailure() {
	suite.register("alice", "alice@example.com", "secret123")

	// Wrong password bounces back to the login page
	w := suite.postForm("/login", url.Values{
		"email":    {"alice@example.com"},
		"password": {"wrong"},
	}, nil)
	assert.Equal(suite.T(), http.StatusFound, w.Code)
	assert.Equal(suite.T(), "/login", w.Header().Get("Location"))

	// Unknown email behaves the same
	w = suite.postForm("/login", url.Values{
		"email":    {"nobody@example.com"},
		"password": {"secret123"},
	}, nil)
	assert.Equal(suite.T(), http.StatusFound, w.Code)
	assert.Equal(suite.T(), "/login", w.Header().Get("Location"))

	// Correct credentials land on the signed-in home page
	w = suite.postForm("/login", url.Values{
		"email":    {"alice@example.com"},
		"password": {"secret123"},
	}, nil)
	assert.Equal(suite.T(), http.StatusFound, w.Code)
	assert.Equal(suite.T(), "/users/", w.Header().Get("Location"))
}

func (suite *HandlersTestSuite) TestLogoutInvalidatesSession() {
	cookie := suite.register("alice", "alice@example.com", "secret123")

	w := suite.get("/users/", cookie)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodDelete, "/logout", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	suite.router.ServeHTTP(rec, req)
	assert.Equal(suite.T(), http.StatusFound, rec.Code)
	assert.Equal(suite.T(), "/", rec.Header().Get("Location"))

	// The old cookie no longer opens the signed-in pages
	w = suite.get("/users/", cookie)
	assert.Equal(suite.T(), http.StatusFound, w.Code)
	assert.Equal(suite.T(), "/login", w.Header().Get("Location"))
}

func (suite *HandlersTestSuite) TestAuthGating() {
	// Anonymous visitor on a protected page
	w := suite.get("/users/upload", nil)
	assert.Equal(suite.T(), http.StatusFound, w.Code)
	assert.Equal(suite.T(), "/login", w.Header().Get("Location"))

	// Signed-in visitor on an anonymous-only page
	cookie := suite.register("alice", "alice@example.com", "secret123")
	w = suite.get("/login", cookie)
	assert.Equal(suite.T(), http.StatusFound, w.Code)
	assert.Equal(suite.T(), "/users/", w.Header().Get("Location"))
}

func (suite *HandlersTestSuite) TestUploadAndCatalogScenario() {
	cookie := suite.register("alice", "alice@example.com", "secret123")

	w := suite.postForm("/users/upload", url.Values{
		"title":    {"Widget"},
		"content":  {"A modest proposal for widgets."},
		"category": {"Home & Kitchen"},
	}, cookie)

	require.Equal(suite.T(), http.StatusFound, w.Code)
	location := w.Header().Get("Location")
	require.True(suite.T(), strings.HasPrefix(location, "/users/post/"))

	// The short category code expands to the stored display name
	w = suite.get("/idea_catalog?category=Home&page=1", nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)

	last := suite.renderer.last()
	require.Equal(suite.T(), "idea_catalog", last.name)
	assert.Equal(suite.T(), "Home", last.data["currCategory"])
	assert.Equal(suite.T(), 1, last.data["numPage"])

	ideas, ok := last.data["ideasData"].([]feed.IdeaView)
	require.True(suite.T(), ok)
	require.Len(suite.T(), ideas, 1)
	assert.Equal(suite.T(), "Widget", ideas[0].Title)
	assert.Equal(suite.T(), "alice", ideas[0].AuthorName)
	assert.Equal(suite.T(), []string{"Home & Kitchen"}, ideas[0].Categories)

	// A category nobody used comes back empty
	w = suite.get("/idea_catalog?category=Sport&page=1", nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	last = suite.renderer.last()
	assert.Equal(suite.T(), 0, last.data["numPage"])
}

func (suite *HandlersTestSuite) TestPostDetailCountsViews() {
	cookie := suite.register("alice", "alice@example.com", "secret123")

	w := suite.postForm("/users/upload", url.Values{
		"title":    {"Counted"},
		"content":  {"content"},
		"category": {"IT & Software"},
	}, cookie)
	require.Equal(suite.T(), http.StatusFound, w.Code)
	postPath := w.Header().Get("Location")

	w = suite.get(postPath, cookie)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	w = suite.get(postPath, cookie)
	require.Equal(suite.T(), http.StatusOK, w.Code)

	ideaID := strings.TrimPrefix(postPath, "/users/post/")
	idea, err := suite.ideas.GetByID(context.Background(), ideaID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2, idea.ViewCount)
}

func (suite *HandlersTestSuite) TestLikeTwiceCountsOnce() {
	cookie := suite.register("alice", "alice@example.com", "secret123")

	w := suite.postForm("/users/upload", url.Values{
		"title":    {"Likeable"},
		"content":  {"content"},
		"category": {"Sport Utilities"},
	}, cookie)
	require.Equal(suite.T(), http.StatusFound, w.Code)
	postPath := w.Header().Get("Location")
	ideaID := strings.TrimPrefix(postPath, "/users/post/")

	w = suite.postForm(postPath+"/like", nil, cookie)
	assert.Equal(suite.T(), http.StatusFound, w.Code)
	w = suite.postForm(postPath+"/like", nil, cookie)
	assert.Equal(suite.T(), http.StatusFound, w.Code)

	idea, err := suite.ideas.GetByID(context.Background(), ideaID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, idea.LikeCount)
}

func (suite *HandlersTestSuite) TestFollowFromPostPage() {
	aliceCookie := suite.register("alice", "alice@example.com", "secret123")
	bobCookie := suite.register("bob", "bob@example.com", "secret123")

	w := suite.postForm("/users/upload", url.Values{
		"title":    {"Bob's idea"},
		"content":  {"content"},
		"category": {"IT & Software"},
	}, bobCookie)
	require.Equal(suite.T(), http.StatusFound, w.Code)
	postPath := w.Header().Get("Location")
	ideaID := strings.TrimPrefix(postPath, "/users/post/")

	bob, err := suite.users.GetByEmail(context.Background(), "bob@example.com")
	require.NoError(suite.T(), err)
	alice, err := suite.users.GetByEmail(context.Background(), "alice@example.com")
	require.NoError(suite.T(), err)

	w = suite.postForm("/users/follow/"+bob.ID+"/"+ideaID, nil, aliceCookie)
	assert.Equal(suite.T(), http.StatusFound, w.Code)
	assert.Equal(suite.T(), postPath, w.Header().Get("Location"))

	following, err := suite.users.IsFollowing(context.Background(), alice.ID, bob.ID)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), following)

	w = suite.postForm("/users/unfollow/"+bob.ID+"/"+ideaID, nil, aliceCookie)
	assert.Equal(suite.T(), http.StatusFound, w.Code)

	following, err = suite.users.IsFollowing(context.Background(), alice.ID, bob.ID)
	require.NoError(suite.T(), err)
	assert.False(suite.T(), following)
}

func (suite *HandlersTestSuite) TestPublicProfile() {
	cookie := suite.register("alice", "alice@example.com", "secret123")

	w := suite.postForm("/users/upload", url.Values{
		"title":    {"Shared"},
		"content":  {"content"},
		"category": {"Home & Kitchen"},
	}, cookie)
	require.Equal(suite.T(), http.StatusFound, w.Code)

	alice, err := suite.users.GetByEmail(context.Background(), "alice@example.com")
	require.NoError(suite.T(), err)

	w = suite.get("/public/"+alice.ID, nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)

	last := suite.renderer.last()
	assert.Equal(suite.T(), "public_profile", last.name)
	assert.Equal(suite.T(), "alice - Profile", last.data["title"])
	assert.Equal(suite.T(), false, last.data["hasFollow"])
}

func (suite *HandlersTestSuite) TestUnknownRouteRenders404() {
	w := suite.get("/no/such/page", nil)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
	assert.Equal(suite.T(), "not_found", suite.renderer.last().name)
}

func (suite *HandlersTestSuite) TestCatalogUnknownIdea404() {
	cookie := suite.register("alice", "alice@example.com", "secret123")

	w := suite.get("/users/post/00000000-0000-0000-0000-000000000000", cookie)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
	assert.Equal(suite.T(), "not_found", suite.renderer.last().name)
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}
