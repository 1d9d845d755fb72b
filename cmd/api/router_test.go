package main

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"conduit-backend/internal/domains/article"
	articleHandler "conduit-backend/internal/domains/article/handler"
	articleService "conduit-backend/internal/domains/article/service"
	"conduit-backend/internal/domains/profile"
	profileHandler "conduit-backend/internal/domains/profile/handler"
	profileService "conduit-backend/internal/domains/profile/service"
	"conduit-backend/internal/domains/user"
	userHandler "conduit-backend/internal/domains/user/handler"
	userService "conduit-backend/internal/domains/user/service"
	"conduit-backend/internal/mocks"
	"conduit-backend/internal/shared/response"
)

type testAPI struct {
	router *gin.Engine
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := mocks.NewMockUserRepository()
	follows := mocks.NewMockFollowRepository()
	articles := mocks.NewMockArticleRepository(users)
	tokens := mocks.MockTokens{}

	userSvc := userService.NewUserService(users, tokens, bcrypt.MinCost)
	profileSvc := profileService.NewProfileService(follows, users)
	articleSvc := articleService.NewArticleService(articles, users, profileSvc, rand.New(rand.NewSource(1)), 6)

	return &testAPI{router: newRouter(routes{
		users:    userHandler.NewUserHandler(userSvc),
		profiles: profileHandler.NewProfileHandler(profileSvc),
		articles: articleHandler.NewArticleHandler(articleSvc),
		tokens:   tokens,
		health:   func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) },
	})}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) register(t *testing.T, username string) string {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/users", "", gin.H{"user": gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[struct{ User user.UserResponse }](t, w).User.Token
}

func (a *testAPI) createArticle(t *testing.T, token, title string, tags ...string) article.ArticleView {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/articles", token, gin.H{"article": gin.H{
		"title":       title,
		"description": "desc",
		"body":        "body",
		"tagList":     tags,
	}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[struct{ Article article.ArticleView }](t, w).Article
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodGet, "/api/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUsers_RegisterLoginCurrent(t *testing.T) {
	api := newTestAPI(t)
	token := api.register(t, "alice")

	w := api.do(t, http.MethodPost, "/api/users/login", "", gin.H{"user": gin.H{
		"email": "alice@example.com", "password": "password123",
	}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, token, decode[struct{ User user.UserResponse }](t, w).User.Token)
	assert.NotContains(t, w.Body.String(), "password")

	w = api.do(t, http.MethodGet, "/api/user", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", decode[struct{ User user.UserResponse }](t, w).User.Username)

	w = api.do(t, http.MethodGet, "/api/user", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUsers_ErrorBodies(t *testing.T) {
	api := newTestAPI(t)
	api.register(t, "alice")

	w := api.do(t, http.MethodPost, "/api/users", "", gin.H{"user": gin.H{
		"username": "alice2", "email": "alice@example.com", "password": "password123",
	}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, []string{"has already been taken"}, decode[response.ErrorBody](t, w).Errors["email"])

	w = api.do(t, http.MethodPost, "/api/users/login", "", gin.H{"user": gin.H{
		"email": "alice@example.com", "password": "wrong-password",
	}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, []string{"is invalid"}, decode[response.ErrorBody](t, w).Errors["email or password"])

	w = api.do(t, http.MethodPost, "/api/users", "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestProfiles_FollowFlow(t *testing.T) {
	api := newTestAPI(t)
	aliceToken := api.register(t, "alice")
	api.register(t, "bob")

	w := api.do(t, http.MethodPost, "/api/profiles/bob/follow", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[struct{ Profile profile.Profile }](t, w).Profile.Following)

	w = api.do(t, http.MethodGet, "/api/profiles/bob", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[struct{ Profile profile.Profile }](t, w).Profile.Following)

	w = api.do(t, http.MethodGet, "/api/profiles/bob", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[struct{ Profile profile.Profile }](t, w).Profile.Following)

	w = api.do(t, http.MethodDelete, "/api/profiles/bob/follow", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[struct{ Profile profile.Profile }](t, w).Profile.Following)
}

func TestProfiles_Errors(t *testing.T) {
	api := newTestAPI(t)
	aliceToken := api.register(t, "alice")

	assert.Equal(t, http.StatusBadRequest, api.do(t, http.MethodPost, "/api/profiles/alice/follow", aliceToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodPost, "/api/profiles/ghost/follow", aliceToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, "/api/profiles/ghost", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, api.do(t, http.MethodPost, "/api/profiles/alice/follow", "", nil).Code)
}

func TestArticles_FavoriteScenario(t *testing.T) {
	api := newTestAPI(t)
	aliceToken := api.register(t, "alice")
	bobToken := api.register(t, "bob")

	created := api.createArticle(t, aliceToken, "My First Post", "intro")
	assert.Regexp(t, `^my-first-post-[0-9a-z]{6}$`, created.Slug)

	w := api.do(t, http.MethodPost, "/api/articles/"+created.Slug+"/favorite", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	fav := decode[struct{ Article article.ArticleView }](t, w).Article
	assert.True(t, fav.Favorited)
	assert.Equal(t, 1, fav.FavoritesCount)

	w = api.do(t, http.MethodGet, "/api/articles", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	asBob := decode[article.ListResponse](t, w)
	require.Len(t, asBob.Articles, 1)
	assert.True(t, asBob.Articles[0].Favorited)
	assert.Equal(t, 1, asBob.ArticlesCount)

	w = api.do(t, http.MethodGet, "/api/articles", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	anonymous := decode[article.ListResponse](t, w)
	require.Len(t, anonymous.Articles, 1)
	assert.False(t, anonymous.Articles[0].Favorited)
	assert.Equal(t, 1, anonymous.Articles[0].FavoritesCount)

	w = api.do(t, http.MethodDelete, "/api/articles/"+created.Slug+"/favorite", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decode[struct{ Article article.ArticleView }](t, w).Article.FavoritesCount)
}

func TestArticles_ListQueryParams(t *testing.T) {
	api := newTestAPI(t)
	token := api.register(t, "alice")
	api.createArticle(t, token, "Espresso", "coffee")
	api.createArticle(t, token, "Cafe", "coffeehouse")
	api.createArticle(t, token, "Latte", "coffee")

	w := api.do(t, http.MethodGet, "/api/articles?tag=coffee&limit=1&offset=1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[article.ListResponse](t, w)
	assert.Equal(t, 2, resp.ArticlesCount)
	require.Len(t, resp.Articles, 1)
	assert.Equal(t, "Espresso", resp.Articles[0].Title)

	w = api.do(t, http.MethodGet, "/api/articles?author=nobody", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"articles":[],"articlesCount":0}`, w.Body.String())

	w = api.do(t, http.MethodGet, "/api/articles?limit=ten", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestArticles_Feed(t *testing.T) {
	api := newTestAPI(t)
	aliceToken := api.register(t, "alice")
	bobToken := api.register(t, "bob")

	assert.Equal(t, http.StatusUnauthorized, api.do(t, http.MethodGet, "/api/articles/feed", "", nil).Code)

	w := api.do(t, http.MethodGet, "/api/articles/feed", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"articles":[],"articlesCount":0}`, w.Body.String())

	api.createArticle(t, bobToken, "Bob Writes")
	require.Equal(t, http.StatusOK, api.do(t, http.MethodPost, "/api/profiles/bob/follow", aliceToken, nil).Code)

	w = api.do(t, http.MethodGet, "/api/articles/feed", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	feed := decode[article.ListResponse](t, w)
	require.Len(t, feed.Articles, 1)
	assert.Equal(t, "bob", feed.Articles[0].Author.Username)
	assert.True(t, feed.Articles[0].Author.Following)
}

func TestArticles_UpdateDeleteAuthorization(t *testing.T) {
	api := newTestAPI(t)
	aliceToken := api.register(t, "alice")
	bobToken := api.register(t, "bob")
	created := api.createArticle(t, aliceToken, "Mine")
	path := "/api/articles/" + created.Slug

	w := api.do(t, http.MethodPut, path, bobToken, gin.H{"article": gin.H{"title": "Stolen"}})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(t, http.MethodPut, path, aliceToken, gin.H{"article": gin.H{"body": "updated body"}})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[struct{ Article article.ArticleView }](t, w).Article
	assert.Equal(t, "Mine", updated.Title)
	assert.Equal(t, "updated body", updated.Body)

	assert.Equal(t, http.StatusForbidden, api.do(t, http.MethodDelete, path, bobToken, nil).Code)
	assert.Equal(t, http.StatusOK, api.do(t, http.MethodGet, path, "", nil).Code)

	assert.Equal(t, http.StatusNoContent, api.do(t, http.MethodDelete, path, aliceToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, path, "", nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodDelete, path, aliceToken, nil).Code)
}

func TestArticles_CreateValidation(t *testing.T) {
	api := newTestAPI(t)
	token := api.register(t, "alice")

	w := api.do(t, http.MethodPost, "/api/articles", token, gin.H{"article": gin.H{"body": "no title"}})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, decode[response.ErrorBody](t, w).Errors, "title")
}

func TestTags(t *testing.T) {
	api := newTestAPI(t)
	token := api.register(t, "alice")
	api.createArticle(t, token, "One", "go", "api")

	w := api.do(t, http.MethodGet, "/api/tags", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"tags":["api","go"]}`, w.Body.String())
}
