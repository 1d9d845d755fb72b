package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"conduit-backend/internal/domains/article"
	"conduit-backend/internal/shared/middleware"
	"conduit-backend/internal/shared/response"
)

type ArticleHandler struct {
	service article.Service
}

func NewArticleHandler(service article.Service) *ArticleHandler {
	return &ArticleHandler{service: service}
}

// List xử lý GET /api/articles?tag=&author=&favorited=&limit=&offset= (optional auth)
func (h *ArticleHandler) List(c *gin.Context) {
	page, err := parsePage(c)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	filter := article.ListFilter{
		Tag:       c.Query("tag"),
		Author:    c.Query("author"),
		Favorited: c.Query("favorited"),
		Page:      page,
	}

	resp, err := h.service.List(c.Request.Context(), middleware.CurrentUserIDPtr(c), filter)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Feed xử lý GET /api/articles/feed
func (h *ArticleHandler) Feed(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	page, err := parsePage(c)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	resp, err := h.service.Feed(c.Request.Context(), userID, page)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Create xử lý POST /api/articles
func (h *ArticleHandler) Create(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req article.CreateEnvelope
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadBody(c, err)
		return
	}

	view, err := h.service.Create(c.Request.Context(), userID, req.Article)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "article", view)
}

// Get xử lý GET /api/articles/:slug (optional auth)
func (h *ArticleHandler) Get(c *gin.Context) {
	view, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"), middleware.CurrentUserIDPtr(c))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "article", view)
}

// Update xử lý PUT /api/articles/:slug
func (h *ArticleHandler) Update(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req article.UpdateEnvelope
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadBody(c, err)
		return
	}

	view, err := h.service.Update(c.Request.Context(), userID, c.Param("slug"), req.Article)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "article", view)
}

// Delete xử lý DELETE /api/articles/:slug
func (h *ArticleHandler) Delete(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, c.Param("slug")); err != nil {
		response.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Favorite xử lý POST /api/articles/:slug/favorite
func (h *ArticleHandler) Favorite(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	view, err := h.service.AddFavorite(c.Request.Context(), userID, c.Param("slug"))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "article", view)
}

// Unfavorite xử lý DELETE /api/articles/:slug/favorite
func (h *ArticleHandler) Unfavorite(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	view, err := h.service.RemoveFavorite(c.Request.Context(), userID, c.Param("slug"))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "article", view)
}

// Tags xử lý GET /api/tags
func (h *ArticleHandler) Tags(c *gin.Context) {
	tags, err := h.service.Tags(c.Request.Context())
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "tags", tags)
}

// parsePage đọc limit/offset; thiếu = không giới hạn, âm bị clamp về 0
func parsePage(c *gin.Context) (article.Page, error) {
	limit, err := optionalInt(c, "limit")
	if err != nil {
		return article.Page{}, err
	}
	offset, err := optionalInt(c, "offset")
	if err != nil {
		return article.Page{}, err
	}
	return article.NewPage(limit, offset), nil
}

func optionalInt(c *gin.Context, key string) (*int, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, article.ErrInvalidPagination.Wrap(err)
	}
	return &n, nil
}
