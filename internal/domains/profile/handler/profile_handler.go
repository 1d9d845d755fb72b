package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"conduit-backend/internal/domains/profile"
	"conduit-backend/internal/shared/middleware"
	"conduit-backend/internal/shared/response"
)

type ProfileHandler struct {
	service profile.Service
}

func NewProfileHandler(service profile.Service) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// Get xử lý GET /api/profiles/:username (optional auth)
func (h *ProfileHandler) Get(c *gin.Context) {
	p, err := h.service.GetProfile(c.Request.Context(), c.Param("username"), middleware.CurrentUserIDPtr(c))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "profile", p)
}

// Follow xử lý POST /api/profiles/:username/follow
func (h *ProfileHandler) Follow(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	p, err := h.service.Follow(c.Request.Context(), userID, c.Param("username"))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "profile", p)
}

// Unfollow xử lý DELETE /api/profiles/:username/follow
func (h *ProfileHandler) Unfollow(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	p, err := h.service.Unfollow(c.Request.Context(), userID, c.Param("username"))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "profile", p)
}
