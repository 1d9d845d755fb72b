package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	articleHandler "conduit-backend/internal/domains/article/handler"
	profileHandler "conduit-backend/internal/domains/profile/handler"
	userHandler "conduit-backend/internal/domains/user/handler"
	"conduit-backend/internal/shared/middleware"
	"conduit-backend/pkg/container"
)

// routes là những gì router cần; tách khỏi Container để test bằng mocks
type routes struct {
	users    *userHandler.UserHandler
	profiles *profileHandler.ProfileHandler
	articles *articleHandler.ArticleHandler
	tokens   middleware.TokenValidator
	health   gin.HandlerFunc
}

func SetupRouter(c *container.Container) *gin.Engine {
	return newRouter(routes{
		users:    c.UserHandler,
		profiles: c.ProfileHandler,
		articles: c.ArticleHandler,
		tokens:   c.JWTManager,
		health:   healthCheckHandler(c),
	})
}

func newRouter(r routes) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
	)

	requireAuth := middleware.AuthMiddleware(r.tokens)
	optionalAuth := middleware.OptionalAuth(r.tokens)

	api := router.Group("/api")
	{
		api.GET("/health", r.health)

		setupUserRoutes(api, r.users, requireAuth)
		setupProfileRoutes(api, r.profiles, requireAuth, optionalAuth)
		setupArticleRoutes(api, r.articles, requireAuth, optionalAuth)
	}

	return router
}

func setupUserRoutes(api *gin.RouterGroup, h *userHandler.UserHandler, requireAuth gin.HandlerFunc) {
	users := api.Group("/users")
	{
		users.POST("", h.Register)
		users.POST("/login", h.Login)
	}

	current := api.Group("/user", requireAuth)
	{
		current.GET("", h.Current)
		current.PUT("", h.Update)
		current.DELETE("", h.Delete)
	}
}

func setupProfileRoutes(api *gin.RouterGroup, h *profileHandler.ProfileHandler, requireAuth, optionalAuth gin.HandlerFunc) {
	profiles := api.Group("/profiles/:username")
	{
		profiles.GET("", optionalAuth, h.Get)
		profiles.POST("/follow", requireAuth, h.Follow)
		profiles.DELETE("/follow", requireAuth, h.Unfollow)
	}
}

func setupArticleRoutes(api *gin.RouterGroup, h *articleHandler.ArticleHandler, requireAuth, optionalAuth gin.HandlerFunc) {
	api.GET("/tags", h.Tags)

	articles := api.Group("/articles")
	{
		articles.GET("", optionalAuth, h.List)
		articles.GET("/feed", requireAuth, h.Feed)
		articles.POST("", requireAuth, h.Create)

		articles.GET("/:slug", optionalAuth, h.Get)
		articles.PUT("/:slug", requireAuth, h.Update)
		articles.DELETE("/:slug", requireAuth, h.Delete)

		articles.POST("/:slug/favorite", requireAuth, h.Favorite)
		articles.DELETE("/:slug/favorite", requireAuth, h.Unfavorite)
	}
}

// healthCheckHandler: DB lỗi -> 503; Redis lỗi chỉ là degraded
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := "ok"
		statusCode := http.StatusOK

		dbStatus := "ok"
		if err := appCtx.DB.HealthCheck(ctx); err != nil {
			dbStatus = "error: " + err.Error()
			status = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		cacheStatus := "ok"
		if err := appCtx.Cache.Ping(ctx); err != nil {
			cacheStatus = "error: " + err.Error()
			status = "degraded"
		}

		body := gin.H{
			"status":    status,
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
			"services": gin.H{
				"database": dbStatus,
				"cache":    cacheStatus,
			},
		}
		if stats, err := appCtx.DB.Stats(); err == nil {
			body["pool"] = stats
		}

		c.JSON(statusCode, body)
	}
}
