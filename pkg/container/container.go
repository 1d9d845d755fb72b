package container

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"conduit-backend/internal/config"
	infraCache "conduit-backend/internal/infrastructure/cache"
	"conduit-backend/internal/infrastructure/database"
	"conduit-backend/internal/shared/utils"
	"conduit-backend/pkg/cache"
	"conduit-backend/pkg/jwt"
	"conduit-backend/pkg/logger"

	"conduit-backend/internal/domains/user"
	userHandler "conduit-backend/internal/domains/user/handler"
	userRepo "conduit-backend/internal/domains/user/repository"
	userService "conduit-backend/internal/domains/user/service"

	"conduit-backend/internal/domains/profile"
	profileHandler "conduit-backend/internal/domains/profile/handler"
	profileRepo "conduit-backend/internal/domains/profile/repository"
	profileService "conduit-backend/internal/domains/profile/service"

	"conduit-backend/internal/domains/article"
	articleHandler "conduit-backend/internal/domains/article/handler"
	articleRepo "conduit-backend/internal/domains/article/repository"
	articleService "conduit-backend/internal/domains/article/service"
)

// Container chứa TẤT CẢ dependencies của application
// Thứ tự khởi tạo: Config -> Infrastructure -> Repositories -> Services -> Handlers
type Container struct {
	// Infrastructure
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache
	JWTManager *jwt.Manager

	// Repositories
	UserRepo    user.Repository
	FollowRepo  profile.Repository
	ArticleRepo article.Repository

	// Services
	UserService    user.Service
	ProfileService profile.Service
	ArticleService article.Service

	// Handlers
	UserHandler    *userHandler.UserHandler
	ProfileHandler *profileHandler.ProfileHandler
	ArticleHandler *articleHandler.ArticleHandler

	log zerolog.Logger
}

// NewContainer tạo và initialize toàn bộ dependency graph
func NewContainer(cfg *config.Config) (*Container, error) {
	c := &Container{
		Config: cfg,
		log:    logger.Component("container"),
	}
	c.log.Info().Str("env", cfg.App.Environment).Msg("Initializing DI container")

	// STEP 1: DATABASE (fatal nếu lỗi)
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db

	if cfg.Database.AutoMigrate {
		if err := db.RunMigrations(cfg.Database.MigrationsPath); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	// STEP 2: CACHE (non-critical, fallback về no-op)
	c.Cache = c.initCache(cfg.Redis)

	// STEP 3: TOKEN ISSUER
	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expiry)

	c.initRepositories()
	c.initServices()
	c.initHandlers()

	c.log.Info().Msg("DI container initialized")
	return c, nil
}

func (c *Container) initCache(cfg config.RedisConfig) cache.Cache {
	if !cfg.Enabled {
		c.log.Info().Msg("Cache disabled")
		return cache.NewNoop()
	}

	redisCache := infraCache.NewRedisCache(cfg.Host, cfg.Password, cfg.DB)
	if rc, ok := redisCache.(*infraCache.RedisCache); ok {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := rc.Connect(ctx); err != nil {
			c.log.Warn().Err(err).Str("host", cfg.Host).Msg("Redis connection failed, continuing without cache")
			_ = rc.Close()
			return cache.NewNoop()
		}
	}
	c.log.Info().Str("host", cfg.Host).Msg("Redis connected")
	return redisCache
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.UserRepo = userRepo.NewPostgresRepository(pool, c.Cache, c.Config.Redis.TTL)
	c.FollowRepo = profileRepo.NewPostgresRepository(pool)
	c.ArticleRepo = articleRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager, userService.DefaultBcryptCost)
	c.ProfileService = profileService.NewProfileService(c.FollowRepo, c.UserRepo)
	c.ArticleService = articleService.NewArticleService(
		c.ArticleRepo,
		c.UserRepo,
		c.ProfileService,
		utils.DefaultRandomSource(),
		c.Config.Article.SlugSuffixLength,
	)
}

func (c *Container) initHandlers() {
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.ProfileHandler = profileHandler.NewProfileHandler(c.ProfileService)
	c.ArticleHandler = articleHandler.NewArticleHandler(c.ArticleService)
}

// Cleanup đóng DB pool và Redis client
func (c *Container) Cleanup() {
	c.log.Info().Msg("Cleaning up container resources")

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			c.log.Warn().Err(err).Msg("Failed to close database")
		}
	}

	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			c.log.Warn().Err(err).Msg("Failed to close Redis")
		}
	}
}
