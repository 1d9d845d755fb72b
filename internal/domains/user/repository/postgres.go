package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"conduit-backend/internal/domains/user"
	"conduit-backend/pkg/cache"
	"conduit-backend/pkg/database"
	"conduit-backend/pkg/logger"
)

const (
	userIDKeyPrefix       = "user:id:"
	userUsernameKeyPrefix = "user:username:"

	uniqueViolation = "23505"
)

const userColumns = `id, username, email, password_hash, bio, image, created_at, updated_at`

// postgresRepository là concrete implementation của user.Repository
// Lookup theo id/username dùng cache-aside; lookup theo email luôn đi DB (chỉ login dùng).
type postgresRepository struct {
	pool     *pgxpool.Pool
	cache    cache.Cache
	cacheTTL time.Duration
	log      zerolog.Logger
}

func NewPostgresRepository(pool *pgxpool.Pool, c cache.Cache, cacheTTL time.Duration) user.Repository {
	return &postgresRepository{
		pool:     pool,
		cache:    c,
		cacheTTL: cacheTTL,
		log:      logger.Component("user_repository"),
	}
}

func (r *postgresRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, bio, image)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query, u.Username, u.Email, u.PasswordHash, u.Bio, u.Image).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if conflict := mapUniqueViolation(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	cacheKey := userIDKeyPrefix + id.String()

	var cached user.User
	if found, err := r.cache.Get(ctx, cacheKey, &cached); err == nil && found {
		return &cached, nil
	}

	u, err := r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	r.store(ctx, u)
	return u, nil
}

// FindByEmail không cache: key theo email sẽ phải invalidate thêm một chiều
func (r *postgresRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *postgresRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	cacheKey := userUsernameKeyPrefix + username

	var cached user.User
	if found, err := r.cache.Get(ctx, cacheKey, &cached); err == nil && found {
		return &cached, nil
	}

	u, err := r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	if err != nil {
		return nil, err
	}
	r.store(ctx, u)
	return u, nil
}

func (r *postgresRepository) Update(ctx context.Context, u *user.User) error {
	// username cũ cần để xóa cache key
	var oldUsername string
	if err := r.pool.QueryRow(ctx, `SELECT username FROM users WHERE id = $1`, u.ID).Scan(&oldUsername); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.ErrUserNotFound
		}
		return fmt.Errorf("load user for update: %w", err)
	}

	query := `
		UPDATE users
		SET username = $2, email = $3, password_hash = $4, bio = $5, image = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.pool.QueryRow(ctx, query, u.ID, u.Username, u.Email, u.PasswordHash, u.Bio, u.Image).Scan(&u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.ErrUserNotFound
		}
		if conflict := mapUniqueViolation(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("update user: %w", err)
	}

	r.invalidate(ctx, u.ID, oldUsername, u.Username)
	return nil
}

// Delete giữ invariant favorites_count: trừ counter của các bài user đã favorite
// trước khi cascade xóa các dòng article_favorites.
func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	var username string
	err := database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `SELECT username FROM users WHERE id = $1 FOR UPDATE`, id).Scan(&username); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return user.ErrUserNotFound
			}
			return fmt.Errorf("lock user: %w", err)
		}

		_, err := tx.Exec(ctx, `
			UPDATE articles
			SET favorites_count = favorites_count - 1
			WHERE id IN (SELECT article_id FROM article_favorites WHERE user_id = $1)
		`, id)
		if err != nil {
			return fmt.Errorf("release favorites: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.invalidate(ctx, id, username)
	return nil
}

func (r *postgresRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("check username exists: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) findOne(ctx context.Context, query string, arg any) (*user.User, error) {
	var u user.User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.Bio,
		&u.Image,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

// store ghi cache theo cả id và username; lỗi cache không làm fail request
func (r *postgresRepository) store(ctx context.Context, u *user.User) {
	if err := r.cache.Set(ctx, userIDKeyPrefix+u.ID.String(), u, r.cacheTTL); err != nil {
		r.log.Warn().Err(err).Str("user_id", u.ID.String()).Msg("Failed to cache user")
		return
	}
	if err := r.cache.Set(ctx, userUsernameKeyPrefix+u.Username, u, r.cacheTTL); err != nil {
		r.log.Warn().Err(err).Str("username", u.Username).Msg("Failed to cache user")
	}
}

func (r *postgresRepository) invalidate(ctx context.Context, id uuid.UUID, usernames ...string) {
	keys := []string{userIDKeyPrefix + id.String()}
	for _, name := range usernames {
		keys = append(keys, userUsernameKeyPrefix+name)
	}
	if err := r.cache.Delete(ctx, keys...); err != nil {
		r.log.Warn().Err(err).Strs("keys", keys).Msg("Failed to invalidate user cache")
	}
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return nil
	}
	switch pgErr.ConstraintName {
	case "users_email_key":
		return user.ErrEmailTaken.Wrap(err)
	case "users_username_key":
		return user.ErrUsernameTaken.Wrap(err)
	}
	return nil
}
