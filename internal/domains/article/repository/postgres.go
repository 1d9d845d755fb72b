package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"conduit-backend/internal/domains/article"
	"conduit-backend/internal/shared/utils"
	"conduit-backend/pkg/database"
)

const uniqueViolation = "23505"

const articleSelect = `
	SELECT a.id, a.slug, a.title, a.description, a.body, a.tag_list, a.favorites_count,
	       a.author_id, a.created_at, a.updated_at,
	       u.username, u.bio, u.image
	FROM articles a
	JOIN users u ON u.id = a.author_id
`

// postgresRepository implements article.Repository.
// Không cache: favorites_count thay đổi liên tục và listing phụ thuộc filter.
type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) article.Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) List(ctx context.Context, c article.Criteria, p article.Page) ([]*article.Article, int, error) {
	where, args := buildWhere(c)

	// total tính trên toàn bộ tập đã lọc, trước LIMIT/OFFSET
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM articles a`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count articles: %w", err)
	}

	var b strings.Builder
	b.WriteString(articleSelect)
	b.WriteString(where)
	b.WriteString(" ORDER BY a.created_at DESC, a.id DESC")

	next := len(args) + 1
	if p.Limit != nil {
		fmt.Fprintf(&b, " LIMIT $%d", next)
		args = append(args, *p.Limit)
		next++
	}
	if p.Offset != nil {
		fmt.Fprintf(&b, " OFFSET $%d", next)
		args = append(args, *p.Offset)
	}

	rows, err := r.pool.Query(ctx, b.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	articles := make([]*article.Article, 0)
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan article: %w", err)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate articles: %w", err)
	}

	return articles, total, nil
}

func (r *postgresRepository) Create(ctx context.Context, a *article.Article) error {
	query := `
		WITH inserted AS (
			INSERT INTO articles (slug, title, description, body, tag_list, author_id)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, author_id, created_at, updated_at
		)
		SELECT i.id, i.created_at, i.updated_at, u.username, u.bio, u.image
		FROM inserted i
		JOIN users u ON u.id = i.author_id
	`

	err := r.pool.QueryRow(ctx, query, a.Slug, a.Title, a.Description, a.Body, tagsOrEmpty(a.TagList), a.AuthorID).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt, &a.Author.Username, &a.Author.Bio, &a.Author.Image)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == "articles_slug_key" {
			return article.ErrSlugTaken.Wrap(err)
		}
		return fmt.Errorf("create article: %w", err)
	}
	return nil
}

func (r *postgresRepository) FindBySlug(ctx context.Context, slug string) (*article.Article, error) {
	a, err := scanArticle(r.pool.QueryRow(ctx, articleSelect+` WHERE a.slug = $1`, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, article.ErrArticleNotFound
		}
		return nil, fmt.Errorf("find article by slug: %w", err)
	}
	return a, nil
}

func (r *postgresRepository) Update(ctx context.Context, a *article.Article) error {
	query := `
		UPDATE articles
		SET title = $2, description = $3, body = $4, tag_list = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.pool.QueryRow(ctx, query, a.ID, a.Title, a.Description, a.Body, tagsOrEmpty(a.TagList)).Scan(&a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return article.ErrArticleNotFound
		}
		return fmt.Errorf("update article: %w", err)
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return article.ErrArticleNotFound
	}
	return nil
}

func (r *postgresRepository) FavoriteIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `SELECT article_id FROM article_favorites WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("query favorites: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("scan favorites: %w", err)
	}
	return ids, nil
}

func (r *postgresRepository) AddFavorite(ctx context.Context, userID, articleID uuid.UUID) (int, error) {
	return r.toggleFavorite(ctx, articleID,
		`INSERT INTO article_favorites (user_id, article_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		userID, +1)
}

func (r *postgresRepository) RemoveFavorite(ctx context.Context, userID, articleID uuid.UUID) (int, error) {
	return r.toggleFavorite(ctx, articleID,
		`DELETE FROM article_favorites WHERE user_id = $1 AND article_id = $2`,
		userID, -1)
}

// toggleFavorite khóa dòng article (FOR UPDATE), thay đổi join row,
// và chỉ cộng delta vào favorites_count khi join row thực sự thay đổi.
func (r *postgresRepository) toggleFavorite(ctx context.Context, articleID uuid.UUID, stmt string, userID uuid.UUID, delta int) (int, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (int, error) {
		var count int
		err := tx.QueryRow(ctx, `SELECT favorites_count FROM articles WHERE id = $1 FOR UPDATE`, articleID).Scan(&count)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return 0, article.ErrArticleNotFound
			}
			return 0, fmt.Errorf("lock article: %w", err)
		}

		tag, err := tx.Exec(ctx, stmt, userID, articleID)
		if err != nil {
			return 0, fmt.Errorf("change favorite: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return count, nil
		}

		err = tx.QueryRow(ctx,
			`UPDATE articles SET favorites_count = favorites_count + $2 WHERE id = $1 RETURNING favorites_count`,
			articleID, delta,
		).Scan(&count)
		if err != nil {
			return 0, fmt.Errorf("update favorites count: %w", err)
		}
		return count, nil
	})
}

func (r *postgresRepository) CountFavorites(ctx context.Context, articleID uuid.UUID) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM article_favorites WHERE article_id = $1`, articleID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count favorites: %w", err)
	}
	return count, nil
}

func (r *postgresRepository) Tags(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT unnest(tag_list) AS tag FROM articles ORDER BY tag`)
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	tags, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan tags: %w", err)
	}
	return tags, nil
}

// buildWhere render các predicate thành " WHERE p1 AND p2 ..." với $n liên tiếp
func buildWhere(c article.Criteria) (string, []any) {
	predicates := c.Predicates()
	if len(predicates) == 0 {
		return "", nil
	}

	clauses := make([]string, 0, len(predicates))
	args := make([]any, 0, len(predicates))
	pos := 1
	for _, p := range predicates {
		var clause string
		clause, pos = utils.Rebind(p.SQL, pos)
		clauses = append(clauses, clause)
		args = append(args, p.Args...)
	}
	return " WHERE " + utils.JoinWithAnd(clauses), args
}

func scanArticle(row pgx.Row) (*article.Article, error) {
	var a article.Article
	err := row.Scan(
		&a.ID,
		&a.Slug,
		&a.Title,
		&a.Description,
		&a.Body,
		&a.TagList,
		&a.FavoritesCount,
		&a.AuthorID,
		&a.CreatedAt,
		&a.UpdatedAt,
		&a.Author.Username,
		&a.Author.Bio,
		&a.Author.Image,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
