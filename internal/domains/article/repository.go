package article

import (
	"context"

	"github.com/google/uuid"
)

// Repository định nghĩa data access contract cho articles và article_favorites
type Repository interface {
	// List trả về page của các article khớp c, sắp xếp created_at DESC, id DESC,
	// kèm total của toàn bộ tập đã lọc (trước khi phân trang).
	List(ctx context.Context, c Criteria, p Page) ([]*Article, int, error)

	// Create gán ID và timestamps. Errors: ErrSlugTaken
	Create(ctx context.Context, a *Article) error

	// FindBySlug. Errors: ErrArticleNotFound
	FindBySlug(ctx context.Context, slug string) (*Article, error)

	// Update ghi title, description, body, tag_list
	Update(ctx context.Context, a *Article) error

	// Delete xóa article; article_favorites cascade theo FK
	Delete(ctx context.Context, id uuid.UUID) error

	// FavoriteIDs là favorite set của user
	FavoriteIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)

	// AddFavorite / RemoveFavorite chạy trong một transaction: join row và
	// favorites_count chỉ thay đổi cùng nhau. Trả về favorites_count hiện tại.
	AddFavorite(ctx context.Context, userID, articleID uuid.UUID) (int, error)
	RemoveFavorite(ctx context.Context, userID, articleID uuid.UUID) (int, error)

	// CountFavorites đếm lại từ article_favorites (consistency check)
	CountFavorites(ctx context.Context, articleID uuid.UUID) (int, error)

	// Tags trả về các tag distinct, sắp xếp alphabet
	Tags(ctx context.Context) ([]string, error)
}
