package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"conduit-backend/internal/domains/article"
	"conduit-backend/internal/domains/user"
	"conduit-backend/internal/shared/utils"
)

// DefaultSlugSuffixLength: "my-first-post-k3x9z0"
const DefaultSlugSuffixLength = 6

type articleService struct {
	repo      article.Repository
	users     article.UserFinder
	social    article.SocialGraph
	random    utils.RandomSource
	suffixLen int
}

// NewArticleService wires the article use cases. random drives slug suffixes;
// tests pass a seeded *rand.Rand for deterministic slugs.
func NewArticleService(
	repo article.Repository,
	users article.UserFinder,
	social article.SocialGraph,
	random utils.RandomSource,
	suffixLen int,
) article.Service {
	if random == nil {
		random = utils.DefaultRandomSource()
	}
	if suffixLen < 1 {
		suffixLen = DefaultSlugSuffixLength
	}
	return &articleService{
		repo:      repo,
		users:     users,
		social:    social,
		random:    random,
		suffixLen: suffixLen,
	}
}

// ========================================
// QUERY ENGINE
// ========================================

func (s *articleService) List(ctx context.Context, viewerID *uuid.UUID, f article.ListFilter) (*article.ListResponse, error) {
	criteria, err := s.buildCriteria(ctx, f)
	if err != nil {
		return nil, err
	}
	if criteria.Unsatisfiable() {
		return article.EmptyList(), nil
	}

	articles, total, err := s.repo.List(ctx, criteria, f.Page)
	if err != nil {
		return nil, err
	}

	favorites, following, err := s.viewerState(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	views := make([]article.ArticleView, 0, len(articles))
	for _, a := range articles {
		_, fav := favorites[a.ID]
		_, fol := following[a.AuthorID]
		views = append(views, a.ToView(fav, fol))
	}
	return &article.ListResponse{Articles: views, ArticlesCount: total}, nil
}

// buildCriteria bắt đầu từ All() và thu hẹp theo từng filter có mặt.
// Username không tồn tại -> MatchNone thay vì lỗi.
func (s *articleService) buildCriteria(ctx context.Context, f article.ListFilter) (article.Criteria, error) {
	criteria := article.All()

	if f.Tag != "" {
		criteria = criteria.Where(article.TagEquals(f.Tag))
	}

	if f.Author != "" {
		author, err := s.lookupUser(ctx, f.Author)
		if err != nil {
			return criteria, err
		}
		if author == nil {
			return criteria.Where(article.MatchNone()), nil
		}
		criteria = criteria.Where(article.AuthorIn(author.ID))
	}

	if f.Favorited != "" {
		fan, err := s.lookupUser(ctx, f.Favorited)
		if err != nil {
			return criteria, err
		}
		if fan == nil {
			return criteria.Where(article.MatchNone()), nil
		}
		ids, err := s.repo.FavoriteIDs(ctx, fan.ID)
		if err != nil {
			return criteria, err
		}
		criteria = criteria.Where(article.IDIn(ids...))
	}

	return criteria, nil
}

// ========================================
// FEED COMPOSER
// ========================================

// Feed không enrich favorited (giữ hành vi cũ); author luôn được follow nên following = true
func (s *articleService) Feed(ctx context.Context, userID uuid.UUID, p article.Page) (*article.ListResponse, error) {
	followed, err := s.social.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(followed) == 0 {
		return article.EmptyList(), nil
	}

	articles, total, err := s.repo.List(ctx, article.All().Where(article.AuthorIn(followed...)), p)
	if err != nil {
		return nil, err
	}

	views := make([]article.ArticleView, 0, len(articles))
	for _, a := range articles {
		views = append(views, a.ToView(false, true))
	}
	return &article.ListResponse{Articles: views, ArticlesCount: total}, nil
}

// ========================================
// MUTATIONS
// ========================================

func (s *articleService) Create(ctx context.Context, authorID uuid.UUID, req article.CreateRequest) (*article.ArticleView, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	tags := req.TagList
	if tags == nil {
		tags = []string{}
	}

	a := &article.Article{
		Slug:        utils.UniqueSlug(req.Title, s.random, s.suffixLen),
		Title:       req.Title,
		Description: req.Description,
		Body:        req.Body,
		TagList:     tags,
		AuthorID:    authorID,
	}
	// slug trùng (xác suất rất thấp) -> ErrSlugTaken từ store, không retry
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	view := a.ToView(false, false)
	return &view, nil
}

func (s *articleService) GetBySlug(ctx context.Context, slug string, viewerID *uuid.UUID) (*article.ArticleView, error) {
	a, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.viewFor(ctx, a, viewerID)
}

func (s *articleService) Update(ctx context.Context, userID uuid.UUID, slug string, req article.UpdateRequest) (*article.ArticleView, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	a, err := s.ownedArticle(ctx, userID, slug)
	if err != nil {
		return nil, err
	}

	// partial update: chỉ field được gửi mới thay đổi, slug giữ nguyên
	if req.Title != nil {
		a.Title = *req.Title
	}
	if req.Description != nil {
		a.Description = *req.Description
	}
	if req.Body != nil {
		a.Body = *req.Body
	}
	if req.TagList != nil {
		a.TagList = *req.TagList
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return s.viewFor(ctx, a, &userID)
}

// Delete: article_favorites bị cascade cùng article nên favorite set của mọi user tự co lại
func (s *articleService) Delete(ctx context.Context, userID uuid.UUID, slug string) error {
	a, err := s.ownedArticle(ctx, userID, slug)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, a.ID)
}

// ========================================
// FAVORITES INDEX
// ========================================

func (s *articleService) AddFavorite(ctx context.Context, userID uuid.UUID, slug string) (*article.ArticleView, error) {
	return s.toggleFavorite(ctx, userID, slug, true)
}

func (s *articleService) RemoveFavorite(ctx context.Context, userID uuid.UUID, slug string) (*article.ArticleView, error) {
	return s.toggleFavorite(ctx, userID, slug, false)
}

func (s *articleService) toggleFavorite(ctx context.Context, userID uuid.UUID, slug string, add bool) (*article.ArticleView, error) {
	a, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	var count int
	if add {
		count, err = s.repo.AddFavorite(ctx, userID, a.ID)
	} else {
		count, err = s.repo.RemoveFavorite(ctx, userID, a.ID)
	}
	if err != nil {
		return nil, err
	}
	a.FavoritesCount = count

	following, err := s.isFollowing(ctx, userID, a.AuthorID)
	if err != nil {
		return nil, err
	}
	view := a.ToView(add, following)
	return &view, nil
}

func (s *articleService) Tags(ctx context.Context) ([]string, error) {
	tags, err := s.repo.Tags(ctx)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}

// ========================================
// HELPERS
// ========================================

func (s *articleService) ownedArticle(ctx context.Context, userID uuid.UUID, slug string) (*article.Article, error) {
	a, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !a.IsAuthoredBy(userID) {
		return nil, article.ErrNotAuthor
	}
	return a, nil
}

// lookupUser trả về nil (không lỗi) khi username không tồn tại
func (s *articleService) lookupUser(ctx context.Context, username string) (*user.User, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

// viewerState: favorite set và following set của viewer; anonymous -> cả hai rỗng
func (s *articleService) viewerState(ctx context.Context, viewerID *uuid.UUID) (map[uuid.UUID]struct{}, map[uuid.UUID]struct{}, error) {
	if viewerID == nil {
		return nil, nil, nil
	}

	favIDs, err := s.repo.FavoriteIDs(ctx, *viewerID)
	if err != nil {
		return nil, nil, err
	}
	followIDs, err := s.social.FollowingIDs(ctx, *viewerID)
	if err != nil {
		return nil, nil, err
	}
	return toSet(favIDs), toSet(followIDs), nil
}

func (s *articleService) viewFor(ctx context.Context, a *article.Article, viewerID *uuid.UUID) (*article.ArticleView, error) {
	favorites, following, err := s.viewerState(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	_, fav := favorites[a.ID]
	_, fol := following[a.AuthorID]
	view := a.ToView(fav, fol)
	return &view, nil
}

func (s *articleService) isFollowing(ctx context.Context, viewerID uuid.UUID, authorID uuid.UUID) (bool, error) {
	followIDs, err := s.social.FollowingIDs(ctx, viewerID)
	if err != nil {
		return false, err
	}
	_, ok := toSet(followIDs)[authorID]
	return ok, nil
}

func toSet(ids []uuid.UUID) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
