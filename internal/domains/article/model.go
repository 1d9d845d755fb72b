package article

import (
	"time"

	"github.com/google/uuid"

	"conduit-backend/internal/domains/profile"
)

// Article là domain entity - ánh xạ bảng articles (+ author join từ users)
type Article struct {
	ID             uuid.UUID `db:"id"`
	Slug           string    `db:"slug"`
	Title          string    `db:"title"`
	Description    string    `db:"description"`
	Body           string    `db:"body"`
	TagList        []string  `db:"tag_list"`
	FavoritesCount int       `db:"favorites_count"`
	AuthorID       uuid.UUID `db:"author_id"`
	Author         Author
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// Author là phần public của users được join cùng article
type Author struct {
	Username string
	Bio      string
	Image    string
}

// IsAuthoredBy reports whether userID owns the article.
func (a *Article) IsAuthoredBy(userID uuid.UUID) bool {
	return a.AuthorID == userID
}

// ArticleView là representation trả về client
type ArticleView struct {
	Slug           string          `json:"slug"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Body           string          `json:"body"`
	TagList        []string        `json:"tagList"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
	Favorited      bool            `json:"favorited"`
	FavoritesCount int             `json:"favoritesCount"`
	Author         profile.Profile `json:"author"`
}

// ToView builds the outward representation for a given viewer state.
func (a *Article) ToView(favorited, followingAuthor bool) ArticleView {
	tags := a.TagList
	if tags == nil {
		tags = []string{}
	}
	return ArticleView{
		Slug:           a.Slug,
		Title:          a.Title,
		Description:    a.Description,
		Body:           a.Body,
		TagList:        tags,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
		Favorited:      favorited,
		FavoritesCount: a.FavoritesCount,
		Author: profile.Profile{
			Username:  a.Author.Username,
			Bio:       a.Author.Bio,
			Image:     a.Author.Image,
			Following: followingAuthor,
		},
	}
}

// ListResponse - {articles, articlesCount}
type ListResponse struct {
	Articles      []ArticleView `json:"articles"`
	ArticlesCount int           `json:"articlesCount"`
}

// EmptyList là kết quả cho filter không thể thỏa mãn
func EmptyList() *ListResponse {
	return &ListResponse{Articles: []ArticleView{}, ArticlesCount: 0}
}
