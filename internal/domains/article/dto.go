package article

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	MaxTitleLength = 255
	MaxTagLength   = 64
)

// CreateRequest - POST /api/articles
type CreateRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Body        string   `json:"body"`
	TagList     []string `json:"tagList"`
}

func (r CreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required.Error("can't be blank"), validation.Length(1, MaxTitleLength)),
		validation.Field(&r.Body, validation.Required.Error("can't be blank")),
		validation.Field(&r.TagList, validation.Each(validation.Required.Error("can't be blank"), validation.Length(1, MaxTagLength))),
	)
}

// UpdateRequest - PUT /api/articles/:slug
// nil = giữ nguyên giá trị cũ
type UpdateRequest struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Body        *string   `json:"body,omitempty"`
	TagList     *[]string `json:"tagList,omitempty"`
}

func (r UpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty.Error("can't be blank"), validation.Length(1, MaxTitleLength)),
		validation.Field(&r.Body, validation.NilOrNotEmpty.Error("can't be blank")),
		validation.Field(&r.TagList, validation.By(func(value interface{}) error {
			tags, _ := value.(*[]string)
			if tags == nil {
				return nil
			}
			return validation.Validate(*tags, validation.Each(validation.Required.Error("can't be blank"), validation.Length(1, MaxTagLength)))
		})),
	)
}

type CreateEnvelope struct {
	Article CreateRequest `json:"article"`
}

type UpdateEnvelope struct {
	Article UpdateRequest `json:"article"`
}

// ListFilter là query của GET /api/articles; chuỗi rỗng = không lọc
type ListFilter struct {
	Tag       string
	Author    string
	Favorited string
	Page      Page
}
