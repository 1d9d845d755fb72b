package article

import (
	"slices"

	"github.com/google/uuid"
)

// Predicate là một điều kiện lọc article, biểu diễn song song ở hai dạng:
// SQL fragment (placeholder '?', alias bảng articles là "a") cho Postgres
// và Match cho các store in-memory. Hai dạng phải tương đương.
type Predicate struct {
	SQL   string
	Args  []any
	Match func(a *Article) bool

	never bool
}

// Criteria là danh sách predicate được AND với nhau.
// Zero value (All) khớp mọi article.
type Criteria struct {
	predicates []Predicate
}

// All starts an unconstrained criteria.
func All() Criteria {
	return Criteria{}
}

// Where returns a copy of c narrowed by p.
func (c Criteria) Where(p Predicate) Criteria {
	next := make([]Predicate, len(c.predicates), len(c.predicates)+1)
	copy(next, c.predicates)
	return Criteria{predicates: append(next, p)}
}

func (c Criteria) Predicates() []Predicate {
	return c.predicates
}

// Matches evaluates every predicate against a.
func (c Criteria) Matches(a *Article) bool {
	for _, p := range c.predicates {
		if !p.Match(a) {
			return false
		}
	}
	return true
}

// Unsatisfiable is true when some predicate can never match, so the store
// does not need to be queried at all.
func (c Criteria) Unsatisfiable() bool {
	for _, p := range c.predicates {
		if p.never {
			return true
		}
	}
	return false
}

// TagEquals matches articles whose tag list contains tag as a whole element.
func TagEquals(tag string) Predicate {
	return Predicate{
		SQL:  "? = ANY(a.tag_list)",
		Args: []any{tag},
		Match: func(a *Article) bool {
			return slices.Contains(a.TagList, tag)
		},
	}
}

// AuthorIn matches articles written by any of ids. An empty set matches nothing.
func AuthorIn(ids ...uuid.UUID) Predicate {
	if len(ids) == 0 {
		return MatchNone()
	}
	set := toSet(ids)
	return Predicate{
		SQL:  "a.author_id = ANY(?)",
		Args: []any{slices.Clone(ids)},
		Match: func(a *Article) bool {
			_, ok := set[a.AuthorID]
			return ok
		},
	}
}

// IDIn matches articles whose identifier is in ids. An empty set matches nothing.
func IDIn(ids ...uuid.UUID) Predicate {
	if len(ids) == 0 {
		return MatchNone()
	}
	set := toSet(ids)
	return Predicate{
		SQL:  "a.id = ANY(?)",
		Args: []any{slices.Clone(ids)},
		Match: func(a *Article) bool {
			_, ok := set[a.ID]
			return ok
		},
	}
}

func MatchNone() Predicate {
	return Predicate{
		SQL:   "FALSE",
		Match: func(*Article) bool { return false },
		never: true,
	}
}

// Page là limit/offset optional; nil = không giới hạn / không bỏ qua.
type Page struct {
	Limit  *int
	Offset *int
}

// NewPage clamps negative values to zero.
func NewPage(limit, offset *int) Page {
	return Page{Limit: clamp(limit), Offset: clamp(offset)}
}

// Bounds returns the [start, end) window of the page over n ordered items.
func (p Page) Bounds(n int) (int, int) {
	start := 0
	if p.Offset != nil {
		start = min(*p.Offset, n)
	}
	end := n
	if p.Limit != nil {
		end = min(start+*p.Limit, n)
	}
	return start, end
}

func clamp(v *int) *int {
	if v == nil {
		return nil
	}
	n := max(*v, 0)
	return &n
}

func toSet(ids []uuid.UUID) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
