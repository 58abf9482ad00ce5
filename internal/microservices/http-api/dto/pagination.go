package dto

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageQuery is bound from ?page=&page_size= on every list endpoint.
type PageQuery struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

// Normalize clamps the query to page >= 1 and 1 <= page_size <= MaxPageSize.
func (q PageQuery) Normalize() PageQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	return q
}

// Page is the envelope returned by list endpoints.
type Page[T any] struct {
	Data       []T   `json:"data"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// NewPage creates a paginated response
func NewPage[T any](data []T, total int64, q PageQuery) Page[T] {
	totalPages := 0
	if q.PageSize > 0 {
		totalPages = int(total / int64(q.PageSize))
		if total%int64(q.PageSize) != 0 {
			totalPages++
		}
	}
	if data == nil {
		data = []T{}
	}
	return Page[T]{
		Data:       data,
		Page:       q.Page,
		PageSize:   q.PageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}

// MapSlice converts each element with fn.
func MapSlice[M any, T any](items []M, fn func(*M) T) []T {
	out := make([]T, 0, len(items))
	for i := range items {
		out = append(out, fn(&items[i]))
	}
	return out
}
