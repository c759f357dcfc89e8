package model

// MaxPerPage 单页最大条数
const MaxPerPage = 100

// Pagination 分页参数
type Pagination struct {
	Page    int
	PerPage int
}

// NewPagination 规范化分页参数，越界时回退到默认值
func NewPagination(page, perPage, defaultPerPage int) Pagination {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return Pagination{Page: page, PerPage: perPage}
}

// Offset 偏移量
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// TotalPages 总页数
func (p Pagination) TotalPages(total int64) int {
	if total <= 0 || p.PerPage <= 0 {
		return 0
	}
	return int((total + int64(p.PerPage) - 1) / int64(p.PerPage))
}

// PageResult 分页响应
type PageResult[T any] struct {
	Items      []T   `json:"items"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
}

// NewPageResult 组装分页响应，items 为 nil 时输出空数组
func NewPageResult[T any](items []T, total int64, p Pagination) PageResult[T] {
	if items == nil {
		items = []T{}
	}
	return PageResult[T]{
		Items:      items,
		TotalItems: total,
		TotalPages: p.TotalPages(total),
		Page:       p.Page,
		PerPage:    p.PerPage,
	}
}
