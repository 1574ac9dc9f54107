package domain

// Pagination is a pure value type describing one page of a query result
type Pagination struct {
	Page       int
	PerPage    int
	TotalItems int
	TotalPages int
}

// NewPagination computes derived pagination fields for a query
func NewPagination(page, perPage, totalItems int) Pagination {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 1
	}

	totalPages := totalItems / perPage
	if totalItems%perPage != 0 {
		totalPages++
	}

	return Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}
}

// HasPrev returns true if a previous page exists
func (p Pagination) HasPrev() bool {
	return p.Page > 1
}

// HasNext returns true if a next page exists
func (p Pagination) HasNext() bool {
	return p.Page < p.TotalPages
}

// Offset returns the query offset for the current page
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PerPage
}
