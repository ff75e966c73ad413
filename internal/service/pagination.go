package service

import "github.com/noah-isme/marks-analytics-api/internal/models"

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// paginate mirrors the page bounds applied by the repositories.
func paginate(page, size, total int) *models.Pagination {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return models.NewPagination(page, size, total)
}
