package repository

import (
	"context"

	"github.com/crime-analytics/internal/domain"
)

// ComplaintSource читает сырые строки жалоб из внешнего источника
type ComplaintSource interface {
	// Read возвращает строки с фиксированным набором колонок и число битых строк,
	// которые были пропущены
	Read(ctx context.Context, path string) ([]domain.RawComplaint, int, error)
}
