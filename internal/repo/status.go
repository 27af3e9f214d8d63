package repo

import (
	"context"

	"github.com/smarthr/portal/internal/models"
)

func (r *GormRepo) StatusBySlug(ctx context.Context, slug string) (*models.Status, error) {
	var status models.Status
	if err := r.DB.WithContext(ctx).Where("slug = ?", slug).First(&status).Error; err != nil {
		return nil, err
	}
	return &status, nil
}
