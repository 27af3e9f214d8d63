package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/smarthr/portal/internal/models"
	"github.com/smarthr/portal/internal/transport"
)

func (r *GormRepo) GetDepartment(ctx context.Context, id uint) (*models.Department, error) {
	var department models.Department
	if err := r.DB.WithContext(ctx).First(&department, id).Error; err != nil {
		return nil, err
	}
	return &department, nil
}

func (r *GormRepo) GetDepartments(ctx context.Context) ([]models.Department, error) {
	var items []models.Department
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) CreateDepartment(ctx context.Context, department *models.Department) error {
	return r.DB.WithContext(ctx).Create(department).Error
}

func (r *GormRepo) PatchDepartment(ctx context.Context, req transport.DepartmentPatchRequest, id uint) (*models.Department, error) {
	var department models.Department
	if err := r.DB.WithContext(ctx).First(&department, id).Error; err != nil {
		return nil, err
	}
	if req.Title != nil {
		department.Title = *req.Title
	}
	if req.Slug != nil {
		department.Slug = *req.Slug
	}
	if err := r.DB.WithContext(ctx).Save(&department).Error; err != nil {
		return nil, err
	}
	return &department, nil
}

func (r *GormRepo) DeleteDepartment(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Department{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
