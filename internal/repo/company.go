package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/smarthr/portal/internal/models"
	"github.com/smarthr/portal/internal/transport"
)

func (r *GormRepo) GetCompany(ctx context.Context, id uint) (*models.Company, error) {
	var company models.Company
	if err := r.DB.WithContext(ctx).First(&company, id).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *GormRepo) GetCompanies(ctx context.Context) ([]models.Company, error) {
	var items []models.Company
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) CreateCompany(ctx context.Context, company *models.Company) error {
	return r.DB.WithContext(ctx).Create(company).Error
}

func (r *GormRepo) PatchCompany(ctx context.Context, req transport.CompanyPatchRequest, id uint) (*models.Company, error) {
	var company models.Company
	if err := r.DB.WithContext(ctx).First(&company, id).Error; err != nil {
		return nil, err
	}
	if req.Name != nil {
		company.Name = *req.Name
	}
	if req.Slug != nil {
		company.Slug = *req.Slug
	}
	if err := r.DB.WithContext(ctx).Save(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *GormRepo) DeleteCompany(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Company{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
