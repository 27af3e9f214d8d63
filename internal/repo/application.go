package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/smarthr/portal/internal/models"
	"github.com/smarthr/portal/internal/transport"
)

func (r *GormRepo) applicationQuery(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).Model(&models.Application{}).
		Preload("Job.Company").
		Preload("Job.Department").
		Preload("Job.Recruiter").
		Preload("Job").
		Preload("Status")
}

func (r *GormRepo) GetApplication(ctx context.Context, id uint) (*models.Application, error) {
	var app models.Application
	if err := r.applicationQuery(ctx).First(&app, id).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *GormRepo) GetApplications(ctx context.Context) ([]models.Application, error) {
	var items []models.Application
	if err := r.applicationQuery(ctx).Order("applications.id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) CreateApplication(ctx context.Context, app *models.Application) (*models.Application, error) {
	if err := r.DB.WithContext(ctx).Create(app).Error; err != nil {
		return nil, err
	}
	return r.GetApplication(ctx, app.ID)
}

func (r *GormRepo) PatchApplication(ctx context.Context, req transport.ApplicationPatchRequest, id uint) (*models.Application, error) {
	var app models.Application
	if err := r.DB.WithContext(ctx).First(&app, id).Error; err != nil {
		return nil, err
	}

	if req.Name != nil {
		app.Name = *req.Name
	}
	if req.Email != nil {
		app.Email = *req.Email
	}
	if req.Residence != nil {
		app.Residence = *req.Residence
	}
	if req.CoverLetter != nil {
		app.CoverLetter = *req.CoverLetter
	}
	if req.JobID != nil {
		app.JobID = *req.JobID
	}

	if err := r.DB.WithContext(ctx).Save(&app).Error; err != nil {
		return nil, err
	}
	return r.GetApplication(ctx, app.ID)
}

func (r *GormRepo) SetApplicationStatus(ctx context.Context, id, statusID uint) error {
	return r.DB.WithContext(ctx).Model(&models.Application{}).
		Where("id = ?", id).
		Update("status_id", statusID).Error
}

func (r *GormRepo) DeleteApplication(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Application{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
