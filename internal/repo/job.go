package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/smarthr/portal/internal/models"
	"github.com/smarthr/portal/internal/transport"
)

// JobFilter narrows the public job board listing by company and department
// slug, mirroring the job board sidebar filters.
type JobFilter struct {
	CompanySlug    string
	DepartmentSlug string
}

func (r *GormRepo) jobQuery(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).Model(&models.Job{}).
		Preload("Company").
		Preload("Department").
		Preload("Recruiter")
}

func (r *GormRepo) GetJob(ctx context.Context, id uint) (*models.Job, error) {
	var job models.Job
	if err := r.jobQuery(ctx).First(&job, id).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *GormRepo) GetJobs(ctx context.Context, filter JobFilter) ([]models.Job, error) {
	q := r.jobQuery(ctx)
	if filter.CompanySlug != "" {
		q = q.Joins("JOIN companies ON companies.id = jobs.company_id").
			Where("companies.slug = ?", filter.CompanySlug)
	}
	if filter.DepartmentSlug != "" {
		q = q.Joins("JOIN departments ON departments.id = jobs.department_id").
			Where("departments.slug = ?", filter.DepartmentSlug)
	}

	var items []models.Job
	if err := q.Order("jobs.id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) CreateJob(ctx context.Context, job *models.Job) (*models.Job, error) {
	if err := r.DB.WithContext(ctx).Create(job).Error; err != nil {
		return nil, err
	}
	return r.GetJob(ctx, job.ID)
}

func (r *GormRepo) PatchJob(ctx context.Context, req transport.JobPatchRequest, id uint) (*models.Job, error) {
	var job models.Job
	if err := r.DB.WithContext(ctx).First(&job, id).Error; err != nil {
		return nil, err
	}

	if req.Title != nil {
		job.Title = *req.Title
	}
	if req.Location != nil {
		job.Location = *req.Location
	}
	if req.Responsiblities != nil {
		job.Responsiblities = *req.Responsiblities
	}
	if req.Qualification != nil {
		job.Qualification = *req.Qualification
	}
	if req.NiceToHaves != nil {
		job.NiceToHaves = *req.NiceToHaves
	}
	if req.EndDate != nil {
		job.EndDate = *req.EndDate
	}
	if req.CompanyID != nil {
		job.CompanyID = *req.CompanyID
	}
	if req.DepartmentID != nil {
		job.DepartmentID = *req.DepartmentID
	}

	if err := r.DB.WithContext(ctx).Save(&job).Error; err != nil {
		return nil, err
	}
	return r.GetJob(ctx, job.ID)
}

func (r *GormRepo) DeleteJob(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Job{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
