package repo

import (
	"context"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/smarthr/portal/internal/models"
	"github.com/smarthr/portal/internal/transport"
)

func (r *GormRepo) interviewQuery(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).Model(&models.Interview{}).
		Preload("Application.Job.Company").
		Preload("Application.Job.Department").
		Preload("Application.Job.Recruiter").
		Preload("Application.Job").
		Preload("Application.Status").
		Preload("Application").
		Preload("Result")
}

func (r *GormRepo) GetInterview(ctx context.Context, id uint) (*models.Interview, error) {
	var interview models.Interview
	if err := r.interviewQuery(ctx).First(&interview, id).Error; err != nil {
		return nil, err
	}
	return &interview, nil
}

func (r *GormRepo) GetInterviews(ctx context.Context) ([]models.Interview, error) {
	var items []models.Interview
	if err := r.interviewQuery(ctx).Order("interviews.id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) CreateInterview(ctx context.Context, interview *models.Interview) (*models.Interview, error) {
	if err := r.DB.WithContext(ctx).Create(interview).Error; err != nil {
		return nil, err
	}
	return r.GetInterview(ctx, interview.ID)
}

func (r *GormRepo) PatchInterview(ctx context.Context, req transport.InterviewPatchRequest, resultID *uint, id uint) (*models.Interview, error) {
	var interview models.Interview
	if err := r.DB.WithContext(ctx).First(&interview, id).Error; err != nil {
		return nil, err
	}

	if req.ApplicationID != nil {
		interview.ApplicationID = *req.ApplicationID
	}
	if req.Date != nil {
		interview.Date = req.Date
	}
	if req.ExternalMeetingLink != nil {
		interview.ExternalMeetingLink = req.ExternalMeetingLink
	}
	if resultID != nil {
		interview.ResultID = *resultID
	}

	if err := r.DB.WithContext(ctx).Save(&interview).Error; err != nil {
		return nil, err
	}
	return r.GetInterview(ctx, interview.ID)
}

func (r *GormRepo) SetInterviewVideo(ctx context.Context, id uint, path string) error {
	return r.DB.WithContext(ctx).Model(&models.Interview{}).
		Where("id = ?", id).
		Update("interview_video", path).Error
}

func (r *GormRepo) SetInterviewAnalysis(ctx context.Context, id uint, analysis datatypes.JSON) error {
	return r.DB.WithContext(ctx).Model(&models.Interview{}).
		Where("id = ?", id).
		Update("analysis_data", analysis).Error
}

func (r *GormRepo) SetInterviewQuestions(ctx context.Context, id uint, questions datatypes.JSON) error {
	return r.DB.WithContext(ctx).Model(&models.Interview{}).
		Where("id = ?", id).
		Update("interview_questions", questions).Error
}

func (r *GormRepo) DeleteInterview(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Interview{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
