package repo

import (
	"context"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/smarthr/portal/internal/models"
)

func (r *GormRepo) predictedQuery(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).Model(&models.PredictedCandidate{}).
		Preload("Interview.Application.Job.Company").
		Preload("Interview.Application.Job.Department").
		Preload("Interview.Application.Job.Recruiter").
		Preload("Interview.Application.Job").
		Preload("Interview.Application.Status").
		Preload("Interview.Application").
		Preload("Interview.Result").
		Preload("Interview").
		Preload("Status")
}

func (r *GormRepo) GetPredicted(ctx context.Context, id uint) (*models.PredictedCandidate, error) {
	var candidate models.PredictedCandidate
	if err := r.predictedQuery(ctx).First(&candidate, id).Error; err != nil {
		return nil, err
	}
	return &candidate, nil
}

func (r *GormRepo) GetPredictedList(ctx context.Context) ([]models.PredictedCandidate, error) {
	var items []models.PredictedCandidate
	if err := r.predictedQuery(ctx).Order("predicted_candidates.id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// UpsertPredicted creates the predicted candidate for an interview or, when
// one already exists, refreshes its score. One prediction per interview.
func (r *GormRepo) UpsertPredicted(ctx context.Context, candidate *models.PredictedCandidate) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.PredictedCandidate
		err := tx.Where("interview_id = ?", candidate.InterviewID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(candidate).Error
		}
		if err != nil {
			return err
		}
		candidate.ID = existing.ID
		return tx.Model(&existing).Updates(map[string]any{
			"status_id":        candidate.StatusID,
			"evaluation_score": candidate.EvaluationScore,
		}).Error
	})
}

func (r *GormRepo) SetPredictedEvaluation(ctx context.Context, id, statusID uint, score float64, data datatypes.JSON) error {
	return r.DB.WithContext(ctx).Model(&models.PredictedCandidate{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status_id":        statusID,
			"evaluation_score": score,
			"evaluation_data":  data,
		}).Error
}

func (r *GormRepo) DeletePredicted(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.PredictedCandidate{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
