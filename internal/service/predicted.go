package service

import (
	"context"
	"encoding/json"

	"gorm.io/datatypes"

	"github.com/smarthr/portal/internal/events"
	"github.com/smarthr/portal/internal/models"
	"github.com/smarthr/portal/internal/repo"
	"github.com/smarthr/portal/internal/transport"
)

type PredictedService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

func (s *PredictedService) GetPredicted(ctx context.Context, id uint) (*models.PredictedCandidate, error) {
	return s.Repo.GetPredicted(ctx, id)
}

func (s *PredictedService) GetPredictedList(ctx context.Context) ([]models.PredictedCandidate, error) {
	return s.Repo.GetPredictedList(ctx)
}

// Evaluate records a recruiter's scored questionnaire for a predicted
// candidate. The average of the per-question scores becomes the evaluation
// score and the candidate moves to the evaluated status.
func (s *PredictedService) Evaluate(ctx context.Context, id uint, req transport.EvaluationRequest) (*transport.EvaluationResult, error) {
	if len(req.EvaluationData.Questions) == 0 {
		return nil, ErrValidation
	}

	if _, err := s.Repo.GetPredicted(ctx, id); err != nil {
		return nil, err
	}

	var total float64
	for _, q := range req.EvaluationData.Questions {
		if q.Score < 0 || q.Score > 10 {
			return nil, ErrValidation
		}
		total += q.Score
	}
	average := total / float64(len(req.EvaluationData.Questions))

	evaluated, err := s.Repo.StatusBySlug(ctx, models.StatusEvaluated)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(req.EvaluationData)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.SetPredictedEvaluation(ctx, id, evaluated.ID, average, datatypes.JSON(data)); err != nil {
		return nil, err
	}

	publishEntity(ctx, s.Events, events.TopicCandidateEvents, "candidate_evaluated", "", id)

	return &transport.EvaluationResult{
		Success:      true,
		Message:      "evaluation saved",
		Status:       evaluated.Slug,
		AverageScore: average,
	}, nil
}

func (s *PredictedService) DeletePredicted(ctx context.Context, id uint) error {
	if err := s.Repo.DeletePredicted(ctx, id); err != nil {
		return err
	}
	publishEntity(ctx, s.Events, events.TopicCandidateEvents, "predicted_deleted", "", id)
	return nil
}
