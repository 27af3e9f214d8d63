package service

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/smarthr/portal/internal/ai"
	"github.com/smarthr/portal/internal/events"
	"github.com/smarthr/portal/internal/logging"
	"github.com/smarthr/portal/internal/models"
	"github.com/smarthr/portal/internal/repo"
	"github.com/smarthr/portal/internal/transport"
)

type InterviewService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
	AI     ai.Analyzer
}

func (s *InterviewService) GetInterview(ctx context.Context, id uint) (*models.Interview, error) {
	return s.Repo.GetInterview(ctx, id)
}

func (s *InterviewService) GetInterviews(ctx context.Context) ([]models.Interview, error) {
	return s.Repo.GetInterviews(ctx)
}

// CreateInterview schedules an interview for an application. The new interview
// starts in the pending result and the application moves to the interview
// stage.
func (s *InterviewService) CreateInterview(ctx context.Context, req transport.InterviewRequest) (*models.Interview, error) {
	if req.ApplicationID == 0 {
		return nil, ErrValidation
	}

	if _, err := s.Repo.GetApplication(ctx, req.ApplicationID); err != nil {
		return nil, err
	}

	pending, err := s.Repo.StatusBySlug(ctx, models.ResultPending)
	if err != nil {
		return nil, err
	}

	interview, err := s.Repo.CreateInterview(ctx, &models.Interview{
		ApplicationID:       req.ApplicationID,
		Date:                req.Date,
		ExternalMeetingLink: req.ExternalMeetingLink,
		ResultID:            pending.ID,
	})
	if err != nil {
		return nil, err
	}

	stage, err := s.Repo.StatusBySlug(ctx, models.StatusInterview)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.SetApplicationStatus(ctx, req.ApplicationID, stage.ID); err != nil {
		return nil, err
	}

	publishEntity(ctx, s.Events, events.TopicCandidateEvents, "interview_scheduled", "", interview.ID)
	return s.Repo.GetInterview(ctx, interview.ID)
}

func (s *InterviewService) PatchInterview(ctx context.Context, req transport.InterviewPatchRequest, id uint) (*models.Interview, error) {
	var resultID *uint
	if req.ResultSlug != nil {
		status, err := s.Repo.StatusBySlug(ctx, *req.ResultSlug)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrValidation
			}
			return nil, err
		}
		resultID = &status.ID
	}

	interview, err := s.Repo.PatchInterview(ctx, req, resultID, id)
	if err != nil {
		return nil, err
	}
	publishEntity(ctx, s.Events, events.TopicCandidateEvents, "interview_updated", "", interview.ID)
	return interview, nil
}

func (s *InterviewService) DeleteInterview(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteInterview(ctx, id); err != nil {
		return err
	}
	publishEntity(ctx, s.Events, events.TopicCandidateEvents, "interview_deleted", "", id)
	return nil
}

func (s *InterviewService) AttachRecording(ctx context.Context, id uint, path string) (*models.Interview, error) {
	if _, err := s.Repo.GetInterview(ctx, id); err != nil {
		return nil, err
	}
	if err := s.Repo.SetInterviewVideo(ctx, id, path); err != nil {
		return nil, err
	}
	return s.Repo.GetInterview(ctx, id)
}

// AnalyzeRecording sends the stored interview video to the analysis service
// and persists the result. When the analysis yields a prediction score, a
// predicted candidate is created (or refreshed) for this interview.
func (s *InterviewService) AnalyzeRecording(ctx context.Context, id uint) (*models.Interview, error) {
	l := logging.FromContext(ctx).With("svc", "interview.analyze", "interview_id", id)

	interview, err := s.Repo.GetInterview(ctx, id)
	if err != nil {
		return nil, err
	}
	if interview.InterviewVideo == nil || *interview.InterviewVideo == "" {
		return nil, ErrValidation
	}

	analyzeReq := ai.AnalyzeRequest{
		InterviewID: interview.ID,
		VideoPath:   *interview.InterviewVideo,
	}
	if interview.Application.Resume != nil {
		analyzeReq.Resume = *interview.Application.Resume
	}

	analysis, err := s.AI.AnalyzeRecording(ctx, analyzeReq)
	if err != nil {
		l.Error("analysis_failed", "status", 502, "error", err)
		return nil, err
	}

	data, err := json.Marshal(analysis)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.SetInterviewAnalysis(ctx, id, datatypes.JSON(data)); err != nil {
		return nil, err
	}

	if analysis.PredictionScore != nil {
		predicted, err := s.Repo.StatusBySlug(ctx, models.StatusPredicted)
		if err != nil {
			return nil, err
		}
		if err := s.Repo.UpsertPredicted(ctx, &models.PredictedCandidate{
			InterviewID:     interview.ID,
			StatusID:        predicted.ID,
			EvaluationScore: analysis.PredictionScore,
		}); err != nil {
			return nil, err
		}
	}

	publishEntity(ctx, s.Events, events.TopicCandidateEvents, "interview_analyzed", "", interview.ID)
	return s.Repo.GetInterview(ctx, id)
}

// GenerateQuestions asks the analysis service for interview questions based
// on the job posting and the candidate resume, then stores them on the
// interview.
func (s *InterviewService) GenerateQuestions(ctx context.Context, id uint) (*transport.GenerateQuestionsResult, error) {
	l := logging.FromContext(ctx).With("svc", "interview.questions", "interview_id", id)

	interview, err := s.Repo.GetInterview(ctx, id)
	if err != nil {
		return nil, err
	}

	questionsReq := ai.QuestionsRequest{
		InterviewID:   interview.ID,
		JobTitle:      interview.Application.Job.Title,
		Qualification: interview.Application.Job.Qualification,
	}
	if interview.Application.Resume != nil {
		questionsReq.Resume = *interview.Application.Resume
	}

	questions, err := s.AI.GenerateQuestions(ctx, questionsReq)
	if err != nil {
		l.Error("question_generation_failed", "status", 502, "error", err)
		return nil, err
	}
	if len(questions) == 0 {
		return &transport.GenerateQuestionsResult{
			Success: false,
			Message: "no questions generated",
		}, nil
	}

	data, err := json.Marshal(questions)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.SetInterviewQuestions(ctx, id, datatypes.JSON(data)); err != nil {
		return nil, err
	}

	return &transport.GenerateQuestionsResult{
		Success:   true,
		Message:   "questions generated",
		Questions: questions,
	}, nil
}
