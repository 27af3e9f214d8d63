package service

import (
	"context"
	"strings"

	"github.com/smarthr/portal/internal/events"
	"github.com/smarthr/portal/internal/models"
	"github.com/smarthr/portal/internal/repo"
	"github.com/smarthr/portal/internal/transport"
)

type ApplicationService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

type ApplicationInput struct {
	Name        string
	Email       string
	Residence   string
	CoverLetter string
	JobID       uint
	ResumePath  *string
}

func (s *ApplicationService) GetApplication(ctx context.Context, id uint) (*models.Application, error) {
	return s.Repo.GetApplication(ctx, id)
}

func (s *ApplicationService) GetApplications(ctx context.Context) ([]models.Application, error) {
	return s.Repo.GetApplications(ctx)
}

func (s *ApplicationService) CreateApplication(ctx context.Context, in ApplicationInput) (*models.Application, error) {
	if in.Name == "" || !strings.Contains(in.Email, "@") || in.JobID == 0 {
		return nil, ErrValidation
	}

	status, err := s.Repo.StatusBySlug(ctx, models.StatusApplied)
	if err != nil {
		return nil, err
	}

	app, err := s.Repo.CreateApplication(ctx, &models.Application{
		Name:        in.Name,
		Email:       in.Email,
		Residence:   in.Residence,
		CoverLetter: in.CoverLetter,
		Resume:      in.ResumePath,
		JobID:       in.JobID,
		StatusID:    status.ID,
	})
	if err != nil {
		return nil, err
	}

	publishEntity(ctx, s.Events, events.TopicCandidateEvents, "application_created", app.Email, app.ID)
	return app, nil
}

func (s *ApplicationService) PatchApplication(ctx context.Context, req transport.ApplicationPatchRequest, id uint) (*models.Application, error) {
	app, err := s.Repo.PatchApplication(ctx, req, id)
	if err != nil {
		return nil, err
	}
	publishEntity(ctx, s.Events, events.TopicCandidateEvents, "application_updated", app.Email, app.ID)
	return app, nil
}

func (s *ApplicationService) DeleteApplication(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteApplication(ctx, id); err != nil {
		return err
	}
	publishEntity(ctx, s.Events, events.TopicCandidateEvents, "application_deleted", "", id)
	return nil
}
