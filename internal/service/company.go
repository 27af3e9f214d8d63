package service

import (
	"context"

	"github.com/smarthr/portal/internal/events"
	"github.com/smarthr/portal/internal/logging"
	"github.com/smarthr/portal/internal/models"
	"github.com/smarthr/portal/internal/repo"
	"github.com/smarthr/portal/internal/transport"
)

type CompanyService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

func (s *CompanyService) GetCompany(ctx context.Context, id uint) (*models.Company, error) {
	return s.Repo.GetCompany(ctx, id)
}

func (s *CompanyService) GetCompanies(ctx context.Context) ([]models.Company, error) {
	return s.Repo.GetCompanies(ctx)
}

func (s *CompanyService) CreateCompany(ctx context.Context, req transport.CompanyRequest) (*models.Company, error) {
	if req.Name == "" || req.Slug == "" {
		return nil, ErrValidation
	}
	company := models.Company{Name: req.Name, Slug: req.Slug}
	if err := s.Repo.CreateCompany(ctx, &company); err != nil {
		return nil, err
	}
	publishEntity(ctx, s.Events, events.TopicJobEvents, "company_created", company.Slug, company.ID)
	return &company, nil
}

func (s *CompanyService) PatchCompany(ctx context.Context, req transport.CompanyPatchRequest, id uint) (*models.Company, error) {
	company, err := s.Repo.PatchCompany(ctx, req, id)
	if err != nil {
		return nil, err
	}
	publishEntity(ctx, s.Events, events.TopicJobEvents, "company_updated", company.Slug, company.ID)
	return company, nil
}

func (s *CompanyService) DeleteCompany(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteCompany(ctx, id); err != nil {
		return err
	}
	publishEntity(ctx, s.Events, events.TopicJobEvents, "company_deleted", "", id)
	return nil
}

func publishEntity(ctx context.Context, pub events.Publisher, topic, kind, key string, id uint) {
	if pub == nil {
		return
	}
	event := map[string]any{"type": kind, "id": id}
	if err := pub.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "kind", kind, "error", err)
	}
}
