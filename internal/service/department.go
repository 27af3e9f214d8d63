package service

import (
	"context"

	"github.com/smarthr/portal/internal/events"
	"github.com/smarthr/portal/internal/models"
	"github.com/smarthr/portal/internal/repo"
	"github.com/smarthr/portal/internal/transport"
)

type DepartmentService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

func (s *DepartmentService) GetDepartment(ctx context.Context, id uint) (*models.Department, error) {
	return s.Repo.GetDepartment(ctx, id)
}

func (s *DepartmentService) GetDepartments(ctx context.Context) ([]models.Department, error) {
	return s.Repo.GetDepartments(ctx)
}

func (s *DepartmentService) CreateDepartment(ctx context.Context, req transport.DepartmentRequest) (*models.Department, error) {
	if req.Title == "" || req.Slug == "" {
		return nil, ErrValidation
	}
	department := models.Department{Title: req.Title, Slug: req.Slug}
	if err := s.Repo.CreateDepartment(ctx, &department); err != nil {
		return nil, err
	}
	publishEntity(ctx, s.Events, events.TopicJobEvents, "department_created", department.Slug, department.ID)
	return &department, nil
}

func (s *DepartmentService) PatchDepartment(ctx context.Context, req transport.DepartmentPatchRequest, id uint) (*models.Department, error) {
	department, err := s.Repo.PatchDepartment(ctx, req, id)
	if err != nil {
		return nil, err
	}
	publishEntity(ctx, s.Events, events.TopicJobEvents, "department_updated", department.Slug, department.ID)
	return department, nil
}

func (s *DepartmentService) DeleteDepartment(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteDepartment(ctx, id); err != nil {
		return err
	}
	publishEntity(ctx, s.Events, events.TopicJobEvents, "department_deleted", "", id)
	return nil
}
