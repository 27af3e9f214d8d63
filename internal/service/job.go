package service

import (
	"context"

	"github.com/smarthr/portal/internal/events"
	"github.com/smarthr/portal/internal/logging"
	"github.com/smarthr/portal/internal/models"
	"github.com/smarthr/portal/internal/repo"
	"github.com/smarthr/portal/internal/search"
	"github.com/smarthr/portal/internal/transport"
)

type JobService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
	Index  search.JobIndex
}

func (s *JobService) GetJob(ctx context.Context, id uint) (*models.Job, error) {
	return s.Repo.GetJob(ctx, id)
}

func (s *JobService) GetJobs(ctx context.Context, filter repo.JobFilter) ([]models.Job, error) {
	return s.Repo.GetJobs(ctx, filter)
}

// SearchJobs runs a full-text query against the job index. The index is
// nil when Elasticsearch is unconfigured or was unreachable at startup.
func (s *JobService) SearchJobs(ctx context.Context, query string, from, size int) (int64, []models.Job, error) {
	if s.Index == nil {
		return 0, nil, ErrSearchUnavailable
	}
	return s.Index.SearchJobs(ctx, query, from, size)
}

func (s *JobService) CreateJob(ctx context.Context, req transport.JobRequest, recruiterID *uint) (*models.Job, error) {
	if req.Title == "" || req.Location == "" || req.CompanyID == 0 || req.DepartmentID == 0 || req.EndDate.IsZero() {
		return nil, ErrValidation
	}

	job, err := s.Repo.CreateJob(ctx, &models.Job{
		Title:           req.Title,
		Location:        req.Location,
		Responsiblities: req.Responsiblities,
		Qualification:   req.Qualification,
		NiceToHaves:     req.NiceToHaves,
		EndDate:         req.EndDate,
		CompanyID:       req.CompanyID,
		DepartmentID:    req.DepartmentID,
		RecruiterID:     recruiterID,
	})
	if err != nil {
		return nil, err
	}

	publishEntity(ctx, s.Events, events.TopicJobEvents, "job_created", job.Title, job.ID)
	s.reindex(ctx, job)
	return job, nil
}

func (s *JobService) PatchJob(ctx context.Context, req transport.JobPatchRequest, id uint) (*models.Job, error) {
	job, err := s.Repo.PatchJob(ctx, req, id)
	if err != nil {
		return nil, err
	}
	publishEntity(ctx, s.Events, events.TopicJobEvents, "job_updated", job.Title, job.ID)
	s.reindex(ctx, job)
	return job, nil
}

func (s *JobService) DeleteJob(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteJob(ctx, id); err != nil {
		return err
	}
	publishEntity(ctx, s.Events, events.TopicJobEvents, "job_deleted", "", id)
	if s.Index != nil {
		if err := s.Index.DeleteJob(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("job_index_delete_failed", "job_id", id, "error", err)
		}
	}
	return nil
}

func (s *JobService) reindex(ctx context.Context, job *models.Job) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexJob(ctx, job); err != nil {
		logging.FromContext(ctx).Warn("job_index_failed", "job_id", job.ID, "error", err)
	}
}
