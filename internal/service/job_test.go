package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarthr/portal/internal/models"
)

type fakeJobIndex struct {
	searchCalls int
	jobs        []models.Job
}

func (f *fakeJobIndex) IndexJob(ctx context.Context, job *models.Job) error { return nil }

func (f *fakeJobIndex) DeleteJob(ctx context.Context, id uint) error { return nil }

func (f *fakeJobIndex) SearchJobs(ctx context.Context, query string, from, size int) (int64, []models.Job, error) {
	f.searchCalls++
	return int64(len(f.jobs)), f.jobs, nil
}

func TestJobService_SearchJobs_IndexDisabled(t *testing.T) {
	t.Parallel()

	svc := &JobService{}

	_, _, err := svc.SearchJobs(context.Background(), "go", 0, 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSearchUnavailable)
}

func TestJobService_SearchJobs_DelegatesToIndex(t *testing.T) {
	t.Parallel()

	index := &fakeJobIndex{jobs: []models.Job{{ID: 1, Title: "Backend Engineer"}}}
	svc := &JobService{Index: index}

	total, jobs, err := svc.SearchJobs(context.Background(), "backend", 0, 10)
	require.NoError(t, err)

	assert.Equal(t, int64(1), total)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Backend Engineer", jobs[0].Title)
	assert.Equal(t, 1, index.searchCalls)
}
