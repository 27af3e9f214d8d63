package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/smarthr/portal/internal/models"
)

// JobIndex keeps the public job board searchable. Services index
// best-effort: a down cluster must not fail a mutation.
type JobIndex interface {
	IndexJob(ctx context.Context, job *models.Job) error
	DeleteJob(ctx context.Context, id uint) error
	SearchJobs(ctx context.Context, query string, from, size int) (int64, []models.Job, error)
}

type ESJobIndex struct {
	ES    *elasticsearch.Client
	Index string
}

func (s *ESJobIndex) IndexJob(ctx context.Context, job *models.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}

	res, err := s.ES.Index(
		s.Index,
		bytes.NewReader(data),
		s.ES.Index.WithContext(ctx),
		s.ES.Index.WithDocumentID(strconv.FormatUint(uint64(job.ID), 10)),
		s.ES.Index.WithRefresh("false"),
	)
	if err != nil {
		return fmt.Errorf("index job: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index job: %s", res.Status())
	}
	return nil
}

func (s *ESJobIndex) DeleteJob(ctx context.Context, id uint) error {
	res, err := s.ES.Delete(
		s.Index,
		strconv.FormatUint(uint64(id), 10),
		s.ES.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("delete job doc: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete job doc: %s", res.Status())
	}
	return nil
}

func (s *ESJobIndex) SearchJobs(ctx context.Context, query string, from, size int) (int64, []models.Job, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"title^2", "location", "responsiblities", "qualification", "nice_to_haves"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("encode search body: %w", err)
	}

	res, err := s.ES.Search(
		s.ES.Search.WithContext(ctx),
		s.ES.Search.WithIndex(s.Index),
		s.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search jobs: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, nil, fmt.Errorf("search jobs: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Job `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	jobs := make([]models.Job, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		jobs[i] = hit.Source
	}
	return r.Hits.Total.Value, jobs, nil
}
