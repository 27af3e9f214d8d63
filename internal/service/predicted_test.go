package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarthr/portal/internal/ai"
	"github.com/smarthr/portal/internal/models"
	"github.com/smarthr/portal/internal/repo"
	"github.com/smarthr/portal/internal/transport"
)

func newPredictedEnv(t *testing.T) (*PredictedService, *repo.GormRepo, *models.PredictedCandidate) {
	t.Helper()
	ctx := context.Background()

	score := 0.8
	interviewSvc, r, app := newInterviewEnv(t, &fakeAnalyzer{analysis: &ai.Analysis{PredictionScore: &score}})

	interview, err := interviewSvc.CreateInterview(ctx, transport.InterviewRequest{ApplicationID: app.ID})
	require.NoError(t, err)
	require.NoError(t, r.SetInterviewVideo(ctx, interview.ID, "uploads/video.mp4"))
	_, err = interviewSvc.AnalyzeRecording(ctx, interview.ID)
	require.NoError(t, err)

	predicted, err := r.GetPredictedList(ctx)
	require.NoError(t, err)
	require.Len(t, predicted, 1)

	return &PredictedService{Repo: r}, r, &predicted[0]
}

func TestPredictedService_Evaluate_AveragesScores(t *testing.T) {
	t.Parallel()

	svc, r, candidate := newPredictedEnv(t)
	ctx := context.Background()

	result, err := svc.Evaluate(ctx, candidate.ID, transport.EvaluationRequest{
		EvaluationData: transport.Evaluation{
			Questions: []transport.EvaluationQuestion{
				{Question: "Problem solving", Score: 8, Category: "technical"},
				{Question: "Communication", Score: 6, Category: "behavioral"},
				{Question: "Ownership", Score: 7, Category: "behavioral"},
			},
			Comments: "solid",
		},
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, models.StatusEvaluated, result.Status)
	assert.InDelta(t, 7.0, result.AverageScore, 1e-9)

	stored, err := r.GetPredicted(ctx, candidate.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusEvaluated, stored.Status.Slug)
	require.NotNil(t, stored.EvaluationScore)
	assert.InDelta(t, 7.0, *stored.EvaluationScore, 1e-9)
	assert.NotEmpty(t, stored.EvaluationData)
}

func TestPredictedService_Evaluate_Validation(t *testing.T) {
	t.Parallel()

	svc, _, candidate := newPredictedEnv(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		questions []transport.EvaluationQuestion
	}{
		{name: "no questions", questions: nil},
		{name: "score above range", questions: []transport.EvaluationQuestion{{Question: "q", Score: 11}}},
		{name: "negative score", questions: []transport.EvaluationQuestion{{Question: "q", Score: -1}}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Evaluate(ctx, candidate.ID, transport.EvaluationRequest{
				EvaluationData: transport.Evaluation{Questions: tt.questions},
			})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestPredictedService_Delete(t *testing.T) {
	t.Parallel()

	svc, r, candidate := newPredictedEnv(t)
	ctx := context.Background()

	require.NoError(t, svc.DeletePredicted(ctx, candidate.ID))

	list, err := r.GetPredictedList(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	err = svc.DeletePredicted(ctx, candidate.ID)
	require.Error(t, err)
}
