package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarthr/portal/internal/ai"
	"github.com/smarthr/portal/internal/hash"
	"github.com/smarthr/portal/internal/models"
	"github.com/smarthr/portal/internal/repo"
	"github.com/smarthr/portal/internal/service"
	"github.com/smarthr/portal/internal/transport"
)

type stubAnalyzer struct{}

func (stubAnalyzer) AnalyzeRecording(ctx context.Context, req ai.AnalyzeRequest) (*ai.Analysis, error) {
	score := 0.5
	return &ai.Analysis{PredictionScore: &score}, nil
}

func (stubAnalyzer) GenerateQuestions(ctx context.Context, req ai.QuestionsRequest) ([]transport.GeneratedQuestion, error) {
	return []transport.GeneratedQuestion{{Category: "technical", Question: "What is a goroutine?"}}, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *repo.GormRepo) {
	t.Helper()

	r := &repo.GormRepo{DB: initTestDB(t)}
	jwtSecret := []byte("test-jwt-secret")

	authSvc := &service.AuthService{
		Repo:          r,
		JWTSecret:     jwtSecret,
		RefreshSecret: []byte("test-refresh-secret"),
	}

	e := echo.New()
	e.Pre(echomw.RemoveTrailingSlash())
	Register(e, &Deps{
		Auth:        &AuthHTTP{Svc: authSvc},
		Company:     &CompanyHTTP{Svc: &service.CompanyService{Repo: r}},
		Department:  &DepartmentHTTP{Svc: &service.DepartmentService{Repo: r}},
		Job:         &JobHTTP{Svc: &service.JobService{Repo: r}},
		Application: &ApplicationHTTP{Svc: &service.ApplicationService{Repo: r}, UploadDir: t.TempDir()},
		Interview:   &InterviewHTTP{Svc: &service.InterviewService{Repo: r, AI: stubAnalyzer{}}, UploadDir: t.TempDir()},
		Predicted:   &PredictedHTTP{Svc: &service.PredictedService{Repo: r}},
		JWTSecret:   jwtSecret,
	})

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv, r
}

// loginAs seeds a user with the given role and returns a live access token.
func loginAs(t *testing.T, srv *httptest.Server, r *repo.GormRepo, username, role string) string {
	t.Helper()

	pwHash, err := hash.HashPassword("Secret123")
	require.NoError(t, err)
	require.NoError(t, r.DB.Create(&models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: pwHash,
		Role:         role,
	}).Error)

	body, _ := json.Marshal(map[string]string{"username": username, "password": "Secret123"})
	resp, err := http.Post(srv.URL+"/auth/jwt/create/", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	require.NotEmpty(t, res["access"])
	return res["access"]
}

func doRequest(t *testing.T, method, url, token string, payload any) (*http.Response, []byte) {
	t.Helper()

	var rd io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestRouter_PublicJobBoardNeedsNoToken(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	resp, _ := doRequest(t, http.MethodGet, srv.URL+"/api/job/", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_JobSearchWithoutIndexAnswers503(t *testing.T) {
	t.Parallel()

	// newTestServer wires no job index, the same shape as a deployment
	// without Elasticsearch.
	srv, _ := newTestServer(t)

	resp, _ := doRequest(t, http.MethodGet, srv.URL+"/api/job/search/?q=go", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestRouter_ProtectedRoutesRequireRole(t *testing.T) {
	t.Parallel()

	srv, r := newTestServer(t)
	payload := map[string]string{"name": "Acme", "slug": "acme"}

	resp, _ := doRequest(t, http.MethodPost, srv.URL+"/api/company/", "", payload)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "no token")

	resp, _ = doRequest(t, http.MethodPost, srv.URL+"/api/company/", "not-a-jwt", payload)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "malformed token")

	userToken := loginAs(t, srv, r, "bob", models.RoleUser)
	resp, _ = doRequest(t, http.MethodPost, srv.URL+"/api/company/", userToken, payload)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "plain user role")

	recruiterToken := loginAs(t, srv, r, "rita", models.RoleRecruiter)
	resp, _ = doRequest(t, http.MethodPost, srv.URL+"/api/company/", recruiterToken, payload)
	assert.Equal(t, http.StatusCreated, resp.StatusCode, "recruiter role")
}

func TestRouter_CompanyCRUD(t *testing.T) {
	t.Parallel()

	srv, r := newTestServer(t)
	token := loginAs(t, srv, r, "rita", models.RoleRecruiter)

	resp, data := doRequest(t, http.MethodPost, srv.URL+"/api/company/", token,
		map[string]string{"name": "Acme", "slug": "acme"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var company models.Company
	require.NoError(t, json.Unmarshal(data, &company))
	require.NotZero(t, company.ID)

	url := fmt.Sprintf("%s/api/company/%d/", srv.URL, company.ID)

	resp, data = doRequest(t, http.MethodPatch, url, token, map[string]string{"name": "Acme Corp"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(data, &company))
	assert.Equal(t, "Acme Corp", company.Name)

	resp, data = doRequest(t, http.MethodGet, url, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(data, &company))
	assert.Equal(t, "acme", company.Slug)

	resp, _ = doRequest(t, http.MethodDelete, url, token, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doRequest(t, http.MethodGet, url, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_InterviewLifecycle(t *testing.T) {
	t.Parallel()

	srv, r := newTestServer(t)
	token := loginAs(t, srv, r, "rita", models.RoleRecruiter)
	ctx := context.Background()

	// Seed a job and an application through the repo.
	company := models.Company{Name: "Acme", Slug: "acme"}
	require.NoError(t, r.CreateCompany(ctx, &company))
	department := models.Department{Title: "Engineering", Slug: "engineering"}
	require.NoError(t, r.CreateDepartment(ctx, &department))
	job, err := r.CreateJob(ctx, &models.Job{
		Title: "Backend Engineer", Location: "Remote",
		Responsiblities: "Build services", Qualification: "Go",
		CompanyID: company.ID, DepartmentID: department.ID,
	})
	require.NoError(t, err)
	applied, err := r.StatusBySlug(ctx, models.StatusApplied)
	require.NoError(t, err)
	app, err := r.CreateApplication(ctx, &models.Application{
		Name: "Bob", Email: "bob@example.com", Residence: "Berlin",
		JobID: job.ID, StatusID: applied.ID,
	})
	require.NoError(t, err)

	resp, data := doRequest(t, http.MethodPost, srv.URL+"/api/interview/", token,
		map[string]any{"application_id": app.ID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var interview models.Interview
	require.NoError(t, json.Unmarshal(data, &interview))
	assert.Equal(t, models.ResultPending, interview.Result.Slug)

	// Analyzing without a recording is rejected.
	url := fmt.Sprintf("%s/api/interview/%d/analyze-recording/", srv.URL, interview.ID)
	resp, _ = doRequest(t, http.MethodPost, url, token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	require.NoError(t, r.SetInterviewVideo(ctx, interview.ID, "uploads/video.mp4"))
	resp, _ = doRequest(t, http.MethodPost, url, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The stub analyzer scored the candidate, so a prediction appeared.
	resp, data = doRequest(t, http.MethodGet, srv.URL+"/api/predicted-candidates/", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var predicted []models.PredictedCandidate
	require.NoError(t, json.Unmarshal(data, &predicted))
	require.Len(t, predicted, 1)

	evalURL := fmt.Sprintf("%s/api/predicted-candidates/%d/evaluate/", srv.URL, predicted[0].ID)
	resp, data = doRequest(t, http.MethodPost, evalURL, token, map[string]any{
		"evaluation_data": map[string]any{
			"questions": []map[string]any{
				{"question": "Problem solving", "score": 8, "category": "technical"},
				{"question": "Communication", "score": 6, "category": "behavioral"},
			},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result transport.EvaluationResult
	require.NoError(t, json.Unmarshal(data, &result))
	assert.True(t, result.Success)
	assert.Equal(t, models.StatusEvaluated, result.Status)
	assert.InDelta(t, 7.0, result.AverageScore, 1e-9)
}
