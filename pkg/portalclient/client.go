// Package portalclient is the Go client for the recruiting portal API. It
// owns the session lifecycle (login, silent refresh through the HttpOnly
// refresh cookie, logout), transparently retries a request once after a
// 401, and keeps a query cache whose entries are invalidated along the
// entity dependency graph after every successful mutation.
package portalclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// DefaultTimeout bounds every request. The API has no long-polling
// endpoints; recording analysis is the slowest call and finishes well
// inside this.
const DefaultTimeout = 30 * time.Second

type Config struct {
	BaseURL string
	Prefs   PreferenceStore

	// Timeout defaults to DefaultTimeout when zero.
	Timeout time.Duration
	// Transport overrides the base transport, mainly for tests.
	Transport http.RoundTripper
	Logger    *slog.Logger
}

type Client struct {
	baseURL string
	session *Session
	cache   *QueryCache
	log     *slog.Logger

	// httpClient carries the bearer-injecting, retry-once transport.
	// refreshClient is a plain client sharing the same cookie jar, used
	// for the auth endpoints so a 401 there can never recurse into
	// another refresh.
	httpClient    *http.Client
	refreshClient *http.Client
}

func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("portalclient: BaseURL is required")
	}
	if cfg.Prefs == nil {
		return nil, fmt.Errorf("portalclient: Prefs is required")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	base := cfg.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL: cfg.BaseURL,
		session: NewSession(cfg.Prefs),
		cache:   NewQueryCache(),
		log:     log,
		refreshClient: &http.Client{
			Jar:       jar,
			Timeout:   timeout,
			Transport: base,
		},
	}
	c.httpClient = &http.Client{
		Jar:     jar,
		Timeout: timeout,
		Transport: &authTransport{
			base:    base,
			session: c.session,
			refresh: c.refresh,
		},
	}
	return c, nil
}

// Session exposes the read-only view of the current session state.
func (c *Client) Session() *Session { return c.session }

// Cache exposes the query cache, mainly so callers can observe staleness.
func (c *Client) Cache() *QueryCache { return c.cache }

func (c *Client) SetRememberMe(v bool) error { return c.session.SetRememberMe(v) }

// Signup registers a new account. No session is established; the caller
// logs in afterwards.
func (c *Client) Signup(ctx context.Context, in SignupInput) (*SignupResult, error) {
	resp, err := c.doPlain(ctx, http.MethodPost, "/auth/users/", in)
	if err != nil {
		return nil, err
	}
	res, err := decodeJSON[SignupResult](resp)
	if err != nil {
		return nil, err
	}
	if err := res.validate(); err != nil {
		return nil, err
	}
	return res, nil
}

// ForgotPassword starts a password reset for email. The server answers the
// same whether or not the address is known.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	resp, err := c.doPlain(ctx, http.MethodPost, "/auth/users/reset_password/", map[string]string{"email": email})
	if err != nil {
		return err
	}
	return drainNoContent(resp)
}

// ResetPassword completes a reset with the token the user received.
func (c *Client) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	resp, err := c.doPlain(ctx, http.MethodPost, "/auth/users/reset_password_confirm/", in)
	if err != nil {
		return err
	}
	return drainNoContent(resp)
}

// Login authenticates and populates the session. The server sets the
// refresh cookie on this response; the cookie jar keeps it for later
// silent refreshes.
func (c *Client) Login(ctx context.Context, username, password string) error {
	body := map[string]string{"username": username, "password": password}
	resp, err := c.doPlain(ctx, http.MethodPost, "/auth/jwt/create/", body)
	if err != nil {
		return err
	}
	res, err := decodeJSON[loginResponse](resp)
	if err != nil {
		return err
	}
	if err := res.validate(); err != nil {
		return err
	}

	c.session.Set(res.Access, res.Role, username)
	return nil
}

// Logout clears the session first, then tells the server to drop the
// refresh cookie. The local session is gone even if the network call
// fails.
func (c *Client) Logout(ctx context.Context) {
	c.session.Clear()

	resp, err := c.doPlain(ctx, http.MethodPost, "/auth/logout/", nil)
	if err != nil {
		c.log.Warn("logout request failed", "error", err)
		return
	}
	resp.Body.Close()
}

// RestoreSession is called once at startup. With rememberMe unset it
// resolves immediately without touching the network; otherwise it attempts
// one silent refresh, since the in-memory token is always empty after a
// restart.
func (c *Client) RestoreSession(ctx context.Context) error {
	if !c.session.RememberMe() {
		return nil
	}
	return c.refresh(ctx)
}

// refresh exchanges the ambient refresh cookie for a new access token. A
// mid-session refresh keeps the current identity; after a cold restore the
// identity is simply empty, since only the token and role come back over
// the wire. Any failure clears the whole session so no partial
// authenticated state can survive.
func (c *Client) refresh(ctx context.Context) error {
	resp, err := c.doPlain(ctx, http.MethodPost, "/auth/jwt/refresh/", nil)
	if err != nil {
		c.session.Clear()
		return err
	}
	res, err := decodeJSON[loginResponse](resp)
	if err != nil {
		c.session.Clear()
		return err
	}
	if err := res.validate(); err != nil {
		c.session.Clear()
		return err
	}

	c.session.Set(res.Access, res.Role, c.session.Identity())
	return nil
}

// Companies

func (c *Client) Companies(ctx context.Context) ([]Company, error) {
	return listCached(ctx, c, EntityCompany, (*Company).validate)
}

func (c *Client) Company(ctx context.Context, id uint) (*Company, error) {
	return getCached(ctx, c, EntityCompany, id, (*Company).validate)
}

func (c *Client) CreateCompany(ctx context.Context, in CompanyInput) (*Company, error) {
	return mutate(ctx, c, http.MethodPost, entityPath(EntityCompany, 0), in, MutationCompanyWrite, (*Company).validate)
}

func (c *Client) UpdateCompany(ctx context.Context, id uint, in CompanyInput) (*Company, error) {
	return mutate(ctx, c, http.MethodPatch, entityPath(EntityCompany, id), in, MutationCompanyWrite, (*Company).validate)
}

func (c *Client) DeleteCompany(ctx context.Context, id uint) error {
	return mutateNoContent(ctx, c, entityPath(EntityCompany, id), MutationCompanyWrite)
}

// Departments

func (c *Client) Departments(ctx context.Context) ([]Department, error) {
	return listCached(ctx, c, EntityDepartment, (*Department).validate)
}

func (c *Client) Department(ctx context.Context, id uint) (*Department, error) {
	return getCached(ctx, c, EntityDepartment, id, (*Department).validate)
}

func (c *Client) CreateDepartment(ctx context.Context, in DepartmentInput) (*Department, error) {
	return mutate(ctx, c, http.MethodPost, entityPath(EntityDepartment, 0), in, MutationDepartmentWrite, (*Department).validate)
}

func (c *Client) UpdateDepartment(ctx context.Context, id uint, in DepartmentInput) (*Department, error) {
	return mutate(ctx, c, http.MethodPatch, entityPath(EntityDepartment, id), in, MutationDepartmentWrite, (*Department).validate)
}

func (c *Client) DeleteDepartment(ctx context.Context, id uint) error {
	return mutateNoContent(ctx, c, entityPath(EntityDepartment, id), MutationDepartmentWrite)
}

// Jobs

func (c *Client) Jobs(ctx context.Context) ([]Job, error) {
	return listCached(ctx, c, EntityJob, (*Job).validate)
}

func (c *Client) Job(ctx context.Context, id uint) (*Job, error) {
	return getCached(ctx, c, EntityJob, id, (*Job).validate)
}

func (c *Client) CreateJob(ctx context.Context, in JobInput) (*Job, error) {
	return mutate(ctx, c, http.MethodPost, entityPath(EntityJob, 0), in, MutationJobWrite, (*Job).validate)
}

func (c *Client) UpdateJob(ctx context.Context, id uint, in JobInput) (*Job, error) {
	return mutate(ctx, c, http.MethodPatch, entityPath(EntityJob, id), in, MutationJobWrite, (*Job).validate)
}

func (c *Client) DeleteJob(ctx context.Context, id uint) error {
	return mutateNoContent(ctx, c, entityPath(EntityJob, id), MutationJobWrite)
}

// Applications

func (c *Client) Applications(ctx context.Context) ([]Application, error) {
	return listCached(ctx, c, EntityApplication, (*Application).validate)
}

func (c *Client) Application(ctx context.Context, id uint) (*Application, error) {
	return getCached(ctx, c, EntityApplication, id, (*Application).validate)
}

// SubmitApplication posts a multipart form so the resume file can travel
// with the application fields.
func (c *Client) SubmitApplication(ctx context.Context, in ApplicationInput) (*Application, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"name":         in.Name,
		"email":        in.Email,
		"residence":    in.Residence,
		"cover_letter": in.CoverLetter,
		"job_id":       strconv.FormatUint(uint64(in.JobID), 10),
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, err
		}
	}
	if in.ResumePath != "" {
		f, err := os.Open(in.ResumePath)
		if err != nil {
			return nil, err
		}
		part, err := w.CreateFormFile("resume", filepath.Base(in.ResumePath))
		if err == nil {
			_, err = io.Copy(part, f)
		}
		f.Close()
		if err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+entityPath(EntityApplication, 0), bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	app, err := decodeJSON[Application](resp)
	if err != nil {
		return nil, err
	}
	if err := app.validate(); err != nil {
		return nil, err
	}
	c.cache.Invalidate(MutationApplicationWrite)
	return app, nil
}

func (c *Client) DeleteApplication(ctx context.Context, id uint) error {
	return mutateNoContent(ctx, c, entityPath(EntityApplication, id), MutationApplicationWrite)
}

// Interviews

func (c *Client) Interviews(ctx context.Context) ([]Interview, error) {
	return listCached(ctx, c, EntityInterview, (*Interview).validate)
}

func (c *Client) Interview(ctx context.Context, id uint) (*Interview, error) {
	return getCached(ctx, c, EntityInterview, id, (*Interview).validate)
}

func (c *Client) ScheduleInterview(ctx context.Context, in InterviewInput) (*Interview, error) {
	return mutate(ctx, c, http.MethodPost, entityPath(EntityInterview, 0), in, MutationInterviewWrite, (*Interview).validate)
}

func (c *Client) UpdateInterview(ctx context.Context, id uint, in InterviewPatch) (*Interview, error) {
	return mutate(ctx, c, http.MethodPatch, entityPath(EntityInterview, id), in, MutationInterviewWrite, (*Interview).validate)
}

func (c *Client) DeleteInterview(ctx context.Context, id uint) error {
	return mutateNoContent(ctx, c, entityPath(EntityInterview, id), MutationInterviewWrite)
}

func (c *Client) AnalyzeRecording(ctx context.Context, id uint) (*Interview, error) {
	path := entityPath(EntityInterview, id) + "analyze-recording/"
	return mutate(ctx, c, http.MethodPost, path, nil, MutationInterviewAnalysis, (*Interview).validate)
}

func (c *Client) GenerateQuestions(ctx context.Context, id uint) (*GenerateQuestionsResult, error) {
	path := entityPath(EntityInterview, id) + "generate-questions/"
	return mutate[GenerateQuestionsResult](ctx, c, http.MethodPost, path, nil, MutationInterviewAnalysis, nil)
}

// Predicted candidates

func (c *Client) PredictedCandidates(ctx context.Context) ([]PredictedCandidate, error) {
	return listCached(ctx, c, EntityPredicted, (*PredictedCandidate).validate)
}

func (c *Client) PredictedCandidate(ctx context.Context, id uint) (*PredictedCandidate, error) {
	return getCached(ctx, c, EntityPredicted, id, (*PredictedCandidate).validate)
}

func (c *Client) Evaluate(ctx context.Context, id uint, in EvaluationInput) (*EvaluationResult, error) {
	path := entityPath(EntityPredicted, id) + "evaluate/"
	body := map[string]any{"evaluation_data": in}
	return mutate[EvaluationResult](ctx, c, http.MethodPost, path, body, MutationPredictedWrite, nil)
}

func (c *Client) DeletePredictedCandidate(ctx context.Context, id uint) error {
	return mutateNoContent(ctx, c, entityPath(EntityPredicted, id), MutationPredictedWrite)
}

// Plumbing

func entityPath(entity Entity, id uint) string {
	if id == 0 {
		return "/api/" + string(entity) + "/"
	}
	return fmt.Sprintf("/api/%s/%d/", entity, id)
}

// do issues a request through the authenticated pipeline.
func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	return send(ctx, c.httpClient, c.baseURL+path, method, body)
}

// doPlain bypasses the bearer/retry transport; only the auth endpoints use
// it.
func (c *Client) doPlain(ctx context.Context, method, path string, body any) (*http.Response, error) {
	return send(ctx, c.refreshClient, c.baseURL+path, method, body)
}

func send(ctx context.Context, hc *http.Client, url, method string, body any) (*http.Response, error) {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, rd)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return hc.Do(req)
}

func decodeJSON[T any](resp *http.Response) (*T, error) {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apiError(resp)
	}

	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		return nil, ErrValidation
	}
	return &v, nil
}

func drainNoContent(resp *http.Response) error {
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError(resp)
	}
	return nil
}

func apiError(resp *http.Response) error {
	var payload struct {
		Message string `json:"message"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	return &APIError{StatusCode: resp.StatusCode, Message: payload.Message}
}

func listCached[T any](ctx context.Context, c *Client, entity Entity, validate func(*T) error) ([]T, error) {
	key := QueryKey{Entity: entity}
	if v, fresh := c.cache.Get(key); fresh {
		if items, ok := v.([]T); ok {
			return items, nil
		}
	}

	resp, err := c.do(ctx, http.MethodGet, entityPath(entity, 0), nil)
	if err != nil {
		return nil, err
	}
	items, err := decodeJSON[[]T](resp)
	if err != nil {
		return nil, err
	}
	for i := range *items {
		if err := validate(&(*items)[i]); err != nil {
			return nil, err
		}
	}

	c.cache.Put(key, *items)
	return *items, nil
}

func getCached[T any](ctx context.Context, c *Client, entity Entity, id uint, validate func(*T) error) (*T, error) {
	key := QueryKey{Entity: entity, ID: id}
	if v, fresh := c.cache.Get(key); fresh {
		if item, ok := v.(*T); ok {
			return item, nil
		}
	}

	resp, err := c.do(ctx, http.MethodGet, entityPath(entity, id), nil)
	if err != nil {
		return nil, err
	}
	item, err := decodeJSON[T](resp)
	if err != nil {
		return nil, err
	}
	if err := validate(item); err != nil {
		return nil, err
	}

	c.cache.Put(key, item)
	return item, nil
}

func mutate[T any](ctx context.Context, c *Client, method, path string, body any, m Mutation, validate func(*T) error) (*T, error) {
	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	out, err := decodeJSON[T](resp)
	if err != nil {
		return nil, err
	}
	if validate != nil {
		if err := validate(out); err != nil {
			return nil, err
		}
	}

	c.cache.Invalidate(m)
	return out, nil
}

func mutateNoContent(ctx context.Context, c *Client, path string, m Mutation) error {
	resp, err := c.do(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError(resp)
	}

	c.cache.Invalidate(m)
	return nil
}
