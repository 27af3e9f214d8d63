package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/smarthr/portal/internal/logging"
	"github.com/smarthr/portal/internal/repo"
	"github.com/smarthr/portal/internal/service"
	"github.com/smarthr/portal/internal/transport"
)

type JobHTTP struct {
	Svc *service.JobService
}

// userID returns the authenticated user id set by the auth middleware, or nil
// on public routes.
func userID(c echo.Context) *uint {
	sub, ok := c.Get("user_id").(string)
	if !ok || sub == "" {
		return nil
	}
	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return nil
	}
	uid := uint(id)
	return &uid
}

func (h *JobHTTP) GetJob(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "job.get")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	job, err := h.Svc.GetJob(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("get_job_failed", "status", 404, "reason", "job not found")
			return echo.NewHTTPError(http.StatusNotFound, "job not found")
		}
		l.Error("get_job_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get job")
	}

	return c.JSON(http.StatusOK, job)
}

func (h *JobHTTP) GetJobs(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "job.list")

	filter := repo.JobFilter{
		CompanySlug:    c.QueryParam("company"),
		DepartmentSlug: c.QueryParam("department"),
	}

	items, err := h.Svc.GetJobs(ctx, filter)
	if err != nil {
		l.Error("get_jobs_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get jobs")
	}

	return c.JSON(http.StatusOK, items)
}

func (h *JobHTTP) SearchJobs(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "job.search")

	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing query")
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), 20)
	if page < 1 {
		page = 1
	}

	total, items, err := h.Svc.SearchJobs(ctx, query, (page-1)*size, size)
	if err != nil {
		if errors.Is(err, service.ErrSearchUnavailable) {
			l.Warn("search_jobs_failed", "status", 503, "reason", "search unavailable")
			return echo.NewHTTPError(http.StatusServiceUnavailable, "job search unavailable")
		}
		l.Error("search_jobs_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot search jobs")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":  page,
			"size":  size,
			"total": total,
		},
	})
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func (h *JobHTTP) CreateJob(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "job.create")

	var req transport.JobRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("job_create_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	job, err := h.Svc.CreateJob(ctx, req, userID(c))
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("job_create_error", "status", 400, "reason", "invalid body", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
		}
		l.Error("job_create_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create job")
	}

	l.Info("create_job_success")
	return c.JSON(http.StatusCreated, job)
}

func (h *JobHTTP) PatchJob(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "job.patch")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req transport.JobPatchRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("job_patch_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	job, err := h.Svc.PatchJob(ctx, req, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("job_patch_error", "status", 404, "reason", "job not found")
			return echo.NewHTTPError(http.StatusNotFound, "job not found")
		}
		l.Error("job_patch_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update job")
	}

	return c.JSON(http.StatusOK, job)
}

func (h *JobHTTP) DeleteJob(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "job.delete")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.DeleteJob(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("job_delete_error", "status", 404, "reason", "job not found")
			return echo.NewHTTPError(http.StatusNotFound, "job not found")
		}
		l.Error("job_delete_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete job")
	}

	return c.NoContent(http.StatusNoContent)
}
