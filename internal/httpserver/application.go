package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/smarthr/portal/internal/logging"
	"github.com/smarthr/portal/internal/service"
	"github.com/smarthr/portal/internal/transport"
)

type ApplicationHTTP struct {
	Svc       *service.ApplicationService
	UploadDir string
}

func (h *ApplicationHTTP) GetApplication(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "application.get")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	app, err := h.Svc.GetApplication(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("get_application_failed", "status", 404, "reason", "application not found")
			return echo.NewHTTPError(http.StatusNotFound, "application not found")
		}
		l.Error("get_application_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get application")
	}

	return c.JSON(http.StatusOK, app)
}

func (h *ApplicationHTTP) GetApplications(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "application.list")

	items, err := h.Svc.GetApplications(ctx)
	if err != nil {
		l.Error("get_applications_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get applications")
	}

	return c.JSON(http.StatusOK, items)
}

// CreateApplication accepts a multipart form so candidates can attach a
// resume file alongside the application fields.
func (h *ApplicationHTTP) CreateApplication(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "application.create")

	jobID, err := strconv.ParseUint(c.FormValue("job_id"), 10, 64)
	if err != nil {
		l.Warn("application_create_error", "status", 400, "reason", "job_id is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "job_id is not an integer")
	}

	resumePath, err := saveUpload(c, "resume", h.UploadDir)
	if err != nil {
		l.Error("application_create_error", "status", 500, "reason", "cannot store resume", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot store resume")
	}

	app, err := h.Svc.CreateApplication(ctx, service.ApplicationInput{
		Name:        c.FormValue("name"),
		Email:       c.FormValue("email"),
		Residence:   c.FormValue("residence"),
		CoverLetter: c.FormValue("cover_letter"),
		JobID:       uint(jobID),
		ResumePath:  resumePath,
	})
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("application_create_error", "status", 400, "reason", "invalid form", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
		}
		l.Error("application_create_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create application")
	}

	l.Info("create_application_success")
	return c.JSON(http.StatusCreated, app)
}

func (h *ApplicationHTTP) PatchApplication(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "application.patch")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req transport.ApplicationPatchRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("application_patch_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	app, err := h.Svc.PatchApplication(ctx, req, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("application_patch_error", "status", 404, "reason", "application not found")
			return echo.NewHTTPError(http.StatusNotFound, "application not found")
		}
		l.Error("application_patch_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update application")
	}

	return c.JSON(http.StatusOK, app)
}

func (h *ApplicationHTTP) DeleteApplication(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "application.delete")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.DeleteApplication(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("application_delete_error", "status", 404, "reason", "application not found")
			return echo.NewHTTPError(http.StatusNotFound, "application not found")
		}
		l.Error("application_delete_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete application")
	}

	return c.NoContent(http.StatusNoContent)
}
