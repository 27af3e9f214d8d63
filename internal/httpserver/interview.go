package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/smarthr/portal/internal/logging"
	"github.com/smarthr/portal/internal/service"
	"github.com/smarthr/portal/internal/transport"
)

type InterviewHTTP struct {
	Svc       *service.InterviewService
	UploadDir string
}

func (h *InterviewHTTP) GetInterview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "interview.get")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	interview, err := h.Svc.GetInterview(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("get_interview_failed", "status", 404, "reason", "interview not found")
			return echo.NewHTTPError(http.StatusNotFound, "interview not found")
		}
		l.Error("get_interview_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get interview")
	}

	return c.JSON(http.StatusOK, interview)
}

func (h *InterviewHTTP) GetInterviews(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "interview.list")

	items, err := h.Svc.GetInterviews(ctx)
	if err != nil {
		l.Error("get_interviews_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get interviews")
	}

	return c.JSON(http.StatusOK, items)
}

func (h *InterviewHTTP) CreateInterview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "interview.create")

	var req transport.InterviewRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("interview_create_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	interview, err := h.Svc.CreateInterview(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("interview_create_error", "status", 400, "reason", "invalid body", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("interview_create_error", "status", 404, "reason", "application not found")
			return echo.NewHTTPError(http.StatusNotFound, "application not found")
		}
		l.Error("interview_create_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create interview")
	}

	l.Info("create_interview_success")
	return c.JSON(http.StatusCreated, interview)
}

func (h *InterviewHTTP) PatchInterview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "interview.patch")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req transport.InterviewPatchRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("interview_patch_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	interview, err := h.Svc.PatchInterview(ctx, req, id)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("interview_patch_error", "status", 400, "reason", "unknown result")
			return echo.NewHTTPError(http.StatusBadRequest, "unknown result")
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("interview_patch_error", "status", 404, "reason", "interview not found")
			return echo.NewHTTPError(http.StatusNotFound, "interview not found")
		}
		l.Error("interview_patch_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update interview")
	}

	return c.JSON(http.StatusOK, interview)
}

func (h *InterviewHTTP) DeleteInterview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "interview.delete")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.DeleteInterview(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("interview_delete_error", "status", 404, "reason", "interview not found")
			return echo.NewHTTPError(http.StatusNotFound, "interview not found")
		}
		l.Error("interview_delete_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete interview")
	}

	return c.NoContent(http.StatusNoContent)
}

// UploadRecording attaches the interview video needed by AnalyzeRecording.
func (h *InterviewHTTP) UploadRecording(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "interview.upload_recording")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	path, err := saveUpload(c, "video", h.UploadDir)
	if err != nil {
		l.Error("upload_recording_error", "status", 500, "reason", "cannot store video", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot store video")
	}
	if path == nil {
		l.Warn("upload_recording_error", "status", 400, "reason", "missing video file")
		return echo.NewHTTPError(http.StatusBadRequest, "missing video file")
	}

	interview, err := h.Svc.AttachRecording(ctx, id, *path)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("upload_recording_error", "status", 404, "reason", "interview not found")
			return echo.NewHTTPError(http.StatusNotFound, "interview not found")
		}
		l.Error("upload_recording_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot attach recording")
	}

	return c.JSON(http.StatusOK, interview)
}

func (h *InterviewHTTP) AnalyzeRecording(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "interview.analyze_recording")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	interview, err := h.Svc.AnalyzeRecording(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("analyze_recording_error", "status", 400, "reason", "no recording attached")
			return echo.NewHTTPError(http.StatusBadRequest, "no recording attached")
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("analyze_recording_error", "status", 404, "reason", "interview not found")
			return echo.NewHTTPError(http.StatusNotFound, "interview not found")
		}
		l.Error("analyze_recording_error", "status", 502, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "analysis failed")
	}

	l.Info("analyze_recording_success")
	return c.JSON(http.StatusOK, interview)
}

func (h *InterviewHTTP) GenerateQuestions(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "interview.generate_questions")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	result, err := h.Svc.GenerateQuestions(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("generate_questions_error", "status", 404, "reason", "interview not found")
			return echo.NewHTTPError(http.StatusNotFound, "interview not found")
		}
		l.Error("generate_questions_error", "status", 502, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "question generation failed")
	}

	return c.JSON(http.StatusOK, result)
}
