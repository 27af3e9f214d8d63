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

type PredictedHTTP struct {
	Svc *service.PredictedService
}

func (h *PredictedHTTP) GetPredicted(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "predicted.get")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	candidate, err := h.Svc.GetPredicted(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("get_predicted_failed", "status", 404, "reason", "predicted candidate not found")
			return echo.NewHTTPError(http.StatusNotFound, "predicted candidate not found")
		}
		l.Error("get_predicted_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get predicted candidate")
	}

	return c.JSON(http.StatusOK, candidate)
}

func (h *PredictedHTTP) GetPredictedList(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "predicted.list")

	items, err := h.Svc.GetPredictedList(ctx)
	if err != nil {
		l.Error("get_predicted_list_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get predicted candidates")
	}

	return c.JSON(http.StatusOK, items)
}

func (h *PredictedHTTP) Evaluate(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "predicted.evaluate")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req transport.EvaluationRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("evaluate_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	result, err := h.Svc.Evaluate(ctx, id, req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("evaluate_error", "status", 400, "reason", "invalid evaluation data")
			return echo.NewHTTPError(http.StatusBadRequest, "invalid evaluation data")
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("evaluate_error", "status", 404, "reason", "predicted candidate not found")
			return echo.NewHTTPError(http.StatusNotFound, "predicted candidate not found")
		}
		l.Error("evaluate_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot save evaluation")
	}

	l.Info("evaluate_success")
	return c.JSON(http.StatusOK, result)
}

func (h *PredictedHTTP) DeletePredicted(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "predicted.delete")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.DeletePredicted(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("predicted_delete_error", "status", 404, "reason", "predicted candidate not found")
			return echo.NewHTTPError(http.StatusNotFound, "predicted candidate not found")
		}
		l.Error("predicted_delete_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete predicted candidate")
	}

	return c.NoContent(http.StatusNoContent)
}
