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

type DepartmentHTTP struct {
	Svc *service.DepartmentService
}

func (h *DepartmentHTTP) GetDepartment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "department.get")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	department, err := h.Svc.GetDepartment(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("get_department_failed", "status", 404, "reason", "department not found")
			return echo.NewHTTPError(http.StatusNotFound, "department not found")
		}
		l.Error("get_department_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get department")
	}

	return c.JSON(http.StatusOK, department)
}

func (h *DepartmentHTTP) GetDepartments(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "department.list")

	items, err := h.Svc.GetDepartments(ctx)
	if err != nil {
		l.Error("get_departments_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get departments")
	}

	return c.JSON(http.StatusOK, items)
}

func (h *DepartmentHTTP) CreateDepartment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "department.create")

	var req transport.DepartmentRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("department_create_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	department, err := h.Svc.CreateDepartment(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("department_create_error", "status", 400, "reason", "invalid body", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
		}
		l.Error("department_create_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create department")
	}

	l.Info("create_department_success")
	return c.JSON(http.StatusCreated, department)
}

func (h *DepartmentHTTP) PatchDepartment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "department.patch")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req transport.DepartmentPatchRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("department_patch_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	department, err := h.Svc.PatchDepartment(ctx, req, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("department_patch_error", "status", 404, "reason", "department not found")
			return echo.NewHTTPError(http.StatusNotFound, "department not found")
		}
		l.Error("department_patch_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update department")
	}

	return c.JSON(http.StatusOK, department)
}

func (h *DepartmentHTTP) DeleteDepartment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "department.delete")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.DeleteDepartment(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("department_delete_error", "status", 404, "reason", "department not found")
			return echo.NewHTTPError(http.StatusNotFound, "department not found")
		}
		l.Error("department_delete_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete department")
	}

	return c.NoContent(http.StatusNoContent)
}
