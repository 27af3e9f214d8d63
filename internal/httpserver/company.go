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

type CompanyHTTP struct {
	Svc *service.CompanyService
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}
	return uint(id), nil
}

func (h *CompanyHTTP) GetCompany(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "company.get")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	company, err := h.Svc.GetCompany(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("get_company_failed", "status", 404, "reason", "company not found")
			return echo.NewHTTPError(http.StatusNotFound, "company not found")
		}
		l.Error("get_company_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get company")
	}

	return c.JSON(http.StatusOK, company)
}

func (h *CompanyHTTP) GetCompanies(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "company.list")

	items, err := h.Svc.GetCompanies(ctx)
	if err != nil {
		l.Error("get_companies_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get companies")
	}

	return c.JSON(http.StatusOK, items)
}

func (h *CompanyHTTP) CreateCompany(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "company.create")

	var req transport.CompanyRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("company_create_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	company, err := h.Svc.CreateCompany(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("company_create_error", "status", 400, "reason", "invalid body", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
		}
		l.Error("company_create_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create company")
	}

	l.Info("create_company_success")
	return c.JSON(http.StatusCreated, company)
}

func (h *CompanyHTTP) PatchCompany(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "company.patch")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req transport.CompanyPatchRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("company_patch_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	company, err := h.Svc.PatchCompany(ctx, req, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("company_patch_error", "status", 404, "reason", "company not found")
			return echo.NewHTTPError(http.StatusNotFound, "company not found")
		}
		l.Error("company_patch_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update company")
	}

	return c.JSON(http.StatusOK, company)
}

func (h *CompanyHTTP) DeleteCompany(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "company.delete")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.DeleteCompany(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("company_delete_error", "status", 404, "reason", "company not found")
			return echo.NewHTTPError(http.StatusNotFound, "company not found")
		}
		l.Error("company_delete_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete company")
	}

	return c.NoContent(http.StatusNoContent)
}
