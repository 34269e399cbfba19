package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/schoolconnect/schoolconnect/internal/authz"
	"github.com/schoolconnect/schoolconnect/internal/model"
	"github.com/schoolconnect/schoolconnect/internal/repository"
)

// FeeHandler serves the fee resource with the same access shape as
// scholarships: member reads, admin-only writes.
type FeeHandler struct {
	Engine  *authz.Engine
	Fees    *repository.FeeRepo
	Schools *repository.SchoolRepo
}

func NewFeeHandler(e *authz.Engine, r *repository.FeeRepo, s *repository.SchoolRepo) *FeeHandler {
	if e == nil || r == nil || s == nil {
		panic("nil dependency passed to NewFeeHandler")
	}
	return &FeeHandler{Engine: e, Fees: r, Schools: s}
}

type feeReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
	DueDate     string `json:"due_date"`
	Category    string `json:"category"`
}

func (r *feeReq) validate() (model.Fee, string) {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return model.Fee{}, "title is required"
	}
	if r.Amount <= 0 {
		return model.Fee{}, "amount must be positive"
	}
	due, err := parseDate(r.DueDate)
	if err != nil {
		return model.Fee{}, "due_date must be a date (YYYY-MM-DD)"
	}
	return model.Fee{
		Title:       title,
		Description: strings.TrimSpace(r.Description),
		Amount:      r.Amount,
		DueDate:     due,
		Category:    strings.TrimSpace(r.Category),
	}, ""
}

// List handles GET /v1/fees for the caller's school.
func (h *FeeHandler) List(c echo.Context) error {
	caller := callerFrom(c)
	ctx, cancel := reqCtx(c)
	defer cancel()

	code, err := h.Engine.ReadScope(ctx, caller)
	if err != nil {
		if errors.Is(err, authz.ErrNoSchool) {
			return c.JSON(http.StatusOK, echo.Map{"items": []*model.Fee{}})
		}
		return writeAuthzError(c, err)
	}
	items, err := h.Fees.ListBySchool(ctx, code)
	if err != nil {
		return writeAuthzError(c, err)
	}
	if items == nil {
		items = []*model.Fee{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Create handles POST /v1/fees, always targeting the caller's own school.
func (h *FeeHandler) Create(c echo.Context) error {
	caller := callerFrom(c)
	var req feeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	f, msg := req.validate()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	code, ok, err := h.Schools.SchoolCodeByAdmin(ctx, caller.UserID)
	if err != nil {
		return writeAuthzError(c, err)
	}
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "create a school first"})
	}
	if err := h.Engine.AuthorizeResource(ctx, authz.OpInsert, code, caller); err != nil {
		return writeAuthzError(c, err)
	}

	f.SchoolCode = code
	if err := h.Fees.Create(ctx, &f); err != nil {
		return writeAuthzError(c, err)
	}
	return c.JSON(http.StatusCreated, f)
}

// Update handles PUT/PATCH /v1/fees/:id.
func (h *FeeHandler) Update(c echo.Context) error {
	caller := callerFrom(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req feeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	f, msg := req.validate()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	existing, err := h.Fees.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "fee not found"})
		}
		return writeAuthzError(c, err)
	}
	if err := h.Engine.AuthorizeResource(ctx, authz.OpUpdate, existing.SchoolCode, caller); err != nil {
		return writeAuthzError(c, err)
	}
	if err := h.Fees.Update(ctx, id, existing.SchoolCode, &f); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "fee not found"})
		}
		return writeAuthzError(c, err)
	}
	updated, err := h.Fees.GetByID(ctx, id)
	if err != nil {
		return writeAuthzError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /v1/fees/:id.
func (h *FeeHandler) Delete(c echo.Context) error {
	caller := callerFrom(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	existing, err := h.Fees.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "fee not found"})
		}
		return writeAuthzError(c, err)
	}
	if err := h.Engine.AuthorizeResource(ctx, authz.OpDelete, existing.SchoolCode, caller); err != nil {
		return writeAuthzError(c, err)
	}
	if err := h.Fees.Delete(ctx, id, existing.SchoolCode); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "fee not found"})
		}
		return writeAuthzError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
