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

// ScholarshipHandler serves the scholarship resource. Reads are scoped to
// the caller's school; writes go through the authz engine and are only
// ever granted to the school's admin.
type ScholarshipHandler struct {
	Engine       *authz.Engine
	Scholarships *repository.ScholarshipRepo
	Schools      *repository.SchoolRepo
}

func NewScholarshipHandler(e *authz.Engine, r *repository.ScholarshipRepo, s *repository.SchoolRepo) *ScholarshipHandler {
	if e == nil || r == nil || s == nil {
		panic("nil dependency passed to NewScholarshipHandler")
	}
	return &ScholarshipHandler{Engine: e, Scholarships: r, Schools: s}
}

type scholarshipReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
	Deadline    string `json:"deadline"`
	Eligibility string `json:"eligibility"`
}

func (r *scholarshipReq) validate() (model.Scholarship, string) {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return model.Scholarship{}, "title is required"
	}
	if r.Amount <= 0 {
		return model.Scholarship{}, "amount must be positive"
	}
	deadline, err := parseDate(r.Deadline)
	if err != nil {
		return model.Scholarship{}, "deadline must be a date (YYYY-MM-DD)"
	}
	return model.Scholarship{
		Title:       title,
		Description: strings.TrimSpace(r.Description),
		Amount:      r.Amount,
		Deadline:    deadline,
		Eligibility: strings.TrimSpace(r.Eligibility),
	}, ""
}

// List handles GET /v1/scholarships: every scholarship of the caller's
// school. A caller without a school gets an empty list, not an error —
// filtered reads are the intended shape of read-side authorization.
func (h *ScholarshipHandler) List(c echo.Context) error {
	caller := callerFrom(c)
	ctx, cancel := reqCtx(c)
	defer cancel()

	code, err := h.Engine.ReadScope(ctx, caller)
	if err != nil {
		if errors.Is(err, authz.ErrNoSchool) {
			return c.JSON(http.StatusOK, echo.Map{"items": []*model.Scholarship{}})
		}
		return writeAuthzError(c, err)
	}
	items, err := h.Scholarships.ListBySchool(ctx, code)
	if err != nil {
		return writeAuthzError(c, err)
	}
	if items == nil {
		items = []*model.Scholarship{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Create handles POST /v1/scholarships. The target school is always the
// school the caller administers; it is never taken from the request body,
// so an admin cannot aim a write at another tenant.
func (h *ScholarshipHandler) Create(c echo.Context) error {
	caller := callerFrom(c)
	var req scholarshipReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	s, msg := req.validate()
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

	s.SchoolCode = code
	if err := h.Scholarships.Create(ctx, &s); err != nil {
		return writeAuthzError(c, err)
	}
	return c.JSON(http.StatusCreated, s)
}

// Update handles PUT/PATCH /v1/scholarships/:id. Authorization is decided
// against the existing row's school, then the mutation is keyed by both id
// and school code.
func (h *ScholarshipHandler) Update(c echo.Context) error {
	caller := callerFrom(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req scholarshipReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	s, msg := req.validate()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	existing, err := h.Scholarships.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "scholarship not found"})
		}
		return writeAuthzError(c, err)
	}
	if err := h.Engine.AuthorizeResource(ctx, authz.OpUpdate, existing.SchoolCode, caller); err != nil {
		return writeAuthzError(c, err)
	}
	if err := h.Scholarships.Update(ctx, id, existing.SchoolCode, &s); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "scholarship not found"})
		}
		return writeAuthzError(c, err)
	}
	updated, err := h.Scholarships.GetByID(ctx, id)
	if err != nil {
		return writeAuthzError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /v1/scholarships/:id.
func (h *ScholarshipHandler) Delete(c echo.Context) error {
	caller := callerFrom(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	existing, err := h.Scholarships.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "scholarship not found"})
		}
		return writeAuthzError(c, err)
	}
	if err := h.Engine.AuthorizeResource(ctx, authz.OpDelete, existing.SchoolCode, caller); err != nil {
		return writeAuthzError(c, err)
	}
	if err := h.Scholarships.Delete(ctx, id, existing.SchoolCode); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "scholarship not found"})
		}
		return writeAuthzError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
