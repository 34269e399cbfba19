package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/schoolconnect/schoolconnect/internal/authz"
	"github.com/schoolconnect/schoolconnect/internal/repository"
	"github.com/schoolconnect/schoolconnect/internal/utils"
)

// SchoolHandler covers the tenant directory: public lookup, creation by an
// admin, rename by the owner, and student joining.
type SchoolHandler struct {
	Engine   *authz.Engine
	Schools  *repository.SchoolRepo
	Profiles *repository.ProfileRepo
}

func NewSchoolHandler(e *authz.Engine, s *repository.SchoolRepo, p *repository.ProfileRepo) *SchoolHandler {
	if e == nil || s == nil || p == nil {
		panic("nil dependency passed to NewSchoolHandler")
	}
	return &SchoolHandler{Engine: e, Schools: s, Profiles: p}
}

// publicSchool is the sanitized directory entry. The directory is public
// so codes can be validated before joining, but admin identity and
// timestamps stay private.
type publicSchool struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
	Code string `json:"school_code"`
}

// GetByCode handles GET /v1/schools/:code — the public code lookup used by
// the join flow.
func (h *SchoolHandler) GetByCode(c echo.Context) error {
	code := utils.NormalizeSchoolCode(c.Param("code"))
	if !utils.ValidSchoolCode(code) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "malformed school code"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.Schools.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrSchoolNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "school not found"})
		}
		return writeAuthzError(c, err)
	}
	return c.JSON(http.StatusOK, publicSchool{ID: s.ID, Name: s.Name, Code: s.Code})
}

// Create handles POST /v1/schools. The route is role-gated to admins; the
// engine re-checks the role from the membership tables and rejects a
// second school for the same admin. The code's uniqueness is decided by
// the database constraint alone — a loss in that race comes back as a
// distinct "code taken" answer so the client can pick another.
func (h *SchoolHandler) Create(c echo.Context) error {
	caller := callerFrom(c)
	var body struct {
		Name string `json:"name"`
		Code string `json:"code"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	name := strings.TrimSpace(body.Name)
	code := utils.NormalizeSchoolCode(body.Code)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if !utils.ValidSchoolCode(code) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "code must be 4-12 letters or digits"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Engine.AuthorizeCreateSchool(ctx, caller); err != nil {
		return writeAuthzError(c, err)
	}

	// admin_id is always the caller; creating on behalf of someone else is
	// not expressible through this API.
	s, err := h.Schools.Create(ctx, name, code, caller.UserID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrCodeTaken):
			return c.JSON(http.StatusConflict, echo.Map{"error": "school code already taken"})
		case errors.Is(err, repository.ErrAlreadyOwner):
			return c.JSON(http.StatusConflict, echo.Map{"error": "you already manage a school"})
		default:
			return writeAuthzError(c, err)
		}
	}
	return c.JSON(http.StatusCreated, s)
}

// Update handles PUT/PATCH /v1/schools/:id and renames the school. The
// code and the owning admin are immutable, so name is the only accepted
// field.
func (h *SchoolHandler) Update(c echo.Context) error {
	caller := callerFrom(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.Schools.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSchoolNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "school not found"})
		}
		return writeAuthzError(c, err)
	}
	if err := h.Engine.AuthorizeSchoolUpdate(ctx, caller, *s); err != nil {
		return writeAuthzError(c, err)
	}
	if err := h.Schools.UpdateName(ctx, id, caller.UserID, name); err != nil {
		return writeAuthzError(c, err)
	}
	updated, err := h.Schools.GetByID(ctx, id)
	if err != nil {
		return writeAuthzError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// Join handles POST /v1/join: a student sets their profile's school_code
// to an existing school's code. The column is written at most once — there
// is no leave operation, so membership only ever moves forward.
func (h *SchoolHandler) Join(c echo.Context) error {
	caller := callerFrom(c)
	var body struct {
		Code string `json:"code"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	code := utils.NormalizeSchoolCode(body.Code)
	if !utils.ValidSchoolCode(code) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "malformed school code"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Engine.AuthorizeJoin(ctx, caller); err != nil {
		return writeAuthzError(c, err)
	}
	if err := h.Profiles.JoinSchool(ctx, caller.UserID, code); err != nil {
		switch {
		case errors.Is(err, repository.ErrSchoolNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "school not found"})
		case errors.Is(err, repository.ErrAlreadyJoined):
			return c.JSON(http.StatusConflict, echo.Map{"error": "you already belong to a school"})
		default:
			return writeAuthzError(c, err)
		}
	}

	s, err := h.Schools.GetByCode(ctx, code)
	if err != nil {
		// The join committed; report success even if the re-read failed.
		return c.JSON(http.StatusOK, echo.Map{"school_code": code})
	}
	return c.JSON(http.StatusOK, publicSchool{ID: s.ID, Name: s.Name, Code: s.Code})
}
