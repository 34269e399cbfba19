package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/schoolconnect/schoolconnect/internal/authz"
	"github.com/schoolconnect/schoolconnect/internal/model"
	"github.com/schoolconnect/schoolconnect/internal/queue"
	"github.com/schoolconnect/schoolconnect/internal/repository"
	"github.com/schoolconnect/schoolconnect/internal/service"
)

// NoticeHandler serves the notice resource. On top of the usual CRUD it
// publishes a notice.posted event after each successful create, which the
// feed consumer turns into live SSE updates.
type NoticeHandler struct {
	Engine  *authz.Engine
	Notices *repository.NoticeRepo
	Schools *repository.SchoolRepo
	AMQPURL string
}

func NewNoticeHandler(e *authz.Engine, r *repository.NoticeRepo, s *repository.SchoolRepo, amqpURL string) *NoticeHandler {
	if e == nil || r == nil || s == nil {
		panic("nil dependency passed to NewNoticeHandler")
	}
	return &NoticeHandler{Engine: e, Notices: r, Schools: s, AMQPURL: amqpURL}
}

type noticeReq struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Priority string `json:"priority"`
}

func (r *noticeReq) validate() (model.Notice, string) {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return model.Notice{}, "title is required"
	}
	content := strings.TrimSpace(r.Content)
	if content == "" {
		return model.Notice{}, "content is required"
	}
	priority := strings.ToLower(strings.TrimSpace(r.Priority))
	switch priority {
	case "":
		priority = model.PriorityNormal
	case model.PriorityLow, model.PriorityNormal, model.PriorityHigh:
	default:
		return model.Notice{}, "priority must be low, normal or high"
	}
	return model.Notice{Title: title, Content: content, Priority: priority}, ""
}

// List handles GET /v1/notices for the caller's school, newest first.
func (h *NoticeHandler) List(c echo.Context) error {
	caller := callerFrom(c)
	ctx, cancel := reqCtx(c)
	defer cancel()

	code, err := h.Engine.ReadScope(ctx, caller)
	if err != nil {
		if errors.Is(err, authz.ErrNoSchool) {
			return c.JSON(http.StatusOK, echo.Map{"items": []*model.Notice{}})
		}
		return writeAuthzError(c, err)
	}
	items, err := h.Notices.ListBySchool(ctx, code)
	if err != nil {
		return writeAuthzError(c, err)
	}
	if items == nil {
		items = []*model.Notice{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Create handles POST /v1/notices. The notice is committed first; the
// broker publish runs detached afterwards so a broker outage never fails
// the request.
func (h *NoticeHandler) Create(c echo.Context) error {
	caller := callerFrom(c)
	var req noticeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	n, msg := req.validate()
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

	n.SchoolCode = code
	if err := h.Notices.Create(ctx, &n); err != nil {
		return writeAuthzError(c, err)
	}

	ev := queue.NoticePostedEvent{
		NoticeID:   n.ID,
		SchoolCode: n.SchoolCode,
		Title:      n.Title,
		Content:    n.Content,
		Priority:   n.Priority,
		PostedAt:   n.CreatedAt.UTC().Format(time.RFC3339),
	}
	go func() {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer pubCancel()
		_ = service.PublishNoticePosted(pubCtx, h.AMQPURL, ev)
	}()

	return c.JSON(http.StatusCreated, n)
}

// Update handles PUT/PATCH /v1/notices/:id. Edits do not re-publish to the
// feed; only the original posting is announced live.
func (h *NoticeHandler) Update(c echo.Context) error {
	caller := callerFrom(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req noticeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	n, msg := req.validate()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	existing, err := h.Notices.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "notice not found"})
		}
		return writeAuthzError(c, err)
	}
	if err := h.Engine.AuthorizeResource(ctx, authz.OpUpdate, existing.SchoolCode, caller); err != nil {
		return writeAuthzError(c, err)
	}
	if err := h.Notices.Update(ctx, id, existing.SchoolCode, &n); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "notice not found"})
		}
		return writeAuthzError(c, err)
	}
	updated, err := h.Notices.GetByID(ctx, id)
	if err != nil {
		return writeAuthzError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /v1/notices/:id.
func (h *NoticeHandler) Delete(c echo.Context) error {
	caller := callerFrom(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	existing, err := h.Notices.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "notice not found"})
		}
		return writeAuthzError(c, err)
	}
	if err := h.Engine.AuthorizeResource(ctx, authz.OpDelete, existing.SchoolCode, caller); err != nil {
		return writeAuthzError(c, err)
	}
	if err := h.Notices.Delete(ctx, id, existing.SchoolCode); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "notice not found"})
		}
		return writeAuthzError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
