package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/schoolconnect/schoolconnect/internal/assistant"
	"github.com/schoolconnect/schoolconnect/internal/authz"
	"github.com/schoolconnect/schoolconnect/internal/repository"
)

// assistantTimeout bounds the whole ask, context assembly included. It is
// wider than dbTimeout because the upstream model call dominates.
const assistantTimeout = 30 * time.Second

const maxAssistantMessage = 2000

// AssistantHandler answers student and admin questions through the
// external assistant endpoint, grounding every ask in the caller's own
// school data and nothing else.
type AssistantHandler struct {
	Engine       *authz.Engine
	Client       *assistant.Client
	Scholarships *repository.ScholarshipRepo
	Fees         *repository.FeeRepo
	Notices      *repository.NoticeRepo
}

func NewAssistantHandler(e *authz.Engine, cl *assistant.Client, sch *repository.ScholarshipRepo, fee *repository.FeeRepo, not *repository.NoticeRepo) *AssistantHandler {
	if e == nil || cl == nil || sch == nil || fee == nil || not == nil {
		panic("nil dependency passed to NewAssistantHandler")
	}
	return &AssistantHandler{Engine: e, Client: cl, Scholarships: sch, Fees: fee, Notices: not}
}

// Ask handles POST /v1/assistant.
func (h *AssistantHandler) Ask(c echo.Context) error {
	caller := callerFrom(c)
	var body struct {
		Message string `json:"message"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	message := strings.TrimSpace(body.Message)
	if message == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "message is required"})
	}
	if len(message) > maxAssistantMessage {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "message too long"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), assistantTimeout)
	defer cancel()

	code, err := h.Engine.ReadScope(ctx, caller)
	if err != nil {
		return writeAuthzError(c, err)
	}

	reply, err := h.Client.Ask(ctx, message, h.schoolContext(ctx, code))
	if err != nil {
		if errors.Is(err, assistant.ErrUnconfigured) {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "assistant is not available"})
		}
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "assistant request failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"response": reply})
}

// schoolContext flattens the caller's school data into the plain-text
// context the assistant endpoint expects. Lookups that fail just leave
// their section out; a partial context still produces a useful answer.
func (h *AssistantHandler) schoolContext(ctx context.Context, code string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "School %s.\n", code)

	if items, err := h.Scholarships.ListBySchool(ctx, code); err == nil && len(items) > 0 {
		b.WriteString("Scholarships:\n")
		for _, s := range items {
			fmt.Fprintf(&b, "- %s: %d, deadline %s. %s\n",
				s.Title, s.Amount, s.Deadline.Format("2006-01-02"), s.Eligibility)
		}
	}
	if items, err := h.Fees.ListBySchool(ctx, code); err == nil && len(items) > 0 {
		b.WriteString("Fees:\n")
		for _, f := range items {
			fmt.Fprintf(&b, "- %s (%s): %d, due %s\n",
				f.Title, f.Category, f.Amount, f.DueDate.Format("2006-01-02"))
		}
	}
	if items, err := h.Notices.ListBySchool(ctx, code); err == nil && len(items) > 0 {
		b.WriteString("Notices:\n")
		for _, n := range items {
			fmt.Fprintf(&b, "- [%s] %s: %s\n", n.Priority, n.Title, n.Content)
		}
	}
	return b.String()
}
