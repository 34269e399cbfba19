package handler

import (
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/schoolconnect/schoolconnect/internal/authz"
	"github.com/schoolconnect/schoolconnect/internal/repository"
)

// DashboardHandler aggregates per-school counters for the landing screen.
type DashboardHandler struct {
	Engine       *authz.Engine
	Scholarships *repository.ScholarshipRepo
	Fees         *repository.FeeRepo
	Notices      *repository.NoticeRepo
}

func NewDashboardHandler(e *authz.Engine, sch *repository.ScholarshipRepo, fee *repository.FeeRepo, not *repository.NoticeRepo) *DashboardHandler {
	if e == nil || sch == nil || fee == nil || not == nil {
		panic("nil dependency passed to NewDashboardHandler")
	}
	return &DashboardHandler{Engine: e, Scholarships: sch, Fees: fee, Notices: not}
}

type dashboardCounts struct {
	SchoolCode   string `json:"school_code"`
	Scholarships int    `json:"scholarships"`
	Fees         int    `json:"fees"`
	Notices      int    `json:"notices"`
}

// Get handles GET /v1/dashboard. The three counts run concurrently and a
// failed count falls back to zero — a dashboard tile showing 0 beats the
// whole screen failing because one table was slow.
func (h *DashboardHandler) Get(c echo.Context) error {
	caller := callerFrom(c)
	ctx, cancel := reqCtx(c)
	defer cancel()

	code, err := h.Engine.ReadScope(ctx, caller)
	if err != nil {
		if errors.Is(err, authz.ErrNoSchool) {
			return c.JSON(http.StatusOK, dashboardCounts{})
		}
		return writeAuthzError(c, err)
	}

	out := dashboardCounts{SchoolCode: code}
	var wg sync.WaitGroup
	count := func(dst *int, name string, fn func() (int, error)) {
		defer wg.Done()
		n, err := fn()
		if err != nil {
			log.Printf("dashboard: %s count failed for %s: %v", name, code, err)
			return
		}
		*dst = n
	}
	wg.Add(3)
	go count(&out.Scholarships, "scholarship", func() (int, error) { return h.Scholarships.CountBySchool(ctx, code) })
	go count(&out.Fees, "fee", func() (int, error) { return h.Fees.CountBySchool(ctx, code) })
	go count(&out.Notices, "notice", func() (int, error) { return h.Notices.CountBySchool(ctx, code) })
	wg.Wait()

	return c.JSON(http.StatusOK, out)
}
