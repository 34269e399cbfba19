package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/schoolconnect/schoolconnect/internal/authz"
	"github.com/schoolconnect/schoolconnect/internal/feed"
)

// heartbeat keeps idle SSE connections alive through proxies.
const streamHeartbeat = 25 * time.Second

// NoticeStreamHandler streams freshly posted notices of the caller's
// school over Server-Sent Events.
type NoticeStreamHandler struct {
	Engine *authz.Engine
	Hub    *feed.Hub
}

func NewNoticeStreamHandler(e *authz.Engine, hub *feed.Hub) *NoticeStreamHandler {
	if e == nil || hub == nil {
		panic("nil dependency passed to NewNoticeStreamHandler")
	}
	return &NoticeStreamHandler{Engine: e, Hub: hub}
}

// Stream handles GET /v1/notices/stream. The subscription is created only
// after the caller's read scope resolves, so a client can never attach to
// another school's feed.
func (h *NoticeStreamHandler) Stream(c echo.Context) error {
	caller := callerFrom(c)
	ctx, cancel := reqCtx(c)
	code, err := h.Engine.ReadScope(ctx, caller)
	cancel()
	if err != nil {
		return writeAuthzError(c, err)
	}

	events, unsubscribe := h.Hub.Subscribe(code)
	defer unsubscribe()

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	heartbeat := time.NewTicker(streamHeartbeat)
	defer heartbeat.Stop()

	done := c.Request().Context().Done()
	for {
		select {
		case <-done:
			return nil
		case <-heartbeat.C:
			if _, err := fmt.Fprint(res, ": ping\n\n"); err != nil {
				return nil
			}
			res.Flush()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(res, "event: notice\ndata: %s\n\n", data); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}
