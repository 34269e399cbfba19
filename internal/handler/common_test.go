package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/schoolconnect/schoolconnect/internal/authz"
)

func TestParseDate(t *testing.T) {
	if _, err := parseDate("2026-09-01"); err != nil {
		t.Errorf("bare date rejected: %v", err)
	}
	if _, err := parseDate("2026-09-01T12:00:00Z"); err != nil {
		t.Errorf("RFC 3339 rejected: %v", err)
	}
	if _, err := parseDate("next tuesday"); err == nil {
		t.Error("free-form date accepted")
	}
	if _, err := parseDate(""); err == nil {
		t.Error("empty date accepted")
	}
}

// Each failure class must map to its own status code. In particular a
// backend timeout must come back 503, never 403: an overloaded database
// must not masquerade as a permission denial.
func TestWriteAuthzErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{authz.ErrAuthenticationRequired, http.StatusUnauthorized},
		{authz.ErrDenied, http.StatusForbidden},
		{authz.ErrNotAdmin, http.StatusForbidden},
		{authz.ErrSchoolNotFound, http.StatusNotFound},
		{authz.ErrAlreadyOwner, http.StatusConflict},
		{authz.ErrNoSchool, http.StatusForbidden},
		{context.DeadlineExceeded, http.StatusServiceUnavailable},
		{errors.New("driver: bad connection"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		e := echo.New()
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		if err := writeAuthzError(c, tc.err); err != nil {
			t.Fatalf("writeAuthzError(%v): %v", tc.err, err)
		}
		if rec.Code != tc.want {
			t.Errorf("writeAuthzError(%v) status = %d, want %d", tc.err, rec.Code, tc.want)
		}
	}
}

func TestNoticeReqValidate(t *testing.T) {
	cases := []struct {
		name         string
		req          noticeReq
		wantMsg      bool
		wantPriority string
	}{
		{"defaults to normal", noticeReq{Title: "Exam week", Content: "Starts Monday"}, false, "normal"},
		{"explicit high", noticeReq{Title: "Closure", Content: "Storm", Priority: "high"}, false, "high"},
		{"case folded", noticeReq{Title: "Closure", Content: "Storm", Priority: "HIGH"}, false, "high"},
		{"unknown priority", noticeReq{Title: "x", Content: "y", Priority: "urgent"}, true, ""},
		{"missing title", noticeReq{Content: "body"}, true, ""},
		{"missing content", noticeReq{Title: "head"}, true, ""},
		{"whitespace only title", noticeReq{Title: "   ", Content: "body"}, true, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n, msg := tc.req.validate()
			if (msg != "") != tc.wantMsg {
				t.Fatalf("validate() msg = %q, want error: %v", msg, tc.wantMsg)
			}
			if !tc.wantMsg && n.Priority != tc.wantPriority {
				t.Errorf("priority = %q, want %q", n.Priority, tc.wantPriority)
			}
		})
	}
}

func TestScholarshipReqValidate(t *testing.T) {
	ok := scholarshipReq{Title: "STEM Grant", Amount: 5000, Deadline: "2026-10-01"}
	if _, msg := ok.validate(); msg != "" {
		t.Fatalf("valid request rejected: %s", msg)
	}

	cases := []scholarshipReq{
		{Amount: 5000, Deadline: "2026-10-01"},                      // no title
		{Title: "x", Amount: 0, Deadline: "2026-10-01"},             // zero amount
		{Title: "x", Amount: -100, Deadline: "2026-10-01"},          // negative amount
		{Title: "x", Amount: 100, Deadline: "soon"},                 // bad date
		{Title: "x", Amount: 100},                                   // missing date
	}
	for i, req := range cases {
		if _, msg := req.validate(); msg == "" {
			t.Errorf("case %d: invalid request accepted", i)
		}
	}
}

func TestFeeReqValidate(t *testing.T) {
	ok := feeReq{Title: "Lab fee", Amount: 120, DueDate: "2026-09-15", Category: "lab"}
	f, msg := ok.validate()
	if msg != "" {
		t.Fatalf("valid request rejected: %s", msg)
	}
	if f.Category != "lab" {
		t.Errorf("category = %q, want lab", f.Category)
	}

	if _, msg := (&feeReq{Title: "Lab fee", Amount: 120}).validate(); msg == "" {
		t.Error("missing due date accepted")
	}
	if _, msg := (&feeReq{Title: " ", Amount: 120, DueDate: "2026-09-15"}).validate(); msg == "" {
		t.Error("blank title accepted")
	}
}
