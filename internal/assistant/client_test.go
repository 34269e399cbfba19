package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAskRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Message string `json:"message"`
			Context string `json:"context"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if req.Message != "when is the exam?" || req.Context == "" {
			t.Fatalf("unexpected request %+v", req)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"response": "Friday."})
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	got, err := c.Ask(context.Background(), "when is the exam?", "Notices: Exam on Friday")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Friday." {
		t.Fatalf("got %q", got)
	}
}

func TestAskNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	if _, err := c.Ask(context.Background(), "hi", ""); err == nil {
		t.Fatal("expected error on 503")
	}
}

func TestAskUnconfigured(t *testing.T) {
	c := New("", time.Second)
	if _, err := c.Ask(context.Background(), "hi", ""); !errors.Is(err, ErrUnconfigured) {
		t.Fatalf("got %v, want ErrUnconfigured", err)
	}
}

func TestAskTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := New(srv.URL, 20*time.Millisecond)
	if _, err := c.Ask(context.Background(), "hi", ""); err == nil {
		t.Fatal("expected timeout error")
	}
}
