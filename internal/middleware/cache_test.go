package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/schoolconnect/schoolconnect/internal/config"
)

func cacheContext(target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	// Simulate router matching: the pattern is the same for every code.
	c.SetPath("/v1/schools/:code")
	return c
}

// Two different school codes on the same route pattern must never share a
// cache entry; otherwise one school's directory response is served for
// every code until the TTL expires.
func TestCacheKeyDistinguishesPathParams(t *testing.T) {
	cfg := config.LoadCacheConfig()

	a := cacheKeyFrom(cfg, cacheContext("/v1/schools/SPRING24"))
	b := cacheKeyFrom(cfg, cacheContext("/v1/schools/RIVER99"))
	if a == b {
		t.Fatalf("cache key collision across school codes: %s", a)
	}

	// Same concrete request, same key.
	if again := cacheKeyFrom(cfg, cacheContext("/v1/schools/SPRING24")); again != a {
		t.Errorf("key not stable for identical requests: %s vs %s", a, again)
	}
}

func TestCacheKeyIncludesQuery(t *testing.T) {
	cfg := config.LoadCacheConfig() // default strategy keys on route+query

	plain := cacheKeyFrom(cfg, cacheContext("/v1/schools/SPRING24"))
	withQuery := cacheKeyFrom(cfg, cacheContext("/v1/schools/SPRING24?verbose=1"))
	if plain == withQuery {
		t.Error("query string ignored by cache key")
	}
}
