package requesttime

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"dealchecker/pkg/requestcontext"
)

func TestMiddlewarePinsOneTimePerRequest(t *testing.T) {
	var first, second time.Time
	h := Middleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		first = requestcontext.Now(r.Context())
		time.Sleep(2 * time.Millisecond)
		second = requestcontext.Now(r.Context())
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/deal/D1", nil))

	assert.False(t, first.IsZero())
	assert.True(t, first.Equal(second))
}

func TestMiddlewareKeepsExistingTime(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	var seen time.Time
	h := Middleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = requestcontext.Now(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/deal/D1", nil)
	h.ServeHTTP(httptest.NewRecorder(), req.WithContext(requestcontext.WithTime(req.Context(), at)))

	assert.True(t, at.Equal(seen))
}
