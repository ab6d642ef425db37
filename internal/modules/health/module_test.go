package health

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"crypto_bot/internal/modules/health/service"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCycles struct{ last time.Time }

func (f *fakeCycles) LastCycle() time.Time { return f.last }
func (f *fakeCycles) Running() bool        { return !f.last.IsZero() }

func TestProbes(t *testing.T) {
	src := &fakeCycles{}
	router := NewRouter(service.NewState(src))

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	assert.Equal(t, http.StatusOK, get("/livez").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get("/readyz").Code)

	src.last = time.Unix(1700000000, 0)
	assert.Equal(t, http.StatusOK, get("/readyz").Code)

	rec := get("/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["ready"])
	assert.Equal(t, true, body["trading"])
	assert.EqualValues(t, 1700000000, body["lastCycleUnix"])
}
