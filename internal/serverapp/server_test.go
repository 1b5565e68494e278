package serverapp

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkukbae/priority-matrix/internal/config"
	"github.com/sangkukbae/priority-matrix/internal/metrics"
	"github.com/sangkukbae/priority-matrix/internal/store"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	st, err := store.Open(store.Options{Logger: log})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	cfg := &config.Config{}
	cfg.ApplyDefaults()

	rec := metrics.NewPromRecorder()
	h, err := NewHandler(Options{
		Config:         cfg,
		Store:          st,
		Recorder:       rec,
		MetricsHandler: rec.Handler(),
		Logger:         log,
	})
	require.NoError(t, err)
	return h
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
	return rec
}

func TestNewHandler_RequiresConfigAndStore(t *testing.T) {
	_, err := NewHandler(Options{})
	assert.Error(t, err)

	_, err = NewHandler(Options{Config: &config.Config{}})
	assert.Error(t, err)
}

func TestHealthAndReadyProbes(t *testing.T) {
	h := newTestHandler(t)

	rec := get(t, h, "/healthz")
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `"priority-matrix"`)

	rec = get(t, h, "/readyz")
	assert.Equal(t, 200, rec.Code)
}

func TestServesEmbeddedIndexAndStatic(t *testing.T) {
	h := newTestHandler(t)

	rec := get(t, h, "/")
	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "Priority Matrix")

	rec = get(t, h, "/static/js/app.js")
	require.Equal(t, 200, rec.Code)

	rec = get(t, h, "/static/css/app.css")
	require.Equal(t, 200, rec.Code)
}

func TestMetricsEndpointExposed(t *testing.T) {
	h := newTestHandler(t)

	// generate one request so the histogram has a sample
	get(t, h, "/healthz")

	rec := get(t, h, "/metrics")
	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "priority_matrix_http_request_duration_seconds")
}

func TestRequestIDHeaderOnAPIResponses(t *testing.T) {
	h := newTestHandler(t)

	rec := get(t, h, "/api/tasks")
	require.Equal(t, 200, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}
