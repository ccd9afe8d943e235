package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/KAILASATEJANI/nam/apps/api/echo"
)

func TestServer(t *testing.T) {
	env := setup(t)

	runHTTPTests(t, env, []httpTest{
		{
			name:     "health",
			method:   http.MethodGet,
			path:     "/api/health",
			wantCode: http.StatusOK,
			wantData: marchallObj(t, HealthResponse{OK: true, Store: "memory"}),
		},
		{
			name:     "unknown route",
			method:   http.MethodGet,
			path:     "/api/nope",
			wantCode: http.StatusNotFound,
			wantData: []byte(`{"error": "Not Found"}`),
		},
		{
			name:     "wrong method",
			method:   http.MethodDelete,
			path:     "/api/student/STU1/timetable",
			wantCode: http.StatusMethodNotAllowed,
			wantData: []byte(`{"error": "Method Not Allowed"}`),
		},
	})

	t.Run("home", func(t *testing.T) {
		rec := env.do(http.MethodGet, "/")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Welcome to Smart Campus API!", rec.Body.String())
	})

	t.Run("head gets no body", func(t *testing.T) {
		rec := env.do(http.MethodHead, "/api/nope")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("metrics", func(t *testing.T) {
		env.do(http.MethodGet, "/api/health")
		rec := env.do(http.MethodGet, "/metrics")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `campus_http_request_duration_seconds_count{code="200",method="GET",route="/api/health"}`)
	})
}
