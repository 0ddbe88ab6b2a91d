package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/memorygame-go/internal/model"
	"github.com/mcoot/memorygame-go/internal/testutil"
)

func echoPlayer() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(GetPlayer(r.Context())))
	})
}

func TestIdentity(t *testing.T) {
	tests := []struct {
		name     string
		headers  map[string]string
		status   int
		expected string
	}{
		{name: "player header", headers: map[string]string{PlayerHeader: "alice"}, status: http.StatusOK, expected: "alice"},
		{name: "bearer token", headers: map[string]string{"Authorization": "Bearer bob"}, status: http.StatusOK, expected: "bob"},
		{name: "header wins over bearer", headers: map[string]string{PlayerHeader: "alice", "Authorization": "Bearer bob"}, status: http.StatusOK, expected: "alice"},
		{name: "blank header", headers: map[string]string{PlayerHeader: "   "}, status: http.StatusUnauthorized},
		{name: "basic auth is ignored", headers: map[string]string{"Authorization": "Basic abc"}, status: http.StatusUnauthorized},
		{name: "no identity", status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rr := httptest.NewRecorder()
			Identity()(echoPlayer()).ServeHTTP(rr, req)

			assert.Equal(t, tt.status, rr.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, tt.expected, rr.Body.String())
			} else {
				assert.Contains(t, rr.Body.String(), "UNAUTHORIZED")
			}
		})
	}
}

func TestOptionalIdentity(t *testing.T) {
	rr := httptest.NewRecorder()
	OptionalIdentity()(echoPlayer()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Body.String())
}

func TestMustGetPlayerPanicsWithoutIdentity(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Panics(t, func() { MustGetPlayer(req.Context()) })
	assert.Equal(t, model.PlayerID("carol"), MustGetPlayer(WithPlayer(req.Context(), "carol")))
}

func TestRecoveryWritesJSONError(t *testing.T) {
	logger, logs := testutil.CaptureLogger()
	panicking := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	rr := httptest.NewRecorder()
	Recovery(logger)(panicking).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/games/1", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "INTERNAL_ERROR")
	assert.Contains(t, logs.String(), "boom")
}
