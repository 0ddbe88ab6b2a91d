package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/memorygame-go/internal/testutil"
)

func TestLoggingCapturesStatusAndSize(t *testing.T) {
	tests := []struct {
		name   string
		status int
		level  string
	}{
		{name: "ok", status: http.StatusOK, level: `"level":"INFO"`},
		{name: "client error", status: http.StatusConflict, level: `"level":"WARN"`},
		{name: "server error", status: http.StatusInternalServerError, level: `"level":"ERROR"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := testutil.CaptureLogger()
			handler := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("hello"))
			}))

			req := httptest.NewRequest(http.MethodPost, "/api/v1/games", nil)
			req.Header.Set("X-Player-ID", "alice")
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.status, rr.Code)
			out := logs.String()
			assert.Contains(t, out, tt.level)
			assert.Contains(t, out, `"path":"/api/v1/games"`)
			assert.Contains(t, out, `"size":5`)
			assert.Contains(t, out, `"player_id":"alice"`)
		})
	}
}

func TestResponseWriterFlushes(t *testing.T) {
	rr := httptest.NewRecorder()
	rw := &ResponseWriter{ResponseWriter: rr, status: http.StatusOK}

	var _ http.Flusher = rw
	rw.Flush()

	assert.True(t, rr.Flushed)
	assert.Equal(t, rr, rw.Unwrap())
}

func TestRecoveryUsesPanicHandler(t *testing.T) {
	logger, logs := testutil.CaptureLogger()
	handler := Recovery(logger, DefaultPanicHandler)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("card deck exploded")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, logs.String(), "card deck exploded")
	assert.Contains(t, logs.String(), "panic recovered")
}
