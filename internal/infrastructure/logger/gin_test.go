package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestGinMiddleware(t *testing.T) {
	t.Run("logs level by status", func(t *testing.T) {
		tests := []struct {
			status int
			level  zapcore.Level
		}{
			{http.StatusOK, zapcore.InfoLevel},
			{http.StatusNotFound, zapcore.WarnLevel},
			{http.StatusInternalServerError, zapcore.ErrorLevel},
		}

		for _, tt := range tests {
			core, recorded := observer.New(zapcore.DebugLevel)
			router := gin.New()
			router.Use(GinMiddleware(zap.New(core)))
			router.GET("/x", func(c *gin.Context) { c.Status(tt.status) })

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x?categoria=Bebidas", nil))

			entries := recorded.FilterMessage("HTTP Request").All()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.level, entries[0].Level)
			assert.Equal(t, "categoria=Bebidas", entries[0].ContextMap()["query"])
		}
	})

	t.Run("propagates request and session ids", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)
		router := gin.New()
		router.Use(func(c *gin.Context) {
			c.Set(GinRequestIDKey, "req-9")
			c.Next()
		})
		router.Use(GinMiddleware(zap.New(core)))
		router.GET("/x", func(c *gin.Context) {
			c.Set(GinSessionIDKey, "sess-9")
			L(c.Request.Context()).Info("Inside handler")
			c.Status(http.StatusOK)
		})

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

		inside := recorded.FilterMessage("Inside handler").All()
		require.Len(t, inside, 1)
		assert.Equal(t, "req-9", inside[0].ContextMap()["request_id"])

		done := recorded.FilterMessage("HTTP Request").All()
		require.Len(t, done, 1)
		assert.Equal(t, "sess-9", done[0].ContextMap()["session_id"])
	})
}

func TestRecovery(t *testing.T) {
	core, recorded := observer.New(zapcore.ErrorLevel)
	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, 1, recorded.FilterMessage("Panic recovered").Len())
}
