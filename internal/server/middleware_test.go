package server

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func okRouter(middleware ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(middleware...)
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func TestAuthMiddleware(t *testing.T) {
	auth := NewAuthService("test-api-key", "test-secret")
	token, _ := auth.GenerateToken("webview", time.Hour)
	router := okRouter(AuthMiddleware(auth))

	tests := []struct {
		name   string
		target string
		header string
		want   int
	}{
		{name: "api key", target: "/test", header: "Bearer test-api-key", want: http.StatusOK},
		{name: "jwt header", target: "/test", header: "Bearer " + token, want: http.StatusOK},
		{name: "jwt query", target: "/test?token=" + token, want: http.StatusOK},
		{name: "missing", target: "/test", want: http.StatusUnauthorized},
		{name: "invalid", target: "/test", header: "Bearer invalid-token", want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(5)

	for i := 0; i < 5; i++ {
		assert.True(t, limiter.Allow("test-client"))
	}
	assert.False(t, limiter.Allow("test-client"))
	assert.True(t, limiter.Allow("another-client"))
}

func TestRateLimitMiddleware(t *testing.T) {
	router := okRouter(RateLimitMiddleware(NewRateLimiter(2)))

	send := func() int {
		req := httptest.NewRequest("GET", "/test", nil)
		req.RemoteAddr = "192.168.1.1:1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send())
	assert.Equal(t, http.StatusOK, send())
	assert.Equal(t, http.StatusTooManyRequests, send())
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	router := okRouter(CORSMiddleware([]string{"*"}))

	req := httptest.NewRequest("OPTIONS", "/test", nil)
	req.Header.Set("Origin", "vscode-webview://abc")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSMiddleware_SpecificOrigins(t *testing.T) {
	router := okRouter(CORSMiddleware([]string{"http://allowed.com", "http://also-allowed.com"}))

	originHeader := func(origin string) string {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("Origin", origin)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Header().Get("Access-Control-Allow-Origin")
	}

	assert.Equal(t, "http://allowed.com", originHeader("http://allowed.com"))
	assert.Empty(t, originHeader("http://not-allowed.com"))
}

func TestRecoveryMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(RecoveryMiddleware())
	router.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})

	w := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		router.ServeHTTP(w, httptest.NewRequest("GET", "/panic", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRedactQuery(t *testing.T) {
	q := url.Values{"token": {"secret"}, "path": {"/ws"}}
	assert.Equal(t, "path=%2Fws&token=REDACTED", redactQuery(q))
	assert.Equal(t, "", redactQuery(url.Values{}))
}
