package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"

	"github.com/javajoker/catalog-backend/internal/utils"
)

type stubTokens map[string]string // token -> user id

func (s stubTokens) ValidateToken(token string) (*utils.JWTClaims, error) {
	userID, ok := s[token]
	if !ok {
		return nil, errors.New("invalid token")
	}
	return &utils.JWTClaims{NameID: userID, RegisteredClaims: jwt.RegisteredClaims{Subject: userID + "@example.com"}}, nil
}

func newTestEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/whoami", func(c *gin.Context) {
		userID, _ := utils.GetUserIDFromContext(c)
		c.String(http.StatusOK, userID+"|"+c.GetString(ContextUserName))
	})
	return r
}

func serve(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	r := newTestEngine(AuthRequired(stubTokens{"good": "u1"}))

	tests := []struct {
		header string
		status int
		body   string
	}{
		{"Bearer good", http.StatusOK, "u1|u1@example.com"},
		{"bearer   good ", http.StatusOK, "u1|u1@example.com"},
		{"", http.StatusUnauthorized, ""},
		{"Bearer", http.StatusUnauthorized, ""},
		{"Basic good", http.StatusUnauthorized, ""},
		{"Bearer bad", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		w := serve(r, tt.header)
		assert.Equal(t, tt.status, w.Code, tt.header)
		if tt.body != "" {
			assert.Equal(t, tt.body, w.Body.String())
		} else {
			assert.Contains(t, w.Body.String(), `"UNAUTHORIZED"`)
		}
	}
}

func TestOptionalAuth(t *testing.T) {
	r := newTestEngine(OptionalAuth(stubTokens{"good": "u1"}))

	assert.Equal(t, "u1|u1@example.com", serve(r, "Bearer good").Body.String())
	assert.Equal(t, "|", serve(r, "Bearer bad").Body.String())
	assert.Equal(t, "|", serve(r, "").Body.String())
}

func TestResolveLang(t *testing.T) {
	for header, want := range map[string]string{
		"":                        "en",
		"fr-FR":                   "en",
		"zh-TW,zh;q=0.9,en;q=0.8": "zh_TW",
		"zh_TW":                   "zh_TW",
		"de;q=0.9, en-GB;q=0.8":   "en",
		"fr, zh-Hant;q=0.5, en":   "zh_TW",
		"EN-us":                   "en",
	} {
		assert.Equal(t, want, resolveLang(header), header)
	}
}

func TestI18nMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(I18nMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, utils.GetLangFromContext(c)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "zh-TW")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "zh_TW", w.Body.String())
	assert.Equal(t, "zh-TW", w.Header().Get("Content-Language"))
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(rate.Every(time.Hour), 2)
	defer rl.Stop()

	r := newTestEngine(rl.Middleware())

	assert.Equal(t, http.StatusOK, serve(r, "").Code)
	assert.Equal(t, http.StatusOK, serve(r, "").Code)
	w := serve(r, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "RATE_LIMITED")

	// A different client has its own bucket.
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.RemoteAddr = "198.51.100.7:4000"
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiter_Evict(t *testing.T) {
	rl := NewRateLimiter(rate.Limit(1), 1)
	defer rl.Stop()

	rl.getVisitor("203.0.113.1")
	rl.getVisitor("203.0.113.2")

	rl.evict(time.Now())
	assert.Len(t, rl.visitors, 2)

	rl.evict(time.Now().Add(rl.ttl + time.Second))
	assert.Empty(t, rl.visitors)

	// Stop is idempotent.
	rl.Stop()
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery())
	r.GET("/panic", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
	assert.NotContains(t, w.Body.String(), "kaboom")
}
