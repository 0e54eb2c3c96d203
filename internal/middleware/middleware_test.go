package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "spendtable/internal/errors"
	"spendtable/internal/metrics"
	"spendtable/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func okHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error.Code
}

func newTestTokenManager(t *testing.T) *TokenManager {
	t.Helper()
	tm, err := NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)
	return tm
}

func TestNewTokenManager(t *testing.T) {
	_, err := NewTokenManager("", time.Hour)
	assert.Error(t, err)

	_, err = NewTokenManager("secret", 0)
	assert.Error(t, err)
}

func TestTokenManager_round_trip(t *testing.T) {
	tm := newTestTokenManager(t)
	user := &models.User{Email: "a@example.com"}
	user.ID = "0190a0b0-0000-7000-8000-000000000001"

	token, err := tm.Generate(user)
	require.NoError(t, err)

	claims, err := tm.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, user.ID, claims.Subject)
}

func TestTokenManager_rejects(t *testing.T) {
	tm := newTestTokenManager(t)
	user := &models.User{Email: "a@example.com"}
	user.ID = "0190a0b0-0000-7000-8000-000000000001"

	t.Run("expired", func(t *testing.T) {
		token, err := tm.Generate(user)
		require.NoError(t, err)

		later := *tm
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err = later.Parse(token)
		assert.Error(t, err)
	})

	t.Run("other_secret", func(t *testing.T) {
		other, err := NewTokenManager("another-secret", time.Hour)
		require.NoError(t, err)
		token, err := other.Generate(user)
		require.NoError(t, err)

		_, err = tm.Parse(token)
		assert.Error(t, err)
	})

	t.Run("other_issuer", func(t *testing.T) {
		claims := &JWTClaims{
			UserID: user.ID,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "someone-else",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = tm.Parse(token)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := tm.Parse("not-a-token")
		assert.Error(t, err)
	})
}

func TestAuthMiddleware(t *testing.T) {
	tm := newTestTokenManager(t)
	user := &models.User{Email: "a@example.com"}
	user.ID = "0190a0b0-0000-7000-8000-000000000001"
	token, err := tm.Generate(user)
	require.NoError(t, err)

	r := gin.New()
	r.Use(AuthMiddleware(tm))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString(UserIDKey)})
	})

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "valid_token", header: "Bearer " + token, wantStatus: http.StatusOK},
		{name: "missing_header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong_scheme", header: "Basic " + token, wantStatus: http.StatusUnauthorized},
		{name: "invalid_token", header: "Bearer abc.def.ghi", wantStatus: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", http.NoBody)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := serve(r, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Contains(t, rec.Body.String(), user.ID)
			} else {
				assert.Equal(t, "UNAUTHORIZED", errorCode(t, rec))
			}
		})
	}
}

func TestAPIKeyMiddleware(t *testing.T) {
	tests := []struct {
		name          string
		configuredKey string
		requestKey    string
		wantStatus    int
		wantErrorCode string
	}{
		{name: "valid_api_key", configuredKey: "metrics-key", requestKey: "metrics-key", wantStatus: http.StatusOK},
		{name: "invalid_api_key", configuredKey: "metrics-key", requestKey: "wrong", wantStatus: http.StatusUnauthorized, wantErrorCode: "INVALID_API_KEY"},
		{name: "missing_api_key", configuredKey: "metrics-key", wantStatus: http.StatusUnauthorized, wantErrorCode: "INVALID_API_KEY"},
		{name: "not_configured", requestKey: "any", wantStatus: http.StatusServiceUnavailable, wantErrorCode: "ENDPOINT_NOT_CONFIGURED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(APIKeyMiddleware(tt.configuredKey))
			r.GET("/metrics", okHandler)

			req := httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody)
			if tt.requestKey != "" {
				req.Header.Set("X-API-Key", tt.requestKey)
			}
			rec := serve(r, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantErrorCode != "" {
				assert.Equal(t, tt.wantErrorCode, errorCode(t, rec))
			}
		})
	}
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(1, 3)
	r := gin.New()
	r.Use(limiter.Middleware())
	r.GET("/test", okHandler)

	request := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
		req.RemoteAddr = addr
		return serve(r, req).Code
	}

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, request("192.168.1.100:12345"), "request %d within burst", i)
	}
	assert.Equal(t, http.StatusTooManyRequests, request("192.168.1.100:12345"))
	assert.Equal(t, http.StatusOK, request("192.168.1.101:12345"), "other clients keep their own budget")
}

func TestRateLimiter_Cleanup(t *testing.T) {
	limiter := NewRateLimiter(1, 1)
	now := time.Now()
	limiter.get("10.0.0.1", now.Add(-10*time.Minute))
	limiter.get("10.0.0.2", now)

	assert.Equal(t, 1, limiter.Cleanup(now, visitorTTL))
	assert.Len(t, limiter.visitors, 1)
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/app", func(c *gin.Context) {
		_ = c.Error(apperrors.Wrap(apperrors.ErrProjectNotFound, errors.New("db says no")))
	})
	r.GET("/plain", func(c *gin.Context) {
		_ = c.Error(errors.New("boom"))
	})

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/app", http.NoBody))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "PROJECT_NOT_FOUND", errorCode(t, rec))
	assert.NotContains(t, rec.Body.String(), "db says no")

	rec = serve(r, httptest.NewRequest(http.MethodGet, "/plain", http.NoBody))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "INTERNAL_ERROR", errorCode(t, rec))
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/panic", func(c *gin.Context) { panic("kaboom") })

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/panic", http.NoBody))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "INTERNAL_ERROR", errorCode(t, rec))
}

func TestRequestLogging(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogging())
	r.GET("/test", okHandler)

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/test", http.NoBody))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("X-Request-ID", "0190a0b0-0000-7000-8000-0000000000ff")
	rec = serve(r, req)
	assert.Equal(t, "0190a0b0-0000-7000-8000-0000000000ff", rec.Header().Get("X-Request-ID"))
}

func TestMetrics(t *testing.T) {
	r := gin.New()
	r.Use(Metrics())
	r.GET("/projects/:project_id", okHandler)

	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/projects/:project_id", "200")
	before := testutil.ToFloat64(counter)

	serve(r, httptest.NewRequest(http.MethodGet, "/projects/abc", http.NoBody))

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
