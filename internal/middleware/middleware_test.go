package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/service"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

type validatorStub struct {
	claims *models.JWTClaims
	err    error
}

func (v validatorStub) ValidateToken(string) (*models.JWTClaims, error) {
	return v.claims, v.err
}

func newProtectedRouter(v TokenValidator, roles ...models.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/approve", JWT(v), RBAC(roles...), func(c *gin.Context) {
		c.String(http.StatusOK, CurrentUser(c).UserID)
	})
	return r
}

func TestJWTAndRBAC(t *testing.T) {
	cases := []struct {
		name   string
		header string
		stub   validatorStub
		want   int
	}{
		{name: "missing header", want: http.StatusUnauthorized},
		{name: "malformed header", header: "Token abc", want: http.StatusUnauthorized},
		{name: "invalid token", header: "Bearer abc", stub: validatorStub{err: appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")}, want: http.StatusUnauthorized},
		{name: "wrong role", header: "Bearer abc", stub: validatorStub{claims: &models.JWTClaims{UserID: "u-1", Role: models.RoleTeacher}}, want: http.StatusForbidden},
		{name: "allowed", header: "Bearer abc", stub: validatorStub{claims: &models.JWTClaims{UserID: "u-1", Role: models.RoleSuperAdmin}}, want: http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newProtectedRouter(tc.stub, models.RoleSuperAdmin)
			req := httptest.NewRequest(http.MethodGet, "/approve", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestRBACWithoutJWT(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", RBAC(models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTWithTokenService(t *testing.T) {
	tokens := service.NewTokenService(service.TokenConfig{Secret: "s3cret"})
	token, err := tokens.Issue("admin-1", models.RoleAdmin, time.Minute)
	require.NoError(t, err)
	r := newProtectedRouter(tokens, models.RoleAdmin)
	req := httptest.NewRequest(http.MethodGet, "/approve", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin-1", w.Body.String())
}

func TestMetricsMiddlewareRecords(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	r := gin.New()
	r.Use(Metrics(metrics))
	r.GET("/timetables/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/timetables/tt-1", nil))
	assert.Equal(t, uint64(1), metrics.Snapshot().RequestsTotal)
}

func TestMetricsMiddlewareSkipsOpsRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	r := gin.New()
	r.Use(Metrics(metrics))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Zero(t, metrics.Snapshot().RequestsTotal)

	// unknown paths still count, under a single label
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/no/such/path", nil))
	assert.Equal(t, uint64(1), metrics.Snapshot().RequestsTotal)
}
