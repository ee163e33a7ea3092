package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"barangay-projects-api/internal/domain"
	"barangay-projects-api/internal/response"
	"barangay-projects-api/internal/util"
)

const testSecret = "test-secret"

func sign(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	if _, ok := claims["exp"]; !ok {
		claims["exp"] = time.Now().Add(time.Hour).Unix()
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func authRouter(captured *domain.Identity) *gin.Engine {
	router := gin.New()
	router.Use(Auth(testSecret))
	router.GET("/me", func(c *gin.Context) {
		identity, ok := util.ExtractIdentity(c)
		if !ok {
			return
		}
		*captured = identity
		c.Status(http.StatusOK)
	})
	return router
}

func doAuth(router *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuth_BuildsIdentity(t *testing.T) {
	userID := uuid.New()
	tests := []struct {
		name     string
		claims   jwt.MapClaims
		role     domain.Role
		barangay *uint
	}{
		{"defaults to user", jwt.MapClaims{"user_id": userID.String()}, domain.RoleUser, nil},
		{"sub claim", jwt.MapClaims{"sub": userID.String(), "role": "ADMIN"}, domain.RoleAdmin, nil},
		{"numeric barangay", jwt.MapClaims{"uid": userID.String(), "role": "barangay", "barangay_id": 7}, domain.RoleBarangay, uintPtr(7)},
		{"string barangay", jwt.MapClaims{"user_id": userID.String(), "role": "barangay", "barangay_id": "12"}, domain.RoleBarangay, uintPtr(12)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got domain.Identity
			rec := doAuth(authRouter(&got), "Bearer "+sign(t, testSecret, tt.claims))

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, userID, got.UserID)
			assert.Equal(t, tt.role, got.Role)
			assert.Equal(t, tt.barangay, got.BarangayID)
		})
	}
}

func TestAuth_Rejects(t *testing.T) {
	userID := uuid.New().String()
	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Token abc"},
		{"garbage token", "Bearer abc.def.ghi"},
		{"wrong secret", "Bearer " + sign(t, "other", jwt.MapClaims{"user_id": userID})},
		{"expired", "Bearer " + sign(t, testSecret, jwt.MapClaims{"user_id": userID, "exp": time.Now().Add(-time.Minute).Unix()})},
		{"no user id", "Bearer " + sign(t, testSecret, jwt.MapClaims{"role": "admin"})},
		{"bad user id", "Bearer " + sign(t, testSecret, jwt.MapClaims{"user_id": "42"})},
		{"unknown role", "Bearer " + sign(t, testSecret, jwt.MapClaims{"user_id": userID, "role": "mayor"})},
		{"bad barangay", "Bearer " + sign(t, testSecret, jwt.MapClaims{"user_id": userID, "barangay_id": -1})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got domain.Identity
			rec := doAuth(authRouter(&got), tt.header)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			var body response.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, response.ErrCodeUnauthorized, body.Error.Code)
			assert.Equal(t, uuid.Nil, got.UserID)
		})
	}
}

func TestCORS(t *testing.T) {
	router := gin.New()
	router.Use(CORS([]string{"http://localhost:5173"}))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecovery(t *testing.T) {
	router := gin.New()
	router.Use(Recovery(zap.NewNop()))
	router.GET("/panic", func(c *gin.Context) { panic("boom") })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), response.ErrCodeInternal)
}

func uintPtr(v uint) *uint { return &v }
