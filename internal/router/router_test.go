package router

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"barangay-projects-api/internal/client"
	"barangay-projects-api/internal/database"
	"barangay-projects-api/internal/dto"
	"barangay-projects-api/internal/metrics"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

// setupTestRouter builds the full engine on an in-memory database
func setupTestRouter(t *testing.T, basePath string) *gin.Engine {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	logger := zap.NewNop()
	require.NoError(t, database.AutoMigrate(db, logger))
	require.NoError(t, database.SeedReferences(db, []string{"roads", "health"}, []string{"Poblacion", "San Isidro"}))

	storage, err := client.NewLocalStorage(t.TempDir(), 1<<20)
	require.NoError(t, err)

	return Setup(Config{
		DB:          db,
		Logger:      logger,
		Metrics:     metrics.NewWithRegistry(prometheus.NewRegistry(), logger),
		JWTSecret:   testSecret,
		BasePath:    basePath,
		CORSOrigins: []string{"http://localhost:5173"},
		Storage:     storage,
		MaxFiles:    5,
		MaxBodySize: 10 << 20,
	})
}

func bearer(t *testing.T, userID uuid.UUID, role string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID.String(),
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + token
}

func do(router *gin.Engine, method, path, auth string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	envelope := struct {
		Data json.RawMessage `json:"data"`
	}{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func TestMetricsEndpoint_RootAndBasePath(t *testing.T) {
	router := setupTestRouter(t, "/api")

	for _, path := range []string{"/metrics", "/api/metrics"} {
		rec := do(router, http.MethodGet, path, "", nil, "")
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
		assert.Contains(t, rec.Body.String(), "# HELP")
		assert.Contains(t, rec.Body.String(), "go_goroutines")
	}
}

func TestOperationalEndpoints_NoAuthentication(t *testing.T) {
	router := setupTestRouter(t, "/api")

	for _, path := range []string{"/health", "/ready", "/api/health", "/api/ready"} {
		rec := do(router, http.MethodGet, path, "", nil, "")
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestAPIRoutes_RequireToken(t *testing.T) {
	router := setupTestRouter(t, "/api")

	for _, path := range []string{"/api/projects", "/api/tags", "/api/projects/" + uuid.New().String() + "/updates"} {
		rec := do(router, http.MethodGet, path, "", nil, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestProjectLifecycle_EndToEnd(t *testing.T) {
	router := setupTestRouter(t, "/api")
	owner := bearer(t, uuid.New(), "user")
	stranger := bearer(t, uuid.New(), "user")

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	require.NoError(t, w.WriteField("title", "Health center roof"))
	require.NoError(t, w.WriteField("tagIds", "2"))
	require.NoError(t, w.WriteField("barangayIds", "1"))
	part, err := w.CreateFormFile("media", "roof.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0x10, 'J', 'F', 'I', 'F'})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	rec := do(router, http.MethodPost, "/api/projects", owner, body, w.FormDataContentType())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var project dto.ProjectResponse
	decodeData(t, rec, &project)
	require.Len(t, project.Media, 1)
	assert.Equal(t, "pending", project.Status)
	assert.FileExists(t, project.Media[0].URL)
	projectPath := "/api/projects/" + project.ID.String()

	rec = do(router, http.MethodPost, projectPath+"/updates", stranger,
		bytes.NewBufferString(`{"remarks":"not mine","progress":50}`), "application/json")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(router, http.MethodPost, projectPath+"/updates", owner,
		bytes.NewBufferString(`{"remarks":"done","progress":100}`), "application/json")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(router, http.MethodGet, projectPath, owner, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &project)
	assert.Equal(t, "completed", project.Status)
	assert.Equal(t, 100, project.Progress)
	assert.NotNil(t, project.CompletionDate)

	rec = do(router, http.MethodGet, projectPath+"/history", owner, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var history []dto.ProgressHistoryResponse
	decodeData(t, rec, &history)
	assert.Len(t, history, 2)

	rec = do(router, http.MethodPatch, projectPath, owner, bytes.NewBufferString(`{"title":"Health center roof"}`), "application/json")
	assert.Equal(t, http.StatusConflict, rec.Code)

	mediaURL := project.Media[0].URL
	rec = do(router, http.MethodDelete, projectPath, owner, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NoFileExists(t, mediaURL)

	rec = do(router, http.MethodGet, projectPath, owner, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReferenceRoutes(t *testing.T) {
	router := setupTestRouter(t, "/api")

	rec := do(router, http.MethodGet, "/api/barangays", bearer(t, uuid.New(), "admin"), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var barangays []dto.BarangayResponse
	decodeData(t, rec, &barangays)
	assert.Len(t, barangays, 2)
}
