package service

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"barangay-projects-api/internal/client"
	"barangay-projects-api/internal/database"
	"barangay-projects-api/internal/domain"
	"barangay-projects-api/internal/dto"
	"barangay-projects-api/internal/metrics"
	"barangay-projects-api/internal/repository"
	"barangay-projects-api/internal/response"
	"barangay-projects-api/internal/txn"
)

type testEnv struct {
	db       *gorm.DB
	store    repository.Store
	local    *client.LocalStorage
	objects  *client.MockObjectStore
	metrics  *metrics.Metrics
	sync     *MediaSynchronizer
	projects ProjectService
	updates  UpdateService
	media    MediaService
}

// newTestEnv wires the services over an in-memory database. The pool is
// limited to one connection so every query sees the same database.
func newTestEnv(t *testing.T, withObjectStore bool) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db, zap.NewNop()))
	require.NoError(t, database.SeedReferences(db,
		[]string{"roads", "health"},
		[]string{"Poblacion", "San Isidro", "Mabini"}))

	local, err := client.NewLocalStorage(t.TempDir(), 1<<20)
	require.NoError(t, err)

	env := &testEnv{
		db:      db,
		store:   repository.NewStore(db),
		local:   local,
		metrics: metrics.NewWithRegistry(prometheus.NewRegistry(), zap.NewNop()),
	}

	var objects client.ObjectStore
	if withObjectStore {
		env.objects = client.NewMockObjectStore()
		objects = env.objects
	}

	logger := zap.NewNop()
	coord := txn.NewCoordinator(env.store, logger, env.metrics)
	env.sync = NewMediaSynchronizer(objects, local, env.metrics, logger)
	env.projects = NewProjectService(coord, env.sync, nil, env.metrics, logger)
	env.updates = NewUpdateService(coord, env.sync, env.metrics, logger)
	env.media = NewMediaService(coord, env.sync, logger)
	return env
}

func (e *testEnv) stage(t *testing.T, name, content string) client.StagedFile {
	t.Helper()
	f, err := e.local.Save(context.Background(), name, strings.NewReader(content))
	require.NoError(t, err)
	return f
}

func (e *testEnv) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(model).Count(&n).Error)
	return n
}

func (e *testEnv) createProject(t *testing.T, actor domain.Identity, title string, files ...client.StagedFile) *dto.ProjectResponse {
	t.Helper()
	resp, err := e.projects.CreateProject(context.Background(), &dto.CreateProjectRequest{
		Title:  title,
		TagIDs: "1",
	}, files, actor)
	require.NoError(t, err)
	return resp
}

func adminIdentity() domain.Identity {
	return domain.Identity{UserID: uuid.New(), Role: domain.RoleAdmin}
}

func userIdentity() domain.Identity {
	return domain.Identity{UserID: uuid.New(), Role: domain.RoleUser}
}

func barangayIdentity(barangayID uint) domain.Identity {
	return domain.Identity{UserID: uuid.New(), Role: domain.RoleBarangay, BarangayID: &barangayID}
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, code, response.CodeOf(err), "unexpected error: %v", err)
}

func assertGone(t *testing.T, paths ...string) {
	t.Helper()
	for _, p := range paths {
		_, err := os.Stat(p)
		assert.True(t, os.IsNotExist(err), "%s should have been removed", p)
	}
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func floatPtr(v float64) *float64 { return &v }
