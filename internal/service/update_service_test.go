package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barangay-projects-api/internal/client"
	"barangay-projects-api/internal/domain"
	"barangay-projects-api/internal/dto"
	"barangay-projects-api/internal/response"
)

func (e *testEnv) projectState(t *testing.T, id uuid.UUID) *domain.Project {
	t.Helper()
	var p domain.Project
	require.NoError(t, e.db.First(&p, "id = ?", id).Error)
	return &p
}

func TestCreateUpdate_FullProgressCompletesProject(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	actor := userIdentity()
	p := env.createProject(t, actor, "Road concreting")

	u, err := env.updates.CreateUpdate(ctx, p.ID, &dto.CreateUpdateRequest{
		Remarks:  "Final pour",
		Progress: intPtr(100),
	}, nil, actor)
	require.NoError(t, err)
	assert.Equal(t, 100, u.Progress)

	state := env.projectState(t, p.ID)
	assert.Equal(t, domain.ProjectStatusCompleted, state.Status)
	assert.Equal(t, 100, state.Progress)
	assert.NotNil(t, state.CompletionDate)

	require.NoError(t, env.updates.DeleteUpdate(ctx, p.ID, u.ID, actor))

	state = env.projectState(t, p.ID)
	assert.Equal(t, domain.ProjectStatusCompleted, state.Status)
	assert.Equal(t, 100, state.Progress)
	assert.Zero(t, env.count(t, &domain.Update{}))

	var history []domain.ProgressHistory
	require.NoError(t, env.db.Order("created_at ASC").Find(&history).Error)
	require.Len(t, history, 2)
	assert.Nil(t, history[1].UpdateID)
}

func TestCreateUpdate_PartialProgressIsOngoing(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()
	actor := userIdentity()
	p := env.createProject(t, actor, "Day care")
	f := env.stage(t, "site.jpg", "site photo")

	u, err := env.updates.CreateUpdate(ctx, p.ID, &dto.CreateUpdateRequest{Remarks: "Site visit", Progress: intPtr(35)},
		[]client.StagedFile{f}, actor)
	require.NoError(t, err)
	require.Len(t, u.Media, 1)
	require.NotNil(t, u.Media[0].UpdateID)
	assert.Equal(t, u.ID, *u.Media[0].UpdateID)
	assert.Equal(t, p.ID, *u.Media[0].ProjectID)
	assertGone(t, f.Path)

	state := env.projectState(t, p.ID)
	assert.Equal(t, domain.ProjectStatusOngoing, state.Status)
	assert.Equal(t, 35, state.Progress)

	project, err := env.projects.GetProject(ctx, p.ID, adminIdentity())
	require.NoError(t, err)
	assert.Empty(t, project.Media, "update media is not project media")
}

func TestCreateUpdate_Guards(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	owner := userIdentity()
	p := env.createProject(t, owner, "Footbridge")

	f := env.stage(t, "a.jpg", "a")
	_, err := env.updates.CreateUpdate(ctx, p.ID, &dto.CreateUpdateRequest{Remarks: "Site visit", Progress: intPtr(10)},
		[]client.StagedFile{f}, userIdentity())
	assertCode(t, err, response.ErrCodeUnauthorized)
	assertGone(t, f.Path)

	g := env.stage(t, "b.jpg", "b")
	_, err = env.updates.CreateUpdate(ctx, p.ID, &dto.CreateUpdateRequest{Remarks: "Site visit", Progress: intPtr(101)},
		[]client.StagedFile{g}, owner)
	assertCode(t, err, response.ErrCodeValidation)
	assertGone(t, g.Path)

	h := env.stage(t, "c.jpg", "c")
	_, err = env.updates.CreateUpdate(ctx, p.ID, &dto.CreateUpdateRequest{Remarks: "  ", Progress: intPtr(10)},
		[]client.StagedFile{h}, owner)
	assertCode(t, err, response.ErrCodeValidation)
	assertGone(t, h.Path)

	_, err = env.updates.CreateUpdate(ctx, uuid.New(), &dto.CreateUpdateRequest{Remarks: "Site visit", Progress: intPtr(10)}, nil, owner)
	assertCode(t, err, response.ErrCodeNotFound)
	assert.Zero(t, env.count(t, &domain.Update{}))
}

func TestListUpdates_OldestFirst(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	actor := userIdentity()
	p := env.createProject(t, actor, "Multipurpose hall")

	for _, progress := range []int{10, 20, 30} {
		_, err := env.updates.CreateUpdate(ctx, p.ID, &dto.CreateUpdateRequest{Remarks: "Site visit", Progress: intPtr(progress)}, nil, actor)
		require.NoError(t, err)
	}

	page, err := env.updates.ListUpdates(ctx, p.ID, "1", "2")
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalCount)
	require.Len(t, page.Updates, 2)
	assert.Equal(t, 10, page.Updates[0].Progress)
	assert.Equal(t, 20, page.Updates[1].Progress)

	page, err = env.updates.ListUpdates(ctx, p.ID, "2", "2")
	require.NoError(t, err)
	require.Len(t, page.Updates, 1)
	assert.Equal(t, 30, page.Updates[0].Progress)

	_, err = env.updates.ListUpdates(ctx, uuid.New(), "", "")
	assertCode(t, err, response.ErrCodeNotFound)
}

func TestGetUpdate_ScopedToProject(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	actor := userIdentity()
	p := env.createProject(t, actor, "First")
	other := env.createProject(t, actor, "Second")

	u, err := env.updates.CreateUpdate(ctx, p.ID, &dto.CreateUpdateRequest{Remarks: "Site visit", Progress: intPtr(5)}, nil, actor)
	require.NoError(t, err)

	_, err = env.updates.GetUpdate(ctx, other.ID, u.ID)
	assertCode(t, err, response.ErrCodeNotFound)

	got, err := env.updates.GetUpdate(ctx, p.ID, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestEditUpdate_AppendsMediaAndMovesProject(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	actor := userIdentity()
	p := env.createProject(t, actor, "Irrigation")

	u, err := env.updates.CreateUpdate(ctx, p.ID, &dto.CreateUpdateRequest{Remarks: "Site visit", Progress: intPtr(50)},
		[]client.StagedFile{env.stage(t, "a.jpg", "a")}, actor)
	require.NoError(t, err)

	edited, err := env.updates.EditUpdate(ctx, p.ID, u.ID, &dto.EditUpdateRequest{
		Remarks:  strPtr("Canal lining done"),
		Progress: intPtr(100),
	}, []client.StagedFile{env.stage(t, "b.jpg", "b")}, actor)
	require.NoError(t, err)
	assert.Equal(t, "Canal lining done", edited.Remarks)
	assert.Equal(t, 100, edited.Progress)
	assert.Len(t, edited.Media, 2)

	state := env.projectState(t, p.ID)
	assert.Equal(t, domain.ProjectStatusCompleted, state.Status)

	same, err := env.updates.EditUpdate(ctx, p.ID, u.ID, &dto.EditUpdateRequest{}, nil, actor)
	require.NoError(t, err)
	assert.Equal(t, edited.Remarks, same.Remarks)

	_, err = env.updates.EditUpdate(ctx, p.ID, uuid.New(), &dto.EditUpdateRequest{Remarks: strPtr("x")}, nil, actor)
	assertCode(t, err, response.ErrCodeNotFound)
}

func TestEditUpdate_SameProgressRestoresCompletion(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	actor := userIdentity()
	p := env.createProject(t, actor, "Drainage")

	u, err := env.updates.CreateUpdate(ctx, p.ID, &dto.CreateUpdateRequest{Remarks: "Site visit", Progress: intPtr(100)}, nil, actor)
	require.NoError(t, err)
	_, err = env.projects.UpdateProject(ctx, p.ID, &dto.UpdateProjectRequest{
		Status:   strPtr("ongoing"),
		Progress: intPtr(60),
	}, actor)
	require.NoError(t, err)
	require.Equal(t, domain.ProjectStatusOngoing, env.projectState(t, p.ID).Status)

	edited, err := env.updates.EditUpdate(ctx, p.ID, u.ID, &dto.EditUpdateRequest{Progress: intPtr(100)}, nil, actor)
	require.NoError(t, err)
	assert.Equal(t, 100, edited.Progress)

	state := env.projectState(t, p.ID)
	assert.Equal(t, domain.ProjectStatusCompleted, state.Status)
	assert.Equal(t, 100, state.Progress)
}

func TestDeleteAllUpdates(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()
	actor := userIdentity()
	p := env.createProject(t, actor, "Port", env.stage(t, "cover.jpg", "cover"))

	for i := 0; i < 2; i++ {
		_, err := env.updates.CreateUpdate(ctx, p.ID, &dto.CreateUpdateRequest{Remarks: "Site visit", Progress: intPtr(10 * (i + 1))},
			[]client.StagedFile{env.stage(t, "u.jpg", "update")}, actor)
		require.NoError(t, err)
	}

	n, err := env.updates.DeleteAllUpdates(ctx, p.ID, actor)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Zero(t, env.count(t, &domain.Update{}))
	assert.Equal(t, int64(1), env.count(t, &domain.Media{}), "project media stays")
	assert.Len(t, env.objects.Deleted(), 2)

	state := env.projectState(t, p.ID)
	assert.Equal(t, 20, state.Progress)

	n, err = env.updates.DeleteAllUpdates(ctx, p.ID, actor)
	require.NoError(t, err)
	assert.Zero(t, n)
}
