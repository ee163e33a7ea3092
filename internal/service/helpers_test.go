package service

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barangay-projects-api/internal/domain"
	"barangay-projects-api/internal/response"
)

// Whatever status and progress are requested, the result is either an error
// or a state where progress 100 and status completed imply each other.
func TestProperty_ResolveStatusKeepsCompletionConsistent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	statuses := []interface{}{
		domain.ProjectStatusPending,
		domain.ProjectStatusOngoing,
		domain.ProjectStatusCompleted,
	}

	properties.Property("completed iff progress is 100", prop.ForAll(
		func(status domain.ProjectStatus, progress int, given bool) bool {
			st, p, err := resolveStatus(status, progress, given)
			if err != nil {
				return given && status != domain.ProjectStatusCompleted && progress == domain.MaxProgress
			}
			return (st == domain.ProjectStatusCompleted) == (p == domain.MaxProgress)
		},
		gen.OneConstOf(statuses...).Map(func(r *gopter.GenResult) domain.ProjectStatus { v, _ := r.Retrieve(); return v.(domain.ProjectStatus) }),
		gen.IntRange(0, domain.MaxProgress),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

func TestProperty_ActorBarangayAppendedOnce(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("non-admin barangay appears exactly once or the request conflicts", prop.ForAll(
		func(ids []uint, own uint) bool {
			actor := domain.Identity{Role: domain.RoleBarangay, BarangayID: &own}
			out, err := withActorBarangay(actor, append([]uint(nil), ids...))

			requested := false
			for _, id := range ids {
				if id == own {
					requested = true
				}
			}
			if requested {
				return response.CodeOf(err) == response.ErrCodeConflict
			}
			return err == nil && len(out) == len(ids)+1 && out[len(out)-1] == own
		},
		gen.SliceOf(gen.UIntRange(1, 8)),
		gen.UIntRange(1, 8),
	))

	properties.TestingRun(t)
}

func TestWithActorBarangay_AdminAndNoBarangay(t *testing.T) {
	own := uint(4)
	out, err := withActorBarangay(domain.Identity{Role: domain.RoleAdmin, BarangayID: &own}, []uint{1})
	require.NoError(t, err)
	assert.Equal(t, []uint{1}, out)

	out, err = withActorBarangay(domain.Identity{Role: domain.RoleUser}, []uint{4})
	require.NoError(t, err)
	assert.Equal(t, []uint{4}, out)
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("startDate", "2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, 29, d.Day())

	d, err = parseDate("startDate", "2024-02-29T08:00:00+08:00")
	require.NoError(t, err)
	assert.Equal(t, 0, d.Hour())

	d, err = parseDate("startDate", "  ")
	require.NoError(t, err)
	assert.Nil(t, d)

	_, err = parseDate("startDate", "29/02/2024")
	assert.Equal(t, response.ErrCodeValidation, response.CodeOf(err))
}

func TestSameIDs(t *testing.T) {
	assert.True(t, sameIDs([]uint{3, 1, 2}, []uint{1, 2, 3}))
	assert.True(t, sameIDs(nil, []uint{}))
	assert.False(t, sameIDs([]uint{1, 2}, []uint{1, 3}))
	assert.False(t, sameIDs([]uint{1}, []uint{1, 1}))
}
