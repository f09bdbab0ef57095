package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appRepos "github.com/yigit/unireg/internal/app/repositories"
	"github.com/yigit/unireg/internal/pkg/auth"
	"github.com/yigit/unireg/internal/pkg/kvstore"
	"golang.org/x/crypto/bcrypt"
)

func TestSampleCourses(t *testing.T) {
	courses, err := SampleCourses()
	require.NoError(t, err)
	require.Len(t, courses, 6)

	for _, c := range courses {
		assert.NoError(t, c.Validate(), c.Code)
		assert.True(t, c.IsOffered(), c.Code)
	}
	assert.Equal(t, "CE201", courses[0].Code)
}

func TestCreateDefaultData_Idempotent(t *testing.T) {
	cost := auth.BcryptCost
	auth.BcryptCost = bcrypt.MinCost
	t.Cleanup(func() { auth.BcryptCost = cost })

	ctx := context.Background()
	repos := appRepos.NewRepositories(kvstore.NewMemoryStore(), nil)

	require.NoError(t, CreateDefaultData(ctx, repos, zerolog.Nop()))
	require.NoError(t, CreateDefaultData(ctx, repos, zerolog.Nop()))

	students, err := repos.StudentRepository.List(ctx)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.True(t, auth.CheckPassword(students[0].PasswordHash, SamplePassword))

	transcript, err := repos.TranscriptRepository.Get(ctx, students[0].ID)
	require.NoError(t, err)
	assert.Len(t, transcript.Entries, 3)
	assert.Contains(t, transcript.PassedCourses(), "Data Structures")
}
