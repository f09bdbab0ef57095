package migrations

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrator_FilesAreOrdered(t *testing.T) {
	m := NewMigrator(nil, zerolog.Nop())

	names, err := m.Files()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "001_courses.sql", names[0])
	assert.IsIncreasing(t, names)
}

func TestVersion(t *testing.T) {
	assert.Equal(t, "001", Version("001_courses.sql"))
	assert.Equal(t, "002", Version("sql/002_course_status_check.sql"))
}
