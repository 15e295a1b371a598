package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSchool(t *testing.T) {
	t.Run("defaults currency", func(t *testing.T) {
		school, err := NewSchool(" Greenhill ", "Greenhill Academy", "")
		require.NoError(t, err)

		assert.Equal(t, "greenhill", school.Code)
		assert.Equal(t, valueobject.KES, school.Currency)
		assert.True(t, school.IsActive())
		assert.Len(t, school.GetDomainEvents(), 1)
	})

	t.Run("rejects bad code", func(t *testing.T) {
		_, err := NewSchool("!", "Greenhill Academy", valueobject.KES)
		assert.Error(t, err)
	})

	t.Run("rejects unsupported currency", func(t *testing.T) {
		_, err := NewSchool("greenhill", "Greenhill Academy", "XYZ")
		assert.Error(t, err)
	})
}

func TestSchool_Suspend(t *testing.T) {
	school, err := NewSchool("greenhill", "Greenhill Academy", valueobject.KES)
	require.NoError(t, err)

	require.NoError(t, school.Suspend())
	assert.False(t, school.IsActive())
	assert.Error(t, school.Suspend())
}

func TestNewBranch(t *testing.T) {
	branch, err := NewBranch(uuid.New(), " main ", "Main Campus")
	require.NoError(t, err)
	assert.Equal(t, "MAIN", branch.Code)

	_, err = NewBranch(uuid.New(), "", "Main Campus")
	assert.Error(t, err)
}
