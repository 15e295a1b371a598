package persistence

import (
	"testing"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/fee"
	"github.com/schoolms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormFeeTypeRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormFeeTypeRepository(db)
	ctx := t.Context()
	fx := newFixture(t, db)

	tuition, err := fee.NewFeeType(fx.admin, "TUITION", "Tuition", "Termly tuition")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, tuition))

	exists, err := repo.ExistsByCode(ctx, fx.admin, "TUITION")
	require.NoError(t, err)
	assert.True(t, exists)

	other := shared.NewTenantContext(uuid.New(), "BURSAR")
	exists, err = repo.ExistsByCode(ctx, other, "TUITION")
	require.NoError(t, err)
	assert.False(t, exists)

	dup, err := fee.NewFeeType(fx.admin, "TUITION", "Tuition again", "")
	require.NoError(t, err)
	err = repo.Save(ctx, dup)
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)

	found, err := repo.FindByIDs(ctx, fx.admin, []uuid.UUID{tuition.ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Tuition", found[0].Name)
}

func TestGormFeeStructureRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormFeeStructureRepository(db)
	ctx := t.Context()
	fx := newFixture(t, db)

	fs := seedStructure(t, db, fx.admin, 3000, 1500)

	t.Run("items are stored in order", func(t *testing.T) {
		found, err := repo.FindByID(ctx, fx.admin, fs.ID)
		require.NoError(t, err)
		require.Len(t, found.Items, 2)
		assert.True(t, decimal.NewFromInt(3000).Equal(found.Items[0].Amount))
		assert.True(t, decimal.NewFromInt(4500).Equal(found.Total()))
	})

	t.Run("saving replaces items", func(t *testing.T) {
		found, err := repo.FindByID(ctx, fx.admin, fs.ID)
		require.NoError(t, err)
		keep := found.Items[1]
		require.NoError(t, found.ClearItems())
		require.NoError(t, found.AddItem(keep.FeeTypeID, keep.Amount, keep.Mandatory))
		require.NoError(t, repo.Save(ctx, found))

		reloaded, err := repo.FindByID(ctx, fx.admin, fs.ID)
		require.NoError(t, err)
		require.Len(t, reloaded.Items, 1)
		assert.True(t, decimal.NewFromInt(1500).Equal(reloaded.Items[0].Amount))
	})

	t.Run("name is unique per year ignoring case", func(t *testing.T) {
		exists, err := repo.ExistsByName(ctx, fx.admin, "grade 4 TERM 1", 2024, nil)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByName(ctx, fx.admin, "Grade 4 Term 1", 2024, &fs.ID)
		require.NoError(t, err)
		assert.False(t, exists)

		exists, err = repo.ExistsByName(ctx, fx.admin, "Grade 4 Term 1", 2025, nil)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("filters include structures for every grade", func(t *testing.T) {
		general, err := fee.NewFeeStructure(fx.admin, "Activity levy", "", 0, 2024)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, general))

		term := 1
		list, total, err := repo.FindAll(ctx, fx.admin, fee.FeeStructureFilter{Grade: "Grade 4", Term: &term})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, list, 2)

		list, total, err = repo.FindAll(ctx, fx.admin, fee.FeeStructureFilter{Grade: "Grade 7"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "Activity levy", list[0].Name)
	})

	t.Run("unreferenced structure is deleted", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, fx.admin, fs.ID))
		_, err := repo.FindByID(ctx, fx.admin, fs.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		err = repo.Delete(ctx, fx.admin, fs.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
