package persistence

import (
	"testing"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/identity"
	"github.com/schoolms/backend/internal/domain/learner"
	"github.com/schoolms/backend/internal/domain/shared"
	"github.com/schoolms/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory SQLite database migrated with every model.
// One connection keeps the in-memory database alive across transactions.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	return db
}

// newDryRunDB returns a postgres-dialect DB that builds SQL without executing it
func newDryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.Open("host=localhost user=test dbname=test sslmode=disable"), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return db
}

type fixture struct {
	school  *identity.School
	admin   shared.TenantContext
	branchA uuid.UUID
	branchB uuid.UUID
}

func newFixture(t *testing.T, db *gorm.DB) fixture {
	t.Helper()
	school, err := identity.NewSchool("greenhill", "Greenhill Academy", "")
	require.NoError(t, err)
	require.NoError(t, NewGormSchoolRepository(db).Save(t.Context(), school))

	userID := uuid.New()
	return fixture{
		school:  school,
		admin:   shared.NewTenantContext(school.ID, string(identity.RoleSchoolAdmin)).WithUser(userID),
		branchA: uuid.New(),
		branchB: uuid.New(),
	}
}

func seedLearner(t *testing.T, db *gorm.DB, tc shared.TenantContext, admission, grade string) *learner.Learner {
	t.Helper()
	l, err := learner.NewLearner(tc, admission, "Amani", "Otieno", learner.GenderFemale, grade, "")
	require.NoError(t, err)
	require.NoError(t, NewGormLearnerRepository(db).Save(t.Context(), l))
	return l
}
