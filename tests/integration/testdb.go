// Package integration runs the school services against a real PostgreSQL
// started with testcontainers. Every test is skipped under -short.
package integration

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/schoolms/backend/internal/domain/fee"
	"github.com/schoolms/backend/internal/domain/identity"
	"github.com/schoolms/backend/internal/domain/learner"
	"github.com/schoolms/backend/internal/domain/shared"
	"github.com/schoolms/backend/internal/infrastructure/migration"
	"github.com/schoolms/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	sharedContainer    testcontainers.Container
	sharedContainerMu  sync.Mutex
	sharedContainerDSN string
)

// TestDB is a migrated database connection
type TestDB struct {
	DB        *gorm.DB
	SqlDB     *sql.DB
	Container testcontainers.Container
	DSN       string
	t         *testing.T
}

func startPostgres(t *testing.T, dbName string) (testcontainers.Container, string) {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase(dbName),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "Failed to get connection string")
	return container, dsn
}

// NewTestDB starts a dedicated container and applies the embedded migrations
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test needs Docker")
	}

	container, dsn := startPostgres(t, "school_test")
	db, sqlDB := connectToDatabase(t, dsn)
	runMigrations(t, sqlDB)

	tdb := &TestDB{DB: db, SqlDB: sqlDB, Container: container, DSN: dsn, t: t}
	t.Cleanup(tdb.Close)
	return tdb
}

// NewSharedTestDB reuses one container per package. Tests must keep to
// their own schools since data is not reset between them.
func NewSharedTestDB(t *testing.T) *TestDB {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test needs Docker")
	}

	sharedContainerMu.Lock()
	defer sharedContainerMu.Unlock()

	if sharedContainer == nil {
		container, dsn := startPostgres(t, "school_shared_test")
		_, sqlDB := connectToDatabase(t, dsn)
		runMigrations(t, sqlDB)
		_ = sqlDB.Close()
		sharedContainer, sharedContainerDSN = container, dsn
	}

	db, sqlDB := connectToDatabase(t, sharedContainerDSN)
	tdb := &TestDB{DB: db, SqlDB: sqlDB, Container: sharedContainer, DSN: sharedContainerDSN, t: t}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return tdb
}

// Close closes the connection and terminates a dedicated container
func (tdb *TestDB) Close() {
	if tdb.SqlDB != nil {
		_ = tdb.SqlDB.Close()
	}
	if tdb.Container != nil && tdb.Container != sharedContainer {
		if err := tdb.Container.Terminate(context.Background()); err != nil {
			tdb.t.Logf("Warning: failed to terminate container: %v", err)
		}
	}
}

// CleanupSharedContainer terminates the shared container; call it from TestMain
func CleanupSharedContainer() {
	sharedContainerMu.Lock()
	defer sharedContainerMu.Unlock()

	if sharedContainer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = sharedContainer.Terminate(ctx)
		sharedContainer = nil
		sharedContainerDSN = ""
	}
}

func connectToDatabase(t *testing.T, dsn string) (*gorm.DB, *sql.DB) {
	t.Helper()

	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	if os.Getenv("TEST_DB_DEBUG") != "" {
		cfg.Logger = logger.Default.LogMode(logger.Info)
	}
	db, err := gorm.Open(gormpostgres.Open(dsn), cfg)
	require.NoError(t, err, "Failed to connect to database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	return db, sqlDB
}

// runMigrations applies the migrations embedded in the binary, the same set
// the migrate command ships
func runMigrations(t *testing.T, sqlDB *sql.DB) {
	t.Helper()
	m, err := migration.New(sqlDB, zap.NewNop())
	require.NoError(t, err, "Failed to create migrator")
	require.NoError(t, m.Up(), "Failed to run migrations")
}

// CreateSchool saves a school and returns an admin tenant context for it
func (tdb *TestDB) CreateSchool(code string) (*identity.School, shared.TenantContext) {
	tdb.t.Helper()
	school, err := identity.NewSchool(code, "School "+code, "")
	require.NoError(tdb.t, err)
	require.NoError(tdb.t, persistence.NewGormSchoolRepository(tdb.DB).Save(context.Background(), school))
	return school, shared.NewTenantContext(school.ID, string(identity.RoleSchoolAdmin))
}

// CreateLearner enrols an active learner in grade
func (tdb *TestDB) CreateLearner(tc shared.TenantContext, admission, grade string) *learner.Learner {
	tdb.t.Helper()
	l, err := learner.NewLearner(tc, admission, "Wanjiru", "Kamau", learner.GenderFemale, grade, "")
	require.NoError(tdb.t, err)
	require.NoError(tdb.t, persistence.NewGormLearnerRepository(tdb.DB).Save(context.Background(), l))
	return l
}

// CreateStructure saves a term fee structure with one mandatory item per amount
func (tdb *TestDB) CreateStructure(tc shared.TenantContext, grade string, term, year int, amounts ...int64) *fee.FeeStructure {
	tdb.t.Helper()
	ctx := context.Background()
	fs, err := fee.NewFeeStructure(tc, grade+" Term", grade, term, year)
	require.NoError(tdb.t, err)
	for i, a := range amounts {
		ft, err := fee.NewFeeType(tc, "FT"+string(rune('A'+i))+fs.ID.String()[:4], "Fee", "")
		require.NoError(tdb.t, err)
		require.NoError(tdb.t, persistence.NewGormFeeTypeRepository(tdb.DB).Save(ctx, ft))
		require.NoError(tdb.t, fs.AddItem(ft.ID, decimal.NewFromInt(a), true))
	}
	require.NoError(tdb.t, persistence.NewGormFeeStructureRepository(tdb.DB).Save(ctx, fs))
	return fs
}
