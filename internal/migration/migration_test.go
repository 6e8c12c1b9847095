package migration

import (
	"io/fs"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestEmbeddedMigrationsPaired(t *testing.T) {
	ups, err := fs.Glob(embeddedMigrations, migrationsDir+"/*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(embeddedMigrations, migrationsDir+"/*.down.sql")
	require.NoError(t, err)

	assert.NotEmpty(t, ups)
	assert.Len(t, downs, len(ups))
}

func TestApplyAutoMigratesNonPostgres(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file:migrationtest?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	version, err := Apply(conn, "sqlite")
	require.NoError(t, err)
	assert.Zero(t, version)
	assert.True(t, conn.Migrator().HasTable("invoices"))
	assert.True(t, conn.Migrator().HasTable("invoice_items"))
	assert.True(t, conn.Migrator().HasIndex("invoices", "idx_invoices_invoice_number"))
}

func TestRunMigrationsRequiresHandle(t *testing.T) {
	_, err := RunMigrations(nil)
	assert.Error(t, err)
}
