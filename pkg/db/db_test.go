package db

import (
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestDialect(t *testing.T) {
	for _, typ := range []string{"postgres", "mysql", "sqlite"} {
		d, err := Dialect(Config{Type: typ, Name: "gembill"})
		require.NoError(t, err, typ)
		assert.NotNil(t, d)
	}

	_, err := Dialect(Config{Type: "oracle"})
	assert.Error(t, err)
}

func TestSqlitePath(t *testing.T) {
	assert.Equal(t, "gembill.db", sqlitePath(""))
	assert.Equal(t, "store.db", sqlitePath("store"))
	assert.Equal(t, "store.db", sqlitePath("store.db"))
	assert.Equal(t, ":memory:", sqlitePath(":memory:"))
}

func TestOpenDialectorAndDuplicateKey(t *testing.T) {
	conn, err := OpenDialector(sqlite.Open("file:dbtest?mode=memory&cache=shared"), Config{Type: "sqlite", MaxOpenConn: 1}, Options{})
	require.NoError(t, err)

	type row struct {
		ID   int64  `gorm:"primaryKey"`
		Code string `gorm:"uniqueIndex"`
	}
	require.NoError(t, conn.AutoMigrate(&row{}))
	require.NoError(t, conn.Create(&row{ID: 1, Code: "a"}).Error)

	err = conn.Create(&row{ID: 2, Code: "a"}).Error
	require.Error(t, err)
	assert.True(t, IsDuplicateKeyErr(err))
}

func TestIsDuplicateKeyErr(t *testing.T) {
	assert.False(t, IsDuplicateKeyErr(nil))
	assert.True(t, IsDuplicateKeyErr(gorm.ErrDuplicatedKey))
	assert.True(t, IsDuplicateKeyErr(errors.New("Error 1062: Duplicate entry")))
	assert.False(t, IsDuplicateKeyErr(errors.New("connection refused")))
}
