package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The SQLite branch is the default local-dev path, so Connect must come up
// without a running database server.
func TestConnectSQLite(t *testing.T) {
	db, err := Connect("file:database_test?mode=memory&cache=shared")
	require.NoError(t, err)

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}

func TestConnectSQLiteReportsUniqueViolations(t *testing.T) {
	db, err := Connect("file:database_unique_test?mode=memory&cache=shared")
	require.NoError(t, err)

	type row struct {
		ID   int64  `gorm:"primarykey"`
		Name string `gorm:"uniqueIndex"`
	}
	require.NoError(t, db.AutoMigrate(&row{}))

	require.NoError(t, db.Create(&row{Name: "a"}).Error)
	err = db.Create(&row{Name: "a"}).Error
	require.Error(t, err)
	assert.Contains(t, strings.ToLower(err.Error()), "unique")
}
