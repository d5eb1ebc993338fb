package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFiles_SortedAndEmbedded(t *testing.T) {
	files, err := migrationFiles()

	require.NoError(t, err)
	assert.Equal(t, []string{"0001_create_accounts.sql", "0002_create_transactions.sql"}, files)

	for _, file := range files {
		content, err := migrationFS.ReadFile("migrations/" + file)
		require.NoError(t, err)
		assert.Contains(t, string(content), "CREATE TABLE IF NOT EXISTS")
	}
}

func TestNullString(t *testing.T) {
	assert.False(t, nullString("").Valid)

	ns := nullString("Vodafone")
	assert.True(t, ns.Valid)
	assert.Equal(t, "Vodafone", ns.String)
}
