package migrate_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbarbie/Rural-Connect-sub000/internal/migrate"
	"github.com/agbarbie/Rural-Connect-sub000/internal/testutil"
)

func TestRunIsIdempotentAndReportsStatus(t *testing.T) {
	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()

		require.NoError(t, migrate.Run(ctx, db))
		require.NoError(t, migrate.Run(ctx, db))

		versions, err := migrate.Status(ctx, db)
		require.NoError(t, err)
		require.NotEmpty(t, versions)
		assert.Equal(t, "0001_init", versions[0].Version)
		for _, v := range versions {
			assert.True(t, v.Applied, "migration %s should be applied", v.Version)
		}
	})
}
