package persistence

import (
	"context"
	"testing"

	appplanning "github.com/mrp/backend/internal/application/planning"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormTransactionScope_Execute(t *testing.T) {
	t.Run("provides transaction-scoped repositories", func(t *testing.T) {
		db, mock := openMockedDatabase(t)

		scope := NewGormTransactionScope(db.DB)

		mock.ExpectBegin()
		mock.ExpectCommit()

		err := scope.Execute(context.Background(), func(repos appplanning.TransactionalRepositories) error {
			require.NotNil(t, repos.Plans())
			require.NotNil(t, repos.Products())
			require.NotNil(t, repos.BOMs())
			require.NotNil(t, repos.Orders())
			return nil
		})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when the function fails", func(t *testing.T) {
		db, mock := openMockedDatabase(t)

		scope := NewGormTransactionScope(db.DB)

		mock.ExpectBegin()
		mock.ExpectRollback()

		err := scope.Execute(context.Background(), func(repos appplanning.TransactionalRepositories) error {
			return assert.AnError
		})

		assert.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
