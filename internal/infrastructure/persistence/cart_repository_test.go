package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestUpsertItem(t *testing.T) {
	t.Run("conflicting line increments quantity in place", func(t *testing.T) {
		db, mock, sqlDB := newMockDB(t)
		defer sqlDB.Close()
		repo := NewGormCartRepository(db)
		cartID := uuid.New()
		productID := uuid.New()

		mock.ExpectExec(`INSERT INTO "cart_items" .* ON CONFLICT \("cart_id","product_id"\) DO UPDATE SET "quantity"=cart_items\.quantity \+ excluded\.quantity`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT quantity FROM "cart_items" WHERE cart_id = \$1 AND product_id = \$2`).
			WithArgs(cartID, productID).
			WillReturnRows(sqlmock.NewRows([]string{"quantity"}).AddRow(5))

		quantity, err := repo.UpsertItem(context.Background(), cartID, productID, 2, decimal.NewFromInt(30))
		assert.NoError(t, err)
		assert.Equal(t, 5, quantity)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("non-positive delta is rejected before touching the database", func(t *testing.T) {
		db, mock, sqlDB := newMockDB(t)
		defer sqlDB.Close()
		repo := NewGormCartRepository(db)

		_, err := repo.UpsertItem(context.Background(), uuid.New(), uuid.New(), 0, decimal.NewFromInt(30))
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
