package repository

import (
	"context"

	"flashsale/internal/domain/order"
	"flashsale/internal/infra"
	"flashsale/internal/infra/db"
	"flashsale/internal/infra/stream"
	"flashsale/internal/worker"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	countUserOrdersSQL = `
		SELECT count(*) FROM voucher_orders
		WHERE user_id = $1 AND voucher_id = $2`

	// Guarded decrement: the predicate makes overselling impossible even if
	// the Redis counter and the row disagree.
	decrementStockSQL = `
		UPDATE voucher_stocks
		SET stock = stock - 1
		WHERE voucher_id = $1 AND stock > 0`

	insertOrderSQL = `
		INSERT INTO voucher_orders (id, user_id, voucher_id, status)
		VALUES ($1, $2, $3, $4)`
)

// OrderRepository materializes admitted orders. It is the persistent half of
// the fulfillment path; the fast half already ran in Redis.
type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// CommitOrder runs the re-check, decrement and insert as one transaction, so
// a replayed queue message either commits exactly once or reports why not.
func (r *OrderRepository) CommitOrder(ctx context.Context, m stream.Message) (worker.CommitOutcome, error) {
	outcome, err := db.RunInTxWithRetry(ctx, r.pool, 3, func(tx db.DBTX) (worker.CommitOutcome, error) {
		var existing int64
		if err := tx.QueryRow(ctx, countUserOrdersSQL, m.UserID, m.VoucherID).Scan(&existing); err != nil {
			return 0, infra.WrapRepoErr("failed to count existing orders", err)
		}
		if existing > 0 {
			return worker.OutcomeAlreadyExists, nil
		}

		tag, err := tx.Exec(ctx, decrementStockSQL, m.VoucherID)
		if err != nil {
			return 0, infra.WrapRepoErr("failed to decrement stock", err)
		}
		if tag.RowsAffected() == 0 {
			return worker.OutcomeOutOfStock, nil
		}

		if _, err := tx.Exec(ctx, insertOrderSQL, m.OrderID, m.UserID, m.VoucherID, order.StatusCommitted); err != nil {
			// A unique violation aborts the transaction, so it surfaces as an
			// error; the replaying sweep then finds the committed row and acks.
			if isDuplicateKey(err) {
				return 0, infra.WrapRepoErr("order already exists", err, infra.KindDuplicateKey)
			}
			return 0, infra.WrapRepoErr("failed to insert order", err)
		}

		return worker.OutcomeCommitted, nil
	})
	if err != nil {
		return 0, err
	}
	return outcome, nil
}

func isDuplicateKey(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
