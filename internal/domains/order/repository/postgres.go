package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	basketModel "storefront-checkout/internal/domains/basket/model"
	checkoutModel "storefront-checkout/internal/domains/checkout/model"
	"storefront-checkout/internal/domains/order/model"
	"storefront-checkout/internal/infrastructure/database"
)

const pgUniqueViolation = "23505"

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

// =====================================================
// READS
// =====================================================

func (r *postgresRepository) Exists(ctx context.Context, orderID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)`, orderID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check order: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) GetVouchers(ctx context.Context, codes []string) ([]model.Voucher, error) {
	if len(codes) == 0 {
		return nil, nil
	}

	query := `
		SELECT code, valid_from, valid_until, min_order_value, used_at
		FROM vouchers
		WHERE code = ANY($1)
	`

	rows, err := r.pool.Query(ctx, query, codes)
	if err != nil {
		return nil, fmt.Errorf("failed to get vouchers: %w", err)
	}

	vouchers, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Voucher, error) {
		var v model.Voucher
		err := row.Scan(&v.Code, &v.ValidFrom, &v.ValidUntil, &v.MinOrderValue, &v.UsedAt)
		return v, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan vouchers: %w", err)
	}
	return vouchers, nil
}

// =====================================================
// TRANSACTIONS
// =====================================================

func (r *postgresRepository) InTx(ctx context.Context, fn func(tx TxRepository) error) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(&txRepository{tx: tx})
	})
}

func (r *postgresRepository) RecordCapture(ctx context.Context, orderID, transactionID string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE orders SET transaction_id = $2
		WHERE id = $1 AND status = $3
	`, orderID, transactionID, model.StatusNotFinished)
	if err != nil {
		return fmt.Errorf("failed to record capture: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}
	return nil
}

func (r *postgresRepository) CleanupUnfinished(ctx context.Context, cutoff time.Time) (int, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (int, error) {
		rows, err := tx.Query(ctx, `
			SELECT id FROM orders
			WHERE status = $1 AND created_at < $2 AND transaction_id IS NULL
			FOR UPDATE SKIP LOCKED
		`, model.StatusNotFinished, cutoff)
		if err != nil {
			return 0, fmt.Errorf("failed to select unfinished orders: %w", err)
		}
		ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return 0, fmt.Errorf("failed to scan unfinished orders: %w", err)
		}

		t := &txRepository{tx: tx}
		for _, id := range ids {
			if err := t.CancelUnfinished(ctx, id); err != nil {
				return 0, err
			}
		}
		return len(ids), nil
	})
}

// =====================================================
// TX REPOSITORY
// =====================================================

type txRepository struct {
	tx pgx.Tx
}

func (t *txRepository) ReserveStock(ctx context.Context, items []basketModel.Item) error {
	// lock in a stable order so concurrent checkouts cannot deadlock
	sorted := make([]basketModel.Item, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ArticleID.String() < sorted[j].ArticleID.String()
	})

	for _, it := range sorted {
		if it.Quantity <= 0 {
			return checkoutModel.NewInvalidArticleInputError(it.ArticleID.String())
		}

		var stock int
		var active bool
		err := t.tx.QueryRow(ctx, `
			SELECT stock, is_active FROM articles WHERE id = $1 FOR UPDATE
		`, it.ArticleID).Scan(&stock, &active)
		if errors.Is(err, pgx.ErrNoRows) || (err == nil && !active) {
			return checkoutModel.NewArticleMissingError(it.ArticleID.String())
		}
		if err != nil {
			return fmt.Errorf("failed to lock article: %w", err)
		}
		if stock < it.Quantity {
			return checkoutModel.NewOutOfStockError(it.ArticleID.String(), it.ArticleNo, it.Quantity, stock)
		}

		_, err = t.tx.Exec(ctx, `UPDATE articles SET stock = stock - $2 WHERE id = $1`, it.ArticleID, it.Quantity)
		if err != nil {
			return fmt.Errorf("failed to decrement stock: %w", err)
		}
	}
	return nil
}

func (t *txRepository) InsertOrder(ctx context.Context, o *model.Order) error {
	query := `
		INSERT INTO orders (
			id, user_id, basket_id, status, payment_id, shipping_id,
			delivery_address_id, currency, products_total, discount,
			delivery_cost, payment_cost, total, remark, client_ip, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16
		)
	`

	_, err := t.tx.Exec(ctx, query,
		o.ID, o.UserID, o.BasketID, o.Status, o.PaymentID, o.ShippingID,
		o.DeliveryAddressID, o.Currency, o.ProductsTotal, o.Discount,
		o.DeliveryCost, o.PaymentCost, o.Total, o.Remark, o.ClientIP, o.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return model.ErrOrderExists
		}
		return fmt.Errorf("failed to insert order: %w", err)
	}

	batch := &pgx.Batch{}
	for _, it := range o.Items {
		batch.Queue(`
			INSERT INTO order_items (order_id, article_id, article_no, title, quantity, unit_price, total)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, o.ID, it.ArticleID, it.ArticleNo, it.Title, it.Quantity, it.UnitPrice, it.Total)
	}
	if err := t.tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert order items: %w", err)
	}
	return nil
}

func (t *txRepository) MarkPaid(ctx context.Context, orderID, transactionID string) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE orders
		SET status = $2, transaction_id = $3, paid_at = NOW()
		WHERE id = $1 AND status = $4
	`, orderID, model.StatusOK, transactionID, model.StatusNotFinished)
	if err != nil {
		return fmt.Errorf("failed to mark order paid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}
	return nil
}

func (t *txRepository) MarkVouchersUsed(ctx context.Context, codes []string, orderID string) error {
	if len(codes) == 0 {
		return nil
	}
	_, err := t.tx.Exec(ctx, `
		UPDATE vouchers SET used_at = NOW(), order_id = $2
		WHERE code = ANY($1) AND used_at IS NULL
	`, codes, orderID)
	if err != nil {
		return fmt.Errorf("failed to mark vouchers used: %w", err)
	}
	return nil
}

func (t *txRepository) CloseBasket(ctx context.Context, basketID uuid.UUID) error {
	_, err := t.tx.Exec(ctx, `
		UPDATE baskets SET status = 'ordered', reserved_until = NULL, updated_at = NOW()
		WHERE id = $1
	`, basketID)
	if err != nil {
		return fmt.Errorf("failed to close basket: %w", err)
	}
	return nil
}

func (t *txRepository) CancelUnfinished(ctx context.Context, orderID string) error {
	_, err := t.tx.Exec(ctx, `
		UPDATE articles a
		SET stock = a.stock + s.quantity
		FROM (
			SELECT article_id, SUM(quantity) AS quantity
			FROM order_items
			WHERE order_id = $1
			GROUP BY article_id
		) s
		WHERE s.article_id = a.id
	`, orderID)
	if err != nil {
		return fmt.Errorf("failed to restore stock: %w", err)
	}

	tag, err := t.tx.Exec(ctx, `
		DELETE FROM orders
		WHERE id = $1 AND status = $2 AND transaction_id IS NULL
	`, orderID, model.StatusNotFinished)
	if err != nil {
		return fmt.Errorf("failed to delete unfinished order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}
	return nil
}
