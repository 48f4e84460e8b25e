package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-checkout/internal/domains/basket/model"
)

type postgresRepository struct {
	pool               *pgxpool.Pool
	reservationTimeout time.Duration
}

func NewPostgresRepository(pool *pgxpool.Pool, reservationTimeout time.Duration) RepositoryInterface {
	return &postgresRepository{
		pool:               pool,
		reservationTimeout: reservationTimeout,
	}
}

// GetActiveBasket implements RepositoryInterface.GetActiveBasket
func (r *postgresRepository) GetActiveBasket(ctx context.Context, sessionID string, userID *uuid.UUID) (*model.Basket, error) {
	query := `
		SELECT
			id, session_id, user_id, COALESCE(payment_id, ''), COALESCE(shipping_id, ''),
			delivery_address_id, currency, delivery_cost, payment_cost, discount,
			reserved_until, updated_at
		FROM baskets
		WHERE status = 'open'
		  AND (session_id = $1 OR ($2::uuid IS NOT NULL AND user_id = $2))
		ORDER BY (user_id IS NOT NULL AND user_id = $2) DESC, updated_at DESC
		LIMIT 1
	`

	var b model.Basket
	err := r.pool.QueryRow(ctx, query, sessionID, userID).Scan(
		&b.ID,
		&b.SessionID,
		&b.UserID,
		&b.PaymentID,
		&b.ShippingID,
		&b.DeliveryAddressID,
		&b.Currency,
		&b.DeliveryCost,
		&b.PaymentCost,
		&b.Discount,
		&b.ReservedUntil,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active basket: %w", err)
	}

	if b.Items, err = r.getItems(ctx, b.ID); err != nil {
		return nil, err
	}
	if b.VoucherCodes, err = r.getVoucherCodes(ctx, b.ID); err != nil {
		return nil, err
	}

	return &b, nil
}

func (r *postgresRepository) getItems(ctx context.Context, basketID uuid.UUID) ([]model.Item, error) {
	query := `
		SELECT
			bi.article_id, a.article_no, a.title, bi.quantity, a.price,
			a.is_downloadable, a.is_intangible
		FROM basket_items bi
		JOIN articles a ON a.id = bi.article_id
		WHERE bi.basket_id = $1
		ORDER BY bi.position
	`

	rows, err := r.pool.Query(ctx, query, basketID)
	if err != nil {
		return nil, fmt.Errorf("failed to query basket items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(
			&it.ArticleID,
			&it.ArticleNo,
			&it.Title,
			&it.Quantity,
			&it.UnitPrice,
			&it.Downloadable,
			&it.Intangible,
		); err != nil {
			return nil, fmt.Errorf("failed to scan basket item: %w", err)
		}
		items = append(items, it)
	}

	return items, rows.Err()
}

func (r *postgresRepository) getVoucherCodes(ctx context.Context, basketID uuid.UUID) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT voucher_code FROM basket_vouchers WHERE basket_id = $1 ORDER BY voucher_code`, basketID)
	if err != nil {
		return nil, fmt.Errorf("failed to query basket vouchers: %w", err)
	}

	codes, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to collect basket vouchers: %w", err)
	}
	return codes, nil
}

// RenewReservation implements RepositoryInterface.RenewReservation
func (r *postgresRepository) RenewReservation(ctx context.Context, basketID uuid.UUID) error {
	query := `
		UPDATE baskets
		SET reserved_until = NOW() + $2::interval, updated_at = NOW()
		WHERE id = $1 AND status = 'open'
	`

	_, err := r.pool.Exec(ctx, query, basketID, r.reservationTimeout)
	if err != nil {
		return fmt.Errorf("failed to renew reservation: %w", err)
	}

	return nil
}
