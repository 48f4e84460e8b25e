package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-checkout/internal/domains/payment/model"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) GetMethod(ctx context.Context, id string) (*model.Method, error) {
	query := `
		SELECT
			p.id, p.name, p.is_active, p.from_amount, p.to_amount,
			COALESCE(ARRAY(SELECT s.shipset_id FROM payment_shipsets s WHERE s.payment_id = p.id), '{}'),
			COALESCE(ARRAY(SELECT g.group_id FROM payment_groups g WHERE g.payment_id = p.id), '{}'),
			COALESCE(p.required_fields, '{}')
		FROM payment_methods p
		WHERE p.id = $1 AND p.is_active = true
	`

	var m model.Method
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.Name, &m.IsActive, &m.FromAmount, &m.ToAmount,
		&m.AllowedShipSets, &m.UserGroups, &m.RequiredFields,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrMethodNotFound
		}
		return nil, fmt.Errorf("failed to get payment method: %w", err)
	}

	return &m, nil
}
