package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-checkout/internal/domains/user/model"
	"storefront-checkout/internal/infrastructure/database"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

// ========================================
// READS
// ========================================

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `
		SELECT
			u.id, u.email, u.full_name, u.is_active, u.created_at, u.updated_at, u.deleted_at,
			COALESCE(u.company, ''), COALESCE(u.first_name, ''), COALESCE(u.last_name, ''),
			COALESCE(u.street, ''), COALESCE(u.street_no, ''), COALESCE(u.zip, ''),
			COALESCE(u.city, ''), COALESCE(u.country, ''),
			COALESCE(ARRAY(SELECT g.group_id FROM user_groups g WHERE g.user_id = u.id ORDER BY g.group_id), '{}')
		FROM users u
		WHERE u.id = $1 AND u.deleted_at IS NULL
	`

	var u model.User
	b := &u.Billing
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.Email, &u.FullName, &u.IsActive, &u.CreatedAt, &u.UpdatedAt, &u.DeletedAt,
		&b.Company, &b.FirstName, &b.LastName,
		&b.Street, &b.StreetNo, &b.Zip,
		&b.City, &b.Country,
		&u.Groups,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	b.ID = u.ID
	b.UserID = u.ID

	return &u, nil
}

func (r *postgresRepository) GetAddress(ctx context.Context, userID, addressID uuid.UUID) (*model.Address, error) {
	query := `
		SELECT id, user_id, COALESCE(company, ''), first_name, last_name,
		       street, COALESCE(street_no, ''), zip, city, country, updated_at
		FROM addresses
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`

	var a model.Address
	err := r.pool.QueryRow(ctx, query, addressID, userID).Scan(
		&a.ID, &a.UserID, &a.Company, &a.FirstName, &a.LastName,
		&a.Street, &a.StreetNo, &a.Zip, &a.City, &a.Country, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAddressNotFound
		}
		return nil, fmt.Errorf("failed to get address: %w", err)
	}

	return &a, nil
}

// ========================================
// GROUPS
// ========================================

func (r *postgresRepository) UpdateGroups(ctx context.Context, userID uuid.UUID, remove, add []string) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if len(remove) > 0 {
			if _, err := tx.Exec(ctx,
				`DELETE FROM user_groups WHERE user_id = $1 AND group_id = ANY($2)`,
				userID, remove,
			); err != nil {
				return fmt.Errorf("failed to remove groups: %w", err)
			}
		}

		for _, group := range add {
			if _, err := tx.Exec(ctx,
				`INSERT INTO user_groups (user_id, group_id, created_at) VALUES ($1, $2, NOW())
				 ON CONFLICT (user_id, group_id) DO NOTHING`,
				userID, group,
			); err != nil {
				return fmt.Errorf("failed to add group %s: %w", group, err)
			}
		}

		return nil
	})
}
