package repository

import (
	"context"

	"github.com/google/uuid"

	"storefront-checkout/internal/domains/user/model"
)

type Repository interface {
	// GetByID loads the user with billing address and groups.
	// Returns model.ErrUserNotFound for unknown or deleted users.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// GetAddress returns one of the user's delivery addresses.
	GetAddress(ctx context.Context, userID, addressID uuid.UUID) (*model.Address, error)

	// UpdateGroups removes and adds group memberships in one transaction.
	UpdateGroups(ctx context.Context, userID uuid.UUID, remove, add []string) error
}
