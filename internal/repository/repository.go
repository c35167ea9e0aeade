package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/jafarshop/storefront/internal/domain"
)

// CartEventRepository stores the journal of cart mutations
type CartEventRepository interface {
	Create(ctx context.Context, event *domain.CartEvent) error
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.CartEvent, error)
}

// Repositories bundles the storefront repositories
type Repositories struct {
	CartEvent CartEventRepository
}
