package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/repository"
)

// Journal is the MutationHook that stands in for persisting cart changes.
// With repositories it writes a cart event per mutation; without them it
// only logs the change.
type Journal struct {
	repos  *repository.Repositories
	logger *zap.Logger
}

// NewJournal creates a journal. repos may be nil.
func NewJournal(repos *repository.Repositories, logger *zap.Logger) *Journal {
	return &Journal{
		repos:  repos,
		logger: logger,
	}
}

func (j *Journal) RecordMutation(ctx context.Context, event domain.MutationEvent) error {
	j.logger.Info("Cart mutation",
		zap.String("session_id", event.SessionID.String()),
		zap.String("kind", string(event.Kind)),
		zap.String("item_id", event.ItemID.String()),
		zap.Int("old_quantity", event.OldQuantity),
		zap.Int("new_quantity", event.NewQuantity),
		zap.Int64("subtotal", event.Subtotal),
	)

	if j.repos == nil || j.repos.CartEvent == nil {
		return nil
	}

	data := map[string]interface{}{
		"title":        event.Title,
		"old_quantity": event.OldQuantity,
		"delta":        event.Delta,
		"subtotal":     event.Subtotal,
	}
	if event.Kind == domain.MutationQuantityChanged {
		data["new_quantity"] = event.NewQuantity
	}

	return j.repos.CartEvent.Create(ctx, &domain.CartEvent{
		SessionID: event.SessionID,
		EventType: string(event.Kind),
		ItemID:    event.ItemID.String(),
		EventData: data,
	})
}
