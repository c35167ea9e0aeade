package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/domain"
)

type cartEventRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCartEventRepository creates a new cart event repository
func NewCartEventRepository(db *sql.DB, logger *zap.Logger) *cartEventRepository {
	return &cartEventRepository{
		db:     db,
		logger: logger,
	}
}

func (r *cartEventRepository) Create(ctx context.Context, event *domain.CartEvent) error {
	query := `
		INSERT INTO cart_events (id, session_id, event_type, item_id, event_data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	data, err := json.Marshal(event.EventData)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query,
		event.ID,
		event.SessionID,
		event.EventType,
		event.ItemID,
		data,
		event.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create cart event", zap.Error(err))
		return err
	}

	return nil
}

func (r *cartEventRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.CartEvent, error) {
	query := `
		SELECT id, session_id, event_type, item_id, event_data, created_at
		FROM cart_events
		WHERE session_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		r.logger.Error("Failed to query cart events", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var events []*domain.CartEvent
	for rows.Next() {
		var event domain.CartEvent
		var data []byte

		if err := rows.Scan(
			&event.ID,
			&event.SessionID,
			&event.EventType,
			&event.ItemID,
			&data,
			&event.CreatedAt,
		); err != nil {
			return nil, err
		}

		if len(data) > 0 {
			if err := json.Unmarshal(data, &event.EventData); err != nil {
				return nil, fmt.Errorf("failed to unmarshal event data: %w", err)
			}
		}
		events = append(events, &event)
	}

	return events, rows.Err()
}
