package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/repository"
)

// CartEventResponse represents a journaled cart mutation
type CartEventResponse struct {
	ID        string                 `json:"id"`
	EventType string                 `json:"event_type"`
	ItemID    string                 `json:"item_id"`
	EventData map[string]interface{} `json:"event_data"`
	CreatedAt string                 `json:"created_at"`
}

// HandleListCartEvents handles GET /v1/admin/sessions/:id/events
func HandleListCartEvents(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if repos == nil || repos.CartEvent == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "cart journal is not configured"})
			return
		}

		sessionID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session ID"})
			return
		}

		events, err := repos.CartEvent.ListBySession(c.Request.Context(), sessionID)
		if err != nil {
			logger.Error("Failed to list cart events", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		response := make([]CartEventResponse, len(events))
		for i, event := range events {
			response[i] = CartEventResponse{
				ID:        event.ID.String(),
				EventType: event.EventType,
				ItemID:    event.ItemID,
				EventData: event.EventData,
				CreatedAt: event.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"session_id": sessionID.String(),
			"events":     response,
		})
	}
}
