package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/api/middleware"
	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/service"
	"github.com/jafarshop/storefront/pkg/errors"
)

// UpdateQuantityRequest carries the raw value of a quantity input. Both
// "3" and 3 are accepted; unusable values are reverted, not rejected.
type UpdateQuantityRequest struct {
	Quantity interface{} `json:"quantity"`
}

func (r UpdateQuantityRequest) raw() string {
	switch v := r.Quantity.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// QuantityResponse is the partial re-render returned for a quantity edit
type QuantityResponse struct {
	service.QuantityChange
	Error string `json:"error,omitempty"`
}

// ensureLoaded performs the session's first fetch
func ensureLoaded(ctx context.Context, view *service.CartView) error {
	if view.Store().Loaded() {
		return nil
	}
	_, err := view.Reload(ctx)
	return err
}

// HandleGetCart handles GET /v1/cart
func HandleGetCart(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := middleware.GetSessionFromContext(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no session"})
			return
		}

		var vm service.CartViewModel
		err := session.Do(func(view *service.CartView) error {
			if err := ensureLoaded(c.Request.Context(), view); err != nil {
				return err
			}
			vm, _ = view.Current()
			return nil
		})
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, vm)
	}
}

// HandleReloadCart handles POST /v1/cart/reload
func HandleReloadCart(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := middleware.GetSessionFromContext(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no session"})
			return
		}

		var vm service.CartViewModel
		err := session.Do(func(view *service.CartView) error {
			var err error
			vm, err = view.Reload(c.Request.Context())
			return err
		})
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, vm)
	}
}

// HandleUpdateQuantity handles PUT /v1/cart/items/:id/quantity
func HandleUpdateQuantity(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := middleware.GetSessionFromContext(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no session"})
			return
		}

		var req UpdateQuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid request",
				"details": err.Error(),
			})
			return
		}

		id := domain.ItemID(c.Param("id"))
		var change service.QuantityChange
		err := session.Do(func(view *service.CartView) error {
			if err := ensureLoaded(c.Request.Context(), view); err != nil {
				return err
			}
			var err error
			change, err = view.ChangeQuantityByID(c.Request.Context(), id, req.raw())
			return err
		})

		if qtyErr, isQty := err.(*errors.ErrInvalidQuantity); isQty {
			c.JSON(http.StatusUnprocessableEntity, QuantityResponse{
				QuantityChange: change,
				Error:          qtyErr.Error(),
			})
			return
		}
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, QuantityResponse{QuantityChange: change})
	}
}

// HandleRemovalPrompt handles GET /v1/cart/items/:id/removal
func HandleRemovalPrompt(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := middleware.GetSessionFromContext(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no session"})
			return
		}

		id := domain.ItemID(c.Param("id"))
		var prompt string
		err := session.Do(func(view *service.CartView) error {
			if err := ensureLoaded(c.Request.Context(), view); err != nil {
				return err
			}
			var err error
			prompt, err = view.RemovalPromptByID(id)
			return err
		})
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"prompt": prompt})
	}
}

// HandleRemoveItem handles DELETE /v1/cart/items/:id?confirm=true. Without
// confirmation nothing is removed and the prompt is returned with 409.
func HandleRemoveItem(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := middleware.GetSessionFromContext(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no session"})
			return
		}

		confirmed, _ := strconv.ParseBool(c.Query("confirm"))
		id := domain.ItemID(c.Param("id"))

		var (
			vm      service.CartViewModel
			prompt  string
			removed bool
		)
		err := session.Do(func(view *service.CartView) error {
			if err := ensureLoaded(c.Request.Context(), view); err != nil {
				return err
			}
			var err error
			vm, removed, err = view.RemoveByID(c.Request.Context(), id, service.ConfirmFunc(func(p string) bool {
				prompt = p
				return confirmed
			}))
			return err
		})
		if err != nil {
			respondError(c, logger, err)
			return
		}

		if !removed {
			c.JSON(http.StatusConflict, gin.H{
				"error":  "confirmation required",
				"prompt": prompt,
			})
			return
		}

		c.JSON(http.StatusOK, vm)
	}
}
