package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/service"
	"github.com/jafarshop/storefront/pkg/errors"
)

// HandleContact handles POST /v1/contact. The form is only validated; nothing
// is forwarded.
func HandleContact(contact *service.ContactService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form service.ContactForm
		if err := c.ShouldBind(&form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid request",
				"details": err.Error(),
			})
			return
		}

		notification, err := contact.Submit(form)
		if missing, ok := err.(*errors.ErrMissingFormField); ok {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":        missing.Error(),
				"fields":       missing.Fields,
				"notification": notification,
			})
			return
		}
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"notification": notification})
	}
}
