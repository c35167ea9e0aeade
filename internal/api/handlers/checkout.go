package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jafarshop/storefront/internal/config"
)

// HandleCheckout handles GET|POST /checkout by sending the browser on to the
// follow-up page
func HandleCheckout(cfg config.StorefrontConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Redirect(http.StatusSeeOther, cfg.CheckoutURL)
	}
}
