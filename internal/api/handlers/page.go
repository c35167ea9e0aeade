package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/api/middleware"
	"github.com/jafarshop/storefront/internal/service"
)

// CartPage is the data behind the cart page template
type CartPage struct {
	Cart      *service.CartViewModel
	LoadError string
}

// HandleCartPage handles GET /. A failed load renders the page with an
// inline message in place of the cart table.
func HandleCartPage(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := middleware.GetSessionFromContext(c)
		if !ok {
			c.String(http.StatusInternalServerError, "no session")
			return
		}

		var page CartPage
		err := session.Do(func(view *service.CartView) error {
			if err := ensureLoaded(c.Request.Context(), view); err != nil {
				return err
			}
			vm, _ := view.Current()
			page.Cart = &vm
			return nil
		})
		if err != nil {
			logger.Warn("Rendering cart page without cart", zap.Error(err))
			page.LoadError = service.MsgCartLoadFailed
		}

		c.HTML(http.StatusOK, "cart.html", page)
	}
}

// HandleThankYou handles GET /thankyou.html
func HandleThankYou() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, "thankyou.html", nil)
	}
}
