package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/service"
)

const (
	// SessionCookie carries the cart session id
	SessionCookie = "storefront_session"

	sessionContextKey = "cart_session"
)

// SessionMiddleware attaches the caller's cart session to the context,
// starting a new one when the cookie is missing, malformed or names a
// session this server does not hold.
func SessionMiddleware(sessions *service.SessionRegistry, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var session *service.Session
		if id, err := sessionIDFromCookie(c); err == nil {
			session, _ = sessions.Get(id)
		}
		if session == nil {
			session = sessions.Create()
			logger.Debug("Starting cart session", zap.String("session_id", session.ID.String()))
		}

		http.SetCookie(c.Writer, &http.Cookie{
			Name:     SessionCookie,
			Value:    session.ID.String(),
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		c.Set(sessionContextKey, session)
		c.Next()
	}
}

func sessionIDFromCookie(c *gin.Context) (uuid.UUID, error) {
	value, err := c.Cookie(SessionCookie)
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(value)
}

// GetSessionFromContext retrieves the cart session set by SessionMiddleware
func GetSessionFromContext(c *gin.Context) (*service.Session, bool) {
	value, exists := c.Get(sessionContextKey)
	if !exists {
		return nil, false
	}
	session, ok := value.(*service.Session)
	return session, ok
}
