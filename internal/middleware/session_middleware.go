package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"go.uber.org/zap"
)

// LocalSessionID is the Locals key holding the cart session id.
const LocalSessionID = "session_id"

// SessionCookie names the cookie that carries the cart session.
const SessionCookie = "cart_session"

// NewSessionStore creates the store backing cart sessions.
func NewSessionStore(ttl time.Duration, secure bool) *session.Store {
	return session.New(session.Config{
		Expiration:     ttl,
		KeyLookup:      "cookie:" + SessionCookie,
		CookieHTTPOnly: true,
		CookieSecure:   secure,
		CookieSameSite: "Lax",
	})
}

// CartSession makes sure every request belongs to a session and exposes its id
// under LocalSessionID.
func CartSession(store *session.Store, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			logger.Error("failed to load session", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not load session",
				"error":   err.Error(),
			})
		}

		id := sess.ID()
		now := time.Now().Unix()
		if sess.Fresh() {
			sess.Set("created_at", now)
		}
		// Saving on every request slides the expiry, so a session lives
		// SESSION_TTL past its last use.
		sess.Set("seen_at", now)
		if err := sess.Save(); err != nil {
			logger.Error("failed to save session", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not save session",
				"error":   err.Error(),
			})
		}

		c.Locals(LocalSessionID, id)
		return c.Next()
	}
}

// SessionID returns the cart session id stored by CartSession.
func SessionID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalSessionID).(string)
	return id
}
