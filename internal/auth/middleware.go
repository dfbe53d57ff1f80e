package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	SessionCookie = "wms_session"
	CtxUserKey    = "user"
)

// RequireSession redirects to loginPath unless the request carries a valid
// session cookie. Paths with one of the public prefixes pass through.
func (a *Authenticator) RequireSession(loginPath string, public ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		if path == loginPath {
			return c.Next()
		}
		for _, p := range public {
			if strings.HasPrefix(path, p) {
				return c.Next()
			}
		}

		tokenStr := c.Cookies(SessionCookie)
		if tokenStr == "" {
			return c.Redirect(loginPath)
		}
		claims, err := ParseToken(a.secret, tokenStr)
		if err != nil {
			a.ClearSession(c)
			return c.Redirect(loginPath)
		}

		c.Locals(CtxUserKey, claims.User)
		return c.Next()
	}
}
