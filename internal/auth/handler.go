package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

const sessionTTL = 12 * time.Hour

var ErrInvalidCredentials = errors.New("invalid username or password")

// Authenticator checks the single configured credential pair and issues
// session cookies.
type Authenticator struct {
	user   string
	hash   []byte
	secret string
}

// NewAuthenticator hashes password once. An empty secret is replaced with a
// random one, so sessions do not survive a restart.
func NewAuthenticator(user, password, secret string) (*Authenticator, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if secret == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("failed to generate session secret: %w", err)
		}
		secret = hex.EncodeToString(buf)
		log.Println("[WARN] JWT_SECRET is not set, using a random secret for this process.")
	}

	return &Authenticator{user: user, hash: hash, secret: secret}, nil
}

// Login returns a signed session token for valid credentials.
func (a *Authenticator) Login(user, password string) (string, error) {
	if user != a.user {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(a.hash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := GenerateToken(a.secret, user, sessionTTL)
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}
	return token, nil
}

func (a *Authenticator) SetSession(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(sessionTTL),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (a *Authenticator) ClearSession(c *fiber.Ctx) {
	c.ClearCookie(SessionCookie)
}
