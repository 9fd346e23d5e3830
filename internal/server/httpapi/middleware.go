package httpapi

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/dmitrijs2005/snapfeed/internal/common"
)

const (
	localUserID = "user_id"
	localEmail  = "email"
)

// requireToken authenticates the request from the Authorization header
// ("Bearer <token>") and stores the actor's identity in request locals.
func (s *HTTPServer) requireToken(c *fiber.Ctx) error {
	h := c.Get(fiber.HeaderAuthorization)
	if h == "" || !strings.HasPrefix(h, "Bearer ") {
		return common.ErrorUnauthorized
	}

	claims, err := s.users.ParseToken(strings.TrimPrefix(h, "Bearer "))
	if err != nil {
		return err
	}

	c.Locals(localUserID, claims.UserID)
	c.Locals(localEmail, claims.Email)

	return c.Next()
}

func actorID(c *fiber.Ctx) (string, error) {
	id, ok := c.Locals(localUserID).(string)
	if !ok || id == "" {
		return "", common.ErrorUnauthorized
	}
	return id, nil
}
