package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dmitrijs2005/snapfeed/internal/common"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyRequest struct {
	Token string `json:"token"`
}

func (s *HTTPServer) handleRegister(c *fiber.Ctx) error {
	var body registerRequest
	if err := c.BodyParser(&body); err != nil {
		return common.ErrorValidation
	}

	if _, err := s.users.Register(c.UserContext(), body.Name, body.Email, body.Password); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "User registered successfully"})
}

func (s *HTTPServer) handleLogin(c *fiber.Ctx) error {
	var body loginRequest
	if err := c.BodyParser(&body); err != nil {
		return common.ErrorValidation
	}

	token, err := s.users.Login(c.UserContext(), body.Email, body.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Login successful", "token": token})
}

func (s *HTTPServer) handleVerify(c *fiber.Ctx) error {
	var body verifyRequest
	if err := c.BodyParser(&body); err != nil {
		return common.ErrorValidation
	}
	if body.Token == "" {
		return common.ErrorValidation
	}

	claims, err := s.users.Verify(c.UserContext(), body.Token)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "User exists", "user_id": claims.UserID, "email": claims.Email})
}
