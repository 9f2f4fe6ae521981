package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"

	"github.com/agentpay/agentpay"
)

// AuthController handles registration, login, and session
// introspection.
type AuthController struct {
	auther *agentpay.Auther
	logger agentpay.Logger
}

func NewAuthController(auther *agentpay.Auther, logger agentpay.Logger) *AuthController {
	return &AuthController{
		auther: auther,
		logger: logger,
	}
}

func (a *AuthController) Register(c *fiber.Ctx) error {
	payload := agentpay.RegisterPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "failed to parse registration payload").
			WithCode(errors.CodeBadRequest)
	}

	result, err := a.auther.Register(c.UserContext(), payload)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

func (a *AuthController) Login(c *fiber.Ctx) error {
	payload := agentpay.LoginPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "failed to parse login payload").
			WithCode(errors.CodeBadRequest)
	}

	result, err := a.auther.Login(c.UserContext(), payload)
	if err != nil {
		return err
	}

	return c.JSON(result)
}

// Me resolves the verified token back to the stored user record.
func (a *AuthController) Me(c *fiber.Ctx) error {
	claims, ok := agentpay.GetClaims(c.UserContext())
	if !ok {
		return agentpay.ErrAuthenticationRequired
	}

	identity, err := a.auther.Provider().FindIdentityByID(c.UserContext(), claims.UserID())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"id":    identity.ID(),
		"email": identity.Email(),
	})
}

// Logout is a no-op on the server: tokens are stateless and simply
// expire. The endpoint exists so clients have a place to hang their
// local cleanup.
func (a *AuthController) Logout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "logged out",
	})
}
