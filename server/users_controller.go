package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"

	"github.com/agentpay/agentpay"
	"github.com/agentpay/agentpay/method"
)

// UsersController serves the profile and settings surface, plus the
// aggregator entity bootstrap.
type UsersController struct {
	repo   agentpay.RepositoryManager
	method *method.Client
	logger agentpay.Logger
}

func NewUsersController(repo agentpay.RepositoryManager, mc *method.Client, logger agentpay.Logger) *UsersController {
	return &UsersController{
		repo:   repo,
		method: mc,
		logger: logger,
	}
}

// currentUserID pulls the authenticated user id out of the request
// context. The middleware guarantees it is there on protected routes.
func currentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	id, ok := agentpay.CurrentUserID(c.UserContext())
	if !ok {
		return uuid.Nil, agentpay.ErrAuthenticationRequired
	}

	uid, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, agentpay.ErrInvalidToken
	}

	return uid, nil
}

// Profile returns the user record together with their settings.
func (u *UsersController) Profile(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	user, err := u.repo.Users().GetUserByID(c.UserContext(), userID.String())
	if err != nil {
		if agentpay.IsNotFound(err) {
			return agentpay.ErrIdentityNotFound
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to load user profile")
	}

	settings, err := u.repo.Settings().GetOrCreateForUser(c.UserContext(), userID)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to load user settings")
	}

	return c.JSON(fiber.Map{
		"user":     user,
		"settings": settings,
	})
}

// ProfileUpdatePayload carries the mutable profile fields.
type ProfileUpdatePayload struct {
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
}

func (u *UsersController) UpdateProfile(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	payload := ProfileUpdatePayload{}
	if err := c.BodyParser(&payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "failed to parse profile payload").
			WithCode(errors.CodeBadRequest)
	}

	record := &agentpay.User{
		ID:          userID,
		FullName:    payload.FullName,
		PhoneNumber: payload.PhoneNumber,
	}

	user, err := u.repo.Users().Update(c.UserContext(), record,
		repository.UpdateByID(userID.String()),
		repository.UpdateSkipZeroValues(),
	)
	if err != nil {
		if agentpay.IsNotFound(err) {
			return agentpay.ErrIdentityNotFound
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to update user profile")
	}

	return c.JSON(user)
}

func (u *UsersController) Settings(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	settings, err := u.repo.Settings().GetOrCreateForUser(c.UserContext(), userID)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to load user settings")
	}

	return c.JSON(settings)
}

func (u *UsersController) UpdateSettings(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	settings := &agentpay.UserSettings{}
	if err := c.BodyParser(settings); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "failed to parse settings payload").
			WithCode(errors.CodeBadRequest)
	}
	settings.UserID = userID

	updated, err := u.repo.Settings().UpdateForUser(c.UserContext(), settings)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to update user settings")
	}

	return c.JSON(updated)
}

// CreateMethodAccount registers the user with the aggregator and pins
// the resulting entity id to the user record. Calling it again just
// returns the existing link.
func (u *UsersController) CreateMethodAccount(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	user, err := u.repo.Users().GetUserByID(c.UserContext(), userID.String())
	if err != nil {
		if agentpay.IsNotFound(err) {
			return agentpay.ErrIdentityNotFound
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to load user")
	}

	if user.MethodEntityID != "" {
		return c.JSON(fiber.Map{
			"method_entity_id": user.MethodEntityID,
			"created":          false,
		})
	}

	entity, err := u.method.CreateEntity(c.UserContext(), user.Email, user.FullName, user.PhoneNumber)
	if err != nil {
		return err
	}

	if _, err := u.repo.Users().SetMethodEntityID(c.UserContext(), userID, entity.ID); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to store method entity id")
	}

	u.logger.Info("method entity created", "user_id", userID.String(), "entity_id", entity.ID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"method_entity_id": entity.ID,
		"created":          true,
	})
}

// requireEntityID loads the user's aggregator entity id, failing with
// a 400 when the account was never linked.
func requireEntityID(c *fiber.Ctx, repo agentpay.RepositoryManager) (string, error) {
	userID, err := currentUserID(c)
	if err != nil {
		return "", err
	}

	user, err := repo.Users().GetUserByID(c.UserContext(), userID.String())
	if err != nil {
		if agentpay.IsNotFound(err) {
			return "", agentpay.ErrIdentityNotFound
		}
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to load user")
	}

	if user.MethodEntityID == "" {
		return "", errors.New("user does not have a linked method entity", errors.CategoryBadInput).
			WithTextCode("MISSING_METHOD_ENTITY").
			WithCode(errors.CodeBadRequest)
	}

	return user.MethodEntityID, nil
}
