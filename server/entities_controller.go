package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"

	"github.com/agentpay/agentpay"
	"github.com/agentpay/agentpay/method"
)

// EntitiesController exposes the aggregator entity bound to the
// current user.
type EntitiesController struct {
	repo   agentpay.RepositoryManager
	method *method.Client
	logger agentpay.Logger
}

func NewEntitiesController(repo agentpay.RepositoryManager, mc *method.Client, logger agentpay.Logger) *EntitiesController {
	return &EntitiesController{
		repo:   repo,
		method: mc,
		logger: logger,
	}
}

// Me returns the aggregator entity linked to the caller.
func (ec *EntitiesController) Me(c *fiber.Ctx) error {
	entityID, err := requireEntityID(c, ec.repo)
	if err != nil {
		return err
	}

	entity, err := ec.method.GetEntity(c.UserContext(), entityID)
	if err != nil {
		return err
	}

	return c.JSON(entity)
}

// UpdateMe pushes profile changes to the linked aggregator entity.
func (ec *EntitiesController) UpdateMe(c *fiber.Ctx) error {
	entityID, err := requireEntityID(c, ec.repo)
	if err != nil {
		return err
	}

	update := map[string]any{}
	if err := c.BodyParser(&update); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "failed to parse entity payload").
			WithCode(errors.CodeBadRequest)
	}

	entity, err := ec.method.UpdateEntity(c.UserContext(), entityID, update)
	if err != nil {
		return err
	}

	return c.JSON(entity)
}

// List pages through aggregator entities. Mostly a dev convenience.
func (ec *EntitiesController) List(c *fiber.Ctx) error {
	if _, err := currentUserID(c); err != nil {
		return err
	}

	page := c.QueryInt("page", 1)
	pageLimit := c.QueryInt("page_limit", 100)

	entities, err := ec.method.ListEntities(c.UserContext(), page, pageLimit)
	if err != nil {
		return err
	}

	return c.JSON(entities)
}
