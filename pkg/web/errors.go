package web

import (
	"github.com/gofiber/fiber/v3"
	"github.com/moogar0880/problems"
	"github.com/versify/automation/pkg/automation"
	"github.com/versify/automation/pkg/filter"
	"github.com/versify/automation/pkg/persistence"
	"github.com/versify/automation/pkg/services"
)

func problem(c fiber.Ctx, status int, problemType, detail string) error {
	p := problems.NewStatusProblem(status).
		WithInstance(c.Path()).
		WithType(problemType).
		WithDetail(detail)

	return c.Status(status).JSON(p)
}

func badRequest(c fiber.Ctx, detail string) error {
	return problem(c, fiber.StatusBadRequest, "validation_error", detail)
}

func internalError(c fiber.Ctx, err error) error {
	p := problems.NewStatusProblem(fiber.StatusInternalServerError).
		WithInstance(c.Path()).
		WithType("internal_error").
		WithError(err)

	return c.Status(fiber.StatusInternalServerError).JSON(p)
}

// handleError maps engine, service and persistence errors to problems.
func handleError(c fiber.Ctx, err error) error {
	switch {
	case services.IsValidationError(err), persistence.IsInvalidID(err):
		return badRequest(c, err.Error())

	case persistence.IsJourneyNotFound(err):
		return problem(c, fiber.StatusNotFound, "journey_not_found", err.Error())

	case persistence.IsRunNotFound(err):
		return problem(c, fiber.StatusNotFound, "journey_run_not_found", err.Error())

	case automation.IsContactNotFound(err):
		return problem(c, fiber.StatusNotFound, "contact_not_found", err.Error())

	case persistence.IsRunVersionConflict(err), persistence.IsRunAlreadyExists(err):
		return problem(c, fiber.StatusConflict, "conflict", err.Error())

	case automation.IsInvalidTask(err):
		return problem(c, fiber.StatusUnprocessableEntity, "invalid_task", err.Error())

	case automation.IsInvalidState(err):
		return problem(c, fiber.StatusUnprocessableEntity, "invalid_state", err.Error())

	case filter.IsInvalidOperator(err):
		return problem(c, fiber.StatusUnprocessableEntity, "invalid_operator", err.Error())

	case services.IsDefinitionError(err):
		return problem(c, fiber.StatusUnprocessableEntity, "invalid_journey", err.Error())

	default:
		return internalError(c, err)
	}
}
