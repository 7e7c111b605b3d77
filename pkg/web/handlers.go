package web

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/versify/automation/pkg/models"
	"github.com/versify/automation/pkg/services"
)

type APIHandlers struct {
	journeyService *services.Journey
	dispatcher     Dispatcher
}

func NewAPIHandlers(journeyService *services.Journey, dispatcher Dispatcher) *APIHandlers {
	return &APIHandlers{
		journeyService: journeyService,
		dispatcher:     dispatcher,
	}
}

// Dispatch runs the task in the request body and answers with the handler's
// result. Unrecognized task types answer 200 with an empty object.
func (h *APIHandlers) Dispatch(c fiber.Ctx) error {
	var payload map[string]any
	if err := c.Bind().JSON(&payload); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if payload == nil {
		return badRequest(c, "Task payload must be a JSON object")
	}

	result, err := h.dispatcher.Dispatch(c.Context(), payload)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(result)
}

func (h *APIHandlers) GetJourney(c fiber.Ctx) error {
	journey, err := h.journeyService.Get(c.Context(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(journey)
}

func (h *APIHandlers) SaveJourney(c fiber.Ctx) error {
	var journey models.Journey
	if err := c.Bind().JSON(&journey); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	saved, err := h.journeyService.Save(c.Context(), c.Params("id"), &journey)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(saved)
}

func (h *APIHandlers) ListJourneyRuns(c fiber.Ctx) error {
	runs, err := h.journeyService.ListRuns(c.Context(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(RunListResponse{
		Runs:       runs,
		TotalCount: len(runs),
	})
}

func (h *APIHandlers) GetRun(c fiber.Ctx) error {
	run, err := h.journeyService.GetRun(c.Context(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(run)
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	repositoryCheck, ok := h.journeyService.HealthCheck(c.Context())

	status := "unhealthy"
	message := "Versify automation API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if ok {
		status = "healthy"
		message = "Versify automation API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}

// Register mounts the journey routes on app.
func (h *APIHandlers) Register(app *fiber.App) {
	app.Post("/tasks", h.Dispatch)

	j := app.Group("/journeys")
	j.Get("/:id", h.GetJourney)
	j.Put("/:id", h.SaveJourney)
	j.Get("/:id/runs", h.ListJourneyRuns)

	app.Get("/runs/:id", h.GetRun)
	app.Get("/health", h.HealthCheck)
}
