package handlers

import (
	"fmt"

	"catalogbench/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// BenchmarkHandler handles HTTP requests for benchmark runs.
type BenchmarkHandler struct {
	service  *services.BenchmarkService
	validate *validator.Validate
	log      *zap.Logger
}

// NewBenchmarkHandler creates a new BenchmarkHandler.
func NewBenchmarkHandler(service *services.BenchmarkService, log *zap.Logger) *BenchmarkHandler {
	return &BenchmarkHandler{
		service:  service,
		validate: validator.New(),
		log:      log,
	}
}

// RunRequest represents the request body for starting a run.
type RunRequest struct {
	Records int `json:"records" validate:"gte=1,lte=100000"`
}

// RegisterRoutes registers the benchmark routes. runGuards (auth, rate
// limiting) wrap only the route that starts a run.
func (h *BenchmarkHandler) RegisterRoutes(router fiber.Router, runGuards ...fiber.Handler) {
	benchmarkRoutes := router.Group("/benchmarks")
	benchmarkRoutes.Get("/latest", h.HandleGetLatest)
	benchmarkRoutes.Post("/", append(runGuards, h.HandleRunBenchmark)...)
}

// HandleGetLatest returns the most recent finished report.
func (h *BenchmarkHandler) HandleGetLatest(c *fiber.Ctx) error {
	report, ok := h.service.Latest()
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "No benchmark has finished yet",
		})
	}
	return c.JSON(fiber.Map{
		"report": report,
		"lines":  report.Lines(),
	})
}

// HandleRunBenchmark runs a benchmark synchronously and returns its report.
func (h *BenchmarkHandler) HandleRunBenchmark(c *fiber.Ctx) error {
	var req RunRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		errorMessages := make(map[string]string)
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, e := range validationErrors {
				errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
			}
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	report, err := h.service.Run(c.UserContext(), req.Records)
	if err != nil {
		h.log.Error("Benchmark run failed", zap.Int("records", req.Records), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Benchmark run failed",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"report": report,
		"lines":  report.Lines(),
	})
}
