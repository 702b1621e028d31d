package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/mlukasik/swift-registry/internal/model"
	"github.com/mlukasik/swift-registry/internal/repository"
	"github.com/mlukasik/swift-registry/internal/service"
	"github.com/mlukasik/swift-registry/internal/validation"
)

// SwiftHandler exposes SWIFT record operations over HTTP.
type SwiftHandler struct {
	service service.SwiftService
	log     *zap.Logger
}

// NewSwiftHandler creates a new handler backed by the given service.
func NewSwiftHandler(service service.SwiftService, log *zap.Logger) *SwiftHandler {
	return &SwiftHandler{service: service, log: log}
}

// CreateSwiftCode handles POST requests to create a SWIFT record.
func (h *SwiftHandler) CreateSwiftCode(c fiber.Ctx) error {
	var rec model.SwiftRecord
	if err := c.Bind().Body(&rec); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	created, err := h.service.Create(c.Context(), rec)
	if err != nil {
		return h.mapError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// GetSwiftCode handles GET requests for a single SWIFT record.
func (h *SwiftHandler) GetSwiftCode(c fiber.Ctx) error {
	rec, err := h.service.Get(c.Context(), c.Params("swiftCode"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(rec)
}

// ListSwiftCodes handles GET requests listing SWIFT records with optional
// country and headquarter filters plus skip/limit pagination.
func (h *SwiftHandler) ListSwiftCodes(c fiber.Ctx) error {
	f, err := filterFromQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	records, err := h.service.List(c.Context(), f)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(records)
}

// CountSwiftCodes handles GET requests counting records matching a filter.
func (h *SwiftHandler) CountSwiftCodes(c fiber.Ctx) error {
	f, err := filterFromQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	count, err := h.service.Count(c.Context(), f)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"count": count})
}

// DeleteSwiftCode handles DELETE requests for a SWIFT record.
func (h *SwiftHandler) DeleteSwiftCode(c fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("swiftCode")); err != nil {
		return h.mapError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *SwiftHandler) mapError(c fiber.Ctx, err error) error {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": verr.Reason,
		})
	case errors.Is(err, service.ErrAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": err.Error(),
		})
	case errors.Is(err, service.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": err.Error(),
		})
	case errors.Is(err, service.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	default:
		h.log.Error("request failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error",
		})
	}
}

func filterFromQuery(c fiber.Ctx) (repository.Filter, error) {
	var f repository.Filter

	f.Country = c.Query("country")

	if v := c.Query("is_headquarter"); v != "" {
		hq, err := strconv.ParseBool(v)
		if err != nil {
			return f, errors.New("is_headquarter must be true or false")
		}
		f.IsHeadquarter = &hq
	}

	var err error
	if f.Skip, err = queryInt(c, "skip", 0); err != nil {
		return f, errors.New("skip must be an integer")
	}
	if f.Limit, err = queryInt(c, "limit", 0); err != nil {
		return f, errors.New("limit must be an integer")
	}
	return f, nil
}

func queryInt(c fiber.Ctx, key string, def int) (int, error) {
	v := c.Query(key)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}
