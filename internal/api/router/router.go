package router

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"go.uber.org/zap"

	apihandler "github.com/mlukasik/swift-registry/internal/api/handler"
	"github.com/mlukasik/swift-registry/internal/api/middleware"
	uploadhandler "github.com/mlukasik/swift-registry/internal/upload/handler"
)

func newApp(appName string, log *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: appName,
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"message": "Internal server error",
			})
		},
	})

	app.Use(middleware.RequestLogger(log))
	app.Use(recover.New())

	return app
}

// NewSwiftAPIApp configures the primary SWIFT code API.
func NewSwiftAPIApp(h *apihandler.SwiftHandler, log *zap.Logger) *fiber.App {
	app := newApp("swift-registry-api", log)

	v1 := app.Group("/api/v1/swift-code")

	v1.Post("/", h.CreateSwiftCode)
	v1.Get("/", h.ListSwiftCodes)
	// The count route must be registered before the code parameter route.
	v1.Get("/count", h.CountSwiftCodes)
	v1.Get("/:swiftCode", h.GetSwiftCode)
	v1.Delete("/:swiftCode", h.DeleteSwiftCode)

	return app
}

// NewUploadApp configures the CSV upload service.
func NewUploadApp(h *uploadhandler.UploadHandler, log *zap.Logger) *fiber.App {
	app := newApp("swift-registry-upload", log)

	v1 := app.Group("/api/v1/upload")

	v1.Post("/", h.Upload)
	v1.Get("/stats/summary", h.Stats)
	v1.Get("/", h.List)
	v1.Get("/:id", h.Get)

	return app
}
