package httpapi

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/i474232898/flow-weather/internal/weather"
)

// NewApp builds the Fiber application serving the Translation Layer.
func NewApp(service *weather.Service, log *zap.SugaredLogger) *fiber.App {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	app := fiber.New(fiber.Config{
		AppName:               "flow-weather",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          errorHandler(log),
	})

	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "flow-weather",
		})
	})

	RegisterRoutes(app, service)
	return app
}

// errorHandler flattens every error into {"message": ...} with the status
// carried by the error.
func errorHandler(log *zap.SugaredLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := weather.StatusOf(err)
		msg := weather.MessageOf(err, err.Error())

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			msg = fe.Message
		}

		if code >= fiber.StatusInternalServerError {
			log.Errorw("request failed",
				"path", c.Path(),
				"status", code,
				"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
				"error", err)
		}

		return c.Status(code).JSON(fiber.Map{
			"message": msg,
		})
	}
}
