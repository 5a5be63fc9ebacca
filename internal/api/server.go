// Package api exposes the receipt scanning pipeline over HTTP.
//
// The contract is deliberately forgiving: the image URL may arrive as a
// query parameter or a JSON body on either GET or POST, a missing URL gets a
// usage hint with status 200, and only a failed primary document read turns
// into a 400. Degraded results ship as 200 with the failures listed in the
// payload's error field.
package api

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"receiptscan/internal/logger"
	"receiptscan/pkg/models"
)

// usageMessage answers requests that carry no image URL.
const usageMessage = "This HTTP triggered function executed successfully. " +
	"Pass an imgUrl in the query string or in the request body to scan a receipt."

// Processor runs the scanning pipeline for one image URL.
type Processor interface {
	Process(ctx context.Context, imgURL string) (*models.Receipt, error)
}

// Server wraps the Fiber application and its routes.
type Server struct {
	app       *fiber.App
	processor Processor
	log       zerolog.Logger
}

// NewServer builds the HTTP server around the given processor.
func NewServer(processor Processor) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "receiptscan",
		DisableStartupMessage: true,
	})

	s := &Server{
		app:       app,
		processor: processor,
		log:       logger.WithComponent("api"),
	}

	app.Use(recover.New())
	app.Use(s.requestLogger())

	app.Get("/api/health", s.handleHealth)
	app.Get("/api/receipts", s.handleScan)
	app.Post("/api/receipts", s.handleScan)

	return s
}

// App exposes the underlying Fiber app for testing.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start listens on the given address until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.log.Info().Str("addr", addr).Msg("HTTP server listening")
	return s.app.Listen(addr)
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

type scanRequest struct {
	ImgURL string `json:"imgUrl"`
}

func (s *Server) handleScan(c *fiber.Ctx) error {
	imgURL := c.Query("imgUrl")
	if imgURL == "" && len(c.Body()) > 0 {
		var req scanRequest
		if err := c.BodyParser(&req); err == nil {
			imgURL = req.ImgURL
		}
	}

	if imgURL == "" {
		return c.SendString(usageMessage)
	}

	rec, err := s.processor.Process(c.Context(), imgURL)
	if err != nil {
		s.log.Error().Err(err).Str("img_url", imgURL).Msg("Receipt processing failed")
		return c.Status(fiber.StatusBadRequest).SendString(err.Error())
	}

	body, err := json.Marshal(rec)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to encode response")
	}

	c.Set(fiber.HeaderContentType, "application/json; charset=utf-8")
	return c.Send(body)
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// requestLogger logs one line per request with method, path, status and
// duration.
func (s *Server) requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		s.log.Info().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("duration", time.Since(start)).
			Msg("Request handled")

		return err
	}
}
