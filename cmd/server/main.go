// Command server exposes the validation engine over HTTP. Routing, CORS,
// rate-limiting, and auth are explicitly out of the core's scope (spec §1)
// and are left to whatever API gateway fronts this service in production;
// this binary wires only a liveness route plus the two routes backing the
// core's run and available_checks interfaces.
package main

import (
	"log"
	"os"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/foundrylabs/contentguard/pkg/config"
	"github.com/foundrylabs/contentguard/pkg/engine"
	"github.com/foundrylabs/contentguard/pkg/model"
)

func main() {
	cfg, err := config.LoadOverlay(os.Getenv("CONTENTGUARD_CONFIG_PATH"))
	if err != nil {
		log.Fatalf("[ERROR] server: failed to load config overlay: %v", err)
	}

	eng := engine.New(cfg)
	app := fiber.New()

	app.Get("/v1/health", handleHealth)
	app.Get("/v1/checks", handleAvailableChecks(eng))
	app.Post("/v1/validate", handleValidate(eng))

	addr := os.Getenv("CONTENTGUARD_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	log.Printf("[INFO] server: listening on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("[ERROR] server: %v", err)
	}
}

func handleHealth(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func handleAvailableChecks(eng *engine.Engine) fiber.Handler {
	return func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"checks": eng.AvailableChecks()})
	}
}

// validateRequestBody mirrors model.ValidationRequest's wire shape plus an
// optional caller-supplied request_id — the one field the core itself
// doesn't own (§6: "the transport layer is responsible for sanitizing
// [supplied request IDs] before passing them in").
type validateRequestBody struct {
	Text            string                    `json:"text"`
	Validators      []string                  `json:"validators"`
	ConfigOverrides map[string]map[string]any `json:"config_overrides"`
	RequestID       string                    `json:"request_id"`
}

func handleValidate(eng *engine.Engine) fiber.Handler {
	return func(c fiber.Ctx) error {
		var body validateRequestBody
		if err := c.Bind().Body(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": newTransportError(fiber.StatusBadRequest, "malformed request body: %v", err).Error(),
			})
		}
		if strings.TrimSpace(body.Text) == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": newTransportError(fiber.StatusBadRequest, "text must not be empty").Error(),
			})
		}

		validators := body.Validators
		if len(validators) == 0 {
			validators = []string{"all"}
		}

		requestID := sanitizeRequestID(body.RequestID)
		resp := eng.Run(model.ValidationRequest{
			Text:            body.Text,
			Validators:      validators,
			ConfigOverrides: body.ConfigOverrides,
		}, requestID)

		return c.JSON(resp)
	}
}

// sanitizeRequestID enforces the 32-hex-character contract on a
// caller-supplied ID, generating a fresh one when absent or malformed —
// the transport-layer sanitation the core itself delegates to §6.
func sanitizeRequestID(supplied string) string {
	if isHex32(supplied) {
		return supplied
	}
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

func isHex32(s string) bool {
	if len(s) != 32 {
		return false
	}
	for _, r := range s {
		if !((r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')) {
			return false
		}
	}
	return true
}
