package logger

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func TestAccessLine(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()
	app.Use(requestid.New())
	app.Use(LoggerMiddleware(&buf))
	app.Get("/api/events", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req.Header.Set(fiber.HeaderXRequestID, "req-7")
	req.Header.Set(fiber.HeaderUserAgent, "scanner/1.0")
	if _, err := app.Test(req); err != nil {
		t.Fatal(err)
	}
	line := buf.String()
	for _, want := range []string{Tag, "rid=req-7", "GET /api/events 200", `ua="scanner/1.0"`} {
		if !strings.Contains(line, want) {
			t.Errorf("log line %q missing %q", line, want)
		}
	}

	buf.Reset()
	if _, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil)); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Fatalf("health request logged: %q", buf.String())
	}
}
