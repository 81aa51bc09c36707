package middlewares

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func TestRecoveryLogsRequestID(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	app := fiber.New()
	app.Use(requestid.New())
	app.Use(RecoveryMiddleware())
	app.Get("/boom", func(c *fiber.Ctx) error { panic("ticket store offline") })

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(fiber.HeaderXRequestID, "req-42")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
	out := buf.String()
	for _, want := range []string{"[PANIC]", "rid=req-42", "GET /boom", "ticket store offline"} {
		if !strings.Contains(out, want) {
			t.Errorf("panic log %q missing %q", out, want)
		}
	}
}
