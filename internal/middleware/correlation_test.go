package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestCorrelationIDGeneratesWhenAbsent(t *testing.T) {
	app := fiber.New()
	app.Use(CorrelationID())

	var seen string
	app.Get("/", func(c *fiber.Ctx) error {
		seen = GetCorrelationID(c)
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.NotEmpty(t, seen)
	require.Equal(t, seen, resp.Header.Get("X-Correlation-ID"))
}

func TestCorrelationIDEchoesIncomingHeader(t *testing.T) {
	app := fiber.New()
	app.Use(CorrelationID())

	var seen string
	app.Get("/", func(c *fiber.Ctx) error {
		seen = GetCorrelationID(c)
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Correlation-ID", "abc-123")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, "abc-123", seen)
	require.Equal(t, "abc-123", resp.Header.Get("X-Correlation-ID"))
}
