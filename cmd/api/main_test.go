package main

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"synthetic-rights/internal/config"
	"synthetic-rights/internal/handler"
	"synthetic-rights/internal/middleware"
	"synthetic-rights/internal/repository"
	"synthetic-rights/internal/service"
)

func TestSetupRoutes(t *testing.T) {
	cfg := config.Load()
	repos := repository.NewRepositories(nil)
	services, err := service.NewServices(repos, nil, nil, cfg)
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	setupRoutes(app, handler.NewHandlers(services), services.Auth)

	has := func(method, path string) bool {
		for _, route := range app.GetRoutes(true) {
			if route.Method == method && route.Path == path {
				return true
			}
		}
		return false
	}

	// Exact lookup and fuzzy matching share the public verify path; the
	// method picks the mode.
	assert.True(t, has(fiber.MethodGet, "/api/v1/verify/:hash"))
	assert.True(t, has(fiber.MethodPost, "/api/v1/verify/:hash"))

	assert.True(t, has(fiber.MethodPost, "/api/v1/certificates/generate"))
	assert.True(t, has(fiber.MethodPost, "/api/v1/certificates/batch"))
	assert.True(t, has(fiber.MethodPost, "/api/v1/certificates/:certificateId/revoke"))
	assert.True(t, has(fiber.MethodGet, "/health"))
}
