package handler

import (
	"github.com/gofiber/fiber/v2"

	"synthetic-rights/internal/domain"
)

func getPaginationParams(c *fiber.Ctx) domain.PaginationParams {
	params := domain.PaginationParams{
		Page:  c.QueryInt("page", 1),
		Limit: c.QueryInt("limit", 20),
	}
	params.Validate()
	return params
}
