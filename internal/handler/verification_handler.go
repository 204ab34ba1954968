package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"synthetic-rights/internal/domain"
	"synthetic-rights/internal/middleware"
	"synthetic-rights/internal/service/verification"
)

// VerificationHandler serves the public verification endpoints. No
// authentication: anyone holding a hash or certificate ID may check it.
type VerificationHandler struct {
	verificationService verification.Service
}

func NewVerificationHandler(verificationService verification.Service) *VerificationHandler {
	return &VerificationHandler{verificationService: verificationService}
}

func (h *VerificationHandler) Verify(c *fiber.Ctx) error {
	hashOrID := strings.TrimSpace(c.Params("hash"))
	if hashOrID == "" {
		return middleware.BadRequest("A hash or certificate ID is required")
	}

	result, err := h.verificationService.Verify(c.Context(), hashOrID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *VerificationHandler) VerifyFuzzy(c *fiber.Ctx) error {
	hash := strings.TrimSpace(c.Params("hash"))
	if hash == "" {
		return middleware.BadRequest("A hash is required")
	}

	var input domain.FuzzyVerifyInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	result, err := h.verificationService.VerifyFuzzy(c.Context(), hash, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}
