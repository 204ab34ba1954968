package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"synthetic-rights/internal/domain"
	"synthetic-rights/internal/middleware"
	"synthetic-rights/internal/service/work"
)

type WorkHandler struct {
	workService work.Service
}

func NewWorkHandler(workService work.Service) *WorkHandler {
	return &WorkHandler{workService: workService}
}

// Register accepts multipart form data: metadata fields plus an optional
// "file" part carrying the asset.
func (h *WorkHandler) Register(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)
	if userID == uuid.Nil {
		return middleware.Unauthorized("User not authenticated")
	}

	input := domain.RegisterWorkInput{
		Title:      strings.TrimSpace(c.FormValue("title")),
		WorkType:   domain.WorkType(c.FormValue("work_type")),
		Visibility: domain.Visibility(c.FormValue("visibility")),
	}
	if desc := c.FormValue("description"); desc != "" {
		input.Description = &desc
	}
	if v := c.FormValue("detection_enabled"); v != "" {
		enabled := v == "true"
		input.DetectionEnabled = &enabled
	}
	if v := c.FormValue("ai_training_opt_out"); v != "" {
		optOut := v == "true"
		input.AITrainingOptOut = &optOut
	}

	if input.Title == "" {
		return middleware.BadRequest("Title is required")
	}

	var asset *work.UploadedAsset
	if fileHeader, err := c.FormFile("file"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			return middleware.BadRequest("Failed to read uploaded file")
		}
		defer file.Close()

		asset = &work.UploadedAsset{
			FileName:    fileHeader.Filename,
			Size:        fileHeader.Size,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Reader:      file,
		}
	}

	registered, err := h.workService.Register(c.Context(), userID, input, asset)
	if err != nil {
		if errors.Is(err, work.ErrInvalidWorkType) {
			return middleware.BadRequest("Work type must be one of image, video, audio, text")
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(registered)
}

func (h *WorkHandler) List(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)
	if userID == uuid.Nil {
		return middleware.Unauthorized("User not authenticated")
	}

	params := getPaginationParams(c)
	result, err := h.workService.List(c.Context(), userID, params)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *WorkHandler) Get(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)
	if userID == uuid.Nil {
		return middleware.Unauthorized("User not authenticated")
	}

	workID, err := uuid.Parse(c.Params("workId"))
	if err != nil {
		return middleware.BadRequest("Invalid work ID")
	}

	result, err := h.workService.GetByID(c.Context(), userID, workID)
	if err != nil {
		switch {
		case errors.Is(err, work.ErrWorkNotFound):
			return middleware.NotFound("Work not found")
		case errors.Is(err, work.ErrNotWorkOwner):
			return middleware.Forbidden("You do not own this work")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *WorkHandler) Update(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)
	if userID == uuid.Nil {
		return middleware.Unauthorized("User not authenticated")
	}

	workID, err := uuid.Parse(c.Params("workId"))
	if err != nil {
		return middleware.BadRequest("Invalid work ID")
	}

	var input domain.UpdateWorkInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	updated, err := h.workService.Update(c.Context(), userID, workID, input)
	if err != nil {
		switch {
		case errors.Is(err, work.ErrWorkNotFound):
			return middleware.NotFound("Work not found")
		case errors.Is(err, work.ErrNotWorkOwner):
			return middleware.Forbidden("You do not own this work")
		case errors.Is(err, work.ErrAttributesFrozen):
			return middleware.Conflict("Registered works cannot change their description")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(updated)
}
