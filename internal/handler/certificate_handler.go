package handler

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"synthetic-rights/internal/domain"
	"synthetic-rights/internal/middleware"
	"synthetic-rights/internal/service/batch"
	"synthetic-rights/internal/service/certificate"
	"synthetic-rights/internal/service/export"
)

type CertificateHandler struct {
	certService   certificate.Service
	exportService export.Service
	batchService  batch.Service
}

func NewCertificateHandler(certService certificate.Service, exportService export.Service, batchService batch.Service) *CertificateHandler {
	return &CertificateHandler{
		certService:   certService,
		exportService: exportService,
		batchService:  batchService,
	}
}

func (h *CertificateHandler) Generate(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)
	if userID == uuid.Nil {
		return middleware.Unauthorized("User not authenticated")
	}

	var input domain.IssueCertificateInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.WorkID == uuid.Nil {
		return middleware.BadRequest("work_id is required")
	}

	cert, err := h.certService.Issue(c.Context(), userID, input)
	if err != nil {
		switch {
		case errors.Is(err, certificate.ErrInvalidCertificateType):
			return middleware.BadRequest("Certificate type must be one of standard, premium, enhanced")
		case errors.Is(err, certificate.ErrWorkNotFound):
			return middleware.NotFound("Work not found")
		case errors.Is(err, certificate.ErrNotOwner):
			return middleware.Forbidden("You do not own this work")
		case errors.Is(err, certificate.ErrAnchoringFailed):
			return middleware.BadGateway("Blockchain registration is temporarily unavailable")
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(cert)
}

func (h *CertificateHandler) List(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)
	if userID == uuid.Nil {
		return middleware.Unauthorized("User not authenticated")
	}

	params := getPaginationParams(c)

	var workID *uuid.UUID
	if raw := c.Query("work_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return middleware.BadRequest("Invalid work ID")
		}
		workID = &parsed
	}

	result, err := h.certService.List(c.Context(), userID, workID, params)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

// Get returns the certificate record, or the rendered document when a
// format query parameter is present.
func (h *CertificateHandler) Get(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)
	if userID == uuid.Nil {
		return middleware.Unauthorized("User not authenticated")
	}

	certID := c.Params("certificateId")

	rawFormat := c.Query("format")
	if rawFormat == "" {
		cert, err := h.certService.GetByID(c.Context(), userID, certID)
		if err != nil {
			switch {
			case errors.Is(err, certificate.ErrCertificateNotFound):
				return middleware.NotFound("Certificate not found")
			case errors.Is(err, certificate.ErrNotOwner):
				return middleware.Forbidden("You do not own this certificate")
			}
			return err
		}
		return c.Status(fiber.StatusOK).JSON(cert)
	}

	format, err := export.ParseFormat(rawFormat)
	if err != nil {
		return middleware.BadRequest("Format must be one of json, html, pdf")
	}

	artifact, err := h.exportService.Export(c.Context(), userID, certID, format)
	if err != nil {
		if errors.Is(err, export.ErrCertificateNotFound) {
			return middleware.NotFound("Certificate not found")
		}
		return err
	}

	c.Set(fiber.HeaderContentType, artifact.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", artifact.FileName))
	return c.Status(fiber.StatusOK).Send(artifact.Data)
}

func (h *CertificateHandler) Revoke(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)
	if userID == uuid.Nil {
		return middleware.Unauthorized("User not authenticated")
	}

	certID := c.Params("certificateId")

	var input domain.RevokeCertificateInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	cert, err := h.certService.Revoke(c.Context(), certID, userID, input.Reason)
	if err != nil {
		switch {
		case errors.Is(err, certificate.ErrEmptyReason):
			return middleware.BadRequest("A revocation reason is required")
		case errors.Is(err, certificate.ErrCertificateNotFound):
			return middleware.NotFound("Certificate not found")
		case errors.Is(err, certificate.ErrNotOwner):
			return middleware.Forbidden("You do not own this certificate")
		case errors.Is(err, certificate.ErrAlreadyRevoked):
			return middleware.Conflict("Certificate is already revoked")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(cert)
}

func (h *CertificateHandler) BatchGenerate(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)
	if userID == uuid.Nil {
		return middleware.Unauthorized("User not authenticated")
	}

	var input domain.BatchIssueInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	report, err := h.batchService.IssueBatch(c.Context(), userID, input)
	if err != nil {
		return h.mapBatchError(err)
	}

	return c.Status(fiber.StatusOK).JSON(report)
}

// BatchDownload issues the batch and streams a zip of the rendered
// certificates. The report travels in the X-Batch-Report header so the
// body can stay a plain archive.
func (h *CertificateHandler) BatchDownload(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)
	if userID == uuid.Nil {
		return middleware.Unauthorized("User not authenticated")
	}

	var input domain.BatchIssueInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	format := export.FormatPDF
	if raw := c.Query("format"); raw != "" {
		parsed, err := export.ParseFormat(raw)
		if err != nil {
			return middleware.BadRequest("Format must be one of json, html, pdf")
		}
		format = parsed
	}

	archive, err := h.batchService.IssueBatchArchive(c.Context(), userID, input, format)
	if err != nil {
		return h.mapBatchError(err)
	}

	if archive.Archive == nil {
		// Nothing was packaged; return the report alone so the caller can
		// see why each item failed.
		return c.Status(fiber.StatusOK).JSON(archive.Report)
	}

	c.Set(fiber.HeaderContentType, "application/zip")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", archive.FileName))
	return c.Status(fiber.StatusOK).Send(archive.Archive)
}

func (h *CertificateHandler) mapBatchError(err error) error {
	switch {
	case errors.Is(err, batch.ErrEmptyBatch):
		return middleware.BadRequest("At least one work ID is required")
	case errors.Is(err, batch.ErrBatchTooLarge):
		return middleware.BadRequest(fmt.Sprintf("A batch may contain at most %d works", domain.MaxBatchSize))
	case errors.Is(err, batch.ErrForeignWork):
		return middleware.NotFound("One or more works were not found")
	}
	return err
}
