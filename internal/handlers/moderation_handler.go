package handlers

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/investmatch/admin-backend/internal/dto"
	"github.com/investmatch/admin-backend/internal/moderation"
	"github.com/investmatch/admin-backend/internal/services"
)

// ModerationHandler is the HTTP surface over the report store and the
// batch action processor.
type ModerationHandler struct {
	store      *moderation.Store
	processor  *moderation.Processor
	tracker    *moderation.Tracker
	reconciler *moderation.Reconciler
	reports    *services.ReportService
}

func NewModerationHandler(
	store *moderation.Store,
	processor *moderation.Processor,
	tracker *moderation.Tracker,
	reconciler *moderation.Reconciler,
	reports *services.ReportService,
) *ModerationHandler {
	return &ModerationHandler{
		store:      store,
		processor:  processor,
		tracker:    tracker,
		reconciler: reconciler,
		reports:    reports,
	}
}

// ListReports serves the operator's live view from the in-memory store.
// The requested status also becomes the reconciler's ingest filter so
// new arrivals match what is on screen. refresh=1 reseeds from the DB.
func (h *ModerationHandler) ListReports(c *fiber.Ctx) error {
	status := c.Query("status", "")
	h.reconciler.SetFilter(status)

	if c.QueryBool("refresh") {
		if err := h.reports.Seed(h.store, status); err != nil {
			slog.Error("report reseed failed", "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to refresh reports",
			})
		}
	}

	reports := h.store.List(status)
	return c.JSON(fiber.Map{
		"reports": reports,
		"total":   len(reports),
	})
}

// ActionReport applies one decision to a single report. It goes through
// the same processor as batches, so retries and store write-through
// behave identically.
func (h *ModerationHandler) ActionReport(c *fiber.Ctx) error {
	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid report ID",
		})
	}

	var req dto.ActionReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if err := dto.Validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Action must be approve or reject and notes are required",
		})
	}

	result, err := h.processor.Submit(c.Context(), []uuid.UUID{reportID}, moderation.Action(req.Action), req.Notes, nil)
	if err != nil {
		var ve *moderation.ValidationError
		if errors.As(err, &ve) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: ve.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update report",
		})
	}
	if len(result.FailedIDs) > 0 {
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
			Error: true, Message: "Report update failed after retries",
		})
	}

	return c.JSON(fiber.Map{"message": "Report updated successfully"})
}

// BatchAction starts an asynchronous batch job and returns its id. The
// client polls BatchStatus for live progress; failed ids may be
// resubmitted here as a fresh job.
func (h *ModerationHandler) BatchAction(c *fiber.Ctx) error {
	var req dto.BatchActionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if err := dto.Validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "report_ids, a valid action and notes are required",
		})
	}

	jobID := h.tracker.Create(len(req.ReportIDs))

	go func() {
		// The job always runs to completion; an HTTP disconnect must not
		// cancel in-flight moderation decisions.
		result, err := h.processor.Submit(context.Background(), req.ReportIDs, moderation.Action(req.Action), req.Notes, h.tracker.ProgressFunc(jobID))
		if err != nil {
			slog.Error("batch action failed", "job_id", jobID, "error", err)
			h.tracker.Complete(jobID, &moderation.Result{FailedIDs: req.ReportIDs})
			return
		}
		h.tracker.Complete(jobID, result)
	}()

	return c.Status(fiber.StatusAccepted).JSON(dto.BatchSubmitResponse{JobID: jobID})
}

// BatchStatus reports progress for one job; the final state is consumed
// on first read after completion.
func (h *ModerationHandler) BatchStatus(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid job ID",
		})
	}

	status, ok := h.tracker.Get(jobID)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Job not found",
		})
	}
	return c.JSON(status)
}
