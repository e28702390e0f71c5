package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-planner/internal/api/shared"
	"github.com/phrazzld/scry-planner/internal/platform/logger"
	"github.com/phrazzld/scry-planner/internal/service/ledger"
)

// CompletionHandler handles block completion HTTP requests
type CompletionHandler struct {
	ledger ledger.Service
	logger *slog.Logger
}

// NewCompletionHandler creates a new CompletionHandler
func NewCompletionHandler(ledgerService ledger.Service, logger *slog.Logger) *CompletionHandler {
	if ledgerService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("ledger service cannot be nil for CompletionHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CompletionHandler")
	}

	return &CompletionHandler{
		ledger: ledgerService,
		logger: logger.With(slog.String("component", "completion_handler")),
	}
}

// Complete handles POST /api/blocks/{blockID}/complete requests.
func (h *CompletionHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.ledger.MarkComplete, "Failed to complete block")
}

// Uncomplete handles POST /api/blocks/{blockID}/incomplete requests.
func (h *CompletionHandler) Uncomplete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.ledger.MarkIncomplete, "Failed to reopen block")
}

func (h *CompletionHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	apply func(context.Context, uuid.UUID) (*ledger.Result, error),
	failure string,
) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	blockID, ok := handlePathUUID(w, r, "blockID", log)
	if !ok {
		return
	}

	result, err := apply(r.Context(), blockID)
	if err != nil {
		HandleAPIError(w, r, err, failure)
		return
	}

	if result.LeveledUp {
		log.Info("level up",
			slog.String("block_id", blockID.String()),
			slog.Int("subject_level", result.SubjectLevel),
			slog.Int("global_level", result.GlobalLevel))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}
