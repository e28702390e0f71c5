package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-planner/internal/api/shared"
	"github.com/phrazzld/scry-planner/internal/domain"
	"github.com/phrazzld/scry-planner/internal/platform/logger"
	"github.com/phrazzld/scry-planner/internal/service/planner"
)

// ScheduleHandler handles schedule-related HTTP requests
type ScheduleHandler struct {
	planner  planner.Service
	defaults domain.SchedulePreferences
	loc      *time.Location
	now      func() time.Time
	logger   *slog.Logger
}

// NewScheduleHandler creates a new ScheduleHandler. defaults fill the fields
// a regeneration request leaves out; loc is the time zone request dates are
// interpreted in.
func NewScheduleHandler(
	plannerService planner.Service,
	defaults domain.SchedulePreferences,
	loc *time.Location,
	logger *slog.Logger,
) *ScheduleHandler {
	if plannerService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("planner service cannot be nil for ScheduleHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ScheduleHandler")
	}
	if loc == nil {
		loc = time.UTC
	}

	return &ScheduleHandler{
		planner:  plannerService,
		defaults: defaults,
		loc:      loc,
		now:      time.Now,
		logger:   logger.With(slog.String("component", "schedule_handler")),
	}
}

// Regenerate handles POST /api/users/{userID}/schedule requests.
func (h *ScheduleHandler) Regenerate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := handlePathUUID(w, r, "userID", log)
	if !ok {
		return
	}

	var req RegenerateScheduleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	prefs, err := req.preferences(h.defaults)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	result, err := h.planner.Regenerate(r.Context(), userID, prefs)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to regenerate schedule")
		return
	}

	log.Debug("schedule regenerated",
		slog.String("user_id", userID.String()),
		slog.Int("blocks", len(result.Blocks)))
	shared.RespondWithJSON(w, r, http.StatusCreated, ScheduleResponse{
		UserID:  result.UserID.String(),
		Deleted: result.Deleted,
		Blocks:  blocksToResponse(result.Blocks),
	})
}

// ListBlocks handles GET /api/users/{userID}/blocks?from=&to= requests.
// Both bounds are optional YYYY-MM-DD dates; to is exclusive.
func (h *ScheduleHandler) ListBlocks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := handlePathUUID(w, r, "userID", log)
	if !ok {
		return
	}

	query := r.URL.Query()
	from, err := parseDateParam(query.Get("from"), h.loc)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	to, err := parseDateParam(query.Get("to"), h.loc)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	blocks, err := h.planner.ListBlocks(r.Context(), userID, from, to)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list blocks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, blocksToResponse(blocks))
}

// AddCustomBlock handles POST /api/users/{userID}/custom-blocks requests.
func (h *ScheduleHandler) AddCustomBlock(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := handlePathUUID(w, r, "userID", log)
	if !ok {
		return
	}

	var req CustomBlockRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	subjectID, err := uuid.Parse(req.SubjectID)
	if err != nil {
		HandleAPIError(w, r, errMalformedRequest, "")
		return
	}

	date, err := parseDateParam(req.Date, h.loc)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if date.IsZero() {
		date = h.now().In(h.loc)
	}

	block, err := h.planner.AddCustomBlock(r.Context(), userID, subjectID, req.DurationMinutes, date)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to add custom block")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, blockToResponse(block))
}
