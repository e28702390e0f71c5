package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/scry-planner/internal/api/shared"
	"github.com/phrazzld/scry-planner/internal/platform/logger"
	"github.com/phrazzld/scry-planner/internal/service/profile"
)

// ProfileHandler handles user and subject HTTP requests
type ProfileHandler struct {
	profiles profile.Service
	logger   *slog.Logger
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profileService profile.Service, logger *slog.Logger) *ProfileHandler {
	if profileService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("profile service cannot be nil for ProfileHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ProfileHandler")
	}

	return &ProfileHandler{
		profiles: profileService,
		logger:   logger.With(slog.String("component", "profile_handler")),
	}
}

// CreateUser handles POST /api/users requests.
func (h *ProfileHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.profiles.CreateUser(r.Context(), req.BlocksPerDay, req.DefaultBlockMinutes)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, user)
}

// GetProfile handles GET /api/users/{userID} requests.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := handlePathUUID(w, r, "userID", log)
	if !ok {
		return
	}

	p, err := h.profiles.GetProfile(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load profile")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, p)
}

// CreateSubject handles POST /api/users/{userID}/subjects requests.
func (h *ProfileHandler) CreateSubject(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := handlePathUUID(w, r, "userID", log)
	if !ok {
		return
	}

	var req CreateSubjectRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	subject, err := h.profiles.CreateSubject(
		r.Context(),
		userID,
		req.Name,
		req.Icon,
		req.Confidence,
		req.PreferredBlockMinutes,
	)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create subject")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, subject)
}

// DeleteSubject handles DELETE /api/users/{userID}/subjects/{subjectID} requests.
func (h *ProfileHandler) DeleteSubject(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := handlePathUUID(w, r, "userID", log)
	if !ok {
		return
	}
	subjectID, ok := handlePathUUID(w, r, "subjectID", log)
	if !ok {
		return
	}

	if err := h.profiles.DeleteSubject(r.Context(), userID, subjectID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete subject")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
