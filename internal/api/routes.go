package api

import (
	"github.com/go-chi/chi/v5"
)

// Handlers groups the HTTP handlers mounted under /api.
type Handlers struct {
	Schedule   *ScheduleHandler
	Completion *CompletionHandler
	Profile    *ProfileHandler
}

// RegisterRoutes mounts every API endpoint on r.
func RegisterRoutes(r chi.Router, h Handlers) {
	r.Route("/api", func(r chi.Router) {
		// User and subject endpoints
		r.Post("/users", h.Profile.CreateUser)
		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/", h.Profile.GetProfile)
			r.Post("/subjects", h.Profile.CreateSubject)
			r.Delete("/subjects/{subjectID}", h.Profile.DeleteSubject)

			// Schedule endpoints
			r.Post("/schedule", h.Schedule.Regenerate)
			r.Get("/blocks", h.Schedule.ListBlocks)
			r.Post("/custom-blocks", h.Schedule.AddCustomBlock)
		})

		// Completion endpoints
		r.Post("/blocks/{blockID}/complete", h.Completion.Complete)
		r.Post("/blocks/{blockID}/incomplete", h.Completion.Uncomplete)
	})
}
