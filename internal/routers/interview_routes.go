package routers

import (
	"prepvoice/interview/internal/handlers"
	"prepvoice/interview/internal/middleware"
	"prepvoice/interview/internal/models"

	"github.com/go-chi/chi/v5"
)

// InterviewRoutes mounts the interview API. Every endpoint requires a
// bearer token; the authenticated user only sees their own sessions.
func InterviewRoutes(router *chi.Mux, interviewHandler *handlers.InterviewHandler, jwtSecret string) {
	router.Route("/api/v1/interviews", func(r chi.Router) {
		r.Use(middleware.Authenticate(jwtSecret))

		r.Post("/", interviewHandler.StartHandler)
		r.Get("/", interviewHandler.ListHandler)
		r.Post("/{sessionID}/turns", interviewHandler.TurnHandler)
		r.With(middleware.ValidateRequest[*models.TextTurnRequest]()).Post("/{sessionID}/turns/text", interviewHandler.TextTurnHandler)
		r.Post("/{sessionID}/report", interviewHandler.FinalizeHandler)
		r.Get("/{sessionID}/report", interviewHandler.ReportHandler)
	})
}
