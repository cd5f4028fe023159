package http

import (
	"net/http"

	"github.com/jaekwang-park/momentum-api/internal/http/handler"
	"github.com/jaekwang-park/momentum-api/internal/service"
)

func NewRouter(projectSvc *service.ProjectService, habitSvc *service.HabitService, assistantSvc *service.AssistantService, authSvc *service.AuthService) http.Handler {
	mux := http.NewServeMux()

	// Health check - intentionally outside /api/v1 for ALB health check compatibility
	health := handler.NewHealthHandler()
	mux.Handle("/health", health)

	// Project + goal API
	projectHandler := handler.NewProjectHandler(projectSvc)
	mux.Handle("/api/v1/projects", projectHandler)
	mux.Handle("/api/v1/projects/", projectHandler)

	// Habit API
	habitHandler := handler.NewHabitHandler(habitSvc)
	mux.Handle("/api/v1/habits", habitHandler)
	mux.Handle("/api/v1/habits/", habitHandler)

	// Assistant tool API
	assistantHandler := handler.NewAssistantHandler(assistantSvc)
	mux.Handle("/api/v1/assistant/", assistantHandler)

	// Auth API — only when a cognito-backed auth service is configured
	if authSvc != nil {
		authHandler := handler.NewAuthHandler(authSvc)
		mux.Handle("/api/v1/auth/", authHandler)
	}

	return mux
}
