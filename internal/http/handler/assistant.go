package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/jaekwang-park/momentum-api/internal/service"
)

// AssistantHandler exposes the tool endpoints the on-device assistant calls.
// Tools address entities by title; ambiguous matches come back as 409 so the
// assistant can ask the user to narrow the request.
type AssistantHandler struct {
	svc *service.AssistantService
}

func NewAssistantHandler(svc *service.AssistantService) *AssistantHandler {
	return &AssistantHandler{svc: svc}
}

// ServeHTTP routes /api/v1/assistant/* requests.
func (h *AssistantHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/v1/assistant/")
	path = strings.TrimRight(path, "/")

	switch path {
	case "complete-goal":
		h.handleCompleteGoal(w, r)
	case "complete-habit":
		h.handleCompleteHabit(w, r)
	case "create-project":
		h.handleCreateProject(w, r)
	case "habit-summary":
		h.handleHabitSummary(w, r)
	default:
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "endpoint not found")
	}
}

type completeGoalToolRequest struct {
	ProjectTitle string `json:"project_title,omitempty"`
	GoalTitle    string `json:"goal_title"`
}

func (h *AssistantHandler) handleCompleteGoal(w http.ResponseWriter, r *http.Request) {
	var req completeGoalToolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	result, err := h.svc.CompleteGoalByTitle(r.Context(), getUserID(r), service.CompleteGoalByTitleInput{
		ProjectTitle: req.ProjectTitle,
		GoalTitle:    req.GoalTitle,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

type completeHabitToolRequest struct {
	HabitTitle string   `json:"habit_title"`
	Value      *float64 `json:"value,omitempty"`
}

func (h *AssistantHandler) handleCompleteHabit(w http.ResponseWriter, r *http.Request) {
	var req completeHabitToolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	habit, err := h.svc.CompleteHabitByTitle(r.Context(), getUserID(r), service.CompleteHabitByTitleInput{
		HabitTitle: req.HabitTitle,
		Value:      req.Value,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, habit)
}

type createProjectToolRequest struct {
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Subject     string        `json:"subject,omitempty"`
	ColorCode   string        `json:"color_code,omitempty"`
	Deadline    *string       `json:"deadline,omitempty"`
	Goals       []goalRequest `json:"goals,omitempty"`
}

func (h *AssistantHandler) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectToolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	input := service.CreateProjectToolInput{
		Title:       req.Title,
		Description: req.Description,
		Subject:     req.Subject,
		ColorCode:   req.ColorCode,
		Deadline:    req.Deadline,
	}
	for _, g := range req.Goals {
		input.Goals = append(input.Goals, g.toInput())
	}

	project, err := h.svc.CreateProject(r.Context(), getUserID(r), input)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, project)
}

type habitSummaryToolRequest struct {
	HabitTitle string `json:"habit_title"`
}

func (h *AssistantHandler) handleHabitSummary(w http.ResponseWriter, r *http.Request) {
	var req habitSummaryToolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	summary, err := h.svc.SummarizeHabit(r.Context(), getUserID(r), req.HabitTitle)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, summary)
}
