package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/jaekwang-park/momentum-api/internal/service"
)

type ProjectHandler struct {
	svc *service.ProjectService
}

func NewProjectHandler(svc *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

// ServeHTTP routes /api/v1/projects and everything nested under a project:
//
//	/api/v1/projects/{id}
//	/api/v1/projects/{id}/complete
//	/api/v1/projects/{id}/progress
//	/api/v1/projects/{id}/goals
//	/api/v1/projects/{id}/goals/{goalID}
//	/api/v1/projects/{id}/goals/{goalID}/toggle
func (h *ProjectHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/projects")
	path = strings.Trim(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.handleList(w, r)
		case http.MethodPost:
			h.handleCreate(w, r)
		default:
			WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		}
		return
	}

	parts := strings.Split(path, "/")
	projectID := parts[0]

	switch {
	case len(parts) == 1:
		h.handleProject(w, r, projectID)
	case len(parts) == 2 && parts[1] == "complete":
		h.handleComplete(w, r, projectID)
	case len(parts) == 2 && parts[1] == "progress":
		h.handleProgress(w, r, projectID)
	case len(parts) == 2 && parts[1] == "goals":
		h.handleGoals(w, r, projectID)
	case len(parts) == 3 && parts[1] == "goals":
		h.handleGoal(w, r, projectID, parts[2])
	case len(parts) == 4 && parts[1] == "goals" && parts[3] == "toggle":
		h.handleToggleGoal(w, r, projectID, parts[2])
	default:
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "endpoint not found")
	}
}

type goalRequest struct {
	Title       string   `json:"title"`
	TargetDate  string   `json:"target_date"`
	Priority    string   `json:"priority,omitempty"`
	TargetValue *float64 `json:"target_value,omitempty"`
	TargetUnit  string   `json:"target_unit,omitempty"`
}

func (g goalRequest) toInput() service.GoalInput {
	return service.GoalInput{
		Title:       g.Title,
		TargetDate:  g.TargetDate,
		Priority:    g.Priority,
		TargetValue: g.TargetValue,
		TargetUnit:  g.TargetUnit,
	}
}

type createProjectRequest struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Subject     string        `json:"subject"`
	ColorCode   string        `json:"color_code"`
	Deadline    *string       `json:"deadline,omitempty"`
	Goals       []goalRequest `json:"goals,omitempty"`
}

func (h *ProjectHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)

	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	input := service.CreateProjectInput{
		Title:       req.Title,
		Description: req.Description,
		Subject:     req.Subject,
		ColorCode:   req.ColorCode,
		Deadline:    req.Deadline,
	}
	for _, g := range req.Goals {
		input.Goals = append(input.Goals, g.toInput())
	}

	project, err := h.svc.Create(r.Context(), userID, input)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, project)
}

func (h *ProjectHandler) handleList(w http.ResponseWriter, r *http.Request) {
	projects, err := h.svc.List(r.Context(), getUserID(r))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

type updateProjectRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Subject     *string `json:"subject,omitempty"`
	ColorCode   *string `json:"color_code,omitempty"`
	Deadline    *string `json:"deadline,omitempty"`
}

func (h *ProjectHandler) handleProject(w http.ResponseWriter, r *http.Request, projectID string) {
	userID := getUserID(r)

	switch r.Method {
	case http.MethodGet:
		project, err := h.svc.GetByID(r.Context(), userID, projectID)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, project)

	case http.MethodPut:
		var req updateProjectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
			return
		}
		project, err := h.svc.Update(r.Context(), userID, projectID, service.UpdateProjectInput{
			Title:       req.Title,
			Description: req.Description,
			Subject:     req.Subject,
			ColorCode:   req.ColorCode,
			Deadline:    req.Deadline,
		})
		if err != nil {
			handleServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, project)

	case http.MethodDelete:
		if err := h.svc.Delete(r.Context(), userID, projectID); err != nil {
			handleServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	}
}

func (h *ProjectHandler) handleComplete(w http.ResponseWriter, r *http.Request, projectID string) {
	if r.Method != http.MethodPost {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}

	project, err := h.svc.MarkCompleted(r.Context(), getUserID(r), projectID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) handleProgress(w http.ResponseWriter, r *http.Request, projectID string) {
	if r.Method != http.MethodGet {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}

	progress, err := h.svc.Progress(r.Context(), getUserID(r), projectID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, progress)
}

func (h *ProjectHandler) handleGoals(w http.ResponseWriter, r *http.Request, projectID string) {
	if r.Method != http.MethodPost {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}

	var req goalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	goal, err := h.svc.AddGoal(r.Context(), getUserID(r), projectID, req.toInput())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, goal)
}

type updateGoalRequest struct {
	Title       *string  `json:"title,omitempty"`
	TargetDate  *string  `json:"target_date,omitempty"`
	SortOrder   *int     `json:"sort_order,omitempty"`
	Priority    *string  `json:"priority,omitempty"`
	TargetValue *float64 `json:"target_value,omitempty"`
	TargetUnit  *string  `json:"target_unit,omitempty"`
}

func (h *ProjectHandler) handleGoal(w http.ResponseWriter, r *http.Request, projectID, goalID string) {
	userID := getUserID(r)

	switch r.Method {
	case http.MethodPut:
		var req updateGoalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
			return
		}
		goal, err := h.svc.UpdateGoal(r.Context(), userID, projectID, goalID, service.UpdateGoalInput{
			Title:       req.Title,
			TargetDate:  req.TargetDate,
			SortOrder:   req.SortOrder,
			Priority:    req.Priority,
			TargetValue: req.TargetValue,
			TargetUnit:  req.TargetUnit,
		})
		if err != nil {
			handleServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, goal)

	case http.MethodDelete:
		if err := h.svc.RemoveGoal(r.Context(), userID, projectID, goalID); err != nil {
			handleServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	}
}

func (h *ProjectHandler) handleToggleGoal(w http.ResponseWriter, r *http.Request, projectID, goalID string) {
	if r.Method != http.MethodPost {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}

	result, err := h.svc.ToggleGoal(r.Context(), getUserID(r), projectID, goalID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}
