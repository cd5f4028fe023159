package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/jaekwang-park/momentum-api/internal/service"
)

type HabitHandler struct {
	svc *service.HabitService
}

func NewHabitHandler(svc *service.HabitService) *HabitHandler {
	return &HabitHandler{svc: svc}
}

// ServeHTTP routes /api/v1/habits and the per-habit operations:
//
//	/api/v1/habits/{id}
//	/api/v1/habits/{id}/complete
//	/api/v1/habits/{id}/uncomplete
//	/api/v1/habits/{id}/terminate
//	/api/v1/habits/{id}/milestone-shown
//	/api/v1/habits/{id}/pause
//	/api/v1/habits/{id}/stats
func (h *HabitHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/habits")
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

	parts := strings.SplitN(path, "/", 2)
	habitID := parts[0]
	action := ""
	if len(parts) > 1 {
		action = parts[1]
	}

	switch action {
	case "":
		h.handleHabit(w, r, habitID)
	case "complete":
		h.handleComplete(w, r, habitID)
	case "uncomplete":
		h.requirePost(w, r, habitID, h.handleUncomplete)
	case "terminate":
		h.requirePost(w, r, habitID, h.handleTerminate)
	case "milestone-shown":
		h.requirePost(w, r, habitID, h.handleMilestoneShown)
	case "pause":
		h.requirePost(w, r, habitID, h.handlePause)
	case "stats":
		h.handleStats(w, r, habitID)
	default:
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "endpoint not found")
	}
}

func (h *HabitHandler) requirePost(w http.ResponseWriter, r *http.Request, habitID string, fn func(http.ResponseWriter, *http.Request, string)) {
	if r.Method != http.MethodPost {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}
	fn(w, r, habitID)
}

type createHabitRequest struct {
	Title             string  `json:"title"`
	Description       string  `json:"description"`
	TargetValue       float64 `json:"target_value"`
	Unit              string  `json:"unit,omitempty"`
	Frequency         string  `json:"frequency,omitempty"`
	MaxCompletionDays int     `json:"max_completion_days,omitempty"`
	ColorCode         string  `json:"color_code,omitempty"`
}

func (h *HabitHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createHabitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	habit, err := h.svc.Create(r.Context(), getUserID(r), service.CreateHabitInput{
		Title:             req.Title,
		Description:       req.Description,
		TargetValue:       req.TargetValue,
		Unit:              req.Unit,
		Frequency:         req.Frequency,
		MaxCompletionDays: req.MaxCompletionDays,
		ColorCode:         req.ColorCode,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, habit)
}

func (h *HabitHandler) handleList(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	habits, err := h.svc.List(r.Context(), getUserID(r), activeOnly)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"habits": habits})
}

type updateHabitRequest struct {
	Title             *string  `json:"title,omitempty"`
	Description       *string  `json:"description,omitempty"`
	TargetValue       *float64 `json:"target_value,omitempty"`
	Unit              *string  `json:"unit,omitempty"`
	Frequency         *string  `json:"frequency,omitempty"`
	MaxCompletionDays *int     `json:"max_completion_days,omitempty"`
	ColorCode         *string  `json:"color_code,omitempty"`
}

func (h *HabitHandler) handleHabit(w http.ResponseWriter, r *http.Request, habitID string) {
	userID := getUserID(r)

	switch r.Method {
	case http.MethodGet:
		habit, err := h.svc.GetByID(r.Context(), userID, habitID)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, habit)

	case http.MethodPut:
		var req updateHabitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
			return
		}
		habit, err := h.svc.Update(r.Context(), userID, habitID, service.UpdateHabitInput{
			Title:             req.Title,
			Description:       req.Description,
			TargetValue:       req.TargetValue,
			Unit:              req.Unit,
			Frequency:         req.Frequency,
			MaxCompletionDays: req.MaxCompletionDays,
			ColorCode:         req.ColorCode,
		})
		if err != nil {
			handleServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, habit)

	case http.MethodDelete:
		if err := h.svc.Delete(r.Context(), userID, habitID); err != nil {
			handleServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	}
}

type completeHabitRequest struct {
	Value *float64 `json:"value,omitempty"`
}

func (h *HabitHandler) handleComplete(w http.ResponseWriter, r *http.Request, habitID string) {
	if r.Method != http.MethodPost {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}

	// Body is optional: a bare POST is a checkbox completion at target value.
	var req completeHabitRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
			return
		}
	}

	habit, err := h.svc.CompleteToday(r.Context(), getUserID(r), habitID, req.Value)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, habit)
}

func (h *HabitHandler) handleUncomplete(w http.ResponseWriter, r *http.Request, habitID string) {
	habit, err := h.svc.UncompleteToday(r.Context(), getUserID(r), habitID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, habit)
}

func (h *HabitHandler) handleTerminate(w http.ResponseWriter, r *http.Request, habitID string) {
	habit, err := h.svc.Terminate(r.Context(), getUserID(r), habitID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, habit)
}

func (h *HabitHandler) handleMilestoneShown(w http.ResponseWriter, r *http.Request, habitID string) {
	habit, err := h.svc.MarkMilestoneShown(r.Context(), getUserID(r), habitID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, habit)
}

func (h *HabitHandler) handlePause(w http.ResponseWriter, r *http.Request, habitID string) {
	if err := h.svc.PauseToday(r.Context(), getUserID(r), habitID); err != nil {
		handleServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "habit paused for today"})
}

func (h *HabitHandler) handleStats(w http.ResponseWriter, r *http.Request, habitID string) {
	if r.Method != http.MethodGet {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}

	stats, err := h.svc.Stats(r.Context(), getUserID(r), habitID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, stats)
}
