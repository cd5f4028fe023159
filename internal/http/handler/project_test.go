package handler_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jaekwang-park/momentum-api/internal/http/handler"
	"github.com/jaekwang-park/momentum-api/internal/model"
	"github.com/jaekwang-park/momentum-api/internal/progress"
	"github.com/jaekwang-park/momentum-api/internal/service"
)

// mockProjectRepo for handler tests
type mockProjectRepo struct {
	createFn         func(ctx context.Context, p model.Project) (model.Project, error)
	getByIDFn        func(ctx context.Context, userID, projectID string) (model.Project, error)
	listFn           func(ctx context.Context, userID string) ([]model.Project, error)
	updateFn         func(ctx context.Context, p model.Project) (model.Project, error)
	deleteFn         func(ctx context.Context, userID, projectID string) error
	addGoalFn        func(ctx context.Context, g model.Goal) (model.Goal, error)
	updateGoalFn     func(ctx context.Context, g model.Goal) (model.Goal, error)
	deleteGoalFn     func(ctx context.Context, projectID, goalID string) error
	saveToggleFn     func(ctx context.Context, p model.Project, g model.Goal) error
	saveCompletionFn func(ctx context.Context, p model.Project) error
}

func (m *mockProjectRepo) Create(ctx context.Context, p model.Project) (model.Project, error) {
	return m.createFn(ctx, p)
}
func (m *mockProjectRepo) GetByID(ctx context.Context, userID, projectID string) (model.Project, error) {
	return m.getByIDFn(ctx, userID, projectID)
}
func (m *mockProjectRepo) List(ctx context.Context, userID string) ([]model.Project, error) {
	return m.listFn(ctx, userID)
}
func (m *mockProjectRepo) Update(ctx context.Context, p model.Project) (model.Project, error) {
	return m.updateFn(ctx, p)
}
func (m *mockProjectRepo) Delete(ctx context.Context, userID, projectID string) error {
	return m.deleteFn(ctx, userID, projectID)
}
func (m *mockProjectRepo) AddGoal(ctx context.Context, g model.Goal) (model.Goal, error) {
	return m.addGoalFn(ctx, g)
}
func (m *mockProjectRepo) UpdateGoal(ctx context.Context, g model.Goal) (model.Goal, error) {
	return m.updateGoalFn(ctx, g)
}
func (m *mockProjectRepo) DeleteGoal(ctx context.Context, projectID, goalID string) error {
	return m.deleteGoalFn(ctx, projectID, goalID)
}
func (m *mockProjectRepo) SaveToggle(ctx context.Context, p model.Project, g model.Goal) error {
	return m.saveToggleFn(ctx, p, g)
}
func (m *mockProjectRepo) SaveCompletion(ctx context.Context, p model.Project) error {
	return m.saveCompletionFn(ctx, p)
}

var now = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func testEngine() *progress.Engine {
	return progress.NewEngine(func() time.Time { return now })
}

func sampleProject() model.Project {
	return model.Project{
		ID:     "project-1",
		UserID: "user-1",
		Title:  "Thesis",
		Goals: []model.Goal{
			{ID: "goal-1", ProjectID: "project-1", Title: "Outline", TargetDate: now.AddDate(0, 0, 7), SortOrder: 0},
			{ID: "goal-2", ProjectID: "project-1", Title: "Draft", TargetDate: now.AddDate(0, 0, 14), SortOrder: 1},
		},
	}
}

func newProjectHandler(repo *mockProjectRepo) *handler.ProjectHandler {
	svc := service.NewProjectService(repo, testEngine())
	return handler.NewProjectHandler(svc)
}

func TestProjectHandler_Create(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		repoErr    error
		wantStatus int
	}{
		{
			name:       "success",
			body:       `{"title":"Thesis","goals":[{"title":"Outline","target_date":"2025-03-17T00:00:00Z"}]}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "empty title",
			body:       `{"title":""}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "goal with bad date",
			body:       `{"title":"Thesis","goals":[{"title":"Outline","target_date":"next week"}]}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid json",
			body:       `{invalid`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "repo error",
			body:       `{"title":"Thesis"}`,
			repoErr:    fmt.Errorf("db error"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockProjectRepo{
				createFn: func(ctx context.Context, p model.Project) (model.Project, error) {
					if tt.repoErr != nil {
						return model.Project{}, tt.repoErr
					}
					return p, nil
				},
			}

			h := newProjectHandler(repo)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/projects", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			h.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d (body: %s)", tt.wantStatus, w.Code, w.Body.String())
			}

			if tt.wantStatus == http.StatusCreated {
				var result model.Project
				if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}
				if result.Title != "Thesis" {
					t.Errorf("Title=%s, want Thesis", result.Title)
				}
			}
		})
	}
}

func TestProjectHandler_GetByID(t *testing.T) {
	tests := []struct {
		name       string
		repoErr    error
		wantStatus int
	}{
		{"found", nil, http.StatusOK},
		{"not found", sql.ErrNoRows, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockProjectRepo{
				getByIDFn: func(ctx context.Context, userID, projectID string) (model.Project, error) {
					if tt.repoErr != nil {
						return model.Project{}, tt.repoErr
					}
					return sampleProject(), nil
				},
			}

			h := newProjectHandler(repo)
			req := httptest.NewRequest(http.MethodGet, "/api/v1/projects/project-1", nil)
			w := httptest.NewRecorder()

			h.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d (body: %s)", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestProjectHandler_ToggleGoal(t *testing.T) {
	project := sampleProject()
	project.Goals[0].IsCompleted = true
	project.Goals[0].CompletedDate = &now

	repo := &mockProjectRepo{
		getByIDFn: func(ctx context.Context, userID, projectID string) (model.Project, error) {
			return project, nil
		},
		saveToggleFn: func(ctx context.Context, p model.Project, g model.Goal) error {
			return nil
		},
	}

	h := newProjectHandler(repo)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects/project-1/goals/goal-2/toggle", nil)
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d (body: %s)", w.Code, w.Body.String())
	}

	var result struct {
		Goal    model.Goal    `json:"goal"`
		Project model.Project `json:"project"`
	}
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !result.Goal.IsCompleted {
		t.Error("expected goal to be completed")
	}
	if !result.Project.IsCompleted {
		t.Error("expected project to cascade to completed")
	}
}

func TestProjectHandler_Progress(t *testing.T) {
	project := sampleProject()
	project.Goals[0].IsCompleted = true

	repo := &mockProjectRepo{
		getByIDFn: func(ctx context.Context, userID, projectID string) (model.Project, error) {
			return project, nil
		},
	}

	h := newProjectHandler(repo)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects/project-1/progress", nil)
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d (body: %s)", w.Code, w.Body.String())
	}

	var result model.ProjectProgress
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.Percentage != 50 {
		t.Errorf("Percentage=%v, want 50", result.Percentage)
	}
	if result.NextGoal == nil || result.NextGoal.ID != "goal-2" {
		t.Errorf("NextGoal=%+v, want goal-2", result.NextGoal)
	}
}

func TestProjectHandler_Complete(t *testing.T) {
	t.Run("empty project", func(t *testing.T) {
		project := sampleProject()
		project.Goals = nil

		repo := &mockProjectRepo{
			getByIDFn: func(ctx context.Context, userID, projectID string) (model.Project, error) {
				return project, nil
			},
			saveCompletionFn: func(ctx context.Context, p model.Project) error {
				return nil
			},
		}

		h := newProjectHandler(repo)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/projects/project-1/complete", nil)
		w := httptest.NewRecorder()

		h.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d (body: %s)", w.Code, w.Body.String())
		}
	})

	t.Run("project with goals rejected", func(t *testing.T) {
		repo := &mockProjectRepo{
			getByIDFn: func(ctx context.Context, userID, projectID string) (model.Project, error) {
				return sampleProject(), nil
			},
		}

		h := newProjectHandler(repo)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/projects/project-1/complete", nil)
		w := httptest.NewRecorder()

		h.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", w.Code)
		}
	})
}

func TestProjectHandler_MethodNotAllowed(t *testing.T) {
	h := newProjectHandler(&mockProjectRepo{})

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/projects/project-1/toggle-nothing", nil)
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404 for unknown subpath, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/projects", nil)
	w = httptest.NewRecorder()

	h.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}
