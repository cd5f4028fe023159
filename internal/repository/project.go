package repository

import (
	"context"

	"github.com/jaekwang-park/momentum-api/internal/model"
)

// ProjectRepository persists project aggregates. Reads return the project
// with its goals loaded and ordered by sort_order, so the progress engine
// always sees the complete mutation unit.
type ProjectRepository interface {
	Create(ctx context.Context, p model.Project) (model.Project, error)
	GetByID(ctx context.Context, userID, projectID string) (model.Project, error)
	List(ctx context.Context, userID string) ([]model.Project, error)
	Update(ctx context.Context, p model.Project) (model.Project, error)
	Delete(ctx context.Context, userID, projectID string) error

	AddGoal(ctx context.Context, g model.Goal) (model.Goal, error)
	UpdateGoal(ctx context.Context, g model.Goal) (model.Goal, error)
	DeleteGoal(ctx context.Context, projectID, goalID string) error

	// SaveToggle persists the outcome of a goal toggle: the goal row and the
	// project's completion columns, in one transaction.
	SaveToggle(ctx context.Context, p model.Project, g model.Goal) error

	// SaveCompletion persists the project's completion columns alone, for the
	// explicit completion of a zero-goal project.
	SaveCompletion(ctx context.Context, p model.Project) error
}
