package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jaekwang-park/momentum-api/internal/model"
)

type PostgresProjectRepository struct {
	db *sql.DB
}

func NewPostgresProject(db *sql.DB) *PostgresProjectRepository {
	return &PostgresProjectRepository{db: db}
}

const projectColumns = `id, user_id, title, description, subject, color_code, deadline,
	is_completed, completed_date, created_at, updated_at`

const goalColumns = `id, project_id, title, target_date, is_completed, completed_date,
	sort_order, priority, target_value, target_unit`

func (r *PostgresProjectRepository) Create(ctx context.Context, p model.Project) (model.Project, error) {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		query := `
			INSERT INTO projects (id, user_id, title, description, subject, color_code, deadline)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING created_at, updated_at`
		if err := tx.QueryRowContext(ctx, query,
			p.ID, p.UserID, p.Title, p.Description, p.Subject, p.ColorCode, p.Deadline,
		).Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
			return fmt.Errorf("failed to insert project: %w", err)
		}

		for i := range p.Goals {
			if err := insertGoal(ctx, tx, p.Goals[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return model.Project{}, err
	}
	return p, nil
}

func insertGoal(ctx context.Context, tx *sql.Tx, g model.Goal) error {
	query := `
		INSERT INTO goals (id, project_id, title, target_date, sort_order, priority, target_value, target_unit)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := tx.ExecContext(ctx, query,
		g.ID, g.ProjectID, g.Title, g.TargetDate, g.SortOrder, g.Priority, g.TargetValue, g.TargetUnit,
	); err != nil {
		return fmt.Errorf("failed to insert goal: %w", err)
	}
	return nil
}

func (r *PostgresProjectRepository) GetByID(ctx context.Context, userID, projectID string) (model.Project, error) {
	query := fmt.Sprintf(`SELECT %s FROM projects WHERE id = $1 AND user_id = $2`, projectColumns)
	p, err := scanProject(r.db.QueryRowContext(ctx, query, projectID, userID))
	if err != nil {
		return model.Project{}, err
	}

	goals, err := r.loadGoals(ctx, projectID)
	if err != nil {
		return model.Project{}, err
	}
	p.Goals = goals
	return p, nil
}

func (r *PostgresProjectRepository) List(ctx context.Context, userID string) ([]model.Project, error) {
	query := fmt.Sprintf(`SELECT %s FROM projects WHERE user_id = $1 ORDER BY created_at DESC`, projectColumns)
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []model.Project{}
	index := map[string]int{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		p.Goals = []model.Goal{}
		index[p.ID] = len(projects)
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}
	if len(projects) == 0 {
		return projects, nil
	}

	goalQuery := fmt.Sprintf(`
		SELECT %s FROM goals
		WHERE project_id IN (SELECT id FROM projects WHERE user_id = $1)
		ORDER BY sort_order ASC`, goalColumns)
	goalRows, err := r.db.QueryContext(ctx, goalQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer goalRows.Close()

	for goalRows.Next() {
		g, err := scanGoal(goalRows)
		if err != nil {
			return nil, err
		}
		if i, ok := index[g.ProjectID]; ok {
			projects[i].Goals = append(projects[i].Goals, g)
		}
	}
	if err := goalRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate goals: %w", err)
	}

	return projects, nil
}

func (r *PostgresProjectRepository) Update(ctx context.Context, p model.Project) (model.Project, error) {
	query := fmt.Sprintf(`
		UPDATE projects
		SET title = $1, description = $2, subject = $3, color_code = $4, deadline = $5, updated_at = now()
		WHERE id = $6 AND user_id = $7
		RETURNING %s`, projectColumns)

	row := r.db.QueryRowContext(ctx, query,
		p.Title, p.Description, p.Subject, p.ColorCode, p.Deadline, p.ID, p.UserID,
	)
	updated, err := scanProject(row)
	if err != nil {
		return model.Project{}, err
	}
	updated.Goals = p.Goals
	return updated, nil
}

func (r *PostgresProjectRepository) Delete(ctx context.Context, userID, projectID string) error {
	// Goals go with the project via ON DELETE CASCADE.
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM projects WHERE id = $1 AND user_id = $2`, projectID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *PostgresProjectRepository) AddGoal(ctx context.Context, g model.Goal) (model.Goal, error) {
	query := fmt.Sprintf(`
		INSERT INTO goals (id, project_id, title, target_date, sort_order, priority, target_value, target_unit)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s`, goalColumns)

	row := r.db.QueryRowContext(ctx, query,
		g.ID, g.ProjectID, g.Title, g.TargetDate, g.SortOrder, g.Priority, g.TargetValue, g.TargetUnit,
	)
	return scanGoal(row)
}

func (r *PostgresProjectRepository) UpdateGoal(ctx context.Context, g model.Goal) (model.Goal, error) {
	query := fmt.Sprintf(`
		UPDATE goals
		SET title = $1, target_date = $2, sort_order = $3, priority = $4, target_value = $5, target_unit = $6
		WHERE id = $7 AND project_id = $8
		RETURNING %s`, goalColumns)

	row := r.db.QueryRowContext(ctx, query,
		g.Title, g.TargetDate, g.SortOrder, g.Priority, g.TargetValue, g.TargetUnit, g.ID, g.ProjectID,
	)
	return scanGoal(row)
}

func (r *PostgresProjectRepository) DeleteGoal(ctx context.Context, projectID, goalID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM goals WHERE id = $1 AND project_id = $2`, goalID, projectID)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *PostgresProjectRepository) SaveToggle(ctx context.Context, p model.Project, g model.Goal) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			UPDATE goals SET is_completed = $1, completed_date = $2
			WHERE id = $3 AND project_id = $4`,
			g.IsCompleted, g.CompletedDate, g.ID, g.ProjectID,
		); err != nil {
			return fmt.Errorf("failed to save goal completion: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE projects SET is_completed = $1, completed_date = $2, updated_at = now()
			WHERE id = $3 AND user_id = $4`,
			p.IsCompleted, p.CompletedDate, p.ID, p.UserID,
		); err != nil {
			return fmt.Errorf("failed to save project completion: %w", err)
		}
		return nil
	})
}

func (r *PostgresProjectRepository) SaveCompletion(ctx context.Context, p model.Project) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE projects SET is_completed = $1, completed_date = $2, updated_at = now()
		WHERE id = $3 AND user_id = $4`,
		p.IsCompleted, p.CompletedDate, p.ID, p.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to save project completion: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *PostgresProjectRepository) loadGoals(ctx context.Context, projectID string) ([]model.Goal, error) {
	query := fmt.Sprintf(`SELECT %s FROM goals WHERE project_id = $1 ORDER BY sort_order ASC`, goalColumns)
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load goals: %w", err)
	}
	defer rows.Close()

	goals := []model.Goal{}
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate goals: %w", err)
	}
	return goals, nil
}

func scanProject(row scannable) (model.Project, error) {
	var p model.Project
	var deadline, completedDate sql.NullTime
	err := row.Scan(
		&p.ID, &p.UserID, &p.Title, &p.Description, &p.Subject, &p.ColorCode,
		&deadline, &p.IsCompleted, &completedDate, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return model.Project{}, fmt.Errorf("failed to scan project: %w", err)
	}
	if deadline.Valid {
		p.Deadline = &deadline.Time
	}
	if completedDate.Valid {
		p.CompletedDate = &completedDate.Time
	}
	return p, nil
}

func scanGoal(row scannable) (model.Goal, error) {
	var g model.Goal
	var completedDate sql.NullTime
	var targetValue sql.NullFloat64
	err := row.Scan(
		&g.ID, &g.ProjectID, &g.Title, &g.TargetDate, &g.IsCompleted,
		&completedDate, &g.SortOrder, &g.Priority, &targetValue, &g.TargetUnit,
	)
	if err != nil {
		return model.Goal{}, fmt.Errorf("failed to scan goal: %w", err)
	}
	if completedDate.Valid {
		g.CompletedDate = &completedDate.Time
	}
	if targetValue.Valid {
		g.TargetValue = &targetValue.Float64
	}
	return g, nil
}

var _ ProjectRepository = (*PostgresProjectRepository)(nil)
