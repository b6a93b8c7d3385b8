package repositories

import (
	"context"
	"database/sql"
	"time"

	"taskhub/internal/models"
)

type TaskRepository interface {
	Store(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id models.TaskID) (*models.Task, error)
	FindAll(ctx context.Context) ([]models.Task, error)
	FindByPriority(ctx context.Context, priority int) ([]models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id models.TaskID) error
}

type taskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Store(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (name, priority, status, version, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING task_id`
	return r.db.QueryRowContext(ctx, query,
		task.Name, task.Priority, task.Status, task.Version,
		task.CreatedAt, task.UpdatedAt,
	).Scan(&task.ID)
}

func scanTask(scan func(dest ...interface{}) error) (*models.Task, error) {
	var (
		id        int32
		name      string
		priority  sql.NullInt64
		status    string
		version   int64
		createdAt time.Time
		updatedAt time.Time
	)
	if err := scan(&id, &name, &priority, &status, &version, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	st, err := models.ParseTaskStatus(status)
	if err != nil {
		return nil, err
	}
	var p *int
	if priority.Valid {
		v := int(priority.Int64)
		p = &v
	}
	task, err := models.NewTaskWithStatus(models.TaskID(id), name, p, st, createdAt, updatedAt)
	if err != nil {
		return nil, err
	}
	task.Version = version
	return task, nil
}

func (r *taskRepository) FindByID(ctx context.Context, id models.TaskID) (*models.Task, error) {
	query := `SELECT task_id, name, priority, status, version, created_at, updated_at
		FROM tasks WHERE task_id = $1`
	row := r.db.QueryRowContext(ctx, query, id)
	task, err := scanTask(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) findMany(ctx context.Context, query string, args ...interface{}) ([]models.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		task, err := scanTask(rows.Scan)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) FindAll(ctx context.Context) ([]models.Task, error) {
	return r.findMany(ctx, `SELECT task_id, name, priority, status, version, created_at, updated_at
		FROM tasks ORDER BY task_id`)
}

func (r *taskRepository) FindByPriority(ctx context.Context, priority int) ([]models.Task, error) {
	return r.findMany(ctx, `SELECT task_id, name, priority, status, version, created_at, updated_at
		FROM tasks WHERE priority = $1 ORDER BY task_id`, priority)
}

// Update writes the task back, guarded by the version token: the row is
// only touched when the stored version matches, so a concurrent
// transition surfaces as ErrVersionConflict instead of a silent
// overwrite.
func (r *taskRepository) Update(ctx context.Context, task *models.Task) error {
	query := `
		UPDATE tasks SET name=$1, priority=$2, status=$3, version=version+1, updated_at=$4
		WHERE task_id=$5 AND version=$6`
	res, err := r.db.ExecContext(ctx, query,
		task.Name, task.Priority, task.Status, task.UpdatedAt, task.ID, task.Version,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		var exists int32
		err := r.db.QueryRowContext(ctx, `SELECT task_id FROM tasks WHERE task_id=$1`, task.ID).Scan(&exists)
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return ErrVersionConflict
	}
	task.Version++
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id models.TaskID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE task_id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
