package repositories

import (
	"context"
	"database/sql"
	"time"

	"taskhub/internal/models"
)

type StatusHistoryRepository interface {
	Save(ctx context.Context, history *models.StatusHistory) (string, error)
	FindByTaskID(ctx context.Context, taskID models.TaskID) ([]models.StatusHistory, error)
	FindByDateRange(ctx context.Context, start, end time.Time) ([]models.StatusHistory, error)
	FindLatestByTaskID(ctx context.Context, taskID models.TaskID) (*models.StatusHistory, error)
	// Delete is the audited administrative exception; normal operation
	// never removes history entries.
	Delete(ctx context.Context, id string) error
	CompletedTaskIDs(ctx context.Context, start, end time.Time) ([]models.TaskID, error)
	AverageCompletionTimesByPriority(ctx context.Context) ([]models.PriorityCompletion, error)
}

type statusHistoryRepository struct {
	db *sql.DB
}

func NewStatusHistoryRepository(db *sql.DB) StatusHistoryRepository {
	return &statusHistoryRepository{db: db}
}

const historyColumns = `id, task_id, from_status, to_status, changed_at, changed_by, comment, user_role`

func scanHistory(scan func(dest ...interface{}) error) (*models.StatusHistory, error) {
	var (
		id         string
		taskID     int32
		fromStatus sql.NullString
		toStatus   string
		changedAt  time.Time
		changedBy  string
		comment    sql.NullString
		userRole   string
	)
	if err := scan(&id, &taskID, &fromStatus, &toStatus, &changedAt, &changedBy, &comment, &userRole); err != nil {
		return nil, err
	}

	to, err := models.ParseTaskStatus(toStatus)
	if err != nil {
		return nil, err
	}
	role, err := models.ParseUserRole(userRole)
	if err != nil {
		return nil, err
	}
	h := &models.StatusHistory{
		ID:        id,
		TaskID:    models.TaskID(taskID),
		ToStatus:  to,
		ChangedAt: changedAt,
		ChangedBy: changedBy,
		UserRole:  role,
	}
	if fromStatus.Valid {
		from, err := models.ParseTaskStatus(fromStatus.String)
		if err != nil {
			return nil, err
		}
		h.FromStatus = &from
	}
	if comment.Valid {
		h.Comment = &comment.String
	}
	return h, nil
}

func (r *statusHistoryRepository) Save(ctx context.Context, history *models.StatusHistory) (string, error) {
	var fromStatus *string
	if history.FromStatus != nil {
		s := string(*history.FromStatus)
		fromStatus = &s
	}
	query := `
		INSERT INTO status_history (id, task_id, from_status, to_status, changed_at, changed_by, comment, user_role)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id`
	var id string
	err := r.db.QueryRowContext(ctx, query,
		history.ID, history.TaskID, fromStatus, history.ToStatus,
		history.ChangedAt, history.ChangedBy, history.Comment, history.UserRole,
	).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *statusHistoryRepository) findMany(ctx context.Context, query string, args ...interface{}) ([]models.StatusHistory, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var histories []models.StatusHistory
	for rows.Next() {
		h, err := scanHistory(rows.Scan)
		if err != nil {
			return nil, err
		}
		histories = append(histories, *h)
	}
	return histories, rows.Err()
}

func (r *statusHistoryRepository) FindByTaskID(ctx context.Context, taskID models.TaskID) ([]models.StatusHistory, error) {
	return r.findMany(ctx, `SELECT `+historyColumns+`
		FROM status_history WHERE task_id = $1 ORDER BY changed_at ASC`, taskID)
}

func (r *statusHistoryRepository) FindByDateRange(ctx context.Context, start, end time.Time) ([]models.StatusHistory, error) {
	return r.findMany(ctx, `SELECT `+historyColumns+`
		FROM status_history WHERE changed_at >= $1 AND changed_at <= $2 ORDER BY changed_at ASC`, start, end)
}

func (r *statusHistoryRepository) FindLatestByTaskID(ctx context.Context, taskID models.TaskID) (*models.StatusHistory, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+historyColumns+`
		FROM status_history WHERE task_id = $1 ORDER BY changed_at DESC LIMIT 1`, taskID)
	h, err := scanHistory(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return h, nil
}

func (r *statusHistoryRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM status_history WHERE id = $1`, id)
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

func (r *statusHistoryRepository) CompletedTaskIDs(ctx context.Context, start, end time.Time) ([]models.TaskID, error) {
	query := `
		SELECT DISTINCT task_id
		FROM status_history
		WHERE to_status = 'Completed'
		  AND changed_at >= $1 AND changed_at <= $2`
	rows, err := r.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []models.TaskID
	for rows.Next() {
		var id int32
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, models.TaskID(id))
	}
	return ids, rows.Err()
}

func (r *statusHistoryRepository) AverageCompletionTimesByPriority(ctx context.Context) ([]models.PriorityCompletion, error) {
	query := `
		SELECT t.priority,
		       AVG(EXTRACT(EPOCH FROM (done.changed_at - created.changed_at))) AS avg_seconds,
		       COUNT(*) AS task_count
		FROM tasks t
		JOIN status_history created ON t.task_id = created.task_id AND created.from_status IS NULL
		JOIN status_history done ON t.task_id = done.task_id AND done.to_status = 'Completed'
		WHERE t.priority IS NOT NULL
		GROUP BY t.priority
		ORDER BY t.priority`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []models.PriorityCompletion
	for rows.Next() {
		var (
			priority   int
			avgSeconds sql.NullFloat64
			taskCount  int
		)
		if err := rows.Scan(&priority, &avgSeconds, &taskCount); err != nil {
			return nil, err
		}
		if !avgSeconds.Valid {
			continue
		}
		results = append(results, models.PriorityCompletion{
			Priority:    priority,
			AverageTime: time.Duration(avgSeconds.Float64 * float64(time.Second)),
			TaskCount:   taskCount,
		})
	}
	return results, rows.Err()
}
