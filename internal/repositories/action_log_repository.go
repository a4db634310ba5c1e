package repositories

import (
	"context"

	"rental-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ActionLogRepository struct {
	DB *pgxpool.Pool
}

func NewActionLogRepository(db *pgxpool.Pool) *ActionLogRepository {
	return &ActionLogRepository{DB: db}
}

// Create records an admin action
func (r *ActionLogRepository) Create(ctx context.Context, l *models.ActionLog) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO action_logs(user_id, action, target_type, target_id, details)
		 VALUES($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		l.UserID, l.Action, l.TargetType, l.TargetID, l.Details,
	).Scan(&l.ID, &l.CreatedAt)
}

// List returns recent actions, newest first
func (r *ActionLogRepository) List(ctx context.Context, limit, offset int) ([]*models.ActionLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := r.DB.Query(ctx,
		`SELECT l.id, l.user_id, COALESCE(u.name, '') as user_name, l.action,
		        l.target_type, l.target_id, l.details, l.created_at
		 FROM action_logs l
		 LEFT JOIN users u ON l.user_id = u.id
		 ORDER BY l.created_at DESC
		 LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.ActionLog
	for rows.Next() {
		var l models.ActionLog
		err := rows.Scan(&l.ID, &l.UserID, &l.UserName, &l.Action, &l.TargetType,
			&l.TargetID, &l.Details, &l.CreatedAt)
		if err != nil {
			return nil, err
		}
		logs = append(logs, &l)
	}
	return logs, rows.Err()
}

// ListByTarget returns the action history of one record
func (r *ActionLogRepository) ListByTarget(ctx context.Context, targetType string, targetID int) ([]*models.ActionLog, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT l.id, l.user_id, COALESCE(u.name, '') as user_name, l.action,
		        l.target_type, l.target_id, l.details, l.created_at
		 FROM action_logs l
		 LEFT JOIN users u ON l.user_id = u.id
		 WHERE l.target_type = $1 AND l.target_id = $2
		 ORDER BY l.created_at DESC`, targetType, targetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.ActionLog
	for rows.Next() {
		var l models.ActionLog
		err := rows.Scan(&l.ID, &l.UserID, &l.UserName, &l.Action, &l.TargetType,
			&l.TargetID, &l.Details, &l.CreatedAt)
		if err != nil {
			return nil, err
		}
		logs = append(logs, &l)
	}
	return logs, rows.Err()
}
