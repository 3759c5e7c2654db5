package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spec-kit/calllog-service/internal/domain"
)

func (s *postgresStore) InsertLoginEvent(ctx context.Context, event *domain.LoginEvent) error {
	const query = `
        INSERT INTO login_events (employee_id, created_at)
        VALUES ($1, $2)
        RETURNING id, created_at`

	err := s.db.QueryRow(ctx, query, event.EmployeeID, stampNow(event.CreatedAt)).Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert login event: %w", err)
	}
	return nil
}

func (s *postgresStore) ListLoginEvents(ctx context.Context) ([]domain.LoginEvent, error) {
	rows, err := s.db.Query(ctx, `SELECT id, employee_id, created_at FROM login_events ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.LoginEvent{}
	for rows.Next() {
		var event domain.LoginEvent
		if err := rows.Scan(&event.ID, &event.EmployeeID, &event.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, event)
	}
	return result, rows.Err()
}

// DeleteLoginEventsForEmployee matches on the textual form of the id.
func (s *postgresStore) DeleteLoginEventsForEmployee(ctx context.Context, employeeID int64) (int64, error) {
	cmd, err := s.db.Exec(ctx, `DELETE FROM login_events WHERE employee_id=$1`, strconv.FormatInt(employeeID, 10))
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
