package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/calllog-service/internal/domain"
)

const callColumns = `id, employee_id, person_name, person_number, answered, outcome, property_value, created_at`

func (s *postgresStore) InsertCall(ctx context.Context, call *domain.Call) error {
	const query = `
        INSERT INTO calls (employee_id, person_name, person_number, answered, outcome, property_value, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`

	err := s.db.QueryRow(ctx, query,
		call.EmployeeID,
		call.PersonName,
		call.PersonNumber,
		call.Answered,
		call.Outcome,
		call.PropertyValue,
		stampNow(call.CreatedAt),
	).Scan(&call.ID, &call.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert call: %w", mapPgError(err))
	}
	return nil
}

func (s *postgresStore) ListCallsForEmployee(ctx context.Context, employeeID int64) ([]domain.Call, error) {
	return s.ListCalls(ctx, CallFilter{EmployeeID: &employeeID})
}

func (s *postgresStore) ListCalls(ctx context.Context, filter CallFilter) ([]domain.Call, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		clauses = append(clauses, fmt.Sprintf("employee_id=$%d", len(args)))
	}
	if filter.AnsweredOnly {
		clauses = append(clauses, "answered")
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		clauses = append(clauses, fmt.Sprintf("created_at < $%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM calls WHERE %s ORDER BY created_at DESC, id DESC`,
		callColumns, strings.Join(clauses, " AND "))

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCalls(rows)
}

func (s *postgresStore) DeleteCallsForEmployee(ctx context.Context, employeeID int64) (int64, error) {
	cmd, err := s.db.Exec(ctx, `DELETE FROM calls WHERE employee_id=$1`, employeeID)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func scanCalls(rows pgx.Rows) ([]domain.Call, error) {
	result := []domain.Call{}
	for rows.Next() {
		var call domain.Call
		var outcome *string
		if err := rows.Scan(
			&call.ID,
			&call.EmployeeID,
			&call.PersonName,
			&call.PersonNumber,
			&call.Answered,
			&outcome,
			&call.PropertyValue,
			&call.CreatedAt,
		); err != nil {
			return nil, err
		}
		if outcome != nil {
			call.Outcome = *outcome
		}
		result = append(result, call)
	}
	return result, rows.Err()
}
