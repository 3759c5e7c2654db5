package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/calllog-service/internal/domain"
)

func (s *postgresStore) InsertEmployee(ctx context.Context, employee *domain.Employee) error {
	const query = `
        INSERT INTO employees (name, password_hash, created_at)
        VALUES ($1, $2, $3)
        RETURNING id, created_at`

	err := s.db.QueryRow(ctx, query,
		employee.Name,
		employee.PasswordHash,
		stampNow(employee.CreatedAt),
	).Scan(&employee.ID, &employee.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert employee: %w", mapPgError(err))
	}
	return nil
}

func (s *postgresStore) FindEmployeeByID(ctx context.Context, id int64) (*domain.Employee, error) {
	const query = `SELECT id, name, password_hash, created_at FROM employees WHERE id=$1`
	return s.fetchEmployee(ctx, query, id)
}

func (s *postgresStore) FindEmployeeByName(ctx context.Context, name string) (*domain.Employee, error) {
	const query = `SELECT id, name, password_hash, created_at FROM employees WHERE name=$1`
	return s.fetchEmployee(ctx, query, name)
}

func (s *postgresStore) fetchEmployee(ctx context.Context, query string, arg any) (*domain.Employee, error) {
	var employee domain.Employee
	if err := s.db.QueryRow(ctx, query, arg).Scan(
		&employee.ID,
		&employee.Name,
		&employee.PasswordHash,
		&employee.CreatedAt,
	); err != nil {
		return nil, mapPgError(err)
	}
	return &employee, nil
}

func (s *postgresStore) EmployeeNameTaken(ctx context.Context, name string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM employees WHERE LOWER(name) = LOWER($1))`
	var taken bool
	if err := s.db.QueryRow(ctx, query, name).Scan(&taken); err != nil {
		return false, err
	}
	return taken, nil
}

func (s *postgresStore) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	const query = `SELECT id, name, password_hash, created_at FROM employees ORDER BY name, id`
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEmployees(rows)
}

func (s *postgresStore) DeleteEmployee(ctx context.Context, id int64) error {
	cmd, err := s.db.Exec(ctx, `DELETE FROM employees WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanEmployees(rows pgx.Rows) ([]domain.Employee, error) {
	result := []domain.Employee{}
	for rows.Next() {
		var employee domain.Employee
		if err := rows.Scan(
			&employee.ID,
			&employee.Name,
			&employee.PasswordHash,
			&employee.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, employee)
	}
	return result, rows.Err()
}
