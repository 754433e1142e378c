package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gridkit/gridexpr/internal/domain"
)

// EmployeeRepository defines the interface for loading grid records.
type EmployeeRepository interface {
	List(ctx context.Context) ([]domain.Employee, error)
}

// employeeRepository implements EmployeeRepository on Postgres.
type employeeRepository struct {
	pool *pgxpool.Pool
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(pool *pgxpool.Pool) EmployeeRepository {
	return &employeeRepository{pool: pool}
}

// List retrieves all employees in stable insertion order. Filtering and
// ordering happen in the expression layer, not in SQL.
func (r *employeeRepository) List(ctx context.Context) ([]domain.Employee, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, email, age, salary, active, hired_at, manager_id
		FROM employees
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []domain.Employee
	for rows.Next() {
		var e domain.Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.Email, &e.Age, &e.Salary, &e.Active, &e.HiredAt, &e.ManagerID); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read employees: %w", err)
	}

	return employees, nil
}
