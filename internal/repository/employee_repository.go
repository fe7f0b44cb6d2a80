package repository

import (
	"context"
	"fmt"

	"tably/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// employeeRepository implements the EmployeeRepository interface using PostgreSQL.
type employeeRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewEmployeeRepository creates a new PostgreSQL-backed employee repository.
func NewEmployeeRepository(pool *pgxpool.Pool, logger zerolog.Logger) EmployeeRepository {
	return &employeeRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "employee").Logger(),
	}
}

// Create inserts a new employee.
func (r *employeeRepository) Create(ctx context.Context, emp *model.Employee) error {
	query := `
		INSERT INTO employees (id, name, role, phone, hired_at, active)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		emp.ID, emp.Name, emp.Role, emp.Phone, emp.HiredAt, emp.Active,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("employee_id", emp.ID.String()).
			Str("name", emp.Name).
			Msg("failed to create employee")
		return fmt.Errorf("failed to create employee: %w", err)
	}

	return nil
}

// GetAll retrieves employees ordered by name, optionally restricted to
// active ones.
func (r *employeeRepository) GetAll(ctx context.Context, activeOnly bool) ([]model.Employee, error) {
	query := `
		SELECT id, name, role, phone, hired_at, active
		FROM employees
		WHERE NOT $1 OR active
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query, activeOnly)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query employees")
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var employees []model.Employee
	for rows.Next() {
		var emp model.Employee
		err := rows.Scan(&emp.ID, &emp.Name, &emp.Role, &emp.Phone, &emp.HiredAt, &emp.Active)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan employee row")
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating employee rows")
		return nil, fmt.Errorf("error iterating employees: %w", err)
	}

	return employees, nil
}

// GetByID retrieves a single employee by their ID.
func (r *employeeRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Employee, error) {
	query := `
		SELECT id, name, role, phone, hired_at, active
		FROM employees
		WHERE id = $1
	`

	var emp model.Employee
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&emp.ID, &emp.Name, &emp.Role, &emp.Phone, &emp.HiredAt, &emp.Active,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("employee_id", id.String()).Msg("employee not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("employee_id", id.String()).Msg("failed to query employee")
		return nil, fmt.Errorf("failed to query employee: %w", err)
	}

	return &emp, nil
}

// Update replaces an employee's editable fields.
func (r *employeeRepository) Update(ctx context.Context, emp *model.Employee) error {
	query := `
		UPDATE employees
		SET name = $2, role = $3, phone = $4, hired_at = $5, active = $6
		WHERE id = $1
	`

	_, err := r.pool.Exec(ctx, query,
		emp.ID, emp.Name, emp.Role, emp.Phone, emp.HiredAt, emp.Active,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("employee_id", emp.ID.String()).
			Msg("failed to update employee")
		return fmt.Errorf("failed to update employee: %w", err)
	}

	return nil
}
