package service

import (
	"context"
	"fmt"
	"time"

	"tably/internal/model"
	"tably/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// employeeService implements EmployeeService.
type employeeService struct {
	employeeRepo repository.EmployeeRepository
	logger       zerolog.Logger
}

// NewEmployeeService creates a new employee service.
func NewEmployeeService(employeeRepo repository.EmployeeRepository, logger zerolog.Logger) EmployeeService {
	return &employeeService{
		employeeRepo: employeeRepo,
		logger:       logger.With().Str("service", "employee").Logger(),
	}
}

// Create adds an employee. The hire date defaults to now and new employees
// start active.
func (s *employeeService) Create(ctx context.Context, req *model.EmployeeRequest) (*model.Employee, error) {
	if err := s.validateEmployeeRequest(req); err != nil {
		return nil, err
	}

	hiredAt := time.Now()
	if req.HiredAt != nil {
		hiredAt = *req.HiredAt
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	employee := &model.Employee{
		ID:      uuid.New(),
		Name:    req.Name,
		Role:    req.Role,
		Phone:   req.Phone,
		HiredAt: hiredAt,
		Active:  active,
	}

	if err := s.employeeRepo.Create(ctx, employee); err != nil {
		s.logger.Error().Err(err).Str("name", req.Name).Msg("failed to create employee")
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}

	s.logger.Info().
		Str("employee_id", employee.ID.String()).
		Str("name", employee.Name).
		Str("role", employee.Role).
		Msg("employee created")

	return employee, nil
}

// List retrieves employees, optionally restricted to active ones.
func (s *employeeService) List(ctx context.Context, activeOnly bool) ([]model.Employee, error) {
	employees, err := s.employeeRepo.GetAll(ctx, activeOnly)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list employees")
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	return employees, nil
}

// GetByID retrieves a single employee.
func (s *employeeService) GetByID(ctx context.Context, id uuid.UUID) (*model.Employee, error) {
	employee, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("employee_id", id.String()).Msg("failed to get employee")
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}

	return employee, nil
}

// Update replaces an employee's editable fields. Deactivation happens here;
// employee rows are never deleted.
func (s *employeeService) Update(ctx context.Context, id uuid.UUID, req *model.EmployeeRequest) (*model.Employee, error) {
	if err := s.validateEmployeeRequest(req); err != nil {
		return nil, err
	}

	existing, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}
	if existing == nil {
		return nil, model.NotFound("employee")
	}

	hiredAt := existing.HiredAt
	if req.HiredAt != nil {
		hiredAt = *req.HiredAt
	}

	active := existing.Active
	if req.Active != nil {
		active = *req.Active
	}

	employee := &model.Employee{
		ID:      id,
		Name:    req.Name,
		Role:    req.Role,
		Phone:   req.Phone,
		HiredAt: hiredAt,
		Active:  active,
	}

	if err := s.employeeRepo.Update(ctx, employee); err != nil {
		s.logger.Error().Err(err).Str("employee_id", id.String()).Msg("failed to update employee")
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}

	return employee, nil
}

// validateEmployeeRequest validates the employee request.
func (s *employeeService) validateEmployeeRequest(req *model.EmployeeRequest) error {
	if req == nil {
		return fmt.Errorf("employee request is nil")
	}

	if req.Name == "" {
		return fmt.Errorf("employee name is required")
	}

	if req.Role == "" {
		return fmt.Errorf("employee role is required")
	}

	return nil
}
