package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/winwire/hr-onboarding-backend/internal/models"
)

const employeeColumns = `
	id, employee_id, user_id, submission_id,
	first_name, last_name, middle_name, full_name, email, phone,
	date_of_birth, linkedin_url, department, position, joining_date,
	about_me, is_active, created_at
`

// EmployeeRepository handles employee database operations
type EmployeeRepository struct {
	db DB
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db DB) *EmployeeRepository {
	return &EmployeeRepository{
		db: db,
	}
}

// GetByID retrieves an employee by internal ID
func (r *EmployeeRepository) GetByID(id uuid.UUID) (*models.Employee, error) {
	var emp models.Employee

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	err := r.db.Get(&emp, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get employee by ID: %w", err)
	}

	return &emp, nil
}

// GetByEmployeeID retrieves an employee by the human-readable identifier
func (r *EmployeeRepository) GetByEmployeeID(employeeID string) (*models.Employee, error) {
	var emp models.Employee

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE employee_id = $1`

	err := r.db.Get(&emp, query, employeeID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get employee by employee ID: %w", err)
	}

	return &emp, nil
}

// List retrieves all employees, newest first
func (r *EmployeeRepository) List() ([]*models.Employee, error) {
	var employees []*models.Employee

	query := `SELECT ` + employeeColumns + ` FROM employees ORDER BY created_at DESC`

	err := r.db.Select(&employees, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	return employees, nil
}

// ListActiveExcept returns active employees other than the given one,
// used for the new joiner announcement recipients.
func (r *EmployeeRepository) ListActiveExcept(excludeID uuid.UUID) ([]*models.Employee, error) {
	var employees []*models.Employee

	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE is_active = TRUE AND id <> $1
	`

	err := r.db.Select(&employees, query, excludeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}

	return employees, nil
}

// Count returns the total number of employees
func (r *EmployeeRepository) Count() (int, error) {
	var count int

	err := r.db.QueryRow(`SELECT COUNT(*) FROM employees`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count employees: %w", err)
	}

	return count, nil
}

// CountActive returns the number of active employees
func (r *EmployeeRepository) CountActive() (int, error) {
	var count int

	err := r.db.QueryRow(`SELECT COUNT(*) FROM employees WHERE is_active = TRUE`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active employees: %w", err)
	}

	return count, nil
}
