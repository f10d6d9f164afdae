package repository

import (
	"context"
	"database/sql"

	"github.com/desempeno/evaluacion-backend/internal/directory/domain"
	"github.com/desempeno/evaluacion-backend/pkg/database"
	"github.com/desempeno/evaluacion-backend/pkg/errors"
)

// employeeColumns selects every column of usuarios with its legacy quoted name.
const employeeColumns = `"CEDULA", "NOMBRE", "CARGO", "CENTRO DE COSTO", "LIDER EVALUADOR",
	"CARGO DE LIDER EVALUADOR", "ESTADO", "Año ingreso", "mes ingreso", "Años",
	"Antiguedad", "LIDER", password_hash, security_question, security_answer`

// EmployeeRepository reads the externally provisioned usuarios table and
// updates its credential columns.
type EmployeeRepository struct {
	db *database.DB
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *database.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// GetByCedula retrieves an employee by cedula
func (r *EmployeeRepository) GetByCedula(ctx context.Context, cedula int64) (*domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM usuarios WHERE "CEDULA" = $1`

	var employee domain.Employee
	if err := r.db.GetContext(ctx, &employee, query, cedula); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundWithKey("errors.user_not_found")
		}
		return nil, errors.Wrap(err, "DATABASE_ERROR", "failed to get employee", 500)
	}

	return &employee, nil
}

// ListByLeader retrieves the employees whose LIDER column equals the given cedula
func (r *EmployeeRepository) ListByLeader(ctx context.Context, liderCedula int64) ([]domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM usuarios WHERE "LIDER" = $1 ORDER BY "NOMBRE"`

	employees := []domain.Employee{}
	if err := r.db.SelectContext(ctx, &employees, query, liderCedula); err != nil {
		return nil, errors.Wrap(err, "DATABASE_ERROR", "failed to list subordinates", 500)
	}

	return employees, nil
}

// UpdatePassword stores a new password hash for an employee
func (r *EmployeeRepository) UpdatePassword(ctx context.Context, cedula int64, passwordHash string) error {
	query := `UPDATE usuarios SET password_hash = $1 WHERE "CEDULA" = $2`

	result, err := r.db.ExecContext(ctx, query, passwordHash, cedula)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return errors.Wrap(err, "DATABASE_ERROR", "failed to update password", 500)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "DATABASE_ERROR", "failed to update password", 500)
	}
	if rows == 0 {
		return errors.NotFoundWithKey("errors.user_not_found")
	}

	return nil
}

// UpdateSecurityQuestion stores the security question id and answer for an employee
func (r *EmployeeRepository) UpdateSecurityQuestion(ctx context.Context, cedula int64, questionID, answer string) error {
	query := `UPDATE usuarios SET security_question = $1, security_answer = $2 WHERE "CEDULA" = $3`

	result, err := r.db.ExecContext(ctx, query, questionID, answer, cedula)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return errors.Wrap(err, "DATABASE_ERROR", "failed to update security question", 500)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "DATABASE_ERROR", "failed to update security question", 500)
	}
	if rows == 0 {
		return errors.NotFoundWithKey("errors.user_not_found")
	}

	return nil
}
