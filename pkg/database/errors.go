package database

import (
	"net/http"
	"strings"

	"github.com/lib/pq"

	"github.com/desempeno/evaluacion-backend/pkg/errors"
)

// MapPQError converts a PostgreSQL error to an AppError with meaningful messages.
// Returns nil if the error is not a pq.Error.
func MapPQError(err error) *errors.AppError {
	pqErr, ok := err.(*pq.Error)
	if !ok {
		return nil
	}

	switch pqErr.Code {
	// Check constraint violation (23514)
	case "23514":
		return mapCheckConstraint(pqErr)

	// Unique constraint violation (23505)
	case "23505":
		return errors.New("CONFLICT", formatConstraintMessage(pqErr), http.StatusConflict)

	// Foreign key violation (23503)
	case "23503":
		return errors.BadRequest("errors.bad_request")

	// Not null violation (23502)
	case "23502":
		col := pqErr.Column
		if col == "" {
			col = "required field"
		}
		return errors.Validation(map[string]string{
			col: "must not be empty",
		})

	default:
		return nil
	}
}

// mapCheckConstraint maps specific CHECK constraint names to user-friendly messages.
func mapCheckConstraint(pqErr *pq.Error) *errors.AppError {
	constraint := pqErr.Constraint

	switch {
	case strings.Contains(constraint, "puntaje") || strings.Contains(constraint, "rango"):
		return errors.Validation(map[string]string{
			"valores": "scores must be between 0 and 4",
		})

	case strings.Contains(constraint, "anio"):
		return errors.Validation(map[string]string{
			"anio": "must be a valid evaluation year",
		})

	default:
		return errors.Validation(map[string]string{
			"constraint": constraint,
		})
	}
}

// formatConstraintMessage creates a user-friendly message for unique constraint violations.
func formatConstraintMessage(pqErr *pq.Error) string {
	constraint := pqErr.Constraint

	switch {
	case strings.Contains(constraint, "usuarios"):
		return "a user with this cedula already exists"
	default:
		return "a record with these values already exists"
	}
}
