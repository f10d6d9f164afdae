package handler_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/desempeno/evaluacion-backend/internal/directory/domain"
	"github.com/desempeno/evaluacion-backend/internal/directory/handler"
	"github.com/desempeno/evaluacion-backend/internal/directory/service"
	"github.com/desempeno/evaluacion-backend/internal/directory/token"
	"github.com/desempeno/evaluacion-backend/pkg/config"
	"github.com/desempeno/evaluacion-backend/pkg/errors"
	"github.com/desempeno/evaluacion-backend/pkg/logger"
)

// memRepo is an in-memory EmployeeRepository for handler tests
type memRepo struct {
	employees map[int64]*domain.Employee
}

func (r *memRepo) GetByCedula(_ context.Context, cedula int64) (*domain.Employee, error) {
	e, ok := r.employees[cedula]
	if !ok {
		return nil, errors.NotFoundWithKey("errors.user_not_found")
	}
	clone := *e
	return &clone, nil
}

func (r *memRepo) ListByLeader(_ context.Context, liderCedula int64) ([]domain.Employee, error) {
	result := []domain.Employee{}
	for _, e := range r.employees {
		if e.Lider.Valid && e.Lider.Int64 == liderCedula {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (r *memRepo) UpdatePassword(_ context.Context, cedula int64, hash string) error {
	e, ok := r.employees[cedula]
	if !ok {
		return errors.NotFoundWithKey("errors.user_not_found")
	}
	e.PasswordHash = sql.NullString{String: hash, Valid: true}
	return nil
}

func (r *memRepo) UpdateSecurityQuestion(_ context.Context, cedula int64, questionID, answer string) error {
	e, ok := r.employees[cedula]
	if !ok {
		return errors.NotFoundWithKey("errors.user_not_found")
	}
	e.SecurityQuestion = sql.NullString{String: questionID, Valid: true}
	e.SecurityAnswer = sql.NullString{String: answer, Valid: true}
	return nil
}

type noChecker struct{}

func (noChecker) EvaluatedCedulas(_ context.Context, _ int, _ []int64) (map[int64]bool, error) {
	return map[int64]bool{}, nil
}

func newRouter(t *testing.T) (chi.Router, *memRepo) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret1x"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &memRepo{employees: map[int64]*domain.Employee{
		12345678: {
			Cedula:        12345678,
			Nombre:        "Ana Pérez",
			Cargo:         "ASESOR COMERCIAL",
			CentroDeCosto: "CC-100",
			Estado:        "Activo",
			AnoIngreso:    2020,
			PasswordHash:  sql.NullString{String: string(hash), Valid: true},
		},
	}}

	tokens := token.NewManager(&config.JWTConfig{Secret: "test-secret", AccessExpiry: time.Hour, Issuer: "test"})
	log := logger.New("test", "production")
	svc := service.NewDirectoryService(repo, noChecker{}, tokens, log)

	r := chi.NewRouter()
	handler.NewDirectoryHandler(svc, log).RegisterRoutes(r)
	handler.NewSecurityHandler(svc, log).RegisterRoutes(r)
	return r, repo
}

func doJSON(t *testing.T, router chi.Router, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var payload map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	}
	return rec, payload
}

func TestValidateCedulaEndpoint(t *testing.T) {
	router, _ := newRouter(t)

	t.Run("missing cedula", func(t *testing.T) {
		rec, payload := doJSON(t, router, http.MethodPost, "/validate_cedula", map[string]interface{}{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, false, payload["valid"])
		assert.Equal(t, "Se requiere la cédula", payload["error"])
	})

	t.Run("non-numeric cedula", func(t *testing.T) {
		rec, payload := doJSON(t, router, http.MethodPost, "/validate_cedula",
			map[string]interface{}{"cedula": "abc"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, false, payload["valid"])
	})

	t.Run("unknown cedula", func(t *testing.T) {
		rec, payload := doJSON(t, router, http.MethodPost, "/validate_cedula",
			map[string]interface{}{"cedula": 999})
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Usuario no encontrado", payload["error"])
	})

	t.Run("known cedula returns the profile", func(t *testing.T) {
		rec, payload := doJSON(t, router, http.MethodPost, "/validate_cedula",
			map[string]interface{}{"cedula": 12345678})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, payload["valid"])
		assert.Equal(t, "Ana Pérez", payload["nombre"])
		assert.Equal(t, "CC-100", payload["centro_de_costo"])
	})

	t.Run("cedula as string is accepted", func(t *testing.T) {
		rec, payload := doJSON(t, router, http.MethodPost, "/validate_cedula",
			map[string]interface{}{"cedula": "12345678"})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, payload["valid"])
	})
}

func TestValidateUserEndpoint(t *testing.T) {
	router, _ := newRouter(t)

	t.Run("missing fields", func(t *testing.T) {
		rec, payload := doJSON(t, router, http.MethodPost, "/validate_user",
			map[string]interface{}{"username": "12345678"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, false, payload["valid"])
	})

	t.Run("wrong password", func(t *testing.T) {
		rec, payload := doJSON(t, router, http.MethodPost, "/validate_user",
			map[string]interface{}{"username": "12345678", "password": "wrong"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Usuario o contraseña incorrectos", payload["error"])
	})

	t.Run("successful login", func(t *testing.T) {
		rec, payload := doJSON(t, router, http.MethodPost, "/validate_user",
			map[string]interface{}{"username": "12345678", "password": "secret1x"})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, payload["valid"])
		assert.Equal(t, "Ana Pérez", payload["nombre"])
		assert.Equal(t, true, payload["requiresSecurityUpdate"])
		assert.NotEmpty(t, payload["token"])
	})
}

func TestSecurityQuestionEndpoints(t *testing.T) {
	router, _ := newRouter(t)

	t.Run("get before set is not found", func(t *testing.T) {
		rec, payload := doJSON(t, router, http.MethodPost, "/get_security_question",
			map[string]interface{}{"username": "12345678"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, false, payload["success"])
	})

	t.Run("set then get and verify", func(t *testing.T) {
		rec, payload := doJSON(t, router, http.MethodPost, "/update_security_question",
			map[string]interface{}{"username": "12345678", "securityQuestion": "mascota", "securityAnswer": "Rex"})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, payload["success"])

		rec, payload = doJSON(t, router, http.MethodPost, "/get_security_question",
			map[string]interface{}{"username": "12345678"})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Nombre de tu mascota", payload["securityQuestion"])

		rec, payload = doJSON(t, router, http.MethodPost, "/verify_security_answer",
			map[string]interface{}{"username": "12345678", "securityAnswer": "REX"})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, payload["success"])

		rec, payload = doJSON(t, router, http.MethodPost, "/verify_security_answer",
			map[string]interface{}{"username": "12345678", "securityAnswer": "firulais"})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, false, payload["success"])
	})
}

func TestResetPasswordEndpoint(t *testing.T) {
	router, _ := newRouter(t)

	t.Run("policy violation", func(t *testing.T) {
		rec, payload := doJSON(t, router, http.MethodPost, "/reset_password",
			map[string]interface{}{"username": "12345678", "newPassword": "short1"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, false, payload["success"])
	})

	t.Run("reset then login with the new password", func(t *testing.T) {
		rec, payload := doJSON(t, router, http.MethodPost, "/reset_password",
			map[string]interface{}{"username": "12345678", "newPassword": "longenough1"})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, payload["success"])

		rec, payload = doJSON(t, router, http.MethodPost, "/validate_user",
			map[string]interface{}{"username": "12345678", "password": "longenough1"})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, payload["valid"])
	})
}

func TestChangePasswordEndpoint(t *testing.T) {
	router, _ := newRouter(t)

	t.Run("missing fields", func(t *testing.T) {
		rec, payload := doJSON(t, router, http.MethodPost, "/change_password",
			map[string]interface{}{"CEDULA": "12345678", "oldPassword": "secret1x"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, false, payload["success"])
	})

	t.Run("valid change", func(t *testing.T) {
		rec, payload := doJSON(t, router, http.MethodPost, "/change_password",
			map[string]interface{}{
				"CEDULA": "12345678", "oldPassword": "secret1x",
				"newPassword": "nuevaclave1", "confirmPassword": "nuevaclave1",
			})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, payload["success"])
	})
}

func TestGetUserDetailsEndpoint(t *testing.T) {
	router, _ := newRouter(t)

	t.Run("missing cedula", func(t *testing.T) {
		rec, _ := doJSON(t, router, http.MethodGet, "/get_user_details", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("full profile at the top level", func(t *testing.T) {
		rec, payload := doJSON(t, router, http.MethodGet, "/get_user_details?cedula=12345678", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Ana Pérez", payload["nombre"])
		assert.Equal(t, "ASESOR COMERCIAL", payload["cargo"])
		assert.Equal(t, "Activo", payload["estado"])
	})
}

func TestGetEmployeesUnderLeaderEndpoint(t *testing.T) {
	router, repo := newRouter(t)

	repo.employees[200] = &domain.Employee{
		Cedula: 200, Nombre: "Luis Gómez", Cargo: "DIRECTOR REGIONAL", CentroDeCosto: "CC-100",
	}
	repo.employees[12345678].Lider = sql.NullInt64{Int64: 200, Valid: true}

	t.Run("unknown leader", func(t *testing.T) {
		rec, payload := doJSON(t, router, http.MethodGet, "/get_employees_under_leader?cedula=999", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, false, payload["success"])
	})

	t.Run("leader with one report", func(t *testing.T) {
		rec, payload := doJSON(t, router, http.MethodGet, "/get_employees_under_leader?cedula=200", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, payload["success"])

		employees := payload["employees"].([]interface{})
		require.Len(t, employees, 1)

		leaderInfo := payload["leader_info"].(map[string]interface{})
		assert.Equal(t, "Luis Gómez", leaderInfo["nombre"])
	})
}
