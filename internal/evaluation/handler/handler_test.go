package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dirdomain "github.com/desempeno/evaluacion-backend/internal/directory/domain"
	"github.com/desempeno/evaluacion-backend/internal/evaluation/domain"
	"github.com/desempeno/evaluacion-backend/internal/evaluation/handler"
	"github.com/desempeno/evaluacion-backend/internal/evaluation/service"
	"github.com/desempeno/evaluacion-backend/pkg/errors"
	"github.com/desempeno/evaluacion-backend/pkg/logger"
)

type memEvalRepo struct {
	evaluations []domain.Evaluacion
}

func (r *memEvalRepo) Insert(_ context.Context, e *domain.Evaluacion) error {
	e.ID = int64(len(r.evaluations) + 1)
	r.evaluations = append(r.evaluations, *e)
	return nil
}

func (r *memEvalRepo) ListByCedula(_ context.Context, cedula int64) ([]domain.Evaluacion, error) {
	result := []domain.Evaluacion{}
	for _, e := range r.evaluations {
		if e.Cedula == cedula {
			result = append(result, e)
		}
	}
	return result, nil
}

func (r *memEvalRepo) ListByArea(_ context.Context, area string) ([]domain.Evaluacion, error) {
	result := []domain.Evaluacion{}
	for _, e := range r.evaluations {
		if e.AreaJefePertenencia == area {
			result = append(result, e)
		}
	}
	return result, nil
}

func (r *memEvalRepo) ListAll(_ context.Context) ([]domain.Evaluacion, error) {
	return r.evaluations, nil
}

type memDirectory struct {
	employees map[int64]*dirdomain.Employee
}

func (d *memDirectory) GetByCedula(_ context.Context, cedula int64) (*dirdomain.Employee, error) {
	e, ok := d.employees[cedula]
	if !ok {
		return nil, errors.NotFoundWithKey("errors.user_not_found")
	}
	return e, nil
}

func newRouter(t *testing.T) (chi.Router, *memEvalRepo) {
	t.Helper()

	repo := &memEvalRepo{}
	dir := &memDirectory{employees: map[int64]*dirdomain.Employee{
		400: {Cedula: 400, Nombre: "Sofía León", Cargo: "DIRECTOR REGIONAL", CentroDeCosto: "CC-100"},
		402: {Cedula: 402, Nombre: "Elena Soto", Cargo: "ASESOR COMERCIAL", CentroDeCosto: "CC-100"},
	}}

	log := logger.New("test", "production")
	svc := service.NewEvaluationService(repo, dir, log)

	r := chi.NewRouter()
	handler.NewEvaluationHandler(svc, log).RegisterRoutes(r)
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

func submissionBody() map[string]interface{} {
	return map[string]interface{}{
		"datos": map[string]interface{}{
			"nombres":    "Ana Pérez",
			"cedula":     "12345678",
			"cargo":      "ASESOR COMERCIAL",
			"anoIngreso": "2020",
			"mesIngreso": "Marzo",
			"antiguedad": "5 años",
			"jefe":       "Luis Gómez",
			"area":       "CC-100",
			"cargoJefe":  "DIRECTOR REGIONAL",
		},
		"valores": map[string]interface{}{
			"compromiso": 4, "honestidad": 4, "respeto": 4, "sencillez": 4,
			"servicio": 4, "trabajo_equipo": 4, "conocimiento_trabajo": 4,
			"productividad": 4, "cumple_sistema_gestion": 4,
		},
		"acuerdos": map[string]interface{}{
			"colaborador_acuerdos":   "Mejorar seguimiento",
			"jefe_acuerdos":          "Acompañamiento mensual",
			"desarrollo_necesidades": "Curso de Excel",
			"aspectos_positivos":     "Gran actitud",
		},
	}
}

func TestSubmitEvaluationEndpoint(t *testing.T) {
	t.Run("missing group", func(t *testing.T) {
		router, repo := newRouter(t)

		body := submissionBody()
		delete(body, "valores")

		rec, payload := doJSON(t, router, http.MethodPost, "/submit_evaluation", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, false, payload["success"])
		assert.Empty(t, repo.evaluations)
	})

	t.Run("valid submission", func(t *testing.T) {
		router, repo := newRouter(t)

		rec, payload := doJSON(t, router, http.MethodPost, "/submit_evaluation", submissionBody())
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, payload["success"])
		assert.Equal(t, "Evaluación guardada exitosamente", payload["message"])

		require.Len(t, repo.evaluations, 1)
		assert.Equal(t, 36, repo.evaluations[0].TotalPuntos)
		assert.Equal(t, "100.00", repo.evaluations[0].PorcentajeCalificacion)
		assert.Equal(t, "2020-Marzo-01", repo.evaluations[0].FechaIngreso)
	})

	t.Run("numeric hire year is also accepted", func(t *testing.T) {
		router, repo := newRouter(t)

		body := submissionBody()
		body["datos"].(map[string]interface{})["anoIngreso"] = 2020

		rec, payload := doJSON(t, router, http.MethodPost, "/submit_evaluation", body)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, payload["success"])
		require.Len(t, repo.evaluations, 1)
		assert.Equal(t, "2020-Marzo-01", repo.evaluations[0].FechaIngreso)
	})

	t.Run("non-numeric hire year", func(t *testing.T) {
		router, repo := newRouter(t)

		body := submissionBody()
		body["datos"].(map[string]interface{})["anoIngreso"] = "hace mucho"

		rec, payload := doJSON(t, router, http.MethodPost, "/submit_evaluation", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, false, payload["success"])
		assert.Empty(t, repo.evaluations)
	})
}

func TestGetEvaluationHistoryEndpoint(t *testing.T) {
	router, repo := newRouter(t)
	repo.evaluations = []domain.Evaluacion{
		{Cedula: 100, Anio: 2025, MarcaTemporal: "2025-06-15 10:30:00", TotalPuntos: 30, PorcentajeCalificacion: "83.33"},
	}

	t.Run("missing cedula", func(t *testing.T) {
		rec, payload := doJSON(t, router, http.MethodPost, "/get_evaluation_history", map[string]interface{}{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, false, payload["success"])
	})

	t.Run("history for one employee", func(t *testing.T) {
		rec, payload := doJSON(t, router, http.MethodPost, "/get_evaluation_history",
			map[string]interface{}{"cedula": 100})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, payload["success"])

		history := payload["history"].([]interface{})
		require.Len(t, history, 1)
		item := history[0].(map[string]interface{})
		assert.Equal(t, "2025-06-15 10:30:00", item["fecha_evaluacion"])
		assert.Equal(t, "83.33", item["porcentaje_calificacion"])
	})
}

func TestHistorialEndpoint(t *testing.T) {
	router, repo := newRouter(t)
	repo.evaluations = []domain.Evaluacion{
		{ID: 1, Cedula: 301, NombresApellidos: "Carlos Ruiz", Cargo: "ASESOR COMERCIAL",
			AreaJefePertenencia: "CC-100", MarcaTemporal: "2025-05-01 08:00:00", TotalPuntos: 30, PorcentajeCalificacion: "83.33"},
		{ID: 2, Cedula: 302, NombresApellidos: "Marta Díaz", Cargo: "COORDINADOR DE VENTAS",
			AreaJefePertenencia: "CC-100", MarcaTemporal: "2025-04-01 08:00:00", TotalPuntos: 32, PorcentajeCalificacion: "88.89"},
	}

	t.Run("missing cedula", func(t *testing.T) {
		rec, _ := doJSON(t, router, http.MethodGet, "/historial", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("collaborator is forbidden", func(t *testing.T) {
		rec, _ := doJSON(t, router, http.MethodGet, "/historial?cedula=402", nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("director view excludes coordinators", func(t *testing.T) {
		rec, payload := doJSON(t, router, http.MethodGet, "/historial?cedula=400", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Sofía León", payload["nombre_lider"])
		assert.Equal(t, float64(1), payload["total_items"])

		historial := payload["historial"].([]interface{})
		require.Len(t, historial, 1)
		item := historial[0].(map[string]interface{})
		assert.Equal(t, "Carlos Ruiz", item["nombre"])
	})
}

func TestGetEmployeeStatsEndpoint(t *testing.T) {
	router, repo := newRouter(t)
	repo.evaluations = []domain.Evaluacion{
		{Cedula: 100, Anio: 2025, MarcaTemporal: "2025-06-15 10:30:00", TotalPuntos: 36, PorcentajeCalificacion: "100.00"},
	}

	t.Run("no evaluations", func(t *testing.T) {
		rec, _ := doJSON(t, router, http.MethodGet, "/get_employee_stats?cedula=999", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("per-year breakdown", func(t *testing.T) {
		rec, payload := doJSON(t, router, http.MethodGet, "/get_employee_stats?cedula=100", nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		anios := payload["anios"].([]interface{})
		assert.Equal(t, []interface{}{float64(2025)}, anios)

		resultados := payload["resultados"].(map[string]interface{})
		year := resultados["2025"].(map[string]interface{})
		assert.Equal(t, float64(36), year["total_puntos"])
	})
}

func TestGetAllEvaluationsEndpoint(t *testing.T) {
	router, repo := newRouter(t)
	repo.evaluations = []domain.Evaluacion{
		{ID: 1, Cedula: 100, PorcentajeCalificacion: "97.22%"},
	}

	rec, payload := doJSON(t, router, http.MethodGet, "/get_all_evaluations", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, payload["success"])

	evaluations := payload["evaluations"].([]interface{})
	require.Len(t, evaluations, 1)
	item := evaluations[0].(map[string]interface{})
	assert.InDelta(t, 97.22, item["porcentaje_calificacion"].(float64), 0.001)
}
