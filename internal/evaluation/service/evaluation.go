package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	dirdomain "github.com/desempeno/evaluacion-backend/internal/directory/domain"
	"github.com/desempeno/evaluacion-backend/internal/evaluation/domain"
	"github.com/desempeno/evaluacion-backend/pkg/errors"
	"github.com/desempeno/evaluacion-backend/pkg/logger"
)

// EvaluationRepository is the persistence interface the service depends on
type EvaluationRepository interface {
	Insert(ctx context.Context, e *domain.Evaluacion) error
	ListByCedula(ctx context.Context, cedula int64) ([]domain.Evaluacion, error)
	ListByArea(ctx context.Context, area string) ([]domain.Evaluacion, error)
	ListAll(ctx context.Context) ([]domain.Evaluacion, error)
}

// EmployeeDirectory resolves the viewer for the role-scoped historial view
type EmployeeDirectory interface {
	GetByCedula(ctx context.Context, cedula int64) (*dirdomain.Employee, error)
}

// EvaluationService handles evaluation submissions and read views
type EvaluationService struct {
	repo      EvaluationRepository
	employees EmployeeDirectory
	logger    *logger.Logger
}

// NewEvaluationService creates a new evaluation service
func NewEvaluationService(repo EvaluationRepository, employees EmployeeDirectory, log *logger.Logger) *EvaluationService {
	return &EvaluationService{
		repo:      repo,
		employees: employees,
		logger:    log.WithComponent("evaluation-service"),
	}
}

// Datos is the identity group of a submission. The formulario sends
// anoIngreso as a string and mesIngreso as the month name text, stored
// verbatim in fecha_ingreso.
type Datos struct {
	Nombres    string      `json:"nombres"`
	Cedula     json.Number `json:"cedula"`
	Cargo      string      `json:"cargo"`
	AnoIngreso json.Number `json:"anoIngreso"`
	MesIngreso string      `json:"mesIngreso"`
	Antiguedad string      `json:"antiguedad"`
	Jefe       string      `json:"jefe"`
	Area       string      `json:"area"`
	CargoJefe  string      `json:"cargoJefe"`
	Estado     string      `json:"estado"`
}

// Valores is the score group of a submission. Omitted fields stay zero.
type Valores struct {
	Compromiso           int `json:"compromiso"`
	Honestidad           int `json:"honestidad"`
	Respeto              int `json:"respeto"`
	Sencillez            int `json:"sencillez"`
	Servicio             int `json:"servicio"`
	TrabajoEquipo        int `json:"trabajo_equipo"`
	ConocimientoTrabajo  int `json:"conocimiento_trabajo"`
	Productividad        int `json:"productividad"`
	CumpleSistemaGestion int `json:"cumple_sistema_gestion"`
}

// Acuerdos is the free-text group of a submission
type Acuerdos struct {
	ColaboradorAcuerdos   string `json:"colaborador_acuerdos"`
	JefeAcuerdos          string `json:"jefe_acuerdos"`
	DesarrolloNecesidades string `json:"desarrollo_necesidades"`
	AspectosPositivos     string `json:"aspectos_positivos"`
	Formacion             string `json:"formacion"`
}

// SubmitRequest is one evaluation submission. The three groups arrive as
// nested objects; a missing group is a client error.
type SubmitRequest struct {
	Datos    *Datos    `json:"datos"`
	Valores  *Valores  `json:"valores"`
	Acuerdos *Acuerdos `json:"acuerdos"`
}

// NewEvaluacion builds the row for a submission, stamping the derived
// fields from the submission time.
func NewEvaluacion(req *SubmitRequest, now time.Time) (*domain.Evaluacion, error) {
	cedula, err := strconv.ParseInt(strings.TrimSpace(req.Datos.Cedula.String()), 10, 64)
	if err != nil {
		return nil, errors.BadRequest("errors.cedula_numeric")
	}

	anoRaw := strings.TrimSpace(req.Datos.AnoIngreso.String())
	anoIngreso, err := strconv.Atoi(anoRaw)
	if err != nil {
		return nil, errors.BadRequest("errors.ano_ingreso_numeric")
	}

	estado := req.Datos.Estado
	if estado == "" {
		estado = "Activo"
	}

	e := &domain.Evaluacion{
		MarcaTemporal:         now.Format("2006-01-02 15:04:05"),
		Anio:                  now.Year(),
		NombresApellidos:      req.Datos.Nombres,
		Cedula:                cedula,
		Cargo:                 req.Datos.Cargo,
		FechaIngreso:          fmt.Sprintf("%s-%s-01", anoRaw, req.Datos.MesIngreso),
		Antiguedad:            req.Datos.Antiguedad,
		AntiguedadAnios:       strconv.Itoa(now.Year() - anoIngreso),
		NombreJefeInmediato:   req.Datos.Jefe,
		CargoJefeInmediato:    req.Datos.CargoJefe,
		AreaJefePertenencia:   req.Datos.Area,
		Estado:                estado,
		Compromiso:            req.Valores.Compromiso,
		Honestidad:            req.Valores.Honestidad,
		Respeto:               req.Valores.Respeto,
		Sencillez:             req.Valores.Sencillez,
		Servicio:              req.Valores.Servicio,
		TrabajoEquipo:         req.Valores.TrabajoEquipo,
		ConocimientoTrabajo:   req.Valores.ConocimientoTrabajo,
		Productividad:         req.Valores.Productividad,
		CumpleSistemaGestion:  req.Valores.CumpleSistemaGestion,
		AcuerdosColaborador:   req.Acuerdos.ColaboradorAcuerdos,
		AcuerdosJefe:          req.Acuerdos.JefeAcuerdos,
		NecesidadesDesarrollo: req.Acuerdos.DesarrolloNecesidades,
		AspectosPositivos:     req.Acuerdos.AspectosPositivos,
		Formacion:             req.Acuerdos.Formacion,
	}

	e.ComputeTotals()
	return e, nil
}

// Submit validates and persists one evaluation
func (s *EvaluationService) Submit(ctx context.Context, req *SubmitRequest) error {
	if req.Datos == nil || req.Valores == nil || req.Acuerdos == nil {
		return errors.BadRequest("errors.evaluation_groups_required")
	}

	evaluacion, err := NewEvaluacion(req, time.Now())
	if err != nil {
		return err
	}

	if err := s.repo.Insert(ctx, evaluacion); err != nil {
		s.logger.Error().Err(err).Int64("cedula", evaluacion.Cedula).Msg("failed to save evaluation")
		return errors.Internal("errors.evaluation_save_failed")
	}

	s.logger.Info().Int64("cedula", evaluacion.Cedula).Int64("id", evaluacion.ID).
		Int("total", evaluacion.TotalPuntos).Msg("evaluation saved")
	return nil
}

// HistoryItem is one entry of the per-employee history view
type HistoryItem struct {
	FechaEvaluacion        string `json:"fecha_evaluacion"`
	Anio                   int    `json:"anio"`
	Cargo                  string `json:"cargo"`
	Compromiso             int    `json:"compromiso"`
	Honestidad             int    `json:"honestidad"`
	Respeto                int    `json:"respeto"`
	Sencillez              int    `json:"sencillez"`
	Servicio               int    `json:"servicio"`
	TrabajoEquipo          int    `json:"trabajo_equipo"`
	ConocimientoTrabajo    int    `json:"conocimiento_trabajo"`
	Productividad          int    `json:"productividad"`
	CumpleSistemaGestion   int    `json:"cumple_sistema_gestion"`
	TotalPuntos            int    `json:"total_puntos"`
	PorcentajeCalificacion string `json:"porcentaje_calificacion"`
	AcuerdosColaborador    string `json:"acuerdos_mejora_desempeno_colaborador"`
	AcuerdosJefe           string `json:"acuerdos_mejora_desempeno_jefe"`
	NecesidadesDesarrollo  string `json:"necesidades_desarrollo"`
	AspectosPositivos      string `json:"aspectos_positivos"`
}

func toHistoryItem(e *domain.Evaluacion) HistoryItem {
	return HistoryItem{
		FechaEvaluacion:        e.MarcaTemporal,
		Anio:                   e.Anio,
		Cargo:                  e.Cargo,
		Compromiso:             e.Compromiso,
		Honestidad:             e.Honestidad,
		Respeto:                e.Respeto,
		Sencillez:              e.Sencillez,
		Servicio:               e.Servicio,
		TrabajoEquipo:          e.TrabajoEquipo,
		ConocimientoTrabajo:    e.ConocimientoTrabajo,
		Productividad:          e.Productividad,
		CumpleSistemaGestion:   e.CumpleSistemaGestion,
		TotalPuntos:            e.TotalPuntos,
		PorcentajeCalificacion: e.PorcentajeCalificacion,
		AcuerdosColaborador:    e.AcuerdosColaborador,
		AcuerdosJefe:           e.AcuerdosJefe,
		NecesidadesDesarrollo:  e.NecesidadesDesarrollo,
		AspectosPositivos:      e.AspectosPositivos,
	}
}

// History lists all evaluations for one employee, newest first
func (s *EvaluationService) History(ctx context.Context, cedula int64) ([]HistoryItem, error) {
	evaluations, err := s.repo.ListByCedula(ctx, cedula)
	if err != nil {
		s.logger.Error().Err(err).Int64("cedula", cedula).Msg("failed to fetch history")
		return nil, errors.Internal("errors.evaluation_history_failed")
	}

	items := make([]HistoryItem, len(evaluations))
	for i := range evaluations {
		items[i] = toHistoryItem(&evaluations[i])
	}

	return items, nil
}
