package service

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/desempeno/evaluacion-backend/internal/evaluation/domain"
	"github.com/desempeno/evaluacion-backend/pkg/errors"
)

const (
	defaultPage    = 1
	defaultPerPage = 10
)

// HistorialItem is one entry of the department-scoped historial view
type HistorialItem struct {
	ID                     int64  `json:"id"`
	Nombre                 string `json:"nombre"`
	Cargo                  string `json:"cargo"`
	Fecha                  string `json:"fecha"`
	Accion                 string `json:"accion"`
	PuntajeTotal           int    `json:"puntaje_total"`
	PorcentajeCalificacion string `json:"porcentaje_calificacion"`
}

// HistorialResult is the paginated historial view for a director or coordinator
type HistorialResult struct {
	Historial   []HistorialItem `json:"historial"`
	NombreLider string          `json:"nombre_lider"`
	CargoLider  string          `json:"cargo_lider"`
	TotalPages  int             `json:"total_pages"`
	CurrentPage int             `json:"current_page"`
	TotalItems  int             `json:"total_items"`
}

// Historial returns the department-scoped evaluation history for a viewer.
// Only directors and coordinators may call it. The scope is the viewer's
// cost center, and each role hides the other role's evaluations so
// skip-level records are not shown twice.
func (s *EvaluationService) Historial(ctx context.Context, viewerCedula int64, page, perPage int) (*HistorialResult, error) {
	viewer, err := s.employees.GetByCedula(ctx, viewerCedula)
	if err != nil {
		return nil, err
	}

	role := viewer.Role()
	if !role.CanViewHistorial() {
		return nil, errors.Forbidden("errors.historial_forbidden")
	}

	evaluations, err := s.repo.ListByArea(ctx, viewer.CentroDeCosto)
	if err != nil {
		s.logger.Error().Err(err).Int64("cedula", viewerCedula).Msg("failed to fetch historial")
		return nil, errors.Internal("errors.evaluation_history_failed")
	}

	excluded := role.ExcludedCargoPrefix()
	visible := make([]domain.Evaluacion, 0, len(evaluations))
	for _, e := range evaluations {
		if excluded != "" && strings.HasPrefix(strings.ToUpper(strings.TrimSpace(e.Cargo)), excluded) {
			continue
		}
		visible = append(visible, e)
	}

	if page < 1 {
		page = defaultPage
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}

	total := len(visible)
	totalPages := (total + perPage - 1) / perPage

	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	items := make([]HistorialItem, 0, end-start)
	for _, e := range visible[start:end] {
		items = append(items, HistorialItem{
			ID:                     e.ID,
			Nombre:                 e.NombresApellidos,
			Cargo:                  e.Cargo,
			Fecha:                  e.MarcaTemporal,
			Accion:                 "Evaluación de desempeño",
			PuntajeTotal:           e.TotalPuntos,
			PorcentajeCalificacion: e.PorcentajeCalificacion,
		})
	}

	return &HistorialResult{
		Historial:   items,
		NombreLider: viewer.Nombre,
		CargoLider:  viewer.Cargo,
		TotalPages:  totalPages,
		CurrentPage: page,
		TotalItems:  total,
	}, nil
}

// YearStats is the score breakdown for one review year
type YearStats struct {
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
}

// StatsResult groups an employee's evaluations by review year
type StatsResult struct {
	Anios      []int                `json:"anios"`
	Resultados map[string]YearStats `json:"resultados"`
}

// Stats returns the per-year score breakdown for one employee. When an
// employee was evaluated twice in a year the most recent submission wins.
func (s *EvaluationService) Stats(ctx context.Context, cedula int64) (*StatsResult, error) {
	evaluations, err := s.repo.ListByCedula(ctx, cedula)
	if err != nil {
		s.logger.Error().Err(err).Int64("cedula", cedula).Msg("failed to fetch stats")
		return nil, errors.Internal("errors.evaluation_history_failed")
	}

	if len(evaluations) == 0 {
		return nil, errors.NotFoundWithKey("errors.evaluations_not_found")
	}

	resultados := make(map[string]YearStats)
	anios := []int{}

	// Rows arrive newest first, so the first row seen per year is the latest.
	for i := range evaluations {
		e := &evaluations[i]
		key := strconv.Itoa(e.Anio)
		if _, seen := resultados[key]; seen {
			continue
		}

		resultados[key] = YearStats{
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
		}
		anios = append(anios, e.Anio)
	}

	sort.Ints(anios)

	return &StatsResult{
		Anios:      anios,
		Resultados: resultados,
	}, nil
}

// AdminEvaluacion is the full-dump projection with the percentage parsed
// back to a number for the admin client.
type AdminEvaluacion struct {
	ID                     int64   `json:"id"`
	MarcaTemporal          string  `json:"marca_temporal"`
	Anio                   int     `json:"anio"`
	NombresApellidos       string  `json:"nombres_apellidos"`
	Cedula                 int64   `json:"cedula"`
	Cargo                  string  `json:"cargo"`
	FechaIngreso           string  `json:"fecha_ingreso"`
	Antiguedad             string  `json:"antiguedad"`
	AntiguedadAnios        string  `json:"antiguedad_anios"`
	NombreJefeInmediato    string  `json:"nombre_jefe_inmediato"`
	CargoJefeInmediato     string  `json:"cargo_jefe_inmediato"`
	AreaJefePertenencia    string  `json:"area_jefe_pertenencia"`
	Estado                 string  `json:"estado"`
	Compromiso             int     `json:"compromiso_pasion_entrega"`
	Honestidad             int     `json:"honestidad"`
	Respeto                int     `json:"respeto"`
	Sencillez              int     `json:"sencillez"`
	Servicio               int     `json:"servicio"`
	TrabajoEquipo          int     `json:"trabajo_equipo"`
	ConocimientoTrabajo    int     `json:"conocimiento_trabajo"`
	Productividad          int     `json:"productividad"`
	CumpleSistemaGestion   int     `json:"cumple_sistema_gestion"`
	TotalPuntos            int     `json:"total_puntos"`
	PorcentajeCalificacion float64 `json:"porcentaje_calificacion"`
	AcuerdosColaborador    string  `json:"acuerdos_mejora_desempeno_colaborador"`
	AcuerdosJefe           string  `json:"acuerdos_mejora_desempeno_jefe"`
	NecesidadesDesarrollo  string  `json:"necesidades_desarrollo"`
	AspectosPositivos      string  `json:"aspectos_positivos"`
	Formacion              string  `json:"formacion"`
}

// ListAll returns every stored evaluation for the admin view
func (s *EvaluationService) ListAll(ctx context.Context) ([]AdminEvaluacion, error) {
	evaluations, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list evaluations")
		return nil, errors.Internal("errors.evaluation_history_failed")
	}

	items := make([]AdminEvaluacion, len(evaluations))
	for i := range evaluations {
		e := &evaluations[i]

		// Historic rows stored the percentage with a trailing "%" sign.
		porcentaje, parseErr := strconv.ParseFloat(
			strings.TrimSuffix(strings.TrimSpace(e.PorcentajeCalificacion), "%"), 64)
		if parseErr != nil {
			porcentaje = 0
		}

		items[i] = AdminEvaluacion{
			ID:                     e.ID,
			MarcaTemporal:          e.MarcaTemporal,
			Anio:                   e.Anio,
			NombresApellidos:       e.NombresApellidos,
			Cedula:                 e.Cedula,
			Cargo:                  e.Cargo,
			FechaIngreso:           e.FechaIngreso,
			Antiguedad:             e.Antiguedad,
			AntiguedadAnios:        e.AntiguedadAnios,
			NombreJefeInmediato:    e.NombreJefeInmediato,
			CargoJefeInmediato:     e.CargoJefeInmediato,
			AreaJefePertenencia:    e.AreaJefePertenencia,
			Estado:                 e.Estado,
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
			PorcentajeCalificacion: porcentaje,
			AcuerdosColaborador:    e.AcuerdosColaborador,
			AcuerdosJefe:           e.AcuerdosJefe,
			NecesidadesDesarrollo:  e.NecesidadesDesarrollo,
			AspectosPositivos:      e.AspectosPositivos,
			Formacion:              e.Formacion,
		}
	}

	return items, nil
}
