package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/desempeno/evaluacion-backend/internal/evaluation/domain"
	"github.com/desempeno/evaluacion-backend/pkg/database"
	"github.com/desempeno/evaluacion-backend/pkg/errors"
)

const evaluacionColumns = `id, marca_temporal, anio, nombres_apellidos, cedula, cargo,
	fecha_ingreso, antiguedad, antiguedad_anios, nombre_jefe_inmediato,
	cargo_jefe_inmediato, area_jefe_pertenencia, estado,
	compromiso_pasion_entrega, honestidad, respeto, sencillez, servicio,
	trabajo_equipo, conocimiento_trabajo, productividad, cumple_sistema_gestion,
	total_puntos, porcentaje_calificacion,
	acuerdos_mejora_desempeno_colaborador, acuerdos_mejora_desempeno_jefe,
	necesidades_desarrollo, aspectos_positivos, formacion`

const insertEvaluacion = `
	INSERT INTO "Colaboradores" (
		marca_temporal, anio, nombres_apellidos, cedula, cargo,
		fecha_ingreso, antiguedad, antiguedad_anios, nombre_jefe_inmediato,
		cargo_jefe_inmediato, area_jefe_pertenencia, estado,
		compromiso_pasion_entrega, honestidad, respeto, sencillez, servicio,
		trabajo_equipo, conocimiento_trabajo, productividad, cumple_sistema_gestion,
		total_puntos, porcentaje_calificacion,
		acuerdos_mejora_desempeno_colaborador, acuerdos_mejora_desempeno_jefe,
		necesidades_desarrollo, aspectos_positivos, formacion
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
		$17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28
	) RETURNING id`

// EvaluationRepository persists and reads evaluation submissions
type EvaluationRepository struct {
	db *database.DB
}

// NewEvaluationRepository creates a new evaluation repository
func NewEvaluationRepository(db *database.DB) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

// Insert writes one evaluation row inside a transaction and fills in its id.
// The transaction rolls back on failure so a half-written submission never
// becomes visible.
func (r *EvaluationRepository) Insert(ctx context.Context, e *domain.Evaluacion) error {
	return r.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		row := tx.QueryRowContext(ctx, insertEvaluacion,
			e.MarcaTemporal, e.Anio, e.NombresApellidos, e.Cedula, e.Cargo,
			e.FechaIngreso, e.Antiguedad, e.AntiguedadAnios, e.NombreJefeInmediato,
			e.CargoJefeInmediato, e.AreaJefePertenencia, e.Estado,
			e.Compromiso, e.Honestidad, e.Respeto, e.Sencillez, e.Servicio,
			e.TrabajoEquipo, e.ConocimientoTrabajo, e.Productividad, e.CumpleSistemaGestion,
			e.TotalPuntos, e.PorcentajeCalificacion,
			e.AcuerdosColaborador, e.AcuerdosJefe,
			e.NecesidadesDesarrollo, e.AspectosPositivos, e.Formacion,
		)

		if err := row.Scan(&e.ID); err != nil {
			if appErr := database.MapPQError(err); appErr != nil {
				return appErr
			}
			return errors.Wrap(err, "DATABASE_ERROR", "failed to insert evaluation", 500)
		}

		return nil
	})
}

// ListByCedula retrieves all evaluations for one employee, newest first
func (r *EvaluationRepository) ListByCedula(ctx context.Context, cedula int64) ([]domain.Evaluacion, error) {
	query := `SELECT ` + evaluacionColumns + ` FROM "Colaboradores"
		WHERE cedula = $1 ORDER BY marca_temporal DESC`

	evaluations := []domain.Evaluacion{}
	if err := r.db.SelectContext(ctx, &evaluations, query, cedula); err != nil {
		return nil, errors.Wrap(err, "DATABASE_ERROR", "failed to list evaluations", 500)
	}

	return evaluations, nil
}

// ListByArea retrieves all evaluations whose department matches, newest first
func (r *EvaluationRepository) ListByArea(ctx context.Context, area string) ([]domain.Evaluacion, error) {
	query := `SELECT ` + evaluacionColumns + ` FROM "Colaboradores"
		WHERE area_jefe_pertenencia = $1 ORDER BY marca_temporal DESC`

	evaluations := []domain.Evaluacion{}
	if err := r.db.SelectContext(ctx, &evaluations, query, area); err != nil {
		return nil, errors.Wrap(err, "DATABASE_ERROR", "failed to list evaluations", 500)
	}

	return evaluations, nil
}

// ListAll retrieves every stored evaluation, newest first
func (r *EvaluationRepository) ListAll(ctx context.Context) ([]domain.Evaluacion, error) {
	query := `SELECT ` + evaluacionColumns + ` FROM "Colaboradores" ORDER BY marca_temporal DESC`

	evaluations := []domain.Evaluacion{}
	if err := r.db.SelectContext(ctx, &evaluations, query); err != nil {
		return nil, errors.Wrap(err, "DATABASE_ERROR", "failed to list evaluations", 500)
	}

	return evaluations, nil
}

// EvaluatedCedulas returns which of the given employees already have an
// evaluation for the given year.
func (r *EvaluationRepository) EvaluatedCedulas(ctx context.Context, year int, cedulas []int64) (map[int64]bool, error) {
	query := `SELECT DISTINCT cedula FROM "Colaboradores" WHERE anio = $1 AND cedula = ANY($2)`

	found := []int64{}
	if err := r.db.SelectContext(ctx, &found, query, year, pq.Array(cedulas)); err != nil {
		return nil, errors.Wrap(err, "DATABASE_ERROR", "failed to check evaluated employees", 500)
	}

	evaluated := make(map[int64]bool, len(found))
	for _, cedula := range found {
		evaluated[cedula] = true
	}

	return evaluated, nil
}
