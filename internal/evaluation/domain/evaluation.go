package domain

import "fmt"

// MaxPuntos is the maximum attainable total: nine sub-scores of 0 to 4.
const MaxPuntos = 36

// Evaluacion is a row of the append-only "Colaboradores" table. A row is
// written once per review cycle and never updated or deleted.
type Evaluacion struct {
	ID                     int64  `db:"id"`
	MarcaTemporal          string `db:"marca_temporal"`
	Anio                   int    `db:"anio"`
	NombresApellidos       string `db:"nombres_apellidos"`
	Cedula                 int64  `db:"cedula"`
	Cargo                  string `db:"cargo"`
	FechaIngreso           string `db:"fecha_ingreso"`
	Antiguedad             string `db:"antiguedad"`
	AntiguedadAnios        string `db:"antiguedad_anios"`
	NombreJefeInmediato    string `db:"nombre_jefe_inmediato"`
	CargoJefeInmediato     string `db:"cargo_jefe_inmediato"`
	AreaJefePertenencia    string `db:"area_jefe_pertenencia"`
	Estado                 string `db:"estado"`
	Compromiso             int    `db:"compromiso_pasion_entrega"`
	Honestidad             int    `db:"honestidad"`
	Respeto                int    `db:"respeto"`
	Sencillez              int    `db:"sencillez"`
	Servicio               int    `db:"servicio"`
	TrabajoEquipo          int    `db:"trabajo_equipo"`
	ConocimientoTrabajo    int    `db:"conocimiento_trabajo"`
	Productividad          int    `db:"productividad"`
	CumpleSistemaGestion   int    `db:"cumple_sistema_gestion"`
	TotalPuntos            int    `db:"total_puntos"`
	PorcentajeCalificacion string `db:"porcentaje_calificacion"`
	AcuerdosColaborador    string `db:"acuerdos_mejora_desempeno_colaborador"`
	AcuerdosJefe           string `db:"acuerdos_mejora_desempeno_jefe"`
	NecesidadesDesarrollo  string `db:"necesidades_desarrollo"`
	AspectosPositivos      string `db:"aspectos_positivos"`
	Formacion              string `db:"formacion"`
}

// Scores returns the nine sub-scores in their canonical order.
func (e *Evaluacion) Scores() [9]int {
	return [9]int{
		e.Compromiso,
		e.Honestidad,
		e.Respeto,
		e.Sencillez,
		e.Servicio,
		e.TrabajoEquipo,
		e.ConocimientoTrabajo,
		e.Productividad,
		e.CumpleSistemaGestion,
	}
}

// ComputeTotals derives total_puntos and porcentaje_calificacion from the
// nine sub-scores. These two fields are never supplied by the client and
// never recomputed after the row is written.
func (e *Evaluacion) ComputeTotals() {
	total := 0
	for _, s := range e.Scores() {
		total += s
	}

	e.TotalPuntos = total
	e.PorcentajeCalificacion = FormatPorcentaje(total)
}

// FormatPorcentaje renders a total as the two-decimal percentage string
// stored alongside it, e.g. 36 -> "100.00".
func FormatPorcentaje(total int) string {
	return fmt.Sprintf("%.2f", float64(total)/float64(MaxPuntos)*100)
}
