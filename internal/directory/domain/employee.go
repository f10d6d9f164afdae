package domain

import (
	"database/sql"
	"strings"
)

// Employee is a row of the externally provisioned "usuarios" table.
// The uppercase column names come from the HR import that feeds the table;
// this service never creates rows, it only reads them and updates the
// password and security question columns.
type Employee struct {
	Cedula              int64          `db:"CEDULA"`
	Nombre              string         `db:"NOMBRE"`
	Cargo               string         `db:"CARGO"`
	CentroDeCosto       string         `db:"CENTRO DE COSTO"`
	LiderEvaluador      string         `db:"LIDER EVALUADOR"`
	CargoLiderEvaluador string         `db:"CARGO DE LIDER EVALUADOR"`
	Estado              string         `db:"ESTADO"`
	AnoIngreso          int            `db:"Año ingreso"`
	MesIngreso          string         `db:"mes ingreso"`
	Anos                float64        `db:"Años"`
	Antiguedad          string         `db:"Antiguedad"`
	Lider               sql.NullInt64  `db:"LIDER"`
	PasswordHash        sql.NullString `db:"password_hash"`
	SecurityQuestion    sql.NullString `db:"security_question"`
	SecurityAnswer      sql.NullString `db:"security_answer"`
}

// Role determines which organizational views an employee may see.
type Role string

const (
	RoleDirector    Role = "director"
	RoleCoordinador Role = "coordinador"
	RoleColaborador Role = "colaborador"
)

// RoleFromCargo resolves the role from the job title prefix, once, at
// profile load. The HR data has no role column; titles like
// "DIRECTOR REGIONAL" or "COORDINADOR DE ZONA" carry the hierarchy.
func RoleFromCargo(cargo string) Role {
	upper := strings.ToUpper(strings.TrimSpace(cargo))
	switch {
	case strings.HasPrefix(upper, "DIRECTOR"):
		return RoleDirector
	case strings.HasPrefix(upper, "COORDINADOR"):
		return RoleCoordinador
	default:
		return RoleColaborador
	}
}

// Role resolves the employee's role from their job title.
func (e *Employee) Role() Role {
	return RoleFromCargo(e.Cargo)
}

// CanViewHistorial reports whether the role may read the department-scoped
// evaluation history.
func (r Role) CanViewHistorial() bool {
	return r == RoleDirector || r == RoleCoordinador
}

// ExcludedCargoPrefix returns the job title prefix hidden from this role in
// the historial view. Directors do not see coordinator evaluations and
// coordinators do not see director evaluations, so skip-level records are
// not duplicated between the two views.
func (r Role) ExcludedCargoPrefix() string {
	switch r {
	case RoleDirector:
		return "COORDINADOR"
	case RoleCoordinador:
		return "DIRECTOR"
	default:
		return ""
	}
}

// HasSecurityQuestion reports whether the employee has configured a
// security question. Clients prompt for one on first login when not.
func (e *Employee) HasSecurityQuestion() bool {
	return e.SecurityQuestion.Valid && e.SecurityQuestion.String != ""
}

// Profile is the lowercase projection of an employee returned by the
// lookup and authentication endpoints.
type Profile struct {
	Cedula               int64   `json:"cedula"`
	Nombre               string  `json:"nombre"`
	Cargo                string  `json:"cargo"`
	CentroDeCosto        string  `json:"centro_de_costo"`
	LiderEvaluador       string  `json:"lider_evaluador"`
	CargoLiderEvaluador  string  `json:"cargo_de_lider_evaluador"`
	Estado               string  `json:"estado"`
	AnoIngreso           int     `json:"ano_ingreso"`
	MesIngreso           string  `json:"mes_ingreso"`
	Anos                 float64 `json:"anos"`
	Antiguedad           string  `json:"antiguedad"`
	Role                 Role    `json:"role"`
}

// ToProfile builds the response projection for an employee.
func (e *Employee) ToProfile() Profile {
	return Profile{
		Cedula:              e.Cedula,
		Nombre:              e.Nombre,
		Cargo:               e.Cargo,
		CentroDeCosto:       e.CentroDeCosto,
		LiderEvaluador:      e.LiderEvaluador,
		CargoLiderEvaluador: e.CargoLiderEvaluador,
		Estado:              e.Estado,
		AnoIngreso:          e.AnoIngreso,
		MesIngreso:          e.MesIngreso,
		Anos:                e.Anos,
		Antiguedad:          e.Antiguedad,
		Role:                e.Role(),
	}
}
