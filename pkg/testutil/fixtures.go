package testutil

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Schema mirrors the externally provisioned production layout. The usuarios
// table keeps the quoted column names of the HR import; Colaboradores is the
// append-only evaluation table.
const Schema = `
	CREATE TABLE IF NOT EXISTS usuarios (
		"CEDULA" BIGINT PRIMARY KEY,
		"NOMBRE" TEXT NOT NULL,
		"CARGO" TEXT NOT NULL,
		"CENTRO DE COSTO" TEXT NOT NULL DEFAULT '',
		"LIDER EVALUADOR" TEXT NOT NULL DEFAULT '',
		"CARGO DE LIDER EVALUADOR" TEXT NOT NULL DEFAULT '',
		"ESTADO" TEXT NOT NULL DEFAULT 'Activo',
		"Año ingreso" INT NOT NULL DEFAULT 0,
		"mes ingreso" TEXT NOT NULL DEFAULT '',
		"Años" DOUBLE PRECISION NOT NULL DEFAULT 0,
		"Antiguedad" TEXT NOT NULL DEFAULT '',
		"LIDER" BIGINT,
		password_hash TEXT,
		security_question TEXT,
		security_answer TEXT
	);

	CREATE TABLE IF NOT EXISTS "Colaboradores" (
		id SERIAL PRIMARY KEY,
		marca_temporal TEXT NOT NULL,
		anio INT NOT NULL,
		nombres_apellidos TEXT NOT NULL,
		cedula BIGINT NOT NULL,
		cargo TEXT NOT NULL DEFAULT '',
		fecha_ingreso TEXT NOT NULL DEFAULT '',
		antiguedad TEXT NOT NULL DEFAULT '',
		antiguedad_anios TEXT NOT NULL DEFAULT '',
		nombre_jefe_inmediato TEXT NOT NULL DEFAULT '',
		cargo_jefe_inmediato TEXT NOT NULL DEFAULT '',
		area_jefe_pertenencia TEXT NOT NULL DEFAULT '',
		estado TEXT NOT NULL DEFAULT 'Activo',
		compromiso_pasion_entrega INT NOT NULL DEFAULT 0,
		honestidad INT NOT NULL DEFAULT 0,
		respeto INT NOT NULL DEFAULT 0,
		sencillez INT NOT NULL DEFAULT 0,
		servicio INT NOT NULL DEFAULT 0,
		trabajo_equipo INT NOT NULL DEFAULT 0,
		conocimiento_trabajo INT NOT NULL DEFAULT 0,
		productividad INT NOT NULL DEFAULT 0,
		cumple_sistema_gestion INT NOT NULL DEFAULT 0,
		total_puntos INT NOT NULL DEFAULT 0,
		porcentaje_calificacion TEXT NOT NULL DEFAULT '0.00',
		acuerdos_mejora_desempeno_colaborador TEXT NOT NULL DEFAULT '',
		acuerdos_mejora_desempeno_jefe TEXT NOT NULL DEFAULT '',
		necesidades_desarrollo TEXT NOT NULL DEFAULT '',
		aspectos_positivos TEXT NOT NULL DEFAULT '',
		formacion TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_colaboradores_cedula ON "Colaboradores" (cedula);
	CREATE INDEX IF NOT EXISTS idx_colaboradores_area ON "Colaboradores" (area_jefe_pertenencia);
`

// CreateSchema provisions both tables in a test database
func CreateSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// SeedEmployee inserts one usuarios row for integration tests
func SeedEmployee(ctx context.Context, db *sqlx.DB, cedula int64, nombre, cargo, centroDeCosto string, lider *int64, passwordHash string) error {
	query := `
		INSERT INTO usuarios (
			"CEDULA", "NOMBRE", "CARGO", "CENTRO DE COSTO", "LIDER EVALUADOR",
			"CARGO DE LIDER EVALUADOR", "ESTADO", "Año ingreso", "mes ingreso",
			"Años", "Antiguedad", "LIDER", password_hash
		) VALUES ($1, $2, $3, $4, '', '', 'Activo', 2020, 'Enero', 4.5, '4 años', $5, $6)`

	_, err := db.ExecContext(ctx, query, cedula, nombre, cargo, centroDeCosto, lider, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to seed employee: %w", err)
	}
	return nil
}
