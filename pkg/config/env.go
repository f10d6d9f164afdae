package config

import "os"

// Environment names recognized by configuration validation.
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Environment returns the current runtime environment, defaulting to development.
func Environment() string {
	env := os.Getenv("EVALUACION_SERVER_ENVIRONMENT")
	if env == "" {
		return EnvDevelopment
	}
	return env
}

// IsProduction reports whether the service is running in production.
func IsProduction() bool {
	return Environment() == EnvProduction
}
