package environment

import "strings"

// Environment represents application environment.
type Environment string

const (
	// Development for development environment.
	Development Environment = "development"
	// Production for production environment.
	Production Environment = "production"
	// Staging for staging environment.
	Staging Environment = "staging"
)

// String returns the environment as a plain string.
func (e Environment) String() string {
	return string(e)
}

// Parse normalizes a raw environment value, typically APP_ENV. Short
// aliases map to the canonical constants. An empty value resolves to
// Development, an unrecognized one to Production.
func Parse(raw string) Environment {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return Development
	case "development", "dev", "local":
		return Development
	case "staging", "stage":
		return Staging
	case "production", "prod":
		return Production
	default:
		return Production
	}
}
