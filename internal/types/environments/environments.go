package environments

import "strings"

type Environment string

const (
	Production  Environment = "production"
	Development Environment = "development"
	Staging     Environment = "staging"
	Test        Environment = "test"
	// CLI is never read from APP_ENV; the arkswap command selects it for --verbose.
	CLI Environment = "cli"
)

// Parse maps an APP_ENV value to an Environment, defaulting to development.
func Parse(value string) Environment {
	switch env := Environment(strings.ToLower(strings.TrimSpace(value))); env {
	case Production, Staging, Test, Development:
		return env
	case "prod":
		return Production
	case "dev", "":
		return Development
	default:
		return Development
	}
}

func (e Environment) IsProduction() bool {
	return e == Production
}
