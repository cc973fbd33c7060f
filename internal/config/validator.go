package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ExpectedEnvSchemaVersion is the schema version that the application expects
const ExpectedEnvSchemaVersion = "1.0"

// RequiredEnvVars lists all environment variables that must be set
var RequiredEnvVars = []string{
	EnvSchemaVersion,
	EnvProviderBaseURL,
	EnvProviderAPIKey,
}

// ValidateEnv checks that all required environment variables are set
// and that the schema version matches expectations
func ValidateEnv() error {
	schemaVersion := os.Getenv(EnvSchemaVersion)
	if schemaVersion == "" {
		return fmt.Errorf("%s is not set - please update your .env file to include this field (expected: %s)", EnvSchemaVersion, ExpectedEnvSchemaVersion)
	}

	if schemaVersion != ExpectedEnvSchemaVersion {
		return fmt.Errorf("%s mismatch: expected %s, got %s - your .env file may be outdated", EnvSchemaVersion, ExpectedEnvSchemaVersion, schemaVersion)
	}

	var missing []string
	for _, envVar := range RequiredEnvVars {
		if os.Getenv(envVar) == "" {
			missing = append(missing, envVar)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return nil
}

// ValidateEnvWithWarnings checks environment variables and returns warnings
// for non-critical issues (like using default values)
func ValidateEnvWithWarnings() ([]string, error) {
	if err := ValidateEnv(); err != nil {
		return nil, err
	}

	var warnings []string

	switch os.Getenv(EnvAPIKey) {
	case "":
		warnings = append(warnings, "API_KEY is not set - widget endpoints accept unauthenticated requests")
	case ExampleAPIKey:
		warnings = append(warnings, "API_KEY appears to be using the example value - generate a secure key with: openssl rand -hex 32")
	}

	if os.Getenv(EnvProviderAPIKey) == ExampleProviderAPIKey {
		warnings = append(warnings, "PROVIDER_API_KEY appears to be using the example value - generate a secure key with: openssl rand -hex 32")
	}

	if muted := os.Getenv(EnvSoundsMuted); muted != "" {
		if _, err := strconv.ParseBool(muted); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s=%q is not a boolean and is ignored", EnvSoundsMuted, muted))
		}
	}

	return warnings, nil
}
