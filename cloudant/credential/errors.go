package credential

import (
	"errors"
	"fmt"
)

// ErrNoDatabaseName is returned (wrapped in a 'ConfigurationError') when a credential has no database name.
var ErrNoDatabaseName = errors.New("database name must not be empty")

// ConfigurationError is returned when a required property is missing or blank. Retrying won't help, the configuration
// needs fixing.
type ConfigurationError struct {
	Property string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing required property '%s'", e.Property)
}

// Unwrap returns 'ErrNoDatabaseName' when the database name is missing, allowing use of 'errors.Is'.
func (e *ConfigurationError) Unwrap() error {
	if e.Property == PropertyDBName {
		return ErrNoDatabaseName
	}

	return nil
}

// IsConfigurationError returns a boolean indicating whether the given error is a 'ConfigurationError'.
func IsConfigurationError(err error) bool {
	var configErr *ConfigurationError
	return errors.As(err, &configErr)
}
