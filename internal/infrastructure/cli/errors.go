package cli

import (
	"fmt"
)

// ConfigurationError reports malformed arguments or configuration. The
// launcher maps it to the configuration-error exit code.
type ConfigurationError struct {
	Message string
	Hint    string
	Err     error
}

func (e *ConfigurationError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func configError(msg string, err error) *ConfigurationError {
	return &ConfigurationError{Message: msg, Err: err}
}
