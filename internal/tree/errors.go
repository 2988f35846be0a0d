package tree

import (
	"errors"
	"fmt"
)

// Configuration error codes. They end up verbatim in API responses, so
// keep them stable.
const (
	CodeParentUnknown    = "config_parent_unknown"
	CodeDuplicateDoctype = "config_duplicate_doctype"
	CodeDuplicateChild   = "config_duplicate_child"
	CodeBadMapping       = "config_bad_mapping"
	CodeMappingCycle     = "config_mapping_cycle"
)

// ConfigError reports an inconsistency between the loaded doctypes and
// the mandatory mapping rules. A build that hits one produces no
// partial forest.
type ConfigError struct {
	Code    string `json:"code"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func confErr(code, subject, format string, args ...any) *ConfigError {
	return &ConfigError{
		Code:    code,
		Subject: subject,
		Message: fmt.Sprintf(format, args...),
	}
}

// AsConfigError unwraps err into a *ConfigError if one is in the chain.
func AsConfigError(err error) (*ConfigError, bool) {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
