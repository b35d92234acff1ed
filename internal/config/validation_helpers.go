package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	agenterrors "github.com/alexisbeaulieu97/stagehand/pkg/errors"
)

// ConvertValidationError normalizes validator errors into validation errors
// keyed by the offending field. fallback names the document when the error
// is not field specific.
func ConvertValidationError(fallback string, err error) error {
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		ve := ves[0]
		field := fieldPath(ve)
		msg := fmt.Sprintf("%s failed validation for tag '%s'", field, ve.Tag())
		if ve.Param() != "" {
			msg = fmt.Sprintf("%s failed validation for tag '%s=%s'", field, ve.Tag(), ve.Param())
		}
		return agenterrors.NewValidationError(field, msg, err)
	}

	return agenterrors.NewValidationError(fallback, err.Error(), err)
}

// fieldPath drops the root struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return ns
}
