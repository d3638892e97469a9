package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/konvff/taxi-api/internal/apperrors"
)

// validationError converts a validator failure into the field-detailed
// apperrors form the handlers report.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return apperrors.NewValidation(strings.ToLower(fe.Field()),
			fmt.Sprintf("failed on the '%s' rule", fe.Tag()))
	}
	return apperrors.NewValidation("", err.Error())
}
