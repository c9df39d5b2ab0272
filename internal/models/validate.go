package models

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/franciskouaho/love-dice-sub000/internal/common"
)

var validate = validator.New()

// FieldViolation names the field and the constraint it violated, so callers
// can surface a precise reason instead of a generic "invalid input".
type FieldViolation struct {
	Field      string
	Constraint string
}

func (v *FieldViolation) Error() string {
	return fmt.Sprintf("%s: failed %q", v.Field, v.Constraint)
}

func (v *FieldViolation) Unwrap() error { return common.ErrorValidation }

// ValidateFace checks a face against its constraints (label required and
// ≤ 50 chars, weight in [1,10], category one of the known three). The first
// violation is returned; nothing may be persisted when it is non-nil.
func ValidateFace(f *Face) error {
	if err := validate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return &FieldViolation{Field: verrs[0].Field(), Constraint: verrs[0].Tag()}
		}
		return fmt.Errorf("face validation failed: %w", err)
	}
	return nil
}
