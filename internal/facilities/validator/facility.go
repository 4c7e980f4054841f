package validator

import (
	"errors"

	"bookery/pkg/logger"
	"bookery/pkg/model"

	"github.com/go-playground/validator/v10"
)

type FacilityValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewFacilityValidator(log *logger.Logger) *FacilityValidator {
	return &FacilityValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *FacilityValidator) Validate(f *model.Facility) error {
	if err := v.validate.Struct(f); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}
