package validator

import (
	"errors"
	"fmt"
	"strings"

	"bookery/pkg/logger"
	"bookery/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type FacilityTypeValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewFacilityTypeValidator(log *logger.Logger) *FacilityTypeValidator {
	v := validator.New()

	log.Info("Facility type validator initialized successfully")

	return &FacilityTypeValidator{
		validate: v,
		logger:   log,
	}
}

func (v *FacilityTypeValidator) Validate(ft *model.FacilityType) error {
	if err := v.validate.Struct(ft); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}

	if n := ft.CategoryMetadata.CountSet(); n != 1 {
		return ValidationErrors{
			ValidationError{
				Field:   "CategoryMetadata",
				Message: fmt.Sprintf("exactly one category payload must be set, got %d", n),
			},
		}
	}

	payload := ft.CategoryMetadata.PayloadFor(ft.Category)
	if payload == nil {
		return ValidationErrors{
			ValidationError{
				Field:   "CategoryMetadata",
				Message: fmt.Sprintf("metadata payload does not match category %s", ft.Category),
			},
		}
	}

	if err := v.validate.Struct(payload); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}

	if err := ft.CheckPriceBand(); err != nil {
		return ValidationErrors{
			ValidationError{
				Field:   "Price",
				Message: err.Error(),
			},
		}
	}

	return nil
}

func translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "gte":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "lte":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "gtefield":
			message = fmt.Sprintf("%s must not be before %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
