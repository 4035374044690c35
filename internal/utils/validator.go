package utils

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/exam-sarathi/learning-service/internal/errors"
	"github.com/exam-sarathi/learning-service/internal/models"
)

// Validator wraps the struct validator with the service's custom rules.
type Validator struct {
	structValidator *validator.Validate
}

// NewValidator creates the shared validator instance.
func NewValidator() *Validator {
	structValidator := validator.New()
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator: structValidator,
	}
}

// Validate validates struct tags on a request. Failures come back as
// apperrors.ValidationErrors with json field names filled in.
func (v *Validator) Validate(s interface{}) error {
	err := v.structValidator.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) {
		return apperrors.ToValidationErrors(fieldErrors)
	}
	return err
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("difficulty_level", validateDifficultyLevel)
	validate.RegisterValidation("slide_type", validateSlideType)
	validate.RegisterValidation("percentage_score", validatePercentageScore)

	// Report json field names in validation errors
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateDifficultyLevel(fl validator.FieldLevel) bool {
	validLevels := []models.DifficultyLevel{
		models.DifficultyEasy,
		models.DifficultyMedium,
		models.DifficultyHard,
	}

	value := fl.Field().String()
	for _, validLevel := range validLevels {
		if string(validLevel) == value {
			return true
		}
	}
	return false
}

func validatePercentageScore(fl validator.FieldLevel) bool {
	value := fl.Field().Int()
	return value >= 0 && value <= 100
}

func validateSlideType(fl validator.FieldLevel) bool {
	validTypes := []models.SlideType{
		models.SlideContent,
		models.SlideConcept,
		models.SlideFormula,
		models.SlideQuestion,
	}

	value := fl.Field().String()
	for _, validType := range validTypes {
		if string(validType) == value {
			return true
		}
	}
	return false
}
