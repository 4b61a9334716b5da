package handler

import (
	"errors"
	"math"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// MinimumAge is the youngest age a profile may declare.
const MinimumAge = 18

// RegisterValidators adds the custom tags used by request structs to gin's validator.
// It must run before the router serves requests.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected binding validator engine")
	}
	if err := v.RegisterValidation("adult", validateAdult); err != nil {
		return err
	}
	return v.RegisterValidation("radius", validateRadius)
}

// validateAdult accepts birth dates at least MinimumAge years in the past.
func validateAdult(fl validator.FieldLevel) bool {
	birth, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	return !birth.AddDate(MinimumAge, 0, 0).After(time.Now())
}

// validateRadius accepts finite, non-negative kilometre values. Zero selects the default radius.
func validateRadius(fl validator.FieldLevel) bool {
	r := fl.Field().Float()
	return !math.IsNaN(r) && !math.IsInf(r, 0) && r >= 0
}
