package utils

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dzoniops/villa-pricing-service/pricing"
)

var Validate *validator.Validate

func InitValidator() {
	Validate = validator.New()
	Validate.RegisterTagNameFunc(jsonFieldName)
	Validate.RegisterValidation("calendar-date", CalendarDate)
}

// CalendarDate accepts strings in the YYYY-MM-DD form that name a real day.
func CalendarDate(fl validator.FieldLevel) bool {
	_, err := pricing.ParseDate(fl.Field().String())
	return err == nil
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}
