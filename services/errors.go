package services

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/dzoniops/villa-pricing-service/pricing"
)

var (
	ErrVillaNotFound      = errors.New("villa not found")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrDatesTaken         = errors.New("selected dates overlap with an accepted booking")
	ErrCancellationWindow = errors.New("cannot cancel booking later than one day before check-in")
)

// InputError collects messages per request field.
type InputError struct {
	fields map[string][]string
}

func newInputError() *InputError {
	return &InputError{
		fields: make(map[string][]string),
	}
}

func IsInputError(err error) *InputError {
	if err == nil {
		return nil
	}

	var inputError *InputError
	if errors.As(err, &inputError) {
		return inputError
	}
	return nil
}

func (ie *InputError) addError(field, msg string) {
	ie.fields[field] = append(ie.fields[field], msg)
}

func (ie *InputError) fieldsCount() int {
	return len(ie.fields)
}

func (ie *InputError) Error() string {
	return fmt.Sprintf("invalid input: %+v", ie.fields)
}

func (ie *InputError) Fields() map[string][]string {
	return ie.fields
}

// TotalMismatchError is returned when a submitted booking total differs from
// the total recomputed on the server.
type TotalMismatchError struct {
	Submitted pricing.Currency
	Expected  pricing.Currency
}

func (e *TotalMismatchError) Error() string {
	return fmt.Sprintf("submitted total %d does not match computed total %d", int64(e.Submitted), int64(e.Expected))
}

// validationError turns validator failures into an InputError keyed by json field name.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	ie := newInputError()
	for _, fe := range verrs {
		ie.addError(fe.Field(), describe(fe))
	}
	return ie
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "calendar-date":
		return "must be a date in YYYY-MM-DD format"
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "gtfield":
		return fmt.Sprintf("must be after %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
