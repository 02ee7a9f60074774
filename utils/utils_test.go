package utils

import (
	"bytes"
	"context"
	"testing"

	"github.com/go-kit/log/level"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stayForm struct {
	CheckIn  string `json:"check_in"  validate:"omitempty,calendar-date"`
	CheckOut string `json:"check_out" validate:"required,calendar-date"`
}

func TestCalendarDateValidation(t *testing.T) {
	InitValidator()

	require.NoError(t, Validate.Struct(stayForm{CheckOut: "2023-07-13"}))
	require.NoError(t, Validate.Struct(stayForm{CheckIn: "2023-07-10", CheckOut: "2023-07-13"}))

	err := Validate.Struct(stayForm{CheckIn: "10/07/2023", CheckOut: "2023-02-30"})
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 2)
	assert.Equal(t, "check_in", verrs[0].Field())
	assert.Equal(t, "calendar-date", verrs[0].Tag())
	assert.Equal(t, "check_out", verrs[1].Field())
}

func TestNewLoggerFiltersLevels(t *testing.T) {
	var buf bytes.Buffer

	logger, err := NewLogger(&buf, "logfmt", "warn")
	require.NoError(t, err)

	level.Info(logger).Log("msg", "hidden")
	level.Warn(logger).Log("msg", "shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
	assert.Contains(t, buf.String(), "level=warn")
}

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer

	logger, err := NewLogger(&buf, "json", "debug")
	require.NoError(t, err)

	level.Debug(logger).Log("msg", "quoted")
	assert.Contains(t, buf.String(), `"msg":"quoted"`)
}

func TestNewLoggerRejectsUnknownOptions(t *testing.T) {
	_, err := NewLogger(&bytes.Buffer{}, "xml", "info")
	assert.Error(t, err)

	_, err = NewLogger(&bytes.Buffer{}, "logfmt", "verbose")
	assert.Error(t, err)
}

func TestInitTracer(t *testing.T) {
	shutdown, err := InitTracer(false)
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
