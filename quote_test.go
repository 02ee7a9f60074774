package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const villasYAML = `
villas:
  - name: Villa Sơn Trà
    base_price: 8500000
    service_charge: 500000
    price_by_day:
      "Thứ 2": "8.500.000 ₫"
      "Thứ 3": "8.500.000 ₫"
      "Thứ 4": "8.500.000 ₫"
    discounts:
      - name: Summer
        type: percentage
        value: 15
        start_date: "2023-07-01"
        end_date: "2023-08-31"
        is_active: true
`

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		quoteVilla, quoteCheckIn, quoteCheckOut, quoteReference = "", "", "", ""
		quotePolicy, quoteFormat = "allow", "text"
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func villaFile(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "villas.yaml")
	require.NoError(t, os.WriteFile(path, []byte(villasYAML), 0o600))
	return path
}

func TestQuoteCommandText(t *testing.T) {
	out, err := runCLI(t, "quote", "--file", villaFile(t), "--check-in", "2023-07-10", "--check-out", "2023-07-13")
	require.NoError(t, err)

	assert.Contains(t, out, "Villa Sơn Trà")
	assert.Contains(t, out, "7.225.000 ₫")
	assert.Contains(t, out, "22.175.000 ₫")
	assert.Contains(t, out, "active discount: Summer")
}

func TestQuoteCommandJSON(t *testing.T) {
	out, err := runCLI(t, "quote", "--file", villaFile(t), "--format", "json")
	require.NoError(t, err)

	var quote struct {
		Total    int64 `json:"total"`
		Fallback bool  `json:"fallback"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &quote))
	assert.True(t, quote.Fallback)
	assert.Equal(t, int64(9000000), quote.Total)
}

func TestQuoteCommandErrors(t *testing.T) {
	_, err := runCLI(t, "quote", "--file", villaFile(t), "--check-in", "10/07/2023")
	assert.Error(t, err)

	_, err = runCLI(t, "quote", "--file", villaFile(t), "--villa", "Villa Hội An")
	assert.Error(t, err)

	_, err = runCLI(t, "quote", "--file", villaFile(t), "--policy", "round")
	assert.Error(t, err)
}
