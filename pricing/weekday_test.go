package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelFor(t *testing.T) {
	tests := []struct {
		date CalendarDate
		want WeekdayLabel
	}{
		{NewDate(2023, time.July, 9), "Chủ nhật"},
		{NewDate(2023, time.July, 10), "Thứ 2"},
		{NewDate(2023, time.July, 11), "Thứ 3"},
		{NewDate(2023, time.July, 12), "Thứ 4"},
		{NewDate(2023, time.July, 13), "Thứ 5"},
		{NewDate(2023, time.July, 14), "Thứ 6"},
		{NewDate(2023, time.July, 8), "Thứ 7"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LabelFor(tt.date), tt.date.String())
	}
}

func TestLabelsAreSundayFirst(t *testing.T) {
	labels := Labels()
	require.Len(t, labels, 7)
	assert.Equal(t, WeekdayLabel("Chủ nhật"), labels[time.Sunday])
	assert.Equal(t, WeekdayLabel("Thứ 2"), labels[time.Monday])
	assert.Equal(t, WeekdayLabel("Thứ 7"), labels[time.Saturday])

	labels[0] = "changed"
	assert.Equal(t, WeekdayLabel("Chủ nhật"), Labels()[0])
}

func TestPriceTableLookup(t *testing.T) {
	table := NewPriceTable(map[string]any{
		"Thứ 2": "8.500.000 ₫",
		"Thứ 7": 10500000,
	}, 8000000)

	monday := NewDate(2023, time.July, 10)
	saturday := NewDate(2023, time.July, 8)

	price, missing := table.Lookup(monday)
	assert.Equal(t, Currency(8500000), price)
	assert.Nil(t, missing)

	assert.Equal(t, Currency(10500000), table.BasePriceFor(saturday))
}

func TestPriceTableFallsBackToBasePrice(t *testing.T) {
	table := NewPriceTable(map[string]any{
		"Thứ 2":  "8.500.000",
		"Thứ 3":  "call us",
		"monday": 1,
	}, 8000000)

	tuesday := NewDate(2023, time.July, 11)
	price, missing := table.Lookup(tuesday)
	assert.Equal(t, Currency(8000000), price)
	require.NotNil(t, missing)
	assert.Equal(t, WeekdayLabel("Thứ 3"), missing.Label)
	assert.Equal(t, tuesday, missing.Date)
	assert.Contains(t, missing.Reason, "malformed price")

	wednesday := NewDate(2023, time.July, 12)
	price, missing = table.Lookup(wednesday)
	assert.Equal(t, Currency(8000000), price)
	require.NotNil(t, missing)
	assert.Equal(t, "no price for weekday", missing.Reason)

	assert.Len(t, table.Problems(), 1)
}
