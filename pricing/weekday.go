package pricing

import "time"

// WeekdayLabel is the key of a villa's price-by-day table.
type WeekdayLabel string

// Index order follows time.Weekday: Sunday is 0, Saturday is 6.
var weekdayLabels = [7]WeekdayLabel{
	"Chủ nhật",
	"Thứ 2",
	"Thứ 3",
	"Thứ 4",
	"Thứ 5",
	"Thứ 6",
	"Thứ 7",
}

func LabelFor(d CalendarDate) WeekdayLabel {
	return LabelOf(d.Weekday())
}

func LabelOf(w time.Weekday) WeekdayLabel {
	return weekdayLabels[w]
}

// Labels returns the seven labels, Sunday first.
func Labels() []WeekdayLabel {
	labels := weekdayLabels
	return labels[:]
}

func (l WeekdayLabel) Valid() bool {
	for _, known := range weekdayLabels {
		if l == known {
			return true
		}
	}
	return false
}

// PriceTable resolves a date to its nightly base price. Entries that are
// missing or unreadable fall back to the villa's flat base price.
type PriceTable struct {
	prices    map[WeekdayLabel]Currency
	problems  map[WeekdayLabel]error
	basePrice Currency
}

// NewPriceTable normalises the raw price-by-day mapping. Keys that are not
// weekday labels are ignored.
func NewPriceTable(raw map[string]any, basePrice Currency) PriceTable {
	t := PriceTable{
		prices:    make(map[WeekdayLabel]Currency, len(raw)),
		problems:  make(map[WeekdayLabel]error),
		basePrice: basePrice,
	}

	for key, value := range raw {
		label := WeekdayLabel(key)
		if !label.Valid() {
			continue
		}

		price, err := ParseCurrency(value)
		if err != nil {
			t.problems[label] = err
			continue
		}

		t.prices[label] = price
	}
	return t
}

// Lookup returns the base price for d, plus a MissingPrice when the flat
// fallback was used.
func (t PriceTable) Lookup(d CalendarDate) (Currency, *MissingPrice) {
	label := LabelFor(d)
	if price, ok := t.prices[label]; ok {
		return price, nil
	}

	reason := "no price for weekday"
	if err, ok := t.problems[label]; ok {
		reason = err.Error()
	}
	return t.basePrice, &MissingPrice{Date: d, Label: label, Reason: reason}
}

func (t PriceTable) BasePriceFor(d CalendarDate) Currency {
	price, _ := t.Lookup(d)
	return price
}

// Problems lists the labels whose raw value could not be read.
func (t PriceTable) Problems() map[WeekdayLabel]error {
	out := make(map[WeekdayLabel]error, len(t.problems))
	for label, err := range t.problems {
		out[label] = err
	}
	return out
}
