package db

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/dzoniops/villa-pricing-service/models"
	"github.com/dzoniops/villa-pricing-service/pricing"
	"github.com/dzoniops/villa-pricing-service/utils"
)

// SeedFile is the YAML villa file used by the seed and quote commands.
//
//	villas:
//	  - name: Villa Sơn Trà
//	    base_price: 8500000
//	    service_charge: 500000
//	    max_guests: 12
//	    price_by_day:
//	      "Thứ 2": "8.500.000 ₫"
//	      "Thứ 7": 10500000
//	    discounts:
//	      - name: Summer
//	        type: percentage
//	        value: 15
//	        start_date: "2023-07-01"
//	        end_date: "2023-08-31"
//	        is_active: true
type SeedFile struct {
	Villas []SeedVilla `yaml:"villas"`
}

type SeedVilla struct {
	Name          string         `yaml:"name"`
	BasePrice     int64          `yaml:"base_price"`
	ServiceCharge int64          `yaml:"service_charge"`
	MaxGuests     int64          `yaml:"max_guests"`
	PriceByDay    map[string]any `yaml:"price_by_day"`
	Discounts     []SeedDiscount `yaml:"discounts"`
}

type SeedDiscount struct {
	Name      string `yaml:"name"`
	Type      string `yaml:"type"`
	Value     int64  `yaml:"value"`
	StartDate string `yaml:"start_date"`
	EndDate   string `yaml:"end_date"`
	IsActive  bool   `yaml:"is_active"`
}

func LoadSeedFile(path string) (SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SeedFile{}, fmt.Errorf("failed to read seed file: %w", err)
	}

	var file SeedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return SeedFile{}, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return file, nil
}

// Find returns the villa with the given name, or the first one when name is empty.
func (f SeedFile) Find(name string) (SeedVilla, bool) {
	for _, v := range f.Villas {
		if name == "" || v.Name == name {
			return v, true
		}
	}
	return SeedVilla{}, false
}

// Model converts the seed entry into the persistence model. Day labels are
// stored in a stable order; prices keep their written form.
func (v SeedVilla) Model() (models.Villa, error) {
	villa := models.Villa{
		Name:          v.Name,
		BasePrice:     v.BasePrice,
		ServiceCharge: v.ServiceCharge,
		MaxGuests:     v.MaxGuests,
	}

	// Weekdays first, Sunday to Saturday, then any other keys by name.
	days := make([]string, 0, len(v.PriceByDay))
	for _, label := range pricing.Labels() {
		if _, ok := v.PriceByDay[string(label)]; ok {
			days = append(days, string(label))
		}
	}
	var others []string
	for day := range v.PriceByDay {
		if !pricing.WeekdayLabel(day).Valid() {
			others = append(others, day)
		}
	}
	sort.Strings(others)
	days = append(days, others...)

	for _, day := range days {
		villa.DayPrices = append(villa.DayPrices, models.VillaDayPrice{
			Day:   day,
			Price: priceText(v.PriceByDay[day]),
		})
	}

	for _, d := range v.Discounts {
		start, err := pricing.ParseDate(d.StartDate)
		if err != nil {
			return models.Villa{}, fmt.Errorf("villa %q discount %q start_date: %w", v.Name, d.Name, err)
		}
		end, err := pricing.ParseDate(d.EndDate)
		if err != nil {
			return models.Villa{}, fmt.Errorf("villa %q discount %q end_date: %w", v.Name, d.Name, err)
		}

		villa.Discounts = append(villa.Discounts, models.Discount{
			Name:      d.Name,
			Type:      d.Type,
			Value:     d.Value,
			StartDate: start.Time(),
			EndDate:   end.Time(),
			IsActive:  d.IsActive,
		})
	}
	return villa, nil
}

// priceText keeps text as written and renders numbers as plain digits.
// Values that do not parse are kept verbatim so the fallback reports them.
func priceText(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	price, err := pricing.ParseCurrency(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return strconv.FormatInt(int64(price), 10)
}

// validateVilla checks the villa and each of its discounts against their
// validate tags. utils.InitValidator must have run.
func validateVilla(villa models.Villa) error {
	if err := utils.Validate.Struct(villa); err != nil {
		return err
	}
	for _, d := range villa.Discounts {
		if err := utils.Validate.Struct(d); err != nil {
			return fmt.Errorf("discount %q: %w", d.Name, err)
		}
	}
	return nil
}

type villaCreator interface {
	CreateVilla(ctx context.Context, villa *models.Villa) error
}

// Seed inserts every villa of the file and returns their ids in file order.
func Seed(ctx context.Context, store villaCreator, file SeedFile) ([]uint, error) {
	ids := make([]uint, 0, len(file.Villas))
	for _, sv := range file.Villas {
		villa, err := sv.Model()
		if err != nil {
			return ids, err
		}
		if err := validateVilla(villa); err != nil {
			return ids, fmt.Errorf("villa %q: %w", sv.Name, err)
		}
		if _, err := villa.Pricing(); err != nil {
			return ids, fmt.Errorf("villa %q: %w", sv.Name, err)
		}
		if err := store.CreateVilla(ctx, &villa); err != nil {
			return ids, fmt.Errorf("create villa %q: %w", sv.Name, err)
		}
		ids = append(ids, villa.ID)
	}
	return ids, nil
}
