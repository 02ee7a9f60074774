package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/dzoniops/villa-pricing-service/pricing"
)

type Config struct {
	Port        string
	MetricsPort string
	Postgres    Postgres
	LogLevel    string
	LogFormat   string
	Policy      pricing.NegativePricePolicy
	TraceStdout bool
	SeedFile    string
	// MaxNights caps the length of a stay the API will price or book.
	MaxNights int
}

type Postgres struct {
	Host     string
	User     string
	Password string
	Database string
	Port     string
	SSLMode  string
}

func (p Postgres) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		p.Host, p.User, p.Password, p.Database, p.Port, p.SSLMode,
	)
}

// Load reads .env files into the environment, then the environment into a
// Config. A missing .env file is not an error.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}
	return FromEnv()
}

func FromEnv() (Config, error) {
	policy, err := pricing.ParsePolicy(os.Getenv("NEGATIVE_PRICE_POLICY"))
	if err != nil {
		return Config{}, err
	}

	traceStdout, err := strconv.ParseBool(getenv("TRACE_STDOUT", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("TRACE_STDOUT: %w", err)
	}

	maxNights, err := strconv.Atoi(getenv("MAX_NIGHTS", "365"))
	if err != nil || maxNights < 1 {
		return Config{}, fmt.Errorf("MAX_NIGHTS must be a positive number of nights, got %q", os.Getenv("MAX_NIGHTS"))
	}
	return Config{
		Port:        getenv("PORT", "8080"),
		MetricsPort: getenv("METRICS_PORT", "9090"),
		Postgres: Postgres{
			Host:     getenv("PGHOST", "localhost"),
			User:     getenv("PGUSER", "postgres"),
			Password: getenv("PGPASSWORD", "postgres"),
			Database: getenv("PGDATABASE", "villas"),
			Port:     getenv("PGPORT", "5432"),
			SSLMode:  getenv("PGSSLMODE", "disable"),
		},
		LogLevel:    getenv("LOG_LEVEL", "info"),
		LogFormat:   getenv("LOG_FORMAT", "logfmt"),
		Policy:      policy,
		TraceStdout: traceStdout,
		SeedFile:    os.Getenv("SEED_FILE"),
		MaxNights:   maxNights,
	}, nil
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
