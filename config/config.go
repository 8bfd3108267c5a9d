/*
Package config loads runtime configuration for the scheduler server.

PURPOSE:
  One place for everything the server reads from the environment or an
  optional config.yaml: HTTP port, database path, the external orchestrator
  endpoint, the LLM API key, and the grade-rate table the analytics
  aggregator prices hours with.

SOURCES (later wins):
  1. Built-in defaults
  2. config.yaml in the working directory or ./config
  3. Environment variables (PORT, DB_PATH, ORCHESTRATOR_URL, ...)

GRADE RATES:
  GRADE_RATES is a JSON object mapping grade name to hourly rate, e.g.
  {"associate": 100, "manager": 200}. DEFAULT_RATE covers grades the table
  does not name. Keys are matched case-insensitively.
*/
package config

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/hathim-t-ai/StaffScheduler-sub001/scheduling"
)

// Config holds all configuration values.
type Config struct {
	Env                 string
	Port                int
	DBPath              string
	OrchestratorURL     string
	OrchestratorTimeout time.Duration
	GeminiAPIKey        string
	Rates               scheduling.RateTable
}

// IsProduction reports whether the server runs with production settings.
func (c Config) IsProduction() bool { return c.Env == "production" }

// Load reads configuration from defaults, an optional config file, and the
// environment.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()

	v.SetDefault("ENV", "development")
	v.SetDefault("PORT", 8080)
	v.SetDefault("DB_PATH", "scheduler.db")
	v.SetDefault("ORCHESTRATOR_URL", "")
	v.SetDefault("ORCHESTRATOR_TIMEOUT", "10s")
	v.SetDefault("DEFAULT_RATE", "100")
	v.SetDefault("GRADE_RATES", "{}")

	// A missing config file is fine; env and defaults carry the load.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	rates, err := parseRates(v.GetString("DEFAULT_RATE"), v.GetString("GRADE_RATES"))
	if err != nil {
		return Config{}, err
	}

	return Config{
		Env:                 v.GetString("ENV"),
		Port:                v.GetInt("PORT"),
		DBPath:              v.GetString("DB_PATH"),
		OrchestratorURL:     strings.TrimRight(v.GetString("ORCHESTRATOR_URL"), "/"),
		OrchestratorTimeout: v.GetDuration("ORCHESTRATOR_TIMEOUT"),
		GeminiAPIKey:        v.GetString("GEMINI_API_KEY"),
		Rates:               rates,
	}, nil
}

func parseRates(defaultRate, gradeRatesJSON string) (scheduling.RateTable, error) {
	def, err := decimal.NewFromString(defaultRate)
	if err != nil {
		return scheduling.RateTable{}, fmt.Errorf("invalid DEFAULT_RATE %q: %w", defaultRate, err)
	}
	raw := map[string]json.Number{}
	if err := json.Unmarshal([]byte(gradeRatesJSON), &raw); err != nil {
		return scheduling.RateTable{}, fmt.Errorf("invalid GRADE_RATES %q: %w", gradeRatesJSON, err)
	}
	byGrade := make(map[string]decimal.Decimal, len(raw))
	for grade, rate := range raw {
		d, err := decimal.NewFromString(rate.String())
		if err != nil {
			return scheduling.RateTable{}, fmt.Errorf("invalid rate for grade %q: %w", grade, err)
		}
		byGrade[strings.ToLower(grade)] = d
	}
	return scheduling.RateTable{Default: def, ByGrade: byGrade}, nil
}
