package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const (
	DefaultCatalogSource = "https://raw.githubusercontent.com/nwt002tech/profit-hopper/main/extended_game_list.csv"
	DefaultCatalogTTL    = time.Hour
	DefaultHTTPAddr      = ":8080"
	DefaultOwnerIdleTTL  = 24 * time.Hour

	envPrefix = "PROFITHOPPER_"
)

// TripDefaults seeds the first trip and the start-trip form.
type TripDefaults struct {
	Casino           string          `yaml:"casino"`
	StartingBankroll decimal.Decimal `yaml:"starting_bankroll"`
	NumSessions      int             `yaml:"num_sessions"`
}

// BudgetCap limits the per-session budget once a bankroll grows large.
type BudgetCap struct {
	Enabled   bool            `yaml:"enabled"`
	Threshold decimal.Decimal `yaml:"threshold"`
	Amount    decimal.Decimal `yaml:"amount"`
}

type Config struct {
	CatalogSource  string        `yaml:"catalog_source"`
	CatalogTTL     time.Duration `yaml:"catalog_ttl"`
	CatalogTimeout time.Duration `yaml:"catalog_timeout"`
	HTTPAddr       string        `yaml:"http_addr"`
	OwnerIdleTTL   time.Duration `yaml:"owner_idle_ttl"`
	LogLevel       string        `yaml:"log_level"`
	LogFormat      string        `yaml:"log_format"`
	ProjectionDSN  string        `yaml:"projection_dsn"`
	Trip           TripDefaults  `yaml:"trip"`
	Casinos        []string      `yaml:"casinos"`
	Budget         BudgetCap     `yaml:"budget"`
}

func Default() Config {
	return Config{
		CatalogSource:  DefaultCatalogSource,
		CatalogTTL:     DefaultCatalogTTL,
		CatalogTimeout: 15 * time.Second,
		HTTPAddr:       DefaultHTTPAddr,
		OwnerIdleTTL:   DefaultOwnerIdleTTL,
		LogLevel:       "info",
		LogFormat:      "text",
		ProjectionDSN:  ":memory:",
		Trip: TripDefaults{
			Casino:           "Caesar's Horseshoe Lake Charles",
			StartingBankroll: decimal.NewFromInt(100),
			NumSessions:      10,
		},
		Casinos: []string{
			"L'auberge Lake Charles",
			"Golden Nugget Lake Charles",
			"Caesar's Horseshoe Lake Charles",
			"Delta Downs",
			"Island View",
			"Paragon Marksville",
			"Coushatta",
		},
		Budget: BudgetCap{
			Enabled:   true,
			Threshold: decimal.NewFromInt(1000),
			Amount:    decimal.NewFromInt(500),
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file, an
// optional .env file and PROFITHOPPER_* environment variables, in that order.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode config file: %w", err)
		}
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	sort.Strings(cfg.Casinos)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(envPrefix + name)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}
	if v, ok := get("CATALOG_SOURCE"); ok {
		c.CatalogSource = v
	}
	if v, ok := get("CATALOG_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %sCATALOG_TTL: %w", envPrefix, err)
		}
		c.CatalogTTL = d
	}
	if v, ok := get("HTTP_ADDR"); ok {
		c.HTTPAddr = v
	}
	if v, ok := get("OWNER_IDLE_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %sOWNER_IDLE_TTL: %w", envPrefix, err)
		}
		c.OwnerIdleTTL = d
	}
	if v, ok := get("LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := get("LOG_FORMAT"); ok {
		c.LogFormat = v
	}
	if v, ok := get("PROJECTION_DSN"); ok {
		c.ProjectionDSN = v
	}
	if v, ok := get("CASINO"); ok {
		c.Trip.Casino = v
	}
	if v, ok := get("STARTING_BANKROLL"); ok {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return fmt.Errorf("invalid %sSTARTING_BANKROLL: %w", envPrefix, err)
		}
		c.Trip.StartingBankroll = d
	}
	if v, ok := get("NUM_SESSIONS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sNUM_SESSIONS: %w", envPrefix, err)
		}
		c.Trip.NumSessions = n
	}
	return nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.CatalogSource) == "" {
		return fmt.Errorf("catalog source is required")
	}
	if c.CatalogTTL < 0 || c.CatalogTimeout < 0 {
		return fmt.Errorf("catalog durations must be non-negative")
	}
	if c.OwnerIdleTTL < 0 {
		return fmt.Errorf("owner idle ttl must be non-negative")
	}
	if c.Trip.StartingBankroll.IsNegative() {
		return fmt.Errorf("starting bankroll must be non-negative")
	}
	if c.Trip.NumSessions < 1 {
		return fmt.Errorf("number of sessions must be at least 1")
	}
	if c.Budget.Threshold.IsNegative() || c.Budget.Amount.IsNegative() {
		return fmt.Errorf("budget cap values must be non-negative")
	}
	return nil
}
