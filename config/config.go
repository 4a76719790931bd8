package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config of the paycalc server, read from PAYCALC_* environment variables.
type Config struct {
	Address        string        `envconfig:"ADDRESS" default:":8080"`
	DBPath         string        `envconfig:"DB_PATH" default:"paycalc.db"`
	DataDir        string        `envconfig:"DATA_DIR" default:"data"`
	DataURL        string        `envconfig:"DATA_URL" default:""`
	FetchTimeout   time.Duration `envconfig:"FETCH_TIMEOUT" default:"10s"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`
	AllowedOrigins []string      `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:8080"`
	StaticDir      string        `envconfig:"STATIC_DIR" default:"./web"`
}

// New reads the configuration from the environment.
func New() (*Config, error) {
	cfg := new(Config)
	if err := envconfig.Process("paycalc", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
