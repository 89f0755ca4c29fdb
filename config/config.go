package config

import (
	"os"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
	"hermannm.dev/wrap"
)

type Config struct {
	IsProduction bool   `env:"PRODUCTION" envDefault:"false"`
	DataFile     string `env:"DATA_FILE"`
	API          API
}

type API struct {
	Port        string   `env:"API_PORT" envDefault:"8001"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://127.0.0.1:5173"`
}

func ReadFromEnv() (Config, error) {
	// A .env file is only used for local development: deployed environments set
	// variables on the process directly.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, wrap.Error(err, "failed to load .env file")
	}

	parseOptions := env.Options{RequiredIfNoDef: true}

	var config Config
	if err := env.ParseWithOptions(&config, parseOptions); err != nil {
		return Config{}, wrap.Error(err, "failed to parse environment variables")
	}

	return config, nil
}
