package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	cerr "github.com/saeidalz13/minesweeper-backend/internal/error"
)

const (
	StageProd = "prod"
	StageDev  = "dev"

	maxPort = 9999
)

type Config struct {
	Stage          string
	Port           int
	DatabaseURL    string
	SqlitePath     string
	LogLevel       string
	LogFile        string
	AllowedOrigins []string
}

// Load reads the environment. Outside prod, envFile is loaded first if
// it exists; variables already set in the process win.
func Load(envFile string) (Config, error) {
	if os.Getenv("STAGE") != StageProd {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}

	cfg := Config{
		Stage:       os.Getenv("STAGE"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SqlitePath:  os.Getenv("SQLITE_PATH"),
		LogLevel:    os.Getenv("LOG_LEVEL"),
		LogFile:     os.Getenv("LOG_FILE"),
	}

	if cfg.Stage != StageDev && cfg.Stage != StageProd {
		return Config{}, cerr.ErrInvalidStage(cfg.Stage)
	}

	portEnv := os.Getenv("PORT")
	if portEnv == "" {
		return Config{}, cerr.ErrEnvMissing("PORT")
	}
	port, err := strconv.Atoi(portEnv)
	if err != nil {
		return Config{}, err
	}
	if port <= 0 || port > maxPort {
		return Config{}, cerr.ErrInvalidPort(port)
	}
	cfg.Port = port

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
		if cfg.Stage == StageDev {
			cfg.LogLevel = "debug"
		}
	}

	for _, origin := range strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
		}
	}
	return cfg, nil
}

func (c Config) IsProd() bool {
	return c.Stage == StageProd
}
