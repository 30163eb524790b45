package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"

	"go-ttt/internal/apperror"
)

type Config struct {
	LogLevel    string  `yaml:"log-level" env:"TTT_LOG_LEVEL" env-default:"info"`
	LogFile     string  `yaml:"log-file" env:"TTT_LOG_FILE"`
	TurnSeconds int     `yaml:"turn-seconds" env:"TTT_TURN_SECONDS" env-default:"30"`
	ReportPath  string  `yaml:"report-path" env:"TTT_REPORT_PATH"`
	Players     Players `yaml:"players"`
}

// Players pre-fills the naming screen.
type Players struct {
	One string `yaml:"one" env:"TTT_PLAYER_ONE"`
	Two string `yaml:"two" env:"TTT_PLAYER_TWO"`
}

// Load reads the YAML file at path, or only the environment when path is empty.
func Load(path string) (*Config, error) {
	conf := &Config{}

	var err error
	if path == "" {
		err = cleanenv.ReadEnv(conf)
	} else {
		err = cleanenv.ReadConfig(path, conf)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to load config: %w", err)
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}

	return conf, nil
}

func (that *Config) Validate() error {
	if that.TurnSeconds <= 0 {
		return fmt.Errorf("%w: turn-seconds must be positive, got %d", apperror.ErrInvalidConfiguration, that.TurnSeconds)
	}

	switch that.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log-level %q", apperror.ErrInvalidConfiguration, that.LogLevel)
	}

	return nil
}
