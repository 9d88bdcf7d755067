package config

import "errors"

var (
	// ErrLoadConfig wraps failures reading a config layer: the YAML file,
	// the dotenv file or the LADDER_ environment.
	ErrLoadConfig = errors.New("load config failed")

	// ErrInvalidConfig wraps validation failures of the merged Config.
	ErrInvalidConfig = errors.New("invalid config")
)
