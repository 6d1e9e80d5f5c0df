package smoke

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// SMOKE_ADDR is the base URL of a running server, e.g.
	// http://localhost:8080. The smoke scenario is skipped when unset.
	Addr string `envconfig:"SMOKE_ADDR"`
	// SMOKE_DEBUG_JSON logs every request with its response status
	DebugJSON bool `envconfig:"SMOKE_DEBUG_JSON" default:"false"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
