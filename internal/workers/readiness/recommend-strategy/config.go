// internal/workers/readiness/recommend-strategy/config.go
package recommendstrategy

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}
