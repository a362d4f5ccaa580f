// internal/workers/readiness/compute-readiness-score/config.go
package computereadinessscore

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
