// internal/workers/readiness/render-readiness-report/config.go
package renderreadinessreport

import (
	"time"

	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/planner"
)

type Config struct {
	Timeout      time.Duration
	DefaultWeeks int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      15 * time.Second,
		DefaultWeeks: planner.DefaultWeeks,
	}
}
