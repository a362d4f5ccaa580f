// internal/workers/readiness/generate-study-plan/config.go
package generatestudyplan

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
		Timeout:      10 * time.Second,
		DefaultWeeks: planner.DefaultWeeks,
	}
}
