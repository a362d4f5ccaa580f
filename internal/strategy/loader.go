// internal/strategy/loader.go
package strategy

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/logger"
)

// DefaultCandidates are tried in order; the first that decodes wins.
var DefaultCandidates = []string{
	"strategy_model.json",
	"strategy_model_v2.json",
	"strategy_model_legacy.json",
}

// LoadModel searches dirs for the candidate artifacts. Finding nothing is not
// an error: it returns a nil classifier and an empty path.
func LoadModel(dirs, candidates []string, log logger.Logger) (Classifier, string) {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	if len(candidates) == 0 {
		candidates = DefaultCandidates
	}
	if len(dirs) == 0 {
		dirs = []string{"."}
	}

	for _, name := range candidates {
		for _, dir := range dirs {
			path := filepath.Join(dir, name)
			data, err := os.ReadFile(path)
			if err != nil {
				if !errors.Is(err, fs.ErrNotExist) {
					log.Warn("strategy model unreadable", map[string]interface{}{"path": path, "error": err.Error()})
				}
				continue
			}

			model, err := DecodeArtifact(data)
			if err != nil {
				log.Warn("strategy model rejected", map[string]interface{}{"path": path, "error": err.Error()})
				continue
			}

			_, withConfidence := model.(ConfidenceClassifier)
			log.Info("strategy model loaded", map[string]interface{}{
				"path":       path,
				"features":   len(model.FeatureNames()),
				"confidence": withConfidence,
			})
			return model, path
		}
	}

	log.Info("no strategy model found, recommendations disabled", map[string]interface{}{"candidates": candidates})
	return nil, ""
}

// Load is LoadModel wrapped into an Adapter.
func Load(dirs, candidates []string, log logger.Logger) *Adapter {
	model, path := LoadModel(dirs, candidates, log)
	return NewAdapter(model, path, log)
}
