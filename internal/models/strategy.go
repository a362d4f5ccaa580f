// internal/models/strategy.go
package models

// Verdict statuses for the optional strategy classifier.
const (
	VerdictOK          = "ok"
	VerdictUnavailable = "unavailable"
	VerdictFailed      = "failed"
)

// StrategyDetail is the advisory text attached to a strategy label.
type StrategyDetail struct {
	Icon        string   `json:"icon"`
	Description string   `json:"description"`
	Tips        []string `json:"tips"`
}

// StrategyVerdict is the tagged outcome of a classifier call.
type StrategyVerdict struct {
	Status     string          `json:"status"`
	Code       int             `json:"code"`
	Label      string          `json:"label,omitempty"`
	Confidence *float64        `json:"confidence,omitempty"`
	Detail     *StrategyDetail `json:"detail,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// OK reports whether the classifier produced a usable label.
func (v *StrategyVerdict) OK() bool {
	return v != nil && v.Status == VerdictOK
}
