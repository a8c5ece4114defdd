package eval

// #region eval-config
// EvalConfig holds the acceptance thresholds for a validation run.
type EvalConfig struct {
	MinAccuracy   float64 `yaml:"min_accuracy"`   // fail if matches/(matches+mismatches) falls below this
	MaxNotFound   int     `yaml:"max_not_found"`  // fail if more labels lack a sequence; negative = informational
	MaxErrors     int     `yaml:"max_errors"`     // fail if more lookups errored; negative = informational
	MinClassified int     `yaml:"min_classified"` // fail if fewer sequences were classified at all
}

// DefaultEvalConfig accepts a run only when every labeled sequence that was
// found classifies as labeled and nothing errored.
func DefaultEvalConfig() EvalConfig {
	return EvalConfig{
		MinAccuracy:   1.0,
		MaxNotFound:   -1,
		MaxErrors:     0,
		MinClassified: 1,
	}
}

// #endregion eval-config

// #region eval-metric
// EvalMetric captures a single acceptance check.
type EvalMetric struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Pass  bool    `json:"pass"`
}

// #endregion eval-metric

// #region eval-result
// EvalResult is the verdict on one validation report.
type EvalResult struct {
	Passed  bool         `json:"passed"`
	Metrics []EvalMetric `json:"metrics"`
	Reason  string       `json:"reason"`
}

// #endregion eval-result
