// Package scorer invokes the external race analysis algorithm.
package scorer

import (
	"context"
)

// Request is the payload written to the analyzer's input channel.
type Request struct {
	CSVData        string `json:"csv_data"`
	TrackCondition string `json:"track_condition"`
	IsAdvanced     bool   `json:"is_advanced"`
}

// Result is one flat prediction record emitted by the analyzer. The horse
// field map is untyped on the wire; coercion into typed entities happens in
// the normalizer, not here.
type Result struct {
	Horse                map[string]any `json:"horse"`
	Score                LooseFloat     `json:"score"`
	TrueOdds             LooseString    `json:"trueOdds"`
	WinProbability       LooseString    `json:"winProbability"`
	PerformanceComponent LooseString    `json:"performanceComponent"`
	BaseProbability      LooseString    `json:"baseProbability"`
	Notes                LooseString    `json:"notes"`
}

// Scorer scores a CSV of race fields via the external analysis algorithm
type Scorer interface {
	Score(ctx context.Context, req Request) ([]Result, error)
}
