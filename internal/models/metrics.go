// internal/models/metrics.go
package models

// StoryMetrics is fully derived from the ordered arc block list and the
// selected structure template. It is recomputed on every relevant mutation
// and never mutated directly.
type StoryMetrics struct {
	Pacing     float64 `json:"pacing"`
	Balance    float64 `json:"balance"`
	Engagement float64 `json:"engagement"`

	// ActDistribution maps act name to accumulated duration (minutes).
	ActDistribution map[string]float64 `json:"act_distribution"`

	// ContentTypeCount maps block type to its frequency in the arc.
	ContentTypeCount map[BlockType]int `json:"content_type_count"`
}

// InsightType classifies an insight message for presentation.
type InsightType string

const (
	InsightWarning InsightType = "warning"
	InsightInfo    InsightType = "info"
	InsightSuccess InsightType = "success"
)

// Insight is one human-readable structural finding about the story arc.
type Insight struct {
	Type    InsightType `json:"type"`
	Message string      `json:"message"`
}
