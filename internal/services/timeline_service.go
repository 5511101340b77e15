// internal/services/timeline_service.go
package services

import (
	"math"

	"github.com/junglecut/storyarc/internal/models"
)

// TimelineSegment is one block rendered on the timeline track, in percent of
// track width.
type TimelineSegment struct {
	ID       string           `json:"id"`
	Title    string           `json:"title"`
	Type     models.BlockType `json:"type"`
	Duration float64          `json:"duration"`
	Start    float64          `json:"start"`
	Width    float64          `json:"width"`
}

// TimelineLayout is the computed geometry for the timeline view.
type TimelineLayout struct {
	EffectiveScale float64           `json:"effective_scale"`
	TotalDuration  float64           `json:"total_duration"`
	Segments       []TimelineSegment `json:"segments"`
	Markers        []float64         `json:"markers"`
}

// TimelineService turns the arc block list into track geometry. The scale
// never drops below the content's total duration (so nothing overflows) or
// below 10 minutes (so short arcs still get a usable ruler).
type TimelineService struct {
	blocks *BlockService
}

func NewTimelineService(blocks *BlockService) *TimelineService {
	return &TimelineService{blocks: blocks}
}

const (
	minTimeScale    = 10.0
	minSegmentWidth = 8.0
)

// Layout computes segment geometry and ruler markers for the requested
// time scale in minutes.
func (s *TimelineService) Layout(timeScale float64) TimelineLayout {
	arc := s.blocks.ArcBlocks()

	var total float64
	for i := range arc {
		total += arc[i].Duration
	}

	scale := math.Max(math.Max(timeScale, total), minTimeScale)
	percentPerMinute := 100 / scale

	segments := make([]TimelineSegment, 0, len(arc))
	var elapsed float64
	for i := range arc {
		start := math.Max(elapsed*percentPerMinute, 0)
		width := math.Max(arc[i].Duration*percentPerMinute, minSegmentWidth)
		segments = append(segments, TimelineSegment{
			ID:       arc[i].ID,
			Title:    arc[i].Title,
			Type:     arc[i].Type,
			Duration: arc[i].Duration,
			Start:    start,
			Width:    width,
		})
		elapsed += arc[i].Duration
	}

	return TimelineLayout{
		EffectiveScale: scale,
		TotalDuration:  total,
		Segments:       segments,
		Markers:        timeMarkers(scale),
	}
}

// timeMarkers spaces ruler ticks 5 minutes apart up to a 30-minute scale,
// 10 up to an hour, and 15 beyond that.
func timeMarkers(scale float64) []float64 {
	var interval float64
	switch {
	case scale <= 30:
		interval = 5
	case scale <= 60:
		interval = 10
	default:
		interval = 15
	}

	count := int(math.Ceil(scale/interval)) + 1
	markers := make([]float64, count)
	for i := range markers {
		markers[i] = float64(i) * interval
	}
	return markers
}
