// internal/services/stats_service.go
package services

import (
	"sync"
	"time"

	"github.com/junglecut/storyarc/internal/storage"
)

const (
	statsDir  = "stats"
	statsFile = "usage.json"

	statsSaveInterval = 30 * time.Second
)

// UsageStats are cumulative counters for the project session.
type UsageStats struct {
	BlocksCreated       int64     `json:"blocks_created"`
	BlocksDeleted       int64     `json:"blocks_deleted"`
	ReordersCommitted   int64     `json:"reorders_committed"`
	AnalysesRun         int64     `json:"analyses_run"`
	SuggestionPassesRun int64     `json:"suggestion_passes_run"`
	ChatCompletions     int64     `json:"chat_completions"`
	LastActivity        time.Time `json:"last_activity"`
}

// StatsService keeps usage counters in memory and flushes them to disk on a
// timer, but only when something changed since the last flush.
type StatsService struct {
	mu      sync.Mutex
	stats   UsageStats
	dirty   bool
	storage *storage.FileStorage
	stop    chan struct{}
}

func NewStatsService(fs *storage.FileStorage) *StatsService {
	s := &StatsService{
		storage: fs,
		stop:    make(chan struct{}),
	}

	if fs != nil && fs.FileExists(statsDir, statsFile) {
		// A corrupt stats file is not worth failing startup over.
		_ = fs.LoadJSONFile(statsDir, statsFile, &s.stats)
	}

	if fs != nil {
		go s.saveLoop()
	}
	return s
}

// Counter names accepted by Increment.
const (
	StatBlocksCreated       = "blocks_created"
	StatBlocksDeleted       = "blocks_deleted"
	StatReordersCommitted   = "reorders_committed"
	StatAnalysesRun         = "analyses_run"
	StatSuggestionPassesRun = "suggestion_passes_run"
	StatChatCompletions     = "chat_completions"
)

// Increment bumps a named counter. Unknown names are ignored.
func (s *StatsService) Increment(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch name {
	case StatBlocksCreated:
		s.stats.BlocksCreated++
	case StatBlocksDeleted:
		s.stats.BlocksDeleted++
	case StatReordersCommitted:
		s.stats.ReordersCommitted++
	case StatAnalysesRun:
		s.stats.AnalysesRun++
	case StatSuggestionPassesRun:
		s.stats.SuggestionPassesRun++
	case StatChatCompletions:
		s.stats.ChatCompletions++
	default:
		return
	}
	s.stats.LastActivity = time.Now()
	s.dirty = true
}

// Snapshot returns a copy of the current counters.
func (s *StatsService) Snapshot() UsageStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Close flushes pending counters and stops the save loop.
func (s *StatsService) Close() error {
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
	return s.flush()
}

func (s *StatsService) saveLoop() {
	ticker := time.NewTicker(statsSaveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = s.flush()
		case <-s.stop:
			return
		}
	}
}

func (s *StatsService) flush() error {
	s.mu.Lock()
	if !s.dirty || s.storage == nil {
		s.mu.Unlock()
		return nil
	}
	snapshot := s.stats
	s.dirty = false
	s.mu.Unlock()

	return s.storage.SaveJSONFile(statsDir, statsFile, snapshot)
}
