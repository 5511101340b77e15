// internal/services/notify_service.go
package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// NotifyLevel grades a notification for the UI toast layer.
type NotifyLevel string

const (
	NotifyInfo    NotifyLevel = "info"
	NotifySuccess NotifyLevel = "success"
	NotifyWarning NotifyLevel = "warning"
	NotifyError   NotifyLevel = "error"
)

// Notification is a user-facing event emitted by the engine, such as a
// completed reorder or a finished analysis pass.
type Notification struct {
	ID        string      `json:"id"`
	Level     NotifyLevel `json:"level"`
	Message   string      `json:"message"`
	Detail    string      `json:"detail,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

const notifyHistorySize = 100

// NotifyService fans notifications out to subscribers (the WebSocket hub)
// and keeps a bounded history for late joiners.
type NotifyService struct {
	mu          sync.RWMutex
	history     []Notification
	subscribers map[string]chan Notification
}

func NewNotifyService() *NotifyService {
	return &NotifyService{
		subscribers: make(map[string]chan Notification),
	}
}

// Emit records a notification and delivers it to every subscriber.
// Slow subscribers are skipped rather than blocking the caller.
func (s *NotifyService) Emit(level NotifyLevel, message, detail string) Notification {
	n := Notification{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		Detail:    detail,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.history = append(s.history, n)
	if len(s.history) > notifyHistorySize {
		s.history = s.history[len(s.history)-notifyHistorySize:]
	}
	subs := make([]chan Notification, 0, len(s.subscribers))
	for _, ch := range s.subscribers {
		subs = append(subs, ch)
	}
	s.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- n:
		default:
		}
	}

	return n
}

// Subscribe registers a buffered channel that receives future notifications.
// The returned id is used to unsubscribe.
func (s *NotifyService) Subscribe() (string, <-chan Notification) {
	id := uuid.NewString()
	ch := make(chan Notification, 16)

	s.mu.Lock()
	s.subscribers[id] = ch
	s.mu.Unlock()

	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (s *NotifyService) Unsubscribe(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ch, ok := s.subscribers[id]; ok {
		delete(s.subscribers, id)
		close(ch)
	}
}

// Recent returns up to limit notifications, newest last.
func (s *NotifyService) Recent(limit int) []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.history) {
		limit = len(s.history)
	}
	out := make([]Notification, limit)
	copy(out, s.history[len(s.history)-limit:])
	return out
}
