package notification

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Severities
const (
	SeveritySuccess = "success"
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// DefaultDuration is how long a notification stays up when the producer does not care.
const DefaultDuration = 4 * time.Second

// AdminOwner keys the shared queue read by every admin portal user.
const AdminOwner = "admin"

var (
	NowFunc = time.Now // mockable

	// afterFunc schedules the auto-dismissal of a notification; mockable so tests
	// can advance virtual time instead of sleeping.
	afterFunc = func(d time.Duration, f func()) timerHandle { return time.AfterFunc(d, f) }
)

type (
	timerHandle interface {
		Stop() bool
	}

	Notification struct {
		ID        string        `json:"id"`
		Severity  string        `json:"severity"`
		Message   string        `json:"message"`
		Duration  time.Duration `json:"duration"`
		CreatedAt time.Time     `json:"created_at"` // UTC
	}

	// Manager holds an insertion-ordered queue of transient notifications.
	// Notifications with a positive duration are removed automatically once it
	// elapses, independently of manual dismissal.
	Manager struct {
		mu     sync.Mutex
		queue  []Notification
		timers map[string]timerHandle
	}

	// Hub hands out one Manager per owner (user ID or guest device ID).
	Hub struct {
		mu       sync.Mutex
		managers map[string]*Manager
	}
)

func NewManager() *Manager {
	return &Manager{timers: make(map[string]timerHandle)}
}

// Show queues a notification and schedules its removal after `duration`.
// A zero or negative duration makes it persist until manually removed.
func (m *Manager) Show(message, severity string, duration time.Duration) Notification {
	switch severity {
	case SeveritySuccess, SeverityError, SeverityWarning, SeverityInfo:
	default:
		severity = SeverityError
	}

	n := Notification{
		ID:        uuid.New().String(),
		Severity:  severity,
		Message:   message,
		Duration:  duration,
		CreatedAt: NowFunc().UTC(),
	}

	m.mu.Lock()
	m.queue = append(m.queue, n)
	if duration > 0 {
		id := n.ID
		m.timers[id] = afterFunc(duration, func() { m.Remove(id) })
	}
	m.mu.Unlock()
	return n
}

// Remove deletes a notification immediately; removing an unknown id is a no-op.
// Survivors keep their insertion order.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if timer, ok := m.timers[id]; ok {
		timer.Stop()
		delete(m.timers, id)
	}
	for i, n := range m.queue {
		if n.ID == id {
			m.queue = append(m.queue[:i], m.queue[i+1:]...)
			return
		}
	}
}

// Clear empties the queue and cancels all pending dismissal timers.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, timer := range m.timers {
		timer.Stop()
		delete(m.timers, id)
	}
	m.queue = nil
}

// All returns a snapshot of the queue in insertion order.
func (m *Manager) All() []Notification {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Notification, len(m.queue))
	copy(out, m.queue)
	return out
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// Convenience producers.

func (m *Manager) Success(message string) Notification {
	return m.Show(message, SeveritySuccess, DefaultDuration)
}

func (m *Manager) Error(message string) Notification {
	return m.Show(message, SeverityError, DefaultDuration)
}

func (m *Manager) Warning(message string) Notification {
	return m.Show(message, SeverityWarning, DefaultDuration)
}

func (m *Manager) Info(message string) Notification {
	return m.Show(message, SeverityInfo, DefaultDuration)
}

func NewHub() *Hub {
	return &Hub{managers: make(map[string]*Manager)}
}

// For returns the owner's Manager, creating it on first use.
func (h *Hub) For(owner string) *Manager {
	h.mu.Lock()
	defer h.mu.Unlock()

	mgr, ok := h.managers[owner]
	if !ok {
		mgr = NewManager()
		h.managers[owner] = mgr
	}
	return mgr
}
