// Package state provides thread-safe state shared between the chart fetch
// loop and the views.
package state

import (
	"slices"
	"sync"
	"time"

	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/layer"
	"github.com/litescript/ls-natal/internal/render"
)

// EventType represents the type of state change event.
type EventType string

const (
	EventChartLoaded   EventType = "CHART_LOADED"
	EventIngress       EventType = "INGRESS"
	EventStation       EventType = "STATION"
	EventLayerShown    EventType = "LAYER_SHOWN"
	EventLayerHidden   EventType = "LAYER_HIDDEN"
	EventLayerRejected EventType = "LAYER_REJECTED"
)

// Event is one entry in the activity log.
type Event struct {
	Type      EventType  `json:"type"`
	Timestamp time.Time  `json:"timestamp"`
	Body      string     `json:"body,omitempty"`     // ingress and station events
	OldSign   string     `json:"old_sign,omitempty"` // ingress
	NewSign   string     `json:"new_sign,omitempty"` // ingress
	Layer     layer.ID   `json:"layer,omitempty"`
	Missing   []layer.ID `json:"missing,omitempty"` // rejected layer events
	Detail    string     `json:"detail,omitempty"`
}

// HistoryEntry is one chart seen by the fetch loop.
type HistoryEntry struct {
	Timestamp time.Time
	Data      *chart.Data
}

// Manager handles all shared application state with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	// Current state
	current       *chart.Data
	lastFetch     time.Time
	lastError     error
	fetchDuration time.Duration
	interaction   render.Interaction

	// History buffer, used in live mode
	history       []HistoryEntry
	maxHistoryLen int

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int

	// Configuration
	refreshInterval time.Duration
}

// Config holds configuration for the state manager.
type Config struct {
	MaxHistoryLen   int
	MaxEvents       int
	RefreshInterval time.Duration // zero means the chart is fetched once
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxHistoryLen: 60,
		MaxEvents:     50,
	}
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	return &Manager{
		maxHistoryLen:   cfg.MaxHistoryLen,
		maxEvents:       maxEvents,
		events:          make([]Event, 0, maxEvents),
		refreshInterval: cfg.RefreshInterval,
	}
}

// Update atomically records the result of a chart fetch. A nil chart keeps
// the previous one and only records the error.
func (m *Manager) Update(data *chart.Data, fetchDuration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastFetch = time.Now()
	m.lastError = err
	m.fetchDuration = fetchDuration

	if data == nil {
		return
	}

	if m.current == nil || m.current.ID != data.ID {
		m.detectEvents(data)
	}
	m.current = data

	if m.maxHistoryLen > 0 {
		m.history = append(m.history, HistoryEntry{Timestamp: data.Time, Data: data})
		if len(m.history) > m.maxHistoryLen {
			m.history = m.history[1:]
		}
	}
}

// detectEvents compares the new chart with the previous one: sign ingresses
// and changes of direction.
func (m *Manager) detectEvents(next *chart.Data) {
	now := time.Now()
	prev := m.current
	if prev == nil {
		m.addEvent(Event{Type: EventChartLoaded, Timestamp: now, Detail: next.Name})
		return
	}

	for _, b := range next.Bodies {
		old, ok := prev.Body(b.ID)
		if !ok {
			continue
		}
		oldSign, newSign := chart.SignOf(old.Longitude), chart.SignOf(b.Longitude)
		if oldSign != newSign {
			m.addEvent(Event{
				Type:      EventIngress,
				Timestamp: now,
				Body:      b.ID,
				OldSign:   oldSign.String(),
				NewSign:   newSign.String(),
			})
		}
		// Nodes always move backwards; only planets station.
		if b.Kind == chart.KindPlanet && old.Retrograde() != b.Retrograde() {
			detail := "direct"
			if b.Retrograde() {
				detail = "retrograde"
			}
			m.addEvent(Event{Type: EventStation, Timestamp: now, Body: b.ID, Detail: detail})
		}
	}
}

// RecordLayer logs the outcome of a visibility request. missing is non-empty
// for rejected requests.
func (m *Manager) RecordLayer(id layer.ID, visible bool, missing []layer.ID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := Event{Type: EventLayerHidden, Timestamp: time.Now(), Layer: id}
	switch {
	case len(missing) > 0:
		e.Type = EventLayerRejected
		e.Missing = slices.Clone(missing)
	case visible:
		e.Type = EventLayerShown
	}
	m.addEvent(e)
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// SetInteraction stores the current hover and selection.
func (m *Manager) SetInteraction(i render.Interaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i.Highlighted = slices.Clone(i.Highlighted)
	m.interaction = i
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	Chart         *chart.Data
	LastFetch     time.Time
	LastError     error
	FetchDuration time.Duration
	Interaction   render.Interaction
	Events        []Event
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ia := m.interaction
	ia.Highlighted = slices.Clone(ia.Highlighted)

	return Snapshot{
		Chart:         m.current,
		LastFetch:     m.lastFetch,
		LastError:     m.lastError,
		FetchDuration: m.fetchDuration,
		Interaction:   ia,
		Events:        m.getEventsOrdered(),
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	// If buffer isn't full yet, just copy
	if len(m.events) < m.maxEvents {
		return slices.Clone(m.events)
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		result[i] = m.events[(m.eventWriteAt+i)%m.maxEvents]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// History returns a copy of the chart history, oldest first.
func (m *Manager) History() []HistoryEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.history)
}

// RefreshInterval returns the configured refresh interval.
func (m *Manager) RefreshInterval() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refreshInterval
}

// SetRefreshInterval updates the refresh interval.
func (m *Manager) SetRefreshInterval(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshInterval = d
}

// HasData returns true if we have received at least one successful fetch.
func (m *Manager) HasData() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current != nil
}
