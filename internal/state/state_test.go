package state

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/layer"
	"github.com/litescript/ls-natal/internal/render"
)

func testChart(id string, sunLon, sunSpeed float64) *chart.Data {
	return &chart.Data{
		ID:   id,
		Name: "Test",
		Time: time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
		Bodies: []chart.Body{
			{ID: "sun", Kind: chart.KindPlanet, Longitude: sunLon, Speed: sunSpeed},
			{ID: "north_node", Kind: chart.KindNode, Longitude: 15, Speed: -0.05},
		},
	}
}

func TestNewManager(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RefreshInterval = time.Minute
	m := NewManager(cfg)

	if m == nil {
		t.Fatal("NewManager returned nil")
	}

	if m.RefreshInterval() != cfg.RefreshInterval {
		t.Errorf("RefreshInterval = %v, want %v", m.RefreshInterval(), cfg.RefreshInterval)
	}

	if m.HasData() {
		t.Error("HasData should be false initially")
	}
}

func TestManager_Update(t *testing.T) {
	m := NewManager(DefaultConfig())

	data := testChart("a", 10, 1)
	m.Update(data, 100*time.Millisecond, nil)

	if !m.HasData() {
		t.Error("HasData should be true after Update")
	}

	snap := m.Snapshot()

	if snap.Chart != data {
		t.Error("Snapshot Chart doesn't match")
	}

	if snap.FetchDuration != 100*time.Millisecond {
		t.Errorf("FetchDuration = %v, want 100ms", snap.FetchDuration)
	}

	if snap.LastError != nil {
		t.Errorf("LastError = %v, want nil", snap.LastError)
	}

	if len(snap.Events) != 1 || snap.Events[0].Type != EventChartLoaded {
		t.Errorf("Events = %+v, want one CHART_LOADED", snap.Events)
	}
}

func TestManager_UpdateWithErrorKeepsChart(t *testing.T) {
	m := NewManager(DefaultConfig())

	data := testChart("a", 10, 1)
	m.Update(data, 0, nil)

	testErr := errors.New("fetch failed")
	m.Update(nil, 50*time.Millisecond, testErr)

	snap := m.Snapshot()
	if snap.Chart != data {
		t.Error("failed fetch should keep the previous chart")
	}
	if snap.LastError != testErr {
		t.Errorf("LastError = %v, want %v", snap.LastError, testErr)
	}
}

func TestManager_HistoryBuffer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxHistoryLen = 3
	m := NewManager(cfg)

	for i := 0; i < 5; i++ {
		m.Update(testChart(string(rune('a'+i)), float64(i), 1), 0, nil)
	}

	hist := m.History()
	if len(hist) != 3 {
		t.Fatalf("history len = %d, want 3", len(hist))
	}
	if hist[0].Data.ID != "c" || hist[2].Data.ID != "e" {
		t.Errorf("history = %s..%s, want c..e", hist[0].Data.ID, hist[2].Data.ID)
	}
}

func TestManager_EventDetection_Ingress(t *testing.T) {
	m := NewManager(DefaultConfig())

	m.Update(testChart("a", 29.5, 1), 0, nil)
	m.Update(testChart("b", 30.5, 1), 0, nil)

	events := m.RecentEvents(10)
	var ingress *Event
	for i := range events {
		if events[i].Type == EventIngress {
			ingress = &events[i]
		}
	}
	if ingress == nil {
		t.Fatal("no INGRESS event found")
	}
	if ingress.Body != "sun" {
		t.Errorf("body = %q, want sun", ingress.Body)
	}
	if ingress.OldSign != "Aries" || ingress.NewSign != "Taurus" {
		t.Errorf("signs = %s -> %s, want Aries -> Taurus", ingress.OldSign, ingress.NewSign)
	}
}

func TestManager_EventDetection_Station(t *testing.T) {
	m := NewManager(DefaultConfig())

	m.Update(testChart("a", 10, 0.2), 0, nil)
	m.Update(testChart("b", 10.1, -0.1), 0, nil)

	var station *Event
	for _, e := range m.RecentEvents(10) {
		if e.Type == EventStation {
			station = &e
		}
	}
	if station == nil {
		t.Fatal("no STATION event found")
	}
	if station.Body != "sun" || station.Detail != "retrograde" {
		t.Errorf("station = %+v, want sun retrograde", station)
	}
}

func TestManager_SameChartNoEvents(t *testing.T) {
	m := NewManager(DefaultConfig())

	m.Update(testChart("a", 29.5, 1), 0, nil)
	m.Update(testChart("a", 30.5, 1), 0, nil)

	if got := len(m.RecentEvents(10)); got != 1 {
		t.Errorf("events = %d, want only the initial load", got)
	}
}

func TestManager_RecordLayer(t *testing.T) {
	m := NewManager(DefaultConfig())

	m.RecordLayer(layer.Degrees, true, nil)
	m.RecordLayer(layer.Planets, false, nil)
	missing := []layer.ID{layer.Planets}
	m.RecordLayer(layer.Labels, true, missing)
	missing[0] = layer.Zodiac

	events := m.RecentEvents(3)
	want := []EventType{EventLayerShown, EventLayerHidden, EventLayerRejected}
	for i, e := range events {
		if e.Type != want[i] {
			t.Errorf("event %d type = %s, want %s", i, e.Type, want[i])
		}
	}
	if got := events[2].Missing; len(got) != 1 || got[0] != layer.Planets {
		t.Errorf("Missing = %v, want [planets]", got)
	}
}

func TestManager_InteractionIsCopied(t *testing.T) {
	m := NewManager(DefaultConfig())

	hl := []string{"aspect:sun-moon"}
	m.SetInteraction(render.Interaction{Selected: "body:sun", Highlighted: hl})
	hl[0] = "changed"

	snap := m.Snapshot()
	if snap.Interaction.Selected != "body:sun" {
		t.Errorf("Selected = %q, want body:sun", snap.Interaction.Selected)
	}
	snap.Interaction.Highlighted[0] = "mutated"

	if got := m.Snapshot().Interaction.Highlighted[0]; got != "aspect:sun-moon" {
		t.Errorf("Highlighted[0] = %q, want aspect:sun-moon", got)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	m := NewManager(DefaultConfig())

	var wg sync.WaitGroup
	iterations := 100

	// Writer goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			m.Update(testChart(string(rune('a'+i%26)), float64(i*7), 1), time.Duration(i)*time.Millisecond, nil)
			m.RecordLayer(layer.Aspects, i%2 == 0, nil)
			m.SetInteraction(render.Interaction{Selected: "body:sun"})
		}
	}()

	// Reader goroutines
	for r := 0; r < 5; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				_ = m.Snapshot()
				_ = m.HasData()
				_ = m.RefreshInterval()
				_ = m.History()
				_ = m.RecentEvents(5)
			}
		}()
	}

	wg.Wait()
}

func TestManager_SetRefreshInterval(t *testing.T) {
	m := NewManager(DefaultConfig())

	newInterval := 30 * time.Second
	m.SetRefreshInterval(newInterval)

	if m.RefreshInterval() != newInterval {
		t.Errorf("RefreshInterval = %v, want %v", m.RefreshInterval(), newInterval)
	}
}

func TestManager_EventRingBuffer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxEvents = 5
	m := NewManager(cfg)

	for i := 0; i < 10; i++ {
		m.RecordLayer(layer.Aspects, i%2 == 0, nil)
	}

	events := m.RecentEvents(100)
	if len(events) != 5 {
		t.Errorf("events count = %d, want 5 (max)", len(events))
	}

	// Verify events are ordered chronologically
	for i := 1; i < len(events); i++ {
		if events[i].Timestamp.Before(events[i-1].Timestamp) {
			t.Errorf("events not in chronological order at index %d", i)
		}
	}

	// The last recorded event (i == 9) hid the layer.
	if events[4].Type != EventLayerHidden {
		t.Errorf("newest event = %s, want LAYER_HIDDEN", events[4].Type)
	}
}
