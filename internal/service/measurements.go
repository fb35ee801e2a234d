package service

import "sync"

// Measurements is one client's reported sidebar geometry: rendered item
// heights plus the viewport scroll window. Heights are keyed by item id;
// items without an entry fall back to the default row height.
type Measurements struct {
	Heights        map[string]float64 `json:"heights"`
	ScrollTop      float64            `json:"scroll_top"`
	ViewportHeight float64            `json:"viewport_height"`
	Width          float64            `json:"width"`
}

// MeasurementStore keeps the latest reported measurements per collection.
// Geometry is ephemeral client state, so it lives in memory only.
type MeasurementStore struct {
	mu      sync.RWMutex
	entries map[string]Measurements
}

func NewMeasurementStore() *MeasurementStore {
	return &MeasurementStore{entries: make(map[string]Measurements)}
}

// Put replaces the stored measurements for a collection.
func (s *MeasurementStore) Put(collectionID string, m Measurements) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.Heights == nil {
		m.Heights = make(map[string]float64)
	}
	s.entries[collectionID] = m
}

// Get returns the stored measurements and whether any have been reported.
func (s *MeasurementStore) Get(collectionID string) (Measurements, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.entries[collectionID]
	return m, ok
}

// Drop forgets a collection's measurements.
func (s *MeasurementStore) Drop(collectionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, collectionID)
}
