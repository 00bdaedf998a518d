package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	AppointmentQueriesFound    uint64
	AppointmentQueriesNone     uint64
	AppointmentDurationCount   uint64
	AppointmentDurationTotalNs int64
	OwnersCreated              uint64
	OwnersUpdated              uint64
	OwnersDeleted              uint64
	VisitsCreated              uint64
	AuthCacheHits              uint64
	AuthCacheMisses            uint64
}

// InMemoryRecorder stores metrics in memory for tests and the stats endpoint.
type InMemoryRecorder struct {
	appointmentQueriesFound    uint64
	appointmentQueriesNone     uint64
	appointmentDurationCount   uint64
	appointmentDurationTotalNs int64
	ownersCreated              uint64
	ownersUpdated              uint64
	ownersDeleted              uint64
	visitsCreated              uint64
	authCacheHits              uint64
	authCacheMisses            uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		AppointmentQueriesFound:    atomic.LoadUint64(&m.appointmentQueriesFound),
		AppointmentQueriesNone:     atomic.LoadUint64(&m.appointmentQueriesNone),
		AppointmentDurationCount:   atomic.LoadUint64(&m.appointmentDurationCount),
		AppointmentDurationTotalNs: atomic.LoadInt64(&m.appointmentDurationTotalNs),
		OwnersCreated:              atomic.LoadUint64(&m.ownersCreated),
		OwnersUpdated:              atomic.LoadUint64(&m.ownersUpdated),
		OwnersDeleted:              atomic.LoadUint64(&m.ownersDeleted),
		VisitsCreated:              atomic.LoadUint64(&m.visitsCreated),
		AuthCacheHits:              atomic.LoadUint64(&m.authCacheHits),
		AuthCacheMisses:            atomic.LoadUint64(&m.authCacheMisses),
	}
}

// IncAppointmentQuery increments the counter for the query outcome.
func (m *InMemoryRecorder) IncAppointmentQuery(status string) {
	if status == "found" {
		atomic.AddUint64(&m.appointmentQueriesFound, 1)
		return
	}
	atomic.AddUint64(&m.appointmentQueriesNone, 1)
}

// ObserveAppointmentDuration records query duration.
func (m *InMemoryRecorder) ObserveAppointmentDuration(duration time.Duration) {
	atomic.AddUint64(&m.appointmentDurationCount, 1)
	atomic.AddInt64(&m.appointmentDurationTotalNs, duration.Nanoseconds())
}

// IncOwnerCreated increments the owner created counter.
func (m *InMemoryRecorder) IncOwnerCreated() {
	atomic.AddUint64(&m.ownersCreated, 1)
}

// IncOwnerUpdated increments the owner updated counter.
func (m *InMemoryRecorder) IncOwnerUpdated() {
	atomic.AddUint64(&m.ownersUpdated, 1)
}

// IncOwnerDeleted increments the owner deleted counter.
func (m *InMemoryRecorder) IncOwnerDeleted() {
	atomic.AddUint64(&m.ownersDeleted, 1)
}

// IncVisitCreated increments the visit created counter.
func (m *InMemoryRecorder) IncVisitCreated() {
	atomic.AddUint64(&m.visitsCreated, 1)
}

// IncAuthCacheHit increments the auth cache hit counter.
func (m *InMemoryRecorder) IncAuthCacheHit() {
	atomic.AddUint64(&m.authCacheHits, 1)
}

// IncAuthCacheMiss increments the auth cache miss counter.
func (m *InMemoryRecorder) IncAuthCacheMiss() {
	atomic.AddUint64(&m.authCacheMisses, 1)
}
