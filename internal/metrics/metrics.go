// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Appointment query metrics
	IncAppointmentQuery(status string) // status: "found" or "none"
	ObserveAppointmentDuration(duration time.Duration)

	// Entity management metrics
	IncOwnerCreated()
	IncOwnerUpdated()
	IncOwnerDeleted()
	IncVisitCreated()

	// Auth metrics
	IncAuthCacheHit()
	IncAuthCacheMiss()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
