package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncAppointmentQuery is a no-op.
func (n *NoopRecorder) IncAppointmentQuery(status string) {}

// ObserveAppointmentDuration is a no-op.
func (n *NoopRecorder) ObserveAppointmentDuration(duration time.Duration) {}

// IncOwnerCreated is a no-op.
func (n *NoopRecorder) IncOwnerCreated() {}

// IncOwnerUpdated is a no-op.
func (n *NoopRecorder) IncOwnerUpdated() {}

// IncOwnerDeleted is a no-op.
func (n *NoopRecorder) IncOwnerDeleted() {}

// IncVisitCreated is a no-op.
func (n *NoopRecorder) IncVisitCreated() {}

// IncAuthCacheHit is a no-op.
func (n *NoopRecorder) IncAuthCacheHit() {}

// IncAuthCacheMiss is a no-op.
func (n *NoopRecorder) IncAuthCacheMiss() {}
