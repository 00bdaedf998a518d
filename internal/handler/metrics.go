package handler

import (
	"fmt"
	"net/http"

	"github.com/petclinic/petclinic/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "petclinic_appointment_queries_total{status=\"found\"} %d\n", snap.AppointmentQueriesFound)
	writeMetric(w, "petclinic_appointment_queries_total{status=\"none\"} %d\n", snap.AppointmentQueriesNone)
	writeMetric(w, "petclinic_appointment_duration_seconds_count %d\n", snap.AppointmentDurationCount)
	writeMetric(w, "petclinic_appointment_duration_seconds_sum %.6f\n", float64(snap.AppointmentDurationTotalNs)/1e9)

	writeMetric(w, "petclinic_owners_created_total %d\n", snap.OwnersCreated)
	writeMetric(w, "petclinic_owners_updated_total %d\n", snap.OwnersUpdated)
	writeMetric(w, "petclinic_owners_deleted_total %d\n", snap.OwnersDeleted)
	writeMetric(w, "petclinic_visits_created_total %d\n", snap.VisitsCreated)

	writeMetric(w, "petclinic_auth_cache_hits_total %d\n", snap.AuthCacheHits)
	writeMetric(w, "petclinic_auth_cache_misses_total %d\n", snap.AuthCacheMisses)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
