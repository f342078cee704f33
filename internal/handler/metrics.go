package handler

import (
	"fmt"
	"net/http"

	"github.com/wanderlust/wanderlust/internal/metrics"
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

	writeMetric(w, "wanderlust_listings_created_total %d\n", snap.ListingsCreated)
	writeMetric(w, "wanderlust_listings_updated_total %d\n", snap.ListingsUpdated)
	writeMetric(w, "wanderlust_listings_deleted_total %d\n", snap.ListingsDeleted)

	writeMetric(w, "wanderlust_reviews_created_total %d\n", snap.ReviewsCreated)
	writeMetric(w, "wanderlust_reviews_deleted_total{reason=\"author\"} %d\n", snap.ReviewsDeleted)
	writeMetric(w, "wanderlust_reviews_deleted_total{reason=\"cascade\"} %d\n", snap.ReviewsCascaded)

	writeMetric(w, "wanderlust_blobs_stored_total %d\n", snap.BlobsStored)
	writeMetric(w, "wanderlust_blobs_released_total{status=\"success\"} %d\n", snap.BlobsReleased)
	writeMetric(w, "wanderlust_blobs_released_total{status=\"failed\"} %d\n", snap.BlobReleaseFailed)

	writeMetric(w, "wanderlust_signups_total %d\n", snap.Signups)
	writeMetric(w, "wanderlust_logins_total{status=\"success\"} %d\n", snap.LoginsSucceeded)
	writeMetric(w, "wanderlust_logins_total{status=\"failed\"} %d\n", snap.LoginsFailed)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
