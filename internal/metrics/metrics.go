// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Listing metrics
	IncListingCreated()
	IncListingUpdated()
	IncListingDeleted()

	// Review metrics
	IncReviewCreated()
	IncReviewDeleted()
	AddReviewsCascaded(n int64)

	// Blob storage metrics
	IncBlobStored()
	IncBlobReleased()
	IncBlobReleaseFailed()

	// Account metrics
	IncSignup()
	IncLoginSucceeded()
	IncLoginFailed()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
