package metrics

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

func (n *NoopRecorder) IncListingCreated() {}
func (n *NoopRecorder) IncListingUpdated() {}
func (n *NoopRecorder) IncListingDeleted() {}
func (n *NoopRecorder) IncReviewCreated() {}
func (n *NoopRecorder) IncReviewDeleted() {}
func (n *NoopRecorder) AddReviewsCascaded(count int64) {}
func (n *NoopRecorder) IncBlobStored() {}
func (n *NoopRecorder) IncBlobReleased() {}
func (n *NoopRecorder) IncBlobReleaseFailed() {}
func (n *NoopRecorder) IncSignup() {}
func (n *NoopRecorder) IncLoginSucceeded() {}
func (n *NoopRecorder) IncLoginFailed() {}
