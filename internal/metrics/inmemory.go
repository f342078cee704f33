package metrics

import "sync/atomic"

// Snapshot captures current in-memory counters.
type Snapshot struct {
	ListingsCreated   uint64
	ListingsUpdated   uint64
	ListingsDeleted   uint64
	ReviewsCreated    uint64
	ReviewsDeleted    uint64
	ReviewsCascaded   uint64
	BlobsStored       uint64
	BlobsReleased     uint64
	BlobReleaseFailed uint64
	Signups           uint64
	LoginsSucceeded   uint64
	LoginsFailed      uint64
}

// InMemoryRecorder stores counters in memory.
type InMemoryRecorder struct {
	listingsCreated   atomic.Uint64
	listingsUpdated   atomic.Uint64
	listingsDeleted   atomic.Uint64
	reviewsCreated    atomic.Uint64
	reviewsDeleted    atomic.Uint64
	reviewsCascaded   atomic.Uint64
	blobsStored       atomic.Uint64
	blobsReleased     atomic.Uint64
	blobReleaseFailed atomic.Uint64
	signups           atomic.Uint64
	loginsSucceeded   atomic.Uint64
	loginsFailed      atomic.Uint64
}

var _ Recorder = (*InMemoryRecorder)(nil)

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		ListingsCreated:   m.listingsCreated.Load(),
		ListingsUpdated:   m.listingsUpdated.Load(),
		ListingsDeleted:   m.listingsDeleted.Load(),
		ReviewsCreated:    m.reviewsCreated.Load(),
		ReviewsDeleted:    m.reviewsDeleted.Load(),
		ReviewsCascaded:   m.reviewsCascaded.Load(),
		BlobsStored:       m.blobsStored.Load(),
		BlobsReleased:     m.blobsReleased.Load(),
		BlobReleaseFailed: m.blobReleaseFailed.Load(),
		Signups:           m.signups.Load(),
		LoginsSucceeded:   m.loginsSucceeded.Load(),
		LoginsFailed:      m.loginsFailed.Load(),
	}
}

func (m *InMemoryRecorder) IncListingCreated() { m.listingsCreated.Add(1) }
func (m *InMemoryRecorder) IncListingUpdated() { m.listingsUpdated.Add(1) }
func (m *InMemoryRecorder) IncListingDeleted() { m.listingsDeleted.Add(1) }
func (m *InMemoryRecorder) IncReviewCreated() { m.reviewsCreated.Add(1) }
func (m *InMemoryRecorder) IncReviewDeleted() { m.reviewsDeleted.Add(1) }

// AddReviewsCascaded counts reviews removed together with their listing.
func (m *InMemoryRecorder) AddReviewsCascaded(n int64) {
	if n > 0 {
		m.reviewsCascaded.Add(uint64(n))
	}
}

func (m *InMemoryRecorder) IncBlobStored() { m.blobsStored.Add(1) }
func (m *InMemoryRecorder) IncBlobReleased() { m.blobsReleased.Add(1) }
func (m *InMemoryRecorder) IncBlobReleaseFailed() { m.blobReleaseFailed.Add(1) }
func (m *InMemoryRecorder) IncSignup() { m.signups.Add(1) }
func (m *InMemoryRecorder) IncLoginSucceeded() { m.loginsSucceeded.Add(1) }
func (m *InMemoryRecorder) IncLoginFailed() { m.loginsFailed.Add(1) }
