package metrics

import (
	"sync"
	"testing"
)

func TestInMemoryRecorder_Snapshot(t *testing.T) {
	t.Parallel()

	m := NewInMemory()
	m.IncListingCreated()
	m.IncListingCreated()
	m.IncListingDeleted()
	m.AddReviewsCascaded(3)
	m.AddReviewsCascaded(0)
	m.AddReviewsCascaded(-1)
	m.IncBlobReleaseFailed()
	m.IncLoginFailed()

	snap := m.Snapshot()
	if snap.ListingsCreated != 2 {
		t.Errorf("ListingsCreated = %d, want 2", snap.ListingsCreated)
	}
	if snap.ListingsDeleted != 1 {
		t.Errorf("ListingsDeleted = %d, want 1", snap.ListingsDeleted)
	}
	if snap.ReviewsCascaded != 3 {
		t.Errorf("ReviewsCascaded = %d, want 3", snap.ReviewsCascaded)
	}
	if snap.BlobReleaseFailed != 1 {
		t.Errorf("BlobReleaseFailed = %d, want 1", snap.BlobReleaseFailed)
	}
	if snap.LoginsFailed != 1 {
		t.Errorf("LoginsFailed = %d, want 1", snap.LoginsFailed)
	}
}

func TestInMemoryRecorder_Concurrent(t *testing.T) {
	t.Parallel()

	m := NewInMemory()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.IncReviewCreated()
		}()
	}
	wg.Wait()

	if got := m.Snapshot().ReviewsCreated; got != 50 {
		t.Errorf("ReviewsCreated = %d, want 50", got)
	}
}
