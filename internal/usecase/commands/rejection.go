package commands

import "github.com/google/uuid"

// RejectionTracker counts consecutive over-quota requests per requester
// within one pass. It relies on the request stream being grouped by
// requester (see shared.RequestRepository); a requester change resets the
// tally.
type RejectionTracker struct {
	lastRequester uuid.UUID
	count         int
}

func NewRejectionTracker() *RejectionTracker {
	return &RejectionTracker{}
}

// ShouldForceReject records one over-quota request and reports whether the
// requester's tally now exceeds maxRequests. Call it once per over-quota
// request, in requester order.
func (t *RejectionTracker) ShouldForceReject(requester uuid.UUID, maxRequests int) bool {
	if t.lastRequester != requester {
		t.lastRequester = requester
		t.count = 1
	} else {
		t.count++
	}
	return t.count > maxRequests
}
