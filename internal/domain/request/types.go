package request

// State is the per-pass decision state of a request.
// A pending request moves to exactly one of these per run.
type State string

const (
	StatePending         State = "PENDING"
	StateDeniedQuota     State = "DENIED_QUOTA"
	StateDeniedCollision State = "DENIED_COLLISION"
	StateApproved        State = "APPROVED"
	StateSkipped         State = "SKIPPED"
)

// Status is the persisted lifecycle status of a request row.
// Approved requests are deleted by the provisioner, so there is no
// terminal "approved" row status.
type Status string

const (
	StatusPending  Status = "pending"
	StatusRejected Status = "rejected"
)
