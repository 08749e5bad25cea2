package booking

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCompleted Status = "COMPLETED"
	StatusCanceled  Status = "CANCELED"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCanceled:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCanceled
}

// CanTransitionTo encodes the legal edges: PENDING -> CONFIRMED ->
// COMPLETED, with CANCELED reachable from PENDING and CONFIRMED, and a
// direct PENDING -> COMPLETED shortcut for appointments honored without
// an explicit confirmation.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCompleted || next == StatusCanceled
	case StatusConfirmed:
		return next == StatusCompleted || next == StatusCanceled
	default:
		return false
	}
}
