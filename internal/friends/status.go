package friends

// Status is the state of a friend-request pair. The zero value StatusNone
// stands for a pair with no stored request row.
type Status string

const (
	StatusNone     Status = ""
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Event is a caller-initiated transition on a request pair.
type Event string

const (
	EventSend   Event = "send"
	EventAccept Event = "accept"
	EventReject Event = "reject"
)

// Next returns the status a request pair enters when event fires from current.
// Every event is valid from every state, which encodes two deliberate pieces
// of the contract: a resend reopens a rejected or accepted pair back to
// pending, and accept/reject are blind updates that "succeed" even when no
// request was ever sent.
func Next(current Status, event Event) Status {
	switch event {
	case EventSend:
		return StatusPending
	case EventAccept:
		return StatusAccepted
	case EventReject:
		return StatusRejected
	default:
		return current
	}
}
