package domain

// ClientStatus represents the pairing lifecycle state of a client.
type ClientStatus string

const (
	ClientStatusActive   ClientStatus = "ACTIVE"
	ClientStatusPaired   ClientStatus = "PAIRED"
	ClientStatusInactive ClientStatus = "INACTIVE"
)

func (s ClientStatus) String() string { return string(s) }

func (s ClientStatus) IsValid() bool {
	switch s {
	case ClientStatusActive, ClientStatusPaired, ClientStatusInactive:
		return true
	}
	return false
}

// Priority is an ordering hint attached to a client. It is reserved for
// future tie-break policy and does not participate in distance ranking.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

func (p Priority) String() string { return string(p) }

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}
