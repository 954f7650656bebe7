package apitype

// Command is a payload published to a broker topic. Throttled commands may be
// coalesced by the receiver; the rest must be handled one by one.
type Command interface {
	IsThrottled() bool
}

type Throttled struct {
}

type NotThrottled struct {
}

func (s *Throttled) IsThrottled() bool {
	return true
}

func (s *NotThrottled) IsThrottled() bool {
	return false
}
