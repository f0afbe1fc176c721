package model

// Event is a timed contest window.
type Event struct {
	ID        ID        `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	StartTime Timestamp `json:"start_time"`
	EndTime   Timestamp `json:"end_time"`
}

func (e Event) Key() ID {
	return e.ID
}

// CanStart reports whether a start request is allowed.
func (e Event) CanStart() bool {
	return !e.IsActive
}

// CanStop reports whether a stop request is allowed.
func (e Event) CanStop() bool {
	return e.IsActive
}

func (e Event) Status() string {
	if e.IsActive {
		return "active"
	}
	return "inactive"
}
