package model

type Priority string

const (
	PriorityNone   Priority = "none"
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityNone, PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Rank returns the sort rank of the priority, 0 (none) through 4 (urgent).
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	case PriorityUrgent:
		return 4
	default:
		return 0
	}
}

// ColorTag returns the display color name associated with the priority.
func (p Priority) ColorTag() string {
	switch p {
	case PriorityLow:
		return "blue"
	case PriorityMedium:
		return "yellow"
	case PriorityHigh:
		return "orange"
	case PriorityUrgent:
		return "red"
	default:
		return "gray"
	}
}
