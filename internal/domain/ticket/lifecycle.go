package ticket

// CanTransition reports whether a ticket may move from one status to another.
// Completed is terminal.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusOpen:
		return to == StatusInProgress || to == StatusCompleted
	case StatusInProgress:
		return to == StatusCompleted
	}
	return false
}

// ValidateTransition returns ErrInvalidTransition for disallowed moves.
func ValidateTransition(from, to Status) error {
	if !to.Valid() || !CanTransition(from, to) {
		return ErrInvalidTransition
	}
	return nil
}
