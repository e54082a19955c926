package workflows

// StateMachine enforces contract status transitions
type StateMachine struct {
	allowedTransitions map[string][]string
}

// NewContractStateMachine returns the lifecycle for contract records. A
// draft can be activated or abandoned; an active contract can run out or
// be cut short; terminal states allow no further transitions.
func NewContractStateMachine() *StateMachine {
	return &StateMachine{
		allowedTransitions: map[string][]string{
			"draft":      {"active", "terminated"},
			"active":     {"expired", "terminated"},
			"expired":    {},
			"terminated": {},
		},
	}
}

// CanTransition checks if a status transition is allowed
func (sm *StateMachine) CanTransition(from, to string) bool {
	allowed, exists := sm.allowedTransitions[from]
	if !exists {
		return false
	}
	for _, allowedTo := range allowed {
		if allowedTo == to {
			return true
		}
	}
	return false
}

// GetAllowedTransitions returns the allowed next statuses for a given status
func (sm *StateMachine) GetAllowedTransitions(from string) []string {
	allowed, exists := sm.allowedTransitions[from]
	if !exists {
		return []string{}
	}
	return allowed
}
