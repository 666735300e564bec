// Package registry reads the remote allow-list of license keys and resolves
// a key to its current status. The store is re-fetched on every lookup; the
// only state this package keeps is the circuit breaker guarding the fetch.
package registry

// State classifies a key's standing in the registry.
type State int

const (
	// StateNotFound means the key is absent, or the registry could not be
	// read. An unreachable registry never validates a key.
	StateNotFound State = iota
	// StateValid means the key is present and unredeemed.
	StateValid
	// StateRedeemed means the key is present but already consumed.
	StateRedeemed
)

// String returns the state name for logs and metrics labels.
func (s State) String() string {
	switch s {
	case StateValid:
		return "valid"
	case StateRedeemed:
		return "redeemed"
	default:
		return "not_found"
	}
}

// Status is the result of a registry lookup.
// RedeemedBy and RedeemedAt are only set for StateRedeemed.
type Status struct {
	State      State
	Role       string
	RedeemedBy string
	RedeemedAt string
}

// Entry is one parsed line of the store blob. A bare-key line carries only
// Key; a structured line carries all four fields.
type Entry struct {
	Key        string
	Role       string
	RedeemedBy string
	RedeemedAt string
}

// Status derives the lookup status for a matched entry.
func (e Entry) Status() Status {
	if e.RedeemedBy != "" {
		return Status{
			State:      StateRedeemed,
			Role:       e.Role,
			RedeemedBy: e.RedeemedBy,
			RedeemedAt: e.RedeemedAt,
		}
	}
	return Status{State: StateValid, Role: e.Role}
}
