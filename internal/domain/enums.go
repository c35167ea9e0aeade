package domain

// RowState represents the lifecycle of a rendered cart row
type RowState string

const (
	RowStateDisplayed RowState = "DISPLAYED"
	RowStateRemoved   RowState = "REMOVED"
)

// IsValid checks if the row state is valid
func (s RowState) IsValid() bool {
	switch s {
	case RowStateDisplayed, RowStateRemoved:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks if a row state transition is valid. A quantity edit,
// committed or reverted, keeps a row displayed.
func (s RowState) CanTransitionTo(newState RowState) bool {
	switch s {
	case RowStateDisplayed:
		return newState == RowStateDisplayed || newState == RowStateRemoved
	case RowStateRemoved:
		return false // Terminal state
	default:
		return false
	}
}

// MutationKind names the kind of cart mutation
type MutationKind string

const (
	MutationQuantityChanged MutationKind = "quantity_changed"
	MutationItemRemoved     MutationKind = "item_removed"
)

// NotificationKind classifies user notifications
type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
)
