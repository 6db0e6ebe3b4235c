package bucket

import "github.com/pan93412/Stats/internal/models"

// ScanState is the position of the future scan relative to the current slot.
type ScanState int

const (
	// BeforeCurrent holds until the current slot is reached.
	BeforeCurrent ScanState = iota
	// AtCurrent holds for the current slot itself.
	AtCurrent
	// AfterCurrent holds for every slot after the current one.
	AfterCurrent
)

// String returns the string representation of a ScanState.
func (s ScanState) String() string {
	switch s {
	case BeforeCurrent:
		return "before-current"
	case AtCurrent:
		return "at-current"
	case AfterCurrent:
		return "after-current"
	default:
		return "unknown"
	}
}

// Next returns the state for the following slot.
func (s ScanState) Next(isCurrent bool) ScanState {
	switch s {
	case BeforeCurrent:
		if isCurrent {
			return AtCurrent
		}
		return BeforeCurrent
	default:
		return AfterCurrent
	}
}

// MarkFuture sets IsFuture on every slot after the first current slot.
// Without a current slot no slot is marked.
func MarkFuture(slots []models.DaySlot) {
	state := BeforeCurrent
	for i := range slots {
		state = state.Next(slots[i].IsCurrent)
		slots[i].IsFuture = state == AfterCurrent
	}
}
