package model

import "fmt"

// SlotState is the power state of one hour slot.
type SlotState int

const (
	// On is the zero value so an empty grid means "no known outage".
	On SlotState = iota
	Off
	OffFirstHalf
	OffSecondHalf
)

// String returns the wire name of the state used in GPV documents.
func (s SlotState) String() string {
	switch s {
	case On:
		return "yes"
	case Off:
		return "no"
	case OffFirstHalf:
		return "first"
	case OffSecondHalf:
		return "second"
	default:
		return "unknown"
	}
}

// Valid reports whether s is one of the four defined states.
func (s SlotState) Valid() bool {
	return s >= On && s <= OffSecondHalf
}

// OffHours returns how much of the slot hour is without power.
func (s SlotState) OffHours() float64 {
	switch s {
	case Off:
		return 1
	case OffFirstHalf, OffSecondHalf:
		return 0.5
	default:
		return 0
	}
}

// ParseSlotState converts a wire name back into a SlotState.
func ParseSlotState(name string) (SlotState, error) {
	switch name {
	case "yes":
		return On, nil
	case "no":
		return Off, nil
	case "first":
		return OffFirstHalf, nil
	case "second":
		return OffSecondHalf, nil
	default:
		return On, fmt.Errorf("unknown slot state %q", name)
	}
}

func (s SlotState) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid slot state %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *SlotState) UnmarshalText(b []byte) error {
	v, err := ParseSlotState(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
