package game

import "fmt"

// Multipliers holds the fixed payout multiplier per class.
// Class D has no multiplier in the legacy rules; it is a deliberate
// configuration value here (see config defaults).
type Multipliers struct {
	ClassA float64
	ClassB float64
	ClassC float64
	ClassD float64
}

// For returns the multiplier for a class
func (m Multipliers) For(class Class) (float64, error) {
	switch class {
	case ClassA:
		return m.ClassA, nil
	case ClassB:
		return m.ClassB, nil
	case ClassC:
		return m.ClassC, nil
	case ClassD:
		return m.ClassD, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownClass, string(class))
	}
}

// Payout computes the payout for a winning stake
func (m Multipliers) Payout(class Class, stake float64) (float64, error) {
	mult, err := m.For(class)
	if err != nil {
		return 0, err
	}
	return stake * mult, nil
}
