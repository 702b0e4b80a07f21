package game

import (
	"errors"
	"fmt"
)

// Class represents a betting class bucket
type Class string

const (
	ClassA Class = "A" // all three digits identical (e.g. "777")
	ClassB Class = "B" // exactly two digits identical (e.g. "272")
	ClassC Class = "C" // all three digits distinct (e.g. "123")
	ClassD Class = "D" // single digit 1-9 side game
)

// AllClasses lists the classes in settlement order
var AllClasses = []Class{ClassA, ClassB, ClassC, ClassD}

var (
	ErrUnknownClass  = errors.New("unknown class")
	ErrInvalidNumber = errors.New("invalid number")
	ErrClassMismatch = errors.New("number does not belong to the declared class")
)

// ParseClass parses a class string
func ParseClass(s string) (Class, error) {
	switch Class(s) {
	case ClassA, ClassB, ClassC, ClassD:
		return Class(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownClass, s)
	}
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}

// Classify computes the natural class of a 3-digit number string.
// Leading zeros are valid digits ("012" is class C, "007" is class B).
func Classify(number string) (Class, error) {
	if len(number) != 3 || !isDigits(number) {
		return "", fmt.Errorf("%w: %q (expected exactly 3 digits)", ErrInvalidNumber, number)
	}
	a, b, c := number[0], number[1], number[2]
	switch {
	case a == b && b == c:
		return ClassA, nil
	case a == b || b == c || a == c:
		return ClassB, nil
	default:
		return ClassC, nil
	}
}

// ValidateForClass checks that number is syntactically valid for the declared
// class and actually belongs to it.
func ValidateForClass(class Class, number string) error {
	if class == ClassD {
		if len(number) != 1 || number[0] < '1' || number[0] > '9' {
			return fmt.Errorf("%w: %q (class D expects a single digit 1-9)", ErrInvalidNumber, number)
		}
		return nil
	}
	natural, err := Classify(number)
	if err != nil {
		return err
	}
	switch class {
	case ClassA, ClassB, ClassC:
		if natural != class {
			return fmt.Errorf("%w: %q is class %s, not %s", ErrClassMismatch, number, natural, class)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownClass, string(class))
	}
}
