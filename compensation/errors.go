package compensation

import (
	"errors"
)

var (
	// ErrInvalidSelection is returned when no amount exists for grade and step.
	ErrInvalidSelection = errors.New("no amount for selected grade and step")

	// ErrInvalidHours is returned when weekly hours are not a non-negative number.
	ErrInvalidHours = errors.New("invalid weekly hours")
)
