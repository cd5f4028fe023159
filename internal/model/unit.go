package model

import (
	"fmt"
	"strconv"
)

// TargetUnit is the unit a goal or habit target value is measured in.
type TargetUnit string

const (
	UnitNone       TargetUnit = "none"
	UnitCount      TargetUnit = "count"
	UnitMinutes    TargetUnit = "minutes"
	UnitHours      TargetUnit = "hours"
	UnitKilometers TargetUnit = "kilometers"
	UnitPages      TargetUnit = "pages"
	UnitGlasses    TargetUnit = "glasses"
)

func (u TargetUnit) IsValid() bool {
	switch u {
	case UnitNone, UnitCount, UnitMinutes, UnitHours, UnitKilometers, UnitPages, UnitGlasses:
		return true
	}
	return false
}

// Format renders a value in this unit for display.
// Whole numbers drop the decimal part ("3 pages", not "3.0 pages").
func (u TargetUnit) Format(value float64) string {
	n := strconv.FormatFloat(value, 'f', -1, 64)
	switch u {
	case UnitCount:
		return n + "x"
	case UnitMinutes:
		return n + " min"
	case UnitHours:
		return n + " hr"
	case UnitKilometers:
		return n + " km"
	case UnitPages:
		return fmt.Sprintf("%s pages", n)
	case UnitGlasses:
		return fmt.Sprintf("%s glasses", n)
	default:
		return n
	}
}
