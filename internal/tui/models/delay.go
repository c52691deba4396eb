package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Delay gauge range in milliseconds
const (
	DelayMin  = 0.0
	DelayMax  = 1000.0
	DelayStep = 0.1
)

// DefaultDelay is the value shown before the user touches the gauge
const DefaultDelay = 20.0

// Delay is the gauge value. It is always inside [DelayMin, DelayMax] and on
// a DelayStep boundary.
type Delay struct {
	value float64
}

func NewDelay(initial float64) Delay {
	var d Delay
	d.Set(initial)
	return d
}

func (d Delay) Value() float64 {
	return d.value
}

// Set clamps v into range and snaps it to the step
func (d *Delay) Set(v float64) {
	if math.IsNaN(v) {
		return
	}
	v = math.Max(DelayMin, math.Min(DelayMax, v))
	// divide rather than multiply by DelayStep so 0.3 stays 0.3 on the wire
	d.value = math.Round(v/DelayStep) / (1 / DelayStep)
}

// Nudge moves the value by delta milliseconds
func (d *Delay) Nudge(delta float64) {
	d.Set(d.value + delta)
}

// Fraction is the position of the value in the range, 0 to 1
func (d Delay) Fraction() float64 {
	return (d.value - DelayMin) / (DelayMax - DelayMin)
}

// Label renders the value for the gauge readout
func (d Delay) Label() string {
	return fmt.Sprintf("%.1f ms", d.value)
}

// EntryText renders the value for the exact-entry field
func (d Delay) EntryText() string {
	return strconv.FormatFloat(d.value, 'f', -1, 64)
}

// ParseDelay parses an exact entry. Out of range values are clamped by Set.
func ParseDelay(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "ms"))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number: %q", s)
	}
	return v, nil
}
