package serialdelay

import (
	"sort"
	"strings"
)

type scoreSignal struct {
	terms  []string
	weight int
}

// Any one term in a signal earns its weight once.
var scoreSignals = []scoreSignal{
	{terms: []string{"teensy"}, weight: 50},
	{terms: []string{"pjrc"}, weight: 30},
	{terms: []string{"usb serial"}, weight: 10},
	{terms: []string{"ttyacm"}, weight: 8},
	{terms: []string{"usbmodem", "usbserial"}, weight: 8},
	{terms: []string{"bluetooth"}, weight: -50},
}

// Score rates how much a port looks like the target board
func Score(p PortDescriptor) int {
	text := strings.ToLower(strings.Join([]string{
		p.Device, p.Description, p.Manufacturer, p.HardwareID,
	}, " "))

	score := 0
	for _, s := range scoreSignals {
		for _, term := range s.terms {
			if strings.Contains(text, term) {
				score += s.weight
				break
			}
		}
	}
	return score
}

// AutoPick returns the device of the best scoring port. Equal scores keep
// enumeration order. The result is a default to offer, not a verified identity.
func AutoPick(ports []PortDescriptor) (string, bool) {
	if len(ports) == 0 {
		return "", false
	}

	ranked := make([]PortDescriptor, len(ports))
	copy(ranked, ports)
	sort.SliceStable(ranked, func(i, j int) bool {
		return Score(ranked[i]) > Score(ranked[j])
	})
	return ranked[0].Device, true
}
