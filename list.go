package serialdelay

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.bug.st/serial/enumerator"
	"go.uber.org/zap"
)

// PortDescriptor describes one enumerated serial interface
type PortDescriptor struct {
	Device       string
	Description  string
	Manufacturer string
	HardwareID   string
	IsUSB        bool
	VID          string
	PID          string
	SerialNumber string
}

// swapped out in tests
var (
	detailedPortsList  = enumerator.GetDetailedPortsList
	lookupManufacturer = usbManufacturer
)

// ListPorts returns the serial ports currently present on the system.
// Enumeration failures are logged through the global zap logger and yield an
// empty list.
func ListPorts() []PortDescriptor {
	return listPorts(zap.S())
}

func listPorts(logger *zap.SugaredLogger) []PortDescriptor {
	details, err := detailedPortsList()
	if err != nil {
		logger.Warnw("Failed to enumerate serial ports", "error", err)
		return []PortDescriptor{}
	}

	ports := make([]PortDescriptor, 0, len(details))
	for _, d := range details {
		if d == nil {
			continue
		}
		ports = append(ports, describePort(d))
	}
	logger.Debugw("Enumerated serial ports", "count", len(ports))
	return ports
}

func describePort(d *enumerator.PortDetails) PortDescriptor {
	name := filepath.Base(d.Name)
	p := PortDescriptor{
		Device:       d.Name,
		Description:  d.Product,
		IsUSB:        d.IsUSB,
		VID:          strings.ToUpper(d.VID),
		PID:          strings.ToUpper(d.PID),
		SerialNumber: d.SerialNumber,
		HardwareID:   "n/a",
	}
	if p.Description == "" {
		p.Description = getPortDescription(name)
	}
	if d.IsUSB {
		p.HardwareID = fmt.Sprintf("USB VID:PID=%s:%s", p.VID, p.PID)
		if d.SerialNumber != "" {
			p.HardwareID += " SER=" + d.SerialNumber
		}
		p.Manufacturer = lookupManufacturer(name)
	}
	return p
}

// getPortDescription provides human-readable descriptions for different port types
func getPortDescription(name string) string {
	switch {
	case strings.HasPrefix(name, "ttyUSB"):
		return "USB Serial Port"
	case strings.HasPrefix(name, "ttyACM"):
		return "USB CDC/ACM Device"
	case strings.HasPrefix(name, "cu.usbmodem"), strings.HasPrefix(name, "tty.usbmodem"):
		return "USB Modem"
	case strings.HasPrefix(name, "ttyAMA"):
		return "ARM Serial Port"
	case strings.HasPrefix(name, "ttyS"):
		return "Standard Serial Port"
	default:
		return "Serial Port"
	}
}
