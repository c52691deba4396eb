package serialdelay

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"go.bug.st/serial/enumerator"
	"go.uber.org/zap"
)

func stubPortsList(t *testing.T, details []*enumerator.PortDetails, err error) {
	t.Helper()
	orig := detailedPortsList
	detailedPortsList = func() ([]*enumerator.PortDetails, error) {
		return details, err
	}
	t.Cleanup(func() { detailedPortsList = orig })
}

func TestListPortsEmpty(t *testing.T) {
	stubPortsList(t, nil, nil)

	ports := ListPorts()
	assert.NotNil(t, ports)
	assert.Empty(t, ports)

	_, ok := AutoPick(ports)
	assert.False(t, ok)
}

func TestListPortsEnumerationError(t *testing.T) {
	stubPortsList(t, nil, errors.New("permission denied"))

	ports := listPorts(zap.NewNop().Sugar())
	assert.NotNil(t, ports)
	assert.Empty(t, ports)
}

func TestListPortsDescriptors(t *testing.T) {
	stubPortsList(t, []*enumerator.PortDetails{
		{Name: "/dev/ttyS0"},
		nil,
		{Name: "/dev/ttyUSB0", IsUSB: true, VID: "0403", PID: "6001"},
		{Name: "/dev/ttyACM0", IsUSB: true, VID: "16c0", PID: "0483", SerialNumber: "12345", Product: "USB Serial"},
	}, nil)

	want := []PortDescriptor{
		{
			Device:      "/dev/ttyS0",
			Description: "Standard Serial Port",
			HardwareID:  "n/a",
		},
		{
			Device:      "/dev/ttyUSB0",
			Description: "USB Serial Port",
			HardwareID:  "USB VID:PID=0403:6001",
			IsUSB:       true,
			VID:         "0403",
			PID:         "6001",
		},
		{
			Device:       "/dev/ttyACM0",
			Description:  "USB Serial",
			HardwareID:   "USB VID:PID=16C0:0483 SER=12345",
			IsUSB:        true,
			VID:          "16C0",
			PID:          "0483",
			SerialNumber: "12345",
		},
	}

	// keep the host's sysfs out of it
	orig := lookupManufacturer
	lookupManufacturer = func(string) string { return "" }
	t.Cleanup(func() { lookupManufacturer = orig })

	if diff := cmp.Diff(want, ListPorts()); diff != "" {
		t.Errorf("ListPorts() mismatch (-want +got):\n%s", diff)
	}
}

func TestGetPortDescription(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"ttyUSB0", "USB Serial Port"},
		{"ttyACM0", "USB CDC/ACM Device"},
		{"cu.usbmodem14101", "USB Modem"},
		{"tty.usbmodem14101", "USB Modem"},
		{"ttyAMA0", "ARM Serial Port"},
		{"ttyS0", "Standard Serial Port"},
		{"COM3", "Serial Port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := getPortDescription(tt.name); got != tt.want {
				t.Errorf("getPortDescription(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}
