//go:build linux

package serialdelay

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial/enumerator"
)

// fakeSysfs lays out a tty whose device link points at a USB interface
// directory, mirroring /sys/class/tty/<name>/device on a real system.
func fakeSysfs(t *testing.T, name, manufacturer string, depth int) string {
	t.Helper()
	root := t.TempDir()

	usbDevice := filepath.Join(root, "devices", "pci0000:00", "usb1", "1-1")
	iface := filepath.Join(usbDevice, "1-1:1.0")
	for i := 1; i < depth; i++ {
		iface = filepath.Join(iface, "sub")
	}
	require.NoError(t, os.MkdirAll(iface, 0o755))
	if manufacturer != "" {
		mkdirWrite(t, filepath.Join(usbDevice, "manufacturer"), manufacturer+"\n")
	}

	ttyDir := filepath.Join(root, "class", "tty", name)
	require.NoError(t, os.MkdirAll(ttyDir, 0o755))
	require.NoError(t, os.Symlink(iface, filepath.Join(ttyDir, "device")))
	return root
}

func withSysfsRoot(t *testing.T, root string) {
	t.Helper()
	orig := sysfsRoot
	sysfsRoot = root
	t.Cleanup(func() { sysfsRoot = orig })
}

func TestUSBManufacturerACM(t *testing.T) {
	withSysfsRoot(t, fakeSysfs(t, "ttyACM0", "Teensyduino", 1))
	assert.Equal(t, "Teensyduino", usbManufacturer("ttyACM0"))
}

func TestUSBManufacturerConverter(t *testing.T) {
	// usb-serial converters expose the tty one level below the interface
	withSysfsRoot(t, fakeSysfs(t, "ttyUSB0", "FTDI", 2))
	assert.Equal(t, "FTDI", usbManufacturer("ttyUSB0"))
}

func TestUSBManufacturerMissing(t *testing.T) {
	withSysfsRoot(t, fakeSysfs(t, "ttyACM0", "", 1))
	assert.Empty(t, usbManufacturer("ttyACM0"))
	assert.Empty(t, usbManufacturer("ttyACM7"))
}

func TestListPortsManufacturer(t *testing.T) {
	withSysfsRoot(t, fakeSysfs(t, "ttyACM0", "Teensyduino", 1))
	stubPortsList(t, []*enumerator.PortDetails{
		{Name: "/dev/ttyACM0", IsUSB: true, VID: "16c0", PID: "0483", Product: "USB Serial"},
	}, nil)

	ports := ListPorts()
	require.Len(t, ports, 1)
	assert.Equal(t, "Teensyduino", ports[0].Manufacturer)

	port, ok := AutoPick(ports)
	assert.True(t, ok)
	assert.Equal(t, "/dev/ttyACM0", port)
}

// mkdirWrite creates path's parent directories and writes content to it
func mkdirWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
