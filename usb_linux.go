//go:build linux

package serialdelay

import (
	"os"
	"path/filepath"
	"strings"
)

var sysfsRoot = "/sys"

// usbManufacturer walks up from the tty's device node in sysfs to the USB
// device that carries the manufacturer string. Returns "" when unavailable.
func usbManufacturer(name string) string {
	devicePath, err := filepath.EvalSymlinks(filepath.Join(sysfsRoot, "class", "tty", name, "device"))
	if err != nil {
		return ""
	}

	// interface dir for ACM, one level deeper for usb-serial converters
	dir := devicePath
	for i := 0; i < 3; i++ {
		dir = filepath.Dir(dir)
		if m := readSysfsFile(filepath.Join(dir, "manufacturer")); m != "" {
			return m
		}
	}
	return ""
}

// readSysfsFile reads a sysfs attribute and trims whitespace
func readSysfsFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
