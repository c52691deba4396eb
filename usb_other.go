//go:build !linux

package serialdelay

// usbManufacturer is only resolved from sysfs on Linux.
func usbManufacturer(string) string {
	return ""
}
