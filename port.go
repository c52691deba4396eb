package serialdelay

// Link is an open serial device handle as seen by the client.
type Link interface {
	Read(buf []byte) (int, error)
	Write(data []byte) (int, error)
	// InWaiting reports how many received bytes can be read without blocking.
	InWaiting() (int, error)
	SetDTR(state bool) error
	FlushInput() error
	FlushOutput() error
	IsOpen() bool
	Close() error
}

// OpenLink opens device with the given configuration.
func OpenLink(device string, config Config) (Link, error) {
	return openLink(device, config)
}
