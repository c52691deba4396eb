package serialdelay

import (
	"errors"
	"fmt"
)

// Predefined error types for robust error handling
var (
	ErrConnection      = errors.New("serial connection failed")
	ErrNotConnected    = errors.New("not connected")
	ErrCommandTooLong  = fmt.Errorf("command too long for device buffer (max %d chars)", MaxLineLength)
	ErrPortClosed      = errors.New("serial port is closed")
	ErrInvalidBaudRate = errors.New("invalid baud rate")
	ErrInvalidConfig   = errors.New("invalid serial configuration")
)

// ConnectionError reports that a device could not be opened. It matches
// ErrConnection with errors.Is and unwraps to the underlying cause.
type ConnectionError struct {
	Port string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to open %s: %v", e.Port, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

func (e *ConnectionError) Is(target error) bool {
	return target == ErrConnection
}
